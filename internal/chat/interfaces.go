package chat

import (
	"context"
	"os"

	"github.com/Cyclone1070/aiterm/internal/contextstate"
)

type runner interface {
	Run(ctx context.Context) error
}

type messageLog interface {
	PushUser(text string)
	VisibleToolUseIDs() []string
}

type contextStore interface {
	AddFile(path string, reason contextstate.InclusionReason) contextstate.ContextFile
	AddDirectory(path string, reason contextstate.InclusionReason) contextstate.ContextDirectory
	Files() []contextstate.ContextFile
	Directories() []contextstate.ContextDirectory
}

type lineReader interface {
	ReadLine(ctx context.Context, prompt, initial string) (string, error)
}

type globber interface {
	Glob(patterns []string, keep func(os.FileInfo) bool) ([]string, error)
}

type ignoreFilter interface {
	Filter(paths []string, isDir func(string) bool) []string
}

type editorChanges interface {
	Changes() <-chan []string
}

type pathDisplay interface {
	Display(path string) string
}
