package file

import (
	"strings"

	"github.com/Cyclone1070/aiterm/internal/contextstate"
	"github.com/Cyclone1070/aiterm/internal/tool"
)

// -- Read File --

type ReadFileRequest struct {
	Path string `json:"path"`
}

func (r *ReadFileRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return ErrPathRequired
	}
	return nil
}

func (r *ReadFileRequest) String() string { return "Reading " + r.Path }

// -- Read Directory --

type ReadDirectoryRequest struct {
	Path string `json:"path"`
}

func (r *ReadDirectoryRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return ErrPathRequired
	}
	return nil
}

func (r *ReadDirectoryRequest) String() string { return "Listing " + r.Path }

// Result is what both tools hand back to the tool manager.
type Result struct {
	content string
	display tool.StringDisplay
}

func (r *Result) LLMContent() string        { return r.content }
func (r *Result) Display() tool.ToolDisplay { return r.display }

// contextStore is the part of the context store the tools mutate.
type contextStore interface {
	AddFile(path string, reason contextstate.InclusionReason) contextstate.ContextFile
	AddDirectory(path string, reason contextstate.InclusionReason) contextstate.ContextDirectory
}

// pathResolver resolves model supplied paths against the working directory.
type pathResolver interface {
	Abs(path string) (string, error)
	Display(path string) string
}
