// Package chat runs the interactive session: it reads user input, handles
// session commands and hands prompts to the model loop.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Cyclone1070/aiterm/internal/contextstate"
	"github.com/Cyclone1070/aiterm/internal/interrupt"
	"github.com/Cyclone1070/aiterm/internal/tool/service/fs"
	"go.uber.org/zap"
)

const inputPrompt = "> "

// Deps are the collaborators of a Session.
type Deps struct {
	Loop         runner
	Conversation messageLog
	Context      contextStore
	Input        lineReader
	FileSystem   globber
	Ignore       ignoreFilter
	// Editor is optional.
	Editor editorChanges

	// Paths shortens paths for display. Nil shows them unchanged.
	Paths pathDisplay

	Out    io.Writer
	Logger *zap.Logger
}

// Session is one interactive chat session.
type Session struct {
	deps   Deps
	logger *zap.Logger
}

func NewSession(deps Deps) *Session {
	if deps.Loop == nil || deps.Conversation == nil || deps.Context == nil || deps.Input == nil {
		panic("loop, conversation, context and input are required")
	}
	if deps.FileSystem == nil {
		panic("file system is required")
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{deps: deps, logger: logger}
}

// Run reads input until the user exits or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	for {
		text, err := s.read(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, interrupt.ErrCanceled) && ctx.Err() == nil:
			continue
		case err != nil:
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, ":") {
			exit, err := s.command(ctx, text)
			if err != nil {
				return err
			}
			if exit {
				return nil
			}
			continue
		}

		s.deps.Conversation.PushUser(text)
		if err := s.deps.Loop.Run(ctx); err != nil {
			return err
		}
	}
}

// read reads one prompt. A change of the editor's open files stops the
// read and restarts it with the text typed so far.
func (s *Session) read(ctx context.Context) (string, error) {
	initial := ""
	for {
		rctx, cancel := context.WithCancel(ctx)
		changed := make(chan struct{})
		go s.watchEditor(rctx, cancel, changed)

		text, err := s.deps.Input.ReadLine(rctx, inputPrompt, initial)
		cancel()

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if err == nil {
			return text, nil
		}
		select {
		case <-changed:
			if !errors.Is(err, context.Canceled) {
				return text, err
			}
			s.println(info("Editor files changed."))
			initial = text
			continue
		default:
		}
		return "", err
	}
}

func (s *Session) watchEditor(ctx context.Context, cancel context.CancelFunc, changed chan<- struct{}) {
	if s.deps.Editor == nil {
		return
	}
	select {
	case <-ctx.Done():
	case files := <-s.deps.Editor.Changes():
		s.logger.Debug("editor change during input", zap.Int("open_files", len(files)))
		close(changed)
		cancel()
	}
}

// command runs a session command and reports whether the session should end.
func (s *Session) command(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case ":exit", ":quit":
		return true, nil
	case ":help":
		s.println(helpText)
	case ":load":
		s.load(args, false)
	case ":loaddir":
		s.load(args, true)
	case ":context":
		s.listContext()
	default:
		s.println(errorStyle.Render(fmt.Sprintf("Unknown command %s. Type :help for a list.", name)))
	}
	return false, ctx.Err()
}

// load adds the files or directories matching patterns to the context and
// tells the model about them.
func (s *Session) load(patterns []string, dirs bool) {
	if len(patterns) == 0 {
		s.println(errorStyle.Render("Usage: :load <patterns...>"))
		return
	}

	keep := fs.IsRegular
	if dirs {
		keep = fs.IsDir
	}
	paths, err := s.deps.FileSystem.Glob(patterns, keep)
	if err != nil {
		s.logger.Warn("load failed", zap.Strings("patterns", patterns), zap.Error(err))
		s.println(errorStyle.Render("Failed to load: " + err.Error()))
		return
	}
	if s.deps.Ignore != nil {
		paths = s.deps.Ignore.Filter(paths, func(string) bool { return dirs })
	}
	if len(paths) == 0 {
		s.println(info("Nothing matched."))
		return
	}

	kind := "file"
	if dirs {
		kind = "directory"
	}
	for _, p := range paths {
		if dirs {
			s.deps.Context.AddDirectory(p, contextstate.Explicit())
		} else {
			s.deps.Context.AddFile(p, contextstate.Explicit())
		}
	}

	display := make([]string, 0, len(paths))
	for _, p := range paths {
		display = append(display, s.relative(p))
	}
	s.logger.Info("loaded into context", zap.String("kind", kind), zap.Strings("paths", display))
	s.println(headerStyle.Render(fmt.Sprintf("Loaded %d %s(s):", len(paths), kind)))
	for _, p := range display {
		s.println("  " + p)
	}
	s.println("")

	s.deps.Conversation.PushUser(fmt.Sprintf("I loaded the following %s(s) into your context:\n%s", kind, strings.Join(display, "\n")))
}

func (s *Session) listContext() {
	visible := s.deps.Conversation.VisibleToolUseIDs()
	files := s.deps.Context.Files()
	dirs := s.deps.Context.Directories()
	if len(files) == 0 && len(dirs) == 0 {
		s.println(info("The context is empty."))
		return
	}
	for _, d := range dirs {
		s.println(formatEntity("dir ", s.relative(d.Path), d.InclusionReasons, contextstate.ShouldIncludeDirectory(d, visible)))
	}
	for _, f := range files {
		s.println(formatEntity("file", s.relative(f.Path), f.InclusionReasons, contextstate.ShouldIncludeFile(f, visible)))
	}
	s.println("")
}

func (s *Session) relative(path string) string {
	if s.deps.Paths == nil {
		return path
	}
	return s.deps.Paths.Display(path)
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.deps.Out, line)
}
