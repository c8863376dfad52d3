package loop

import (
	"context"

	"github.com/Cyclone1070/aiterm/internal/contextstate"
	"github.com/Cyclone1070/aiterm/internal/provider"
	"github.com/Cyclone1070/aiterm/internal/tool"
	"github.com/Cyclone1070/aiterm/internal/workflow"
)

// llmProvider communicates with an LLM.
type llmProvider interface {
	// Prompt streams a response, reporting the accumulated response to
	// onProgress, and returns the partial response alongside any error.
	Prompt(ctx context.Context, req *provider.Request, onProgress func(provider.Response)) (*provider.Response, error)
}

// toolManager manages tool storage and execution.
type toolManager interface {
	// Declarations returns all tool schemas for the LLM.
	Declarations() []tool.Declaration

	// Execute runs a tool call and returns its result.
	// It emits ToolStartEvent and ToolEndEvent to events.
	Execute(ctx context.Context, tc provider.ToolCall, events workflow.Sink) (provider.ToolResult, error)
}

// conversation is the message log prompts are built from.
type conversation interface {
	Messages() []provider.Message
	Append(msg provider.Message)
	VisibleToolUseIDs() []string
}

// contextSource lists the tracked files and directories.
type contextSource interface {
	Files() []contextstate.ContextFile
	Directories() []contextstate.ContextDirectory
}

// prompter asks the user multiple-choice questions.
type prompter interface {
	Choice(ctx context.Context, question string, choices []tool.Choice) (string, error)
}

// markdownRenderer renders assistant text for the terminal.
type markdownRenderer interface {
	Render(in string) (string, error)
}
