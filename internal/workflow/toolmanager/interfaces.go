package toolmanager

import (
	"context"

	"github.com/Cyclone1070/aiterm/internal/tool"
)

// toolImpl defines the interface for individual tools.
// Request structs should implement fmt.Stringer for display.
type toolImpl interface {
	// Name returns the tool's identifier.
	Name() string

	// Declaration returns the tool's schema for the LLM.
	Declaration() tool.Declaration

	// Input returns a pointer to the input struct (e.g., &ReadFileRequest{}).
	// Fields are decoded from the call arguments by their json tags.
	Input() any

	// Execute runs the tool with typed input and returns a tool.Result.
	Execute(ctx context.Context, call tool.Call, input any) (tool.Result, error)
}

// validator is implemented by request types that check their own fields.
type validator interface {
	Validate() error
}
