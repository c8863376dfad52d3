package provider

import (
	"context"
	"slices"

	"github.com/Cyclone1070/aiterm/internal/tool"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult answers one ToolCall.
type ToolResult struct {
	ToolCallID string
	Name       string
	Content    string
	Error      string
}

// Message is one entry of the conversation.
type Message struct {
	Role        Role
	Content     string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// Request is everything sent to the model for one prompt.
type Request struct {
	SystemPrompt string
	Messages     []Message
	Tools        []tool.Declaration
}

// Response is the model's answer, or the part of it received so far.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Clone returns a copy that shares no slices with r.
func (r Response) Clone() Response {
	r.ToolCalls = slices.Clone(r.ToolCalls)
	return r
}

// Provider sends prompts to a language model.
type Provider interface {
	// Prompt streams a response for req. onProgress receives the
	// accumulated response after every chunk. On error the partial
	// response received so far is returned alongside it.
	Prompt(ctx context.Context, req *Request, onProgress func(Response)) (*Response, error)
}
