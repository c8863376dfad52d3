package workflow

import "github.com/Cyclone1070/aiterm/internal/tool"

// Event is the interface for all workflow events.
// UI handles events via type switch.
type Event interface {
	isEvent()
}

// Sink receives workflow events synchronously, in the order they happen.
// Tools print to the terminal while they run, so events must not be
// reordered with that output.
type Sink func(Event)

// Emit sends e to s. A nil sink drops the event.
func (s Sink) Emit(e Event) {
	if s != nil {
		s(e)
	}
}

// TextEvent is emitted when the LLM produced its final text for a turn.
type TextEvent struct {
	Text string
}

func (TextEvent) isEvent() {}

// ToolStartEvent is emitted when a tool execution begins.
type ToolStartEvent struct {
	ToolName       string
	RequestDisplay string // e.g., "Reading src/index.ts"
}

func (ToolStartEvent) isEvent() {}

// ToolEndEvent is emitted when a tool completes.
type ToolEndEvent struct {
	ToolName string
	Display  tool.ToolDisplay
}

func (ToolEndEvent) isEvent() {}

// MaxIterationsEvent is emitted when the model kept calling tools past
// the configured limit.
type MaxIterationsEvent struct {
	Limit int
}

func (MaxIterationsEvent) isEvent() {}
