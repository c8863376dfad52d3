package tool

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Declaration declares a tool's function signature for the LLM.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Call identifies one invocation of a tool by the model.
type Call struct {
	// ID is the tool-use id; files a tool touches are tracked under it.
	ID   string
	Name string
}

// Choice is one answer to a confirmation question.
type Choice struct {
	Name        string
	Description string
	Default     bool
}

// Result is returned by tools after execution.
type Result interface {
	// LLMContent returns the string content sent to the LLM.
	LLMContent() string

	// Display returns the display type for UI rendering.
	Display() ToolDisplay
}

// ToolDisplay is implemented by all display types returned from tools.
// The UI uses type switches to render each type appropriately.
type ToolDisplay interface {
	isToolDisplay()
}

// StringDisplay is for simple text output (most tools).
type StringDisplay string

func (StringDisplay) isToolDisplay() {}

// ShellDisplay is for shell commands. Output was already rendered live
// while the command ran, so only the summary is left to show.
type ShellDisplay struct {
	Command  string
	Edited   bool
	Skipped  bool
	ExitCode int
	Error    string
}

func (ShellDisplay) isToolDisplay() {}
