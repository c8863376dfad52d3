package shell

import (
	"encoding/json"
	"strings"

	"github.com/Cyclone1070/aiterm/internal/tool"
	"github.com/Cyclone1070/aiterm/internal/tool/service/executor"
)

// ShellRequest is the decoded argument payload of shell_execute.
type ShellRequest struct {
	Command string `json:"command"`
}

func (r *ShellRequest) Validate() error {
	if strings.TrimSpace(r.Command) == "" {
		return ErrCommandRequired
	}
	return nil
}

func (r *ShellRequest) String() string { return r.Command }

// ShellResult is what the model sees for one shell_execute call.
type ShellResult struct {
	UserCanceled      bool
	UserEditedCommand string
	Output            []executor.OutputLine
	Error             string

	display tool.ShellDisplay
}

// LLMContent serializes the result. Output chunks are joined back into
// the raw text the command produced.
func (r *ShellResult) LLMContent() string {
	if r.UserCanceled {
		return `{"userCanceled":true}`
	}

	var b strings.Builder
	for _, line := range r.Output {
		b.WriteString(line.Content)
	}

	payload := struct {
		Output            string `json:"output"`
		UserEditedCommand string `json:"userEditedCommand,omitempty"`
		Error             string `json:"error,omitempty"`
	}{
		Output:            b.String(),
		UserEditedCommand: r.UserEditedCommand,
		Error:             r.Error,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return `{"error":"failed to encode shell output"}`
	}
	return string(data)
}

func (r *ShellResult) Display() tool.ToolDisplay { return r.display }
