package shell

import (
	"context"

	"github.com/Cyclone1070/aiterm/internal/tool"
	"github.com/Cyclone1070/aiterm/internal/tool/service/executor"
)

// commandExecutor starts shell commands.
type commandExecutor interface {
	Start(command, dir string) (*executor.Process, error)
}

// prompter asks the user to confirm or edit a command. Edit returns
// interrupt.ErrCanceled when the user backs out of the edit.
type prompter interface {
	Choice(ctx context.Context, question string, choices []tool.Choice) (string, error)
	Edit(ctx context.Context, label, initial string) (string, error)
}
