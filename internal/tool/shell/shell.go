package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Cyclone1070/aiterm/internal/interrupt"
	"github.com/Cyclone1070/aiterm/internal/progress"
	"github.com/Cyclone1070/aiterm/internal/tool"
	"github.com/Cyclone1070/aiterm/internal/tool/service/executor"
	"go.uber.org/zap"
)

var confirmChoices = []tool.Choice{
	{Name: "y", Description: "execute the command as-is"},
	{Name: "n", Description: "skip execution and continue conversation", Default: true},
	{Name: "e", Description: "edit this command"},
}

// ShellTool executes commands on the local machine after the user
// confirmed them.
type ShellTool struct {
	commandExecutor commandExecutor
	prompter        prompter
	handler         *interrupt.Handler
	newRenderer     func() progress.Renderer
	out             io.Writer
	workDir         string
	logger          *zap.Logger
}

// NewShellTool creates a new ShellTool with injected dependencies.
// newRenderer may be nil, in which case progress is not drawn.
func NewShellTool(
	commandExecutor commandExecutor,
	prompter prompter,
	handler *interrupt.Handler,
	newRenderer func() progress.Renderer,
	out io.Writer,
	workDir string,
	logger *zap.Logger,
) *ShellTool {
	if commandExecutor == nil {
		panic("commandExecutor is required")
	}
	if prompter == nil {
		panic("prompter is required")
	}
	if handler == nil {
		panic("handler is required")
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShellTool{
		commandExecutor: commandExecutor,
		prompter:        prompter,
		handler:         handler,
		newRenderer:     newRenderer,
		out:             out,
		workDir:         workDir,
		logger:          logger,
	}
}

func (t *ShellTool) Name() string { return "shell_execute" }

func (t *ShellTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "Execute a shell command. The user confirms every command and may edit or skip it.",
		Parameters: &tool.Schema{
			Type:        tool.TypeObject,
			Description: "The command payload.",
			Properties: map[string]*tool.Schema{
				"command": {Type: tool.TypeString, Description: "The shell command to execute."},
			},
			Required: []string{"command"},
		},
	}
}

func (t *ShellTool) Input() any { return &ShellRequest{} }

func (t *ShellTool) Execute(ctx context.Context, call tool.Call, input any) (tool.Result, error) {
	req, ok := input.(*ShellRequest)
	if !ok {
		return nil, fmt.Errorf("unexpected input type %T", input)
	}
	return t.Run(ctx, call, req)
}

// Run confirms and runs the command. A failing or interrupted command
// is not an error: its partial output goes back to the model with the
// failure message.
func (t *ShellTool) Run(ctx context.Context, call tool.Call, req *ShellRequest) (*ShellResult, error) {
	fmt.Fprintln(t.out, formatCommand(req.Command))

	command, err := t.confirm(ctx, req.Command)
	if err != nil {
		return nil, err
	}
	if command == "" {
		fmt.Fprintln(t.out, info("No code was executed."))
		fmt.Fprintln(t.out)
		return &ShellResult{
			UserCanceled: true,
			display:      tool.ShellDisplay{Command: req.Command, Skipped: true},
		}, nil
	}

	edited := command != req.Command
	var (
		proc     atomic.Pointer[executor.Process]
		exitCode = -1
	)
	res := progress.Run(t.handler, func(sig *interrupt.Signal, update progress.Updater[[]executor.OutputLine]) ([]executor.OutputLine, error) {
		output, code, err := t.run(sig, command, update, &proc)
		exitCode = code
		return output, err
	}, progress.PrefixFormatter(progress.Formatters[[]executor.OutputLine, []executor.OutputLine]{
		Progress: func(out []executor.OutputLine) string { return withOutput("Executing command...", out) },
		Success:  func(out []executor.OutputLine) string { return withOutput("Command succeeded.", out) },
		Failure: func(out []executor.OutputLine, _ string) string {
			return withOutput("Command failed.", out)
		},
	}), t.renderer(), progress.Options{OnAbort: func() {
		if p := proc.Load(); p != nil {
			p.Kill()
		}
	}})

	result := &ShellResult{
		display: tool.ShellDisplay{Command: command, Edited: edited},
	}
	if edited {
		result.UserEditedCommand = command
	}

	if !res.OK {
		fmt.Fprintln(t.out, errorStyle.Render(res.Error))
		fmt.Fprintln(t.out)
		result.Output = res.Snapshot
		result.Error = res.Error
		result.display.Error = res.Error
		result.display.ExitCode = exitCode
		t.logger.Info("shell command failed", zap.String("tool_use_id", call.ID), zap.String("error", res.Error))
		return result, nil
	}

	result.Output = res.Response
	result.display.ExitCode = exitCode
	t.logger.Info("shell command succeeded", zap.String("tool_use_id", call.ID))
	return result, nil
}

// confirm asks until the user runs or skips the command. It returns the
// command to run, or "" when skipped.
func (t *ShellTool) confirm(ctx context.Context, command string) (string, error) {
	for {
		answer, err := t.prompter.Choice(ctx, "Execute this command", confirmChoices)
		if err != nil {
			return "", err
		}

		switch answer {
		case "y":
			return command, nil
		case "n":
			return "", nil
		case "e":
			edited, err := t.prompter.Edit(ctx, "Edit command", command)
			if err != nil {
				if !errors.Is(err, interrupt.ErrCanceled) {
					return "", err
				}
				fmt.Fprintln(t.out, "User canceled edit")
				continue
			}
			command = edited

			fmt.Fprintln(t.out)
			fmt.Fprintln(t.out, info("Command edited:"))
			fmt.Fprintln(t.out)
			fmt.Fprintln(t.out, formatCommand(command))
		default:
			return "", &UnknownChoiceError{Answer: answer}
		}
	}
}

// run starts the command and aggregates its output into snapshots until
// it exits. Output arriving after an abort is dropped. The exit code is
// -1 when the command never ran.
func (t *ShellTool) run(
	sig *interrupt.Signal,
	command string,
	update progress.Updater[[]executor.OutputLine],
	current *atomic.Pointer[executor.Process],
) ([]executor.OutputLine, int, error) {
	proc, err := t.commandExecutor.Start(command, t.workDir)
	if err != nil {
		return nil, -1, err
	}
	current.Store(proc)
	defer current.Store(nil)

	// The interrupt may have landed between Start and Store.
	if sig.Aborted() {
		proc.Kill()
	}

	var (
		mu     sync.Mutex
		output []executor.OutputLine
	)
	res, err := proc.Wait(func(line executor.OutputLine) {
		if sig.Aborted() {
			return
		}
		mu.Lock()
		output = append(output, line)
		snapshot := slices.Clone(output)
		mu.Unlock()
		update(snapshot)
	})

	mu.Lock()
	defer mu.Unlock()

	code := -1
	if res != nil {
		code = res.ExitCode
	}
	t.logger.Debug("shell command exited", zap.Int("exit_code", code), zap.Bool("aborted", sig.Aborted()))

	if sig.Aborted() {
		return output, code, interrupt.ErrCanceled
	}
	return output, code, err
}

func (t *ShellTool) renderer() progress.Renderer {
	if t.newRenderer == nil {
		return nil
	}
	return t.newRenderer()
}
