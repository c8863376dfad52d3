package executor

import (
	"errors"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cyclone1070/aiterm/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result represents the outcome of a command execution.
type Result struct {
	ExitCode  int
	Truncated bool
}

// OSCommandExecutor runs commands through the configured shell.
type OSCommandExecutor struct {
	config config.ShellConfig
	logger *zap.Logger
}

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg config.ShellConfig, logger *zap.Logger) *OSCommandExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OSCommandExecutor{config: cfg, logger: logger}
}

// Process is a started command. Its output is consumed by Wait.
type Process struct {
	cmd      *exec.Cmd
	stdout   io.ReadCloser
	stderr   io.ReadCloser
	maxBytes int
	timeout  time.Duration
	logger   *zap.Logger

	killOnce sync.Once
	timedOut atomic.Bool
}

// Start runs `<shell> -c command` in dir, in its own process group.
func (e *OSCommandExecutor) Start(command, dir string) (*Process, error) {
	cmd := exec.Command(e.config.Shell, "-c", command)
	cmd.Dir = dir
	cmd.Stdin = nil
	setProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &CommandError{Cmd: e.config.Shell, Cause: err, Stage: "start"}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &CommandError{Cmd: e.config.Shell, Cause: err, Stage: "start"}
	}

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: e.config.Shell, Cause: err, Stage: "start"}
	}
	e.logger.Debug("command started", zap.Int("pid", cmd.Process.Pid), zap.String("shell", e.config.Shell))

	return &Process{
		cmd:      cmd,
		stdout:   stdoutPipe,
		stderr:   stderrPipe,
		maxBytes: int(e.config.MaxCommandOutputSize),
		timeout:  time.Duration(e.config.TimeoutSeconds) * time.Second,
		logger:   e.logger,
	}, nil
}

// Kill forcibly terminates the process and everything it spawned.
func (p *Process) Kill() {
	p.killOnce.Do(func() {
		if err := killProcessGroup(p.cmd); err != nil {
			p.logger.Warn("failed to kill process group", zap.Error(err))
		}
	})
}

// Wait streams output to onOutput until both pipes close, then reaps the
// process. A non-zero exit is reported as *ExitError alongside the result.
func (p *Process) Wait(onOutput func(OutputLine)) (*Result, error) {
	c := newCollector(p.maxBytes, binarySampleSize, onOutput)

	if p.timeout > 0 {
		timer := time.AfterFunc(p.timeout, func() {
			p.timedOut.Store(true)
			p.Kill()
		})
		defer timer.Stop()
	}

	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(c.writer(Stdout), p.stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(c.writer(Stderr), p.stderr)
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Debug("output copy ended with error", zap.Error(err))
	}

	waitErr := p.cmd.Wait()
	res := &Result{ExitCode: exitCode(p.cmd, waitErr), Truncated: c.Truncated()}
	p.logger.Debug("command exited", zap.Int("exit_code", res.ExitCode), zap.Bool("truncated", res.Truncated))

	if p.timedOut.Load() {
		return res, ErrTimeout
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return res, &ExitError{Code: res.ExitCode}
		}
		return res, &CommandError{Cmd: p.cmd.Path, Cause: waitErr, Stage: "wait"}
	}
	return res, nil
}
