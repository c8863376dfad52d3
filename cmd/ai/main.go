// Package main is the aiterm command: an interactive terminal chat with a
// Gemini model that can read files and run shell commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Cyclone1070/aiterm/internal/chat"
	"github.com/Cyclone1070/aiterm/internal/config"
	"github.com/Cyclone1070/aiterm/internal/contextstate"
	"github.com/Cyclone1070/aiterm/internal/conversation"
	"github.com/Cyclone1070/aiterm/internal/editor"
	"github.com/Cyclone1070/aiterm/internal/interrupt"
	"github.com/Cyclone1070/aiterm/internal/logging"
	"github.com/Cyclone1070/aiterm/internal/progress"
	"github.com/Cyclone1070/aiterm/internal/provider"
	"github.com/Cyclone1070/aiterm/internal/provider/gemini"
	"github.com/Cyclone1070/aiterm/internal/tool/file"
	"github.com/Cyclone1070/aiterm/internal/tool/service/executor"
	"github.com/Cyclone1070/aiterm/internal/tool/service/fs"
	"github.com/Cyclone1070/aiterm/internal/tool/service/git"
	"github.com/Cyclone1070/aiterm/internal/tool/service/path"
	"github.com/Cyclone1070/aiterm/internal/tool/shell"
	"github.com/Cyclone1070/aiterm/internal/workflow"
	"github.com/Cyclone1070/aiterm/internal/workflow/loop"
	"github.com/Cyclone1070/aiterm/internal/workflow/toolmanager"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const markdownWidth = 100

// options are the command line overrides.
type options struct {
	configPath string
	model      string
	port       int
	verbose    bool
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "aiterm",
		Short:         "Chat with a model that can read your files and run commands",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}
			if err := run(cmd.Context(), cfg, os.Getenv("GEMINI_API_KEY")); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to the config file")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "model to chat with")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "port of the editor extension")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "log at debug level")
	return cmd
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.NewLoader().LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Provider.Model = opts.model
	}
	if flags.Changed("port") {
		cfg.Editor.Port = opts.port
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY", provider.ErrMissingAPIKey)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	workDir, err := path.CanonicaliseRoot(cwd)
	if err != nil {
		return err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("home directory unknown", zap.Error(err))
	}
	paths := path.NewResolver(workDir, home)

	out := io.Writer(os.Stdout)
	osFS := fs.NewOSFileSystem()

	store, err := contextstate.New(cfg.Context, osFS, logger.Named("context"))
	if err != nil {
		return err
	}

	handler := interrupt.NewHandler(logger.Named("interrupt"))
	go interrupt.Listen(ctx, handler)

	esc := interrupt.NewEscalation(time.Duration(cfg.Interrupt.EscalationThresholdMs) * time.Millisecond)
	root := interrupt.RootOptions(esc,
		func() { fmt.Fprintln(out, "^C") },
		func() {
			fmt.Fprintln(out, "Goodbye!")
			if err := store.Dispose(); err != nil {
				logger.Warn("failed to dispose context store", zap.Error(err))
			}
			_ = logger.Sync()
			os.Exit(0)
		},
	)

	client, err := gemini.NewRealGeminiClientFromKey(ctx, apiKey)
	if err != nil {
		return err
	}
	model := gemini.New(client, cfg.Provider.Model, logger.Named("gemini"))

	ignore, err := git.NewIgnoreMatcher(workDir, osFS)
	if err != nil {
		logger.Warn("gitignore not loaded", zap.Error(err))
		ignore = nil
	}

	markdown, err := chat.NewMarkdownRenderer(markdownWidth)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	reader := chat.NewReader(handler, os.Stdin, out, logger.Named("input"))
	newRenderer := func() progress.Renderer { return progress.NewTerminalRenderer(out, terminalWidth) }

	tools := toolmanager.NewToolManager(logger.Named("tools"),
		file.NewReadFileTool(store, paths),
		file.NewReadDirectoryTool(store, paths),
		shell.NewShellTool(
			executor.NewOSCommandExecutor(cfg.Shell, logger.Named("executor")),
			reader, handler, newRenderer, out, workDir, logger.Named("shell"),
		),
	)

	conv := conversation.New()
	promptLoop := loop.NewLoop(loop.Deps{
		Provider:     model,
		Tools:        tools,
		Conversation: conv,
		Context:      store,
		Prompter:     reader,
		Handler:      handler,
		NewRenderer:  newRenderer,
		Markdown:     markdown,
		Out:          out,
		Events:       logEvents(logger.Named("events")),
		Logger:       logger.Named("loop"),
	}, cfg.Provider.SystemPrompt, cfg.Provider.MaxIterations)

	deps := chat.Deps{
		Loop:         promptLoop,
		Conversation: conv,
		Context:      store,
		Input:        reader,
		FileSystem:   osFS,
		Paths:        paths,
		Out:          out,
		Logger:       logger.Named("chat"),
	}
	if ignore != nil {
		deps.Ignore = ignore
	}
	if cfg.Editor.Port != 0 {
		bridge := editor.New(
			editor.URL(cfg.Editor.Port),
			time.Duration(cfg.Editor.ReconnectIntervalMs)*time.Millisecond,
			store,
			logger.Named("editor"),
		)
		go bridge.Run(ctx)
		deps.Editor = bridge
	}
	session := chat.NewSession(deps)

	logger.Info("session started", zap.String("model", model.Model()), zap.String("work_dir", workDir))
	fmt.Fprintf(out, "Beginning session with %s...\n\n", model.Model())

	_, err = interrupt.Enter(handler, func(*interrupt.Signal) (struct{}, error) {
		return struct{}{}, session.Run(ctx)
	}, root)

	if disposeErr := store.Dispose(); disposeErr != nil {
		logger.Warn("failed to dispose context store", zap.Error(disposeErr))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("session failed", zap.Error(err))
		return err
	}
	fmt.Fprintln(out, "Goodbye!")
	return nil
}

// logEvents records workflow events in the log.
func logEvents(logger *zap.Logger) workflow.Sink {
	return func(ev workflow.Event) {
		switch ev := ev.(type) {
		case workflow.ToolStartEvent:
			logger.Debug("tool started", zap.String("tool", ev.ToolName))
		case workflow.ToolEndEvent:
			logger.Debug("tool finished", zap.String("tool", ev.ToolName))
		case workflow.MaxIterationsEvent:
			logger.Info("max iterations reached", zap.Int("limit", ev.Limit))
		case workflow.TextEvent:
			logger.Debug("model text", zap.Int("length", len(ev.Text)))
		}
	}
}

// terminalWidth reports the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}
