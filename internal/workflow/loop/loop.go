package loop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Cyclone1070/aiterm/internal/interrupt"
	"github.com/Cyclone1070/aiterm/internal/progress"
	"github.com/Cyclone1070/aiterm/internal/provider"
	"github.com/Cyclone1070/aiterm/internal/tool"
	"github.com/Cyclone1070/aiterm/internal/workflow"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle   = lipgloss.NewStyle().Faint(true)

	continueChoices = []tool.Choice{
		{Name: "y", Description: "Re-prompt model"},
		{Name: "n", Description: "Supply a new prompt", Default: true},
	}
)

// Deps are the collaborators of a Loop.
type Deps struct {
	Provider     llmProvider
	Tools        toolManager
	Conversation conversation
	Context      contextSource
	Prompter     prompter
	Handler      *interrupt.Handler

	// NewRenderer creates the live region for one model response. Nil
	// disables live output.
	NewRenderer func() progress.Renderer
	// Markdown renders final assistant text. Nil prints it raw.
	Markdown markdownRenderer

	Out    io.Writer
	Events workflow.Sink
	Logger *zap.Logger
}

// Loop prompts the model and runs the tools it asks for until the model
// answers without tools or the user stops it.
type Loop struct {
	deps          Deps
	systemPrompt  string
	maxIterations int
	logger        *zap.Logger
}

func NewLoop(deps Deps, systemPrompt string, maxIterations int) *Loop {
	if deps.Provider == nil || deps.Tools == nil || deps.Conversation == nil || deps.Context == nil {
		panic("provider, tools, conversation and context are required")
	}
	if deps.Prompter == nil || deps.Handler == nil {
		panic("prompter and handler are required")
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		deps:          deps,
		systemPrompt:  systemPrompt,
		maxIterations: maxIterations,
		logger:        logger,
	}
}

// Run answers the latest user message in the conversation. Model and tool
// failures are reported to the user and end the turn without an error.
func (l *Loop) Run(ctx context.Context) error {
	for i := 0; ; i++ {
		if i >= l.maxIterations {
			l.deps.Events.Emit(workflow.MaxIterationsEvent{Limit: l.maxIterations})
			l.println(warnStyle.Render(fmt.Sprintf("Stopped after %d model responses.", l.maxIterations)))
			l.println("")
			return nil
		}

		res := l.prompt(ctx)
		if !res.OK {
			l.logger.Info("prompt failed", zap.String("error", res.Error))
			l.println(errorStyle.Render(res.Error))
			l.println("")
			return nil
		}

		resp := res.Response
		l.deps.Conversation.Append(provider.Message{
			Role:      provider.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		if resp.Text != "" {
			l.deps.Events.Emit(workflow.TextEvent{Text: resp.Text})
		}
		if len(resp.ToolCalls) == 0 {
			return nil
		}

		if err := l.runTools(ctx, resp.ToolCalls); err != nil {
			l.println(errorStyle.Render("Failed to run tools: " + err.Error()))
			l.println("")
			return nil
		}

		choice, err := l.deps.Prompter.Choice(ctx, "Continue current prompt", continueChoices)
		if err != nil && !interrupt.IsCanceled(err) {
			return err
		}
		if err != nil || choice != "y" {
			l.println(dimStyle.Render("ℹ") + " Ending prompt.")
			l.println("")
			return nil
		}
	}
}

// prompt sends the conversation to the model inside an interruptible
// progress scope.
func (l *Loop) prompt(ctx context.Context) progress.Result[provider.Response, provider.Response] {
	req := &provider.Request{
		SystemPrompt: l.buildSystemPrompt(),
		Messages:     l.deps.Conversation.Messages(),
		Tools:        l.deps.Tools.Declarations(),
	}

	var r progress.Renderer
	if l.deps.NewRenderer != nil {
		r = l.deps.NewRenderer()
	}

	return progress.Run(l.deps.Handler, func(sig *interrupt.Signal, update progress.Updater[provider.Response]) (provider.Response, error) {
		pctx, cancel := context.WithCancel(sig.Context())
		defer cancel()
		stop := context.AfterFunc(ctx, cancel)
		defer stop()

		resp, err := l.deps.Provider.Prompt(pctx, req, func(partial provider.Response) {
			update(partial)
		})
		if err != nil {
			return provider.Response{}, err
		}
		return *resp, nil
	}, progress.PrefixFormatter(progress.Formatters[provider.Response, provider.Response]{
		Progress: func(r provider.Response) string {
			return withBody("Generating response...", l.formatResponse(r, false))
		},
		Success: func(r provider.Response) string {
			return withBody("Generated response.", l.formatResponse(r, true))
		},
		Failure: func(r provider.Response, _ string) string {
			return withBody("Failed to generate response.", l.formatResponse(r, false))
		},
	}), r, progress.Options{})
}

// runTools executes calls in order and records their results. When a call
// fails, it and the calls after it are answered with the error so every
// call in the log has a result.
func (l *Loop) runTools(ctx context.Context, calls []provider.ToolCall) error {
	results := make([]provider.ToolResult, 0, len(calls))
	defer func() {
		l.deps.Conversation.Append(provider.Message{Role: provider.RoleTool, ToolResults: results})
	}()

	for i, tc := range calls {
		res, err := l.deps.Tools.Execute(ctx, tc, l.deps.Events)
		if err != nil {
			l.logger.Warn("tool failed", zap.String("tool", tc.Name), zap.String("tool_use_id", tc.ID), zap.Error(err))
			for _, rest := range calls[i:] {
				results = append(results, provider.ToolResult{
					ToolCallID: rest.ID,
					Name:       rest.Name,
					Error:      "tool was not run: " + err.Error(),
				})
			}
			return err
		}
		results = append(results, res)
	}
	return nil
}

func (l *Loop) buildSystemPrompt() string {
	ctxText := renderContext(
		l.deps.Context.Files(),
		l.deps.Context.Directories(),
		l.deps.Conversation.VisibleToolUseIDs(),
	)
	switch {
	case ctxText == "":
		return l.systemPrompt
	case l.systemPrompt == "":
		return ctxText
	default:
		return l.systemPrompt + "\n\n" + ctxText
	}
}

// formatResponse renders text and requested tool calls. Markdown is only
// rendered once the response is complete.
func (l *Loop) formatResponse(r provider.Response, final bool) string {
	var parts []string

	if text := strings.TrimSpace(r.Text); text != "" {
		if final && l.deps.Markdown != nil {
			if rendered, err := l.deps.Markdown.Render(text); err == nil {
				text = strings.Trim(rendered, "\n")
			}
		}
		parts = append(parts, text)
	}

	for _, tc := range r.ToolCalls {
		args, _ := json.Marshal(tc.Args)
		parts = append(parts, dimStyle.Render(fmt.Sprintf("⚙ %s %s", tc.Name, args)))
	}

	return strings.Join(parts, "\n\n")
}

func withBody(header, body string) string {
	if body == "" {
		return header
	}
	return header + "\n\n" + body
}

func (l *Loop) println(s string) {
	fmt.Fprintln(l.deps.Out, s)
}
