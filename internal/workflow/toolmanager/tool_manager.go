package toolmanager

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/Cyclone1070/aiterm/internal/provider"
	"github.com/Cyclone1070/aiterm/internal/tool"
	"github.com/Cyclone1070/aiterm/internal/workflow"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

type ToolManager struct {
	mu       sync.RWMutex
	registry map[string]toolImpl
	logger   *zap.Logger
}

func NewToolManager(logger *zap.Logger, tools ...toolImpl) *ToolManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	tm := &ToolManager{
		registry: make(map[string]toolImpl),
		logger:   logger,
	}
	for _, t := range tools {
		tm.Register(t)
	}
	return tm
}

func (m *ToolManager) Register(t toolImpl) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[t.Name()] = t
}

func (m *ToolManager) Declarations() []tool.Declaration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	decls := make([]tool.Declaration, 0, len(m.registry))
	for _, t := range m.registry {
		decls = append(decls, t.Declaration())
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Name < decls[j].Name
	})
	return decls
}

// Execute runs one tool call. Unknown tools and bad arguments are reported
// back to the model as a result; only infrastructure failures (such as a
// canceled context) return an error.
func (m *ToolManager) Execute(ctx context.Context, tc provider.ToolCall, events workflow.Sink) (provider.ToolResult, error) {
	m.mu.RLock()
	t, ok := m.registry[tc.Name]
	m.mu.RUnlock()

	if !ok {
		declsJSON, _ := json.MarshalIndent(m.Declarations(), "", "  ")
		errMsg := fmt.Sprintf("Error: tool %q does not exist.\n\nAvailable tools:\n%s", tc.Name, declsJSON)
		m.logger.Warn("unknown tool requested", zap.String("tool", tc.Name), zap.String("tool_use_id", tc.ID))
		return m.invalid(tc, events, errMsg), nil
	}

	req := t.Input()
	if err := decodeArgs(tc.Args, req); err != nil {
		declJSON, _ := json.MarshalIndent(t.Declaration(), "", "  ")
		errMsg := fmt.Sprintf("Error: invalid arguments for tool %q: %v\n\nExpected schema:\n%s", tc.Name, err, declJSON)
		return m.invalid(tc, events, errMsg), nil
	}
	if v, ok := req.(validator); ok {
		if err := v.Validate(); err != nil {
			return m.invalid(tc, events, fmt.Sprintf("Error: invalid arguments for tool %q: %v", tc.Name, err)), nil
		}
	}

	display := ""
	if s, ok := req.(fmt.Stringer); ok {
		display = s.String()
	}
	events.Emit(workflow.ToolStartEvent{ToolName: tc.Name, RequestDisplay: display})

	m.logger.Debug("tool started", zap.String("tool", tc.Name), zap.String("tool_use_id", tc.ID))
	res, err := t.Execute(ctx, tool.Call{ID: tc.ID, Name: tc.Name}, req)
	if err != nil {
		// Per contract, tools only return errors for infrastructure issues (cancellation)
		events.Emit(workflow.ToolEndEvent{ToolName: tc.Name, Display: tool.StringDisplay("Cancelled")})
		return provider.ToolResult{}, err
	}

	events.Emit(workflow.ToolEndEvent{ToolName: tc.Name, Display: res.Display()})

	return provider.ToolResult{
		ToolCallID: tc.ID,
		Name:       tc.Name,
		Content:    res.LLMContent(),
	}, nil
}

func (m *ToolManager) invalid(tc provider.ToolCall, events workflow.Sink, msg string) provider.ToolResult {
	events.Emit(workflow.ToolStartEvent{ToolName: tc.Name})
	events.Emit(workflow.ToolEndEvent{ToolName: tc.Name, Display: tool.StringDisplay("Invalid tool request")})
	return provider.ToolResult{
		ToolCallID: tc.ID,
		Name:       tc.Name,
		Error:      msg,
	}
}

// decodeArgs fills req from the model's argument map, matching fields by
// their json tags and rejecting unknown keys.
func decodeArgs(args map[string]any, req any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           req,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}
