package file

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Cyclone1070/aiterm/internal/contextstate"
	"github.com/Cyclone1070/aiterm/internal/tool"
)

// ReadFileTool tracks a file in the context store on behalf of the model
// and returns its current content.
type ReadFileTool struct {
	store contextStore
	paths pathResolver
}

// NewReadFileTool creates a new ReadFileTool with injected dependencies.
func NewReadFileTool(store contextStore, paths pathResolver) *ReadFileTool {
	if store == nil {
		panic("store is required")
	}
	if paths == nil {
		panic("paths is required")
	}
	return &ReadFileTool{store: store, paths: paths}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "Read a file and keep it in context. The latest content is included with every later prompt while this tool call remains in the conversation.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {Type: tool.TypeString, Description: "Path of the file to read."},
			},
			Required: []string{"path"},
		},
	}
}

func (t *ReadFileTool) Input() any { return &ReadFileRequest{} }

func (t *ReadFileTool) Execute(ctx context.Context, call tool.Call, input any) (tool.Result, error) {
	req, ok := input.(*ReadFileRequest)
	if !ok {
		return nil, fmt.Errorf("unexpected input type %T", input)
	}
	return t.Run(ctx, call, req)
}

// Run adds the file with a tool_use reason for call.ID. Read failures
// are reported to the model, not returned as errors.
func (t *ReadFileTool) Run(ctx context.Context, call tool.Call, req *ReadFileRequest) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := t.paths.Abs(req.Path)
	if err != nil {
		return failure(err.Error(), fmt.Sprintf("Failed to read file %q", req.Path)), nil
	}

	f := t.store.AddFile(abs, contextstate.ToolUse(call.ID))
	shown := t.paths.Display(f.Path)
	if f.Content.Err != nil {
		return failure(f.Content.Err.Message, fmt.Sprintf("Failed to read file %q", shown)), nil
	}
	return &Result{
		content: mustJSON(map[string]any{"ok": true, "path": f.Path, "content": f.Content.Text}),
		display: tool.StringDisplay(fmt.Sprintf("Read file %q into context", shown)),
	}, nil
}

// ReadDirectoryTool tracks a directory in the context store on behalf of
// the model and returns its entries.
type ReadDirectoryTool struct {
	store contextStore
	paths pathResolver
}

// NewReadDirectoryTool creates a new ReadDirectoryTool with injected dependencies.
func NewReadDirectoryTool(store contextStore, paths pathResolver) *ReadDirectoryTool {
	if store == nil {
		panic("store is required")
	}
	if paths == nil {
		panic("paths is required")
	}
	return &ReadDirectoryTool{store: store, paths: paths}
}

func (t *ReadDirectoryTool) Name() string { return "read_directory" }

func (t *ReadDirectoryTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "List a directory and keep its entries in context.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {Type: tool.TypeString, Description: "Path of the directory to list."},
			},
			Required: []string{"path"},
		},
	}
}

func (t *ReadDirectoryTool) Input() any { return &ReadDirectoryRequest{} }

func (t *ReadDirectoryTool) Execute(ctx context.Context, call tool.Call, input any) (tool.Result, error) {
	req, ok := input.(*ReadDirectoryRequest)
	if !ok {
		return nil, fmt.Errorf("unexpected input type %T", input)
	}
	return t.Run(ctx, call, req)
}

// Run adds the directory with a tool_use reason for call.ID.
func (t *ReadDirectoryTool) Run(ctx context.Context, call tool.Call, req *ReadDirectoryRequest) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := t.paths.Abs(req.Path)
	if err != nil {
		return failure(err.Error(), fmt.Sprintf("Failed to read directory %q", req.Path)), nil
	}

	d := t.store.AddDirectory(abs, contextstate.ToolUse(call.ID))
	shown := t.paths.Display(d.Path)
	if d.Entries.Err != nil {
		return failure(d.Entries.Err.Message, fmt.Sprintf("Failed to read directory %q", shown)), nil
	}

	type entry struct {
		Name        string `json:"name"`
		IsFile      bool   `json:"isFile"`
		IsDirectory bool   `json:"isDirectory"`
	}
	entries := make([]entry, 0, len(d.Entries.Entries))
	for _, e := range d.Entries.Entries {
		entries = append(entries, entry{Name: e.Name, IsFile: e.IsFile, IsDirectory: e.IsDirectory})
	}
	return &Result{
		content: mustJSON(map[string]any{"ok": true, "path": d.Path, "entries": entries}),
		display: tool.StringDisplay(fmt.Sprintf("Read directory %q into context", shown)),
	}, nil
}

func failure(message, display string) *Result {
	return &Result{
		content: mustJSON(map[string]any{"ok": false, "error": message}),
		display: tool.StringDisplay(display),
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"ok":false,"error":%q}`, err.Error())
	}
	return string(b)
}
