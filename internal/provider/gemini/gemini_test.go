package gemini

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/Cyclone1070/aiterm/internal/provider"
	"github.com/Cyclone1070/aiterm/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestPrompt_AccumulatesTextAndReportsProgress(t *testing.T) {
	client := &MockGeminiClient{
		GenerateContentStreamFunc: func(_ context.Context, model string, _ []*genai.Content, _ *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
			assert.Equal(t, "gemini-test", model)
			return streamOf(textChunk("Hel"), textChunk("lo"), nil)
		},
	}
	p := New(client, "gemini-test", nil)

	var progress []string
	resp, err := p.Prompt(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	}, func(r provider.Response) {
		progress = append(progress, r.Text)
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.Text)
	assert.Equal(t, []string{"Hel", "Hello"}, progress)
}

func TestPrompt_ToolCalls(t *testing.T) {
	client := &MockGeminiClient{
		GenerateContentStreamFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
			return streamOf(
				callChunk("call-1", "read_file", map[string]any{"path": "a.go"}),
				callChunk("", "shell_execute", map[string]any{"command": "ls"}),
			)
		},
	}
	p := New(client, "gemini-test", nil)

	resp, err := p.Prompt(context.Background(), &provider.Request{}, nil)

	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 2)
	assert.Equal(t, "call-1", resp.ToolCalls[0].ID)
	assert.Equal(t, "a.go", resp.ToolCalls[0].Args["path"])
	assert.NotEmpty(t, resp.ToolCalls[1].ID, "missing ids are generated")
	assert.Equal(t, "shell_execute", resp.ToolCalls[1].Name)
}

func TestPrompt_SendsSystemPromptAndTools(t *testing.T) {
	var gotConfig *genai.GenerateContentConfig
	client := &MockGeminiClient{
		GenerateContentStreamFunc: func(_ context.Context, _ string, _ []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
			gotConfig = config
			return streamOf(textChunk("ok"))
		},
	}
	p := New(client, "gemini-test", nil)

	_, err := p.Prompt(context.Background(), &provider.Request{
		SystemPrompt: "be brief",
		Tools:        []tool.Declaration{{Name: "read_file", Description: "read"}},
	}, nil)

	require.NoError(t, err)
	require.NotNil(t, gotConfig.SystemInstruction)
	assert.Equal(t, "be brief", gotConfig.SystemInstruction.Parts[0].Text)
	require.Len(t, gotConfig.Tools, 1)
	assert.Equal(t, "read_file", gotConfig.Tools[0].FunctionDeclarations[0].Name)
	assert.Len(t, gotConfig.SafetySettings, 4)
}

func TestPrompt_StreamErrorKeepsPartial(t *testing.T) {
	client := &MockGeminiClient{
		GenerateContentStreamFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
			return func(yield func(*genai.GenerateContentResponse, error) bool) {
				if !yield(textChunk("partial"), nil) {
					return
				}
				yield(nil, genai.APIError{Code: 503, Message: "overloaded"})
			}
		},
	}
	p := New(client, "gemini-test", nil)

	resp, err := p.Prompt(context.Background(), &provider.Request{}, nil)

	require.Error(t, err)
	assert.Equal(t, "partial", resp.Text)
	var perr *provider.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, provider.ErrorCodeUnavailable, perr.Code)
	assert.True(t, provider.IsRetryable(err))
}

func TestPrompt_CancelStopsStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &MockGeminiClient{
		GenerateContentStreamFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
			return func(yield func(*genai.GenerateContentResponse, error) bool) {
				if !yield(textChunk("first"), nil) {
					return
				}
				cancel()
				if !yield(textChunk("second"), nil) {
					return
				}
				t.Error("stream continued after cancel")
			}
		},
	}
	p := New(client, "gemini-test", nil)

	resp, err := p.Prompt(ctx, &provider.Request{}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "first", resp.Text)
}

func TestPrompt_SafetyBlock(t *testing.T) {
	chunk := textChunk("nope")
	chunk.Candidates[0].FinishReason = genai.FinishReasonSafety
	client := &MockGeminiClient{
		GenerateContentStreamFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
			return streamOf(chunk)
		},
	}
	p := New(client, "gemini-test", nil)

	_, err := p.Prompt(context.Background(), &provider.Request{}, nil)

	var perr *provider.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, provider.ErrorCodeContentBlocked, perr.Code)
}

func TestPrompt_UnsetClientFails(t *testing.T) {
	p := New(&MockGeminiClient{}, "gemini-test", nil)
	_, err := p.Prompt(context.Background(), &provider.Request{}, nil)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
