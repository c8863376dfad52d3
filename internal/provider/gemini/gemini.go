package gemini

import (
	"context"

	"github.com/Cyclone1070/aiterm/internal/provider"
	"go.uber.org/zap"
)

// GeminiProvider implements provider.Provider for Google Gemini.
type GeminiProvider struct {
	client    GeminiClient
	modelName string
	logger    *zap.Logger
}

// New creates a new GeminiProvider with the specified client and model.
func New(client GeminiClient, modelName string, logger *zap.Logger) *GeminiProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}
}

// Model returns the model name requests are sent to.
func (p *GeminiProvider) Model() string {
	return p.modelName
}

// Prompt streams a response for req. Cancelling ctx stops the stream and
// returns what was received so far with ctx's error.
func (p *GeminiProvider) Prompt(ctx context.Context, req *provider.Request, onProgress func(provider.Response)) (*provider.Response, error) {
	contents := toGeminiContents(req.Messages)
	config := toGeminiConfig(req)

	p.logger.Debug("prompt started",
		zap.String("model", p.modelName),
		zap.Int("messages", len(contents)),
		zap.Int("tools", len(req.Tools)))

	resp := &provider.Response{}
	for chunk, err := range p.client.GenerateContentStream(ctx, p.modelName, contents, config) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return resp, ctxErr
		}
		if err != nil {
			err = mapGeminiError(err)
			p.logger.Warn("prompt failed",
				zap.String("code", string(provider.CodeOf(err))),
				zap.Bool("retryable", provider.IsRetryable(err)),
				zap.Error(err))
			return resp, err
		}

		changed, err := accumulate(resp, chunk)
		if changed && onProgress != nil {
			onProgress(resp.Clone())
		}
		if err != nil {
			return resp, err
		}
	}

	if err := ctx.Err(); err != nil {
		return resp, err
	}

	p.logger.Debug("prompt finished",
		zap.Int("text_bytes", len(resp.Text)),
		zap.Int("tool_calls", len(resp.ToolCalls)))
	return resp, nil
}
