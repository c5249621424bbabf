package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiProvider implements the Provider interface for Google Gemini models
type GeminiProvider struct {
	client    *genai.Client
	modelName string
	config    Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := config.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &GeminiProvider{client: client, modelName: modelName, config: config}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// IsAvailable checks access by listing models
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	it := p.client.ListModels(ctx)
	if _, err := it.Next(); err != nil && err != iterator.Done {
		p.config.logger().Warn("Gemini API check failed", zap.Error(err))
		return false
	}
	return true
}

// Complete sends the prompt through GenerateContent
func (p *GeminiProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	// GenerativeModel carries per-call settings; build one per request
	model := p.client.GenerativeModel(p.modelName)
	model.SetTemperature(p.config.Temperature)
	model.SetMaxOutputTokens(int32(p.config.maxTokens()))
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}
	if prompt.JSONMode {
		model.ResponseMIMEType = "application/json"
	}

	parts := []genai.Part{genai.Text(prompt.User)}
	if prompt.Image != nil {
		parts = append(parts, genai.ImageData(imageFormat(prompt.Image.MIMEType), prompt.Image.Data))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// imageFormat converts a MIME type to the short format genai expects
func imageFormat(mime string) string {
	if f, ok := strings.CutPrefix(mime, "image/"); ok && f != "" {
		return f
	}
	return "jpeg"
}
