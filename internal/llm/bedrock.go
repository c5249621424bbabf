package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const bedrockAnthropicVersion = "bedrock-2023-05-31"

// BedrockInvoker is the subset of the Bedrock runtime client in use
type BedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockProvider implements the Provider interface for Anthropic models on Amazon Bedrock
type BedrockProvider struct {
	client  BedrockInvoker
	modelID string
	config  Config
}

// NewBedrockProvider loads AWS credentials from the default chain
func NewBedrockProvider(ctx context.Context, config Config) (*BedrockProvider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewBedrockProviderWithClient(bedrockruntime.NewFromConfig(awsCfg), config), nil
}

// NewBedrockProviderWithClient wraps an existing runtime client
func NewBedrockProviderWithClient(client BedrockInvoker, config Config) *BedrockProvider {
	modelID := config.Model
	if modelID == "" {
		modelID = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	}
	return &BedrockProvider{client: client, modelID: modelID, config: config}
}

// Name returns the provider name
func (p *BedrockProvider) Name() string {
	return "bedrock"
}

// IsAvailable reports whether a client is configured; Bedrock has no cheap health check
func (p *BedrockProvider) IsAvailable(ctx context.Context) bool {
	return p.client != nil
}

// Complete sends the prompt as an Anthropic messages payload
func (p *BedrockProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	payload, err := json.Marshal(anthropicRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        p.config.maxTokens(),
		System:           prompt.System,
		Messages:         []anthropicMessage{userMessage(prompt.User, prompt.Image)},
		Temperature:      p.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var out anthropicResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal Bedrock response: %w", err)
	}
	return out.text()
}
