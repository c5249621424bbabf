package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestBedrockProvider_Complete(t *testing.T) {
	fake := &fakeInvoker{body: `{"content":[{"type":"text","text":"{\"verdict_tier\":\"ALLOW\"}"}]}`}
	p := NewBedrockProviderWithClient(fake, Config{MaxTokens: 256})

	out, err := p.Complete(context.Background(), Prompt{System: "sys", User: "user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"verdict_tier":"ALLOW"}` {
		t.Errorf("unexpected output %s", out)
	}

	if *fake.input.ModelId != "anthropic.claude-3-5-sonnet-20240620-v1:0" {
		t.Errorf("unexpected default model %s", *fake.input.ModelId)
	}
	var payload anthropicRequest
	if err := json.Unmarshal(fake.input.Body, &payload); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if payload.AnthropicVersion != bedrockAnthropicVersion || payload.MaxTokens != 256 || payload.System != "sys" {
		t.Errorf("unexpected payload %+v", payload)
	}
	if payload.Model != "" {
		t.Error("expected model to travel in ModelId, not the payload")
	}
}

func TestBedrockProvider_Throttled(t *testing.T) {
	fake := &fakeInvoker{err: errors.New("ThrottlingException: rate exceeded")}
	p := NewBedrockProviderWithClient(fake, Config{})

	_, err := p.Complete(context.Background(), Prompt{User: "x"})
	if err == nil || kindOf(err) != KindQuota {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{}); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
	if _, err := NewProvider(context.Background(), Config{Provider: "mystery"}); err == nil {
		t.Error("expected unknown provider error")
	}
	p, err := NewProvider(context.Background(), Config{Provider: "OpenAI", APIKey: "k"})
	if err != nil || p.Name() != "openai" {
		t.Errorf("expected openai provider, got %v %v", p, err)
	}
}
