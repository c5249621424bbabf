package llm

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/adjury/internal/model"
	"go.uber.org/zap"
)

// Provider defines the interface for LLM backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the raw model text
	Complete(ctx context.Context, prompt Prompt) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Prompt is a single system+user exchange
type Prompt struct {
	System string
	User   string

	// Image is optional creative data sent alongside the text
	Image *Image

	// JSONMode asks backends that support it to constrain output to JSON
	JSONMode bool
}

// Image is an inline image attachment
type Image struct {
	Data     []byte
	MIMEType string // e.g. image/jpeg
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "gemini", "bedrock", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic/Gemini
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Region for Bedrock
	Region string

	// Timeout for a single API request
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	// Logger receives availability diagnostics; nil discards them
	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Timeout:     60 * time.Second,
		MaxTokens:   1000,
		Temperature: 0.3,
	}
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return 1000
	}
	return c.MaxTokens
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout <= 0 {
		return fallback
	}
	return c.Timeout
}

// ConfigFromModel converts model config sections to llm.Config
func ConfigFromModel(cfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Region:      cfg.Region,
		Timeout:     cfg.Timeout,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		HTTPProxy:   httpCfg.HTTPProxy,
		HTTPSProxy:  httpCfg.HTTPSProxy,
		NoProxy:     httpCfg.NoProxy,
	}
}

// APIKeyFromEnv returns the conventional environment key for a provider
func APIKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini", "google":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	}
	return ""
}
