package model

import "time"

// Config is the complete adjury configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Scan        ScanConfig        `yaml:"scan" mapstructure:"scan"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Narrator    NarratorConfig    `yaml:"narrator" mapstructure:"narrator"`
	CrossModel  CrossModelConfig  `yaml:"cross_model" mapstructure:"cross_model"`
	Source      SourceConfig      `yaml:"source" mapstructure:"source"`
	Domains     DomainConfig      `yaml:"domains" mapstructure:"domains"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
}

// HTTPConfig controls landing page fetches
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RatePerHost   float64       `yaml:"rate_per_host" mapstructure:"rate_per_host"` // requests per second per host
	RateBurst     int           `yaml:"rate_burst" mapstructure:"rate_burst"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ConcurrencyConfig holds the independent bounds of each phase
type ConcurrencyConfig struct {
	FetchWorkers int `yaml:"fetch_workers" mapstructure:"fetch_workers"` // Phase 1 landing page fetches
	ItemWorkers  int `yaml:"item_workers" mapstructure:"item_workers"`   // Phase 2 items in flight
	JudgeWorkers int `yaml:"judge_workers" mapstructure:"judge_workers"` // Judge calls in flight across a run
}

// CacheConfig holds the TTLs of the two stores
type CacheConfig struct {
	FetchTTL  time.Duration `yaml:"fetch_ttl" mapstructure:"fetch_ttl"`
	ResultTTL time.Duration `yaml:"result_ttl" mapstructure:"result_ttl"`
}

// ScanConfig controls run-level defaults and limits
type ScanConfig struct {
	DefaultLimit  int           `yaml:"default_limit" mapstructure:"default_limit"`
	MaxLimit      int           `yaml:"max_limit" mapstructure:"max_limit"`
	MinPanel      int           `yaml:"min_panel" mapstructure:"min_panel"`
	DefaultJudges []string      `yaml:"default_judges" mapstructure:"default_judges"`
	Deadline      time.Duration `yaml:"deadline" mapstructure:"deadline"` // 0 disables the batch deadline
	TopViolations int           `yaml:"top_violations" mapstructure:"top_violations"`
}

// LLMConfig configures the judge backend
type LLMConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, gemini, bedrock
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Region      string        `yaml:"region,omitempty" mapstructure:"region"` // bedrock only
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxRetries  int           `yaml:"max_retries" mapstructure:"max_retries"`
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
}

// NarratorConfig configures the optional disagreement narrative
type NarratorConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Provider string        `yaml:"provider,omitempty" mapstructure:"provider"` // empty reuses the judge backend
	Model    string        `yaml:"model,omitempty" mapstructure:"model"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CrossModelConfig lists the model families compared by single analyses.
// A family whose backend cannot be built, usually for a missing API key, is skipped.
type CrossModelConfig struct {
	Providers []string          `yaml:"providers" mapstructure:"providers"`
	Models    map[string]string `yaml:"models" mapstructure:"models"` // provider -> model
	Timeout   time.Duration     `yaml:"timeout" mapstructure:"timeout"`
}

// SourceConfig configures the ads-library scraper
type SourceConfig struct {
	ApifyToken string        `yaml:"apify_token,omitempty" mapstructure:"apify_token"`
	ActorID    string        `yaml:"actor_id" mapstructure:"actor_id"`
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	Country    string        `yaml:"country" mapstructure:"country"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultJudgePanel is the panel used when a request names no judges
var DefaultJudgePanel = []string{
	"meta_ads_integrity",
	"ftc_consumer_protection",
	"youtube_scams_expert",
	"tiktok_scams_expert",
	"x_twitter",
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       15 * time.Second,
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxBodyBytes:  2_000_000,
			RespectRobots: false,
			RatePerHost:   2,
			RateBurst:     5,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers: 10,
			ItemWorkers:  25,
			JudgeWorkers: 25,
		},
		Cache: CacheConfig{
			FetchTTL:  time.Hour,
			ResultTTL: 24 * time.Hour,
		},
		Scan: ScanConfig{
			DefaultLimit:  50,
			MaxLimit:      100,
			MinPanel:      2,
			DefaultJudges: append([]string(nil), DefaultJudgePanel...),
			Deadline:      10 * time.Minute,
			TopViolations: 5,
		},
		LLM: LLMConfig{
			Provider:    "",
			Timeout:     60 * time.Second,
			MaxTokens:   1000,
			MaxRetries:  2,
			Temperature: 0.3,
		},
		Narrator: NarratorConfig{
			Enabled: false,
			Timeout: 30 * time.Second,
		},
		CrossModel: CrossModelConfig{
			Providers: []string{"gemini", "openai", "anthropic"},
			Models: map[string]string{
				"gemini":    "gemini-1.5-flash",
				"openai":    "gpt-4o-mini",
				"anthropic": "claude-3-5-sonnet-20241022",
			},
			Timeout: 60 * time.Second,
		},
		Source: SourceConfig{
			ActorID: "jj5sAMeSoXotatkss",
			BaseURL: "https://api.apify.com/v2",
			Country: "ALL",
			Timeout: 180 * time.Second,
		},
		Domains: DefaultDomainConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: "localhost:8080",
		},
	}
}
