package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/adjury/internal/di"
	"github.com/ppiankov/adjury/internal/llm"
	"github.com/ppiankov/adjury/internal/logging"
	"github.com/ppiankov/adjury/internal/model"
	"github.com/ppiankov/adjury/internal/pipeline"
)

// optionalKeys are omitted from the default YAML but must still be known
// to viper so the environment can set them
var optionalKeys = []string{
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
	"llm.api_key",
	"llm.base_url",
	"llm.region",
	"narrator.provider",
	"narrator.model",
	"source.apify_token",
}

// loadConfig layers defaults, the config file and ADJURY_* env vars,
// then fills API keys from their conventional variables
func loadConfig(v *viper.Viper) (*model.Config, error) {
	if err := registerDefaults(v, model.DefaultConfig()); err != nil {
		return nil, err
	}

	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnvFallbacks(cfg)
	return cfg, nil
}

// registerDefaults flattens the YAML form of defaults into dotted viper keys
func registerDefaults(v *viper.Viper, defaults *model.Config) error {
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}

	flatten("", tree, v.SetDefault)
	for _, key := range optionalKeys {
		v.SetDefault(key, "")
	}
	return nil
}

func flatten(prefix string, tree map[string]any, set func(string, any)) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			flatten(key, sub, set)
			continue
		}
		set(key, val)
	}
}

func applyEnvFallbacks(cfg *model.Config) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = llm.APIKeyFromEnv(cfg.LLM.Provider)
	}
	if strings.EqualFold(cfg.LLM.Provider, "ollama") && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if cfg.Source.ApifyToken == "" {
		cfg.Source.ApifyToken = os.Getenv("APIFY_API_TOKEN")
	}
}

// newLogger uses the console logger for -v and the configured one otherwise
func newLogger(cfg *model.Config) (*zap.Logger, error) {
	if logJSON {
		cfg.Logging.Format = "json"
	}
	if verbose {
		return logging.InitConsoleLogger(true, cfg.Logging.Format == "json")
	}
	return logging.InitLogger(cfg)
}

// buildPipeline wires a pipeline for cfg through the DI container
func buildPipeline(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	container, err := di.BuildContainer(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build container: %w", err)
	}
	p, err := di.Pipeline(container)
	if err != nil {
		if errors.Is(dig.RootCause(err), llm.ErrNoProvider) {
			return nil, fmt.Errorf("%w: set llm.provider in the config file, ADJURY_LLM_PROVIDER, or --llm-provider", llm.ErrNoProvider)
		}
		return nil, fmt.Errorf("wire pipeline: %w", dig.RootCause(err))
	}
	return p, nil
}
