package di

import (
	"context"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/ppiankov/adjury/internal/cache"
	"github.com/ppiankov/adjury/internal/consensus"
	"github.com/ppiankov/adjury/internal/judge"
	"github.com/ppiankov/adjury/internal/llm"
	"github.com/ppiankov/adjury/internal/model"
	"github.com/ppiankov/adjury/internal/panel"
	"github.com/ppiankov/adjury/internal/pipeline"
	"github.com/ppiankov/adjury/internal/source"
	"github.com/ppiankov/adjury/internal/util"
	"github.com/ppiankov/adjury/internal/worker"
)

// pipelineParams collects the pipeline's collaborators. The narrator is
// only provided when narration is enabled.
type pipelineParams struct {
	dig.In

	Config     *model.Config
	Registry   *judge.Registry
	Judge      panel.Judge
	Narrator   consensus.Narrator `optional:"true"`
	CrossModel *panel.CrossModel
	Fetcher    pipeline.LandingFetcher
	Source     source.Source
	Cache      *cache.Service
	Logger     *zap.Logger
}

// BuildContainer creates and configures a dependency injection container
// for an already loaded configuration
func BuildContainer(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*dig.Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	container := dig.New()

	// Register configuration and logger
	if err := container.Provide(func() *model.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *zap.Logger { return logger }); err != nil {
		return nil, err
	}

	// Register stores and the judge roster
	if err := container.Provide(func(cfg *model.Config) *cache.Service {
		return cache.NewService(cfg.Cache, nil)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(judge.Default); err != nil {
		return nil, err
	}

	// Register LLM backend
	if err := container.Provide(func(cfg *model.Config, logger *zap.Logger) (llm.Provider, error) {
		llmCfg := llm.ConfigFromModel(cfg.LLM, cfg.HTTP)
		llmCfg.Logger = logger
		return llm.NewProvider(ctx, llmCfg)
	}); err != nil {
		return nil, err
	}

	// Register the evaluator as the panel's judge client
	if err := container.Provide(func(p llm.Provider, reg *judge.Registry, cfg *model.Config, logger *zap.Logger) panel.Judge {
		return llm.NewEvaluator(p, reg, llm.EvaluatorOptions{
			Timeout:    cfg.LLM.Timeout,
			MaxRetries: cfg.LLM.MaxRetries,
		}, logger.Named("evaluator"))
	}); err != nil {
		return nil, err
	}

	if cfg.Narrator.Enabled {
		if err := container.Provide(func(p llm.Provider, cfg *model.Config, logger *zap.Logger) (consensus.Narrator, error) {
			return newNarrator(ctx, p, cfg, logger)
		}); err != nil {
			return nil, err
		}
	}

	// Register the cross-model runner; it may hold no families
	if err := container.Provide(func(cfg *model.Config, logger *zap.Logger) *panel.CrossModel {
		return newCrossModel(ctx, cfg, logger)
	}); err != nil {
		return nil, err
	}

	// Register landing page fetching
	if err := container.Provide(func(cfg *model.Config) *worker.Limiter {
		return worker.NewLimiter(cfg.HTTP.RatePerHost, cfg.HTTP.RateBurst)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *model.Config) *util.RobotsChecker {
		if !cfg.HTTP.RespectRobots {
			return nil
		}
		return util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *model.Config, limiter *worker.Limiter, robots *util.RobotsChecker) pipeline.LandingFetcher {
		return pipeline.NewFetcher(cfg.HTTP, limiter, robots)
	}); err != nil {
		return nil, err
	}

	// Register the ads source, falling back to bundled samples
	if err := container.Provide(func(cfg *model.Config, logger *zap.Logger) source.Source {
		return &source.FallbackSource{
			Primary:  source.NewApifySource(cfg.Source, logger.Named("apify")),
			Fallback: source.NewSampleSource(),
			Logger:   logger,
		}
	}); err != nil {
		return nil, err
	}

	// Register the scan pipeline
	if err := container.Provide(func(p pipelineParams) (*pipeline.Pipeline, error) {
		return pipeline.New(pipeline.Deps{
			Config:     p.Config,
			Registry:   p.Registry,
			Judge:      p.Judge,
			Narrator:   p.Narrator,
			CrossModel: p.CrossModel,
			Fetcher:    p.Fetcher,
			Source:     p.Source,
			Cache:      p.Cache,
			Logger:     p.Logger.Named("pipeline"),
		})
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// newNarrator reuses the judge backend unless the narrator names its own
func newNarrator(ctx context.Context, judgeProvider llm.Provider, cfg *model.Config, logger *zap.Logger) (consensus.Narrator, error) {
	provider := judgeProvider
	override := cfg.Narrator.Provider != "" && !strings.EqualFold(cfg.Narrator.Provider, cfg.LLM.Provider)
	if override || cfg.Narrator.Model != "" {
		llmCfg := llm.ConfigFromModel(cfg.LLM, cfg.HTTP)
		llmCfg.Logger = logger
		if override {
			llmCfg.Provider = cfg.Narrator.Provider
			llmCfg.APIKey = llm.APIKeyFromEnv(cfg.Narrator.Provider)
			llmCfg.Model = ""
		}
		if cfg.Narrator.Model != "" {
			llmCfg.Model = cfg.Narrator.Model
		}
		p, err := llm.NewProvider(ctx, llmCfg)
		if err != nil {
			return nil, err
		}
		provider = p
	}
	logger.Info("narration enabled", zap.String("provider", provider.Name()))
	return llm.NewNarrator(provider, cfg.Narrator.Timeout), nil
}

// newCrossModel builds one analyst per configured family. The judge backend's
// settings are reused for its own family; others take keys from the environment.
func newCrossModel(ctx context.Context, cfg *model.Config, logger *zap.Logger) *panel.CrossModel {
	var analysts []panel.Analyst
	for _, name := range cfg.CrossModel.Providers {
		llmCfg := llm.ConfigFromModel(cfg.LLM, cfg.HTTP)
		llmCfg.Logger = logger
		if !strings.EqualFold(name, cfg.LLM.Provider) {
			llmCfg.Provider = name
			llmCfg.APIKey = llm.APIKeyFromEnv(name)
			llmCfg.BaseURL = ""
			llmCfg.Model = ""
		}
		if m := cfg.CrossModel.Models[strings.ToLower(name)]; m != "" {
			llmCfg.Model = m
		}

		p, err := llm.NewProvider(ctx, llmCfg)
		if err != nil {
			logger.Debug("cross-model family skipped", zap.String("provider", name), zap.Error(err))
			continue
		}
		analysts = append(analysts, llm.NewAnalyst(p, llmCfg.Model, llm.EvaluatorOptions{
			Timeout:    cfg.CrossModel.Timeout,
			MaxRetries: cfg.LLM.MaxRetries,
		}, logger.Named("analyst")))
	}

	cm := panel.NewCrossModel(analysts, logger.Named("crossmodel"))
	if fams := cm.Families(); len(fams) > 0 {
		logger.Info("cross-model analysis available", zap.Strings("families", fams))
	}
	return cm
}

// Pipeline resolves the scan pipeline from a container
func Pipeline(container *dig.Container) (*pipeline.Pipeline, error) {
	var p *pipeline.Pipeline
	err := container.Invoke(func(resolved *pipeline.Pipeline) {
		p = resolved
	})
	return p, err
}
