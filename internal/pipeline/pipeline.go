package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/adjury/internal/cache"
	"github.com/ppiankov/adjury/internal/consensus"
	"github.com/ppiankov/adjury/internal/dedup"
	"github.com/ppiankov/adjury/internal/judge"
	"github.com/ppiankov/adjury/internal/llm"
	"github.com/ppiankov/adjury/internal/model"
	"github.com/ppiankov/adjury/internal/panel"
	"github.com/ppiankov/adjury/internal/score"
	"github.com/ppiankov/adjury/internal/source"
	"github.com/ppiankov/adjury/internal/validate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidPanel rejects a run whose judge panel is too small or names unknown judges
	ErrInvalidPanel = errors.New("invalid judge panel")

	// ErrInvalidRequest rejects a request without usable content: a scan
	// with neither a query nor items, or an analysis with no text or image
	ErrInvalidRequest = errors.New("invalid request")
)

// Deps are the collaborators of a pipeline
type Deps struct {
	Config     *model.Config
	Registry   *judge.Registry
	Judge      panel.Judge
	Narrator   consensus.Narrator // nil disables narration
	CrossModel *panel.CrossModel  // nil disables cross-model comparison
	Fetcher    LandingFetcher
	Source     source.Source
	Cache      *cache.Service
	Scorer     *score.Scorer
	Domains    *validate.DomainClassifier
	Logger     *zap.Logger

	Now   func() time.Time
	NewID func() string
}

// Pipeline runs two-phase batch scans and single-item analyses
type Pipeline struct {
	cfg        *model.Config
	registry   *judge.Registry
	judge      panel.Judge
	narrator   consensus.Narrator
	crossModel *panel.CrossModel
	fetcher    LandingFetcher
	source     source.Source
	cache      *cache.Service
	scorer     *score.Scorer
	domains    *validate.DomainClassifier
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// New creates a pipeline. Config, Judge, Fetcher and Source are required.
func New(d Deps) (*Pipeline, error) {
	switch {
	case d.Config == nil:
		return nil, errors.New("pipeline: config is required")
	case d.Judge == nil:
		return nil, errors.New("pipeline: judge is required")
	case d.Fetcher == nil:
		return nil, errors.New("pipeline: fetcher is required")
	case d.Source == nil:
		return nil, errors.New("pipeline: source is required")
	}

	p := &Pipeline{
		cfg:        d.Config,
		registry:   d.Registry,
		judge:      d.Judge,
		narrator:   d.Narrator,
		crossModel: d.CrossModel,
		fetcher:    d.Fetcher,
		source:     d.Source,
		cache:      d.Cache,
		scorer:     d.Scorer,
		domains:    d.Domains,
		logger:     d.Logger,
		now:        d.Now,
		newID:      d.NewID,
	}
	if p.registry == nil {
		p.registry = judge.Default()
	}
	if p.cache == nil {
		p.cache = cache.NewService(d.Config.Cache, nil)
	}
	if p.scorer == nil {
		p.scorer = score.NewScorer()
	}
	if p.domains == nil {
		p.domains = validate.NewDomainClassifier(&d.Config.Domains)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.newID == nil {
		p.newID = func() string { return uuid.NewString() }
	}
	return p, nil
}

// Registry returns the judge registry used for panel validation
func (p *Pipeline) Registry() *judge.Registry {
	return p.registry
}

// RunScan evaluates a batch of ads against a judge panel.
// Run-level errors are limited to an invalid request, an invalid panel or
// the ads source failing outright; per-judge and per-item failures are
// recorded in the result.
func (p *Pipeline) RunScan(ctx context.Context, req model.ScanRequest) (*model.BatchResult, error) {
	req, err := p.normalize(req)
	if err != nil {
		return nil, err
	}

	// Supplied items are not a function of the query, so they bypass the result cache
	cacheable := len(req.Items) == 0
	key := cache.ResultKey(req.Query, req.ItemLimit, req.JudgeIDs)
	if cacheable && !req.ForceRefresh {
		if cached, ok := p.cache.GetResult(key); ok {
			p.logger.Debug("result cache hit", zap.String("query", req.Query))
			hit := *cached
			hit.FromCache = true
			return &hit, nil
		}
		p.logger.Debug("result cache miss", zap.String("query", req.Query))
	}

	if d := p.cfg.Scan.Deadline; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := p.now()
	items, original, servedBy, err := p.acquire(ctx, req)
	if err != nil {
		return nil, err
	}
	p.logger.Info("items acquired",
		zap.String("query", req.Query),
		zap.String("source", servedBy),
		zap.Int("items", len(items)),
		zap.Int("original", original))

	lookup := p.fetchLandingPages(ctx, items)
	results, failures := p.evaluateItems(ctx, items, lookup, req.JudgeIDs)

	violating, mixed, benign := partition(results)
	batch := &model.BatchResult{
		ScanID:        p.newID(),
		Query:         req.Query,
		Judges:        append([]string(nil), req.JudgeIDs...),
		Source:        servedBy,
		TotalItems:    len(items),
		OriginalCount: original,
		ScanTimestamp: p.now().UTC(),
		Violating:     violating,
		Mixed:         mixed,
		Benign:        benign,
		Failures:      failures,
		Stats:         computeStats(results, p.topViolations()),
	}

	p.logger.Info("scan complete",
		zap.String("scan_id", batch.ScanID),
		zap.Int("violating", len(violating)),
		zap.Int("mixed", len(mixed)),
		zap.Int("benign", len(benign)),
		zap.Int("failed", len(failures)),
		zap.Duration("elapsed", p.now().Sub(start)))

	if cacheable {
		p.cache.SetResult(key, batch)
	}
	return batch, nil
}

// normalize applies defaults, clamps the limit and validates the panel
func (p *Pipeline) normalize(req model.ScanRequest) (model.ScanRequest, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" && len(req.Items) == 0 {
		return req, fmt.Errorf("%w: a query or items are required", ErrInvalidRequest)
	}

	judges, err := p.panelFor(req.JudgeIDs)
	if err != nil {
		return req, err
	}
	req.JudgeIDs = judges

	maxLimit := p.cfg.Scan.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if req.ItemLimit <= 0 {
		req.ItemLimit = p.cfg.Scan.DefaultLimit
		if req.ItemLimit <= 0 {
			req.ItemLimit = 50
		}
	}
	if req.ItemLimit > maxLimit {
		req.ItemLimit = maxLimit
	}
	return req, nil
}

// panelFor applies the default panel, drops duplicates and validates the result
func (p *Pipeline) panelFor(ids []string) ([]string, error) {
	if len(ids) == 0 {
		ids = p.cfg.Scan.DefaultJudges
	}
	if len(ids) == 0 {
		ids = model.DefaultJudgePanel
	}
	ids = uniqueIDs(ids)

	minPanel := p.cfg.Scan.MinPanel
	if minPanel < 1 {
		minPanel = 1
	}
	if len(ids) < minPanel {
		return nil, fmt.Errorf("%w: need at least %d judges, got %d", ErrInvalidPanel, minPanel, len(ids))
	}
	if unknown := p.registry.Unknown(ids); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown judges %s", ErrInvalidPanel, strings.Join(unknown, ", "))
	}
	return ids, nil
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (p *Pipeline) topViolations() int {
	if p.cfg.Scan.TopViolations > 0 {
		return p.cfg.Scan.TopViolations
	}
	return 5
}

// acquire returns deduplicated items truncated to the limit, the count
// before dedup and the name of whatever served them
func (p *Pipeline) acquire(ctx context.Context, req model.ScanRequest) ([]model.ContentItem, int, string, error) {
	if len(req.Items) > 0 {
		unique, original := dedup.Deduplicate(append([]model.ContentItem(nil), req.Items...))
		return truncate(unique, req.ItemLimit), original, model.SourceSupplied, nil
	}

	if !req.ForceRefresh {
		if cached, ok := p.cache.GetItems(req.Query, req.ItemLimit); ok {
			p.logger.Debug("fetch cache hit", zap.String("query", req.Query), zap.Int("fetch_limit", cached.Limit))
			items := append([]model.ContentItem(nil), cached.Items...)
			return truncate(items, req.ItemLimit), cached.Original, model.SourceCache, nil
		}
	}

	items, servedBy, err := p.search(ctx, req.Query, req.ItemLimit)
	if err != nil {
		return nil, 0, servedBy, fmt.Errorf("search ads: %w", err)
	}
	unique, original := dedup.Deduplicate(items)
	p.cache.SetItems(req.Query, cache.Fetched{Items: unique, Limit: req.ItemLimit, Original: original})
	return truncate(unique, req.ItemLimit), original, servedBy, nil
}

func truncate(items []model.ContentItem, limit int) []model.ContentItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// originReporter is implemented by sources that fall back internally
type originReporter interface {
	SearchFrom(ctx context.Context, query string, limit int) ([]model.ContentItem, string, error)
}

func (p *Pipeline) search(ctx context.Context, query string, limit int) ([]model.ContentItem, string, error) {
	if r, ok := p.source.(originReporter); ok {
		return r.SearchFrom(ctx, query, limit)
	}
	items, err := p.source.Search(ctx, query, limit)
	return items, p.source.Name(), err
}

// evaluateItems is phase 2. Items run under a bounded errgroup; judge calls
// share one slot pool for the whole run. Outcomes are stored by item index.
func (p *Pipeline) evaluateItems(ctx context.Context, items []model.ContentItem, lookup map[string]landing, judgeIDs []string) ([]*model.ItemResult, []model.ItemFailure) {
	results := make([]*model.ItemResult, len(items))
	failures := make([]*model.ItemFailure, len(items))

	coordinator := panel.NewCoordinator(p.judge, panel.NewSlots(p.cfg.Concurrency.JudgeWorkers), p.logger)

	workers := p.cfg.Concurrency.ItemWorkers
	if workers <= 0 {
		workers = 25
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range items {
		i := i
		g.Go(func() error {
			res, err := p.evaluateItem(ctx, coordinator, items[i], lookup, judgeIDs)
			if err != nil {
				p.logger.Warn("item evaluation failed", zap.String("ad_id", items[i].ID), zap.Error(err))
				failures[i] = &model.ItemFailure{ItemID: itemID(items[i], i), Reason: err.Error()}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var out []model.ItemFailure
	for _, f := range failures {
		if f != nil {
			out = append(out, *f)
		}
	}
	return results, out
}

func itemID(item model.ContentItem, index int) string {
	if item.ID != "" {
		return item.ID
	}
	return fmt.Sprintf("item-%d", index)
}

// evaluateItem runs the panel, consensus and scoring for one item.
// A panic is recovered into an error so siblings continue.
func (p *Pipeline) evaluateItem(ctx context.Context, coordinator *panel.Coordinator, item model.ContentItem, lookup map[string]landing, judgeIDs []string) (res *model.ItemResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic evaluating item", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			res, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	// Landing text the caller already supplied is kept as is
	if needsLanding(item) {
		if l, ok := lookup[item.LandingPageURL]; ok {
			item = item.WithLanding(l.text, l.reason)
		}
	}

	var domain *model.DomainAssessment
	if item.LandingPageURL != "" {
		domain = p.domains.Classify(item.LandingPageURL)
	}

	req := llm.EvaluateRequest{
		ContentText: item.Text,
		ContextHint: ContextHint(item, domain),
	}
	verdicts, judgeFailures, err := coordinator.Evaluate(ctx, req, judgeIDs)
	if err != nil {
		return nil, err
	}
	if len(verdicts) == 0 {
		return nil, fmt.Errorf("no judge produced a verdict (%d failed)", len(judgeFailures))
	}

	result := consensus.Synthesize(verdicts)
	if result.Badge != model.BadgeUnanimous {
		result.Narrative, result.Tension = consensus.Narrate(ctx, p.narrator, verdicts, item.Text, p.logger)
	}

	fps := p.scorer.Fingerprints(item.Text)
	return &model.ItemResult{
		Item:          item,
		Consensus:     result,
		Verdicts:      verdicts,
		JudgeFailures: judgeFailures,
		Fingerprints:  fps,
		Violations:    p.scorer.Violations(fps),
		HarmScore:     score.Harm(fps, result.Distribution),
		LandingDomain: domain,
	}, nil
}
