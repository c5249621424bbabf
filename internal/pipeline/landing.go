package pipeline

import (
	"context"
	"errors"

	"github.com/ppiankov/adjury/internal/model"
	"github.com/ppiankov/adjury/internal/worker"
	"go.uber.org/zap"
)

// LandingFetcher fetches landing page text; an empty reason means success
type LandingFetcher interface {
	Fetch(ctx context.Context, url string) (text string, reason string)
}

// landingJob fetches one distinct landing page URL
type landingJob struct {
	url     string
	fetcher LandingFetcher
}

func (j *landingJob) Execute(ctx context.Context) worker.Result {
	text, reason := j.fetcher.Fetch(ctx, j.url)
	return &landingResult{URL: j.url, Text: text, Reason: reason}
}

// landingResult carries its URL so results can arrive in any order
type landingResult struct {
	URL    string
	Text   string
	Reason string
}

func (r *landingResult) GetError() error {
	if r.Reason == "" {
		return nil
	}
	return errors.New(r.Reason)
}

type landing struct {
	text   string
	reason string
}

// needsLanding reports whether an item has a landing URL and no fetch outcome yet
func needsLanding(item model.ContentItem) bool {
	return item.LandingPageURL != "" && item.LandingPageText == "" && item.LandingPageError == ""
}

// landingURLs returns the distinct URLs of items that still need a fetch
func landingURLs(items []model.ContentItem) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, item := range items {
		if !needsLanding(item) {
			continue
		}
		if !seen[item.LandingPageURL] {
			seen[item.LandingPageURL] = true
			urls = append(urls, item.LandingPageURL)
		}
	}
	return urls
}

// fetchLandingPages fetches every distinct URL exactly once and returns
// only after the pool has drained. URLs dropped by a cancelled context
// are recorded as timeouts.
func (p *Pipeline) fetchLandingPages(ctx context.Context, items []model.ContentItem) map[string]landing {
	urls := landingURLs(items)
	lookup := make(map[string]landing, len(urls))
	if len(urls) == 0 {
		return lookup
	}

	pool := worker.NewPoolContext(ctx, p.cfg.Concurrency.FetchWorkers)
	pool.Start()
	for _, u := range urls {
		pool.Submit(&landingJob{url: u, fetcher: p.fetcher})
	}

	failed := 0
	for _, r := range pool.Wait() {
		lr := r.(*landingResult)
		lookup[lr.URL] = landing{text: lr.Text, reason: lr.Reason}
		if lr.GetError() != nil {
			failed++
		}
	}

	for _, u := range urls {
		if _, ok := lookup[u]; !ok {
			lookup[u] = landing{reason: "Timeout"}
			failed++
		}
	}

	p.logger.Info("landing pages fetched", zap.Int("urls", len(urls)), zap.Int("failed", failed))
	return lookup
}
