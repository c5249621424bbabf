package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

const (
	robotsTTL        = time.Hour
	robotsFailureTTL = 5 * time.Minute
	maxRobotsBytes   = 512 * 1024
)

// RobotsChecker answers robots.txt questions per host, caching each
// host's rules for an hour. Hosts whose robots.txt cannot be read are
// treated as allowing everything, briefly.
type RobotsChecker struct {
	cache      *gocache.Cache
	httpClient *http.Client
	userAgent  string
	agent      string
}

// NewRobotsChecker creates a checker that fetches robots.txt as userAgent
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RobotsChecker{
		cache:      gocache.New(robotsTTL, 10*time.Minute),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		agent:      NormalizeUserAgent(userAgent),
	}
}

// CanFetch reports whether rawURL may be fetched and the host's crawl delay
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return false, 0, fmt.Errorf("no host in url %q", rawURL)
	}

	data := r.rulesFor(ctx, parsed.Scheme, parsed.Host)

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}

	var delay time.Duration
	if group := data.FindGroup(r.agent); group != nil {
		delay = group.CrawlDelay
	}
	return data.TestAgent(path, r.agent), delay, nil
}

// IsAllowed returns only the allowed status; unparseable URLs are disallowed
func (r *RobotsChecker) IsAllowed(ctx context.Context, rawURL string) bool {
	allowed, _, err := r.CanFetch(ctx, rawURL)
	return err == nil && allowed
}

// Clear drops every cached host
func (r *RobotsChecker) Clear() {
	r.cache.Flush()
}

func (r *RobotsChecker) rulesFor(ctx context.Context, scheme, host string) *robotstxt.RobotsData {
	key := strings.ToLower(host)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*robotstxt.RobotsData)
	}

	data, err := r.fetch(ctx, fmt.Sprintf("%s://%s/robots.txt", scheme, host))
	if err != nil {
		allowAll, _ := robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
		r.cache.Set(key, allowAll, robotsFailureTTL)
		return allowAll
	}
	r.cache.Set(key, data, gocache.DefaultExpiration)
	return data
}

func (r *RobotsChecker) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	// 4xx allows everything and 5xx disallows everything, per robotstxt
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// NormalizeUserAgent reduces a user agent to its product token for
// robots.txt group matching
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	product, _, _ := strings.Cut(parts[0], "/")
	return product
}
