package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/ppiankov/adjury/internal/extract"
	"github.com/ppiankov/adjury/internal/model"
	"github.com/ppiankov/adjury/internal/util"
	"github.com/ppiankov/adjury/internal/worker"
)

const (
	fetchMaxRetries = 3
	maxLandingText  = 3000
	minLandingText  = 50
	maxErrorDetail  = 100
)

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// skipPatterns mark URLs that never yield useful landing text
var skipPatterns = []string{
	`^javascript:`,
	`^mailto:`,
	`^tel:`,
	`^#`,
	`\.pdf$`,
	`\.zip$`,
	`\.exe$`,
	`play\.google\.com/store`,
	`apps\.apple\.com`,
}

var skipRegexps = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(skipPatterns))
	for i, p := range skipPatterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}()

// Fetcher fetches landing pages and reduces them to evaluation text
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// NewFetcher creates a new Fetcher; limiter and robots are optional
func NewFetcher(cfg model.HTTPConfig, limiter *worker.Limiter, robots *util.RobotsChecker) *Fetcher {
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:           util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
				TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureTLS},
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		limiter:   limiter,
		robots:    robots,
	}
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML        string
	ContentType string
	FinalURL    string
}

// statusError is a non-200 response
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.code, e.status)
}

// contentTypeError is a response that is not HTML
type contentTypeError struct {
	contentType string
}

func (e *contentTypeError) Error() string {
	return "non-HTML content: " + e.contentType
}

// Fetch returns landing page text, or an empty text and the reason it is
// unavailable. Ordinary failures are reasons, not errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, string) {
	if rawURL == "" {
		return "", "No URL provided"
	}
	for i, re := range skipRegexps {
		if re.MatchString(rawURL) {
			return "", "Skipped URL type: " + skipPatterns[i]
		}
	}

	if f.robots != nil && !f.robots.IsAllowed(ctx, rawURL) {
		return "", "Disallowed by robots.txt"
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return "", failureReason(err)
		}
	}

	result, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", failureReason(err)
	}

	text, err := extract.LandingText(result.HTML)
	if err != nil {
		return "", failureReason(err)
	}
	text = strings.TrimSpace(text)
	if len(text) <= minLandingText {
		return "", "No meaningful content extracted"
	}
	return truncateRunes(text, maxLandingText), ""
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		result, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < fetchMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			fetchSleepFunc(backoff)
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, &contentTypeError{contentType: contentType}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:        string(body),
		ContentType: contentType,
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// isRetryableFetchError returns true for transient failures
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || (se.code >= 500 && se.code < 600)
	}
	s := strings.ToLower(err.Error())
	if strings.HasPrefix(s, "unexpected status: ") {
		return strings.HasPrefix(s, "unexpected status: 5") || strings.HasPrefix(s, "unexpected status: 429")
	}
	return strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

// failureReason maps a fetch error to the recorded reason string
func failureReason(err error) string {
	var se *statusError
	if errors.As(err, &se) {
		return fmt.Sprintf("HTTP %d", se.code)
	}
	var ce *contentTypeError
	if errors.As(err, &ce) {
		return "Non-HTML content: " + ce.contentType
	}
	if isTimeout(err) {
		return "Timeout"
	}
	if isConnectionFailure(err) {
		return "Connection failed"
	}
	return "Error: " + truncateRunes(err.Error(), maxErrorDetail)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "connection refused") || strings.Contains(s, "connection reset")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
