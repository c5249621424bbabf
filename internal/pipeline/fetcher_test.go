package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/adjury/internal/model"
)

const landingHTML = `<html><head><title>Bonus Portal</title></head><body><main>` +
	`<p>Send 0.1 BTC and receive 1 BTC back instantly. Offer valid for verified participants only. Act now.</p>` +
	`</main></body></html>`

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent", MaxBodyBytes: 1 << 20}
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = orig })
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected test-agent UA, got %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.HTML != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()
	noSleep(t)

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	noSleep(t)

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if got := err.Error(); got != "unexpected status: 404 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 404 not to be retried, got %d attempts", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	noSleep(t)

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	if _, err := fetcher.FetchWithRetry(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()
	noSleep(t)

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	if _, err := fetcher.FetchWithRetry(context.Background(), server.URL); err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"unexpected status: 503 Service Unavailable", true},
		{"unexpected status: 500 Internal Server Error", true},
		{"unexpected status: 502 Bad Gateway", true},
		{"unexpected status: 429 Too Many Requests", true},
		{"unexpected status: 404 Not Found", false},
		{"unexpected status: 403 Forbidden", false},
		{"unexpected status: 401 Unauthorized", false},
		{"fetch: connection refused", true},
		{"fetch: connection reset by peer", true},
		{"create request: invalid URL", false},
		{"read body: unexpected EOF", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			err := fmt.Errorf("%s", tt.err)
			if got := isRetryableFetchError(err); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%q) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}

	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
	if !isRetryableFetchError(&statusError{code: 502}) {
		t.Error("Expected typed 502 to be retryable")
	}
}

func TestFetch_Reasons(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, landingHTML)
	})
	mux.HandleFunc("/thin", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>hi</body></html>")
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, "{}")
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	mux.HandleFunc("/huge", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body><h1>"+strings.Repeat("Headline ", 200)+"</h1><article>"+strings.Repeat("Long copy here. ", 400)+"</article></body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	noSleep(t)

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)

	tests := []struct {
		desc   string
		url    string
		reason string
	}{
		{"empty", "", "No URL provided"},
		{"javascript", "javascript:void(0)", "Skipped URL type: ^javascript:"},
		{"mailto", "MAILTO:a@b.c", "Skipped URL type: ^mailto:"},
		{"pdf", "https://example.com/brochure.PDF", `Skipped URL type: \.pdf$`},
		{"app store", "https://apps.apple.com/app/id1", `Skipped URL type: apps\.apple\.com`},
		{"play store", "https://play.google.com/store/apps/details?id=x", `Skipped URL type: play\.google\.com/store`},
		{"status", server.URL + "/gone", "HTTP 410"},
		{"non html", server.URL + "/json", "Non-HTML content: application/json"},
		{"thin page", server.URL + "/thin", "No meaningful content extracted"},
		{"refused", "http://127.0.0.1:1/", "Connection failed"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			text, reason := fetcher.Fetch(context.Background(), tt.url)
			if text != "" {
				t.Errorf("expected no text, got %q", text)
			}
			if reason != tt.reason {
				t.Errorf("reason = %q, want %q", reason, tt.reason)
			}
		})
	}

	text, reason := fetcher.Fetch(context.Background(), server.URL+"/ok")
	if reason != "" {
		t.Fatalf("expected success, got reason %q", reason)
	}
	if !strings.HasPrefix(text, "Page Title: Bonus Portal") {
		t.Errorf("unexpected text: %q", text)
	}

	text, reason = fetcher.Fetch(context.Background(), server.URL+"/huge")
	if reason != "" {
		t.Fatalf("expected success, got reason %q", reason)
	}
	if len([]rune(text)) != maxLandingText {
		t.Errorf("expected text capped at %d, got %d", maxLandingText, len([]rune(text)))
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.Timeout = 20 * time.Millisecond
	fetcher := NewFetcher(cfg, nil, nil)

	if _, reason := fetcher.Fetch(context.Background(), server.URL); reason != "Timeout" {
		t.Errorf("reason = %q, want Timeout", reason)
	}
}
