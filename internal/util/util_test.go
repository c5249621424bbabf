package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func clearProxyEnv(t *testing.T) {
	for _, k := range []string{"HTTP_PROXY", "http_proxy", "HTTPS_PROXY", "https_proxy", "NO_PROXY", "no_proxy"} {
		t.Setenv(k, "")
	}
}

func TestNewProxyFunc(t *testing.T) {
	clearProxyEnv(t)

	proxy := NewProxyFunc("http://proxy.corp:8080", "http://secure.corp:8443", "internal.example")

	tests := []struct {
		target string
		want   string
	}{
		{"http://ads.example/landing", "http://proxy.corp:8080"},
		{"https://ads.example/landing", "http://secure.corp:8443"},
		{"http://internal.example/page", ""},
	}

	for _, tt := range tests {
		req := &http.Request{URL: mustParse(t, tt.target)}
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("%s: %v", tt.target, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("%s: proxy = %q, want %q", tt.target, gotStr, tt.want)
		}
	}
}

func TestNewProxyFunc_HTTPOnly(t *testing.T) {
	clearProxyEnv(t)

	proxy := NewProxyFunc("http://proxy.corp:8080", "", "")
	got, err := proxy(&http.Request{URL: mustParse(t, "https://ads.example")})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("https should not use the http proxy, got %v", got)
	}
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestRobotsChecker(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\nCrawl-delay: 2\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker("Mozilla/5.0 (X11; Linux x86_64)", time.Second)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/offer")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("expected /offer to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("expected crawl delay 2s, got %v", delay)
	}

	if checker.IsAllowed(ctx, server.URL+"/private/page") {
		t.Error("expected /private to be disallowed")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", got)
	}

	checker.Clear()
	checker.IsAllowed(ctx, server.URL+"/")
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("Clear should force a refetch, fetches=%d", got)
	}
}

func TestRobotsChecker_MissingAndUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker("adjury/1.0", time.Second)
	ctx := context.Background()

	if !checker.IsAllowed(ctx, server.URL+"/anything") {
		t.Error("missing robots.txt should allow everything")
	}
	if !checker.IsAllowed(ctx, "http://127.0.0.1:1/page") {
		t.Error("unreachable robots.txt should allow")
	}
	if checker.IsAllowed(ctx, "::bad") {
		t.Error("unparseable URL should be disallowed")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"Mozilla/5.0 (Windows NT 10.0)": "Mozilla",
		"adjury/1.0":                    "adjury",
		"":                              "",
		"Bot":                           "Bot",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}
