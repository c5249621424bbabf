package worker

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/adjury/internal/model"
)

type mockScanner struct {
	failOn string
	delay  time.Duration

	mu       sync.Mutex
	requests []model.ScanRequest
}

func (m *mockScanner) RunScan(ctx context.Context, req model.ScanRequest) (*model.BatchResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if req.Query == m.failOn {
		return nil, errors.New("scan error")
	}
	return &model.BatchResult{Query: req.Query, Judges: req.JudgeIDs}, nil
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "queries")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func TestBatchProcessor_ProcessQueries(t *testing.T) {
	scanner := &mockScanner{delay: 10 * time.Millisecond}
	template := model.ScanRequest{ItemLimit: 7, JudgeIDs: []string{"meta", "youtube"}}
	processor := NewBatchProcessor(scanner, 2, template)

	queries := []string{"crypto", "weight loss", "sneakers", "loans"}
	results := processor.ProcessQueries(context.Background(), queries)

	if len(results) != len(queries) {
		t.Fatalf("expected %d results, got %d", len(queries), len(results))
	}
	for i, res := range results {
		if res.Query != queries[i] {
			t.Errorf("result %d: query = %q, want %q (input order)", i, res.Query, queries[i])
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Query, res.Error)
		}
		if res.Result == nil || res.Result.Query != queries[i] {
			t.Errorf("result %d: unexpected batch result %+v", i, res.Result)
		}
	}

	for _, req := range scanner.requests {
		if req.ItemLimit != 7 || len(req.JudgeIDs) != 2 {
			t.Errorf("template not applied: %+v", req)
		}
	}
}

func TestBatchProcessor_ProcessQueries_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockScanner{failOn: "bad"}, 2, model.ScanRequest{})

	results := processor.ProcessQueries(context.Background(), []string{"good", "bad"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("unexpected error: %v", results[0].Error)
	}
	if results[1].Error == nil || results[1].Result != nil {
		t.Errorf("expected error and nil result, got %+v", results[1])
	}
	if results[1].GetError() != results[1].Error {
		t.Error("GetError should return Error")
	}
}

func TestBatchProcessor_ProcessQueries_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockScanner{}, 2, model.ScanRequest{})
	if results := processor.ProcessQueries(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessQueries_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockScanner{delay: time.Second}, 1, model.ScanRequest{})
	results := processor.ProcessQueries(ctx, []string{"a", "b", "c"})

	if len(results) != 3 {
		t.Fatalf("expected a result per query, got %d", len(results))
	}
	for _, r := range results {
		if r.Error == nil {
			t.Errorf("%s: expected cancellation error", r.Query)
		}
	}
}

func TestReadQueriesFromFile(t *testing.T) {
	path := writeTemp(t, "crypto giveaway\n# comment\nweight loss\n   \n  Crypto Giveaway  \nsneakers")

	queries, err := ReadQueriesFromFile(path)
	if err != nil {
		t.Fatalf("ReadQueriesFromFile failed: %v", err)
	}

	expected := []string{"crypto giveaway", "weight loss", "sneakers"}
	if len(queries) != len(expected) {
		t.Fatalf("expected %d queries, got %d: %v", len(expected), len(queries), queries)
	}
	for i, q := range queries {
		if q != expected[i] {
			t.Errorf("query %d = %q, want %q", i, q, expected[i])
		}
	}
}

func TestReadQueriesFromFile_NonExistent(t *testing.T) {
	if _, err := ReadQueriesFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTemp(t, "crypto\nloans\n# comment\n\nsneakers\n")

	processor := NewBatchProcessor(&mockScanner{}, 2, model.ScanRequest{})
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file")
	}
}
