package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/adjury/internal/model"
)

// Scanner runs one batch scan
type Scanner interface {
	RunScan(ctx context.Context, req model.ScanRequest) (*model.BatchResult, error)
}

// QueryJob scans one search query
type QueryJob struct {
	Index   int
	Request model.ScanRequest
	Scanner Scanner
}

// Execute runs the scan
func (j *QueryJob) Execute(ctx context.Context) Result {
	result, err := j.Scanner.RunScan(ctx, j.Request)
	return &QueryResult{
		Index:  j.Index,
		Query:  j.Request.Query,
		Result: result,
		Error:  err,
	}
}

// QueryResult is the outcome of one query in a batch
type QueryResult struct {
	Index  int
	Query  string
	Result *model.BatchResult
	Error  error
}

// GetError returns the scan error
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor scans many queries concurrently.
// Each query is a full RunScan, so concurrency stays low.
type BatchProcessor struct {
	scanner     Scanner
	concurrency int
	template    model.ScanRequest
}

// NewBatchProcessor creates a processor that applies template's limit,
// judges and refresh flag to every query
func NewBatchProcessor(scanner Scanner, concurrency int, template model.ScanRequest) *BatchProcessor {
	return &BatchProcessor{
		scanner:     scanner,
		concurrency: concurrency,
		template:    template,
	}
}

// ProcessQueries scans every query and returns results in input order
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPoolContext(ctx, b.concurrency)
	pool.Start()

	for i, q := range queries {
		req := b.template
		req.Query = q
		req.Items = nil
		pool.Submit(&QueryJob{Index: i, Request: req, Scanner: b.scanner})
	}

	results := pool.Wait()

	byIndex := make(map[int]*QueryResult, len(results))
	for _, r := range results {
		qr := r.(*QueryResult)
		byIndex[qr.Index] = qr
	}

	out := make([]*QueryResult, 0, len(queries))
	for i, q := range queries {
		if qr, ok := byIndex[i]; ok {
			out = append(out, qr)
			continue
		}
		// Dropped when the context ended before a worker picked it up
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out = append(out, &QueryResult{Index: i, Query: q, Error: err})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessFile reads queries from a file and scans them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads one query per line, skipping blanks and
// # comments. Queries differing only in case or surrounding space are
// scanned once.
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key := strings.ToLower(line)
		if !seen[key] {
			seen[key] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
