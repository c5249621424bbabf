package cache

import (
	"time"

	"github.com/ppiankov/adjury/internal/model"
)

// Service holds the raw-fetch and result stores
type Service struct {
	Raw     Store[Fetched]
	Results Store[*model.BatchResult]
}

// Fetched is a deduplicated source fetch and the limit it was made with
type Fetched struct {
	Items    []model.ContentItem
	Limit    int
	Original int // items the source returned before dedup
}

// Covers reports whether the fetch can serve a request for limit items.
// A source that returned fewer than it was asked for has nothing more to give.
func (f Fetched) Covers(limit int) bool {
	return limit <= f.Limit || f.Original < f.Limit
}

// NewService creates both stores from config
func NewService(cfg model.CacheConfig, now Clock) *Service {
	fetchTTL := cfg.FetchTTL
	if fetchTTL <= 0 {
		fetchTTL = time.Hour
	}
	resultTTL := cfg.ResultTTL
	if resultTTL <= 0 {
		resultTTL = 24 * time.Hour
	}

	return &Service{
		Raw:     NewMemoryStore[Fetched](fetchTTL, now),
		Results: NewMemoryStore[*model.BatchResult](resultTTL, now),
	}
}

// GetItems returns the cached fetch for a query when it covers limit.
// A fetch made with a smaller limit is a miss.
func (s *Service) GetItems(query string, limit int) (Fetched, bool) {
	f, ok := s.Raw.Get(QueryKey(query))
	if !ok || !f.Covers(limit) {
		return Fetched{}, false
	}
	return f, true
}

// SetItems caches a deduplicated fetch for a query
func (s *Service) SetItems(query string, f Fetched) {
	s.Raw.Set(QueryKey(query), f)
}

// GetResult returns a cached batch result
func (s *Service) GetResult(key string) (*model.BatchResult, bool) {
	return s.Results.Get(key)
}

// SetResult caches a batch result
func (s *Service) SetResult(key string, result *model.BatchResult) {
	s.Results.Set(key, result)
}

// Clear empties both stores
func (s *Service) Clear() {
	s.Raw.Clear()
	s.Results.Clear()
}
