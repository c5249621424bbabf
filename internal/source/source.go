package source

import (
	"context"
	"errors"
	"net/url"

	"github.com/ppiankov/adjury/internal/model"
	"go.uber.org/zap"
)

// ErrNoCredentials is returned by sources that need a token they were not given
var ErrNoCredentials = errors.New("ads source credentials not configured")

// Source searches an ads library by keyword
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]model.ContentItem, error)
}

// FallbackSource serves from Primary and falls back when it has no
// credentials, fails or returns nothing
type FallbackSource struct {
	Primary  Source
	Fallback Source
	Logger   *zap.Logger
}

// Name returns the primary's name
func (f *FallbackSource) Name() string {
	return f.Primary.Name()
}

// Search implements Source
func (f *FallbackSource) Search(ctx context.Context, query string, limit int) ([]model.ContentItem, error) {
	items, _, err := f.SearchFrom(ctx, query, limit)
	return items, err
}

// SearchFrom searches and reports which source served the items
func (f *FallbackSource) SearchFrom(ctx context.Context, query string, limit int) ([]model.ContentItem, string, error) {
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if f.Primary != nil {
		items, err := f.Primary.Search(ctx, query, limit)
		switch {
		case errors.Is(err, ErrNoCredentials):
			logger.Debug("ads source has no credentials, using fallback", zap.String("source", f.Primary.Name()))
		case err != nil:
			logger.Warn("ads source failed, using fallback", zap.String("source", f.Primary.Name()), zap.Error(err))
		case len(items) == 0:
			logger.Info("ads source returned no items, using fallback", zap.String("source", f.Primary.Name()))
		default:
			return items, f.Primary.Name(), nil
		}
	}

	items, err := f.Fallback.Search(ctx, query, limit)
	if err != nil {
		return nil, f.Fallback.Name(), err
	}
	return items, f.Fallback.Name(), nil
}

// BuildLibraryURL builds an ads library keyword search URL
func BuildLibraryURL(query, country string) string {
	if country == "" {
		country = "ALL"
	}
	params := url.Values{}
	params.Set("active_status", "active")
	params.Set("ad_type", "all")
	params.Set("country", country)
	params.Set("is_targeted_country", "false")
	params.Set("media_type", "all")
	params.Set("q", query)
	params.Set("search_type", "keyword_unordered")
	return model.AdLibraryBaseURL + "?" + params.Encode()
}
