package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/ppiankov/adjury/internal/model"
	"go.uber.org/zap"
)

const (
	defaultApifyBaseURL = "https://api.apify.com/v2"
	defaultActorID      = "jj5sAMeSoXotatkss"
	defaultPollInterval = 5 * time.Second
	defaultMaxPolls     = 36

	maxItemText       = 1500
	maxAdvertiserName = 100
	minItemText       = 5
)

// ApifySource scrapes the ads library through an Apify actor
type ApifySource struct {
	token        string
	actorID      string
	baseURL      string
	country      string
	client       *http.Client
	logger       *zap.Logger
	pollInterval time.Duration
	maxPolls     int
}

// NewApifySource creates a scraper client. A missing token is reported
// by Search, not here, so callers can always fall back.
func NewApifySource(cfg model.SourceConfig, logger *zap.Logger) *ApifySource {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultApifyBaseURL
	}
	actorID := cfg.ActorID
	if actorID == "" {
		actorID = defaultActorID
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}

	return &ApifySource{
		token:        cfg.ApifyToken,
		actorID:      actorID,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		country:      cfg.Country,
		client:       &http.Client{Timeout: timeout},
		logger:       logger,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
	}
}

// Name implements Source
func (a *ApifySource) Name() string {
	return model.SourceApify
}

// Search runs the actor synchronously and falls back to an async run
// with polling when the sync call yields nothing
func (a *ApifySource) Search(ctx context.Context, query string, limit int) ([]model.ContentItem, error) {
	if a.token == "" {
		return nil, ErrNoCredentials
	}

	libraryURL := BuildLibraryURL(query, a.country)
	input := actorInput{AdLibraryURL: libraryURL, MaxResults: limit}

	items, err := a.runSync(ctx, input, limit)
	if err == nil && len(items) > 0 {
		return items, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		a.logger.Warn("apify sync run failed, trying async run", zap.Error(err))
	}

	return a.runAsync(ctx, input, limit)
}

type actorInput struct {
	AdLibraryURL string `json:"adLibraryUrl"`
	MaxResults   int    `json:"maxResults"`
}

type runEnvelope struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

func (a *ApifySource) runSync(ctx context.Context, input actorInput, limit int) ([]model.ContentItem, error) {
	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items", a.baseURL, a.actorID)

	body, err := a.do(ctx, http.MethodPost, endpoint, nil, input)
	if err != nil {
		return nil, err
	}

	var raw []apifyItem
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}
	return parseItems(raw, limit), nil
}

func (a *ApifySource) runAsync(ctx context.Context, input actorInput, limit int) ([]model.ContentItem, error) {
	endpoint := fmt.Sprintf("%s/acts/%s/runs", a.baseURL, a.actorID)

	body, err := a.do(ctx, http.MethodPost, endpoint, nil, input)
	if err != nil {
		return nil, fmt.Errorf("start actor run: %w", err)
	}

	var run runEnvelope
	if err := json.Unmarshal(body, &run); err != nil {
		return nil, fmt.Errorf("decode actor run: %w", err)
	}
	if run.Data.ID == "" {
		return nil, fmt.Errorf("actor run response has no run id")
	}
	a.logger.Info("apify actor run started", zap.String("run_id", run.Data.ID))

	for attempt := 1; attempt <= a.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.pollInterval):
		}

		body, err := a.do(ctx, http.MethodGet, fmt.Sprintf("%s/actor-runs/%s", a.baseURL, run.Data.ID), nil, nil)
		if err != nil {
			a.logger.Debug("apify status check failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		var status runEnvelope
		if err := json.Unmarshal(body, &status); err != nil {
			continue
		}
		a.logger.Debug("apify run status", zap.String("status", status.Data.Status), zap.Int("attempt", attempt))

		switch status.Data.Status {
		case "SUCCEEDED":
			if status.Data.DefaultDatasetID == "" {
				return nil, nil
			}
			return a.datasetItems(ctx, status.Data.DefaultDatasetID, limit)
		case "FAILED", "ABORTED", "TIMED-OUT":
			a.logger.Warn("apify run finished without items", zap.String("status", status.Data.Status))
			return nil, nil
		}
	}

	return nil, fmt.Errorf("actor run %s did not finish after %d polls", run.Data.ID, a.maxPolls)
}

func (a *ApifySource) datasetItems(ctx context.Context, datasetID string, limit int) ([]model.ContentItem, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := a.do(ctx, http.MethodGet, fmt.Sprintf("%s/datasets/%s/items", a.baseURL, datasetID), params, nil)
	if err != nil {
		return nil, fmt.Errorf("get dataset items: %w", err)
	}

	var raw []apifyItem
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}
	return parseItems(raw, limit), nil
}

// do sends an authenticated request and returns the body of a 200/201 response
func (a *ApifySource) do(ctx context.Context, method, endpoint string, params url.Values, payload any) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", a.token)

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint+"?"+params.Encode(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("apify returned status %d: %s", resp.StatusCode, snippet)
	}
	return body, nil
}

// Scraper output. Field names follow the actor's dataset schema.

type apifyImage struct {
	Resized  string `json:"resized_image_url"`
	Original string `json:"original_image_url"`
}

func (i apifyImage) url() string {
	if i.Resized != "" {
		return i.Resized
	}
	return i.Original
}

type apifyVideo struct {
	URL   string `json:"video_url"`
	SDURL string `json:"video_sd_url"`
	HDURL string `json:"video_hd_url"`
}

type apifyCard struct {
	Body    string       `json:"body"`
	Title   string       `json:"title"`
	LinkURL string       `json:"link_url"`
	Images  []apifyImage `json:"images"`
}

type apifyCreative struct {
	Cards   []apifyCard  `json:"cards"`
	Images  []apifyImage `json:"images"`
	Videos  []apifyVideo `json:"videos"`
	LinkURL string       `json:"link_url"`
}

type apifyItem struct {
	AdContent struct {
		Body            string        `json:"body"`
		Title           string        `json:"title"`
		LinkDescription string        `json:"link_description"`
		CTAText         string        `json:"cta_text"`
		CTALink         string        `json:"cta_link"`
		LinkURL         string        `json:"link_url"`
		CurrentPageName string        `json:"current_page_name"`
		Creative        apifyCreative `json:"creative"`
		Images          []apifyImage  `json:"images"`
	} `json:"ad_content"`
	Status struct {
		CollationID flexString `json:"collation_id"`
		AdID        flexString `json:"ad_id"`
		PageName    string     `json:"page_name"`
		IsActive    *bool      `json:"is_active"`
	} `json:"status"`
	Timing struct {
		StartDate json.RawMessage `json:"start_date"`
	} `json:"timing"`
	Metadata struct {
		PageName    string     `json:"page_name"`
		PageID      flexString `json:"page_id"`
		AdArchiveID flexString `json:"ad_archive_id"`
	} `json:"metadata"`
	Images   []apifyImage `json:"images"`
	Videos   []apifyVideo `json:"videos"`
	Snapshot struct {
		LinkURL string       `json:"link_url"`
		Images  []apifyImage `json:"images"`
		Videos  []apifyVideo `json:"videos"`
	} `json:"snapshot"`
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func parseItems(raw []apifyItem, limit int) []model.ContentItem {
	items := make([]model.ContentItem, 0, len(raw))
	for i := range raw {
		if limit > 0 && len(items) >= limit {
			break
		}
		if item, ok := toContentItem(&raw[i]); ok {
			items = append(items, item)
		}
	}
	return items
}

func toContentItem(it *apifyItem) (model.ContentItem, bool) {
	text := strings.TrimSpace(itemText(it))
	if len([]rune(text)) < minItemText {
		return model.ContentItem{}, false
	}
	text = strings.TrimSpace(truncate(text, maxItemText))

	advertiser := firstNonEmpty(it.Metadata.PageName, it.AdContent.CurrentPageName, it.Status.PageName, it.AdContent.Title, "Unknown Advertiser")

	id := firstNonEmpty(string(it.Status.CollationID), string(it.Status.AdID), string(it.Metadata.AdArchiveID))
	if id == "" {
		id = fmt.Sprintf("apify_%d", xxhash.Sum64String(text)%1000000)
	}

	isActive := true
	if it.Status.IsActive != nil {
		isActive = *it.Status.IsActive
	}

	return model.ContentItem{
		ID:             id,
		Text:           text,
		Advertiser:     truncate(advertiser, maxAdvertiserName),
		PageID:         string(it.Metadata.PageID),
		StartDate:      startDate(it.Timing.StartDate),
		IsActive:       isActive,
		AdLibraryURL:   model.AdLibraryURL(id),
		ImageURL:       imageURL(it),
		VideoURL:       videoURL(it),
		ThumbnailURLs:  thumbnails(it),
		LandingPageURL: landingURL(it),
	}, true
}

func itemText(it *apifyItem) string {
	c := &it.AdContent
	if c.Title != "" && c.Body != "" {
		return c.Title + "\n\n" + c.Body
	}

	text := firstNonEmpty(c.Body, c.Title)
	if text == "" {
		var parts []string
		for _, card := range firstCards(c.Creative.Cards, 3) {
			if body := strings.TrimSpace(card.Body); body != "" {
				parts = append(parts, body)
			} else if title := strings.TrimSpace(card.Title); title != "" {
				parts = append(parts, title)
			}
		}
		text = strings.Join(parts, " | ")
	}
	if text == "" {
		text = c.LinkDescription
	}

	if strings.TrimSpace(text) == "" {
		page := firstNonEmpty(c.CurrentPageName, it.Metadata.PageName)
		switch {
		case page != "" && c.CTAText != "":
			text = page + " - " + c.CTAText
		case page != "":
			text = "Ad by " + page
		}
	}
	return text
}

func firstCards(cards []apifyCard, n int) []apifyCard {
	if len(cards) > n {
		return cards[:n]
	}
	return cards
}

// startDate accepts a unix timestamp or an ISO date
func startDate(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var ts int64
	if err := json.Unmarshal(raw, &ts); err == nil {
		return time.Unix(ts, 0).UTC().Format("2006-01-02")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if date, _, found := strings.Cut(s, "T"); found {
			return date
		}
		return s
	}
	return ""
}

func imageURL(it *apifyItem) string {
	sources := [][]apifyImage{it.Images, it.AdContent.Creative.Images}
	if cards := it.AdContent.Creative.Cards; len(cards) > 0 {
		sources = append(sources, cards[0].Images)
	}
	sources = append(sources, it.AdContent.Images, it.Snapshot.Images)

	for _, imgs := range sources {
		if len(imgs) > 0 {
			if u := imgs[0].url(); u != "" {
				return u
			}
		}
	}
	return ""
}

func thumbnails(it *apifyItem) []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(imgs []apifyImage) {
		for _, img := range imgs {
			if u := img.url(); u != "" && !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}

	add(it.Images)
	add(it.AdContent.Creative.Images)
	add(it.Snapshot.Images)
	add(it.AdContent.Images)
	for _, card := range it.AdContent.Creative.Cards {
		add(card.Images)
	}
	return urls
}

func videoURL(it *apifyItem) string {
	if len(it.Videos) > 0 {
		v := it.Videos[0]
		if u := firstNonEmpty(v.URL, v.SDURL, v.HDURL); u != "" {
			return u
		}
	}
	for _, vids := range [][]apifyVideo{it.AdContent.Creative.Videos, it.Snapshot.Videos} {
		if len(vids) > 0 {
			if u := firstNonEmpty(vids[0].URL, vids[0].SDURL); u != "" {
				return u
			}
		}
	}
	return ""
}

func landingURL(it *apifyItem) string {
	if u := firstNonEmpty(it.Snapshot.LinkURL, it.AdContent.LinkURL); u != "" {
		return u
	}
	creative := it.AdContent.Creative
	if creative.LinkURL != "" {
		return creative.LinkURL
	}
	for _, card := range creative.Cards {
		if card.LinkURL != "" {
			return card.LinkURL
		}
	}
	return it.AdContent.CTALink
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
