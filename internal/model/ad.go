package model

import "fmt"

// AdLibraryBaseURL is the public ads library entry point
const AdLibraryBaseURL = "https://www.facebook.com/ads/library/"

// ContentItem represents one ad pulled from the ads library (or supplied by the caller)
// Items are immutable once fetched; landing page enrichment works on a copy.
type ContentItem struct {
	ID         string `json:"ad_id"`           // Source-assigned identifier
	Text       string `json:"text"`            // Ad copy
	Advertiser string `json:"advertiser_name"` // Page or advertiser name

	PageID    string `json:"page_id,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	IsActive  bool   `json:"is_active"`

	AdLibraryURL     string   `json:"ad_library_url,omitempty"`    // Direct link into the ads library
	Countries        []string `json:"country_targeting,omitempty"` // Targeted countries
	SpendRange       string   `json:"spend_range,omitempty"`
	ImpressionsRange string   `json:"impressions_range,omitempty"`

	ImageURL      string   `json:"image_url,omitempty"`
	VideoURL      string   `json:"video_url,omitempty"`
	ThumbnailURLs []string `json:"thumbnail_urls,omitempty"`

	LandingPageURL   string `json:"landing_page_url,omitempty"`         // Destination when the ad is clicked
	LandingPageText  string `json:"landing_page_content,omitempty"`     // Extracted landing page text
	LandingPageError string `json:"landing_page_crawl_error,omitempty"` // Why the landing page has no text
}

// WithLanding returns a copy of the item enriched with a landing page fetch outcome
func (c ContentItem) WithLanding(text, reason string) ContentItem {
	c.LandingPageText = text
	c.LandingPageError = reason
	return c
}

// AdLibraryURL builds a direct link to an ad in the ads library
func AdLibraryURL(adID string) string {
	return fmt.Sprintf("%s?id=%s", AdLibraryBaseURL, adID)
}
