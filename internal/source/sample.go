package source

import (
	"context"
	"strings"

	"github.com/ppiankov/adjury/internal/model"
)

// SampleSource serves a fixed set of demo ads
type SampleSource struct {
	items []model.ContentItem
}

// NewSampleSource returns the built-in sample set
func NewSampleSource() *SampleSource {
	return &SampleSource{items: sampleAds()}
}

// Name implements Source
func (s *SampleSource) Name() string {
	return model.SourceSample
}

// Search matches the query against text and advertiser, case-insensitively.
// With no match the first limit ads are returned.
func (s *SampleSource) Search(ctx context.Context, query string, limit int) ([]model.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var matched []model.ContentItem
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Text), q) || strings.Contains(strings.ToLower(item.Advertiser), q) {
			matched = append(matched, item)
		}
	}
	if len(matched) == 0 {
		matched = s.items
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]model.ContentItem, len(matched))
	copy(out, matched)
	return out, nil
}

func sample(id, advertiser, text string) model.ContentItem {
	return model.ContentItem{
		ID:           id,
		Text:         text,
		Advertiser:   advertiser,
		StartDate:    "December 2025",
		IsActive:     true,
		AdLibraryURL: model.AdLibraryURL(id),
	}
}

func sampleAds() []model.ContentItem {
	return []model.ContentItem{
		sample("sample_001", "Barbara Decker",
			"Here's why addicted children don't receive our love, but using this new approach you can safely guide them to recovery (while regaining peace in your home and heart)... It's not because they don't want to get help... It's not because you're not giving them enough love or support...."),
		sample("sample_002", "Barbara Decker",
			"How moms of addicted adult children stop the strain on their marriages - and feel fully supported again (while finally feeling like good moms and partners). It's not because they don't want to get help... It's not because you're not giving them enough love or support..."),
		sample("sample_003", "Crypto Wealth Secrets",
			"🚀 I made $47,000 in just 3 days using this FREE secret method that banks don't want you to know about! No experience needed - anyone can do this from home. DM me 'MONEY' for the free guide!"),
		sample("sample_004", "Natural Health Secrets",
			"🌿 DOCTORS HATE THIS! One weird trick discovered by a mom CURES diabetes in just 7 days. Big Pharma is trying to hide this natural remedy. Click before they take this down!"),
		sample("sample_005", "SlimFast Solutions",
			"I lost 50 lbs in 30 days without exercise or diet changes! This celebrity-endorsed supplement is finally available to the public. See my before/after transformation. Limited time: 70% off!"),
		sample("sample_006", "QuickCash Loans",
			"Bad credit? No problem! Get approved for a $10,000 personal loan in 60 seconds - no credit check required. Funds in your account today. Apply now before this offer expires!"),
		sample("sample_007", "Mountain Roasters Coffee Co.",
			"☕ Start your morning right with our organic fair-trade coffee. Roasted fresh weekly, shipped directly to your door. Use code FIRST20 for 20% off your first order."),
		sample("sample_008", "LingoLearn App",
			"Learn Spanish in 15 minutes a day! Our app uses proven spaced repetition to help you become conversational in just 3 months. Join 10 million learners worldwide. Free to start."),
		sample("sample_009", "NorthWear Clothing",
			"Winter Sale: Up to 50% off on all outerwear. Premium quality jackets and coats for the whole family. Free shipping on orders over $75. Shop now at our website."),
		sample("sample_010", "RemoteJobs Hub",
			"Looking for remote work? Companies are hiring data entry specialists - work from home, flexible hours, $25-40/hr. No experience required, we provide training. Apply today!"),
		sample("sample_011", "Delivery Updates",
			"⚠️ URGENT: Your package cannot be delivered! Click here to pay the $1.99 shipping fee with gift card to release your package. Offer expires in 24 hours or package will be returned!"),
		sample("sample_012", "Elon Musk Official",
			"BREAKING: Elon Musk just announced a new crypto giveaway! Send 0.1 BTC and receive 1 BTC back instantly. This is 100% real - limited to first 1000 participants!"),
	}
}
