package pipeline

import (
	"fmt"
	"strings"

	"github.com/ppiankov/adjury/internal/model"
)

// ContextHint describes everything about an ad besides its copy:
// who runs it, where it leads, what media it carries and whom it targets.
// domain may be nil.
func ContextHint(item model.ContentItem, domain *model.DomainAssessment) string {
	var b strings.Builder

	if item.Advertiser != "" {
		fmt.Fprintf(&b, "Advertiser: %s\n", item.Advertiser)
	}

	if item.LandingPageURL != "" {
		fmt.Fprintf(&b, "Landing Page URL: %s\n", item.LandingPageURL)
		if line := domainLine(domain); line != "" {
			fmt.Fprintf(&b, "Landing Domain: %s\n", line)
		}
		switch {
		case item.LandingPageText != "":
			fmt.Fprintf(&b, "Landing Page Content:\n%s\n", item.LandingPageText)
		case item.LandingPageError != "":
			fmt.Fprintf(&b, "Landing Page: could not be analyzed (%s)\n", item.LandingPageError)
		}
	}

	var media []string
	if item.ImageURL != "" {
		media = append(media, "image "+item.ImageURL)
	}
	if item.VideoURL != "" {
		media = append(media, "video "+item.VideoURL)
	}
	if n := len(item.ThumbnailURLs); n > 1 {
		media = append(media, fmt.Sprintf("%d creatives", n))
	}
	if len(media) > 0 {
		fmt.Fprintf(&b, "Media: %s\n", strings.Join(media, "; "))
	}

	var targeting []string
	if len(item.Countries) > 0 {
		targeting = append(targeting, "countries "+strings.Join(item.Countries, ", "))
	}
	if item.StartDate != "" {
		targeting = append(targeting, "running since "+item.StartDate)
	}
	if item.SpendRange != "" {
		targeting = append(targeting, "spend "+item.SpendRange)
	}
	if item.ImpressionsRange != "" {
		targeting = append(targeting, "impressions "+item.ImpressionsRange)
	}
	if len(targeting) > 0 {
		status := "inactive"
		if item.IsActive {
			status = "active"
		}
		fmt.Fprintf(&b, "Targeting: %s (%s)\n", strings.Join(targeting, ", "), status)
	}

	return strings.TrimSpace(b.String())
}

// domainLine summarizes a domain assessment; unknown domains say nothing
func domainLine(d *model.DomainAssessment) string {
	if d == nil || d.Tier == model.DomainUnknown {
		return ""
	}
	if len(d.Signals) == 0 {
		return fmt.Sprintf("%s (%s)", d.Host, d.Tier)
	}
	return fmt.Sprintf("%s (%s: %s)", d.Host, d.Tier, strings.Join(d.Signals, ", "))
}
