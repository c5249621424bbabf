package model

// DomainTier classifies how much a landing domain can be trusted
type DomainTier string

const (
	DomainUnknown    DomainTier = "unknown"    // Nothing known either way
	DomainTrusted    DomainTier = "trusted"    // Established brands and platforms
	DomainSuspicious DomainTier = "suspicious" // Carries one or more risk signals
)

// ParseDomainTier maps config strings to a tier; anything unrecognized is unknown
func ParseDomainTier(s string) DomainTier {
	switch DomainTier(s) {
	case DomainTrusted, DomainSuspicious:
		return DomainTier(s)
	case "1", "primary":
		return DomainTrusted
	}
	return DomainUnknown
}

// DomainAssessment describes an ad's landing domain
type DomainAssessment struct {
	Host    string     `json:"host"`
	Tier    DomainTier `json:"tier"`
	Signals []string   `json:"signals,omitempty"` // e.g. "url shortener", "suspicious tld .xyz"
}

// DomainConfig drives landing domain classification
type DomainConfig struct {
	TrustedDomains []string          `yaml:"trusted_domains" mapstructure:"trusted_domains"`
	SuspiciousTLDs []string          `yaml:"suspicious_tlds" mapstructure:"suspicious_tlds"`
	Shorteners     []string          `yaml:"shorteners" mapstructure:"shorteners"`
	DomainMap      map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"` // host -> trusted|suspicious|unknown
}

// DefaultDomainConfig lists well-known brands, abused TLDs and link shorteners
func DefaultDomainConfig() DomainConfig {
	return DomainConfig{
		TrustedDomains: []string{
			"amazon.com", "apple.com", "google.com", "microsoft.com",
			"facebook.com", "instagram.com", "youtube.com", "tiktok.com",
			"walmart.com", "target.com", "ebay.com", "etsy.com", "shopify.com",
			"gov", "edu",
		},
		SuspiciousTLDs: []string{
			"xyz", "top", "click", "loan", "work", "gq", "tk", "ml", "cf", "ga",
			"buzz", "rest", "fit", "shop", "online", "site",
		},
		Shorteners: []string{
			"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly", "is.gd",
			"buff.ly", "cutt.ly", "rebrand.ly", "shorturl.at", "rb.gy",
		},
	}
}
