// Package validate classifies the domains ads send people to.
package validate

import (
	"net"
	"net/url"
	"strings"

	"github.com/ppiankov/adjury/internal/model"
)

// DomainClassifier assigns landing domains a trust tier and risk signals
type DomainClassifier struct {
	config         *model.DomainConfig
	trusted        map[string]bool
	suspiciousTLDs map[string]bool
	shorteners     map[string]bool
}

// NewDomainClassifier creates a classifier; nil config uses the defaults
func NewDomainClassifier(config *model.DomainConfig) *DomainClassifier {
	if config == nil {
		defaults := model.DefaultDomainConfig()
		config = &defaults
	}

	c := &DomainClassifier{
		config:         config,
		trusted:        toSet(config.TrustedDomains),
		suspiciousTLDs: toSet(config.SuspiciousTLDs),
		shorteners:     toSet(config.Shorteners),
	}
	return c
}

func toSet(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), ".")
		if v != "" {
			m[v] = true
		}
	}
	return m
}

// Classify assesses a landing URL. An unparseable URL yields nil.
func (c *DomainClassifier) Classify(rawURL string) *model.DomainAssessment {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Hostname() == "" {
		return nil
	}
	host := strings.TrimSuffix(strings.ToLower(parsed.Hostname()), ".")
	a := &model.DomainAssessment{Host: host, Tier: model.DomainUnknown}

	// Explicit mappings from config win
	if tier, ok := c.config.DomainMap[host]; ok {
		a.Tier = model.ParseDomainTier(strings.ToLower(tier))
		return a
	}

	a.Signals = c.signals(host, parsed)
	switch {
	case len(a.Signals) > 0:
		a.Tier = model.DomainSuspicious
	case matchesSuffix(host, c.trusted):
		a.Tier = model.DomainTrusted
	}
	return a
}

func (c *DomainClassifier) signals(host string, u *url.URL) []string {
	var out []string

	if net.ParseIP(host) != nil {
		out = append(out, "ip address host")
	}
	if matchesSuffix(host, c.shorteners) {
		out = append(out, "url shortener")
	}
	if i := strings.LastIndex(host, "."); i >= 0 && c.suspiciousTLDs[host[i+1:]] {
		out = append(out, "suspicious tld ."+host[i+1:])
	}
	if strings.HasPrefix(host, "xn--") || strings.Contains(host, ".xn--") {
		out = append(out, "punycode host")
	}
	if strings.Count(host, ".") >= 4 {
		out = append(out, "deep subdomain nesting")
	}
	if u.User != nil {
		out = append(out, "credentials in url")
	}
	// A trusted brand name in front of an unrelated registrable domain
	if !matchesSuffix(host, c.trusted) {
		for brand := range c.trusted {
			if strings.Contains(brand, ".") && strings.Contains(host, brand+".") {
				out = append(out, "brand lookalike "+brand)
				break
			}
		}
	}
	return out
}

// matchesSuffix reports whether host is, or is a subdomain of, any entry
func matchesSuffix(host string, set map[string]bool) bool {
	if set[host] {
		return true
	}
	for i := 0; i < len(host); i++ {
		if host[i] == '.' && set[host[i+1:]] {
			return true
		}
	}
	return false
}
