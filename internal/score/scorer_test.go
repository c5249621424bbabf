package score

import (
	"regexp"
	"testing"

	"github.com/ppiankov/adjury/internal/model"
)

func TestPatternTable_Compiles(t *testing.T) {
	for _, c := range categories {
		if c.RiskScore < 1 || c.RiskScore > 10 {
			t.Errorf("%s: risk score %d outside [1,10]", c.Type, c.RiskScore)
		}
		for _, p := range c.Patterns {
			if _, err := regexp.Compile(p); err != nil {
				t.Errorf("%s: pattern %q does not compile: %v", c.Type, p, err)
			}
		}
	}
	if len(categories) != 11 {
		t.Errorf("expected 11 scam categories, got %d", len(categories))
	}
}

func TestFingerprints_CryptoSaturates(t *testing.T) {
	text := "Crypto giveaway! Double your bitcoin with guaranteed returns."

	fps := Fingerprints(text)
	if len(fps) != 1 {
		t.Fatalf("expected 1 fingerprint, got %d: %+v", len(fps), fps)
	}

	fp := fps[0]
	if fp.Type != model.ScamCrypto {
		t.Errorf("expected crypto_scam, got %s", fp.Type)
	}
	if fp.MatchCount != 3 {
		t.Errorf("expected 3 matches, got %d", fp.MatchCount)
	}
	if fp.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", fp.Confidence)
	}
	if fp.RiskScore != 9 {
		t.Errorf("expected risk 9, got %d", fp.RiskScore)
	}

	// Fingerprint contribution is 45, no votes contribute nothing
	if got := Harm(fps, model.Distribution{}); got != 45 {
		t.Errorf("expected harm 45, got %d", got)
	}
}

func TestFingerprints_CaseInsensitive(t *testing.T) {
	fps := Fingerprints("CRYPTO AIRDROP")
	if len(fps) != 1 || fps[0].Type != model.ScamCrypto {
		t.Fatalf("expected crypto match regardless of case, got %+v", fps)
	}
}

func TestFingerprints_SortedByRisk(t *testing.T) {
	text := "Verify your account now. Act now before it runs out."

	fps := Fingerprints(text)
	if len(fps) != 2 {
		t.Fatalf("expected 2 fingerprints, got %d: %+v", len(fps), fps)
	}
	if fps[0].Type != model.ScamPhishing || fps[1].Type != model.ScamUrgency {
		t.Errorf("expected phishing before urgency, got %s, %s", fps[0].Type, fps[1].Type)
	}
	if fps[1].MatchCount != 2 {
		t.Errorf("expected 2 urgency matches, got %d", fps[1].MatchCount)
	}

	violations := Violations(fps)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].Code != "§1.1" || violations[1].Code != "§3.4" {
		t.Errorf("unexpected violation order: %s, %s", violations[0].Code, violations[1].Code)
	}
}

func TestFingerprints_StableForTies(t *testing.T) {
	text := "BREAKING: Elon Musk just announced a new crypto giveaway! Send 0.1 BTC and receive 1 BTC back instantly."

	fps := Fingerprints(text)
	if len(fps) != 2 {
		t.Fatalf("expected 2 fingerprints, got %d: %+v", len(fps), fps)
	}
	// Both score 9; table order keeps crypto first
	if fps[0].Type != model.ScamCrypto || fps[1].Type != model.ScamFakeCelebrity {
		t.Errorf("expected crypto then fake_celebrity, got %s, %s", fps[0].Type, fps[1].Type)
	}
}

func TestFingerprints_BenignText(t *testing.T) {
	text := "Start your morning right with our organic fair-trade coffee. Roasted fresh weekly."
	if fps := Fingerprints(text); len(fps) != 0 {
		t.Errorf("expected no fingerprints, got %+v", fps)
	}
	if v := Violations(nil); len(v) != 0 {
		t.Errorf("expected no violations, got %+v", v)
	}
}

func TestViolations_DedupByCode(t *testing.T) {
	fps := []model.ScamFingerprint{
		{Type: model.ScamCrypto, RiskScore: 9},
		{Type: model.ScamCrypto, RiskScore: 9},
		{Type: model.ScamMLM, RiskScore: 6},
		{Type: "unknown", RiskScore: 1},
	}

	violations := Violations(fps)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].Code != "§4.2" || violations[1].Code != "§4.4" {
		t.Errorf("unexpected violations: %+v", violations)
	}
}

func TestConfidence_Monotonic(t *testing.T) {
	prev := -1.0
	for n := 0; n <= 6; n++ {
		c := Confidence(n)
		if c < prev {
			t.Errorf("confidence decreased at %d matches: %f < %f", n, c, prev)
		}
		if c < 0 || c > 1 {
			t.Errorf("confidence %f outside [0,1]", c)
		}
		if n >= 3 && c != 1.0 {
			t.Errorf("expected saturation at %d matches, got %f", n, c)
		}
		prev = c
	}
}
