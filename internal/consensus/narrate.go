package consensus

import (
	"context"
	"strings"

	"github.com/ppiankov/adjury/internal/model"
	"go.uber.org/zap"
)

// Placeholder narrative values
const (
	UnavailableNarrative = "Synthesis unavailable due to processing error."
	UnknownNarrative     = "Unable to determine disagreement pattern."
	UnknownTension       = "Unknown"

	previewLength = 500
)

// Narrator explains why a panel disagrees
type Narrator interface {
	Summarize(ctx context.Context, verdicts model.VerdictSet, contentPreview string) (narrative string, tension string, err error)
}

// Narrate asks the narrator for a disagreement narrative.
// A nil narrator means narration is disabled and yields empty strings.
// Failures never propagate; they are replaced with placeholders.
func Narrate(ctx context.Context, narrator Narrator, verdicts model.VerdictSet, content string, logger *zap.Logger) (string, string) {
	if narrator == nil {
		return "", ""
	}

	narrative, tension, err := narrator.Summarize(ctx, verdicts, Preview(content, previewLength))
	if err != nil {
		if logger != nil {
			logger.Warn("narrative generation failed", zap.Error(err))
		}
		return UnavailableNarrative, UnknownTension
	}

	if strings.TrimSpace(narrative) == "" {
		narrative = UnknownNarrative
	}
	if strings.TrimSpace(tension) == "" {
		tension = UnknownTension
	}
	return narrative, tension
}

// Preview returns at most n runes of s
func Preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
