package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/adjury/internal/model"
)

const narratorSystem = "You are an expert content policy analyst who explains why different moderation frameworks reach different conclusions."

// Narrator explains panel disagreement with one extra LLM call
type Narrator struct {
	provider Provider
	timeout  time.Duration
}

// NewNarrator creates a narrator over the given provider
func NewNarrator(provider Provider, timeout time.Duration) *Narrator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Narrator{provider: provider, timeout: timeout}
}

type narrativePayload struct {
	Narrative string `json:"crux_narrative"`
	Tension   string `json:"primary_tension"`
}

// Summarize returns a short narrative and the primary tension between judges
func (n *Narrator) Summarize(ctx context.Context, verdicts model.VerdictSet, contentPreview string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	raw, err := n.provider.Complete(ctx, Prompt{
		System:   narratorSystem,
		User:     buildNarratorPrompt(verdicts, contentPreview),
		JSONMode: true,
	})
	if err != nil {
		return "", "", fmt.Errorf("narrator call: %w", err)
	}

	var p narrativePayload
	if err := decodeJSON(raw, &p); err != nil {
		return "", "", err
	}
	return p.Narrative, p.Tension, nil
}

func buildNarratorPrompt(verdicts model.VerdictSet, preview string) string {
	var b strings.Builder
	b.WriteString("Analyze the disagreement between these content moderation judges.\n\n")
	b.WriteString("CONTENT PREVIEW:\n")
	b.WriteString(preview)
	b.WriteString("\n\nVERDICTS:\n")
	for _, v := range verdicts {
		fmt.Fprintf(&b, "- %s: %s (confidence %.2f) on %s\n", v.JudgeID, v.Tier, v.Confidence, v.PrimaryConcern)
		for i, r := range v.Reasoning {
			if i >= 2 {
				break
			}
			fmt.Fprintf(&b, "  * %s\n", r)
		}
	}
	b.WriteString(`
Respond with JSON only:
{
  "crux_narrative": "<2-3 sentences explaining the core disagreement>",
  "primary_tension": "<short label, e.g. Safety vs Expression>"
}`)
	return b.String()
}
