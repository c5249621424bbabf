package llm

import (
	"context"

	"github.com/ppiankov/adjury/internal/judge"
	"github.com/ppiankov/adjury/internal/model"
	"go.uber.org/zap"
)

// Analyst asks one model family for a persona-free ruling
type Analyst struct {
	provider Provider
	modelID  string
	r        retrier
}

// NewAnalyst wraps a provider; modelID is reported alongside its verdicts
func NewAnalyst(provider Provider, modelID string, opts EvaluatorOptions, logger *zap.Logger) *Analyst {
	e := NewEvaluator(provider, nil, opts, logger)
	return &Analyst{provider: provider, modelID: modelID, r: e.retrier()}
}

// Family returns the provider name
func (a *Analyst) Family() string {
	return a.provider.Name()
}

// ModelID returns the configured model, or "default" when the provider picks
func (a *Analyst) ModelID() string {
	if a.modelID == "" {
		return "default"
	}
	return a.modelID
}

// Analyze returns the family's verdict on the content in req; req.JudgeID is ignored.
// Every returned error is an *EvalError carrying the family name.
func (a *Analyst) Analyze(ctx context.Context, req EvaluateRequest) (*model.ModelVerdict, error) {
	prompt := Prompt{
		System:   judge.AnalystPrompt,
		User:     judge.ContentPrompt(req.ContentText, req.ContextHint),
		Image:    req.Image,
		JSONMode: true,
	}

	var verdict *model.ModelVerdict
	err := a.r.do(ctx, a.Family(), prompt, func(raw string) error {
		v, err := ParseModelVerdict(raw, a.Family(), a.ModelID())
		if err != nil {
			return err
		}
		verdict = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return verdict, nil
}
