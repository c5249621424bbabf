package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ppiankov/adjury/internal/consensus"
	"github.com/ppiankov/adjury/internal/llm"
	"github.com/ppiankov/adjury/internal/model"
	"go.uber.org/zap"
)

// ErrNoModels means no model family is configured for cross-model analysis
var ErrNoModels = errors.New("no models available for cross-model analysis")

// Analyst is one model family giving a persona-free ruling
type Analyst interface {
	Family() string
	ModelID() string
	Analyze(ctx context.Context, req llm.EvaluateRequest) (*model.ModelVerdict, error)
}

// CrossModel runs the same analysis across model families in parallel
type CrossModel struct {
	analysts []Analyst
	logger   *zap.Logger
}

// NewCrossModel creates a cross-model runner over the given analysts
func NewCrossModel(analysts []Analyst, logger *zap.Logger) *CrossModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CrossModel{analysts: analysts, logger: logger}
}

// Families lists the configured model families in order
func (c *CrossModel) Families() []string {
	out := make([]string, len(c.analysts))
	for i, a := range c.analysts {
		out[i] = a.Family()
	}
	return out
}

// Run asks every family for a verdict and waits for all of them. Failed
// families are recorded; the agreement covers only the verdicts that came back.
func (c *CrossModel) Run(ctx context.Context, req llm.EvaluateRequest) (*model.CrossModelResult, error) {
	if c == nil || len(c.analysts) == 0 {
		return nil, ErrNoModels
	}

	outcomes := make([]struct {
		verdict *model.ModelVerdict
		failure *model.JudgeFailure
	}, len(c.analysts))

	var wg sync.WaitGroup
	for i, a := range c.analysts {
		wg.Add(1)
		go func(idx int, a Analyst) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("analyst panicked", zap.String("family", a.Family()), zap.Any("panic", r))
					outcomes[idx].failure = &model.JudgeFailure{JudgeID: a.Family(), Kind: string(llm.KindTransport), Reason: fmt.Sprintf("panic: %v", r)}
				}
			}()

			v, err := a.Analyze(ctx, req)
			if err == nil && v == nil {
				err = fmt.Errorf("empty verdict")
			}
			if err != nil {
				kind := llm.KindTransport
				var evalErr *llm.EvalError
				if errors.As(err, &evalErr) {
					kind = evalErr.Kind
				}
				c.logger.Warn("cross-model analyst failed", zap.String("family", a.Family()), zap.String("kind", string(kind)), zap.Error(err))
				outcomes[idx].failure = &model.JudgeFailure{JudgeID: a.Family(), Kind: string(kind), Reason: err.Error()}
				return
			}
			outcomes[idx].verdict = v
		}(i, a)
	}
	wg.Wait()

	result := &model.CrossModelResult{}
	for _, o := range outcomes {
		if o.verdict != nil {
			result.Verdicts = append(result.Verdicts, *o.verdict)
		}
		if o.failure != nil {
			result.Failures = append(result.Failures, *o.failure)
		}
	}
	result.Agreement, result.EscalationRecommended, result.DisagreementSummary = consensus.Agreement(result.Verdicts)

	c.logger.Info("cross-model analysis complete",
		zap.Int("models", len(c.analysts)),
		zap.Int("verdicts", len(result.Verdicts)),
		zap.String("agreement", string(result.Agreement)))
	return result, nil
}
