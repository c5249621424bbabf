package panel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/adjury/internal/llm"
	"github.com/ppiankov/adjury/internal/model"
)

type fakeAnalyst struct {
	family string
	tier   model.Tier
	err    error
	delay  time.Duration
	panics bool

	got llm.EvaluateRequest
}

func (a *fakeAnalyst) Family() string  { return a.family }
func (a *fakeAnalyst) ModelID() string { return a.family + "-1" }

func (a *fakeAnalyst) Analyze(ctx context.Context, req llm.EvaluateRequest) (*model.ModelVerdict, error) {
	a.got = req
	if a.panics {
		panic("analyst exploded")
	}
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	if a.err != nil {
		return nil, a.err
	}
	return &model.ModelVerdict{ModelFamily: a.family, ModelID: a.ModelID(), Tier: a.tier, Confidence: 0.8}, nil
}

func TestCrossModel_KeepsPartialResults(t *testing.T) {
	gemini := &fakeAnalyst{family: "gemini", tier: model.TierRemove, delay: 20 * time.Millisecond}
	openai := &fakeAnalyst{family: "openai", tier: model.TierAgeGate}
	anthropic := &fakeAnalyst{family: "anthropic", err: &llm.EvalError{Kind: llm.KindQuota, JudgeID: "anthropic", Err: errors.New("429")}}

	cm := NewCrossModel([]Analyst{gemini, openai, anthropic}, nil)
	img := &llm.Image{Data: []byte{1}, MIMEType: "image/png"}
	result, err := cm.Run(context.Background(), llm.EvaluateRequest{ContentText: "ad", Image: img})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Verdicts) != 2 || result.Verdicts[0].ModelFamily != "gemini" || result.Verdicts[1].ModelFamily != "openai" {
		t.Fatalf("verdicts should keep configured order: %+v", result.Verdicts)
	}
	if len(result.Failures) != 1 || result.Failures[0].JudgeID != "anthropic" || result.Failures[0].Kind != string(llm.KindQuota) {
		t.Errorf("unexpected failures: %+v", result.Failures)
	}
	if result.Agreement != model.AgreementPartial || result.EscalationRecommended {
		t.Errorf("adjacent tiers should be partial without escalation, got %s %v", result.Agreement, result.EscalationRecommended)
	}
	if gemini.got.Image != img || openai.got.Image != img {
		t.Error("every analyst should receive the image")
	}
}

func TestCrossModel_PanicAndSingleSurvivor(t *testing.T) {
	cm := NewCrossModel([]Analyst{
		&fakeAnalyst{family: "gemini", panics: true},
		&fakeAnalyst{family: "openai", tier: model.TierAllow},
	}, nil)

	result, err := cm.Run(context.Background(), llm.EvaluateRequest{ContentText: "ad"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Failures) != 1 || result.Failures[0].JudgeID != "gemini" {
		t.Errorf("panic should become a failure: %+v", result.Failures)
	}
	if result.Agreement != model.AgreementDisagreement || !result.EscalationRecommended {
		t.Errorf("one verdict cannot be compared, got %s", result.Agreement)
	}
}

func TestCrossModel_NoModels(t *testing.T) {
	var nilRunner *CrossModel
	for _, cm := range []*CrossModel{nilRunner, NewCrossModel(nil, nil)} {
		if _, err := cm.Run(context.Background(), llm.EvaluateRequest{}); !errors.Is(err, ErrNoModels) {
			t.Errorf("expected ErrNoModels, got %v", err)
		}
	}
	if fams := NewCrossModel([]Analyst{&fakeAnalyst{family: "gemini"}}, nil).Families(); len(fams) != 1 || fams[0] != "gemini" {
		t.Errorf("families = %v", fams)
	}
}
