package panel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/adjury/internal/llm"
	"github.com/ppiankov/adjury/internal/model"
)

// fakeJudge answers per judge id with an optional delay
type fakeJudge struct {
	delays   map[string]time.Duration
	tiers    map[string]model.Tier
	fail     map[string]error
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeJudge) Evaluate(ctx context.Context, req llm.EvaluateRequest) (*model.Verdict, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if d := f.delays[req.JudgeID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, &llm.EvalError{Kind: llm.KindTimeout, JudgeID: req.JudgeID, Err: ctx.Err()}
		}
	}
	if err := f.fail[req.JudgeID]; err != nil {
		return nil, err
	}
	tier := f.tiers[req.JudgeID]
	if tier == "" {
		tier = model.TierAllow
	}
	return &model.Verdict{JudgeID: "spoofed", Tier: tier, Confidence: 0.9}, nil
}

func TestCoordinator_PanelOrderKept(t *testing.T) {
	judge := &fakeJudge{
		delays: map[string]time.Duration{"a": 30 * time.Millisecond, "b": 10 * time.Millisecond},
		tiers:  map[string]model.Tier{"a": model.TierRemove, "b": model.TierLabel, "c": model.TierAllow},
	}
	c := NewCoordinator(judge, nil, nil)

	verdicts, failures, err := c.Evaluate(context.Background(), llm.EvaluateRequest{ContentText: "x"}, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %+v", failures)
	}
	want := []string{"a", "b", "c"}
	for i, v := range verdicts {
		if v.JudgeID != want[i] {
			t.Errorf("verdict %d judge = %s, want %s", i, v.JudgeID, want[i])
		}
	}
	if verdicts[0].Tier != model.TierRemove {
		t.Errorf("expected judge a's own tier, got %s", verdicts[0].Tier)
	}
}

func TestCoordinator_OneJudgeTimesOut(t *testing.T) {
	judge := &fakeJudge{delays: map[string]time.Duration{"slow": time.Second}}
	c := NewCoordinator(judge, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ids := []string{"j1", "j2", "slow", "j3", "j4"}
	verdicts, failures, err := c.Evaluate(ctx, llm.EvaluateRequest{}, ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verdicts) != 4 {
		t.Errorf("expected 4 verdicts, got %d", len(verdicts))
	}
	if len(failures) != 1 || failures[0].JudgeID != "slow" || failures[0].Kind != string(llm.KindTimeout) {
		t.Errorf("expected one timeout failure for slow, got %+v", failures)
	}
}

func TestCoordinator_FailureKinds(t *testing.T) {
	judge := &fakeJudge{fail: map[string]error{
		"bad":  &llm.EvalError{Kind: llm.KindMalformed, JudgeID: "bad"},
		"down": context.Canceled,
	}}
	c := NewCoordinator(judge, nil, nil)

	verdicts, failures, err := c.Evaluate(context.Background(), llm.EvaluateRequest{}, []string{"ok", "bad", "down"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verdicts) != 1 || len(failures) != 2 {
		t.Fatalf("expected 1 verdict and 2 failures, got %d/%d", len(verdicts), len(failures))
	}
	if failures[0].Kind != string(llm.KindMalformed) || failures[1].Kind != string(llm.KindTransport) {
		t.Errorf("unexpected failure kinds: %+v", failures)
	}
}

func TestCoordinator_NoCapacity(t *testing.T) {
	slots := NewSlots(1)
	slots <- struct{}{} // occupied for the whole test

	c := NewCoordinator(&fakeJudge{}, slots, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	verdicts, failures, err := c.Evaluate(ctx, llm.EvaluateRequest{}, []string{"a", "b"})
	if err != ErrNoCapacity {
		t.Fatalf("expected ErrNoCapacity, got %v", err)
	}
	if len(verdicts) != 0 || len(failures) != 2 {
		t.Errorf("expected 2 slot failures, got %d verdicts %d failures", len(verdicts), len(failures))
	}
}

func TestCoordinator_SharedSlotsBound(t *testing.T) {
	judge := &fakeJudge{delays: map[string]time.Duration{}}
	ids := make([]string, 6)
	for i := range ids {
		ids[i] = string(rune('a' + i))
		judge.delays[ids[i]] = 20 * time.Millisecond
	}

	slots := NewSlots(3)
	c1 := NewCoordinator(judge, slots, nil)
	c2 := NewCoordinator(judge, slots, nil)

	var wg sync.WaitGroup
	for _, c := range []*Coordinator{c1, c2} {
		wg.Add(1)
		go func(c *Coordinator) {
			defer wg.Done()
			if _, _, err := c.Evaluate(context.Background(), llm.EvaluateRequest{}, ids); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(c)
	}
	wg.Wait()

	if peak := judge.peak.Load(); peak > 3 {
		t.Errorf("expected at most 3 concurrent judge calls, saw %d", peak)
	}
}
