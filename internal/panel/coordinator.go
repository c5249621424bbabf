// Package panel fans one content item out to a panel of judges.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ppiankov/adjury/internal/llm"
	"github.com/ppiankov/adjury/internal/model"
	"go.uber.org/zap"
)

// DefaultSlots bounds concurrent judge calls across a run
const DefaultSlots = 25

// ErrNoCapacity means the context ended before any judge got an execution slot
var ErrNoCapacity = errors.New("no judge execution capacity before deadline")

// Judge evaluates content as one persona
type Judge interface {
	Evaluate(ctx context.Context, req llm.EvaluateRequest) (*model.Verdict, error)
}

// Slots is a counting semaphore shared by every coordinator of a run
type Slots chan struct{}

// NewSlots creates a semaphore with n slots
func NewSlots(n int) Slots {
	if n <= 0 {
		n = DefaultSlots
	}
	return make(Slots, n)
}

func (s Slots) acquire(ctx context.Context) bool {
	// A done context never takes a slot, even when one is free
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case s <- struct{}{}:
		return true
	}
}

func (s Slots) release() {
	<-s
}

// Coordinator dispatches a judge panel through shared slots
type Coordinator struct {
	judge  Judge
	slots  Slots
	logger *zap.Logger
}

// NewCoordinator creates a coordinator; nil slots get a private semaphore
func NewCoordinator(judge Judge, slots Slots, logger *zap.Logger) *Coordinator {
	if slots == nil {
		slots = NewSlots(DefaultSlots)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{judge: judge, slots: slots, logger: logger}
}

type outcome struct {
	verdict *model.Verdict
	failure *model.JudgeFailure
}

// Evaluate runs every judge concurrently against the content in req.
// Verdicts and failures keep panel order regardless of completion order.
func (c *Coordinator) Evaluate(ctx context.Context, req llm.EvaluateRequest, judgeIDs []string) (model.VerdictSet, []model.JudgeFailure, error) {
	outcomes := make([]outcome, len(judgeIDs))
	var acquired atomic.Int32
	var wg sync.WaitGroup

	for i, id := range judgeIDs {
		wg.Add(1)
		go func(idx int, judgeID string) {
			defer wg.Done()

			if !c.slots.acquire(ctx) {
				outcomes[idx].failure = &model.JudgeFailure{
					JudgeID: judgeID,
					Kind:    string(llm.KindTimeout),
					Reason:  "no execution slot before deadline",
				}
				return
			}
			acquired.Add(1)
			defer c.slots.release()

			outcomes[idx] = c.evaluateOne(ctx, req, judgeID)
		}(i, id)
	}
	wg.Wait()

	verdicts := make(model.VerdictSet, 0, len(judgeIDs))
	var failures []model.JudgeFailure
	for _, o := range outcomes {
		if o.verdict != nil {
			verdicts = append(verdicts, *o.verdict)
		}
		if o.failure != nil {
			failures = append(failures, *o.failure)
		}
	}

	if len(judgeIDs) > 0 && acquired.Load() == 0 {
		return verdicts, failures, ErrNoCapacity
	}
	return verdicts, failures, nil
}

func (c *Coordinator) evaluateOne(ctx context.Context, req llm.EvaluateRequest, judgeID string) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{failure: &model.JudgeFailure{
				JudgeID: judgeID,
				Kind:    string(llm.KindTransport),
				Reason:  fmt.Sprintf("panic: %v", r),
			}}
			c.logger.Error("judge panicked", zap.String("judge", judgeID), zap.Any("panic", r))
		}
	}()

	req.JudgeID = judgeID
	v, err := c.judge.Evaluate(ctx, req)
	if err == nil && v == nil {
		err = fmt.Errorf("empty verdict")
	}
	if err != nil {
		kind := llm.KindTransport
		var evalErr *llm.EvalError
		if errors.As(err, &evalErr) {
			kind = evalErr.Kind
		}
		c.logger.Warn("judge failed",
			zap.String("judge", judgeID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return outcome{failure: &model.JudgeFailure{JudgeID: judgeID, Kind: string(kind), Reason: err.Error()}}
	}

	v.JudgeID = judgeID
	return outcome{verdict: v}
}
