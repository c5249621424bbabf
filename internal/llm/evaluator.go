package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/adjury/internal/judge"
	"github.com/ppiankov/adjury/internal/model"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// EvaluateRequest is one judge applied to one piece of content
type EvaluateRequest struct {
	JudgeID     string
	ContentText string
	ContextHint string
	Image       *Image
}

// EvaluatorOptions tunes the evaluator
type EvaluatorOptions struct {
	// Timeout bounds a single attempt
	Timeout time.Duration

	// MaxRetries is the number of extra attempts for transport and quota failures
	MaxRetries int

	// RetryBase is the first Fibonacci backoff step
	RetryBase time.Duration
}

// Evaluator turns a provider into a judge verdict client
type Evaluator struct {
	provider Provider
	registry *judge.Registry
	opts     EvaluatorOptions
	logger   *zap.Logger
}

// NewEvaluator creates an evaluator over the given provider
func NewEvaluator(provider Provider, registry *judge.Registry, opts EvaluatorOptions, logger *zap.Logger) *Evaluator {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{provider: provider, registry: registry, opts: opts, logger: logger}
}

// Evaluate asks one judge for a verdict. Transport and quota failures are
// retried with Fibonacci backoff; every returned error is an *EvalError.
func (e *Evaluator) Evaluate(ctx context.Context, req EvaluateRequest) (*model.Verdict, error) {
	j, ok := e.registry.Lookup(req.JudgeID)
	if !ok {
		return nil, &EvalError{Kind: KindMalformed, JudgeID: req.JudgeID, Err: fmt.Errorf("unknown judge")}
	}

	prompt := Prompt{
		System:   judge.SystemPrompt(j),
		User:     judge.ContentPrompt(req.ContentText, req.ContextHint),
		Image:    req.Image,
		JSONMode: true,
	}

	var verdict *model.Verdict
	err := e.retrier().do(ctx, req.JudgeID, prompt, func(raw string) error {
		v, err := ParseVerdict(raw, req.JudgeID)
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

func (e *Evaluator) retrier() retrier {
	return retrier{provider: e.provider, opts: e.opts, logger: e.logger}
}

// retrier runs one prompt with a per-attempt timeout. Transport and quota
// failures are retried with Fibonacci backoff.
type retrier struct {
	provider Provider
	opts     EvaluatorOptions
	logger   *zap.Logger
}

// do completes prompt and hands the raw text to parse. A parse error is a
// malformed response and is not retried. Every returned error is an *EvalError.
func (r retrier) do(ctx context.Context, id string, prompt Prompt, parse func(raw string) error) *EvalError {
	var lastErr *EvalError
	attempt := 0

	b := retry.WithMaxRetries(uint64(r.opts.MaxRetries), retry.NewFibonacci(r.opts.RetryBase))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()

		raw, err := r.provider.Complete(attemptCtx, prompt)
		if err != nil {
			lastErr = classify(id, err)
			if lastErr.Retryable() {
				r.logger.Debug("call failed, retrying",
					zap.String("judge", id),
					zap.Int("attempt", attempt),
					zap.String("kind", string(lastErr.Kind)),
					zap.Error(err))
				return retry.RetryableError(lastErr)
			}
			return lastErr
		}

		if err := parse(raw); err != nil {
			lastErr = &EvalError{Kind: KindMalformed, JudgeID: id, Err: err}
			return lastErr
		}
		return nil
	})
	if err == nil {
		return nil
	}

	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return evalErr
	}
	// Context ended between attempts
	if lastErr != nil && ctx.Err() == nil {
		return lastErr
	}
	return &EvalError{Kind: KindTimeout, JudgeID: id, Err: err}
}

// Provider returns the underlying backend
func (e *Evaluator) Provider() Provider {
	return e.provider
}
