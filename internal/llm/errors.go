package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// ErrNoProvider is returned when no LLM backend is configured
var ErrNoProvider = errors.New("no LLM provider configured")

// ErrorKind classifies a failed evaluation
type ErrorKind string

const (
	KindTimeout   ErrorKind = "timeout"
	KindMalformed ErrorKind = "malformed_response"
	KindTransport ErrorKind = "transport"
	KindQuota     ErrorKind = "quota"
)

// EvalError is a typed evaluation failure for one judge
type EvalError struct {
	Kind    ErrorKind
	JudgeID string
	Err     error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("judge %s: %s: %v", e.JudgeID, e.Kind, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed
func (e *EvalError) Retryable() bool {
	return e.Kind == KindTransport || e.Kind == KindQuota
}

// StatusError is a non-200 response from an HTTP backend
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Code, e.Body)
}

var quotaMarkers = []string{"quota", "rate limit", "RESOURCE_EXHAUSTED", "ThrottlingException", "Too Many Requests"}

// classify maps a backend error to an EvalError
func classify(judgeID string, err error) *EvalError {
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return evalErr
	}
	return &EvalError{Kind: kindOf(err), JudgeID: judgeID, Err: err}
}

func kindOf(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if code := statusCode(err); code == http.StatusTooManyRequests {
		return KindQuota
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, strings.ToLower(marker)) {
			return KindQuota
		}
	}
	return KindTransport
}

func statusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}
