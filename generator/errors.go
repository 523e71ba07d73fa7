package generator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"
	genai "google.golang.org/genai"
)

// DefaultRetryAfterSeconds is the wait suggested when every candidate is rate limited.
const DefaultRetryAfterSeconds = 30

// FailureKind classifies why a generation did not produce text.
type FailureKind string

const (
	KindInvalidCredential  FailureKind = "invalid_credential"
	KindRateLimited        FailureKind = "rate_limited"
	KindAllModelsExhausted FailureKind = "all_models_exhausted"
	KindUnknown            FailureKind = "unknown"
)

// Failure is the only error type that leaves Client.Generate.
type Failure struct {
	Kind              FailureKind
	Message           string
	RetryAfterSeconds int
	Err               error
}

func (f *Failure) Error() string { return f.Message }
func (f *Failure) Unwrap() error { return f.Err }

// Retryable reports whether the caller may try again later with the same credential.
func (f *Failure) Retryable() bool {
	return f.Kind == KindRateLimited || f.Kind == KindAllModelsExhausted
}

// AsFailure extracts a *Failure from err, wrapping foreign errors as unknown.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: KindUnknown, Message: err.Error(), Err: err}
}

// submitClass is the outcome of a single Submit call as seen by the fallback loop.
type submitClass int

const (
	classOther submitClass = iota
	classAuth
	classRate
)

// StatusError lets a Submitter report the HTTP status of a failed call.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

func classify(err error) submitClass {
	switch statusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return classAuth
	case http.StatusTooManyRequests:
		return classRate
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"),
		strings.Contains(msg, "API_KEY_INVALID"), strings.Contains(lower, "api key"):
		return classAuth
	case strings.Contains(msg, "429"), strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return classRate
	}
	return classOther
}

func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	var gerr genai.APIError
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	var gptr *genai.APIError
	if errors.As(err, &gptr) && gptr != nil {
		return gptr.Code
	}
	var oerr *openai.Error
	if errors.As(err, &oerr) {
		return oerr.StatusCode
	}
	return 0
}
