// Package gateway talks to the generative model used for question
// generation, answer evaluation, resume structuring and summaries. The model
// endpoint is treated as possibly slow or unavailable; every failure comes
// back as an error the session layer can surface without crashing.
package gateway

import (
	"context"
	"fmt"
)

// Gateway sends one prompt to the model and returns the raw text reply.
// Implementations may call an LLM endpoint or return canned results (for tests).
type Gateway interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// CallError is returned when a model call fails so the caller can
// distinguish "the model produced bad output" from "the model was
// unreachable."
type CallError struct {
	Reason  string
	Wrapped error
}

func (e *CallError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("model call failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("model call failed: %s", e.Reason)
}

func (e *CallError) Unwrap() error {
	return e.Wrapped
}
