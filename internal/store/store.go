// Package store persists interview transcripts as an append/update log keyed
// by normalized session key. A turn is appended when the question is
// generated and updated exactly once when it is finalized; insertion order is
// preserved so "most recent turn" lookups are cheap.
package store

import (
	"context"
	"errors"

	"github.com/kairos-interview/backend/internal/domain/interview"
)

var ErrNotFound = errors.New("not found")

// TranscriptStore is the persistence contract for interview sessions.
// Append and Update are assumed atomic per document; a failed Update never
// half-writes a turn.
type TranscriptStore interface {
	// Append stores a freshly created (open) turn and returns its storage ID.
	Append(ctx context.Context, sessionKey string, t *interview.Turn) (string, error)
	// Update overwrites the stored turn with its finalized fields.
	Update(ctx context.Context, sessionKey, turnID string, t *interview.Turn) error
	// LatestTurn returns the most recently appended turn for the key.
	LatestTurn(ctx context.Context, sessionKey string) (*interview.Turn, error)
	// ListTurns returns every turn for the key in insertion order.
	ListTurns(ctx context.Context, sessionKey string) ([]*interview.Turn, error)
	// SaveSummary persists the end-of-session aggregate.
	SaveSummary(ctx context.Context, sessionKey string, s *interview.Summary) error
	Close() error
}
