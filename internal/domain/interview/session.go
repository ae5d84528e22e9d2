package interview

import (
	"errors"
	"strings"
)

// ResumeSessionKey is the fixed storage key used by the resume-based variant.
const ResumeSessionKey = "resume_based"

// maxKeyLength bounds normalized topic keys so they stay usable as
// collection/table names.
const maxKeyLength = 64

var ErrOpenTurn = errors.New("a turn is still awaiting an answer")

// Session is an ordered, append-only sequence of turns under one topic and
// difficulty mode. At most one turn is open at any time.
type Session struct {
	Key           string
	Topic         string
	Mode          DifficultyMode
	Turns         []*Turn
	ResumeContext string
}

// NewSession creates an empty session for the given topic.
func NewSession(topic string, mode DifficultyMode) *Session {
	return &Session{
		Key:   NormalizeTopic(topic),
		Topic: topic,
		Mode:  mode,
	}
}

// NewResumeSession creates a session driven by resume context instead of a
// bare topic.
func NewResumeSession(resumeContext string, mode DifficultyMode) *Session {
	return &Session{
		Key:           ResumeSessionKey,
		Topic:         "resume-based",
		Mode:          mode,
		ResumeContext: resumeContext,
	}
}

// OpenTurn returns the turn currently awaiting an answer, or nil.
func (s *Session) OpenTurn() *Turn {
	if n := len(s.Turns); n > 0 && s.Turns[n-1].Open() {
		return s.Turns[n-1]
	}
	return nil
}

// AppendTurn adds a new open turn. It fails if a turn is already open,
// preserving the one-open-turn invariant.
func (s *Session) AppendTurn(question string) (*Turn, error) {
	if s.OpenTurn() != nil {
		return nil, ErrOpenTurn
	}
	t := NewTurn(len(s.Turns)+1, question, s.Topic, s.Mode)
	s.Turns = append(s.Turns, t)
	return t, nil
}

// LastFinalized returns the most recently finalized turn, or nil. Difficulty
// adaptation reads only this turn.
func (s *Session) LastFinalized() *Turn {
	for i := len(s.Turns) - 1; i >= 0; i-- {
		if !s.Turns[i].Open() {
			return s.Turns[i]
		}
	}
	return nil
}

// DropOpenTurn discards the open turn, if any. Used when the session ends
// while a question is still unanswered.
func (s *Session) DropOpenTurn() {
	if s.OpenTurn() != nil {
		s.Turns = s.Turns[:len(s.Turns)-1]
	}
}

// NormalizeTopic turns a free-form topic into a stable storage key:
// lower-cased, runs of non-alphanumeric characters collapsed to single
// underscores, trimmed, and truncated to a bounded length. The function is
// total and idempotent; an empty result maps to "general".
func NormalizeTopic(topic string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(topic) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	key := strings.Trim(b.String(), "_")
	if len(key) > maxKeyLength {
		key = strings.Trim(key[:maxKeyLength], "_")
	}
	if key == "" {
		return "general"
	}
	return key
}
