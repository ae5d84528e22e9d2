package interview

import (
	"errors"
	"time"
)

// SkippedAnswer is the synthesized answer stored when the user skips a question.
const SkippedAnswer = "Skipped"

var ErrAlreadyFinalized = errors.New("turn already finalized")

// Turn is one question/answer/score/feedback unit within a session.
// A turn is created open (answer, score and feedback unset) when the question
// is generated, finalized exactly once, and never mutated after that.
type Turn struct {
	Seq      int
	Question string
	Answer   *string
	Score    *int
	Feedback *string
	Skipped  bool
	Topic    string
	Mode     DifficultyMode
	AskedAt  time.Time
}

// NewTurn creates an open turn for a freshly generated question.
func NewTurn(seq int, question, topic string, mode DifficultyMode) *Turn {
	return &Turn{
		Seq:      seq,
		Question: question,
		Topic:    topic,
		Mode:     mode,
		AskedAt:  time.Now().UTC(),
	}
}

// Open reports whether the turn still awaits an answer.
func (t *Turn) Open() bool {
	return t.Answer == nil
}

// Finalize records the user's answer with its evaluation. Answer, score and
// feedback are set together so the turn is never half-written.
func (t *Turn) Finalize(answer string, score int, feedback string) error {
	if !t.Open() {
		return ErrAlreadyFinalized
	}
	t.Answer = &answer
	t.Score = &score
	t.Feedback = &feedback
	t.Skipped = false
	return nil
}

// FinalizeSkipped closes the turn as skipped: answer "Skipped", score 0.
func (t *Turn) FinalizeSkipped() error {
	if !t.Open() {
		return ErrAlreadyFinalized
	}
	answer := SkippedAnswer
	score := 0
	feedback := ""
	t.Answer = &answer
	t.Score = &score
	t.Feedback = &feedback
	t.Skipped = true
	return nil
}
