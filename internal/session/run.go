package session

import (
	"context"
	"errors"
	"io"

	"github.com/kairos-interview/backend/internal/domain/interview"
)

// Input provides the user's answers. ReadAnswer blocks until input arrives;
// io.EOF ends the session.
type Input interface {
	ReadAnswer() (string, error)
}

// Output receives everything the interview wants to show the user.
// Implementations may additionally speak the question aloud; that is
// fire-and-forget and not part of session correctness.
type Output interface {
	EmitQuestion(question string)
	EmitEvaluation(score int, feedback string)
	EmitSkipped()
	EmitSummary(attempted, skipped int, average float64, feedback string)
	EmitError(msg string)
}

// Run drives the blocking console-style loop: ask, collect the answer,
// evaluate, repeat until the user ends the session or input is exhausted.
// Empty input re-prompts without creating a turn; an evaluation failure
// keeps the question open so the user can answer again or leave.
func (e *Engine) Run(ctx context.Context, in Input, out Output) error {
	for e.state != Ended {
		turn, err := e.Ask(ctx)
		if err != nil {
			out.EmitError("Could not generate the next question. The interview has ended.")
			e.End(ctx)
			return err
		}
		out.EmitQuestion(turn.Question)

		for e.state == AwaitingAnswer {
			raw, err := in.ReadAnswer()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					out.EmitError("Could not read your answer. The interview has ended.")
				}
				summary := e.End(ctx)
				emitSummary(out, summary)
				return nil
			}

			outcome, err := e.Submit(ctx, raw)
			switch {
			case errors.Is(err, ErrEmptyAnswer):
				continue
			case err != nil && outcome == nil:
				out.EmitError("Could not evaluate that answer. Please try again, or type 'exit'.")
				continue
			case err != nil:
				// Finalized but not persisted; keep going, the transcript
				// still has the turn in memory.
				e.logger.Error("persist failed", "error", err)
			}

			if outcome.Ended {
				emitSummary(out, outcome.Summary)
				return nil
			}
			if outcome.Turn.Skipped {
				out.EmitSkipped()
			} else {
				out.EmitEvaluation(*outcome.Turn.Score, *outcome.Turn.Feedback)
			}
		}
	}
	return nil
}

func emitSummary(out Output, s *interview.Summary) {
	if s == nil {
		return
	}
	out.EmitSummary(s.QuestionsAttempted, s.QuestionsSkipped, s.AverageScore, s.Feedback)
}
