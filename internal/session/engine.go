// Package session implements the adaptive interview turn loop: decide the
// next action (ask, evaluate, skip, end), apply the adaptation policy, and
// keep the transcript store in step with the in-memory history.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kairos-interview/backend/internal/domain/interview"
	"github.com/kairos-interview/backend/internal/evaluation"
	"github.com/kairos-interview/backend/internal/gateway"
	"github.com/kairos-interview/backend/internal/prompt"
	"github.com/kairos-interview/backend/internal/store"
)

// State of the turn loop. AwaitingQuestion means no turn is open;
// AwaitingAnswer means exactly one turn awaits the user's input; Ended is
// terminal.
type State string

const (
	AwaitingQuestion State = "awaiting_question"
	AwaitingAnswer   State = "awaiting_answer"
	Ended            State = "ended"
)

var (
	ErrEnded       = errors.New("session has ended")
	ErrEmptyAnswer = errors.New("empty answer")
	ErrNoOpenTurn  = errors.New("no turn is awaiting an answer")
	ErrTurnOpen    = errors.New("cannot ask while a turn is awaiting an answer")
)

// Outcome is the result of submitting one answer.
type Outcome struct {
	// Turn is the finalized turn, nil when the input was a terminating
	// command (the open turn is discarded, not finalized).
	Turn *interview.Turn
	// Ended reports that the input terminated the session.
	Ended bool
	// Summary is set when the session ended.
	Summary *interview.Summary
}

// Engine drives one interview session. All dependencies are injected; the
// engine owns no global state and a single goroutine drives it, so no
// locking is needed on the session history.
type Engine struct {
	session *interview.Session
	builder *prompt.Builder
	gw      gateway.Gateway
	store   store.TranscriptStore
	logger  *slog.Logger

	state      State
	openTurnID string
}

// NewEngine creates an engine over a fresh or resumed session. The caller
// owns the store's lifecycle.
func NewEngine(sess *interview.Session, builder *prompt.Builder, gw gateway.Gateway, ts store.TranscriptStore, logger *slog.Logger) *Engine {
	state := AwaitingQuestion
	if sess.OpenTurn() != nil {
		state = AwaitingAnswer
	}
	return &Engine{
		session: sess,
		builder: builder,
		gw:      gw,
		store:   ts,
		logger:  logger,
		state:   state,
	}
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Session() *interview.Session { return e.session }

// Ask generates the next question, opens a turn for it, and persists the
// open turn. It refuses to run while a turn is open. On failure nothing is
// appended and the state is unchanged, so a failed ask can simply be retried.
func (e *Engine) Ask(ctx context.Context) (*interview.Turn, error) {
	switch e.state {
	case Ended:
		return nil, ErrEnded
	case AwaitingAnswer:
		return nil, ErrTurnOpen
	}

	system, user := e.builder.BuildQuestionPrompt(e.session.Mode, e.session.LastFinalized())
	text, err := e.gw.Chat(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	question := strings.TrimSpace(text)
	turn, err := e.session.AppendTurn(question)
	if err != nil {
		return nil, err
	}

	id, err := e.store.Append(ctx, e.session.Key, turn)
	if err != nil {
		// Unwind the in-memory append so history and store stay consistent.
		e.session.DropOpenTurn()
		return nil, fmt.Errorf("persist turn: %w", err)
	}

	e.openTurnID = id
	e.state = AwaitingAnswer
	return turn, nil
}

// Submit processes the user's input for the open turn.
//
// Control commands are recognized after trimming, case-insensitively:
// "exit", "quit" and "stop" end the session (the open turn is discarded and
// never finalized), "skip" finalizes the turn as skipped without any model
// call, and empty input returns ErrEmptyAnswer with no state change.
// Anything else is evaluated by the model.
//
// When persisting a finalized turn fails, the returned Outcome still carries
// the finalized turn (the session continues) alongside the error, so the
// caller can report or retry the write; a finalized turn is never silently
// dropped.
func (e *Engine) Submit(ctx context.Context, raw string) (*Outcome, error) {
	if e.state == Ended {
		return nil, ErrEnded
	}
	open := e.session.OpenTurn()
	if open == nil {
		return nil, ErrNoOpenTurn
	}

	answer := strings.TrimSpace(raw)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	switch strings.ToLower(answer) {
	case "exit", "quit", "stop":
		summary := e.End(ctx)
		return &Outcome{Ended: true, Summary: summary}, nil

	case "skip":
		if err := open.FinalizeSkipped(); err != nil {
			return nil, err
		}
		e.state = AwaitingQuestion
		if err := e.store.Update(ctx, e.session.Key, e.openTurnID, open); err != nil {
			return &Outcome{Turn: open}, fmt.Errorf("persist skipped turn: %w", err)
		}
		return &Outcome{Turn: open}, nil

	default:
		system, user := e.builder.BuildEvaluationPrompt(open.Question, answer)
		text, err := e.gw.Chat(ctx, system, user)
		if err != nil {
			// The turn stays open; the caller may retry or end the session.
			return nil, fmt.Errorf("evaluate answer: %w", err)
		}

		result := evaluation.Parse(text)
		if err := open.Finalize(answer, result.Score, result.Feedback); err != nil {
			return nil, err
		}
		e.state = AwaitingQuestion
		if err := e.store.Update(ctx, e.session.Key, e.openTurnID, open); err != nil {
			return &Outcome{Turn: open}, fmt.Errorf("persist turn: %w", err)
		}
		return &Outcome{Turn: open}, nil
	}
}

// End terminates the session, discarding any open turn, and computes the
// summary. Idempotent: ending an ended session returns the existing
// aggregate. Summary feedback generation and persistence are best-effort;
// their failure never blocks termination.
func (e *Engine) End(ctx context.Context) *interview.Summary {
	alreadyEnded := e.state == Ended
	e.session.DropOpenTurn()
	e.state = Ended

	summary := interview.Summarize(e.session)

	if alreadyEnded || summary.QuestionsAttempted == 0 {
		return summary
	}

	system, user := e.builder.BuildSummaryPrompt(e.session.Turns)
	if text, err := e.gw.Chat(ctx, system, user); err != nil {
		e.logger.Error("summary generation failed", "session", e.session.Key, "error", err)
	} else {
		summary.Feedback = strings.TrimSpace(text)
	}

	if err := e.store.SaveSummary(ctx, e.session.Key, summary); err != nil {
		e.logger.Error("failed to save summary", "session", e.session.Key, "error", err)
	}
	return summary
}
