// Package service orchestrates interview sessions for the HTTP surface: it
// owns the registry of live engines, resume ingestion, and the background
// finalization work that runs after a session ends.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/kairos-interview/backend/internal/domain/interview"
	"github.com/kairos-interview/backend/internal/event"
	"github.com/kairos-interview/backend/internal/gateway"
	"github.com/kairos-interview/backend/internal/id"
	"github.com/kairos-interview/backend/internal/prompt"
	"github.com/kairos-interview/backend/internal/resume"
	"github.com/kairos-interview/backend/internal/session"
	"github.com/kairos-interview/backend/internal/store"
	"github.com/kairos-interview/backend/internal/worker"
)

var ErrSessionNotFound = errors.New("interview session not found")

// StartRequest carries everything needed to open a session.
type StartRequest struct {
	Topic      string
	Difficulty string
	UseResume  bool
}

// StartResult is the opened session and its first question. Topic is the
// normalized key the transcript is stored under.
type StartResult struct {
	SessionID string
	Topic     string
	Mode      interview.DifficultyMode
	Question  string
}

// AnswerResult is what one submitted answer produced. When the answer was a
// terminating command, Summary is set and NextQuestion is empty; otherwise
// the evaluated turn and the next question are set.
type AnswerResult struct {
	Turn         *interview.Turn
	NextQuestion string
	Ended        bool
	Summary      *interview.Summary
}

// InterviewService manages live interview engines keyed by session ID. Each
// engine is single-threaded by contract, so the service serializes access to
// it with a per-session mutex.
type InterviewService struct {
	store     store.TranscriptStore
	gw        gateway.Gateway
	publisher *event.Publisher
	logger    *slog.Logger
	maxResume int64

	pool *worker.Pool[error]

	mu     sync.RWMutex
	active map[string]*activeSession

	profileMu sync.RWMutex
	profile   *resume.Profile
}

type activeSession struct {
	mu     sync.Mutex
	engine *session.Engine
}

func NewInterviewService(ts store.TranscriptStore, gw gateway.Gateway, pub *event.Publisher, logger *slog.Logger, maxResumeSize int64) *InterviewService {
	s := &InterviewService{
		store:     ts,
		gw:        gw,
		publisher: pub,
		logger:    logger,
		maxResume: maxResumeSize,
		pool:      worker.NewPool[error](4, 16),
		active:    make(map[string]*activeSession),
	}
	go s.drainResults()
	return s
}

// drainResults logs failures from background finalization jobs.
func (s *InterviewService) drainResults() {
	for r := range s.pool.Results() {
		if r.Output != nil {
			s.logger.Error("background job failed", "job", r.JobID, "error", r.Output)
		}
	}
}

// Start opens a session and returns its first question. With UseResume set,
// the session is grounded in the most recently uploaded resume profile.
func (s *InterviewService) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	mode, err := interview.ParseMode(req.Difficulty)
	if err != nil {
		return nil, err
	}

	var sess *interview.Session
	var builder *prompt.Builder
	if req.UseResume {
		profile := s.currentProfile()
		if profile == nil {
			return nil, errors.New("no resume has been uploaded")
		}
		sess = interview.NewResumeSession(profile.ContextString(), mode)
		builder = prompt.NewResumeBuilder(profile.ContextString())
	} else {
		sess = interview.NewSession(req.Topic, mode)
		builder = prompt.NewBuilder(sess.Topic)
	}

	engine := session.NewEngine(sess, builder, s.gw, s.store, s.logger)
	turn, err := engine.Ask(ctx)
	if err != nil {
		return nil, err
	}

	sessionID := id.GenerateID()
	s.mu.Lock()
	s.active[sessionID] = &activeSession{engine: engine}
	s.mu.Unlock()

	s.logger.Info("interview started", "session", sessionID, "topic", sess.Topic, "difficulty", mode)
	return &StartResult{
		SessionID: sessionID,
		Topic:     sess.Key,
		Mode:      mode,
		Question:  turn.Question,
	}, nil
}

// Answer submits one answer for the session. On a terminating command the
// engine is removed from the registry and finalization (event publishing)
// runs in the background.
func (s *InterviewService) Answer(ctx context.Context, sessionID, answer string) (*AnswerResult, error) {
	as, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	as.mu.Lock()
	defer as.mu.Unlock()

	outcome, err := as.engine.Submit(ctx, answer)
	if err != nil {
		if outcome != nil {
			// The turn finalized in memory but the store write failed.
			// The session continues; surface the turn and log the failure.
			s.logger.Error("transcript write failed", "session", sessionID, "error", err)
		} else {
			return nil, err
		}
	}

	if outcome.Ended {
		s.finish(sessionID, outcome.Summary)
		return &AnswerResult{Ended: true, Summary: outcome.Summary}, nil
	}

	next, err := as.engine.Ask(ctx)
	if err != nil {
		// The answer was evaluated and stored; only the next question
		// failed. Return the evaluation so nothing is lost.
		s.logger.Error("next question failed", "session", sessionID, "error", err)
		return &AnswerResult{Turn: outcome.Turn}, nil
	}
	return &AnswerResult{Turn: outcome.Turn, NextQuestion: next.Question}, nil
}

// End terminates the session explicitly.
func (s *InterviewService) End(ctx context.Context, sessionID string) (*interview.Summary, error) {
	as, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	as.mu.Lock()
	summary := as.engine.End(ctx)
	as.mu.Unlock()

	s.finish(sessionID, summary)
	return summary, nil
}

// Transcript returns the stored turns for the session, oldest first.
func (s *InterviewService) Transcript(ctx context.Context, sessionID string) ([]*interview.Turn, error) {
	as, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	as.mu.Lock()
	key := as.engine.Session().Key
	as.mu.Unlock()
	return s.store.ListTurns(ctx, key)
}

// ProcessResume validates, extracts and structures one uploaded resume, and
// keeps the profile for resume-based sessions. Overwrite guards against
// clobbering an existing profile unintentionally.
func (s *InterviewService) ProcessResume(ctx context.Context, filename string, size int64, r io.Reader, overwrite bool) (*resume.Profile, error) {
	if !overwrite && s.currentProfile() != nil {
		return nil, errors.New("a resume is already uploaded, set overwrite to replace it")
	}
	if err := resume.Validate(filename, size, s.maxResume); err != nil {
		return nil, err
	}
	data, err := resume.ReadUpload(r, s.maxResume)
	if err != nil {
		return nil, err
	}

	var ocr resume.TextReader
	if tr, ok := s.gw.(resume.TextReader); ok {
		ocr = tr
	}
	text, err := resume.NewExtractor(ocr).Extract(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	profile, err := resume.Structure(ctx, s.gw, text)
	if err != nil {
		s.logger.Warn("resume structuring degraded to raw text", "error", err)
	}

	s.profileMu.Lock()
	s.profile = profile
	s.profileMu.Unlock()

	s.pool.Submit("resume-processed", func() error {
		return s.publisher.Publish(context.Background(), event.ResumeProcessed, map[string]any{
			"filename": filename,
			"skills":   len(profile.Skills),
		})
	})
	return profile, nil
}

func (s *InterviewService) currentProfile() *resume.Profile {
	s.profileMu.RLock()
	defer s.profileMu.RUnlock()
	return s.profile
}

func (s *InterviewService) lookup(sessionID string) (*activeSession, error) {
	s.mu.RLock()
	as, ok := s.active[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}
	return as, nil
}

// finish unregisters the session and publishes its completion event off the
// request path.
func (s *InterviewService) finish(sessionID string, summary *interview.Summary) {
	s.mu.Lock()
	delete(s.active, sessionID)
	s.mu.Unlock()

	s.pool.Submit("session-completed:"+sessionID, func() error {
		return s.publisher.PublishSessionCompleted(context.Background(), summary)
	})
}

// Close drains background work. Live sessions are abandoned; their
// transcripts are already persisted turn by turn.
func (s *InterviewService) Close() {
	s.pool.Close()
}
