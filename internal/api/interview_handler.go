package api

import (
	"errors"
	"net/http"

	"github.com/kairos-interview/backend/internal/domain/interview"
	"github.com/kairos-interview/backend/internal/resume"
	"github.com/kairos-interview/backend/internal/service"
	"github.com/kairos-interview/backend/internal/session"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartInterviewRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	UseResume  bool   `json:"use_resume"`
}

type StartInterviewResponse struct {
	SessionID  string `json:"session_id"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Question   string `json:"question"`
}

type AnswerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type TurnResponse struct {
	Seq      int    `json:"seq"`
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Score    *int   `json:"score,omitempty"`
	Feedback string `json:"feedback,omitempty"`
	Skipped  bool   `json:"skipped"`
}

type AnswerResponse struct {
	Turn         *TurnResponse    `json:"turn,omitempty"`
	NextQuestion string           `json:"next_question,omitempty"`
	Ended        bool             `json:"ended"`
	Summary      *SummaryResponse `json:"summary,omitempty"`
}

type SummaryResponse struct {
	Topic              string  `json:"topic"`
	Difficulty         string  `json:"difficulty"`
	QuestionsAttempted int     `json:"questions_attempted"`
	QuestionsSkipped   int     `json:"questions_skipped"`
	AverageScore       float64 `json:"average_score"`
	Feedback           string  `json:"feedback,omitempty"`
}

type TranscriptResponse struct {
	SessionID string         `json:"session_id"`
	Turns     []TurnResponse `json:"turns"`
}

type UploadResumeResponse struct {
	Skills         []string `json:"skills"`
	Experience     []string `json:"experience"`
	Education      []string `json:"education"`
	Certifications []string `json:"certifications"`
	Projects       []string `json:"projects"`
}

func turnResponse(t *interview.Turn) *TurnResponse {
	resp := &TurnResponse{
		Seq:      t.Seq,
		Question: t.Question,
		Skipped:  t.Skipped,
	}
	if t.Answer != nil {
		resp.Answer = *t.Answer
	}
	resp.Score = t.Score
	if t.Feedback != nil {
		resp.Feedback = *t.Feedback
	}
	return resp
}

func summaryResponse(s *interview.Summary) *SummaryResponse {
	return &SummaryResponse{
		Topic:              s.Topic,
		Difficulty:         string(s.Mode),
		QuestionsAttempted: s.QuestionsAttempted,
		QuestionsSkipped:   s.QuestionsSkipped,
		AverageScore:       s.AverageScore,
		Feedback:           s.Feedback,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// startInterview opens a session and returns its first question.
// @Summary      Start an interview
// @Description  Opens an adaptive interview session on a topic, or grounded in the uploaded resume, and returns the first question.
// @Tags         Interview
// @Accept       json
// @Produce      json
// @Param        body  body      StartInterviewRequest  true  "Topic and difficulty"
// @Success      201   {object}  StartInterviewResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/interview/start [post]
func (h *Handler) startInterview(w http.ResponseWriter, r *http.Request) {
	var req StartInterviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Topic == "" && !req.UseResume {
		respondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	res, err := h.interviews.Start(r.Context(), service.StartRequest{
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		UseResume:  req.UseResume,
	})
	if err != nil {
		if errors.Is(err, interview.ErrInvalidMode) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to start interview", "topic", req.Topic, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to start interview")
		return
	}

	respondJSON(w, http.StatusCreated, StartInterviewResponse{
		SessionID:  res.SessionID,
		Topic:      res.Topic,
		Difficulty: string(res.Mode),
		Question:   res.Question,
	})
}

// submitAnswer evaluates one answer and returns the next question.
// @Summary      Submit an answer
// @Description  Scores the answer, adapts difficulty, and returns the next question. "skip" skips the question; "exit", "quit" or "stop" end the session and return the summary.
// @Tags         Interview
// @Accept       json
// @Produce      json
// @Param        body  body      AnswerRequest  true  "Session ID and answer"
// @Success      200   {object}  AnswerResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string  "session not found"
// @Failure      502   {object}  map[string]string  "model unavailable"
// @Router       /api/interview/answer [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.Answer == "" {
		respondError(w, http.StatusBadRequest, "answer is required")
		return
	}

	res, err := h.interviews.Answer(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		if errors.Is(err, session.ErrEmptyAnswer) {
			respondError(w, http.StatusBadRequest, "answer is required")
			return
		}
		h.handleServiceError(w, err)
		return
	}

	resp := AnswerResponse{Ended: res.Ended, NextQuestion: res.NextQuestion}
	if res.Turn != nil {
		resp.Turn = turnResponse(res.Turn)
	}
	if res.Summary != nil {
		resp.Summary = summaryResponse(res.Summary)
	}
	respondJSON(w, http.StatusOK, resp)
}

// getTranscript returns the full ordered transcript of a session.
// @Summary      Get the transcript
// @Description  Returns every turn of the session in the order it was asked.
// @Tags         Interview
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  TranscriptResponse
// @Failure      404        {object}  map[string]string
// @Router       /api/interview/{sessionID}/transcript [get]
func (h *Handler) getTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	turns, err := h.interviews.Transcript(r.Context(), sessionID)
	if h.handleServiceError(w, err) {
		return
	}

	resp := TranscriptResponse{SessionID: sessionID, Turns: make([]TurnResponse, 0, len(turns))}
	for _, t := range turns {
		resp.Turns = append(resp.Turns, *turnResponse(t))
	}
	respondJSON(w, http.StatusOK, resp)
}

// uploadResume ingests a resume for resume-based interviews.
// @Summary      Upload a resume
// @Description  Accepts a PDF or image resume, extracts its text and returns the structured profile used to ground resume-based questions.
// @Tags         Interview
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "Resume file (.pdf, .jpg, .jpeg, .png; 5 MiB max)"
// @Param        overwrite  formData  string  false  "Set to true to replace a previously uploaded resume"
// @Success      200  {object}  UploadResumeResponse
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string  "file too large"
// @Failure      415  {object}  map[string]string  "unsupported file type"
// @Router       /api/interview/upload-resume [post]
func (h *Handler) uploadResume(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()
	overwrite := r.FormValue("overwrite") == "true"

	profile, err := h.interviews.ProcessResume(r.Context(), header.Filename, header.Size, file, overwrite)
	if err != nil {
		switch {
		case errors.Is(err, resume.ErrPayloadTooLarge):
			respondError(w, http.StatusRequestEntityTooLarge, "resume exceeds the size limit")
		case errors.Is(err, resume.ErrUnsupportedType):
			respondError(w, http.StatusUnsupportedMediaType, "only .pdf, .jpg, .jpeg and .png files are accepted")
		case errors.Is(err, resume.ErrNoExtractableText):
			respondError(w, http.StatusBadRequest, "no text could be extracted from the file")
		default:
			h.logger.Error("resume processing failed", "filename", header.Filename, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to process resume")
		}
		return
	}

	respondJSON(w, http.StatusOK, UploadResumeResponse{
		Skills:         profile.Skills,
		Experience:     profile.Experience,
		Education:      profile.Education,
		Certifications: profile.Certifications,
		Projects:       profile.Projects,
	})
}
