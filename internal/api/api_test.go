package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kairos-interview/backend/internal/api"
	"github.com/kairos-interview/backend/internal/domain/interview"
	"github.com/kairos-interview/backend/internal/service"
	"github.com/kairos-interview/backend/internal/store"
)

type scriptedGateway struct {
	replies []string
	next    int
}

func (g *scriptedGateway) Chat(ctx context.Context, system, user string) (string, error) {
	if g.next >= len(g.replies) {
		return "fallback", nil
	}
	reply := g.replies[g.next]
	g.next++
	return reply, nil
}

type memStore struct {
	turns  map[string][]*interview.Turn
	nextID int
}

func newMemStore() *memStore {
	return &memStore{turns: make(map[string][]*interview.Turn)}
}

func (m *memStore) Append(ctx context.Context, key string, t *interview.Turn) (string, error) {
	cp := *t
	m.turns[key] = append(m.turns[key], &cp)
	m.nextID++
	return fmt.Sprintf("%d", m.nextID), nil
}

func (m *memStore) Update(ctx context.Context, key, id string, t *interview.Turn) error {
	list := m.turns[key]
	if len(list) == 0 {
		return store.ErrNotFound
	}
	cp := *t
	list[len(list)-1] = &cp
	return nil
}

func (m *memStore) LatestTurn(ctx context.Context, key string) (*interview.Turn, error) {
	list := m.turns[key]
	if len(list) == 0 {
		return nil, store.ErrNotFound
	}
	return list[len(list)-1], nil
}

func (m *memStore) ListTurns(ctx context.Context, key string) ([]*interview.Turn, error) {
	return m.turns[key], nil
}

func (m *memStore) SaveSummary(ctx context.Context, key string, s *interview.Summary) error {
	return nil
}

func (m *memStore) Close() error { return nil }

type fakeRecognizer struct{ text string }

func (f *fakeRecognizer) Transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	return f.text, nil
}

func newServer(t *testing.T, gw *scriptedGateway) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	interviews := service.NewInterviewService(newMemStore(), gw, nil, logger, 0)
	t.Cleanup(interviews.Close)
	chat := service.NewChatService(gw)
	h := api.NewHandler(interviews, chat, &fakeRecognizer{text: "spoken answer"}, logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, h)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestStartInterview(t *testing.T) {
	mux := newServer(t, &scriptedGateway{replies: []string{"What is a slice?"}})

	w := postJSON(t, mux, "/api/interview/start", api.StartInterviewRequest{
		Topic: "Go", Difficulty: "easy",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var resp api.StartInterviewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("missing session id")
	}
	if resp.Question != "What is a slice?" {
		t.Errorf("question = %q", resp.Question)
	}
	if resp.Topic != "go" {
		t.Errorf("topic = %q, want normalized go", resp.Topic)
	}
}

func TestStartInterview_Validation(t *testing.T) {
	mux := newServer(t, &scriptedGateway{})

	cases := []struct {
		name string
		req  api.StartInterviewRequest
		want int
	}{
		{"missing topic", api.StartInterviewRequest{Difficulty: "easy"}, http.StatusBadRequest},
		{"bad difficulty", api.StartInterviewRequest{Topic: "go", Difficulty: "impossible"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := postJSON(t, mux, "/api/interview/start", tc.req); w.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tc.want, w.Body)
			}
		})
	}
}

func TestStartInterview_MalformedBody(t *testing.T) {
	mux := newServer(t, &scriptedGateway{})
	req := httptest.NewRequest(http.MethodPost, "/api/interview/start", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSubmitAnswer_Flow(t *testing.T) {
	mux := newServer(t, &scriptedGateway{replies: []string{
		"Q1",
		"Score: 9\nFeedback: Excellent depth.",
		"Q2",
	}})

	start := postJSON(t, mux, "/api/interview/start", api.StartInterviewRequest{Topic: "go"})
	var started api.StartInterviewResponse
	json.Unmarshal(start.Body.Bytes(), &started)

	w := postJSON(t, mux, "/api/interview/answer", api.AnswerRequest{
		SessionID: started.SessionID,
		Answer:    "a detailed answer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var resp api.AnswerResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Turn == nil || resp.Turn.Score == nil || *resp.Turn.Score != 9 {
		t.Errorf("turn = %+v, want score 9", resp.Turn)
	}
	if resp.NextQuestion != "Q2" {
		t.Errorf("next question = %q", resp.NextQuestion)
	}
	if resp.Ended {
		t.Error("session must not have ended")
	}
}

func TestSubmitAnswer_ExitReturnsSummary(t *testing.T) {
	mux := newServer(t, &scriptedGateway{replies: []string{
		"Q1",
		"Score: 6\nFeedback: ok",
		"Q2",
		"Overall you did fine.",
	}})

	start := postJSON(t, mux, "/api/interview/start", api.StartInterviewRequest{Topic: "go"})
	var started api.StartInterviewResponse
	json.Unmarshal(start.Body.Bytes(), &started)

	postJSON(t, mux, "/api/interview/answer", api.AnswerRequest{SessionID: started.SessionID, Answer: "answer"})
	w := postJSON(t, mux, "/api/interview/answer", api.AnswerRequest{SessionID: started.SessionID, Answer: "exit"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var resp api.AnswerResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Ended || resp.Summary == nil {
		t.Fatalf("expected ended with summary: %+v", resp)
	}
	if resp.Summary.QuestionsAttempted != 1 {
		t.Errorf("attempted = %d, want 1", resp.Summary.QuestionsAttempted)
	}
}

func TestSubmitAnswer_UnknownSession(t *testing.T) {
	mux := newServer(t, &scriptedGateway{})
	w := postJSON(t, mux, "/api/interview/answer", api.AnswerRequest{SessionID: "ghost", Answer: "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 (body %s)", w.Code, w.Body)
	}
}

func TestGetTranscript(t *testing.T) {
	mux := newServer(t, &scriptedGateway{replies: []string{
		"Q1",
		"Score: 7\nFeedback: good",
		"Q2",
	}})

	start := postJSON(t, mux, "/api/interview/start", api.StartInterviewRequest{Topic: "go"})
	var started api.StartInterviewResponse
	json.Unmarshal(start.Body.Bytes(), &started)
	postJSON(t, mux, "/api/interview/answer", api.AnswerRequest{SessionID: started.SessionID, Answer: "answer"})

	req := httptest.NewRequest(http.MethodGet, "/api/interview/"+started.SessionID+"/transcript", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var resp api.TranscriptResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(resp.Turns))
	}
	if resp.Turns[0].Question != "Q1" || resp.Turns[0].Score == nil || *resp.Turns[0].Score != 7 {
		t.Errorf("first turn = %+v", resp.Turns[0])
	}
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/interview/upload-resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadResume_UnsupportedType(t *testing.T) {
	mux := newServer(t, &scriptedGateway{})
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, uploadRequest(t, "cv.docx", []byte("hello")))
	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415 (body %s)", w.Code, w.Body)
	}
}

func TestUploadResume_TooLarge(t *testing.T) {
	mux := newServer(t, &scriptedGateway{})
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, uploadRequest(t, "cv.pdf", bytes.Repeat([]byte("a"), 6<<20)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413 (body %s)", w.Code, w.Body)
	}
}

func TestUploadResume_MissingFile(t *testing.T) {
	mux := newServer(t, &scriptedGateway{})
	req := httptest.NewRequest(http.MethodPost, "/api/interview/upload-resume", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSendMessage(t *testing.T) {
	mux := newServer(t, &scriptedGateway{replies: []string{"Hi, how can I help?"}})
	w := postJSON(t, mux, "/api/chat/send-message", api.SendMessageRequest{Message: "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var resp api.SendMessageResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ConversationID == "" || resp.Reply != "Hi, how can I help?" {
		t.Errorf("response = %+v", resp)
	}
}

func TestTranscribe(t *testing.T) {
	mux := newServer(t, &scriptedGateway{})
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "answer.wav")
	fw.Write([]byte{0x52, 0x49, 0x46, 0x46})
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/chat/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var resp api.TranscribeResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Text != "spoken answer" {
		t.Errorf("text = %q", resp.Text)
	}
}
