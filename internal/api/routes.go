// internal/api/routes.go
package api

import (
	"log/slog"
	"net/http"
	"time"
)

// RegisterRoutes attaches every handler to the mux using method+path
// patterns.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Interview
	mux.HandleFunc("POST /api/interview/start", h.startInterview)
	mux.HandleFunc("POST /api/interview/answer", h.submitAnswer)
	mux.HandleFunc("GET /api/interview/{sessionID}/transcript", h.getTranscript)
	mux.HandleFunc("POST /api/interview/upload-resume", h.uploadResume)

	// Chat
	mux.HandleFunc("POST /api/chat/send-message", h.sendMessage)
	mux.HandleFunc("POST /api/chat/transcribe", h.transcribe)
}

// Logging returns middleware that logs one line per request.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// CORS wraps the mux with permissive cross-origin headers.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
