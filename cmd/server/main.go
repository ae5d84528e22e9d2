package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kairos-interview/backend/internal/api"
	"github.com/kairos-interview/backend/internal/event"
	"github.com/kairos-interview/backend/internal/gateway"
	"github.com/kairos-interview/backend/internal/infrastructure/config"
	"github.com/kairos-interview/backend/internal/service"
	"github.com/kairos-interview/backend/internal/speech"
	"github.com/kairos-interview/backend/internal/store"

	_ "github.com/kairos-interview/backend/docs" // generated swagger docs
)

// @title           Kairos Interview API
// @version         1.0
// @description     Adaptive AI interview practice — topic or resume based questions, scored answers, difficulty that follows your performance.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	ts, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open transcript store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer ts.Close()

	gw, recognizer := buildGateway(cfg)

	var publisher *event.Publisher
	if cfg.RabbitMQURI != "" {
		publisher, err = event.NewPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			logger.Error("failed to connect to broker, events disabled", "error", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	interviews := service.NewInterviewService(ts, gw, publisher, logger, cfg.MaxResumeSize)
	defer interviews.Close()
	chat := service.NewChatService(gw)
	handler := api.NewHandler(interviews, chat, recognizer, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "provider", cfg.LLMProvider, "store", cfg.StoreDriver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config, logger *slog.Logger) (store.TranscriptStore, error) {
	switch cfg.StoreDriver {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return store.NewSQLite(cfg.SQLitePath)
	}
}

// buildGateway selects the model provider. Only Gemini can transcribe audio,
// so the recognizer is nil for Ollama and the transcription endpoint reports
// itself unavailable.
func buildGateway(cfg *config.Config) (gateway.Gateway, speech.Recognizer) {
	if cfg.LLMProvider == "gemini" {
		gw := gateway.NewGeminiGateway(cfg.GeminiAPIKey, cfg.LLMModel)
		return gw, gw
	}
	return gateway.NewOllamaGateway(cfg.LLMURL, cfg.LLMModel, cfg.LLMTimeout), nil
}
