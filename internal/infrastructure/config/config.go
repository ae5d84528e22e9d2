package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Model provider
	LLMProvider  string // "ollama" or "gemini"
	LLMURL       string // OpenAI-compatible endpoint, e.g. "http://localhost:11434"
	LLMModel     string // model name, e.g. "llama3.2"
	GeminiAPIKey string // required when LLMProvider is "gemini"
	LLMTimeout   time.Duration

	// Transcript store
	StoreDriver   string // "sqlite" or "mongo"
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	// Events (optional; empty URI disables publishing)
	RabbitMQURI      string
	RabbitMQExchange string

	// Resume uploads
	MaxResumeSize int64
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	cfg := &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),

		LLMProvider: getenvDefault("LLM_PROVIDER", "ollama"),
		LLMURL:      getenvDefault("LLM_URL", "http://localhost:11434"),
		LLMModel:    getenvDefault("LLM_MODEL", "llama3.2"),
		LLMTimeout:  getDurationDefault("LLM_TIMEOUT", 2*time.Minute),

		StoreDriver:   getenvDefault("STORE_DRIVER", "sqlite"),
		SQLitePath:    getenvDefault("SQLITE_PATH", "interviews.db"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getenvDefault("MONGO_DATABASE", "interview_db"),

		RabbitMQURI:      os.Getenv("RABBITMQ_URI"),
		RabbitMQExchange: getenvDefault("RABBITMQ_EXCHANGE", "interview.events"),

		MaxResumeSize: getInt64Default("MAX_RESUME_SIZE", 5<<20),
	}
	if cfg.LLMProvider == "gemini" {
		cfg.GeminiAPIKey = mustGetenv("GEMINI_API_KEY")
	}
	if cfg.StoreDriver == "mongo" && cfg.MongoURI == "" {
		log.Fatal("config: STORE_DRIVER=mongo requires MONGO_URI")
	}
	return cfg
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getInt64Default(k string, fallback int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
