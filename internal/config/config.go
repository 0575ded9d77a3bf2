// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/adaptquiz/internal/llm"
)

// Config is the runtime configuration of the quiz service.
type Config struct {
	SecretKey        string
	DBPath           string
	PDFPath          string
	QuestionsPerQuiz int
	Addr             string
	SessionTTL       time.Duration
	SessionBackend   string // "sqlite" or "redis"
	RedisURL         string
	ShutdownTimeout  time.Duration
	SourceMaxChars   int
	LogLevel         slog.Level
	LogFormat        string // "text" or "json"

	LLM llm.Config
}

// Load reads .env when present and then the process environment.
// Unset variables take their defaults; malformed values are errors
// naming the offending variable.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{
		SecretKey: getenvDefault("SECRET_KEY", "supersecret"),
		DBPath:    getenvDefault("DB_PATH", "adaptquiz.db"),
		PDFPath:   os.Getenv("PDF_PATH"),
		Addr:      getenvDefault("ADDR", ":8080"),
		LogFormat: strings.ToLower(getenvDefault("LOG_FORMAT", "text")),

		SessionBackend: strings.ToLower(getenvDefault("SESSION_BACKEND", "sqlite")),
		RedisURL:       getenvDefault("REDIS_URL", "redis://localhost:6379/0"),
	}

	var err error
	if cfg.QuestionsPerQuiz, err = getInt("NUM_QUESTIONS_PER_QUIZ", 10); err != nil {
		return nil, err
	}
	if cfg.QuestionsPerQuiz <= 0 {
		return nil, fmt.Errorf("config: NUM_QUESTIONS_PER_QUIZ must be positive, got %d", cfg.QuestionsPerQuiz)
	}
	if cfg.SourceMaxChars, err = getInt("SOURCE_MAX_CHARS", 60000); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = getLevel("LOG_LEVEL"); err != nil {
		return nil, err
	}
	switch cfg.SessionBackend {
	case "sqlite", "redis":
	default:
		return nil, fmt.Errorf("config: SESSION_BACKEND=%q must be sqlite or redis", cfg.SessionBackend)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("config: LOG_FORMAT=%q must be text or json", cfg.LogFormat)
	}

	if cfg.LLM, err = llm.ConfigFromEnv(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid integer: %w", k, v, err)
	}
	return n, nil
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func getLevel(k string) (slog.Level, error) {
	var lvl slog.Level
	v := os.Getenv(k)
	if v == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid log level: %w", k, v, err)
	}
	return lvl, nil
}
