package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"SECRET_KEY", "DB_PATH", "PDF_PATH", "ADDR", "NUM_QUESTIONS_PER_QUIZ",
		"SESSION_TTL", "SOURCE_MAX_CHARS", "LOG_LEVEL", "LOG_FORMAT", "LLM_TIMEOUT",
		"SESSION_BACKEND", "REDIS_URL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("LLM_PROVIDER", "mock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SecretKey != "supersecret" {
		t.Errorf("SecretKey = %q", cfg.SecretKey)
	}
	if cfg.DBPath != "adaptquiz.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.QuestionsPerQuiz != 10 {
		t.Errorf("QuestionsPerQuiz = %d", cfg.QuestionsPerQuiz)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %s", cfg.LogLevel)
	}
	if cfg.LLM.Provider != "mock" {
		t.Errorf("LLM.Provider = %q", cfg.LLM.Provider)
	}
	if cfg.SessionBackend != "sqlite" || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("session backend %q at %q", cfg.SessionBackend, cfg.RedisURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NUM_QUESTIONS_PER_QUIZ", "5")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("PDF_PATH", "books/physics.pdf")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QuestionsPerQuiz != 5 || cfg.SessionTTL != 30*time.Minute || cfg.PDFPath != "books/physics.pdf" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Fatalf("unexpected logging config %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.SessionBackend != "redis" || cfg.RedisURL != "redis://cache:6379/2" {
		t.Fatalf("unexpected session config %s %s", cfg.SessionBackend, cfg.RedisURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"NUM_QUESTIONS_PER_QUIZ", "ten"},
		{"NUM_QUESTIONS_PER_QUIZ", "0"},
		{"SESSION_TTL", "forever"},
		{"SOURCE_MAX_CHARS", "lots"},
		{"LOG_LEVEL", "chatty"},
		{"LOG_FORMAT", "xml"},
		{"SESSION_BACKEND", "memcached"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Fatalf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: slog.LevelWarn, LogFormat: "json"}
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "category", "optics")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, `"category":"optics"`) {
		t.Fatalf("expected JSON record, got %s", out)
	}
}
