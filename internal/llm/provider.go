package llm

import (
	"context"
	"encoding/json"
)

// Provider is one LLM backend. Question generation, category weighting
// and study plans all go through Generate; decorators (retry, timeout,
// event logging) wrap a Provider and are Providers themselves.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single-turn prompt. With Schema set, the backend is asked
// for JSON in that shape and the reply is validated before it is
// returned.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64 // 0 leaves the backend default
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema. Name keys the compiled-schema cache, so
// two schemas must not share one.
type Schema struct {
	Name        string // kebab-case, e.g. "quiz-questions"
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content is validated JSON when the request carried a Schema, and
	// the model's text otherwise.
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end", "max_tokens" or "error".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
