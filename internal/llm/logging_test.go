package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/adaptquiz/internal/store"
)

func openEventStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoggingProvider_RecordsSuccessAndFailure(t *testing.T) {
	s := openEventStore(t)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"recommendations":["Review optics"]}`), Usage: Usage{InputTokens: 120, OutputTokens: 40}},
		MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"oops":1}`), Err: errors.New("schema")}},
	)
	p := WithLogging(mock, "mock", s.EventRepo())

	ctx := WithPurpose(context.Background(), "study-plan")
	req := Request{
		System:   "You are a study coach.",
		Messages: []Message{{Role: RoleUser, Content: "Score: 40%"}},
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error from second call")
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Purpose: "study-plan"})
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	var ok, failed int
	for _, e := range events {
		if e.Provider != "mock" || e.Purpose != "study-plan" {
			t.Fatalf("unexpected event labels %+v", e.LLMRequestEventData)
		}
		if e.Success {
			ok++
			if e.InputTokens != 120 || e.OutputTokens != 40 {
				t.Fatalf("unexpected token counts %d/%d", e.InputTokens, e.OutputTokens)
			}
		} else {
			failed++
			if e.ResponseBody != `{"oops":1}` {
				t.Fatalf("expected invalid content to be kept, got %q", e.ResponseBody)
			}
		}
	}
	if ok != 1 || failed != 1 {
		t.Fatalf("expected one success and one failure, got %d/%d", ok, failed)
	}
}

func TestSerializeRequest(t *testing.T) {
	out := serializeRequest(Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "chapter text"}},
		Schema:   &Schema{Name: "quiz-questions", Definition: map[string]any{"type": "object"}},
	})
	for _, want := range []string{"[system]\nsys", "[user]\nchapter text", "[schema: quiz-questions]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("serialized request missing %q:\n%s", want, out)
		}
	}
}
