package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func weightsSchema() *Schema {
	return &Schema{
		Name:        "test-weights",
		Description: "Category weights",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"weights": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"category": map[string]any{"type": "string"},
							"weight":   map[string]any{"type": "number", "minimum": 0},
						},
						"required": []any{"category", "weight"},
					},
				},
				"level": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			},
			"required": []any{"weights"},
		},
	}
}

func TestValidateResponse_ValidJSON(t *testing.T) {
	raw := json.RawMessage(`{"weights":[{"category":"kinematics","weight":0.7}],"level":"easy"}`)
	if err := validateResponse(weightsSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_ValidWithoutOptional(t *testing.T) {
	raw := json.RawMessage(`{"weights":[]}`)
	if err := validateResponse(weightsSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing required", `{"level":"easy"}`},
		{"wrong type", `{"weights":[{"category":"optics","weight":"high"}]}`},
		{"negative weight", `{"weights":[{"category":"optics","weight":-1}]}`},
		{"invalid enum", `{"weights":[],"level":"expert"}`},
		{"malformed json", `{not json}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(weightsSchema(), json.RawMessage(tt.raw))
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %v", err)
			}
		})
	}
}

func TestValidateResponse_EmptyResponse(t *testing.T) {
	if err := validateResponse(weightsSchema(), json.RawMessage(``)); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Weights []struct {
			Category string  `json:"category"`
			Weight   float64 `json:"weight"`
		} `json:"weights"`
	}
	resp := &Response{Content: json.RawMessage(`{"weights":[{"category":"optics","weight":0.4}]}`)}
	if err := Decode(weightsSchema(), resp, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Weights) != 1 || out.Weights[0].Category != "optics" || out.Weights[0].Weight != 0.4 {
		t.Fatalf("unexpected decode result %+v", out)
	}

	bad := &Response{Content: json.RawMessage(`{"level":"easy"}`)}
	if err := Decode(weightsSchema(), bad, &out); !IsMalformed(err) {
		t.Fatalf("expected malformed error, got %v", err)
	}

	if err := Decode(weightsSchema(), nil, &out); !IsMalformed(err) {
		t.Fatalf("expected malformed error for nil response, got %v", err)
	}
}

func TestStructuredContent(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		stop    string
		want    string
		wantErr func(error) bool
	}{
		{name: "plain", text: weightsJSON, stop: "end", want: weightsJSON},
		{name: "surrounding space", text: "\n  " + weightsJSON + "\n", stop: "end", want: weightsJSON},
		{name: "json fence", text: "```json\n" + weightsJSON + "\n```", stop: "end", want: weightsJSON},
		{name: "bare fence", text: "```\n" + weightsJSON + "```", stop: "end", want: weightsJSON},
		{
			name: "invalid", text: `{"weights":7}`, stop: "end",
			wantErr: func(err error) bool { _, ok := AsInvalidResponse(err); return ok },
		},
		{
			name: "truncated", text: `{"weights":[{"cat`, stop: "max_tokens",
			wantErr: func(err error) bool { var m *ErrMaxTokensExceeded; return errors.As(err, &m) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := structuredContent(weightsSchema(), tt.text, tt.stop)
			if tt.wantErr != nil {
				if !tt.wantErr(err) {
					t.Fatalf("unexpected error %T (%v)", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStructuredContent_NoSchemaKeepsText(t *testing.T) {
	text := "```\nReview optics before the next quiz.\n```"
	got, err := structuredContent(nil, text, "max_tokens")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != text {
		t.Fatalf("text without a schema should pass through, got %q", got)
	}
}
