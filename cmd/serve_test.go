package cmd

import (
	"testing"
	"time"
)

func TestWriteTimeout(t *testing.T) {
	tests := []struct {
		llm  time.Duration
		want time.Duration
	}{
		{llm: 60 * time.Second, want: 90 * time.Second},
		{llm: time.Second, want: 31 * time.Second},
		{llm: 0, want: 0},
	}
	for _, tt := range tests {
		if got := writeTimeout(tt.llm); got != tt.want {
			t.Errorf("writeTimeout(%s) = %s, want %s", tt.llm, got, tt.want)
		}
	}
}
