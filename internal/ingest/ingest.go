// Package ingest turns the configured textbook into plain text that the
// question generator can work from.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrNoSource is returned when no textbook path is configured.
var ErrNoSource = errors.New("no source document configured")

// Source yields the text questions are generated from.
type Source interface {
	Text(ctx context.Context) (string, error)
}

// PDFSource extracts text from a PDF file. Extraction is cached until the
// file's modification time changes.
type PDFSource struct {
	Path string
	// MaxChars truncates the extracted text, counted in runes. Zero keeps
	// everything.
	MaxChars int

	mu      sync.Mutex
	modTime time.Time
	text    string
}

// NewPDFSource returns a source reading path.
func NewPDFSource(path string, maxChars int) *PDFSource {
	return &PDFSource{Path: path, MaxChars: maxChars}
}

func (s *PDFSource) Text(ctx context.Context) (string, error) {
	if s.Path == "" {
		return "", ErrNoSource
	}
	fi, err := os.Stat(s.Path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", s.Path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.text != "" && fi.ModTime().Equal(s.modTime) {
		return s.text, nil
	}

	text, err := extractPDF(ctx, s.Path)
	if err != nil {
		return "", err
	}
	text = Truncate(text, s.MaxChars)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("extract %s: document has no text", s.Path)
	}

	s.text = text
	s.modTime = fi.ModTime()
	return text, nil
}

func extractPDF(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d of %s: %w", i, path, err)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Truncate shortens s to at most limit runes. A non-positive limit returns s.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

// StaticSource serves fixed text. Useful for tests and for ingesting text
// that was extracted elsewhere.
type StaticSource string

func (s StaticSource) Text(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoSource
	}
	return string(s), nil
}
