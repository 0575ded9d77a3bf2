package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "register", "question", "feedback", "result", "profile", "error"}

type page struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"pct": func(f float64) string { return fmt.Sprintf("%.1f", f*100) },
	"percent": func(f float64) string {
		return fmt.Sprintf("%.1f", f)
	},
}

// parsePages parses every page together with base.html.
func parsePages() (map[string]*page, error) {
	pages := make(map[string]*page, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = &page{tmpl: t}
	}
	return pages, nil
}

// render executes a page into a buffer first so a template error still
// yields a clean 500. Pending flashes are consumed and the cookie saved.
func (s *Server) render(w http.ResponseWriter, r *http.Request, v *visitor, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if v != nil {
		data["Username"] = v.Username()
		data["LoggedIn"] = v.LoggedIn()
		data["Errors"] = v.flashes(flashError)
		data["Notices"] = v.flashes(flashInfo)
		if err := v.save(w, r); err != nil {
			s.logger.Warn("render: session not saved", "error", err)
		}
	}

	p, ok := s.pages[name]
	if !ok {
		s.serverError(w, r, fmt.Errorf("unknown page %q", name))
		return
	}
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.serverError(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderError shows the error page with a short explanation.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, v *visitor, status int, title, detail string) {
	s.render(w, r, v, status, "error", map[string]any{
		"Status": status,
		"Title":  title,
		"Detail": detail,
	})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
