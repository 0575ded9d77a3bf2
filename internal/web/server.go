// Package web serves the quiz over HTTP: accounts, the quiz flow and the
// profile page.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/adaptquiz/internal/coach"
	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/store"
)

// Coach is the LLM guidance used at quiz start and completion.
type Coach interface {
	Weights(ctx context.Context, in store.WeightsInput) coach.WeightsResult
	StudyPlan(ctx context.Context, sum quiz.Summary) string
}

// Selector draws the next question of a quiz.
type Selector interface {
	Next(ctx context.Context, st quiz.State) (quiz.State, *store.Question, error)
}

// Options wires a Server.
type Options struct {
	Users    store.UserRepo
	Stats    store.StatsRepo
	Sessions store.QuizSessionRepo
	Selector Selector
	Coach    Coach

	SecretKey  string
	PerQuiz    int
	SessionTTL time.Duration
	// SecureCookie sets the Secure flag on the session cookie.
	SecureCookie bool
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server holds the handlers and their dependencies.
type Server struct {
	users    store.UserRepo
	stats    store.StatsRepo
	quizzes  store.QuizSessionRepo
	selector Selector
	coach    Coach

	cookies    *sessions.CookieStore
	pages      map[string]*page
	perQuiz    int
	sessionTTL time.Duration
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

// New builds a Server. Templates are parsed here so a broken template
// fails at startup rather than on first request.
func New(opts Options) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.PerQuiz <= 0 {
		opts.PerQuiz = 10
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	cookies := sessions.NewCookieStore([]byte(opts.SecretKey))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		users:      opts.Users,
		stats:      opts.Stats,
		quizzes:    opts.Sessions,
		selector:   opts.Selector,
		coach:      opts.Coach,
		cookies:    cookies,
		pages:      pages,
		perQuiz:    opts.PerQuiz,
		sessionTTL: opts.SessionTTL,
		bcryptCost: opts.BcryptCost,
		logger:     opts.Logger,
		now:        opts.Now,
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain:
// recovery, logging, CORS, mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /login", s.loginPage)
	mux.HandleFunc("POST /login", s.login)
	mux.HandleFunc("GET /register", s.registerPage)
	mux.HandleFunc("POST /register", s.register)
	mux.HandleFunc("GET /logout", s.logout)

	mux.Handle("GET /start", s.requireUser(s.start))
	mux.Handle("POST /start", s.requireUser(s.start))
	mux.Handle("GET /question", s.requireUser(s.question))
	mux.Handle("GET /question_deviate", s.requireUser(s.questionDeviate))
	mux.Handle("POST /answer", s.requireUser(s.answer))
	mux.Handle("GET /feedback", s.requireUser(s.feedback))
	mux.Handle("GET /result", s.requireUser(s.result))
	mux.Handle("GET /profile", s.requireUser(s.profile))
	mux.HandleFunc("POST /set_difficulty", s.setDifficulty)

	return Recovery(s.logger)(Logging(s.logger)(CORS(mux)))
}
