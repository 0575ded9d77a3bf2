package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/store"
)

const cookieName = "adaptquiz"

// Session cookie keys.
const (
	keyUserID   = "user_id"
	keyUsername = "username"
	keyToken    = "token"
)

// Flash categories.
const (
	flashError = "error"
	flashInfo  = "info"
)

// visitor is the cookie session of one request. The cookie only
// identifies the user and the quiz; quiz state lives in the store under
// the token.
type visitor struct {
	sess *sessions.Session
}

func (s *Server) visitor(r *http.Request) *visitor {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		// Get still returns a fresh session for a cookie it cannot decode,
		// for example one signed with a rotated key.
		s.logger.Debug("discarding unreadable session cookie", "error", err)
	}
	return &visitor{sess: sess}
}

func (v *visitor) UserID() int64 {
	id, _ := v.sess.Values[keyUserID].(int64)
	return id
}

func (v *visitor) Username() string {
	name, _ := v.sess.Values[keyUsername].(string)
	return name
}

func (v *visitor) LoggedIn() bool {
	return v.UserID() > 0
}

func (v *visitor) Token() string {
	tok, _ := v.sess.Values[keyToken].(string)
	return tok
}

// login binds the session to a user and issues a new quiz token.
func (v *visitor) login(u *store.User) {
	v.sess.Values[keyUserID] = u.ID
	v.sess.Values[keyUsername] = u.Username
	v.sess.Values[keyToken] = uuid.NewString()
}

// clear empties the session and expires its cookie on save.
func (v *visitor) clear() {
	for k := range v.sess.Values {
		delete(v.sess.Values, k)
	}
	opts := *v.sess.Options
	opts.MaxAge = -1
	v.sess.Options = &opts
}

func (v *visitor) flash(category, msg string) {
	v.sess.AddFlash(msg, category)
}

func (v *visitor) flashes(category string) []string {
	var out []string
	for _, f := range v.sess.Flashes(category) {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (v *visitor) save(w http.ResponseWriter, r *http.Request) error {
	if err := v.sess.Save(r, w); err != nil {
		return fmt.Errorf("save session cookie: %w", err)
	}
	return nil
}

// loadState returns the visitor's quiz. A missing, expired or unreadable
// quiz is a zero State, which reads as not started.
func (s *Server) loadState(ctx context.Context, v *visitor) (quiz.State, error) {
	tok := v.Token()
	if tok == "" {
		return quiz.State{}, nil
	}
	qs, err := s.quizzes.Load(ctx, tok, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return quiz.State{}, nil
	}
	if err != nil {
		return quiz.State{}, fmt.Errorf("load quiz session: %w", err)
	}
	if qs.UserID != v.UserID() {
		return quiz.State{}, nil
	}
	var st quiz.State
	if err := json.Unmarshal(qs.State, &st); err != nil {
		s.logger.Warn("discarding unreadable quiz state", "error", err)
		return quiz.State{}, nil
	}
	return st, nil
}

// saveState stores st under the visitor's token, extending its expiry.
// It writes the cookie too when a token had to be issued, so it must run
// before anything is written to w.
func (s *Server) saveState(ctx context.Context, w http.ResponseWriter, r *http.Request, v *visitor, st quiz.State) error {
	if v.Token() == "" {
		v.sess.Values[keyToken] = uuid.NewString()
		if err := v.save(w, r); err != nil {
			return err
		}
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode quiz state: %w", err)
	}
	err = s.quizzes.Save(ctx, store.QuizSession{
		Token:     v.Token(),
		UserID:    v.UserID(),
		State:     data,
		ExpiresAt: s.now().Add(s.sessionTTL),
	})
	if err != nil {
		return fmt.Errorf("save quiz session: %w", err)
	}
	return nil
}
