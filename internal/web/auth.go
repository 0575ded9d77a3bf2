package web

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/adaptquiz/internal/store"
)

// GET /
func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(r)
	if v.LoggedIn() {
		http.Redirect(w, r, "/start", http.StatusSeeOther)
		return
	}
	s.render(w, r, v, http.StatusOK, "login", nil)
}

// GET /login
func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.visitor(r), http.StatusOK, "login", nil)
}

// POST /login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := s.visitor(r)
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	u, err := s.users.ByUsername(ctx, username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.logger.Info("login failed", "username", username)
		v.flash(flashError, "Invalid credentials")
		if err := v.save(w, r); err != nil {
			s.serverError(w, r, err)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// A previous user's quiz on this browser is abandoned.
	if old := v.Token(); old != "" {
		if err := s.quizzes.Delete(ctx, old); err != nil {
			s.logger.Warn("dropping previous quiz session", "error", err)
		}
	}
	v.login(u)
	if err := v.save(w, r); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.logger.Info("user logged in", "user_id", u.ID)
	http.Redirect(w, r, "/start", http.StatusSeeOther)
}

// GET /register
func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.visitor(r), http.StatusOK, "register", nil)
}

// POST /register
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		http.Error(w, "Missing credentials", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		http.Error(w, "Password too long", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	id, err := s.users.Create(r.Context(), username, string(hash))
	if errors.Is(err, store.ErrUsernameTaken) {
		http.Error(w, "Username already exists", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.logger.Info("user registered", "user_id", id)

	v := s.visitor(r)
	v.flash(flashInfo, "Account created. Please log in.")
	if err := v.save(w, r); err != nil {
		s.logger.Warn("register: session not saved", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// GET /logout
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(r)
	if tok := v.Token(); tok != "" {
		if err := s.quizzes.Delete(r.Context(), tok); err != nil {
			s.logger.Warn("logout: quiz session not deleted", "error", err)
		}
	}
	v.clear()
	if err := v.save(w, r); err != nil {
		s.logger.Warn("logout: session not cleared", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
