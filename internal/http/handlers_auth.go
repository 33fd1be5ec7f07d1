package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/auth"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

type authPage struct {
	Flash string
	Email string
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "signup.html", authPage{Flash: popFlash(w, r)})
	case http.MethodPost:
		s.handleSignupPost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(sanitizeInput(r.Form.Get("email")))
	password := r.Form.Get("password")
	if email == "" || password == "" {
		s.render(w, r, "signup.html", authPage{Flash: "Email and password are required.", Email: email})
		return
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hash error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	userID, err := s.store.CreateUser(r.Context(), email, hash)
	if errors.Is(err, core.ErrEmailTaken) {
		s.render(w, r, "signup.html", authPage{Flash: "That email is already registered.", Email: email})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Create user error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.setSessionCookie(w, s.sessions.Create(userID))
	slog.InfoContext(r.Context(), "User signed up", "user_id", userID)
	setFlash(w, "Welcome! Set up your pay schedule to get started.")
	http.Redirect(w, r, "/setup", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", authPage{Flash: popFlash(w, r)})
	case http.MethodPost:
		s.handleLoginPost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(sanitizeInput(r.Form.Get("email")))
	password := r.Form.Get("password")

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		slog.ErrorContext(r.Context(), "Lookup user error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.render(w, r, "login.html", authPage{Flash: "Invalid email or password.", Email: email})
		return
	}

	s.setSessionCookie(w, s.sessions.Create(user.ID))
	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)

	// Straight to setup until a pay schedule exists.
	if _, err := s.store.GetPaySchedule(r.Context(), user.ID); errors.Is(err, core.ErrNotFound) {
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Destroy(c.Value)
	}
	clearSessionCookie(w)
	setFlash(w, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
