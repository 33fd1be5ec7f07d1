// Package http serves the HTML application: auth, pay setup, dashboard,
// transactions, budgets, and bills.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/auth"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/services"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/storage"
	appweb "github.com/JasvinK/Student-Paycheck-Buddy/web"
)

const sessionCookie = "pb_session"

// Store is the repository surface the handlers use directly. The dashboard
// summary goes through services.DashboardService instead.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)
	GetPaySchedule(ctx context.Context, userID int64) (*core.PaySchedule, error)
	UpsertPaySchedule(ctx context.Context, s core.PaySchedule) error
	CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
	ListTransactions(ctx context.Context, userID int64, f storage.TransactionFilter) ([]core.Transaction, error)
	UpsertBudget(ctx context.Context, b core.Budget) error
	CreateBill(ctx context.Context, b core.RecurringBill) (int64, error)
	ListActiveBills(ctx context.Context, userID int64) ([]core.RecurringBill, error)
	DeactivateBill(ctx context.Context, userID, billID int64) error
}

// ExportPublisher queues a freshly created transaction for export. A nil
// publisher disables the pipeline.
type ExportPublisher interface {
	PublishTransactionExport(ctx context.Context, id int64) error
}

type Server struct {
	http.Server
	templates  *template.Template
	store      Store
	sessions   *auth.Sessions
	dashboard  *services.DashboardService
	exporter   ExportPublisher
	bcryptCost int
	sessionTTL time.Duration

	rateLimiter *rateLimiter

	stopSessionPrune chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. exporter may be nil.
func NewServer(addr string, store Store, sessions *auth.Sessions, dashboard *services.DashboardService, exporter ExportPublisher, bcryptCost int, sessionTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:            store,
		sessions:         sessions,
		dashboard:        dashboard,
		exporter:         exporter,
		bcryptCost:       bcryptCost,
		sessionTTL:       sessionTTL,
		rateLimiter:      newRateLimiter(),
		stopSessionPrune: make(chan struct{}),
	}

	go s.startSessionPrune()

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/", s.withRequestContext(s.handleIndex))
	mux.HandleFunc("/signup", s.withRequestContext(s.handleSignup))
	mux.HandleFunc("/login", s.withRequestContext(s.handleLogin))
	mux.HandleFunc("/logout", s.withRequestContext(s.handleLogout))
	mux.HandleFunc("/setup", s.withRequestContext(s.requireUser(s.handleSetup)))
	mux.HandleFunc("/dashboard", s.withRequestContext(s.requireUser(s.handleDashboard)))
	mux.HandleFunc("/transactions", s.withRequestContext(s.requireUser(s.handleTransactions)))
	mux.HandleFunc("/transactions/new", s.withRequestContext(s.requireUser(s.handleNewTransaction)))
	mux.HandleFunc("/budgets", s.withRequestContext(s.requireUser(s.handleBudgets)))
	mux.HandleFunc("/bills", s.withRequestContext(s.requireUser(s.handleBills)))
	mux.HandleFunc("/bills/deactivate", s.withRequestContext(s.requireUser(s.handleDeactivateBill)))

	return s
}

// startSessionPrune drops expired sessions on a timer so the store does not
// fill with dead tokens between logins.
func (s *Server) startSessionPrune() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.sessions.Prune(); n > 0 {
				slog.Debug("Session prune completed", "sessions_removed", n)
			}
		case <-s.stopSessionPrune:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopSessionPrune != nil {
			close(s.stopSessionPrune)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withRequestContext adds a request ID, structured request logging,
// security headers, and POST rate limiting.
func (s *Server) withRequestContext(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := "req_" + uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// requireUser resolves the session cookie and hands the user ID to the
// handler, redirecting anonymous requests to the login page.
func (s *Server) requireUser(next func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.currentUser(r)
		if !ok {
			setFlash(w, "Please log in first.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, userID)
	}
}

func (s *Server) currentUser(r *http.Request) (int64, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, false
	}
	return s.sessions.Lookup(c.Value)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := s.currentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
