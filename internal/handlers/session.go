package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/themizzi/swaglabs-e2e/internal/models"
	"github.com/themizzi/swaglabs-e2e/internal/services"
	"go.uber.org/zap"
)

// SessionCookie holds the username of the logged in shopper
const SessionCookie = "session-username"

type accountKey struct{}

// AccountFrom returns the account stored by Sessions.Require
func AccountFrom(ctx context.Context) (models.Account, bool) {
	a, ok := ctx.Value(accountKey{}).(models.Account)
	return a, ok
}

// Sessions issues and checks the session cookie
type Sessions struct {
	authService services.AuthService
	ttl         time.Duration
	logger      *zap.Logger
}

// NewSessions creates a session manager whose cookies expire after ttl
func NewSessions(authService services.AuthService, ttl time.Duration, logger *zap.Logger) *Sessions {
	return &Sessions{
		authService: authService,
		ttl:         ttl,
		logger:      logger,
	}
}

// Start sets the session cookie for username
func (s *Sessions) Start(w http.ResponseWriter, username string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    username,
		Path:     "/",
		Expires:  time.Now().Add(s.ttl),
		SameSite: http.SameSiteLaxMode,
	})
}

// End expires the session cookie
func (s *Sessions) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// Require redirects to the login page unless the request carries a session
// for a known, unlocked account.
func (s *Sessions) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.account(r)
		if !ok {
			s.logger.Debug("session required", zap.String("path", r.URL.Path))
			http.Redirect(w, r, "/?"+url.Values{"denied": {r.URL.Path}}.Encode(), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey{}, account)))
	})
}

func (s *Sessions) account(r *http.Request) (models.Account, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return models.Account{}, false
	}
	account, err := s.authService.Account(c.Value)
	if err != nil {
		return models.Account{}, false
	}
	return account, true
}

// LogoutHandler ends the session and returns to the login page
type LogoutHandler struct {
	sessions *Sessions
}

// NewLogoutHandler creates a new logout handler
func NewLogoutHandler(sessions *Sessions) *LogoutHandler {
	return &LogoutHandler{sessions: sessions}
}

// ServeHTTP handles GET /logout
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.sessions.End(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// cartFrom reads the cart cookie
func cartFrom(r *http.Request) models.Cart {
	c, err := r.Cookie(models.CartCookie)
	if err != nil {
		return models.Cart{}
	}
	return models.ParseCart(c.Value)
}

// clearCart expires the cart cookie
func clearCart(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   models.CartCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
