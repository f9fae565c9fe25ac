package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/themizzi/swaglabs-e2e/internal/metrics"
	"github.com/themizzi/swaglabs-e2e/internal/models"
	"github.com/themizzi/swaglabs-e2e/internal/services"
	"go.uber.org/zap"
)

// LoginHandler serves the login form at /
type LoginHandler struct {
	template    *template.Template
	authService services.AuthService
	sessions    *Sessions
	accounts    []string
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// LoginData represents the data passed to the login template
type LoginData struct {
	Username string
	Error    string
	Accounts []string
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(catalog *models.Catalog, authService services.AuthService, sessions *Sessions, m *metrics.Metrics, logger *zap.Logger) (*LoginHandler, error) {
	tmpl, err := parsePage("login.html")
	if err != nil {
		return nil, err
	}

	accounts := make([]string, 0, len(catalog.Accounts))
	for _, a := range catalog.Accounts {
		accounts = append(accounts, a.Username)
	}

	return &LoginHandler{
		template:    tmpl,
		authService: authService,
		sessions:    sessions,
		accounts:    accounts,
		metrics:     m,
		logger:      logger,
	}, nil
}

// ServeHTTP renders the form on GET and checks credentials on POST
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		data := LoginData{Accounts: h.accounts}
		if denied := r.URL.Query().Get("denied"); denied != "" {
			data.Error = services.AccessDeniedMessage(denied)
		}
		h.render(w, data)
	case http.MethodPost:
		h.login(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("user-name")
	password := r.PostFormValue("password")

	account, err := h.authService.Authenticate(r.Context(), username, password)
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		h.metrics.Logins.WithLabelValues("failure").Inc()
		h.render(w, LoginData{Username: username, Error: services.LoginMessage(err), Accounts: h.accounts})
		return
	}

	h.metrics.Logins.WithLabelValues("success").Inc()
	h.logger.Info("login", zap.String("username", account.Username))
	h.sessions.Start(w, account.Username)
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, data LoginData) {
	if err := render(w, h.template, data); err != nil {
		h.logger.Error("failed to render login page", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
