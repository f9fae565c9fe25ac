package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/themizzi/swaglabs-e2e/internal/metrics"
	"github.com/themizzi/swaglabs-e2e/internal/models"
	"github.com/themizzi/swaglabs-e2e/internal/services"
	"go.uber.org/zap"
)

// ConfirmationHandler places the order and shows the completion page
type ConfirmationHandler struct {
	template     *template.Template
	orderService services.OrderService
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// ConfirmationData represents the data for the confirmation template
type ConfirmationData struct {
	pageData
	Reference string
}

// NewConfirmationHandler creates a new confirmation handler
func NewConfirmationHandler(orderService services.OrderService, m *metrics.Metrics, logger *zap.Logger) (*ConfirmationHandler, error) {
	tmpl, err := parsePage("checkout-complete.html")
	if err != nil {
		return nil, err
	}

	return &ConfirmationHandler{
		template:     tmpl,
		orderService: orderService,
		metrics:      m,
		logger:       logger,
	}, nil
}

// ServeHTTP places the order on POST and renders the confirmation on GET
func (h *ConfirmationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.finish(w, r)
	case http.MethodGet:
		h.show(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConfirmationHandler) finish(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerFrom(r)
	if !ok {
		http.Redirect(w, r, "/checkout-step-one.html", http.StatusSeeOther)
		return
	}
	account, _ := AccountFrom(r.Context())

	target := "/checkout-complete.html"
	order, err := h.orderService.CreateOrder(account.Username, customer, cartFrom(r))
	switch {
	case errors.Is(err, models.ErrEmptyOrder):
		// An empty cart still completes, without an order.
	case err != nil:
		h.logger.Error("failed to create order", zap.Error(err))
		http.Error(w, "Failed to place order", http.StatusInternalServerError)
		return
	default:
		if _, err := h.orderService.CompleteOrder(order.Reference); err != nil {
			h.logger.Error("failed to complete order", zap.String("reference", order.Reference), zap.Error(err))
			http.Error(w, "Failed to place order", http.StatusInternalServerError)
			return
		}
		h.metrics.Orders.WithLabelValues(string(models.OrderStatusCompleted)).Inc()
		target += "?" + url.Values{"order": {order.Reference}}.Encode()
	}

	clearCart(w)
	clearCustomer(w)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *ConfirmationHandler) show(w http.ResponseWriter, r *http.Request) {
	data := ConfirmationData{pageData: pageData{Title: "Checkout: Complete!"}}

	// Only the shopper who placed the order sees its reference
	if ref := r.URL.Query().Get("order"); ref != "" {
		account, _ := AccountFrom(r.Context())
		order, err := h.orderService.GetOrderByReference(ref)
		if err == nil && order.Username == account.Username {
			data.Reference = order.Reference
		}
	}

	if err := render(w, h.template, data); err != nil {
		h.logger.Error("failed to render confirmation", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
