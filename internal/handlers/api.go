package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/themizzi/swaglabs-e2e/internal/metrics"
	"github.com/themizzi/swaglabs-e2e/internal/models"
	"github.com/themizzi/swaglabs-e2e/internal/services"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateOrderRequest is the body of POST /api/orders
type CreateOrderRequest struct {
	Username   string          `json:"username"`
	Customer   models.Customer `json:"customer"`
	ProductIDs []int           `json:"productIds"`
}

// OrderResponse is the JSON form of an order
type OrderResponse struct {
	Reference string             `json:"reference"`
	Username  string             `json:"username"`
	Customer  models.Customer    `json:"customer"`
	Items     []models.OrderItem `json:"items"`
	Subtotal  int64              `json:"subtotalCents"`
	Tax       int64              `json:"taxCents"`
	Total     int64              `json:"totalCents"`
	Currency  string             `json:"currency"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

func newOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		Reference: o.Reference,
		Username:  o.Username,
		Customer:  o.Customer,
		Items:     o.Items,
		Subtotal:  o.SubtotalCents,
		Tax:       o.TaxCents,
		Total:     o.Amount,
		Currency:  o.Currency,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

// APIHandler serves the storefront JSON API
type APIHandler struct {
	catalog      *models.Catalog
	authService  services.AuthService
	orderService services.OrderService
	metrics      *metrics.Metrics
	logger       *zap.Logger
	mux          *http.ServeMux
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(catalog *models.Catalog, authService services.AuthService, orderService services.OrderService, m *metrics.Metrics, logger *zap.Logger) *APIHandler {
	h := &APIHandler{
		catalog:      catalog,
		authService:  authService,
		orderService: orderService,
		metrics:      m,
		logger:       logger,
		mux:          http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /api/inventory", h.listInventory)
	h.mux.HandleFunc("GET /api/inventory/{id}", h.getProduct)
	h.mux.HandleFunc("GET /api/orders", h.listOrders)
	h.mux.HandleFunc("POST /api/orders", h.createOrder)
	h.mux.HandleFunc("GET /api/orders/{reference}", h.getOrder)
	h.mux.HandleFunc("DELETE /api/orders/{reference}", h.cancelOrder)
	return h
}

// ServeHTTP dispatches /api/ requests
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *APIHandler) listInventory(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, h.catalog.Products)
}

func (h *APIHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		sendErrorResponse(w, "Product id must be a number", http.StatusBadRequest)
		return
	}
	product, err := h.catalog.Product(id)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	}
	sendJSON(w, http.StatusOK, product)
}

func (h *APIHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		sendErrorResponse(w, "username is required", http.StatusBadRequest)
		return
	}
	orders, err := h.orderService.ListOrders(username)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		sendErrorResponse(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}
	sendJSON(w, http.StatusOK, out)
}

func (h *APIHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if _, err := h.authService.Account(req.Username); err != nil {
		sendErrorResponse(w, "Unknown or locked account", http.StatusForbidden)
		return
	}
	customer, err := services.ValidateCustomer(req.Customer)
	if err != nil {
		sendErrorResponse(w, services.CheckoutMessage(err), http.StatusUnprocessableEntity)
		return
	}

	var cart models.Cart
	for _, id := range req.ProductIDs {
		cart = cart.Add(id)
	}
	order, err := h.orderService.CreateOrder(req.Username, customer, cart)
	if err != nil {
		if errors.Is(err, models.ErrEmptyOrder) {
			sendErrorResponse(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("failed to create order", zap.Error(err))
		sendErrorResponse(w, "Failed to create order", http.StatusInternalServerError)
		return
	}

	h.metrics.Orders.WithLabelValues(string(order.Status)).Inc()
	w.Header().Set("Location", "/api/orders/"+order.Reference)
	sendJSON(w, http.StatusCreated, newOrderResponse(order))
}

func (h *APIHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrderByReference(r.PathValue("reference"))
	if err != nil {
		h.orderError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *APIHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.CancelOrder(r.PathValue("reference"))
	if err != nil {
		h.orderError(w, err)
		return
	}
	h.metrics.Orders.WithLabelValues(string(order.Status)).Inc()
	sendJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *APIHandler) orderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		sendErrorResponse(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidStatusTransition):
		sendErrorResponse(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("order request failed", zap.Error(err))
		sendErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
