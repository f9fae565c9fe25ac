package handlers

import (
	"html/template"
	"net/http"

	"github.com/themizzi/swaglabs-e2e/internal/models"
	"go.uber.org/zap"
)

// CartHandler handles the shopping cart page
type CartHandler struct {
	template *template.Template
	catalog  *models.Catalog
	logger   *zap.Logger
}

// CartData represents the data passed to the cart and overview templates
type CartData struct {
	pageData
	Items     []itemView
	Removable bool
}

// NewCartHandler creates a new cart handler
func NewCartHandler(catalog *models.Catalog, logger *zap.Logger) (*CartHandler, error) {
	tmpl, err := parsePage("cart.html")
	if err != nil {
		return nil, err
	}

	return &CartHandler{
		template: tmpl,
		catalog:  catalog,
		logger:   logger,
	}, nil
}

// ServeHTTP handles the GET /cart.html request
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	account, _ := AccountFrom(r.Context())
	if err := render(w, h.template, cartData(h.catalog, account, cartFrom(r), "Your Cart")); err != nil {
		h.logger.Error("failed to render cart", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// cartData resolves the cart in cart order
func cartData(catalog *models.Catalog, account models.Account, cart models.Cart, title string) CartData {
	items := catalog.Items(cart)
	data := CartData{pageData: pageData{Title: title, CartCount: len(items)}, Removable: true}
	for _, p := range items {
		data.Items = append(data.Items, newItemView(p, account, cart))
	}
	return data
}
