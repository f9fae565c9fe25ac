package handlers

import (
	"html/template"
	"net/http"

	"github.com/themizzi/swaglabs-e2e/internal/models"
	"go.uber.org/zap"
)

// InventoryHandler handles the product listing page
type InventoryHandler struct {
	template *template.Template
	catalog  *models.Catalog
	logger   *zap.Logger
}

// InventoryData represents the data passed to the inventory template
type InventoryData struct {
	pageData
	Items []itemView
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(catalog *models.Catalog, logger *zap.Logger) (*InventoryHandler, error) {
	tmpl, err := parsePage("inventory.html")
	if err != nil {
		return nil, err
	}

	return &InventoryHandler{
		template: tmpl,
		catalog:  catalog,
		logger:   logger,
	}, nil
}

// ServeHTTP handles the GET /inventory.html request
func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	account, _ := AccountFrom(r.Context())
	cart := cartFrom(r)

	data := InventoryData{pageData: pageData{Title: "Products", CartCount: len(h.catalog.Items(cart))}}
	for _, p := range h.catalog.Products {
		data.Items = append(data.Items, newItemView(p, account, cart))
	}

	if err := render(w, h.template, data); err != nil {
		h.logger.Error("failed to render inventory", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
