package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/themizzi/swaglabs-e2e/internal/models"
)

// ImageHandler renders product images as SVG placeholders
type ImageHandler struct {
	byImage map[string]models.Product
}

// NewImageHandler creates an image handler for the catalog products
func NewImageHandler(catalog *models.Catalog) *ImageHandler {
	byImage := make(map[string]models.Product, len(catalog.Products))
	for _, p := range catalog.Products {
		byImage[p.Image] = p
	}
	return &ImageHandler{byImage: byImage}
}

// ServeHTTP handles GET /static/media/{image}.svg
func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/static/media/"), ".svg")
	product, known := h.byImage[name]
	if !ok || !known {
		http.NotFound(w, r)
		return
	}

	hue := (product.ID * 57) % 360
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="180" viewBox="0 0 300 180">`+
		`<rect width="300" height="180" fill="hsl(%d,60%%,85%%)"/>`+
		`<text x="150" y="95" font-family="sans-serif" font-size="14" text-anchor="middle">%s</text></svg>`,
		hue, template.HTMLEscapeString(product.Name))
}
