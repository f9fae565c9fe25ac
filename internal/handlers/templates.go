package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/themizzi/swaglabs-e2e/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// brokenImage is served to accounts with the problem behavior
const brokenImage = "/static/media/sl-404.svg"

// parsePage parses one page template together with the shared layout
func parsePage(page string) (*template.Template, error) {
	tmpl, err := template.New(page).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
	}
	return tmpl, nil
}

// StaticHandler serves the embedded storefront assets under /static/
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// pageData is shared by every page rendered inside the storefront header
type pageData struct {
	Title     string
	CartCount int
}

// itemView is a product as rendered in a listing
type itemView struct {
	ID          int
	Slug        string
	Name        string
	Description string
	Price       string
	PriceCents  int64
	ImageURL    string
	InCart      bool
}

func newItemView(p models.Product, account models.Account, cart models.Cart) itemView {
	image := "/static/media/" + p.Image + ".svg"
	if account.Behavior == models.BehaviorProblem {
		image = brokenImage
	}
	return itemView{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.FormattedPrice(),
		PriceCents:  p.PriceCents,
		ImageURL:    image,
		InCart:      cart.Contains(p.ID),
	}
}

func render(w http.ResponseWriter, tmpl *template.Template, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.Execute(w, data)
}
