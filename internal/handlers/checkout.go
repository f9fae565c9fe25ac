package handlers

import (
	"encoding/base64"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/themizzi/swaglabs-e2e/internal/models"
	"github.com/themizzi/swaglabs-e2e/internal/services"
	"go.uber.org/zap"
)

// CustomerCookie carries the checkout information between steps
const CustomerCookie = "checkout-info"

// CheckoutHandler handles the checkout information step
type CheckoutHandler struct {
	template *template.Template
	catalog  *models.Catalog
	logger   *zap.Logger
}

// CheckoutData represents the data passed to the checkout template
type CheckoutData struct {
	pageData
	Customer models.Customer
	Error    string
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(catalog *models.Catalog, logger *zap.Logger) (*CheckoutHandler, error) {
	tmpl, err := parsePage("checkout-step-one.html")
	if err != nil {
		return nil, err
	}

	return &CheckoutHandler{
		template: tmpl,
		catalog:  catalog,
		logger:   logger,
	}, nil
}

// ServeHTTP renders the form on GET and validates it on POST
func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := CheckoutData{pageData: pageData{
		Title:     "Checkout: Your Information",
		CartCount: len(h.catalog.Items(cartFrom(r))),
	}}

	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		customer, err := services.ValidateCustomer(models.Customer{
			FirstName:  r.PostFormValue("firstName"),
			LastName:   r.PostFormValue("lastName"),
			PostalCode: r.PostFormValue("postalCode"),
		})
		if err == nil {
			setCustomer(w, customer)
			http.Redirect(w, r, "/checkout-step-two.html", http.StatusSeeOther)
			return
		}
		data.Customer = customer
		data.Error = services.CheckoutMessage(err)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := render(w, h.template, data); err != nil {
		h.logger.Error("failed to render checkout", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// OverviewHandler handles the checkout overview step
type OverviewHandler struct {
	template *template.Template
	catalog  *models.Catalog
	logger   *zap.Logger
}

// OverviewData represents the data passed to the overview template
type OverviewData struct {
	CartData
	Subtotal string
	Tax      string
	Total    string
}

// NewOverviewHandler creates a new overview handler
func NewOverviewHandler(catalog *models.Catalog, logger *zap.Logger) (*OverviewHandler, error) {
	tmpl, err := parsePage("checkout-step-two.html")
	if err != nil {
		return nil, err
	}

	return &OverviewHandler{
		template: tmpl,
		catalog:  catalog,
		logger:   logger,
	}, nil
}

// ServeHTTP handles GET /checkout-step-two.html. Without checkout information
// the shopper is sent back to the first step.
func (h *OverviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := customerFrom(r); !ok {
		http.Redirect(w, r, "/checkout-step-one.html", http.StatusSeeOther)
		return
	}

	account, _ := AccountFrom(r.Context())
	cart := cartFrom(r)
	summary := models.Summarize(h.catalog.Items(cart), h.catalog.TaxRatePercent)

	data := OverviewData{
		CartData: cartData(h.catalog, account, cart, "Checkout: Overview"),
		Subtotal: models.FormatCents(summary.SubtotalCents),
		Tax:      models.FormatCents(summary.TaxCents),
		Total:    models.FormatCents(summary.TotalCents),
	}
	data.Removable = false

	if err := render(w, h.template, data); err != nil {
		h.logger.Error("failed to render overview", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func setCustomer(w http.ResponseWriter, c models.Customer) {
	raw, _ := json.Marshal(c)
	http.SetCookie(w, &http.Cookie{
		Name:     CustomerCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

func customerFrom(r *http.Request) (models.Customer, bool) {
	var c models.Customer
	cookie, err := r.Cookie(CustomerCookie)
	if err != nil {
		return c, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return c, false
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, false
	}
	_, err = services.ValidateCustomer(c)
	return c, err == nil
}

func clearCustomer(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   CustomerCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
