package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/swaglabs-e2e/internal/models"
	"go.uber.org/zap/zaptest"
)

func TestInventoryHandler_ServeHTTP(t *testing.T) {
	env := newTestEnv(t)
	handler, err := NewInventoryHandler(env.catalog, zaptest.NewLogger(t))
	require.NoError(t, err)

	// GIVEN a shopper with the backpack and bike light in the cart
	cart := &http.Cookie{Name: models.CartCookie, Value: "4-0"}

	// WHEN the inventory is requested
	rec := env.serve(t, handler, httptest.NewRequest(http.MethodGet, "/inventory.html", nil), "standard_user", cart)

	// THEN six rows render in name order with the cart state reflected
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)

	assert.Equal(t, "Products", doc.Find(".title").Text())
	rows := doc.Find(".inventory_list .inventory_item")
	assert.Equal(t, 6, rows.Length())
	assert.Equal(t, []string{
		"Sauce Labs Backpack",
		"Sauce Labs Bike Light",
		"Sauce Labs Bolt T-Shirt",
		"Sauce Labs Fleece Jacket",
		"Sauce Labs Onesie",
		"Test.allTheThings() T-Shirt (Red)",
	}, texts(doc.Find(".inventory_item_name")))
	assert.Equal(t, []string{"$29.99", "$9.99", "$15.99", "$49.99", "$7.99", "$15.99"}, texts(doc.Find(".inventory_item_price")))

	assert.Equal(t, "2", doc.Find(".shopping_cart_link .shopping_cart_badge").Text())
	assert.Equal(t, 1, doc.Find("button[data-test='remove-sauce-labs-backpack']").Length())
	assert.Equal(t, 1, doc.Find("button[data-test='remove-sauce-labs-bike-light']").Length())
	assert.Equal(t, 4, doc.Find("button[data-test^='add-to-cart']").Length())
	assert.Equal(t, 1, doc.Find("button[data-test='add-to-cart-test.allthethings()-t-shirt-(red)']").Length())

	// every row has exactly one name, price, image and button
	rows.Each(func(i int, row *goquery.Selection) {
		assert.Equal(t, 1, row.Find(".inventory_item_name").Length(), "row %d", i)
		assert.Equal(t, 1, row.Find(".inventory_item_price").Length(), "row %d", i)
		assert.Equal(t, 1, row.Find(".inventory_item_img img").Length(), "row %d", i)
		assert.Equal(t, 1, row.Find("button").Length(), "row %d", i)
	})
	assert.Equal(t, 6, doc.Find("[data-test='inventory-list'] [data-test='inventory-item']").Length())
	assert.Equal(t, 6, doc.Find("[data-test='inventory-item'] [data-test='inventory-item-name']").Length())
	assert.Equal(t, 6, doc.Find("[data-test='inventory-item'] [data-test='inventory-item-price']").Length())

	var options []string
	doc.Find("[data-test='product-sort-container'] option").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("value")
		options = append(options, v)
	})
	assert.Equal(t, []string{"az", "za", "lohi", "hilo"}, options)

	for _, id := range []string{"#react-burger-menu-btn", "#logout_sidebar_link", "#reset_sidebar_link", "#react-burger-cross-btn"} {
		assert.Equal(t, 1, doc.Find(id).Length(), id)
	}
}

func TestInventoryHandler_EmptyCartHasNoBadge(t *testing.T) {
	env := newTestEnv(t)
	handler, err := NewInventoryHandler(env.catalog, zaptest.NewLogger(t))
	require.NoError(t, err)

	rec := env.serve(t, handler, httptest.NewRequest(http.MethodGet, "/inventory.html", nil), "standard_user",
		&http.Cookie{Name: models.CartCookie, Value: "99"})

	doc := parseHTML(t, rec)
	assert.Zero(t, doc.Find(".shopping_cart_badge").Length())
	assert.Equal(t, 6, doc.Find("button[data-test^='add-to-cart']").Length())
}

func TestInventoryHandler_ProblemUserImages(t *testing.T) {
	tests := []struct {
		username   string
		wantBroken bool
	}{
		{"standard_user", false},
		{"problem_user", true},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			env := newTestEnv(t)
			handler, err := NewInventoryHandler(env.catalog, zaptest.NewLogger(t))
			require.NoError(t, err)

			rec := env.serve(t, handler, httptest.NewRequest(http.MethodGet, "/inventory.html", nil), tt.username)

			doc := parseHTML(t, rec)
			doc.Find(".inventory_item_img img").Each(func(_ int, img *goquery.Selection) {
				src, _ := img.Attr("src")
				assert.Equal(t, tt.wantBroken, src == brokenImage, src)
			})
		})
	}
}

func TestInventoryHandler_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	handler, err := NewInventoryHandler(env.catalog, zaptest.NewLogger(t))
	require.NoError(t, err)

	rec := env.serve(t, handler, httptest.NewRequest(http.MethodPost, "/inventory.html", nil), "standard_user")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestImageHandler(t *testing.T) {
	env := newTestEnv(t)
	handler := NewImageHandler(env.catalog)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/static/media/sauce-backpack.svg", http.StatusOK},
		{"/static/media/sl-404.svg", http.StatusNotFound},
		{"/static/media/sauce-backpack.png", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), "Sauce Labs Backpack")
			}
		})
	}
}

func TestStaticHandler_ServesScript(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart-contents")
}
