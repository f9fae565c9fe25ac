package e2e

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/swaglabs-e2e/internal/pages"
	"github.com/themizzi/swaglabs-e2e/internal/tags"
)

// TestProductsListing
// Feature: Products
//
//	Scenario: The inventory lists the catalog
//	  Given I am logged in
//	  When I view the inventory
//	  Then I should see 6 products titled "Products"
//	  And every product should have a dollar price
func TestProductsListing(t *testing.T) {
	tags.Require(t, tags.Smoke, tags.E2E)

	s := shopperSession(t)

	title, err := s.Products.GetTitle()
	must(t, "ProductsPage.GetTitle", err)
	assert.Equal(t, "Products", title)

	count, err := s.Products.GetProductCount()
	must(t, "ProductsPage.GetProductCount", err)
	assert.Equal(t, 6, count)

	prices, err := s.Products.GetAllProductPrices()
	must(t, "ProductsPage.GetAllProductPrices", err)
	require.Len(t, prices, 6)
	for _, p := range prices {
		assert.Greater(t, p, 0.0)
	}

	price, err := s.Products.GetProductPrice(backpack)
	must(t, "ProductsPage.GetProductPrice", err)
	assert.Equal(t, 29.99, price)
}

// TestProductsSort
// Feature: Products
//
//	Scenario Outline: Sorting reorders the inventory
//	  Given I am on the inventory page
//	  When I sort by "<option>"
//	  Then names or prices should be in "<option>" order
func TestProductsSort(t *testing.T) {
	tags.Require(t, tags.E2E)

	tests := []struct {
		option pages.SortOption
		check  func(t *testing.T, names []string, prices []float64)
	}{
		{pages.SortNameAZ, func(t *testing.T, names []string, _ []float64) {
			assert.True(t, sort.StringsAreSorted(names), "names not ascending: %v", names)
		}},
		{pages.SortNameZA, func(t *testing.T, names []string, _ []float64) {
			assert.True(t, sort.SliceIsSorted(names, func(i, j int) bool { return names[i] > names[j] }), "names not descending: %v", names)
		}},
		{pages.SortPriceLowHigh, func(t *testing.T, _ []string, prices []float64) {
			assert.True(t, sort.Float64sAreSorted(prices), "prices not ascending: %v", prices)
		}},
		{pages.SortPriceHighLow, func(t *testing.T, _ []string, prices []float64) {
			assert.True(t, sort.SliceIsSorted(prices, func(i, j int) bool { return prices[i] > prices[j] }), "prices not descending: %v", prices)
		}},
	}

	s := shopperSession(t)
	for _, tt := range tests {
		t.Run(string(tt.option), func(t *testing.T) {
			must(t, "ProductsPage.SortProducts", s.Products.SortProducts(tt.option))

			names, err := s.Products.GetAllProductNames()
			must(t, "ProductsPage.GetAllProductNames", err)
			prices, err := s.Products.GetAllProductPrices()
			must(t, "ProductsPage.GetAllProductPrices", err)
			require.Len(t, names, 6)
			tt.check(t, names, prices)
		})
	}

	// Sorting by Z to A puts the red T-shirt first
	must(t, "ProductsPage.SortProducts", s.Products.SortProducts(pages.SortNameZA))
	names, err := s.Products.GetAllProductNames()
	must(t, "ProductsPage.GetAllProductNames", err)
	assert.Equal(t, redTShirt, names[0])
}

// TestProductsNavigateIsIdempotent
// Feature: Products
//
//	Scenario: Loading the inventory twice changes nothing
//	  Given I have one product in my cart
//	  When I navigate to the inventory twice
//	  Then I should see the same products and cart count as after one load
func TestProductsNavigateIsIdempotent(t *testing.T) {
	tags.Require(t, tags.E2E)

	s := shopperSession(t)
	must(t, "ProductsPage.AddProductToCart", s.Products.AddProductToCart(onesie))

	must(t, "ProductsPage.Navigate", s.Products.Navigate())
	onceNames, err := s.Products.GetAllProductNames()
	must(t, "ProductsPage.GetAllProductNames", err)
	onceCount, err := s.Products.GetCartCount()
	must(t, "ProductsPage.GetCartCount", err)

	must(t, "ProductsPage.Navigate", s.Products.Navigate())
	twiceNames, err := s.Products.GetAllProductNames()
	must(t, "ProductsPage.GetAllProductNames", err)
	twiceCount, err := s.Products.GetCartCount()
	must(t, "ProductsPage.GetCartCount", err)

	assert.Equal(t, onceNames, twiceNames)
	assert.Equal(t, 1, onceCount)
	assert.Equal(t, onceCount, twiceCount)
}

// TestProductsProblemUserImages
// Feature: Products
//
//	Scenario: problem_user sees broken product images
//	  Given I am logged in as "problem_user"
//	  Then every product image should be the broken placeholder
func TestProductsProblemUserImages(t *testing.T) {
	tags.Require(t, tags.E2E)

	s := loggedIn(t, problemUser)

	srcs, err := s.Products.GetImageSources()
	must(t, "ProductsPage.GetImageSources", err)
	require.Len(t, srcs, 6)
	for _, src := range srcs {
		assert.True(t, strings.Contains(src, "sl-404"), "expected broken image, got %s", src)
	}
}

// TestProductsResetAppState
// Feature: Products
//
//	Scenario: Reset App State empties the cart
//	  Given I have two products in my cart
//	  When I reset the app state from the menu
//	  Then the cart badge should disappear
func TestProductsResetAppState(t *testing.T) {
	tags.Require(t, tags.E2E)

	s := shopperSession(t)
	must(t, "ProductsPage.AddProductToCart", s.Products.AddProductToCart(backpack))
	must(t, "ProductsPage.AddProductToCart", s.Products.AddProductToCart(bikeLight))

	must(t, "ProductsPage.ResetAppState", s.Products.ResetAppState())

	count, err := s.Products.GetCartCount()
	must(t, "ProductsPage.GetCartCount", err)
	assert.Equal(t, 0, count)
}
