package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/themizzi/swaglabs-e2e/internal/config"
	"github.com/themizzi/swaglabs-e2e/internal/fixture"
	"github.com/themizzi/swaglabs-e2e/internal/tags"
)

// TestMobileDevices
// Feature: Mobile
//
//	Scenario Outline: Shopping on an emulated device
//	  Given I am on a "<device>"
//	  When I log in and add a product to the cart
//	  Then the cart badge should show 1
//	  And the page should report a touch capable viewport
func TestMobileDevices(t *testing.T) {
	tags.Require(t, tags.Mobile)

	for _, device := range []string{"iPhone 12", "iPad Pro 11", "Pixel 5"} {
		t.Run(device, func(t *testing.T) {
			s := browser(t).NewSession(t, fixture.SessionOptions{Device: device})
			must(t, "LoginPage.Navigate", s.Login.Navigate())
			must(t, "LoginPage.Login", s.Login.Login(standardUser, correctPassword))
			ok, err := s.Login.IsLoggedIn()
			must(t, "LoginPage.IsLoggedIn", err)
			assert.True(t, ok)

			must(t, "ProductsPage.AddFirstProductToCart", s.Products.AddFirstProductToCart())
			count, err := s.Products.GetCartCount()
			must(t, "ProductsPage.GetCartCount", err)
			assert.Equal(t, 1, count)

			touch, err := s.Page.Evaluate(`() => navigator.maxTouchPoints > 0`)
			must(t, "Page.Evaluate(maxTouchPoints)", err)
			assert.Equal(t, true, touch)

			size := s.Page.ViewportSize()
			assert.Less(t, size.Width, 1280, "device viewport should replace the desktop one")
		})
	}
}

// TestMobileNarrowViewport
// Feature: Mobile
//
//	Scenario: The inventory renders in a narrow window
//	  Given a 375x667 viewport
//	  Then all six products should still be listed
func TestMobileNarrowViewport(t *testing.T) {
	tags.Require(t, tags.Mobile)

	p := browser(t)
	s := p.AuthenticatedSession(t, p.AuthCache(), fixture.SessionOptions{
		Viewport: &config.Viewport{Width: 375, Height: 667},
	})
	must(t, "ProductsPage.Navigate", s.Products.Navigate())

	count, err := s.Products.GetProductCount()
	must(t, "ProductsPage.GetProductCount", err)
	assert.Equal(t, 6, count)
	assert.Equal(t, 375, s.Page.ViewportSize().Width)
}
