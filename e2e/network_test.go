package e2e

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/swaglabs-e2e/internal/fixture"
	"github.com/themizzi/swaglabs-e2e/internal/netmock"
	"github.com/themizzi/swaglabs-e2e/internal/tags"
)

// TestNetworkRequestLog
// Feature: Network
//
//	Scenario: Loading the inventory issues successful requests
//	  Given I record network traffic
//	  When I open the inventory
//	  Then the document, script and images should load without failures
func TestNetworkRequestLog(t *testing.T) {
	tags.Require(t, tags.Network)

	p := browser(t)
	s := p.AuthenticatedSession(t, p.AuthCache(), fixture.SessionOptions{})
	log := netmock.Record(s.Page)

	must(t, "ProductsPage.Navigate", s.Products.Navigate())
	must(t, "Page.WaitForLoadState", s.Page.WaitForLoadState())

	assert.NotEmpty(t, log.Matching("/inventory.html"), "document request missing")
	assert.NotEmpty(t, log.OfType("script"), "script request missing")
	assert.NotEmpty(t, log.OfType("image"), "image requests missing")
	for _, e := range log.Failed() {
		if !strings.HasSuffix(e.URL, "/favicon.ico") {
			t.Errorf("request failed: %s %s -> %d", e.Method, e.URL, e.Status)
		}
	}
}

// TestNetworkBlockImages
// Feature: Network
//
//	Scenario: The inventory works with images blocked
//	  Given image requests are aborted
//	  When I open the inventory
//	  Then the products should still be listed
//	  And at least one image request should have been blocked
func TestNetworkBlockImages(t *testing.T) {
	tags.Require(t, tags.Network)

	p := browser(t)
	s := p.AuthenticatedSession(t, p.AuthCache(), fixture.SessionOptions{})
	blocked, err := netmock.BlockResources(s.Page, "image")
	must(t, "netmock.BlockResources", err)

	must(t, "ProductsPage.Navigate", s.Products.Navigate())

	count, err := s.Products.GetProductCount()
	must(t, "ProductsPage.GetProductCount", err)
	assert.Equal(t, 6, count)
	assert.Positive(t, blocked.Count())
}

// TestNetworkMockedAPI
// Feature: Network
//
//	Scenario: A mocked inventory endpoint is served to the page
//	  Given "/api/inventory" is mocked with a single product
//	  When the page fetches the inventory
//	  Then it should receive the mocked product
func TestNetworkMockedAPI(t *testing.T) {
	tags.Require(t, tags.Network)

	s := newSession(t)
	mocked := []map[string]any{{"id": 99, "name": "Mocked Product", "priceCents": 100}}
	must(t, "netmock.MockJSON", netmock.MockJSON(s.Page, "**/api/inventory", http.StatusOK, mocked))

	v, err := s.Page.Evaluate(`async () => {
		const r = await fetch('/api/inventory');
		return { status: r.status, body: await r.json() };
	}`)
	must(t, "Page.Evaluate(fetch)", err)

	res, ok := v.(map[string]interface{})
	require.True(t, ok, "unexpected result %T", v)
	assert.EqualValues(t, http.StatusOK, res["status"])
	body, ok := res["body"].([]interface{})
	require.True(t, ok, "unexpected body %T", res["body"])
	require.Len(t, body, 1)
	assert.Equal(t, "Mocked Product", body[0].(map[string]interface{})["name"])
}
