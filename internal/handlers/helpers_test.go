package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/swaglabs-e2e/internal/metrics"
	"github.com/themizzi/swaglabs-e2e/internal/models"
	"github.com/themizzi/swaglabs-e2e/internal/repository"
	"github.com/themizzi/swaglabs-e2e/internal/repository/testutil"
	"github.com/themizzi/swaglabs-e2e/internal/services"
	"go.uber.org/zap/zaptest"
)

// testEnv wires real services over a private sqlite store
type testEnv struct {
	catalog  *models.Catalog
	auth     services.AuthService
	orders   services.OrderService
	sessions *Sessions
	metrics  *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)

	catalog, err := models.LoadCatalog()
	require.NoError(t, err)

	db := testutil.SetupSQLiteDatabase(t)
	t.Cleanup(func() { db.Teardown(t) })

	auth := services.NewAuthService(catalog, 0, logger)
	return &testEnv{
		catalog:  catalog,
		auth:     auth,
		orders:   services.NewOrderService(repository.NewOrderRepository(db.DB, db.Driver), catalog, logger),
		sessions: NewSessions(auth, time.Minute, logger),
		metrics:  metrics.New(),
	}
}

// serve runs h behind the session middleware as username with the given cookies
func (e *testEnv) serve(t *testing.T, h http.Handler, req *http.Request, username string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if username != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: username})
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.sessions.Require(h).ServeHTTP(rec, req)
	return rec
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func texts(sel *goquery.Selection) []string {
	return sel.Map(func(_ int, s *goquery.Selection) string { return strings.TrimSpace(s.Text()) })
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
