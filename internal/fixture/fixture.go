// Package fixture owns the browser engine for a test binary and hands each
// scenario an isolated session whose release is tied to the test's cleanup.
package fixture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/authstate"
	"github.com/themizzi/swaglabs-e2e/internal/config"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
	"github.com/themizzi/swaglabs-e2e/internal/pages"
	"go.uber.org/zap"
)

// SessionCookie is the cookie the storefront keeps the logged-in user in
const SessionCookie = "session-username"

// TestIDAttribute is the attribute the storefront tags elements with
const TestIDAttribute = "data-test"

// Provider runs the engine and one launched browser
type Provider struct {
	cfg     *config.SuiteConfig
	logger  *zap.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewProvider starts Playwright and launches the configured browser
func NewProvider(cfg *config.SuiteConfig, logger *zap.Logger) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("fixture: suite config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, errs.Wrap(errs.Engine, "fixture.NewProvider", "playwright", err)
	}
	pw.Selectors.SetTestIdAttribute(TestIDAttribute)

	var browserType playwright.BrowserType
	switch cfg.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		pw.Stop()
		return nil, errs.Wrap(errs.Engine, "fixture.NewProvider", cfg.Browser, err)
	}

	logger.Info("browser launched",
		zap.String("browser", cfg.Browser),
		zap.String("version", browser.Version()),
		zap.Bool("headless", cfg.Headless),
		zap.String("base_url", cfg.BaseURL))

	return &Provider{cfg: cfg, logger: logger, pw: pw, browser: browser}, nil
}

// Config returns the suite configuration the provider was built from
func (p *Provider) Config() *config.SuiteConfig { return p.cfg }

// Browser returns the launched browser
func (p *Provider) Browser() playwright.Browser { return p.browser }

// Close closes the browser and stops Playwright
func (p *Provider) Close() error {
	var firstErr error
	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			firstErr = err
		}
	}
	if p.pw != nil {
		if err := p.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PageOptions returns the timeouts and base URL every page object is built with
func (p *Provider) PageOptions() pages.Options {
	return pageOptions(p.cfg)
}

func pageOptions(cfg *config.SuiteConfig) pages.Options {
	return pages.Options{
		BaseURL:           cfg.BaseURL,
		ActionTimeout:     cfg.ActionTimeout,
		NavigationTimeout: cfg.NavigationTimeout,
		ExpectTimeout:     cfg.ExpectTimeout,
	}
}

// AuthCache returns the auth state cache for the configured target
func (p *Provider) AuthCache() *authstate.Cache {
	return NewAuthCache(p.cfg, p.logger)
}

// NewAuthCache returns the auth state cache for cfg's target and user
func NewAuthCache(cfg *config.SuiteConfig, logger *zap.Logger) *authstate.Cache {
	return &authstate.Cache{
		Path:          cfg.AuthStatePath,
		BaseURL:       cfg.BaseURL,
		SessionCookie: SessionCookie,
		MaxAge:        cfg.AuthMaxAge,
		Logger:        logger,
	}
}

// SaveAuthState logs in as the configured user and writes the storage state
func (p *Provider) SaveAuthState(ctx context.Context) (*authstate.State, error) {
	creds := authstate.Credentials{Username: p.cfg.Username, Password: p.cfg.Password}
	return p.AuthCache().Save(ctx, p.browser, creds, p.PageOptions())
}

// Session is one isolated browser context with a page and its page objects
type Session struct {
	Context  playwright.BrowserContext
	Page     playwright.Page
	Login    *pages.LoginPage
	Products *pages.ProductsPage
	Cart     *pages.CartPage
	Checkout *pages.CheckoutPage
}

// URL returns the page's current URL
func (s *Session) URL() string { return s.Page.URL() }

// NewSession opens a context and page. Everything it acquires is released
// through t.Cleanup, so teardown also runs after t.FailNow.
func (p *Provider) NewSession(t testing.TB, opts SessionOptions) *Session {
	t.Helper()

	if err := opts.Validate(p.pw.Devices); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	bctx, err := p.browser.NewContext(opts.contextOptions(p.cfg, p.pw.Devices))
	if err != nil {
		t.Fatalf("NewSession: create browser context: %v", err)
	}
	bctx.SetDefaultTimeout(float64(p.cfg.ActionTimeout.Milliseconds()))
	bctx.SetDefaultNavigationTimeout(float64(p.cfg.NavigationTimeout.Milliseconds()))

	tracing := p.cfg.Trace != config.TraceOff
	if tracing {
		if err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Name:        playwright.String(t.Name()),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		}); err != nil {
			bctx.Close()
			t.Fatalf("NewSession: start tracing: %v", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		t.Fatalf("NewSession: create page: %v", err)
	}

	t.Cleanup(func() {
		if tracing {
			p.stopTrace(t, bctx)
		}
		var video playwright.Video
		if opts.RecordVideo || p.cfg.Video {
			video = page.Video()
		}
		if err := page.Close(); err != nil {
			p.logger.Warn("close page", zap.String("test", t.Name()), zap.Error(err))
		}
		if err := bctx.Close(); err != nil {
			p.logger.Warn("close browser context", zap.String("test", t.Name()), zap.Error(err))
		}
		if video != nil {
			if path, err := video.Path(); err == nil {
				p.logger.Info("video recorded", zap.String("test", t.Name()), zap.String("path", path))
			}
		}
	})

	po := p.PageOptions()
	return &Session{
		Context:  bctx,
		Page:     page,
		Login:    pages.NewLoginPage(page, po),
		Products: pages.NewProductsPage(page, po),
		Cart:     pages.NewCartPage(page, po),
		Checkout: pages.NewCheckoutPage(page, po),
	}
}

// stopTrace saves the trace when the mode asks for it and discards it otherwise
func (p *Provider) stopTrace(t testing.TB, bctx playwright.BrowserContext) {
	if !keepTrace(p.cfg.Trace, t.Failed()) {
		if err := bctx.Tracing().Stop(); err != nil {
			p.logger.Warn("stop tracing", zap.String("test", t.Name()), zap.Error(err))
		}
		return
	}

	if err := os.MkdirAll(p.cfg.ResultsDir, 0o755); err != nil {
		p.logger.Warn("create results dir", zap.String("dir", p.cfg.ResultsDir), zap.Error(err))
		return
	}
	path := filepath.Join(p.cfg.ResultsDir, traceName(t.Name()))
	if err := bctx.Tracing().Stop(path); err != nil {
		p.logger.Warn("save trace", zap.String("test", t.Name()), zap.Error(err))
		return
	}
	p.logger.Info("trace saved", zap.String("test", t.Name()), zap.String("path", path))
}

func keepTrace(mode string, failed bool) bool {
	switch mode {
	case config.TraceOn:
		return true
	case config.TraceOnFailure:
		return failed
	}
	return false
}

// AuthenticatedSession opens a session with the cached storage state. A stale
// or missing state fails the test; it never falls back to a logged out session.
func (p *Provider) AuthenticatedSession(t testing.TB, cache *authstate.Cache, opts SessionOptions) *Session {
	t.Helper()

	state, err := cache.Load()
	if err != nil {
		t.Fatalf("AuthenticatedSession: %v (run `swaglabs save-auth` to refresh it)", err)
	}
	opts.StorageStatePath = state.Path
	return p.NewSession(t, opts)
}

// LoggedInSession opens a session and logs in through the login form
func (p *Provider) LoggedInSession(t testing.TB, username string, opts SessionOptions) *Session {
	t.Helper()

	s := p.NewSession(t, opts)
	if err := s.Login.Navigate(); err != nil {
		t.Fatalf("LoginPage.Navigate: %v", err)
	}
	if err := s.Login.Login(username, p.cfg.Password); err != nil {
		t.Fatalf("LoginPage.Login(%s): %v", username, err)
	}
	ok, err := s.Login.IsLoggedIn()
	if err != nil {
		t.Fatalf("LoginPage.IsLoggedIn: %v", err)
	}
	if !ok {
		msg, _ := s.Login.GetErrorMessage()
		t.Fatalf("LoggedInSession: %s did not reach the inventory: %s", username, msg)
	}
	return s
}

// APIRequest returns a request context bound to the base URL, disposed at cleanup
func (p *Provider) APIRequest(t testing.TB) playwright.APIRequestContext {
	t.Helper()

	req, err := p.pw.Request.NewContext(playwright.APIRequestNewContextOptions{
		BaseURL: playwright.String(p.cfg.BaseURL),
		Timeout: playwright.Float(float64(p.cfg.ActionTimeout.Milliseconds())),
	})
	if err != nil {
		t.Fatalf("APIRequest: %v", err)
	}
	t.Cleanup(func() {
		if err := req.Dispose(); err != nil {
			p.logger.Warn("dispose request context", zap.String("test", t.Name()), zap.Error(err))
		}
	})
	return req
}
