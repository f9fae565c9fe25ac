package e2e

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/themizzi/swaglabs-e2e/internal/cli"
	"github.com/themizzi/swaglabs-e2e/internal/config"
	"github.com/themizzi/swaglabs-e2e/internal/fixture"
	"github.com/themizzi/swaglabs-e2e/internal/logging"
	"go.uber.org/zap"
)

// Seeded storefront accounts
const (
	standardUser    = "standard_user"
	lockedOutUser   = "locked_out_user"
	problemUser     = "problem_user"
	glitchUser      = "performance_glitch_user"
	correctPassword = "secret_sauce"
)

// Catalog product names
const (
	backpack     = "Sauce Labs Backpack"
	bikeLight    = "Sauce Labs Bike Light"
	boltTShirt   = "Sauce Labs Bolt T-Shirt"
	fleeceJacket = "Sauce Labs Fleece Jacket"
	onesie       = "Sauce Labs Onesie"
	redTShirt    = "Test.allTheThings() T-Shirt (Red)"
)

var (
	provider   *fixture.Provider
	suiteCfg   *config.SuiteConfig
	logger     *zap.Logger
	skipReason string
)

// TestMain starts the storefront (unless E2E_BASE_URL targets another
// deployment), launches the browser and records the shared auth state
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	// Load environment variables from .env file
	_ = godotenv.Load("../.env")

	logCfg, err := config.LoadLoggerConfig(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e: %v\n", err)
		return 1
	}
	logger = logging.New(logCfg)
	defer logger.Sync()

	suiteCfg, err = config.LoadSuiteConfig(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e: %v\n", err)
		return 1
	}

	tmp, err := os.MkdirTemp("", "swaglabs-e2e-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e: %v\n", err)
		return 1
	}
	defer os.RemoveAll(tmp)

	if os.Getenv("E2E_BASE_URL") == "" {
		ts, closeStore, err := startStorefront()
		if err != nil {
			fmt.Fprintf(os.Stderr, "e2e: %v\n", err)
			return 1
		}
		defer closeStore()
		defer ts.Close()

		suiteCfg.BaseURL = ts.URL
		suiteCfg.AuthStatePath = filepath.Join(tmp, "auth.json")
		logger.Info("local storefront started", zap.String("url", ts.URL))
	}

	provider, err = fixture.NewProvider(suiteCfg, logger)
	if err != nil {
		skipReason = fmt.Sprintf("Playwright not available: %v", err)
		logger.Warn("browser scenarios will be skipped", zap.Error(err))
		return m.Run()
	}
	defer provider.Close()

	if _, err := provider.AuthCache().Load(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if _, err := provider.SaveAuthState(ctx); err != nil {
			logger.Warn("could not record auth state", zap.Error(err))
		}
		cancel()
	}

	return m.Run()
}

func startStorefront() (*httptest.Server, func(), error) {
	store := &config.StoreConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano()),
	}
	server := config.ServerConfig{
		GlitchDelay: 1500 * time.Millisecond,
		SessionTTL:  10 * time.Minute,
	}

	storefront, err := cli.NewStorefront(store, server, logger)
	if err != nil {
		return nil, nil, err
	}
	return httptest.NewServer(storefront.Handler), func() { storefront.Close() }, nil
}

// browser skips the scenario when no browser could be launched
func browser(t *testing.T) *fixture.Provider {
	t.Helper()
	if provider == nil {
		t.Skip(skipReason)
	}
	return provider
}

// newSession opens a logged out session on the login page
func newSession(t *testing.T) *fixture.Session {
	t.Helper()
	s := browser(t).NewSession(t, fixture.SessionOptions{})
	if err := s.Login.Navigate(); err != nil {
		t.Fatalf("LoginPage.Navigate: %v", err)
	}
	return s
}

// shopperSession opens a session with the recorded auth state, on the inventory
func shopperSession(t *testing.T) *fixture.Session {
	t.Helper()
	p := browser(t)
	s := p.AuthenticatedSession(t, p.AuthCache(), fixture.SessionOptions{})
	if err := s.Products.Navigate(); err != nil {
		t.Fatalf("ProductsPage.Navigate: %v", err)
	}
	return s
}

// must fails the scenario when an operation errors, naming the operation
func must(t *testing.T, op string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", op, err)
	}
}

// loggedIn opens a session logged in through the form as username
func loggedIn(t *testing.T, username string) *fixture.Session {
	t.Helper()
	return browser(t).LoggedInSession(t, username, fixture.SessionOptions{})
}
