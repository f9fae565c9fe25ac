// Package authstate persists a logged-in browser storage state so scenarios
// can skip the login form, and refuses to hand out state that no longer works.
package authstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
	"github.com/themizzi/swaglabs-e2e/internal/pages"
	"go.uber.org/zap"
)

// ExpirySkew is how close to expiry a session cookie may be and still count as fresh
const ExpirySkew = 30 * time.Second

// DefaultMaxAge is used when a Cache is built from config without an explicit age
const DefaultMaxAge = time.Hour

// ErrLoginFailed is returned by Save when the credentials do not reach the inventory
var ErrLoginFailed = errors.New("login did not reach the inventory page")

// Opener creates isolated browser contexts. playwright.Browser satisfies it.
type Opener interface {
	NewContext(options ...playwright.BrowserNewContextOptions) (playwright.BrowserContext, error)
}

// Credentials are the account the state is recorded for
type Credentials struct {
	Username string
	Password string
}

// Cookie is one cookie of a storage state document
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// State is a validated storage state
type State struct {
	Path    string
	SavedAt time.Time
	Cookies []Cookie
	Origins []json.RawMessage
	Session Cookie
}

// SessionExpiry returns when the session cookie expires; the zero time means
// it lasts for the browser session.
func (s *State) SessionExpiry() time.Time {
	if s.Session.Expires <= 0 {
		return time.Time{}
	}
	return unixFloat(s.Session.Expires)
}

// Cache reads and writes the storage state file for one target
type Cache struct {
	Path          string
	BaseURL       string
	SessionCookie string
	MaxAge        time.Duration // 0 disables the age check
	Clock         func() time.Time
	Logger        *zap.Logger
}

func (c *Cache) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c *Cache) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// Save logs in through a fresh context and writes its storage state to Path.
// A login that does not reach the inventory writes nothing.
func (c *Cache) Save(ctx context.Context, browser Opener, creds Credentials, opts pages.Options) (*State, error) {
	const op = "authstate.Save"
	opts.BaseURL = c.BaseURL

	bctx, err := browser.NewContext()
	if err != nil {
		return nil, errs.Wrap(errs.Engine, op, c.BaseURL, err)
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, errs.Wrap(errs.Engine, op, c.BaseURL, err)
	}

	login := pages.NewLoginPage(page, opts)
	if err := login.Navigate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := login.Login(creds.Username, creds.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ok, err := login.IsLoggedIn()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		msg, _ := login.GetErrorMessage()
		return nil, fmt.Errorf("%s: %w as %s: %s", op, ErrLoginFailed, creds.Username, msg)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err := bctx.StorageState()
	if err != nil {
		return nil, errs.Wrap(errs.Engine, op, c.Path, err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode storage state: %w", op, err)
	}
	if err := writeFile(c.Path, data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.logger().Info("auth state saved", zap.String("path", c.Path), zap.String("username", creds.Username))
	return c.Load()
}

// Load returns the stored state, or a StaleAuthState error when the file is
// missing, corrupt, for another host, expired or older than MaxAge.
func (c *Cache) Load() (*State, error) {
	const op = "authstate.Load"
	stale := func(format string, args ...any) error {
		return errs.Wrap(errs.StaleAuthState, op, c.Path, fmt.Errorf(format, args...))
	}

	info, err := os.Stat(c.Path)
	if err != nil {
		return nil, errs.Wrap(errs.StaleAuthState, op, c.Path, err)
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, errs.Wrap(errs.StaleAuthState, op, c.Path, err)
	}

	var doc struct {
		Cookies *[]Cookie         `json:"cookies"`
		Origins []json.RawMessage `json:"origins"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, stale("corrupt storage state: %w", err)
	}
	if doc.Cookies == nil {
		return nil, stale("storage state has no cookies array")
	}

	now := c.now()
	if c.MaxAge > 0 && now.Sub(info.ModTime()) > c.MaxAge {
		return nil, stale("saved %s ago, older than %s", now.Sub(info.ModTime()).Round(time.Second), c.MaxAge)
	}

	host, err := hostOf(c.BaseURL)
	if err != nil {
		return nil, err
	}

	state := &State{Path: c.Path, SavedAt: info.ModTime(), Cookies: *doc.Cookies, Origins: doc.Origins}
	found := false
	for _, ck := range state.Cookies {
		if ck.Name == c.SessionCookie {
			state.Session = ck
			found = true
			break
		}
	}
	if !found {
		return nil, stale("session cookie %q not present", c.SessionCookie)
	}
	if !domainMatches(state.Session.Domain, host) {
		return nil, stale("session cookie domain %q does not match %s", state.Session.Domain, host)
	}
	if state.Session.Expires > 0 && !unixFloat(state.Session.Expires).After(now.Add(ExpirySkew)) {
		return nil, stale("session cookie expired at %s", unixFloat(state.Session.Expires).UTC().Format(time.RFC3339))
	}

	return state, nil
}

// ContextOptions returns context options that restore the cached state
func (s *State) ContextOptions() playwright.BrowserNewContextOptions {
	return playwright.BrowserNewContextOptions{StorageStatePath: playwright.String(s.Path)}
}

func hostOf(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("invalid base URL %q", baseURL)
	}
	return strings.ToLower(u.Hostname()), nil
}

func domainMatches(domain, host string) bool {
	d := strings.ToLower(strings.TrimPrefix(domain, "."))
	return d == host || strings.HasSuffix(host, "."+d)
}

func unixFloat(secs float64) time.Time {
	whole := int64(secs)
	return time.Unix(whole, int64((secs-float64(whole))*float64(time.Second)))
}

// writeFile replaces path atomically with owner-only permissions
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create auth state directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".auth-*.json")
	if err != nil {
		return fmt.Errorf("failed to create auth state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write auth state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set auth state permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write auth state: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
