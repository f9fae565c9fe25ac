package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Trace modes
const (
	TraceOff       = "off"
	TraceOn        = "on"
	TraceOnFailure = "on-failure"
)

// Viewport is a browser window size in CSS pixels
type Viewport struct {
	Width  int
	Height int
}

// SuiteConfig holds everything the browser suite needs to open sessions
// against a target storefront. It is loaded once and passed explicitly.
type SuiteConfig struct {
	BaseURL           string
	Browser           string
	Headless          bool
	SlowMo            time.Duration
	ActionTimeout     time.Duration
	NavigationTimeout time.Duration
	ExpectTimeout     time.Duration
	Viewport          Viewport
	Device            string
	Username          string
	Password          string
	AuthStatePath     string
	AuthMaxAge        time.Duration
	ResultsDir        string
	Trace             string
	Video             bool
	BaselineDir       string
	UpdateBaselines   bool
	Tags              []string
	SkipTags          []string
}

// DefaultSuiteConfig returns the configuration used when no variables are set
func DefaultSuiteConfig() SuiteConfig {
	return SuiteConfig{
		BaseURL:           "http://localhost:8080",
		Browser:           "chromium",
		Headless:          true,
		ActionTimeout:     30 * time.Second,
		NavigationTimeout: 30 * time.Second,
		ExpectTimeout:     5 * time.Second,
		Viewport:          Viewport{Width: 1280, Height: 720},
		Username:          "standard_user",
		Password:          "secret_sauce",
		AuthStatePath:     ".auth/auth.json",
		AuthMaxAge:        time.Hour,
		ResultsDir:        "test-results",
		Trace:             TraceOnFailure,
		BaselineDir:       "testdata/baselines",
	}
}

// LoadSuiteConfig loads the suite configuration from E2E_* environment variables
func LoadSuiteConfig(getenv func(string) string) (*SuiteConfig, error) {
	cfg := DefaultSuiteConfig()

	if v := getenv("E2E_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimSuffix(v, "/")
	}
	if v := getenv("E2E_BROWSER"); v != "" {
		cfg.Browser = strings.ToLower(v)
	}
	if v := getenv("E2E_DEVICE"); v != "" {
		cfg.Device = v
	}
	if v := getenv("E2E_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := getenv("E2E_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := getenv("E2E_AUTH_STATE"); v != "" {
		cfg.AuthStatePath = v
	}
	if v := getenv("E2E_RESULTS_DIR"); v != "" {
		cfg.ResultsDir = v
	}
	if v := getenv("E2E_TRACE"); v != "" {
		cfg.Trace = strings.ToLower(v)
	}
	if v := getenv("E2E_BASELINE_DIR"); v != "" {
		cfg.BaselineDir = v
	}
	cfg.Tags = splitList(getenv("E2E_TAGS"))
	cfg.SkipTags = splitList(getenv("E2E_SKIP_TAGS"))

	var err error
	if cfg.Headless, err = parseBool("E2E_HEADLESS", getenv("E2E_HEADLESS"), cfg.Headless); err != nil {
		return nil, err
	}
	if cfg.Video, err = parseBool("E2E_VIDEO", getenv("E2E_VIDEO"), cfg.Video); err != nil {
		return nil, err
	}
	if cfg.UpdateBaselines, err = parseBool("E2E_UPDATE_BASELINES", getenv("E2E_UPDATE_BASELINES"), cfg.UpdateBaselines); err != nil {
		return nil, err
	}
	if cfg.SlowMo, err = parseDuration("E2E_SLOW_MO", getenv("E2E_SLOW_MO"), cfg.SlowMo); err != nil {
		return nil, err
	}
	if cfg.ActionTimeout, err = parseDuration("E2E_TIMEOUT", getenv("E2E_TIMEOUT"), cfg.ActionTimeout); err != nil {
		return nil, err
	}
	if cfg.NavigationTimeout, err = parseDuration("E2E_NAVIGATION_TIMEOUT", getenv("E2E_NAVIGATION_TIMEOUT"), cfg.NavigationTimeout); err != nil {
		return nil, err
	}
	if cfg.ExpectTimeout, err = parseDuration("E2E_EXPECT_TIMEOUT", getenv("E2E_EXPECT_TIMEOUT"), cfg.ExpectTimeout); err != nil {
		return nil, err
	}
	if cfg.AuthMaxAge, err = parseDuration("E2E_AUTH_MAX_AGE", getenv("E2E_AUTH_MAX_AGE"), cfg.AuthMaxAge); err != nil {
		return nil, err
	}
	if v := getenv("E2E_VIEWPORT"); v != "" {
		if cfg.Viewport, err = ParseViewport(v); err != nil {
			return nil, fmt.Errorf("E2E_VIEWPORT: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration can be used to open sessions
func (c SuiteConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("E2E_BASE_URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	switch c.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("E2E_BROWSER must be chromium, firefox or webkit, got %q", c.Browser)
	}
	switch c.Trace {
	case TraceOff, TraceOn, TraceOnFailure:
	default:
		return fmt.Errorf("E2E_TRACE must be off, on or on-failure, got %q", c.Trace)
	}
	if c.ActionTimeout <= 0 {
		return fmt.Errorf("E2E_TIMEOUT must be positive")
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("E2E_NAVIGATION_TIMEOUT must be positive")
	}
	if c.ExpectTimeout <= 0 {
		return fmt.Errorf("E2E_EXPECT_TIMEOUT must be positive")
	}
	if c.SlowMo < 0 {
		return fmt.Errorf("E2E_SLOW_MO cannot be negative")
	}
	if c.AuthMaxAge < 0 {
		return fmt.Errorf("E2E_AUTH_MAX_AGE cannot be negative")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.AuthStatePath == "" {
		return fmt.Errorf("E2E_AUTH_STATE cannot be empty")
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("E2E_RESULTS_DIR cannot be empty")
	}
	return nil
}

// ParseViewport parses a WIDTHxHEIGHT string such as "1280x720"
func ParseViewport(s string) (Viewport, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Viewport{}, fmt.Errorf("expected WIDTHxHEIGHT, got %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Viewport{}, fmt.Errorf("invalid width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Viewport{}, fmt.Errorf("invalid height %q", h)
	}
	if width <= 0 || height <= 0 {
		return Viewport{}, fmt.Errorf("viewport must be positive, got %q", s)
	}
	return Viewport{Width: width, Height: height}, nil
}

// parseDuration accepts Go durations ("30s") or bare milliseconds ("30000")
func parseDuration(key, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func parseBool(key, raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
