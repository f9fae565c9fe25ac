package fixture

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/config"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
)

// Geolocation is a position reported to pages that were granted the
// geolocation permission
type Geolocation struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// SessionOptions are the recognized browser context options. The zero value
// opens a desktop context at the configured viewport.
type SessionOptions struct {
	Device           string // Playwright device descriptor name, e.g. "iPhone 12"
	Viewport         *config.Viewport
	Geolocation      *Geolocation
	Permissions      []string
	StorageStatePath string
	RecordVideo      bool
	Locale           string
	ColorScheme      string // light, dark or no-preference
}

// KnownPermissions are the permission names browser contexts accept
var KnownPermissions = []string{
	"accelerometer",
	"accessibility-events",
	"ambient-light-sensor",
	"background-sync",
	"camera",
	"clipboard-read",
	"clipboard-write",
	"geolocation",
	"gyroscope",
	"magnetometer",
	"microphone",
	"midi",
	"midi-sysex",
	"notifications",
	"payment-handler",
	"storage-access",
}

// Validate checks the options against the device descriptors the engine knows
func (o SessionOptions) Validate(devices map[string]*playwright.DeviceDescriptor) error {
	const op = "fixture.SessionOptions"

	if o.Device != "" {
		if _, ok := devices[o.Device]; !ok {
			return errs.Newf(errs.InvalidOption, op, "unknown device %q", o.Device)
		}
	}
	if o.Viewport != nil && (o.Viewport.Width <= 0 || o.Viewport.Height <= 0) {
		return errs.Newf(errs.InvalidOption, op, "viewport must be positive, got %dx%d", o.Viewport.Width, o.Viewport.Height)
	}
	if g := o.Geolocation; g != nil {
		if g.Latitude < -90 || g.Latitude > 90 {
			return errs.Newf(errs.InvalidOption, op, "latitude %v out of range [-90, 90]", g.Latitude)
		}
		if g.Longitude < -180 || g.Longitude > 180 {
			return errs.Newf(errs.InvalidOption, op, "longitude %v out of range [-180, 180]", g.Longitude)
		}
		if g.Accuracy < 0 {
			return errs.Newf(errs.InvalidOption, op, "accuracy %v cannot be negative", g.Accuracy)
		}
	}
	for _, p := range o.Permissions {
		i := sort.SearchStrings(KnownPermissions, p)
		if i == len(KnownPermissions) || KnownPermissions[i] != p {
			return errs.Newf(errs.InvalidOption, op, "unknown permission %q", p)
		}
	}
	switch o.ColorScheme {
	case "", "light", "dark", "no-preference":
	default:
		return errs.Newf(errs.InvalidOption, op, "unknown color scheme %q", o.ColorScheme)
	}
	return nil
}

// contextOptions maps validated options onto engine context options. Device
// descriptors win over the configured viewport; an explicit Viewport wins
// over both.
func (o SessionOptions) contextOptions(cfg *config.SuiteConfig, devices map[string]*playwright.DeviceDescriptor) playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		BaseURL:  playwright.String(cfg.BaseURL),
		Viewport: &playwright.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
	}

	if d, ok := devices[o.Device]; ok && o.Device != "" {
		opts.UserAgent = playwright.String(d.UserAgent)
		opts.Viewport = d.Viewport
		opts.Screen = d.Screen
		opts.DeviceScaleFactor = playwright.Float(d.DeviceScaleFactor)
		opts.IsMobile = playwright.Bool(d.IsMobile)
		opts.HasTouch = playwright.Bool(d.HasTouch)
	}
	if o.Viewport != nil {
		opts.Viewport = &playwright.Size{Width: o.Viewport.Width, Height: o.Viewport.Height}
	}
	if g := o.Geolocation; g != nil {
		opts.Geolocation = &playwright.Geolocation{Latitude: g.Latitude, Longitude: g.Longitude}
		if g.Accuracy > 0 {
			opts.Geolocation.Accuracy = playwright.Float(g.Accuracy)
		}
	}
	if len(o.Permissions) > 0 {
		opts.Permissions = append([]string(nil), o.Permissions...)
	}
	if o.StorageStatePath != "" {
		opts.StorageStatePath = playwright.String(o.StorageStatePath)
	}
	if o.RecordVideo || cfg.Video {
		opts.RecordVideo = &playwright.RecordVideo{Dir: filepath.Join(cfg.ResultsDir, "videos")}
	}
	if o.Locale != "" {
		opts.Locale = playwright.String(o.Locale)
	}
	switch o.ColorScheme {
	case "light":
		opts.ColorScheme = playwright.ColorSchemeLight
	case "dark":
		opts.ColorScheme = playwright.ColorSchemeDark
	case "no-preference":
		opts.ColorScheme = playwright.ColorSchemeNoPreference
	}
	return opts
}

// traceName turns a test name into a file name safe on every platform
func traceName(testName string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return fmt.Sprintf("trace-%s.zip", r.Replace(testName))
}
