// Package pages holds the page objects for the Swag Labs storefront. A page
// object owns one engine page and a registry of the elements on its screen;
// it performs actions and answers queries but never asserts.
package pages

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
	"github.com/themizzi/swaglabs-e2e/internal/locator"
)

// Page is implemented by every page object.
type Page interface {
	// Name identifies the page object in errors and logs.
	Name() string
	// Path is the route the page lives at, relative to the base URL.
	Path() string
	// Navigate loads the page and waits until it is ready for interaction.
	Navigate() error
}

// Options carries the values every page object needs from the suite config.
type Options struct {
	BaseURL           string
	ActionTimeout     time.Duration
	NavigationTimeout time.Duration
	ExpectTimeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.ActionTimeout <= 0 {
		o.ActionTimeout = locator.DefaultTimeout
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = locator.DefaultTimeout
	}
	if o.ExpectTimeout <= 0 {
		o.ExpectTimeout = 5 * time.Second
	}
	o.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	return o
}

// base is embedded by every page object.
type base struct {
	name  string
	path  string
	ready string // element that signals the page is interactive
	page  playwright.Page
	opts  Options
	reg   *locator.Registry
}

func newBase(name, path, ready string, page playwright.Page, opts Options, defs ...locator.Definition) base {
	opts = opts.withDefaults()
	return base{
		name:  name,
		path:  path,
		ready: ready,
		page:  page,
		opts:  opts,
		reg:   locator.MustRegistry(name, page, opts.ActionTimeout, defs...),
	}
}

func (b *base) Name() string { return b.name }

func (b *base) Path() string { return b.path }

// URL returns the absolute URL of the page.
func (b *base) URL() string { return b.opts.BaseURL + b.path }

// Elements returns the page object's locator registry.
func (b *base) Elements() *locator.Registry { return b.reg }

func (b *base) el(name string) *locator.Element { return b.reg.Element(name) }

func (b *base) op(name string) string { return b.name + "." + name }

// Navigate loads the page. Landing on any other path (a login redirect, for
// instance) is reported as NotFound without waiting for the ready signal.
func (b *base) Navigate() error {
	op := b.op("Navigate")
	_, err := b.page.Goto(b.URL(), playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(b.opts.NavigationTimeout.Milliseconds())),
	})
	if err != nil {
		if isTimeout(err) {
			return errs.Wrap(errs.Timeout, op, b.URL(), err)
		}
		return errs.Wrap(errs.Engine, op, b.URL(), err)
	}

	if want, landed := currentPath(b.URL()), currentPath(b.page.URL()); landed != want {
		return errs.Newf(errs.NotFound, op, "%s redirected to %s", want, landed)
	}
	return b.waitReady()
}

// waitReady blocks until the page's ready element is visible.
func (b *base) waitReady() error {
	if b.ready == "" {
		return nil
	}
	if err := b.el(b.ready).WaitVisible(); err != nil {
		return fmt.Errorf("%s not ready: %w", b.name, err)
	}
	return nil
}

func isTimeout(err error) bool {
	return errors.Is(err, playwright.ErrTimeout) || strings.Contains(err.Error(), "Timeout ")
}

func currentPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
