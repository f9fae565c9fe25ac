package locator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
)

// Element is a named, lazily resolved locator. Reads that tolerate any number
// of matches (Count, Texts, IsVisible) never wait. Actions and single reads
// require exactly one match and wait up to the registry timeout.
type Element struct {
	owner   string
	name    string
	query   Query
	scope   string // description of the narrowing applied, if any
	page    playwright.Page
	loc     playwright.Locator
	timeout time.Duration
}

// Name returns the registered element name.
func (e *Element) Name() string { return e.name }

// Locator exposes the underlying engine locator.
func (e *Element) Locator() playwright.Locator { return e.loc }

// Describe renders the element for error messages.
func (e *Element) Describe() string {
	d := fmt.Sprintf("%s (%s)", e.name, e.query)
	if e.scope != "" {
		d += " " + e.scope
	}
	return d
}

// WithTimeout returns a copy of e that waits at most d.
func (e *Element) WithTimeout(d time.Duration) *Element {
	c := *e
	c.timeout = d
	return &c
}

func (e *Element) derive(loc playwright.Locator, scope string) *Element {
	c := *e
	c.loc = loc
	if c.scope != "" {
		c.scope += " " + scope
	} else {
		c.scope = scope
	}
	return &c
}

// First narrows to the first match in DOM order.
func (e *Element) First() *Element { return e.derive(e.loc.First(), "first") }

// Nth narrows to the i-th match in DOM order.
func (e *Element) Nth(i int) *Element { return e.derive(e.loc.Nth(i), fmt.Sprintf("nth=%d", i)) }

// WhereChildText keeps matches containing a child found by child whose full
// text equals text.
func (e *Element) WhereChildText(child Query, text string) *Element {
	has := child.onPage(e.page).Filter(playwright.LocatorFilterOptions{HasText: exactTextPattern(text)})
	return e.derive(e.loc.Filter(playwright.LocatorFilterOptions{Has: has}), fmt.Sprintf("having %s=%q", child, text))
}

// Child resolves q inside every match of e.
func (e *Element) Child(name string, q Query) *Element {
	c := *e
	c.name = e.name + " > " + name
	c.query = q
	c.loc = q.within(e.loc)
	return &c
}

func (e *Element) ms() *float64 {
	return playwright.Float(float64(e.timeout.Milliseconds()))
}

// Count returns the current number of matches without waiting.
func (e *Element) Count() (int, error) {
	n, err := e.loc.Count()
	if err != nil {
		return 0, e.classify("Count", err)
	}
	return n, nil
}

// Texts returns the inner text of every match in DOM order.
func (e *Element) Texts() ([]string, error) {
	texts, err := e.loc.AllInnerTexts()
	if err != nil {
		return nil, e.classify("Texts", err)
	}
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return texts, nil
}

// IsVisible reports whether exactly one match is currently visible. Zero
// matches is false, not an error.
func (e *Element) IsVisible() (bool, error) {
	v, err := e.loc.IsVisible()
	if err != nil {
		return false, e.classify("IsVisible", err)
	}
	return v, nil
}

// Click clicks the single match.
func (e *Element) Click() error {
	return e.classify("Click", e.loc.Click(playwright.LocatorClickOptions{Timeout: e.ms()}))
}

// Fill replaces the value of the single matching input.
func (e *Element) Fill(value string) error {
	return e.classify("Fill", e.loc.Fill(value, playwright.LocatorFillOptions{Timeout: e.ms()}))
}

// Focus moves keyboard focus to the single match.
func (e *Element) Focus() error {
	return e.classify("Focus", e.loc.Focus(playwright.LocatorFocusOptions{Timeout: e.ms()}))
}

// Press focuses the single match and presses key.
func (e *Element) Press(key string) error {
	return e.classify("Press", e.loc.Press(key, playwright.LocatorPressOptions{Timeout: e.ms()}))
}

// SelectOption selects the option whose value is value.
func (e *Element) SelectOption(value string) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}},
		playwright.LocatorSelectOptionOptions{Timeout: e.ms()})
	return e.classify("SelectOption", err)
}

// Text returns the trimmed inner text of the single match.
func (e *Element) Text() (string, error) {
	s, err := e.loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: e.ms()})
	if err != nil {
		return "", e.classify("Text", err)
	}
	return strings.TrimSpace(s), nil
}

// Attribute returns an attribute of the single match; missing attributes are "".
func (e *Element) Attribute(name string) (string, error) {
	s, err := e.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: e.ms()})
	if err != nil {
		return "", e.classify("Attribute", err)
	}
	return s, nil
}

// InputValue returns the current value of the single matching input.
func (e *Element) InputValue() (string, error) {
	s, err := e.loc.InputValue(playwright.LocatorInputValueOptions{Timeout: e.ms()})
	if err != nil {
		return "", e.classify("InputValue", err)
	}
	return s, nil
}

// WaitVisible blocks until the single match is visible.
func (e *Element) WaitVisible() error {
	return e.waitFor("WaitVisible", playwright.WaitForSelectorStateVisible)
}

// WaitAttached blocks until the single match is in the DOM.
func (e *Element) WaitAttached() error {
	return e.waitFor("WaitAttached", playwright.WaitForSelectorStateAttached)
}

// WaitHidden blocks until no match is visible.
func (e *Element) WaitHidden() error {
	return e.waitFor("WaitHidden", playwright.WaitForSelectorStateHidden)
}

func (e *Element) waitFor(op string, state *playwright.WaitForSelectorState) error {
	return e.classify(op, e.loc.WaitFor(playwright.LocatorWaitForOptions{State: state, Timeout: e.ms()}))
}

// Screenshot captures the single match as PNG.
func (e *Element) Screenshot() ([]byte, error) {
	b, err := e.loc.Screenshot(playwright.LocatorScreenshotOptions{
		Timeout:    e.ms(),
		Animations: playwright.ScreenshotAnimationsDisabled,
	})
	if err != nil {
		return nil, e.classify("Screenshot", err)
	}
	return b, nil
}

// classify maps an engine failure to an errs kind. Timeouts are split by the
// match count observed after the wait: none means the element never existed.
func (e *Element) classify(verb string, err error) error {
	if err == nil {
		return nil
	}
	op := e.owner + "." + verb
	switch {
	case isStrictViolation(err):
		return errs.Wrap(errs.AmbiguousMatch, op, e.Describe(), err)
	case isTimeout(err):
		if n, cerr := e.loc.Count(); cerr == nil && n == 0 {
			return errs.Wrap(errs.NotFound, op, e.Describe(), err)
		}
		return errs.Wrap(errs.Timeout, op, e.Describe(), err)
	default:
		return errs.Wrap(errs.Engine, op, e.Describe(), err)
	}
}

func isStrictViolation(err error) bool {
	return strings.Contains(err.Error(), "strict mode violation")
}

func isTimeout(err error) bool {
	return errors.Is(err, playwright.ErrTimeout) || strings.Contains(err.Error(), "Timeout ")
}
