// Package perf reads browser navigation timing and measures page actions.
package perf

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/themizzi/swaglabs-e2e/internal/errs"
)

// ErrNoNavigationEntry is returned when the page has no navigation timing entry yet
var ErrNoNavigationEntry = errors.New("no navigation timing entry")

// Evaluator runs a script in the page. playwright.Page satisfies it.
type Evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

const navigationScript = `() => {
  const [n] = performance.getEntriesByType('navigation');
  if (!n) return null;
  return {
    pageLoad: n.loadEventEnd - n.startTime,
    domReady: n.domContentLoadedEventEnd - n.startTime,
    responseTime: n.responseEnd - n.requestStart,
  };
}`

// NavigationTiming is the timing of the page's last full navigation
type NavigationTiming struct {
	PageLoad     time.Duration
	DOMReady     time.Duration
	ResponseTime time.Duration
}

// Navigation reads the navigation timing entry of the current document
func Navigation(page Evaluator) (NavigationTiming, error) {
	v, err := page.Evaluate(navigationScript)
	if err != nil {
		return NavigationTiming{}, errs.Wrap(errs.Engine, "perf.Navigation", "performance.getEntriesByType", err)
	}
	return decodeTiming(v)
}

func decodeTiming(v any) (NavigationTiming, error) {
	if v == nil {
		return NavigationTiming{}, ErrNoNavigationEntry
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return NavigationTiming{}, fmt.Errorf("failed to encode timing: %w", err)
	}
	var ms struct {
		PageLoad     *float64 `json:"pageLoad"`
		DOMReady     *float64 `json:"domReady"`
		ResponseTime *float64 `json:"responseTime"`
	}
	if err := json.Unmarshal(raw, &ms); err != nil {
		return NavigationTiming{}, fmt.Errorf("unexpected timing value %s: %w", raw, err)
	}
	if ms.PageLoad == nil || ms.DOMReady == nil || ms.ResponseTime == nil {
		return NavigationTiming{}, fmt.Errorf("incomplete timing value %s", raw)
	}
	return NavigationTiming{
		PageLoad:     millis(*ms.PageLoad),
		DOMReady:     millis(*ms.DOMReady),
		ResponseTime: millis(*ms.ResponseTime),
	}, nil
}

func millis(ms float64) time.Duration {
	if ms < 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// Measure times fn, typically an action followed by a wait for its result
func Measure(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}

// Budget is an upper bound for a measured duration
type Budget struct {
	Name string
	Max  time.Duration
}

// Check returns an error when d exceeds the budget
func (b Budget) Check(d time.Duration) error {
	if d > b.Max {
		return fmt.Errorf("%s took %s, budget %s", b.Name, d.Round(time.Millisecond), b.Max)
	}
	return nil
}
