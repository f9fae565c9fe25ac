// Package netmock records, fulfils and blocks page network traffic.
package netmock

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
)

// ResourceTypes are the request kinds the engine reports
var ResourceTypes = []string{
	"document", "stylesheet", "image", "media", "font", "script", "texttrack",
	"xhr", "fetch", "eventsource", "websocket", "manifest", "other",
}

// Entry is one completed request
type Entry struct {
	Method       string
	URL          string
	ResourceType string
	Status       int
}

// RequestLog collects responses seen by a page. Engine events arrive on
// another goroutine, so access is locked.
type RequestLog struct {
	mu      sync.Mutex
	entries []Entry
}

// Record starts logging every response the page receives
func Record(page playwright.Page) *RequestLog {
	log := &RequestLog{}
	page.OnResponse(func(resp playwright.Response) {
		req := resp.Request()
		log.observe(Entry{Method: req.Method(), URL: resp.URL(), ResourceType: req.ResourceType(), Status: resp.Status()})
	})
	return log
}

func (l *RequestLog) observe(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Entries returns a copy of the log in arrival order
func (l *RequestLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Matching returns entries whose URL contains substr
func (l *RequestLog) Matching(substr string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if strings.Contains(e.URL, substr) {
			out = append(out, e)
		}
	}
	return out
}

// OfType returns entries of one resource type
func (l *RequestLog) OfType(resourceType string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if e.ResourceType == resourceType {
			out = append(out, e)
		}
	}
	return out
}

// Failed returns entries with a 4xx or 5xx status
func (l *RequestLog) Failed() []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if e.Status >= 400 {
			out = append(out, e)
		}
	}
	return out
}

// MockJSON answers requests matching pattern with body encoded as JSON
func MockJSON(page playwright.Page, pattern string, status int, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode mock body: %w", err)
	}
	err = page.Route(pattern, func(route playwright.Route) {
		_ = route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(status),
			ContentType: playwright.String("application/json"),
			Headers:     map[string]string{"Cache-Control": "no-store"},
			Body:        string(raw),
		})
	})
	if err != nil {
		return errs.Wrap(errs.Engine, "netmock.MockJSON", pattern, err)
	}
	return nil
}

// Blocked counts requests aborted by BlockResources
type Blocked struct {
	count atomic.Int64
}

// Count returns how many requests were aborted
func (b *Blocked) Count() int { return int(b.count.Load()) }

// BlockResources aborts every request of the given resource types
func BlockResources(page playwright.Page, types ...string) (*Blocked, error) {
	const op = "netmock.BlockResources"
	if err := validateTypes(op, types); err != nil {
		return nil, err
	}
	blocked := &Blocked{}
	err := page.Route("**/*", func(route playwright.Route) {
		if contains(types, route.Request().ResourceType()) {
			blocked.count.Add(1)
			_ = route.Abort("blockedbyclient")
			return
		}
		_ = route.Fallback()
	})
	if err != nil {
		return nil, errs.Wrap(errs.Engine, op, strings.Join(types, ","), err)
	}
	return blocked, nil
}

func validateTypes(op string, types []string) error {
	if len(types) == 0 {
		return errs.New(errs.InvalidOption, op, "no resource types")
	}
	for _, t := range types {
		if !contains(ResourceTypes, t) {
			return errs.Newf(errs.InvalidOption, op, "unknown resource type %q", t)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
