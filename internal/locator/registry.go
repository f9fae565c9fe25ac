package locator

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DefaultTimeout bounds every wait an Element performs unless overridden.
const DefaultTimeout = 30 * time.Second

// Definition names one element of a screen.
type Definition struct {
	Name  string
	Query Query
}

// Registry is the immutable set of named elements for one page object bound
// to one engine page.
type Registry struct {
	owner   string
	page    playwright.Page
	timeout time.Duration
	names   []string
	queries map[string]Query
}

// NewRegistry validates defs and binds them to page. Names must be unique.
func NewRegistry(owner string, page playwright.Page, timeout time.Duration, defs ...Definition) (*Registry, error) {
	if owner == "" {
		return nil, fmt.Errorf("registry owner cannot be empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	r := &Registry{
		owner:   owner,
		page:    page,
		timeout: timeout,
		names:   make([]string, 0, len(defs)),
		queries: make(map[string]Query, len(defs)),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("%s: element name cannot be empty", owner)
		}
		if _, dup := r.queries[d.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate element %q", owner, d.Name)
		}
		if err := d.Query.Validate(); err != nil {
			return nil, fmt.Errorf("%s: element %q: %w", owner, d.Name, err)
		}
		r.names = append(r.names, d.Name)
		r.queries[d.Name] = d.Query
	}
	return r, nil
}

// MustRegistry is NewRegistry for static definitions; it panics on error.
func MustRegistry(owner string, page playwright.Page, timeout time.Duration, defs ...Definition) *Registry {
	r, err := NewRegistry(owner, page, timeout, defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Owner returns the page object name used in error messages.
func (r *Registry) Owner() string { return r.owner }

// Timeout returns the wait bound applied to elements.
func (r *Registry) Timeout() time.Duration { return r.timeout }

// Names returns element names in definition order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Query returns the query registered under name.
func (r *Registry) Query(name string) (Query, bool) {
	q, ok := r.queries[name]
	return q, ok
}

// Element returns the named element. Asking for an unregistered name is a
// programming error and panics.
func (r *Registry) Element(name string) *Element {
	q, ok := r.queries[name]
	if !ok {
		panic(fmt.Sprintf("%s: no element named %q", r.owner, name))
	}
	return &Element{
		owner:   r.owner,
		name:    name,
		query:   q,
		page:    r.page,
		loc:     q.onPage(r.page),
		timeout: r.timeout,
	}
}
