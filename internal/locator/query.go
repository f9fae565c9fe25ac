// Package locator maps named screen elements to lazily resolved engine
// locators and translates engine failures into errs kinds.
package locator

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/playwright-community/playwright-go"
)

// TestIDAttribute is the attribute the storefront uses for stable test hooks.
const TestIDAttribute = "data-test"

// Strategy is a query kind. Lower values are preferred.
type Strategy int

const (
	ByTestID Strategy = iota
	ByRole
	ByLabel
	ByPlaceholder
	ByText
	ByCSS
)

func (s Strategy) String() string {
	switch s {
	case ByTestID:
		return "test-id"
	case ByRole:
		return "role"
	case ByLabel:
		return "label"
	case ByPlaceholder:
		return "placeholder"
	case ByText:
		return "text"
	case ByCSS:
		return "css"
	default:
		return "strategy(" + strconv.Itoa(int(s)) + ")"
	}
}

// Query describes how to find an element. It is resolved against the live DOM
// every time it is used.
type Query struct {
	Strategy Strategy
	Value    string
	Name     string // accessible name, ByRole only
	Exact    bool
}

// TestID matches [data-test="id"].
func TestID(id string) Query { return Query{Strategy: ByTestID, Value: id, Exact: true} }

// Role matches an ARIA role, optionally narrowed by exact accessible name.
func Role(role, name string) Query {
	return Query{Strategy: ByRole, Value: role, Name: name, Exact: name != ""}
}

// Label matches form controls by their associated label text.
func Label(text string) Query { return Query{Strategy: ByLabel, Value: text, Exact: true} }

// Placeholder matches inputs by placeholder text.
func Placeholder(text string) Query { return Query{Strategy: ByPlaceholder, Value: text, Exact: true} }

// Text matches elements containing text, case-insensitively.
func Text(text string) Query { return Query{Strategy: ByText, Value: text} }

// ExactText matches elements whose full text equals text.
func ExactText(text string) Query { return Query{Strategy: ByText, Value: text, Exact: true} }

// CSS matches a CSS selector. Used when no test hook exists.
func CSS(selector string) Query { return Query{Strategy: ByCSS, Value: selector} }

// Validate reports malformed queries.
func (q Query) Validate() error {
	if q.Strategy < ByTestID || q.Strategy > ByCSS {
		return fmt.Errorf("unknown strategy %d", int(q.Strategy))
	}
	if q.Value == "" {
		return fmt.Errorf("empty %s query", q.Strategy)
	}
	if q.Name != "" && q.Strategy != ByRole {
		return fmt.Errorf("accessible name is only valid for role queries")
	}
	return nil
}

func (q Query) String() string {
	switch q.Strategy {
	case ByTestID:
		return fmt.Sprintf("%s=%q", TestIDAttribute, q.Value)
	case ByRole:
		if q.Name != "" {
			return fmt.Sprintf("role=%s[name=%q]", q.Value, q.Name)
		}
		return "role=" + q.Value
	case ByCSS:
		return "css=" + q.Value
	default:
		s := fmt.Sprintf("%s=%q", q.Strategy, q.Value)
		if q.Exact {
			s += "s"
		}
		return s
	}
}

func (q Query) selector() string {
	if q.Strategy == ByTestID {
		return fmt.Sprintf("[%s=%q]", TestIDAttribute, q.Value)
	}
	return q.Value
}

func (q Query) onPage(p playwright.Page) playwright.Locator {
	exact := playwright.Bool(q.Exact)
	switch q.Strategy {
	case ByRole:
		opts := playwright.PageGetByRoleOptions{}
		if q.Name != "" {
			opts.Name = q.Name
			opts.Exact = exact
		}
		return p.GetByRole(playwright.AriaRole(q.Value), opts)
	case ByLabel:
		return p.GetByLabel(q.Value, playwright.PageGetByLabelOptions{Exact: exact})
	case ByPlaceholder:
		return p.GetByPlaceholder(q.Value, playwright.PageGetByPlaceholderOptions{Exact: exact})
	case ByText:
		return p.GetByText(q.Value, playwright.PageGetByTextOptions{Exact: exact})
	default:
		return p.Locator(q.selector())
	}
}

func (q Query) within(l playwright.Locator) playwright.Locator {
	exact := playwright.Bool(q.Exact)
	switch q.Strategy {
	case ByRole:
		opts := playwright.LocatorGetByRoleOptions{}
		if q.Name != "" {
			opts.Name = q.Name
			opts.Exact = exact
		}
		return l.GetByRole(playwright.AriaRole(q.Value), opts)
	case ByLabel:
		return l.GetByLabel(q.Value, playwright.LocatorGetByLabelOptions{Exact: exact})
	case ByPlaceholder:
		return l.GetByPlaceholder(q.Value, playwright.LocatorGetByPlaceholderOptions{Exact: exact})
	case ByText:
		return l.GetByText(q.Value, playwright.LocatorGetByTextOptions{Exact: exact})
	default:
		return l.Locator(q.selector())
	}
}

// exactTextPattern matches an element whose whole text is s, ignoring
// surrounding whitespace.
func exactTextPattern(s string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(s) + `\s*$`)
}
