// Package errs defines the failure kinds page objects report to scenarios.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an automation failure. A Kind is itself an error so callers
// can match with errors.Is(err, errs.NotFound).
type Kind string

const (
	// NotFound means a locator matched zero elements when one was required.
	NotFound Kind = "not found"
	// AmbiguousMatch means a locator matched several elements when one was required.
	AmbiguousMatch Kind = "ambiguous match"
	// Timeout means the element existed but never reached the awaited state.
	Timeout Kind = "timeout"
	// InvalidOption means a caller passed a value outside an operation's enumeration.
	InvalidOption Kind = "invalid option"
	// StaleAuthState means a persisted auth state is missing, corrupt or expired.
	StaleAuthState Kind = "stale auth state"
	// Engine is any other failure reported by the automation engine.
	Engine Kind = "engine"
)

func (k Kind) Error() string { return string(k) }

// Error is a classified failure.
type Error struct {
	Kind   Kind
	Op     string // e.g. "ProductsPage.AddProductToCart"
	Target string // element or artifact the operation addressed
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Target != "" {
		b.WriteString(": ")
		b.WriteString(e.Target)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e != nil && e.Kind == k
}

// New creates a classified error.
func New(kind Kind, op, target string) error {
	return &Error{Kind: kind, Op: op, Target: target}
}

// Wrap creates a classified error with a cause.
func Wrap(kind Kind, op, target string, cause error) error {
	return &Error{Kind: kind, Op: op, Target: target, Err: cause}
}

// Newf creates a classified error with a formatted target description.
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Target: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first classified error in err's chain, or
// the empty Kind when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}
