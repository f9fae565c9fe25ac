// Package tags classifies scenarios so a run can select or skip them with
// E2E_TAGS and E2E_SKIP_TAGS.
package tags

import (
	"os"
	"strings"
	"testing"
)

// Tag is a scenario classification
type Tag string

// Known tags
const (
	Smoke         Tag = "smoke"
	E2E           Tag = "e2e"
	Mobile        Tag = "mobile"
	Performance   Tag = "performance"
	Visual        Tag = "visual"
	Network       Tag = "network"
	Accessibility Tag = "accessibility"
	API           Tag = "api"
)

// All lists the known tags
var All = []Tag{Smoke, E2E, Mobile, Performance, Visual, Network, Accessibility, API}

// Filter selects scenarios by tag. An empty Include selects everything;
// Exclude always wins.
type Filter struct {
	Include []string
	Exclude []string
}

// FromEnv reads E2E_TAGS and E2E_SKIP_TAGS as comma separated lists
func FromEnv(getenv func(string) string) Filter {
	return Filter{Include: split(getenv("E2E_TAGS")), Exclude: split(getenv("E2E_SKIP_TAGS"))}
}

// Allows reports whether a scenario tagged ts runs, and why not when it doesn't
func (f Filter) Allows(ts ...Tag) (bool, string) {
	for _, tag := range ts {
		if contains(f.Exclude, tag) {
			return false, "tag " + string(tag) + " is in E2E_SKIP_TAGS"
		}
	}
	if len(f.Include) == 0 {
		return true, ""
	}
	for _, tag := range ts {
		if contains(f.Include, tag) {
			return true, ""
		}
	}
	return false, "none of " + join(ts) + " is in E2E_TAGS"
}

// Require skips t unless the filter allows ts
func (f Filter) Require(t testing.TB, ts ...Tag) {
	t.Helper()
	if ok, reason := f.Allows(ts...); !ok {
		t.Skip(reason)
	}
}

// Require skips t unless the filter from the environment allows ts
func Require(t testing.TB, ts ...Tag) {
	t.Helper()
	FromEnv(os.Getenv).Require(t, ts...)
}

func contains(list []string, tag Tag) bool {
	for _, v := range list {
		if v == string(tag) {
			return true
		}
	}
	return false
}

func join(ts []Tag) string {
	parts := make([]string, len(ts))
	for i, tag := range ts {
		parts[i] = string(tag)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func split(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
