package display

import (
	"sort"
	"strings"
)

// Attributes holds rendering attributes such as CSS classes. The "class"
// attribute accumulates values instead of replacing them.
type Attributes map[string]string

// Set stores value under name. Class values are merged, preserving order and
// dropping duplicates.
func (a Attributes) Set(name, value string) {
	name = strings.TrimSpace(name)
	if name == "" || a == nil {
		return
	}
	if name == "class" {
		a[name] = mergeClasses(a[name], value)
		return
	}
	a[name] = strings.TrimSpace(value)
}

// Get returns the attribute value.
func (a Attributes) Get(name string) string {
	return a[name]
}

// Has reports whether name is set.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Clone returns a copy, or nil when empty.
func (a Attributes) Clone() Attributes {
	if len(a) == 0 {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Names returns the attribute names sorted for deterministic output.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mergeClasses(existing, extra string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, class := range strings.Fields(existing + " " + extra) {
		if _, ok := seen[class]; ok {
			continue
		}
		seen[class] = struct{}{}
		out = append(out, class)
	}
	return strings.Join(out, " ")
}
