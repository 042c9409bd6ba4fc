package openapi

import (
	"sort"
	"strings"
	"sync"
)

// Built-in element kinds known to the registry and the builder.
const (
	KindText      = "text"
	KindTextarea  = "textarea"
	KindNumber    = "number"
	KindCheckbox  = "checkbox"
	KindSelect    = "select"
	KindUpload    = "upload"
	KindBelongsTo = "belongsTo"
	KindHasOne    = "hasOne"
)

// textareaThreshold is the maxLength above which strings get a textarea.
const textareaThreshold = 255

// Matcher decides whether a kind should handle the property.
type Matcher func(p Property) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects the element kind of a property. Higher priority wins; ties
// fall back to registration order. An empty registry never resolves a kind.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for kind with the provided priority.
func (r *Registry) Register(kind string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the kind for p. An explicit x-admin-widget wins over the
// matchers.
func (r *Registry) Resolve(p Property) (string, bool) {
	if p.Widget != "" {
		return p.Widget, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(p) {
			return entry.name, true
		}
	}
	return "", false
}

func (r *Registry) registerBuiltins() {
	r.Register(KindBelongsTo, 100, func(p Property) bool {
		return p.Relationship != nil && p.Relationship.Type == KindBelongsTo
	})

	r.Register(KindHasOne, 95, func(p Property) bool {
		return p.Relationship != nil && p.Relationship.Type == KindHasOne
	})

	r.Register(KindCheckbox, 90, func(p Property) bool {
		return p.Type() == "boolean"
	})

	r.Register(KindUpload, 85, func(p Property) bool {
		return p.Type() == "string" && p.Format() == "binary"
	})

	r.Register(KindSelect, 70, func(p Property) bool {
		return p.Type() != "array" && p.Type() != "object" && len(p.Schema.Enum) > 0
	})

	r.Register(KindNumber, 60, func(p Property) bool {
		return p.Type() == "integer" || p.Type() == "number"
	})

	r.Register(KindTextarea, 50, func(p Property) bool {
		if p.Type() != "string" {
			return false
		}
		if p.Format() == "textarea" || p.Format() == "markdown" {
			return true
		}
		return p.Schema.MaxLength != nil && *p.Schema.MaxLength > textareaThreshold
	})

	r.Register(KindText, 0, func(p Property) bool {
		return p.Type() == "string" || p.Type() == ""
	})
}
