package element

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/validation"
)

// Named carries the identity of an element: the struct field path it edits,
// the submitted input name and the human label.
type Named struct {
	attribute string
	name      string
	label     string
	help      string
}

func newNamed(attribute, label string) Named {
	attribute = strings.TrimSpace(attribute)
	label = strings.TrimSpace(label)
	if label == "" {
		label = attribute
	}
	return Named{attribute: attribute, name: inputName(attribute), label: label}
}

// Attribute returns the struct field path, for example "Meta.Keywords".
func (n *Named) Attribute() string { return n.attribute }

// Name returns the submitted input name, for example "meta.keywords".
func (n *Named) Name() string { return n.name }

func (n *Named) Label() string { return n.label }
func (n *Named) Help() string  { return n.help }

// Readonly makes an element skip validation and saving.
type Readonly struct {
	readonly bool
	when     func(entity.Entity) bool
}

func (r *Readonly) readonlyFor(model entity.Entity) bool {
	if r.readonly {
		return true
	}
	return r.when != nil && r.when(model)
}

// Visibility hides an element statically or per model. Hidden elements are
// neither rendered, validated nor saved.
type Visibility struct {
	hidden bool
	when   func(entity.Entity) bool
}

func (v *Visibility) visibleFor(model entity.Entity) bool {
	if v.hidden {
		return false
	}
	return v.when == nil || v.when(model)
}

// Rules holds the validation rule string and message overrides keyed by rule
// name.
type Rules struct {
	rules    string
	messages map[string]string
}

func (r *Rules) addRules(rules string) {
	r.rules = validation.MergeRules(r.rules, rules)
}

func (r *Rules) addMessage(rule, message string) {
	rule = strings.ToLower(strings.TrimSpace(rule))
	if rule == "" {
		return
	}
	if r.messages == nil {
		r.messages = make(map[string]string)
	}
	r.messages[rule] = message
}

// RuleString returns the merged rule string.
func (r *Rules) RuleString() string { return r.rules }

// IsRequired reports whether the rules contain "required".
func (r *Rules) IsRequired() bool { return validation.HasRule(r.rules, "required") }

// inputName derives the submitted name from a Go field path:
// "AuthorID" becomes "author_id" and "Meta.Keywords" becomes "meta.keywords".
func inputName(attribute string) string {
	segments := strings.Split(attribute, ".")
	for idx, segment := range segments {
		segments[idx] = snake(segment)
	}
	return strings.Join(segments, ".")
}

func snake(word string) string {
	runes := []rune(word)
	var b strings.Builder
	for idx, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := idx > 0 && (unicode.IsLower(runes[idx-1]) || unicode.IsDigit(runes[idx-1]))
			nextLower := idx > 0 && idx+1 < len(runes) && unicode.IsLower(runes[idx+1]) && unicode.IsUpper(runes[idx-1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
