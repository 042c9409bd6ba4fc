package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error carries the messages of a failed validation. Fields is keyed by the
// submitted field name; Form holds messages that belong to no single field.
type Error struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// Error summarises the failure with the first message of each field in field
// order.
func (e *Error) Error() string {
	if e == nil {
		return "validation: <nil>"
	}
	parts := make([]string, 0, len(e.Fields)+len(e.Form))
	parts = append(parts, e.Form...)
	for _, name := range e.FieldNames() {
		if messages := e.Fields[name]; len(messages) > 0 {
			parts = append(parts, messages[0])
		}
	}
	if len(parts) == 0 {
		return "validation: failed"
	}
	return fmt.Sprintf("validation: %s", strings.Join(parts, "; "))
}

// Add appends a message for field. An empty field records a form level
// message.
func (e *Error) Add(field, message string) {
	field = strings.TrimSpace(field)
	if field == "" {
		e.Form = MergeFormErrors(e.Form, message)
		return
	}
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	if merged := normalizeMessages(append(e.Fields[field], message)); len(merged) > 0 {
		e.Fields[field] = merged
	}
}

// Messages returns the messages recorded for field.
func (e *Error) Messages(field string) []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.Fields[field]...)
}

// FieldNames lists the failing fields in sorted order.
func (e *Error) FieldNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether no message was recorded.
func (e *Error) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Form) == 0)
}

// MergeFormErrors concatenates and normalises form level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
