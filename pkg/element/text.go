package element

import (
	"context"
	"strconv"

	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/request"
	"github.com/goliatone/go-admingen/pkg/validation"
)

// Text is a single line input.
type Text struct{ Field }

// NewText creates a text input for the struct field attribute.
func NewText(attribute, label string, options ...Option) *Text {
	return &Text{Field: newField("text", attribute, label, options)}
}

// Textarea is a multi line input.
type Textarea struct {
	Field
	rows int
}

// NewTextarea creates a textarea with rows visible lines.
func NewTextarea(attribute, label string, rows int, options ...Option) *Textarea {
	if rows <= 0 {
		rows = 4
	}
	return &Textarea{Field: newField("textarea", attribute, label, options), rows: rows}
}

// Rows returns the visible line count.
func (t *Textarea) Rows() int { return t.rows }

func (t *Textarea) View() form.ElementView {
	view := t.Field.View()
	view.Attributes.Set("rows", strconv.Itoa(t.rows))
	return view
}

// Number is a numeric input. It validates as "numeric" unless stricter
// rules are given.
type Number struct{ Field }

// NewNumber creates a numeric input.
func NewNumber(attribute, label string, options ...Option) *Number {
	n := &Number{Field: newField("number", attribute, label, options)}
	if !hasAnyRule(n.rules, "integer", "numeric") {
		n.addRules("numeric")
	}
	return n
}

// Checkbox edits a bool field. An unchecked box is not submitted by
// browsers, so a missing value saves false.
type Checkbox struct{ Field }

// NewCheckbox creates a checkbox.
func NewCheckbox(attribute, label string, options ...Option) *Checkbox {
	return &Checkbox{Field: newField("checkbox", attribute, label, options)}
}

func (c *Checkbox) Save(_ context.Context, in request.Input) error {
	value, _ := in.Value(c.name)
	return c.assign(value)
}

func hasAnyRule(rules string, names ...string) bool {
	for _, name := range names {
		if validation.HasRule(rules, name) {
			return true
		}
	}
	return false
}
