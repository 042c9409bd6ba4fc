package element

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-admingen/pkg/form"
)

// Select picks one value out of a fixed list. Submitted values outside the
// list fail validation.
type Select struct {
	Field
	choices []form.Choice
}

// NewSelect creates a select over choices.
func NewSelect(attribute, label string, choices []form.Choice, options ...Option) *Select {
	s := &Select{Field: newField("select", attribute, label, options)}
	s.SetChoices(choices)
	return s
}

// Choices creates choices from value/label pairs given in order.
func Choices(pairs ...string) []form.Choice {
	out := make([]form.Choice, 0, len(pairs)/2)
	for idx := 0; idx+1 < len(pairs); idx += 2 {
		out = append(out, form.Choice{Value: pairs[idx], Label: pairs[idx+1]})
	}
	return out
}

// SetChoices replaces the choice list and the matching "in" rule.
func (s *Select) SetChoices(choices []form.Choice) *Select {
	s.choices = append([]form.Choice(nil), choices...)
	if len(s.choices) == 0 {
		return s
	}
	values := make([]string, 0, len(s.choices))
	for _, choice := range s.choices {
		values = append(values, choice.Value)
	}
	s.addRules("in:" + strings.Join(values, ","))
	return s
}

// Choices returns the configured choices.
func (s *Select) Choices() []form.Choice {
	return append([]form.Choice(nil), s.choices...)
}

func (s *Select) View() form.ElementView {
	view := s.Field.View()
	view.Choices = markSelected(s.choices, view.Value)
	return view
}

func markSelected(choices []form.Choice, value any) []form.Choice {
	current := ""
	if value != nil {
		current = fmt.Sprint(value)
	}
	out := make([]form.Choice, 0, len(choices))
	for _, choice := range choices {
		choice.Selected = current != "" && choice.Value == current
		out = append(out, choice)
	}
	return out
}
