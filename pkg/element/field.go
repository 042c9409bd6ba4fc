package element

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/request"
)

// Field is the shared base of every element variant. It reads and writes one
// struct field of the bound model.
type Field struct {
	Named
	Readonly
	Visibility
	Rules

	kind         string
	model        entity.Entity
	defaultValue any
	attributes   display.Attributes
}

var (
	_ form.Element = (*Field)(nil)
	_ form.Viewer  = (*Field)(nil)
)

// Option customises an element.
type Option func(*Field)

// WithName overrides the submitted input name.
func WithName(name string) Option {
	return func(f *Field) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			f.name = trimmed
		}
	}
}

// WithHelp sets the help text shown under the input.
func WithHelp(help string) Option {
	return func(f *Field) { f.help = strings.TrimSpace(help) }
}

// WithRules adds pipe separated validation rules.
func WithRules(rules string) Option {
	return func(f *Field) { f.addRules(rules) }
}

// Required is shorthand for WithRules("required").
func Required() Option {
	return WithRules("required")
}

// WithMessage overrides the message of rule for this element.
func WithMessage(rule, message string) Option {
	return func(f *Field) { f.addMessage(rule, message) }
}

// AsReadonly renders the element without letting it validate or save.
func AsReadonly() Option {
	return func(f *Field) { f.readonly = true }
}

// ReadonlyWhen makes the element readonly for models matching fn.
func ReadonlyWhen(fn func(entity.Entity) bool) Option {
	return func(f *Field) { f.Readonly.when = fn }
}

// Hidden removes the element from rendering and the save passes.
func Hidden() Option {
	return func(f *Field) { f.hidden = true }
}

// VisibleWhen shows the element only for models matching fn.
func VisibleWhen(fn func(entity.Entity) bool) Option {
	return func(f *Field) { f.Visibility.when = fn }
}

// WithDefault sets the value shown for models that do not exist yet.
func WithDefault(value any) Option {
	return func(f *Field) { f.defaultValue = value }
}

// WithAttribute sets a rendering attribute of the input.
func WithAttribute(name, value string) Option {
	return func(f *Field) { f.attributes.Set(name, value) }
}

func newField(kind, attribute, label string, options []Option) Field {
	f := Field{
		Named:      newNamed(attribute, label),
		kind:       kind,
		attributes: make(display.Attributes),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&f)
	}
	return f
}

// Kind returns the element type, such as "text" or "select".
func (f *Field) Kind() string { return f.kind }

func (f *Field) SetModel(model entity.Entity) { f.model = model }

// Model returns the bound model.
func (f *Field) Model() entity.Entity { return f.model }

func (f *Field) Initialize(context.Context) error {
	if f.attribute == "" {
		return fmt.Errorf("element: %s element without a field", f.kind)
	}
	return nil
}

func (f *Field) IsReadonly() bool { return f.readonlyFor(f.model) }
func (f *Field) IsVisible() bool  { return f.visibleFor(f.model) }

func (f *Field) ValidationRules() map[string]string {
	if f.rules == "" {
		return nil
	}
	return map[string]string{f.name: f.rules}
}

func (f *Field) ValidationMessages() map[string]string {
	if len(f.messages) == 0 {
		return nil
	}
	out := make(map[string]string, len(f.messages))
	for rule, message := range f.messages {
		out[f.name+"."+rule] = message
	}
	return out
}

func (f *Field) ValidationLabels() map[string]string {
	return map[string]string{f.name: f.label}
}

// Value returns the current model value, or the default for new models.
func (f *Field) Value() any {
	if f.model == nil {
		return f.defaultValue
	}
	if f.defaultValue != nil {
		if existing, ok := f.model.(interface{ Exists() bool }); ok && !existing.Exists() {
			return f.defaultValue
		}
	}
	value, _ := entity.Field(f.model, f.attribute)
	return value
}

// Save copies the submitted value into the model. Fields that were not
// submitted keep their value.
func (f *Field) Save(_ context.Context, in request.Input) error {
	value, ok := in.Value(f.name)
	if !ok {
		return nil
	}
	return f.assign(value)
}

func (f *Field) AfterSave(context.Context, request.Input) error { return nil }

func (f *Field) assign(value any) error {
	if f.model == nil {
		return form.ErrNoModel
	}
	if err := entity.SetField(f.model, f.attribute, value); err != nil {
		return fmt.Errorf("element: %s: %w", f.name, err)
	}
	return nil
}

// View describes the element for rendering.
func (f *Field) View() form.ElementView {
	attributes := f.attributes.Clone()
	if attributes == nil {
		attributes = make(display.Attributes)
	}
	return form.ElementView{
		Type:       f.kind,
		Name:       f.name,
		Label:      f.label,
		Value:      f.Value(),
		Help:       f.help,
		Readonly:   f.IsReadonly(),
		Required:   f.IsRequired(),
		Attributes: attributes,
	}
}
