package openapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-admingen/pkg/element"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/repository"
	"github.com/goliatone/go-admingen/pkg/storage"
)

// Factory creates the element for a property. options carry the label,
// rules, default and visibility derived from the schema.
type Factory func(p Property, options []element.Option) (form.Element, error)

// Builder turns component schemas into form elements.
type Builder struct {
	registry  *Registry
	factories map[string]Factory
	repo      repository.Repository
	store     storage.Storage
	uploadDir string
	classes   map[string]reflect.Type
}

// Option customises a Builder.
type Option func(*Builder)

// WithRegistry replaces the kind registry.
func WithRegistry(registry *Registry) Option {
	return func(b *Builder) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithFactory registers or replaces the factory of kind.
func WithFactory(kind string, factory Factory) Option {
	return func(b *Builder) {
		if factory != nil {
			b.factories[kind] = factory
		}
	}
}

// WithRepository supplies the repository belongs-to selectors load their
// choices from.
func WithRepository(repo repository.Repository) Option {
	return func(b *Builder) { b.repo = repo }
}

// WithStorage supplies the storage upload elements write to.
func WithStorage(store storage.Storage, dir string) Option {
	return func(b *Builder) {
		b.store = store
		b.uploadDir = dir
	}
}

// WithClasses maps the model names used by x-admin-relationship to classes.
func WithClasses(classes map[string]reflect.Type) Option {
	return func(b *Builder) {
		for name, class := range classes {
			b.classes[name] = class
		}
	}
}

// NewBuilder creates a Builder with the built-in registry and factories.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{
		registry:  NewRegistry(),
		factories: make(map[string]Factory),
		classes:   make(map[string]reflect.Type),
	}
	b.factories[KindText] = func(p Property, opts []element.Option) (form.Element, error) {
		return element.NewText(p.Field, p.Label, opts...), nil
	}
	b.factories[KindTextarea] = func(p Property, opts []element.Option) (form.Element, error) {
		return element.NewTextarea(p.Field, p.Label, 0, opts...), nil
	}
	b.factories[KindNumber] = func(p Property, opts []element.Option) (form.Element, error) {
		return element.NewNumber(p.Field, p.Label, opts...), nil
	}
	b.factories[KindCheckbox] = func(p Property, opts []element.Option) (form.Element, error) {
		return element.NewCheckbox(p.Field, p.Label, opts...), nil
	}
	b.factories[KindSelect] = func(p Property, opts []element.Option) (form.Element, error) {
		return element.NewSelect(p.Field, p.Label, enumChoices(p.Schema.Enum), opts...), nil
	}
	b.factories[KindUpload] = b.upload
	b.factories[KindBelongsTo] = b.belongsTo
	b.factories[KindHasOne] = func(p Property, opts []element.Option) (form.Element, error) {
		return element.NewHasOne(p.Relationship.Relation, p.Relationship.Field, p.Label, opts...), nil
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

func (b *Builder) upload(p Property, opts []element.Option) (form.Element, error) {
	if b.store == nil {
		return nil, fmt.Errorf("openapi: property %q is an upload but no storage is configured", p.Name)
	}
	return element.NewUpload(p.Field, p.Label, b.store, b.uploadDir, opts...), nil
}

func (b *Builder) belongsTo(p Property, opts []element.Option) (form.Element, error) {
	if p.Relationship == nil {
		return nil, fmt.Errorf("openapi: property %q needs %s", p.Name, ExtRelationship)
	}
	class, ok := b.classes[p.Relationship.Model]
	if !ok {
		return nil, fmt.Errorf("openapi: property %q: unknown model %q", p.Name, p.Relationship.Model)
	}
	return element.NewBelongsTo(p.Field, p.Relationship.Relation, p.Label, class, p.Relationship.Display, b.repo, opts...), nil
}

// Elements builds one element per property of schema.
func (b *Builder) Elements(schema *openapi3.Schema) ([]form.Element, error) {
	props, err := Properties(schema)
	if err != nil {
		return nil, err
	}
	out := make([]form.Element, 0, len(props))
	for _, p := range props {
		kind, ok := b.registry.Resolve(p)
		if !ok {
			return nil, fmt.Errorf("openapi: property %q: no element kind for type %q", p.Name, p.Type())
		}
		factory, ok := b.factories[kind]
		if !ok {
			return nil, fmt.Errorf("openapi: property %q: unknown element kind %q", p.Name, kind)
		}
		el, err := factory(p, elementOptions(p))
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// ComponentElements builds the elements of the named component schema.
func (b *Builder) ComponentElements(doc *openapi3.T, component string) ([]form.Element, error) {
	schema, err := Component(doc, component)
	if err != nil {
		return nil, err
	}
	return b.Elements(schema)
}

// Component returns the named component schema of doc.
func Component(doc *openapi3.T, name string) (*openapi3.Schema, error) {
	if doc == nil || doc.Components == nil {
		return nil, fmt.Errorf("openapi: document has no components")
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: component schema %q not found", name)
	}
	return ref.Value, nil
}

// Load parses and validates an OpenAPI document.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// LoadFile reads and loads the document at path.
func LoadFile(ctx context.Context, path string) (*openapi3.T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return Load(ctx, data)
}

func elementOptions(p Property) []element.Option {
	var opts []element.Option
	if p.Required {
		opts = append(opts, element.Required())
	}
	if rules := schemaRules(p); rules != "" {
		opts = append(opts, element.WithRules(rules))
	}
	if p.Schema.Description != "" {
		opts = append(opts, element.WithHelp(p.Schema.Description))
	}
	if p.Schema.Default != nil {
		opts = append(opts, element.WithDefault(p.Schema.Default))
	}
	if p.Schema.ReadOnly {
		opts = append(opts, element.AsReadonly())
	}
	if p.Hidden {
		opts = append(opts, element.Hidden())
	}
	return opts
}

// schemaRules maps schema constraints to validation rules. Enums are left to
// the select element, which adds its own "in" rule.
func schemaRules(p Property) string {
	s := p.Schema
	var rules []string
	switch p.Type() {
	case "integer":
		rules = append(rules, "integer")
		rules = appendBounds(rules, s.Min, s.Max)
	case "number":
		rules = append(rules, "numeric")
		rules = appendBounds(rules, s.Min, s.Max)
	case "string":
		if p.Format() == "email" {
			rules = append(rules, "email")
		}
		if s.MinLength > 0 {
			rules = append(rules, "min:"+strconv.FormatUint(s.MinLength, 10))
		}
		if s.MaxLength != nil {
			rules = append(rules, "max:"+strconv.FormatUint(*s.MaxLength, 10))
		}
	}
	return strings.Join(rules, "|")
}

func appendBounds(rules []string, minimum, maximum *float64) []string {
	if minimum != nil {
		rules = append(rules, "min:"+strconv.FormatFloat(*minimum, 'f', -1, 64))
	}
	if maximum != nil {
		rules = append(rules, "max:"+strconv.FormatFloat(*maximum, 'f', -1, 64))
	}
	return rules
}

func enumChoices(values []any) []form.Choice {
	out := make([]form.Choice, 0, len(values))
	for _, value := range values {
		text := fmt.Sprint(value)
		out = append(out, form.Choice{Value: text, Label: humanize(text)})
	}
	return out
}
