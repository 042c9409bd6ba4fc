package openapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
)

// Extension keys read from property schemas.
const (
	ExtField        = "x-admin-field"
	ExtLabel        = "x-admin-label"
	ExtWidget       = "x-admin-widget"
	ExtHidden       = "x-admin-hidden"
	ExtOrder        = "x-admin-order"
	ExtRelationship = "x-admin-relationship"
)

// Relationship is the decoded x-admin-relationship extension.
//
//	x-admin-relationship:
//	  type: belongsTo      # or hasOne
//	  model: author        # class name passed to WithClasses (belongsTo)
//	  relation: Author     # struct field holding the related entity
//	  display: Name        # parent field used as choice label (belongsTo)
//	  field: Keywords      # dependent field edited (hasOne)
type Relationship struct {
	Type     string
	Model    string
	Relation string
	Display  string
	Field    string
}

// Property is one schema property prepared for element building.
type Property struct {
	// Name is the property key in the schema, for example "author_id".
	Name string
	// Field is the Go struct field path, for example "AuthorID".
	Field        string
	Label        string
	Required     bool
	Hidden       bool
	Order        int
	Widget       string
	Relationship *Relationship
	Schema       *openapi3.Schema
}

// Type returns the first declared schema type.
func (p Property) Type() string {
	if p.Schema == nil || p.Schema.Type == nil {
		return ""
	}
	values := p.Schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Format returns the lower-cased schema format.
func (p Property) Format() string {
	if p.Schema == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(p.Schema.Format))
}

// Properties lists the properties of an object schema ordered by
// x-admin-order, then by name.
func Properties(schema *openapi3.Schema) ([]Property, error) {
	if schema == nil {
		return nil, fmt.Errorf("openapi: schema is nil")
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	out := make([]Property, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop, err := newProperty(name, ref.Value, required[name])
		if err != nil {
			return nil, err
		}
		out = append(out, prop)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order == out[j].Order {
			return out[i].Name < out[j].Name
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func newProperty(name string, schema *openapi3.Schema, required bool) (Property, error) {
	ext := schema.Extensions
	p := Property{
		Name:     name,
		Field:    extString(ext, ExtField),
		Label:    extString(ext, ExtLabel),
		Required: required,
		Hidden:   extBool(ext, ExtHidden),
		Widget:   extString(ext, ExtWidget),
		Schema:   schema,
	}
	if p.Field == "" {
		p.Field = goName(name)
	}
	if p.Label == "" {
		p.Label = strings.TrimSpace(schema.Title)
	}
	if p.Label == "" {
		p.Label = humanize(name)
	}

	if raw, ok := ext[ExtOrder]; ok {
		order, err := toInt(raw)
		if err != nil {
			return Property{}, fmt.Errorf("openapi: property %q: %s: %w", name, ExtOrder, err)
		}
		p.Order = order
	}

	if raw, ok := ext[ExtRelationship]; ok {
		rel, err := decodeRelationship(raw)
		if err != nil {
			return Property{}, fmt.Errorf("openapi: property %q: %w", name, err)
		}
		p.Relationship = rel
	}
	return p, nil
}

func decodeRelationship(raw any) (*Relationship, error) {
	values, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", ExtRelationship)
	}
	rel := &Relationship{
		Type:     extString(values, "type"),
		Model:    extString(values, "model"),
		Relation: extString(values, "relation"),
		Display:  extString(values, "display"),
		Field:    extString(values, "field"),
	}
	switch rel.Type {
	case KindBelongsTo:
		if rel.Model == "" {
			return nil, fmt.Errorf("%s: belongsTo needs a model", ExtRelationship)
		}
	case KindHasOne:
		if rel.Relation == "" || rel.Field == "" {
			return nil, fmt.Errorf("%s: hasOne needs relation and field", ExtRelationship)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported type %q", ExtRelationship, rel.Type)
	}
	return rel, nil
}

func extString(ext map[string]any, key string) string {
	if ext == nil {
		return ""
	}
	if value, ok := ext[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func extBool(ext map[string]any, key string) bool {
	if ext == nil {
		return false
	}
	switch value := ext[key].(type) {
	case bool:
		return value
	case string:
		parsed, _ := strconv.ParseBool(value)
		return parsed
	default:
		return false
	}
}

func toInt(raw any) (int, error) {
	switch value := raw.(type) {
	case float64:
		return int(value), nil
	case int:
		return value, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(value))
	default:
		return 0, fmt.Errorf("unexpected %T", raw)
	}
}

var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uuid": "UUID",
	"api":  "API",
	"html": "HTML",
	"ip":   "IP",
}

// goName maps a snake or kebab property key to an exported Go field name:
// "author_id" becomes "AuthorID".
func goName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, part := range parts {
		if upper, ok := initialisms[strings.ToLower(part)]; ok {
			b.WriteString(upper)
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

func humanize(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(words) == 0 {
		return name
	}
	if strings.EqualFold(words[len(words)-1], "id") && len(words) > 1 {
		words = words[:len(words)-1]
	}
	label := strings.ToLower(strings.Join(words, " "))
	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
