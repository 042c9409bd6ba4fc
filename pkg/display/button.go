package display

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-admingen/pkg/entity"
)

// ActivationRule decides whether a button is shown for a row.
type ActivationRule interface {
	Active(row entity.Entity) bool
}

// RuleFunc adapts a function into an ActivationRule.
type RuleFunc func(row entity.Entity) bool

// Active calls the underlying function.
func (fn RuleFunc) Active(row entity.Entity) bool {
	return fn(row)
}

// Always is an ActivationRule that never hides a button.
type Always struct{}

// Active returns true.
func (Always) Active(entity.Entity) bool { return true }

// URLProducer builds the target URL of a button for a row.
type URLProducer interface {
	URL(row entity.Entity) string
}

// URLFunc adapts a function into a URLProducer.
type URLFunc func(row entity.Entity) string

// URL calls the underlying function.
func (fn URLFunc) URL(row entity.Entity) string {
	return fn(row)
}

// StaticURL ignores the row and returns itself.
type StaticURL string

// URL returns the fixed URL.
func (u StaticURL) URL(entity.Entity) string { return string(u) }

// ActionButton is a single clickable row action. It is configured once when
// the column initializes and re-bound to every rendered row.
type ActionButton struct {
	name       string
	label      string
	icon       string
	method     string
	position   int
	url        URLProducer
	rule       ActivationRule
	showText   bool
	attributes Attributes
	row        entity.Entity
}

// ButtonView is the rendered form of an ActionButton.
type ButtonView struct {
	Name       string     `json:"name,omitempty"`
	Label      string     `json:"label"`
	Icon       string     `json:"icon,omitempty"`
	Method     string     `json:"method"`
	URL        string     `json:"url"`
	ShowText   bool       `json:"showText"`
	Position   int        `json:"position"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// NewActionButton creates a GET button that shows its label.
func NewActionButton(url URLProducer, label string, position int) *ActionButton {
	return &ActionButton{
		label:      strings.TrimSpace(label),
		method:     http.MethodGet,
		position:   position,
		url:        url,
		showText:   true,
		attributes: Attributes{"class": "btn btn-xs"},
	}
}

// Bind associates the button with row for subsequent URL and IsActive calls.
func (b *ActionButton) Bind(row entity.Entity) *ActionButton {
	b.row = row
	return b
}

// Row returns the bound row.
func (b *ActionButton) Row() entity.Entity { return b.row }

// IsActive evaluates the activation rule against the bound row. Unbound
// buttons are never active.
func (b *ActionButton) IsActive() bool {
	if b.row == nil {
		return false
	}
	if b.rule == nil {
		return true
	}
	return b.rule.Active(b.row)
}

// URL produces the target URL for the bound row.
func (b *ActionButton) URL() string {
	if b.row == nil || b.url == nil {
		return ""
	}
	return b.url.URL(b.row)
}

func (b *ActionButton) Name() string     { return b.name }
func (b *ActionButton) Label() string    { return b.label }
func (b *ActionButton) Icon() string     { return b.icon }
func (b *ActionButton) Method() string   { return b.method }
func (b *ActionButton) Position() int    { return b.position }
func (b *ActionButton) IsTextShown() bool { return b.showText }

// SetName names the button. Names are informational; the control column does
// not deduplicate on them.
func (b *ActionButton) SetName(name string) *ActionButton {
	b.name = strings.TrimSpace(name)
	return b
}

// SetLabel replaces the label.
func (b *ActionButton) SetLabel(label string) *ActionButton {
	b.label = strings.TrimSpace(label)
	return b
}

// SetIcon sets a CSS icon class list or inline SVG markup.
func (b *ActionButton) SetIcon(icon string) *ActionButton {
	b.icon = sanitizeIcon(icon)
	return b
}

// SetMethod sets the HTTP verb used to follow the button.
func (b *ActionButton) SetMethod(method string) *ActionButton {
	if trimmed := strings.ToUpper(strings.TrimSpace(method)); trimmed != "" {
		b.method = trimmed
	}
	return b
}

// SetPosition changes the sort key. Lower positions render first.
func (b *ActionButton) SetPosition(position int) *ActionButton {
	b.position = position
	return b
}

// SetURL replaces the URL producer.
func (b *ActionButton) SetURL(url URLProducer) *ActionButton {
	b.url = url
	return b
}

// SetCondition replaces the activation rule.
func (b *ActionButton) SetCondition(rule ActivationRule) *ActionButton {
	b.rule = rule
	return b
}

// Condition returns the activation rule.
func (b *ActionButton) Condition() ActivationRule { return b.rule }

// HideText renders the button as icon only.
func (b *ActionButton) HideText() *ActionButton {
	b.showText = false
	return b
}

// ShowText renders the label next to the icon.
func (b *ActionButton) ShowText() *ActionButton {
	b.showText = true
	return b
}

// SetAttribute sets a rendering attribute; class values accumulate.
func (b *ActionButton) SetAttribute(name, value string) *ActionButton {
	if b.attributes == nil {
		b.attributes = make(Attributes)
	}
	b.attributes.Set(name, value)
	return b
}

// Attributes returns a copy of the rendering attributes.
func (b *ActionButton) Attributes() Attributes {
	return b.attributes.Clone()
}

// View renders the button for the bound row.
func (b *ActionButton) View() ButtonView {
	return ButtonView{
		Name:       b.name,
		Label:      b.label,
		Icon:       b.icon,
		Method:     b.method,
		URL:        b.URL(),
		ShowText:   b.showText,
		Position:   b.position,
		Attributes: b.attributes.Clone(),
	}
}
