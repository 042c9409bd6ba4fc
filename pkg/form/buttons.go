package form

import (
	"net/http"

	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/i18n"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
)

// ButtonSet renders the form level buttons (save, cancel, ...). It receives
// the model configuration on Initialize and every model the form is bound
// to.
type ButtonSet interface {
	SetConfiguration(cfg modelconfig.Configuration)
	SetModel(model entity.Entity)
	Buttons() []ButtonView
}

// ButtonKind tells templates how to render a form button.
type ButtonKind string

const (
	ButtonSubmit ButtonKind = "submit"
	ButtonLink   ButtonKind = "link"
)

// ButtonView is one rendered form button.
type ButtonView struct {
	Name       string             `json:"name"`
	Label      string             `json:"label"`
	Kind       ButtonKind         `json:"kind"`
	Method     string             `json:"method,omitempty"`
	URL        string             `json:"url,omitempty"`
	Value      string             `json:"value,omitempty"`
	Attributes display.Attributes `json:"attributes,omitempty"`
}

// Submit values posted under NextActionField by the default buttons.
const (
	NextActionField  = "next_action"
	NextSaveAndEdit  = "save_and_continue"
	NextSaveAndClose = "save_and_close"
)

// lister is implemented by configurations that know their index page, such
// as modelconfig.Section.
type lister interface {
	ListURL() string
}

// DefaultButtons renders "save", "save and close", "cancel" and, for
// persisted rows the configuration lets the user delete, "delete".
type DefaultButtons struct {
	localizer  i18n.Localizer
	cfg        modelconfig.Configuration
	model      entity.Entity
	hideCancel bool
	hideDelete bool
}

var _ ButtonSet = (*DefaultButtons)(nil)

// ButtonOption customises DefaultButtons.
type ButtonOption func(*DefaultButtons)

// WithButtonLocalizer translates button labels through keys
// "admin.form.<name>".
func WithButtonLocalizer(l i18n.Localizer) ButtonOption {
	return func(b *DefaultButtons) { b.localizer = l }
}

// WithoutCancel drops the cancel link.
func WithoutCancel() ButtonOption {
	return func(b *DefaultButtons) { b.hideCancel = true }
}

// WithoutDelete drops the delete button.
func WithoutDelete() ButtonOption {
	return func(b *DefaultButtons) { b.hideDelete = true }
}

// NewDefaultButtons constructs the standard button set.
func NewDefaultButtons(options ...ButtonOption) *DefaultButtons {
	b := &DefaultButtons{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

func (b *DefaultButtons) SetConfiguration(cfg modelconfig.Configuration) { b.cfg = cfg }
func (b *DefaultButtons) SetModel(model entity.Entity)                   { b.model = model }

// Configuration returns the bound model configuration.
func (b *DefaultButtons) Configuration() modelconfig.Configuration { return b.cfg }

// Model returns the bound model.
func (b *DefaultButtons) Model() entity.Entity { return b.model }

// Buttons renders the set for the bound model.
func (b *DefaultButtons) Buttons() []ButtonView {
	out := []ButtonView{
		{
			Name:       NextSaveAndEdit,
			Label:      b.localizer.T("admin.form.save", "Save"),
			Kind:       ButtonSubmit,
			Value:      NextSaveAndEdit,
			Attributes: display.Attributes{"class": "btn btn-primary", "name": NextActionField},
		},
		{
			Name:       NextSaveAndClose,
			Label:      b.localizer.T("admin.form.save_and_close", "Save and close"),
			Kind:       ButtonSubmit,
			Value:      NextSaveAndClose,
			Attributes: display.Attributes{"class": "btn btn-success", "name": NextActionField},
		},
	}

	if !b.hideCancel {
		if list, ok := b.cfg.(lister); ok {
			out = append(out, ButtonView{
				Name:       "cancel",
				Label:      b.localizer.T("admin.form.cancel", "Cancel"),
				Kind:       ButtonLink,
				Method:     http.MethodGet,
				URL:        list.ListURL(),
				Attributes: display.Attributes{"class": "btn btn-link"},
			})
		}
	}

	if !b.hideDelete && b.cfg != nil && persisted(b.model) && !entity.IsTrashed(b.model) && b.cfg.IsDeletable(b.model) {
		out = append(out, ButtonView{
			Name:       "delete",
			Label:      b.localizer.T("admin.form.delete", "Delete"),
			Kind:       ButtonLink,
			Method:     http.MethodDelete,
			URL:        b.cfg.DeleteURL(b.model.PrimaryKey()),
			Attributes: display.Attributes{"class": "btn btn-danger btn-delete"},
		})
	}
	return out
}
