package form

import (
	"context"

	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/request"
)

// Element is one unit of a form. Elements own the persistence of the fields
// they edit: Save assigns submitted input into the bound model before it is
// persisted, AfterSave runs once the model (and its key) exist.
type Element interface {
	SetModel(model entity.Entity)
	Initialize(ctx context.Context) error

	IsReadonly() bool
	IsVisible() bool

	ValidationRules() map[string]string
	ValidationMessages() map[string]string
	ValidationLabels() map[string]string

	Save(ctx context.Context, in request.Input) error
	AfterSave(ctx context.Context, in request.Input) error
}

// Aborter is implemented by elements whose Save has side effects outside the
// repository transaction. Abort undoes them when the save is rolled back.
type Aborter interface {
	Abort(ctx context.Context) error
}

// Uploader is implemented by elements that may submit files.
type Uploader interface {
	RequiresUpload() bool
}

// Viewer is implemented by elements that contribute to Form.View.
type Viewer interface {
	View() ElementView
}

// Choice is a selectable option of an element.
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// ElementView is the rendered description of an element, consumed by a
// template layer.
type ElementView struct {
	Type       string             `json:"type"`
	Name       string             `json:"name"`
	Label      string             `json:"label,omitempty"`
	Value      any                `json:"value,omitempty"`
	Help       string             `json:"help,omitempty"`
	Readonly   bool               `json:"readonly,omitempty"`
	Required   bool               `json:"required,omitempty"`
	Choices    []Choice           `json:"choices,omitempty"`
	Attributes display.Attributes `json:"attributes,omitempty"`
}

// eligible reports whether el takes part in validate and save passes.
func eligible(el Element) bool {
	return !el.IsReadonly() && el.IsVisible()
}

func requiresUpload(el Element) bool {
	uploader, ok := el.(Uploader)
	return ok && uploader.RequiresUpload()
}
