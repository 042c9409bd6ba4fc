package display

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/i18n"
)

var (
	// ErrNoRow is returned when a column renders before a row was bound.
	ErrNoRow = errors.New("display: column has no bound row")
	// ErrNoConfiguration is returned when a column needs a model
	// configuration that was not supplied.
	ErrNoConfiguration = errors.New("display: model configuration is required")
	// ErrNotInitialized is returned when a column renders before Initialize.
	ErrNotInitialized = errors.New("display: column is not initialized")
)

// ConfigError reports a misconfigured column. It is a programmer error and is
// always returned to the caller rather than rendered as an empty cell.
type ConfigError struct {
	Column string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Column == "" {
		return "display: " + e.Reason
	}
	return fmt.Sprintf("display: column %q: %s", e.Column, e.Reason)
}

// Column is implemented by every table column.
type Column interface {
	Name() string
	Header() Header
	Initialize() error
	SetModel(row entity.Entity)
	Render() (Cell, error)
}

// Header describes a column heading.
type Header struct {
	Name       string     `json:"name"`
	Label      string     `json:"label"`
	Width      string     `json:"width,omitempty"`
	Orderable  bool       `json:"orderable"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// Cell is the rendered output of a column for one row.
type Cell struct {
	Column     string       `json:"column"`
	Width      string       `json:"width,omitempty"`
	Attributes Attributes   `json:"attributes,omitempty"`
	Value      any          `json:"value,omitempty"`
	Buttons    []ButtonView `json:"buttons,omitempty"`
}

// ColumnOption customises the shared column settings.
type ColumnOption func(*TableColumn)

// WithLabel sets the header label.
func WithLabel(label string) ColumnOption {
	return func(c *TableColumn) { c.label = strings.TrimSpace(label) }
}

// WithWidth sets the rendered width.
func WithWidth(width string) ColumnOption {
	return func(c *TableColumn) { c.width = strings.TrimSpace(width) }
}

// WithAttribute sets a rendering attribute on the column.
func WithAttribute(name, value string) ColumnOption {
	return func(c *TableColumn) { c.attributes.Set(name, value) }
}

// WithLocalizer translates built-in labels.
func WithLocalizer(l i18n.Localizer) ColumnOption {
	return func(c *TableColumn) { c.localizer = l }
}

// TableColumn carries the state every column shares. Concrete columns embed
// it.
type TableColumn struct {
	name       string
	label      string
	width      string
	orderable  bool
	attributes Attributes
	localizer  i18n.Localizer
	row        entity.Entity
}

func newTableColumn(name string, orderable bool, options []ColumnOption) TableColumn {
	c := TableColumn{
		name:       strings.TrimSpace(name),
		orderable:  orderable,
		attributes: make(Attributes),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&c)
	}
	return c
}

func (c *TableColumn) Name() string  { return c.name }
func (c *TableColumn) Label() string { return c.label }
func (c *TableColumn) Width() string { return c.width }

// IsOrderable reports whether the column participates in sort-by-column UI.
func (c *TableColumn) IsOrderable() bool { return c.orderable }

// SetAttribute sets a column rendering attribute.
func (c *TableColumn) SetAttribute(name, value string) {
	c.attributes.Set(name, value)
}

// Attributes returns a copy of the column attributes.
func (c *TableColumn) Attributes() Attributes { return c.attributes.Clone() }

// SetModel binds the row rendered next.
func (c *TableColumn) SetModel(row entity.Entity) { c.row = row }

// Model returns the bound row.
func (c *TableColumn) Model() entity.Entity { return c.row }

// Initialize is a no-op for columns without setup.
func (c *TableColumn) Initialize() error { return nil }

// Header describes the column heading.
func (c *TableColumn) Header() Header {
	return Header{
		Name:       c.name,
		Label:      c.label,
		Width:      c.width,
		Orderable:  c.orderable,
		Attributes: c.attributes.Clone(),
	}
}

func (c *TableColumn) cell() (Cell, error) {
	if c.row == nil {
		return Cell{}, ErrNoRow
	}
	return Cell{
		Column:     c.name,
		Width:      c.width,
		Attributes: c.attributes.Clone(),
	}, nil
}
