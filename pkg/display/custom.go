package display

import (
	"strings"

	"github.com/goliatone/go-admingen/pkg/entity"
)

// ValueFunc computes a cell value from a row.
type ValueFunc func(row entity.Entity) any

// CustomColumn renders the result of a user supplied callback. It never
// participates in sort-by-column.
type CustomColumn struct {
	TableColumn
	callback ValueFunc
}

var _ Column = (*CustomColumn)(nil)

// NewCustomColumn creates a column labelled label. callback may be nil and set
// later through SetCallback.
func NewCustomColumn(label string, callback ValueFunc, options ...ColumnOption) *CustomColumn {
	name := "custom"
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		name = "custom:" + strings.ToLower(trimmed)
	}
	base := append([]ColumnOption{WithLabel(label)}, options...)
	return &CustomColumn{
		TableColumn: newTableColumn(name, false, base),
		callback:    callback,
	}
}

// SetCallback replaces the value callback.
func (c *CustomColumn) SetCallback(callback ValueFunc) *CustomColumn {
	c.callback = callback
	return c
}

// Callback returns the value callback.
func (c *CustomColumn) Callback() ValueFunc { return c.callback }

// Value computes the value for row. A missing callback is a ConfigError.
func (c *CustomColumn) Value(row entity.Entity) (any, error) {
	if c.callback == nil {
		return nil, &ConfigError{Column: c.Name(), Reason: "invalid custom column callback"}
	}
	return c.callback(row), nil
}

// Render emits the callback value for the bound row.
func (c *CustomColumn) Render() (Cell, error) {
	cell, err := c.cell()
	if err != nil {
		return Cell{}, err
	}
	value, err := c.Value(c.Model())
	if err != nil {
		return Cell{}, err
	}
	cell.Value = value
	return cell, nil
}
