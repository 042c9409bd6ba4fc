package display

import (
	"strings"

	"github.com/goliatone/go-admingen/pkg/entity"
)

// TextColumn renders a struct field of the row. Dotted names reach into
// loaded relations ("Author.Name").
type TextColumn struct {
	TableColumn
	field string
}

var _ Column = (*TextColumn)(nil)

// NewTextColumn creates an orderable column for field.
func NewTextColumn(field, label string, options ...ColumnOption) *TextColumn {
	field = strings.TrimSpace(field)
	if strings.TrimSpace(label) == "" {
		label = field
	}
	base := append([]ColumnOption{WithLabel(label)}, options...)
	return &TextColumn{
		TableColumn: newTableColumn(field, !strings.Contains(field, "."), base),
		field:       field,
	}
}

// Render emits the field value, or nil when a relation on the path is not
// loaded.
func (c *TextColumn) Render() (Cell, error) {
	cell, err := c.cell()
	if err != nil {
		return Cell{}, err
	}
	if value, ok := entity.Field(c.Model(), c.field); ok {
		cell.Value = value
	}
	return cell, nil
}
