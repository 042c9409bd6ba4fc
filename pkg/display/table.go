package display

import (
	"fmt"

	"github.com/goliatone/go-admingen/pkg/entity"
)

// Row is one rendered table row.
type Row struct {
	Key     any    `json:"key"`
	Trashed bool   `json:"trashed"`
	Cells   []Cell `json:"cells"`
}

// Table renders rows through an ordered set of columns.
type Table struct {
	columns     []Column
	initialized bool
}

// NewTable creates a table with columns in display order.
func NewTable(columns ...Column) *Table {
	t := &Table{}
	for _, column := range columns {
		if column != nil {
			t.columns = append(t.columns, column)
		}
	}
	return t
}

// Columns returns the configured columns.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// Initialize initializes every column once.
func (t *Table) Initialize() error {
	if t.initialized {
		return nil
	}
	for _, column := range t.columns {
		if err := column.Initialize(); err != nil {
			return fmt.Errorf("display: initialize column %q: %w", column.Name(), err)
		}
	}
	t.initialized = true
	return nil
}

// Headers describes the column headings.
func (t *Table) Headers() []Header {
	headers := make([]Header, 0, len(t.columns))
	for _, column := range t.columns {
		headers = append(headers, column.Header())
	}
	return headers
}

// Render binds each row to every column in turn. The first column error
// aborts rendering, as does a nil row.
func (t *Table) Render(rows []entity.Entity) ([]Row, error) {
	if err := t.Initialize(); err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(rows))
	for i, row := range rows {
		if entity.IsNil(row) {
			return nil, fmt.Errorf("display: render row %d: %w", i, ErrNoRow)
		}
		rendered := Row{
			Key:     row.PrimaryKey(),
			Trashed: entity.IsTrashed(row),
			Cells:   make([]Cell, 0, len(t.columns)),
		}
		for _, column := range t.columns {
			column.SetModel(row)
			cell, err := column.Render()
			if err != nil {
				return nil, fmt.Errorf("display: render row %v: %w", rendered.Key, err)
			}
			rendered.Cells = append(rendered.Cells, cell)
		}
		out = append(out, rendered)
	}
	return out, nil
}
