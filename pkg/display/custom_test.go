package display_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/entity"
)

func TestCustomColumnRendersCallbackValue(t *testing.T) {
	column := display.NewCustomColumn("Name", func(row entity.Entity) any {
		return row.(*post).Name
	})

	for _, row := range []*post{livePost(1), livePost(2), trashedPost(3)} {
		column.SetModel(row)
		cell, err := column.Render()
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if cell.Value != row.Name {
			t.Fatalf("value = %v, want %v", cell.Value, row.Name)
		}
	}

	if column.Header().Orderable {
		t.Fatalf("custom columns are never orderable")
	}
}

func TestCustomColumnWithoutCallbackFailsLoudly(t *testing.T) {
	column := display.NewCustomColumn("Broken", nil)
	column.SetModel(livePost(1))

	_, err := column.Render()
	var cfgErr *display.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Column != "custom:broken" {
		t.Fatalf("unexpected column in error: %q", cfgErr.Column)
	}

	table := display.NewTable(display.NewTextColumn("Name", ""), column)
	if _, err := table.Render([]entity.Entity{livePost(1)}); !errors.As(err, &cfgErr) {
		t.Fatalf("table must propagate ConfigError, got %v", err)
	}

	column.SetCallback(func(entity.Entity) any { return "ok" })
	if column.Callback() == nil {
		t.Fatalf("callback not stored")
	}
	if cell, err := column.Render(); err != nil || cell.Value != "ok" {
		t.Fatalf("Render after SetCallback = %#v, %v", cell, err)
	}
}

func TestTableRendersRows(t *testing.T) {
	control := display.NewControlColumn(allowAll())
	table := display.NewTable(
		display.NewTextColumn("Name", "Title"),
		display.NewCustomColumn("Shout", func(row entity.Entity) any {
			return row.(*post).Name + "!"
		}),
		control,
	)

	rows, err := table.Render([]entity.Entity{livePost(1), trashedPost(2)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	type summary struct {
		Key     any
		Trashed bool
		Name    any
		Shout   any
		Buttons int
	}
	var got []summary
	for _, row := range rows {
		got = append(got, summary{
			Key:     row.Key,
			Trashed: row.Trashed,
			Name:    row.Cells[0].Value,
			Shout:   row.Cells[1].Value,
			Buttons: len(row.Cells[2].Buttons),
		})
	}
	want := []summary{
		{Key: uint(1), Trashed: false, Name: "post-1", Shout: "post-1!", Buttons: 2},
		{Key: uint(2), Trashed: true, Name: "post-2", Shout: "post-2!", Buttons: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	headers := table.Headers()
	if headers[0].Label != "Title" || !headers[0].Orderable {
		t.Fatalf("unexpected text header %#v", headers[0])
	}
	if headers[2].Width != "90px" || headers[2].Orderable {
		t.Fatalf("unexpected control header %#v", headers[2])
	}
}

func TestTableRejectsNilRows(t *testing.T) {
	table := display.NewTable(display.NewTextColumn("Name", "Title"))

	var missing *post
	for name, rows := range map[string][]entity.Entity{
		"nil":       {livePost(1), nil},
		"typed nil": {livePost(1), missing},
	} {
		_, err := table.Render(rows)
		if !errors.Is(err, display.ErrNoRow) {
			t.Fatalf("%s: expected ErrNoRow, got %v", name, err)
		}
		if want := "display: render row 1: " + display.ErrNoRow.Error(); err.Error() != want {
			t.Fatalf("%s: error = %q, want %q", name, err.Error(), want)
		}
	}
}
