package element

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/request"
	"github.com/goliatone/go-admingen/pkg/storage"
)

// Upload stores a submitted file and writes its stored path into a string
// field. Without a submitted file the current value is kept.
type Upload struct {
	Field
	store    storage.Storage
	dir      string
	previous string
	stored   string
}

var (
	_ form.Uploader = (*Upload)(nil)
	_ form.Aborter  = (*Upload)(nil)
)

// NewUpload creates an upload element writing files into dir of store.
func NewUpload(attribute, label string, store storage.Storage, dir string, options ...Option) *Upload {
	return &Upload{
		Field: newField("upload", attribute, label, options),
		store: store,
		dir:   strings.Trim(strings.TrimSpace(dir), "/"),
	}
}

// RequiresUpload is always true; forms switch to multipart encoding.
func (u *Upload) RequiresUpload() bool { return true }

func (u *Upload) Initialize(ctx context.Context) error {
	if u.store == nil {
		return errors.New("element: upload element without storage")
	}
	return u.Field.Initialize(ctx)
}

// Save stores the submitted file and remembers the replaced one.
func (u *Upload) Save(ctx context.Context, in request.Input) error {
	u.previous, u.stored = "", ""
	header, ok := in.File(u.name)
	if !ok {
		return nil
	}
	if u.model == nil {
		return form.ErrNoModel
	}
	current, _ := entity.Field(u.model, u.attribute)
	stored, err := u.store.Store(ctx, header, u.dir)
	if err != nil {
		return fmt.Errorf("element: %s: %w", u.name, err)
	}
	u.stored = stored
	if previous, ok := current.(string); ok {
		u.previous = previous
	}
	return u.assign(stored)
}

// AfterSave removes the file replaced by this save.
func (u *Upload) AfterSave(ctx context.Context, _ request.Input) error {
	u.stored = ""
	if u.previous == "" {
		return nil
	}
	previous := u.previous
	u.previous = ""
	if err := u.store.Delete(ctx, previous); err != nil {
		return fmt.Errorf("element: %s: remove replaced file: %w", u.name, err)
	}
	return nil
}

// Abort removes the file stored by the last Save and puts the replaced path
// back into the field.
func (u *Upload) Abort(ctx context.Context) error {
	if u.stored == "" {
		return nil
	}
	stored, previous := u.stored, u.previous
	u.stored, u.previous = "", ""
	if err := u.assign(previous); err != nil {
		return err
	}
	if err := u.store.Delete(ctx, stored); err != nil {
		return fmt.Errorf("element: %s: remove aborted file: %w", u.name, err)
	}
	return nil
}

func (u *Upload) View() form.ElementView {
	view := u.Field.View()
	if stored, ok := view.Value.(string); ok && stored != "" && u.store != nil {
		view.Attributes.Set("data-url", u.store.URL(stored))
	}
	return view
}
