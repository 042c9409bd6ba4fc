package element

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/repository"
	"github.com/goliatone/go-admingen/pkg/request"
)

// BelongsTo selects the parent of a belongs-to relation. It writes the
// submitted key into the foreign key field and drops the loaded relation so
// the form's belongs-to pass does not overwrite the choice with the old
// parent.
type BelongsTo struct {
	Field
	relation string
	class    reflect.Type
	display  string
	repo     repository.Repository
	choices  []form.Choice
}

// NewBelongsTo creates a parent selector. foreignKey is the struct field
// holding the key ("AuthorID"), relation the struct field holding the loaded
// parent ("Author"), display the parent field used as choice label.
func NewBelongsTo(foreignKey, relation, label string, class reflect.Type, display string, repo repository.Repository, options ...Option) *BelongsTo {
	return &BelongsTo{
		Field:    newField("belongsTo", foreignKey, label, options),
		relation: strings.TrimSpace(relation),
		class:    entity.ClassOf(class),
		display:  strings.TrimSpace(display),
		repo:     repo,
	}
}

// Relation returns the struct field of the loaded parent.
func (b *BelongsTo) Relation() string { return b.relation }

// Initialize loads the selectable parents. Trashed parents are excluded.
func (b *BelongsTo) Initialize(ctx context.Context) error {
	if err := b.Field.Initialize(ctx); err != nil {
		return err
	}
	if b.repo == nil || b.class == nil {
		return nil
	}
	rows, err := b.repo.List(ctx, b.class, repository.ListOptions{})
	if err != nil {
		return fmt.Errorf("element: %s: load choices: %w", b.name, err)
	}

	b.choices = b.choices[:0]
	for _, row := range rows {
		label := fmt.Sprint(row.PrimaryKey())
		if b.display != "" {
			if value, ok := entity.Field(row, b.display); ok && value != nil {
				label = fmt.Sprint(value)
			}
		}
		b.choices = append(b.choices, form.Choice{Value: fmt.Sprint(row.PrimaryKey()), Label: label})
	}
	return nil
}

// Choices returns the parents loaded by Initialize.
func (b *BelongsTo) Choices() []form.Choice {
	return append([]form.Choice(nil), b.choices...)
}

func (b *BelongsTo) Save(_ context.Context, in request.Input) error {
	value, ok := in.Value(b.name)
	if !ok {
		return nil
	}
	if err := b.assign(strings.TrimSpace(value)); err != nil {
		return err
	}
	if b.relation != "" {
		if err := entity.SetField(b.model, b.relation, nil); err != nil {
			return fmt.Errorf("element: %s: reset relation: %w", b.name, err)
		}
	}
	return nil
}

func (b *BelongsTo) View() form.ElementView {
	view := b.Field.View()
	view.Choices = markSelected(b.choices, view.Value)
	return view
}

// HasOne edits one field of a has-one dependent ("Meta.Keywords"). The
// dependent is allocated on save when missing; the form's has-one pass
// links and persists it after the owner save.
type HasOne struct {
	Field
	relation string
}

// NewHasOne creates an input for field of the dependent held in relation.
func NewHasOne(relation, field, label string, options ...Option) *HasOne {
	relation = strings.TrimSpace(relation)
	return &HasOne{
		Field:    newField("hasOne", relation+"."+strings.TrimSpace(field), label, options),
		relation: relation,
	}
}

// Relation returns the struct field holding the dependent.
func (h *HasOne) Relation() string { return h.relation }

func (h *HasOne) Save(_ context.Context, in request.Input) error {
	value, ok := in.Value(h.name)
	if !ok {
		return nil
	}
	if h.model == nil {
		return form.ErrNoModel
	}
	if _, err := entity.EnsureRelated(h.model, h.relation); err != nil {
		return fmt.Errorf("element: %s: %w", h.name, err)
	}
	return h.assign(value)
}
