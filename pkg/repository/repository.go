// Package repository persists admin entities. The gorm implementation is the
// default; forms and admin actions only depend on the Repository interface.
package repository

import (
	"context"
	"errors"
	"reflect"

	"github.com/goliatone/go-admingen/pkg/entity"
)

var (
	// ErrNotFound is returned when no row matches the requested key.
	ErrNotFound = errors.New("repository: record not found")
	// ErrNotSoftDeletable is returned by Restore for classes without a
	// soft-delete column.
	ErrNotSoftDeletable = errors.New("repository: entity does not support soft deletes")
)

// ListOptions narrows List results.
type ListOptions struct {
	// WithTrashed includes soft deleted rows.
	WithTrashed bool
	// OnlyTrashed returns soft deleted rows only. It implies WithTrashed.
	OnlyTrashed bool
	Limit       int
	Offset      int
	// Preload names relations loaded alongside each row.
	Preload []string
}

// Repository is the persistence contract of forms and admin actions.
type Repository interface {
	// Find loads the row of class with key, trashed rows included.
	Find(ctx context.Context, class reflect.Type, key any) (entity.Entity, error)
	List(ctx context.Context, class reflect.Type, opts ListOptions) ([]entity.Entity, error)
	// Save inserts or updates model without cascading into its relations.
	Save(ctx context.Context, model entity.Entity) error
	// Delete soft deletes model when its class supports it.
	Delete(ctx context.Context, model entity.Entity) error
	// Destroy removes model permanently.
	Destroy(ctx context.Context, model entity.Entity) error
	// Restore clears the soft-delete marker of model.
	Restore(ctx context.Context, model entity.Entity) error
	// Transaction runs fn against a repository bound to one transaction. An
	// error returned by fn rolls the transaction back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

// RelationResolver discovers the relations loaded on a model from its
// persistence mapping.
type RelationResolver interface {
	Relations(ctx context.Context, model entity.Entity) ([]entity.Relation, error)
}
