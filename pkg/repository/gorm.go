package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"reflect"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/goliatone/go-admingen/pkg/entity"
)

// Gorm implements Repository on a *gorm.DB.
type Gorm struct {
	db      *gorm.DB
	logger  *log.Logger
	schemas *sync.Map
}

var (
	_ Repository       = (*Gorm)(nil)
	_ RelationResolver = (*Gorm)(nil)
)

// Option customises a Gorm repository.
type Option func(*Gorm)

// WithLogger routes repository diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(g *Gorm) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGorm wraps db.
func NewGorm(db *gorm.DB, options ...Option) *Gorm {
	g := &Gorm{
		db:      db,
		logger:  log.New(io.Discard, "", 0),
		schemas: &sync.Map{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

// DB exposes the underlying connection, bound to the current transaction when
// the repository was handed to a Transaction callback.
func (g *Gorm) DB() *gorm.DB { return g.db }

// Migrate creates or updates the tables of models.
func (g *Gorm) Migrate(ctx context.Context, models ...any) error {
	if err := g.db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("repository: migrate: %w", err)
	}
	return nil
}

// Find loads a row by primary key. Soft deleted rows are returned so trashed
// rows can be restored or destroyed.
func (g *Gorm) Find(ctx context.Context, class reflect.Type, key any) (entity.Entity, error) {
	class = entity.ClassOf(class)
	model, err := entity.New(class)
	if err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	sch, err := g.schema(model)
	if err != nil {
		return nil, err
	}
	pk := sch.PrioritizedPrimaryField
	if pk == nil {
		return nil, fmt.Errorf("repository: %s has no primary key", entity.ClassName(class))
	}

	err = g.db.WithContext(ctx).Unscoped().
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: pk.DBName}, Value: key}).
		First(model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("repository: %s %v: %w", entity.ClassName(class), key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find %s %v: %w", entity.ClassName(class), key, err)
	}
	return model, nil
}

// List loads rows of class ordered by primary key.
func (g *Gorm) List(ctx context.Context, class reflect.Type, opts ListOptions) ([]entity.Entity, error) {
	class = entity.ClassOf(class)
	probe, err := entity.New(class)
	if err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	sch, err := g.schema(probe)
	if err != nil {
		return nil, err
	}

	query := g.db.WithContext(ctx).Model(probe)
	if opts.WithTrashed || opts.OnlyTrashed {
		query = query.Unscoped()
	}
	if opts.OnlyTrashed {
		field := deletedAtField(sch)
		if field == nil {
			return nil, fmt.Errorf("repository: list %s: %w", entity.ClassName(class), ErrNotSoftDeletable)
		}
		query = query.Where(clause.Neq{Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName}, Value: nil})
	}
	for _, relation := range opts.Preload {
		query = query.Preload(relation)
	}
	if pk := sch.PrioritizedPrimaryField; pk != nil {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: pk.DBName}})
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	rows := reflect.New(reflect.SliceOf(reflect.PointerTo(class)))
	if err := query.Find(rows.Interface()).Error; err != nil {
		return nil, fmt.Errorf("repository: list %s: %w", entity.ClassName(class), err)
	}

	slice := rows.Elem()
	out := make([]entity.Entity, 0, slice.Len())
	for i := 0; i < slice.Len(); i++ {
		if row, ok := slice.Index(i).Interface().(entity.Entity); ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// Save upserts model. Associations are skipped: forms persist relations in
// explicit passes around the owner save.
func (g *Gorm) Save(ctx context.Context, model entity.Entity) error {
	if model == nil {
		return errors.New("repository: save: nil model")
	}
	if err := g.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return fmt.Errorf("repository: save %s: %w", entity.ClassName(entity.ClassOf(model)), err)
	}
	g.logger.Printf("[INFO] saved %s %v", entity.ClassName(entity.ClassOf(model)), model.PrimaryKey())
	return nil
}

// Delete soft deletes model and refreshes its soft-delete marker.
func (g *Gorm) Delete(ctx context.Context, model entity.Entity) error {
	if model == nil {
		return errors.New("repository: delete: nil model")
	}
	db := g.db.WithContext(ctx)
	if err := db.Delete(model).Error; err != nil {
		return fmt.Errorf("repository: delete %s: %w", entity.ClassName(entity.ClassOf(model)), err)
	}
	if err := db.Unscoped().First(model).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("repository: reload %s: %w", entity.ClassName(entity.ClassOf(model)), err)
	}
	return nil
}

// Destroy removes model permanently, bypassing soft deletes.
func (g *Gorm) Destroy(ctx context.Context, model entity.Entity) error {
	if model == nil {
		return errors.New("repository: destroy: nil model")
	}
	if err := g.db.WithContext(ctx).Unscoped().Delete(model).Error; err != nil {
		return fmt.Errorf("repository: destroy %s: %w", entity.ClassName(entity.ClassOf(model)), err)
	}
	return nil
}

// Restore clears the soft-delete column and reloads model.
func (g *Gorm) Restore(ctx context.Context, model entity.Entity) error {
	if model == nil {
		return errors.New("repository: restore: nil model")
	}
	sch, err := g.schema(model)
	if err != nil {
		return err
	}
	field := deletedAtField(sch)
	if field == nil {
		return fmt.Errorf("repository: restore %s: %w", entity.ClassName(entity.ClassOf(model)), ErrNotSoftDeletable)
	}

	db := g.db.WithContext(ctx)
	if err := db.Unscoped().Model(model).Update(field.DBName, nil).Error; err != nil {
		return fmt.Errorf("repository: restore %s: %w", entity.ClassName(entity.ClassOf(model)), err)
	}
	if err := db.Unscoped().First(model).Error; err != nil {
		return fmt.Errorf("repository: reload %s: %w", entity.ClassName(entity.ClassOf(model)), err)
	}
	return nil
}

// Transaction runs fn inside a gorm transaction.
func (g *Gorm) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	if fn == nil {
		return nil
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx, logger: g.logger, schemas: g.schemas})
	})
}

func (g *Gorm) schema(model any) (*schema.Schema, error) {
	sch, err := schema.Parse(model, g.schemas, g.db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("repository: parse %T: %w", model, err)
	}
	return sch, nil
}

var deletedAtType = reflect.TypeOf(gorm.DeletedAt{})

func deletedAtField(sch *schema.Schema) *schema.Field {
	for _, field := range sch.Fields {
		if field.FieldType == deletedAtType && field.DBName != "" {
			return field
		}
	}
	return nil
}
