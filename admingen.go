// Package admingen builds admin panels over gorm models: tables whose control
// column offers edit, delete, destroy and restore buttons gated by the model
// configuration, and forms that validate and save a model together with its
// belongs-to and has-one relations.
//
// The root package re-exports the common entry points; the building blocks
// live under pkg/.
package admingen

import (
	"context"
	"log"

	"github.com/goliatone/go-admingen/pkg/admin"
	"github.com/goliatone/go-admingen/pkg/config"
	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
	"github.com/goliatone/go-admingen/pkg/repository"
)

type (
	// Entity is implemented by every admin managed model.
	Entity = entity.Entity
	// Model is the embeddable gorm base with soft deletes.
	Model = entity.Model
	// Configuration answers permission and URL questions for a class.
	Configuration = modelconfig.Configuration
	// Registry stores configurations by class.
	Registry = modelconfig.Registry
	// Form binds elements to a model.
	Form = form.Form
	// Element is one input of a form.
	Element = form.Element
	// Table renders rows through columns.
	Table = display.Table
	// Column is implemented by every table column.
	Column = display.Column
)

// NewRegistry creates an empty configuration registry.
func NewRegistry() *Registry {
	return modelconfig.NewRegistry()
}

// NewForm creates a form over elements.
func NewForm(elements []Element, options ...form.Option) *Form {
	return form.New(elements, options...)
}

// NewControlColumn creates the action button column for cfg.
func NewControlColumn(cfg Configuration, options ...display.ColumnOption) *display.ControlColumn {
	return display.NewControlColumn(cfg, options...)
}

// NewCustomColumn creates a column rendering callback's result.
func NewCustomColumn(label string, callback display.ValueFunc, options ...display.ColumnOption) *display.CustomColumn {
	return display.NewCustomColumn(label, callback, options...)
}

// NewTable creates a table with columns in display order.
func NewTable(columns ...Column) *Table {
	return display.NewTable(columns...)
}

// Open connects to the database configured in cfg and wraps it in a gorm
// repository. logger receives query lines when not nil.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger, models ...any) (*repository.Gorm, error) {
	opts := cfg.Database.OpenOptions()
	opts.Logger = logger
	db, err := repository.Open(cfg.Database.Driver, cfg.Database.DSN, opts)
	if err != nil {
		return nil, err
	}
	repo := repository.NewGorm(db, repository.WithLogger(logger))
	if len(models) > 0 {
		if err := repo.Migrate(ctx, models...); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// NewActions creates the row action service.
func NewActions(registry *Registry, repo repository.Repository, options ...admin.Option) (*admin.Service, error) {
	return admin.NewService(registry, repo, options...)
}
