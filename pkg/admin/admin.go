// Package admin performs the row actions offered by the control column:
// soft delete, permanent destroy and restore. Each action re-checks the
// permission and trashed state the buttons are gated on, so a stale or forged
// request cannot bypass them.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"reflect"

	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
	"github.com/goliatone/go-admingen/pkg/repository"
)

var (
	// ErrForbidden is returned when the configuration or the row state does
	// not permit the action.
	ErrForbidden = errors.New("admin: action not permitted")
	// ErrVetoed is returned when a before-event handler aborts the action.
	ErrVetoed = form.ErrVetoed
	// ErrUnknownAction is returned by Perform for actions it does not handle.
	ErrUnknownAction = errors.New("admin: unknown action")
)

// Service runs row actions against a repository, resolving configurations
// from a registry.
type Service struct {
	registry *modelconfig.Registry
	repo     repository.Repository
	logger   *log.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger receiving action lines.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a Service.
func NewService(registry *modelconfig.Registry, repo repository.Repository, options ...Option) (*Service, error) {
	if registry == nil {
		return nil, errors.New("admin: registry is required")
	}
	if repo == nil {
		return nil, errors.New("admin: repository is required")
	}
	s := &Service{
		registry: registry,
		repo:     repo,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Perform dispatches a control column action. Edit is not a row action and
// returns ErrUnknownAction.
func (s *Service) Perform(ctx context.Context, action display.Action, class reflect.Type, key any) (entity.Entity, error) {
	switch action {
	case display.ActionDelete:
		return s.Delete(ctx, class, key)
	case display.ActionDestroy:
		return s.Destroy(ctx, class, key)
	case display.ActionRestore:
		return s.Restore(ctx, class, key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
}

// Delete soft deletes the live row of class with key.
func (s *Service) Delete(ctx context.Context, class reflect.Type, key any) (entity.Entity, error) {
	return s.run(ctx, class, key, step{
		action: display.ActionDelete,
		allow: func(cfg modelconfig.Configuration, row entity.Entity) bool {
			return !entity.IsTrashed(row) && cfg.IsDeletable(row)
		},
		before: modelconfig.EventDeleting,
		after:  modelconfig.EventDeleted,
		apply:  repository.Repository.Delete,
	})
}

// Destroy permanently removes the trashed row of class with key.
func (s *Service) Destroy(ctx context.Context, class reflect.Type, key any) (entity.Entity, error) {
	return s.run(ctx, class, key, step{
		action: display.ActionDestroy,
		allow: func(cfg modelconfig.Configuration, row entity.Entity) bool {
			return entity.IsTrashed(row) && cfg.IsDestroyable(row)
		},
		before: modelconfig.EventDestroying,
		after:  modelconfig.EventDestroyed,
		apply:  repository.Repository.Destroy,
	})
}

// Restore brings the trashed row of class with key back.
func (s *Service) Restore(ctx context.Context, class reflect.Type, key any) (entity.Entity, error) {
	return s.run(ctx, class, key, step{
		action: display.ActionRestore,
		allow: func(cfg modelconfig.Configuration, row entity.Entity) bool {
			return entity.IsTrashed(row) && cfg.IsRestorable(row)
		},
		before: modelconfig.EventRestoring,
		after:  modelconfig.EventRestored,
		apply:  repository.Repository.Restore,
	})
}

type step struct {
	action display.Action
	allow  func(modelconfig.Configuration, entity.Entity) bool
	before modelconfig.Event
	after  modelconfig.Event
	apply  func(repository.Repository, context.Context, entity.Entity) error
}

func (s *Service) run(ctx context.Context, class reflect.Type, key any, st step) (entity.Entity, error) {
	cfg, err := s.registry.Get(class)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}

	var row entity.Entity
	err = s.repo.Transaction(ctx, func(tx repository.Repository) error {
		found, err := tx.Find(ctx, class, key)
		if err != nil {
			return fmt.Errorf("admin: %s: %w", st.action, err)
		}
		row = found

		if !st.allow(cfg, row) {
			return fmt.Errorf("%w: %s %s %v", ErrForbidden, st.action, entity.ClassName(entity.ClassOf(class)), key)
		}
		if !cfg.FireEvent(ctx, st.before, row) {
			return fmt.Errorf("%w: %s", ErrVetoed, st.before)
		}
		if err := st.apply(tx, ctx, row); err != nil {
			return fmt.Errorf("admin: %s: %w", st.action, err)
		}
		cfg.FireEvent(ctx, st.after, row)
		return nil
	})
	if err != nil {
		s.logger.Printf("[WARN] admin: %s %s %v: %v", st.action, entity.ClassName(entity.ClassOf(class)), key, err)
		return nil, err
	}

	s.logger.Printf("[INFO] admin: %s %s %v", st.action, entity.ClassName(entity.ClassOf(class)), key)
	return row, nil
}
