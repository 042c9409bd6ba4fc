// Package testsupport provides fixtures shared by package tests: an in-memory
// sqlite repository seeded with the demo entities and a recording model
// configuration.
package testsupport

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-admingen/internal/demo"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
	"github.com/goliatone/go-admingen/pkg/repository"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// SQLiteDSN returns a private shared-cache in-memory database name so
// connections of one test see the same data while tests stay isolated.
func SQLiteDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

// NewRepository opens an in-memory sqlite database, migrates the demo
// entities and returns a gorm repository over it.
func NewRepository(t *testing.T) *repository.Gorm {
	t.Helper()

	db, err := repository.Open("sqlite", SQLiteDSN(), repository.OpenOptions{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := repository.NewGorm(db)
	if err := repo.Migrate(Context(), demo.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo
}

// NewSeededRepository is NewRepository plus demo.Seed.
func NewSeededRepository(t *testing.T) *repository.Gorm {
	t.Helper()

	repo := NewRepository(t)
	if err := demo.Seed(Context(), repo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return repo
}

// Configuration is a modelconfig.Configuration that records fired events and
// vetoes the events it is told to.
type Configuration struct {
	Edit, Delete, Destroy, Restore bool

	mu     sync.Mutex
	vetoes map[modelconfig.Event]bool
	fired  []modelconfig.Event
}

var _ modelconfig.Configuration = (*Configuration)(nil)

// NewConfiguration returns a configuration permitting every action.
func NewConfiguration() *Configuration {
	return &Configuration{Edit: true, Delete: true, Destroy: true, Restore: true}
}

// VetoOn makes FireEvent return false for events.
func (c *Configuration) VetoOn(events ...modelconfig.Event) *Configuration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vetoes == nil {
		c.vetoes = make(map[modelconfig.Event]bool)
	}
	for _, event := range events {
		c.vetoes[event] = true
	}
	return c
}

// Fired returns the events dispatched so far, in order.
func (c *Configuration) Fired() []modelconfig.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]modelconfig.Event(nil), c.fired...)
}

func (c *Configuration) IsEditable(entity.Entity) bool    { return c.Edit }
func (c *Configuration) IsDeletable(entity.Entity) bool   { return c.Delete }
func (c *Configuration) IsDestroyable(entity.Entity) bool { return c.Destroy }
func (c *Configuration) IsRestorable(entity.Entity) bool  { return c.Restore }

func (c *Configuration) EditURL(key any) string    { return fmt.Sprintf("/admin/test/%v/edit", key) }
func (c *Configuration) DeleteURL(key any) string  { return fmt.Sprintf("/admin/test/%v/delete", key) }
func (c *Configuration) DestroyURL(key any) string { return fmt.Sprintf("/admin/test/%v/destroy", key) }
func (c *Configuration) RestoreURL(key any) string { return fmt.Sprintf("/admin/test/%v/restore", key) }

// FireEvent records event and applies the configured veto.
func (c *Configuration) FireEvent(_ context.Context, event modelconfig.Event, _ entity.Entity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fired = append(c.fired, event)
	return !c.vetoes[event]
}

// AssertEvents fails the test when the recorded events differ from want.
func AssertEvents(t *testing.T, cfg *Configuration, want ...modelconfig.Event) {
	t.Helper()
	if diff := cmp.Diff(want, cfg.Fired()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}
