package modelconfig_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
)

type article struct {
	entity.Model
	Title  string
	Locked bool
}

func TestSectionURLs(t *testing.T) {
	section, err := modelconfig.NewSection("articles", entity.ClassFor[article]())
	if err != nil {
		t.Fatalf("NewSection: %v", err)
	}

	got := []string{
		section.ListURL(),
		section.CreateURL(),
		section.EditURL(uint(7)),
		section.DeleteURL(uint(7)),
		section.DestroyURL("a b"),
		section.RestoreURL(7),
	}
	want := []string{
		"/admin/articles",
		"/admin/articles/create",
		"/admin/articles/7/edit",
		"/admin/articles/7/delete",
		"/admin/articles/a%20b/destroy",
		"/admin/articles/7/restore",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("urls mismatch (-want +got):\n%s", diff)
	}

	prefixed, err := modelconfig.NewSection("articles", entity.ClassFor[article](), modelconfig.WithURLPrefix("/cms/posts/"))
	if err != nil {
		t.Fatalf("NewSection: %v", err)
	}
	if got := prefixed.EditURL(1); got != "/cms/posts/1/edit" {
		t.Fatalf("EditURL with prefix = %q", got)
	}
}

func TestSectionGates(t *testing.T) {
	section, err := modelconfig.NewSection("articles", entity.ClassFor[article](),
		modelconfig.WithEditGate(func(row entity.Entity) bool {
			return !row.(*article).Locked
		}),
		modelconfig.WithDestroyGate(modelconfig.Allow(false)),
	)
	if err != nil {
		t.Fatalf("NewSection: %v", err)
	}

	if !section.IsEditable(&article{}) {
		t.Fatalf("unlocked article should be editable")
	}
	if section.IsEditable(&article{Locked: true}) {
		t.Fatalf("locked article should not be editable")
	}
	if !section.IsDeletable(&article{}) || !section.IsRestorable(&article{}) {
		t.Fatalf("missing gates default to allowed")
	}
	if section.IsDestroyable(&article{}) {
		t.Fatalf("destroy gate should deny")
	}
}

func TestNewSectionRejectsInvalidInput(t *testing.T) {
	if _, err := modelconfig.NewSection(" ", entity.ClassFor[article]()); err == nil {
		t.Fatalf("expected alias error")
	}
	if _, err := modelconfig.NewSection("models", entity.ClassFor[entity.Model]()); err == nil {
		t.Fatalf("expected abstract base to be rejected")
	}
}

func TestDispatcherVetoContract(t *testing.T) {
	d := modelconfig.NewDispatcher()
	var calls []string

	d.Listen(func(_ context.Context, event modelconfig.Event, _ entity.Entity) bool {
		calls = append(calls, "first:"+string(event))
		return false
	}, modelconfig.EventSaving, modelconfig.EventSaved)
	d.Listen(func(_ context.Context, event modelconfig.Event, _ entity.Entity) bool {
		calls = append(calls, "second:"+string(event))
		return true
	}, modelconfig.EventSaving, modelconfig.EventSaved)

	if d.Fire(context.Background(), modelconfig.EventSaving, &article{}) {
		t.Fatalf("expected saving to be vetoed")
	}
	if !d.Fire(context.Background(), modelconfig.EventSaved, &article{}) {
		t.Fatalf("after events must not veto")
	}

	want := []string{"first:saving", "first:saved", "second:saved"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("dispatch order mismatch (-want +got):\n%s", diff)
	}

	if !d.Fire(context.Background(), modelconfig.EventRestoring, nil) {
		t.Fatalf("events without handlers must pass")
	}
	var nilDispatcher *modelconfig.Dispatcher
	if !nilDispatcher.Fire(context.Background(), modelconfig.EventSaving, nil) {
		t.Fatalf("nil dispatcher must pass")
	}
}

func TestRegistry(t *testing.T) {
	registry := modelconfig.NewRegistry()
	section, err := modelconfig.NewSection("articles", entity.ClassFor[article]())
	if err != nil {
		t.Fatalf("NewSection: %v", err)
	}
	if err := registry.RegisterSection(section); err != nil {
		t.Fatalf("RegisterSection: %v", err)
	}
	if err := registry.RegisterSection(section); err == nil {
		t.Fatalf("expected duplicate alias error")
	}

	cfg, err := registry.Get(entity.ClassOf(&article{}))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg != modelconfig.Configuration(section) {
		t.Fatalf("unexpected configuration %#v", cfg)
	}

	found, err := registry.Section("articles")
	if err != nil || found != section {
		t.Fatalf("Section lookup = %v, %v", found, err)
	}
	if _, err := registry.Section("missing"); err == nil {
		t.Fatalf("expected missing alias error")
	}
	if diff := cmp.Diff([]string{"articles"}, registry.Aliases()); diff != "" {
		t.Fatalf("aliases mismatch (-want +got):\n%s", diff)
	}
	if err := registry.Register(entity.ClassFor[article](), section); err == nil {
		t.Fatalf("expected duplicate class error")
	}
}
