package modelconfig

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/goliatone/go-admingen/pkg/entity"
)

// Configuration answers permission and URL questions for one entity class and
// dispatches its lifecycle events.
type Configuration interface {
	IsEditable(row entity.Entity) bool
	IsDeletable(row entity.Entity) bool
	IsDestroyable(row entity.Entity) bool
	IsRestorable(row entity.Entity) bool

	EditURL(key any) string
	DeleteURL(key any) string
	DestroyURL(key any) string
	RestoreURL(key any) string

	FireEvent(ctx context.Context, event Event, model entity.Entity) bool
}

// Gate decides whether an action is permitted for a row.
type Gate func(row entity.Entity) bool

// Allow returns a gate with a fixed answer.
func Allow(allowed bool) Gate {
	return func(entity.Entity) bool { return allowed }
}

// Section is the default Configuration: URLs are derived from a prefix and
// permissions come from gates, which default to allowed.
type Section struct {
	alias  string
	title  string
	prefix string
	class  reflect.Type

	canEdit    Gate
	canDelete  Gate
	canDestroy Gate
	canRestore Gate

	events *Dispatcher
}

var _ Configuration = (*Section)(nil)

// SectionOption customises a Section.
type SectionOption func(*Section)

// WithTitle sets the human readable section title.
func WithTitle(title string) SectionOption {
	return func(s *Section) {
		s.title = strings.TrimSpace(title)
	}
}

// WithURLPrefix overrides the base path used for generated URLs. It defaults
// to "/admin/<alias>".
func WithURLPrefix(prefix string) SectionOption {
	return func(s *Section) {
		if trimmed := strings.TrimRight(strings.TrimSpace(prefix), "/"); trimmed != "" {
			s.prefix = trimmed
		}
	}
}

// WithEditGate controls edit permission.
func WithEditGate(gate Gate) SectionOption {
	return func(s *Section) { s.canEdit = gate }
}

// WithDeleteGate controls soft-delete permission.
func WithDeleteGate(gate Gate) SectionOption {
	return func(s *Section) { s.canDelete = gate }
}

// WithDestroyGate controls hard-delete permission.
func WithDestroyGate(gate Gate) SectionOption {
	return func(s *Section) { s.canDestroy = gate }
}

// WithRestoreGate controls restore permission.
func WithRestoreGate(gate Gate) SectionOption {
	return func(s *Section) { s.canRestore = gate }
}

// WithDispatcher shares an event dispatcher with the section.
func WithDispatcher(dispatcher *Dispatcher) SectionOption {
	return func(s *Section) {
		if dispatcher != nil {
			s.events = dispatcher
		}
	}
}

// NewSection builds a Section for class under alias.
func NewSection(alias string, class reflect.Type, options ...SectionOption) (*Section, error) {
	alias = strings.Trim(strings.TrimSpace(alias), "/")
	if alias == "" {
		return nil, fmt.Errorf("modelconfig: section alias is required")
	}
	if !entity.IsEntityClass(class) {
		return nil, fmt.Errorf("modelconfig: section %q: %s is not an entity class", alias, entity.ClassName(class))
	}

	s := &Section{
		alias:  alias,
		title:  alias,
		prefix: "/admin/" + alias,
		class:  class,
		events: NewDispatcher(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Alias returns the section alias.
func (s *Section) Alias() string { return s.alias }

// Title returns the section title.
func (s *Section) Title() string { return s.title }

// Class returns the entity class the section manages.
func (s *Section) Class() reflect.Type { return s.class }

// Events exposes the dispatcher so callers can register handlers.
func (s *Section) Events() *Dispatcher { return s.events }

// Listen is shorthand for Events().Listen.
func (s *Section) Listen(handler Handler, events ...Event) *Section {
	s.events.Listen(handler, events...)
	return s
}

func (s *Section) IsEditable(row entity.Entity) bool    { return permitted(s.canEdit, row) }
func (s *Section) IsDeletable(row entity.Entity) bool   { return permitted(s.canDelete, row) }
func (s *Section) IsDestroyable(row entity.Entity) bool { return permitted(s.canDestroy, row) }
func (s *Section) IsRestorable(row entity.Entity) bool  { return permitted(s.canRestore, row) }

// ListURL returns the section index path.
func (s *Section) ListURL() string { return s.prefix }

// CreateURL returns the path of the create form.
func (s *Section) CreateURL() string { return s.prefix + "/create" }

func (s *Section) EditURL(key any) string    { return s.keyURL(key, "edit") }
func (s *Section) DeleteURL(key any) string  { return s.keyURL(key, "delete") }
func (s *Section) DestroyURL(key any) string { return s.keyURL(key, "destroy") }
func (s *Section) RestoreURL(key any) string { return s.keyURL(key, "restore") }

// FireEvent dispatches event through the section dispatcher.
func (s *Section) FireEvent(ctx context.Context, event Event, model entity.Entity) bool {
	return s.events.Fire(ctx, event, model)
}

func (s *Section) keyURL(key any, action string) string {
	return s.prefix + "/" + url.PathEscape(fmt.Sprint(key)) + "/" + action
}

func permitted(gate Gate, row entity.Entity) bool {
	if gate == nil {
		return true
	}
	return gate(row)
}
