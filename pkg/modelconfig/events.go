package modelconfig

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-admingen/pkg/entity"
)

// Event names a lifecycle hook fired around validate, save, and row actions.
type Event string

const (
	EventValidating Event = "validating"
	EventSaving     Event = "saving"
	EventCreating   Event = "creating"
	EventUpdating   Event = "updating"
	EventCreated    Event = "created"
	EventUpdated    Event = "updated"
	EventSaved      Event = "saved"
	EventDeleting   Event = "deleting"
	EventDeleted    Event = "deleted"
	EventDestroying Event = "destroying"
	EventDestroyed  Event = "destroyed"
	EventRestoring  Event = "restoring"
	EventRestored   Event = "restored"
)

// Before reports whether handlers of e may veto the phase it precedes.
func (e Event) Before() bool {
	switch e {
	case EventValidating, EventSaving, EventCreating, EventUpdating,
		EventDeleting, EventDestroying, EventRestoring:
		return true
	default:
		return false
	}
}

// Handler reacts to a lifecycle event. Returning false from a before-event
// handler vetoes the phase; the return value of after-event handlers is
// ignored.
type Handler func(ctx context.Context, event Event, model entity.Entity) bool

// Dispatcher fans events out to registered handlers in registration order.
// The zero value is ready to use.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Event][]Handler
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Listen registers handler for the provided events.
func (d *Dispatcher) Listen(handler Handler, events ...Event) {
	if d == nil || handler == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handlers == nil {
		d.handlers = make(map[Event][]Handler)
	}
	for _, event := range events {
		event = Event(strings.TrimSpace(string(event)))
		if event == "" {
			continue
		}
		d.handlers[event] = append(d.handlers[event], handler)
	}
}

// Fire dispatches event. For before-events the first handler returning false
// stops dispatch and Fire returns false. After-events always reach every
// handler and report true.
func (d *Dispatcher) Fire(ctx context.Context, event Event, model entity.Entity) bool {
	if d == nil {
		return true
	}
	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers[event]...)
	d.mu.RUnlock()

	veto := event.Before()
	for _, handler := range handlers {
		if ok := handler(ctx, event, model); !ok && veto {
			return false
		}
	}
	return true
}

// Has reports whether any handler listens for event.
func (d *Dispatcher) Has(event Event) bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[event]) > 0
}
