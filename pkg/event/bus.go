// Package event is a small synchronous event bus: named events, persistent
// and one-shot subscriptions, and handles that remove a subscription.
//
// A Bus is not safe for concurrent use. It is meant to be driven from a
// single UI loop, the same way ebiten drives Update.
package event

import "github.com/devin-hart/nox-contextmenu/pkg/geom"

// Event is what a Bus delivers to its handlers.
type Event struct {
	Type string

	// ContainerPoint is the pointer position in viewport pixels. It is only
	// meaningful when HasPoint is set.
	ContainerPoint geom.Point
	HasPoint       bool

	// Key names the key for keyboard events, e.g. "Escape".
	Key string

	// Target is the object the event was fired on.
	Target any

	// Data carries an event specific payload.
	Data any
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id      uint64
	fn      Handler
	once    bool
	removed bool
}

// Bus dispatches events by name.
type Bus struct {
	handlers map[string][]*subscription
	nextID   uint64
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]*subscription)}
}

// Handle identifies a subscription.
type Handle struct {
	id  uint64
	typ string
	bus *Bus
}

// Remove unsubscribes the handler. Removing twice, or removing the zero
// Handle, is a no-op.
func (h Handle) Remove() {
	if h.bus == nil {
		return
	}
	h.bus.remove(h.typ, h.id)
}

// On subscribes fn to every event of the given type.
func (b *Bus) On(typ string, fn Handler) Handle {
	return b.subscribe(typ, fn, false)
}

// Once subscribes fn to the next event of the given type only. The
// subscription is dropped before fn runs.
func (b *Bus) Once(typ string, fn Handler) Handle {
	return b.subscribe(typ, fn, true)
}

func (b *Bus) subscribe(typ string, fn Handler, once bool) Handle {
	if b.handlers == nil {
		b.handlers = make(map[string][]*subscription)
	}
	b.nextID++
	s := &subscription{id: b.nextID, fn: fn, once: once}
	b.handlers[typ] = append(b.handlers[typ], s)
	return Handle{id: s.id, typ: typ, bus: b}
}

func (b *Bus) remove(typ string, id uint64) {
	subs := b.handlers[typ]
	for i, s := range subs {
		if s.id == id {
			s.removed = true
			copy(subs[i:], subs[i+1:])
			subs[len(subs)-1] = nil
			subs = subs[:len(subs)-1]
			break
		}
	}
	if len(subs) == 0 {
		delete(b.handlers, typ)
		return
	}
	b.handlers[typ] = subs
}

// Listens reports whether anything is subscribed to typ.
func (b *Bus) Listens(typ string) bool {
	return len(b.handlers[typ]) > 0
}

// Fire delivers ev to the handlers subscribed to ev.Type, in subscription
// order. Handlers may subscribe or unsubscribe while the event is being
// dispatched: new subscriptions see the next event, and a handler removed
// by an earlier one is skipped.
func (b *Bus) Fire(ev Event) {
	subs := b.handlers[ev.Type]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)

	for _, s := range snapshot {
		if s.removed {
			continue
		}
		if s.once {
			b.remove(ev.Type, s.id)
		}
		s.fn(ev)
	}
}
