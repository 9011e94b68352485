package eventbus

import "sync"

// Observer receives bus lifecycle notifications. Nil fields are skipped.
type Observer struct {
	Published  func(Event)
	Dropped    func(Event)
	Subscribed func(Event)
	Panicked   func(event Event, recovered any)
}

type observers struct {
	mu   sync.RWMutex
	list []Observer
}

// Observe registers o for every later publish, drop, subscription and
// subscriber panic.
func (bus *EventBus) Observe(o Observer) {
	bus.observers.mu.Lock()
	bus.observers.list = append(bus.observers.list, o)
	bus.observers.mu.Unlock()
}

// send enqueues without blocking. A full buffer drops the event.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.notify(func(o Observer) {
			if o.Published != nil {
				o.Published(event)
			}
		})
	default:
		bus.notify(func(o Observer) {
			if o.Dropped != nil {
				o.Dropped(event)
			}
		})
	}
}

// notify calls fn for each observer outside the lock. An observer that
// panics does not stop the others.
func (bus *EventBus) notify(fn func(Observer)) {
	bus.observers.mu.RLock()
	list := make([]Observer, len(bus.observers.list))
	copy(list, bus.observers.list)
	bus.observers.mu.RUnlock()

	for _, o := range list {
		func() {
			defer func() { _ = recover() }()
			fn(o)
		}()
	}
}
