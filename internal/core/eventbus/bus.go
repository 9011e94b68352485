package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus delivers events asynchronously from a buffered queue. Publish
// never blocks; when the buffer is full the event is dropped and observers
// are told.
type EventBus struct {
	ch        chan envelope
	observers observers

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given buffer size. Call Start to begin delivery.
func New(buffer int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start delivers queued events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.notify(func(o Observer) {
						if o.Panicked != nil {
							o.Panicked(env.event, r)
						}
					})
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.notify(func(o Observer) {
		if o.Subscribed != nil {
			o.Subscribed(event)
		}
	})
}

// PublishCallsChanged enqueues a calls.changed event.
func (bus *EventBus) PublishCallsChanged(p CallsChangedPayload) {
	bus.send(EventCallsChanged, p)
}

// SubscribeCallsChanged registers fn for calls.changed events.
func (bus *EventBus) SubscribeCallsChanged(fn func(CallsChangedPayload)) {
	bus.subscribe(EventCallsChanged, func(p any) { fn(p.(CallsChangedPayload)) })
}

// PublishTrackingChanged enqueues a tracking.changed event.
func (bus *EventBus) PublishTrackingChanged(p TrackingChangedPayload) {
	bus.send(EventTrackingChanged, p)
}

// SubscribeTrackingChanged registers fn for tracking.changed events.
func (bus *EventBus) SubscribeTrackingChanged(fn func(TrackingChangedPayload)) {
	bus.subscribe(EventTrackingChanged, func(p any) { fn(p.(TrackingChangedPayload)) })
}

// PublishSettingsUpdated enqueues a settings.updated event.
func (bus *EventBus) PublishSettingsUpdated(p SettingsUpdatedPayload) {
	bus.send(EventSettingsUpdated, p)
}

// SubscribeSettingsUpdated registers fn for settings.updated events.
func (bus *EventBus) SubscribeSettingsUpdated(fn func(SettingsUpdatedPayload)) {
	bus.subscribe(EventSettingsUpdated, func(p any) { fn(p.(SettingsUpdatedPayload)) })
}
