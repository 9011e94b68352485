package reminder

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/callbell/pkg/clock"
)

// Options configures a Store. Zero values fall back to the package defaults.
type Options struct {
	Capacity   int
	Expiry     time.Duration
	CloseDelay time.Duration
	Clock      clock.Clock
	Logger     zerolog.Logger
	// NewID generates display ids. Defaults to a "notif-" prefixed UUID.
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.Expiry <= 0 {
		o.Expiry = DefaultExpiry
	}
	if o.CloseDelay <= 0 {
		o.CloseDelay = DefaultCloseDelay
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.NewID == nil {
		o.NewID = func() string { return "notif-" + uuid.NewString() }
	}
	return o
}

type entry struct {
	n      Notification
	expiry clock.Timer
	fade   clock.Timer
}

// Store holds the notifications that are not yet removed. It is safe for
// concurrent use; renderer and alerter callbacks run outside the store lock.
type Store struct {
	opts     Options
	renderer Renderer
	alerter  Alerter

	mu        sync.Mutex
	order     []*entry // admission order, oldest first
	byDisplay map[string]*entry
	byCall    map[string]*entry
}

// NewStore creates a Store that reports to renderer and alerter.
func NewStore(renderer Renderer, alerter Alerter, opts Options) *Store {
	if alerter == nil {
		alerter = NopAlerter{}
	}
	return &Store{
		opts:      opts.withDefaults(),
		renderer:  renderer,
		alerter:   alerter,
		byDisplay: make(map[string]*entry),
		byCall:    make(map[string]*entry),
	}
}

// Admit displays rec unless a notification for the same call is already
// visible or closing. At capacity the oldest-admitted notification is
// discarded immediately, without a closing phase. It returns the new
// notification and true when rec was admitted.
func (s *Store) Admit(rec Record) (Notification, bool) {
	if rec.CallID == "" {
		s.opts.Logger.Warn().Str("phone", rec.Phone).Msg("rejecting reminder without call id")
		return Notification{}, false
	}

	s.mu.Lock()
	if _, ok := s.byCall[rec.CallID]; ok {
		s.mu.Unlock()
		return Notification{}, false
	}

	var evicted string
	if len(s.order) >= s.opts.Capacity {
		oldest := s.order[0]
		s.drop(oldest)
		evicted = oldest.n.DisplayID
	}

	e := &entry{n: Notification{
		DisplayID:  s.opts.NewID(),
		Record:     rec,
		State:      StateVisible,
		AdmittedAt: s.opts.Clock.Now(),
	}}
	id := e.n.DisplayID
	e.expiry = s.opts.Clock.AfterFunc(s.opts.Expiry, func() { s.expire(id) })

	s.order = append(s.order, e)
	s.byDisplay[id] = e
	s.byCall[rec.CallID] = e
	n := e.n
	s.mu.Unlock()

	if evicted != "" {
		s.opts.Logger.Debug().Str("display_id", evicted).Msg("evicted oldest notification")
		s.safely("remove", func() { s.renderer.Remove(evicted) })
	}

	s.opts.Logger.Info().
		Str("call_id", rec.CallID).
		Str("display_id", id).
		Msg("notification admitted")

	s.safely("show", func() { s.renderer.Show(n) })
	s.safely("alert", s.alerter.Alert)

	return n, true
}

// Close starts the closing phase of a visible notification: the expiry timer
// is cancelled and, after the close delay, the entry is removed. Closing an
// unknown or already closing notification is a no-op; Close reports whether
// it started a close.
func (s *Store) Close(displayID string) bool {
	s.mu.Lock()
	e, ok := s.byDisplay[displayID]
	if !ok || e.n.State != StateVisible {
		s.mu.Unlock()
		return false
	}

	if e.expiry != nil {
		e.expiry.Stop()
	}
	e.n.State = StateClosing
	e.fade = s.opts.Clock.AfterFunc(s.opts.CloseDelay, func() { s.finishClose(e) })
	s.mu.Unlock()

	s.safely("begin close", func() { s.renderer.BeginClose(displayID) })
	return true
}

// CloseCall closes the notification currently shown for callID, if any.
func (s *Store) CloseCall(callID string) bool {
	s.mu.Lock()
	e, ok := s.byCall[callID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return s.Close(e.n.DisplayID)
}

// Get returns the notification with the given display id.
func (s *Store) Get(displayID string) (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byDisplay[displayID]
	if !ok {
		return Notification{}, false
	}
	return e.n, true
}

// ByCallID returns the notification shown for callID.
func (s *Store) ByCallID(callID string) (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byCall[callID]
	if !ok {
		return Notification{}, false
	}
	return e.n, true
}

// List returns all non-removed notifications in admission order.
func (s *Store) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, 0, len(s.order))
	for _, e := range s.order {
		out = append(out, e.n)
	}
	return out
}

// Len returns the number of non-removed notifications.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Store) expire(displayID string) {
	if s.Close(displayID) {
		s.opts.Logger.Info().Str("display_id", displayID).Msg("notification expired")
	}
}

func (s *Store) finishClose(e *entry) {
	s.mu.Lock()
	if cur, ok := s.byDisplay[e.n.DisplayID]; !ok || cur != e {
		// evicted while closing
		s.mu.Unlock()
		return
	}
	s.drop(e)
	s.mu.Unlock()

	s.safely("remove", func() { s.renderer.Remove(e.n.DisplayID) })
}

// drop purges e and cancels its timers. Caller holds s.mu.
func (s *Store) drop(e *entry) {
	if e.expiry != nil {
		e.expiry.Stop()
	}
	if e.fade != nil {
		e.fade.Stop()
	}
	e.n.State = StateRemoved

	delete(s.byDisplay, e.n.DisplayID)
	if cur, ok := s.byCall[e.n.Record.CallID]; ok && cur == e {
		delete(s.byCall, e.n.Record.CallID)
	}
	for i, o := range s.order {
		if o == e {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// safely runs a display callback, converting a panic into a log line so one
// faulty surface cannot corrupt store state or stop later admissions.
func (s *Store) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.opts.Logger.Error().
				Str("callback", what).
				Str("panic", fmt.Sprint(r)).
				Msg("notification callback panicked")
		}
	}()
	fn()
}
