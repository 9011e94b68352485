// Package toast implements short-lived feedback messages. Toasts have no
// capacity bound and no deduplication; each one removes itself after a fixed
// display window and fade.
package toast

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/callbell/pkg/clock"
)

const (
	// DisplayWindow is how long a toast stays fully visible.
	DisplayWindow = 2 * time.Second
	// FadeDuration is the fade-out that follows the display window.
	FadeDuration = 300 * time.Millisecond
)

// State is the lifecycle position of a Toast.
type State int

const (
	StateVisible State = iota
	StateFading
)

// Toast is a single feedback message.
type Toast struct {
	ID        string
	Message   string
	IsError   bool
	State     State
	CreatedAt time.Time
}

type item struct {
	toast Toast
	timer clock.Timer
}

// Queue holds the active toasts, oldest first.
type Queue struct {
	clock clock.Clock

	mu        sync.Mutex
	items     []*item
	listeners []func()
}

// NewQueue creates a Queue. A nil clock uses the real clock.
func NewQueue(c clock.Clock) *Queue {
	if c == nil {
		c = clock.Real{}
	}
	return &Queue{clock: c}
}

// Show appends a toast and schedules its removal.
func (q *Queue) Show(message string, isError bool) Toast {
	it := &item{toast: Toast{
		ID:        "toast-" + uuid.NewString(),
		Message:   message,
		IsError:   isError,
		State:     StateVisible,
		CreatedAt: q.clock.Now(),
	}}

	q.mu.Lock()
	it.timer = q.clock.AfterFunc(DisplayWindow, func() { q.fade(it) })
	q.items = append(q.items, it)
	t := it.toast
	q.mu.Unlock()

	q.notify()
	return t
}

// Successf shows a success toast.
func (q *Queue) Successf(format string, args ...any) Toast {
	return q.Show(fmt.Sprintf(format, args...), false)
}

// Errorf shows an error toast.
func (q *Queue) Errorf(format string, args ...any) Toast {
	return q.Show(fmt.Sprintf(format, args...), true)
}

// Toasts returns a copy of the active toasts, oldest first.
func (q *Queue) Toasts() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Toast, 0, len(q.items))
	for _, it := range q.items {
		out = append(out, it.toast)
	}
	return out
}

// Len returns the number of active toasts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// OnChange registers fn to run whenever a toast is added, starts fading or
// is removed.
func (q *Queue) OnChange(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listeners = append(q.listeners, fn)
}

func (q *Queue) fade(it *item) {
	q.mu.Lock()
	it.toast.State = StateFading
	it.timer = q.clock.AfterFunc(FadeDuration, func() { q.remove(it) })
	q.mu.Unlock()

	q.notify()
}

func (q *Queue) remove(it *item) {
	q.mu.Lock()
	for i, cur := range q.items {
		if cur == it {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	q.mu.Unlock()

	q.notify()
}

func (q *Queue) notify() {
	q.mu.Lock()
	listeners := make([]func(), len(q.listeners))
	copy(listeners, q.listeners)
	q.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
