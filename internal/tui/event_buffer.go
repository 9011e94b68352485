package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// EventBuffer carries events produced on other goroutines (store timers,
// poller, event bus) into the bubbletea update loop. Pushes never block and
// the drain signal is coalesced.
type EventBuffer struct {
	mu     sync.Mutex
	events []any
	signal chan struct{}
}

func NewEventBuffer() *EventBuffer {
	return &EventBuffer{signal: make(chan struct{}, 1)}
}

// Push appends an event and emits a non-blocking drain signal.
func (b *EventBuffer) Push(ev any) {
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns all buffered events in push order and clears the buffer.
func (b *EventBuffer) Drain() []any {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]any, len(b.events))
	copy(out, b.events)
	b.events = b.events[:0]
	return out
}

// WaitForSignal blocks until there are events ready to drain.
func (b *EventBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return drainEventsMsg{}
	}
}
