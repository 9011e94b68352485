package tui

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBuffer_DrainInOrder(t *testing.T) {
	b := NewEventBuffer()
	b.Push(cardRemovedEvent{displayID: "a"})
	b.Push(cardRemovedEvent{displayID: "b"})

	got := b.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, cardRemovedEvent{displayID: "a"}, got[0])
	assert.Equal(t, cardRemovedEvent{displayID: "b"}, got[1])

	assert.Nil(t, b.Drain())
}

func TestEventBuffer_SignalCoalesces(t *testing.T) {
	b := NewEventBuffer()
	for range 10 {
		b.Push(toastsChangedEvent{})
	}

	msg := b.WaitForSignal()()
	assert.IsType(t, drainEventsMsg{}, msg)
	assert.Len(t, b.Drain(), 10)

	select {
	case <-b.signal:
		t.Fatal("expected a single coalesced signal")
	default:
	}
}

func TestEventBuffer_ConcurrentPush(t *testing.T) {
	b := NewEventBuffer()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				b.Push(toastsChangedEvent{})
			}
		}()
	}
	wg.Wait()

	done := make(chan struct{})
	go func() {
		b.WaitForSignal()()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("signal not delivered")
	}
	assert.Len(t, b.Drain(), 400)
}
