package tui

import "github.com/colonyops/callbell/internal/core/reminder"

// Renderer forwards store callbacks into the TUI. It never touches model
// state directly; the update loop applies the events.
type Renderer struct {
	buf *EventBuffer
}

var _ reminder.Renderer = (*Renderer)(nil)

func NewRenderer(buf *EventBuffer) *Renderer {
	return &Renderer{buf: buf}
}

func (r *Renderer) Show(n reminder.Notification) {
	r.buf.Push(cardShownEvent{n: n})
}

func (r *Renderer) BeginClose(displayID string) {
	r.buf.Push(cardClosingEvent{displayID: displayID})
}

func (r *Renderer) Remove(displayID string) {
	r.buf.Push(cardRemovedEvent{displayID: displayID})
}
