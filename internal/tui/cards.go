package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/render"
	"github.com/colonyops/callbell/internal/core/styles"
)

type card struct {
	n       reminder.Notification
	closing bool
}

// cardList mirrors the store's visible notifications in admission order.
type cardList struct {
	cards    []card
	selected int
}

func (l *cardList) show(n reminder.Notification) {
	for _, c := range l.cards {
		if c.n.DisplayID == n.DisplayID {
			return
		}
	}
	l.cards = append(l.cards, card{n: n})
}

func (l *cardList) beginClose(displayID string) {
	if i := l.index(displayID); i >= 0 {
		l.cards[i].closing = true
	}
}

// remove drops displayID. Unknown ids are ignored.
func (l *cardList) remove(displayID string) {
	i := l.index(displayID)
	if i < 0 {
		return
	}
	l.cards = append(l.cards[:i], l.cards[i+1:]...)
	if l.selected >= len(l.cards) {
		l.selected = max(len(l.cards)-1, 0)
	}
}

func (l *cardList) index(displayID string) int {
	for i, c := range l.cards {
		if c.n.DisplayID == displayID {
			return i
		}
	}
	return -1
}

func (l *cardList) len() int { return len(l.cards) }

// current returns the selected card if it can still be acted on.
func (l *cardList) current() (card, bool) {
	if l.selected < 0 || l.selected >= len(l.cards) {
		return card{}, false
	}
	c := l.cards[l.selected]
	if c.closing {
		return card{}, false
	}
	return c, true
}

func (l *cardList) move(delta int) {
	if len(l.cards) == 0 {
		l.selected = 0
		return
	}
	l.selected = min(max(l.selected+delta, 0), len(l.cards)-1)
}

const cardActions = "[c] call  [n] no answer  [d] done  [p] +10 min  [y] copy  [x] close"

func renderCard(c card, selected, pending bool, th styles.Theme, width int) string {
	rec := c.n.Record

	title := styles.IconBell + " Call due"
	if rec.ScheduledAt != "" {
		title += " " + render.Terminal(rec.ScheduledAt)
	}
	if rec.CallType != "" {
		title += "  " + th.CardMeta.Render(render.Terminal(rec.CallType))
	}

	lines := []string{th.CardTitle.Render(title)}
	if comment := strings.TrimSpace(render.Terminal(rec.Comment)); comment != "" {
		lines = append(lines, th.CardComment.Render(comment))
	}
	lines = append(lines, th.CardPhone.Render(styles.IconPhone+" "+render.Terminal(rec.Phone)))

	switch {
	case c.closing:
		lines = append(lines, th.CardMeta.Render("closing"))
	case pending:
		lines = append(lines, th.CardMeta.Render(styles.IconPending+" sending"))
	case selected:
		lines = append(lines, th.KeyHint.Render(cardActions))
	}

	style := th.Card
	switch {
	case c.closing:
		style = th.CardClosing
	case selected:
		style = th.CardSelected
	}

	inner := max(width-style.GetHorizontalFrameSize(), 10)
	return style.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
