package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/styles"
)

func note(id string) reminder.Notification {
	return reminder.Notification{
		DisplayID: id,
		Record:    reminder.Record{CallID: id, Phone: "89001234567", Comment: "<b>hi</b>"},
	}
}

func TestCardList_ShowIgnoresDuplicates(t *testing.T) {
	var l cardList
	l.show(note("a"))
	l.show(note("a"))
	assert.Equal(t, 1, l.len())
}

func TestCardList_RemoveClampsSelection(t *testing.T) {
	var l cardList
	l.show(note("a"))
	l.show(note("b"))
	l.move(1)
	require.Equal(t, 1, l.selected)

	l.remove("b")
	assert.Equal(t, 0, l.selected)
	l.remove("a")
	assert.Equal(t, 0, l.selected)

	_, ok := l.current()
	assert.False(t, ok)
}

func TestCardList_MoveBounds(t *testing.T) {
	var l cardList
	l.move(1)
	assert.Equal(t, 0, l.selected)

	l.show(note("a"))
	l.show(note("b"))
	l.move(5)
	assert.Equal(t, 1, l.selected)
	l.move(-5)
	assert.Equal(t, 0, l.selected)
}

func TestRenderCard(t *testing.T) {
	th := styles.NewTheme(false)
	c := card{n: note("a")}
	c.n.Record.ScheduledAt = "09:00"
	c.n.Record.CallType = "callback"

	out := renderCard(c, true, false, th, 80)
	assert.Contains(t, out, "09:00")
	assert.Contains(t, out, "89001234567")
	assert.Contains(t, out, "<b>hi</b>", "comment is shown literally")
	assert.Contains(t, out, "[d] done")

	c.closing = true
	out = renderCard(c, true, false, th, 80)
	assert.NotContains(t, out, "[d] done")
	assert.Contains(t, out, "closing")
}

func TestRenderCard_StripsControlSequences(t *testing.T) {
	th := styles.NewTheme(true)
	c := card{n: note("a")}
	c.n.Record.Comment = "evil\x1b[2Jcomment"

	out := renderCard(c, false, false, th, 80)
	assert.NotContains(t, out, "\x1b[2J")
}
