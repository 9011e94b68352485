package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/callbell/internal/core/styles"
)

const maxCardsShown = 4

func (m Model) View() string {
	if m.errMsg != nil {
		return m.errMsg.view(m.theme, m.width, m.height)
	}
	if m.confirm != nil {
		return m.confirm.view(m.theme, m.width, m.height)
	}

	sections := []string{m.renderHeader(), m.renderCards(), m.pane.view(m.theme, m.focus == focusCalls)}

	if toasts := m.renderToastArea(); toasts != "" {
		sections = append(sections, toasts)
	}
	if m.status != "" {
		sections = append(sections, m.theme.Muted.Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render(styles.IconBell + " callbell")

	var poll string
	switch {
	case !m.polled:
		poll = m.theme.Muted.Render("connecting")
	case m.lastPoll.Err != nil:
		poll = m.theme.StatusErr.Render(styles.IconError + " backend unreachable")
	default:
		poll = m.theme.StatusOK.Render(fmt.Sprintf("%s %d due", styles.IconSuccess, m.lastPoll.Received))
	}

	sound := m.soundState()
	parts := []string{title, poll, sound}
	if m.opts.BaseURL != "" {
		parts = append(parts, m.theme.Muted.Render(m.opts.BaseURL))
	}
	return strings.Join(parts, "  "+m.theme.Muted.Render(styles.IconDot)+"  ")
}

func (m Model) soundState() string {
	switch {
	case !m.settings.SoundEnabled:
		return m.theme.Muted.Render("sound off")
	case m.opts.Audio == nil:
		return m.theme.Muted.Render("no audio")
	case !m.opts.Audio.Unlocked():
		return m.theme.Muted.Render("press any key to enable sound")
	default:
		return m.theme.StatusOK.Render(fmt.Sprintf("sound %d%%", m.settings.Volume))
	}
}

func (m Model) renderCards() string {
	titleStyle := m.theme.PaneTitle
	if m.focus == focusCards {
		titleStyle = m.theme.PaneTitleFocused
	}
	title := titleStyle.Render(fmt.Sprintf("Due now (%d)", m.cards.len()))

	if m.cards.len() == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.Muted.Render("nothing due"))
	}

	// Keep the selected card in view.
	start := 0
	if m.cards.selected >= maxCardsShown {
		start = m.cards.selected - maxCardsShown + 1
	}
	end := min(start+maxCardsShown, m.cards.len())

	rows := []string{title}
	for i := start; i < end; i++ {
		c := m.cards.cards[i]
		selected := m.focus == focusCards && i == m.cards.selected
		rows = append(rows, renderCard(c, selected, m.pending[c.n.DisplayID], m.theme, m.width))
	}
	if hidden := m.cards.len() - (end - start); hidden > 0 {
		rows = append(rows, m.theme.Muted.Render(fmt.Sprintf("+%d more", hidden)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderToastArea() string {
	if m.opts.Toasts == nil {
		return ""
	}
	return renderToasts(m.opts.Toasts.Toasts(), m.theme, m.width)
}

// paneHeight gives the call table whatever the cards leave over.
func (m Model) paneHeight() int {
	used := 3 + min(m.cards.len(), maxCardsShown)*6 + 4
	return m.height - used
}
