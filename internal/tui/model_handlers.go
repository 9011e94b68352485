package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/dispatch"
)

const (
	keyEnter = "enter"
	keyEsc   = "esc"
)

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.pane.setSize(msg.Width, m.paneHeight())
	return m, nil
}

// handleEvents applies everything collected in the buffer since the last
// drain and re-arms the wait.
func (m Model) handleEvents() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.buf.WaitForSignal()}
	refetch := false

	for _, ev := range m.buf.Drain() {
		switch ev := ev.(type) {
		case cardShownEvent:
			m.cards.show(ev.n)
		case cardClosingEvent:
			m.cards.beginClose(ev.displayID)
		case cardRemovedEvent:
			m.cards.remove(ev.displayID)
			delete(m.pending, ev.displayID)
		case toastsChangedEvent:
			// Toasts are read at render time.
		case callsStaleEvent:
			refetch = true
		case settingsEvent:
			m.applySettings(ev)
		case pollResultEvent:
			m.lastPoll = ev.r
			m.polled = true
		}
	}

	if refetch {
		cmds = append(cmds, fetchCallsCmd(m.ctx, m.opts.Calls))
	}
	m.pane.setSize(m.width, m.paneHeight())
	return m, tea.Batch(cmds...)
}

func (m *Model) applySettings(ev settingsEvent) {
	if ev.s.DarkTheme != m.settings.DarkTheme {
		m.theme = styles.NewTheme(ev.s.DarkTheme)
		m.pane.applyTheme(m.theme)
	}
	m.settings = ev.s
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, msg.req.DisplayID)

	action, _ := dispatch.Lookup(msg.req.Kind)
	switch {
	case msg.err == nil:
		m.status = action.Success
	case errors.Is(msg.err, dispatch.ErrNotConfirmed):
		m.confirm = newConfirmModal("Confirm", action.Confirm, msg.req)
	default:
		m.errMsg = &errorModal{
			title:   "Action failed",
			message: msg.err.Error(),
		}
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any keypress counts as the user gesture that allows sound.
	if m.opts.Audio != nil && !m.opts.Audio.Unlocked() {
		m.opts.Audio.Unlock()
	}

	if m.errMsg != nil {
		switch msg.String() {
		case keyEnter, keyEsc, "q":
			m.errMsg = nil
		}
		return m, nil
	}
	if m.confirm != nil {
		return m.handleConfirmModalKey(msg.String())
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusCards {
			m.focus = focusCalls
		} else {
			m.focus = focusCards
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if m.opts.Poller != nil {
			m.opts.Poller.Trigger()
		}
		m.status = "refreshing"
		return m, fetchCallsCmd(m.ctx, m.opts.Calls)
	}

	if m.focus == focusCalls {
		return m.handleCallsKey(msg)
	}
	return m.handleCardKey(msg)
}

func (m Model) handleConfirmModalKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "left", "right", "h", "l", "tab":
		m.confirm.toggle()
		return m, nil
	case "y":
		m.confirm.confirmSelected = true
	case "n", keyEsc:
		m.confirm = nil
		return m, nil
	case keyEnter:
	default:
		return m, nil
	}

	c := m.confirm
	m.confirm = nil
	if !c.confirmSelected {
		return m, nil
	}
	req := c.req
	req.Confirmed = true
	return m.startAction(req)
}

func (m Model) handleCardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cards.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cards.move(1)
		return m, nil
	}

	c, ok := m.cards.current()
	if !ok || m.pending[c.n.DisplayID] {
		return m, nil
	}
	rec := c.n.Record
	d := m.opts.Dispatcher

	switch {
	case key.Matches(msg, m.keys.Call):
		return m, m.sideAction("call", func() error {
			return d.DialAndClose(m.ctx, c.n.DisplayID, rec.Phone)
		})
	case key.Matches(msg, m.keys.Copy):
		return m, m.sideAction("copy", func() error {
			return d.CopyAndClose(c.n.DisplayID, rec.Phone)
		})
	case key.Matches(msg, m.keys.Close):
		if m.opts.Closer != nil {
			m.opts.Closer.Close(c.n.DisplayID)
		}
		return m, nil
	case key.Matches(msg, m.keys.NoAnswer):
		return m.requestAction(dispatch.KindNoAnswer, c)
	case key.Matches(msg, m.keys.Complete):
		return m.requestAction(dispatch.KindComplete, c)
	case key.Matches(msg, m.keys.Postpone):
		return m.requestAction(dispatch.KindPostpone, c)
	}
	return m, nil
}

func (m Model) handleCallsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.pane.table.MoveUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.pane.table.MoveDown(1)
		return m, nil
	}

	call, ok := m.pane.selected()
	if !ok {
		return m, nil
	}
	d := m.opts.Dispatcher

	switch {
	case key.Matches(msg, m.keys.Call):
		return m, m.sideAction("call", func() error {
			_, err := d.Dial(m.ctx, call.Phone)
			return err
		})
	case key.Matches(msg, m.keys.Copy):
		return m, m.sideAction("copy", func() error {
			_, err := d.Copy(call.Phone)
			return err
		})
	}
	return m, nil
}

func (m Model) requestAction(kind dispatch.Kind, c card) (tea.Model, tea.Cmd) {
	req := dispatch.Request{
		Kind:      kind,
		CallID:    c.n.Record.CallID,
		DisplayID: c.n.DisplayID,
	}
	if action, ok := dispatch.Lookup(kind); ok && action.RequiresConfirmation() {
		m.confirm = newConfirmModal("Confirm", action.Confirm, req)
		return m, nil
	}
	return m.startAction(req)
}

// startAction dispatches req off the update loop. The card is marked
// pending so repeated keys cannot send the same mutation twice.
func (m Model) startAction(req dispatch.Request) (tea.Model, tea.Cmd) {
	if m.pending[req.DisplayID] {
		return m, nil
	}
	m.pending[req.DisplayID] = true
	m.status = ""

	ctx, d := m.ctx, m.opts.Dispatcher
	return m, func() tea.Msg {
		return actionDoneMsg{req: req, err: d.Dispatch(ctx, req)}
	}
}

func (m Model) sideAction(label string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return sideActionDoneMsg{label: label, err: fn()}
	}
}
