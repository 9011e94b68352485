package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/core/render"
	"github.com/colonyops/callbell/internal/core/styles"
)

// CallsSource lists scheduled calls and tracked claims.
type CallsSource interface {
	Calls(ctx context.Context) ([]api.Call, error)
	Tracking(ctx context.Context) ([]api.Tracking, error)
}

const fetchTimeout = 10 * time.Second

func fetchCallsCmd(ctx context.Context, src CallsSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		calls, err := src.Calls(ctx)
		if err != nil {
			return callsLoadedMsg{err: err}
		}
		tracking, err := src.Tracking(ctx)
		if err != nil {
			return callsLoadedMsg{err: err}
		}
		return callsLoadedMsg{calls: calls, tracking: tracking}
	}
}

// callsPane shows the full call schedule below the reminder cards.
type callsPane struct {
	table    table.Model
	calls    []api.Call
	tracking []api.Tracking
	err      error
	loaded   bool
}

func newCallsPane(th styles.Theme) callsPane {
	t := table.New(
		table.WithColumns(callColumns(80)),
		table.WithHeight(8),
	)
	p := callsPane{table: t}
	p.applyTheme(th)
	return p
}

func callColumns(width int) []table.Column {
	fixed := 16 + 6 + 10 + 10 + 10
	comment := max(width-fixed-12, 12)
	return []table.Column{
		{Title: "Phone", Width: 16},
		{Title: "Comment", Width: comment},
		{Title: "Next", Width: 6},
		{Title: "In", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "Type", Width: 10},
	}
}

func (p *callsPane) applyTheme(th styles.Theme) {
	s := table.DefaultStyles()
	s.Header = th.TableHeader
	s.Selected = th.TableSelected
	p.table.SetStyles(s)
}

func (p *callsPane) setSize(width, height int) {
	p.table.SetColumns(callColumns(width))
	p.table.SetWidth(width)
	p.table.SetHeight(max(height, 3))
}

func (p *callsPane) setData(msg callsLoadedMsg) {
	p.loaded = true
	p.err = msg.err
	if msg.err != nil {
		return
	}
	p.calls = msg.calls
	p.tracking = msg.tracking

	rows := make([]table.Row, 0, len(p.calls))
	for _, c := range p.calls {
		rows = append(rows, table.Row{
			render.Terminal(c.Phone),
			render.Terminal(c.Comment),
			render.Terminal(c.NextAttempt),
			render.Terminal(c.TimeUntil),
			render.Terminal(c.NotificationStatus),
			render.Terminal(c.CallType),
		})
	}
	p.table.SetRows(rows)
}

// selected returns the call under the cursor.
func (p *callsPane) selected() (api.Call, bool) {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.calls) {
		return api.Call{}, false
	}
	return p.calls[i], true
}

func (p *callsPane) openTracking() int {
	n := 0
	for _, t := range p.tracking {
		if !t.Completed {
			n++
		}
	}
	return n
}

func (p *callsPane) view(th styles.Theme, focused bool) string {
	titleStyle := th.PaneTitle
	if focused {
		titleStyle = th.PaneTitleFocused
	}
	title := titleStyle.Render(fmt.Sprintf("%s Calls (%d)", styles.IconClock, len(p.calls)))
	meta := th.Muted.Render(fmt.Sprintf("  %d open tracking", p.openTracking()))

	var body string
	switch {
	case p.err != nil:
		body = th.StatusErr.Render("could not load calls: " + render.Terminal(p.err.Error()))
	case !p.loaded:
		body = th.Muted.Render("loading…")
	case len(p.calls) == 0:
		body = th.Muted.Render("no scheduled calls")
	default:
		body = p.table.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, title+meta, body)
}
