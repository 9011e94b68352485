package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/pkg/tuitest"
)

type fakeCalls struct {
	calls    []api.Call
	tracking []api.Tracking
	err      error
}

func (f fakeCalls) Calls(context.Context) ([]api.Call, error)        { return f.calls, f.err }
func (f fakeCalls) Tracking(context.Context) ([]api.Tracking, error) { return f.tracking, nil }

func TestFetchCallsCmd(t *testing.T) {
	assert.Nil(t, fetchCallsCmd(context.Background(), nil))

	src := fakeCalls{
		calls:    []api.Call{{ID: "1", Phone: "8900"}},
		tracking: []api.Tracking{{TrackingID: "5"}, {TrackingID: "6", Completed: true}},
	}
	msg, ok := fetchCallsCmd(context.Background(), src)().(callsLoadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Len(t, msg.calls, 1)
	assert.Len(t, msg.tracking, 2)

	msg = fetchCallsCmd(context.Background(), fakeCalls{err: errors.New("offline")})().(callsLoadedMsg)
	assert.EqualError(t, msg.err, "offline")
}

func TestCallsPane(t *testing.T) {
	th := styles.NewTheme(false)
	p := newCallsPane(th)
	p.setSize(100, 10)

	assert.Contains(t, tuitest.StripANSI(p.view(th, false)), "loading")

	p.setData(callsLoadedMsg{
		calls: []api.Call{
			{ID: "1", Phone: "8 900 111", Comment: "first", NextAttempt: "2025-03-14 09:00", NotificationStatus: "overdue"},
			{ID: "2", Phone: "8 900 222", Comment: "second", NextAttempt: "2025-03-14 10:00", NotificationStatus: "scheduled"},
		},
		tracking: []api.Tracking{{TrackingID: "5"}, {TrackingID: "6", Completed: true}},
	})

	assert.Equal(t, 1, p.openTracking())
	view := tuitest.StripANSI(p.view(th, true))
	assert.Contains(t, view, "Calls (2)")
	assert.Contains(t, view, "1 open tracking")
	assert.Contains(t, view, "8 900 111")

	call, ok := p.selected()
	require.True(t, ok)
	assert.Equal(t, "1", call.ID.String())

	p.table.MoveDown(1)
	call, _ = p.selected()
	assert.Equal(t, "2", call.ID.String())

	p.setData(callsLoadedMsg{err: errors.New("offline")})
	assert.Contains(t, tuitest.StripANSI(p.view(th, false)), "could not load calls: offline")
}
