package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/core/config"
	"github.com/colonyops/callbell/internal/core/history"
	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/settings"
	"github.com/colonyops/callbell/internal/data/db"
	"github.com/colonyops/callbell/internal/devserver"
	"github.com/colonyops/callbell/internal/dispatch"
	"github.com/colonyops/callbell/pkg/clock"
	"github.com/colonyops/callbell/pkg/executil"
)

type recordingRenderer struct {
	mu    sync.Mutex
	shown []reminder.Notification
}

func (r *recordingRenderer) Show(n reminder.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, n)
}

func (r *recordingRenderer) BeginClose(string) {}
func (r *recordingRenderer) Remove(string)     {}

func newTestApp(t *testing.T) (*App, *devserver.Backend) {
	t.Helper()

	backend := devserver.NewBackend(clock.Real{}, time.UTC)
	srv := httptest.NewServer(devserver.NewServer(backend, zerolog.Nop()).Routes())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.API.BaseURL = srv.URL
	cfg.Reminder.CloseDelay = time.Minute

	database, err := db.Open(filepath.Join(dir, "callbell.db"), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	exec := &executil.RecordingExecutor{Available: map[string]bool{}}
	a, err := New(&cfg, database, exec)
	require.NoError(t, err)
	return a, backend
}

func TestApp_LoadSettingsPersistsSnapshot(t *testing.T) {
	a, backend := newTestApp(t)
	ctx := context.Background()

	want := settings.Settings{SoundEnabled: false, Volume: 35, DarkTheme: true}
	backend.SetSettings(want)

	got := a.LoadSettings(ctx)
	assert.Equal(t, want, got)
	assert.Equal(t, want, a.Settings.Get())

	saved, ok, err := a.State.LastSettings(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, saved)
}

func TestApp_LoadSettingsFallsBackToDefaults(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.State.SaveSettings(ctx, settings.Settings{SoundEnabled: false, Volume: 10, DarkTheme: true}))

	client, err := api.New(api.Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)
	a.Client = client

	got := a.LoadSettings(ctx)
	assert.Equal(t, settings.Defaults(), got)
	assert.Equal(t, settings.Defaults(), a.Settings.Get())

	saved, ok, err := a.State.LastSettings(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, settings.Defaults(), saved)
}

func TestApp_PollAndDispatch(t *testing.T) {
	a, backend := newTestApp(t)
	ctx := context.Background()

	id := backend.AddCall("call back", "8 900 123-45-67", devserver.CallTypeCallback, time.Now().Add(-time.Minute))

	r := &recordingRenderer{}
	a.Start(r)

	res, ok := a.Poller.Poll(ctx)
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Admitted)

	n, ok := a.Store.ByCallID(strconv.Itoa(id))
	require.True(t, ok)

	err := a.Dispatcher.Dispatch(ctx, dispatch.Request{
		Kind:      dispatch.KindPostpone,
		CallID:    n.Record.CallID,
		DisplayID: n.DisplayID,
	})
	require.NoError(t, err)

	got, ok := a.Store.Get(n.DisplayID)
	require.True(t, ok, "closing notifications are still tracked")
	assert.Equal(t, reminder.StateClosing, got.State)

	entries, err := a.History.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, string(dispatch.KindPostpone), entries[0].Kind)
	assert.False(t, entries[0].Failed())
}

func TestApp_RenderersDesktopDisabled(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Empty(t, a.Renderers())

	a.Config.Desktop.Enabled = true
	assert.Len(t, a.Renderers(), 1)
}

func TestApp_SweepPrunesOldHistory(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	_, err := a.History.Record(ctx, history.Entry{CallID: "1", Kind: "postpone", Timestamp: time.Now().Add(-HistoryRetention - time.Hour)})
	require.NoError(t, err)
	_, err = a.History.Record(ctx, history.Entry{CallID: "2", Kind: "postpone"})
	require.NoError(t, err)

	a.Sweep(ctx)

	entries, err := a.History.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].CallID)
}
