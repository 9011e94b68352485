package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/core/eventbus"
	"github.com/colonyops/callbell/internal/core/eventbus/testbus"
	"github.com/colonyops/callbell/internal/core/history"
	"github.com/colonyops/callbell/internal/core/phone"
	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/toast"
	"github.com/colonyops/callbell/pkg/clock"
	"github.com/colonyops/callbell/pkg/executil"
)

type postCall struct {
	Path   string
	CallID string
}

type fakePoster struct {
	mu    sync.Mutex
	calls []postCall
	err   error
}

func (p *fakePoster) CallAction(_ context.Context, path, callID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, postCall{Path: path, CallID: callID})
	return p.err
}

type memRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (r *memRecorder) Record(_ context.Context, e history.Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return int64(len(r.entries)), nil
}

type nopRenderer struct{}

func (nopRenderer) Show(reminder.Notification) {}
func (nopRenderer) BeginClose(string)          {}
func (nopRenderer) Remove(string)              {}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fixture struct {
	d      *Dispatcher
	poster *fakePoster
	store  *reminder.Store
	bus    *testbus.Bus
	toasts *toast.Queue
	exec   *executil.RecordingExecutor
	clip   *fakeClipboard
	rec    *memRecorder
	clock  *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fc := clock.NewFake(time.Unix(0, 0))
	f := &fixture{
		poster: &fakePoster{},
		store:  reminder.NewStore(nopRenderer{}, reminder.NopAlerter{}, reminder.Options{Clock: fc, Logger: zerolog.Nop()}),
		bus:    testbus.New(t),
		toasts: toast.NewQueue(fc),
		exec:   &executil.RecordingExecutor{},
		clip:   &fakeClipboard{},
		rec:    &memRecorder{},
		clock:  fc,
	}
	f.d = New(Options{
		Poster:    f.poster,
		Closer:    f.store,
		Publisher: f.bus,
		Toasts:    f.toasts,
		Launcher:  ExecLauncher{Exec: f.exec, Opener: "xdg-open"},
		Clipboard: f.clip,
		Recorder:  f.rec,
		Logger:    zerolog.Nop(),
	})
	return f
}

func (f *fixture) admit(t *testing.T, callID string) reminder.Notification {
	t.Helper()
	n, ok := f.store.Admit(reminder.Record{CallID: callID, Phone: "8 (999) 123-45-67"})
	require.True(t, ok)
	return n
}

func TestDispatch_NoAnswerClosesAndRefreshesCalls(t *testing.T) {
	f := newFixture(t)
	n := f.admit(t, "42")

	err := f.d.Dispatch(context.Background(), Request{Kind: KindNoAnswer, CallID: "42", DisplayID: n.DisplayID})
	require.NoError(t, err)

	assert.Equal(t, []postCall{{Path: api.PathCallNoAnswer, CallID: "42"}}, f.poster.calls)

	got, _ := f.store.Get(n.DisplayID)
	assert.Equal(t, reminder.StateClosing, got.State)
	f.clock.Advance(reminder.DefaultCloseDelay)
	assert.Equal(t, 0, f.store.Len())

	f.bus.AssertPublished(t, eventbus.EventCallsChanged)
	f.bus.AssertNotPublished(t, eventbus.EventTrackingChanged, 50*time.Millisecond)
}

func TestDispatch_CompleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	n := f.admit(t, "7")

	err := f.d.Dispatch(context.Background(), Request{Kind: KindComplete, CallID: "7", DisplayID: n.DisplayID})
	require.ErrorIs(t, err, ErrNotConfirmed)
	assert.Empty(t, f.poster.calls, "nothing sent without confirmation")

	got, _ := f.store.Get(n.DisplayID)
	assert.Equal(t, reminder.StateVisible, got.State)

	err = f.d.Dispatch(context.Background(), Request{Kind: KindComplete, CallID: "7", DisplayID: n.DisplayID, Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, api.PathCallComplete, f.poster.calls[0].Path)

	f.bus.AssertPublished(t, eventbus.EventCallsChanged)
	f.bus.AssertPublished(t, eventbus.EventTrackingChanged)
}

func TestDispatch_FailureLeavesNotificationVisible(t *testing.T) {
	f := newFixture(t)
	n := f.admit(t, "9")
	f.poster.err = &api.StatusError{Method: "POST", Path: api.PathCallPostpone, Code: 500, Body: "db locked"}

	err := f.d.Dispatch(context.Background(), Request{Kind: KindPostpone, CallID: "9", DisplayID: n.DisplayID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")

	var se *api.StatusError
	assert.True(t, errors.As(err, &se))

	got, ok := f.store.Get(n.DisplayID)
	require.True(t, ok)
	assert.Equal(t, reminder.StateVisible, got.State)
	f.bus.AssertNotPublished(t, eventbus.EventCallsChanged, 50*time.Millisecond)
}

func TestDispatch_RecordsHistory(t *testing.T) {
	f := newFixture(t)
	f.admit(t, "5")

	require.NoError(t, f.d.Dispatch(context.Background(), Request{Kind: KindPostpone, CallID: "5"}))

	f.poster.err = errors.New("connection refused")
	require.Error(t, f.d.Dispatch(context.Background(), Request{Kind: KindNoAnswer, CallID: "5"}))

	_ = f.d.Dispatch(context.Background(), Request{Kind: KindComplete, CallID: "5"})

	require.Len(t, f.rec.entries, 2, "unconfirmed actions are not recorded")
	assert.Equal(t, "postpone", f.rec.entries[0].Kind)
	assert.False(t, f.rec.entries[0].Failed())
	assert.Equal(t, "no_answer", f.rec.entries[1].Kind)
	assert.Equal(t, "connection refused", f.rec.entries[1].Error)
}

func TestDispatch_ByCallIDWhenNoDisplayID(t *testing.T) {
	f := newFixture(t)
	n := f.admit(t, "11")

	require.NoError(t, f.d.Dispatch(context.Background(), Request{Kind: KindPostpone, CallID: "11"}))

	got, _ := f.store.Get(n.DisplayID)
	assert.Equal(t, reminder.StateClosing, got.State)
}

func TestDispatch_UnknownKind(t *testing.T) {
	f := newFixture(t)
	err := f.d.Dispatch(context.Background(), Request{Kind: "explode", CallID: "1"})
	require.ErrorIs(t, err, ErrUnknownKind)
	assert.Empty(t, f.poster.calls)
}

func TestDial(t *testing.T) {
	f := newFixture(t)

	digits, err := f.d.Dial(context.Background(), "8 (999) 123-45-67")
	require.NoError(t, err)
	assert.Equal(t, "79991234567", digits)

	cmds := f.exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "xdg-open", cmds[0].Cmd)
	assert.Equal(t, []string{"tel:79991234567"}, cmds[0].Args)
	assert.True(t, cmds[0].Start)

	toasts := f.toasts.Toasts()
	require.Len(t, toasts, 1)
	assert.False(t, toasts[0].IsError)
	assert.Contains(t, toasts[0].Message, "79991234567")
}

func TestDial_InvalidDoesNotLaunch(t *testing.T) {
	f := newFixture(t)

	_, err := f.d.Dial(context.Background(), "12345")
	require.ErrorIs(t, err, phone.ErrInvalid)

	assert.Empty(t, f.exec.Recorded())
	toasts := f.toasts.Toasts()
	require.Len(t, toasts, 1)
	assert.True(t, toasts[0].IsError)
}

func TestCopy(t *testing.T) {
	f := newFixture(t)

	got, err := f.d.Copy("+7 (999) 123-45-67")
	require.NoError(t, err)
	assert.Equal(t, "+79991234567", got)
	assert.Equal(t, "+79991234567", f.clip.text)
	assert.False(t, f.toasts.Toasts()[0].IsError)
}

func TestCopy_ClipboardFailure(t *testing.T) {
	f := newFixture(t)
	f.clip.err = errors.New("no display")

	_, err := f.d.Copy("8999")
	require.Error(t, err)
	assert.True(t, f.toasts.Toasts()[0].IsError)
}

func TestSideActionsFromCardClose(t *testing.T) {
	f := newFixture(t)
	a := f.admit(t, "1")
	b := f.admit(t, "2")

	require.NoError(t, f.d.DialAndClose(context.Background(), a.DisplayID, a.Record.Phone))
	require.NoError(t, f.d.CopyAndClose(b.DisplayID, b.Record.Phone))

	for _, id := range []string{a.DisplayID, b.DisplayID} {
		got, _ := f.store.Get(id)
		assert.Equal(t, reminder.StateClosing, got.State)
	}
}

func TestActionTable(t *testing.T) {
	for _, a := range Actions() {
		assert.NotEmpty(t, a.Path, a.Kind)
		assert.NotEmpty(t, a.Refresh, a.Kind)
	}

	complete, ok := Lookup(KindComplete)
	require.True(t, ok)
	assert.True(t, complete.RequiresConfirmation())

	for _, k := range []Kind{KindNoAnswer, KindPostpone} {
		a, _ := Lookup(k)
		assert.False(t, a.RequiresConfirmation(), k)
	}

	k, ok := ParseKind("no-answer")
	assert.True(t, ok)
	assert.Equal(t, KindNoAnswer, k)
	_, ok = ParseKind("nope")
	assert.False(t, ok)
}
