package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/callbell/internal/core/eventbus"
	"github.com/colonyops/callbell/internal/core/settings"
	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/core/toast"
	"github.com/colonyops/callbell/internal/dispatch"
	"github.com/colonyops/callbell/internal/poller"
)

// Dispatcher performs card and call-list actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) error
	Dial(ctx context.Context, raw string) (string, error)
	Copy(raw string) (string, error)
	DialAndClose(ctx context.Context, displayID, raw string) error
	CopyAndClose(displayID, raw string) error
}

// Closer dismisses a displayed notification.
type Closer interface {
	Close(displayID string) bool
}

// Poller is the part of the poller the TUI drives.
type Poller interface {
	Trigger()
	OnResult(fn func(poller.Result))
}

// Audio is the part of the alerter the TUI drives.
type Audio interface {
	Unlock()
	Unlocked() bool
}

// Options configures the TUI. Only Ctx, Buffer and Dispatcher are required.
type Options struct {
	Ctx        context.Context
	Buffer     *EventBuffer
	Dispatcher Dispatcher
	Closer     Closer
	Poller     Poller
	Audio      Audio
	Toasts     *toast.Queue
	Calls      CallsSource
	Bus        *eventbus.EventBus
	Settings   *settings.Holder
	BaseURL    string
	Logger     zerolog.Logger
}

type focus int

const (
	focusCards focus = iota
	focusCalls
)

// Model is the bubbletea model for the reminder console.
type Model struct {
	ctx    context.Context
	opts   Options
	buf    *EventBuffer
	logger zerolog.Logger

	keys     keyMap
	help     help.Model
	showHelp bool
	theme    styles.Theme
	settings settings.Settings

	cards   cardList
	pane    callsPane
	focus   focus
	pending map[string]bool

	confirm *confirmModal
	errMsg  *errorModal
	status  string

	lastPoll poller.Result
	polled   bool

	width  int
	height int
}

// New builds the model and subscribes it to the collaborators in opts. The
// subscriptions only push into the event buffer, so they are safe to call
// from any goroutine.
func New(opts Options) Model {
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	if opts.Buffer == nil {
		opts.Buffer = NewEventBuffer()
	}

	snap := settings.Defaults()
	if opts.Settings != nil {
		snap = opts.Settings.Get()
	}
	theme := styles.NewTheme(snap.DarkTheme)

	m := Model{
		ctx:      opts.Ctx,
		opts:     opts,
		buf:      opts.Buffer,
		logger:   opts.Logger,
		keys:     defaultKeyMap(),
		help:     help.New(),
		theme:    theme,
		settings: snap,
		pane:     newCallsPane(theme),
		pending:  map[string]bool{},
		width:    80,
		height:   24,
	}

	buf := m.buf
	if opts.Toasts != nil {
		opts.Toasts.OnChange(func() { buf.Push(toastsChangedEvent{}) })
	}
	if opts.Poller != nil {
		opts.Poller.OnResult(func(r poller.Result) { buf.Push(pollResultEvent{r: r}) })
	}
	if opts.Settings != nil {
		opts.Settings.OnChange(func(s settings.Settings) { buf.Push(settingsEvent{s: s}) })
	}
	if opts.Bus != nil {
		opts.Bus.SubscribeCallsChanged(func(eventbus.CallsChangedPayload) { buf.Push(callsStaleEvent{}) })
		opts.Bus.SubscribeTrackingChanged(func(eventbus.TrackingChangedPayload) { buf.Push(callsStaleEvent{}) })
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.buf.WaitForSignal(), fetchCallsCmd(m.ctx, m.opts.Calls))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case drainEventsMsg:
		return m.handleEvents()
	case callsLoadedMsg:
		m.pane.setData(msg)
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("failed to load call list")
		}
		return m, nil
	case actionDoneMsg:
		return m.handleActionDone(msg)
	case sideActionDoneMsg:
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Str("action", msg.label).Msg("side action failed")
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}
