package tui

import (
	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/settings"
	"github.com/colonyops/callbell/internal/dispatch"
	"github.com/colonyops/callbell/internal/poller"
)

// Events pushed through the EventBuffer.
type (
	cardShownEvent     struct{ n reminder.Notification }
	cardClosingEvent   struct{ displayID string }
	cardRemovedEvent   struct{ displayID string }
	toastsChangedEvent struct{}
	callsStaleEvent    struct{}
	settingsEvent      struct{ s settings.Settings }
	pollResultEvent    struct{ r poller.Result }
)

// Bubbletea messages.
type (
	drainEventsMsg struct{}

	callsLoadedMsg struct {
		calls    []api.Call
		tracking []api.Tracking
		err      error
	}

	actionDoneMsg struct {
		req dispatch.Request
		err error
	}

	sideActionDoneMsg struct {
		label string
		err   error
	}
)
