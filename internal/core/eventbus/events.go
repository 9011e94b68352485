// Package eventbus provides a typed publish/subscribe event bus used to tell
// collaborators (call list, tracking view, theme) that backend state changed.
package eventbus

import "github.com/colonyops/callbell/internal/core/settings"

// Event names a topic on the bus.
type Event string

// Keep list sorted A-Z
const (
	EventCallsChanged    Event = "calls.changed"
	EventSettingsUpdated Event = "settings.updated"
	EventTrackingChanged Event = "tracking.changed"
)

// CallsChangedPayload is emitted after an action changed a call record.
type CallsChangedPayload struct {
	CallID string
	Reason string
}

// TrackingChangedPayload is emitted after an action changed a tracking record.
type TrackingChangedPayload struct {
	CallID string
}

// SettingsUpdatedPayload is emitted after the settings snapshot was replaced.
type SettingsUpdatedPayload struct {
	Settings settings.Settings
}
