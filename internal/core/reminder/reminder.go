// Package reminder implements the set of currently displayed call reminders:
// admission with deduplication and bounded capacity, timed auto-expiry, and
// the two-phase close used by every dismissal path.
package reminder

import "time"

const (
	// DefaultCapacity is the maximum number of notifications shown at once.
	DefaultCapacity = 10
	// DefaultExpiry is how long an untouched notification stays visible.
	DefaultExpiry = 15 * time.Minute
	// DefaultCloseDelay is the length of the closing (fade-out) phase.
	DefaultCloseDelay = 300 * time.Millisecond
)

// State is the lifecycle position of a Notification.
type State int

const (
	StateVisible State = iota
	StateClosing
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateClosing:
		return "closing"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Record is a due call as reported by the backend. All text fields are
// untrusted.
type Record struct {
	CallID      string
	Phone       string
	Comment     string
	ScheduledAt string
	CallType    string
}

// Notification is one displayed instance of a Record.
type Notification struct {
	DisplayID  string
	Record     Record
	State      State
	AdmittedAt time.Time
}

// Renderer materializes notifications on a display surface. Remove must
// tolerate ids it does not know.
type Renderer interface {
	Show(n Notification)
	BeginClose(displayID string)
	Remove(displayID string)
}

// Alerter announces a newly admitted notification.
type Alerter interface {
	Alert()
}

// NopAlerter never makes a sound.
type NopAlerter struct{}

func (NopAlerter) Alert() {}

// Fanout forwards every call to each renderer in order.
type Fanout []Renderer

func (f Fanout) Show(n Notification) {
	for _, r := range f {
		r.Show(n)
	}
}

func (f Fanout) BeginClose(displayID string) {
	for _, r := range f {
		r.BeginClose(displayID)
	}
}

func (f Fanout) Remove(displayID string) {
	for _, r := range f {
		r.Remove(displayID)
	}
}
