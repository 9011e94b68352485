package dispatch

import (
	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/core/eventbus"
)

// Kind names a backend mutation that can be applied to a due call.
type Kind string

// Keep list sorted A-Z
const (
	KindComplete Kind = "complete"
	KindNoAnswer Kind = "no_answer"
	KindPostpone Kind = "postpone"
)

// Action describes how one Kind is carried out.
type Action struct {
	Kind  Kind
	Label string
	Path  string
	// Confirm is the question shown before dispatching. Empty means the
	// action runs without confirmation.
	Confirm string
	Success string
	Refresh []eventbus.Event
}

// RequiresConfirmation reports whether the user must confirm first.
func (a Action) RequiresConfirmation() bool {
	return a.Confirm != ""
}

var actions = []Action{
	{
		Kind:    KindNoAnswer,
		Label:   "no answer",
		Path:    api.PathCallNoAnswer,
		Success: "next attempt scheduled",
		Refresh: []eventbus.Event{eventbus.EventCallsChanged},
	},
	{
		Kind:    KindComplete,
		Label:   "completed",
		Path:    api.PathCallComplete,
		Confirm: "Mark the call as successful and delete the record?",
		Success: "call completed",
		Refresh: []eventbus.Event{eventbus.EventCallsChanged, eventbus.EventTrackingChanged},
	},
	{
		Kind:    KindPostpone,
		Label:   "+10 min",
		Path:    api.PathCallPostpone,
		Success: "postponed by 10 minutes",
		Refresh: []eventbus.Event{eventbus.EventCallsChanged},
	},
}

// Actions returns the action table in display order.
func Actions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// Lookup returns the action for kind.
func Lookup(kind Kind) (Action, bool) {
	for _, a := range actions {
		if a.Kind == kind {
			return a, true
		}
	}
	return Action{}, false
}

// ParseKind accepts the kind name as typed on the command line. Dashes are
// accepted in place of underscores.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "no_answer", "no-answer", "noanswer":
		return KindNoAnswer, true
	case "complete", "completed", "done":
		return KindComplete, true
	case "postpone":
		return KindPostpone, true
	default:
		return "", false
	}
}
