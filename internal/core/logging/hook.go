package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies call_id and display_id from the event context into the
// log event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if callID := GetCallID(ctx); callID != "" {
		e.Str("call_id", callID)
	}

	if displayID := GetDisplayID(ctx); displayID != "" {
		e.Str("display_id", displayID)
	}
}
