package logging

import "context"

type contextKey string

const (
	callIDKey    contextKey = "call_id"
	displayIDKey contextKey = "display_id"
)

// WithCallID adds a backend call id to the context.
func WithCallID(ctx context.Context, callID string) context.Context {
	return context.WithValue(ctx, callIDKey, callID)
}

// WithDisplayID adds a notification display id to the context.
func WithDisplayID(ctx context.Context, displayID string) context.Context {
	return context.WithValue(ctx, displayIDKey, displayID)
}

// WithNotification adds both ids of a displayed notification.
func WithNotification(ctx context.Context, callID, displayID string) context.Context {
	return WithDisplayID(WithCallID(ctx, callID), displayID)
}

// GetCallID retrieves the call id from the context, or "".
func GetCallID(ctx context.Context) string {
	if id, ok := ctx.Value(callIDKey).(string); ok {
		return id
	}
	return ""
}

// GetDisplayID retrieves the display id from the context, or "".
func GetDisplayID(ctx context.Context) string {
	if id, ok := ctx.Value(displayIDKey).(string); ok {
		return id
	}
	return ""
}
