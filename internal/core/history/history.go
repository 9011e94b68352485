// Package history defines the local log of call actions sent to the backend.
package history

import (
	"context"
	"time"
)

// Entry records one dispatched call action.
type Entry struct {
	ID        int64     `json:"id"`
	CallID    string    `json:"call_id"`
	Kind      string    `json:"kind"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Failed reports whether the backend rejected the action.
func (e Entry) Failed() bool {
	return e.Error != ""
}

// Store persists action history.
type Store interface {
	Record(ctx context.Context, e Entry) (int64, error)
	// List returns the newest entries first, at most limit of them.
	List(ctx context.Context, limit int) ([]Entry, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}
