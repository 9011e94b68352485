// Package settings holds the per-user preferences read by the alerting and
// rendering components. A Settings value is an immutable snapshot; updates
// replace the whole snapshot.
package settings

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// MaxVolume is the top of the volume scale.
const MaxVolume = 100

// Settings is a snapshot of user preferences.
type Settings struct {
	SoundEnabled bool `json:"sound_enabled"`
	Volume       int  `json:"volume"`
	DarkTheme    bool `json:"dark_theme"`
}

// Defaults returns the settings applied whenever the backend cannot be read.
func Defaults() Settings {
	return Settings{
		SoundEnabled: true,
		Volume:       MaxVolume,
		DarkTheme:    false,
	}
}

// Gain returns the playback gain in [0, 1]. Out-of-range volumes are clamped.
func (s Settings) Gain() float64 {
	v := min(max(s.Volume, 0), MaxVolume)
	return float64(v) / MaxVolume
}

// Fetcher loads settings from the backend.
type Fetcher interface {
	FetchSettings(ctx context.Context) (Settings, error)
}

// Holder owns the current snapshot. Reads never observe a partially applied
// update.
type Holder struct {
	current atomic.Pointer[Settings]

	mu        sync.Mutex
	listeners []func(Settings)
}

// NewHolder returns a Holder seeded with initial.
func NewHolder(initial Settings) *Holder {
	h := &Holder{}
	h.current.Store(&initial)
	return h
}

// Get returns the current snapshot.
func (h *Holder) Get() Settings {
	return *h.current.Load()
}

// Set replaces the snapshot and notifies listeners.
func (h *Holder) Set(s Settings) {
	h.current.Store(&s)

	h.mu.Lock()
	listeners := make([]func(Settings), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// OnChange registers fn to run after every Set.
func (h *Holder) OnChange(fn func(Settings)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Load fetches settings and installs them. On failure the defaults are
// installed instead and the error is logged, so the holder is always in a
// defined state.
func (h *Holder) Load(ctx context.Context, f Fetcher, logger zerolog.Logger) Settings {
	s, err := f.FetchSettings(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load settings, using defaults")
		s = Defaults()
	}
	h.Set(s)
	return s
}
