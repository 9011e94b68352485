// Package audio plays the arrival sound for new reminders. Playback is gated
// behind a one-time unlock performed on user interaction. The primary asset
// is tried first and a synthesized tone is the fallback. Failures are logged
// and never reach the caller.
package audio

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/callbell/internal/core/settings"
	"github.com/colonyops/callbell/pkg/clock"
)

const (
	// ReleaseDelay is how long the fallback tone file is kept after playback.
	ReleaseDelay = 200 * time.Millisecond
	// playTimeout bounds a single playback attempt.
	playTimeout = 10 * time.Second
)

// Resolver locates the primary sound file.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Options configures an Alerter.
type Options struct {
	Settings *settings.Holder
	Player   Player
	Asset    Resolver
	Clock    clock.Clock
	Logger   zerolog.Logger
	// TempDir holds fallback tone files. Empty means os.TempDir().
	TempDir string
}

// Alerter implements reminder.Alerter.
type Alerter struct {
	opts     Options
	unlocked atomic.Bool
	wg       sync.WaitGroup
}

// NewAlerter returns a locked Alerter.
func NewAlerter(opts Options) *Alerter {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	return &Alerter{opts: opts}
}

// Unlock permits playback from now on. Calling it again has no effect.
func (a *Alerter) Unlock() {
	if a.unlocked.CompareAndSwap(false, true) {
		a.opts.Logger.Debug().Msg("audio unlocked")
	}
}

// Unlocked reports whether Unlock has been called.
func (a *Alerter) Unlocked() bool {
	return a.unlocked.Load()
}

// Alert starts playback in the background and returns immediately.
func (a *Alerter) Alert() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()
		a.Play(ctx)
	}()
}

// Wait blocks until background playbacks started by Alert have finished.
func (a *Alerter) Wait() {
	a.wg.Wait()
}

// Play performs one alert synchronously.
func (a *Alerter) Play(ctx context.Context) {
	s := a.opts.Settings.Get()
	if !s.SoundEnabled {
		return
	}
	if !a.Unlocked() {
		a.opts.Logger.Warn().Msg("audio locked: press any key in the terminal to enable sound")
		return
	}
	if a.opts.Player == nil {
		a.opts.Logger.Warn().Msg("no audio player available")
		return
	}

	gain := s.Gain()

	err := a.playPrimary(ctx, gain)
	if err == nil {
		return
	}
	a.opts.Logger.Warn().Err(err).Msg("primary sound failed, using fallback tone")

	if err := a.playFallback(ctx, gain); err != nil {
		a.opts.Logger.Warn().Err(err).Msg("fallback tone failed")
	}
}

func (a *Alerter) playPrimary(ctx context.Context, gain float64) error {
	if a.opts.Asset == nil {
		return ErrNoAsset
	}
	path, err := a.opts.Asset.Resolve(ctx)
	if err != nil {
		return err
	}
	return a.opts.Player.Play(ctx, path, gain)
}

func (a *Alerter) playFallback(ctx context.Context, gain float64) error {
	f, err := os.CreateTemp(a.opts.TempDir, "callbell-tone-*.wav")
	if err != nil {
		return fmt.Errorf("create tone file: %w", err)
	}
	path := f.Name()

	_, werr := f.Write(SineWAV(ToneFrequency, ToneDuration, ToneSampleRate, gain))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write tone file: %w", firstErr(werr, cerr))
	}

	// Gain is baked into the samples.
	err = a.opts.Player.Play(ctx, path, 1)

	a.opts.Clock.AfterFunc(ReleaseDelay, func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			a.opts.Logger.Debug().Err(rmErr).Str("path", path).Msg("remove tone file")
		}
	})

	return err
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
