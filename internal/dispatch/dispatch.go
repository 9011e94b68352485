// Package dispatch carries out user actions on a reminder: backend mutations
// (no-answer, completed, postpone) and the local side actions (call, copy).
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/callbell/internal/core/eventbus"
	"github.com/colonyops/callbell/internal/core/history"
	"github.com/colonyops/callbell/internal/core/logging"
	"github.com/colonyops/callbell/internal/core/phone"
	"github.com/colonyops/callbell/internal/core/toast"
)

var (
	// ErrNotConfirmed is returned for an action that requires confirmation
	// when the request was not confirmed. Nothing is sent.
	ErrNotConfirmed = errors.New("action requires confirmation")
	// ErrUnknownKind is returned for a Kind missing from the action table.
	ErrUnknownKind = errors.New("unknown action")
)

// Poster sends a call mutation to the backend.
type Poster interface {
	CallAction(ctx context.Context, path, callID string) error
}

// Closer dismisses displayed notifications.
type Closer interface {
	Close(displayID string) bool
	CloseCall(callID string) bool
}

// Publisher announces that backend data changed.
type Publisher interface {
	PublishCallsChanged(p eventbus.CallsChangedPayload)
	PublishTrackingChanged(p eventbus.TrackingChangedPayload)
}

// Toaster shows transient feedback.
type Toaster interface {
	Successf(format string, args ...any) toast.Toast
	Errorf(format string, args ...any) toast.Toast
}

// Recorder keeps a log of dispatched actions.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// Request is one action invocation.
type Request struct {
	Kind      Kind
	CallID    string
	DisplayID string
	Confirmed bool
}

// Dispatcher performs actions.
type Dispatcher struct {
	poster    Poster
	closer    Closer
	publisher Publisher
	toasts    Toaster
	launcher  Launcher
	clipboard Clipboard
	recorder  Recorder
	logger    zerolog.Logger
}

// Options wires a Dispatcher. Closer, Publisher, Toaster and Recorder may be nil.
type Options struct {
	Poster    Poster
	Closer    Closer
	Publisher Publisher
	Toasts    Toaster
	Launcher  Launcher
	Clipboard Clipboard
	Recorder  Recorder
	Logger    zerolog.Logger
}

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		poster:    opts.Poster,
		closer:    opts.Closer,
		publisher: opts.Publisher,
		toasts:    opts.Toasts,
		launcher:  opts.Launcher,
		clipboard: opts.Clipboard,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
	}
	if d.clipboard == nil {
		d.clipboard = SystemClipboard{}
	}
	return d
}

// Dispatch runs a backend mutation. On success the notification is closed
// and refresh signals are published. On failure the error carries the
// backend's response and the notification stays on screen.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	action, ok := Lookup(req.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
	if action.RequiresConfirmation() && !req.Confirmed {
		return ErrNotConfirmed
	}

	ctx = logging.WithNotification(ctx, req.CallID, req.DisplayID)

	err := d.poster.CallAction(ctx, action.Path, req.CallID)
	d.record(ctx, action.Kind, req.CallID, err)
	if err != nil {
		d.logger.Error().Ctx(ctx).Err(err).Str("action", string(action.Kind)).Msg("action failed")
		return fmt.Errorf("%s: %w", action.Label, err)
	}

	d.logger.Info().Ctx(ctx).Str("action", string(action.Kind)).Msg("action applied")

	d.closeNotification(req.DisplayID, req.CallID)
	d.publish(action, req.CallID)
	return nil
}

func (d *Dispatcher) record(ctx context.Context, kind Kind, callID string, err error) {
	if d.recorder == nil {
		return
	}
	e := history.Entry{CallID: callID, Kind: string(kind)}
	if err != nil {
		e.Error = err.Error()
	}
	if _, rerr := d.recorder.Record(ctx, e); rerr != nil {
		d.logger.Warn().Ctx(ctx).Err(rerr).Msg("failed to record action history")
	}
}

func (d *Dispatcher) closeNotification(displayID, callID string) {
	if d.closer == nil {
		return
	}
	if displayID != "" {
		d.closer.Close(displayID)
		return
	}
	if callID != "" {
		d.closer.CloseCall(callID)
	}
}

func (d *Dispatcher) publish(action Action, callID string) {
	if d.publisher == nil {
		return
	}
	for _, ev := range action.Refresh {
		switch ev {
		case eventbus.EventCallsChanged:
			d.publisher.PublishCallsChanged(eventbus.CallsChangedPayload{CallID: callID, Reason: string(action.Kind)})
		case eventbus.EventTrackingChanged:
			d.publisher.PublishTrackingChanged(eventbus.TrackingChangedPayload{CallID: callID})
		}
	}
}

// Dial normalizes raw and hands the tel: URI to the launcher. Invalid input
// produces an error toast and nothing is launched.
func (d *Dispatcher) Dial(ctx context.Context, raw string) (string, error) {
	digits, err := phone.Normalize(raw)
	if err != nil {
		d.toastError("invalid number format for calling")
		return "", err
	}
	if d.launcher == nil {
		d.toastError("could not start the call")
		return "", errors.New("no dial launcher configured")
	}
	if err := d.launcher.Launch(ctx, "tel:"+digits); err != nil {
		d.logger.Error().Err(err).Msg("dial failed")
		d.toastError("could not start the call")
		return "", err
	}
	d.toastSuccess("call started: %s", digits)
	return digits, nil
}

// Copy strips raw to digits and '+' and writes it to the clipboard.
func (d *Dispatcher) Copy(raw string) (string, error) {
	cleaned := phone.Clean(raw)
	if err := d.clipboard.WriteAll(cleaned); err != nil {
		d.logger.Error().Err(err).Msg("clipboard write failed")
		d.toastError("could not copy the number")
		return "", err
	}
	d.toastSuccess("number copied: %s", cleaned)
	return cleaned, nil
}

// DialAndClose dials from a card and closes it, as the card button does.
func (d *Dispatcher) DialAndClose(ctx context.Context, displayID, raw string) error {
	_, err := d.Dial(ctx, raw)
	if d.closer != nil {
		d.closer.Close(displayID)
	}
	return err
}

// CopyAndClose copies from a card and closes it.
func (d *Dispatcher) CopyAndClose(displayID, raw string) error {
	_, err := d.Copy(raw)
	if d.closer != nil {
		d.closer.Close(displayID)
	}
	return err
}

func (d *Dispatcher) toastSuccess(format string, args ...any) {
	if d.toasts != nil {
		d.toasts.Successf(format, args...)
	}
}

func (d *Dispatcher) toastError(format string, args ...any) {
	if d.toasts != nil {
		d.toasts.Errorf(format, args...)
	}
}
