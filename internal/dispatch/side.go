package dispatch

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"

	"github.com/colonyops/callbell/pkg/executil"
)

// Launcher opens a URI with the desktop's handler.
type Launcher interface {
	Launch(ctx context.Context, uri string) error
}

// ExecLauncher opens URIs by running an opener command such as xdg-open.
type ExecLauncher struct {
	Exec   executil.Executor
	Opener string
}

// Launch starts the opener without waiting for it.
func (l ExecLauncher) Launch(ctx context.Context, uri string) error {
	if l.Opener == "" {
		return errors.New("no opener configured")
	}
	return l.Exec.Start(ctx, l.Opener, uri)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard uses the platform clipboard.
type SystemClipboard struct{}

// WriteAll writes text to the clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard not supported on this system")
	}
	return clipboard.WriteAll(text)
}
