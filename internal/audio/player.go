package audio

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/colonyops/callbell/pkg/executil"
)

// ErrNoPlayer is returned when no supported audio player is installed.
var ErrNoPlayer = errors.New("no audio player found (tried paplay, afplay, aplay)")

// Player plays an audio file at a gain in [0, 1] and returns when playback
// finished.
type Player interface {
	Play(ctx context.Context, path string, gain float64) error
}

// candidates in preference order. aplay has no volume control and is last.
var candidates = []string{"paplay", "afplay", "aplay"}

// ExecPlayer plays files through an external command.
type ExecPlayer struct {
	exec executil.Executor
	name string
}

// DetectPlayer returns a player for the forced binary, or for the first
// supported binary found on PATH.
func DetectPlayer(exec executil.Executor, forced string) (*ExecPlayer, error) {
	if forced != "" {
		if _, err := exec.LookPath(forced); err != nil {
			return nil, fmt.Errorf("audio player %q: %w", forced, err)
		}
		return &ExecPlayer{exec: exec, name: forced}, nil
	}

	for _, name := range candidates {
		if _, err := exec.LookPath(name); err == nil {
			return &ExecPlayer{exec: exec, name: name}, nil
		}
	}
	return nil, ErrNoPlayer
}

// Name reports the binary in use.
func (p *ExecPlayer) Name() string { return p.name }

// Play runs the player and waits for it.
func (p *ExecPlayer) Play(ctx context.Context, path string, gain float64) error {
	_, err := p.exec.Run(ctx, p.name, playerArgs(p.name, path, gain)...)
	return err
}

func playerArgs(name, path string, gain float64) []string {
	switch name {
	case "paplay":
		// PulseAudio volume: 65536 is 100%.
		return []string{"--volume", strconv.Itoa(int(gain * 65536)), path}
	case "afplay":
		return []string{"-v", strconv.FormatFloat(gain, 'f', 2, 64), path}
	default:
		return []string{"-q", path}
	}
}
