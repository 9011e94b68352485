package executil

import (
	"context"
	"fmt"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd   string
	Args  []string
	Start bool // launched with Start rather than Run
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their output.
	// Key is the command name (e.g., "paplay").
	Outputs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error

	// Available lists commands LookPath should find. A nil map finds
	// everything.
	Available map[string]bool

	// OnRun, when set, is called with each command before it returns.
	OnRun func(RecordedCommand)
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(_ context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record(RecordedCommand{Cmd: cmd, Args: args})
}

// Start records the command and returns the configured error.
func (e *RecordingExecutor) Start(_ context.Context, cmd string, args ...string) error {
	_, err := e.record(RecordedCommand{Cmd: cmd, Args: args, Start: true})
	return err
}

// LookPath reports name as found unless Available excludes it.
func (e *RecordingExecutor) LookPath(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Available != nil && !e.Available[name] {
		return "", fmt.Errorf("executable %q not found", name)
	}
	return "/usr/bin/" + name, nil
}

func (e *RecordingExecutor) record(rc RecordedCommand) ([]byte, error) {
	e.mu.Lock()
	e.Commands = append(e.Commands, rc)

	var out []byte
	var err error

	if e.Outputs != nil {
		out = e.Outputs[rc.Cmd]
	}
	if e.Errors != nil {
		err = e.Errors[rc.Cmd]
	}
	hook := e.OnRun
	e.mu.Unlock()

	if hook != nil {
		hook(rc)
	}

	return out, err
}

// Recorded returns a copy of the recorded commands.
func (e *RecordingExecutor) Recorded() []RecordedCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]RecordedCommand, len(e.Commands))
	copy(out, e.Commands)
	return out
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
