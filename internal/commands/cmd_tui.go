package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/callbell/internal/core/logging"
	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	deps  *Deps
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, deps *Deps) *TuiCmd {
	return &TuiCmd{flags: flags, deps: deps}
}

func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "tui",
		Usage: "Open the interactive reminder console (default)",
		Description: `Shows due call reminders as cards, plays the alert sound and lets you
act on each reminder with single keys. The call list is shown below the
cards; tab switches focus. Sound starts after the first keypress.`,
		Action: cmd.Run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tui requires a terminal; use 'callbell watch' for headless use")
	}

	a := cmd.deps.App
	a.LoadSettings(ctx)

	buf := tui.NewEventBuffer()
	renderers := append(reminder.Fanout{tui.NewRenderer(buf)}, a.Renderers()...)
	a.Start(renderers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.Bus.Start(ctx)
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		_ = a.Poller.Run(ctx)
	}()

	model := tui.New(tui.Options{
		Ctx:        ctx,
		Buffer:     buf,
		Dispatcher: a.Dispatcher,
		Closer:     a.Store,
		Poller:     a.Poller,
		Audio:      a.Alerter,
		Toasts:     a.Toasts,
		Calls:      a.Client,
		Bus:        a.Bus,
		Settings:   a.Settings,
		BaseURL:    a.Client.BaseURL(),
		Logger:     logging.Component("tui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	cancel()
	<-pollDone
	a.Alerter.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	log.Debug().Msg("tui exited")
	return nil
}
