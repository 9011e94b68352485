package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/core/validate"
	"github.com/colonyops/callbell/internal/dispatch"
)

type ActionCmd struct {
	flags *Flags
	deps  *Deps

	yes bool
}

func NewActionCmd(flags *Flags, deps *Deps) *ActionCmd {
	return &ActionCmd{flags: flags, deps: deps}
}

func (cmd *ActionCmd) Register(app *cli.Command) *cli.Command {
	var kinds []string
	for _, a := range dispatch.Actions() {
		kinds = append(kinds, strings.ReplaceAll(string(a.Kind), "_", "-"))
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "action",
		Usage:     "Apply an action to a call",
		UsageText: fmt.Sprintf("callbell action <%s> <call-id> [--yes]", strings.Join(kinds, "|")),
		Description: `no-answer schedules the next attempt, postpone moves the call by ten
minutes and complete deletes the call after confirmation.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ActionCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return errors.New("expected an action and a call id")
	}

	kind, ok := dispatch.ParseKind(c.Args().Get(0))
	if !ok {
		return fmt.Errorf("unknown action %q", c.Args().Get(0))
	}
	callID := strings.TrimSpace(c.Args().Get(1))
	if err := validate.CallIDField("call-id", callID); err != nil {
		return err
	}

	action, _ := dispatch.Lookup(kind)
	req := dispatch.Request{Kind: kind, CallID: callID, Confirmed: cmd.yes}

	if action.RequiresConfirmation() && !req.Confirmed {
		confirmed, err := cmd.confirm(action.Confirm)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !confirmed {
			return nil
		}
		req.Confirmed = true
	}

	a := cmd.deps.App
	a.Start(reminder.Fanout{})
	if err := a.Dispatcher.Dispatch(ctx, req); err != nil {
		return err
	}

	th := styles.NewTheme(a.Settings.Get().DarkTheme)
	_, _ = fmt.Fprintln(c.Root().Writer, th.Success.Render(styles.IconSuccess+" "+action.Success))
	return nil
}

func (cmd *ActionCmd) confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Confirm").
				Negative("Cancel").
				Value(&ok),
		),
	).WithTheme(styles.FormTheme(cmd.deps.App.Settings.Get().DarkTheme)).Run()
	return ok, err
}
