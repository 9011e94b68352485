package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/render"
	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/core/validate"
	"github.com/colonyops/callbell/pkg/iojson"
)

// nextAttemptLayout is the wall-clock format accepted by the add endpoint.
const nextAttemptLayout = "2006-01-02T15:04"

type CallsCmd struct {
	flags *Flags
	deps  *Deps

	jsonOutput bool
	input      iojson.FileReader[api.NewCall]
}

func NewCallsCmd(flags *Flags, deps *Deps) *CallsCmd {
	return &CallsCmd{flags: flags, deps: deps}
}

func (cmd *CallsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "calls",
		Usage: "List, schedule, dial and copy calls",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List scheduled calls",
				UsageText: "callbell calls ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "add",
				Usage:     "Schedule a call",
				UsageText: "callbell calls add [--file call.json]",
				Description: `Reads the call from --file or stdin as JSON:

  {"comment": "...", "phone": "...", "call_type": "callback", "next_attempt": "2025-03-14T15:30"}

Without input an interactive form is shown.`,
				Flags:  []cli.Flag{cmd.input.Flag()},
				Action: cmd.runAdd,
			},
			{
				Name:      "dial",
				Usage:     "Start a call through the system tel: handler",
				UsageText: "callbell calls dial <phone>",
				Action:    cmd.runDial,
			},
			{
				Name:      "copy",
				Usage:     "Copy a phone number to the clipboard",
				UsageText: "callbell calls copy <phone>",
				Action:    cmd.runCopy,
			},
		},
	})
	return app
}

func (cmd *CallsCmd) runList(ctx context.Context, c *cli.Command) error {
	calls, err := cmd.deps.App.Client.Calls(ctx)
	if err != nil {
		return fmt.Errorf("list calls: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, call := range calls {
			if err := iojson.WriteLine(out, call); err != nil {
				return fmt.Errorf("encode call: %w", err)
			}
		}
		return nil
	}

	if len(calls) == 0 {
		fmt.Fprintln(os.Stderr, "No scheduled calls")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPHONE\tNEXT\tIN\tSTATUS\tTYPE\tATTEMPT\tCOMMENT")
	for _, call := range calls {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			call.ID,
			render.Terminal(call.Phone),
			render.Terminal(call.NextAttempt),
			render.Terminal(call.TimeUntil),
			render.Terminal(call.NotificationStatus),
			render.Terminal(call.CallType),
			call.AttemptNumber,
			render.Terminal(call.Comment),
		)
	}
	return w.Flush()
}

func (cmd *CallsCmd) runAdd(ctx context.Context, c *cli.Command) error {
	var (
		call api.NewCall
		err  error
	)
	if cmd.input.Provided() {
		call, err = cmd.input.Read()
	} else {
		call, err = cmd.runAddForm()
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
	}
	if err != nil {
		return err
	}
	if err := validateNewCall(call); err != nil {
		return err
	}

	id, err := cmd.deps.App.Client.AddCall(ctx, call)
	if err != nil {
		return fmt.Errorf("add call: %w", err)
	}
	_, _ = fmt.Fprintln(c.Root().Writer, id)
	return nil
}

func (cmd *CallsCmd) runAddForm() (api.NewCall, error) {
	call := api.NewCall{CallType: "callback"}
	dark := cmd.deps.App.Settings.Get().DarkTheme

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Phone").
				Validate(validate.Phone).
				Value(&call.Phone),
			huh.NewText().
				Title("Comment").
				Validate(requireText("comment")).
				Value(&call.Comment),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Callback", "callback"),
					huh.NewOption("No answer", "no-answer"),
				).
				Value(&call.CallType),
			huh.NewInput().
				Title("Next attempt").
				Description("YYYY-MM-DDTHH:MM, empty for the default interval").
				Validate(validNextAttempt).
				Value(&call.NextAttempt),
		),
	).WithTheme(styles.FormTheme(dark)).Run()
	return call, err
}

func validateNewCall(call api.NewCall) error {
	if err := requireText("comment")(call.Comment); err != nil {
		return err
	}
	if err := validate.PhoneField("phone", call.Phone); err != nil {
		return err
	}
	return validNextAttempt(call.NextAttempt)
}

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validNextAttempt(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(nextAttemptLayout, s); err != nil {
		return fmt.Errorf("next attempt must look like %s", nextAttemptLayout)
	}
	return nil
}

func (cmd *CallsCmd) runDial(ctx context.Context, c *cli.Command) error {
	raw := c.Args().First()
	if raw == "" {
		return errors.New("phone number is required")
	}
	a := cmd.deps.App
	a.Start(reminder.Fanout{})

	digits, err := a.Dispatcher.Dial(ctx, raw)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	_, _ = fmt.Fprintln(c.Root().Writer, "tel:"+digits)
	return nil
}

func (cmd *CallsCmd) runCopy(_ context.Context, c *cli.Command) error {
	raw := c.Args().First()
	if raw == "" {
		return errors.New("phone number is required")
	}
	a := cmd.deps.App
	a.Start(reminder.Fanout{})

	cleaned, err := a.Dispatcher.Copy(raw)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	_, _ = fmt.Fprintln(c.Root().Writer, cleaned)
	return nil
}
