package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/callbell/internal/core/eventbus"
	"github.com/colonyops/callbell/internal/core/settings"
	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/core/validate"
	"github.com/colonyops/callbell/pkg/iojson"
)

type SettingsCmd struct {
	flags *Flags
	deps  *Deps

	jsonOutput bool
	sound      string
	volume     int
	dark       string
}

func NewSettingsCmd(flags *Flags, deps *Deps) *SettingsCmd {
	return &SettingsCmd{flags: flags, deps: deps}
}

func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "settings",
		Usage: "Show or change sound and theme preferences",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:      "edit",
				Usage:     "Change settings",
				UsageText: "callbell settings edit [--sound on|off] [--volume 0-100] [--dark on|off]",
				Description: `Without flags an interactive form is shown. The new settings are saved to
the backend and take effect immediately.`,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sound", Usage: "on or off", Destination: &cmd.sound},
					&cli.IntFlag{Name: "volume", Usage: "0-100", Value: -1, Destination: &cmd.volume},
					&cli.StringFlag{Name: "dark", Usage: "on or off", Destination: &cmd.dark},
				},
				Action: cmd.runEdit,
			},
		},
	})
	return app
}

func (cmd *SettingsCmd) runShow(ctx context.Context, c *cli.Command) error {
	a := cmd.deps.App
	s := a.LoadSettings(ctx)

	if cmd.jsonOutput {
		return iojson.WriteIndented(c.Root().Writer, s)
	}

	th := styles.NewTheme(s.DarkTheme)
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, th.Label.Render(label), th.Value.Render(value))
	}
	_, _ = fmt.Fprintln(c.Root().Writer, lipgloss.JoinVertical(lipgloss.Left,
		row("Sound", onOff(s.SoundEnabled)),
		row("Volume", strconv.Itoa(s.Volume)+"%"),
		row("Dark theme", onOff(s.DarkTheme)),
		row("Backend", a.Client.BaseURL()),
	))
	return nil
}

func (cmd *SettingsCmd) runEdit(ctx context.Context, c *cli.Command) error {
	a := cmd.deps.App
	s := a.LoadSettings(ctx)

	var err error
	if cmd.sound == "" && cmd.volume < 0 && cmd.dark == "" {
		s, err = cmd.runForm(s)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
	} else {
		s, err = cmd.applyFlags(s)
	}
	if err != nil {
		return err
	}

	if err := a.Client.SaveSettings(ctx, s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	a.Settings.Set(s)
	a.Bus.PublishSettingsUpdated(eventbus.SettingsUpdatedPayload{Settings: s})

	th := styles.NewTheme(s.DarkTheme)
	_, _ = fmt.Fprintln(c.Root().Writer, th.Success.Render(styles.IconSuccess+" settings saved"))
	return nil
}

func (cmd *SettingsCmd) applyFlags(s settings.Settings) (settings.Settings, error) {
	var err error
	if cmd.sound != "" {
		if s.SoundEnabled, err = parseOnOff("sound", cmd.sound); err != nil {
			return s, err
		}
	}
	if cmd.volume >= 0 {
		if err := validate.Volume(strconv.Itoa(cmd.volume)); err != nil {
			return s, err
		}
		s.Volume = cmd.volume
	}
	if cmd.dark != "" {
		if s.DarkTheme, err = parseOnOff("dark", cmd.dark); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (cmd *SettingsCmd) runForm(s settings.Settings) (settings.Settings, error) {
	volume := strconv.Itoa(s.Volume)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Sound").
				Affirmative("On").
				Negative("Off").
				Value(&s.SoundEnabled),
			huh.NewInput().
				Title("Volume").
				Description(fmt.Sprintf("0-%d", settings.MaxVolume)).
				Validate(validate.Volume).
				Value(&volume),
			huh.NewConfirm().
				Title("Theme").
				Affirmative("Dark").
				Negative("Light").
				Value(&s.DarkTheme),
		),
	).WithTheme(styles.FormTheme(s.DarkTheme)).Run()
	if err != nil {
		return s, err
	}

	s.Volume, err = strconv.Atoi(volume)
	return s, err
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseOnOff(field, v string) (bool, error) {
	switch v {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%s must be on or off, got %q", field, v)
}
