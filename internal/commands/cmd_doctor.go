package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/callbell/internal/audio"
	"github.com/colonyops/callbell/internal/core/doctor"
	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/pkg/iojson"
)

type DoctorCmd struct {
	flags  *Flags
	deps   *Deps
	format string
}

func NewDoctorCmd(flags *Flags, deps *Deps) *DoctorCmd {
	return &DoctorCmd{flags: flags, deps: deps}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your setup",
		UsageText:   "callbell doctor [options]",
		Description: "Checks configuration, backend access, audio playback, desktop tools and the local database.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) checks() []doctor.Check {
	a := cmd.deps.App
	cfg := a.Config

	required := []string{cfg.Dial.Opener}
	var optional []string
	if cfg.Desktop.Enabled {
		required = append(required, cfg.Desktop.Command)
	} else {
		optional = append(optional, cfg.Desktop.Command)
	}
	if cfg.Audio.Player != "" {
		required = append(required, cfg.Audio.Player)
	}

	return []doctor.Check{
		doctor.ErrCheck("Configuration", cmd.flags.ConfigPath, doctor.StatusFail, func(context.Context) error {
			return cfg.ValidateDeep(cmd.flags.ConfigPath)
		}),
		doctor.BackendCheck(a.Client.BaseURL(), a.Client),
		doctor.ErrCheck("Audio", "player", doctor.StatusWarn, func(context.Context) error {
			_, err := audio.DetectPlayer(a.Exec, cfg.Audio.Player)
			return err
		}),
		doctor.ErrCheck("Audio", "sound asset", doctor.StatusWarn, func(ctx context.Context) error {
			_, err := audio.AssetResolver{
				Path: cfg.Audio.Asset,
				Dir:  cfg.Audio.AssetDir,
				Glob: cfg.Audio.AssetGlob,
			}.Resolve(ctx)
			if errors.Is(err, audio.ErrNoAsset) {
				return errors.New("no local sound, it will be downloaded or a tone is used")
			}
			return err
		}),
		doctor.ToolsCheck(a.Exec, required, optional),
		doctor.ErrCheck("Database", a.DB.Path(), doctor.StatusFail, func(ctx context.Context) error {
			var result string
			if err := a.DB.Conn().QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
				return err
			}
			if result != "ok" {
				return fmt.Errorf("integrity check: %s", result)
			}
			return nil
		}),
	}
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := doctor.RunAll(ctx, cmd.checks())

	if cmd.format == "json" {
		passed, warned, failed := doctor.Summary(results)
		out := struct {
			Healthy bool            `json:"healthy"`
			Summary summaryJSON     `json:"summary"`
			Checks  []doctor.Result `json:"checks"`
		}{
			Healthy: failed == 0,
			Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
			Checks:  results,
		}
		return iojson.WriteIndented(c.Root().Writer, out)
	}

	return cmd.outputText(results)
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) outputText(results []doctor.Result) error {
	w := os.Stderr
	th := styles.NewTheme(cmd.deps.App.Settings.Get().DarkTheme)
	divider := th.Muted.Render(strings.Repeat("─", 40))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, th.Header.Render("callbell doctor"))
	_, _ = fmt.Fprintln(w, divider)
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, th.Value.Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + th.Muted.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = th.Success.Render(styles.IconSuccess)
			case doctor.StatusWarn:
				icon = th.CardTitle.Render(styles.IconDot)
			case doctor.StatusFail:
				icon = th.Error.Render(styles.IconError)
			}

			_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, item.Label, detail)
		}

		_, _ = fmt.Fprintln(w)
	}

	passed, warned, failed := doctor.Summary(results)
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		th.Success.Render(fmt.Sprintf("%d passed", passed)),
		th.CardTitle.Render(fmt.Sprintf("%d warnings", warned)),
		th.Error.Render(fmt.Sprintf("%d failed", failed)),
	)

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}
