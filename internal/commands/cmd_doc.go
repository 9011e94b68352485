package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/callbell/internal/core/styles"
)

type DocCmd struct {
	flags *Flags
	deps  *Deps
	raw   bool
}

func NewDocCmd(flags *Flags, deps *Deps) *DocCmd {
	return &DocCmd{flags: flags, deps: deps}
}

func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Show usage guides",
		Commands: []*cli.Command{
			{
				Name:   "keys",
				Usage:  "Keyboard reference for the reminder console",
				Flags:  []cli.Flag{cmd.rawFlag()},
				Action: cmd.show(keysGuide),
			},
			{
				Name:   "config",
				Usage:  "Annotated configuration reference",
				Flags:  []cli.Flag{cmd.rawFlag()},
				Action: cmd.show(configGuide),
			},
		},
	})
	return app
}

func (cmd *DocCmd) rawFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "raw",
		Usage:       "print markdown without styling",
		Destination: &cmd.raw,
	}
}

func (cmd *DocCmd) show(md string) cli.ActionFunc {
	return func(_ context.Context, c *cli.Command) error {
		w := c.Root().Writer
		if cmd.raw || !term.IsTerminal(int(os.Stdout.Fd())) {
			_, err := fmt.Fprint(w, md)
			return err
		}

		width := 80
		if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
			width = min(tw, 100)
		}

		dark := false
		if cmd.deps.App != nil {
			dark = cmd.deps.App.Settings.Get().DarkTheme
		}
		out, err := styles.RenderMarkdown(md, width, dark)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		_, err = fmt.Fprint(w, out)
		return err
	}
}

const keysGuide = `# Reminder console

Due calls appear as cards at the top. A bell plays for each new card once
sound has been enabled by pressing any key.

## Card actions

| Key | Action |
|-----|--------|
| c | Start the call and close the card |
| n | No answer: schedule the next attempt |
| d | Completed: delete the call (asks first) |
| p | Postpone by 10 minutes |
| y | Copy the number and close the card |
| x | Close the card |

Cards close by themselves after 15 minutes. A card that is closing ignores
further keys.

## Navigation

| Key | Action |
|-----|--------|
| ↑/k ↓/j | Move the selection |
| tab | Switch between cards and the call list |
| r | Poll now and reload the call list |
| ? | Toggle full help |
| q | Quit |

In the call list c dials and y copies the selected number.
`

const configGuide = "# Configuration\n\n" +
	"The config file lives at `$XDG_CONFIG_HOME/callbell/config.yaml`. Every key is optional.\n\n" +
	"```yaml\n" +
	`api:
  base_url: http://127.0.0.1:8000
  timeout: 10s
  # reuse an authenticated browser session
  csrf_token: ""
  session_id: ""
poll:
  interval: 2s
reminder:
  capacity: 10
  expiry: 15m
  close_delay: 300ms
audio:
  asset: ""            # explicit sound file
  asset_dir: ""        # defaults to <data-dir>/sounds
  asset_glob: "**/notification.{mp3,wav,ogg}"
  player: ""           # paplay, aplay, afplay
desktop:
  enabled: false
  command: notify-send
dial:
  opener: xdg-open
database:
  busy_timeout: 5000
` + "```\n\n" +
	"Environment variables prefixed with `CALLBELL_` override the global flags and may be\n" +
	"placed in a `.env` file in the working directory.\n"
