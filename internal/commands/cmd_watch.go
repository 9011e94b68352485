package commands

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/render"
	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/poller"
)

type WatchCmd struct {
	flags *Flags
	deps  *Deps

	unlockAudio bool
	once        bool
}

func NewWatchCmd(flags *Flags, deps *Deps) *WatchCmd {
	return &WatchCmd{flags: flags, deps: deps}
}

func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Poll for due calls without the interactive console",
		UsageText: "callbell watch [--unlock-audio] [--once]",
		Description: `Prints one line per due reminder and, when enabled in config, raises a
desktop notification. Sound only plays with --unlock-audio.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "unlock-audio",
				Usage:       "allow the alert sound without a keypress",
				Sources:     cli.EnvVars("CALLBELL_UNLOCK_AUDIO"),
				Destination: &cmd.unlockAudio,
			},
			&cli.BoolFlag{
				Name:        "once",
				Usage:       "poll a single time and exit",
				Destination: &cmd.once,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	a := cmd.deps.App
	s := a.LoadSettings(ctx)

	lines := &lineRenderer{w: c.Root().Writer, theme: styles.NewTheme(s.DarkTheme)}
	a.Start(append(reminder.Fanout{lines}, a.Renderers()...))

	if cmd.unlockAudio {
		a.Alerter.Unlock()
	}
	defer a.Alerter.Wait()

	if cmd.once {
		res, _ := a.Poller.Poll(ctx)
		return res.Err
	}

	a.Poller.OnResult(func(r poller.Result) {
		if r.Err != nil {
			lines.status(fmt.Sprintf("%s backend unreachable: %v", styles.IconError, r.Err))
		}
	})

	go a.Bus.Start(ctx)
	log.Info().Dur("interval", cmd.flags.Config.Poll.Interval).Msg("watching for due calls")
	if err := a.Poller.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// lineRenderer prints a line per shown reminder.
type lineRenderer struct {
	mu    sync.Mutex
	w     io.Writer
	theme styles.Theme
}

func (r *lineRenderer) Show(n reminder.Notification) {
	rec := n.Record
	line := fmt.Sprintf("%s %s  %s  %s  %s",
		styles.IconBell,
		r.theme.CardTitle.Render(render.Terminal(rec.ScheduledAt)),
		r.theme.CardPhone.Render(render.Terminal(rec.Phone)),
		render.Terminal(rec.Comment),
		r.theme.Muted.Render("#"+render.Terminal(rec.CallID)),
	)
	r.print(line)
}

func (r *lineRenderer) BeginClose(string) {}

func (r *lineRenderer) Remove(string) {}

func (r *lineRenderer) status(msg string) {
	r.print(r.theme.StatusErr.Render(msg))
}

func (r *lineRenderer) print(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, line)
}
