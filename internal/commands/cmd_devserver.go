package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/callbell/internal/core/logging"
	"github.com/colonyops/callbell/internal/devserver"
	"github.com/colonyops/callbell/pkg/clock"
)

type DevServerCmd struct {
	flags *Flags

	addr     string
	seed     bool
	timezone string
}

func NewDevServerCmd(flags *Flags) *DevServerCmd {
	return &DevServerCmd{flags: flags}
}

func (cmd *DevServerCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "devserver",
		Usage:     "Run an in-memory backend for local testing",
		UsageText: "callbell devserver [--addr 127.0.0.1:8000] [--seed]",
		Description: `Serves the reminder API from memory with the same scheduling rules as the
production backend. Point api.base_url at it to try the console without a
real account. Data is lost on exit.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8000",
				Sources:     cli.EnvVars("CALLBELL_DEVSERVER_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.BoolFlag{
				Name:        "seed",
				Usage:       "start with sample calls, two of them already due",
				Destination: &cmd.seed,
			},
			&cli.StringFlag{
				Name:        "tz",
				Usage:       "time zone for displayed times",
				Value:       "Local",
				Destination: &cmd.timezone,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DevServerCmd) run(ctx context.Context, _ *cli.Command) error {
	loc, err := time.LoadLocation(cmd.timezone)
	if err != nil {
		return fmt.Errorf("time zone: %w", err)
	}

	backend := devserver.NewBackend(clock.Real{}, loc)
	if cmd.seed {
		devserver.Seed(backend)
	}

	srv := devserver.NewServer(backend, logging.Component("devserver"))
	log.Info().Str("addr", cmd.addr).Bool("seed", cmd.seed).Msg("devserver listening")
	return srv.ListenAndServe(ctx, cmd.addr)
}
