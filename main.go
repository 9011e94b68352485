package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/callbell/internal/app"
	"github.com/colonyops/callbell/internal/commands"
	"github.com/colonyops/callbell/internal/core/config"
	"github.com/colonyops/callbell/internal/core/logging"
	"github.com/colonyops/callbell/internal/data/db"
	"github.com/colonyops/callbell/internal/data/stores"
	"github.com/colonyops/callbell/pkg/executil"
	"github.com/colonyops/callbell/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

const sweepInterval = 5 * time.Minute

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// loadEnv reads CALLBELL_ENV_FILE, or .env in the working directory, before
// flags are parsed so the file can supply CALLBELL_* flag values.
func loadEnv() error {
	path := os.Getenv("CALLBELL_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// openDatabase opens the state database. A corrupt file is moved aside and a
// fresh database is created in its place.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.DefaultOpenOptions()
	opts.BusyTimeout = cfg.Database.BusyTimeout

	database, err := db.Open(cfg.StateFile(), opts)
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.StateFile())
	if rerr != nil {
		return nil, fmt.Errorf("recover corrupt database: %w (original error: %v)", rerr, err)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("state database was corrupt, starting fresh")
	return db.Open(cfg.StateFile(), opts)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var (
		logCloser   func()
		database    *db.DB
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}
	deps := &commands.Deps{}

	root := &cli.Command{
		Name:      "callbell",
		Usage:     "Call-back reminders in your terminal",
		UsageText: "callbell [global options] command [command options]",
		Description: `callbell polls the call scheduling backend for calls that are due, shows
each one as a card with a bell, and lets you act on it with one key: call,
no answer, completed, postpone by ten minutes, copy the number or close.

Run 'callbell' with no arguments to open the reminder console.
Run 'callbell watch' for a headless poller with desktop notifications.
Run 'callbell devserver --seed' to try it against an in-memory backend.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CALLBELL_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("CALLBELL_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CALLBELL_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("CALLBELL_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile, logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			database, err = openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			a, err := app.New(cfg, database, &executil.RealExecutor{})
			if err != nil {
				return ctx, err
			}
			deps.App = a

			sweepCtx, cancel := context.WithCancel(context.Background())
			sweepCancel = cancel
			go a.RunSweeper(sweepCtx, sweepInterval)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if sweepCancel != nil {
				sweepCancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, deps)

	root = tuiCmd.Register(root)
	root = commands.NewWatchCmd(flags, deps).Register(root)
	root = commands.NewCallsCmd(flags, deps).Register(root)
	root = commands.NewActionCmd(flags, deps).Register(root)
	root = commands.NewSettingsCmd(flags, deps).Register(root)
	root = commands.NewHistoryCmd(flags, deps).Register(root)
	root = commands.NewDoctorCmd(flags, deps).Register(root)
	root = commands.NewDocCmd(flags, deps).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewDevServerCmd(flags).Register(root)

	// Open the console when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'callbell --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}

	stop()
	os.Exit(exitCode)
}
