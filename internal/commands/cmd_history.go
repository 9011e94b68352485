package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/callbell/internal/core/history"
	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags
	deps  *Deps

	limit      int
	jsonOutput bool
	olderThan  time.Duration
}

func NewHistoryCmd(flags *Flags, deps *Deps) *HistoryCmd {
	return &HistoryCmd{flags: flags, deps: deps}
}

func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "history",
		Usage: "Show or prune the local log of call actions",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List recent actions, newest first",
				UsageText: "callbell history ls [--limit N] [--json]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "limit",
						Aliases:     []string{"n"},
						Usage:       "number of entries to show",
						Value:       20,
						Destination: &cmd.limit,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "prune",
				Usage:     "Delete old entries",
				UsageText: "callbell history prune [--older-than 720h]",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "older-than",
						Usage:       "delete entries older than this",
						Value:       30 * 24 * time.Hour,
						Destination: &cmd.olderThan,
					},
				},
				Action: cmd.runPrune,
			},
		},
	})
	return app
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.deps.App.History.List(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, e); err != nil {
				return fmt.Errorf("encode entry: %w", err)
			}
		}
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No actions recorded")
		return nil
	}

	th := styles.NewTheme(cmd.deps.App.Settings.Get().DarkTheme)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tCALL\tACTION\tRESULT")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.CallID,
			e.Kind,
			resultText(th, e),
		)
	}
	return w.Flush()
}

func resultText(th styles.Theme, e history.Entry) string {
	if e.Failed() {
		return th.Error.Render(styles.IconError + " " + e.Error)
	}
	return th.Success.Render(styles.IconSuccess + " ok")
}

func (cmd *HistoryCmd) runPrune(ctx context.Context, c *cli.Command) error {
	n, err := cmd.deps.App.History.Prune(ctx, time.Now().Add(-cmd.olderThan))
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "removed %d entries\n", n)
	return nil
}
