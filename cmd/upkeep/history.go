package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"media-upkeep/internal/database"
)

func runHistory(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("n", 10, "number of runs to show")
	command := fs.String("command", "", "only show runs of this command")
	missing := fs.Bool("missing", false, "list the tracks the last patch run had no duration for")
	if err := parseFlags(fs, a, args); err != nil {
		return err
	}

	if !a.cfg.HistoryEnabled() {
		return errors.New("run history is disabled (NO_HISTORY is set)")
	}

	db, err := database.New(ctx, a.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer db.Close()

	if *missing {
		return showMissing(ctx, a, db)
	}

	runs, err := db.RecentRuns(ctx, *command, *limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.stdout, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tCOMMAND\tSTATUS\tDURATION\tSUMMARY")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.Command,
			r.Status,
			r.Duration().Round(time.Millisecond),
			r.Summary)
	}
	return tw.Flush()
}

func showMissing(ctx context.Context, a *app, db *database.Database) error {
	run, err := db.LatestRun(ctx, "patch")
	if errors.Is(err, sql.ErrNoRows) {
		fmt.Fprintln(a.stdout, "No patch runs recorded.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find last patch run: %w", err)
	}

	paths, err := db.MissingTracks(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to list missing tracks: %w", err)
	}

	fmt.Fprintf(a.stdout, "Patch run %s (%s): %d tracks without a duration\n",
		run.ID, run.StartedAt.Local().Format(time.DateTime), len(paths))
	for _, p := range paths {
		fmt.Fprintf(a.stdout, "  - %s\n", p)
	}
	return nil
}
