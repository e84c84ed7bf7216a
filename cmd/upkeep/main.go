package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"media-upkeep/internal/database"
	"media-upkeep/internal/logging"
	"media-upkeep/internal/media"
	"media-upkeep/internal/metrics"
	"media-upkeep/internal/startup"
)

// errUsage is returned for invalid command lines; usage has already been printed.
var errUsage = errors.New("invalid usage")

// app carries what every command needs.
type app struct {
	cfg    *startup.Config
	stdout io.Writer
	stderr io.Writer
	db     *database.Database
}

// outcome is what a command reports for the run history.
type outcome struct {
	summary string
	missing []string
}

type command func(ctx context.Context, a *app, args []string) (outcome, error)

var commands = map[string]command{
	"thumbnails": runThumbnails,
	"durations":  runDurations,
	"patch":      runPatch,
}

func main() {
	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, stopping after the current file...")
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	media.ShutdownVips()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("upkeep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file (default $"+startup.ConfigEnv+")")
	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() == 0 {
		printUsage(stderr)
		return 1
	}

	name, rest := fs.Arg(0), fs.Args()[1:]

	switch name {
	case "version":
		printVersion(stdout)
		return 0
	case "help":
		printUsage(stdout)
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, startup.Usage())
		return 0
	}

	cmd, known := commands[name]
	if !known && name != "history" {
		fmt.Fprintf(stderr, "Unknown command: %s\n", sanitizeCommand(name))
		printUsage(stderr)
		return 1
	}

	cfg, err := startup.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	startup.LogConfig(cfg)

	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}

	if name == "history" {
		return a.exitCode(runHistory(ctx, a, rest))
	}

	if cfg.HistoryEnabled() {
		db, err := database.New(ctx, cfg.DatabasePath)
		if err != nil {
			logging.Warn("Run history disabled: %v", err)
		} else {
			a.db = db
			defer func() {
				if err := db.Close(); err != nil {
					logging.Warn("failed to close database: %v", err)
				}
			}()
		}
	}

	if cfg.MetricsTextfile != "" {
		metrics.InitializeMetrics()
	}

	started := time.Now()
	out, err := cmd(ctx, a, rest)
	a.finish(ctx, name, started, out, err)

	return a.exitCode(err)
}

// finish records metrics and run history for a completed command.
func (a *app) finish(ctx context.Context, name string, started time.Time, out outcome, runErr error) {
	if errors.Is(runErr, errUsage) {
		return
	}

	metrics.ObserveRun(name, started, runErr)

	if a.db != nil {
		run := &database.Run{
			Command:    name,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Status:     database.StatusSuccess,
			Summary:    out.summary,
		}
		if runErr != nil {
			run.Status = database.StatusError
			run.Summary = runErr.Error()
		}

		// The run is recorded even when the command was interrupted.
		recordCtx := context.WithoutCancel(ctx)
		if err := a.db.RecordRun(recordCtx, run); err != nil {
			logging.Warn("Failed to record run: %v", err)
		} else if err := a.db.RecordMissingTracks(recordCtx, run.ID, out.missing); err != nil {
			logging.Warn("Failed to record missing tracks: %v", err)
		}
	}

	if a.cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			logging.Warn("%v", err)
		}
	}
}

func (a *app) exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
}

// parseFlags parses command flags, mapping parse failures to errUsage.
func parseFlags(fs *flag.FlagSet, a *app, args []string) error {
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(a.stderr, "Unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return errUsage
	}
	return nil
}

// sanitizeCommand returns a safe representation of a command string for display.
// Any character that is not alphanumeric, a hyphen, or an underscore is
// replaced with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Media asset upkeep")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: upkeep [-config FILE] <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  thumbnails          - Generate missing video thumbnails")
	fmt.Fprintln(w, "  durations           - Write the track duration mapping")
	fmt.Fprintln(w, "  patch [-dry-run]    - Patch track durations into the playlist")
	fmt.Fprintln(w, "  history [-n N] [-command NAME] [-missing]")
	fmt.Fprintln(w, "                      - Show recent runs")
	fmt.Fprintln(w, "  version             - Show build information")
	fmt.Fprintln(w, "  help                - Show this help and the configuration variables")
}

func printVersion(w io.Writer) {
	info := startup.GetBuildInfo()
	fmt.Fprintf(w, "upkeep %s (commit %s, built %s, %s %s/%s)\n",
		info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
}
