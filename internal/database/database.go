package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	sqldblogger "github.com/simukti/sqldb-logger"

	"media-upkeep/internal/logging"
	"media-upkeep/internal/metrics"
)

const (
	// Default timeout for database operations
	defaultTimeout = 5 * time.Second

	sqlDialect = "sqlite3"

	// Rows per multi-row insert, well below SQLite's bound parameter limit.
	insertBatchSize = 200
)

// Run statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Run is one recorded command run.
type Run struct {
	ID         string
	Command    string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Summary    string
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

type runModel struct {
	ID         string `db:"id"`
	Command    string `db:"command"`
	StartedAt  int64  `db:"started_at"`
	FinishedAt int64  `db:"finished_at"`
	Status     string `db:"status"`
	Summary    string `db:"summary"`
}

func (m runModel) toRun() Run {
	return Run{
		ID:         m.ID,
		Command:    m.Command,
		StartedAt:  time.UnixMilli(m.StartedAt),
		FinishedAt: time.UnixMilli(m.FinishedAt),
		Status:     m.Status,
		Summary:    m.Summary,
	}
}

type missingTrackModel struct {
	RunID string `db:"run_id"`
	Path  string `db:"path"`
}

// Database stores the run history.
type Database struct {
	db     *sqlx.DB
	dbPath string
	mu     sync.RWMutex
}

// NewRunID returns a new random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// New opens (creating if needed) the history database at dbPath and applies
// any pending migrations. The parent directory is created if it does not exist.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Debug("Database path: %s", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := diagnoseDatabasePermissions(dbPath); err != nil {
		logging.Warn("Database permission diagnostics: %v", err)
	}

	// busy_timeout helps prevent "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)
	rawDB := sqldblogger.OpenDriver(connStr, &sqlite3.SQLiteDriver{}, sqlLogger{})

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := rawDB.PingContext(pingCtx); err != nil {
		if closeErr := rawDB.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(rawDB); err != nil {
		if closeErr := rawDB.Close(); closeErr != nil {
			logging.Error("failed to close database after migration failure: %v", closeErr)
		}
		return nil, err
	}

	return &Database{
		db:     sqlx.NewDb(rawDB, sqlDialect),
		dbPath: dbPath,
	}, nil
}

// migrate applies the embedded schema migrations.
func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(migrationLogger{})
	if err := goose.SetDialect(sqlDialect); err != nil {
		return fmt.Errorf("failed to set dialect for migration: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.dbPath
}

// RecordRun stores a finished run. A run with an empty ID gets a new one.
func (d *Database) RecordRun(ctx context.Context, run *Run) (err error) {
	start := time.Now()
	defer func() { recordQuery("record_run", start, err) }()

	if run.ID == "" {
		run.ID = NewRunID()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.NamedExecContext(ctx, `
		INSERT INTO runs (id, command, started_at, finished_at, status, summary)
		VALUES (:id, :command, :started_at, :finished_at, :status, :summary)
	`, runModel{
		ID:         run.ID,
		Command:    run.Command,
		StartedAt:  run.StartedAt.UnixMilli(),
		FinishedAt: run.FinishedAt.UnixMilli(),
		Status:     run.Status,
		Summary:    run.Summary,
	})
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecordMissingTracks stores the paths a run could not find durations for.
// The run must already be recorded.
func (d *Database) RecordMissingTracks(ctx context.Context, runID string, paths []string) (err error) {
	if len(paths) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { recordQuery("record_missing_tracks", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for len(paths) > 0 {
		n := min(len(paths), insertBatchSize)
		rows := make([]missingTrackModel, n)
		for i, p := range paths[:n] {
			rows[i] = missingTrackModel{RunID: runID, Path: p}
		}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO missing_tracks (run_id, path) VALUES (:run_id, :path)`, rows); err != nil {
			return endTx(tx, fmt.Errorf("failed to record missing tracks: %w", err))
		}
		paths = paths[n:]
	}

	return endTx(tx, nil)
}

func selectRunsBuilder() squirrel.SelectBuilder {
	return squirrel.
		Select("id", "command", "started_at", "finished_at", "status", "summary").
		From("runs").
		OrderBy("started_at DESC", "rowid DESC")
}

// RecentRuns returns up to limit runs, newest first. A non-empty command
// restricts the list to runs of that command.
func (d *Database) RecentRuns(ctx context.Context, command string, limit int) (runs []Run, err error) {
	start := time.Now()
	defer func() { recordQuery("recent_runs", start, err) }()

	if limit <= 0 {
		limit = 10
	}

	builder := selectRunsBuilder().Limit(uint64(limit))
	if command != "" {
		builder = builder.Where(squirrel.Eq{"command": command})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct list runs query: %w", err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var models []runModel
	if err := d.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, err
	}

	runs = make([]Run, len(models))
	for i, m := range models {
		runs[i] = m.toRun()
	}
	return runs, nil
}

// LatestRun returns the newest run of command, or sql.ErrNoRows if there is none.
func (d *Database) LatestRun(ctx context.Context, command string) (*Run, error) {
	runs, err := d.RecentRuns(ctx, command, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, sql.ErrNoRows
	}
	return &runs[0], nil
}

// MissingTracks returns the paths recorded for runID in the order they were found.
func (d *Database) MissingTracks(ctx context.Context, runID string) (paths []string, err error) {
	start := time.Now()
	defer func() { recordQuery("missing_tracks", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	paths = []string{}
	if err := d.db.SelectContext(ctx, &paths, "SELECT path FROM missing_tracks WHERE run_id = ? ORDER BY id", runID); err != nil {
		return nil, err
	}
	return paths, nil
}

// endTx commits the transaction, or rolls it back when err is set.
func endTx(tx *sqlx.Tx, err error) error {
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}
	return tx.Commit()
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// diagnoseDatabasePermissions checks database directory and file permissions
func diagnoseDatabasePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat database directory: %w", err)
	}
	logging.Debug("Database directory: %s (mode: %v)", dir, dirInfo.Mode())

	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		logging.Debug("Database file exists: %s (mode: %v, size: %d bytes)", path, info.Mode(), info.Size())
		if info.Mode().Perm()&0o200 == 0 {
			logging.Warn("%s is read-only! Mode: %v - this will cause write failures", path, info.Mode())
		}
	}

	return nil
}
