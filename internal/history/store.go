package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jssimporter/spruce/internal/model"
)

// ErrRunNotFound reports a run id that is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Store provides SQLite-based storage for run summaries.
//
// Design decision: We store counts per result heading rather than full
// report JSON. The compare command only ever diffs counts, summaries stay
// readable with plain sqlite3, and the store never has to migrate a report
// schema.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "spruce.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- One row per completed audit run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		server TEXT NOT NULL,
		tool_version TEXT NOT NULL,
		generated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_server ON runs(server);
	CREATE INDEX IF NOT EXISTS idx_runs_generated ON runs(generated_at);

	-- One row per result heading per run
	CREATE TABLE IF NOT EXISTS summaries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		heading TEXT NOT NULL,
		count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_summaries_run ON summaries(run_id);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// RunMetadata describes one stored run.
type RunMetadata struct {
	// ID is the run's store identifier, shown by list and consumed by compare.
	ID int64

	// Server is the audited server.
	Server string

	// ToolVersion produced the run.
	ToolVersion string

	// GeneratedAt is the run timestamp.
	GeneratedAt time.Time
}

// Summary is one stored result count.
type Summary struct {
	// Kind is the object kind tag, e.g. "package".
	Kind string

	// Heading is the result heading, e.g. "Unused Packages".
	Heading string

	// Count is the result's identity count at run time.
	Count int
}

// SaveRun stores the run's metadata and one summary row per non-verbose
// result, returning the new run id. Verbose-only results (the All/Used
// listings) are deliberately not stored; their counts are derivable and
// they would triple the table for no comparison value.
func (s *Store) SaveRun(ctx context.Context, run *model.RunReport) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO runs (server, tool_version, generated_at) VALUES (?, ?, ?)`,
		run.Server, run.ToolVersion, run.GeneratedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, report := range run.Reports {
		for _, res := range report.Results {
			if res.VerboseOnly {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO summaries (run_id, kind, heading, count) VALUES (?, ?, ?, ?)`,
				runID, report.Kind.Tag(), res.Heading, len(res.Identities),
			); err != nil {
				return 0, fmt.Errorf("insert summary %q: %w", res.Heading, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the stored runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunMetadata, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, server, tool_version, generated_at FROM runs ORDER BY generated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		if err := rows.Scan(&meta.ID, &meta.Server, &meta.ToolVersion, &timestamp); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		meta.GeneratedAt = parseTimestamp(timestamp)
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// Run returns the metadata for one stored run.
func (s *Store) Run(ctx context.Context, runID int64) (RunMetadata, error) {
	var meta RunMetadata
	var timestamp string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, server, tool_version, generated_at FROM runs WHERE id = ?`, runID).
		Scan(&meta.ID, &meta.Server, &meta.ToolVersion, &timestamp)
	if err == sql.ErrNoRows {
		return RunMetadata{}, fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return RunMetadata{}, fmt.Errorf("get run: %w", err)
	}
	meta.GeneratedAt = parseTimestamp(timestamp)
	return meta, nil
}

// Summaries returns one run's summary rows in insertion order, which is
// the report production order of the run that saved them.
func (s *Store) Summaries(ctx context.Context, runID int64) ([]Summary, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, heading, count FROM summaries WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.Kind, &sum.Heading, &sum.Count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// timestampFormats contains the timestamp formats SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats, since SQLite may return timestamps in different formats
// depending on configuration. Returns zero time when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
