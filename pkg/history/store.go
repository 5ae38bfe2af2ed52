package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver (cgo)
	_ "modernc.org/sqlite"          // "sqlite" driver (pure Go)

	"mercator-hq/cohesion/pkg/config"
	"mercator-hq/cohesion/pkg/lint"
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"
	DriverCgo     = "sqlite3"
)

// Store persists analyze runs in SQLite.
type Store struct {
	db     *sql.DB
	config config.HistoryConfig
	logger *slog.Logger
}

// Open opens (creating if needed) the history database described by cfg.
func Open(cfg config.HistoryConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Driver == "" {
		cfg.Driver = config.DefaultHistoryDriver
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = config.DefaultHistoryBusyTimeout
	}
	if cfg.Driver != DriverModernc && cfg.Driver != DriverCgo {
		return nil, newStorageError(cfg.Driver, "open", fmt.Errorf("unsupported driver %q", cfg.Driver))
	}
	if cfg.Path == "" {
		return nil, newStorageError(cfg.Driver, "open", errors.New("db path cannot be empty"))
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, newStorageError(cfg.Driver, "open", err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, newStorageError(cfg.Driver, "open", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:     db,
		config: cfg,
		logger: logger.With("component", "history", "driver", cfg.Driver),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("history database opened", "path", cfg.Path)
	return s, nil
}

// initialize enables WAL mode, sets the busy timeout and creates the schema.
func (s *Store) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return newStorageError(s.config.Driver, "enable_wal", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return newStorageError(s.config.Driver, "set_busy_timeout", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return newStorageError(s.config.Driver, "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion, time.Now().UnixMilli()); err != nil {
		return newStorageError(s.config.Driver, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return newStorageError(s.config.Driver, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStorageError(s.config.Driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Record stores a run and its file results in one transaction. The run's
// counters are recomputed from files.
func (s *Store) Record(ctx context.Context, run Run, files []FileResult) (Run, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	run = Summarize(run, files)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return run, newStorageError(s.config.Driver, "record", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, started_at, duration_ms, tool_version, git_revision,
			files, compliant_files, violations, warnings, errors
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.ToolVersion, nullString(run.GitRevision),
		run.Files, run.CompliantFiles, run.Violations, run.Warnings, run.Errors,
	)
	if err != nil {
		return run, newStorageError(s.config.Driver, "record", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO file_results (run_id, seq, path, compliant, violations, warnings, error, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return run, newStorageError(s.config.Driver, "record", err)
	}
	defer stmt.Close()

	for i, f := range files {
		var report any
		if f.Report != nil {
			data, err := json.Marshal(f.Report)
			if err != nil {
				return run, newStorageError(s.config.Driver, "record", err)
			}
			report = string(data)
		}
		_, err := stmt.ExecContext(ctx, run.ID, i, f.Path, f.Compliant, f.Violations, f.Warnings, nullString(f.Error), report)
		if err != nil {
			return run, newStorageError(s.config.Driver, "record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return run, newStorageError(s.config.Driver, "record", err)
	}

	s.logger.DebugContext(ctx, "run recorded", "run_id", run.ID, "files", run.Files)
	return run, nil
}

const runColumns = `id, started_at, duration_ms, tool_version, git_revision,
	files, compliant_files, violations, warnings, errors`

// List returns the most recent runs, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, newStorageError(s.config.Driver, "list", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, newStorageError(s.config.Driver, "list", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError(s.config.Driver, "list", err)
	}
	return runs, nil
}

// Show returns a run and its file results. id may be any unique prefix of
// a run id.
func (s *Store) Show(ctx context.Context, id string) (Run, []FileResult, error) {
	if id == "" {
		return Run{}, nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id LIMIT 2",
		id, len(id), id)
	if err != nil {
		return Run{}, nil, newStorageError(s.config.Driver, "show", err)
	}
	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return Run{}, nil, newStorageError(s.config.Driver, "show", err)
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Run{}, nil, newStorageError(s.config.Driver, "show", err)
	}

	switch len(matches) {
	case 0:
		return Run{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
	default:
		return Run{}, nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
	run := matches[0]

	files, err := s.files(ctx, run.ID)
	if err != nil {
		return Run{}, nil, err
	}
	return run, files, nil
}

func (s *Store) files(ctx context.Context, runID string) ([]FileResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, compliant, violations, warnings, error, report
		FROM file_results WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, newStorageError(s.config.Driver, "show", err)
	}
	defer rows.Close()

	var files []FileResult
	for rows.Next() {
		var (
			f         FileResult
			errText   sql.NullString
			reportRaw sql.NullString
		)
		if err := rows.Scan(&f.Path, &f.Compliant, &f.Violations, &f.Warnings, &errText, &reportRaw); err != nil {
			return nil, newStorageError(s.config.Driver, "show", err)
		}
		f.Error = errText.String
		if reportRaw.Valid {
			var report lint.Report
			if err := json.Unmarshal([]byte(reportRaw.String), &report); err != nil {
				return nil, newStorageError(s.config.Driver, "show", fmt.Errorf("decode report for %s: %w", f.Path, err))
			}
			f.Report = &report
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError(s.config.Driver, "show", err)
	}
	return files, nil
}

// Prune deletes runs that started before cutoff and returns how many were
// deleted.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, newStorageError(s.config.Driver, "prune", err)
	}
	defer tx.Rollback()

	ms := cutoff.UnixMilli()
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM file_results WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)", ms); err != nil {
		return 0, newStorageError(s.config.Driver, "prune", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", ms)
	if err != nil {
		return 0, newStorageError(s.config.Driver, "prune", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, newStorageError(s.config.Driver, "prune", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, newStorageError(s.config.Driver, "prune", err)
	}
	return deleted, nil
}

// Ping verifies the database is reachable. It serves as the history
// readiness check in watch mode.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return newStorageError(s.config.Driver, "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return newStorageError(s.config.Driver, "close", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run        Run
		startedMs  int64
		durationMs int64
		revision   sql.NullString
	)
	err := row.Scan(&run.ID, &startedMs, &durationMs, &run.ToolVersion, &revision,
		&run.Files, &run.CompliantFiles, &run.Violations, &run.Warnings, &run.Errors)
	if err != nil {
		return Run{}, err
	}
	run.StartedAt = time.UnixMilli(startedMs).UTC()
	run.Duration = time.Duration(durationMs) * time.Millisecond
	run.GitRevision = revision.String
	return run, nil
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
