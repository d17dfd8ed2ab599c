package planstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"speedpack/internal/region"
	"speedpack/internal/report"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Store manages plan persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the plan database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("plan database path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create plan database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

const runColumns = "id, created_at, catalog_path, crossref_path, output_path, prefix, max_per_dir, line_count, missing_count, excluded_count"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		createdRaw string
		outputPath sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&createdRaw,
		&run.CatalogPath,
		&run.CrossRefPath,
		&outputPath,
		&run.Prefix,
		&run.MaxPerDir,
		&run.Lines,
		&run.Missing,
		&run.Excluded,
	); err != nil {
		return nil, err
	}
	run.OutputPath = outputPath.String
	if t, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = t
	}
	return &run, nil
}

// GetRun fetches a committed run. It returns nil, nil when the ID is unknown.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns committed runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Lines returns the stored lines of a run in emission order.
func (s *Store) Lines(ctx context.Context, runID string) ([]report.Line, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT bucket, speed, span, name, translated, path, sha1, md5, crc, size
         FROM lines WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	defer rows.Close()

	lines := make([]report.Line, 0, run.Lines)
	for rows.Next() {
		var (
			line  report.Line
			speed string
		)
		if err := rows.Scan(
			&line.Bucket,
			&speed,
			&line.Span,
			&line.Name,
			&line.Translated,
			&line.Path,
			&line.SHA1,
			&line.MD5,
			&line.CRC,
			&line.Size,
		); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		line.Speed = region.Speed(speed)
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// DeleteRun removes a run and its lines.
func (s *Store) DeleteRun(ctx context.Context, runID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
