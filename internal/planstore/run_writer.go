package planstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"speedpack/internal/report"
)

// RunWriter records the lines of one run inside a transaction. It implements
// report.LineWriter.
type RunWriter struct {
	ctx     context.Context
	tx      *sql.Tx
	insert  *sql.Stmt
	id      string
	seq      int
	missing  int
	excluded int
	done     bool
}

// BeginRun starts a run. Nothing is visible to readers until Commit.
func (s *Store) BeginRun(ctx context.Context, info RunInfo) (*RunWriter, error) {
	if info.ID == "" {
		info.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin run tx: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, created_at, catalog_path, crossref_path, output_path, prefix, max_per_dir
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		info.ID,
		time.Now().UTC().Format(time.RFC3339Nano),
		info.CatalogPath,
		info.CrossRefPath,
		nullableString(info.OutputPath),
		info.Prefix,
		info.MaxPerDir,
	)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lines (
            run_id, seq, bucket, speed, span, name, translated, path, sha1, md5, crc, size
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("prepare line insert: %w", err)
	}

	return &RunWriter{ctx: ctx, tx: tx, insert: stmt, id: info.ID}, nil
}

// ID returns the run identifier.
func (w *RunWriter) ID() string { return w.id }

// WriteLine stores one line.
func (w *RunWriter) WriteLine(line report.Line) error {
	if w.done {
		return errors.New("run already finished")
	}
	w.seq++
	_, err := w.insert.ExecContext(w.ctx,
		w.id,
		w.seq,
		line.Bucket,
		string(line.Speed),
		line.Span,
		line.Name,
		line.Translated,
		line.Path,
		line.SHA1,
		line.MD5,
		line.CRC,
		line.Size,
	)
	if err != nil {
		return fmt.Errorf("store line %d: %w", w.seq, err)
	}
	if line.Translated == report.Missing {
		w.missing++
	}
	return nil
}

// SetExcluded records how many records the exclusion filter dropped. Excluded
// records produce no lines, so the count comes from the emitter.
func (w *RunWriter) SetExcluded(n int) { w.excluded = n }

// Commit records the line totals and makes the run visible.
func (w *RunWriter) Commit() error {
	if w.done {
		return errors.New("run already finished")
	}
	w.done = true
	defer w.insert.Close()

	if _, err := w.tx.ExecContext(w.ctx,
		`UPDATE runs SET line_count = ?, missing_count = ?, excluded_count = ? WHERE id = ?`,
		w.seq, w.missing, w.excluded, w.id,
	); err != nil {
		_ = w.tx.Rollback()
		return fmt.Errorf("update run totals: %w", err)
	}
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Rollback discards the run. It is a no-op after Commit.
func (w *RunWriter) Rollback() {
	if w == nil || w.done {
		return
	}
	w.done = true
	_ = w.insert.Close()
	_ = w.tx.Rollback()
}
