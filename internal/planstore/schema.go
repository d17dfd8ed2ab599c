package planstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the version schema.sql creates. Bumping it requires a
// migration from the previous version.
const schemaVersion = 2

// migrations upgrade a database from the keyed version to the next one.
var migrations = map[int][]string{
	1: {"ALTER TABLE runs ADD COLUMN excluded_count INTEGER NOT NULL DEFAULT 0"},
}

// ErrSchemaMismatch indicates the database was written by a newer speedpack
// or by a version with no upgrade path.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return fmt.Errorf("%w: %s has version %d, this build supports up to %d",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	default:
		return s.migrate(ctx, version)
	}
}

func (s *Store) createSchema(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	})
}

// migrate applies every step from version up to schemaVersion in one
// transaction, so a failed step leaves the database at its old version.
func (s *Store) migrate(ctx context.Context, version int) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for v := version; v < schemaVersion; v++ {
			steps, ok := migrations[v]
			if !ok {
				return fmt.Errorf("%w: no upgrade from version %d (delete %s to start over)",
					ErrSchemaMismatch, v, s.path)
			}
			for _, stmt := range steps {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migrate schema %d to %d: %w", v, v+1, err)
				}
			}
		}
		if _, err := tx.ExecContext(ctx, "UPDATE schema_version SET version = ?", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
