// Package planstore persists emitted pack lists in SQLite so earlier runs can
// be listed and inspected without re-reading the inputs.
//
// Each run is written inside one transaction: a RunWriter receives lines as
// the report is emitted and only a successful Commit makes the run visible.
// The schema is versioned through a schema_version table; a database created
// by a different version is rejected with ErrSchemaMismatch rather than
// migrated.
package planstore
