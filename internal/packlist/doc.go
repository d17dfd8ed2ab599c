// Package packlist runs the pack-list pipeline: load and classify the
// catalog, load the hash cross-reference, pack each speed class into
// buckets, and emit one line per surviving record.
//
// Phases run strictly in that order on the calling goroutine. The context is
// checked between phases and periodically while the catalog streams in.
package packlist
