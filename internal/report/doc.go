// Package report renders packed buckets as pack-list lines.
//
// The Emitter walks buckets in the order it is given, drops empty buckets,
// filters excluded names, joins each record against the cross-reference
// table and hands one Line per surviving record to a LineWriter. TSVWriter
// produces the tab-separated pack-list format; other writers (such as the
// plan store) can be combined with MultiWriter.
package report
