// Package main hosts the speedpack CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into pack-list runs,
// bucket previews, region diagnostics, plan store queries, and configuration
// scaffolding. It resolves configuration once per invocation, layers flag
// overrides on top, and builds the stderr logger so subcommands only wire
// the internal packages together.
//
// Keep this package lean: new behavior belongs in internal packages first and
// is surfaced here through commands or flags.
package main
