// Package preflight provides readiness checks for the files and directories
// a pack-list run touches.
//
// The CLI "config validate --inputs" command runs every check and renders the
// results as status lines. Checks never modify the filesystem; a missing
// output directory passes when its nearest existing parent is writable,
// because the run creates it.
package preflight
