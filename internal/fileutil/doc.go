// Package fileutil provides the output sink helpers used when a pack list is
// written to disk: atomic replacement of the destination file and an advisory
// lock that keeps two runs from targeting the same path.
package fileutil
