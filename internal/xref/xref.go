// Package xref loads SmokeMonster pack database files that translate a rom's
// sha1 digest into its sha256 digest.
package xref

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	fieldCount    = 5
	maxLineLength = 1 << 20
)

// Column positions of a pack database row.
const (
	colTranslated = iota
	colFilename
	colSource
	colSecondary
	colChecksum
)

// MalformedRowError reports a row that does not have exactly five fields.
type MalformedRowError struct {
	Source string
	Line   int
	Fields int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("cross-reference %s: line %d: expected %d tab-separated fields, found %d", e.Source, e.Line, fieldCount, e.Fields)
}

// ErrorKind classifies the failure for CLI reporting.
func (e *MalformedRowError) ErrorKind() string { return "malformed_row" }

// Table maps a lowercase source hash to its translated hash.
type Table struct {
	sums map[string]string
}

// Load reads a tab-separated pack database. Later rows win for duplicate keys.
func Load(r io.Reader, source string) (*Table, error) {
	table := &Table{sums: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		fields := strings.Split(text, "\t")
		if len(fields) != fieldCount {
			return nil, &MalformedRowError{Source: source, Line: line, Fields: len(fields)}
		}
		table.sums[strings.ToLower(fields[colSource])] = fields[colTranslated]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cross-reference %s: line %d: %w", source, line+1, err)
	}
	return table, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cross-reference: %w", err)
	}
	defer file.Close()
	return Load(file, path)
}

// Lookup returns the translated hash for a source hash.
func (t *Table) Lookup(sourceHash string) (string, bool) {
	if t == nil {
		return "", false
	}
	value, ok := t.sums[strings.ToLower(sourceHash)]
	return value, ok
}

// Len returns the number of distinct source hashes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.sums)
}
