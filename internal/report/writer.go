package report

import (
	"bufio"
	"fmt"
	"io"
)

// LineWriter consumes rendered lines.
type LineWriter interface {
	WriteLine(Line) error
}

// TSVWriter writes lines in the pack-list format. Call Flush when done.
type TSVWriter struct {
	w     *bufio.Writer
	lines int
}

// NewTSVWriter buffers output to w.
func NewTSVWriter(w io.Writer) *TSVWriter {
	return &TSVWriter{w: bufio.NewWriter(w)}
}

// WriteLine writes one newline-terminated row.
func (t *TSVWriter) WriteLine(line Line) error {
	if _, err := t.w.WriteString(line.String()); err != nil {
		return fmt.Errorf("write report line %d: %w", t.lines+1, err)
	}
	if err := t.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write report line %d: %w", t.lines+1, err)
	}
	t.lines++
	return nil
}

// Flush writes any buffered rows to the underlying writer.
func (t *TSVWriter) Flush() error {
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// Lines returns the number of rows written.
func (t *TSVWriter) Lines() int {
	return t.lines
}

type multiWriter []LineWriter

func (m multiWriter) WriteLine(line Line) error {
	for _, w := range m {
		if err := w.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// MultiWriter duplicates each line to every non-nil writer, stopping at the
// first error.
func MultiWriter(writers ...LineWriter) LineWriter {
	out := make(multiWriter, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}

// Discard accepts and drops every line.
var Discard LineWriter = discard{}

type discard struct{}

func (discard) WriteLine(Line) error { return nil }
