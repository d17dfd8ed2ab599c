package catalog

import "fmt"

// ParseError reports a catalog document that is not well-formed XML.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse catalog %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("parse catalog %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind classifies the failure for CLI reporting.
func (e *ParseError) ErrorKind() string { return "parse" }

// MissingFieldError reports a rom element without one of the required attributes.
type MissingFieldError struct {
	Source string
	Field  string
	// Index is the 1-based position of the rom element in the document.
	Index int
	// Name is the rom name when the name attribute itself is present.
	Name string
	Line int
}

func (e *MissingFieldError) Error() string {
	target := fmt.Sprintf("rom #%d", e.Index)
	if e.Name != "" {
		target = fmt.Sprintf("rom #%d %q", e.Index, e.Name)
	}
	return fmt.Sprintf("catalog %s: line %d: %s missing required attribute %q", e.Source, e.Line, target, e.Field)
}

// ErrorKind classifies the failure for CLI reporting.
func (e *MissingFieldError) ErrorKind() string { return "missing_field" }
