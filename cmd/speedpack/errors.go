package main

import (
	"errors"

	"speedpack/internal/fileutil"
	"speedpack/internal/planstore"
)

// errorClassifier is implemented by the typed input errors of the catalog
// and cross-reference loaders.
type errorClassifier interface {
	ErrorKind() string
}

var kindHints = map[string]string{
	"parse":         "catalog is not well-formed XML",
	"missing_field": "catalog rom lacks a required attribute",
	"malformed_row": "cross-reference rows need exactly five tab-separated fields",
}

// describeError prefixes err with a short hint about what to fix.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	var classified errorClassifier
	if errors.As(err, &classified) {
		if hint, ok := kindHints[classified.ErrorKind()]; ok {
			return hint + ": " + err.Error()
		}
	}
	switch {
	case errors.Is(err, fileutil.ErrOutputLocked):
		return "another speedpack run is writing this output: " + err.Error()
	case errors.Is(err, planstore.ErrSchemaMismatch):
		return "plan database was created by another version: " + err.Error()
	}
	return err.Error()
}
