package planstore

import "time"

// RunInfo describes the inputs and settings of one pack-list run.
type RunInfo struct {
	// ID is generated when empty.
	ID           string
	CatalogPath  string
	CrossRefPath string
	OutputPath   string
	Prefix       string
	MaxPerDir    int
}

// Run is a committed run as read back from the store.
type Run struct {
	RunInfo
	CreatedAt time.Time
	Lines     int
	Missing   int
	Excluded  int
}
