package report

import (
	"strings"

	"speedpack/internal/grouping"
	"speedpack/internal/region"
)

// Missing replaces the translated hash of records absent from the
// cross-reference table.
const Missing = "MISSING"

// Lookup resolves a source hash to its translated hash.
type Lookup interface {
	Lookup(sourceHash string) (string, bool)
}

// Line is one pack-list row plus the context it was rendered from.
type Line struct {
	Translated string
	Path       string
	SHA1       string
	MD5        string
	CRC        string

	// Bucket is the 1-based position of the bucket among emitted buckets.
	Bucket int
	Speed  region.Speed
	Span   string
	Name   string
	Size   string
}

// String renders the five tab-separated pack-list fields.
func (l Line) String() string {
	return strings.Join([]string{l.Translated, l.Path, l.SHA1, l.MD5, l.CRC}, "\t")
}

// BucketStats summarizes one emitted bucket.
type BucketStats struct {
	Bucket   int
	Speed    region.Speed
	Span     string
	Records  int
	Written  int
	Excluded int
	Missing  int
}

// Stats summarizes an Emit call.
type Stats struct {
	Buckets  []BucketStats
	Written  int
	Excluded int
	Missing  int
}

// Emitter renders buckets into lines.
type Emitter struct {
	Prefix  string
	Exclude []string
	XRef    Lookup
}

// Excluded reports whether any exclude keyword occurs in name. Empty
// keywords are ignored rather than matching every name.
func (e *Emitter) Excluded(name string) bool {
	for _, keyword := range e.Exclude {
		if keyword != "" && strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// Emit writes one line per non-excluded record of every non-empty bucket.
// The first write error aborts the emit.
func (e *Emitter) Emit(w LineWriter, buckets []grouping.Bucket) (Stats, error) {
	var stats Stats
	number := 0
	for _, bucket := range buckets {
		if bucket.Len() == 0 {
			continue
		}
		number++
		span := bucket.Span()
		bs := BucketStats{Bucket: number, Speed: bucket.Speed, Span: span, Records: bucket.Len()}

		for _, record := range bucket.Records {
			if e.Excluded(record.Name) {
				bs.Excluded++
				continue
			}
			translated, ok := e.lookup(record.SHA1)
			if !ok {
				translated = Missing
				bs.Missing++
			}
			line := Line{
				Translated: translated,
				Path:       Path(e.Prefix, record.Speed, span, record.Name),
				SHA1:       record.SHA1,
				MD5:        record.MD5,
				CRC:        record.CRC,
				Bucket:     number,
				Speed:      record.Speed,
				Span:       span,
				Name:       record.Name,
				Size:       record.Size,
			}
			if err := w.WriteLine(line); err != nil {
				stats.add(bs)
				return stats, err
			}
			bs.Written++
		}
		stats.add(bs)
	}
	return stats, nil
}

func (e *Emitter) lookup(sha1 string) (string, bool) {
	if e.XRef == nil {
		return "", false
	}
	return e.XRef.Lookup(sha1)
}

func (s *Stats) add(bs BucketStats) {
	s.Buckets = append(s.Buckets, bs)
	s.Written += bs.Written
	s.Excluded += bs.Excluded
	s.Missing += bs.Missing
}

// Path builds the target location of a record by joining the non-empty
// prefix, speed, span and name with "/".
func Path(prefix string, speed region.Speed, span, name string) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{prefix, string(speed), span, name} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "/")
}
