// Package grouping packs same-speed records into alphabetically contiguous
// buckets of bounded size.
//
// Records are first split into alphabetic groups: maximal runs of consecutive
// records whose names start with the same character. Whole groups are then
// appended greedily to the current bucket while the bucket stays strictly
// below the cap. A group is never split, so a single group at or above the
// cap becomes its own oversized bucket.
package grouping

import (
	"errors"
	"unicode/utf8"

	"speedpack/internal/catalog"
	"speedpack/internal/region"
)

// ErrInvalidMax is returned when the bucket cap is below one.
var ErrInvalidMax = errors.New("grouping: max per bucket must be at least 1")

// SpeedOrder is the order in which speed classes are packed and emitted.
var SpeedOrder = []region.Speed{region.Speed50Hz, region.Speed60Hz}

// spanSymbol replaces leading characters outside '0'..'Z' in span labels.
const spanSymbol = "#"

// Bucket is a run of records of one speed class.
type Bucket struct {
	Speed   region.Speed
	Records []catalog.Record
}

// Len returns the number of records in the bucket.
func (b Bucket) Len() int {
	return len(b.Records)
}

// Span labels the alphabetic range of the bucket: "A" when the first and
// last records share a leading character, "A-C" otherwise. Empty buckets
// have an empty span.
func (b Bucket) Span() string {
	if len(b.Records) == 0 {
		return ""
	}
	first := spanChar(b.Records[0].Name)
	last := spanChar(b.Records[len(b.Records)-1].Name)
	if first == last {
		return first
	}
	return first + "-" + last
}

func spanChar(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r < '0' || r > 'Z' {
		return spanSymbol
	}
	return string(r)
}

// leading returns the first character of name, or 0 for an empty name.
func leading(name string) rune {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return 0
	}
	return r
}

// Pack partitions records of a single speed class into buckets. The input
// order is preserved and buckets alias the input slice. The last bucket is
// always returned, even when empty.
func Pack(speed region.Speed, records []catalog.Record, maxPerBucket int) ([]Bucket, error) {
	if maxPerBucket < 1 {
		return nil, ErrInvalidMax
	}

	var buckets []Bucket
	closeBucket := func(from, to int) {
		buckets = append(buckets, Bucket{Speed: speed, Records: records[from:to:to]})
	}

	start, size := 0, 0
	for lo := 0; lo < len(records); {
		hi := groupEnd(records, lo)
		n := hi - lo
		if size+n < maxPerBucket {
			size += n
		} else {
			closeBucket(start, lo)
			start, size = lo, n
		}
		lo = hi
	}
	closeBucket(start, len(records))
	return buckets, nil
}

// groupEnd returns the end of the alphabetic group starting at lo.
func groupEnd(records []catalog.Record, lo int) int {
	key := leading(records[lo].Name)
	hi := lo + 1
	for hi < len(records) && leading(records[hi].Name) == key {
		hi++
	}
	return hi
}

// PackBySpeed splits records by speed, preserving their relative order, and
// packs each class in SpeedOrder.
func PackBySpeed(records []catalog.Record, maxPerBucket int) ([]Bucket, error) {
	if maxPerBucket < 1 {
		return nil, ErrInvalidMax
	}
	var buckets []Bucket
	for _, speed := range SpeedOrder {
		class := BySpeed(records, speed)
		packed, err := Pack(speed, class, maxPerBucket)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, packed...)
	}
	return buckets, nil
}

// BySpeed returns the records labeled speed, in input order.
func BySpeed(records []catalog.Record, speed region.Speed) []catalog.Record {
	var out []catalog.Record
	for _, record := range records {
		if record.Speed == speed {
			out = append(out, record)
		}
	}
	return out
}
