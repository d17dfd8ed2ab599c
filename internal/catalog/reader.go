package catalog

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"speedpack/internal/region"
)

const romElement = "rom"

var utf8BOM = []byte("\ufeff")

var requiredAttrs = []string{"name", "sha1", "md5", "crc", "size"}

// Entry is one rom element of a catalog. Hashes and size are lowercased.
type Entry struct {
	Name string
	SHA1 string
	MD5  string
	CRC  string
	Size string
}

// Record pairs an entry with one speed label.
type Record struct {
	Entry
	Speed region.Speed
}

// Classifier assigns speed labels to a catalog name.
type Classifier interface {
	Classify(name string) []region.Speed
}

// Reader yields catalog entries one rom element at a time.
type Reader struct {
	dec    *xml.Decoder
	source string
	index  int
	depth  int
	root   rootState
	err    error
}

type rootState int

const (
	rootPending rootState = iota
	rootOpen
	rootClosed
)

// NewReader wraps r. Source names the input in errors.
func NewReader(r io.Reader, source string) *Reader {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return &Reader{dec: dec, source: source}
}

// Next returns the next entry, or io.EOF once the document is exhausted.
// After any other error every later call returns the same error.
func (r *Reader) Next() (Entry, error) {
	if r.err != nil {
		return Entry{}, r.err
	}
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if r.root == rootPending {
					r.err = &ParseError{Source: r.source, Err: errors.New("document has no root element")}
					return Entry{}, r.err
				}
				r.err = io.EOF
				return Entry{}, io.EOF
			}
			r.err = r.parseError(err)
			return Entry{}, r.err
		}
		start, ok, err := r.track(tok)
		if err != nil {
			r.err = err
			return Entry{}, err
		}
		if !ok || start.Name.Local != romElement {
			continue
		}
		r.index++
		entry, err := r.entry(start)
		if err != nil {
			r.err = err
			return Entry{}, err
		}
		return entry, nil
	}
}

// All iterates the remaining entries. Iteration stops after the first error.
func (r *Reader) All() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for {
			entry, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(entry, err) || err != nil {
				return
			}
		}
	}
}

// Count returns the number of rom elements read so far.
func (r *Reader) Count() int {
	return r.index
}

func (r *Reader) entry(start xml.StartElement) (Entry, error) {
	values := make(map[string]string, len(requiredAttrs))
	for _, attr := range start.Attr {
		values[attr.Name.Local] = attr.Value
	}
	for _, field := range requiredAttrs {
		if _, ok := values[field]; !ok {
			line, _ := r.dec.InputPos()
			return Entry{}, &MissingFieldError{
				Source: r.source,
				Field:  field,
				Index:  r.index,
				Name:   values["name"],
				Line:   line,
			}
		}
	}
	return Entry{
		Name: values["name"],
		SHA1: strings.ToLower(values["sha1"]),
		MD5:  strings.ToLower(values["md5"]),
		CRC:  strings.ToLower(values["crc"]),
		Size: strings.ToLower(values["size"]),
	}, nil
}

// track updates element depth for tok and rejects content outside the
// single root element. It reports start elements through ok.
func (r *Reader) track(tok xml.Token) (start xml.StartElement, ok bool, err error) {
	switch t := tok.(type) {
	case xml.StartElement:
		if r.root == rootClosed {
			return start, false, r.positionError("content after root element")
		}
		r.root = rootOpen
		r.depth++
		return t, true, nil
	case xml.EndElement:
		r.depth--
		if r.depth == 0 {
			r.root = rootClosed
		}
	case xml.CharData:
		if r.root == rootOpen || len(bytes.TrimSpace(bytes.TrimPrefix(t, utf8BOM))) == 0 {
			break
		}
		if r.root == rootPending {
			return start, false, r.positionError("content before root element")
		}
		return start, false, r.positionError("content after root element")
	}
	return start, false, nil
}

func (r *Reader) positionError(msg string) error {
	line, _ := r.dec.InputPos()
	return &ParseError{Source: r.source, Line: line, Err: errors.New(msg)}
}

func (r *Reader) parseError(err error) error {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return &ParseError{Source: r.source, Line: syntax.Line, Err: errors.New(syntax.Msg)}
	}
	line, _ := r.dec.InputPos()
	return &ParseError{Source: r.source, Line: line, Err: err}
}

// charsetReader decodes non UTF-8 dat files such as ISO-8859-1 exports.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Load reads every entry from r and yields one record per speed label.
func Load(r io.Reader, source string, classifier Classifier) ([]Record, error) {
	reader := NewReader(r, source)
	var records []Record
	for entry, err := range reader.All() {
		if err != nil {
			return nil, err
		}
		for _, speed := range classifier.Classify(entry.Name) {
			records = append(records, Record{Entry: entry, Speed: speed})
		}
	}
	return records, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, classifier Classifier) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()
	return Load(file, path, classifier)
}
