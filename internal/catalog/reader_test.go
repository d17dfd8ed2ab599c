package catalog_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"speedpack/internal/catalog"
	"speedpack/internal/region"
)

const sampleDat = `<?xml version="1.0"?>
<!DOCTYPE datafile PUBLIC "-//Logiqx//DTD ROM Management Datafile//EN" "http://www.logiqx.com/Dats/datafile.dtd">
<datafile>
	<header>
		<name>Test System</name>
	</header>
	<game name="Super Game (USA, Europe)">
		<description>Super Game (USA, Europe)</description>
		<rom name="Super Game (USA, Europe).bin" size="1" crc="CC" md5="BB" sha1="AA"/>
	</game>
	<game name="Other Game">
		<rom name="Other Game.bin" size="2048" crc="0A0B0C0D" md5="ABCDEF" sha1="DEADBEEF"/>
	</game>
</datafile>
`

func TestReaderNormalizesHashes(t *testing.T) {
	reader := catalog.NewReader(strings.NewReader(sampleDat), "test.dat")

	first, err := reader.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	want := catalog.Entry{Name: "Super Game (USA, Europe).bin", SHA1: "aa", MD5: "bb", CRC: "cc", Size: "1"}
	if first != want {
		t.Fatalf("unexpected entry: got %+v want %+v", first, want)
	}

	second, err := reader.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.SHA1 != "deadbeef" || second.CRC != "0a0b0c0d" {
		t.Fatalf("expected lowercase hashes, got %+v", second)
	}

	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if reader.Count() != 2 {
		t.Fatalf("expected 2 roms counted, got %d", reader.Count())
	}
}

func TestLoadDuplicatesDualSpeedEntries(t *testing.T) {
	records, err := catalog.Load(strings.NewReader(sampleDat), "test.dat", region.DefaultTable())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}
	if records[0].Speed != region.Speed60Hz || records[1].Speed != region.Speed50Hz {
		t.Fatalf("expected 60Hz then 50Hz for hybrid entry, got %s, %s", records[0].Speed, records[1].Speed)
	}
	if records[0].Entry != records[1].Entry {
		t.Fatal("duplicated records should share the same entry")
	}
	if records[2].Name != "Other Game.bin" || records[2].Speed != region.Speed60Hz {
		t.Fatalf("untagged entry should be 60Hz only, got %+v", records[2])
	}
}

func TestLoadMissingField(t *testing.T) {
	doc := `<datafile>
<game name="A"><rom name="A (USA)" size="1" crc="1" md5="2" sha1="3"/></game>
<game name="B"><rom name="B (USA)" size="1" crc="1" sha1="3"/></game>
</datafile>`

	_, err := catalog.Load(strings.NewReader(doc), "broken.dat", region.DefaultTable())
	var missing *catalog.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "md5" || missing.Index != 2 || missing.Name != "B (USA)" {
		t.Fatalf("unexpected error detail: %+v", missing)
	}
	if missing.Line != 3 {
		t.Fatalf("expected line 3, got %d", missing.Line)
	}
	if !strings.Contains(err.Error(), "broken.dat") {
		t.Fatalf("error should name the source: %v", err)
	}
}

func TestLoadMalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unclosed element", `<datafile><game name="A"><rom name="A" size="1" crc="1" md5="2" sha1="3"/>`},
		{"mismatched tag", `<datafile><game></datafile>`},
		{"empty document", ``},
		{"second root", `<a/><b/>`},
		{"second root after roms", `<datafile><rom name="A" size="1" crc="c" md5="m" sha1="s"/></datafile><other/>`},
		{"text after root", `<datafile></datafile>trailing`},
		{"text before root", `junk<datafile></datafile>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := catalog.Load(strings.NewReader(tt.doc), "bad.dat", region.DefaultTable())
			var parseErr *catalog.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if records != nil {
				t.Fatalf("expected no partial results, got %d records", len(records))
			}
		})
	}
}

func TestReaderStickyError(t *testing.T) {
	reader := catalog.NewReader(strings.NewReader(`<datafile><rom name="x"/></datafile>`), "x.dat")
	_, first := reader.Next()
	_, second := reader.Next()
	if first == nil || first != second {
		t.Fatalf("expected the same error twice, got %v and %v", first, second)
	}
}

func TestLoadEmptyCatalog(t *testing.T) {
	records, err := catalog.Load(strings.NewReader(`<datafile><header/></datafile>`), "empty.dat", region.DefaultTable())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestLoadLatin1Catalog(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<datafile><rom name=\"Caf\xe9 (France)\" size=\"1\" crc=\"1\" md5=\"2\" sha1=\"3\"/></datafile>"
	records, err := catalog.Load(strings.NewReader(doc), "latin1.dat", region.DefaultTable())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) == 0 || records[0].Name != "Café (France)" {
		t.Fatalf("expected decoded name, got %+v", records)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.dat")
	if err := os.WriteFile(path, []byte(sampleDat), 0o644); err != nil {
		t.Fatalf("write dat: %v", err)
	}
	records, err := catalog.LoadFile(path, region.DefaultTable())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if _, err := catalog.LoadFile(filepath.Join(t.TempDir(), "absent.dat"), region.DefaultTable()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadAllowsMiscOutsideRoot(t *testing.T) {
	doc := "<?xml version=\"1.0\"?>\n<!-- export -->\n<datafile>\n" +
		`<rom name="A (Europe)" size="1" crc="c" md5="m" sha1="s"/>` +
		"\n</datafile>\n<!-- end -->\n\n"
	records, err := catalog.Load(strings.NewReader(doc), "ok.dat", region.DefaultTable())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}
