package testsupport

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Rom is one catalog rom element.
type Rom struct {
	Name string
	SHA1 string
	MD5  string
	CRC  string
	Size string
}

// CrossRefRow is one cross-reference line.
type CrossRefRow struct {
	Translated string
	Filename   string
	SourceHash string
	Secondary  string
	Checksum   string
}

// NewRom fills the hashes of a rom with values derived from its name.
func NewRom(name, sha1 string) Rom {
	return Rom{Name: name, SHA1: sha1, MD5: "md5-" + sha1, CRC: "crc-" + sha1, Size: "1024"}
}

// CatalogXML renders roms as a Logiqx-style datafile, one game per rom.
func CatalogXML(roms []Rom) string {
	var buf bytes.Buffer
	buf.WriteString("<?xml version=\"1.0\"?>\n<datafile>\n\t<header>\n\t\t<name>fixture</name>\n\t</header>\n")
	for _, rom := range roms {
		buf.WriteString("\t<game name=\"")
		escape(&buf, rom.Name)
		buf.WriteString("\">\n\t\t<rom name=\"")
		escape(&buf, rom.Name)
		buf.WriteString("\" size=\"")
		escape(&buf, rom.Size)
		buf.WriteString("\" crc=\"")
		escape(&buf, rom.CRC)
		buf.WriteString("\" md5=\"")
		escape(&buf, rom.MD5)
		buf.WriteString("\" sha1=\"")
		escape(&buf, rom.SHA1)
		buf.WriteString("\"/>\n\t</game>\n")
	}
	buf.WriteString("</datafile>\n")
	return buf.String()
}

// CrossRefTSV renders rows as tab-separated lines.
func CrossRefTSV(rows []CrossRefRow) string {
	var buf strings.Builder
	for _, row := range rows {
		buf.WriteString(strings.Join([]string{row.Translated, row.Filename, row.SourceHash, row.Secondary, row.Checksum}, "\t"))
		buf.WriteByte('\n')
	}
	return buf.String()
}

// WriteCatalogFile writes a catalog fixture to path.
func WriteCatalogFile(t testing.TB, path string, roms []Rom) {
	t.Helper()
	WriteText(t, path, CatalogXML(roms))
}

// WriteCrossRefFile writes a cross-reference fixture to path.
func WriteCrossRefFile(t testing.TB, path string, rows []CrossRefRow) {
	t.Helper()
	WriteText(t, path, CrossRefTSV(rows))
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
