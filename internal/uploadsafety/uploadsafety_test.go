package uploadsafety_test

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/docxredline/api/internal/uploadsafety"
)

func zipWithEntry(t *testing.T, name, body string, method uint16) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

func TestCheckRejectsBadMagic(t *testing.T) {
	if err := uploadsafety.Check([]byte("PK\x05\x06 not really a doc"), uploadsafety.DefaultLimits); err == nil {
		t.Fatalf("expected an error for a bad magic header")
	}
	if err := uploadsafety.Check([]byte("x"), uploadsafety.DefaultLimits); err == nil {
		t.Fatalf("expected an error for a too-short buffer")
	}
}

func TestCheckAcceptsWellFormedArchive(t *testing.T) {
	archive := zipWithEntry(t, "word/document.xml", "<doc>hello</doc>", zip.Store)
	if err := uploadsafety.Check(archive, uploadsafety.DefaultLimits); err != nil {
		t.Fatalf("expected a clean archive to pass: %v", err)
	}
}

func TestCheckRejectsOversizedTotal(t *testing.T) {
	archive := zipWithEntry(t, "word/document.xml", strings.Repeat("a", 2000), zip.Store)
	limits := uploadsafety.Limits{MaxUncompressedTotal: 1000, MaxRatio: 100}
	if err := uploadsafety.Check(archive, limits); err == nil {
		t.Fatalf("expected the oversized-total check to fire")
	}
}

func TestCheckRejectsMalformedArchiveWithValidMagic(t *testing.T) {
	// Exactly the ZIP local file header signature, nothing else: passes
	// the magic-byte sniff but has no valid central directory.
	buf := []byte{0x50, 0x4B, 0x03, 0x04}
	err := uploadsafety.Check(buf, uploadsafety.DefaultLimits)
	if err == nil {
		t.Fatalf("expected an error for a truncated archive")
	}
	if !errors.Is(err, uploadsafety.ErrMalformedArchive) {
		t.Fatalf("expected ErrMalformedArchive, got %v", err)
	}
}

func TestCheckRejectsImplausibleRatio(t *testing.T) {
	archive := zipWithEntry(t, "word/document.xml", strings.Repeat("a", 1<<20), zip.Deflate)
	limits := uploadsafety.Limits{MaxUncompressedTotal: 500 * 1024 * 1024, MaxRatio: 50}
	if err := uploadsafety.Check(archive, limits); err == nil {
		t.Fatalf("expected the compression-ratio check to fire on a highly compressible payload")
	}
}
