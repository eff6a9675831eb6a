package recompress_test

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/docxredline/api/internal/recompress"
)

func buildArchive(t *testing.T, entries map[string]string, method uint16) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

func readAll(t *testing.T, archive []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	out := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		out[f.Name] = string(body)
	}
	return out
}

func TestRecompressPreservesContents(t *testing.T) {
	entries := map[string]string{
		"word/document.xml": strings.Repeat("hello world ", 200),
		"[Content_Types].xml": "<Types/>",
	}
	original := buildArchive(t, entries, zip.Store)

	recompressed, err := recompress.Recompress(original)
	if err != nil {
		t.Fatalf("recompress: %v", err)
	}

	got := readAll(t, recompressed)
	for name, body := range entries {
		if got[name] != body {
			t.Fatalf("entry %s mismatch: got %q want %q", name, got[name], body)
		}
	}
}

func TestRecompressUsesDeflate(t *testing.T) {
	entries := map[string]string{"a.txt": strings.Repeat("x", 1000)}
	original := buildArchive(t, entries, zip.Store)

	recompressed, err := recompress.Recompress(original)
	if err != nil {
		t.Fatalf("recompress: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(recompressed), int64(len(recompressed)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Method != zip.Deflate {
		t.Fatalf("expected a single Deflate entry, got %+v", zr.File)
	}
	if len(recompressed) >= len(original) {
		t.Fatalf("expected best-compression output to shrink a repetitive payload: got %d vs %d", len(recompressed), len(original))
	}
}

func TestRecompressRejectsInvalidArchive(t *testing.T) {
	if _, err := recompress.Recompress([]byte("not a zip")); err == nil {
		t.Fatalf("expected an error for a non-ZIP buffer")
	}
}
