// Package recompress rebuilds a DOCX ZIP archive in memory at maximum
// compression, preserving every entry's name, contents, and ordering.
// Every entry is rewritten with Deflate at flate.BestCompression,
// whatever compression method the editing step's export used.
package recompress

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// Recompress reads buf as a ZIP archive and rewrites every entry with
// zip.Deflate at best-compression, entirely in memory. It never touches
// disk, so it is safe to run inside a request handler with no temp-file
// cleanup to manage.
//
// On any error the caller should fall back to shipping buf uncompressed
// rather than failing the whole request: recompression is an optimization,
// not a correctness requirement.
func Recompress(buf []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("recompress: open archive: %w", err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	zw.RegisterCompressor(zip.Deflate, newBestCompressor)

	for _, f := range zr.File {
		header := f.FileHeader
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(&header)
		if err != nil {
			return nil, fmt.Errorf("recompress: create %s: %w", f.Name, err)
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("recompress: open %s: %w", f.Name, err)
		}
		_, copyErr := io.Copy(w, rc)
		rc.Close()
		if copyErr != nil {
			return nil, fmt.Errorf("recompress: copy %s: %w", f.Name, copyErr)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("recompress: finalize archive: %w", err)
	}
	return out.Bytes(), nil
}

func newBestCompressor(w io.Writer) (io.WriteCloser, error) {
	return newFlateWriter(w)
}
