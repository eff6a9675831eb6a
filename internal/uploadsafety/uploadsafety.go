// Package uploadsafety runs cheap, extraction-free checks over a buffered
// upload before it reaches any document parser: a magic-byte sniff and a
// central-directory-only zip-bomb guard, in the spirit of
// evalgo-org-eve/archive's path-traversal guard for extraction — here
// generalized to a pre-parse scan that never walks file contents.
package uploadsafety

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
)

// ErrMalformedArchive marks a buffer that passed the magic-byte sniff but
// whose central directory archive/zip refuses to parse — a DOCX that is
// either corrupt or deliberately crafted to exploit a parser, not merely
// the wrong file type. Handlers match this with errors.Is and map it to
// the same error code as a detected zip bomb, never to "invalid file type".
var ErrMalformedArchive = errors.New("uploadsafety: malformed zip central directory")

// zipMagic is the ZIP local file header signature every well-formed DOCX
// upload must begin with.
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// minRatioFloor exempts small entries from the ratio check: a handful of
// highly-compressible bytes (e.g. an empty XML stub) can legitimately
// exceed 100:1 without indicating a bomb.
const minRatioFloor = 1024 // bytes

// Limits configures the thresholds Check enforces.
type Limits struct {
	MaxUncompressedTotal int64 // hard cap on the sum of all entries' sizes
	MaxRatio             int64 // uncompressed:compressed ratio ceiling per entry
}

// DefaultLimits mirrors the conservative defaults a DOCX upload should
// never need to approach: real DOCX files are already-compressed XML
// rarely exceeding a 20:1 ratio.
var DefaultLimits = Limits{
	MaxUncompressedTotal: 500 * 1024 * 1024, // 500 MiB
	MaxRatio:             100,
}

// Check validates buf against the magic-byte and decompression-ratio
// rules, without extracting any entry's content. It reads only the
// central directory.
func Check(buf []byte, limits Limits) error {
	if len(buf) < len(zipMagic) || !bytes.Equal(buf[:len(zipMagic)], zipMagic) {
		return fmt.Errorf("uploadsafety: not a ZIP archive (bad magic bytes)")
	}

	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}

	var total int64
	for _, f := range zr.File {
		uncompressed := int64(f.UncompressedSize64)
		compressed := int64(f.CompressedSize64)

		total += uncompressed
		if limits.MaxUncompressedTotal > 0 && total > limits.MaxUncompressedTotal {
			return fmt.Errorf("uploadsafety: archive exceeds uncompressed size limit of %d bytes", limits.MaxUncompressedTotal)
		}

		if limits.MaxRatio <= 0 || uncompressed < minRatioFloor || compressed == 0 {
			continue
		}
		if uncompressed/compressed > limits.MaxRatio {
			return fmt.Errorf("uploadsafety: entry %q exceeds compression ratio limit (%d:1)", f.Name, limits.MaxRatio)
		}
	}

	return nil
}
