package recompress

import (
	"compress/flate"
	"io"
)

// newFlateWriter wraps compress/flate at BestCompression, the level
// archive/zip's default Deflate registration does not use on its own.
func newFlateWriter(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.BestCompression)
}
