package pipeline

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"io"
)

// deflateMiddleware inflates dc.Compressed into dc.Uncompressed.
// Grounded on the teacher's tiledTiff.loadTile, which does exactly
// this with the standard library's compress/zlib for Compression=8
// tiles; generalized here into a pipeline node instead of an inline
// branch in the tile loader.
type deflateMiddleware struct{}

// Deflate returns a middleware that DEFLATE-decompresses dc.Compressed
// (TIFF Compression tag value 8/32946) into dc.Uncompressed.
func Deflate() Middleware { return deflateMiddleware{} }

func (deflateMiddleware) Invoke(ctx context.Context, dc *DecodeContext, next Handler) error {
	if err := ctx.Err(); err != nil {
		return ErrCancelled
	}
	r, err := zlib.NewReader(io.NopCloser(bytes.NewReader(dc.Compressed)))
	if err != nil {
		return fmt.Errorf("pipeline: deflate: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("pipeline: deflate: %w", err)
	}
	dc.Uncompressed = out
	return next(ctx, dc)
}
