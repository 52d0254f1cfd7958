package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/image/ccitt"
)

// ccittMiddleware decodes a Group 3 or Group 4 fax-compressed strip
// or tile into dc.Uncompressed's packed 1-bit-per-pixel rows. No
// example repo in the pack decodes CCITT, so this is grounded purely
// on the domain fit of golang.org/x/image/ccitt against TIFF
// Compression tag values 2 (Group 3 1D), 3 (T.4/Group 3) and 4
// (T.6/Group 4) — the three fax encodings TIFF actually defines.
type ccittMiddleware struct{}

// CCITT returns a middleware decoding CCITT Group 3/Group 4
// compressed data. dc.Compression selects the sub-encoding and
// dc.FillOrder (TIFF tag 266; 2 = least-significant-bit-first)
// selects bit order, matching the on-disk FillOrder default of
// most-significant-bit-first.
func CCITT() Middleware { return ccittMiddleware{} }

func (ccittMiddleware) Invoke(ctx context.Context, dc *DecodeContext, next Handler) error {
	if err := ctx.Err(); err != nil {
		return ErrCancelled
	}

	var sub ccitt.SubFormat
	switch dc.Compression {
	case 4:
		sub = ccitt.Group4
	case 2, 3:
		sub = ccitt.Group3
	default:
		return fmt.Errorf("pipeline: ccitt: unsupported compression %d", dc.Compression)
	}
	order := ccitt.MSB
	if dc.FillOrder == 2 {
		order = ccitt.LSB
	}

	r := ccitt.NewReader(bytes.NewReader(dc.Compressed), order, sub, dc.ImageWidth, dc.RegionRows, nil)
	out, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("pipeline: ccitt: %w", err)
	}
	dc.Uncompressed = out
	return next(ctx, dc)
}
