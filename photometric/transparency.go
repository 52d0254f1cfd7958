package photometric

import (
	"context"
	"fmt"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

// transparencyMiddleware decodes a 1-bit TransparencyMask raster into
// a pixbuf.Buffer[uint8] of 0x00 (pixel excluded) / 0xFF (pixel
// included) values, reusing unpackSamples the same way BlackIsZero1
// does.
type transparencyMiddleware struct{}

// TransparencyMask returns a middleware decoding a 1-bit
// TransparencyMask raster.
func TransparencyMask() pipeline.Middleware { return transparencyMiddleware{} }

func (transparencyMiddleware) Invoke(ctx context.Context, dc *pipeline.DecodeContext, next pipeline.Handler) error {
	if err := ctx.Err(); err != nil {
		return pipeline.ErrCancelled
	}
	buf, err := pipeline.GetWriter[uint8](dc)
	if err != nil {
		return err
	}
	rowBytes := (dc.ImageWidth + 7) / 8
	for r := 0; r < dc.RegionRows; r++ {
		start := r * rowBytes
		end := start + rowBytes
		if end > len(dc.Uncompressed) {
			return fmt.Errorf("photometric: transparencymask: row %d exceeds uncompressed data", r)
		}
		samples, err := unpackSamples(dc.Uncompressed[start:end], 1, dc.ImageWidth)
		if err != nil {
			return err
		}
		row := dc.RegionRowOffset + r
		if err := pipeline.WriterFunc(buf, row, func(span *pixbuf.RowSpan[uint8]) error {
			for x, s := range samples {
				v := uint8(0x00)
				if s != 0 {
					v = 0xFF
				}
				if err := span.Set(x, v); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return next(ctx, dc)
}
