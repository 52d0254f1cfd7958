package photometric

import (
	"context"
	"fmt"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

// cmykMiddleware decodes chunky 8-bit CMYK samples into pixbuf.CMYK8,
// the four-channel analogue of rgbMiddleware's chunky-RGB decode.
type cmykMiddleware struct{}

// CMYK8 returns a middleware decoding 8-bit-per-channel chunky CMYK
// samples into a pixbuf.Buffer[pixbuf.CMYK8].
func CMYK8() pipeline.Middleware { return cmykMiddleware{} }

func (cmykMiddleware) Invoke(ctx context.Context, dc *pipeline.DecodeContext, next pipeline.Handler) error {
	if err := ctx.Err(); err != nil {
		return pipeline.ErrCancelled
	}
	buf, err := pipeline.GetWriter[pixbuf.CMYK8](dc)
	if err != nil {
		return err
	}
	spp := dc.SamplesPerPixel
	if spp < 4 {
		return fmt.Errorf("photometric: cmyk8: SamplesPerPixel %d < 4", spp)
	}
	rowBytes := dc.ImageWidth * spp
	for r := 0; r < dc.RegionRows; r++ {
		start := r * rowBytes
		end := start + rowBytes
		if end > len(dc.Uncompressed) {
			return fmt.Errorf("photometric: cmyk8: row %d exceeds uncompressed data", r)
		}
		rowData := dc.Uncompressed[start:end]
		row := dc.RegionRowOffset + r
		if err := pipeline.WriterFunc(buf, row, func(span *pixbuf.RowSpan[pixbuf.CMYK8]) error {
			for x := 0; x < dc.ImageWidth; x++ {
				off := x * spp
				v := pixbuf.CMYK8{C: rowData[off], M: rowData[off+1], Y: rowData[off+2], K: rowData[off+3]}
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
