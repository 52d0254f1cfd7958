package photometric

import (
	"context"
	"fmt"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

// rgbMiddleware decodes chunky RGB samples (SamplesPerPixel == 3,
// possibly 4 with an ignored or associated alpha channel handled
// upstream) into pixbuf.RGB8, ported from tiledTiff.At's
// "case 3: return color.RGBA{R: tile[off], G: tile[off+1], B:
// tile[off+2], A: 255}" branch.
type rgbMiddleware struct{}

// RGB8 returns a middleware decoding 8-bit-per-channel chunky RGB
// samples into a pixbuf.Buffer[pixbuf.RGB8].
func RGB8() pipeline.Middleware { return rgbMiddleware{} }

func (rgbMiddleware) Invoke(ctx context.Context, dc *pipeline.DecodeContext, next pipeline.Handler) error {
	if err := ctx.Err(); err != nil {
		return pipeline.ErrCancelled
	}
	buf, err := pipeline.GetWriter[pixbuf.RGB8](dc)
	if err != nil {
		return err
	}
	spp := dc.SamplesPerPixel
	if spp < 3 {
		return fmt.Errorf("photometric: rgb8: SamplesPerPixel %d < 3", spp)
	}
	rowBytes := dc.ImageWidth * spp
	for r := 0; r < dc.RegionRows; r++ {
		start := r * rowBytes
		end := start + rowBytes
		if end > len(dc.Uncompressed) {
			return fmt.Errorf("photometric: rgb8: row %d exceeds uncompressed data", r)
		}
		rowData := dc.Uncompressed[start:end]
		row := dc.RegionRowOffset + r
		if err := pipeline.WriterFunc(buf, row, func(span *pixbuf.RowSpan[pixbuf.RGB8]) error {
			for x := 0; x < dc.ImageWidth; x++ {
				off := x * spp
				v := pixbuf.RGB8{R: rowData[off], G: rowData[off+1], B: rowData[off+2]}
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

type rgb16Middleware struct{}

// RGB16 returns a middleware decoding 16-bit-per-channel chunky RGB
// samples into a pixbuf.Buffer[pixbuf.RGB16].
func RGB16() pipeline.Middleware { return rgb16Middleware{} }

func (rgb16Middleware) Invoke(ctx context.Context, dc *pipeline.DecodeContext, next pipeline.Handler) error {
	if err := ctx.Err(); err != nil {
		return pipeline.ErrCancelled
	}
	buf, err := pipeline.GetWriter[pixbuf.RGB16](dc)
	if err != nil {
		return err
	}
	if dc.Order == nil {
		return fmt.Errorf("photometric: rgb16: byte order not set")
	}
	spp := dc.SamplesPerPixel
	if spp < 3 {
		return fmt.Errorf("photometric: rgb16: SamplesPerPixel %d < 3", spp)
	}
	rowBytes := dc.ImageWidth * spp * 2
	for r := 0; r < dc.RegionRows; r++ {
		start := r * rowBytes
		end := start + rowBytes
		if end > len(dc.Uncompressed) {
			return fmt.Errorf("photometric: rgb16: row %d exceeds uncompressed data", r)
		}
		rowData := dc.Uncompressed[start:end]
		row := dc.RegionRowOffset + r
		if err := pipeline.WriterFunc(buf, row, func(span *pixbuf.RowSpan[pixbuf.RGB16]) error {
			for x := 0; x < dc.ImageWidth; x++ {
				off := x * spp * 2
				v := pixbuf.RGB16{
					R: dc.Order.Uint16(rowData[off : off+2]),
					G: dc.Order.Uint16(rowData[off+2 : off+4]),
					B: dc.Order.Uint16(rowData[off+4 : off+6]),
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
