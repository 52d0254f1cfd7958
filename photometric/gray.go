package photometric

import (
	"context"
	"fmt"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

type grayMiddleware struct {
	bitDepth int
	invert   bool
}

// BlackIsZero1/4/8 return a middleware decoding a BlackIsZero raster
// of the given sub-16 bit depth into an 8-bit pixbuf.Buffer[uint8],
// expanding each sample to the full 8-bit range.
func BlackIsZero1() pipeline.Middleware { return grayMiddleware{bitDepth: 1} }
func BlackIsZero4() pipeline.Middleware { return grayMiddleware{bitDepth: 4} }
func BlackIsZero8() pipeline.Middleware { return grayMiddleware{bitDepth: 8} }

// WhiteIsZero1/4/8 are the bitwise-NOT of their BlackIsZero
// counterparts (spec.md invariant 6), implemented by decoding
// identically and inverting the expanded byte.
func WhiteIsZero1() pipeline.Middleware { return grayMiddleware{bitDepth: 1, invert: true} }
func WhiteIsZero4() pipeline.Middleware { return grayMiddleware{bitDepth: 4, invert: true} }
func WhiteIsZero8() pipeline.Middleware { return grayMiddleware{bitDepth: 8, invert: true} }

func (m grayMiddleware) Invoke(ctx context.Context, dc *pipeline.DecodeContext, next pipeline.Handler) error {
	if err := ctx.Err(); err != nil {
		return pipeline.ErrCancelled
	}
	buf, err := pipeline.GetWriter[uint8](dc)
	if err != nil {
		return err
	}
	rowBytes := (dc.ImageWidth*m.bitDepth + 7) / 8
	for r := 0; r < dc.RegionRows; r++ {
		start := r * rowBytes
		end := start + rowBytes
		if end > len(dc.Uncompressed) {
			return fmt.Errorf("photometric: gray: row %d exceeds uncompressed data", r)
		}
		samples, err := unpackSamples(dc.Uncompressed[start:end], m.bitDepth, dc.ImageWidth)
		if err != nil {
			return err
		}
		row := dc.RegionRowOffset + r
		if err := pipeline.WriterFunc(buf, row, func(span *pixbuf.RowSpan[uint8]) error {
			for x, s := range samples {
				v := expandToFullScale(s, m.bitDepth)
				if m.invert {
					v = ^v
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

type gray16Middleware struct{ invert bool }

// BlackIsZero16 decodes a 16-bit BlackIsZero raster natively into a
// pixbuf.Buffer[uint16].
func BlackIsZero16() pipeline.Middleware { return gray16Middleware{} }

// WhiteIsZero16 is BlackIsZero16's bitwise-NOT.
func WhiteIsZero16() pipeline.Middleware { return gray16Middleware{invert: true} }

func (m gray16Middleware) Invoke(ctx context.Context, dc *pipeline.DecodeContext, next pipeline.Handler) error {
	if err := ctx.Err(); err != nil {
		return pipeline.ErrCancelled
	}
	buf, err := pipeline.GetWriter[uint16](dc)
	if err != nil {
		return err
	}
	if dc.Order == nil {
		return fmt.Errorf("photometric: gray16: byte order not set")
	}
	rowBytes := dc.ImageWidth * 2
	for r := 0; r < dc.RegionRows; r++ {
		start := r * rowBytes
		end := start + rowBytes
		if end > len(dc.Uncompressed) {
			return fmt.Errorf("photometric: gray16: row %d exceeds uncompressed data", r)
		}
		rowData := dc.Uncompressed[start:end]
		row := dc.RegionRowOffset + r
		if err := pipeline.WriterFunc(buf, row, func(span *pixbuf.RowSpan[uint16]) error {
			for x := 0; x < dc.ImageWidth; x++ {
				v := dc.Order.Uint16(rowData[x*2 : x*2+2])
				if m.invert {
					v = ^v
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
