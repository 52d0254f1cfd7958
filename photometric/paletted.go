package photometric

import (
	"context"
	"fmt"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

// palettedMiddleware decodes palette indices into pixbuf.RGB16,
// expanding each index through dc.ColorMap. TIFF lays the ColorMap
// tag out as all red entries, then all green, then all blue, each
// full 16-bit range regardless of BitsPerSample — the layout baseline
// TIFF readers (garyhouston-tiff66) assume and which this package has
// no chunky-RGB precedent for in the teacher, since stripedTiff/
// tiledTiff never decode a Paletted image.
type palettedMiddleware struct {
	bitDepth int
}

// Paletted4 and Paletted8 decode 4-bit and 8-bit palette indices.
func Paletted4() pipeline.Middleware { return palettedMiddleware{bitDepth: 4} }
func Paletted8() pipeline.Middleware { return palettedMiddleware{bitDepth: 8} }

func (m palettedMiddleware) Invoke(ctx context.Context, dc *pipeline.DecodeContext, next pipeline.Handler) error {
	if err := ctx.Err(); err != nil {
		return pipeline.ErrCancelled
	}
	buf, err := pipeline.GetWriter[pixbuf.RGB16](dc)
	if err != nil {
		return err
	}
	entries := len(dc.ColorMap) / 3
	if entries == 0 || len(dc.ColorMap)%3 != 0 {
		return fmt.Errorf("photometric: paletted: ColorMap has %d entries, want a multiple of 3", len(dc.ColorMap))
	}
	rowBytes := (dc.ImageWidth*m.bitDepth + 7) / 8
	for r := 0; r < dc.RegionRows; r++ {
		start := r * rowBytes
		end := start + rowBytes
		if end > len(dc.Uncompressed) {
			return fmt.Errorf("photometric: paletted: row %d exceeds uncompressed data", r)
		}
		indices, err := unpackSamples(dc.Uncompressed[start:end], m.bitDepth, dc.ImageWidth)
		if err != nil {
			return err
		}
		row := dc.RegionRowOffset + r
		if err := pipeline.WriterFunc(buf, row, func(span *pixbuf.RowSpan[pixbuf.RGB16]) error {
			for x, idx := range indices {
				if int(idx) >= entries {
					return fmt.Errorf("photometric: paletted: index %d out of range [0,%d)", idx, entries)
				}
				v := pixbuf.RGB16{
					R: dc.ColorMap[idx],
					G: dc.ColorMap[entries+int(idx)],
					B: dc.ColorMap[2*entries+int(idx)],
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
