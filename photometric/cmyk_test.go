package photometric

import (
	"context"
	"testing"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

func TestCMYK8Decode(t *testing.T) {
	buf := pixbuf.New[pixbuf.CMYK8](2, 1)
	dc := &pipeline.DecodeContext{
		Uncompressed:    []byte{1, 2, 3, 4, 5, 6, 7, 8},
		ImageWidth:      2,
		SamplesPerPixel: 4,
		RegionRows:      1,
		Writer:          buf,
	}
	h := pipeline.New(CMYK8())
	if err := h(context.Background(), dc); err != nil {
		t.Fatal(err)
	}
	p0, _ := buf.At(0, 0)
	p1, _ := buf.At(1, 0)
	if p0 != (pixbuf.CMYK8{C: 1, M: 2, Y: 3, K: 4}) {
		t.Fatalf("p0 = %+v", p0)
	}
	if p1 != (pixbuf.CMYK8{C: 5, M: 6, Y: 7, K: 8}) {
		t.Fatalf("p1 = %+v", p1)
	}
}
