package photometric

import (
	"context"
	"testing"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

func TestYCbCr8FullGray(t *testing.T) {
	buf := pixbuf.New[pixbuf.RGB8](2, 2)
	dc := &pipeline.DecodeContext{
		Uncompressed:     []byte{100, 150, 200, 250, 128, 128},
		ImageWidth:       2,
		RegionRows:       2,
		YCbCrSubSampling: [2]int{2, 2},
		Writer:           buf,
	}
	h := pipeline.New(YCbCr8())
	if err := h(context.Background(), dc); err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]uint8{{0, 0}: 100, {1, 0}: 150, {0, 1}: 200, {1, 1}: 250}
	for xy, y := range want {
		p, err := buf.At(xy[0], xy[1])
		if err != nil {
			t.Fatal(err)
		}
		if p.R != y || p.G != y || p.B != y {
			t.Fatalf("At%v = %+v, want gray %d", xy, p, y)
		}
	}
}

func TestYCbCr8OddWidthEdgeMacroblock(t *testing.T) {
	// width 3, height 1, 2x2 subsampling: one full macroblock column
	// plus a partial one whose third luma/row slots go unwritten.
	buf := pixbuf.New[pixbuf.RGB8](3, 1)
	block1 := []byte{60, 70, 0, 0, 128, 128}
	block2 := []byte{80, 0, 0, 0, 128, 128}
	dc := &pipeline.DecodeContext{
		Uncompressed:     append(block1, block2...),
		ImageWidth:       3,
		RegionRows:       1,
		YCbCrSubSampling: [2]int{2, 2},
		Writer:           buf,
	}
	h := pipeline.New(YCbCr8())
	if err := h(context.Background(), dc); err != nil {
		t.Fatal(err)
	}
	p0, _ := buf.At(0, 0)
	p1, _ := buf.At(1, 0)
	p2, _ := buf.At(2, 0)
	if p0.R != 60 || p1.R != 70 || p2.R != 80 {
		t.Fatalf("got %d %d %d, want 60 70 80", p0.R, p1.R, p2.R)
	}
}
