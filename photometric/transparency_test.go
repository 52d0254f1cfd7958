package photometric

import (
	"context"
	"testing"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

func TestTransparencyMaskDecode(t *testing.T) {
	buf := pixbuf.New[uint8](8, 1)
	dc := &pipeline.DecodeContext{
		Uncompressed: []byte{0b10110000},
		ImageWidth:   8,
		RegionRows:   1,
		Writer:       buf,
	}
	h := pipeline.New(TransparencyMask())
	if err := h(context.Background(), dc); err != nil {
		t.Fatal(err)
	}
	want := []uint8{0xFF, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00}
	for x, w := range want {
		got, err := buf.At(x, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Fatalf("At(%d,0) = %#x, want %#x", x, got, w)
		}
	}
}
