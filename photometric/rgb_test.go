package photometric

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
)

func TestRGB8Decode(t *testing.T) {
	buf := pixbuf.New[pixbuf.RGB8](2, 1)
	dc := &pipeline.DecodeContext{
		Uncompressed:    []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60},
		ImageWidth:      2,
		SamplesPerPixel: 3,
		RegionRows:      1,
		Writer:          buf,
	}
	h := pipeline.New(RGB8())
	if err := h(context.Background(), dc); err != nil {
		t.Fatal(err)
	}
	p0, _ := buf.At(0, 0)
	p1, _ := buf.At(1, 0)
	if p0 != (pixbuf.RGB8{R: 0x10, G: 0x20, B: 0x30}) {
		t.Fatalf("p0 = %+v", p0)
	}
	if p1 != (pixbuf.RGB8{R: 0x40, G: 0x50, B: 0x60}) {
		t.Fatalf("p1 = %+v", p1)
	}
}

func TestRGB16Decode(t *testing.T) {
	buf := pixbuf.New[pixbuf.RGB16](1, 1)
	dc := &pipeline.DecodeContext{
		Order:           binary.BigEndian,
		Uncompressed:    []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03},
		ImageWidth:      1,
		SamplesPerPixel: 3,
		RegionRows:      1,
		Writer:          buf,
	}
	h := pipeline.New(RGB16())
	if err := h(context.Background(), dc); err != nil {
		t.Fatal(err)
	}
	p0, _ := buf.At(0, 0)
	if p0 != (pixbuf.RGB16{R: 1, G: 2, B: 3}) {
		t.Fatalf("p0 = %+v", p0)
	}
}
