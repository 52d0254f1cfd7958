package tiff

import (
	"context"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/kestreltiff/tiff/ifd"
	"github.com/kestreltiff/tiff/pixbuf"
)

// buildS1 writes the S1 classic round-trip fixture from spec.md §8:
// a 2x2 BlackIsZero8 image, one strip of four bytes 00 55 AA FF.
func buildS1(t *testing.T, path string) {
	t.Helper()
	fw, err := Create(path, binary.LittleEndian, Options{Mode: ifd.Classic})
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()

	strip := []byte{0x00, 0x55, 0xAA, 0xFF}
	stripOffset, err := fw.cursor.WriteAlignedBytes(strip)
	if err != nil {
		t.Fatal(err)
	}

	b := fw.NewIFD()
	b.AddLongs(ifd.ImageWidth, []uint32{2})
	b.AddLongs(ifd.ImageLength, []uint32{2})
	b.AddShorts(ifd.BitsPerSample, []uint16{8})
	b.AddShorts(ifd.PhotometricInterpretation, []uint16{1})
	b.AddShorts(ifd.SamplesPerPixel, []uint16{1})
	b.AddLongs(ifd.RowsPerStrip, []uint32{2})
	b.AddLongs(ifd.StripOffsets, []uint32{uint32(stripOffset)})
	b.AddLongs(ifd.StripByteCounts, []uint32{4})
	if _, err := fw.Commit(b); err != nil {
		t.Fatal(err)
	}
	if err := fw.Finish(); err != nil {
		t.Fatal(err)
	}
}

func TestS1ClassicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s1.tif")
	buildS1(t, path)

	fr, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Close()

	r, err := fr.FirstIFD()
	if err != nil {
		t.Fatal(err)
	}
	width, err := ifd.AnyUint(r, ifd.ImageWidth, 0)
	if err != nil || width.FirstOrDefault() != 2 {
		t.Fatalf("ImageWidth = %v, %v", width.FirstOrDefault(), err)
	}

	result, err := fr.Decode(context.Background(), r, 0)
	if err != nil {
		t.Fatal(err)
	}
	buf, ok := result.(*pixbuf.Buffer[uint8])
	if !ok {
		t.Fatalf("Decode result type = %T, want *pixbuf.Buffer[uint8]", result)
	}
	want := [2][2]uint8{{0x00, 0x55}, {0xAA, 0xFF}}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			got, err := buf.At(x, y)
			if err != nil {
				t.Fatal(err)
			}
			if got != want[y][x] {
				t.Fatalf("At(%d,%d) = %#x, want %#x", x, y, got, want[y][x])
			}
		}
	}
}

func TestNextIFDTerminatesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.tif")
	buildS1(t, path)

	fr, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Close()

	r, err := fr.FirstIFD()
	if err != nil {
		t.Fatal(err)
	}
	next, err := fr.NextIFD(r)
	if err != nil {
		t.Fatal(err)
	}
	if next != nil {
		t.Fatal("expected nil next IFD for a single-IFD file")
	}
}
