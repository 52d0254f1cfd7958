package tiffwriter

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/kestreltiff/tiff/ifd"
	"github.com/kestreltiff/tiff/store"
	"github.com/kestreltiff/tiff/wire"
)

// TestClassicRoundTrip covers S1: a single IFD whose tags all fit
// inline, a pixel strip written before the IFD, and a reader that
// recovers the tag values and strip bytes it checks bit-for-bit.
func TestClassicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.tif")
	s, err := store.CreateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c := NewCursor(s, binary.LittleEndian, ifd.Classic)
	strip := []byte{0x00, 0x55, 0xAA, 0xFF}
	stripOffset, err := c.WriteBytes(strip)
	if err != nil {
		t.Fatal(err)
	}

	b := NewBuilder(c)
	b.AddLongs(ifd.ImageWidth, []uint32{2})
	b.AddLongs(ifd.ImageLength, []uint32{2})
	b.AddShorts(ifd.BitsPerSample, []uint16{8})
	b.AddShorts(ifd.PhotometricInterpretation, []uint16{1})
	b.AddShorts(ifd.SamplesPerPixel, []uint16{1})
	b.AddLongs(ifd.RowsPerStrip, []uint32{2})
	b.AddLongs(ifd.StripOffsets, []uint32{uint32(stripOffset)})
	b.AddLongs(ifd.StripByteCounts, []uint32{4})

	ifdOffset, err := b.Commit(0)
	if err != nil {
		t.Fatal(err)
	}
	if ifdOffset%2 != 0 {
		t.Fatalf("IFD offset %d is not word-aligned", ifdOffset)
	}

	if err := c.FlushHeader(); err != nil {
		t.Fatal(err)
	}

	r, err := ifd.Open(s, binary.LittleEndian, ifd.Classic, ifdOffset, ifd.Options{})
	if err != nil {
		t.Fatal(err)
	}
	width, err := ifd.ReadLongs(r, ifd.ImageWidth, 0)
	if err != nil || width.FirstOrDefault() != 2 {
		t.Fatalf("ImageWidth = %v, %v", width.FirstOrDefault(), err)
	}
	offsets, err := ifd.ReadLongs(r, ifd.StripOffsets, 0)
	if err != nil || offsets.FirstOrDefault() != uint32(stripOffset) {
		t.Fatalf("StripOffsets = %v, %v", offsets.FirstOrDefault(), err)
	}

	gotStrip := make([]byte, 4)
	if _, err := s.ReadAt(gotStrip, stripOffset); err != nil {
		t.Fatal(err)
	}
	if string(gotStrip) != string(strip) {
		t.Fatalf("strip = %x, want %x", gotStrip, strip)
	}

	// Invariant 3: tag order in the committed IFD is strictly ascending.
	entries := r.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i].Tag <= entries[i-1].Tag {
			t.Fatalf("tags not strictly ascending at index %d: %v", i, entries)
		}
	}
}

// TestASCIIRoundTrip covers S4: a multi-string ASCII tag round-trips
// with its on-disk NUL-joined layout exactly as specified.
func TestASCIIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.tif")
	s, err := store.CreateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c := NewCursor(s, binary.LittleEndian, ifd.Classic)
	b := NewBuilder(c)
	b.AddASCII(ifd.ImageDescription, []string{"left", "right"})
	ifdOffset, err := b.Commit(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.FlushHeader(); err != nil {
		t.Fatal(err)
	}

	r, err := ifd.Open(s, binary.LittleEndian, ifd.Classic, ifdOffset, ifd.Options{})
	if err != nil {
		t.Fatal(err)
	}
	e, ok := r.Find(ifd.ImageDescription)
	if !ok {
		t.Fatal("ImageDescription not found")
	}
	if e.Count != 11 {
		t.Fatalf("ASCII count = %d, want 11", e.Count)
	}
	payload, err := r.Payload(e, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x6C, 0x65, 0x66, 0x74, 0x00, 0x72, 0x69, 0x67, 0x68, 0x74, 0x00}
	if string(payload) != string(want) {
		t.Fatalf("ASCII payload = %x, want %x", payload, want)
	}

	strs, err := ifd.ReadASCII(r, ifd.ImageDescription, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := strs.AsContiguousSlice()
	if len(got) != 2 || got[0] != "left" || got[1] != "right" {
		t.Fatalf("ReadASCII = %v", got)
	}
}

// TestIFDChainRoundTrip covers S4 and invariant 4: three chained
// IFDs enumerate in write order and terminate at 0.
func TestIFDChainRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.tif")
	s, err := store.CreateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c := NewCursor(s, binary.LittleEndian, ifd.Classic)

	var offsets []int64
	prev := int64(0)
	for i := uint16(0); i < 3; i++ {
		b := NewBuilder(c)
		b.AddShorts(ifd.ImageWidth, []uint16{i + 1})
		off, err := b.Commit(prev)
		if err != nil {
			t.Fatal(err)
		}
		offsets = append(offsets, off)
		prev = off
	}
	c.SetFirstIFDOffset(offsets[0])
	if err := c.FlushHeader(); err != nil {
		t.Fatal(err)
	}

	var seen []int64
	next := offsets[0]
	for i := 0; i < 10 && next != 0; i++ {
		r, err := ifd.Open(s, binary.LittleEndian, ifd.Classic, next, ifd.Options{})
		if err != nil {
			t.Fatal(err)
		}
		seen = append(seen, next)
		w, err := ifd.ReadShorts(r, ifd.ImageWidth, 0)
		if err != nil || w.FirstOrDefault() != uint16(len(seen)) {
			t.Fatalf("IFD %d ImageWidth = %v, %v, want %d", len(seen), w.FirstOrDefault(), err, len(seen))
		}
		next = r.NextOffset()
	}
	if len(seen) != 3 {
		t.Fatalf("chain visited %d IFDs, want 3", len(seen))
	}
	if next != 0 {
		t.Fatalf("chain did not terminate at 0, got %d", next)
	}
}

// TestOutOfLinePayloadAlignment covers invariant 2: every out-of-line
// payload offset the writer emits is even, even when an odd-length
// payload precedes it.
func TestOutOfLinePayloadAlignment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.tif")
	s, err := store.CreateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c := NewCursor(s, binary.LittleEndian, ifd.Classic)
	// An odd-length write ahead of the IFD forces the builder's
	// out-of-line payload to need realignment.
	if _, err := c.WriteBytes([]byte{0xAB}); err != nil {
		t.Fatal(err)
	}

	b := NewBuilder(c)
	b.AddLongs(ifd.StripByteCounts, []uint32{1, 2, 3, 4, 5})
	ifdOffset, err := b.Commit(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.FlushHeader(); err != nil {
		t.Fatal(err)
	}

	r, err := ifd.Open(s, binary.LittleEndian, ifd.Classic, ifdOffset, ifd.Options{})
	if err != nil {
		t.Fatal(err)
	}
	e, ok := r.Find(ifd.StripByteCounts)
	if !ok {
		t.Fatal("StripByteCounts not found")
	}
	off, err := e.OutOfLineOffset(binary.LittleEndian, ifd.Classic)
	if err != nil {
		t.Fatal(err)
	}
	if off%2 != 0 {
		t.Fatalf("out-of-line payload offset %d is not even", off)
	}
}

// TestBigRoundTrip exercises a BigTIFF build end to end, including a
// LONG8-typed tag with no Classic equivalent.
func TestBigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.tif")
	s, err := store.CreateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c := NewCursor(s, binary.LittleEndian, ifd.Big)
	b := NewBuilder(c)
	b.AddLong8s(ifd.StripOffsets, []uint64{1 << 33})
	ifdOffset, err := b.Commit(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.FlushHeader(); err != nil {
		t.Fatal(err)
	}

	r, err := ifd.Open(s, binary.LittleEndian, ifd.Big, ifdOffset, ifd.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := ifd.ReadLong8s(r, ifd.StripOffsets, 0)
	if err != nil || got.FirstOrDefault() != 1<<33 {
		t.Fatalf("StripOffsets = %v, %v, want %d", got.FirstOrDefault(), err, uint64(1<<33))
	}
}

func TestRationalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.tif")
	s, err := store.CreateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c := NewCursor(s, binary.LittleEndian, ifd.Classic)
	b := NewBuilder(c)
	b.AddRationals(ifd.XResolution, []wire.Rational{{Num: 72, Den: 1}})
	ifdOffset, err := b.Commit(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.FlushHeader(); err != nil {
		t.Fatal(err)
	}

	r, err := ifd.Open(s, binary.LittleEndian, ifd.Classic, ifdOffset, ifd.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := ifd.ReadRationals(r, ifd.XResolution, 0)
	if err != nil || got.FirstOrDefault() != (wire.Rational{Num: 72, Den: 1}) {
		t.Fatalf("XResolution = %v, %v", got.FirstOrDefault(), err)
	}
}
