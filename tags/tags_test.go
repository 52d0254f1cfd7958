package tags

import (
	"encoding/binary"
	"testing"

	"github.com/kestreltiff/tiff/ifd"
)

// buildIFD lays out an entry count, the given entries, and a next-IFD
// pointer at ifdOffset within an 8-byte-header-sized buffer, mirroring
// where a real file's first IFD sits after its header.
func buildIFD(t *testing.T, entries []byte, n int, ifdOffset int) []byte {
	t.Helper()
	buf := make([]byte, ifdOffset)
	header := make([]byte, 2)
	binary.LittleEndian.PutUint16(header, uint16(n))
	next := make([]byte, 4)
	buf = append(buf, header...)
	buf = append(buf, entries...)
	buf = append(buf, next...)
	return buf
}

func TestReadImageWidthAndCompressionDefault(t *testing.T) {
	const ifdOffset = 8
	order := binary.LittleEndian
	e1, err := ifd.EncodeEntry(order, ifd.Classic, ifd.ImageWidth, ifd.TypeLong, 1, []byte{4, 0, 0, 0}, 0)
	if err != nil {
		t.Fatal(err)
	}
	buf := buildIFD(t, e1, 1, ifdOffset)
	r, err := ifd.Open(byteReader(buf), order, ifd.Classic, ifdOffset, ifd.Options{})
	if err != nil {
		t.Fatal(err)
	}
	w, err := ReadImageWidth(r)
	if err != nil || w != 4 {
		t.Fatalf("ReadImageWidth = %v, %v, want 4", w, err)
	}
	c, err := ReadCompression(r)
	if err != nil || c != 1 {
		t.Fatalf("ReadCompression default = %v, %v, want 1", c, err)
	}
	p, err := ReadPredictor(r)
	if err != nil || p != 1 {
		t.Fatalf("ReadPredictor default = %v, %v, want 1", p, err)
	}
}

type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, b[off:])
	return n, nil
}

func byteReader(b []byte) byteReaderAt { return byteReaderAt(b) }
