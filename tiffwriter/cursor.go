// Package tiffwriter implements the writer half of the codec: a
// forward-only stream cursor that tracks alignment and BigTIFF
// promotion (Cursor), and a per-IFD builder that buffers pending
// entries and commits them in the two-pass order spec.md §4.G
// requires (Builder). Grounded on golang-image's encoder.encode and
// writeIFD, generalized from its single hardcoded RGBA IFD to an
// arbitrary sequence of chained, BigTIFF-capable IFDs.
package tiffwriter

import (
	"encoding/binary"

	"github.com/kestreltiff/tiff/ifd"
	"github.com/kestreltiff/tiff/store"
	"github.com/kestreltiff/tiff/wire"
)

const classicOffsetLimit = 1<<32 - 1

// Cursor is the writer's offset and alignment state machine (spec.md
// §4.F): a forward-only stream position, the declared file mode, and
// a retroactive flag for whether the file built so far already
// requires BigTIFF's wider offsets.
type Cursor struct {
	store          store.Store
	order          binary.ByteOrder
	mode           ifd.Mode
	position       int64
	requiresBig    bool
	firstIFDOffset int64
	haveFirstIFD   bool
	completed      bool
	disposed       bool
}

// NewCursor returns a Cursor positioned just past the file header for
// mode, ready to write image data and IFDs.
func NewCursor(s store.Store, order binary.ByteOrder, mode ifd.Mode) *Cursor {
	return &Cursor{store: s, order: order, mode: mode, position: mode.HeaderSize()}
}

// Position reports the cursor's current stream offset.
func (c *Cursor) Position() int64 { return c.position }

// Mode reports the file mode this cursor was created with.
func (c *Cursor) Mode() ifd.Mode { return c.mode }

// ByteOrder reports the byte order this cursor writes with.
func (c *Cursor) ByteOrder() binary.ByteOrder { return c.order }

// RequiresBig reports whether any offset written so far has exceeded
// the 32-bit Classic limit.
func (c *Cursor) RequiresBig() bool { return c.requiresBig }

func (c *Cursor) checkWritable() error {
	if c.disposed {
		return errDisposed()
	}
	if c.completed {
		return errCompleted()
	}
	return nil
}

// Seek sets the cursor's position directly. Permitted freely; callers
// are responsible for not leaving gaps that later confuse readers.
func (c *Cursor) Seek(offset int64) error {
	if err := c.checkWritable(); err != nil {
		return err
	}
	c.position = offset
	return nil
}

func (c *Cursor) advance(n int64) {
	c.position += n
	if c.position-1 > classicOffsetLimit {
		c.requiresBig = true
	}
}

// AlignToWord pads the stream to an even offset with a single NUL
// byte if the current position is odd, and returns the (now even)
// position. Idempotent when already aligned.
func (c *Cursor) AlignToWord() (int64, error) {
	if err := c.checkWritable(); err != nil {
		return 0, err
	}
	if c.position%2 != 0 {
		if _, err := c.store.WriteAt([]byte{0}, c.position); err != nil {
			return 0, errIO(err)
		}
		c.advance(1)
	}
	return c.position, nil
}

// WriteBytes writes buf at the current position and advances past it,
// returning the offset the data was written at.
func (c *Cursor) WriteBytes(buf []byte) (int64, error) {
	if err := c.checkWritable(); err != nil {
		return 0, err
	}
	offset := c.position
	if len(buf) > 0 {
		if _, err := c.store.WriteAt(buf, offset); err != nil {
			return 0, errIO(err)
		}
	}
	c.advance(int64(len(buf)))
	return offset, nil
}

// WriteAlignedBytes aligns to a word boundary, then writes buf,
// returning the (aligned) offset it landed at.
func (c *Cursor) WriteAlignedBytes(buf []byte) (int64, error) {
	if _, err := c.AlignToWord(); err != nil {
		return 0, err
	}
	return c.WriteBytes(buf)
}

// SetFirstIFDOffset records where the header's first-IFD pointer
// should point. Must be called before FlushHeader.
func (c *Cursor) SetFirstIFDOffset(offset int64) {
	c.firstIFDOffset = offset
	c.haveFirstIFD = true
}

// FlushHeader writes the final 8- or 16-byte file header: byte-order
// marker, magic (42 Classic / 43 Big), the BigTIFF-only offset-size
// and reserved fields, and the first-IFD offset. Fails with
// BigTiffRequired if the file grew past the 32-bit offset limit while
// still declared Classic; never writes a partial header in that case.
func (c *Cursor) FlushHeader() error {
	if err := c.checkWritable(); err != nil {
		return err
	}
	if c.requiresBig && c.mode == ifd.Classic {
		return errBigTiffRequired("stream position %d exceeds the Classic 32-bit offset limit", c.position)
	}
	if !c.haveFirstIFD {
		return errMalformed("no IFD was committed before FlushHeader")
	}

	header := make([]byte, c.mode.HeaderSize())
	if c.order == binary.LittleEndian {
		header[0], header[1] = 'I', 'I'
	} else {
		header[0], header[1] = 'M', 'M'
	}
	if c.mode == ifd.Big {
		if err := wire.PutUint16(c.order, header[2:4], 43); err != nil {
			return err
		}
		if err := wire.PutUint16(c.order, header[4:6], 8); err != nil {
			return err
		}
		if err := wire.PutUint16(c.order, header[6:8], 0); err != nil {
			return err
		}
		if err := wire.PutUint64(c.order, header[8:16], uint64(c.firstIFDOffset)); err != nil {
			return err
		}
	} else {
		if err := wire.PutUint16(c.order, header[2:4], 42); err != nil {
			return err
		}
		if err := wire.PutUint32(c.order, header[4:8], uint32(c.firstIFDOffset)); err != nil {
			return err
		}
	}

	if _, err := c.store.WriteAt(header, 0); err != nil {
		return errIO(err)
	}
	c.completed = true
	return nil
}

// UpdateNextIFDPointer patches the next-IFD field of the IFD at
// prevIFDOffset to point at newIFDOffset: it reads that IFD's entry
// count, skips over the entry array at fixed width, and overwrites
// the trailing pointer.
func (c *Cursor) UpdateNextIFDPointer(prevIFDOffset, newIFDOffset int64) error {
	if err := c.checkWritable(); err != nil {
		return err
	}
	countWidth := c.mode.CountWidth()
	countBuf := make([]byte, countWidth)
	if _, err := c.store.ReadAt(countBuf, prevIFDOffset); err != nil {
		return errIO(err)
	}

	var numEntries uint64
	if c.mode == ifd.Big {
		v, err := wire.GetUint64(c.order, countBuf)
		if err != nil {
			return err
		}
		numEntries = v
	} else {
		v, err := wire.GetUint16(c.order, countBuf)
		if err != nil {
			return err
		}
		numEntries = uint64(v)
	}

	nextFieldOffset := prevIFDOffset + countWidth + int64(numEntries)*c.mode.EntrySize()
	offsetWidth := c.mode.OffsetWidth()
	buf := make([]byte, offsetWidth)
	if c.mode == ifd.Big {
		if err := wire.PutUint64(c.order, buf, uint64(newIFDOffset)); err != nil {
			return err
		}
	} else {
		if err := wire.PutUint32(c.order, buf, uint32(newIFDOffset)); err != nil {
			return err
		}
	}
	if _, err := c.store.WriteAt(buf, nextFieldOffset); err != nil {
		return errIO(err)
	}
	return nil
}

// Close disposes of the cursor. Any further operation fails with
// Disposed. Does not close the underlying store, which the owning
// file writer manages.
func (c *Cursor) Close() error {
	c.disposed = true
	return nil
}
