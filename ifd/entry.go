package ifd

import (
	"encoding/binary"

	"github.com/kestreltiff/tiff/wire"
)

// Entry is one decoded IFD entry: tag, field type, element count, and
// the raw value-or-offset slot exactly as it appears on disk (4 bytes
// Classic, 8 bytes Big). Decoding the payload itself — inline or via
// a positioned read at the out-of-line offset — is Reader's job;
// Entry only knows how to tell the two cases apart, per spec.md §4.D.
type Entry struct {
	Tag   Tag
	Type  FieldType
	Count uint64
	Raw   []byte
}

// PayloadSize is count * width(type).
func (e Entry) PayloadSize() uint64 {
	return e.Count * uint64(e.Type.Size())
}

// Inline reports whether the entry's payload fits in its raw slot,
// and if so returns the payload bytes (left-aligned, trailing bytes
// are padding and must be ignored beyond PayloadSize).
func (e Entry) Inline(mode Mode) ([]byte, bool) {
	size := e.PayloadSize()
	if size == 0 || size > uint64(mode.InlineCap()) {
		return nil, false
	}
	return e.Raw[:size], true
}

// OutOfLineOffset decodes the entry's raw slot as a stream offset,
// valid only when Inline reports false.
func (e Entry) OutOfLineOffset(order binary.ByteOrder, mode Mode) (int64, error) {
	if mode == Big {
		v, err := wire.GetUint64(order, e.Raw)
		return int64(v), err
	}
	v, err := wire.GetUint32(order, e.Raw)
	return int64(v), err
}

// DecodeEntry parses one on-disk entry. buf must be exactly
// mode.EntrySize() bytes: tag(2) + type(2) + count(4 or 8) +
// value-or-offset(4 or 8).
func DecodeEntry(order binary.ByteOrder, mode Mode, buf []byte) (Entry, error) {
	want := int(mode.EntrySize())
	if len(buf) < want {
		return Entry{}, errTruncated("entry: need %d bytes, got %d", want, len(buf))
	}
	tagVal, err := wire.GetUint16(order, buf[0:2])
	if err != nil {
		return Entry{}, err
	}
	typeVal, err := wire.GetUint16(order, buf[2:4])
	if err != nil {
		return Entry{}, err
	}

	var count uint64
	var raw []byte
	if mode == Big {
		c, err := wire.GetUint64(order, buf[4:12])
		if err != nil {
			return Entry{}, err
		}
		count = c
		raw = buf[12:20]
	} else {
		c, err := wire.GetUint32(order, buf[4:8])
		if err != nil {
			return Entry{}, err
		}
		count = uint64(c)
		raw = buf[8:12]
	}

	return Entry{
		Tag:   Tag(tagVal),
		Type:  FieldType(typeVal),
		Count: count,
		Raw:   append([]byte(nil), raw...),
	}, nil
}

// EncodeEntry serializes one entry. If the payload fits inline it is
// packed left-aligned with trailing zero padding; otherwise
// outOfLineOffset must already name where the payload was written
// (the caller — tiffwriter.Builder — is responsible for having
// written it there first, per spec.md §4.G's two-pass commit order).
func EncodeEntry(order binary.ByteOrder, mode Mode, tag Tag, typ FieldType, count uint64, payload []byte, outOfLineOffset int64) ([]byte, error) {
	buf := make([]byte, mode.EntrySize())
	if err := wire.PutUint16(order, buf[0:2], uint16(tag)); err != nil {
		return nil, err
	}
	if err := wire.PutUint16(order, buf[2:4], uint16(typ)); err != nil {
		return nil, err
	}

	var valueSlot []byte
	if mode == Big {
		if err := wire.PutUint64(order, buf[4:12], count); err != nil {
			return nil, err
		}
		valueSlot = buf[12:20]
	} else {
		if err := wire.PutUint32(order, buf[4:8], uint32(count)); err != nil {
			return nil, err
		}
		valueSlot = buf[8:12]
	}

	size := count * uint64(typ.Size())
	if size > 0 && size <= uint64(mode.InlineCap()) {
		copy(valueSlot, payload)
		// Remaining bytes of valueSlot are already zero (make'd).
	} else {
		if mode == Big {
			if err := wire.PutUint64(order, valueSlot, uint64(outOfLineOffset)); err != nil {
				return nil, err
			}
		} else {
			if err := wire.PutUint32(order, valueSlot, uint32(outOfLineOffset)); err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}
