package tiffwriter

import (
	"sort"

	"github.com/kestreltiff/tiff/ifd"
	"github.com/kestreltiff/tiff/wire"
)

type pendingEntry struct {
	typ     ifd.FieldType
	count   uint64
	payload []byte
}

// Builder buffers one IFD's worth of pending tag entries and commits
// them to a parent Cursor in the two-pass order spec.md §4.G mandates:
// out-of-line payloads first, then the sorted entry array, then the
// link to whatever came before. Duplicate Add calls for the same tag
// overwrite the earlier value — last wins.
type Builder struct {
	cursor  *Cursor
	entries map[ifd.Tag]pendingEntry
}

// NewBuilder returns a Builder bound to cursor.
func NewBuilder(cursor *Cursor) *Builder {
	return &Builder{cursor: cursor, entries: make(map[ifd.Tag]pendingEntry)}
}

// Add stores a tag's already-encoded payload bytes (count elements of
// typ, in the cursor's byte order) pending commit.
func (b *Builder) Add(tag ifd.Tag, typ ifd.FieldType, count uint64, payload []byte) *Builder {
	b.entries[tag] = pendingEntry{typ: typ, count: count, payload: payload}
	return b
}

func packFixedWidth(n int, width int, fill func(buf []byte, i int)) []byte {
	out := make([]byte, n*width)
	for i := 0; i < n; i++ {
		fill(out[i*width:(i+1)*width], i)
	}
	return out
}

// AddBytes adds a BYTE/UNDEFINED/SBYTE-typed tag.
func (b *Builder) AddBytes(tag ifd.Tag, typ ifd.FieldType, vs []byte) *Builder {
	return b.Add(tag, typ, uint64(len(vs)), append([]byte(nil), vs...))
}

// AddShorts adds a SHORT-typed tag.
func (b *Builder) AddShorts(tag ifd.Tag, vs []uint16) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 2, func(buf []byte, i int) { wire.PutUint16(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeShort, uint64(len(vs)), payload)
}

// AddSShorts adds an SSHORT-typed tag.
func (b *Builder) AddSShorts(tag ifd.Tag, vs []int16) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 2, func(buf []byte, i int) { wire.PutInt16(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeSShort, uint64(len(vs)), payload)
}

// AddLongs adds a LONG-typed tag.
func (b *Builder) AddLongs(tag ifd.Tag, vs []uint32) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 4, func(buf []byte, i int) { wire.PutUint32(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeLong, uint64(len(vs)), payload)
}

// AddSLongs adds an SLONG-typed tag.
func (b *Builder) AddSLongs(tag ifd.Tag, vs []int32) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 4, func(buf []byte, i int) { wire.PutInt32(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeSLong, uint64(len(vs)), payload)
}

// AddLong8s adds a LONG8-typed tag (BigTIFF only).
func (b *Builder) AddLong8s(tag ifd.Tag, vs []uint64) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 8, func(buf []byte, i int) { wire.PutUint64(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeLong8, uint64(len(vs)), payload)
}

// AddSLong8s adds an SLONG8-typed tag (BigTIFF only).
func (b *Builder) AddSLong8s(tag ifd.Tag, vs []int64) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 8, func(buf []byte, i int) { wire.PutInt64(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeSLong8, uint64(len(vs)), payload)
}

// AddFloats adds a FLOAT-typed tag.
func (b *Builder) AddFloats(tag ifd.Tag, vs []float32) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 4, func(buf []byte, i int) { wire.PutFloat32(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeFloat, uint64(len(vs)), payload)
}

// AddDoubles adds a DOUBLE-typed tag.
func (b *Builder) AddDoubles(tag ifd.Tag, vs []float64) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 8, func(buf []byte, i int) { wire.PutFloat64(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeDouble, uint64(len(vs)), payload)
}

// AddRationals adds a RATIONAL-typed tag.
func (b *Builder) AddRationals(tag ifd.Tag, vs []wire.Rational) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 8, func(buf []byte, i int) { wire.PutRational(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeRational, uint64(len(vs)), payload)
}

// AddSRationals adds an SRATIONAL-typed tag.
func (b *Builder) AddSRationals(tag ifd.Tag, vs []wire.SRational) *Builder {
	order := b.cursor.ByteOrder()
	payload := packFixedWidth(len(vs), 8, func(buf []byte, i int) { wire.PutSRational(order, buf, vs[i]) })
	return b.Add(tag, ifd.TypeSRational, uint64(len(vs)), payload)
}

// AddASCII adds an ASCII-typed tag: strs is packed as a concatenation
// of NUL-terminated C strings (spec.md §9: the writer always appends
// the trailing NUL, even for the last string).
func (b *Builder) AddASCII(tag ifd.Tag, strs []string) *Builder {
	payload := ifd.PackASCII(strs)
	return b.Add(tag, ifd.TypeASCII, uint64(len(payload)), payload)
}

// Commit writes this IFD's out-of-line payloads, then its sorted
// entry array, then links it into the chain: if prevIFDOffset is 0
// this IFD becomes the file's first IFD, otherwise prevIFDOffset's
// next-IFD pointer is patched to point here. Returns this IFD's own
// offset.
func (b *Builder) Commit(prevIFDOffset int64) (int64, error) {
	mode := b.cursor.Mode()
	inlineCap := uint64(mode.InlineCap())

	tags := make([]ifd.Tag, 0, len(b.entries))
	for tag := range b.entries {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

	outOfLineOffsets := make(map[ifd.Tag]int64, len(tags))
	for _, tag := range tags {
		e := b.entries[tag]
		size := e.count * uint64(e.typ.Size())
		if size > inlineCap {
			offset, err := b.cursor.WriteAlignedBytes(e.payload)
			if err != nil {
				return 0, err
			}
			outOfLineOffsets[tag] = offset
		}
	}

	ifdOffset, err := b.cursor.AlignToWord()
	if err != nil {
		return 0, err
	}

	order := b.cursor.ByteOrder()
	countWidth := mode.CountWidth()
	countBuf := make([]byte, countWidth)
	if mode == ifd.Big {
		if err := wire.PutUint64(order, countBuf, uint64(len(tags))); err != nil {
			return 0, err
		}
	} else {
		if err := wire.PutUint16(order, countBuf, uint16(len(tags))); err != nil {
			return 0, err
		}
	}
	if _, err := b.cursor.WriteBytes(countBuf); err != nil {
		return 0, err
	}

	for _, tag := range tags {
		e := b.entries[tag]
		size := e.count * uint64(e.typ.Size())
		var entryBuf []byte
		var err error
		if size > inlineCap {
			entryBuf, err = ifd.EncodeEntry(order, mode, tag, e.typ, e.count, nil, outOfLineOffsets[tag])
		} else {
			entryBuf, err = ifd.EncodeEntry(order, mode, tag, e.typ, e.count, e.payload, 0)
		}
		if err != nil {
			return 0, err
		}
		if _, err := b.cursor.WriteBytes(entryBuf); err != nil {
			return 0, err
		}
	}

	zeroNext := make([]byte, mode.OffsetWidth())
	if _, err := b.cursor.WriteBytes(zeroNext); err != nil {
		return 0, err
	}

	if prevIFDOffset == 0 {
		b.cursor.SetFirstIFDOffset(ifdOffset)
	} else if err := b.cursor.UpdateNextIFDPointer(prevIFDOffset, ifdOffset); err != nil {
		return 0, err
	}

	return ifdOffset, nil
}
