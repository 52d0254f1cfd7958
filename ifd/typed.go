package ifd

import (
	"github.com/kestreltiff/tiff/tiffval"
	"github.com/kestreltiff/tiff/wire"
)

// ReadValues is the "single generic read_values<T>" design note from
// spec.md §9 made real: it resolves tag, verifies it has field type
// want, fetches its payload, and decodes it with decode. The per-tag
// helpers in the collaborator-level tags package degenerate to a call
// to one of the typed wrappers below followed by FirstOrDefault().
func ReadValues[T any](r *Reader, tag Tag, want FieldType, sizeLimit int, decode func(r *Reader, payload []byte, count uint64) ([]T, error)) (tiffval.Collection[T], error) {
	e, ok := r.Find(tag)
	if !ok {
		return tiffval.Empty[T](), errNotFound(tag)
	}
	if e.Type != want {
		return tiffval.Empty[T](), errTypeMismatch(tag, want, e.Type)
	}
	payload, err := r.Payload(e, sizeLimit)
	if err != nil {
		return tiffval.Empty[T](), err
	}
	vals, err := decode(r, payload, e.Count)
	if err != nil {
		return tiffval.Empty[T](), err
	}
	return tiffval.Many(vals), nil
}

func decodeBytes(r *Reader, payload []byte, count uint64) ([]byte, error) {
	out := make([]byte, count)
	copy(out, payload)
	return out, nil
}

func decodeSBytes(r *Reader, payload []byte, count uint64) ([]int8, error) {
	out := make([]int8, count)
	for i := range out {
		out[i] = int8(payload[i])
	}
	return out, nil
}

func decodeShorts(r *Reader, payload []byte, count uint64) ([]uint16, error) {
	out := make([]uint16, count)
	for i := range out {
		v, err := wire.GetUint16(r.order, payload[i*2:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeSShorts(r *Reader, payload []byte, count uint64) ([]int16, error) {
	out := make([]int16, count)
	for i := range out {
		v, err := wire.GetInt16(r.order, payload[i*2:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeLongs(r *Reader, payload []byte, count uint64) ([]uint32, error) {
	out := make([]uint32, count)
	for i := range out {
		v, err := wire.GetUint32(r.order, payload[i*4:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeSLongs(r *Reader, payload []byte, count uint64) ([]int32, error) {
	out := make([]int32, count)
	for i := range out {
		v, err := wire.GetInt32(r.order, payload[i*4:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeLong8s(r *Reader, payload []byte, count uint64) ([]uint64, error) {
	out := make([]uint64, count)
	for i := range out {
		v, err := wire.GetUint64(r.order, payload[i*8:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeSLong8s(r *Reader, payload []byte, count uint64) ([]int64, error) {
	out := make([]int64, count)
	for i := range out {
		v, err := wire.GetInt64(r.order, payload[i*8:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeFloats(r *Reader, payload []byte, count uint64) ([]float32, error) {
	out := make([]float32, count)
	for i := range out {
		v, err := wire.GetFloat32(r.order, payload[i*4:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeDoubles(r *Reader, payload []byte, count uint64) ([]float64, error) {
	out := make([]float64, count)
	for i := range out {
		v, err := wire.GetFloat64(r.order, payload[i*8:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeRationals(r *Reader, payload []byte, count uint64) ([]wire.Rational, error) {
	out := make([]wire.Rational, count)
	for i := range out {
		v, err := wire.GetRational(r.order, payload[i*8:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeSRationals(r *Reader, payload []byte, count uint64) ([]wire.SRational, error) {
	out := make([]wire.SRational, count)
	for i := range out {
		v, err := wire.GetSRational(r.order, payload[i*8:])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeASCII(r *Reader, payload []byte, count uint64) ([]string, error) {
	return UnpackASCII(payload), nil
}

// ReadBytes reads a BYTE/UNDEFINED-typed tag.
func ReadBytes(r *Reader, tag Tag, want FieldType, sizeLimit int) (tiffval.Collection[byte], error) {
	return ReadValues(r, tag, want, sizeLimit, decodeBytes)
}

// ReadSBytes reads an SBYTE-typed tag.
func ReadSBytes(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[int8], error) {
	return ReadValues(r, tag, TypeSByte, sizeLimit, decodeSBytes)
}

// ReadShorts reads a SHORT-typed tag.
func ReadShorts(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[uint16], error) {
	return ReadValues(r, tag, TypeShort, sizeLimit, decodeShorts)
}

// ReadSShorts reads an SSHORT-typed tag.
func ReadSShorts(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[int16], error) {
	return ReadValues(r, tag, TypeSShort, sizeLimit, decodeSShorts)
}

// ReadLongs reads a LONG-typed tag.
func ReadLongs(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[uint32], error) {
	return ReadValues(r, tag, TypeLong, sizeLimit, decodeLongs)
}

// ReadSLongs reads an SLONG-typed tag.
func ReadSLongs(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[int32], error) {
	return ReadValues(r, tag, TypeSLong, sizeLimit, decodeSLongs)
}

// ReadLong8s reads a LONG8-typed tag (BigTIFF).
func ReadLong8s(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[uint64], error) {
	return ReadValues(r, tag, TypeLong8, sizeLimit, decodeLong8s)
}

// ReadSLong8s reads an SLONG8-typed tag (BigTIFF).
func ReadSLong8s(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[int64], error) {
	return ReadValues(r, tag, TypeSLong8, sizeLimit, decodeSLong8s)
}

// ReadFloats reads a FLOAT-typed tag.
func ReadFloats(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[float32], error) {
	return ReadValues(r, tag, TypeFloat, sizeLimit, decodeFloats)
}

// ReadDoubles reads a DOUBLE-typed tag.
func ReadDoubles(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[float64], error) {
	return ReadValues(r, tag, TypeDouble, sizeLimit, decodeDoubles)
}

// ReadRationals reads a RATIONAL-typed tag.
func ReadRationals(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[wire.Rational], error) {
	return ReadValues(r, tag, TypeRational, sizeLimit, decodeRationals)
}

// ReadSRationals reads an SRATIONAL-typed tag.
func ReadSRationals(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[wire.SRational], error) {
	return ReadValues(r, tag, TypeSRational, sizeLimit, decodeSRationals)
}

// ReadASCII reads an ASCII-typed tag as its component NUL-separated
// strings (spec.md §4.D: each string is a separate collection element).
func ReadASCII(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[string], error) {
	return ReadValues(r, tag, TypeASCII, sizeLimit, decodeASCII)
}

// AnyUint reads any of the integral field types, or an IFD/IFD8
// offset, and widens each element to uint64, the "AnyInteger"-style
// convenience garyhouston-tiff66 provides for callers that don't care
// which specific integral width a tag happens to use.
func AnyUint(r *Reader, tag Tag, sizeLimit int) (tiffval.Collection[uint64], error) {
	e, ok := r.Find(tag)
	if !ok {
		return tiffval.Empty[uint64](), errNotFound(tag)
	}
	if !e.Type.IsIntegral() && e.Type != TypeIFD && e.Type != TypeIFD8 {
		return tiffval.Empty[uint64](), errTypeMismatch(tag, TypeLong, e.Type)
	}
	payload, err := r.Payload(e, sizeLimit)
	if err != nil {
		return tiffval.Empty[uint64](), err
	}
	out := make([]uint64, e.Count)
	for i := uint64(0); i < e.Count; i++ {
		switch e.Type {
		case TypeByte:
			out[i] = uint64(payload[i])
		case TypeSByte:
			out[i] = uint64(int64(int8(payload[i])))
		case TypeShort:
			v, err := wire.GetUint16(r.order, payload[i*2:])
			if err != nil {
				return tiffval.Empty[uint64](), err
			}
			out[i] = uint64(v)
		case TypeSShort:
			v, err := wire.GetInt16(r.order, payload[i*2:])
			if err != nil {
				return tiffval.Empty[uint64](), err
			}
			out[i] = uint64(int64(v))
		case TypeLong, TypeIFD:
			v, err := wire.GetUint32(r.order, payload[i*4:])
			if err != nil {
				return tiffval.Empty[uint64](), err
			}
			out[i] = uint64(v)
		case TypeSLong:
			v, err := wire.GetInt32(r.order, payload[i*4:])
			if err != nil {
				return tiffval.Empty[uint64](), err
			}
			out[i] = uint64(int64(v))
		case TypeLong8, TypeIFD8:
			v, err := wire.GetUint64(r.order, payload[i*8:])
			if err != nil {
				return tiffval.Empty[uint64](), err
			}
			out[i] = v
		case TypeSLong8:
			v, err := wire.GetInt64(r.order, payload[i*8:])
			if err != nil {
				return tiffval.Empty[uint64](), err
			}
			out[i] = uint64(v)
		}
	}
	return tiffval.Many(out), nil
}
