// Package wire implements the positioned, byte-order-aware primitive
// codec shared by the ifd and tiffwriter packages: reading and writing
// the integer, float and rational encodings that make up TIFF field
// values, honoring whichever byte order (II/little or MM/big) a given
// file declared in its header.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ErrTruncated is returned when a buffer is shorter than the width
// required to decode a requested value.
type ErrTruncated struct {
	Want int
	Got  int
}

func (e *ErrTruncated) Error() string {
	return fmt.Sprintf("wire: truncated read: want %d bytes, got %d", e.Want, e.Got)
}

func need(buf []byte, n int) error {
	if len(buf) < n {
		return &ErrTruncated{Want: n, Got: len(buf)}
	}
	return nil
}

// Rational is a TIFF RATIONAL: numerator over denominator, stored in
// that order on disk.
type Rational struct {
	Num, Den uint32
}

// Float64 returns the rational's value as a float64, the form
// callers need for tags like YCbCrCoefficients that are defined as
// RATIONAL on disk but consumed as floating-point weights. Returns 0
// for a zero denominator rather than dividing by zero.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// SRational is a TIFF SRATIONAL.
type SRational struct {
	Num, Den int32
}

// Float64 is SRational's signed counterpart to Rational.Float64.
func (r SRational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func GetUint16(order binary.ByteOrder, buf []byte) (uint16, error) {
	if err := need(buf, 2); err != nil {
		return 0, err
	}
	return order.Uint16(buf), nil
}

func PutUint16(order binary.ByteOrder, buf []byte, v uint16) error {
	if err := need(buf, 2); err != nil {
		return err
	}
	order.PutUint16(buf, v)
	return nil
}

func GetUint32(order binary.ByteOrder, buf []byte) (uint32, error) {
	if err := need(buf, 4); err != nil {
		return 0, err
	}
	return order.Uint32(buf), nil
}

func PutUint32(order binary.ByteOrder, buf []byte, v uint32) error {
	if err := need(buf, 4); err != nil {
		return err
	}
	order.PutUint32(buf, v)
	return nil
}

func GetUint64(order binary.ByteOrder, buf []byte) (uint64, error) {
	if err := need(buf, 8); err != nil {
		return 0, err
	}
	return order.Uint64(buf), nil
}

func PutUint64(order binary.ByteOrder, buf []byte, v uint64) error {
	if err := need(buf, 8); err != nil {
		return err
	}
	order.PutUint64(buf, v)
	return nil
}

func GetInt16(order binary.ByteOrder, buf []byte) (int16, error) {
	v, err := GetUint16(order, buf)
	return int16(v), err
}

func PutInt16(order binary.ByteOrder, buf []byte, v int16) error {
	return PutUint16(order, buf, uint16(v))
}

func GetInt32(order binary.ByteOrder, buf []byte) (int32, error) {
	v, err := GetUint32(order, buf)
	return int32(v), err
}

func PutInt32(order binary.ByteOrder, buf []byte, v int32) error {
	return PutUint32(order, buf, uint32(v))
}

func GetInt64(order binary.ByteOrder, buf []byte) (int64, error) {
	v, err := GetUint64(order, buf)
	return int64(v), err
}

func PutInt64(order binary.ByteOrder, buf []byte, v int64) error {
	return PutUint64(order, buf, uint64(v))
}

func GetFloat32(order binary.ByteOrder, buf []byte) (float32, error) {
	v, err := GetUint32(order, buf)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func PutFloat32(order binary.ByteOrder, buf []byte, v float32) error {
	return PutUint32(order, buf, math.Float32bits(v))
}

func GetFloat64(order binary.ByteOrder, buf []byte) (float64, error) {
	v, err := GetUint64(order, buf)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func PutFloat64(order binary.ByteOrder, buf []byte, v float64) error {
	return PutUint64(order, buf, math.Float64bits(v))
}

// GetRational reads a RATIONAL: numerator then denominator, 4 bytes each.
func GetRational(order binary.ByteOrder, buf []byte) (Rational, error) {
	if err := need(buf, 8); err != nil {
		return Rational{}, err
	}
	return Rational{Num: order.Uint32(buf[0:4]), Den: order.Uint32(buf[4:8])}, nil
}

func PutRational(order binary.ByteOrder, buf []byte, v Rational) error {
	if err := need(buf, 8); err != nil {
		return err
	}
	order.PutUint32(buf[0:4], v.Num)
	order.PutUint32(buf[4:8], v.Den)
	return nil
}

func GetSRational(order binary.ByteOrder, buf []byte) (SRational, error) {
	if err := need(buf, 8); err != nil {
		return SRational{}, err
	}
	return SRational{Num: int32(order.Uint32(buf[0:4])), Den: int32(order.Uint32(buf[4:8]))}, nil
}

func PutSRational(order binary.ByteOrder, buf []byte, v SRational) error {
	if err := need(buf, 8); err != nil {
		return err
	}
	order.PutUint32(buf[0:4], uint32(v.Num))
	order.PutUint32(buf[4:8], uint32(v.Den))
	return nil
}

// ByteOrderFromMagic decodes the two-byte "II"/"MM" marker at the
// start of a TIFF header into a binary.ByteOrder, matching the sniff
// every reader in this codec performs before anything else.
func ByteOrderFromMagic(b0, b1 byte) (binary.ByteOrder, bool) {
	switch {
	case b0 == 'I' && b1 == 'I':
		return binary.LittleEndian, true
	case b0 == 'M' && b1 == 'M':
		return binary.BigEndian, true
	default:
		return nil, false
	}
}
