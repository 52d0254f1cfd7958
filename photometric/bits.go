// Package photometric implements the mandatory photometric
// interpreters (spec.md §4.I): middleware that turn a decompressed
// row of packed samples into typed pixels in a pixbuf.Buffer. Ported
// from the teacher's stripedTiff.At/tiledTiff.At — which perform the
// same per-pixel photometric switch inline against an image.Image's
// At(x, y) — generalized from a single hardcoded RGB/BlackIsZero
//8-bit pair into the full mandatory set across bit depths.
package photometric

import "fmt"

// unpackSamples extracts count samples of bitDepth bits each from a
// byte-aligned row, MSB-first within each byte — the packing every
// baseline TIFF reader (including garyhouston-tiff66) assumes for
// sub-byte bit depths.
func unpackSamples(row []byte, bitDepth, count int) ([]uint32, error) {
	out := make([]uint32, count)
	switch bitDepth {
	case 8:
		if len(row) < count {
			return nil, fmt.Errorf("photometric: row too short: need %d bytes, got %d", count, len(row))
		}
		for i := 0; i < count; i++ {
			out[i] = uint32(row[i])
		}
	case 1, 2, 4:
		perByte := 8 / bitDepth
		mask := uint32(1<<bitDepth) - 1
		needBytes := (count + perByte - 1) / perByte
		if len(row) < needBytes {
			return nil, fmt.Errorf("photometric: row too short: need %d bytes, got %d", needBytes, len(row))
		}
		for i := 0; i < count; i++ {
			b := row[i/perByte]
			shift := 8 - bitDepth*(i%perByte+1)
			out[i] = (uint32(b) >> shift) & mask
		}
	default:
		return nil, fmt.Errorf("photometric: unsupported bit depth %d", bitDepth)
	}
	return out, nil
}

// expandToFullScale scales an n-bit sample up to the full 8-bit
// range, the way a 1-bit BlackIsZero sample (0 or 1) becomes 0x00 or
// 0xFF rather than 0x00 or 0x01.
func expandToFullScale(v uint32, bitDepth int) uint8 {
	if bitDepth >= 8 {
		return uint8(v)
	}
	maxIn := uint32(1<<bitDepth) - 1
	return uint8(v * 255 / maxIn)
}
