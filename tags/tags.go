// Package tags is the "menagerie of per-tag reader helpers" spec.md
// §1 explicitly pushes out of the core: thin, two-line shims over
// ifd.ReadValues's typed wrappers, one per commonly-needed tag, kept
// here rather than in ifd so the core package stays limited to the
// generic read_values<T> spec.md §9 calls for.
package tags

import (
	"errors"

	"github.com/kestreltiff/tiff/ifd"
	"github.com/kestreltiff/tiff/wire"
)

// ReadImageWidth reads the ImageWidth tag.
func ReadImageWidth(r *ifd.Reader) (int, error) {
	v, err := ifd.AnyUint(r, ifd.ImageWidth, 0)
	return int(v.FirstOrDefault()), err
}

// ReadImageLength reads the ImageLength tag.
func ReadImageLength(r *ifd.Reader) (int, error) {
	v, err := ifd.AnyUint(r, ifd.ImageLength, 0)
	return int(v.FirstOrDefault()), err
}

// ReadBitsPerSample reads the BitsPerSample tag.
func ReadBitsPerSample(r *ifd.Reader) ([]uint16, error) {
	v, err := ifd.ReadShorts(r, ifd.BitsPerSample, 0)
	return v.AsContiguousSlice(), err
}

// ReadCompression reads the Compression tag, defaulting to 1
// (uncompressed) per the TIFF baseline spec when absent.
func ReadCompression(r *ifd.Reader) (int, error) {
	v, err := ifd.ReadShorts(r, ifd.Compression, 0)
	if absent(err) {
		return 1, nil
	}
	if err != nil {
		return 1, err
	}
	return int(v.FirstOrDefault()), nil
}

// ReadPhotometricInterpretation reads the PhotometricInterpretation tag.
func ReadPhotometricInterpretation(r *ifd.Reader) (int, error) {
	v, err := ifd.ReadShorts(r, ifd.PhotometricInterpretation, 0)
	return int(v.FirstOrDefault()), err
}

// ReadSamplesPerPixel reads the SamplesPerPixel tag, defaulting to 1
// when absent.
func ReadSamplesPerPixel(r *ifd.Reader) (int, error) {
	v, err := ifd.ReadShorts(r, ifd.SamplesPerPixel, 0)
	if absent(err) {
		return 1, nil
	}
	if err != nil {
		return 1, err
	}
	return int(v.FirstOrDefault()), nil
}

// ReadRowsPerStrip reads the RowsPerStrip tag.
func ReadRowsPerStrip(r *ifd.Reader) (int, error) {
	v, err := ifd.AnyUint(r, ifd.RowsPerStrip, 0)
	return int(v.FirstOrDefault()), err
}

// ReadStripOffsets reads the StripOffsets tag.
func ReadStripOffsets(r *ifd.Reader) ([]uint64, error) {
	v, err := ifd.AnyUint(r, ifd.StripOffsets, 0)
	return v.AsContiguousSlice(), err
}

// ReadStripByteCounts reads the StripByteCounts tag.
func ReadStripByteCounts(r *ifd.Reader) ([]uint64, error) {
	v, err := ifd.AnyUint(r, ifd.StripByteCounts, 0)
	return v.AsContiguousSlice(), err
}

// ReadTileOffsets reads the TileOffsets tag.
func ReadTileOffsets(r *ifd.Reader) ([]uint64, error) {
	v, err := ifd.AnyUint(r, ifd.TileOffsets, 0)
	return v.AsContiguousSlice(), err
}

// ReadTileByteCounts reads the TileByteCounts tag.
func ReadTileByteCounts(r *ifd.Reader) ([]uint64, error) {
	v, err := ifd.AnyUint(r, ifd.TileByteCounts, 0)
	return v.AsContiguousSlice(), err
}

// ReadPredictor reads the Predictor tag, defaulting to 1 (none) when absent.
func ReadPredictor(r *ifd.Reader) (int, error) {
	v, err := ifd.ReadShorts(r, ifd.Predictor, 0)
	if absent(err) {
		return 1, nil
	}
	if err != nil {
		return 1, err
	}
	return int(v.FirstOrDefault()), nil
}

// absent reports whether err is ifd's NotFound, the case in which a
// defaulted tag's default applies.
func absent(err error) bool {
	var ierr *ifd.Error
	return errors.As(err, &ierr) && ierr.Kind == ifd.NotFound
}

// ReadColorMap reads the ColorMap tag.
func ReadColorMap(r *ifd.Reader) ([]uint16, error) {
	v, err := ifd.ReadShorts(r, ifd.ColorMap, 0)
	return v.AsContiguousSlice(), err
}

// ReadYCbCrSubSampling reads the YCbCrSubSampling tag.
func ReadYCbCrSubSampling(r *ifd.Reader) ([]uint16, error) {
	v, err := ifd.ReadShorts(r, ifd.YCbCrSubSampling, 0)
	return v.AsContiguousSlice(), err
}

// ReadYCbCrCoefficients reads the YCbCrCoefficients tag.
func ReadYCbCrCoefficients(r *ifd.Reader) ([]wire.Rational, error) {
	v, err := ifd.ReadRationals(r, ifd.YCbCrCoefficients, 0)
	return v.AsContiguousSlice(), err
}

// ReadImageDescription reads the ImageDescription tag's component strings.
func ReadImageDescription(r *ifd.Reader) ([]string, error) {
	v, err := ifd.ReadASCII(r, ifd.ImageDescription, 0)
	return v.AsContiguousSlice(), err
}

// ReadSoftware reads the Software tag's first string.
func ReadSoftware(r *ifd.Reader) (string, error) {
	v, err := ifd.ReadASCII(r, ifd.Software, 0)
	return v.FirstOrDefault(), err
}
