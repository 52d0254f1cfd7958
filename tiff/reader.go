package tiff

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/kestreltiff/tiff/ifd"
	"github.com/kestreltiff/tiff/photometric"
	"github.com/kestreltiff/tiff/pipeline"
	"github.com/kestreltiff/tiff/pixbuf"
	"github.com/kestreltiff/tiff/store"
	"github.com/kestreltiff/tiff/tiffcache"
	"github.com/kestreltiff/tiff/wire"
)

// FileReader owns a backing store opened for memory-mapped, read-only
// positioned access and the parsed file header, the collaborator-level
// "open by path" entry point spec.md §6 describes and the teacher's
// texture/tiff.parseTiffHeader sniffs inline on every load.
type FileReader struct {
	store          *store.MmapStore
	order          binary.ByteOrder
	mode           ifd.Mode
	firstIFDOffset int64
	opts           Options
	cache          *tiffcache.TileCache
}

// Open opens path, reads and validates its 8- or 16-byte header, and
// returns a FileReader ready to walk its IFD chain.
func Open(path string, opts Options) (*FileReader, error) {
	s, err := store.OpenMmap(path)
	if err != nil {
		return nil, wrapErr(IoFailure, err)
	}
	order, mode, firstOffset, err := readHeader(s)
	if err != nil {
		s.Close()
		return nil, err
	}
	cache, err := tiffcache.New(200)
	if err != nil {
		s.Close()
		return nil, wrapErr(IoFailure, err)
	}
	return &FileReader{store: s, order: order, mode: mode, firstIFDOffset: firstOffset, opts: opts, cache: cache}, nil
}

func readHeader(r *store.MmapStore) (binary.ByteOrder, ifd.Mode, int64, error) {
	buf := make([]byte, 8)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, 0, 0, wrapErr(Truncated, err)
	}
	order, ok := wire.ByteOrderFromMagic(buf[0], buf[1])
	if !ok {
		return nil, 0, 0, errMalformed("unrecognized byte-order marker %q", buf[0:2])
	}
	magic := order.Uint16(buf[2:4])
	switch magic {
	case 42:
		return order, ifd.Classic, int64(order.Uint32(buf[4:8])), nil
	case 43:
		big := make([]byte, 16)
		if _, err := r.ReadAt(big, 0); err != nil {
			return nil, 0, 0, wrapErr(Truncated, err)
		}
		return order, ifd.Big, int64(order.Uint64(big[8:16])), nil
	default:
		return nil, 0, 0, errMalformed("unrecognized magic number %d", magic)
	}
}

// ByteOrder reports the file's declared byte order.
func (f *FileReader) ByteOrder() binary.ByteOrder { return f.order }

// Mode reports Classic or Big.
func (f *FileReader) Mode() ifd.Mode { return f.mode }

// FirstIFD opens the file's first IFD.
func (f *FileReader) FirstIFD() (*ifd.Reader, error) {
	return f.OpenIFD(f.firstIFDOffset)
}

// OpenIFD opens the IFD at offset.
func (f *FileReader) OpenIFD(offset int64) (*ifd.Reader, error) {
	r, err := ifd.Open(f.store, f.order, f.mode, offset, f.opts.ifdOptions())
	if err != nil {
		return nil, translateIFDErr(err)
	}
	return r, nil
}

// NextIFD opens the IFD following r in the chain, or returns (nil,
// nil) if r is the last one.
func (f *FileReader) NextIFD(r *ifd.Reader) (*ifd.Reader, error) {
	if r.NextOffset() == 0 {
		return nil, nil
	}
	return f.OpenIFD(r.NextOffset())
}

// Close disposes the FileReader's backing store, unless Options.LeaveOpen.
func (f *FileReader) Close() error {
	if f.opts.LeaveOpen {
		return nil
	}
	if err := f.store.Close(); err != nil {
		return wrapErr(IoFailure, err)
	}
	return nil
}

func translateIFDErr(err error) error {
	var ie *ifd.Error
	if e, ok := err.(*ifd.Error); ok {
		ie = e
	}
	if ie == nil {
		return wrapErr(IoFailure, err)
	}
	kind := map[ifd.Kind]Kind{
		ifd.Malformed:         Malformed,
		ifd.Truncated:         Truncated,
		ifd.TypeMismatch:      TypeMismatch,
		ifd.NotFound:          NotFound,
		ifd.SizeLimitExceeded: SizeLimitExceeded,
	}[ie.Kind]
	return &Error{Kind: kind, Msg: ie.Msg, Err: ie}
}

// imageDescriptor holds the tags Decode needs, resolved once per IFD.
type imageDescriptor struct {
	width, height   int
	bitsPerSample   []int
	samplesPerPixel int
	photometric     int
	compression     int
	predictor       int
	rowsPerStrip    int
	stripOffsets    []uint64
	stripByteCounts []uint64
	colorMap        []uint16
	ycbcrSub        [2]int
	ycbcrCoeff      [3]float64
}

func describeImage(r *ifd.Reader) (imageDescriptor, error) {
	var d imageDescriptor
	width, err := ifd.AnyUint(r, ifd.ImageWidth, 0)
	if err != nil {
		return d, translateIFDErr(err)
	}
	height, err := ifd.AnyUint(r, ifd.ImageLength, 0)
	if err != nil {
		return d, translateIFDErr(err)
	}
	d.width, d.height = int(width.FirstOrDefault()), int(height.FirstOrDefault())

	bits, err := ifd.ReadShorts(r, ifd.BitsPerSample, 0)
	if err != nil {
		return d, translateIFDErr(err)
	}
	for _, b := range bits.AsContiguousSlice() {
		d.bitsPerSample = append(d.bitsPerSample, int(b))
	}
	if len(d.bitsPerSample) == 0 {
		d.bitsPerSample = []int{1}
	}

	spp, err := ifd.ReadShorts(r, ifd.SamplesPerPixel, 0)
	if err == nil {
		d.samplesPerPixel = int(spp.FirstOrDefault())
	} else {
		d.samplesPerPixel = 1
	}

	photo, err := ifd.ReadShorts(r, ifd.PhotometricInterpretation, 0)
	if err != nil {
		return d, translateIFDErr(err)
	}
	d.photometric = int(photo.FirstOrDefault())

	if c, err := ifd.ReadShorts(r, ifd.Compression, 0); err == nil {
		d.compression = int(c.FirstOrDefault())
	} else {
		d.compression = 1
	}
	if p, err := ifd.ReadShorts(r, ifd.Predictor, 0); err == nil {
		d.predictor = int(p.FirstOrDefault())
	} else {
		d.predictor = 1
	}

	rps, err := ifd.AnyUint(r, ifd.RowsPerStrip, 0)
	if err == nil {
		d.rowsPerStrip = int(rps.FirstOrDefault())
	} else {
		d.rowsPerStrip = d.height
	}

	offsets, err := ifd.AnyUint(r, ifd.StripOffsets, 0)
	if err != nil {
		return d, translateIFDErr(err)
	}
	counts, err := ifd.AnyUint(r, ifd.StripByteCounts, 0)
	if err != nil {
		return d, translateIFDErr(err)
	}
	d.stripOffsets = offsets.AsContiguousSlice()
	d.stripByteCounts = counts.AsContiguousSlice()

	if cm, err := ifd.ReadShorts(r, ifd.ColorMap, 0); err == nil {
		d.colorMap = cm.AsContiguousSlice()
	}
	d.ycbcrSub = [2]int{2, 2}
	if sub, err := ifd.ReadShorts(r, ifd.YCbCrSubSampling, 0); err == nil {
		vs := sub.AsContiguousSlice()
		if len(vs) == 2 {
			d.ycbcrSub = [2]int{int(vs[0]), int(vs[1])}
		}
	}
	if coeff, err := ifd.ReadRationals(r, ifd.YCbCrCoefficients, 0); err == nil {
		vs := coeff.AsContiguousSlice()
		if len(vs) == 3 {
			d.ycbcrCoeff = [3]float64{vs[0].Float64(), vs[1].Float64(), vs[2].Float64()}
		}
	}
	return d, nil
}

func decompressionMiddleware(compression int) (pipeline.Middleware, error) {
	switch compression {
	case 1:
		return pipeline.MiddlewareFunc(func(ctx context.Context, dc *pipeline.DecodeContext, next pipeline.Handler) error {
			dc.Uncompressed = dc.Compressed
			return next(ctx, dc)
		}), nil
	case 5, 8, 32946:
		return pipeline.Deflate(), nil
	case 2, 3, 4:
		return pipeline.CCITT(), nil
	default:
		return nil, errUnsupported("unsupported Compression value %d", compression)
	}
}

func photometricMiddleware(d imageDescriptor) (pipeline.Middleware, error) {
	bits := d.bitsPerSample[0]
	switch d.photometric {
	case 0: // WhiteIsZero
		switch bits {
		case 1:
			return photometric.WhiteIsZero1(), nil
		case 4:
			return photometric.WhiteIsZero4(), nil
		case 8:
			return photometric.WhiteIsZero8(), nil
		case 16:
			return photometric.WhiteIsZero16(), nil
		}
	case 1: // BlackIsZero
		switch bits {
		case 1:
			return photometric.BlackIsZero1(), nil
		case 4:
			return photometric.BlackIsZero4(), nil
		case 8:
			return photometric.BlackIsZero8(), nil
		case 16:
			return photometric.BlackIsZero16(), nil
		}
	case 2: // RGB
		switch bits {
		case 8:
			return photometric.RGB8(), nil
		case 16:
			return photometric.RGB16(), nil
		}
	case 3: // Paletted
		switch bits {
		case 4:
			return photometric.Paletted4(), nil
		case 8:
			return photometric.Paletted8(), nil
		}
	case 4: // TransparencyMask
		return photometric.TransparencyMask(), nil
	case 5: // CMYK
		if bits == 8 {
			return photometric.CMYK8(), nil
		}
	case 6: // YCbCr
		if bits == 8 {
			return photometric.YCbCr8(), nil
		}
	}
	return nil, errUnsupported("unsupported photometric interpretation %d at %d bits", d.photometric, bits)
}

func newWriterForPhotometric(photo int, bits, width, height int) (any, error) {
	switch photo {
	case 0, 1:
		if bits == 16 {
			return pixbuf.New[uint16](width, height), nil
		}
		return pixbuf.New[uint8](width, height), nil
	case 2:
		if bits == 16 {
			return pixbuf.New[pixbuf.RGB16](width, height), nil
		}
		return pixbuf.New[pixbuf.RGB8](width, height), nil
	case 3:
		return pixbuf.New[pixbuf.RGB16](width, height), nil
	case 4:
		return pixbuf.New[uint8](width, height), nil
	case 5:
		return pixbuf.New[pixbuf.CMYK8](width, height), nil
	case 6:
		return pixbuf.New[pixbuf.RGB8](width, height), nil
	default:
		return nil, errUnsupported("unsupported photometric interpretation %d", photo)
	}
}

// Decode reads every strip named by r's StripOffsets/StripByteCounts,
// decompresses and photometrically interprets each one through the
// decode pipeline, and returns the resulting pixel buffer as a
// *pixbuf.Buffer[T] whose T depends on the photometric interpretation.
// Each strip's raw (still compressed) bytes are cached by
// tiffcache.TileCache, keyed by ifdOffset and strip index, so a second
// Decode of the same IFD does not read them from the store again;
// decompression and interpretation run on every call.
func (f *FileReader) Decode(ctx context.Context, r *ifd.Reader, ifdOffset int64) (any, error) {
	d, err := describeImage(r)
	if err != nil {
		return nil, err
	}
	decompress, err := decompressionMiddleware(d.compression)
	if err != nil {
		return nil, err
	}
	interpret, err := photometricMiddleware(d)
	if err != nil {
		return nil, err
	}
	writer, err := newWriterForPhotometric(d.photometric, d.bitsPerSample[0], d.width, d.height)
	if err != nil {
		return nil, err
	}

	mws := []pipeline.Middleware{decompress}
	if d.predictor == 2 {
		mws = append(mws, pipeline.HorizontalPredictor())
	}
	mws = append(mws, interpret)
	handler := pipeline.New(mws...)

	rowOffset := 0
	for i := range d.stripOffsets {
		if err := ctx.Err(); err != nil {
			return nil, &Error{Kind: Cancelled, Msg: "decode cancelled"}
		}
		rows := d.rowsPerStrip
		if rowOffset+rows > d.height {
			rows = d.height - rowOffset
		}
		key := tiffcache.Key{IFDOffset: ifdOffset, RegionIndex: i}
		offset, count := d.stripOffsets[i], d.stripByteCounts[i]
		compressed, err := f.cache.GetOrLoad(key, func() ([]byte, error) {
			buf := make([]byte, count)
			if _, err := f.store.ReadAt(buf, int64(offset)); err != nil {
				return nil, err
			}
			return buf, nil
		})
		if err != nil {
			return nil, wrapErr(IoFailure, err)
		}
		dc := &pipeline.DecodeContext{
			Order:             f.order,
			Compressed:        compressed,
			ImageWidth:        d.width,
			ImageHeight:       d.height,
			BitsPerSample:     d.bitsPerSample,
			SamplesPerPixel:   d.samplesPerPixel,
			Predictor:         d.predictor,
			ColorMap:          d.colorMap,
			Compression:       d.compression,
			YCbCrSubSampling:  d.ycbcrSub,
			YCbCrCoefficients: d.ycbcrCoeff,
			RegionRowOffset:   rowOffset,
			RegionRows:        rows,
			Writer:            writer,
		}
		if err := handler(ctx, dc); err != nil {
			return nil, fmt.Errorf("tiff: decode strip %d: %w", i, err)
		}
		rowOffset += rows
	}
	return writer, nil
}
