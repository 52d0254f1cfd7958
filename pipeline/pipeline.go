// Package pipeline implements the decode pipeline (spec.md §4.H): a
// fixed-order chain of middleware sharing a mutable decode context,
// each free to inspect/mutate the context, short-circuit by not
// calling next, or fail outright. No single example repo in the pack
// implements this exact (context, next) interceptor shape; it is
// grounded on two looser precedents instead — the teacher's
// texture.loadImage "try this, fall through to that" codec probing,
// and net/http's canonical Handler/middleware composition, which is
// the idiomatic Go shape for exactly this kind of ordered interceptor
// chain.
package pipeline

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/kestreltiff/tiff/pixbuf"
)

// ErrCancelled is returned when a context is already done at a node's
// suspension point, before any further I/O or CPU work for that node.
var ErrCancelled = errors.New("pipeline: cancelled")

// DecodeContext is the mutable, per-image bundle middleware share by
// reference for the duration of one pipeline traversal. The pixel
// buffer's element type T (see Writer) is fixed for the traversal by
// whichever photometric interpreter terminates the chain.
type DecodeContext struct {
	// Order is the file's declared byte order, needed to decode
	// multi-byte samples (16-bit gray/RGB channels).
	Order binary.ByteOrder

	// Compressed holds the as-read strip/tile bytes before any
	// decompression middleware runs.
	Compressed []byte
	// Uncompressed holds decompressed sample bytes once a
	// decompression middleware has run; photometric interpreters read
	// from this field, never from Compressed.
	Uncompressed []byte

	ImageWidth, ImageHeight int
	BitsPerSample           []int
	SamplesPerPixel         int
	Predictor               int
	ColorMap                []uint16
	Compression             int
	FillOrder               int

	// YCbCrSubSampling is the horizontal/vertical chroma subsampling
	// factors from the YCbCrSubSampling tag, {2,2} when unset (TIFF's
	// default). YCbCrCoefficients are the luma weights from the
	// YCbCrCoefficients tag, {0.299, 0.587, 0.114} (ITU-R BT.601) when
	// unset.
	YCbCrSubSampling  [2]int
	YCbCrCoefficients [3]float64

	// RegionRowOffset/RegionRows describe, in rows, the slice of the
	// image this context's strip or tile covers.
	RegionRowOffset int
	RegionRows      int

	// Writer holds the pixel buffer writer for this traversal, as a
	// *pixbuf.Buffer[T] for whichever T the terminating photometric
	// interpreter produces. Access it through GetWriter, never by
	// asserting the type directly — spec.md §4.H's
	// "context.get_writer<PixelType>()" rendered as a typed accessor
	// over an otherwise untyped context, the same shape
	// context.Context itself uses for request-scoped values.
	Writer any
}

// GetWriter type-asserts dc.Writer to *pixbuf.Buffer[T], the accessor
// every photometric interpreter calls before writing its decoded rows.
func GetWriter[T any](dc *DecodeContext) (*pixbuf.Buffer[T], error) {
	buf, ok := dc.Writer.(*pixbuf.Buffer[T])
	if !ok {
		return nil, fmt.Errorf("pipeline: decode context writer is %T, not *pixbuf.Buffer[T]", dc.Writer)
	}
	return buf, nil
}

// Handler runs one step of a pipeline traversal.
type Handler func(ctx context.Context, dc *DecodeContext) error

// Middleware is one interceptor in the chain: it may inspect/mutate
// dc, decide whether to call next, and do work before or after it.
type Middleware interface {
	Invoke(ctx context.Context, dc *DecodeContext, next Handler) error
}

// MiddlewareFunc adapts a plain function to Middleware.
type MiddlewareFunc func(ctx context.Context, dc *DecodeContext, next Handler) error

func (f MiddlewareFunc) Invoke(ctx context.Context, dc *DecodeContext, next Handler) error {
	return f(ctx, dc, next)
}

// terminal is the no-op sentinel every chain ends with.
func terminal(ctx context.Context, dc *DecodeContext) error { return nil }

// New builds a Handler chaining mws in order. The chain is built
// once and may be traversed many times by distinct DecodeContexts, as
// long as the middleware themselves are stateless or internally
// synchronized (spec.md §5).
func New(mws ...Middleware) Handler {
	h := Handler(terminal)
	for i := len(mws) - 1; i >= 0; i-- {
		mw := mws[i]
		next := h
		h = func(ctx context.Context, dc *DecodeContext) error {
			if err := ctx.Err(); err != nil {
				return ErrCancelled
			}
			return mw.Invoke(ctx, dc, next)
		}
	}
	return h
}

// WriterFunc writes one decoded row into a typed pixel buffer via a
// scoped RowSpan handle — the pattern every photometric interpreter
// uses to turn pipeline-local pixel values into committed rows.
func WriterFunc[T any](buf *pixbuf.Buffer[T], row int, fill func(span *pixbuf.RowSpan[T]) error) error {
	span, err := buf.AcquireRow(row)
	if err != nil {
		return err
	}
	if err := fill(span); err != nil {
		span.Release()
		return err
	}
	return span.Release()
}
