package pipeline

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"testing"

	"github.com/kestreltiff/tiff/pixbuf"
)

func TestGetWriterTypeMismatch(t *testing.T) {
	dc := &DecodeContext{Writer: pixbuf.New[pixbuf.RGB8](1, 1)}
	if _, err := GetWriter[uint8](dc); err == nil {
		t.Fatal("expected type mismatch error")
	}
	got, err := GetWriter[pixbuf.RGB8](dc)
	if err != nil || got == nil {
		t.Fatalf("GetWriter = %v, %v", got, err)
	}
}

func TestChainOrderAndCompletion(t *testing.T) {
	var order []string
	a := MiddlewareFunc(func(ctx context.Context, dc *DecodeContext, next Handler) error {
		order = append(order, "a")
		return next(ctx, dc)
	})
	b := MiddlewareFunc(func(ctx context.Context, dc *DecodeContext, next Handler) error {
		order = append(order, "b")
		return next(ctx, dc)
	})
	h := New(a, b)
	if err := h(context.Background(), &DecodeContext{}); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v, want [a b]", order)
	}
}

// TestShortCircuit covers spec.md invariant 8: a middleware that does
// not call next leaves everything after it unrun.
func TestShortCircuit(t *testing.T) {
	ran := false
	stopper := MiddlewareFunc(func(ctx context.Context, dc *DecodeContext, next Handler) error {
		return nil // does not call next
	})
	after := MiddlewareFunc(func(ctx context.Context, dc *DecodeContext, next Handler) error {
		ran = true
		return next(ctx, dc)
	})
	h := New(stopper, after)
	if err := h(context.Background(), &DecodeContext{}); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Fatal("middleware after a short-circuiting one should not run")
	}
}

// TestCancellationBeforeDispatch covers invariant 9: a cancelled
// context raises Cancelled before the node's own work runs.
func TestCancellationBeforeDispatch(t *testing.T) {
	ran := false
	mw := MiddlewareFunc(func(ctx context.Context, dc *DecodeContext, next Handler) error {
		ran = true
		return next(ctx, dc)
	})
	h := New(mw)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := h(ctx, &DecodeContext{})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if ran {
		t.Fatal("middleware ran despite pre-cancelled context")
	}
}

func TestErrorPropagation(t *testing.T) {
	wantErr := errors.New("boom")
	mw := MiddlewareFunc(func(ctx context.Context, dc *DecodeContext, next Handler) error {
		return wantErr
	})
	h := New(mw)
	if err := h(context.Background(), &DecodeContext{}); err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestDeflateMiddleware(t *testing.T) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	want := []byte{1, 2, 3, 4, 5, 6}
	w.Write(want)
	w.Close()

	dc := &DecodeContext{Compressed: buf.Bytes()}
	h := New(Deflate())
	if err := h(context.Background(), dc); err != nil {
		t.Fatal(err)
	}
	if string(dc.Uncompressed) != string(want) {
		t.Fatalf("Uncompressed = %v, want %v", dc.Uncompressed, want)
	}
}

func TestHorizontalPredictor(t *testing.T) {
	dc := &DecodeContext{
		Uncompressed:    []byte{10, 5, 5, 20, 3, 3},
		ImageWidth:      3,
		SamplesPerPixel: 1,
		BitsPerSample:   []int{8},
		Predictor:       2,
	}
	h := New(HorizontalPredictor())
	if err := h(context.Background(), dc); err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 15, 20, 20, 23, 26}
	if string(dc.Uncompressed) != string(want) {
		t.Fatalf("reconstructed = %v, want %v", dc.Uncompressed, want)
	}
}

func TestHorizontalPredictorNoOp(t *testing.T) {
	dc := &DecodeContext{
		Uncompressed:    []byte{10, 5, 5},
		ImageWidth:      3,
		SamplesPerPixel: 1,
		BitsPerSample:   []int{8},
		Predictor:       1,
	}
	h := New(HorizontalPredictor())
	if err := h(context.Background(), dc); err != nil {
		t.Fatal(err)
	}
	if string(dc.Uncompressed) != string([]byte{10, 5, 5}) {
		t.Fatalf("predictor=1 should be a no-op, got %v", dc.Uncompressed)
	}
}
