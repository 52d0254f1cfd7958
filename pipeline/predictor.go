package pipeline

import (
	"context"
	"fmt"
)

// predictorMiddleware undoes horizontal differencing (TIFF Predictor
// tag = 2): each sample after the first in a row is stored as the
// difference from the previous sample of the same component, and
// must be reconstructed by a running sum before the photometric
// interpreter reads it. Supplemented feature (spec.md §11): the base
// spec's mandatory photometric set assumes un-predicted samples; the
// original TIFF baseline spec makes Predictor a first-class
// compression companion, so this ships alongside the mandatory
// interpreters rather than being left for callers to hand-roll.
type predictorMiddleware struct{}

// HorizontalPredictor returns a middleware that reverses horizontal
// differencing on dc.Uncompressed in place, when dc.Predictor == 2.
// A no-op for dc.Predictor == 1 (none) or unset.
func HorizontalPredictor() Middleware { return predictorMiddleware{} }

func (predictorMiddleware) Invoke(ctx context.Context, dc *DecodeContext, next Handler) error {
	if err := ctx.Err(); err != nil {
		return ErrCancelled
	}
	if dc.Predictor == 2 {
		if err := undoHorizontalPredictor(dc); err != nil {
			return err
		}
	}
	return next(ctx, dc)
}

func undoHorizontalPredictor(dc *DecodeContext) error {
	if len(dc.BitsPerSample) == 0 {
		return fmt.Errorf("pipeline: predictor: BitsPerSample unset")
	}
	bits := dc.BitsPerSample[0]
	if bits != 8 {
		return fmt.Errorf("pipeline: predictor: only 8-bit samples supported, got %d", bits)
	}
	samplesPerPixel := dc.SamplesPerPixel
	if samplesPerPixel == 0 {
		samplesPerPixel = 1
	}
	rowBytes := dc.ImageWidth * samplesPerPixel
	if rowBytes == 0 {
		return nil
	}
	data := dc.Uncompressed
	for rowStart := 0; rowStart+rowBytes <= len(data); rowStart += rowBytes {
		for i := samplesPerPixel; i < rowBytes; i++ {
			data[rowStart+i] += data[rowStart+i-samplesPerPixel]
		}
	}
	return nil
}
