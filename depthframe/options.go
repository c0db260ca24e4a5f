package depthframe

import (
	"fmt"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/codebook"
	"github.com/dargueta/depthpack/curve"
)

// Option customizes a [Writer] or [Reader]. A Reader must be created with the
// same options as the Writer that produced its stream.
type Option func(*options)

type options struct {
	traversal depthpack.Traversal
	deltas    *codebook.Codebook
	spans     *codebook.Codebook
}

// WithTraversal replaces the default Hilbert curve with another visiting
// order. The traversal must cover the frame size exactly once per position.
func WithTraversal(t depthpack.Traversal) Option {
	return func(o *options) {
		o.traversal = t
	}
}

// WithCodebooks replaces the built-in codebooks. `deltas` must have
// [codebook.NumPixelDeltaSymbols] symbols and `spans`
// [codebook.NumSpanLengthSymbols].
func WithCodebooks(deltas, spans *codebook.Codebook) Option {
	return func(o *options) {
		o.deltas = deltas
		o.spans = spans
	}
}

// resolveOptions applies `opts` on top of the defaults and returns the
// traversal as row-major offsets.
func resolveOptions(width, height int, opts []Option) (options, []uint32, error) {
	if width <= 0 || height <= 0 {
		return options{}, nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("frame dimensions must be positive, got %dx%d", width, height))
	}
	// Keeping the pixel count within 32 bits also keeps every span below
	// MaxSpanLength.
	if uint64(width)*uint64(height) > 1<<32 {
		return options{}, nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("frames of %dx%d are too large to encode", width, height))
	}

	o := options{
		deltas: codebook.PixelDeltas,
		spans:  codebook.SpanLengths,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.deltas == nil || o.deltas.Len() != codebook.NumPixelDeltaSymbols {
		return options{}, nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("pixel delta codebook must have %d symbols", codebook.NumPixelDeltaSymbols))
	}
	if o.spans == nil || o.spans.Len() != codebook.NumSpanLengthSymbols {
		return options{}, nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("span length codebook must have %d symbols", codebook.NumSpanLengthSymbols))
	}

	if o.traversal == nil {
		hilbert, err := curve.NewHilbert(width, height)
		if err != nil {
			return options{}, nil, err
		}
		o.traversal = hilbert
	} else if err := curve.Validate(o.traversal, width, height); err != nil {
		return options{}, nil, err
	}

	offsets := make([]uint32, o.traversal.Len())
	for i := range offsets {
		x, y := o.traversal.Position(i)
		offsets[i] = uint32(y*width + x)
	}
	return o, offsets, nil
}
