package depthframe

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/bitio"
	"github.com/dargueta/depthpack/codebook"
)

// Reader decompresses frames written by a [Writer] created with the same size
// and options.
type Reader struct {
	bits    *bitio.Reader
	width   int
	height  int
	invalid uint16
	offsets []uint32
	deltas  *codebook.Codebook
	spans   *codebook.Codebook
}

// NewReader creates a Reader for frames of `width` x `height` pixels. Pixels
// covered by a span come out as `invalid`.
func NewReader(src io.Reader, width, height int, invalid uint16, opts ...Option) (*Reader, error) {
	o, offsets, err := resolveOptions(width, height, opts)
	if err != nil {
		return nil, err
	}

	return &Reader{
		bits:    bitio.NewReader(src),
		width:   width,
		height:  height,
		invalid: invalid,
		offsets: offsets,
		deltas:  o.deltas,
		spans:   o.spans,
	}, nil
}

// Size returns the frame dimensions the Reader was created for.
func (r *Reader) Size() (width, height int) {
	return r.width, r.height
}

// BytesRead returns the number of bytes consumed from the source so far.
func (r *Reader) BytesRead() int64 {
	return r.bits.BytesRead()
}

// ReadFrame decodes the next frame into a newly allocated [Frame]. It returns
// [io.EOF] if the stream ends cleanly before the frame starts.
func (r *Reader) ReadFrame() (*Frame, error) {
	frame := NewFrame(r.width, r.height, r.invalid)
	if err := r.ReadFrameInto(frame); err != nil {
		return nil, err
	}
	return frame, nil
}

// ReadFrameInto decodes the next frame into `frame`, which must have the size
// the Reader was created for. The frame's invalid marker is overwritten with
// the Reader's.
//
// If the stream ends partway through the frame the error is
// [io.ErrUnexpectedEOF]. Bit sequences that no Writer could have produced give
// [depthpack.ErrCorruptStream].
func (r *Reader) ReadFrameInto(frame *Frame) error {
	if frame.Width != r.width || frame.Height != r.height {
		return depthpack.ErrSizeMismatch.WithMessage(
			fmt.Sprintf(
				"got a %dx%d frame, expected %dx%d",
				frame.Width,
				frame.Height,
				r.width,
				r.height))
	}
	if err := frame.checkBuffer(); err != nil {
		return err
	}
	frame.Invalid = r.invalid

	start := r.bits.BytesRead()
	err := r.decode(frame.Pix)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) && r.bits.BytesRead() == start {
			return io.EOF
		}
		return err
	}
	r.bits.Align()
	return nil
}

func (r *Reader) decode(pix []uint16) error {
	total := uint64(len(r.offsets))
	position := uint64(0)
	previous := int32(InitialPrediction)

	for {
		span, err := r.readSpan()
		if err != nil {
			return err
		}
		if span > total-position {
			return depthpack.ErrCorruptStream.WithMessage(
				fmt.Sprintf(
					"span of %d invalid samples at position %d overruns a frame of %d",
					span,
					position,
					total))
		}
		for end := position + span; position < end; position++ {
			pix[r.offsets[position]] = r.invalid
		}
		if position == total {
			return nil
		}

		delta, err := r.readDelta()
		if err != nil {
			return err
		}
		sample := int64(previous) + int64(delta)
		if sample < 0 || sample > 0xffff || uint16(sample) == r.invalid {
			return depthpack.ErrCorruptStream.WithMessage(
				fmt.Sprintf("sample at position %d decodes to invalid value %d", position, sample))
		}
		pix[r.offsets[position]] = uint16(sample)
		previous = int32(sample)
		position++
	}
}

func (r *Reader) readSpan() (uint64, error) {
	symbol, err := r.spans.Decode(r.bits)
	if err != nil {
		return 0, err
	}
	raw, err := r.bits.ReadBits(spanExtraBits(symbol))
	if err != nil {
		return 0, err
	}
	return spanFromClass(symbol, raw), nil
}

func (r *Reader) readDelta() (int32, error) {
	symbol, err := r.deltas.Decode(r.bits)
	if err != nil {
		return 0, err
	}
	raw, err := r.bits.ReadBits(uint(symbol))
	if err != nil {
		return 0, err
	}
	return deltaFromClass(symbol, raw), nil
}
