// Package depthframe compresses individual depth frames.
//
// A frame is visited along a fixed traversal (a generalized Hilbert curve by
// default). Runs of invalid samples are replaced by their length, and every
// valid sample is replaced by its difference from the previous valid sample.
// Both are written as a class from a static Huffman codebook followed by raw
// bits, through a [bitio.Writer].
//
// The stream for one frame is a sequence of (span, delta) pairs: the number of
// invalid samples before the next valid one, then that sample's delta. After
// the last valid sample comes one more span covering the rest of the frame,
// possibly of length 0. The frame ends with zero bits up to the next byte
// boundary. Frames carry no header or length; the decoder stops once it has
// produced width*height samples, so consecutive frames can be concatenated.
package depthframe

import (
	"fmt"
	"io"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/bitio"
	"github.com/dargueta/depthpack/codebook"
)

// InitialPrediction is the value the first valid sample of each frame is
// predicted from.
const InitialPrediction = 0

// Writer compresses depth frames of a fixed size to a sink.
//
// A Writer is not safe for concurrent use. Encode independent streams with
// independent Writers.
type Writer struct {
	bits    *bitio.Writer
	width   int
	height  int
	offsets []uint32
	deltas  *codebook.Codebook
	spans   *codebook.Codebook
}

// NewWriter creates a Writer for frames of `width` x `height` pixels. The sink
// and any traversal passed as an option must outlive the Writer.
func NewWriter(sink io.Writer, width, height int, opts ...Option) (*Writer, error) {
	o, offsets, err := resolveOptions(width, height, opts)
	if err != nil {
		return nil, err
	}

	return &Writer{
		bits:    bitio.NewWriter(sink),
		width:   width,
		height:  height,
		offsets: offsets,
		deltas:  o.deltas,
		spans:   o.spans,
	}, nil
}

// Size returns the frame dimensions the Writer was created for.
func (w *Writer) Size() (width, height int) {
	return w.width, w.height
}

// TotalBytes returns the number of bytes written to the sink since the Writer
// was created.
func (w *Writer) TotalBytes() int64 {
	return w.bits.BytesWritten()
}

// WriteFrame compresses `frame` and returns the number of bytes it appended to
// the sink.
//
// A frame of the wrong size is rejected before anything is written. If the
// sink fails, the stream is left in an undefined state and the Writer returns
// the same error from then on.
func (w *Writer) WriteFrame(frame depthpack.Frame) (int64, error) {
	frameWidth, frameHeight := frame.Size()
	if frameWidth != w.width || frameHeight != w.height {
		return 0, depthpack.ErrSizeMismatch.WithMessage(
			fmt.Sprintf(
				"got a %dx%d frame, expected %dx%d",
				frameWidth,
				frameHeight,
				w.width,
				w.height))
	}
	if err := w.bits.Err(); err != nil {
		return 0, err
	}

	start := w.bits.BytesWritten()
	var err error
	if buffered, ok := frame.(*Frame); ok {
		if err = buffered.checkBuffer(); err != nil {
			return 0, err
		}
		err = w.encode(buffered.Pix, buffered.Invalid)
	} else {
		err = w.encodeGeneric(frame)
	}
	if err == nil {
		err = w.bits.Flush()
	}
	return w.bits.BytesWritten() - start, err
}

// encode compresses a row-major sample buffer.
func (w *Writer) encode(pix []uint16, invalid uint16) error {
	span := uint64(0)
	previous := int32(InitialPrediction)

	for _, offset := range w.offsets {
		sample := pix[offset]
		if sample == invalid {
			span++
			continue
		}

		if err := w.writeSpan(span); err != nil {
			return err
		}
		span = 0

		if err := w.writeDelta(int32(sample) - previous); err != nil {
			return err
		}
		previous = int32(sample)
	}
	return w.writeSpan(span)
}

// encodeGeneric is [Writer.encode] for frames that aren't backed by a buffer.
func (w *Writer) encodeGeneric(frame depthpack.Frame) error {
	invalid := frame.InvalidDepth()
	span := uint64(0)
	previous := int32(InitialPrediction)

	for _, offset := range w.offsets {
		sample := frame.At(int(offset)%w.width, int(offset)/w.width)
		if sample == invalid {
			span++
			continue
		}

		if err := w.writeSpan(span); err != nil {
			return err
		}
		span = 0

		if err := w.writeDelta(int32(sample) - previous); err != nil {
			return err
		}
		previous = int32(sample)
	}
	return w.writeSpan(span)
}

func (w *Writer) writeSpan(length uint64) error {
	c, err := spanClass(length)
	if err != nil {
		return err
	}
	return w.writeClass(w.spans, c)
}

func (w *Writer) writeDelta(delta int32) error {
	c, err := deltaClass(delta)
	if err != nil {
		return err
	}
	return w.writeClass(w.deltas, c)
}

func (w *Writer) writeClass(book *codebook.Codebook, c class) error {
	code := book.Code(c.symbol)
	if err := w.bits.WriteBits(code.Bits, uint(code.Length)); err != nil {
		return err
	}
	if c.numBits == 0 {
		return nil
	}
	return w.bits.WriteBits(c.raw, c.numBits)
}
