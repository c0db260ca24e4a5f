// Package bitio packs and unpacks variable-length bit strings, most significant
// bit first, on top of byte-oriented streams.
package bitio

import (
	"io"

	"github.com/dargueta/depthpack"
)

// AccumulatorBits is the width of the [Writer]'s bit buffer. No single write
// can be longer than this.
const AccumulatorBits = 32

// Writer accumulates bit strings and hands completed bytes to a sink.
//
// Bits are stored left-aligned in a 32-bit accumulator; once it's full, all
// four bytes are written to the sink in one call. A Writer is not safe for
// concurrent use.
//
// If the sink fails, the Writer is broken: the error is returned from the
// failing call and from every call after it.
type Writer struct {
	sink    io.Writer
	bits    uint32
	free    uint
	written int64
	err     error
	scratch [AccumulatorBits / 8]byte
}

// NewWriter creates a Writer appending to `sink`. The Writer doesn't buffer
// anything beyond its accumulator, so callers that care about throughput
// should give it a buffered sink.
func NewWriter(sink io.Writer) *Writer {
	return &Writer{sink: sink, free: AccumulatorBits}
}

// WriteBits appends the `n` low-order bits of `bits`, most significant first.
// `n` must be in [0, 32].
//
// When the accumulator has room this is a shift and an OR; otherwise it falls
// back to [Writer.WriteManyBits].
func (w *Writer) WriteBits(bits uint32, n uint) error {
	if n <= w.free && w.err == nil {
		w.free -= n
		w.bits |= (bits & lowMask(n)) << w.free
		return nil
	}
	return w.WriteManyBits(bits, n)
}

// WriteManyBits is the slow path of [Writer.WriteBits]. It fills the rest of
// the accumulator from the top of `bits`, flushes it to the sink, and repeats
// with whatever bits remain.
func (w *Writer) WriteManyBits(bits uint32, n uint) error {
	if w.err != nil {
		return w.err
	}
	if n > AccumulatorBits {
		return depthpack.ErrInvalidArgument.WithMessage(
			"can't write more than 32 bits at once")
	}

	bits &= lowMask(n)
	for n > w.free {
		n -= w.free
		// Shifting a uint32 by 32 yields 0, which covers a full accumulator.
		w.bits |= bits >> n
		w.free = 0
		if err := w.emit(AccumulatorBits / 8); err != nil {
			return err
		}
		bits &= lowMask(n)
	}

	w.free -= n
	w.bits |= bits << w.free
	return nil
}

// Flush writes out any pending bits. A trailing partial byte is padded with
// zero bits in its low-order positions, so the stream stays MSB-aligned.
//
// After Flush the Writer starts on a fresh byte boundary.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	used := AccumulatorBits - w.free
	if used == 0 {
		return nil
	}
	return w.emit((used + 7) / 8)
}

// Pending returns the number of bits waiting in the accumulator.
func (w *Writer) Pending() uint {
	return AccumulatorBits - w.free
}

// BytesWritten returns the total number of bytes the sink has accepted since
// the Writer was created.
func (w *Writer) BytesWritten() int64 {
	return w.written
}

// Err returns the sink error that broke the Writer, if any.
func (w *Writer) Err() error {
	return w.err
}

// emit writes the top `numBytes` bytes of the accumulator to the sink and
// empties the accumulator.
func (w *Writer) emit(numBytes uint) error {
	for i := uint(0); i < numBytes; i++ {
		w.scratch[i] = byte(w.bits >> (AccumulatorBits - 8 - 8*i))
	}

	n, err := w.sink.Write(w.scratch[:numBytes])
	w.written += int64(n)
	w.bits = 0
	w.free = AccumulatorBits

	if err == nil && uint(n) < numBytes {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = depthpack.ErrIOFailed.Wrap(err)
		return w.err
	}
	return nil
}

func lowMask(n uint) uint32 {
	return uint32((uint64(1) << n) - 1)
}
