package bitio

import (
	"bufio"
	"errors"
	"io"

	"github.com/dargueta/depthpack"
)

// Reader is the counterpart of [Writer]: it returns bits most significant
// first from a byte stream.
type Reader struct {
	src     io.ByteReader
	current byte
	left    uint
	read    int64
}

// NewReader creates a Reader over `src`. If `src` doesn't implement
// [io.ByteReader] it's wrapped in a [bufio.Reader], and the Reader may consume
// more bytes from `src` than it returns bits for.
func NewReader(src io.Reader) *Reader {
	byteReader, ok := src.(io.ByteReader)
	if !ok {
		byteReader = bufio.NewReader(src)
	}
	return &Reader{src: byteReader}
}

// ReadBit returns the next bit as 0 or 1.
func (r *Reader) ReadBit() (uint, error) {
	if r.left == 0 {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	r.left--
	return uint(r.current>>r.left) & 1, nil
}

// ReadBits returns the next `n` bits (at most 32) as the low-order bits of an
// integer, the first bit read being the most significant.
func (r *Reader) ReadBits(n uint) (uint32, error) {
	if n > AccumulatorBits {
		return 0, depthpack.ErrInvalidArgument.WithMessage(
			"can't read more than 32 bits at once")
	}

	var result uint32
	for n > 0 {
		if r.left == 0 {
			if err := r.fill(); err != nil {
				return 0, err
			}
		}

		// Take as many bits as we can from the current byte.
		take := r.left
		if take > n {
			take = n
		}
		r.left -= take
		chunk := uint32(r.current>>r.left) & lowMask(take)
		result = (result << take) | chunk
		n -= take
	}
	return result, nil
}

// Align discards the rest of the current byte, i.e. the padding a [Writer]
// adds when it's flushed.
func (r *Reader) Align() {
	r.left = 0
}

// BytesRead returns the number of bytes consumed from the source so far.
func (r *Reader) BytesRead() int64 {
	return r.read
}

func (r *Reader) fill() error {
	b, err := r.src.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return depthpack.ErrIOFailed.Wrap(err)
	}
	r.current = b
	r.left = 8
	r.read++
	return nil
}
