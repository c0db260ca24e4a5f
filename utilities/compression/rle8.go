package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/depthpack"
)

// maxRLE8Run is the longest run a single RLE8 group can hold: the byte twice,
// then up to 255 more.
const maxRLE8Run = 257

// rle8Writer run-length encodes bytes as they're written. A run is held back
// until a different byte arrives or the writer is closed, so Close must be
// called to emit the last one.
type rle8Writer struct {
	output    io.Writer
	lastByte  byte
	runLength int
	err       error
}

func newRLE8Writer(output io.Writer) *rle8Writer {
	return &rle8Writer{output: output}
}

func (w *rle8Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}

	for i, b := range p {
		if w.runLength > 0 && (b != w.lastByte || w.runLength == maxRLE8Run) {
			if err := w.flushRun(); err != nil {
				return i, err
			}
		}
		w.lastByte = b
		w.runLength++
	}
	return len(p), nil
}

// Close writes out the pending run. It doesn't close the underlying writer.
func (w *rle8Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	return w.flushRun()
}

func (w *rle8Writer) flushRun() error {
	var group []byte
	switch w.runLength {
	case 0:
		return nil
	case 1:
		group = []byte{w.lastByte}
	default:
		group = []byte{w.lastByte, w.lastByte, byte(w.runLength - 2)}
	}
	w.runLength = 0

	if _, err := w.output.Write(group); err != nil {
		w.err = err
		return err
	}
	return nil
}

// rle8Reader expands RLE8 data. Two identical bytes in a row are followed by a
// count of additional repetitions.
type rle8Reader struct {
	source       *bufio.Reader
	lastByteRead int
	repeatByte   byte
	pending      int
}

func newRLE8Reader(input io.Reader) *rle8Reader {
	return &rle8Reader{source: bufio.NewReader(input), lastByteRead: -1}
}

func (r *rle8Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		// Copy out repetitions we've expanded but not returned yet.
		if r.pending > 0 {
			count := r.pending
			if count > len(p)-n {
				count = len(p) - n
			}
			copy(p[n:n+count], bytes.Repeat([]byte{r.repeatByte}, count))
			n += count
			r.pending -= count
			continue
		}

		currentByte, err := r.source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if n > 0 {
					return n, nil
				}
				return 0, io.EOF
			}
			return n, depthpack.ErrIOFailed.Wrap(err)
		}

		if int(currentByte) != r.lastByteRead {
			r.lastByteRead = int(currentByte)
			p[n] = currentByte
			n++
			continue
		}

		// Got two bytes in a row that are the same. The next byte is a repeat
		// count. We already returned the first byte of the pair.
		repeatCount, err := r.source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, depthpack.ErrCorruptStream.Wrap(
					fmt.Errorf(
						"%w: missing repeat count after two %02x bytes",
						io.ErrUnexpectedEOF,
						currentByte))
			}
			return n, depthpack.ErrIOFailed.Wrap(err)
		}
		r.repeatByte = currentByte
		r.pending = int(repeatCount) + 1

		// Reset the last byte read since we're done with this group. If we
		// didn't do this, runs of 258+ bytes would be decompressed
		// incorrectly, adding in extra bytes.
		r.lastByteRead = -1
	}
	return n, nil
}

// CompressRLE8 reads bytes from the input and writes compressed data to the
// output until the input is exhausted. The return value is the number of bytes
// written, only valid if no error occurred.
func CompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	return Compress(input, output, RLE8)
}

// DecompressRLE8 expands RLE8 data from the input and returns the number of
// bytes written to the output.
func DecompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	return Decompress(input, output, RLE8)
}
