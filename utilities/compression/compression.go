package compression

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dargueta/depthpack"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Method identifies a general-purpose byte stream compressor.
type Method uint8

const (
	// None passes bytes through unchanged.
	None Method = iota
	// Gzip is DEFLATE with a gzip header, at the best compression level.
	Gzip
	// Zstd is Zstandard at its default level.
	Zstd
	// RLE8 is BMP-style run-length encoding of individual bytes.
	RLE8
)

var methodNames = [...]string{"none", "gzip", "zstd", "rle8"}

// Methods lists every method in the order of their numeric values.
var Methods = []Method{None, Gzip, Zstd, RLE8}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// IsValid reports whether m is one of the methods in [Methods].
func (m Method) IsValid() bool {
	return int(m) < len(methodNames)
}

// ParseMethod returns the method with the given name. Matching is
// case-insensitive.
func ParseMethod(name string) (Method, error) {
	for i, methodName := range methodNames {
		if strings.EqualFold(name, methodName) {
			return Method(i), nil
		}
	}
	return None, depthpack.ErrNotFound.WithMessage(
		fmt.Sprintf("unknown compression method %q", name))
}

// NewWriter wraps `output` in a compressor. The returned writer must be closed
// to flush everything to `output`; closing it never closes `output` itself.
func NewWriter(output io.Writer, method Method) (io.WriteCloser, error) {
	switch method {
	case None:
		return nopWriteCloser{output}, nil
	case Gzip:
		writer, err := gzip.NewWriterLevel(output, gzip.DefaultCompression)
		if err != nil {
			return nil, err
		}
		return writer, nil
	case Zstd:
		writer, err := zstd.NewWriter(output, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return writer, nil
	case RLE8:
		return newRLE8Writer(output), nil
	default:
		return nil, depthpack.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("no compressor for %s", method))
	}
}

// NewReader wraps `input` in a decompressor for data written by [NewWriter].
// Closing the returned reader releases the decompressor but not `input`.
func NewReader(input io.Reader, method Method) (io.ReadCloser, error) {
	switch method {
	case None:
		return io.NopCloser(input), nil
	case Gzip:
		reader, err := gzip.NewReader(input)
		if err != nil {
			return nil, depthpack.ErrCorruptStream.Wrap(err)
		}
		return reader, nil
	case Zstd:
		reader, err := zstd.NewReader(input, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, depthpack.ErrCorruptStream.Wrap(err)
		}
		return reader.IOReadCloser(), nil
	case RLE8:
		return io.NopCloser(newRLE8Reader(input)), nil
	default:
		return nil, depthpack.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("no decompressor for %s", method))
	}
}

// Compress reads `input` until EOF and writes it compressed to `output`.
//
// The returned int64 gives the number of bytes written to the output stream. If
// an error occurred, the value is undefined and should not be used.
func Compress(input io.Reader, output io.Writer, method Method) (int64, error) {
	counter := &countingWriter{w: output}
	writer, err := NewWriter(counter, method)
	if err != nil {
		return 0, err
	}

	if _, err = io.Copy(writer, input); err != nil {
		writer.Close()
		return counter.n, err
	}
	err = writer.Close()
	return counter.n, err
}

// Decompress reads compressed data from `input` until EOF and writes the
// original bytes to `output`. It returns the number of bytes written.
func Decompress(input io.Reader, output io.Writer, method Method) (int64, error) {
	reader, err := NewReader(input, method)
	if err != nil {
		return 0, err
	}
	defer reader.Close()
	return io.Copy(output, reader)
}

// CompressedSize returns how large `data` becomes when compressed with
// `method`.
func CompressedSize(data []byte, method Method) (int64, error) {
	return Compress(bytes.NewReader(data), io.Discard, method)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
