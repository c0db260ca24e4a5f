package recording

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/depthframe"
)

// Raw recordings are what the capture tools write to disk: the frame size as
// two little-endian uint32s, followed by each frame as a little-endian float64
// timestamp and width*height little-endian uint16 samples in row-major order.
// There's no frame count; the file simply ends after the last frame.

// MaxFramePixels is the largest frame a recording may hold. Readers reject
// headers claiming more before allocating anything for them.
const MaxFramePixels = 1 << 24

// validFrameSize reports whether frames of `width` x `height` pixels fit in a
// recording.
func validFrameSize(width, height int64) bool {
	return width > 0 && height > 0 && width <= MaxFramePixels && width*height <= MaxFramePixels
}

type rawFileHeader struct {
	Width  uint32
	Height uint32
}

// RawWriter writes uncompressed depth recordings.
type RawWriter struct {
	output io.Writer
	width  int
	height int
	buffer []byte
}

// NewRawWriter writes the file header for frames of `width` x `height` pixels
// to `output`.
func NewRawWriter(output io.Writer, width, height int) (*RawWriter, error) {
	if !validFrameSize(int64(width), int64(height)) {
		return nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("can't record frames of %dx%d", width, height))
	}

	header := rawFileHeader{Width: uint32(width), Height: uint32(height)}
	if err := binary.Write(output, binary.LittleEndian, &header); err != nil {
		return nil, depthpack.ErrIOFailed.Wrap(err)
	}

	return &RawWriter{
		output: output,
		width:  width,
		height: height,
		buffer: make([]byte, 8+2*width*height),
	}, nil
}

// WriteFrame appends one frame with its capture time in seconds.
func (w *RawWriter) WriteFrame(timestamp float64, frame depthpack.Frame) error {
	frameWidth, frameHeight := frame.Size()
	if frameWidth != w.width || frameHeight != w.height {
		return depthpack.ErrSizeMismatch.WithMessage(
			fmt.Sprintf(
				"got a %dx%d frame, expected %dx%d",
				frameWidth,
				frameHeight,
				w.width,
				w.height))
	}

	binary.LittleEndian.PutUint64(w.buffer, math.Float64bits(timestamp))
	samples := w.buffer[8:]
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			binary.LittleEndian.PutUint16(samples, frame.At(x, y))
			samples = samples[2:]
		}
	}

	if _, err := w.output.Write(w.buffer); err != nil {
		return depthpack.ErrIOFailed.Wrap(err)
	}
	return nil
}

// RawReader reads uncompressed depth recordings.
type RawReader struct {
	input   io.Reader
	width   int
	height  int
	invalid uint16
	buffer  []byte
}

// NewRawReader reads the file header from `input`. Raw recordings don't store
// the invalid depth marker, so the caller supplies it; it's attached to every
// frame returned.
func NewRawReader(input io.Reader, invalid uint16) (*RawReader, error) {
	var header rawFileHeader
	if err := binary.Read(input, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, depthpack.ErrCorruptStream.WithMessage("raw recording is missing its header")
		}
		return nil, depthpack.ErrIOFailed.Wrap(err)
	}
	if !validFrameSize(int64(header.Width), int64(header.Height)) {
		return nil, depthpack.ErrCorruptStream.WithMessage(
			fmt.Sprintf("raw recording has frames of %dx%d", header.Width, header.Height))
	}

	width := int(header.Width)
	height := int(header.Height)
	return &RawReader{
		input:   input,
		width:   width,
		height:  height,
		invalid: invalid,
		buffer:  make([]byte, 8+2*width*height),
	}, nil
}

// Size returns the dimensions of the frames in the recording.
func (r *RawReader) Size() (width, height int) {
	return r.width, r.height
}

// ReadFrame returns the next frame and its timestamp, or [io.EOF] once the
// recording ends. A recording that ends partway through a frame gives
// [io.ErrUnexpectedEOF].
func (r *RawReader) ReadFrame() (float64, *depthframe.Frame, error) {
	_, err := io.ReadFull(r.input, r.buffer)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, nil, err
		}
		return 0, nil, depthpack.ErrIOFailed.Wrap(err)
	}

	timestamp := math.Float64frombits(binary.LittleEndian.Uint64(r.buffer))
	frame := depthframe.NewFrame(r.width, r.height, r.invalid)
	samples := r.buffer[8:]
	for i := range frame.Pix {
		frame.Pix[i] = binary.LittleEndian.Uint16(samples[2*i:])
	}
	return timestamp, frame, nil
}
