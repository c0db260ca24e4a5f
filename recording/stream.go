package recording

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"
	"log"
	"math"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/curve"
	"github.com/dargueta/depthpack/depthframe"
	"github.com/dargueta/depthpack/utilities/compression"
	"github.com/dchest/siphash"
	"github.com/google/uuid"
)

// Magic is the first four bytes of every compressed recording.
var Magic = [4]byte{'D', 'P', 'T', 'H'}

// FormatVersion is the version of the container layout written by [Encoder].
const FormatVersion = 1

// containerHeader is the fixed-size header at the start of a compressed
// recording. It's never compressed.
type containerHeader struct {
	Magic       [4]byte
	Version     uint8
	Compression uint8
	Curve       uint8
	_           uint8
	StreamID    [16]byte
	Width       uint32
	Height      uint32
	Invalid     uint16
	_           uint16
}

// recordHeader precedes the bitstream of every frame.
type recordHeader struct {
	Timestamp float64
	Length    uint32
	Checksum  uint64
}

// Header describes a compressed recording.
type Header struct {
	Version      uint8
	Width        int
	Height       int
	InvalidDepth uint16
	Curve        curve.Kind
	Compression  compression.Method
	// StreamID identifies the recording. It also keys the payload checksums,
	// so records can't be spliced between recordings unnoticed.
	StreamID uuid.UUID
}

// Config controls how an [Encoder] writes a recording.
type Config struct {
	Width        int
	Height       int
	InvalidDepth uint16
	Curve        curve.Kind
	// Compression is applied to the frame records as a whole, after each frame
	// has been compressed by the depth codec.
	Compression compression.Method
	// StreamID is generated at random if left zero.
	StreamID uuid.UUID
	// Logger, if not nil, receives one line per frame written.
	Logger *log.Logger
}

// Encoder writes compressed depth recordings.
type Encoder struct {
	header  Header
	output  io.WriteCloser
	frames  *depthframe.Writer
	payload bytes.Buffer
	digest  hash.Hash64
	logger  *log.Logger
	stats   []FrameStat
	err     error
}

// NewEncoder writes the recording header to `output` and returns an Encoder for
// the frames. Call [Encoder.Close] when done; it flushes the outer compressor
// but leaves `output` open.
func NewEncoder(output io.Writer, config Config) (*Encoder, error) {
	if !validFrameSize(int64(config.Width), int64(config.Height)) {
		return nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("can't record frames of %dx%d", config.Width, config.Height))
	}

	traversal, err := curve.New(config.Curve, config.Width, config.Height)
	if err != nil {
		return nil, err
	}

	streamID := config.StreamID
	if streamID == uuid.Nil {
		streamID = uuid.New()
	}

	e := &Encoder{
		header: Header{
			Version:      FormatVersion,
			Width:        config.Width,
			Height:       config.Height,
			InvalidDepth: config.InvalidDepth,
			Curve:        config.Curve,
			Compression:  config.Compression,
			StreamID:     streamID,
		},
		logger: config.Logger,
	}
	e.digest = siphash.New(streamID[:])

	e.frames, err = depthframe.NewWriter(
		&e.payload, config.Width, config.Height, depthframe.WithTraversal(traversal))
	if err != nil {
		return nil, err
	}

	if !config.Compression.IsValid() {
		return nil, depthpack.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("no compressor for %s", config.Compression))
	}

	rawHeader := containerHeader{
		Magic:       Magic,
		Version:     FormatVersion,
		Compression: uint8(config.Compression),
		Curve:       uint8(config.Curve),
		StreamID:    streamID,
		Width:       uint32(config.Width),
		Height:      uint32(config.Height),
		Invalid:     config.InvalidDepth,
	}
	if err := binary.Write(output, binary.LittleEndian, &rawHeader); err != nil {
		return nil, depthpack.ErrIOFailed.Wrap(err)
	}

	e.output, err = compression.NewWriter(output, config.Compression)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Header returns the header written at the start of the recording.
func (e *Encoder) Header() Header {
	return e.header
}

// WriteFrame compresses `frame` and appends it as a record with the given
// capture time in seconds.
func (e *Encoder) WriteFrame(timestamp float64, frame depthpack.Frame) (FrameStat, error) {
	if e.err != nil {
		return FrameStat{}, e.err
	}

	e.payload.Reset()
	size, err := e.frames.WriteFrame(frame)
	if err != nil {
		return FrameStat{}, err
	}

	record := recordHeader{
		Timestamp: timestamp,
		Length:    uint32(size),
		Checksum:  recordChecksum(e.digest, timestamp, e.payload.Bytes()),
	}
	if err := binary.Write(e.output, binary.LittleEndian, &record); err != nil {
		e.err = depthpack.ErrIOFailed.Wrap(err)
		return FrameStat{}, e.err
	}
	if _, err := e.output.Write(e.payload.Bytes()); err != nil {
		e.err = depthpack.ErrIOFailed.Wrap(err)
		return FrameStat{}, e.err
	}

	stat := newFrameStat(len(e.stats), timestamp, frame, size)
	e.stats = append(e.stats, stat)
	if e.logger != nil {
		e.logger.Printf(
			"frame %d at %.3fs: %d valid pixels, %d -> %d bytes (%.2f bits/valid pixel)",
			stat.Index,
			stat.Timestamp,
			stat.ValidPixels,
			stat.RawBytes,
			stat.CompressedBytes,
			stat.BitsPerValidPixel)
	}
	return stat, nil
}

// Stats returns statistics for every frame written so far.
func (e *Encoder) Stats() []FrameStat {
	stats := make([]FrameStat, len(e.stats))
	copy(stats, e.stats)
	return stats
}

// Close flushes the outer compressor. It doesn't close the output.
func (e *Encoder) Close() error {
	if err := e.output.Close(); err != nil {
		return depthpack.ErrIOFailed.Wrap(err)
	}
	return e.err
}

// Decoder reads compressed depth recordings.
type Decoder struct {
	header  Header
	input   io.ReadCloser
	frames  *depthframe.Reader
	payload bytes.Reader
	buffer  []byte
	digest  hash.Hash64
	index   int
}

// NewDecoder reads the recording header from `input` and prepares to decode
// its frames.
func NewDecoder(input io.Reader) (*Decoder, error) {
	var rawHeader containerHeader
	if err := binary.Read(input, binary.LittleEndian, &rawHeader); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, depthpack.ErrUnsupportedFormat.WithMessage("too short to be a depth recording")
		}
		return nil, depthpack.ErrIOFailed.Wrap(err)
	}
	if rawHeader.Magic != Magic {
		return nil, depthpack.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("bad magic number %q", rawHeader.Magic[:]))
	}
	if rawHeader.Version != FormatVersion {
		return nil, depthpack.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("container version %d isn't supported", rawHeader.Version))
	}

	if !validFrameSize(int64(rawHeader.Width), int64(rawHeader.Height)) {
		return nil, depthpack.ErrCorruptStream.WithMessage(
			fmt.Sprintf("recording has frames of %dx%d", rawHeader.Width, rawHeader.Height))
	}

	header := Header{
		Version:      rawHeader.Version,
		Width:        int(rawHeader.Width),
		Height:       int(rawHeader.Height),
		InvalidDepth: rawHeader.Invalid,
		Curve:        curve.Kind(rawHeader.Curve),
		Compression:  compression.Method(rawHeader.Compression),
		StreamID:     uuid.UUID(rawHeader.StreamID),
	}

	traversal, err := curve.New(header.Curve, header.Width, header.Height)
	if err != nil {
		return nil, err
	}

	d := &Decoder{header: header}
	d.digest = siphash.New(header.StreamID[:])
	d.frames, err = depthframe.NewReader(
		&d.payload,
		header.Width,
		header.Height,
		header.InvalidDepth,
		depthframe.WithTraversal(traversal))
	if err != nil {
		return nil, err
	}

	d.input, err = compression.NewReader(input, header.Compression)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Header returns the recording's header.
func (d *Decoder) Header() Header {
	return d.header
}

// ReadFrame returns the next frame and its timestamp, or [io.EOF] after the
// last frame.
func (d *Decoder) ReadFrame() (float64, *depthframe.Frame, error) {
	var record recordHeader
	if err := binary.Read(d.input, binary.LittleEndian, &record); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil, io.EOF
		}
		return 0, nil, d.corrupt(err)
	}

	if uint64(record.Length) > maxPayloadSize(d.header.Width, d.header.Height) {
		return 0, nil, depthpack.ErrCorruptStream.WithMessage(
			fmt.Sprintf("frame %d claims a payload of %d bytes", d.index, record.Length))
	}
	if cap(d.buffer) < int(record.Length) {
		d.buffer = make([]byte, record.Length)
	}
	payload := d.buffer[:record.Length]
	if _, err := io.ReadFull(d.input, payload); err != nil {
		return 0, nil, d.corrupt(err)
	}

	if recordChecksum(d.digest, record.Timestamp, payload) != record.Checksum {
		return 0, nil, depthpack.ErrCorruptStream.WithMessage(
			fmt.Sprintf("checksum mismatch in frame %d", d.index))
	}

	d.payload.Reset(payload)
	frame := depthframe.NewFrame(d.header.Width, d.header.Height, d.header.InvalidDepth)
	if err := d.frames.ReadFrameInto(frame); err != nil {
		return 0, nil, d.corrupt(err)
	}
	if d.payload.Len() != 0 {
		return 0, nil, depthpack.ErrCorruptStream.WithMessage(
			fmt.Sprintf("frame %d has %d bytes of trailing garbage", d.index, d.payload.Len()))
	}

	d.index++
	return record.Timestamp, frame, nil
}

// Close releases the decompressor. It doesn't close the input.
func (d *Decoder) Close() error {
	return d.input.Close()
}

// corrupt reports an error hit partway through frame record.
func (d *Decoder) corrupt(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return depthpack.ErrCorruptStream.Wrap(
			fmt.Errorf("frame %d is truncated: %w", d.index, io.ErrUnexpectedEOF))
	}
	var codecErr depthpack.CodecError
	if errors.As(err, &codecErr) {
		return err
	}
	return depthpack.ErrIOFailed.Wrap(err)
}

// recordChecksum hashes a record's timestamp followed by its payload. The
// digest is keyed by the stream ID.
func recordChecksum(digest hash.Hash64, timestamp float64, payload []byte) uint64 {
	var encodedTimestamp [8]byte
	binary.LittleEndian.PutUint64(encodedTimestamp[:], math.Float64bits(timestamp))

	digest.Reset()
	digest.Write(encodedTimestamp[:])
	digest.Write(payload)
	return digest.Sum64()
}

// maxPayloadSize bounds the bitstream of one frame: at worst every sample
// costs a span code word, a delta code word and 16 raw bits, each code word
// being at most 32 bits, plus the closing span.
func maxPayloadSize(width, height int) uint64 {
	pixels := uint64(width) * uint64(height)
	return (pixels*(32+32+16) + 32 + 32 + 7) / 8
}
