package recording_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/depthframe"
	"github.com/dargueta/depthpack/recording"
	depthtest "github.com/dargueta/depthpack/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRecording__RoundTrip(t *testing.T) {
	frames := depthtest.FrameSequence(40, 30, depthpack.KinectInvalidDepth, 4, 1)
	stream := depthtest.CreateRawRecording(t, frames)

	reader, err := recording.NewRawReader(stream, depthpack.KinectInvalidDepth)
	require.NoError(t, err)

	width, height := reader.Size()
	assert.Equal(t, 40, width)
	assert.Equal(t, 30, height)

	for i, frame := range frames {
		timestamp, decoded, err := reader.ReadFrame()
		require.NoErrorf(t, err, "frame %d", i)
		assert.Equal(t, depthtest.Timestamp(i), timestamp)
		assert.Truef(t, frame.Equal(decoded), "frame %d differs", i)
	}

	_, _, err = reader.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRawRecording__Layout(t *testing.T) {
	frame := depthframe.NewFrame(2, 1, depthpack.KinectInvalidDepth)
	frame.Set(0, 0, 0x1234)

	buffer := &bytes.Buffer{}
	writer, err := recording.NewRawWriter(buffer, 2, 1)
	require.NoError(t, err)
	require.NoError(t, writer.WriteFrame(1.5, frame))

	expected := []byte{
		2, 0, 0, 0, // width
		1, 0, 0, 0, // height
	}
	expected = binary.LittleEndian.AppendUint64(expected, 0x3ff8000000000000) // 1.5
	expected = append(expected, 0x34, 0x12, 0xff, 0x07)
	assert.Equal(t, expected, buffer.Bytes())
}

func TestRawRecording__Truncated(t *testing.T) {
	frames := depthtest.FrameSequence(8, 8, depthpack.KinectInvalidDepth, 2, 5)
	stream := depthtest.CreateRawRecording(t, frames)

	data, err := io.ReadAll(stream)
	require.NoError(t, err)

	reader, err := recording.NewRawReader(bytes.NewReader(data[:len(data)-3]), depthpack.KinectInvalidDepth)
	require.NoError(t, err)

	_, _, err = reader.ReadFrame()
	require.NoError(t, err)
	_, _, err = reader.ReadFrame()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRawRecording__BadHeader(t *testing.T) {
	tests := []struct {
		Name string
		Data []byte
	}{
		{"truncated", []byte{1, 0, 0}},
		{"zero width", []byte{0, 0, 0, 0, 4, 0, 0, 0}},
		{"huge frames", []byte{0, 0, 1, 0, 0, 0, 1, 0}},
		{"one huge row", []byte{0, 0, 0, 0x10, 1, 0, 0, 0}},
		{"one huge column", []byte{1, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				_, err := recording.NewRawReader(bytes.NewReader(test.Data), 0)
				assert.ErrorIs(t, err, depthpack.ErrCorruptStream)
			},
		)
	}
}

func TestNewRawWriter__FrameTooLarge(t *testing.T) {
	buffer := &bytes.Buffer{}
	_, err := recording.NewRawWriter(buffer, 8192, 8192)
	assert.ErrorIs(t, err, depthpack.ErrInvalidArgument)
	assert.Zero(t, buffer.Len())
}

func TestRawWriter__SizeMismatch(t *testing.T) {
	buffer := &bytes.Buffer{}
	writer, err := recording.NewRawWriter(buffer, 4, 4)
	require.NoError(t, err)

	err = writer.WriteFrame(0, depthframe.NewFrame(4, 3, 0))
	assert.ErrorIs(t, err, depthpack.ErrSizeMismatch)
	assert.Equal(t, 8, buffer.Len(), "only the header should've been written")
}
