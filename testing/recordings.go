package testing

import (
	"bytes"
	"io"
	"testing"

	"github.com/dargueta/depthpack/depthframe"
	"github.com/dargueta/depthpack/recording"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// FrameRate is the rate at which fixtures are timestamped, matching the Kinect
// v1 depth camera.
const FrameRate = 30.0

// CreateRawRecording builds a raw recording of `frames` in memory, timestamped
// at [FrameRate], and returns a stream positioned at its start.
//
//   - Writes to the stream do not affect the frames.
//   - The stream's size is fixed; writing past the end triggers an error.
func CreateRawRecording(t *testing.T, frames []*depthframe.Frame) io.ReadWriteSeeker {
	require.NotEmpty(t, frames, "a recording needs at least one frame")

	buffer := &bytes.Buffer{}
	writer, err := recording.NewRawWriter(buffer, frames[0].Width, frames[0].Height)
	require.NoError(t, err)

	for i, frame := range frames {
		err := writer.WriteFrame(Timestamp(i), frame)
		require.NoErrorf(t, err, "failed to write frame %d of raw recording", i)
	}

	require.Equal(
		t,
		8+len(frames)*(8+2*len(frames[0].Pix)),
		buffer.Len(),
		"raw recording is the wrong size",
	)
	return bytesextra.NewReadWriteSeeker(buffer.Bytes())
}

// Timestamp returns the capture time of the frame at `index` in fixtures.
func Timestamp(index int) float64 {
	return float64(index) / FrameRate
}
