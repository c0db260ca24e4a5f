package recording_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/curve"
	"github.com/dargueta/depthpack/recording"
	depthtest "github.com/dargueta/depthpack/testing"
	"github.com/dargueta/depthpack/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRecording__RoundTrip(t *testing.T) {
	frames := depthtest.FrameSequence(64, 48, depthpack.KinectInvalidDepth, 6, 9)
	rawStream := depthtest.CreateRawRecording(t, frames)
	original, err := io.ReadAll(rawStream)
	require.NoError(t, err)

	compressed := &bytes.Buffer{}
	stats, err := recording.CompressRecording(
		bytes.NewReader(original),
		compressed,
		recording.Config{
			InvalidDepth: depthpack.KinectInvalidDepth,
			Curve:        curve.Hilbert,
			Compression:  compression.Zstd,
		})
	require.NoError(t, err)
	require.Len(t, stats, len(frames))
	assert.Less(t, compressed.Len(), len(original))

	restored := &bytes.Buffer{}
	count, err := recording.DecompressRecording(compressed, restored)
	require.NoError(t, err)
	assert.Equal(t, len(frames), count)
	assert.Equal(t, original, restored.Bytes(), "raw recording didn't survive the round trip")
}

func TestCompressRecording__SizeMismatch(t *testing.T) {
	frames := depthtest.FrameSequence(8, 8, depthpack.KinectInvalidDepth, 1, 9)
	rawStream := depthtest.CreateRawRecording(t, frames)

	output := &bytes.Buffer{}
	_, err := recording.CompressRecording(
		rawStream,
		output,
		recording.Config{Width: 640, Height: 480, InvalidDepth: depthpack.KinectInvalidDepth})
	assert.ErrorIs(t, err, depthpack.ErrSizeMismatch)
	assert.Zero(t, output.Len())
}

func TestMeasureRecording(t *testing.T) {
	frames := depthtest.FrameSequence(40, 30, depthpack.KinectInvalidDepth, 3, 2)
	rawStream := depthtest.CreateRawRecording(t, frames)

	stats, err := recording.MeasureRecording(
		rawStream, recording.Config{InvalidDepth: depthpack.KinectInvalidDepth})
	require.NoError(t, err)
	require.Len(t, stats, len(frames))

	for i, stat := range stats {
		assert.Equal(t, i, stat.Index)
		assert.Equal(t, frames[i].ValidCount(), stat.ValidPixels)
		assert.Positive(t, stat.CompressedBytes)
		assert.Positive(t, stat.GzipBytes)
		assert.Positive(t, stat.ZstdBytes)
		assert.Positive(t, stat.RLE8Bytes)
	}
}
