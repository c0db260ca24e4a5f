package recording_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/depthframe"
	"github.com/dargueta/depthpack/recording"
	depthtest "github.com/dargueta/depthpack/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCSV__RoundTrip(t *testing.T) {
	stats := []recording.FrameStat{
		{Index: 0, Timestamp: 0, ValidPixels: 100, RawBytes: 400, CompressedBytes: 50, BitsPerValidPixel: 4, Ratio: 8},
		{Index: 1, Timestamp: 0.5, ValidPixels: 0, RawBytes: 400, CompressedBytes: 1, Ratio: 400, GzipBytes: 30},
	}

	buffer := &bytes.Buffer{}
	require.NoError(t, recording.WriteStatsCSV(buffer, stats))

	header, _, found := strings.Cut(buffer.String(), "\n")
	require.True(t, found)
	assert.Equal(
		t,
		"frame,timestamp,valid_pixels,raw_bytes,compressed_bytes,bits_per_valid_pixel,ratio,gzip_bytes,zstd_bytes,rle8_bytes",
		strings.TrimSpace(header))

	parsed, err := recording.ReadStatsCSV(buffer)
	require.NoError(t, err)
	assert.Equal(t, stats, parsed)
}

func TestSummarize(t *testing.T) {
	stats := []recording.FrameStat{
		{ValidPixels: 100, RawBytes: 400, CompressedBytes: 50},
		{ValidPixels: 60, RawBytes: 400, CompressedBytes: 30},
	}

	summary := recording.Summarize(stats)
	assert.Equal(t, 2, summary.Frames)
	assert.EqualValues(t, 160, summary.ValidPixels)
	assert.EqualValues(t, 800, summary.RawBytes)
	assert.EqualValues(t, 80, summary.CompressedBytes)
	assert.InDelta(t, 4.0, summary.BitsPerValidPixel, 1e-9)
	assert.InDelta(t, 10.0, summary.Ratio, 1e-9)

	empty := recording.Summarize(nil)
	assert.Zero(t, empty.Ratio)
	assert.Zero(t, empty.BitsPerValidPixel)
}

func TestMeasureBaselines(t *testing.T) {
	frame := depthtest.SmoothFrame(64, 48, depthpack.KinectInvalidDepth, 2)

	var stat recording.FrameStat
	require.NoError(t, stat.MeasureBaselines(frame))

	rawSize := int64(2 * len(frame.Pix))
	assert.Positive(t, stat.GzipBytes)
	assert.Less(t, stat.GzipBytes, rawSize)
	assert.Positive(t, stat.ZstdBytes)
	assert.Less(t, stat.ZstdBytes, rawSize)
	assert.Positive(t, stat.RLE8Bytes)
}

func TestMeasureBaselines__EmptyFrame(t *testing.T) {
	frame := depthframe.NewFrame(128, 128, depthpack.KinectInvalidDepth)

	var stat recording.FrameStat
	require.NoError(t, stat.MeasureBaselines(frame))

	rawSize := int64(2 * len(frame.Pix))
	assert.Less(t, stat.GzipBytes, rawSize/50, "gzip barely compressed a constant frame")
	assert.Less(t, stat.ZstdBytes, rawSize/50, "zstd barely compressed a constant frame")
}
