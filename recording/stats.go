package recording

import (
	"encoding/binary"
	"io"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/depthframe"
	"github.com/dargueta/depthpack/utilities/compression"
	"github.com/gocarina/gocsv"
)

// FrameStat describes how well one frame compressed.
type FrameStat struct {
	Index             int     `csv:"frame"`
	Timestamp         float64 `csv:"timestamp"`
	ValidPixels       int     `csv:"valid_pixels"`
	RawBytes          int64   `csv:"raw_bytes"`
	CompressedBytes   int64   `csv:"compressed_bytes"`
	BitsPerValidPixel float64 `csv:"bits_per_valid_pixel"`
	Ratio             float64 `csv:"ratio"`
	// Sizes of the raw frame under general-purpose compressors, for
	// comparison. Only filled in by [FrameStat.MeasureBaselines].
	GzipBytes int64 `csv:"gzip_bytes"`
	ZstdBytes int64 `csv:"zstd_bytes"`
	RLE8Bytes int64 `csv:"rle8_bytes"`
}

func newFrameStat(index int, timestamp float64, frame depthpack.Frame, compressedBytes int64) FrameStat {
	width, height := frame.Size()
	stat := FrameStat{
		Index:           index,
		Timestamp:       timestamp,
		ValidPixels:     countValid(frame),
		RawBytes:        2 * int64(width) * int64(height),
		CompressedBytes: compressedBytes,
	}
	if stat.ValidPixels > 0 {
		stat.BitsPerValidPixel = float64(8*compressedBytes) / float64(stat.ValidPixels)
	}
	if compressedBytes > 0 {
		stat.Ratio = float64(stat.RawBytes) / float64(compressedBytes)
	}
	return stat
}

// MeasureBaselines compresses the frame's raw little-endian samples with each
// general-purpose compressor and records the sizes.
func (s *FrameStat) MeasureBaselines(frame depthpack.Frame) error {
	raw := rawSamples(frame)

	targets := []struct {
		method compression.Method
		size   *int64
	}{
		{compression.Gzip, &s.GzipBytes},
		{compression.Zstd, &s.ZstdBytes},
		{compression.RLE8, &s.RLE8Bytes},
	}
	for _, target := range targets {
		size, err := compression.CompressedSize(raw, target.method)
		if err != nil {
			return err
		}
		*target.size = size
	}
	return nil
}

// StatsSummary aggregates the statistics of a whole recording.
type StatsSummary struct {
	Frames            int
	ValidPixels       int64
	RawBytes          int64
	CompressedBytes   int64
	BitsPerValidPixel float64
	Ratio             float64
}

// Summarize totals per-frame statistics.
func Summarize(stats []FrameStat) StatsSummary {
	summary := StatsSummary{Frames: len(stats)}
	for _, stat := range stats {
		summary.ValidPixels += int64(stat.ValidPixels)
		summary.RawBytes += stat.RawBytes
		summary.CompressedBytes += stat.CompressedBytes
	}
	if summary.ValidPixels > 0 {
		summary.BitsPerValidPixel = float64(8*summary.CompressedBytes) / float64(summary.ValidPixels)
	}
	if summary.CompressedBytes > 0 {
		summary.Ratio = float64(summary.RawBytes) / float64(summary.CompressedBytes)
	}
	return summary
}

// WriteStatsCSV writes one row per frame, with a header row.
func WriteStatsCSV(output io.Writer, stats []FrameStat) error {
	return gocsv.Marshal(&stats, output)
}

// ReadStatsCSV parses the output of [WriteStatsCSV].
func ReadStatsCSV(input io.Reader) ([]FrameStat, error) {
	var stats []FrameStat
	if err := gocsv.Unmarshal(input, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func countValid(frame depthpack.Frame) int {
	if buffered, ok := frame.(*depthframe.Frame); ok {
		return buffered.ValidCount()
	}

	invalid := frame.InvalidDepth()
	width, height := frame.Size()
	count := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if frame.At(x, y) != invalid {
				count++
			}
		}
	}
	return count
}

func rawSamples(frame depthpack.Frame) []byte {
	width, height := frame.Size()
	raw := make([]byte, 0, 2*width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			raw = binary.LittleEndian.AppendUint16(raw, frame.At(x, y))
		}
	}
	return raw
}
