package recording

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/depthpack"
)

// CompressRecording reads a raw recording from `input` and writes it to
// `output` as a compressed recording. The frame size comes from the raw
// recording; `config.Width` and `config.Height` must either match it or be
// zero.
func CompressRecording(input io.Reader, output io.Writer, config Config) ([]FrameStat, error) {
	raw, err := NewRawReader(input, config.InvalidDepth)
	if err != nil {
		return nil, err
	}

	width, height := raw.Size()
	if config.Width == 0 && config.Height == 0 {
		config.Width = width
		config.Height = height
	} else if config.Width != width || config.Height != height {
		return nil, depthpack.ErrSizeMismatch.WithMessage(
			fmt.Sprintf(
				"recording has frames of %dx%d, expected %dx%d",
				width,
				height,
				config.Width,
				config.Height))
	}

	encoder, err := NewEncoder(output, config)
	if err != nil {
		return nil, err
	}

	for {
		timestamp, frame, err := raw.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			encoder.Close()
			return encoder.Stats(), err
		}
		if _, err := encoder.WriteFrame(timestamp, frame); err != nil {
			encoder.Close()
			return encoder.Stats(), err
		}
	}
	return encoder.Stats(), encoder.Close()
}

// DecompressRecording expands a compressed recording from `input` into a raw
// recording on `output` and returns the number of frames written.
func DecompressRecording(input io.Reader, output io.Writer) (int, error) {
	decoder, err := NewDecoder(input)
	if err != nil {
		return 0, err
	}
	defer decoder.Close()

	header := decoder.Header()
	raw, err := NewRawWriter(output, header.Width, header.Height)
	if err != nil {
		return 0, err
	}

	count := 0
	for {
		timestamp, frame, err := decoder.ReadFrame()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if err := raw.WriteFrame(timestamp, frame); err != nil {
			return count, err
		}
		count++
	}
}

// MeasureRecording compresses every frame of a raw recording without keeping
// the output, and returns per-frame statistics including the sizes other
// compressors achieve on the same frames.
func MeasureRecording(input io.Reader, config Config) ([]FrameStat, error) {
	raw, err := NewRawReader(input, config.InvalidDepth)
	if err != nil {
		return nil, err
	}
	config.Width, config.Height = raw.Size()

	encoder, err := NewEncoder(io.Discard, config)
	if err != nil {
		return nil, err
	}
	defer encoder.Close()

	var stats []FrameStat
	for {
		timestamp, frame, err := raw.ReadFrame()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}

		stat, err := encoder.WriteFrame(timestamp, frame)
		if err != nil {
			return stats, err
		}
		if err := stat.MeasureBaselines(frame); err != nil {
			return stats, err
		}
		stats = append(stats, stat)
	}
}
