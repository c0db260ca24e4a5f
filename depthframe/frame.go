package depthframe

import (
	"fmt"

	"github.com/dargueta/depthpack"
)

// Frame is an in-memory depth frame stored in row-major order. It implements
// [depthpack.Frame].
type Frame struct {
	Width  int
	Height int
	// Invalid is the sample value marking pixels without a reading.
	Invalid uint16
	// Pix holds Width*Height samples; the sample at (x, y) is Pix[y*Width+x].
	Pix []uint16
}

// NewFrame allocates a frame with every pixel set to `invalid`.
func NewFrame(width, height int, invalid uint16) *Frame {
	frame := &Frame{
		Width:   width,
		Height:  height,
		Invalid: invalid,
		Pix:     make([]uint16, width*height),
	}
	frame.Fill(invalid)
	return frame
}

// Size returns the width and height of the frame.
func (f *Frame) Size() (width, height int) {
	return f.Width, f.Height
}

// At returns the sample at (x, y).
func (f *Frame) At(x, y int) uint16 {
	return f.Pix[y*f.Width+x]
}

// Set changes the sample at (x, y).
func (f *Frame) Set(x, y int, value uint16) {
	f.Pix[y*f.Width+x] = value
}

// InvalidDepth returns the sample value marking pixels without a reading.
func (f *Frame) InvalidDepth() uint16 {
	return f.Invalid
}

// Fill sets every pixel to `value`.
func (f *Frame) Fill(value uint16) {
	for i := range f.Pix {
		f.Pix[i] = value
	}
}

// ValidCount returns the number of pixels that have a reading.
func (f *Frame) ValidCount() int {
	count := 0
	for _, sample := range f.Pix {
		if sample != f.Invalid {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	clone := *f
	clone.Pix = make([]uint16, len(f.Pix))
	copy(clone.Pix, f.Pix)
	return &clone
}

// Equal reports whether two frames have the same dimensions, invalid marker
// and samples.
func (f *Frame) Equal(other *Frame) bool {
	if f.Width != other.Width || f.Height != other.Height || f.Invalid != other.Invalid {
		return false
	}
	if len(f.Pix) != len(other.Pix) {
		return false
	}
	for i, sample := range f.Pix {
		if other.Pix[i] != sample {
			return false
		}
	}
	return true
}

// checkBuffer verifies that Pix holds exactly Width*Height samples.
func (f *Frame) checkBuffer() error {
	if f.Width <= 0 || f.Height <= 0 || len(f.Pix) != f.Width*f.Height {
		return depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"frame of %dx%d has a buffer of %d samples",
				f.Width,
				f.Height,
				len(f.Pix)))
	}
	return nil
}
