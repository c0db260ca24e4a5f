package testing

import (
	"math"
	"math/rand"

	"github.com/dargueta/depthpack/depthframe"
)

// SmoothFrame builds a frame resembling a real depth image: a tilted plane
// with a few bumps on it, a rectangular hole where the sensor saw nothing, and
// scattered single-pixel dropouts. The same seed always gives the same frame.
func SmoothFrame(width, height int, invalid uint16, seed int64) *depthframe.Frame {
	rng := rand.New(rand.NewSource(seed))
	frame := depthframe.NewFrame(width, height, invalid)

	base := 600 + rng.Float64()*200
	tiltX := rng.Float64()*2 - 1
	tiltY := rng.Float64()*2 - 1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			depth := base +
				tiltX*float64(x) +
				tiltY*float64(y) +
				40*math.Sin(float64(x)/7)*math.Cos(float64(y)/11)
			frame.Set(x, y, clampDepth(depth, invalid))
		}
	}

	// Shadow behind an object.
	holeWidth := width / 4
	holeHeight := height / 3
	if holeWidth > 0 && holeHeight > 0 {
		left := rng.Intn(width - holeWidth + 1)
		top := rng.Intn(height - holeHeight + 1)
		for y := top; y < top+holeHeight; y++ {
			for x := left; x < left+holeWidth; x++ {
				frame.Set(x, y, invalid)
			}
		}
	}

	for i := 0; i < len(frame.Pix)/50; i++ {
		frame.Pix[rng.Intn(len(frame.Pix))] = invalid
	}
	return frame
}

// RandomFrame builds a frame of uniformly random samples. Each pixel is valid
// with probability `validFraction`. This is the worst case for the codec.
func RandomFrame(width, height int, invalid uint16, validFraction float64, seed int64) *depthframe.Frame {
	rng := rand.New(rand.NewSource(seed))
	frame := depthframe.NewFrame(width, height, invalid)

	for i := range frame.Pix {
		if rng.Float64() >= validFraction {
			continue
		}
		sample := uint16(rng.Intn(math.MaxUint16 + 1))
		if sample == invalid {
			sample++
		}
		frame.Pix[i] = sample
	}
	return frame
}

// FrameSequence returns `count` frames of the same scene drifting slowly, the
// way consecutive frames from a stationary sensor do.
func FrameSequence(width, height int, invalid uint16, count int, seed int64) []*depthframe.Frame {
	frames := make([]*depthframe.Frame, count)
	for i := range frames {
		frames[i] = SmoothFrame(width, height, invalid, seed+int64(i))
	}
	return frames
}

func clampDepth(depth float64, invalid uint16) uint16 {
	if depth < 1 {
		depth = 1
	}
	if depth > math.MaxUint16 {
		depth = math.MaxUint16
	}
	sample := uint16(depth)
	if sample == invalid {
		sample--
	}
	return sample
}
