package codebook

import "fmt"

const (
	// NumPixelDeltaSymbols is the number of magnitude classes for the
	// difference between two consecutive valid depth samples.
	NumPixelDeltaSymbols = 32
	// NumSpanLengthSymbols is the number of classes for the length of a run of
	// invalid samples.
	NumSpanLengthSymbols = 256
	// DirectSpanLengths is the number of span lengths (0 through 222) that have
	// a class of their own. The remaining classes cover longer spans by bit
	// length.
	DirectSpanLengths = 223
	// DefaultMaxCodeLength bounds the code words of the built-in codebooks.
	DefaultMaxCodeLength = 24
)

// Relative frequencies of pixel delta classes in Kinect depth streams
// traversed along a Hilbert curve. Class k covers deltas with magnitudes in
// [2^(k-1), 2^k). Nearly all deltas are within a few units; the long tail comes
// from object silhouettes. Classes above 16 can't occur with 16-bit samples.
var pixelDeltaWeights = [NumPixelDeltaSymbols]uint64{
	30000, 40000, 25000, 12000, 5000, 2500, 1500, 1000,
	800, 600, 400, 150, 20, 10, 5, 2,
	1,
}

// spanLengthWeights models spans of invalid samples. Zero-length spans sit
// between every pair of consecutive valid samples, so they dominate. Short
// spans (sensor dropouts, shadow edges) fall off quadratically, and the long
// span classes decay geometrically with their bit length.
func spanLengthWeights() []uint64 {
	weights := make([]uint64, NumSpanLengthSymbols)
	weights[0] = 1 << 24
	for length := uint64(1); length < DirectSpanLengths; length++ {
		weights[length] = (1<<22)/(length*length) + 1
	}
	for j := 0; j < NumSpanLengthSymbols-DirectSpanLengths; j++ {
		weights[DirectSpanLengths+j] = (1 << 12) >> (j / 2)
	}
	return weights
}

// PixelDeltas is the built-in codebook for pixel delta classes.
var PixelDeltas = mustBuild("pixel deltas", pixelDeltaWeights[:])

// SpanLengths is the built-in codebook for invalid span classes.
var SpanLengths = mustBuild("span lengths", spanLengthWeights())

func mustBuild(name string, weights []uint64) *Codebook {
	cb, err := FromWeights(name, weights, DefaultMaxCodeLength)
	if err != nil {
		panic(fmt.Errorf("failed to build built-in codebook: %w", err))
	}
	return cb
}
