package depthframe

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/codebook"
)

// MaxSpanLength is the longest run of invalid samples the span classes can
// describe.
const MaxSpanLength = codebook.DirectSpanLengths + math.MaxUint32

// A class is a codebook symbol plus the raw bits that pick one value out of
// the range of values the symbol covers.
type class struct {
	symbol  int
	raw     uint32
	numBits uint
}

// deltaClass maps the difference between two samples to its magnitude class.
//
// Class 0 is a delta of 0 and has no raw bits. Class k covers deltas whose
// magnitude needs exactly k bits, and carries k raw bits: the delta itself if
// it's positive, or delta + 2^k - 1 if it's negative. Negative deltas thus
// always have a 0 in the top raw bit and positive ones a 1.
func deltaClass(delta int32) (class, error) {
	if delta == 0 {
		return class{}, nil
	}

	magnitude := uint32(delta)
	if delta < 0 {
		magnitude = uint32(-int64(delta))
	}
	k := uint(bits.Len32(magnitude))
	if k >= codebook.NumPixelDeltaSymbols {
		return class{}, depthpack.ErrCategoryOverflow.WithMessage(
			fmt.Sprintf("pixel delta %d needs %d bits", delta, k))
	}

	raw := uint32(delta)
	if delta < 0 {
		raw = uint32(int64(delta) + (int64(1) << k) - 1)
	}
	return class{symbol: int(k), raw: raw, numBits: k}, nil
}

// deltaFromClass inverts [deltaClass].
func deltaFromClass(symbol int, raw uint32) int32 {
	if symbol == 0 {
		return 0
	}
	k := uint(symbol)
	if raw>>(k-1) != 0 {
		return int32(raw)
	}
	return int32(int64(raw) - (int64(1) << k) + 1)
}

// spanClass maps the length of a run of invalid samples to its class.
//
// Lengths below [codebook.DirectSpanLengths] are their own class. For longer
// runs, let x = length - DirectSpanLengths and j be the bit length of x. The
// class is DirectSpanLengths + j, followed by the j-1 bits of x below its
// leading 1 bit.
func spanClass(length uint64) (class, error) {
	if length < codebook.DirectSpanLengths {
		return class{symbol: int(length)}, nil
	}
	if length > MaxSpanLength {
		return class{}, depthpack.ErrCategoryOverflow.WithMessage(
			fmt.Sprintf("span of %d invalid samples is longer than %d", length, uint64(MaxSpanLength)))
	}

	x := uint32(length - codebook.DirectSpanLengths)
	j := uint(bits.Len32(x))
	if j == 0 {
		return class{symbol: codebook.DirectSpanLengths}, nil
	}
	return class{
		symbol:  codebook.DirectSpanLengths + int(j),
		raw:     x &^ (uint32(1) << (j - 1)),
		numBits: j - 1,
	}, nil
}

// spanExtraBits returns how many raw bits follow the span class `symbol`.
func spanExtraBits(symbol int) uint {
	if symbol <= codebook.DirectSpanLengths {
		return 0
	}
	return uint(symbol-codebook.DirectSpanLengths) - 1
}

// spanFromClass inverts [spanClass].
func spanFromClass(symbol int, raw uint32) uint64 {
	if symbol <= codebook.DirectSpanLengths {
		return uint64(symbol)
	}
	j := uint(symbol - codebook.DirectSpanLengths)
	x := uint64(1)<<(j-1) | uint64(raw)
	return codebook.DirectSpanLengths + x
}
