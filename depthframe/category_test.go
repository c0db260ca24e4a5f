package depthframe

import (
	"math"
	"testing"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/codebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltaClass__Examples(t *testing.T) {
	tests := []struct {
		Delta    int32
		Expected class
	}{
		{0, class{}},
		{1, class{symbol: 1, raw: 0b1, numBits: 1}},
		{-1, class{symbol: 1, raw: 0b0, numBits: 1}},
		{2, class{symbol: 2, raw: 0b10, numBits: 2}},
		{3, class{symbol: 2, raw: 0b11, numBits: 2}},
		{-2, class{symbol: 2, raw: 0b01, numBits: 2}},
		{-3, class{symbol: 2, raw: 0b00, numBits: 2}},
		{7, class{symbol: 3, raw: 0b111, numBits: 3}},
		{-4, class{symbol: 3, raw: 0b011, numBits: 3}},
		{65535, class{symbol: 16, raw: 0xffff, numBits: 16}},
		{-65535, class{symbol: 16, raw: 0, numBits: 16}},
		{math.MaxInt32, class{symbol: 31, raw: math.MaxInt32, numBits: 31}},
		{-math.MaxInt32, class{symbol: 31, raw: 0, numBits: 31}},
	}

	for _, test := range tests {
		c, err := deltaClass(test.Delta)
		require.NoErrorf(t, err, "delta %d", test.Delta)
		assert.Equalf(t, test.Expected, c, "delta %d", test.Delta)
		assert.Equalf(t, test.Delta, deltaFromClass(c.symbol, c.raw), "delta %d", test.Delta)
	}
}

func TestDeltaClass__RoundTripsAllSampleDifferences(t *testing.T) {
	for delta := int32(-math.MaxUint16); delta <= math.MaxUint16; delta++ {
		c, err := deltaClass(delta)
		require.NoError(t, err)
		require.Less(t, c.symbol, 17)
		require.Equal(t, uint(c.symbol), c.numBits)
		require.Zero(t, c.raw>>c.numBits, "raw bits overflow the class")
		require.Equal(t, delta, deltaFromClass(c.symbol, c.raw))
	}
}

func TestDeltaClass__Overflow(t *testing.T) {
	_, err := deltaClass(math.MinInt32)
	assert.ErrorIs(t, err, depthpack.ErrCategoryOverflow)
}

func TestSpanClass__Examples(t *testing.T) {
	tests := []struct {
		Length   uint64
		Expected class
	}{
		{0, class{symbol: 0}},
		{1, class{symbol: 1}},
		{222, class{symbol: 222}},
		{223, class{symbol: 223}},
		{224, class{symbol: 224}},
		{225, class{symbol: 225, raw: 0, numBits: 1}},
		{226, class{symbol: 225, raw: 1, numBits: 1}},
		{227, class{symbol: 226, raw: 0, numBits: 2}},
		{230, class{symbol: 226, raw: 3, numBits: 2}},
		{231, class{symbol: 227, raw: 0, numBits: 3}},
		{640 * 480, class{symbol: 242, raw: 640*480 - 223 - 1<<18, numBits: 18}},
		{MaxSpanLength, class{symbol: 255, raw: math.MaxUint32 >> 1, numBits: 31}},
	}

	for _, test := range tests {
		c, err := spanClass(test.Length)
		require.NoErrorf(t, err, "span %d", test.Length)
		assert.Equalf(t, test.Expected, c, "span %d", test.Length)
		assert.Equalf(t, c.numBits, spanExtraBits(c.symbol), "span %d", test.Length)
		assert.Equalf(t, test.Length, spanFromClass(c.symbol, c.raw), "span %d", test.Length)
	}
}

func TestSpanClass__RoundTripsShortSpans(t *testing.T) {
	for length := uint64(0); length < 1<<16; length++ {
		c, err := spanClass(length)
		require.NoError(t, err)
		require.Less(t, c.symbol, codebook.NumSpanLengthSymbols)
		require.Zero(t, c.raw>>c.numBits, "raw bits overflow the class")
		require.Equal(t, length, spanFromClass(c.symbol, c.raw))
	}
}

func TestSpanClass__Overflow(t *testing.T) {
	_, err := spanClass(MaxSpanLength + 1)
	assert.ErrorIs(t, err, depthpack.ErrCategoryOverflow)
}
