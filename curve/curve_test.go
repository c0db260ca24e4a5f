package curve_test

import (
	"fmt"
	"testing"

	"github.com/dargueta/depthpack"
	"github.com/dargueta/depthpack/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGridSizes = [][2]int{
	{1, 1}, {1, 2}, {2, 1}, {1, 7}, {7, 1}, {2, 2}, {3, 3}, {5, 3}, {3, 5},
	{8, 8}, {16, 16}, {17, 9}, {9, 17}, {31, 2}, {2, 31}, {40, 30}, {64, 48},
}

func TestAllKindsAreBijections(t *testing.T) {
	for _, kind := range []curve.Kind{curve.Hilbert, curve.Serpentine, curve.RowMajor} {
		for _, size := range testGridSizes {
			t.Run(
				fmt.Sprintf("%s/%dx%d", kind, size[0], size[1]),
				func(t *testing.T) {
					c, err := curve.New(kind, size[0], size[1])
					require.NoError(t, err)
					assert.Equal(t, kind, c.Kind())
					assert.Equal(t, size[0]*size[1], c.Len())
					assert.NoError(t, curve.Validate(c, size[0], size[1]))
				},
			)
		}
	}
}

func TestHilbert__StepsAreAdjacent(t *testing.T) {
	for _, size := range testGridSizes {
		c, err := curve.NewHilbert(size[0], size[1])
		require.NoError(t, err)

		for i := 1; i < c.Len(); i++ {
			x0, y0 := c.Position(i - 1)
			x1, y1 := c.Position(i)
			assert.LessOrEqualf(
				t, abs(x1-x0), 1, "%dx%d: step %d jumps columns", size[0], size[1], i)
			assert.LessOrEqualf(
				t, abs(y1-y0), 1, "%dx%d: step %d jumps rows", size[0], size[1], i)
		}
	}
}

func TestHilbert__PowerOfTwoSquareHasNoDiagonals(t *testing.T) {
	c, err := curve.NewHilbert(16, 16)
	require.NoError(t, err)

	for i := 1; i < c.Len(); i++ {
		x0, y0 := c.Position(i - 1)
		x1, y1 := c.Position(i)
		require.Equalf(t, 1, abs(x1-x0)+abs(y1-y0), "step %d isn't a unit step", i)
	}

	x, y := c.Position(0)
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y}, "curve doesn't start at the origin")
	x, y = c.Position(c.Len() - 1)
	assert.Equal(t, [2]int{15, 0}, [2]int{x, y}, "curve doesn't end at the far corner")
}

func TestHilbert__OddRectangle(t *testing.T) {
	expected := [][2]int{
		{0, 0}, {0, 1}, {0, 2}, {1, 2}, {1, 1}, {1, 0}, {2, 0}, {2, 1},
		{2, 2}, {3, 2}, {4, 2}, {4, 1}, {3, 1}, {3, 0}, {4, 0},
	}

	c, err := curve.NewHilbert(5, 3)
	require.NoError(t, err)
	require.Equal(t, len(expected), c.Len())
	for i, position := range expected {
		x, y := c.Position(i)
		assert.Equalf(t, position, [2]int{x, y}, "position %d is wrong", i)
		assert.Equal(t, position[1]*5+position[0], c.Offset(i))
	}
}

func TestSerpentine__ReversesOddRows(t *testing.T) {
	c, err := curve.NewSerpentine(3, 2)
	require.NoError(t, err)

	var got [][2]int
	for i := 0; i < c.Len(); i++ {
		x, y := c.Position(i)
		got = append(got, [2]int{x, y})
	}
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {1, 1}, {0, 1}}, got)
}

func TestNew__InvalidDimensions(t *testing.T) {
	_, err := curve.NewHilbert(0, 10)
	assert.ErrorIs(t, err, depthpack.ErrInvalidArgument)

	_, err = curve.NewRowMajor(10, -1)
	assert.ErrorIs(t, err, depthpack.ErrInvalidArgument)

	_, err = curve.New(curve.Kind(99), 4, 4)
	assert.ErrorIs(t, err, depthpack.ErrUnsupportedFormat)
}

func TestParseKind(t *testing.T) {
	for _, kind := range []curve.Kind{curve.Hilbert, curve.Serpentine, curve.RowMajor} {
		parsed, err := curve.ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	parsed, err := curve.ParseKind("HILBERT")
	require.NoError(t, err)
	assert.Equal(t, curve.Hilbert, parsed)

	_, err = curve.ParseKind("z-order")
	assert.ErrorIs(t, err, depthpack.ErrNotFound)
}

// listTraversal is a traversal backed by an explicit list of positions.
type listTraversal [][2]int

func (l listTraversal) Len() int { return len(l) }

func (l listTraversal) Position(i int) (int, int) { return l[i][0], l[i][1] }

func TestValidate__Rejects(t *testing.T) {
	tests := []struct {
		Name      string
		Traversal listTraversal
		Expected  error
	}{
		{"too short", listTraversal{{0, 0}, {1, 0}, {0, 1}}, depthpack.ErrSizeMismatch},
		{
			"duplicate",
			listTraversal{{0, 0}, {1, 0}, {0, 1}, {1, 0}},
			depthpack.ErrInvalidArgument,
		},
		{
			"out of bounds",
			listTraversal{{0, 0}, {1, 0}, {0, 1}, {2, 1}},
			depthpack.ErrInvalidArgument,
		},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				err := curve.Validate(test.Traversal, 2, 2)
				assert.ErrorIs(t, err, test.Expected)
			},
		)
	}

	assert.NoError(t, curve.Validate(listTraversal{{1, 1}, {0, 1}, {0, 0}, {1, 0}}, 2, 2))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
