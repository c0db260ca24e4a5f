// Package curve generates visiting orders over rectangular pixel grids.
//
// The depth codec predicts each sample from the previous valid one, so the
// order pixels are visited in matters: the closer consecutive positions are in
// the image, the smaller the deltas. The default is a generalized Hilbert
// curve, which works on grids of any size, not just powers of two.
package curve

import (
	"fmt"
	"strings"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/depthpack"
)

// Kind identifies a traversal algorithm. Its numeric value is stored in
// compressed recordings, so existing values must not change.
type Kind uint8

const (
	Hilbert Kind = iota
	Serpentine
	RowMajor
)

var kindNames = map[Kind]string{
	Hilbert:    "hilbert",
	Serpentine: "serpentine",
	RowMajor:   "row-major",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if ok {
		return name
	}
	return fmt.Sprintf("curve(%d)", uint8(k))
}

// ParseKind converts the name of a traversal, as returned by [Kind.String],
// back into a Kind.
func ParseKind(name string) (Kind, error) {
	for kind, kindName := range kindNames {
		if strings.EqualFold(name, kindName) {
			return kind, nil
		}
	}
	return 0, depthpack.ErrNotFound.WithMessage(
		fmt.Sprintf("unknown traversal %q", name))
}

// Curve is a precomputed traversal of a width x height grid. It implements
// [depthpack.Traversal].
type Curve struct {
	kind   Kind
	width  int
	height int
	// order holds the row-major offset (y*width + x) of each position.
	order []uint32
}

// New creates a traversal of the given kind.
func New(kind Kind, width, height int) (*Curve, error) {
	switch kind {
	case Hilbert:
		return NewHilbert(width, height)
	case Serpentine:
		return NewSerpentine(width, height)
	case RowMajor:
		return NewRowMajor(width, height)
	default:
		return nil, depthpack.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("no traversal for %s", kind))
	}
}

// NewRowMajor creates the plain scanline traversal: left to right, top to
// bottom.
func NewRowMajor(width, height int) (*Curve, error) {
	c, err := newCurve(RowMajor, width, height)
	if err != nil {
		return nil, err
	}
	for i := range c.order {
		c.order[i] = uint32(i)
	}
	return c, nil
}

// NewSerpentine creates a scanline traversal that reverses direction on every
// other row, so consecutive positions are always adjacent.
func NewSerpentine(width, height int) (*Curve, error) {
	c, err := newCurve(Serpentine, width, height)
	if err != nil {
		return nil, err
	}

	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			column := x
			if y&1 == 1 {
				column = width - 1 - x
			}
			c.order[i] = uint32(y*width + column)
			i++
		}
	}
	return c, nil
}

func newCurve(kind Kind, width, height int) (*Curve, error) {
	if width <= 0 || height <= 0 {
		return nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("grid dimensions must be positive, got %dx%d", width, height))
	}
	if uint64(width)*uint64(height) > 1<<32 {
		return nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("grid of %dx%d is too large", width, height))
	}
	return &Curve{
		kind:   kind,
		width:  width,
		height: height,
		order:  make([]uint32, width*height),
	}, nil
}

// Kind returns the algorithm that generated the traversal.
func (c *Curve) Kind() Kind {
	return c.kind
}

// Size returns the dimensions of the grid the traversal covers.
func (c *Curve) Size() (width, height int) {
	return c.width, c.height
}

// Len returns the number of positions in the traversal.
func (c *Curve) Len() int {
	return len(c.order)
}

// Position returns the coordinates of the i-th position visited.
func (c *Curve) Position(i int) (x, y int) {
	offset := int(c.order[i])
	return offset % c.width, offset / c.width
}

// Offset returns the row-major offset of the i-th position visited.
func (c *Curve) Offset(i int) int {
	return int(c.order[i])
}

// Validate checks that `t` visits every position of a width x height grid
// exactly once. It returns nil if it does.
func Validate(t depthpack.Traversal, width, height int) error {
	if width <= 0 || height <= 0 {
		return depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("grid dimensions must be positive, got %dx%d", width, height))
	}

	total := width * height
	if t.Len() != total {
		return depthpack.ErrSizeMismatch.WithMessage(
			fmt.Sprintf(
				"traversal has %d positions, grid of %dx%d has %d",
				t.Len(),
				width,
				height,
				total))
	}

	visited := bitmap.New(total)
	for i := 0; i < total; i++ {
		x, y := t.Position(i)
		if x < 0 || x >= width || y < 0 || y >= height {
			return depthpack.ErrInvalidArgument.WithMessage(
				fmt.Sprintf(
					"position %d is (%d, %d), outside of %dx%d grid",
					i,
					x,
					y,
					width,
					height))
		}

		offset := y*width + x
		if visited.Get(offset) {
			return depthpack.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("position %d revisits (%d, %d)", i, x, y))
		}
		visited.Set(offset, true)
	}
	return nil
}
