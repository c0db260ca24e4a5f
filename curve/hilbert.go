package curve

// NewHilbert creates a generalized Hilbert curve over a width x height grid.
//
// For power-of-two squares this is the classic Hilbert curve. Other sizes are
// split into sub-rectangles with even side lengths wherever possible, so the
// curve only takes a diagonal step when a side is odd.
func NewHilbert(width, height int) (*Curve, error) {
	c, err := newCurve(Hilbert, width, height)
	if err != nil {
		return nil, err
	}

	g := hilbertGenerator{curve: c}
	if width >= height {
		g.generate(0, 0, width, 0, 0, height)
	} else {
		g.generate(0, 0, 0, height, width, 0)
	}
	return c, nil
}

type hilbertGenerator struct {
	curve *Curve
	next  int
}

func (g *hilbertGenerator) emit(x, y int) {
	g.curve.order[g.next] = uint32(y*g.curve.width + x)
	g.next++
}

// generate fills the rectangle with corner (x, y), major axis (ax, ay) and
// minor axis (bx, by). The curve enters at the corner and leaves next to the
// far end of the major axis.
func (g *hilbertGenerator) generate(x, y, ax, ay, bx, by int) {
	w := abs(ax + ay)
	h := abs(bx + by)
	dax, day := sign(ax), sign(ay)
	dbx, dby := sign(bx), sign(by)

	if h == 1 {
		for i := 0; i < w; i++ {
			g.emit(x, y)
			x += dax
			y += day
		}
		return
	}
	if w == 1 {
		for i := 0; i < h; i++ {
			g.emit(x, y)
			x += dbx
			y += dby
		}
		return
	}

	// Arithmetic shifts round toward negative infinity, which is what the
	// splits need when an axis points in a negative direction.
	ax2, ay2 := ax>>1, ay>>1
	bx2, by2 := bx>>1, by>>1
	w2 := abs(ax2 + ay2)
	h2 := abs(bx2 + by2)

	if 2*w > 3*h {
		if w2%2 != 0 && w > 2 {
			ax2 += dax
			ay2 += day
		}

		// Long rectangle: split along the major axis only.
		g.generate(x, y, ax2, ay2, bx, by)
		g.generate(x+ax2, y+ay2, ax-ax2, ay-ay2, bx, by)
		return
	}

	if h2%2 != 0 && h > 2 {
		bx2 += dbx
		by2 += dby
	}

	// Up the first half of the minor axis, across, and back down.
	g.generate(x, y, bx2, by2, ax2, ay2)
	g.generate(x+bx2, y+by2, ax, ay, bx-bx2, by-by2)
	g.generate(
		x+(ax-dax)+(bx2-dbx),
		y+(ay-day)+(by2-dby),
		-bx2,
		-by2,
		-(ax - ax2),
		-(ay - ay2),
	)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
