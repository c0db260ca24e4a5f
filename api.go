package depthpack

// KinectInvalidDepth is the sample value a first-generation Kinect reports for
// pixels without a depth reading (or pixels removed by filtering).
const KinectInvalidDepth = 0x07ff

// Frame is the interface for a single depth frame handed to a compressor.
//
// Frames are borrowed for the duration of a single write call and must not
// change while they're being compressed.
type Frame interface {
	// Size returns the width and height of the frame, in pixels.
	Size() (width, height int)
	// At returns the depth sample at the given position. Positions are
	// guaranteed to be in bounds.
	At(x, y int) uint16
	// InvalidDepth returns the sample value marking a pixel with no reading.
	InvalidDepth() uint16
}

// Traversal is the interface for a fixed visiting order over a width x height
// grid.
//
// Implementations must be a bijection onto the grid: every position appears
// exactly once among Position(0) ... Position(Len()-1). Use curve.Validate to
// check a custom implementation.
type Traversal interface {
	// Len returns the number of positions in the traversal, which must equal
	// width * height of the grid it was built for.
	Len() int
	// Position returns the coordinates of the i-th position visited, where
	// 0 <= i < Len().
	Position(i int) (x, y int)
}
