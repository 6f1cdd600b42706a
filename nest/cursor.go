package nest

import "image"

// Content is what a Cursor reports for the element enclosing the
// current leaf at some level. For the base level it describes the leaf
// itself.
type Content struct {
	// Text is the element's recognized text.
	Text string
	// Confidence is the recognition confidence in [0, 1].
	Confidence float64
	// Box bounds the element in source pixels, origin at the upper
	// left.
	Box image.Rectangle
}

// Cursor walks a flat stream of leaves carrying boundary annotations
// for every coarser level. A freshly created, non-empty cursor is
// already positioned on the first leaf; Next moves strictly forward.
//
// Implementations report levels they do not know with an error
// satisfying errors.Is(err, ErrUnknownLevel). After Next returns false
// the cursor may refuse further queries.
type Cursor interface {
	// Empty reports a stream with no leaves at all. It is the only
	// method that may be called before the first leaf is inspected.
	Empty() bool

	// Content describes the element containing the current leaf at the
	// given level.
	Content(level Level) (Content, error)

	// AtStartOf reports whether the current leaf is the first leaf of
	// an element at the given level.
	AtStartOf(level Level) (bool, error)

	// AtEndOf reports whether the current leaf lies inside the last
	// child-level element of the enclosing element at the given level.
	AtEndOf(level, child Level) (bool, error)

	// Next advances to the following leaf, returning false once the
	// stream is exhausted.
	Next() bool
}
