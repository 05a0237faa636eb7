package drawq

import "errors"

// Sentinel errors returned by Canvas operations. Validation errors are
// detected synchronously and never mutate queue or registry state.
var (
	// ErrNoBackend is returned by New when no Backend is supplied.
	ErrNoBackend = errors.New("drawq: no backend")

	// ErrNoFontProvider is returned by New when no FontProvider is supplied.
	ErrNoFontProvider = errors.New("drawq: no font provider")

	// ErrNoDefaultFont is returned by New when Options names no default
	// font. One default font is mandatory: text jobs capture it at
	// enqueue time.
	ErrNoDefaultFont = errors.New("drawq: no default font")

	// ErrEmptyText is returned when a text draw is requested for "".
	ErrEmptyText = errors.New("drawq: empty text")

	// ErrInvalidHandle is returned for a handle that does not name a live
	// registry entry.
	ErrInvalidHandle = errors.New("drawq: invalid handle")

	// ErrUnknownFont is returned when selecting a font by a name that is
	// not loaded.
	ErrUnknownFont = errors.New("drawq: unknown font")

	// ErrSpriteOutOfRange is returned when a sprite column or row lies
	// outside the spritesheet grid.
	ErrSpriteOutOfRange = errors.New("drawq: sprite cell out of range")

	// ErrInvalidGrid is returned when a spritesheet is requested with a
	// non-positive column, row, or cell dimension.
	ErrInvalidGrid = errors.New("drawq: invalid spritesheet grid")

	// ErrNoFrames is returned when a sequence is added with fewer than
	// one frame.
	ErrNoFrames = errors.New("drawq: sequence needs at least 1 frame")

	// ErrEmptyName is returned when a sequence is added with an empty
	// name.
	ErrEmptyName = errors.New("drawq: empty sequence name")

	// ErrZeroFramePeriod is returned when a sequence is instantiated with
	// a frame period of zero.
	ErrZeroFramePeriod = errors.New("drawq: zero frame period")

	// ErrUnknownSequence is returned when instantiating a sequence name
	// that was never added to the animation.
	ErrUnknownSequence = errors.New("drawq: unknown sequence")

	// ErrTooFewPoints is returned when a polygon is requested with fewer
	// than three vertices.
	ErrTooFewPoints = errors.New("drawq: polygon needs at least 3 points")
)

// UnknownJobError is returned by Update when the drain loop encounters a
// job kind it cannot dispatch. It indicates a Job implementation outside
// this package.
type UnknownJobError struct {
	Kind JobType
}

func (e *UnknownJobError) Error() string {
	return "drawq: unknown job kind " + e.Kind.String()
}
