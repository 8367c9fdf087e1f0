package manip

import "errors"

var (
	// ErrNoLiteral is returned when a gesture has no literal to act on.
	ErrNoLiteral = errors.New("manip: no literal under cursor")

	// ErrWrongKind is returned when a gesture does not apply to the
	// literal's kind, such as a color pick on a number.
	ErrWrongKind = errors.New("manip: gesture does not apply to literal")

	// ErrStaleSession is returned when the tracked span no longer fits the
	// line it was taken from.
	ErrStaleSession = errors.New("manip: literal moved or was deleted")

	// ErrInvalidColor is returned for text that is not a color.
	ErrInvalidColor = errors.New("manip: invalid color")
)
