package buffer

import "fmt"

// Position represents a line and column position.
// Both Line and Column are 1-indexed; Column counts runes.
type Position struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Range is a span of text. Start is inclusive, End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// NewLineRange returns the range [startCol, endCol) on a single line.
func NewLineRange(line, startCol, endCol int) Range {
	return Range{
		Start: Position{Line: line, Column: startCol},
		End:   Position{Line: line, Column: endCol},
	}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if Start does not come after End.
func (r Range) IsValid() bool {
	return !r.Start.After(r.End)
}

// Revision identifies a buffer state. Each modification increments it.
type Revision uint64
