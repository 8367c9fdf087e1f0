package manip

import (
	"fmt"

	"github.com/dshills/scrawl/internal/scene"
)

// Kind identifies what a literal holds.
type Kind uint8

const (
	Numeric Kind = iota
	Color
	CoordinatePair
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Color:
		return "color"
	case CoordinatePair:
		return "pair"
	default:
		return "unknown"
	}
}

// LiteralMatch is a literal found on a line. Columns are 1-based rune
// columns; EndColumn is exclusive.
type LiteralMatch struct {
	Text        string
	StartColumn int
	EndColumn   int
	Kind        Kind

	// Value and Precision are set for numeric literals.
	Value     float64
	Precision int

	// Point is set for coordinate pairs.
	Point scene.Point

	// Hex is the #rrggbb form of a color literal.
	Hex string

	// Enclosing is the coordinate pair around a numeric literal, if any.
	Enclosing *LiteralMatch
}

func (m *LiteralMatch) String() string {
	if m == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s %q [%d,%d)", m.Kind, m.Text, m.StartColumn, m.EndColumn)
}

// Same reports whether m and o describe the same literal at the same place.
func (m *LiteralMatch) Same(o *LiteralMatch) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Kind == o.Kind &&
		m.Text == o.Text &&
		m.StartColumn == o.StartColumn &&
		m.EndColumn == o.EndColumn &&
		m.Enclosing.Same(o.Enclosing)
}
