package manip

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/scene"
)

// TextBuffer is the part of the host buffer the patcher needs.
type TextBuffer interface {
	LineText(line int) string
	Cursor() buffer.Position
	ReplaceRange(line, startCol, endCol int, text string) (buffer.EditResult, error)
}

// GestureSession tracks one literal through a continuous gesture. Its
// columns follow the literal as replacements change its length.
type GestureSession struct {
	Line        int
	Kind        Kind
	StartColumn int
	EndColumn   int

	// Text is what the span holds, as found or as last written.
	Text string

	// Value is the unrounded numeric value; Precision is fixed for the
	// whole gesture.
	Value     float64
	Precision int

	// Point is the current coordinate pair value.
	Point scene.Point

	// Color is the current color text.
	Color string

	// Pointer is the last pointer position seen by a handle drag.
	Pointer scene.Point
}

// NewGestureSession starts a session for m on line.
func NewGestureSession(line int, m *LiteralMatch) *GestureSession {
	s := &GestureSession{
		Line:        line,
		Kind:        m.Kind,
		StartColumn: m.StartColumn,
		EndColumn:   m.EndColumn,
		Text:        m.Text,
	}
	switch m.Kind {
	case Numeric:
		s.Value = m.Value
		s.Precision = m.Precision
	case CoordinatePair:
		s.Point = m.Point
	case Color:
		s.Color = m.Text
	}
	return s
}

// Patcher rewrites literals in place.
type Patcher struct {
	buf TextBuffer
}

// NewPatcher creates a patcher editing buf.
func NewPatcher(buf TextBuffer) *Patcher {
	return &Patcher{buf: buf}
}

// ApplyLiteralEdit adds delta steps of 10^-precision to a numeric literal
// and returns the literal's new end column.
func (p *Patcher) ApplyLiteralEdit(s *GestureSession, delta float64) (int, error) {
	if s.Kind != Numeric {
		return s.EndColumn, ErrWrongKind
	}
	s.Value += delta * math.Pow(10, -float64(s.Precision))
	return p.replace(s, FormatNumber(s.Value, s.Precision))
}

// MovePoint translates a coordinate pair by d and returns its new end column.
func (p *Patcher) MovePoint(s *GestureSession, d scene.Point) (int, error) {
	return p.SetPoint(s, s.Point.Add(d))
}

// SetPoint rewrites a coordinate pair as "x, y" with whole numbers.
func (p *Patcher) SetPoint(s *GestureSession, pt scene.Point) (int, error) {
	if s.Kind != CoordinatePair {
		return s.EndColumn, ErrWrongKind
	}
	s.Point = pt
	return p.replace(s, FormatPair(pt))
}

// ReplaceColor rewrites a color literal with text, which must be a color.
func (p *Patcher) ReplaceColor(s *GestureSession, text string) (int, error) {
	if s.Kind != Color {
		return s.EndColumn, ErrWrongKind
	}
	if !scene.IsColor(text) {
		return s.EndColumn, fmt.Errorf("%w: %q", ErrInvalidColor, text)
	}
	s.Color = text
	return p.replace(s, text)
}

// replace swaps the session's span for text and moves the end column.
func (p *Patcher) replace(s *GestureSession, text string) (int, error) {
	line := p.buf.LineText(s.Line)
	if s.StartColumn < 1 || s.EndColumn > utf8.RuneCountInString(line)+1 {
		return s.EndColumn, ErrStaleSession
	}
	if _, err := p.buf.ReplaceRange(s.Line, s.StartColumn, s.EndColumn, text); err != nil {
		return s.EndColumn, fmt.Errorf("manip: replace literal: %w", err)
	}
	s.EndColumn = s.StartColumn + utf8.RuneCountInString(text)
	s.Text = text
	return s.EndColumn, nil
}

// FormatNumber formats v with exactly precision fractional digits. A value
// that rounds to zero is written without a sign.
func FormatNumber(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		s = s[1:]
	}
	return s
}

// FormatPair formats a coordinate pair with whole-number components.
func FormatPair(pt scene.Point) string {
	return FormatNumber(pt.X, 0) + ", " + FormatNumber(pt.Y, 0)
}

// RotateHue returns color with its hue turned by deg degrees, as #rrggbb.
func RotateHue(color string, deg float64) (string, error) {
	c, _, ok := scene.ParseColor(color)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	h, s, l := c.Hsl()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsl(h, s, l).Clamped().Hex(), nil
}
