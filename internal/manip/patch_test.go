package manip

import (
	"errors"
	"math"
	"testing"

	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/scene"
)

func sessionAt(t *testing.T, b *buffer.Buffer, line, column int) *GestureSession {
	t.Helper()
	m := Locate(b.LineText(line), column)
	if m == nil {
		t.Fatalf("no literal at %d:%d in %q", line, column, b.LineText(line))
	}
	return NewGestureSession(line, m)
}

func TestApplyLiteralEditScenario(t *testing.T) {
	b := buffer.NewBufferFromString("const r = 5")
	s := sessionAt(t, b, 1, 11)

	end, err := NewPatcher(b).ApplyLiteralEdit(s, 3)
	if err != nil {
		t.Fatalf("ApplyLiteralEdit: %v", err)
	}
	if got := b.LineText(1); got != "const r = 8" {
		t.Errorf("unexpected line %q", got)
	}
	if end != 12 {
		t.Errorf("expected end column 12, got %d", end)
	}
}

func TestApplyLiteralEditTracksEndColumn(t *testing.T) {
	b := buffer.NewBufferFromString("r = 8 + x")
	p := NewPatcher(b)
	s := sessionAt(t, b, 1, 5)

	steps := []struct {
		delta float64
		line  string
		end   int
	}{
		{1, "r = 9 + x", 6},
		{1, "r = 10 + x", 7},
		{95, "r = 105 + x", 8},
		{-100, "r = 5 + x", 6},
		{-20, "r = -15 + x", 8},
	}
	for i, st := range steps {
		end, err := p.ApplyLiteralEdit(s, st.delta)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got := b.LineText(1); got != st.line {
			t.Errorf("step %d: line %q, want %q", i, got, st.line)
		}
		if end != st.end {
			t.Errorf("step %d: end %d, want %d", i, end, st.end)
		}
	}
}

func TestApplyLiteralEditRoundTrip(t *testing.T) {
	lines := []struct {
		line   string
		column int
	}{
		{"w = 2.25", 6},
		{"w = 5.0", 6},
		{"w = -0.5", 7},
		{"n = 120", 6},
		{"f(.75)", 4},
	}
	deltas := []float64{1, -3, 17, 0.5, -42}

	for _, l := range lines {
		b := buffer.NewBufferFromString(l.line)
		p := NewPatcher(b)
		s := sessionAt(t, b, 1, l.column)
		want := s.Value
		for _, d := range deltas {
			end, err := p.ApplyLiteralEdit(s, d)
			if err != nil {
				t.Fatalf("%q: %v", l.line, err)
			}
			want += d * math.Pow(10, -float64(s.Precision))

			m := Locate(b.LineText(1), s.StartColumn)
			if m == nil || m.Kind != Numeric {
				t.Fatalf("%q: relocate failed on %q", l.line, b.LineText(1))
			}
			if m.EndColumn != end {
				t.Errorf("%q: relocated end %d, returned %d", l.line, m.EndColumn, end)
			}
			if math.Abs(m.Value-want) > math.Pow(10, -float64(s.Precision)) {
				t.Errorf("%q: value %v, want about %v", l.line, m.Value, want)
			}
		}
	}
}

func TestApplyLiteralEditZeroDelta(t *testing.T) {
	const line = "local w = 2.50 * k"
	b := buffer.NewBufferFromString(line)
	before := Locate(line, 12)
	s := NewGestureSession(1, before)

	if _, err := NewPatcher(b).ApplyLiteralEdit(s, 0); err != nil {
		t.Fatalf("ApplyLiteralEdit: %v", err)
	}
	if got := b.LineText(1); got != line {
		t.Errorf("text changed: %q", got)
	}
	after := Locate(b.LineText(1), 12)
	if !before.Same(after) {
		t.Errorf("bounds changed: %v -> %v", before, after)
	}
}

func TestApplyLiteralEditWrongKind(t *testing.T) {
	b := buffer.NewBufferFromString(`c = "red"`)
	s := sessionAt(t, b, 1, 7)
	if _, err := NewPatcher(b).ApplyLiteralEdit(s, 1); !errors.Is(err, ErrWrongKind) {
		t.Errorf("expected ErrWrongKind, got %v", err)
	}
}

func TestApplyLiteralEditStale(t *testing.T) {
	b := buffer.NewBufferFromString("r = 12345")
	s := sessionAt(t, b, 1, 6)
	b.SetText("r")
	if _, err := NewPatcher(b).ApplyLiteralEdit(s, 1); !errors.Is(err, ErrStaleSession) {
		t.Errorf("expected ErrStaleSession, got %v", err)
	}
}

func TestReplaceColor(t *testing.T) {
	const line = `path.strokeColor = "red"`
	b := buffer.NewBufferFromString(line)
	s := sessionAt(t, b, 1, 22)
	p := NewPatcher(b)

	end, err := p.ReplaceColor(s, "#00ff00")
	if err != nil {
		t.Fatalf("ReplaceColor: %v", err)
	}
	if got := b.LineText(1); got != `path.strokeColor = "#00ff00"` {
		t.Errorf("unexpected line %q", got)
	}
	if end != 28 {
		t.Errorf("expected end 28, got %d", end)
	}

	if _, err := p.ReplaceColor(s, "not a color"); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
	if got := b.LineText(1); got != `path.strokeColor = "#00ff00"` {
		t.Errorf("invalid color changed text: %q", got)
	}
}

func TestMovePoint(t *testing.T) {
	b := buffer.NewBufferFromString("local p = Point(10.25, 20)")
	m := LocatePair(b.LineText(1), 20)
	if m == nil {
		t.Fatal("expected pair")
	}
	s := NewGestureSession(1, m)
	p := NewPatcher(b)

	if _, err := p.MovePoint(s, scene.Pt(4, -30)); err != nil {
		t.Fatalf("MovePoint: %v", err)
	}
	if got := b.LineText(1); got != "local p = Point(14, -10)" {
		t.Errorf("unexpected line %q", got)
	}
	if s.EndColumn != 24 {
		t.Errorf("expected end 24, got %d", s.EndColumn)
	}
	if _, err := p.MovePoint(s, scene.Pt(100, 0)); err != nil {
		t.Fatalf("MovePoint: %v", err)
	}
	if got := b.LineText(1); got != "local p = Point(114, -10)" {
		t.Errorf("unexpected line %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v    float64
		p    int
		want string
	}{
		{8, 0, "8"},
		{2.5, 2, "2.50"},
		{-0.001, 2, "0.00"},
		{-0.4, 0, "0"},
		{-1.26, 1, "-1.3"},
		{3.14159, -1, "3"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.v, tt.p); got != tt.want {
			t.Errorf("FormatNumber(%v, %d) = %q, want %q", tt.v, tt.p, got, tt.want)
		}
	}
}

func TestRotateHue(t *testing.T) {
	got, err := RotateHue("red", 120)
	if err != nil {
		t.Fatalf("RotateHue: %v", err)
	}
	if got != "#00ff00" {
		t.Errorf("expected #00ff00, got %s", got)
	}
	got, err = RotateHue("#00ff00", -240)
	if err != nil {
		t.Fatalf("RotateHue: %v", err)
	}
	if got != "#0000ff" {
		t.Errorf("expected #0000ff, got %s", got)
	}
	if _, err := RotateHue("nope", 10); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
}
