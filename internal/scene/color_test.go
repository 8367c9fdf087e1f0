package scene

import (
	"math"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in    string
		hex   string
		alpha float64
		ok    bool
	}{
		{"#f00", "#ff0000", 1, true},
		{"#FF000080", "#ff0000", 128.0 / 255, true},
		{"#0f08", "#00ff00", 8.0 / 15, true},
		{"#00ff00", "#00ff00", 1, true},
		{"red", "#ff0000", 1, true},
		{" CornflowerBlue ", "#6495ed", 1, true},
		{"transparent", "#000000", 0, true},
		{"rgb(0, 0, 255)", "#0000ff", 1, true},
		{"rgba(255 0 0 / 50%)", "#ff0000", 0.5, true},
		{"rgb(100%, 0%, 0%)", "#ff0000", 1, true},
		{"hsl(120, 100%, 50%)", "#00ff00", 1, true},
		{"hsla(240deg 100% 50% / 0.25)", "#0000ff", 0.25, true},
		{"hsl(-120, 100%, 50%)", "#0000ff", 1, true},
		{"", "", 0, false},
		{"#ff", "", 0, false},
		{"#gggggg", "", 0, false},
		{"rgb(1, 2)", "", 0, false},
		{"rgb 1 2 3", "", 0, false},
		{"notacolor", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, alpha, ok := ParseColor(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if got := c.Clamped().Hex(); got != tt.hex {
				t.Errorf("hex %s, want %s", got, tt.hex)
			}
			if math.Abs(alpha-tt.alpha) > 1e-9 {
				t.Errorf("alpha %v, want %v", alpha, tt.alpha)
			}
		})
	}
}

func TestNormalizeColor(t *testing.T) {
	if got, ok := NormalizeColor("Red"); !ok || got != "#ff0000" {
		t.Errorf("NormalizeColor(Red) = %q, %v", got, ok)
	}
	if _, ok := NormalizeColor("hello"); ok {
		t.Error("expected failure for non-color")
	}
	if !IsColor("#abc") || IsColor("abc") {
		t.Error("IsColor mismatch")
	}
}
