package scene

import (
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS color: #rgb, #rgba, #rrggbb, #rrggbbaa, a CSS
// color name, transparent, rgb(), rgba(), hsl() or hsla(). The returned
// alpha is in [0, 1].
func ParseColor(s string) (c colorful.Color, alpha float64, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return colorful.Color{}, 0, false
	}

	switch {
	case s == "transparent":
		return colorful.Color{}, 0, true
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseFunc(s, "rgb", rgbFromArgs)
	case strings.HasPrefix(s, "hsl"):
		return parseFunc(s, "hsl", hslFromArgs)
	}

	if rgba, found := colornames.Map[s]; found {
		c, _ := colorful.MakeColor(rgba)
		return c, 1, true
	}
	return colorful.Color{}, 0, false
}

// IsColor reports whether s is a color ParseColor accepts.
func IsColor(s string) bool {
	_, _, ok := ParseColor(s)
	return ok
}

// NormalizeColor returns s as #rrggbb. Alpha is dropped.
func NormalizeColor(s string) (string, bool) {
	c, _, ok := ParseColor(s)
	if !ok {
		return "", false
	}
	return c.Clamped().Hex(), true
}

func parseHex(s string) (colorful.Color, float64, bool) {
	alpha := 1.0
	switch len(s) {
	case 5: // #rgba
		a, err := strconv.ParseUint(s[4:5], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		alpha = float64(a) / 15
		s = s[:4]
	case 9: // #rrggbbaa
		a, err := strconv.ParseUint(s[7:9], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, 0, false
	}
	return c, alpha, true
}

type argsFunc func(args []string) (colorful.Color, float64, bool)

// parseFunc parses name(...) and name a(...) notation with comma or space
// separated arguments.
func parseFunc(s, name string, fn argsFunc) (colorful.Color, float64, bool) {
	rest := strings.TrimPrefix(s, name)
	rest = strings.TrimPrefix(rest, "a")
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return colorful.Color{}, 0, false
	}
	inner := rest[1 : len(rest)-1]
	inner = strings.ReplaceAll(inner, "/", " ")
	inner = strings.ReplaceAll(inner, ",", " ")
	args := strings.Fields(inner)
	if len(args) != 3 && len(args) != 4 {
		return colorful.Color{}, 0, false
	}
	return fn(args)
}

// component parses a number or percentage. Percentages map onto scale.
func component(s string, scale float64) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return v / 100 * scale, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func alphaArg(args []string) (float64, bool) {
	if len(args) < 4 {
		return 1, true
	}
	a, ok := component(args[3], 1)
	if !ok {
		return 0, false
	}
	return clamp(a, 0, 1), true
}

func rgbFromArgs(args []string) (colorful.Color, float64, bool) {
	var v [3]float64
	for i := 0; i < 3; i++ {
		n, ok := component(args[i], 255)
		if !ok {
			return colorful.Color{}, 0, false
		}
		v[i] = clamp(n, 0, 255) / 255
	}
	a, ok := alphaArg(args)
	if !ok {
		return colorful.Color{}, 0, false
	}
	return colorful.Color{R: v[0], G: v[1], B: v[2]}, a, true
}

func hslFromArgs(args []string) (colorful.Color, float64, bool) {
	h, ok := component(strings.TrimSuffix(args[0], "deg"), 360)
	if !ok {
		return colorful.Color{}, 0, false
	}
	sat, ok1 := component(args[1], 1)
	light, ok2 := component(args[2], 1)
	if !ok1 || !ok2 {
		return colorful.Color{}, 0, false
	}
	a, ok := alphaArg(args)
	if !ok {
		return colorful.Color{}, 0, false
	}
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	return colorful.Hsl(h, clamp(sat, 0, 1), clamp(light, 0, 1)), a, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
