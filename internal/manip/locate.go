package manip

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/scrawl/internal/scene"
)

var (
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	decimalPattern = regexp.MustCompile(`^[+-]?\d*\.(\d*)$`)
	pairPattern    = regexp.MustCompile(`^\s*([-+.\d]+)\s*,\s*([-+.\d]+)\s*$`)
)

// pairDelimiters are the brackets a coordinate pair may sit in.
var pairDelimiters = [][2]rune{{'[', ']'}, {'(', ')'}, {'{', '}'}}

// Locate returns the literal under the caret at column (1-based), or nil.
//
// A quoted color wins over a number, and a number wins over a coordinate
// pair. A number inside a pair carries the pair in Enclosing.
func Locate(line string, column int) *LiteralMatch {
	runes := []rune(line)
	caret, ok := caretIndex(runes, column)
	if !ok {
		return nil
	}

	if m := locateColor(runes, caret); m != nil {
		return m
	}
	pair := locatePair(runes, caret)
	if m := locateNumber(runes, caret); m != nil {
		m.Enclosing = pair
		return m
	}
	return pair
}

// LocateColor returns the quoted color literal under the caret, or nil.
func LocateColor(line string, column int) *LiteralMatch {
	runes := []rune(line)
	caret, ok := caretIndex(runes, column)
	if !ok {
		return nil
	}
	return locateColor(runes, caret)
}

// LocateNumber returns the numeric literal under the caret, or nil.
func LocateNumber(line string, column int) *LiteralMatch {
	runes := []rune(line)
	caret, ok := caretIndex(runes, column)
	if !ok {
		return nil
	}
	return locateNumber(runes, caret)
}

// LocatePair returns the innermost coordinate pair around the caret, or nil.
func LocatePair(line string, column int) *LiteralMatch {
	runes := []rune(line)
	caret, ok := caretIndex(runes, column)
	if !ok {
		return nil
	}
	return locatePair(runes, caret)
}

// caretIndex converts a column into the rune index the caret sits before.
// The caret may sit after the last rune.
func caretIndex(runes []rune, column int) (int, bool) {
	caret := column - 1
	if caret < 0 || caret > len(runes) {
		return 0, false
	}
	return caret, true
}

// delimited finds the nearest open rune left of the caret and the nearest
// close rune at or right of it. It returns the rune range between them.
func delimited(runes []rune, caret int, open, close rune) (start, end int, ok bool) {
	start = -1
	for i := caret - 1; i >= 0; i-- {
		if runes[i] == open {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	for i := caret; i < len(runes); i++ {
		if runes[i] == close {
			return start, i, true
		}
	}
	return 0, 0, false
}

func locateColor(runes []rune, caret int) *LiteralMatch {
	for _, q := range []rune{'"', '\''} {
		start, end, ok := delimited(runes, caret, q, q)
		if !ok {
			continue
		}
		text := string(runes[start:end])
		hex, ok := scene.NormalizeColor(text)
		if !ok {
			continue
		}
		return &LiteralMatch{
			Text:        text,
			StartColumn: start + 1,
			EndColumn:   end + 1,
			Kind:        Color,
			Hex:         hex,
		}
	}
	return nil
}

func isNumberRune(r rune) bool {
	return r == '+' || r == '-' || r == '.' || (r >= '0' && r <= '9')
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func endsOperand(r rune) bool {
	return isIdentRune(r) || r == ')' || r == ']'
}

func locateNumber(runes []rune, caret int) *LiteralMatch {
	start := caret
	for start > 0 && isNumberRune(runes[start-1]) {
		start--
	}
	end := caret
	for end < len(runes) && isNumberRune(runes[end]) {
		end++
	}
	// A sign right after an operand is a binary operator, not part of the
	// number.
	if start > 0 && end-start > 1 && (runes[start] == '-' || runes[start] == '+') && endsOperand(runes[start-1]) {
		start++
	}
	if start == end || start > caret {
		return nil
	}
	// Digits glued to a name are part of the identifier.
	if start > 0 && isIdentRune(runes[start-1]) {
		return nil
	}

	text := string(runes[start:end])
	m := &LiteralMatch{
		Text:        text,
		StartColumn: start + 1,
		EndColumn:   end + 1,
		Kind:        Numeric,
	}

	switch {
	case integerPattern.MatchString(text):
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil
		}
		m.Value = v
	case decimalPattern.MatchString(text):
		if !strings.ContainsAny(text, "0123456789") {
			return nil
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil
		}
		frac := decimalPattern.FindStringSubmatch(text)[1]
		m.Value = v
		m.Precision = max(1, len(frac))
	default:
		return nil
	}
	return m
}

func locatePair(runes []rune, caret int) *LiteralMatch {
	var best *LiteralMatch
	for _, d := range pairDelimiters {
		start, end, ok := delimited(runes, caret, d[0], d[1])
		if !ok {
			continue
		}
		text := string(runes[start:end])
		sub := pairPattern.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		x, errX := strconv.ParseFloat(sub[1], 64)
		y, errY := strconv.ParseFloat(sub[2], 64)
		if errX != nil || errY != nil {
			continue
		}
		if best != nil && end-start >= best.EndColumn-best.StartColumn {
			continue
		}
		best = &LiteralMatch{
			Text:        text,
			StartColumn: start + 1,
			EndColumn:   end + 1,
			Kind:        CoordinatePair,
			Point:       scene.Pt(x, y),
		}
	}
	return best
}
