package key

import (
	"strings"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character without Ctrl, Alt or
// Meta held.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// String returns the canonical specification, such as "Ctrl+S" or "Enter".
// Parse accepts everything String produces.
func (e Event) String() string {
	mods := e.Modifiers
	var name string
	switch {
	case e.IsRune() && e.Rune == ' ':
		name = "Space"
	case e.IsRune():
		// Shift is part of the character.
		mods = mods.Without(ModShift)
		name = string(e.Rune)
		if mods.HasCtrl() || mods.HasAlt() || mods.HasMeta() {
			name = strings.ToUpper(name)
		}
	default:
		name = e.Key.String()
	}
	if prefix := mods.String(); prefix != "" {
		return prefix + "+" + name
	}
	return name
}

// normalized folds the forms one physical key press can take.
func (e Event) normalized() Event {
	if e.Key != KeyRune {
		return e
	}
	e.Modifiers = e.Modifiers.Without(ModShift)
	if e.Modifiers.HasCtrl() || e.Modifiers.HasAlt() || e.Modifiers.HasMeta() {
		e.Rune = unicode.ToLower(e.Rune)
	}
	return e
}

// Equals reports whether two events are the same key press. For characters
// Shift is carried by the rune itself and is ignored.
func (e Event) Equals(other Event) bool {
	return e.normalized() == other.normalized()
}

// Matches checks if this event matches a key specification string.
func (e Event) Matches(spec string) bool {
	parsed, err := Parse(spec)
	if err != nil {
		return false
	}
	return e.Equals(parsed)
}
