package buffer

import "fmt"

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%s, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// EditResult contains information about an applied edit.
type EditResult struct {
	OldRange Range    // The original range that was modified
	NewRange Range    // The range now covered by the replacement text
	OldText  string   // The text that was replaced
	NewText  string   // The text that was inserted
	Revision Revision // Revision after the edit
}

// ChangeKind categorizes a buffer notification.
type ChangeKind uint8

const (
	ChangeText   ChangeKind = iota // Buffer content changed
	ChangeCursor                   // Cursor position changed
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeText:
		return "text"
	case ChangeCursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// Change is delivered to observers after the buffer was modified or the
// cursor moved.
type Change struct {
	Kind     ChangeKind
	Revision Revision
	Edit     *EditResult // nil for cursor changes and full reloads
	Cursor   Position    // Cursor position after the change
}
