package buffer

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange   = errors.New("line out of range")
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Observer is called after every buffer change.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id     uint64
	buffer *Buffer
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.buffer != nil {
		s.buffer.unsubscribe(s.id)
	}
}

// Buffer holds text as a slice of lines plus a single cursor.
// All methods are safe for concurrent use; observers run outside the lock.
type Buffer struct {
	mu       sync.RWMutex
	lines    []string
	cursor   Position
	revision Revision
	tabWidth int

	obsMu     sync.RWMutex
	observers map[uint64]Observer
	nextID    uint64
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:     []string{""},
		cursor:    Position{Line: 1, Column: 1},
		tabWidth:  4,
		observers: make(map[uint64]Observer),
	}

	for _, opt := range opts {
		opt(b)
	}
	b.cursor = b.clampLocked(b.cursor)

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer()
	b.lines = splitLines(s)
	for _, opt := range opts {
		opt(b)
	}
	b.cursor = b.clampLocked(b.cursor)
	return b
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func splitLines(s string) []string {
	return strings.Split(normalizeLineEndings(s), "\n")
}

// Read Operations

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a 1-based line without its newline.
// Out of range lines return the empty string.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 1 || line > len(b.lines) {
		return ""
	}
	return b.lines[line-1]
}

// LineLen returns the length of a line in runes.
func (b *Buffer) LineLen(line int) int {
	return utf8.RuneCountInString(b.LineText(line))
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

// Revision returns the current revision.
func (b *Buffer) Revision() Revision {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// Write Operations

// SetCursor moves the cursor, clamping it to the content. Observers are
// notified only when the position actually changes.
func (b *Buffer) SetCursor(pos Position) {
	b.mu.Lock()
	pos = b.clampLocked(pos)
	if pos == b.cursor {
		b.mu.Unlock()
		return
	}
	b.cursor = pos
	change := Change{Kind: ChangeCursor, Revision: b.revision, Cursor: pos}
	b.mu.Unlock()

	b.notify(change)
}

// MoveCursor moves the cursor by the given line and column deltas.
// Horizontal moves wrap across line boundaries.
func (b *Buffer) MoveCursor(dLine, dCol int) {
	b.mu.RLock()
	pos := b.cursor
	pos.Line += dLine
	if pos.Line >= 1 && pos.Line <= len(b.lines) {
		pos.Column += dCol
		lineLen := utf8.RuneCountInString(b.lines[pos.Line-1])
		switch {
		case pos.Column < 1 && pos.Line > 1 && dCol < 0:
			pos.Line--
			pos.Column = utf8.RuneCountInString(b.lines[pos.Line-1]) + 1
		case pos.Column > lineLen+1 && pos.Line < len(b.lines) && dCol > 0:
			pos.Line++
			pos.Column = 1
		}
	}
	b.mu.RUnlock()

	b.SetCursor(pos)
}

// ReplaceRange replaces columns [startCol, endCol) on a single line.
func (b *Buffer) ReplaceRange(line, startCol, endCol int, text string) (EditResult, error) {
	return b.Replace(NewLineRange(line, startCol, endCol), text)
}

// Insert inserts text at the given position.
func (b *Buffer) Insert(pos Position, text string) (EditResult, error) {
	return b.Replace(Range{Start: pos, End: pos}, text)
}

// Delete removes the text in the given range.
func (b *Buffer) Delete(r Range) (EditResult, error) {
	return b.Replace(r, "")
}

// Replace replaces the text in r with text. The cursor is carried along
// with the edit: positions after the range shift, positions inside it stay
// put unless the replacement became shorter than them.
func (b *Buffer) Replace(r Range, text string) (EditResult, error) {
	b.mu.Lock()

	if err := b.validateRangeLocked(r); err != nil {
		b.mu.Unlock()
		return EditResult{}, err
	}

	text = normalizeLineEndings(text)

	startRunes := []rune(b.lines[r.Start.Line-1])
	endRunes := []rune(b.lines[r.End.Line-1])
	prefix := string(startRunes[:r.Start.Column-1])
	suffix := string(endRunes[r.End.Column-1:])

	oldText := b.textLocked(r)

	parts := strings.Split(text, "\n")
	replacement := make([]string, len(parts))
	copy(replacement, parts)
	replacement[0] = prefix + replacement[0]
	replacement[len(replacement)-1] += suffix

	lines := make([]string, 0, len(b.lines)-(r.End.Line-r.Start.Line)+len(parts)-1)
	lines = append(lines, b.lines[:r.Start.Line-1]...)
	lines = append(lines, replacement...)
	lines = append(lines, b.lines[r.End.Line:]...)
	b.lines = lines

	newEnd := Position{Line: r.Start.Line + len(parts) - 1}
	if len(parts) == 1 {
		newEnd.Column = r.Start.Column + utf8.RuneCountInString(parts[0])
	} else {
		newEnd.Column = utf8.RuneCountInString(parts[len(parts)-1]) + 1
	}

	b.revision++
	result := EditResult{
		OldRange: r,
		NewRange: Range{Start: r.Start, End: newEnd},
		OldText:  oldText,
		NewText:  text,
		Revision: b.revision,
	}

	oldCursor := b.cursor
	b.cursor = b.clampLocked(transformPosition(b.cursor, r, newEnd))

	changes := []Change{{Kind: ChangeText, Revision: b.revision, Edit: &result, Cursor: b.cursor}}
	if b.cursor != oldCursor {
		changes = append(changes, Change{Kind: ChangeCursor, Revision: b.revision, Cursor: b.cursor})
	}
	b.mu.Unlock()

	for _, c := range changes {
		b.notify(c)
	}
	return result, nil
}

// SetText replaces the whole content, keeping the cursor where it is when
// the new text still has room for it.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	b.lines = splitLines(s)
	b.revision++
	oldCursor := b.cursor
	b.cursor = b.clampLocked(b.cursor)

	changes := []Change{{Kind: ChangeText, Revision: b.revision, Cursor: b.cursor}}
	if b.cursor != oldCursor {
		changes = append(changes, Change{Kind: ChangeCursor, Revision: b.revision, Cursor: b.cursor})
	}
	b.mu.Unlock()

	for _, c := range changes {
		b.notify(c)
	}
}

// TextRange returns the text covered by r.
func (b *Buffer) TextRange(r Range) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.validateRangeLocked(r); err != nil {
		return "", err
	}
	return b.textLocked(r), nil
}

func (b *Buffer) textLocked(r Range) string {
	if r.Start.Line == r.End.Line {
		runes := []rune(b.lines[r.Start.Line-1])
		return string(runes[r.Start.Column-1 : r.End.Column-1])
	}
	var sb strings.Builder
	first := []rune(b.lines[r.Start.Line-1])
	sb.WriteString(string(first[r.Start.Column-1:]))
	for l := r.Start.Line + 1; l < r.End.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[l-1])
	}
	sb.WriteByte('\n')
	last := []rune(b.lines[r.End.Line-1])
	sb.WriteString(string(last[:r.End.Column-1]))
	return sb.String()
}

func (b *Buffer) validateRangeLocked(r Range) error {
	for _, p := range []Position{r.Start, r.End} {
		if p.Line < 1 || p.Line > len(b.lines) {
			return ErrLineOutOfRange
		}
		if p.Column < 1 || p.Column > utf8.RuneCountInString(b.lines[p.Line-1])+1 {
			return ErrColumnOutOfRange
		}
	}
	if !r.IsValid() {
		return ErrRangeInvalid
	}
	return nil
}

func (b *Buffer) clampLocked(pos Position) Position {
	if pos.Line < 1 {
		pos.Line = 1
	}
	if pos.Line > len(b.lines) {
		pos.Line = len(b.lines)
	}
	maxCol := utf8.RuneCountInString(b.lines[pos.Line-1]) + 1
	if pos.Column < 1 {
		pos.Column = 1
	}
	if pos.Column > maxCol {
		pos.Column = maxCol
	}
	return pos
}

// transformPosition maps a position through the replacement of old with
// text ending at newEnd.
func transformPosition(pos Position, old Range, newEnd Position) Position {
	if pos.Before(old.Start) {
		return pos
	}
	if !pos.Before(old.End) {
		if pos.Line == old.End.Line {
			return Position{Line: newEnd.Line, Column: newEnd.Column + pos.Column - old.End.Column}
		}
		return Position{Line: pos.Line + newEnd.Line - old.End.Line, Column: pos.Column}
	}
	if pos.After(newEnd) {
		return newEnd
	}
	return pos
}

// Observers

// Subscribe registers an observer for all changes.
func (b *Buffer) Subscribe(observer Observer) *Subscription {
	b.obsMu.Lock()
	defer b.obsMu.Unlock()

	b.nextID++
	b.observers[b.nextID] = observer
	return &Subscription{id: b.nextID, buffer: b}
}

func (b *Buffer) unsubscribe(id uint64) {
	b.obsMu.Lock()
	defer b.obsMu.Unlock()
	delete(b.observers, id)
}

// notify delivers a change to observers in subscription order.
func (b *Buffer) notify(change Change) {
	b.obsMu.RLock()
	ids := make([]uint64, 0, len(b.observers))
	for id := range b.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, 0, len(ids))
	for _, id := range ids {
		observers = append(observers, b.observers[id])
	}
	b.obsMu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}
