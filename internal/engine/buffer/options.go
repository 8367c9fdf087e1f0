package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithTabWidth sets the buffer's tab width.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithCursor sets the initial cursor position. It is clamped to the content.
func WithCursor(pos Position) Option {
	return func(b *Buffer) {
		b.cursor = pos
	}
}
