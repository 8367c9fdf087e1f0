// Package buffer provides the line-oriented text buffer that holds a tool
// script while it is being edited.
//
// The buffer is the single writer of script text. Every mutation goes through
// Replace (or one of its helpers) and is announced to observers synchronously,
// after the buffer lock has been released, so observers may read the buffer
// or even issue further edits from inside the callback.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("local r = 5")
//	sub := buf.Subscribe(func(c buffer.Change) {
//	    if c.Kind == buffer.ChangeText {
//	        recompile(buf.Text())
//	    }
//	})
//	defer sub.Unsubscribe()
//
//	// Replace columns [11, 12) on line 1 with "8".
//	buf.ReplaceRange(1, 11, 12, "8")
//
// Position Types:
//
// Positions are 1-based in both line and column, matching the editor
// convention used by the literal locator. Columns count runes, not bytes,
// so a column always lands on a character boundary.
package buffer
