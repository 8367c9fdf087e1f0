// Package key provides key events, key specification parsing and the
// shortcut registry the studio binds actions to.
//
// Key specifications can be written in two formats:
//
//   - With modifiers: "Enter", "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<CR>", "<Esc>"
//
// A Registry holds a stack of bindings. The newest binding for a key wins,
// so a drawing session can take Enter and Escape for itself and give them
// back when it ends.
package key
