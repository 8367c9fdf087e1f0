// Package renderer draws the studio into a terminal backend.
//
// The screen is split into three regions:
//
//	┌──────────────┬──────────────────────────┐
//	│  code pane   │  canvas                  │
//	│  (buffer)    │  (scene, point handle)   │
//	├──────────────┴──────────────────────────┤
//	│  status line                            │
//	└─────────────────────────────────────────┘
//
// The code pane shows the tool script with the literal under the caret
// underlined and, over a color literal, a palette popup. The canvas maps
// canvas units onto terminal cells through a Viewport; the same Viewport
// turns pointer cells back into canvas coordinates.
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	r := renderer.New(b, renderer.DefaultOptions())
//	r.Render(frame)
package renderer
