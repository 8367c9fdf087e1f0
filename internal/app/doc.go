// Package app is the studio: it wires the script buffer, compiler, tool
// state machine, literal manipulation and terminal renderer together and
// runs the event loop.
//
// Everything runs on the loop goroutine. Background producers (terminal
// input, the script file watcher, context cancellation) only post events
// to the backend, which the loop polls.
//
//	key/mouse ──► backend ──► Studio.HandleEvent ──► buffer edits ──► recompile
//	                                         │                        │
//	                                         └──► tool.Machine ◄──────┘
//	                                                  │
//	                                               scene ──► renderer
package app
