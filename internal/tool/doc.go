// Package tool defines drawing tools and the state machine that drives them.
//
// A tool is a script with up to six lifecycle callbacks: begin, press,
// drag, release, move and end. Machine turns pointer input into calls to
// those callbacks:
//
//	Idle --down--> Drawing (begin, press)
//	Drawing --move--> drag while pressed, move otherwise
//	Drawing --up--> release
//	Drawing --Enter/Escape/End--> Idle (end)
//
// Definitions carry the script plus metadata (id, label, icon and
// parameters) stored as a YAML block comment at the head of the script.
// The built-in presets are embedded Lua files.
package tool
