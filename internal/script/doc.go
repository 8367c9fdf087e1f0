// Package script compiles Lua tool scripts into lifecycle handlers.
//
// Each compile creates its own gopher-lua state. Only the base, table,
// string and math libraries are opened, and loaders such as dofile,
// loadstring and require are removed; reading one of them is an error.
// print writes to the logger.
//
// # Name resolution
//
// A tool body runs in an environment table. Names the script assigns live
// in that table and shadow everything else. Unassigned names resolve, in
// order, through:
//
//   - the globals record: mouse, mouseX, mouseY
//   - the parameters record: each tool parameter by name
//   - the drawing API: Point, Path, Circle, Line, Rectangle, Arc, Ellipse,
//     RegularPolygon, Star, Group, Matrix, guide, parameters, finish and the
//     top-level math helpers
//   - the Lua standard library
//
// # Handlers
//
// After the body has run, each of begin, press, drag, release, move and end
// that the script defined as a function becomes a tool.Handler:
//
//	prog, err := script.Compile(code, script.Bindings{Scene: sc})
//	if err != nil {
//	    var cerr *script.CompileError
//	    errors.As(err, &cerr) // cerr.Line, cerr.Text
//	}
//	machine.Bind(prog.Handlers(), prog)
//
// Every handler call runs under a deadline so a runaway loop cannot block
// the caller.
package script
