// Package scene provides the retained-mode vector scenegraph that drawing
// tools render into.
//
// A Scene owns an ordered list of layers. Tools draw into the tool layer;
// transient helpers such as handle markers and construction lines go into
// the guide layer, which is cleared whenever a tool session ends.
//
// # Items
//
// Every visible element is an *Item of one of four kinds:
//
//   - KindPath: an open or closed sequence of cubic Bezier segments
//     (lines are two-segment paths, arcs are approximated by segments)
//   - KindCircle: a center and radius
//   - KindRectangle: two opposite corners
//   - KindGroup: an ordered container of child items
//
// Items are mutable and belong to at most one container at a time.
// Remove, BringToFront and SendToBack reorder within the owning container.
//
// # Coordinates
//
// Item geometry is expressed in layer-local coordinates. A layer's
// Transform maps local to global (canvas) coordinates; GlobalToLocal
// inverts it so pointer positions can be handed to tools.
//
// # Thread Safety
//
// A Scene is not safe for concurrent use. It is owned by the host's event
// loop goroutine.
package scene
