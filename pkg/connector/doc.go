// Package connector computes the drawn shape of the lines between commits.
//
// Every [lanes.Edge] becomes a [Path]: a continuous run of straight and
// quadratic segments from the parent's anchor to the child's anchor, plus
// the color of the branch the edge belongs to. Construction is a pure
// function of the two anchors and the edge direction; nothing here touches
// a drawing surface. Renderers turn a [Path] into SVG path data with
// [Path.D] or walk its segments directly.
//
// # Shapes
//
// Rows run along x and lanes along y, so:
//
//   - Endpoints on the same lane get one straight segment with round caps.
//   - A [lanes.BranchOut] edge leaves the parent vertically, bends with a
//     fixed corner radius and runs along the child's lane into the child.
//   - A [lanes.BranchIn] edge runs along the parent's lane first, bends and
//     drops vertically into the merge commit.
//
// An edge whose child lies above the parent is the exact reflection of the
// same edge below it across the parent's lane line, and a BranchIn path is
// the BranchOut path reflected through the connector midpoint and walked
// backwards.
//
// # Colors
//
// A connector takes the color of the lane that owns its branch (see
// [lanes.Edge.OwnerLane]) from a [Palette]. Lanes past the end of the
// palette get generated hues so colors never run out.
//
// # Concurrency
//
// Geometry only reads finished node positions, so [BuildAll] builds the
// connectors of a pass in parallel.
package connector
