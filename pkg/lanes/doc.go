// Package lanes assigns commits to branch lanes and tracks lane occupancy.
//
// # Overview
//
// A commit history is drawn as a timeline where every commit gets a row
// (its position in processing order) and a lane (the branch line it sits
// on). Rows advance along the x axis, lanes stack along the y axis, so a
// connector between two commits on the same lane is a straight horizontal
// line and every other connector needs an elbow (see pkg/connector).
//
// The package has two parts:
//
//   - [Grid]: the occupancy table. One row of lane slots per processed
//     commit, recording which commit holds which lane at that row. It
//     answers occupancy, obstruction and sizing queries.
//   - [Allocator]: walks the commits parents first and decides each
//     commit's lane, reusing a parent's lane for its first child, opening
//     lanes for new branches and releasing lanes that were merged in.
//
// [Layout] runs a full pass and returns positioned [Node] values, one [Edge]
// per (commit, parent) pair, and the frame [Dimensions].
//
// # Lane Rules
//
//   - A commit continues the lane of its first parent that still holds a
//     lane (first parent wins, matching git's "first parent = same branch").
//   - A commit with no such parent opens a branch on the lowest free lane
//     whose path back to its parent's row is unobstructed, else the lowest
//     free lane, else a new lane at the end.
//   - Lanes of the other parents of a merge are released once the merge is
//     processed.
//   - Lanes of branch tips without children follow [ReleasePolicy].
//
// # Invalid Input
//
// Nothing in this package panics or aborts on bad input. Invalid queries
// log a diagnostic and return a safe default; malformed commits (empty or
// duplicate IDs) are skipped so the rest of the history still renders.
//
// # Concurrency
//
// A layout pass is strictly sequential: every allocation depends on the
// occupancy left by all previous commits. A [Grid] is not safe for concurrent
// mutation; read-only queries on a finished grid may run concurrently.
package lanes
