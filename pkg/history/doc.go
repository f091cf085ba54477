// Package history provides the commit records consumed by the lane layout.
//
// A history is an ordered list of [Commit] values where every parent that is
// part of the list appears before its children ("parents first"). This is the
// processing order expected by pkg/lanes. Nothing in this package interprets
// commit content beyond the ID and the ordered parent IDs.
//
// # Sources
//
// Commits can be read from three places:
//
//   - JSON: an array of {"id": ..., "parents": [...]} objects ([ReadJSON])
//   - git log text: one "<sha> <parent>..." line per commit, newest first,
//     as printed by git log --format='%H %P' ([ParseGitLog])
//   - a local repository, by running git log ([LoadRepo])
//
// Text read from git is newest first; the readers reverse it so the returned
// [Log] is always parents first.
//
// # Filtering
//
// [Log.Exclude] drops commits by ID prefix and re-links the parents of the
// surviving commits so the graph stays connected.
package history
