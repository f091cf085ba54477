package history

import (
	"slices"
	"strings"
)

// Commit is a single entry in a commit history. It is immutable once read.
type Commit struct {
	ID      string   `json:"id" bson:"id"`
	Parents []string `json:"parents,omitempty" bson:"parents,omitempty"`
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool { return len(c.Parents) > 1 }

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool { return len(c.Parents) == 0 }

// Log is an ordered commit history, parents before children.
type Log []Commit

// IDs returns the commit IDs in log order.
func (l Log) IDs() []string {
	ids := make([]string, len(l))
	for i, c := range l {
		ids[i] = c.ID
	}
	return ids
}

// Index maps each commit ID to its position in the log. For duplicate IDs the
// first position wins.
func (l Log) Index() map[string]int {
	idx := make(map[string]int, len(l))
	for i, c := range l {
		if _, ok := idx[c.ID]; !ok {
			idx[c.ID] = i
		}
	}
	return idx
}

// Children returns, for every commit ID, the IDs of commits that list it as
// a parent, in log order.
func (l Log) Children() map[string][]string {
	kids := make(map[string][]string, len(l))
	for _, c := range l {
		for _, p := range c.Parents {
			kids[p] = append(kids[p], c.ID)
		}
	}
	return kids
}

// Reversed returns a copy of the log in the opposite order.
func (l Log) Reversed() Log {
	out := slices.Clone(l)
	slices.Reverse(out)
	return out
}

// Exclude returns a copy of the log without commits whose ID starts with any
// of the given prefixes. A surviving commit whose parent was excluded inherits
// that parent's own parents, so branches stay connected across the gap.
func (l Log) Exclude(prefixes ...string) Log {
	if len(prefixes) == 0 {
		return slices.Clone(l)
	}

	excluded := func(id string) bool {
		for _, p := range prefixes {
			if p != "" && strings.HasPrefix(id, p) {
				return true
			}
		}
		return false
	}

	// Resolved parents of excluded commits, filled in log order so an
	// excluded parent is always resolved before its children look it up.
	through := make(map[string][]string)
	resolve := func(parents []string) []string {
		var out []string
		for _, p := range parents {
			if next, ok := through[p]; ok {
				out = appendUnique(out, next...)
				continue
			}
			out = appendUnique(out, p)
		}
		return out
	}

	out := make(Log, 0, len(l))
	for _, c := range l {
		parents := resolve(c.Parents)
		if excluded(c.ID) {
			through[c.ID] = parents
			continue
		}
		out = append(out, Commit{ID: c.ID, Parents: parents})
	}
	return out
}

func appendUnique(dst []string, ids ...string) []string {
	for _, id := range ids {
		if !slices.Contains(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}
