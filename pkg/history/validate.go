package history

import (
	"errors"

	gerrors "github.com/matzehuels/gitlanes/pkg/errors"
)

// Validate checks that every commit has a well-formed unique ID and that
// every parent present in the log appears before the commit that names it.
// Parents missing from the log are allowed; they belong to history outside
// the loaded window.
//
// All problems are reported, joined with errors.Join. The layout tolerates
// every one of them, so callers usually log the result rather than abort.
func Validate(l Log) error {
	var errs []error
	seen := make(map[string]int, len(l))
	idx := l.Index()

	for i, c := range l {
		if err := gerrors.ValidateCommitID(c.ID); err != nil {
			errs = append(errs, gerrors.Wrap(gerrors.ErrCodeInvalidCommit, err, "commit %d", i))
			continue
		}
		if first, dup := seen[c.ID]; dup {
			errs = append(errs, gerrors.New(gerrors.ErrCodeInvalidCommit,
				"duplicate commit %s at %d (first seen at %d)", c.ID, i, first))
			continue
		}
		seen[c.ID] = i

		for _, p := range c.Parents {
			if p == c.ID {
				errs = append(errs, gerrors.New(gerrors.ErrCodeInvalidOrder, "commit %s is its own parent", c.ID))
				continue
			}
			if at, ok := idx[p]; ok && at > i {
				errs = append(errs, gerrors.New(gerrors.ErrCodeInvalidOrder,
					"parent %s of %s appears after it (%d > %d)", p, c.ID, at, i))
			}
		}
	}
	return errors.Join(errs...)
}
