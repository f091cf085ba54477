package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/gitlanes/pkg/history"
)

// Load returns the commits described by opts: opts.Commits when set,
// otherwise the history of opts.Repo, otherwise the file opts.Input.
// Excluded prefixes are removed before validation.
//
// Validation problems are logged; with opts.Strict they abort the load.
func Load(ctx context.Context, opts Options) (history.Log, error) {
	opts.SetDefaults()

	var (
		l   history.Log
		err error
	)
	switch {
	case len(opts.Commits) > 0:
		l = opts.Commits
	case opts.Repo != "":
		l, err = history.LoadRepo(ctx, opts.Repo, history.RepoOptions{
			Limit: opts.Limit,
			All:   opts.All,
			Revs:  opts.Revs,
		})
	case opts.Input != "":
		l, err = history.ReadFile(opts.Input)
	default:
		return nil, fmt.Errorf("input or repo is required")
	}
	if err != nil {
		return nil, err
	}

	if len(opts.Exclude) > 0 {
		before := len(l)
		l = l.Exclude(opts.Exclude...)
		opts.Logger.Debug("excluded commits", "prefixes", opts.Exclude, "removed", before-len(l))
	}

	if err := history.Validate(l); err != nil {
		if opts.Strict {
			return nil, err
		}
		opts.Logger.Warn("history has problems; affected commits are skipped", "err", err)
	}
	return l, nil
}

// source names where opts loads commits from, for logs and hooks.
func source(opts Options) string {
	switch {
	case len(opts.Commits) > 0:
		return "memory"
	case opts.Repo != "":
		return opts.Repo
	default:
		return opts.Input
	}
}
