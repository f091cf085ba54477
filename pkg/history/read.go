package history

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	gerrors "github.com/matzehuels/gitlanes/pkg/errors"
)

// GitLogFormat is the git log pretty format understood by [ParseGitLog].
const GitLogFormat = "%H %P"

// ReadJSON decodes a parents-first JSON array of commits.
func ReadJSON(r io.Reader) (Log, error) {
	var l Log
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidFormat, err, "decode commit log")
	}
	return l, nil
}

// WriteJSON encodes the log as an indented JSON array.
func WriteJSON(l Log, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ParseGitLog reads "<id> <parent>..." lines, newest first as git prints
// them, and returns the commits parents first. Blank lines are skipped.
func ParseGitLog(r io.Reader) (Log, error) {
	var newestFirst Log
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		for _, f := range fields {
			if err := gerrors.ValidateCommitID(f); err != nil {
				return nil, gerrors.Wrap(gerrors.ErrCodeInvalidCommit, err, "line %d", line)
			}
		}
		var parents []string
		if len(fields) > 1 {
			parents = fields[1:]
		}
		newestFirst = append(newestFirst, Commit{ID: fields[0], Parents: parents})
	}
	if err := sc.Err(); err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidFormat, err, "read git log")
	}
	return newestFirst.Reversed(), nil
}

// ReadFile reads a commit log from path. Files ending in .json are decoded
// with [ReadJSON]; anything else is treated as git log text.
func ReadFile(path string) (Log, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gerrors.Wrap(gerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ReadJSON(f)
	}
	return ParseGitLog(f)
}

// RepoOptions selects which part of a repository's history to load.
type RepoOptions struct {
	// Limit caps the number of commits (0 = no limit).
	Limit int
	// All includes every ref instead of just HEAD.
	All bool
	// Revs are extra revision arguments passed to git log (e.g. "main", "v1.0..HEAD").
	Revs []string
}

// LoadRepo runs git log in dir and parses its output. Commits are returned
// in topological order, parents first.
func LoadRepo(ctx context.Context, dir string, opts RepoOptions) (Log, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeUnsupported, err, "loading a repository requires git on PATH")
	}

	args := []string{"-C", dir, "log", "--topo-order", "--format=" + GitLogFormat}
	if opts.Limit > 0 {
		args = append(args, "-n", strconv.Itoa(opts.Limit))
	}
	if opts.All {
		args = append(args, "--all")
	}
	args = append(args, opts.Revs...)

	cmd := exec.CommandContext(ctx, "git", args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, gerrors.Wrap(gerrors.ErrCodeRepoNotFound, err, "git log in %s: %s", dir, strings.TrimSpace(errBuf.String()))
	}
	return ParseGitLog(&out)
}
