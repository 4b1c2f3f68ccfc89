package repo

import (
	"errors"
	"fmt"
	"time"

	"github.com/odvcencio/lit/pkg/object"
)

// Commit writes the staged index as a commit object and advances the
// current branch to it. On an unborn branch the commit has no parents and
// creates the branch ref. With a detached HEAD the commit is written and
// HEAD itself is moved.
func (r *Repo) Commit(message string) (object.Hash, error) {
	identity, err := r.UserIdentity()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return r.CommitAs(message, identity, time.Now())
}

// CommitAs is Commit with an explicit identity and timestamp.
func (r *Repo) CommitAs(message, identity string, when time.Time) (object.Hash, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if len(idx.Entries) == 0 {
		return "", fmt.Errorf("commit: nothing staged")
	}

	treeHash, err := r.BuildTree(idx)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	var parents []object.Hash
	headHash, err := r.ResolveRef("HEAD")
	switch {
	case err == nil:
		parents = append(parents, headHash)
	case errors.Is(err, ErrRefNotFound):
		// unborn branch
	default:
		return "", fmt.Errorf("commit: %w", err)
	}

	sig := FormatSignature(identity, when)
	commit := object.NewCommit(treeHash, parents, sig, sig, message)
	commitHash, err := r.Store.WriteCommit(commit)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	if err := r.advanceHead(commitHash); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return commitHash, nil
}

// advanceHead moves the commit pointer: the current branch ref when HEAD is
// symbolic, HEAD itself when detached.
func (r *Repo) advanceHead(commitHash object.Hash) error {
	head, err := r.ReadRef("HEAD")
	if err != nil {
		return err
	}
	if head.IsSymbolic() {
		return r.UpdateRef(head.Target, commitHash)
	}
	return r.UpdateRef("HEAD", commitHash)
}

// LogEntry is one commit in a history walk.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// Log walks history from the given commit following first parents, newest
// first, up to limit entries. A limit of zero or less means no limit.
func (r *Repo) Log(from object.Hash, limit int) ([]LogEntry, error) {
	var out []LogEntry
	seen := make(map[object.Hash]bool)

	cur := from
	for cur != "" && !seen[cur] {
		if limit > 0 && len(out) >= limit {
			break
		}
		seen[cur] = true

		commit, err := r.Store.ReadCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		out = append(out, LogEntry{Hash: cur, Commit: commit})

		parents := commit.Parents()
		if len(parents) == 0 {
			break
		}
		cur = parents[0]
	}
	return out, nil
}

// WalkHistory visits every commit reachable from the given commit across
// all parents, calling fn once per commit. Traversal stops when fn returns
// an error.
func (r *Repo) WalkHistory(from object.Hash, fn func(object.Hash, *object.Commit) error) error {
	seen := make(map[object.Hash]bool)
	stack := []object.Hash{from}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true

		commit, err := r.Store.ReadCommit(cur)
		if err != nil {
			return fmt.Errorf("walk history: %w", err)
		}
		if err := fn(cur, commit); err != nil {
			return err
		}
		stack = append(stack, commit.Parents()...)
	}
	return nil
}
