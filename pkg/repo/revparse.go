package repo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/odvcencio/lit/pkg/object"
)

// revision grammar, longest match first:
//
//	40 hex digits            used directly (after an existence check)
//	4–39 hex digits          short-hash lookup in the object store
//	HEAD                     symbolic chain from .git/HEAD
//	name                     refs/heads/<name>, refs/tags/<name>, refs/<name>
//
// with trailing operators: "^" dereferences one level (an annotated tag to
// its target, a commit to its first parent) and "~N" walks N first-parent
// steps.

type revOp struct {
	caret bool
	steps int // for ~N
}

// ResolveRevision turns a revision expression into an object hash. When
// want is non-empty, the result is peeled (tags to their targets, a commit
// to its tree when a tree is wanted) until the kind matches; if it cannot,
// ErrWrongObjectType is returned.
func (r *Repo) ResolveRevision(rev string, want object.Type) (object.Hash, error) {
	base, ops, err := splitRevOps(rev)
	if err != nil {
		return "", err
	}

	h, err := r.resolveBase(base)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", rev, err)
	}

	for _, op := range ops {
		if op.caret {
			h, err = r.derefOnce(h)
		} else {
			h, err = r.walkFirstParents(h, op.steps)
		}
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", rev, err)
		}
	}

	if want != "" {
		h, err = r.peelTo(h, want)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", rev, err)
		}
	}
	return h, nil
}

func splitRevOps(rev string) (string, []revOp, error) {
	base := rev
	var ops []revOp
	for {
		if strings.HasSuffix(base, "^") {
			ops = append([]revOp{{caret: true}}, ops...)
			base = base[:len(base)-1]
			continue
		}
		if i := strings.LastIndex(base, "~"); i >= 0 && allDigits(base[i+1:]) {
			steps := 1
			if base[i+1:] != "" {
				n, err := strconv.Atoi(base[i+1:])
				if err != nil {
					return "", nil, fmt.Errorf("revision %q: bad parent count: %w", rev, err)
				}
				steps = n
			}
			ops = append([]revOp{{steps: steps}}, ops...)
			base = base[:i]
			continue
		}
		break
	}
	if base == "" {
		return "", nil, fmt.Errorf("revision %q: empty base: %w", rev, ErrRefNotFound)
	}
	return base, ops, nil
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (r *Repo) resolveBase(base string) (object.Hash, error) {
	lower := strings.ToLower(base)

	if len(lower) == 40 && object.IsHex(lower) {
		h := object.Hash(lower)
		if !r.Store.Has(h) {
			return "", fmt.Errorf("hash %s: %w", h, object.ErrNotFound)
		}
		return h, nil
	}
	if len(lower) >= 4 && len(lower) < 40 && object.IsHex(lower) {
		return r.Store.ResolvePrefix(lower)
	}
	if base == "HEAD" {
		return r.ResolveRef("HEAD")
	}

	for _, candidate := range []string{
		"refs/heads/" + base,
		"refs/tags/" + base,
		"refs/" + base,
	} {
		h, err := r.ResolveRef(candidate)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, ErrRefNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("name %q: %w", base, ErrRefNotFound)
}

// derefOnce peels one level: a tag to its target, a commit to its first
// parent.
func (r *Repo) derefOnce(h object.Hash) (object.Hash, error) {
	t, _, err := r.Store.Read(h)
	if err != nil {
		return "", err
	}
	switch t {
	case object.TypeTag:
		tag, err := r.Store.ReadTag(h)
		if err != nil {
			return "", err
		}
		return tag.Target(), nil
	case object.TypeCommit:
		c, err := r.Store.ReadCommit(h)
		if err != nil {
			return "", err
		}
		parents := c.Parents()
		if len(parents) == 0 {
			return "", fmt.Errorf("commit %s has no parent", h)
		}
		return parents[0], nil
	default:
		return "", fmt.Errorf("cannot dereference %s object %s: %w", t, h, ErrWrongObjectType)
	}
}

// walkFirstParents peels the hash to a commit, then follows first-parent
// links n times.
func (r *Repo) walkFirstParents(h object.Hash, n int) (object.Hash, error) {
	h, err := r.peelTo(h, object.TypeCommit)
	if err != nil {
		return "", err
	}
	for i := 0; i < n; i++ {
		c, err := r.Store.ReadCommit(h)
		if err != nil {
			return "", err
		}
		parents := c.Parents()
		if len(parents) == 0 {
			return "", fmt.Errorf("commit %s has no parent", h)
		}
		h = parents[0]
	}
	return h, nil
}

// peelTo follows tag targets (and a commit's tree, when a tree is wanted)
// until the object kind matches want.
func (r *Repo) peelTo(h object.Hash, want object.Type) (object.Hash, error) {
	for hop := 0; hop < maxRefHops; hop++ {
		t, _, err := r.Store.Read(h)
		if err != nil {
			return "", err
		}
		if t == want {
			return h, nil
		}
		switch t {
		case object.TypeTag:
			tag, err := r.Store.ReadTag(h)
			if err != nil {
				return "", err
			}
			h = tag.Target()
		case object.TypeCommit:
			if want != object.TypeTree {
				return "", fmt.Errorf("object %s is a commit, want %s: %w", h, want, ErrWrongObjectType)
			}
			c, err := r.Store.ReadCommit(h)
			if err != nil {
				return "", err
			}
			h = c.Tree()
		default:
			return "", fmt.Errorf("object %s is a %s, want %s: %w", h, t, want, ErrWrongObjectType)
		}
	}
	return "", fmt.Errorf("peeling %s: %w", h, ErrRefCycle)
}
