package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/lit/pkg/object"
)

// maxRefHops bounds symbolic ref chains so a corrupted repository cannot
// send resolution into an endless loop.
const maxRefHops = 16

const symrefPrefix = "ref: "

// Ref is the decoded content of one reference file: either a direct hash or
// a symbolic pointer to another ref name.
type Ref struct {
	Name   string
	Hash   object.Hash // set when direct
	Target string      // set when symbolic
}

// IsSymbolic reports whether the ref points at another ref rather than an
// object.
func (rf Ref) IsSymbolic() bool {
	return rf.Target != ""
}

// ReadRef reads a single reference file without following symbolic links.
// name is .git-relative, e.g. "HEAD" or "refs/heads/master".
func (r *Repo) ReadRef(name string) (Ref, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, filepath.FromSlash(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return Ref{}, fmt.Errorf("read ref %q: %w", name, ErrRefNotFound)
		}
		return Ref{}, fmt.Errorf("read ref %q: %w", name, err)
	}

	content := strings.TrimRight(string(data), "\n")
	if target, ok := strings.CutPrefix(content, symrefPrefix); ok {
		return Ref{Name: name, Target: strings.TrimSpace(target)}, nil
	}
	return Ref{Name: name, Hash: object.Hash(strings.TrimSpace(content))}, nil
}

// ResolveRef follows a symbolic ref chain to a direct hash. The chain is
// walked iteratively with a hop counter; exceeding maxRefHops yields
// ErrRefCycle.
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	cur := name
	for hop := 0; hop < maxRefHops; hop++ {
		rf, err := r.ReadRef(cur)
		if err != nil {
			return "", err
		}
		if !rf.IsSymbolic() {
			return rf.Hash, nil
		}
		cur = rf.Target
	}
	return "", fmt.Errorf("resolve ref %q: %w (more than %d hops)", name, ErrRefCycle, maxRefHops)
}

// UpdateRef writes a direct hash to the named ref file, creating parent
// directories as needed. The write goes through a temp file + rename so a
// reader never sees a torn ref.
func (r *Repo) UpdateRef(name string, h object.Hash) error {
	return r.writeRefFile(name, string(h)+"\n")
}

// UpdateSymbolicRef points the named ref (usually HEAD) at another ref.
func (r *Repo) UpdateSymbolicRef(name, target string) error {
	return r.writeRefFile(name, symrefPrefix+target+"\n")
}

func (r *Repo) writeRefFile(name, content string) error {
	refPath := filepath.Join(r.GitDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(refPath), ".ref-tmp-*")
	if err != nil {
		return fmt.Errorf("update ref %q: tmpfile: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	if err := os.Rename(tmpName, refPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}
	return nil
}

// DeleteRef removes a ref file.
func (r *Repo) DeleteRef(name string) error {
	err := os.Remove(filepath.Join(r.GitDir, filepath.FromSlash(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete ref %q: %w", name, ErrRefNotFound)
		}
		return fmt.Errorf("delete ref %q: %w", name, err)
	}
	return nil
}

// ListRefs lists references under .git/refs, fully resolved. Names are
// returned relative to refs/, e.g. "heads/master", "tags/v1".
func (r *Repo) ListRefs(prefix string) (map[string]object.Hash, error) {
	root := filepath.Join(r.GitDir, "refs")
	dir := root
	if strings.TrimSpace(prefix) != "" {
		dir = filepath.Join(root, filepath.FromSlash(prefix))
	}

	refs := make(map[string]object.Hash)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		h, err := r.ResolveRef("refs/" + name)
		if err != nil {
			return err
		}
		refs[name] = h
		return nil
	})
	if os.IsNotExist(err) {
		return refs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	return refs, nil
}

// Head reads .git/HEAD without following the chain. Returns the branch ref
// path for a symbolic HEAD, or the raw hash string when detached.
func (r *Repo) Head() (Ref, error) {
	return r.ReadRef("HEAD")
}

// CurrentBranch returns the branch name HEAD points at, or "" when HEAD is
// detached.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", err
	}
	if !head.IsSymbolic() {
		return "", nil
	}
	return strings.TrimPrefix(head.Target, "refs/heads/"), nil
}
