package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/lit/pkg/object"
)

// Checkout materializes the commit named by rev into the working tree and
// moves HEAD. When rev names a local branch HEAD becomes symbolic to it;
// otherwise HEAD is detached at the resolved commit.
//
// Files tracked by the current index are removed first, then the target
// tree is written out and the index rebuilt to match it. Untracked files
// are left alone; a collision with one aborts the checkout before anything
// is touched.
func (r *Repo) Checkout(rev string) error {
	commitHash, err := r.ResolveRevision(rev, object.TypeCommit)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	commit, err := r.Store.ReadCommit(commitHash)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	files, err := r.FlattenTree(commit.Tree())
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	lock, err := r.LockIndex()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	defer lock.Unlock()

	idx, err := r.LoadIndex()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	tracked := make(map[string]bool, len(idx.Entries))
	for _, e := range idx.Entries {
		tracked[e.Path] = true
	}
	for path := range files {
		if tracked[path] {
			continue
		}
		abs := filepath.Join(r.RootDir, filepath.FromSlash(path))
		if _, err := os.Lstat(abs); err == nil {
			return fmt.Errorf("checkout: untracked file %q would be overwritten", path)
		}
	}

	for _, e := range idx.Entries {
		abs := filepath.Join(r.RootDir, filepath.FromSlash(e.Path))
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("checkout: remove %q: %w", e.Path, err)
		}
		r.pruneEmptyDirs(filepath.Dir(abs))
	}

	fresh := &Index{}
	for path, f := range files {
		entry, err := r.materializeFile(path, f)
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		fresh.Upsert(entry)
	}
	if err := fresh.Save(r); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	if err := r.moveHead(rev, commitHash); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}

// materializeFile writes one blob into the working tree and returns its
// index entry.
func (r *Repo) materializeFile(path string, f TreeFileEntry) (IndexEntry, error) {
	blob, err := r.Store.ReadBlob(f.Hash)
	if err != nil {
		return IndexEntry{}, fmt.Errorf("read blob for %q: %w", path, err)
	}

	abs := filepath.Join(r.RootDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return IndexEntry{}, fmt.Errorf("mkdir for %q: %w", path, err)
	}

	if f.Mode == object.ModeSymlink {
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			return IndexEntry{}, fmt.Errorf("replace symlink %q: %w", path, err)
		}
		if err := os.Symlink(string(blob.Data), abs); err != nil {
			return IndexEntry{}, fmt.Errorf("symlink %q: %w", path, err)
		}
	} else {
		if err := os.WriteFile(abs, blob.Data, permForTreeMode(f.Mode)); err != nil {
			return IndexEntry{}, fmt.Errorf("write %q: %w", path, err)
		}
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return IndexEntry{}, fmt.Errorf("stat %q: %w", path, err)
	}
	mtime := info.ModTime()
	return IndexEntry{
		Ctime:     uint32(mtime.Unix()),
		CtimeNano: uint32(mtime.Nanosecond()),
		Mtime:     uint32(mtime.Unix()),
		MtimeNano: uint32(mtime.Nanosecond()),
		Mode:      indexModeForTree(f.Mode),
		Size:      uint32(len(blob.Data)),
		Hash:      f.Hash,
		Path:      path,
	}, nil
}

// pruneEmptyDirs removes now-empty parent directories up to the repo root.
func (r *Repo) pruneEmptyDirs(dir string) {
	for {
		rel, err := filepath.Rel(r.RootDir, dir)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// moveHead points HEAD at the checked-out commit: symbolically when rev is
// a local branch name, detached otherwise.
func (r *Repo) moveHead(rev string, commitHash object.Hash) error {
	branchRef := "refs/heads/" + rev
	if _, err := r.ReadRef(branchRef); err == nil {
		return r.UpdateSymbolicRef("HEAD", branchRef)
	}
	return r.UpdateRef("HEAD", commitHash)
}

// CreateBranch points refs/heads/<name> at the given commit without
// touching HEAD or the working tree.
func (r *Repo) CreateBranch(name string, commitHash object.Hash) error {
	refName := "refs/heads/" + name
	if _, err := r.ReadRef(refName); err == nil {
		return fmt.Errorf("create branch: %q already exists", name)
	}
	if err := r.UpdateRef(refName, commitHash); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}
