package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/lit/pkg/object"
)

// Add stages the given file paths. The whole read-modify-write span runs
// under the index lock. For each path the raw content is written to the
// object store as a blob and the index entry is inserted or replaced with
// fresh stat data.
func (r *Repo) Add(paths []string) error {
	lock, err := r.LockIndex()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer lock.Unlock()

	idx, err := r.LoadIndex()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("add: resolve path %q: %w", p, err)
		}
		entry, err := r.stageFile(relPath)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		idx.Upsert(entry)
	}

	if err := idx.Save(r); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// stageFile hashes one working-tree file into the store and builds its
// index entry. Symlinks are staged as blobs holding the link target.
func (r *Repo) stageFile(relPath string) (IndexEntry, error) {
	absPath := filepath.Join(r.RootDir, filepath.FromSlash(relPath))
	info, err := os.Lstat(absPath)
	if err != nil {
		return IndexEntry{}, fmt.Errorf("stat %q: %w", relPath, err)
	}
	if info.IsDir() {
		return IndexEntry{}, fmt.Errorf("%q is a directory", relPath)
	}

	var content []byte
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(absPath)
		if err != nil {
			return IndexEntry{}, fmt.Errorf("readlink %q: %w", relPath, err)
		}
		content = []byte(target)
	} else {
		content, err = os.ReadFile(absPath)
		if err != nil {
			return IndexEntry{}, fmt.Errorf("read %q: %w", relPath, err)
		}
	}

	blobHash, err := r.Store.WriteBlob(&object.Blob{Data: content})
	if err != nil {
		return IndexEntry{}, fmt.Errorf("write blob %q: %w", relPath, err)
	}

	mtime := info.ModTime()
	return IndexEntry{
		Ctime:     uint32(mtime.Unix()),
		CtimeNano: uint32(mtime.Nanosecond()),
		Mtime:     uint32(mtime.Unix()),
		MtimeNano: uint32(mtime.Nanosecond()),
		Mode:      indexModeFor(info),
		Size:      uint32(len(content)),
		Hash:      blobHash,
		Path:      relPath,
	}, nil
}

// Remove unstages the given paths, failing with ErrPathNotInIndex when any
// of them is not tracked. When deleteFiles is set the working-tree files
// are removed as well.
func (r *Repo) Remove(paths []string, deleteFiles bool) error {
	lock, err := r.LockIndex()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	defer lock.Unlock()

	idx, err := r.LoadIndex()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	relPaths := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("rm: resolve path %q: %w", p, err)
		}
		relPaths = append(relPaths, rel)
	}

	if err := idx.Remove(relPaths); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	if err := idx.Save(r); err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	if deleteFiles {
		for _, rel := range relPaths {
			abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))
			if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("rm: delete %q: %w", rel, err)
			}
		}
	}
	return nil
}
