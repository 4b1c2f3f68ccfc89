package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/odvcencio/lit/pkg/object"
)

// FileStatus describes how one path differs between HEAD, the index, and
// the working tree.
type FileStatus int

const (
	StatusUnmodified FileStatus = iota
	StatusAdded                 // in the index, not in HEAD
	StatusModified
	StatusDeleted
	StatusUntracked
)

func (s FileStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	case StatusUntracked:
		return "untracked"
	default:
		return "unmodified"
	}
}

// StatusEntry pairs a path with its staged and working-tree states.
type StatusEntry struct {
	Path  string
	Index FileStatus // index vs HEAD
	Work  FileStatus // working tree vs index
}

// StatusReport is a full snapshot of the repository state, sorted by path
// within each section.
type StatusReport struct {
	Branch    string // "" when HEAD is detached
	Staged    []StatusEntry
	Unstaged  []StatusEntry
	Untracked []string
}

// Status compares HEAD, the index, and the working tree.
func (r *Repo) Status() (*StatusReport, error) {
	report := &StatusReport{}

	branch, err := r.CurrentBranch()
	if err == nil {
		report.Branch = branch
	}

	idx, err := r.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	headFiles, err := r.headTreeFiles()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	indexed := make(map[string]IndexEntry, len(idx.Entries))
	for _, e := range idx.Entries {
		indexed[e.Path] = e
	}

	// Index vs HEAD.
	for _, e := range idx.Entries {
		head, inHead := headFiles[e.Path]
		switch {
		case !inHead:
			report.Staged = append(report.Staged, StatusEntry{Path: e.Path, Index: StatusAdded})
		case head.Hash != e.Hash || indexModeForTree(head.Mode) != e.Mode:
			report.Staged = append(report.Staged, StatusEntry{Path: e.Path, Index: StatusModified})
		}
	}
	for path := range headFiles {
		if _, ok := indexed[path]; !ok {
			report.Staged = append(report.Staged, StatusEntry{Path: path, Index: StatusDeleted})
		}
	}

	// Working tree vs index.
	for _, e := range idx.Entries {
		state, err := r.worktreeState(e)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		if state != StatusUnmodified {
			report.Unstaged = append(report.Unstaged, StatusEntry{Path: e.Path, Work: state})
		}
	}

	// Untracked files.
	untracked, err := r.untrackedFiles(indexed)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	report.Untracked = untracked

	sortEntries := func(entries []StatusEntry) {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	}
	sortEntries(report.Staged)
	sortEntries(report.Unstaged)
	sort.Strings(report.Untracked)
	return report, nil
}

// worktreeState compares one indexed file against the working tree. The
// stat fields are a cheap first pass; the blob is rehashed only when size
// and mtime fail to rule a change out.
func (r *Repo) worktreeState(e IndexEntry) (FileStatus, error) {
	abs := filepath.Join(r.RootDir, filepath.FromSlash(e.Path))
	info, err := os.Lstat(abs)
	if os.IsNotExist(err) {
		return StatusDeleted, nil
	}
	if err != nil {
		return StatusUnmodified, fmt.Errorf("stat %q: %w", e.Path, err)
	}

	if indexModeFor(info) != e.Mode {
		return StatusModified, nil
	}

	mtime := info.ModTime()
	if uint32(info.Size()) == e.Size &&
		uint32(mtime.Unix()) == e.Mtime &&
		uint32(mtime.Nanosecond()) == e.MtimeNano {
		return StatusUnmodified, nil
	}

	var content []byte
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(abs)
		if err != nil {
			return StatusUnmodified, fmt.Errorf("readlink %q: %w", e.Path, err)
		}
		content = []byte(target)
	} else {
		content, err = os.ReadFile(abs)
		if err != nil {
			return StatusUnmodified, fmt.Errorf("read %q: %w", e.Path, err)
		}
	}
	if object.HashObject(object.TypeBlob, content) == e.Hash {
		return StatusUnmodified, nil
	}
	return StatusModified, nil
}

// untrackedFiles walks the working tree for files that are neither indexed
// nor ignored.
func (r *Repo) untrackedFiles(indexed map[string]IndexEntry) ([]string, error) {
	checker := r.NewIgnoreChecker()

	var out []string
	err := filepath.WalkDir(r.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(r.RootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if checker.IsIgnored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := indexed[rel]; !ok {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk working tree: %w", err)
	}
	return out, nil
}
