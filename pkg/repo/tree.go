package repo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/lit/pkg/object"
)

// BuildTree converts the index into a hierarchy of tree objects, one per
// directory, built bottom-up, and returns the root tree hash.
func (r *Repo) BuildTree(idx *Index) (object.Hash, error) {
	return r.buildSubtree(idx, "")
}

// buildSubtree writes the tree for one directory prefix ("" is the root).
// Direct children become blob entries; deeper paths are grouped by their
// first segment and recursed into.
func (r *Repo) buildSubtree(idx *Index, prefix string) (object.Hash, error) {
	tree := &object.Tree{}
	subdirs := make(map[string]bool)

	for _, e := range idx.Entries {
		rel := e.Path
		if prefix != "" {
			var ok bool
			rel, ok = strings.CutPrefix(e.Path, prefix+"/")
			if !ok {
				continue
			}
		}

		if name, _, nested := strings.Cut(rel, "/"); nested {
			subdirs[name] = true
		} else {
			tree.Entries = append(tree.Entries, object.TreeEntry{
				Mode: treeModeFor(e.Mode),
				Name: rel,
				Hash: e.Hash,
			})
		}
	}

	names := make([]string, 0, len(subdirs))
	for name := range subdirs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sub := name
		if prefix != "" {
			sub = prefix + "/" + name
		}
		subHash, err := r.buildSubtree(idx, sub)
		if err != nil {
			return "", err
		}
		tree.Entries = append(tree.Entries, object.TreeEntry{
			Mode: object.ModeDir,
			Name: name,
			Hash: subHash,
		})
	}

	h, err := r.Store.WriteTree(tree)
	if err != nil {
		return "", fmt.Errorf("build tree %q: %w", prefix, err)
	}
	return h, nil
}

// TreeFileEntry is one file in a flattened tree.
type TreeFileEntry struct {
	Path string
	Mode string
	Hash object.Hash
}

// FlattenTree walks a tree recursively and returns every file it reaches,
// keyed by slash-separated path from the tree root.
func (r *Repo) FlattenTree(treeHash object.Hash) (map[string]TreeFileEntry, error) {
	out := make(map[string]TreeFileEntry)
	if err := r.flattenInto(treeHash, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) flattenInto(treeHash object.Hash, prefix string, out map[string]TreeFileEntry) error {
	tree, err := r.Store.ReadTree(treeHash)
	if err != nil {
		return fmt.Errorf("flatten tree %s: %w", treeHash, err)
	}

	for _, e := range tree.Entries {
		if err := validateTreeMode(e.Mode); err != nil {
			return fmt.Errorf("flatten tree %s: %w", treeHash, err)
		}
		path := e.Name
		if prefix != "" {
			path = prefix + "/" + e.Name
		}
		if e.IsDir() {
			if err := r.flattenInto(e.Hash, path, out); err != nil {
				return err
			}
			continue
		}
		out[path] = TreeFileEntry{Path: path, Mode: e.Mode, Hash: e.Hash}
	}
	return nil
}

// headTreeFiles flattens the tree of the current HEAD commit. A repository
// without commits yields an empty map.
func (r *Repo) headTreeFiles() (map[string]TreeFileEntry, error) {
	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return map[string]TreeFileEntry{}, nil
	}
	commit, err := r.Store.ReadCommit(headHash)
	if err != nil {
		return nil, fmt.Errorf("head tree: %w", err)
	}
	return r.FlattenTree(commit.Tree())
}
