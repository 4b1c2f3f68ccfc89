package repo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/odvcencio/lit/pkg/object"
)

// CreateTag writes a lightweight tag: a ref under refs/tags pointing
// straight at the target object.
func (r *Repo) CreateTag(name string, target object.Hash) error {
	refName := "refs/tags/" + name
	if _, err := r.ReadRef(refName); err == nil {
		return fmt.Errorf("create tag: %q already exists", name)
	}
	if err := r.UpdateRef(refName, target); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// CreateAnnotatedTag writes a tag object carrying the tagger identity and
// message, then points refs/tags/<name> at the tag object.
func (r *Repo) CreateAnnotatedTag(name string, target object.Hash, message string) (object.Hash, error) {
	refName := "refs/tags/" + name
	if _, err := r.ReadRef(refName); err == nil {
		return "", fmt.Errorf("create tag: %q already exists", name)
	}

	targetType, err := r.Store.ReadType(target)
	if err != nil {
		return "", fmt.Errorf("create tag: %w", err)
	}
	identity, err := r.UserIdentity()
	if err != nil {
		return "", fmt.Errorf("create tag: %w", err)
	}

	tag := object.NewTag(target, targetType, name, FormatSignature(identity, time.Now()), message)
	tagHash, err := r.Store.WriteTag(tag)
	if err != nil {
		return "", fmt.Errorf("create tag: %w", err)
	}
	if err := r.UpdateRef(refName, tagHash); err != nil {
		return "", fmt.Errorf("create tag: %w", err)
	}
	return tagHash, nil
}

// ListTags returns tag names sorted, without the refs/tags prefix.
func (r *Repo) ListTags() ([]string, error) {
	refs, err := r.ListRefs("tags")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, strings.TrimPrefix(name, "tags/"))
	}
	sort.Strings(names)
	return names, nil
}

// DeleteTag removes the ref for a tag. Tag objects stay in the store.
func (r *Repo) DeleteTag(name string) error {
	refName := "refs/tags/" + name
	if _, err := r.ReadRef(refName); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if err := r.DeleteRef(refName); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
