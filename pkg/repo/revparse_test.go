package repo

import (
	"errors"
	"testing"

	"github.com/odvcencio/lit/pkg/object"
)

func TestResolveRevision_FullAndShortHash(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	h := commitFiles(t, r, "one", map[string]string{"f.txt": "1\n"})

	got, err := r.ResolveRevision(string(h), "")
	if err != nil {
		t.Fatalf("ResolveRevision(full): %v", err)
	}
	if got != h {
		t.Errorf("full hash = %s, want %s", got, h)
	}

	got, err = r.ResolveRevision(string(h[:8]), "")
	if err != nil {
		t.Fatalf("ResolveRevision(short): %v", err)
	}
	if got != h {
		t.Errorf("short hash = %s, want %s", got, h)
	}
}

func TestResolveRevision_HeadAndBranchName(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	h := commitFiles(t, r, "one", map[string]string{"f.txt": "1\n"})

	for _, rev := range []string{"HEAD", "master", "refs/heads/master"} {
		got, err := r.ResolveRevision(rev, "")
		if err != nil {
			t.Fatalf("ResolveRevision(%q): %v", rev, err)
		}
		if got != h {
			t.Errorf("%q = %s, want %s", rev, got, h)
		}
	}
}

func TestResolveRevision_AnnotatedTagPeelsToCommit(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	commitHash := commitFiles(t, r, "one", map[string]string{"f.txt": "1\n"})

	tag := object.NewTag(commitHash, object.TypeCommit, "v1",
		FormatSignature(testIdentity, testWhen), "release")
	tagHash, err := r.Store.WriteTag(tag)
	if err != nil {
		t.Fatalf("WriteTag: %v", err)
	}
	if err := r.UpdateRef("refs/tags/v1", tagHash); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}

	// Without a wanted kind the tag object itself comes back.
	got, err := r.ResolveRevision("v1", "")
	if err != nil {
		t.Fatalf("ResolveRevision(v1): %v", err)
	}
	if got != tagHash {
		t.Errorf("v1 = %s, want tag %s", got, tagHash)
	}

	// Asking for a commit peels through the tag.
	got, err = r.ResolveRevision("v1", object.TypeCommit)
	if err != nil {
		t.Fatalf("ResolveRevision(v1, commit): %v", err)
	}
	if got != commitHash {
		t.Errorf("peeled v1 = %s, want %s", got, commitHash)
	}

	// Asking for a tree peels tag -> commit -> tree.
	treeHash, err := r.ResolveRevision("v1", object.TypeTree)
	if err != nil {
		t.Fatalf("ResolveRevision(v1, tree): %v", err)
	}
	commit, _ := r.Store.ReadCommit(commitHash)
	if treeHash != commit.Tree() {
		t.Errorf("tree = %s, want %s", treeHash, commit.Tree())
	}
}

func TestResolveRevision_ParentOperators(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	c1 := commitFiles(t, r, "one", map[string]string{"f.txt": "1\n"})
	c2 := commitFiles(t, r, "two", map[string]string{"f.txt": "2\n"})
	c3 := commitFiles(t, r, "three", map[string]string{"f.txt": "3\n"})

	cases := []struct {
		rev  string
		want object.Hash
	}{
		{"HEAD", c3},
		{"HEAD^", c2},
		{"HEAD^^", c1},
		{"HEAD~0", c3},
		{"HEAD~1", c2},
		{"HEAD~2", c1},
		{"HEAD~", c2},
		{"master~1^", c1},
	}
	for _, tc := range cases {
		got, err := r.ResolveRevision(tc.rev, "")
		if err != nil {
			t.Errorf("ResolveRevision(%q): %v", tc.rev, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q = %s, want %s", tc.rev, got, tc.want)
		}
	}

	// Walking past the root commit fails.
	if _, err := r.ResolveRevision("HEAD~3", ""); err == nil {
		t.Error("HEAD~3 past root succeeded, want error")
	}
}

func TestResolveRevision_WrongObjectType(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	blobHash, err := r.Store.WriteBlob(&object.Blob{Data: []byte("data\n")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}

	if _, err := r.ResolveRevision(string(blobHash), object.TypeCommit); !errors.Is(err, ErrWrongObjectType) {
		t.Errorf("blob-as-commit error = %v, want ErrWrongObjectType", err)
	}
}

func TestResolveRevision_UnknownName(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := r.ResolveRevision("no-such-branch", ""); !errors.Is(err, ErrRefNotFound) {
		t.Errorf("unknown name error = %v, want ErrRefNotFound", err)
	}
}
