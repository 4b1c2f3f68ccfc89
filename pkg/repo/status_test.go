package repo

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func statusFor(entries []StatusEntry, path string) (StatusEntry, bool) {
	for _, e := range entries {
		if e.Path == path {
			return e, true
		}
	}
	return StatusEntry{}, false
}

func TestStatus_FreshRepoIsClean(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if report.Branch != "master" {
		t.Errorf("branch = %q, want master", report.Branch)
	}
	if len(report.Staged)+len(report.Unstaged)+len(report.Untracked) != 0 {
		t.Errorf("fresh repo not clean: %+v", report)
	}
}

func TestStatus_UntrackedAndStaged(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	writeWorkFile(t, r, "staged.txt", "s\n")
	writeWorkFile(t, r, "loose.txt", "l\n")
	if err := r.Add([]string{"staged.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	if e, ok := statusFor(report.Staged, "staged.txt"); !ok || e.Index != StatusAdded {
		t.Errorf("staged.txt = %+v, want added", e)
	}
	if len(report.Untracked) != 1 || report.Untracked[0] != "loose.txt" {
		t.Errorf("untracked = %v, want [loose.txt]", report.Untracked)
	}
}

func TestStatus_ModifiedAndDeleted(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	commitFiles(t, r, "base", map[string]string{
		"mod.txt": "before\n",
		"del.txt": "doomed\n",
	})

	// Change one file (size change defeats the stat fast path) and delete
	// the other without touching the index.
	writeWorkFile(t, r, "mod.txt", "after, longer\n")
	if err := os.Remove(filepath.Join(dir, "del.txt")); err != nil {
		t.Fatalf("remove del.txt: %v", err)
	}

	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if e, ok := statusFor(report.Unstaged, "mod.txt"); !ok || e.Work != StatusModified {
		t.Errorf("mod.txt = %+v, want modified", e)
	}
	if e, ok := statusFor(report.Unstaged, "del.txt"); !ok || e.Work != StatusDeleted {
		t.Errorf("del.txt = %+v, want deleted", e)
	}
	if len(report.Staged) != 0 {
		t.Errorf("staged = %v, want empty", report.Staged)
	}
}

func TestStatus_StagedDeletionAgainstHead(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	commitFiles(t, r, "base", map[string]string{
		"keep.txt": "k\n",
		"gone.txt": "g\n",
	})

	if err := r.Remove([]string{"gone.txt"}, true); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if e, ok := statusFor(report.Staged, "gone.txt"); !ok || e.Index != StatusDeleted {
		t.Errorf("gone.txt = %+v, want staged deletion", e)
	}
}

func TestStatus_SameContentRewriteStaysClean(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	commitFiles(t, r, "base", map[string]string{"f.txt": "same\n"})

	// Rewrite identical bytes with a future mtime: the stat fast path
	// misses but the content hash rules a change out.
	abs := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(abs, []byte("same\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(abs, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.Unstaged) != 0 {
		t.Errorf("unstaged = %v, want empty", report.Unstaged)
	}
}

func TestStatus_IgnoredFilesNotListed(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeWorkFile(t, r, ".gitignore", "*.log\nbuild/\n")
	writeWorkFile(t, r, "app.log", "noise\n")
	writeWorkFile(t, r, "build/out.bin", "bin\n")
	writeWorkFile(t, r, "main.go", "package main\n")

	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	want := map[string]bool{".gitignore": true, "main.go": true}
	if len(report.Untracked) != len(want) {
		t.Fatalf("untracked = %v, want %v", report.Untracked, want)
	}
	for _, p := range report.Untracked {
		if !want[p] {
			t.Errorf("unexpected untracked %q", p)
		}
	}
}
