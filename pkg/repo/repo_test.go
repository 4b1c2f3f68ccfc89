package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit_Layout(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, sub := range []string{
		"objects",
		filepath.Join("refs", "heads"),
		filepath.Join("refs", "tags"),
		"branches",
	} {
		info, err := os.Stat(filepath.Join(r.GitDir, sub))
		if err != nil {
			t.Fatalf("stat %s: %v", sub, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", sub)
		}
	}

	head, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	if string(head) != "ref: refs/heads/master\n" {
		t.Errorf("HEAD = %q, want %q", head, "ref: refs/heads/master\n")
	}

	if _, err := os.Stat(filepath.Join(r.GitDir, "description")); err != nil {
		t.Errorf("stat description: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.GitDir, "config")); err != nil {
		t.Errorf("stat config: %v", err)
	}
}

func TestInit_AlreadyExists(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := Init(dir); err == nil {
		t.Fatal("second Init succeeded, want error")
	}
}

func TestOpen_WalksUp(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}

	nested := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	r, err := Open(nested)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	want, _ := filepath.Abs(dir)
	if r.RootDir != want {
		t.Errorf("RootDir = %q, want %q", r.RootDir, want)
	}
}

func TestOpen_NotARepo(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("Open succeeded outside any repository, want error")
	}
}

func TestOpen_RejectsFormatVersion(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	cfg := "[core]\nrepositoryformatversion = 1\n"
	if err := os.WriteFile(filepath.Join(r.GitDir, "config"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Open(dir); err == nil {
		t.Fatal("Open accepted repositoryformatversion 1, want error")
	}
}
