package repo

import (
	"testing"
)

func checkerWithPatterns(t *testing.T, lines string) *IgnoreChecker {
	t.Helper()
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeWorkFile(t, r, ".gitignore", lines)
	return r.NewIgnoreChecker()
}

func TestIgnore_GitDirAlwaysIgnored(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	ic := r.NewIgnoreChecker()

	for _, p := range []string{".git", ".git/HEAD", ".git/objects/ab/cdef"} {
		if !ic.IsIgnored(p) {
			t.Errorf("IsIgnored(%q) = false, want true", p)
		}
	}
	if ic.IsIgnored("gitfile.txt") {
		t.Error("gitfile.txt ignored, want tracked")
	}
}

func TestIgnore_Patterns(t *testing.T) {
	ic := checkerWithPatterns(t, `
# build artifacts
*.log
build/
docs/*.tmp
src/**/gen.go
!important.log
`)

	cases := []struct {
		path string
		want bool
	}{
		{"app.log", true},
		{"deep/nested/app.log", true}, // basename patterns apply at any depth
		{"app.log.bak", false},
		{"build", true},
		{"build/out/x.o", true},
		{"builder.go", false},
		{"docs/a.tmp", true},
		{"docs/sub/a.tmp", false}, // slash pattern anchors to the full path
		{"src/gen.go", true},
		{"src/a/b/gen.go", true},
		{"important.log", false}, // negation wins as the last match
	}
	for _, tc := range cases {
		if got := ic.IsIgnored(tc.path); got != tc.want {
			t.Errorf("IsIgnored(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestIgnore_InfoExclude(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeWorkFile(t, r, ".git/info/exclude", "secret.txt\n")

	ic := r.NewIgnoreChecker()
	if !ic.IsIgnored("secret.txt") {
		t.Error("secret.txt not ignored via info/exclude")
	}
}

func TestIgnore_CommentsAndBlanksSkipped(t *testing.T) {
	ic := checkerWithPatterns(t, "# just a comment\n\n   \n")
	if ic.IsIgnored("anything.txt") {
		t.Error("comment-only ignore file ignored a path")
	}
}
