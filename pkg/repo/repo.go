package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/lit/pkg/object"
	"gopkg.in/ini.v1"
)

// Repo represents an opened repository: a working tree with a .git/
// directory holding the object store, index, and refs.
type Repo struct {
	RootDir string        // working directory root
	GitDir  string        // .git/ directory
	Store   *object.Store // content-addressed object store
}

// Init creates a new repository at path: HEAD pointing at refs/heads/master,
// a format-version config, a description stub, and the objects/ and refs/
// trees. It fails if a .git/ directory already exists.
func Init(path string) (*Repo, error) {
	gitDir := filepath.Join(path, ".git")

	if _, err := os.Stat(gitDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gitDir)
	}

	dirs := []string{
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
		filepath.Join(gitDir, "branches"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/master\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}
	if err := os.WriteFile(
		filepath.Join(gitDir, "description"),
		[]byte("Unnamed repository; edit this file 'description' to name the repository.\n"),
		0o644,
	); err != nil {
		return nil, fmt.Errorf("init: write description: %w", err)
	}

	cfg := ini.Empty()
	core, err := cfg.NewSection("core")
	if err != nil {
		return nil, fmt.Errorf("init: config: %w", err)
	}
	core.NewKey("repositoryformatversion", "0")
	core.NewKey("filemode", "false")
	core.NewKey("bare", "false")
	if err := cfg.SaveTo(filepath.Join(gitDir, "config")); err != nil {
		return nil, fmt.Errorf("init: write config: %w", err)
	}

	return &Repo{
		RootDir: path,
		GitDir:  gitDir,
		Store:   object.NewStore(gitDir),
	}, nil
}

// Open searches upward from path for a .git/ directory and opens the
// repository, rejecting unsupported repository format versions.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, ".git")
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			r := &Repo{
				RootDir: cur,
				GitDir:  gitDir,
				Store:   object.NewStore(gitDir),
			}
			if err := r.checkFormatVersion(); err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a lit repository (or any parent up to /)")
		}
		cur = parent
	}
}

func (r *Repo) checkFormatVersion() error {
	cfgPath := filepath.Join(r.GitDir, "config")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return nil
	}
	cfg, err := ini.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if v := cfg.Section("core").Key("repositoryformatversion").MustInt(0); v != 0 {
		return fmt.Errorf("unsupported repositoryformatversion %d", v)
	}
	return nil
}

// indexPath returns the filesystem path to the binary index file.
func (r *Repo) indexPath() string {
	return filepath.Join(r.GitDir, "index")
}

// repoRelPath converts a path (absolute, or relative to the CWD) into a
// slash-separated path relative to the repository root.
func (r *Repo) repoRelPath(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(p) {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.ToSlash(filepath.Clean(p)), nil
		}
		abs = filepath.Join(cwd, p)
	}

	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil || len(rel) >= 2 && rel[:2] == ".." {
		// Outside the root: treat the original as already repo-relative.
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	return filepath.ToSlash(rel), nil
}
