package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/ini.v1"
)

// Identity construction is the only config the core needs: user.name and
// user.email, merged from the global config files and the repository's own
// config (repository values win, per the usual precedence).

// userConfigPaths returns the candidate global config files, lowest
// precedence first.
func userConfigPaths() []string {
	var paths []string

	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		if home, err := os.UserHomeDir(); err == nil {
			xdg = filepath.Join(home, ".config")
		}
	}
	if xdg != "" {
		paths = append(paths, filepath.Join(xdg, "git", "config"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".gitconfig"))
	}
	return paths
}

// UserIdentity returns "Name <email>" from configuration. Missing name or
// email is an error: commits must carry a real identity.
func (r *Repo) UserIdentity() (string, error) {
	sources := userConfigPaths()
	sources = append(sources, filepath.Join(r.GitDir, "config"))

	// LooseLoad skips files that do not exist; later files override.
	loose := make([]interface{}, len(sources))
	for i, s := range sources {
		loose[i] = s
	}
	cfg, err := ini.LooseLoad(loose[0], loose[1:]...)
	if err != nil {
		return "", fmt.Errorf("user identity: %w", err)
	}

	user := cfg.Section("user")
	name := user.Key("name").String()
	email := user.Key("email").String()
	if name == "" || email == "" {
		return "", fmt.Errorf("user identity: user.name and user.email must be configured")
	}
	return fmt.Sprintf("%s <%s>", name, email), nil
}

// SetUser writes user.name and user.email into the repository config.
func (r *Repo) SetUser(name, email string) error {
	path := filepath.Join(r.GitDir, "config")
	cfg, err := ini.LooseLoad(path)
	if err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	user := cfg.Section("user")
	user.Key("name").SetValue(name)
	user.Key("email").SetValue(email)
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

// FormatSignature renders an identity line the way commit and tag headers
// expect it: "name <email> timestamp timezone".
func FormatSignature(identity string, t time.Time) string {
	return fmt.Sprintf("%s %d %s", identity, t.Unix(), formatTimezoneOffset(t))
}

func formatTimezoneOffset(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	return fmt.Sprintf("%s%02d%02d", sign, hours, minutes)
}
