package repo

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreChecker answers whether a working-tree path is excluded from
// status and staging. Patterns come from .gitignore at the repository root
// and from .git/info/exclude; the repository directory itself is always
// excluded.
type IgnoreChecker struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	pattern  string
	negated  bool
	dirOnly  bool
	hasSlash bool // slash in the pattern means match the full relative path
	regex    *regexp.Regexp
}

// NewIgnoreChecker loads the exclusion patterns for the repository.
func (r *Repo) NewIgnoreChecker() *IgnoreChecker {
	ic := &IgnoreChecker{}
	ic.patterns = append(ic.patterns, ignorePattern{pattern: ".git"})

	ic.loadFile(filepath.Join(r.GitDir, "info", "exclude"))
	ic.loadFile(filepath.Join(r.RootDir, ".gitignore"))
	return ic
}

func (ic *IgnoreChecker) loadFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if p := parseIgnoreLine(scanner.Text()); p != nil {
			ic.patterns = append(ic.patterns, *p)
		}
	}
}

// parseIgnoreLine parses one pattern line. Blank lines and comments yield
// nil.
func parseIgnoreLine(line string) *ignorePattern {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	p := &ignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	p.hasSlash = strings.Contains(line, "/")
	p.pattern = line
	if strings.Contains(line, "**") {
		if re, err := regexp.Compile(globToRegex(line)); err == nil {
			p.regex = re
		}
	}
	return p
}

// IsIgnored reports whether the slash-separated repo-relative path matches
// the exclusion patterns. The last matching pattern wins, which is what
// makes negation work.
func (ic *IgnoreChecker) IsIgnored(path string) bool {
	path = filepath.ToSlash(path)

	ignored := false
	for i := range ic.patterns {
		if ic.patterns[i].matches(path) {
			ignored = !ic.patterns[i].negated
		}
	}
	return ignored
}

// matches checks one pattern against a relative path.
func (p *ignorePattern) matches(path string) bool {
	// Directory patterns (and the hardcoded .git) cover the directory and
	// everything under it.
	if p.dirOnly || p.pattern == ".git" {
		if path == p.pattern || strings.HasPrefix(path, p.pattern+"/") {
			return true
		}
	}
	if p.dirOnly {
		return false
	}

	if p.hasSlash {
		return p.match(path)
	}

	// No slash: the pattern applies to the basename at any depth.
	return p.match(filepath.Base(path))
}

func (p *ignorePattern) match(target string) bool {
	if p.regex != nil {
		return p.regex.MatchString(target)
	}
	matched, _ := filepath.Match(p.pattern, target)
	return matched
}

func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		if ch == '*' {
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					// Globstar segment: zero or more whole path segments.
					b.WriteString("(?:.*/)?")
					i += 2
				} else {
					b.WriteString(".*")
					i++
				}
				continue
			}
			b.WriteString("[^/]*")
			continue
		}
		if ch == '?' {
			b.WriteString("[^/]")
			continue
		}
		if strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)) {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	b.WriteString("$")
	return b.String()
}
