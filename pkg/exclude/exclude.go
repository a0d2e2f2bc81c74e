// Package exclude filters source paths out of a build using gitignore-style
// patterns given on the command line or read from a pattern file.
package exclude

import (
	"bufio"
	"os"
	"path"
	"strings"
)

type rule struct {
	glob     string
	keep     bool
	dirOnly  bool
	anchored bool
}

// Set is an ordered list of exclusion rules. The last rule that matches a
// path decides whether it is excluded. A nil Set excludes nothing.
type Set struct {
	rules []rule
}

// New builds a Set from patterns. Blank lines and lines starting with "#"
// are skipped, a leading "!" re-includes, a trailing "/" restricts the rule
// to directories, and a pattern containing "/" is matched against the whole
// relative path instead of single path components. Within such a pattern a
// "**" segment spans any number of directories. Character classes and "?"
// follow path.Match.
func New(patterns ...string) *Set {
	s := &Set{}
	s.Add(patterns...)
	return s
}

// ReadFile appends the patterns in file, one per line.
func (s *Set) ReadFile(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	s.Add(lines...)
	return nil
}

func (s *Set) Add(patterns ...string) {
	for _, raw := range patterns {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r := rule{}
		if strings.HasPrefix(line, "!") {
			r.keep = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		line = strings.TrimPrefix(line, "/")
		if line == "" {
			continue
		}
		r.anchored = strings.Contains(line, "/")
		r.glob = line
		s.rules = append(s.rules, r)
	}
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Excluded reports whether relPath, slash-separated and relative to the build
// root, should be left out.
func (s *Set) Excluded(relPath string, isDir bool) bool {
	if s.Len() == 0 {
		return false
	}

	relPath = strings.TrimPrefix(path.Clean(relPath), "./")
	excluded := false
	for _, r := range s.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.matches(relPath) {
			excluded = !r.keep
		}
	}
	return excluded
}

// ExcludedPath reports whether relPath or any directory above it is
// excluded. relPath is treated as a file.
func (s *Set) ExcludedPath(relPath string) bool {
	if s.Len() == 0 {
		return false
	}
	relPath = strings.TrimPrefix(path.Clean(relPath), "./")
	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		if s.Excluded(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return s.Excluded(relPath, false)
}

func (r rule) matches(relPath string) bool {
	if r.anchored {
		return matchSegments(strings.Split(r.glob, "/"), strings.Split(relPath, "/"))
	}
	for _, part := range strings.Split(relPath, "/") {
		if matched, _ := path.Match(r.glob, part); matched {
			return true
		}
	}
	return false
}

// matchSegments matches a slash-split glob against a slash-split path. A "**"
// segment matches zero or more whole path segments.
func matchSegments(glob, parts []string) bool {
	for len(glob) > 0 {
		if glob[0] == "**" {
			rest := glob[1:]
			for i := 0; i <= len(parts); i++ {
				if matchSegments(rest, parts[i:]) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		if matched, _ := path.Match(glob[0], parts[0]); !matched {
			return false
		}
		glob, parts = glob[1:], parts[1:]
	}
	return len(parts) == 0
}
