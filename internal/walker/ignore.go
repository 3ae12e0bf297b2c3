// Package walker implements the parallel directory traversal of spec.md
// §4.2: it builds a fresh tree.Index by descending the file system,
// honoring an ignore list and a cancellation token.
package walker

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreList decides whether a candidate path should be excluded from a
// walk. It combines two matching strategies: literal absolute-path
// prefixes (the form spec.md §2 names directly) and gitignore-style glob
// patterns, enriched from the go-git example in the pack so a caller can
// hand InstaFind a project's own .gitignore without translating it.
type IgnoreList struct {
	prefixes []string
	matcher  gitignore.Matcher
}

// NewIgnoreList builds an IgnoreList from a set of rules. A rule
// containing a gitignore metacharacter ('*', '?', '[', '!') is compiled
// as a gitignore pattern; anything else is treated as a literal absolute
// path prefix.
func NewIgnoreList(rules []string) *IgnoreList {
	l := &IgnoreList{}
	var patterns []gitignore.Pattern
	for _, r := range rules {
		if r == "" {
			continue
		}
		if strings.ContainsAny(r, "*?[!") {
			patterns = append(patterns, gitignore.ParsePattern(r, nil))
			continue
		}
		l.prefixes = append(l.prefixes, filepath.Clean(r))
	}
	l.matcher = gitignore.NewMatcher(patterns)
	return l
}

// Match reports whether absPath (and everything under it, when isDir)
// should be skipped.
func (l *IgnoreList) Match(absPath string, isDir bool) bool {
	if l == nil {
		return false
	}
	clean := filepath.Clean(absPath)
	for _, p := range l.prefixes {
		if clean == p || strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
	}
	segs := strings.Split(filepath.ToSlash(clean), "/")
	return l.matcher.Match(segs, isDir)
}
