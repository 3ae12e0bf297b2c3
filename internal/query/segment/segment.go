// Package segment compiles a path-like filter argument into a sequence
// of per-segment matchers, per spec.md §4.7. A segment is Substr,
// Prefix, Suffix, Exact, or the literal "**" GlobStar, each compiled to
// either a plain string comparison or a regex (case-insensitive mode,
// or the segment contains a wildcard).
//
// Compile-once caching follows the same idiom as the teacher's
// internal/ingest/sitter_walker.go callQueryCache sync.Map: a Matcher is
// built once per filter argument and reused across every candidate path.
package segment

import (
	"regexp"
	"strings"
)

// Kind identifies a compiled segment's matching strategy.
type Kind int

const (
	// Substr matches if the segment appears anywhere in the path part.
	Substr Kind = iota
	// Prefix anchors the segment to the start of the path part.
	Prefix
	// Suffix anchors the segment to the end of the path part.
	Suffix
	// Exact requires the whole path part to equal the segment.
	Exact
	// GlobStar ("**") matches zero or more intermediate path segments.
	GlobStar
)

// Segment is one compiled unit of a path matcher.
type Segment struct {
	Kind Kind
	// Literal is the case-sensitive comparison string, used when Re is
	// nil.
	Literal string
	// Re is non-nil when case-insensitive mode or a wildcard forced
	// regex compilation.
	Re *regexp.Regexp
}

// Matcher is a compiled path argument: a sequence of Segments to be
// matched against a candidate path split on '/'.
type Matcher struct {
	Segments []Segment
}

// Compile splits arg on '/' and derives each segment's anchoring per
// spec.md §4.7, then compiles each to a literal or regex matcher.
func Compile(arg string, caseInsensitive bool) *Matcher {
	hasLeadingSlash := strings.HasPrefix(arg, "/")
	hasTrailingSlash := strings.HasSuffix(arg, "/") && len(arg) > 1
	parts := strings.Split(strings.Trim(arg, "/"), "/")
	if len(parts) == 1 && parts[0] == "" {
		parts = nil
	}

	segs := make([]Segment, 0, len(parts))
	for i, p := range parts {
		if p == "**" {
			segs = append(segs, Segment{Kind: GlobStar})
			continue
		}
		kind := classify(i, len(parts), hasLeadingSlash, hasTrailingSlash)
		segs = append(segs, compileSegment(p, kind, caseInsensitive))
	}
	return &Matcher{Segments: segs}
}

// classify derives a segment's anchoring from its position and whether
// the whole argument carried a leading/trailing slash, per spec.md §4.7.
// A single segment is Substr with no slashes, Prefix with only a leading
// slash, Suffix with only a trailing slash, and Exact with both. In a
// multi-part path a leading slash anchors the first segment as Exact (the
// path's start is pinned, nothing can precede it) while no leading slash
// leaves the open start to match as a Suffix of its path part;
// symmetrically a trailing slash anchors the last segment as Exact and no
// trailing slash leaves it as a Prefix; interior segments are always
// Exact.
func classify(i, n int, leading, trailing bool) Kind {
	if n == 1 {
		switch {
		case leading && trailing:
			return Exact
		case leading:
			return Prefix
		case trailing:
			return Suffix
		default:
			return Substr
		}
	}
	isFirst := i == 0
	isLast := i == n-1
	if isFirst {
		if leading {
			return Exact
		}
		return Suffix
	}
	if isLast {
		if trailing {
			return Exact
		}
		return Prefix
	}
	return Exact
}

// compileSegment turns literal text for kind into a Segment, choosing a
// regex when case-insensitive matching or a wildcard is present.
func compileSegment(lit string, kind Kind, caseInsensitive bool) Segment {
	hasWildcard := strings.ContainsAny(lit, "*?")
	if !caseInsensitive && !hasWildcard {
		return Segment{Kind: kind, Literal: lit}
	}
	pattern := wildcardToRegex(lit, kind)
	flags := ""
	if caseInsensitive {
		flags = "(?i)"
	}
	re := regexp.MustCompile(flags + pattern)
	return Segment{Kind: kind, Re: re}
}

// wildcardToRegex translates '*'->'.*', '?'->'.', escapes every other
// metacharacter, and anchors per kind: "^...$" for Exact, "^..." for
// Prefix, "...$" for Suffix, unanchored for Substr.
func wildcardToRegex(lit string, kind Kind) string {
	var b strings.Builder
	for _, r := range lit {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	body := b.String()
	switch kind {
	case Exact:
		return "^" + body + "$"
	case Prefix:
		return "^" + body
	case Suffix:
		return body + "$"
	default:
		return body
	}
}

// MatchSegment reports whether part (one path component) satisfies s.
func MatchSegment(s Segment, part string, caseInsensitive bool) bool {
	if s.Re != nil {
		return s.Re.MatchString(part)
	}
	p, lit := part, s.Literal
	if caseInsensitive {
		p, lit = strings.ToLower(p), strings.ToLower(lit)
	}
	switch s.Kind {
	case Exact:
		return p == lit
	case Prefix:
		return strings.HasPrefix(p, lit)
	case Suffix:
		return strings.HasSuffix(p, lit)
	default:
		return strings.Contains(p, lit)
	}
}

// Match reports whether path (already split on '/') satisfies m, with
// "**" consuming zero or more intermediate segments per standard glob
// semantics.
func (m *Matcher) Match(pathParts []string, caseInsensitive bool) bool {
	return matchFrom(m.Segments, pathParts, caseInsensitive)
}

func matchFrom(segs []Segment, parts []string, caseInsensitive bool) bool {
	if len(segs) == 0 {
		return len(parts) == 0
	}
	if segs[0].Kind == GlobStar {
		for skip := 0; skip <= len(parts); skip++ {
			if matchFrom(segs[1:], parts[skip:], caseInsensitive) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	if !MatchSegment(segs[0], parts[0], caseInsensitive) {
		return false
	}
	return matchFrom(segs[1:], parts[1:], caseInsensitive)
}
