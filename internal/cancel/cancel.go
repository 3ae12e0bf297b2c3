// Package cancel implements the cooperative query-cancellation model of
// spec.md §5: a single process-wide ACTIVE_SEARCH_VERSION counter and a
// Token carrying the version it was issued at. A token reports cancelled
// once a newer query has been issued.
//
// This narrows the teacher's internal/control.Controller — an mmap'd,
// cross-process generation counter meant to let a second process detect
// an arena flip — down to a single in-process atomic, since spec.md §5
// only requires in-process cooperative cancellation, not cross-process
// coordination.
package cancel

import "sync/atomic"

// Versioner issues Tokens and tracks the globally active version.
// ACTIVE_SEARCH_VERSION, per spec.md §9's "the only legitimate
// process-wide datum", lives here rather than as a package-level var so
// tests can run in isolation.
type Versioner struct {
	active atomic.Uint64
}

// NewVersioner returns a fresh, independent version counter.
func NewVersioner() *Versioner {
	return &Versioner{}
}

// Issue increments the active version and returns a Token for it. Any
// Token issued by an earlier call is now cancelled.
func (v *Versioner) Issue() *Token {
	n := v.active.Add(1)
	return &Token{v: v, version: n}
}

// Token is handed to one query's evaluator.
type Token struct {
	v       *Versioner
	version uint64
}

// IsCancelled reports whether a newer query has since been issued.
func (t *Token) IsCancelled() bool {
	if t == nil {
		return false
	}
	return t.version < t.v.active.Load()
}

// Noop returns a Token that never reports cancelled, for callers that
// don't need cancellation (e.g. index build, snapshot load).
func Noop() *Token {
	return nil
}
