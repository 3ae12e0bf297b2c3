package eval

import (
	"path/filepath"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/instafind/core/internal/query/parser"
	"github.com/instafind/core/internal/query/segment"
	"github.com/instafind/core/internal/tree"
)

// evalTerm matches a bare word or quoted phrase against either the
// terminal name (no '/' in the text) or the full relative path (per
// spec.md §4.8's "a term containing a path separator matches against the
// full path, not just the name").
func (e *evaluator) evalTerm(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	matchFullPath := strings.Contains(n.Text, "/")
	m := segment.Compile(n.Text, e.opts.CaseInsensitive)

	matched := false
	out, cancelled := e.scanBase(base, func(id tree.NodeId) bool {
		var parts []string
		if matchFullPath {
			p, ok := e.ix.NodePath(id)
			if !ok {
				return false
			}
			rel, err := filepath.Rel(e.ix.RootPath(), p)
			if err != nil {
				return false
			}
			parts = strings.Split(rel, string(filepath.Separator))
		} else {
			parts = []string{e.ix.Name(id)}
		}
		ok := m.Match(parts, e.opts.CaseInsensitive)
		if ok {
			matched = true
		}
		return ok
	})
	if cancelled {
		return nil, true, nil
	}

	if matched && (n.IsPhrase || !containsWildcard(n.Text)) {
		e.addHighlight(n.Text)
	}
	return out, false, nil
}

func containsWildcard(s string) bool {
	return strings.ContainsAny(s, "*?")
}
