// Package eval implements the Query Evaluator of spec.md §4.8: it walks
// an optimized parser.Node AST over roaring.Bitmap candidate sets,
// applying AND/OR/NOT set algebra, embedded filter primitives, dedup,
// highlight collection, and cooperative cancellation.
//
// The bitmap algebra generalizes the teacher's internal/graph/graph.go
// path-keyed bitmaps (fileToNodes, GetCallers) from "one key -> bitmap"
// lookups to full boolean composition over arbitrary AST shapes.
package eval

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/instafind/core/internal/cancel"
	"github.com/instafind/core/internal/metacache"
	"github.com/instafind/core/internal/query/optimizer"
	"github.com/instafind/core/internal/query/parser"
	"github.com/instafind/core/internal/tree"
)

// cancelQuantum is the suggested work budget between cancellation checks
// (spec.md §4.8: "every 65,536 iterations of any inner loop").
const cancelQuantum = 65536

// Options controls query-wide evaluation behavior.
type Options struct {
	CaseInsensitive bool
}

// Outcome is the result of one Search call. Nodes is nil iff Cancelled.
type Outcome struct {
	Nodes      []tree.NodeId
	Cancelled  bool
	Highlights []string
}

// FilterArgumentError reports a filter whose argument could not be used
// (missing, malformed, or naming an unknown keyword/category), per
// spec.md §7.
type FilterArgumentError struct {
	Filter string
	Msg    string
}

func (e *FilterArgumentError) Error() string {
	return fmt.Sprintf("query: filter %q: %s", e.Filter, e.Msg)
}

// Search parses queryText, normalizes it, and evaluates it against ix.
// mc may be nil; when non-nil it lazily hydrates metadata for nodes a
// metadata-carrying filter needs but the index hasn't stat'd yet (spec.md
// §5's "per-node cap of one stat call").
func Search(ix *tree.Index, mc *metacache.Cache, queryText string, opts Options, tok *cancel.Token) (Outcome, error) {
	ast, err := parser.Parse(queryText)
	if err != nil {
		return Outcome{}, err
	}
	norm := optimizer.Normalize(ast)

	e := &evaluator{ix: ix, mc: mc, opts: opts, tok: tok, seenHighlight: map[string]bool{}}

	base := ix.AllIds()
	result, cancelled, err := e.eval(norm, base)
	if err != nil {
		return Outcome{}, err
	}
	if cancelled {
		return Outcome{Cancelled: true}, nil
	}

	// Bitmap set algebra already guarantees no duplicates; ascending NodeId
	// order stands in for "natural encounter order" since nothing downstream
	// of a set union/intersection remembers which operand first produced an
	// id.
	nodes := make([]tree.NodeId, 0, result.GetCardinality())
	it := result.Iterator()
	for it.HasNext() {
		nodes = append(nodes, tree.NodeId(it.Next()))
	}
	return Outcome{Nodes: nodes, Highlights: e.highlights}, nil
}

// evaluator holds the per-search mutable state: the highlight set (in
// first-encountered order) and the shared cancellation token.
type evaluator struct {
	ix   *tree.Index
	mc   *metacache.Cache
	opts Options
	tok  *cancel.Token

	highlights    []string
	seenHighlight map[string]bool
}

func (e *evaluator) addHighlight(text string) {
	if e.seenHighlight[text] {
		return
	}
	e.seenHighlight[text] = true
	e.highlights = append(e.highlights, text)
}

// eval evaluates n within the universe of base, returning a subset of
// base. Every branch honors that contract so composition needs no extra
// intersection step.
func (e *evaluator) eval(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	if e.tok.IsCancelled() {
		return nil, true, nil
	}
	switch n.Kind {
	case parser.KindMatchAll:
		return base.Clone(), false, nil
	case parser.KindEmpty:
		return roaring.New(), false, nil
	case parser.KindAnd:
		return e.evalAnd(n, base)
	case parser.KindOr:
		return e.evalOr(n, base)
	case parser.KindNot:
		return e.evalNot(n, base)
	case parser.KindFilter:
		return e.evalFilter(n, base)
	case parser.KindTerm:
		return e.evalTerm(n, base)
	default:
		return roaring.New(), false, nil
	}
}

func (e *evaluator) evalAnd(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	cur := base
	for _, c := range n.Children {
		if cur.IsEmpty() {
			break
		}
		sub, cancelled, err := e.eval(c, cur)
		if err != nil {
			return nil, false, err
		}
		if cancelled {
			return nil, true, nil
		}
		cur = sub
	}
	return cur, false, nil
}

func (e *evaluator) evalOr(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	acc := roaring.New()
	for _, c := range n.Children {
		sub, cancelled, err := e.eval(c, base)
		if err != nil {
			return nil, false, err
		}
		if cancelled {
			return nil, true, nil
		}
		acc.Or(sub)
	}
	return acc, false, nil
}

func (e *evaluator) evalNot(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	sub, cancelled, err := e.eval(n.Operand, base)
	if err != nil {
		return nil, false, err
	}
	if cancelled {
		return nil, true, nil
	}
	out := base.Clone()
	out.AndNot(sub)
	return out, false, nil
}

// scanBase iterates base's ids, calling pred for each and collecting the
// matches, polling cancellation every cancelQuantum iterations.
func (e *evaluator) scanBase(base *roaring.Bitmap, pred func(tree.NodeId) bool) (*roaring.Bitmap, bool) {
	out := roaring.New()
	it := base.Iterator()
	n := 0
	for it.HasNext() {
		id := tree.NodeId(it.Next())
		n++
		if n%cancelQuantum == 0 && e.tok.IsCancelled() {
			return nil, true
		}
		if pred(id) {
			out.Add(uint32(id))
		}
	}
	return out, false
}
