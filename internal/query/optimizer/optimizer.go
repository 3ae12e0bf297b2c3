// Package optimizer normalizes a parser.Node AST into canonical form per
// spec.md §4.6: flattening, NOT folding, OR's empty-poison propagation,
// and metadata-filter tail reordering. The rewrite-to-fixed-point style
// follows the teacher's internal/lattice/closure.go NextClosure idiom,
// generalized from concept-lattice closure to AST canonicalization.
package optimizer

import "github.com/instafind/core/internal/query/parser"

// metadataFilters names the filters that require fetching metadata (a
// stat call) rather than just the already-resident name/extension, per
// spec.md §4.6: dm/dc compare mtime/ctime, size compares size_bytes, tag
// compares the platform tag list.
var metadataFilters = map[string]bool{
	"size": true,
	"dm":   true,
	"dc":   true,
	"tag":  true,
}

// Normalize rewrites n into canonical form:
//   - AND(x) -> x; AND() -> empty
//   - OR(x) -> x; OR(..., empty, ...) -> empty
//   - NOT(NOT(x)) -> x
//   - adjacent AND/AND and OR/OR nodes flatten into one n-ary node
//   - within each AND, metadata-carrying filters move to the tail,
//     stably: non-metadata operands keep their relative order, as do
//     the metadata operands among themselves
//
// The tail reordering is applied at every AND node produced by
// flattening, not only the AST's root: the same pruning benefit (cheap
// filters narrow the candidate set before a metadata fetch) holds at any
// nesting depth a group or filter argument introduces.
func Normalize(n *parser.Node) *parser.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case parser.KindNot:
		return normalizeNot(n)
	case parser.KindAnd:
		return normalizeAnd(n)
	case parser.KindOr:
		return normalizeOr(n)
	default:
		return n
	}
}

func normalizeNot(n *parser.Node) *parser.Node {
	inner := Normalize(n.Operand)
	if inner.Kind == parser.KindNot {
		return inner.Operand
	}
	return &parser.Node{Kind: parser.KindNot, Operand: inner}
}

func normalizeAnd(n *parser.Node) *parser.Node {
	flat := flattenChildren(n.Children, parser.KindAnd)

	if len(flat) == 0 {
		return &parser.Node{Kind: parser.KindEmpty}
	}
	if len(flat) == 1 {
		return flat[0]
	}

	return &parser.Node{Kind: parser.KindAnd, Children: reorderMetadataTail(flat)}
}

func normalizeOr(n *parser.Node) *parser.Node {
	flat := flattenChildren(n.Children, parser.KindOr)

	for _, c := range flat {
		if c.Kind == parser.KindEmpty {
			return &parser.Node{Kind: parser.KindEmpty}
		}
	}

	if len(flat) == 0 {
		return &parser.Node{Kind: parser.KindEmpty}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &parser.Node{Kind: parser.KindOr, Children: flat}
}

// flattenChildren normalizes each child and splices in the children of
// any child that itself normalized to the same kind. An AND elides a
// child that normalizes to Empty instead of keeping it (spec.md §4.6:
// "a (b||c) d" normalizes to "a AND d", not an AND carrying a literal
// empty operand) — OR's own empty-poison handling happens in
// normalizeOr, after this returns, so Empty children are left in place
// there.
func flattenChildren(children []*parser.Node, kind parser.Kind) []*parser.Node {
	var flat []*parser.Node
	for _, c := range children {
		nc := Normalize(c)
		if nc.Kind == parser.KindEmpty && kind == parser.KindAnd {
			continue
		}
		if nc.Kind == kind {
			flat = append(flat, nc.Children...)
		} else {
			flat = append(flat, nc)
		}
	}
	return flat
}

// reorderMetadataTail stably partitions children into non-metadata
// operands followed by metadata operands, per spec.md §4.6.
func reorderMetadataTail(children []*parser.Node) []*parser.Node {
	plain := make([]*parser.Node, 0, len(children))
	meta := make([]*parser.Node, 0, len(children))
	for _, c := range children {
		if c.Kind == parser.KindFilter && metadataFilters[c.FilterName] {
			meta = append(meta, c)
		} else {
			plain = append(plain, c)
		}
	}
	return append(plain, meta...)
}
