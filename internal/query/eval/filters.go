package eval

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/instafind/core/api"
	"github.com/instafind/core/internal/query/filters"
	"github.com/instafind/core/internal/query/parser"
	"github.com/instafind/core/internal/tree"
)

func (e *evaluator) evalFilter(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	switch n.FilterName {
	case "ext":
		return e.evalExt(n, base)
	case "regex":
		return e.evalRegex(n, base)
	case "folder", "parent":
		return e.evalFolder(n, base, false)
	case "infolder":
		return e.evalFolder(n, base, true)
	case "nosubfolders":
		return e.evalNoSubfolders(n, base)
	case "size":
		return e.evalSize(n, base)
	case "dm":
		return e.evalDate(n, base, func(md *nodeMeta) int64 { return md.MTime })
	case "dc":
		return e.evalDate(n, base, func(md *nodeMeta) int64 { return md.CTime })
	case "tag":
		return e.evalTag(n, base)
	case "type":
		return e.evalType(n, base, "", true)
	case "doc", "video", "audio", "exe", "picture":
		return e.evalType(n, base, n.FilterName, false)
	default:
		return nil, false, &FilterArgumentError{Filter: n.FilterName, Msg: "unknown filter"}
	}
}

// argBareList returns the set of bare candidates an argument names,
// treating ArgBare as a one-element list and ArgList as itself.
func argBareList(arg *parser.Argument) ([]string, bool) {
	if arg == nil {
		return nil, false
	}
	switch arg.Kind {
	case parser.ArgBare:
		return []string{arg.Bare}, true
	case parser.ArgList:
		return arg.List, true
	default:
		return nil, false
	}
}

func (e *evaluator) evalExt(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	exts, ok := argBareList(n.Arg)
	if !ok || len(exts) == 0 {
		return nil, false, &FilterArgumentError{Filter: "ext", Msg: "expects an extension or ';'-separated list"}
	}
	out, cancelled := e.scanBase(base, func(id tree.NodeId) bool {
		return filters.MatchesExtension(e.ix.Name(id), exts)
	})
	if cancelled {
		return nil, true, nil
	}
	return out, false, nil
}

func (e *evaluator) evalRegex(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	if n.Arg == nil || n.Arg.Kind != parser.ArgBare {
		return nil, false, &FilterArgumentError{Filter: "regex", Msg: "expects a single pattern"}
	}
	pattern := n.Arg.Bare
	if e.opts.CaseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, false, &FilterArgumentError{Filter: "regex", Msg: err.Error()}
	}
	out, cancelled := e.scanBase(base, func(id tree.NodeId) bool {
		return re.MatchString(e.ix.Name(id))
	})
	if cancelled {
		return nil, true, nil
	}
	return out, false, nil
}

// evalFolder resolves the filter's path argument to a node and collects
// either its direct children (recursive=false) or its whole subtree
// (recursive=true, "infolder:"), intersected with base.
func (e *evaluator) evalFolder(n *parser.Node, base *roaring.Bitmap, recursive bool) (*roaring.Bitmap, bool, error) {
	if n.Arg == nil || n.Arg.Kind != parser.ArgBare {
		return nil, false, &FilterArgumentError{Filter: n.FilterName, Msg: "expects a path"}
	}
	id, ok := e.resolvePath(n.Arg.Bare)
	if !ok {
		return roaring.New(), false, nil
	}
	out := roaring.New()
	if recursive {
		e.collectSubtree(id, out)
	} else {
		for _, c := range e.ix.Children(id) {
			out.Add(uint32(c))
		}
	}
	out.And(base)
	return out, false, nil
}

func (e *evaluator) collectSubtree(id tree.NodeId, out *roaring.Bitmap) {
	for _, c := range e.ix.Children(id) {
		out.Add(uint32(c))
		e.collectSubtree(c, out)
	}
}

func (e *evaluator) evalNoSubfolders(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	if n.Arg == nil || n.Arg.Kind != parser.ArgBare {
		return nil, false, &FilterArgumentError{Filter: "nosubfolders", Msg: "expects a path"}
	}
	id, ok := e.resolvePath(n.Arg.Bare)
	if !ok {
		return roaring.New(), false, nil
	}
	out := roaring.New()
	for _, c := range e.ix.Children(id) {
		if e.isDir(c) {
			continue
		}
		out.Add(uint32(c))
	}
	out.And(base)
	return out, false, nil
}

// isDir reports whether id is a directory, using file_type_hint so this
// never forces a metadata stat (spec.md's "type-only filters... use
// file_type_hint without triggering disk I/O").
func (e *evaluator) isDir(id tree.NodeId) bool {
	node, ok := e.ix.Get(id)
	if !ok {
		return false
	}
	return node.FileTypeHint == api.Dir
}

// resolvePath resolves a filter's bare path argument against the index
// root, accepting both absolute paths and paths relative to it.
func (e *evaluator) resolvePath(p string) (tree.NodeId, bool) {
	if !strings.HasPrefix(p, "/") && !strings.Contains(p, ":") {
		p = e.ix.RootPath() + "/" + p
	}
	return e.ix.NodeForPath(p)
}

// nodeMeta is an alias for the hydrated metadata type, named locally so
// filter predicates read in terms of "the metadata a filter needs" rather
// than the api package directly.
type nodeMeta = api.NodeMetadata

// hydrate returns id's metadata, using the index's already-stored value
// if present and falling back to a single lazy mc.Ensure stat otherwise
// (spec.md §4.3's one-stat-per-node cap). Returns nil if metadata is
// absent and mc is nil or the stat failed.
func (e *evaluator) hydrate(id tree.NodeId) *nodeMeta {
	node, ok := e.ix.Get(id)
	if !ok {
		return nil
	}
	if node.Metadata != nil {
		return node.Metadata
	}
	if e.mc == nil {
		return nil
	}
	md, ok := e.mc.Ensure(id)
	if !ok {
		return nil
	}
	return md
}

func (e *evaluator) evalSize(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	pred, err := compileSizePredicate(n.Arg)
	if err != nil {
		return nil, false, err
	}
	out, cancelled := e.scanBase(base, func(id tree.NodeId) bool {
		md := e.hydrate(id)
		if md == nil {
			return false
		}
		return pred(md.Size)
	})
	if cancelled {
		return nil, true, nil
	}
	return out, false, nil
}

func compileSizePredicate(arg *parser.Argument) (func(uint64) bool, error) {
	if arg == nil {
		return nil, &FilterArgumentError{Filter: "size", Msg: "expects a size, range, comparison, or keyword"}
	}
	switch arg.Kind {
	case parser.ArgBare:
		if lo, hi, hasUpper, ok := filters.SizeKeywordRange(arg.Bare); ok {
			return func(s uint64) bool {
				if s < lo {
					return false
				}
				return !hasUpper || s <= hi
			}, nil
		}
		n, err := filters.ParseSize(arg.Bare)
		if err != nil {
			return nil, &FilterArgumentError{Filter: "size", Msg: err.Error()}
		}
		return func(s uint64) bool { return s == n }, nil
	case parser.ArgRange:
		var lo, hi uint64
		hasLo, hasHi := arg.RangeLo != nil, arg.RangeHi != nil
		if hasLo {
			v, err := filters.ParseSize(*arg.RangeLo)
			if err != nil {
				return nil, &FilterArgumentError{Filter: "size", Msg: err.Error()}
			}
			lo = v
		}
		if hasHi {
			v, err := filters.ParseSize(*arg.RangeHi)
			if err != nil {
				return nil, &FilterArgumentError{Filter: "size", Msg: err.Error()}
			}
			hi = v
		}
		return func(s uint64) bool {
			if hasLo && s < lo {
				return false
			}
			if hasHi && s > hi {
				return false
			}
			return true
		}, nil
	case parser.ArgComparison:
		v, err := filters.ParseSize(arg.CompVal)
		if err != nil {
			return nil, &FilterArgumentError{Filter: "size", Msg: err.Error()}
		}
		return compareUint(arg.CompOp, v)
	default:
		return nil, &FilterArgumentError{Filter: "size", Msg: "unsupported argument shape"}
	}
}

func compareUint(op string, v uint64) (func(uint64) bool, error) {
	switch op {
	case ">":
		return func(s uint64) bool { return s > v }, nil
	case ">=":
		return func(s uint64) bool { return s >= v }, nil
	case "<":
		return func(s uint64) bool { return s < v }, nil
	case "<=":
		return func(s uint64) bool { return s <= v }, nil
	case "=":
		return func(s uint64) bool { return s == v }, nil
	case "!=":
		return func(s uint64) bool { return s != v }, nil
	default:
		return nil, &FilterArgumentError{Filter: "size", Msg: "unknown comparison operator " + strconv.Quote(op)}
	}
}

func (e *evaluator) evalDate(n *parser.Node, base *roaring.Bitmap, field func(*nodeMeta) int64) (*roaring.Bitmap, bool, error) {
	pred, err := compileDatePredicate(n.Arg)
	if err != nil {
		return nil, false, &FilterArgumentError{Filter: n.FilterName, Msg: err.Error()}
	}
	out, cancelled := e.scanBase(base, func(id tree.NodeId) bool {
		md := e.hydrate(id)
		if md == nil {
			return false
		}
		return pred(field(md))
	})
	if cancelled {
		return nil, true, nil
	}
	return out, false, nil
}

func compileDatePredicate(arg *parser.Argument) (func(int64) bool, error) {
	if arg == nil {
		return nil, errDateArg
	}
	now := time.Now()
	switch arg.Kind {
	case parser.ArgBare:
		if lo, hi, ok := filters.DateRange(arg.Bare, now); ok {
			return func(ts int64) bool {
				t := time.Unix(ts, 0)
				return !t.Before(lo) && t.Before(hi)
			}, nil
		}
		d, err := filters.ParseDateLiteral(arg.Bare)
		if err != nil {
			return nil, err
		}
		hi := d.AddDate(0, 0, 1)
		return func(ts int64) bool {
			t := time.Unix(ts, 0)
			return !t.Before(d) && t.Before(hi)
		}, nil
	case parser.ArgRange:
		var lo, hi time.Time
		hasLo, hasHi := arg.RangeLo != nil, arg.RangeHi != nil
		if hasLo {
			d, err := filters.ParseDateLiteral(*arg.RangeLo)
			if err != nil {
				return nil, err
			}
			lo = d
		}
		if hasHi {
			d, err := filters.ParseDateLiteral(*arg.RangeHi)
			if err != nil {
				return nil, err
			}
			hi = d.AddDate(0, 0, 1)
		}
		return func(ts int64) bool {
			t := time.Unix(ts, 0)
			if hasLo && t.Before(lo) {
				return false
			}
			if hasHi && !t.Before(hi) {
				return false
			}
			return true
		}, nil
	case parser.ArgComparison:
		d, err := filters.ParseDateLiteral(arg.CompVal)
		if err != nil {
			return nil, err
		}
		return compareTime(arg.CompOp, d)
	default:
		return nil, errDateArg
	}
}

var errDateArg = &FilterArgumentError{Filter: "dm/dc", Msg: "expects a date, range, comparison, or keyword"}

func compareTime(op string, d time.Time) (func(int64) bool, error) {
	next := d.AddDate(0, 0, 1)
	switch op {
	case ">":
		return func(ts int64) bool { return !time.Unix(ts, 0).Before(next) }, nil
	case ">=":
		return func(ts int64) bool { return !time.Unix(ts, 0).Before(d) }, nil
	case "<":
		return func(ts int64) bool { return time.Unix(ts, 0).Before(d) }, nil
	case "<=":
		return func(ts int64) bool { return time.Unix(ts, 0).Before(next) }, nil
	case "=":
		return func(ts int64) bool {
			t := time.Unix(ts, 0)
			return !t.Before(d) && t.Before(next)
		}, nil
	case "!=":
		return func(ts int64) bool {
			t := time.Unix(ts, 0)
			return t.Before(d) || !t.Before(next)
		}, nil
	default:
		return nil, &FilterArgumentError{Filter: "dm/dc", Msg: "unknown comparison operator " + strconv.Quote(op)}
	}
}

func (e *evaluator) evalTag(n *parser.Node, base *roaring.Bitmap) (*roaring.Bitmap, bool, error) {
	wants, ok := argBareList(n.Arg)
	if !ok || len(wants) == 0 {
		return nil, false, &FilterArgumentError{Filter: "tag", Msg: "expects a tag or ';'-separated list"}
	}
	out, cancelled := e.scanBase(base, func(id tree.NodeId) bool {
		md := e.hydrate(id)
		if md == nil {
			return false
		}
		for _, want := range wants {
			for _, tag := range md.Tags {
				if equalFold(tag, want, e.opts.CaseInsensitive) {
					return true
				}
			}
		}
		return false
	})
	if cancelled {
		return nil, true, nil
	}
	return out, false, nil
}

// evalType handles both "type:C" (category comes from the argument,
// explicitNamedArg is true) and the "doc:"/"video:"/... family (category
// is the filter's own name; an optional argument is an extra bare-term
// AND-ed on top), per spec.md §7.
func (e *evaluator) evalType(n *parser.Node, base *roaring.Bitmap, fixedCategory string, explicitNamedArg bool) (*roaring.Bitmap, bool, error) {
	category := fixedCategory
	extraTerm := ""
	if explicitNamedArg {
		if n.Arg == nil || n.Arg.Kind != parser.ArgBare {
			return nil, false, &FilterArgumentError{Filter: "type", Msg: "expects a category name"}
		}
		category = n.Arg.Bare
	} else if n.Arg != nil && n.Arg.Kind == parser.ArgBare {
		extraTerm = n.Arg.Bare
	}
	exts, ok := filters.TypeExtensions(category)
	if !ok {
		return nil, false, &FilterArgumentError{Filter: "type", Msg: "unknown category " + strconv.Quote(category)}
	}
	out, cancelled := e.scanBase(base, func(id tree.NodeId) bool {
		name := e.ix.Name(id)
		if !filters.MatchesExtension(name, exts) {
			return false
		}
		if extraTerm == "" {
			return true
		}
		return containsFold(name, extraTerm, e.opts.CaseInsensitive)
	})
	if cancelled {
		return nil, true, nil
	}
	return out, false, nil
}

func equalFold(a, b string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func containsFold(s, sub string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}
	return strings.Contains(s, sub)
}
