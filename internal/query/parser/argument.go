package parser

import "github.com/instafind/core/internal/query/lexer"

// compOps is checked longest-first so "<=" isn't shadowed by "<".
var compOps = []string{">=", "<=", "!=", ">", "<", "="}

// parseArgument consumes a filter argument per spec.md §4.5's
// list/range/comparison/bare classification. Returns nil when there is
// nothing to read (e.g. "ext:" at end of input) — the caller (Filter)
// stores that as a colon with no argument.
func parseArgument(sc *lexer.Scanner) *Argument {
	for _, op := range compOps {
		if sc.HasPrefix(op) {
			for range op {
				sc.Next()
			}
			val := sc.ReadToken()
			return &Argument{Kind: ArgComparison, CompOp: op, CompVal: val}
		}
	}

	first := sc.ReadToken()

	if sc.HasPrefix("..") {
		sc.Next()
		sc.Next()
		hi := sc.ReadToken()
		arg := &Argument{Kind: ArgRange}
		if first != "" {
			lo := first
			arg.RangeLo = &lo
		}
		if hi != "" {
			h := hi
			arg.RangeHi = &h
		}
		return arg
	}

	if r, ok := sc.Peek(); ok && r == ';' {
		list := []string{first}
		for {
			r, ok := sc.Peek()
			if !ok || r != ';' {
				break
			}
			sc.Next()
			next := sc.ReadToken()
			if next == "" {
				break
			}
			list = append(list, next)
		}
		return &Argument{Kind: ArgList, List: list}
	}

	if first == "" {
		return nil
	}
	return &Argument{Kind: ArgBare, Bare: first}
}
