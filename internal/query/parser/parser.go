package parser

import (
	"strings"

	"github.com/instafind/core/internal/query/lexer"
)

// Parse parses text into an AST per spec.md §4.5. The literal empty (or
// all-whitespace) string is a special case: it parses to KindMatchAll,
// not the grammar's "empty expression" poison (KindEmpty), per spec.md
// §8 ("empty query returns all node ids" — the opposite of what an
// empty alternative inside e.g. "a||b" means).
func Parse(text string) (*Node, error) {
	if strings.TrimSpace(text) == "" {
		return &Node{Kind: KindMatchAll}, nil
	}
	sc := lexer.New(text)
	n, err := parseOr(sc)
	if err != nil {
		return nil, err
	}
	sc.SkipSpaces()
	if !sc.Eof() {
		r, _ := sc.Peek()
		return nil, &ParseError{Offset: sc.Pos(), Msg: unexpectedMsg(r)}
	}
	return n, nil
}

func unexpectedMsg(r rune) string {
	switch r {
	case ')':
		return "unmatched )"
	case '>':
		return "unmatched >"
	default:
		return "unexpected character"
	}
}

func emptyNode() *Node { return &Node{Kind: KindEmpty} }

// atBoundary reports, without consuming, whether the scanner sits at a
// position where no further "and" operand can be parsed: end of input,
// a group closer, an OR separator, or the literal "OR" keyword. Used to
// detect an empty alternative (e.g. the second "|" in "a||b", or "()").
func atBoundary(sc *lexer.Scanner) bool {
	save := sc.Pos()
	defer sc.Seek(save)
	sc.SkipSpaces()
	if sc.Eof() {
		return true
	}
	r, _ := sc.Peek()
	switch r {
	case ')', '>', '|':
		return true
	}
	return matchKeyword(sc, "OR")
}

// matchKeyword reports whether kw appears at sc's current position as a
// standalone token (immediately followed by whitespace, EOF, or a
// special character), consuming it if so. Keywords are case-sensitive.
func matchKeyword(sc *lexer.Scanner, kw string) bool {
	if !sc.HasPrefix(kw) {
		return false
	}
	save := sc.Pos()
	for range kw {
		sc.Next()
	}
	if r, ok := sc.Peek(); ok && !lexer.IsSpecial(r) {
		sc.Seek(save)
		return false
	}
	return true
}

func parseOr(sc *lexer.Scanner) (*Node, error) {
	first, err := orOperand(sc)
	if err != nil {
		return nil, err
	}
	children := []*Node{first}

	for {
		sc.SkipSpaces()
		if sc.Eof() {
			break
		}
		if r, _ := sc.Peek(); r == '|' {
			sc.Next()
		} else if matchKeyword(sc, "OR") {
			// consumed
		} else {
			break
		}

		operand, err := orOperand(sc)
		if err != nil {
			return nil, err
		}
		children = append(children, operand)
	}

	if len(children) == 1 {
		return children[0], nil
	}
	return &Node{Kind: KindOr, Children: children}, nil
}

func orOperand(sc *lexer.Scanner) (*Node, error) {
	sc.SkipSpaces()
	if atBoundary(sc) {
		return emptyNode(), nil
	}
	return parseAnd(sc)
}

func parseAnd(sc *lexer.Scanner) (*Node, error) {
	first, err := parseNot(sc)
	if err != nil {
		return nil, err
	}
	children := []*Node{first}

	for {
		savePos := sc.Pos()
		sc.SkipSpaces()
		skippedSpace := sc.Pos() != savePos

		if sc.Eof() {
			break
		}
		if r, _ := sc.Peek(); r == ')' || r == '>' || r == '|' {
			sc.Seek(savePos)
			break
		}
		if matchKeyword(sc, "OR") {
			sc.Seek(savePos)
			break
		}

		if matchKeyword(sc, "AND") {
			// explicit separator, consumed; fall through to parse next.
		} else if !skippedSpace {
			sc.Seek(savePos)
			break
		}

		next, err := parseNot(sc)
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return children[0], nil
	}
	return &Node{Kind: KindAnd, Children: children}, nil
}

func parseNot(sc *lexer.Scanner) (*Node, error) {
	negations := 0
	for {
		sc.SkipSpaces()
		if r, ok := sc.Peek(); ok && r == '!' {
			sc.Next()
			negations++
			continue
		}
		save := sc.Pos()
		if matchKeyword(sc, "NOT") {
			negations++
			continue
		}
		sc.Seek(save)
		break
	}

	atom, err := parseAtom(sc)
	if err != nil {
		return nil, err
	}
	for i := 0; i < negations; i++ {
		atom = &Node{Kind: KindNot, Operand: atom}
	}
	return atom, nil
}

func parseAtom(sc *lexer.Scanner) (*Node, error) {
	sc.SkipSpaces()
	if sc.Eof() {
		return nil, &ParseError{Offset: sc.Pos(), Msg: "expected a term"}
	}

	r, _ := sc.Peek()
	switch r {
	case '(':
		return parseGroup(sc, '(', ')')
	case '<':
		return parseGroup(sc, '<', '>')
	default:
		return parseFilterOrTerm(sc)
	}
}

func parseGroup(sc *lexer.Scanner, open, close rune) (*Node, error) {
	openPos := sc.Pos()
	sc.Next()

	inner, err := parseOr(sc)
	if err != nil {
		return nil, err
	}
	sc.SkipSpaces()
	r, ok := sc.Peek()
	if !ok || r != close {
		return nil, &ParseError{Offset: openPos, Msg: "unmatched " + string(open)}
	}
	sc.Next()
	return inner, nil
}

func parseFilterOrTerm(sc *lexer.Scanner) (*Node, error) {
	r, _ := sc.Peek()
	if r == '"' {
		return parsePhrase(sc)
	}

	identStart := sc.Pos()
	ident := sc.ReadIdent()
	if ident != "" {
		if r, ok := sc.Peek(); ok && r == ':' {
			sc.Next()
			arg := parseArgument(sc)
			return &Node{Kind: KindFilter, FilterName: ident, Arg: arg}, nil
		}
	}
	sc.Seek(identStart)

	word := sc.ReadToken()
	if word == "" {
		return nil, &ParseError{Offset: sc.Pos(), Msg: "unexpected character"}
	}
	return &Node{Kind: KindTerm, Text: word}, nil
}

func parsePhrase(sc *lexer.Scanner) (*Node, error) {
	openPos := sc.Pos()
	sc.Next() // opening quote

	text := sc.ReadWhile(func(r rune) bool { return r != '"' })
	r, ok := sc.Peek()
	if !ok || r != '"' {
		return nil, &ParseError{Offset: openPos, Msg: "unterminated phrase"}
	}
	sc.Next()
	return &Node{Kind: KindTerm, Text: text, IsPhrase: true}, nil
}
