package parser

import "testing"

func mustParse(t *testing.T, text string) *Node {
	t.Helper()
	n, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", text, err)
	}
	return n
}

func TestParse_EmptyStringIsMatchAll(t *testing.T) {
	n := mustParse(t, "")
	if n.Kind != KindMatchAll {
		t.Fatalf("Kind = %v, want KindMatchAll", n.Kind)
	}
	n = mustParse(t, "   ")
	if n.Kind != KindMatchAll {
		t.Fatalf("Kind = %v, want KindMatchAll for whitespace-only", n.Kind)
	}
}

func TestParse_BareWord(t *testing.T) {
	n := mustParse(t, "report")
	if n.Kind != KindTerm || n.Text != "report" || n.IsPhrase {
		t.Fatalf("got %+v", n)
	}
}

func TestParse_Phrase(t *testing.T) {
	n := mustParse(t, `"quarterly report"`)
	if n.Kind != KindTerm || n.Text != "quarterly report" || !n.IsPhrase {
		t.Fatalf("got %+v", n)
	}
}

func TestParse_UnterminatedPhraseErrors(t *testing.T) {
	_, err := Parse(`"unterminated`)
	if err == nil {
		t.Fatal("expected error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if pe.Msg != "unterminated phrase" {
		t.Fatalf("Msg = %q", pe.Msg)
	}
}

func TestParse_ImplicitAndViaSpace(t *testing.T) {
	n := mustParse(t, "foo bar")
	if n.Kind != KindAnd || len(n.Children) != 2 {
		t.Fatalf("got %+v", n)
	}
	if n.Children[0].Text != "foo" || n.Children[1].Text != "bar" {
		t.Fatalf("got %+v", n.Children)
	}
}

func TestParse_ExplicitAndKeyword(t *testing.T) {
	n := mustParse(t, "foo AND bar")
	if n.Kind != KindAnd || len(n.Children) != 2 {
		t.Fatalf("got %+v", n)
	}
}

func TestParse_OrPipeAndKeyword(t *testing.T) {
	n := mustParse(t, "foo|bar OR baz")
	if n.Kind != KindOr || len(n.Children) != 3 {
		t.Fatalf("got %+v", n)
	}
}

func TestParse_OrBindsLooserThanAnd(t *testing.T) {
	n := mustParse(t, "a b|c")
	if n.Kind != KindOr || len(n.Children) != 2 {
		t.Fatalf("got %+v", n)
	}
	left := n.Children[0]
	if left.Kind != KindAnd || len(left.Children) != 2 {
		t.Fatalf("left = %+v, want AND(a,b)", left)
	}
}

func TestParse_NotBang(t *testing.T) {
	n := mustParse(t, "!foo")
	if n.Kind != KindNot {
		t.Fatalf("got %+v", n)
	}
	if n.Operand.Text != "foo" {
		t.Fatalf("operand = %+v", n.Operand)
	}
}

func TestParse_NotKeyword(t *testing.T) {
	n := mustParse(t, "NOT foo")
	if n.Kind != KindNot || n.Operand.Text != "foo" {
		t.Fatalf("got %+v", n)
	}
}

func TestParse_DoubleNegationNesting(t *testing.T) {
	n := mustParse(t, "!!foo")
	if n.Kind != KindNot {
		t.Fatalf("outer kind = %v", n.Kind)
	}
	if n.Operand.Kind != KindNot {
		t.Fatalf("expected nested NOT, got %+v", n.Operand)
	}
	if n.Operand.Operand.Text != "foo" {
		t.Fatalf("innermost = %+v", n.Operand.Operand)
	}
}

func TestParse_ParenGroupOverridesPrecedence(t *testing.T) {
	n := mustParse(t, "(a|b) c")
	if n.Kind != KindAnd || len(n.Children) != 2 {
		t.Fatalf("got %+v", n)
	}
	if n.Children[0].Kind != KindOr {
		t.Fatalf("left child = %+v, want OR", n.Children[0])
	}
}

func TestParse_AngleGroup(t *testing.T) {
	n := mustParse(t, "<a|b>")
	if n.Kind != KindOr || len(n.Children) != 2 {
		t.Fatalf("got %+v", n)
	}
}

func TestParse_UnmatchedParenErrors(t *testing.T) {
	_, err := Parse("(a b")
	if err == nil {
		t.Fatal("expected error")
	}
	pe := err.(*ParseError)
	if pe.Msg != "unmatched (" {
		t.Fatalf("Msg = %q", pe.Msg)
	}
}

func TestParse_UnmatchedCloseParenErrors(t *testing.T) {
	_, err := Parse("a)")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_EmptyAlternativePoisons(t *testing.T) {
	n := mustParse(t, "a||b")
	if n.Kind != KindOr || len(n.Children) != 3 {
		t.Fatalf("got %+v", n)
	}
	if n.Children[1].Kind != KindEmpty {
		t.Fatalf("middle child = %+v, want KindEmpty", n.Children[1])
	}
}

func TestParse_EmptyParens(t *testing.T) {
	n := mustParse(t, "()")
	if n.Kind != KindEmpty {
		t.Fatalf("got %+v, want KindEmpty", n)
	}
}

func TestParse_FilterBare(t *testing.T) {
	n := mustParse(t, "ext:jpg")
	if n.Kind != KindFilter || n.FilterName != "ext" {
		t.Fatalf("got %+v", n)
	}
	if n.Arg == nil || n.Arg.Kind != ArgBare || n.Arg.Bare != "jpg" {
		t.Fatalf("arg = %+v", n.Arg)
	}
}

func TestParse_FilterList(t *testing.T) {
	n := mustParse(t, "ext:jpg;png")
	if n.Arg == nil || n.Arg.Kind != ArgList {
		t.Fatalf("arg = %+v", n.Arg)
	}
	if len(n.Arg.List) != 2 || n.Arg.List[0] != "jpg" || n.Arg.List[1] != "png" {
		t.Fatalf("list = %+v", n.Arg.List)
	}
}

func TestParse_FilterRange(t *testing.T) {
	n := mustParse(t, "size:1..10")
	if n.Arg == nil || n.Arg.Kind != ArgRange {
		t.Fatalf("arg = %+v", n.Arg)
	}
	if n.Arg.RangeLo == nil || *n.Arg.RangeLo != "1" {
		t.Fatalf("lo = %v", n.Arg.RangeLo)
	}
	if n.Arg.RangeHi == nil || *n.Arg.RangeHi != "10" {
		t.Fatalf("hi = %v", n.Arg.RangeHi)
	}
}

func TestParse_FilterOpenRange(t *testing.T) {
	n := mustParse(t, "size:..10")
	if n.Arg.RangeLo != nil {
		t.Fatalf("lo = %v, want nil", n.Arg.RangeLo)
	}
	if n.Arg.RangeHi == nil || *n.Arg.RangeHi != "10" {
		t.Fatalf("hi = %v", n.Arg.RangeHi)
	}
}

func TestParse_FilterComparison(t *testing.T) {
	n := mustParse(t, "size:>=10kb")
	if n.Arg == nil || n.Arg.Kind != ArgComparison {
		t.Fatalf("arg = %+v", n.Arg)
	}
	if n.Arg.CompOp != ">=" || n.Arg.CompVal != "10kb" {
		t.Fatalf("got op=%q val=%q", n.Arg.CompOp, n.Arg.CompVal)
	}
}

func TestParse_FilterNoArgument(t *testing.T) {
	n := mustParse(t, "ext:")
	if n.Kind != KindFilter || n.FilterName != "ext" {
		t.Fatalf("got %+v", n)
	}
	if n.Arg != nil {
		t.Fatalf("arg = %+v, want nil", n.Arg)
	}
}

func TestParse_FilterFollowedByNotWithoutSpaceIsAnError(t *testing.T) {
	// The grammar requires an explicit separator (space or 'AND')
	// between `not` operands; "!" directly abutting a filter value with
	// no separator leaves it unconsumed.
	_, err := Parse("ext:jpg!photo")
	if err == nil {
		t.Fatal("expected trailing-garbage error")
	}
}

func TestParse_AndThenNotWithSpace(t *testing.T) {
	n := mustParse(t, "ext:jpg !photo")
	if n.Kind != KindAnd || len(n.Children) != 2 {
		t.Fatalf("got %+v", n)
	}
	if n.Children[1].Kind != KindNot {
		t.Fatalf("second child = %+v", n.Children[1])
	}
}

func TestParse_WordContainingDot(t *testing.T) {
	n := mustParse(t, "report.bin")
	if n.Kind != KindTerm || n.Text != "report.bin" {
		t.Fatalf("got %+v", n)
	}
}

func TestParse_OrKeywordIsRecognizedOnlyAsStandaloneToken(t *testing.T) {
	// "order" starts with no keyword collision, but "ORder" must not be
	// mistaken for the OR keyword since it isn't a standalone token.
	n := mustParse(t, "ORder")
	if n.Kind != KindTerm || n.Text != "ORder" {
		t.Fatalf("got %+v", n)
	}
}
