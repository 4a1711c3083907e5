package lexer

import (
	"strings"
	"testing"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

func tokensEqual(a, b []ast.Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func render(tokens []ast.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	return strings.Join(parts, " ")
}

func lexOne(t *testing.T, src string) []ast.Token {
	t.Helper()
	lines := LexString(src)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line for %q, got %d:\n%s", src, len(lines), ast.Dump(lines))
	}
	return lines[0].Tokens
}

func TestLexTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []ast.Token
	}{
		{"unsigned int", "5", []ast.Token{ast.UInt("5")}},
		{"signed int", "-5", []ast.Token{ast.Int("-5")}},
		{"unsigned float", "5.25", []ast.Token{ast.UFloat("5.25")}},
		{"signed float", "-5.25", []ast.Token{ast.Float("-5.25")}},
		{"rational", "1//2", []ast.Token{ast.NewToken(ast.KindRational, "1//2")}},
		{"minus after value is binary", "a -5", []ast.Token{ast.Word("a"), ast.Op(ast.KindMinus), ast.UInt("5")}},
		{"minus after operator is a sign", "x = -5", []ast.Token{ast.Word("x"), ast.Op(ast.KindEquals), ast.Int("-5")}},
		{"link", "a.b.c", []ast.Token{ast.Link("a.b.c")}},
		{"trailing dot is not a link", "a.", []ast.Token{ast.Word("a"), ast.Op(ast.KindDot)}},
		{"bools", "true false", []ast.Token{ast.Bool(true), ast.Bool(false)}},
		{"result type", "f -> UInt", []ast.Token{ast.Word("f"), ast.Op(ast.KindPointer), ast.Word("UInt")}},
		{"compound operators", "a += 1", []ast.Token{ast.Word("a"), ast.Op(ast.KindPlusEquals), ast.UInt("1")}},
		{"increment", "a ++", []ast.Token{ast.Word("a"), ast.Op(ast.KindDoublePlus)}},
		{"comparison", "a >= b != c", []ast.Token{
			ast.Word("a"), ast.Op(ast.KindGreaterThanOrEquals), ast.Word("b"), ast.Op(ast.KindNotEquals), ast.Word("c"),
		}},
		{"logic", "a & b | c ^ !d", []ast.Token{
			ast.Word("a"), ast.Op(ast.KindJoint), ast.Word("b"), ast.Op(ast.KindInclusion),
			ast.Word("c"), ast.Op(ast.KindExclusion), ast.Op(ast.KindDisjoint), ast.Word("d"),
		}},
		{"string", `"hi there"`, []ast.Token{ast.Str("hi there")}},
		{"char", `'x'`, []ast.Token{ast.Char("x")}},
		{"raw string keeps escapes", "`a\\nb`", []ast.Token{ast.NewToken(ast.KindRawString, `a\nb`)}},
		{"multi-char char literal", `'ab'`, []ast.Token{ast.Empty()}},
		{"unterminated string", `"abc`, []ast.Token{ast.Empty()}},
		{"unicode word", "имя = 1", []ast.Token{ast.Word("имя"), ast.Op(ast.KindEquals), ast.UInt("1")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := lexOne(t, tc.src)
			if !tokensEqual(got, tc.want) {
				t.Fatalf("lex %q:\n got %s\nwant %s", tc.src, render(got), render(tc.want))
			}
		})
	}
}

func TestLexEscapedQuotes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"one backslash escapes", `"a\"b"`, `a"b`},
		{"two backslashes close", `"a\\"`, `a\`},
		{"three backslashes escape", `"a\\\"b"`, `a\"b`},
		{"newline escape", `"a\nb"`, "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := lexOne(t, tc.src)
			if len(got) != 1 || !got[0].Is(ast.KindString) || got[0].Data() != tc.want {
				t.Fatalf("lex %s: got %s, want String(%q)", tc.src, render(got), tc.want)
			}
		})
	}
}

func TestLexFormattedMerge(t *testing.T) {
	got := lexOne(t, `f"n = {n}"`)
	want := []ast.Token{ast.NewToken(ast.KindFormattedString, "n = {n}")}
	if !tokensEqual(got, want) {
		t.Fatalf("got %s, want %s", render(got), render(want))
	}

	got = lexOne(t, "f`{a}`")
	if len(got) != 1 || !got[0].Is(ast.KindFormattedRawString) {
		t.Fatalf("expected formatted raw string, got %s", render(got))
	}

	got = lexOne(t, `f "x"`)
	want = []ast.Token{ast.Word("f"), ast.Str("x")}
	if !tokensEqual(got, want) {
		t.Fatalf("separated f must not merge: got %s", render(got))
	}
}

func TestLexBrackets(t *testing.T) {
	got := lexOne(t, "a(b[c]{d})")
	want := []ast.Token{
		ast.Word("a"),
		ast.Parens(ast.Word("b"), ast.Index(ast.Word("c")), ast.NewGroup(ast.KindFigureBrackets, []ast.Token{ast.Word("d")})),
	}
	if !tokensEqual(got, want) {
		t.Fatalf("got %s\nwant %s", render(got), render(want))
	}

	got = lexOne(t, "((a))")
	want = []ast.Token{ast.Parens(ast.Parens(ast.Word("a")))}
	if !tokensEqual(got, want) {
		t.Fatalf("got %s\nwant %s", render(got), render(want))
	}

	got = lexOne(t, "a) b")
	want = []ast.Token{ast.Word("a"), ast.Word("b")}
	if !tokensEqual(got, want) {
		t.Fatalf("unmatched closer should be dropped, got %s", render(got))
	}

	got = lexOne(t, "()")
	if len(got) != 1 || !got[0].Is(ast.KindCircleBrackets) || len(got[0].Nested()) != 0 || !got[0].HasNested() {
		t.Fatalf("expected empty group, got %s", render(got))
	}
}

func TestLexBracketsLeaveNoMatchedPairs(t *testing.T) {
	var check func(tokens []ast.Token)
	check = func(tokens []ast.Token) {
		for _, tok := range tokens {
			switch tok.Kind() {
			case ast.KindCircleBracketEnd, ast.KindSquareBracketEnd, ast.KindFigureBracketEnd:
				t.Fatalf("raw closer survived nesting: %s", render(tokens))
			}
			check(tok.Nested())
		}
	}
	for _, src := range []string{"a(b(c)d)e", "[1, [2, (3)]]", "{a]}", "x(y]z)"} {
		for _, line := range LexString(src) {
			check(line.Tokens)
		}
	}
}

func TestLexIndentation(t *testing.T) {
	src := "a\n  b\n    c\n  d\ne\n"
	lines := LexString(src)
	want := "Word(a)\n  Word(b)\n    Word(c)\n  Word(d)\nWord(e)\n"
	if got := ast.Dump(lines); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if lines[0].Lines[1].Parent() != lines[0] {
		t.Fatalf("child parent pointer not set")
	}
	if lines[0].Parent() != nil {
		t.Fatalf("top-level line should have no parent")
	}
}

func TestLexIndentationChildrenAreDeeper(t *testing.T) {
	src := "a\n    b\n  c\n      d\n e\nf"
	var walk func(lines []*ast.Line)
	walk = func(lines []*ast.Line) {
		for _, line := range lines {
			for _, child := range line.Lines {
				if child.Indent <= line.Indent {
					t.Fatalf("child indent %d not deeper than parent %d", child.Indent, line.Indent)
				}
			}
			walk(line.Lines)
		}
	}
	walk(LexString(src))
}

func TestLexSemicolonKeepsIndent(t *testing.T) {
	lines := LexString("a\n  b; c\n")
	if len(lines) != 1 || len(lines[0].Lines) != 2 {
		t.Fatalf("unexpected tree:\n%s", ast.Dump(lines))
	}
	for _, child := range lines[0].Lines {
		if child.Indent != 2 {
			t.Fatalf("expected indent 2, got %d", child.Indent)
		}
	}
}

func TestLexBlankLinesDropped(t *testing.T) {
	lines := LexString("a\n\n   \n;;\nb")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got:\n%s", ast.Dump(lines))
	}
}

func TestLexComments(t *testing.T) {
	tokens := lexOne(t, "x = 1 # trailing")
	if len(tokens) != 3 {
		t.Fatalf("trailing comment not removed: %s", render(tokens))
	}

	lines := LexString("# header\n  x = 1\n  y = 2\nz = 3")
	want := "Word(x) Equals UInt(1)\nWord(y) Equals UInt(2)\nWord(z) Equals UInt(3)\n"
	if got := ast.Dump(lines); got != want {
		t.Fatalf("comment-only parent should splice children:\n%s", got)
	}
	for _, line := range lines {
		if line.Parent() != nil {
			t.Fatalf("spliced line kept a parent")
		}
	}
}

func TestLexIsDeterministic(t *testing.T) {
	src := "main\n  a = (1 + 2) * 3\n  print(f\"{a}\") # out\n"
	first := ast.Dump(LexString(src))
	second := ast.Dump(LexString(src))
	if first != second {
		t.Fatalf("lexing is not deterministic:\n%s\n%s", first, second)
	}
}
