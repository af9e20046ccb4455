package syntax

import (
	"bufio"
	"strings"
	"testing"

	"kaso/report"

	"github.com/google/go-cmp/cmp"
)

// lexAll lexes src through to the end of input.  The EOF token is not
// included in the result.
func lexAll(t *testing.T, src string) []*Token {
	t.Helper()

	l := NewLexer(bufio.NewReader(strings.NewReader(src)))

	var toks []*Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken on %q: %v", src, err)
		}

		if tok.Kind == TOK_EOF {
			return toks
		}

		toks = append(toks, tok)
	}
}

func kindNames(toks []*Token) []string {
	var names []string
	for _, tok := range toks {
		names = append(names, KindName(tok.Kind))
	}
	return names
}

var lexerTests = []struct {
	src   string
	kinds []string
}{
	{"3 > 4;", []string{"Number", "OpGreat", "Number", "Semicolon"}},
	{"def foo(x y) x+foo(y, 4.0);", []string{
		"Def", "Identifier", "LeftParen", "Identifier", "Identifier", "RightParen",
		"Identifier", "OpAdd", "Identifier", "LeftParen", "Identifier", "Comma",
		"Number", "RightParen", "Semicolon",
	}},
	{"def foo(x y) x+y y;", []string{
		"Def", "Identifier", "LeftParen", "Identifier", "Identifier", "RightParen",
		"Identifier", "OpAdd", "Identifier", "Identifier", "Semicolon",
	}},
	{"extern sin(a);", []string{"Extern", "Identifier", "LeftParen", "Identifier", "RightParen", "Semicolon"}},
	{"def foo(x y) x+y );", []string{
		"Def", "Identifier", "LeftParen", "Identifier", "Identifier", "RightParen",
		"Identifier", "OpAdd", "Identifier", "RightParen", "Semicolon",
	}},
	{"def binary || 5 (lhs rhs) if lhs then 1 else if rhs then 1 else 0;", []string{
		"Def", "Binary", "OpLogicOr", "Number", "LeftParen", "Identifier",
		"Identifier", "RightParen", "If", "Identifier", "Then", "Number",
		"Else", "If", "Identifier", "Then", "Number", "Else", "Number", "Semicolon",
	}},
	{"def binary||5(lhs rhs)if lhs then 1 else if rhs then 1 else 0;", []string{
		"Def", "Binary", "OpLogicOr", "Number", "LeftParen", "Identifier",
		"Identifier", "RightParen", "If", "Identifier", "Then", "Number",
		"Else", "If", "Identifier", "Then", "Number", "Else", "Number", "Semicolon",
	}},
	{"def binary : 1 (x y) 0;", []string{
		"Def", "Binary", "OpColon", "Number", "LeftParen", "Identifier",
		"Identifier", "RightParen", "Number", "Semicolon",
	}},
	{"def unary!(v) if v then 0 else 1;", []string{
		"Def", "Unary", "OpNegate", "LeftParen", "Identifier", "RightParen",
		"If", "Identifier", "Then", "Number", "Else", "Number", "Semicolon",
	}},
	{"for i = 1, i < 5 in i", []string{
		"For", "Identifier", "OpAssign", "Number", "Comma", "Identifier",
		"OpLess", "Number", "In", "Identifier",
	}},
	{"a == b >= c <= d && e", []string{
		"Identifier", "OpEQ", "Identifier", "OpGE", "Identifier", "OpLE",
		"Identifier", "OpLogicAnd", "Identifier",
	}},
	{"a != b", []string{"Identifier", "OpNegate", "OpAssign", "Identifier"}},
	{"-x / y * z", []string{"OpSub", "Identifier", "OpDiv", "Identifier", "OpMul", "Identifier"}},
	{"a & b", []string{"Identifier", "Error", "Identifier"}},
	{"a | b", []string{"Identifier", "Error", "Identifier"}},
	{"a $ b", []string{"Identifier", "Error", "Identifier"}},
	{"h\u00e9llo", []string{"Identifier", "Error", "Identifier"}},
	{"\u03bb(x)", []string{"Error", "LeftParen", "Identifier", "RightParen"}},
	{"x # a comment ; def\ny", []string{"Identifier", "Identifier"}},
	{"# only a comment", nil},
	{"", nil},
}

func TestLexer(t *testing.T) {
	for _, test := range lexerTests {
		got := kindNames(lexAll(t, test.src))
		if diff := cmp.Diff(test.kinds, got); diff != "" {
			t.Errorf("lexing %q (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestLexerRoundTrip(t *testing.T) {
	for _, test := range lexerTests {
		toks := lexAll(t, test.src)
		relexed := lexAll(t, FormatTokens(toks))

		if diff := cmp.Diff(kindNames(toks), kindNames(relexed)); diff != "" {
			t.Errorf("round trip of %q changed kinds (-want +got):\n%s", test.src, diff)
		}

		for i := range toks {
			if toks[i].Value != relexed[i].Value {
				t.Errorf("round trip of %q: token %d is %q, want %q", test.src, i, relexed[i].Value, toks[i].Value)
			}
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"4", 4},
		{"4.0", 4},
		{"0.25", 0.25},
		{".5", 0.5},
		{"1.", 1},
		{"1.2.3", 1.2},
		{".", 0},
		{"..", 0},
	}

	for _, test := range tests {
		toks := lexAll(t, test.src)
		if len(toks) != 1 || toks[0].Kind != TOK_NUMBER {
			t.Errorf("lexing %q: got %v, want a single number", test.src, kindNames(toks))
			continue
		}

		if toks[0].Value != test.src {
			t.Errorf("lexing %q: token text is %q", test.src, toks[0].Value)
		}

		if toks[0].Num != test.want {
			t.Errorf("lexing %q: value is %v, want %v", test.src, toks[0].Num, test.want)
		}
	}
}

func TestLexerSpans(t *testing.T) {
	toks := lexAll(t, "def foo\n  (x) <= 10")

	want := []*report.TextSpan{
		{StartLine: 0, StartCol: 0, EndLine: 0, EndCol: 2},
		{StartLine: 0, StartCol: 4, EndLine: 0, EndCol: 6},
		{StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 2},
		{StartLine: 1, StartCol: 3, EndLine: 1, EndCol: 3},
		{StartLine: 1, StartCol: 4, EndLine: 1, EndCol: 4},
		{StartLine: 1, StartCol: 6, EndLine: 1, EndCol: 7},
		{StartLine: 1, StartCol: 9, EndLine: 1, EndCol: 10},
	}

	got := make([]*report.TextSpan, len(toks))
	for i, tok := range toks {
		got[i] = tok.Span
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token spans (-want +got):\n%s", diff)
	}
}

func TestLexerEOFRepeats(t *testing.T) {
	l := NewLexer(bufio.NewReader(strings.NewReader("x")))

	for i, want := range []int{TOK_IDENT, TOK_EOF, TOK_EOF} {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken %d: %v", i, err)
		}

		if tok.Kind != want {
			t.Errorf("token %d is %s, want %s", i, KindName(tok.Kind), KindName(want))
		}
	}
}
