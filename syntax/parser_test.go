package syntax

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"kaso/ast"
	"kaso/report"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var ignoreSpans = cmpopts.IgnoreUnexported(ast.ASTBase{})

func newTestParser(t *testing.T, src string, ops *OperatorTable) *Parser {
	t.Helper()

	p := NewParser(NewLexer(bufio.NewReader(strings.NewReader(src))), ops)
	if err := p.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	return p
}

func parseExpr(t *testing.T, src string, ops *OperatorTable) ast.Expr {
	t.Helper()

	expr, err := newTestParser(t, src, ops).ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression(%q): %v", src, err)
	}

	return expr
}

func num(v float64) ast.Expr {
	return &ast.NumberLit{Value: v}
}

func ref(name string) ast.Expr {
	return &ast.VariableRef{Name: name}
}

func binop(kind int, name string, lhs, rhs ast.Expr) ast.Expr {
	return &ast.BinaryOp{Op: ast.Oper{Kind: kind, Name: name}, Lhs: lhs, Rhs: rhs}
}

func unop(kind int, name string, operand ast.Expr) ast.Expr {
	return &ast.UnaryOp{Op: ast.Oper{Kind: kind, Name: name}, Operand: operand}
}

func add(lhs, rhs ast.Expr) ast.Expr { return binop(TOK_PLUS, "+", lhs, rhs) }
func sub(lhs, rhs ast.Expr) ast.Expr { return binop(TOK_MINUS, "-", lhs, rhs) }
func mul(lhs, rhs ast.Expr) ast.Expr { return binop(TOK_STAR, "*", lhs, rhs) }
func lt(lhs, rhs ast.Expr) ast.Expr  { return binop(TOK_LT, "<", lhs, rhs) }
func lor(lhs, rhs ast.Expr) ast.Expr { return binop(TOK_LOR, "||", lhs, rhs) }

// syntaxError returns the message of a syntax error.
func syntaxError(t *testing.T, err error) string {
	t.Helper()

	var cerr *report.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected a compile error, got %v", err)
	}

	if cerr.Kind != report.KindSyntax {
		t.Errorf("error %q is a %s", cerr.Message, cerr.Kind)
	}

	return cerr.Message
}

// -----------------------------------------------------------------------------

func TestPrecedenceClimbing(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Expr
	}{
		{"1+2*3", add(num(1), mul(num(2), num(3)))},
		{"1*2+3", add(mul(num(1), num(2)), num(3))},
		{"1-2-3", sub(sub(num(1), num(2)), num(3))},
		{"1+2-3", sub(add(num(1), num(2)), num(3))},
		{"a < b + c", lt(ref("a"), add(ref("b"), ref("c")))},
		{"a + b < c * d", lt(add(ref("a"), ref("b")), mul(ref("c"), ref("d")))},
		{"1+2*3-4", sub(add(num(1), mul(num(2), num(3))), num(4))},
		{"(1+2)*3", mul(add(num(1), num(2)), num(3))},
		{"-x * 2", mul(unop(TOK_MINUS, "-", ref("x")), num(2))},
		{"-!x", unop(TOK_MINUS, "-", unop(TOK_NOT, "!", ref("x")))},
		{"!x + 1", add(unop(TOK_NOT, "!", ref("x")), num(1))},
		{"a - -b", sub(ref("a"), unop(TOK_MINUS, "-", ref("b")))},
	}

	for _, test := range tests {
		got := parseExpr(t, test.src, NewOperatorTable())
		if diff := cmp.Diff(test.want, got, ignoreSpans); diff != "" {
			t.Errorf("parsing %q (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestUserDefinedBinaryOperator(t *testing.T) {
	ops := NewOperatorTable()

	// Before the operator is defined, `||` ends the expression.
	p := newTestParser(t, "a || b;", ops)
	expr, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}

	if diff := cmp.Diff(ref("a"), expr, ignoreSpans); diff != "" {
		t.Errorf("parsing `a || b` before definition (-want +got):\n%s", diff)
	}

	if p.Tok().Kind != TOK_LOR {
		t.Errorf("parser stopped on %s, want OpLogicOr", KindName(p.Tok().Kind))
	}

	def, err := newTestParser(t, "def binary|| 5 (lhs rhs) if lhs then 1 else if rhs then 1 else 0;", ops).ParseDefinition()
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}

	if !def.Proto.IsBinaryOp() || def.Proto.Precedence != 5 {
		t.Fatalf("prototype %s is not a binary operator with precedence 5", def.Proto.Repr())
	}

	// Code generation installs the precedence of a lowered definition.
	ops.SetPrecedence(def.Proto.Op.Kind, def.Proto.Precedence)

	tests := []struct {
		src  string
		want ast.Expr
	}{
		{"a || b", lor(ref("a"), ref("b"))},
		{"a || b < c", lor(ref("a"), lt(ref("b"), ref("c")))},
		{"a < b || c", lor(lt(ref("a"), ref("b")), ref("c"))},
		{"a || b || c", lor(lor(ref("a"), ref("b")), ref("c"))},
	}

	for _, test := range tests {
		got := parseExpr(t, test.src, ops)
		if diff := cmp.Diff(test.want, got, ignoreSpans); diff != "" {
			t.Errorf("parsing %q (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestSinglePipeIsNotAnOperator(t *testing.T) {
	_, err := newTestParser(t, "def binary|5 (a b) a;", NewOperatorTable()).ParseDefinition()
	if msg := syntaxError(t, err); msg != "invalid binary operator" {
		t.Errorf("defining `|`: got error %q", msg)
	}
}

func TestParsePrototypes(t *testing.T) {
	tests := []struct {
		src  string
		want *ast.Prototype
	}{
		{"extern sin(a);", &ast.Prototype{Name: "sin", Params: []string{"a"}, Kind: ast.ProtoFunc}},
		{"extern rand();", &ast.Prototype{Name: "rand", Kind: ast.ProtoFunc}},
		{"extern binary : 1 (x y);", &ast.Prototype{
			Name:       "binary:",
			Params:     []string{"x", "y"},
			Kind:       ast.ProtoBinary,
			Op:         ast.Oper{Kind: TOK_COLON, Name: ":"},
			Precedence: 1,
		}},
		{"extern binary> (x y);", &ast.Prototype{
			Name:       "binary>",
			Params:     []string{"x", "y"},
			Kind:       ast.ProtoBinary,
			Op:         ast.Oper{Kind: TOK_GT, Name: ">"},
			Precedence: ast.DefaultBinaryPrecedence,
		}},
		{"extern unary!(v);", &ast.Prototype{
			Name:   "unary!",
			Params: []string{"v"},
			Kind:   ast.ProtoUnary,
			Op:     ast.Oper{Kind: TOK_NOT, Name: "!"},
		}},
		{"extern unary-(v);", &ast.Prototype{
			Name:   "unary-",
			Params: []string{"v"},
			Kind:   ast.ProtoUnary,
			Op:     ast.Oper{Kind: TOK_MINUS, Name: "-"},
		}},
	}

	for _, test := range tests {
		p := newTestParser(t, test.src, NewOperatorTable())

		got, err := p.ParseExtern()
		if err != nil {
			t.Errorf("ParseExtern(%q): %v", test.src, err)
			continue
		}

		if diff := cmp.Diff(test.want, got, ignoreSpans); diff != "" {
			t.Errorf("parsing %q (-want +got):\n%s", test.src, diff)
		}

		if p.Tok().Kind != TOK_SEMI {
			t.Errorf("parsing %q: parser stopped on %s", test.src, KindName(p.Tok().Kind))
		}
	}
}

func TestPrototypeErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"def 1(x) x;", "expected function name in prototype"},
		{"def foo x;", "expected '(' in prototype"},
		{"def foo(x, y) x;", "expected ')' in prototype"},
		{"def unary+(x) x;", "invalid unary operator"},
		{"def binary foo(x y) x;", "invalid binary operator"},
		{"def binary|| 0 (x y) x;", "invalid precedence: must be 1..100"},
		{"def binary|| 101 (x y) x;", "invalid precedence: must be 1..100"},
		{"def binary|| (x) x;", "invalid number of operands for operator"},
		{"def binary|| (x y z) x;", "invalid number of operands for operator"},
		{"def unary!(x y) x;", "invalid number of operands for operator"},
		{"def unary!() 0;", "invalid number of operands for operator"},
	}

	for _, test := range tests {
		_, err := newTestParser(t, test.src, NewOperatorTable()).ParseDefinition()
		if err == nil {
			t.Errorf("ParseDefinition(%q) succeeded", test.src)
			continue
		}

		if msg := syntaxError(t, err); msg != test.msg {
			t.Errorf("ParseDefinition(%q): got error %q, want %q", test.src, msg, test.msg)
		}
	}
}

func TestParseDefinition(t *testing.T) {
	def, err := newTestParser(t, "def foo(x y) x+foo(y, 4.0);", NewOperatorTable()).ParseDefinition()
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}

	want := &ast.FuncDef{
		Proto: &ast.Prototype{Name: "foo", Params: []string{"x", "y"}, Kind: ast.ProtoFunc},
		Body:  add(ref("x"), &ast.Call{Callee: "foo", Args: []ast.Expr{ref("y"), num(4)}}),
	}

	if diff := cmp.Diff(want, def, ignoreSpans); diff != "" {
		t.Errorf("ParseDefinition (-want +got):\n%s", diff)
	}
}

func TestParseTopLevelExpr(t *testing.T) {
	p := newTestParser(t, "def foo(x y) x+y );", NewOperatorTable())

	if _, err := p.ParseDefinition(); err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}

	_, err := p.ParseTopLevelExpr()
	if msg := syntaxError(t, err); msg != "unknown token when expecting an expression" {
		t.Errorf("ParseTopLevelExpr on `)`: got error %q", msg)
	}

	expr, err := newTestParser(t, "foo();", NewOperatorTable()).ParseTopLevelExpr()
	if err != nil {
		t.Fatalf("ParseTopLevelExpr: %v", err)
	}

	want := &ast.FuncDef{
		Proto: &ast.Prototype{Name: ast.AnonExprName, Kind: ast.ProtoFunc},
		Body:  &ast.Call{Callee: "foo"},
	}

	if diff := cmp.Diff(want, expr, ignoreSpans); diff != "" {
		t.Errorf("ParseTopLevelExpr (-want +got):\n%s", diff)
	}
}

func TestParseControlFlow(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Expr
	}{
		{"if x < 3 then 1 else fib(x-1)", &ast.IfExpr{
			Cond: lt(ref("x"), num(3)),
			Then: num(1),
			Else: &ast.Call{Callee: "fib", Args: []ast.Expr{sub(ref("x"), num(1))}},
		}},
		{"for i = 1, i < 5, 1 in i", &ast.ForExpr{
			VarName: "i",
			Start:   num(1),
			End:     lt(ref("i"), num(5)),
			Step:    num(1),
			Body:    ref("i"),
		}},
		{"for i = 0, i < n in putchard(42)", &ast.ForExpr{
			VarName: "i",
			Start:   num(0),
			End:     lt(ref("i"), ref("n")),
			Body:    &ast.Call{Callee: "putchard", Args: []ast.Expr{num(42)}},
		}},
	}

	for _, test := range tests {
		got := parseExpr(t, test.src, NewOperatorTable())
		if diff := cmp.Diff(test.want, got, ignoreSpans); diff != "" {
			t.Errorf("parsing %q (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"(1 + 2", "expected ')'"},
		{"foo(1 2)", "expected ')' or ',' in argument list"},
		{"if x 1 else 2", "expected then"},
		{"if x then 1", "expected else"},
		{"for 1", "expected identifier after for"},
		{"for i 1", "expected '=' after for"},
		{"for i = 1 in i", "expected ',' after for start value"},
		{"for i = 1, i < 2 i", "expected 'in' after for"},
		{"a + $", "unrecognized input: `$`"},
		{"1 + ;", "unknown token when expecting an expression"},
		{"1 +", "unexpected end of input"},
	}

	for _, test := range tests {
		_, err := newTestParser(t, test.src, NewOperatorTable()).ParseExpression()
		if err == nil {
			t.Errorf("ParseExpression(%q) succeeded", test.src)
			continue
		}

		if msg := syntaxError(t, err); msg != test.msg {
			t.Errorf("ParseExpression(%q): got error %q, want %q", test.src, msg, test.msg)
		}
	}
}
