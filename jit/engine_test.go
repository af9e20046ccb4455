package jit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"kaso/llc"
	"kaso/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

func double(v float64) *constant.Float {
	return constant.NewFloat(types.Double, v)
}

// defineConst defines `name() = v` in u.
func defineConst(u *llc.Unit, name string, v float64) {
	f := u.DeclareFunc(name, nil)
	llc.BeginBody(f).NewRet(double(v))
}

// defineCall defines `name() = callee(args...)` in u declaring the callee in
// u with one parameter per argument.
func defineCall(u *llc.Unit, name, callee string, args ...float64) {
	calleeFunc, ok := u.Func(callee)
	if !ok {
		params := make([]string, len(args))
		for i := range params {
			params[i] = fmt.Sprintf("p%d", i)
		}

		calleeFunc = u.DeclareFunc(callee, params)
	}

	f := u.DeclareFunc(name, nil)
	entry := llc.BeginBody(f)

	call := entry.NewCall(calleeFunc)
	for _, arg := range args {
		call.Args = append(call.Args, double(arg))
	}

	entry.NewRet(call)
}

func mustLoad(t *testing.T, e *Engine, u *llc.Unit) Handle {
	t.Helper()

	h, err := e.Load(u)
	if err != nil {
		t.Fatalf("Load(%s): %v", u.Name(), err)
	}

	return h
}

func mustCall(t *testing.T, e *Engine, name string, args ...float64) float64 {
	t.Helper()

	sym, ok := e.FindSymbol(name)
	if !ok {
		t.Fatalf("FindSymbol(%s) failed", name)
	}

	result, err := sym.Call(args...)
	if err != nil {
		t.Fatalf("calling %s: %v", name, err)
	}

	return result
}

func runtimeError(t *testing.T, err error) string {
	t.Helper()

	var cerr *report.CompileError
	if !errors.As(err, &cerr) || cerr.Kind != report.KindRuntime {
		t.Fatalf("expected a runtime error, got %v", err)
	}

	return cerr.Message
}

// -----------------------------------------------------------------------------

func TestBuiltins(t *testing.T) {
	out := &bytes.Buffer{}
	e := NewEngine(out)

	if got := mustCall(t, e, "putchard", 72); got != 0 {
		t.Errorf("putchard returned %v", got)
	}
	mustCall(t, e, "putchard", 10)
	mustCall(t, e, "printd", 3.5)

	if got, want := out.String(), "H\n3.500000\n"; got != want {
		t.Errorf("output is %q, want %q", got, want)
	}

	tests := []struct {
		name string
		args []float64
		want float64
	}{
		{"sqrt", []float64{16}, 4},
		{"fabs", []float64{-2.5}, 2.5},
		{"floor", []float64{2.7}, 2},
		{"pow", []float64{2, 10}, 1024},
	}

	for _, test := range tests {
		if got := mustCall(t, e, test.name, test.args...); got != test.want {
			t.Errorf("%s%v = %v, want %v", test.name, test.args, got, test.want)
		}
	}
}

func TestCallsAcrossUnits(t *testing.T) {
	e := NewEngine(&bytes.Buffer{})

	// unit1: add(x y) = x + y
	u1 := llc.NewUnit("unit1")
	add := u1.DeclareFunc("add", []string{"x", "y"})
	entry := llc.BeginBody(add)
	entry.NewRet(entry.NewFAdd(add.Params[0], add.Params[1]))
	mustLoad(t, e, u1)

	// unit2: expr() = add(1, 2)
	u2 := llc.NewUnit("unit2")
	defineCall(u2, "expr", "add", 1, 2)
	h2 := mustLoad(t, e, u2)

	if got := mustCall(t, e, "expr"); got != 3 {
		t.Errorf("expr() = %v, want 3", got)
	}

	if err := e.Unload(h2); err != nil {
		t.Fatalf("Unload: %v", err)
	}

	if _, ok := e.FindSymbol("expr"); ok {
		t.Errorf("expr is resolvable after its unit was unloaded")
	}

	if got := mustCall(t, e, "add", 4, 5); got != 9 {
		t.Errorf("add(4, 5) after unloading its caller = %v, want 9", got)
	}

	if err := e.Unload(h2); err == nil {
		t.Errorf("unloading a unit twice succeeded")
	}
}

func TestNewestDefinitionWins(t *testing.T) {
	e := NewEngine(&bytes.Buffer{})

	u1 := llc.NewUnit("unit1")
	defineConst(u1, "f", 1)
	mustLoad(t, e, u1)

	u2 := llc.NewUnit("unit2")
	defineConst(u2, "f", 2)
	h2 := mustLoad(t, e, u2)

	if got := mustCall(t, e, "f"); got != 2 {
		t.Errorf("f() = %v, want the newest definition 2", got)
	}

	e.Unload(h2)

	if got := mustCall(t, e, "f"); got != 1 {
		t.Errorf("f() after unloading the newest unit = %v, want 1", got)
	}
}

func TestDeclarationsAreNotLoaded(t *testing.T) {
	e := NewEngine(&bytes.Buffer{})

	u := llc.NewUnit("unit1")
	u.DeclareFunc("sin", []string{"x"})
	mustLoad(t, e, u)

	// The declaration resolves to the built-in.
	if got := mustCall(t, e, "sin", 0); got != 0 {
		t.Errorf("sin(0) = %v", got)
	}
}

func TestLoop(t *testing.T) {
	e := NewEngine(&bytes.Buffer{})

	// sum(n) = 0 + 1 + ... + (n-1) for n >= 1
	u := llc.NewUnit("unit1")
	f := u.DeclareFunc("sum", []string{"n"})
	entry := llc.BeginBody(f)
	loop := f.NewBlock("loop")
	exit := f.NewBlock("exit")

	entry.NewBr(loop)

	i := loop.NewPhi(ir.NewIncoming(double(0), entry))
	acc := loop.NewPhi(ir.NewIncoming(double(0), entry))
	accNext := loop.NewFAdd(acc, i)
	iNext := loop.NewFAdd(i, double(1))
	cond := loop.NewFCmp(enum.FPredULT, iNext, f.Params[0])
	loop.NewCondBr(cond, loop, exit)

	i.Incs = append(i.Incs, ir.NewIncoming(iNext, loop))
	acc.Incs = append(acc.Incs, ir.NewIncoming(accNext, loop))

	exit.NewRet(accNext)

	if err := llc.Verify(f); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	mustLoad(t, e, u)

	if got := mustCall(t, e, "sum", 5); got != 10 {
		t.Errorf("sum(5) = %v, want 10", got)
	}
}

func TestRuntimeErrors(t *testing.T) {
	e := NewEngine(&bytes.Buffer{})

	u := llc.NewUnit("unit1")
	defineCall(u, "callsMissing", "missing")

	// forever(x) = forever(x)
	forever := u.DeclareFunc("forever", []string{"x"})
	entry := llc.BeginBody(forever)
	entry.NewRet(entry.NewCall(forever, forever.Params[0]))

	mustLoad(t, e, u)

	sym, _ := e.FindSymbol("callsMissing")
	_, err := sym.Call()
	if msg := runtimeError(t, err); msg != "unresolved symbol `missing`" {
		t.Errorf("calling an undefined function: got error %q", msg)
	}

	sym, _ = e.FindSymbol("forever")
	_, err = sym.Call(1)
	if msg := runtimeError(t, err); !strings.Contains(msg, "maximum call depth") {
		t.Errorf("unbounded recursion: got error %q", msg)
	}

	_, err = sym.Call()
	if msg := runtimeError(t, err); msg != "`forever` takes 1 arguments but was called with 0" {
		t.Errorf("calling with too few arguments: got error %q", msg)
	}
}
