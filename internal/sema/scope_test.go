package sema

import (
	"strings"
	"testing"

	"curv/internal/diag"
	"curv/internal/ir"
)

func TestMultiplyDefined(t *testing.T) {
	cases := []struct {
		name string
		src  string
		dup  string
	}{
		{"data then data", "x = 1; x = 2", "x"},
		{"data then function", "x = 1; x(n) = n", "x"},
		{"function then data", "f(n) = n; f = 1", "f"},
		{"function then function", "f(n) = n; f(m) = m", "f"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := compileModule(t, c.src)
			serr := wantErrCode(t, err, diag.BindMultiplyDefined)
			// The second occurrence is the one reported.
			want := uint32(strings.LastIndex(c.src, c.dup))
			if serr.Span.Start != want {
				t.Fatalf("error at offset %d, want %d (second occurrence)",
					serr.Span.Start, want)
			}
		})
	}
}

func TestMultiplyDefinedInLet(t *testing.T) {
	_, err := evalExpr(t, "let x = 1; x = 2 in x")
	wantErrCode(t, err, diag.BindMultiplyDefined)
}

func TestDuplicateParam(t *testing.T) {
	_, _, err := compileModule(t, "f(a, a) = a")
	wantErrCode(t, err, diag.BindMultiplyDefined)
}

func TestIllegalRecursion(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"self data", "x = x + 1"},
		{"mutual data", "a = b; b = a"},
		{"data through function", "f() = x; x = f()"},
		{"data through function reversed", "x = f(); f() = x"},
		{"long cycle", "a = b + 1; b = c + 1; c = a + 1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := compileModule(t, c.src)
			wantErrCode(t, err, diag.BindIllegalRecursion)
		})
	}
}

func TestSequentialLet(t *testing.T) {
	v, err := evalExpr(t, "let x = 2; y = x * 3 in x + y")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if v != ir.Num(8) {
		t.Fatalf("got %s, want 8", v)
	}
}

func TestSequentialForwardReferenceFails(t *testing.T) {
	_, err := evalExpr(t, "let y = x; x = 1 in y")
	wantErrCode(t, err, diag.SemaUnresolvedName)
}

func TestSequentialNoSelfRecursion(t *testing.T) {
	// In a sequential scope a function's own name is not visible
	// inside its body.
	_, err := evalExpr(t, "let f(n) = if (n <= 1) 1 else n * f(n - 1) in f(3)")
	wantErrCode(t, err, diag.SemaUnresolvedName)
}

func TestSequentialShadowing(t *testing.T) {
	v, err := evalExpr(t, "let x = 1 in let x = x + 1 in x")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if v != ir.Num(2) {
		t.Fatalf("got %s, want 2", v)
	}
}

func TestLetrecBlock(t *testing.T) {
	v, err := evalExpr(t, `
		letrec
			even(n) = if (n == 0) true else odd(n - 1);
			odd(n) = if (n == 0) false else even(n - 1)
		in even(8)
	`)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if v != ir.Bool(true) {
		t.Fatalf("got %s, want true", v)
	}
}

func TestLetrecForwardData(t *testing.T) {
	v, err := evalExpr(t, "letrec a = b + 1; b = 1 in a")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if v != ir.Num(2) {
		t.Fatalf("got %s, want 2", v)
	}
}

func TestOrderIndependence(t *testing.T) {
	// Two independent bindings succeed regardless of textual order and
	// produce the same values.
	for _, src := range []string{"a = 1; b = 2", "b = 2; a = 1"} {
		m, tc := evalModule(t, src)
		if got := tc.numField(t, m, "a"); got != 1 {
			t.Fatalf("%q: a = %v, want 1", src, got)
		}
		if got := tc.numField(t, m, "b"); got != 2 {
			t.Fatalf("%q: b = %v, want 2", src, got)
		}
	}
}

func TestActionsAnalyzedFirst(t *testing.T) {
	// Bare statements are analyzed before the unit sweep, so a
	// statement with no dependencies precedes every initializer.
	exec, _, err := compileModule(t, "assert(true); x = 1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(exec.Ops) != 2 {
		t.Fatalf("got %d ops, want 2", len(exec.Ops))
	}
	if _, ok := exec.Ops[0].(*ir.Call); !ok {
		t.Fatalf("first op is %T, want the assert call", exec.Ops[0])
	}
	if _, ok := exec.Ops[1].(*ir.IndirectSetter); !ok {
		t.Fatalf("second op is %T, want the x setter", exec.Ops[1])
	}
}

func TestActionForcesItsDependencies(t *testing.T) {
	// A statement that references a binding forces that binding's
	// initializer ahead of itself, so evaluation succeeds.
	exec, _, err := compileModule(t, "assert(x == 1); x = 1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, ok := exec.Ops[0].(*ir.IndirectSetter); !ok {
		t.Fatalf("first op is %T, want the forced x setter", exec.Ops[0])
	}
	if _, err := exec.EvalModule(); err != nil {
		t.Fatalf("eval: %v", err)
	}
}

func TestFailedAssertionAborts(t *testing.T) {
	exec, _, err := compileModule(t, "x = 1; assert(x == 2)")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := exec.EvalModule(); err == nil {
		t.Fatal("expected assertion failure")
	}
}

func TestModuleDictionaryOrder(t *testing.T) {
	// Module slots follow registration order even when initializers
	// run in a different (dependency) order.
	exec, tc, err := compileModule(t, "a = b + 1; b = 1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	atoms := exec.Module.Atoms()
	if len(atoms) != 2 {
		t.Fatalf("got %d module entries, want 2", len(atoms))
	}
	if atoms[0] != tc.names.Intern("a") || atoms[1] != tc.names.Intern("b") {
		t.Fatalf("module order is not textual: %v", atoms)
	}
}
