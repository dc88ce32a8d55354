package parser_test

import (
	"testing"

	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/parser"
	"curv/internal/source"
	"curv/internal/token"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) hasCode(code diag.Code) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func parseFile(t *testing.T, input string) (*ast.Module, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.curv", []byte(input))
	reporter := &testReporter{}
	mod := parser.File(fs.Get(id), source.NewInterner(), reporter)
	if mod == nil {
		t.Fatalf("parser.File returned nil for %q", input)
	}
	return mod, reporter
}

func parseExpr(t *testing.T, input string) (ast.Phrase, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.curv", []byte(input))
	reporter := &testReporter{}
	e := parser.Expression(fs.Get(id), source.NewInterner(), reporter)
	if e == nil {
		t.Fatalf("parser.Expression returned nil for %q", input)
	}
	return e, reporter
}

func cleanExpr(t *testing.T, input string) ast.Phrase {
	t.Helper()
	e, reporter := parseExpr(t, input)
	if len(reporter.diagnostics) != 0 {
		t.Fatalf("input %q: unexpected diagnostics: %v", input, reporter.diagnostics)
	}
	return e
}

func TestModuleItems(t *testing.T) {
	mod, reporter := parseFile(t, "x = 1;\ny = x + 1;\nassert(y == 2);\n")
	if len(reporter.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.diagnostics)
	}
	if len(mod.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(mod.Items))
	}
	if mod.Items[0].Def == nil || mod.Items[0].Def.Name.Text != "x" {
		t.Errorf("item 0 should define x, got %+v", mod.Items[0])
	}
	if mod.Items[1].Def == nil || mod.Items[1].Def.Name.Text != "y" {
		t.Errorf("item 1 should define y, got %+v", mod.Items[1])
	}
	if mod.Items[2].Stmt == nil {
		t.Errorf("item 2 should be a statement, got %+v", mod.Items[2])
	}
	if _, ok := mod.Items[2].Stmt.(*ast.Call); !ok {
		t.Errorf("item 2 statement should be a call, got %T", mod.Items[2].Stmt)
	}
}

func TestFunctionDefinitionSugar(t *testing.T) {
	mod, reporter := parseFile(t, "add(a, b) = a + b;")
	if len(reporter.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.diagnostics)
	}
	def := mod.Items[0].Def
	if def == nil {
		t.Fatal("expected a definition")
	}
	if !def.HasParams {
		t.Error("expected HasParams")
	}
	if len(def.Params) != 2 || def.Params[0].Text != "a" || def.Params[1].Text != "b" {
		t.Errorf("unexpected params: %v", def.Params)
	}
	if _, ok := def.Definiens.(*ast.Binary); !ok {
		t.Errorf("definiens should be a binary expression, got %T", def.Definiens)
	}
}

func TestNullaryFunctionDefinition(t *testing.T) {
	mod, _ := parseFile(t, "f() = 1;")
	def := mod.Items[0].Def
	if def == nil || !def.HasParams || len(def.Params) != 0 {
		t.Fatalf("expected nullary function definition, got %+v", def)
	}
}

func TestPrecedence(t *testing.T) {
	e := cleanExpr(t, "1 + 2 * 3")
	add, ok := e.(*ast.Binary)
	if !ok || add.Op != token.Plus {
		t.Fatalf("expected top-level +, got %T", e)
	}
	mul, ok := add.Y.(*ast.Binary)
	if !ok || mul.Op != token.Star {
		t.Fatalf("expected * on the right of +, got %T", add.Y)
	}

	e = cleanExpr(t, "a < b && c < d || e")
	or, ok := e.(*ast.Binary)
	if !ok || or.Op != token.OrOr {
		t.Fatalf("expected top-level ||, got %T", e)
	}
	and, ok := or.X.(*ast.Binary)
	if !ok || and.Op != token.AndAnd {
		t.Fatalf("expected && under ||, got %T", or.X)
	}
	if lt, ok := and.X.(*ast.Binary); !ok || lt.Op != token.Lt {
		t.Errorf("expected < under &&, got %T", and.X)
	}
}

func TestLeftAssociativity(t *testing.T) {
	e := cleanExpr(t, "10 - 3 - 2")
	outer, ok := e.(*ast.Binary)
	if !ok || outer.Op != token.Minus {
		t.Fatalf("expected top-level -, got %T", e)
	}
	inner, ok := outer.X.(*ast.Binary)
	if !ok || inner.Op != token.Minus {
		t.Fatalf("expected (10 - 3) on the left, got %T", outer.X)
	}
}

func TestUnary(t *testing.T) {
	e := cleanExpr(t, "-x * y")
	mul, ok := e.(*ast.Binary)
	if !ok || mul.Op != token.Star {
		t.Fatalf("expected *, got %T", e)
	}
	if neg, ok := mul.X.(*ast.Unary); !ok || neg.Op != token.Minus {
		t.Errorf("expected unary - on the left of *, got %T", mul.X)
	}

	e = cleanExpr(t, "!a && b")
	and := e.(*ast.Binary)
	if not, ok := and.X.(*ast.Unary); !ok || not.Op != token.Bang {
		t.Errorf("expected ! under &&, got %T", and.X)
	}
}

func TestLambdaForms(t *testing.T) {
	e := cleanExpr(t, "x -> x + 1")
	lam, ok := e.(*ast.Lambda)
	if !ok {
		t.Fatalf("expected lambda, got %T", e)
	}
	if len(lam.Params) != 1 || lam.Params[0].Text != "x" {
		t.Errorf("unexpected params: %v", lam.Params)
	}

	e = cleanExpr(t, "(a, b) -> a")
	lam = e.(*ast.Lambda)
	if len(lam.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(lam.Params))
	}

	e = cleanExpr(t, "() -> 1")
	lam = e.(*ast.Lambda)
	if len(lam.Params) != 0 {
		t.Errorf("expected 0 params, got %d", len(lam.Params))
	}
}

func TestLambdaIsRightAssociative(t *testing.T) {
	e := cleanExpr(t, "x -> y -> x")
	outer := e.(*ast.Lambda)
	if outer.Params[0].Text != "x" {
		t.Fatalf("expected outer param x, got %s", outer.Params[0].Text)
	}
	inner, ok := outer.Body.(*ast.Lambda)
	if !ok {
		t.Fatalf("expected nested lambda body, got %T", outer.Body)
	}
	if inner.Params[0].Text != "y" {
		t.Errorf("expected inner param y, got %s", inner.Params[0].Text)
	}
}

func TestLambdaBindsLoosest(t *testing.T) {
	// `x -> x + 1` is `x -> (x + 1)`, not `(x -> x) + 1`.
	e := cleanExpr(t, "x -> x + 1")
	lam := e.(*ast.Lambda)
	if _, ok := lam.Body.(*ast.Binary); !ok {
		t.Errorf("expected binary body, got %T", lam.Body)
	}
}

func TestConditional(t *testing.T) {
	e := cleanExpr(t, "if (a < b) a else b")
	cond, ok := e.(*ast.Cond)
	if !ok {
		t.Fatalf("expected cond, got %T", e)
	}
	if _, ok := cond.Cond.(*ast.Binary); !ok {
		t.Errorf("expected binary condition, got %T", cond.Cond)
	}
	if _, ok := cond.Then.(*ast.Ident); !ok {
		t.Errorf("expected ident then-branch, got %T", cond.Then)
	}
}

func TestBlocks(t *testing.T) {
	e := cleanExpr(t, "let x = 1; y = 2 in x + y")
	blk, ok := e.(*ast.Block)
	if !ok {
		t.Fatalf("expected block, got %T", e)
	}
	if blk.Kind != ast.BlockLet {
		t.Errorf("expected let kind, got %v", blk.Kind)
	}
	if len(blk.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(blk.Items))
	}

	e = cleanExpr(t, "letrec even(n) = if (n == 0) true else odd(n - 1); odd(n) = if (n == 0) false else even(n - 1) in even(4)")
	blk = e.(*ast.Block)
	if blk.Kind != ast.BlockLetrec {
		t.Errorf("expected letrec kind, got %v", blk.Kind)
	}
}

func TestModuleLiteral(t *testing.T) {
	e := cleanExpr(t, "{ x = 1; f(n) = n + x }")
	mod, ok := e.(*ast.Module)
	if !ok {
		t.Fatalf("expected module literal, got %T", e)
	}
	if len(mod.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(mod.Items))
	}
	if mod.Items[1].Def == nil || !mod.Items[1].Def.HasParams {
		t.Errorf("expected function definition, got %+v", mod.Items[1])
	}
}

func TestChainedCalls(t *testing.T) {
	e := cleanExpr(t, "f(1)(2, 3)")
	outer, ok := e.(*ast.Call)
	if !ok || len(outer.Args) != 2 {
		t.Fatalf("expected outer call with 2 args, got %T", e)
	}
	inner, ok := outer.Fn.(*ast.Call)
	if !ok || len(inner.Args) != 1 {
		t.Fatalf("expected inner call with 1 arg, got %T", outer.Fn)
	}
}

func TestStringAndNumeralLiterals(t *testing.T) {
	e := cleanExpr(t, `"hi"`)
	if s, ok := e.(*ast.Str); !ok || s.Val != "hi" {
		t.Errorf("expected string literal, got %T", e)
	}
	e = cleanExpr(t, "2.5e2")
	if n, ok := e.(*ast.Numeral); !ok || n.Val != 250 {
		t.Errorf("expected numeral 250, got %T", e)
	}
}

func TestReplItem(t *testing.T) {
	fs := source.NewFileSet()
	names := source.NewInterner()

	id := fs.AddVirtual("repl", []byte("x = 1"))
	item, isDef := parser.Item(fs.Get(id), names, &testReporter{})
	if !isDef || item.Def == nil || item.Def.Name.Text != "x" {
		t.Errorf("expected definition of x, got %+v", item)
	}

	id = fs.AddVirtual("repl", []byte("x + 1;"))
	item, isDef = parser.Item(fs.Get(id), names, &testReporter{})
	if isDef || item.Stmt == nil {
		t.Errorf("expected statement, got %+v", item)
	}
}

func TestMissingDefiniens(t *testing.T) {
	_, reporter := parseFile(t, "x = ;")
	if !reporter.hasCode(diag.SynUnexpectedToken) {
		t.Errorf("expected SynUnexpectedToken, got %v", reporter.diagnostics)
	}
}

func TestBadDefinitionHead(t *testing.T) {
	mod, reporter := parseFile(t, "1 = 2;")
	if !reporter.hasCode(diag.SynUnexpectedToken) {
		t.Errorf("expected SynUnexpectedToken, got %v", reporter.diagnostics)
	}
	// Recovery keeps the definiens as a statement.
	if len(mod.Items) != 1 || mod.Items[0].Stmt == nil {
		t.Errorf("expected recovered statement item, got %+v", mod.Items)
	}
}

func TestBadFunctionParameter(t *testing.T) {
	_, reporter := parseFile(t, "f(1) = 2;")
	if !reporter.hasCode(diag.SynExpectParam) {
		t.Errorf("expected SynExpectParam, got %v", reporter.diagnostics)
	}
}

func TestUnclosedDelimiters(t *testing.T) {
	_, reporter := parseExpr(t, "(1 + 2")
	if !reporter.hasCode(diag.SynUnclosedParen) {
		t.Errorf("expected SynUnclosedParen, got %v", reporter.diagnostics)
	}

	_, reporter = parseExpr(t, "{ x = 1")
	if !reporter.hasCode(diag.SynUnclosedBrace) {
		t.Errorf("expected SynUnclosedBrace, got %v", reporter.diagnostics)
	}
}

func TestMissingIn(t *testing.T) {
	_, reporter := parseExpr(t, "let x = 1 in")
	if !reporter.hasCode(diag.SynUnexpectedToken) {
		t.Errorf("expected SynUnexpectedToken for the missing body, got %v", reporter.diagnostics)
	}

	_, reporter = parseFile(t, "y = letrec x = 1; 2;")
	if !reporter.hasCode(diag.SynExpectIn) {
		t.Errorf("expected SynExpectIn, got %v", reporter.diagnostics)
	}
}

func TestMissingSemicolonBetweenItems(t *testing.T) {
	_, reporter := parseFile(t, "x = 1 y = 2;")
	if !reporter.hasCode(diag.SynExpectSemicolon) {
		t.Errorf("expected SynExpectSemicolon, got %v", reporter.diagnostics)
	}
}
