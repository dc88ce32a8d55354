package sema

import (
	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/ir"
	"curv/internal/source"
)

// Definition is a named binding (or a compound of them) awaiting
// registration into a scope.
type Definition interface {
	Span() source.Span
	addToScope(sc Scope) error
}

// UnitaryDef is a single named definition. It registers through the
// three-step protocol, which lets the two scope kinds give the calls
// completely different timing: a SequentialScope analyzes eagerly in
// BeginUnit, a RecursiveScope defers everything until its own Analyze.
type UnitaryDef interface {
	Definition
	Name() *ast.Ident
	isData() bool
	analyze(env Env) error
	makeSetter(moduleSlot uint32) (ir.Operation, error)
	setSlot(slot uint32)
}

// Scope is the registration half of a definition environment.
type Scope interface {
	Env
	BeginUnit(def UnitaryDef) (int, error)
	AddBinding(name *ast.Ident, unitno int) (uint32, error)
	EndUnit(unitno int, def UnitaryDef) error
	AddAction(phrase ast.Phrase) error
}

// addUnitary routes one unitary definition through the protocol.
func addUnitary(d UnitaryDef, sc Scope) error {
	unitno, err := sc.BeginUnit(d)
	if err != nil {
		return err
	}
	slot, err := sc.AddBinding(d.Name(), unitno)
	if err != nil {
		return err
	}
	d.setSlot(slot)
	return sc.EndUnit(unitno, d)
}

// DataDef is `name = definiens` for a value binding.
type DataDef struct {
	name      *ast.Ident
	definiens ast.Phrase
	sp        source.Span

	Slot uint32
	expr ir.Operation
}

func (d *DataDef) Span() source.Span         { return d.sp }
func (d *DataDef) Name() *ast.Ident          { return d.name }
func (d *DataDef) isData() bool              { return true }
func (d *DataDef) setSlot(slot uint32)       { d.Slot = slot }
func (d *DataDef) addToScope(sc Scope) error { return addUnitary(d, sc) }

func (d *DataDef) analyze(env Env) error {
	expr, err := analyzeOp(d.definiens, env)
	if err != nil {
		return err
	}
	d.expr = expr
	return nil
}

func (d *DataDef) makeSetter(moduleSlot uint32) (ir.Operation, error) {
	if moduleSlot != ir.NoSlot {
		return &ir.IndirectSetter{
			Sp: d.sp, ModuleSlot: moduleSlot, Slot: d.Slot, Expr: d.expr,
		}, nil
	}
	return &ir.DataSetter{Sp: d.sp, Slot: d.Slot, Expr: d.expr}, nil
}

// FunctionDef is `name(params) = definiens` (or `name = lambda`) in a
// recursive scope. Its setter is only ever emitted through the grouped
// function-setter path.
type FunctionDef struct {
	name   *ast.Ident
	lambda *ast.Lambda
	sp     source.Span

	Slot uint32
	lam  *ir.Lambda
}

func (d *FunctionDef) Span() source.Span         { return d.sp }
func (d *FunctionDef) Name() *ast.Ident          { return d.name }
func (d *FunctionDef) isData() bool              { return false }
func (d *FunctionDef) setSlot(slot uint32)       { d.Slot = slot }
func (d *FunctionDef) addToScope(sc Scope) error { return addUnitary(d, sc) }

func (d *FunctionDef) analyze(env Env) error {
	d.lambda.SharedNonlocals = true
	lam, err := analyzeSharedLambda(d.lambda, env, d.name.Text)
	if err != nil {
		return err
	}
	d.lam = lam
	return nil
}

func (d *FunctionDef) makeSetter(moduleSlot uint32) (ir.Operation, error) {
	return nil, errAt(diag.BindInvalidSetter, d.sp,
		"setter requested for function %s outside its group", d.name.Text)
}

// CompoundEntry is one ordered entry of a compound: a nested
// definition, or a bare statement phrase with no name.
type CompoundEntry struct {
	Def    Definition
	Action ast.Phrase
}

// CompoundDef preserves the textual order of its entries. That order
// is authoritative for sequential scopes and for the relative order of
// bare statements in recursive scopes.
type CompoundDef struct {
	entries   []CompoundEntry
	recursive bool
	sp        source.Span
}

func (d *CompoundDef) Span() source.Span { return d.sp }

func (d *CompoundDef) addToScope(sc Scope) error {
	for _, e := range d.entries {
		if e.Def == nil {
			if err := sc.AddAction(e.Action); err != nil {
				return err
			}
			continue
		}
		if err := e.Def.addToScope(sc); err != nil {
			return err
		}
	}
	return nil
}

// compoundFromItems lowers parsed items into a compound definition.
// In a recursive scope a definition with a function head or a lambda
// definiens becomes a FunctionDef; in a sequential scope the function
// sugar lowers to a data definition over an anonymous lambda, so
// function setters are never requested there.
func compoundFromItems(items []ast.Item, recursive bool, sp source.Span) *CompoundDef {
	cd := &CompoundDef{
		entries:   make([]CompoundEntry, 0, len(items)),
		recursive: recursive,
		sp:        sp,
	}
	for _, it := range items {
		if it.Def == nil {
			cd.entries = append(cd.entries, CompoundEntry{Action: it.Stmt})
			continue
		}
		cd.entries = append(cd.entries, CompoundEntry{Def: defFromItem(it.Def, recursive)})
	}
	return cd
}

func defFromItem(d *ast.Def, recursive bool) Definition {
	var lambda *ast.Lambda
	if d.HasParams {
		lambda = &ast.Lambda{Params: d.Params, Body: d.Definiens, Sp: d.Sp}
	} else if lam, ok := d.Definiens.(*ast.Lambda); ok {
		lambda = lam
	}
	if recursive && lambda != nil {
		return &FunctionDef{name: d.Name, lambda: lambda, sp: d.Sp}
	}
	definiens := d.Definiens
	if d.HasParams {
		definiens = lambda
	}
	return &DataDef{name: d.Name, definiens: definiens, sp: d.Sp}
}
