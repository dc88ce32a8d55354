package sema

import (
	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/ir"
	"curv/internal/source"
)

type unitState uint8

const (
	unitUnvisited unitState = iota
	unitInProgress
	unitDone
)

// capture is one free-variable reference collected while analyzing a
// function body: the referenced name and the operation that resolves
// it in the defining scope.
type capture struct {
	atom source.StringID
	name string
	op   ir.Operation
}

// unit wraps one definition pending analysis in a RecursiveScope,
// carrying its SCC bookkeeping. Units live exactly as long as the
// scope's analysis.
type unit struct {
	def       UnitaryDef
	state     unitState
	ord       uint32 // discovery order
	lowlink   uint32 // smallest discovery order reachable via back-edges
	nonlocals []capture
	nlIndex   map[source.StringID]int
}

func (u *unit) isData() bool { return u.def.isData() }

// Binding is the dictionary value of a RecursiveScope: the slot plus
// the owning unit.
type Binding struct {
	Slot uint32
	Unit int
}

// RecursiveScope allows forward references and mutual recursion.
// Registration defers all analysis; Analyze then computes a legal
// initialization order with an on-demand strongly-connected-component
// pass: edges are discovered lazily, by analyzing unit bodies and
// following each free-name reference through SingleLookup.
type RecursiveScope struct {
	baseEnv
	targetModule bool
	dict         map[source.StringID]Binding
	order        []source.StringID
	units        []*unit
	sccCount     uint32
	pending      []*unit // visited, SCC not yet emitted
	active       []*unit // currently under analysis on the call chain
	actions      []ast.Phrase
	exec         *Executable
	src          source.Span
}

func NewRecursiveScope(parent Env, exec *Executable) *RecursiveScope {
	return &RecursiveScope{
		baseEnv:      newBaseEnv(parent),
		targetModule: exec.ModuleSlot != ir.NoSlot,
		dict:         make(map[source.StringID]Binding),
		exec:         exec,
	}
}

// Analyze registers def's entries, then analyzes the buffered bare
// statements in textual order before sweeping the units. Analyzing a
// statement forces the initializers it depends on ahead of it;
// initializers nothing forced earlier come after the statements. This
// ordering is deliberate and kept stable.
func (sc *RecursiveScope) Analyze(def *CompoundDef) error {
	sc.src = def.Span()
	if err := def.addToScope(sc); err != nil {
		return err
	}
	for _, ph := range sc.actions {
		op, err := analyzeOp(ph, sc)
		if err != nil {
			return err
		}
		sc.exec.Ops = append(sc.exec.Ops, op)
	}
	for _, u := range sc.units {
		if u.state == unitUnvisited {
			if err := sc.analyzeUnit(u, nil); err != nil {
				return err
			}
		}
	}
	if sc.parent != nil {
		sc.parent.GrowFrame(sc.frameMaxSlots)
	}
	if sc.targetModule {
		d := ir.NewDictionary()
		for _, atom := range sc.order {
			d.Add(atom)
		}
		sc.exec.Module = d
	}
	return nil
}

// analyzeUnit analyzes the unit, emitting the initializers of every
// unit it depends on first, so slots initialize in dependency order.
// Mutually recursive functions are grouped into a single setter via
// Tarjan's SCC algorithm, fused with the analysis itself: a unit's
// edges are found by analyzing its body, and each reference recurses
// here through identifier lookup.
//
// id is the referencing identifier, for diagnostics; nil when the
// visit comes from the top-level sweep (then the active stack is
// empty and id is never needed).
func (sc *RecursiveScope) analyzeUnit(u *unit, id *ast.Ident) error {
	switch u.state {
	case unitDone:
		return nil

	case unitInProgress:
		// Recursion detected; u is already on both stacks. A value
		// binding must not depend on its own not-yet-computed value.
		if u.isData() {
			return errAt(diag.BindIllegalRecursion, refSpan(u, id),
				"illegal recursive reference")
		}
		caller := sc.active[len(sc.active)-1]
		if u.ord < caller.lowlink {
			caller.lowlink = u.ord
		}
		return nil
	}

	u.state = unitInProgress
	u.ord = sc.sccCount
	u.lowlink = sc.sccCount
	sc.sccCount++
	sc.pending = append(sc.pending, u)
	sc.active = append(sc.active, u)

	var err error
	if u.isData() {
		err = u.def.analyze(sc)
	} else {
		fenv := newFunctionEnviron(sc, u)
		err = u.def.analyze(fenv)
		sc.GrowFrame(fenv.frameMaxSlots)
	}
	sc.active = sc.active[:len(sc.active)-1]
	if err != nil {
		return err
	}

	if len(sc.active) > 0 {
		caller := sc.active[len(sc.active)-1]
		if u.lowlink < caller.lowlink {
			caller.lowlink = u.lowlink
		}
	}
	// A lowered lowlink means u's definiens reached back to a unit
	// still under analysis: u sits inside a cycle. A cycle through a
	// value binding is illegal no matter which side of the back-edge
	// observes it first; the in-progress case above catches one side,
	// this catches the other.
	if u.lowlink < u.ord && u.isData() {
		return errAt(diag.BindIllegalRecursion, refSpan(u, id),
			"illegal recursive reference")
	}

	if u.lowlink == u.ord {
		// u is the root of its SCC; every member is on the pending
		// stack above (and including) it.
		return sc.emitSCC(u)
	}
	return nil
}

func (sc *RecursiveScope) emitSCC(root *unit) error {
	if root.isData() {
		// A data unit can only root a singleton SCC: any cycle through
		// it would have failed above.
		sc.pending = sc.pending[:len(sc.pending)-1]
		root.state = unitDone
		setter, err := root.def.makeSetter(sc.exec.ModuleSlot)
		if err != nil {
			return err
		}
		sc.exec.Ops = append(sc.exec.Ops, setter)
		return nil
	}

	ui := len(sc.pending) - 1
	for ui > 0 && sc.pending[ui] != root {
		ui--
	}
	group := sc.pending[ui:]
	setter, err := sc.makeFunctionSetter(group)
	if err != nil {
		return err
	}
	sc.exec.Ops = append(sc.exec.Ops, setter)
	for _, m := range group {
		m.state = unitDone
	}
	sc.pending = sc.pending[:ui]
	return nil
}

// makeFunctionSetter builds the single initializer for an SCC group of
// functions. The shared capture record lists every group member first,
// bound to its own compiled lambda as a compile-time constant — the
// lambda's immediate form is immutable; only the record it will run
// against is filled in at evaluation time, which is what permits
// mutual recursion without re-analyzing any body — then each member's
// captured free variables in encounter order, deduplicated by name
// across the whole group.
func (sc *RecursiveScope) makeFunctionSetter(group []*unit) (ir.Operation, error) {
	src := sc.src
	if len(group) == 1 {
		src = group[0].def.Span()
	}
	dict := ir.NewDictionary()
	fields := make([]ir.Operation, 0, len(group))
	members := make([]ir.FunctionMember, 0, len(group))

	for _, m := range group {
		f, ok := m.def.(*FunctionDef)
		if !ok {
			return nil, errAt(diag.BindRecursiveData, m.def.Span(),
				"recursive data definition")
		}
		dict.Add(f.name.Atom)
		fields = append(fields, &ir.Constant{Sp: f.lambda.Sp, Val: f.lam})
		members = append(members, ir.FunctionMember{Slot: f.Slot, Lambda: f.lam})
	}
	for _, m := range group {
		for _, c := range m.nonlocals {
			if !dict.Has(c.atom) {
				dict.Add(c.atom)
				fields = append(fields, c.op)
			}
		}
	}
	return &ir.FunctionSetter{
		Sp:         src,
		ModuleSlot: sc.exec.ModuleSlot,
		Nonlocals:  &ir.RecordExpr{Sp: src, Dict: dict, Fields: fields},
		Members:    members,
	}, nil
}

// SingleLookup force-visits the owning unit before handing out a
// reference; this is what drives the lazy graph traversal. Module
// bindings resolve indirectly so they stay addressable by name; local
// bindings resolve to a direct slot read, legal because the emitted
// order initializes the slot first.
func (sc *RecursiveScope) SingleLookup(id *ast.Ident) (ir.Operation, error) {
	b, ok := sc.dict[id.Atom]
	if !ok {
		return nil, nil
	}
	if err := sc.analyzeUnit(sc.units[b.Unit], id); err != nil {
		return nil, err
	}
	if sc.targetModule {
		return &ir.IndirectRef{Sp: id.Sp, ModuleSlot: sc.exec.ModuleSlot, Slot: b.Slot}, nil
	}
	return &ir.LocalRef{Sp: id.Sp, Slot: b.Slot}, nil
}

// BeginUnit only registers; analysis waits for Analyze.
func (sc *RecursiveScope) BeginUnit(def UnitaryDef) (int, error) {
	u := &unit{def: def, nlIndex: make(map[source.StringID]int)}
	sc.units = append(sc.units, u)
	return len(sc.units) - 1, nil
}

func (sc *RecursiveScope) AddBinding(name *ast.Ident, unitno int) (uint32, error) {
	if _, dup := sc.dict[name.Atom]; dup {
		return 0, errAt(diag.BindMultiplyDefined, name.Sp, "%s: multiply defined", name.Text)
	}
	var slot uint32
	if sc.targetModule {
		slot = uint32(len(sc.order))
	} else {
		slot = sc.MakeSlot()
	}
	sc.dict[name.Atom] = Binding{Slot: slot, Unit: unitno}
	sc.order = append(sc.order, name.Atom)
	return slot, nil
}

func (sc *RecursiveScope) EndUnit(unitno int, def UnitaryDef) error {
	return nil
}

// AddAction buffers the bare statement; Analyze emits them all first.
func (sc *RecursiveScope) AddAction(phrase ast.Phrase) error {
	sc.actions = append(sc.actions, phrase)
	return nil
}

func refSpan(u *unit, id *ast.Ident) source.Span {
	if id != nil {
		return id.Sp
	}
	return u.def.Name().Sp
}
