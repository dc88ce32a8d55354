package sema

import (
	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/ir"
	"curv/internal/source"
)

// SequentialScope is the strict textual-order environment: a
// definition may reference only names bound earlier in this scope or
// in an enclosing one. Forward references stay unresolved and no form
// of recursion is representable.
type SequentialScope struct {
	baseEnv
	targetModule bool
	dict         map[source.StringID]uint32
	order        []source.StringID
	exec         *Executable
}

func NewSequentialScope(parent Env, exec *Executable) *SequentialScope {
	return &SequentialScope{
		baseEnv:      newBaseEnv(parent),
		targetModule: exec.ModuleSlot != ir.NoSlot,
		dict:         make(map[source.StringID]uint32),
		exec:         exec,
	}
}

// Analyze registers and immediately analyzes def's entries in textual
// order, then publishes frame size (and the module dictionary when the
// target is a module).
func (sc *SequentialScope) Analyze(def *CompoundDef) error {
	if err := def.addToScope(sc); err != nil {
		return err
	}
	if sc.parent != nil {
		sc.parent.GrowFrame(sc.frameMaxSlots)
	}
	if sc.targetModule {
		sc.exec.Module = sc.publishDict()
	}
	return nil
}

func (sc *SequentialScope) publishDict() *ir.Dictionary {
	d := ir.NewDictionary()
	for _, atom := range sc.order {
		d.Add(atom)
	}
	return d
}

func (sc *SequentialScope) SingleLookup(id *ast.Ident) (ir.Operation, error) {
	slot, ok := sc.dict[id.Atom]
	if !ok {
		return nil, nil
	}
	if sc.targetModule {
		return &ir.IndirectRef{Sp: id.Sp, ModuleSlot: sc.exec.ModuleSlot, Slot: slot}, nil
	}
	return &ir.LocalRef{Sp: id.Sp, Slot: slot}, nil
}

// BeginUnit analyzes the definition immediately, against the current
// scope state: its own name is not yet bound.
func (sc *SequentialScope) BeginUnit(def UnitaryDef) (int, error) {
	return 0, def.analyze(sc)
}

func (sc *SequentialScope) AddBinding(name *ast.Ident, unitno int) (uint32, error) {
	if _, dup := sc.dict[name.Atom]; dup {
		return 0, errAt(diag.BindMultiplyDefined, name.Sp, "%s: multiply defined", name.Text)
	}
	var slot uint32
	if sc.targetModule {
		slot = uint32(len(sc.order))
	} else {
		slot = sc.MakeSlot()
	}
	sc.dict[name.Atom] = slot
	sc.order = append(sc.order, name.Atom)
	return slot, nil
}

// EndUnit appends the definition's setter, interleaved in exact
// textual order with any actions.
func (sc *SequentialScope) EndUnit(unitno int, def UnitaryDef) error {
	setter, err := def.makeSetter(sc.exec.ModuleSlot)
	if err != nil {
		return err
	}
	sc.exec.Ops = append(sc.exec.Ops, setter)
	return nil
}

// AddAction analyzes the bare statement immediately and appends it.
func (sc *SequentialScope) AddAction(phrase ast.Phrase) error {
	op, err := analyzeOp(phrase, sc)
	if err != nil {
		return err
	}
	sc.exec.Ops = append(sc.exec.Ops, op)
	return nil
}
