package sema

import (
	"curv/internal/ast"
	"curv/internal/ir"
)

// FunctionEnviron analyzes a recursively-bound function body. Every
// free name is resolved fully through the defining scope's chain here,
// so the environ terminates the lookup chain itself (Parent is nil).
//
// A resolved constant passes through unchanged; anything else becomes
// a captured nonlocal, recorded on the unit in encounter order and
// replaced in the body by a name-based reference into the closure's
// shared capture record.
type FunctionEnviron struct {
	baseEnv
	scope *RecursiveScope
	unit  *unit
}

func newFunctionEnviron(sc *RecursiveScope, u *unit) *FunctionEnviron {
	// Local definitions inside the function body (block scopes in the
	// definiens, before the lambda frame starts) share the defining
	// scope's frame, so slot accounting continues from its watermark.
	return &FunctionEnviron{
		baseEnv: baseEnv{frameNSlots: sc.frameNSlots, frameMaxSlots: sc.frameNSlots},
		scope:   sc,
		unit:    u,
	}
}

func (e *FunctionEnviron) SingleLookup(id *ast.Ident) (ir.Operation, error) {
	op, err := Lookup(e.scope, id)
	if err != nil {
		return nil, err
	}
	if c, ok := op.(*ir.Constant); ok {
		return &ir.Constant{Sp: id.Sp, Val: c.Val}, nil
	}
	if _, seen := e.unit.nlIndex[id.Atom]; !seen {
		e.unit.nlIndex[id.Atom] = len(e.unit.nonlocals)
		e.unit.nonlocals = append(e.unit.nonlocals, capture{
			atom: id.Atom,
			name: id.Text,
			op:   op,
		})
	}
	return &ir.SymbolicRef{Sp: id.Sp, Atom: id.Atom, Name: id.Text}, nil
}
