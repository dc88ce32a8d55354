package sema

import (
	"curv/internal/ir"
)

// Executable is the output artifact of analyzing one scope: the
// initializer/action operations in evaluation order, the frame size,
// and — for module-target scopes only — the published name→slot table.
type Executable struct {
	Ops        []ir.Operation
	NSlots     uint32
	ModuleSlot uint32         // ir.NoSlot when the target is a local frame
	Module     *ir.Dictionary // nil unless the target is a module
}

// EvalModule runs a module-target executable in a fresh frame and
// returns the resulting module value.
func (ex *Executable) EvalModule() (*ir.Module, error) {
	fr := ir.NewFrame(ex.NSlots)
	m := &ir.Module{
		Dict:   ex.Module,
		Fields: make([]ir.Value, ex.Module.Len()),
	}
	fr.Slots[ex.ModuleSlot] = m
	for _, op := range ex.Ops {
		if _, err := op.Eval(fr); err != nil {
			return nil, err
		}
	}
	return m, nil
}
