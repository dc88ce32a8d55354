package ir

import (
	"fmt"
	"strings"

	"curv/internal/source"
)

// DataSetter initializes one local frame slot.
type DataSetter struct {
	Sp   source.Span
	Slot uint32
	Expr Operation
}

func (op *DataSetter) Span() source.Span { return op.Sp }

func (op *DataSetter) Eval(fr *Frame) (Value, error) {
	v, err := op.Expr.Eval(fr)
	if err != nil {
		return nil, err
	}
	fr.Slots[op.Slot] = v
	return Null{}, nil
}

func (op *DataSetter) String() string {
	return fmt.Sprintf("local[%d] := %s", op.Slot, op.Expr)
}

// IndirectSetter initializes one field of the module held in a frame
// slot.
type IndirectSetter struct {
	Sp         source.Span
	ModuleSlot uint32
	Slot       uint32
	Expr       Operation
}

func (op *IndirectSetter) Span() source.Span { return op.Sp }

func (op *IndirectSetter) Eval(fr *Frame) (Value, error) {
	m, err := moduleAt(fr, op.Sp, op.ModuleSlot)
	if err != nil {
		return nil, err
	}
	v, err := op.Expr.Eval(fr)
	if err != nil {
		return nil, err
	}
	m.Fields[op.Slot] = v
	return Null{}, nil
}

func (op *IndirectSetter) String() string {
	return fmt.Sprintf("module[%d].%d := %s", op.ModuleSlot, op.Slot, op.Expr)
}

// FunctionMember is one function of an SCC group: its target slot and
// compiled lambda.
type FunctionMember struct {
	Slot   uint32
	Lambda *Lambda
}

// FunctionSetter initializes the slots of a group of mutually
// recursive functions (or a single nonrecursive function) atomically.
// The shared capture record is evaluated once; raw Lambda fields in it
// are then patched into closures over that same record, which is what
// lets group members call each other.
type FunctionSetter struct {
	Sp         source.Span
	ModuleSlot uint32 // NoSlot when the scope is a local frame
	Nonlocals  *RecordExpr
	Members    []FunctionMember
}

func (op *FunctionSetter) Span() source.Span { return op.Sp }

func (op *FunctionSetter) Eval(fr *Frame) (Value, error) {
	v, err := op.Nonlocals.Eval(fr)
	if err != nil {
		return nil, err
	}
	rec := v.(*Record)
	for i, f := range rec.Fields {
		if lam, ok := f.(*Lambda); ok {
			rec.Fields[i] = &Closure{Lambda: lam, Nonlocals: rec}
		}
	}
	var mod *Module
	if op.ModuleSlot != NoSlot {
		if mod, err = moduleAt(fr, op.Sp, op.ModuleSlot); err != nil {
			return nil, err
		}
	}
	for _, m := range op.Members {
		closure := &Closure{Lambda: m.Lambda, Nonlocals: rec}
		if mod != nil {
			mod.Fields[m.Slot] = closure
		} else {
			fr.Slots[m.Slot] = closure
		}
	}
	return Null{}, nil
}

func (op *FunctionSetter) String() string {
	var b strings.Builder
	b.WriteString("functions{")
	for i, m := range op.Members {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d=%s", m.Slot, m.Lambda)
	}
	fmt.Fprintf(&b, "} caps %d", len(op.Nonlocals.Fields))
	return b.String()
}
