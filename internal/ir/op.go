package ir

import (
	"fmt"

	"curv/internal/source"
)

// Operation is one executable IR node. Operations are produced by the
// analyzer and evaluated (or fed to a later code generator) afterwards;
// analysis itself never evaluates them.
type Operation interface {
	Span() source.Span
	Eval(fr *Frame) (Value, error)
	String() string
}

// Constant is a compile-time constant. Constants are inlined by the
// analyzer and never consume capture slots.
type Constant struct {
	Sp  source.Span
	Val Value
}

func (op *Constant) Span() source.Span { return op.Sp }

func (op *Constant) Eval(fr *Frame) (Value, error) {
	return op.Val, nil
}

func (op *Constant) String() string {
	return "const " + op.Val.String()
}

// LocalRef reads a frame slot directly. Legal because dependency-order
// initialization guarantees the slot is set before any reference to it
// runs.
type LocalRef struct {
	Sp   source.Span
	Slot uint32
}

func (op *LocalRef) Span() source.Span { return op.Sp }

func (op *LocalRef) Eval(fr *Frame) (Value, error) {
	if int(op.Slot) >= len(fr.Slots) {
		return nil, evalErrf(op.Sp, "slot %d out of range", op.Slot)
	}
	v := fr.Slots[op.Slot]
	if v == nil {
		return nil, evalErrf(op.Sp, "slot %d read before initialization", op.Slot)
	}
	return v, nil
}

func (op *LocalRef) String() string {
	return fmt.Sprintf("local[%d]", op.Slot)
}

// IndirectRef reads a module field through the module value stored in
// a frame slot, supporting late name-based lookup on the same module.
type IndirectRef struct {
	Sp         source.Span
	ModuleSlot uint32
	Slot       uint32
}

func (op *IndirectRef) Span() source.Span { return op.Sp }

func (op *IndirectRef) Eval(fr *Frame) (Value, error) {
	m, err := moduleAt(fr, op.Sp, op.ModuleSlot)
	if err != nil {
		return nil, err
	}
	v := m.Fields[op.Slot]
	if v == nil {
		return nil, evalErrf(op.Sp, "module field %d read before initialization", op.Slot)
	}
	return v, nil
}

func (op *IndirectRef) String() string {
	return fmt.Sprintf("module[%d].%d", op.ModuleSlot, op.Slot)
}

// SymbolicRef is a not-yet-resolved nonlocal reference inside a
// function body. Its concrete capture slot is unknown until the whole
// SCC group's record is built, so it resolves by name against the
// executing closure's record.
type SymbolicRef struct {
	Sp   source.Span
	Atom source.StringID
	Name string
}

func (op *SymbolicRef) Span() source.Span { return op.Sp }

func (op *SymbolicRef) Eval(fr *Frame) (Value, error) {
	if fr.Nonlocals == nil {
		return nil, evalErrf(op.Sp, "nonlocal %s outside a closure", op.Name)
	}
	v, ok := fr.Nonlocals.Field(op.Atom)
	if !ok {
		return nil, evalErrf(op.Sp, "nonlocal %s missing from capture record", op.Name)
	}
	return v, nil
}

func (op *SymbolicRef) String() string {
	return "nonlocal " + op.Name
}

// RecordExpr builds a capture record from per-slot operations.
type RecordExpr struct {
	Sp     source.Span
	Dict   *Dictionary
	Fields []Operation
}

func (op *RecordExpr) Span() source.Span { return op.Sp }

func (op *RecordExpr) Eval(fr *Frame) (Value, error) {
	rec := &Record{Dict: op.Dict, Fields: make([]Value, len(op.Fields))}
	for i, f := range op.Fields {
		v, err := f.Eval(fr)
		if err != nil {
			return nil, err
		}
		rec.Fields[i] = v
	}
	return rec, nil
}

func (op *RecordExpr) String() string {
	return fmt.Sprintf("record{%d}", len(op.Fields))
}

// LambdaExpr closes an anonymous lambda over its own capture record.
type LambdaExpr struct {
	Sp     source.Span
	Lambda *Lambda
	Caps   *RecordExpr
}

func (op *LambdaExpr) Span() source.Span { return op.Sp }

func (op *LambdaExpr) Eval(fr *Frame) (Value, error) {
	v, err := op.Caps.Eval(fr)
	if err != nil {
		return nil, err
	}
	return &Closure{Lambda: op.Lambda, Nonlocals: v.(*Record)}, nil
}

func (op *LambdaExpr) String() string {
	return "lambda" + fmt.Sprintf("{caps %d}", len(op.Caps.Fields))
}

// BlockExpr runs a scope's initializer/action sequence, then
// evaluates the block body in the same frame.
type BlockExpr struct {
	Sp   source.Span
	Ops  []Operation
	Body Operation
}

func (op *BlockExpr) Span() source.Span { return op.Sp }

func (op *BlockExpr) Eval(fr *Frame) (Value, error) {
	for _, o := range op.Ops {
		if _, err := o.Eval(fr); err != nil {
			return nil, err
		}
	}
	return op.Body.Eval(fr)
}

func (op *BlockExpr) String() string {
	return fmt.Sprintf("block{%d ops}", len(op.Ops))
}

// ModuleExpr creates a module value in its frame slot, runs the
// module's initializer/action sequence, and yields the module.
type ModuleExpr struct {
	Sp   source.Span
	Slot uint32 // frame slot holding the module during initialization
	Dict *Dictionary
	Ops  []Operation
}

func (op *ModuleExpr) Span() source.Span { return op.Sp }

func (op *ModuleExpr) Eval(fr *Frame) (Value, error) {
	m := &Module{Dict: op.Dict, Fields: make([]Value, op.Dict.Len())}
	if int(op.Slot) >= len(fr.Slots) {
		return nil, evalErrf(op.Sp, "module slot %d out of range", op.Slot)
	}
	fr.Slots[op.Slot] = m
	for _, o := range op.Ops {
		if _, err := o.Eval(fr); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (op *ModuleExpr) String() string {
	return fmt.Sprintf("module[%d]{%d ops}", op.Slot, len(op.Ops))
}
