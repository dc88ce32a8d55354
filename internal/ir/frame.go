package ir

import (
	"fmt"

	"curv/internal/source"
)

// NoSlot marks "no slot assigned": a local (non-module) target.
const NoSlot = ^uint32(0)

// Frame holds the slot storage of one evaluation activation plus the
// capture record of the executing closure (nil outside closures).
type Frame struct {
	Slots     []Value
	Nonlocals *Record
}

func NewFrame(nslots uint32) *Frame {
	return &Frame{Slots: make([]Value, nslots)}
}

// EvalError is an evaluation failure carrying the source span of the
// operation that failed.
type EvalError struct {
	Sp  source.Span
	Msg string
}

func (e *EvalError) Error() string {
	return e.Msg
}

func evalErrf(sp source.Span, format string, args ...any) error {
	return &EvalError{Sp: sp, Msg: fmt.Sprintf(format, args...)}
}

// moduleAt fetches the module value stored in a frame slot.
func moduleAt(fr *Frame, sp source.Span, slot uint32) (*Module, error) {
	if int(slot) >= len(fr.Slots) {
		return nil, evalErrf(sp, "module slot %d out of range", slot)
	}
	m, ok := fr.Slots[slot].(*Module)
	if !ok {
		return nil, evalErrf(sp, "slot %d does not hold a module", slot)
	}
	return m, nil
}
