package sema

import (
	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/ir"
	"curv/internal/source"
)

// Env is a compile-time environment: one link of the lexical lookup
// chain. Environments nest strictly with the analysis call stack; an
// Env must never be retained past the analysis call that created it.
type Env interface {
	// SingleLookup resolves id in this environment only.
	// (nil, nil) means "not here, ask the parent".
	SingleLookup(id *ast.Ident) (ir.Operation, error)
	// Parent is the enclosing environment, nil at the chain's end.
	Parent() Env
	// FrameSlots is the current slot watermark of this env's frame.
	FrameSlots() uint32
	// GrowFrame raises this env's frame high-water mark.
	GrowFrame(n uint32)
	// MakeSlot allocates the next slot of this env's frame.
	MakeSlot() uint32
}

// Lookup resolves id through the environment chain.
func Lookup(env Env, id *ast.Ident) (ir.Operation, error) {
	for e := env; e != nil; e = e.Parent() {
		op, err := e.SingleLookup(id)
		if err != nil {
			return nil, err
		}
		if op != nil {
			return op, nil
		}
	}
	return nil, errAt(diag.SemaUnresolvedName, id.Sp, "unresolved name %s", id.Text)
}

// baseEnv carries the parent link and the frame slot accounting shared
// by every environment kind.
type baseEnv struct {
	parent        Env
	frameNSlots   uint32
	frameMaxSlots uint32
}

// newBaseEnv continues the parent's frame: slot allocation starts at
// the parent's current watermark and is released when the child env
// goes out of scope.
func newBaseEnv(parent Env) baseEnv {
	var n uint32
	if parent != nil {
		n = parent.FrameSlots()
	}
	return baseEnv{parent: parent, frameNSlots: n, frameMaxSlots: n}
}

// newFrameEnv starts a fresh frame with nslots already occupied
// (function parameters).
func newFrameEnv(parent Env, nslots uint32) baseEnv {
	return baseEnv{parent: parent, frameNSlots: nslots, frameMaxSlots: nslots}
}

func (e *baseEnv) Parent() Env        { return e.parent }
func (e *baseEnv) FrameSlots() uint32 { return e.frameNSlots }

func (e *baseEnv) GrowFrame(n uint32) {
	if n > e.frameMaxSlots {
		e.frameMaxSlots = n
	}
}

func (e *baseEnv) MakeSlot() uint32 {
	slot := e.frameNSlots
	e.frameNSlots++
	if e.frameNSlots > e.frameMaxSlots {
		e.frameMaxSlots = e.frameNSlots
	}
	return slot
}

// FrameMax is the high-water slot count of this env's frame.
func (e *baseEnv) FrameMax() uint32 { return e.frameMaxSlots }

// RootEnv is the fresh evaluation frame at the top of one compilation.
type RootEnv struct {
	baseEnv
}

func NewRootEnv(parent Env) *RootEnv {
	return &RootEnv{baseEnv: newFrameEnv(parent, 0)}
}

func (e *RootEnv) SingleLookup(id *ast.Ident) (ir.Operation, error) {
	return nil, nil
}

// paramScope binds the parameters of one lambda in a fresh frame.
type paramScope struct {
	baseEnv
	params map[source.StringID]uint32
}

func newParamScope(parent Env, params []*ast.Ident) (*paramScope, error) {
	ps := &paramScope{
		baseEnv: newFrameEnv(parent, uint32(len(params))),
		params:  make(map[source.StringID]uint32, len(params)),
	}
	for i, p := range params {
		if _, dup := ps.params[p.Atom]; dup {
			return nil, errAt(diag.BindMultiplyDefined, p.Sp, "%s: multiply defined", p.Text)
		}
		ps.params[p.Atom] = uint32(i)
	}
	return ps, nil
}

func (s *paramScope) SingleLookup(id *ast.Ident) (ir.Operation, error) {
	slot, ok := s.params[id.Atom]
	if !ok {
		return nil, nil
	}
	return &ir.LocalRef{Sp: id.Sp, Slot: slot}, nil
}
