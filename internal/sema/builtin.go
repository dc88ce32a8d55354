package sema

import (
	"errors"
	"fmt"
	"math"

	"curv/internal/ast"
	"curv/internal/ir"
	"curv/internal/source"
)

// BuiltinEnv is the terminal environment holding the standard
// bindings. Every builtin resolves to a compile-time constant, so
// builtins are inlined and never consume capture slots.
type BuiltinEnv struct {
	names map[source.StringID]ir.Value
}

// NewBuiltinEnv interns the builtin names into in and binds the
// standard values to them.
func NewBuiltinEnv(in *source.Interner) *BuiltinEnv {
	e := &BuiltinEnv{names: make(map[source.StringID]ir.Value)}
	bind := func(name string, v ir.Value) {
		e.names[in.Intern(name)] = v
	}
	bind("null", ir.Null{})
	bind("true", ir.Bool(true))
	bind("false", ir.Bool(false))
	bind("pi", ir.Num(math.Pi))
	bind("tau", ir.Num(2*math.Pi))
	bind("inf", ir.Num(math.Inf(1)))

	bind("sqrt", native("sqrt", 1, func(args []ir.Value) (ir.Value, error) {
		n, err := wantNum(args[0])
		if err != nil {
			return nil, err
		}
		return ir.Num(math.Sqrt(float64(n))), nil
	}))
	bind("abs", native("abs", 1, func(args []ir.Value) (ir.Value, error) {
		n, err := wantNum(args[0])
		if err != nil {
			return nil, err
		}
		return ir.Num(math.Abs(float64(n))), nil
	}))
	bind("floor", native("floor", 1, func(args []ir.Value) (ir.Value, error) {
		n, err := wantNum(args[0])
		if err != nil {
			return nil, err
		}
		return ir.Num(math.Floor(float64(n))), nil
	}))
	bind("max", native("max", 2, func(args []ir.Value) (ir.Value, error) {
		x, err := wantNum(args[0])
		if err != nil {
			return nil, err
		}
		y, err := wantNum(args[1])
		if err != nil {
			return nil, err
		}
		return ir.Num(math.Max(float64(x), float64(y))), nil
	}))
	bind("min", native("min", 2, func(args []ir.Value) (ir.Value, error) {
		x, err := wantNum(args[0])
		if err != nil {
			return nil, err
		}
		y, err := wantNum(args[1])
		if err != nil {
			return nil, err
		}
		return ir.Num(math.Min(float64(x), float64(y))), nil
	}))
	bind("assert", native("assert", 1, func(args []ir.Value) (ir.Value, error) {
		b, ok := args[0].(ir.Bool)
		if !ok {
			return nil, fmt.Errorf("argument is not a boolean: %s", args[0])
		}
		if !bool(b) {
			return nil, errors.New("assertion failed")
		}
		return ir.Null{}, nil
	}))
	return e
}

func native(name string, arity int, fn func([]ir.Value) (ir.Value, error)) *ir.Native {
	return &ir.Native{Name: name, Arity: arity, Fn: fn}
}

func wantNum(v ir.Value) (ir.Num, error) {
	n, ok := v.(ir.Num)
	if !ok {
		return 0, fmt.Errorf("argument is not a number: %s", v)
	}
	return n, nil
}

func (e *BuiltinEnv) SingleLookup(id *ast.Ident) (ir.Operation, error) {
	v, ok := e.names[id.Atom]
	if !ok {
		return nil, nil
	}
	return &ir.Constant{Sp: id.Sp, Val: v}, nil
}

func (e *BuiltinEnv) Parent() Env        { return nil }
func (e *BuiltinEnv) FrameSlots() uint32 { return 0 }
func (e *BuiltinEnv) GrowFrame(n uint32) {}

func (e *BuiltinEnv) MakeSlot() uint32 {
	panic("builtin environment has no frame")
}
