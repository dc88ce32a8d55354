package ir

import (
	"fmt"
	"math"

	"curv/internal/source"
	"curv/internal/token"
)

// Unary is a prefix operator application.
type Unary struct {
	Sp source.Span
	Op token.Kind
	X  Operation
}

func (op *Unary) Span() source.Span { return op.Sp }

func (op *Unary) Eval(fr *Frame) (Value, error) {
	x, err := op.X.Eval(fr)
	if err != nil {
		return nil, err
	}
	switch op.Op {
	case token.Minus:
		n, ok := x.(Num)
		if !ok {
			return nil, evalErrf(op.Sp, "operand of '-' is not a number: %s", x)
		}
		return -n, nil
	case token.Bang:
		b, ok := x.(Bool)
		if !ok {
			return nil, evalErrf(op.Sp, "operand of '!' is not a boolean: %s", x)
		}
		return !b, nil
	}
	return nil, evalErrf(op.Sp, "bad unary operator %s", op.Op)
}

func (op *Unary) String() string {
	return fmt.Sprintf("(%s %s)", op.Op, op.X)
}

// Binary is an infix operator application. '&&' and '||' short-circuit.
type Binary struct {
	Sp   source.Span
	Op   token.Kind
	X, Y Operation
}

func (op *Binary) Span() source.Span { return op.Sp }

func (op *Binary) Eval(fr *Frame) (Value, error) {
	if op.Op == token.AndAnd || op.Op == token.OrOr {
		return op.evalShortCircuit(fr)
	}
	x, err := op.X.Eval(fr)
	if err != nil {
		return nil, err
	}
	y, err := op.Y.Eval(fr)
	if err != nil {
		return nil, err
	}
	switch op.Op {
	case token.EqEq:
		return Bool(valueEq(x, y)), nil
	case token.BangEq:
		return Bool(!valueEq(x, y)), nil
	}
	xn, xok := x.(Num)
	yn, yok := y.(Num)
	if !xok || !yok {
		return nil, evalErrf(op.Sp, "operands of '%s' are not numbers: %s, %s", op.Op, x, y)
	}
	switch op.Op {
	case token.Plus:
		return xn + yn, nil
	case token.Minus:
		return xn - yn, nil
	case token.Star:
		return xn * yn, nil
	case token.Slash:
		return xn / yn, nil
	case token.Percent:
		return Num(math.Mod(float64(xn), float64(yn))), nil
	case token.Lt:
		return Bool(xn < yn), nil
	case token.LtEq:
		return Bool(xn <= yn), nil
	case token.Gt:
		return Bool(xn > yn), nil
	case token.GtEq:
		return Bool(xn >= yn), nil
	}
	return nil, evalErrf(op.Sp, "bad binary operator %s", op.Op)
}

func (op *Binary) evalShortCircuit(fr *Frame) (Value, error) {
	x, err := op.X.Eval(fr)
	if err != nil {
		return nil, err
	}
	xb, ok := x.(Bool)
	if !ok {
		return nil, evalErrf(op.Sp, "operand of '%s' is not a boolean: %s", op.Op, x)
	}
	if op.Op == token.AndAnd && !bool(xb) {
		return Bool(false), nil
	}
	if op.Op == token.OrOr && bool(xb) {
		return Bool(true), nil
	}
	y, err := op.Y.Eval(fr)
	if err != nil {
		return nil, err
	}
	yb, ok := y.(Bool)
	if !ok {
		return nil, evalErrf(op.Sp, "operand of '%s' is not a boolean: %s", op.Op, y)
	}
	return yb, nil
}

func (op *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", op.X, op.Op, op.Y)
}

func valueEq(x, y Value) bool {
	switch xv := x.(type) {
	case Num:
		yv, ok := y.(Num)
		return ok && xv == yv
	case Bool:
		yv, ok := y.(Bool)
		return ok && xv == yv
	case Str:
		yv, ok := y.(Str)
		return ok && xv == yv
	case Null:
		_, ok := y.(Null)
		return ok
	default:
		return x == y
	}
}

// Cond is `if (cond) a else b`; only the taken branch evaluates.
type Cond struct {
	Sp               source.Span
	Cond, Then, Else Operation
}

func (op *Cond) Span() source.Span { return op.Sp }

func (op *Cond) Eval(fr *Frame) (Value, error) {
	c, err := op.Cond.Eval(fr)
	if err != nil {
		return nil, err
	}
	b, ok := c.(Bool)
	if !ok {
		return nil, evalErrf(op.Cond.Span(), "condition is not a boolean: %s", c)
	}
	if bool(b) {
		return op.Then.Eval(fr)
	}
	return op.Else.Eval(fr)
}

func (op *Cond) String() string {
	return fmt.Sprintf("(if %s %s %s)", op.Cond, op.Then, op.Else)
}

// Call applies a closure or builtin to its arguments.
type Call struct {
	Sp   source.Span
	Fn   Operation
	Args []Operation
}

func (op *Call) Span() source.Span { return op.Sp }

func (op *Call) Eval(fr *Frame) (Value, error) {
	fn, err := op.Fn.Eval(fr)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(op.Args))
	for i, a := range op.Args {
		if args[i], err = a.Eval(fr); err != nil {
			return nil, err
		}
	}
	switch f := fn.(type) {
	case *Closure:
		if uint32(len(args)) != f.Lambda.NArgs {
			return nil, evalErrf(op.Sp, "%s expects %d arguments, got %d",
				f, f.Lambda.NArgs, len(args))
		}
		callee := &Frame{
			Slots:     make([]Value, f.Lambda.NSlots),
			Nonlocals: f.Nonlocals,
		}
		copy(callee.Slots, args)
		return f.Lambda.Body.Eval(callee)
	case *Native:
		if f.Arity >= 0 && len(args) != f.Arity {
			return nil, evalErrf(op.Sp, "%s expects %d arguments, got %d",
				f, f.Arity, len(args))
		}
		v, err := f.Fn(args)
		if err != nil {
			return nil, evalErrf(op.Sp, "%s: %s", f.Name, err)
		}
		return v, nil
	default:
		return nil, evalErrf(op.Sp, "value is not callable: %s", fn)
	}
}

func (op *Call) String() string {
	return fmt.Sprintf("call %s/%d", op.Fn, len(op.Args))
}
