package ir

import (
	"errors"
	"testing"

	"curv/internal/source"
	"curv/internal/token"
)

func num(v float64) *Constant { return &Constant{Val: Num(v)} }

func boolean(v bool) *Constant { return &Constant{Val: Bool(v)} }

// failing is an operation that must not be evaluated.
type failing struct{}

func (failing) Span() source.Span { return source.Span{} }
func (failing) Eval(*Frame) (Value, error) {
	return nil, evalErrf(source.Span{}, "must not evaluate")
}
func (failing) String() string { return "failing" }

func TestBinaryArithmetic(t *testing.T) {
	fr := NewFrame(0)
	cases := []struct {
		op   token.Kind
		x, y float64
		want float64
	}{
		{token.Plus, 2, 3, 5},
		{token.Minus, 2, 3, -1},
		{token.Star, 4, 2.5, 10},
		{token.Slash, 7, 2, 3.5},
		{token.Percent, 7, 3, 1},
	}
	for _, tc := range cases {
		op := &Binary{Op: tc.op, X: num(tc.x), Y: num(tc.y)}
		v, err := op.Eval(fr)
		if err != nil {
			t.Fatalf("%s: %v", tc.op, err)
		}
		if v != Num(tc.want) {
			t.Errorf("%g %s %g: got %s, want %g", tc.x, tc.op, tc.y, v, tc.want)
		}
	}
}

func TestShortCircuit(t *testing.T) {
	fr := NewFrame(0)

	and := &Binary{Op: token.AndAnd, X: boolean(false), Y: failing{}}
	v, err := and.Eval(fr)
	if err != nil || v != Bool(false) {
		t.Errorf("false && _: got %v, %v", v, err)
	}

	or := &Binary{Op: token.OrOr, X: boolean(true), Y: failing{}}
	v, err = or.Eval(fr)
	if err != nil || v != Bool(true) {
		t.Errorf("true || _: got %v, %v", v, err)
	}

	and = &Binary{Op: token.AndAnd, X: boolean(true), Y: boolean(false)}
	if v, _ := and.Eval(fr); v != Bool(false) {
		t.Errorf("true && false: got %v", v)
	}
}

func TestValueEq(t *testing.T) {
	cases := []struct {
		x, y Value
		want bool
	}{
		{Num(1), Num(1), true},
		{Num(1), Num(2), false},
		{Str("a"), Str("a"), true},
		{Str("a"), Num(1), false},
		{Bool(true), Bool(true), true},
		{Null{}, Null{}, true},
		{Null{}, Bool(false), false},
	}
	for _, tc := range cases {
		if got := valueEq(tc.x, tc.y); got != tc.want {
			t.Errorf("valueEq(%s, %s): got %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestCondEvaluatesOnlyTakenBranch(t *testing.T) {
	fr := NewFrame(0)

	op := &Cond{Cond: boolean(true), Then: num(1), Else: failing{}}
	v, err := op.Eval(fr)
	if err != nil || v != Num(1) {
		t.Errorf("if true: got %v, %v", v, err)
	}

	op = &Cond{Cond: boolean(false), Then: failing{}, Else: num(2)}
	v, err = op.Eval(fr)
	if err != nil || v != Num(2) {
		t.Errorf("if false: got %v, %v", v, err)
	}

	op = &Cond{Cond: num(3), Then: num(1), Else: num(2)}
	if _, err := op.Eval(fr); err == nil {
		t.Error("non-boolean condition should fail")
	}
}

func TestLocalRefUninitialized(t *testing.T) {
	fr := NewFrame(2)
	fr.Slots[0] = Num(7)

	if v, err := (&LocalRef{Slot: 0}).Eval(fr); err != nil || v != Num(7) {
		t.Errorf("slot 0: got %v, %v", v, err)
	}

	_, err := (&LocalRef{Slot: 1}).Eval(fr)
	var everr *EvalError
	if !errors.As(err, &everr) {
		t.Fatalf("uninitialized slot should yield an EvalError, got %v", err)
	}

	if _, err := (&LocalRef{Slot: 5}).Eval(fr); err == nil {
		t.Error("out-of-range slot should fail")
	}
}

func TestCallArity(t *testing.T) {
	fr := NewFrame(0)
	lam := &Lambda{Body: &LocalRef{Slot: 0}, NArgs: 1, NSlots: 1, Name: "id"}
	cl := &Constant{Val: &Closure{Lambda: lam, Nonlocals: &Record{Dict: NewDictionary()}}}

	call := &Call{Fn: cl, Args: []Operation{num(42)}}
	v, err := call.Eval(fr)
	if err != nil || v != Num(42) {
		t.Fatalf("id(42): got %v, %v", v, err)
	}

	call = &Call{Fn: cl, Args: []Operation{num(1), num(2)}}
	if _, err := call.Eval(fr); err == nil {
		t.Error("wrong arity should fail")
	}

	call = &Call{Fn: num(3), Args: nil}
	if _, err := call.Eval(fr); err == nil {
		t.Error("calling a number should fail")
	}
}

func TestDictionaryOrder(t *testing.T) {
	d := NewDictionary()
	a := source.StringID(5)
	b := source.StringID(3)
	c := source.StringID(9)
	if s := d.Add(a); s != 0 {
		t.Errorf("first atom: slot %d", s)
	}
	if s := d.Add(b); s != 1 {
		t.Errorf("second atom: slot %d", s)
	}
	if s := d.Add(c); s != 2 {
		t.Errorf("third atom: slot %d", s)
	}
	// Insertion order, not atom order.
	atoms := d.Atoms()
	if len(atoms) != 3 || atoms[0] != a || atoms[1] != b || atoms[2] != c {
		t.Errorf("unexpected atom order: %v", atoms)
	}
	if s, ok := d.Slot(b); !ok || s != 1 {
		t.Errorf("Slot(b): got %d, %v", s, ok)
	}
	if d.Has(source.StringID(100)) {
		t.Error("Has of unknown atom should be false")
	}
}
