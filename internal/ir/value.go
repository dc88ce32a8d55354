package ir

import (
	"strconv"
	"strings"

	"curv/internal/source"
)

// ValueKind tags the dynamic type of a runtime value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindNum
	KindStr
	KindLambda
	KindClosure
	KindNative
	KindRecord
	KindModule
)

// Value is a runtime value produced by evaluating operations.
type Value interface {
	Kind() ValueKind
	String() string
}

type Null struct{}

func (Null) Kind() ValueKind { return KindNull }
func (Null) String() string  { return "null" }

type Bool bool

func (Bool) Kind() ValueKind  { return KindBool }
func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

type Num float64

func (Num) Kind() ValueKind { return KindNum }
func (v Num) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

type Str string

func (Str) Kind() ValueKind  { return KindStr }
func (v Str) String() string { return strconv.Quote(string(v)) }

// Lambda is the immutable compiled form of a function: its body and
// frame requirements, but no captured environment yet. A Lambda is a
// legitimate compile-time constant; the capture record it runs
// against is supplied later, when the closure is formed.
type Lambda struct {
	Body   Operation
	NArgs  uint32
	NSlots uint32
	Name   string // binding name, for display; empty for anonymous lambdas
}

func (*Lambda) Kind() ValueKind { return KindLambda }
func (v *Lambda) String() string {
	if v.Name != "" {
		return "<lambda " + v.Name + ">"
	}
	return "<lambda>"
}

// Closure pairs a Lambda with its capture record.
type Closure struct {
	Lambda    *Lambda
	Nonlocals *Record
}

func (*Closure) Kind() ValueKind { return KindClosure }
func (v *Closure) String() string {
	if v.Lambda.Name != "" {
		return "<function " + v.Lambda.Name + ">"
	}
	return "<function>"
}

// Native is a builtin function implemented in Go.
type Native struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
}

func (*Native) Kind() ValueKind  { return KindNative }
func (v *Native) String() string { return "<builtin " + v.Name + ">" }

// Record is a nonlocal capture record: a dictionary plus one value
// per slot. One Record is shared by every closure of an SCC group.
type Record struct {
	Dict   *Dictionary
	Fields []Value
}

func (*Record) Kind() ValueKind  { return KindRecord }
func (v *Record) String() string { return "<record>" }

// Field returns the record field bound to atom.
func (v *Record) Field(atom source.StringID) (Value, bool) {
	slot, ok := v.Dict.Slot(atom)
	if !ok {
		return nil, false
	}
	return v.Fields[slot], true
}

// Module is the runtime value of a module-target scope: slot values
// plus the published name→slot table.
type Module struct {
	Dict   *Dictionary
	Fields []Value
}

func (*Module) Kind() ValueKind { return KindModule }

// Field returns the module field bound to atom.
func (v *Module) Field(atom source.StringID) (Value, bool) {
	slot, ok := v.Dict.Slot(atom)
	if !ok {
		return nil, false
	}
	return v.Fields[slot], true
}
func (v *Module) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i := range v.Fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(v.Fields[i].String())
	}
	b.WriteByte('}')
	return b.String()
}
