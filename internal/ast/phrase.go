package ast

import (
	"curv/internal/source"
	"curv/internal/token"
)

// Phrase is a parsed syntax-tree node. Phrases are immutable after
// parsing and may be shared between the analyzer, the emitted IR, and
// diagnostic contexts.
type Phrase interface {
	Span() source.Span
}

// Ident is an identifier use or a binding name.
type Ident struct {
	Atom source.StringID
	Text string
	Sp   source.Span
}

func (p *Ident) Span() source.Span { return p.Sp }

// Numeral is a numeric literal.
type Numeral struct {
	Val  float64
	Text string
	Sp   source.Span
}

func (p *Numeral) Span() source.Span { return p.Sp }

// Str is a string literal, already unescaped.
type Str struct {
	Val string
	Sp  source.Span
}

func (p *Str) Span() source.Span { return p.Sp }

// Paren is a parenthesized sub-expression.
type Paren struct {
	X  Phrase
	Sp source.Span
}

func (p *Paren) Span() source.Span { return p.Sp }

// Unary is a prefix operator application.
type Unary struct {
	Op token.Kind
	X  Phrase
	Sp source.Span
}

func (p *Unary) Span() source.Span { return p.Sp }

// Binary is an infix operator application.
type Binary struct {
	Op   token.Kind
	X, Y Phrase
	Sp   source.Span
}

func (p *Binary) Span() source.Span { return p.Sp }

// Cond is `if (cond) a else b`.
type Cond struct {
	Cond, Then, Else Phrase
	Sp               source.Span
}

func (p *Cond) Span() source.Span { return p.Sp }

// Call is `f(a, b, ...)`.
type Call struct {
	Fn   Phrase
	Args []Phrase
	Sp   source.Span
}

func (p *Call) Span() source.Span { return p.Sp }

// Lambda is `x -> body` or `(a, b) -> body`.
//
// SharedNonlocals is set by the analyzer when the lambda is the
// definiens of a function definition in a recursive scope: its
// nonlocal capture record is then built once per SCC group rather than
// per lambda.
type Lambda struct {
	Params          []*Ident
	Body            Phrase
	SharedNonlocals bool
	Sp              source.Span
}

func (p *Lambda) Span() source.Span { return p.Sp }
