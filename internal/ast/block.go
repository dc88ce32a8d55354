package ast

import (
	"curv/internal/source"
)

// BlockKind distinguishes the scoping rule of a definition block.
type BlockKind uint8

const (
	// BlockLet is a strict textual-order block: `let items in body`.
	BlockLet BlockKind = iota
	// BlockLetrec allows forward references and mutual recursion:
	// `letrec items in body`.
	BlockLetrec
)

func (k BlockKind) String() string {
	if k == BlockLet {
		return "let"
	}
	return "letrec"
}

// Def is one named definition inside a block or module:
// `name = definiens` or `name(params) = definiens`.
type Def struct {
	Name      *Ident
	Params    []*Ident // nil unless the function-definition sugar was used
	HasParams bool
	Definiens Phrase
	Sp        source.Span
}

func (p *Def) Span() source.Span { return p.Sp }

// Item is one entry of a block or module: either a definition or a
// bare statement phrase. Exactly one field is set. Textual order of
// items is authoritative.
type Item struct {
	Def  *Def
	Stmt Phrase
}

// Block is `let items in body` / `letrec items in body`.
type Block struct {
	Kind  BlockKind
	Items []Item
	Body  Phrase
	Sp    source.Span
}

func (p *Block) Span() source.Span { return p.Sp }

// Module is a brace module literal `{ items }` or a whole source file.
// Module bindings are published by name for reflective lookup.
type Module struct {
	Items []Item
	Sp    source.Span
}

func (p *Module) Span() source.Span { return p.Sp }
