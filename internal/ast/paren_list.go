package ast

import (
	"curv/internal/source"
)

// ParenList is a parenthesized comma list, e.g. `(a, b)`. It is only
// meaningful as the head of a lambda; anywhere else the analyzer
// rejects it.
type ParenList struct {
	Elems []Phrase
	Sp    source.Span
}

func (p *ParenList) Span() source.Span { return p.Sp }
