package parser

import (
	"strconv"

	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/lexer"
	"curv/internal/source"
	"curv/internal/token"
)

// Parser turns one token stream into phrases. It reports syntax
// diagnostics and keeps going, producing a best-effort tree.
type Parser struct {
	toks     []token.Token
	i        int
	names    *source.Interner
	reporter diag.Reporter
}

func New(file *source.File, names *source.Interner, reporter diag.Reporter) *Parser {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Parser{
		toks:     lexer.Tokenize(file, reporter),
		names:    names,
		reporter: reporter,
	}
}

// File parses a whole source file as a module body.
func File(file *source.File, names *source.Interner, reporter diag.Reporter) *ast.Module {
	p := New(file, names, reporter)
	items := p.parseItems(token.EOF)
	sp := source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))}
	return &ast.Module{Items: items, Sp: sp}
}

// Expression parses a single expression (REPL input).
func Expression(file *source.File, names *source.Interner, reporter diag.Reporter) ast.Phrase {
	p := New(file, names, reporter)
	e := p.parseExpr()
	if p.cur().Kind != token.EOF {
		p.unexpected("end of input")
	}
	return e
}

// Item parses a single definition or statement (REPL input).
// The second result reports whether the input was a definition.
func Item(file *source.File, names *source.Interner, reporter diag.Reporter) (ast.Item, bool) {
	p := New(file, names, reporter)
	item := p.parseItem()
	if p.cur().Kind == token.Semicolon {
		p.advance()
	}
	if p.cur().Kind != token.EOF {
		p.unexpected("end of input")
	}
	return item, item.Def != nil
}

func (p *Parser) cur() token.Token { return p.toks[p.i] }

func (p *Parser) peek() token.Token {
	if p.i+1 < len(p.toks) {
		return p.toks[p.i+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) advance() token.Token {
	tok := p.toks[p.i]
	if p.i+1 < len(p.toks) {
		p.i++
	}
	return tok
}

func (p *Parser) unexpected(wanted string) {
	tok := p.cur()
	got := tok.Kind.String()
	if tok.Kind == token.Ident || tok.IsLiteral() {
		got = strconv.Quote(tok.Text)
	}
	diag.ReportError(p.reporter, diag.SynUnexpectedToken, tok.Span,
		"expected "+wanted+", found "+got)
}

// bad produces a placeholder phrase at the current position so the
// tree stays well-formed after an error.
func (p *Parser) bad() ast.Phrase {
	return &ast.Numeral{Val: 0, Text: "0", Sp: p.cur().Span}
}

// parseItems parses `item (';' item)*` until the terminator kind.
func (p *Parser) parseItems(until token.Kind) []ast.Item {
	items := make([]ast.Item, 0, 4)
	for {
		for p.cur().Kind == token.Semicolon {
			p.advance()
		}
		if p.cur().Kind == until || p.cur().Kind == token.EOF {
			return items
		}
		items = append(items, p.parseItem())
		switch p.cur().Kind {
		case token.Semicolon:
			p.advance()
		case until, token.EOF:
			return items
		default:
			diag.ReportError(p.reporter, diag.SynExpectSemicolon, p.cur().Span,
				"expected ';' between items")
			p.advance()
		}
	}
}

// parseItem parses one definition or bare statement. A definition is
// recognized after the fact: an expression followed by `=` whose shape
// is a plain name or a call of plain names.
func (p *Parser) parseItem() ast.Item {
	head := p.parseExpr()
	if p.cur().Kind != token.Assign {
		return ast.Item{Stmt: head}
	}
	eq := p.advance()
	definiens := p.parseExpr()
	sp := head.Span().Cover(definiens.Span())

	switch h := head.(type) {
	case *ast.Ident:
		return ast.Item{Def: &ast.Def{Name: h, Definiens: definiens, Sp: sp}}
	case *ast.Call:
		name, ok := h.Fn.(*ast.Ident)
		if !ok {
			break
		}
		params := make([]*ast.Ident, 0, len(h.Args))
		for _, a := range h.Args {
			id, ok := a.(*ast.Ident)
			if !ok {
				diag.ReportError(p.reporter, diag.SynExpectParam, a.Span(),
					"function parameter must be an identifier")
				continue
			}
			params = append(params, id)
		}
		return ast.Item{Def: &ast.Def{
			Name: name, Params: params, HasParams: true,
			Definiens: definiens, Sp: sp,
		}}
	}
	diag.ReportError(p.reporter, diag.SynUnexpectedToken, eq.Span,
		"left side of '=' must be a name or a function head")
	return ast.Item{Stmt: definiens}
}
