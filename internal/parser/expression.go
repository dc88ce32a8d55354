package parser

import (
	"strconv"

	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/token"
)

// binPrec gives the left-associative binding power of infix operators.
// Zero means "not an infix operator".
func binPrec(k token.Kind) int {
	switch k {
	case token.OrOr:
		return 1
	case token.AndAnd:
		return 2
	case token.EqEq, token.BangEq:
		return 3
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return 4
	case token.Plus, token.Minus:
		return 5
	case token.Star, token.Slash, token.Percent:
		return 6
	default:
		return 0
	}
}

// parseExpr parses a full expression. `->` binds loosest and is
// right-associative, so `x -> x + 1` reads as `x -> (x + 1)`.
func (p *Parser) parseExpr() ast.Phrase {
	left := p.parseBinary(1)
	if p.cur().Kind != token.Arrow {
		return left
	}
	p.advance()
	params := p.lambdaParams(left)
	body := p.parseExpr()
	return &ast.Lambda{
		Params: params,
		Body:   body,
		Sp:     left.Span().Cover(body.Span()),
	}
}

// lambdaParams extracts the parameter names from a lambda head.
func (p *Parser) lambdaParams(head ast.Phrase) []*ast.Ident {
	switch h := head.(type) {
	case *ast.Ident:
		return []*ast.Ident{h}
	case *ast.Paren:
		if id, ok := h.X.(*ast.Ident); ok {
			return []*ast.Ident{id}
		}
	case *ast.ParenList:
		params := make([]*ast.Ident, 0, len(h.Elems))
		for _, e := range h.Elems {
			id, ok := e.(*ast.Ident)
			if !ok {
				diag.ReportError(p.reporter, diag.SynExpectParam, e.Span(),
					"lambda parameter must be an identifier")
				continue
			}
			params = append(params, id)
		}
		return params
	}
	diag.ReportError(p.reporter, diag.SynExpectParam, head.Span(),
		"lambda head must be a name or a parenthesized name list")
	return nil
}

func (p *Parser) parseBinary(minPrec int) ast.Phrase {
	left := p.parseUnary()
	for {
		prec := binPrec(p.cur().Kind)
		if prec < minPrec {
			return left
		}
		op := p.advance()
		right := p.parseBinary(prec + 1)
		left = &ast.Binary{
			Op: op.Kind, X: left, Y: right,
			Sp: left.Span().Cover(right.Span()),
		}
	}
}

func (p *Parser) parseUnary() ast.Phrase {
	tok := p.cur()
	if tok.Kind == token.Minus || tok.Kind == token.Bang {
		p.advance()
		x := p.parseUnary()
		return &ast.Unary{Op: tok.Kind, X: x, Sp: tok.Span.Cover(x.Span())}
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary followed by any number of call
// argument lists.
func (p *Parser) parsePostfix() ast.Phrase {
	e := p.parsePrimary()
	for p.cur().Kind == token.LParen {
		p.advance()
		args := make([]ast.Phrase, 0, 2)
		if p.cur().Kind != token.RParen {
			for {
				args = append(args, p.parseExpr())
				if p.cur().Kind != token.Comma {
					break
				}
				p.advance()
			}
		}
		end := p.cur().Span
		if p.cur().Kind == token.RParen {
			p.advance()
		} else {
			diag.ReportError(p.reporter, diag.SynUnclosedParen, end,
				"expected ')' after call arguments")
		}
		e = &ast.Call{Fn: e, Args: args, Sp: e.Span().Cover(end)}
	}
	return e
}

func (p *Parser) parsePrimary() ast.Phrase {
	tok := p.cur()
	switch tok.Kind {
	case token.Num:
		p.advance()
		val, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			val = 0
		}
		return &ast.Numeral{Val: val, Text: tok.Text, Sp: tok.Span}

	case token.Str:
		p.advance()
		return &ast.Str{Val: tok.Text, Sp: tok.Span}

	case token.Ident:
		p.advance()
		return &ast.Ident{
			Atom: p.names.Intern(tok.Text),
			Text: tok.Text,
			Sp:   tok.Span,
		}

	case token.LParen:
		return p.parseParen()

	case token.LBrace:
		p.advance()
		items := p.parseItems(token.RBrace)
		end := p.cur().Span
		if p.cur().Kind == token.RBrace {
			p.advance()
		} else {
			diag.ReportError(p.reporter, diag.SynUnclosedBrace, end,
				"expected '}' to close module literal")
		}
		return &ast.Module{Items: items, Sp: tok.Span.Cover(end)}

	case token.KwLet, token.KwLetrec:
		return p.parseBlock()

	case token.KwIf:
		return p.parseCond()

	default:
		p.unexpected("an expression")
		bad := p.bad()
		p.advance()
		return bad
	}
}

func (p *Parser) parseParen() ast.Phrase {
	open := p.advance() // '('
	elems := make([]ast.Phrase, 0, 2)
	if p.cur().Kind != token.RParen {
		for {
			elems = append(elems, p.parseExpr())
			if p.cur().Kind != token.Comma {
				break
			}
			p.advance()
		}
	}
	end := p.cur().Span
	if p.cur().Kind == token.RParen {
		p.advance()
	} else {
		diag.ReportError(p.reporter, diag.SynUnclosedParen, end,
			"expected ')'")
	}
	sp := open.Span.Cover(end)
	switch len(elems) {
	case 0:
		return &ast.ParenList{Sp: sp}
	case 1:
		return &ast.Paren{X: elems[0], Sp: sp}
	default:
		return &ast.ParenList{Elems: elems, Sp: sp}
	}
}

// parseBlock parses `let items in body` / `letrec items in body`.
func (p *Parser) parseBlock() ast.Phrase {
	kw := p.advance()
	kind := ast.BlockLet
	if kw.Kind == token.KwLetrec {
		kind = ast.BlockLetrec
	}
	items := p.parseItems(token.KwIn)
	if p.cur().Kind == token.KwIn {
		p.advance()
	} else {
		diag.ReportError(p.reporter, diag.SynExpectIn, p.cur().Span,
			"expected 'in' after "+kind.String()+" definitions")
	}
	body := p.parseExpr()
	return &ast.Block{
		Kind: kind, Items: items, Body: body,
		Sp: kw.Span.Cover(body.Span()),
	}
}

// parseCond parses `if (cond) then-expr else else-expr`.
func (p *Parser) parseCond() ast.Phrase {
	kw := p.advance()
	if p.cur().Kind == token.LParen {
		p.advance()
	} else {
		p.unexpected("'(' after 'if'")
	}
	cond := p.parseExpr()
	if p.cur().Kind == token.RParen {
		p.advance()
	} else {
		diag.ReportError(p.reporter, diag.SynUnclosedParen, p.cur().Span,
			"expected ')' after condition")
	}
	then := p.parseExpr()
	var els ast.Phrase
	if p.cur().Kind == token.KwElse {
		p.advance()
		els = p.parseExpr()
	} else {
		p.unexpected("'else'")
		els = then
	}
	return &ast.Cond{
		Cond: cond, Then: then, Else: els,
		Sp: kw.Span.Cover(els.Span()),
	}
}
