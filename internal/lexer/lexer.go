package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"curv/internal/diag"
	"curv/internal/source"
	"curv/internal/token"
)

// Lexer scans one source file into tokens. Diagnostics go to the
// reporter; scanning continues past errors so the parser sees a
// best-effort token stream.
type Lexer struct {
	file     *source.File
	pos      uint32
	reporter diag.Reporter
	look     *token.Token
}

func New(file *source.File, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{file: file, reporter: reporter}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next returns the next significant token. After EOF it always
// returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

// Tokenize scans the whole file, EOF token included.
func Tokenize(file *source.File, reporter diag.Reporter) []token.Token {
	lx := New(file, reporter)
	toks := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()
	if lx.eof() {
		return token.Token{Kind: token.EOF, Span: lx.spanFrom(lx.pos)}
	}
	ch := lx.file.Content[lx.pos]
	switch {
	case ch >= utf8.RuneSelf:
		r, size := utf8.DecodeRune(lx.file.Content[lx.pos:])
		if unicode.IsLetter(r) {
			return lx.scanIdentOrKeyword()
		}
		start := lx.pos
		lx.pos += uint32(size)
		sp := lx.spanFrom(start)
		diag.ReportError(lx.reporter, diag.LexUnknownChar, sp,
			"unknown character "+strconv.Quote(string(r)))
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(r)}
	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	default:
		return lx.scanOperator()
	}
}

func (lx *Lexer) eof() bool {
	return int(lx.pos) >= len(lx.file.Content)
}

func (lx *Lexer) peekByte(off uint32) (byte, bool) {
	i := int(lx.pos + off)
	if i >= len(lx.file.Content) {
		return 0, false
	}
	return lx.file.Content[i], true
}

func (lx *Lexer) spanFrom(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.pos}
}

// skipTrivia consumes whitespace, line comments and block comments.
func (lx *Lexer) skipTrivia() {
	for !lx.eof() {
		ch := lx.file.Content[lx.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			lx.pos++
		case ch == '/':
			b1, ok := lx.peekByte(1)
			if !ok {
				return
			}
			switch b1 {
			case '/':
				for !lx.eof() && lx.file.Content[lx.pos] != '\n' {
					lx.pos++
				}
			case '*':
				lx.pos += 2
				for !lx.eof() {
					if lx.file.Content[lx.pos] == '*' {
						if b, ok := lx.peekByte(1); ok && b == '/' {
							lx.pos += 2
							break
						}
					}
					lx.pos++
				}
			default:
				return
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.pos
	ascii := true
	for !lx.eof() {
		ch := lx.file.Content[lx.pos]
		if isIdentContinueByte(ch) {
			lx.pos++
			continue
		}
		if ch < utf8.RuneSelf {
			break
		}
		r, size := utf8.DecodeRune(lx.file.Content[lx.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		ascii = false
		lx.pos += uint32(size)
	}
	text := string(lx.file.Content[start:lx.pos])
	if !ascii {
		// Identifiers compare by NFC form, so visually identical
		// spellings intern to the same atom.
		text = norm.NFC.String(text)
	}
	kind := token.Ident
	if k, ok := token.Keywords[text]; ok {
		kind = k
	}
	return token.Token{Kind: kind, Span: lx.spanFrom(start), Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.pos
	for !lx.eof() && isDec(lx.file.Content[lx.pos]) {
		lx.pos++
	}
	if b, ok := lx.peekByte(0); ok && b == '.' {
		if b1, ok := lx.peekByte(1); ok && isDec(b1) {
			lx.pos++
			for !lx.eof() && isDec(lx.file.Content[lx.pos]) {
				lx.pos++
			}
		}
	}
	if b, ok := lx.peekByte(0); ok && (b == 'e' || b == 'E') {
		save := lx.pos
		lx.pos++
		if b, ok := lx.peekByte(0); ok && (b == '+' || b == '-') {
			lx.pos++
		}
		if b, ok := lx.peekByte(0); ok && isDec(b) {
			for !lx.eof() && isDec(lx.file.Content[lx.pos]) {
				lx.pos++
			}
		} else {
			lx.pos = save
		}
	}
	text := string(lx.file.Content[start:lx.pos])
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		diag.ReportError(lx.reporter, diag.LexBadNumber, lx.spanFrom(start),
			"malformed numeral "+strconv.Quote(text))
		return token.Token{Kind: token.Invalid, Span: lx.spanFrom(start), Text: text}
	}
	return token.Token{Kind: token.Num, Span: lx.spanFrom(start), Text: text}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.pos
	lx.pos++ // opening quote
	var buf []byte
	for {
		if lx.eof() || lx.file.Content[lx.pos] == '\n' {
			diag.ReportError(lx.reporter, diag.LexUnterminatedString, lx.spanFrom(start),
				"unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: lx.spanFrom(start), Text: string(buf)}
		}
		ch := lx.file.Content[lx.pos]
		if ch == '"' {
			lx.pos++
			return token.Token{Kind: token.Str, Span: lx.spanFrom(start), Text: string(buf)}
		}
		if ch == '\\' {
			esc, ok := lx.peekByte(1)
			if ok {
				switch esc {
				case 'n':
					buf = append(buf, '\n')
				case 't':
					buf = append(buf, '\t')
				case '"', '\\':
					buf = append(buf, esc)
				default:
					buf = append(buf, '\\', esc)
				}
				lx.pos += 2
				continue
			}
		}
		buf = append(buf, ch)
		lx.pos++
	}
}

func (lx *Lexer) scanOperator() token.Token {
	start := lx.pos
	ch := lx.file.Content[lx.pos]
	lx.pos++
	two := func(next byte, k2, k1 token.Kind) token.Kind {
		if b, ok := lx.peekByte(0); ok && b == next {
			lx.pos++
			return k2
		}
		return k1
	}
	var kind token.Kind
	switch ch {
	case '+':
		kind = token.Plus
	case '-':
		kind = two('>', token.Arrow, token.Minus)
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '=':
		kind = two('=', token.EqEq, token.Assign)
	case '!':
		kind = two('=', token.BangEq, token.Bang)
	case '<':
		kind = two('=', token.LtEq, token.Lt)
	case '>':
		kind = two('=', token.GtEq, token.Gt)
	case '&':
		kind = two('&', token.AndAnd, token.Invalid)
	case '|':
		kind = two('|', token.OrOr, token.Invalid)
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	default:
		kind = token.Invalid
	}
	sp := lx.spanFrom(start)
	text := string(lx.file.Content[start:lx.pos])
	if kind == token.Invalid {
		diag.ReportError(lx.reporter, diag.LexUnknownChar, sp,
			"unknown character "+strconv.Quote(text))
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

func isDec(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStartByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinueByte(ch byte) bool {
	return isIdentStartByte(ch) || isDec(ch)
}
