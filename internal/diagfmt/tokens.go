package diagfmt

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"

	"curv/internal/source"
	"curv/internal/token"
)

// Tokens prints one token per line: position, kind, and the literal
// text for tokens that carry one.
func Tokens(w io.Writer, toks []token.Token, fs *source.FileSet) error {
	// Align the position column on its widest entry.
	positions := make([]string, len(toks))
	width := 0
	for i, tok := range toks {
		start, _ := fs.Resolve(tok.Span)
		positions[i] = fmt.Sprintf("%d:%d", start.Line, start.Col)
		if n := runewidth.StringWidth(positions[i]); n > width {
			width = n
		}
	}
	for i, tok := range toks {
		pad := width - runewidth.StringWidth(positions[i])
		line := positions[i] + spaces(pad) + "  " + tok.Kind.String()
		if tok.Kind == token.Ident || tok.IsLiteral() {
			line += "  " + strconv.Quote(tok.Text)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
