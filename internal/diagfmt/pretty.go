package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"curv/internal/diag"
	"curv/internal/source"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
}

// Pretty formats diagnostics for humans. It walks bag.Items() (call
// bag.Sort() first for stable output) and prints, per diagnostic:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	<source line>
//	<caret underline>
//
// followed by any notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := &printer{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *printer) diagnostic(d diag.Diagnostic) {
	p.header(d.Severity, d.Code, d.Primary, d.Message)
	p.excerpt(d.Primary)
	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			p.header(diag.SevInfo, diag.UnknownCode, n.Span, n.Msg)
			p.excerpt(n.Span)
		}
	}
}

func (p *printer) header(sev diag.Severity, code diag.Code, sp source.Span, msg string) {
	pos := p.position(sp)
	sevText := sev.String()
	if p.opts.Color {
		sevText = severityColor(sev).Sprint(sevText)
	}
	if code == diag.UnknownCode {
		fmt.Fprintf(p.w, "%s: %s: %s\n", pos, sevText, msg)
		return
	}
	fmt.Fprintf(p.w, "%s: %s %s: %s\n", pos, sevText, code, msg)
}

func (p *printer) position(sp source.Span) string {
	file := p.fs.Get(sp.File)
	if file == nil {
		return "<unknown>"
	}
	start, _ := p.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

// excerpt prints the first source line the span touches with a caret
// underline. Widths are measured in display cells, so tabs and wide
// runes keep the carets aligned.
func (p *printer) excerpt(sp source.Span) {
	file := p.fs.Get(sp.File)
	if file == nil || len(file.Content) == 0 {
		return
	}
	start, end := p.fs.Resolve(sp)
	line := source.Line(file, start.Line)
	if line == nil {
		return
	}
	text := strings.ReplaceAll(string(line), "\t", "    ")
	fmt.Fprintf(p.w, "  %s\n", text)

	endCol := end.Col
	if end.Line != start.Line || endCol <= start.Col {
		endCol = start.Col + 1
	}
	head := displayWidth(line, start.Col-1)
	span := displayWidth(line[min(int(start.Col)-1, len(line)):], endCol-start.Col)
	if span < 1 {
		span = 1
	}
	marker := "^" + strings.Repeat("~", span-1)
	if p.opts.Color {
		marker = severityColor(diag.SevError).Sprint(marker)
	}
	fmt.Fprintf(p.w, "  %s%s\n", strings.Repeat(" ", head), marker)
}

// displayWidth measures the display cells taken by the first n bytes
// of line, with tabs already expanded to four cells.
func displayWidth(line []byte, n uint32) int {
	if int(n) > len(line) {
		n = uint32(len(line))
	}
	text := strings.ReplaceAll(string(line[:n]), "\t", "    ")
	return runewidth.StringWidth(text)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
