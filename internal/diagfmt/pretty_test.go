package diagfmt_test

import (
	"strings"
	"testing"

	"curv/internal/diag"
	"curv/internal/diagfmt"
	"curv/internal/lexer"
	"curv/internal/source"
)

func TestPretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.curv", []byte("x = 1;\ny = oops + 1;\n"))

	bag := diag.NewBag(8)
	// "oops" is at offsets [11,15) on line 2.
	bag.Add(diag.NewError(diag.SemaUnresolvedName, source.Span{File: id, Start: 11, End: 15},
		"oops: not defined"))

	var sb strings.Builder
	diagfmt.Pretty(&sb, bag, fs, diagfmt.PrettyOpts{})
	out := sb.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, excerpt and carets, got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "demo.curv:2:5: ERROR SemaUnresolvedName: oops: not defined" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "  y = oops + 1;" {
		t.Errorf("unexpected excerpt: %q", lines[1])
	}
	if lines[2] != "      ^~~~" {
		t.Errorf("unexpected caret line: %q", lines[2])
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.curv", []byte("x = 1; x = 2;"))

	d := diag.NewError(diag.BindMultiplyDefined, source.Span{File: id, Start: 7, End: 8},
		"x: multiply defined").
		WithNote(source.Span{File: id, Start: 0, End: 1}, "first defined here")
	bag := diag.NewBag(8)
	bag.Add(d)

	var withNotes, without strings.Builder
	diagfmt.Pretty(&withNotes, bag, fs, diagfmt.PrettyOpts{ShowNotes: true})
	diagfmt.Pretty(&without, bag, fs, diagfmt.PrettyOpts{})

	if !strings.Contains(withNotes.String(), "first defined here") {
		t.Errorf("note missing with ShowNotes:\n%s", withNotes.String())
	}
	if !strings.Contains(withNotes.String(), "demo.curv:1:1: INFO: first defined here") {
		t.Errorf("note header malformed:\n%s", withNotes.String())
	}
	if strings.Contains(without.String(), "first defined here") {
		t.Errorf("note printed without ShowNotes:\n%s", without.String())
	}
}

func TestPrettyTabExpansion(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.curv", []byte("\tbad"))

	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SemaUnresolvedName, source.Span{File: id, Start: 1, End: 4},
		"bad: not defined"))

	var sb strings.Builder
	diagfmt.Pretty(&sb, bag, fs, diagfmt.PrettyOpts{})
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if lines[1] != "      bad" {
		t.Errorf("tab not expanded in excerpt: %q", lines[1])
	}
	if lines[2] != "      ^~~" {
		t.Errorf("carets misaligned after tab: %q", lines[2])
	}
}

func TestTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.curv", []byte("x = 42;\n"))
	toks := lexer.Tokenize(fs.Get(id), nil)

	var sb strings.Builder
	if err := diagfmt.Tokens(&sb, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	// x, =, 42, ;, EOF
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), sb.String())
	}
	if lines[0] != `1:1  ident  "x"` {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "1:3  =" {
		t.Errorf("unexpected second line: %q", lines[1])
	}
	if lines[2] != `1:5  num  "42"` {
		t.Errorf("unexpected third line: %q", lines[2])
	}
}
