package source

import "testing"

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.curv", []byte("abc\ndef\n\nghi"))

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},  // a
		{2, 1, 3},  // c
		{3, 1, 4},  // the newline itself
		{4, 2, 1},  // d
		{8, 3, 1},  // empty line
		{9, 4, 1},  // g
		{11, 4, 3}, // i
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start.Line != tc.line || start.Col != tc.col {
			t.Errorf("offset %d: got %d:%d, want %d:%d",
				tc.off, start.Line, start.Col, tc.line, tc.col)
		}
	}

	start, end := fs.Resolve(Span{File: id, Start: 4, End: 7})
	if start.Line != 2 || start.Col != 1 || end.Line != 2 || end.Col != 4 {
		t.Errorf("span [4,7): got %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
}

func TestResolveUnknownFile(t *testing.T) {
	fs := NewFileSet()
	start, _ := fs.Resolve(Span{File: 7, Start: 0, End: 0})
	if start.Line != 1 || start.Col != 1 {
		t.Errorf("unknown file should resolve to 1:1, got %d:%d", start.Line, start.Col)
	}
}

func TestLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.curv", []byte("first\nsecond\nlast"))
	file := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, "last"}, // no trailing newline
	}
	for _, tc := range cases {
		if got := string(Line(file, tc.line)); got != tc.want {
			t.Errorf("line %d: got %q, want %q", tc.line, got, tc.want)
		}
	}
	if got := Line(file, 0); got != nil {
		t.Errorf("line 0: got %q, want nil", got)
	}
	if got := Line(file, 4); got != nil {
		t.Errorf("line past EOF: got %q, want nil", got)
	}
}

func TestAddAssignsDistinctIDs(t *testing.T) {
	fs := NewFileSet()
	a := fs.AddVirtual("a.curv", []byte("x"))
	b := fs.AddVirtual("a.curv", []byte("y"))
	if a == b {
		t.Error("re-adding a path must produce a fresh FileID")
	}
	if fs.Len() != 2 {
		t.Errorf("expected 2 files, got %d", fs.Len())
	}
	if string(fs.Get(b).Content) != "y" {
		t.Errorf("file b content: got %q", fs.Get(b).Content)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 0, Start: 4, End: 8}
	b := Span{File: 0, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Errorf("cover: got [%d,%d), want [2,8)", got.Start, got.End)
	}

	other := Span{File: 1, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("cross-file cover must leave the span unchanged, got %v", got)
	}
}
