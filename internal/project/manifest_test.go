package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[run]\nmain = \"main.curv\"\n")

	m, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if m.Config.Package.Name != "demo" {
		t.Fatalf("package name = %q, want demo", m.Config.Package.Name)
	}
	if m.Root != dir {
		t.Fatalf("root = %q, want %q", m.Root, dir)
	}
}

func TestLoadWalksUp(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[run]\nmain = \"main.curv\"\n")
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := Load(sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found from nested directory")
	}
	if m.Root != dir {
		t.Fatalf("root = %q, want %q", m.Root, dir)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing package", "[run]\nmain = \"main.curv\"\n", "missing [package]"},
		{"missing name", "[package]\n\n[run]\nmain = \"main.curv\"\n", "missing [package].name"},
		{"empty name", "[package]\nname = \"  \"\n\n[run]\nmain = \"main.curv\"\n", "missing [package].name"},
		{"missing run", "[package]\nname = \"demo\"\n", "missing [run]"},
		{"missing main", "[package]\nname = \"demo\"\n\n[run]\n", "missing [run].main"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, c.content)
			_, ok, err := Load(dir)
			if !ok {
				t.Fatal("manifest should be found")
			}
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, c.wantErr)
			}
		})
	}
}

func TestMainPath(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[run]\nmain = \"src/main.curv\"\n")
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	main := filepath.Join(dir, "src", "main.curv")
	if err := os.WriteFile(main, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write main: %v", err)
	}

	m, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := m.MainPath()
	if err != nil {
		t.Fatalf("MainPath: %v", err)
	}
	if got != main {
		t.Fatalf("main path = %q, want %q", got, main)
	}
}

func TestMainPathMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[run]\nmain = \"nope.curv\"\n")
	m, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := m.MainPath(); err == nil {
		t.Fatal("expected error for missing main file")
	}
}

func TestFindNotFound(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if ok {
		// An ancestor of the temp dir happens to carry a manifest.
		t.Skip("manifest present above temp dir")
	}
}
