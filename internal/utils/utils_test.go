package utils

import (
	"path/filepath"
	"testing"
)

func TestExportName(t *testing.T) {
	tests := map[string]string{
		"x":  "X",
		"vx": "Vx",
		"X":  "X",
		"":   "",
		"ñu": "Ñu",
	}
	for in, want := range tests {
		if got := ExportName(in); got != want {
			t.Errorf("ExportName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMemberPath(t *testing.T) {
	tests := map[string]string{
		"self":         "self",
		"self.x":       "self.X",
		"other.line.w": "other.Line.W",
	}
	for in, want := range tests {
		if got := MemberPath(in); got != want {
			t.Errorf("MemberPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGeneratedFileName(t *testing.T) {
	tests := map[string]string{
		"Geometric":     "geometric.go",
		"AntiGeometric": "anti_geometric.go",
		"unary":         "unary.go",
	}
	for in, want := range tests {
		if got := GeneratedFileName(in); got != want {
			t.Errorf("GeneratedFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("base", "out"); got != filepath.Join("base", "out") {
		t.Errorf("relative: got %q", got)
	}
	if got := ResolvePath(".", "out"); got != "out" {
		t.Errorf("dot base: got %q", got)
	}
	abs := filepath.Join(string(filepath.Separator), "tmp", "out")
	if got := ResolvePath("base", abs); got != abs {
		t.Errorf("absolute: got %q", got)
	}
	if got := ResolvePath("base", ""); got != "" {
		t.Errorf("empty path: got %q", got)
	}
	if got := ManifestPath("gen"); got != filepath.Join("gen", ".bladec", "manifest.db") {
		t.Errorf("manifest: got %q", got)
	}
}
