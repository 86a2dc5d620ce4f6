package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/bladec/internal/grammar"
	"github.com/funvibe/bladec/internal/typesystem"
)

const pga2dYAML = `
name: PGA-2D
grammar: [1, 1, 0]
blades:
  - {name: X, factors: [0]}
  - {name: Y, factors: [1]}
  - {name: W, factors: [2]}
  - {name: YW, factors: [1, 2]}
  - {name: WX, factors: [2, 0]}
  - {name: XY, factors: [0, 1]}
aggregates:
  - name: Point
    members:
      - {name: x, type: X}
      - {name: y, type: Y}
      - {name: w, type: W}
  - name: Line
    members:
      - {name: x, type: YW}
      - {name: y, type: WX}
      - {name: w, type: XY}
`

func TestParse_Valid(t *testing.T) {
	a, err := Parse([]byte(pga2dYAML), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Name != "PGA-2D" {
		t.Errorf("name = %q, want PGA-2D", a.Name)
	}
	if len(a.Blades) != 6 {
		t.Fatalf("expected 6 blades, got %d", len(a.Blades))
	}
	if a.Policy != DefaultPolicy {
		t.Errorf("policy = %q, want %q", a.Policy, DefaultPolicy)
	}
	if a.Package != "pga2d" {
		t.Errorf("package = %q, want pga2d", a.Package)
	}
}

func TestParse_Conventions(t *testing.T) {
	a, err := Parse([]byte(pga2dYAML), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conv := a.Conventions()
	if len(conv) != 1 {
		t.Fatalf("expected 1 convention, got %d", len(conv))
	}
	want := grammar.Convention{Canonical: []grammar.VecIndex{0, 2}, Preferred: []grammar.VecIndex{2, 0}}
	if !equalIndices(conv[0].Canonical, want.Canonical) || !equalIndices(conv[0].Preferred, want.Preferred) {
		t.Errorf("convention = %v, want %v", conv[0], want)
	}
}

func equalIndices(a, b []grammar.VecIndex) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuild(t *testing.T) {
	a, err := Parse([]byte(pga2dYAML), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g, reg, err := a.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if g.Dim() != 3 {
		t.Errorf("dim = %d, want 3", g.Dim())
	}
	if _, ok := reg.Aggregate("Line"); !ok {
		t.Error("Line not registered")
	}
	pref, ok := g.Preferred(grammar.Mask(0, 2))
	if !ok || !equalIndices(pref, []grammar.VecIndex{2, 0}) {
		t.Errorf("preferred e02 = %v %v, want [2 0]", pref, ok)
	}
	if reg.Policy() != typesystem.FirstDeclared {
		t.Errorf("policy = %v, want first", reg.Policy())
	}
}

func TestBuild_UnknownMemberType(t *testing.T) {
	yaml := `
name: broken
grammar: [1, 1]
blades:
  - {name: X, factors: [0]}
aggregates:
  - name: P
    members:
      - {name: x, type: Q}
`
	a, err := Parse([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, _, err = a.Build()
	var unknown *typesystem.UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
	if unknown.Name != "Q" {
		t.Errorf("unknown name = %q, want Q", unknown.Name)
	}
}

func TestBuild_DuplicateConvention(t *testing.T) {
	yaml := `
name: broken
grammar: [1, 1, 1]
blades:
  - {name: A, factors: [1, 0]}
  - {name: B, factors: [1, 0]}
`
	a, err := Parse([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, _, err = a.Build()
	var conv *grammar.ConventionError
	if !errors.As(err, &conv) {
		t.Fatalf("expected ConventionError, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "grammar: [1]\nblades: [{name: X, factors: [0]}]", "name is required"},
		{"missing grammar", "name: a\nblades: [{name: X, factors: [0]}]", "grammar is required"},
		{"no blades", "name: a\ngrammar: [1]", "no blades defined"},
		{"blade without name", "name: a\ngrammar: [1]\nblades: [{factors: [0]}]", "blades[0]: name is required"},
		{"blade without factors", "name: a\ngrammar: [1]\nblades: [{name: X}]", "factors are required"},
		{"factor out of range", "name: a\ngrammar: [1]\nblades: [{name: X, factors: [1]}]", "factors[0]: generator 1 out of range"},
		{"negative factor", "name: a\ngrammar: [1]\nblades: [{name: X, factors: [-1]}]", "out of range"},
		{"empty aggregate", "name: a\ngrammar: [1]\nblades: [{name: X, factors: [0]}]\naggregates: [{name: P}]", "no members defined"},
		{"member without type", "name: a\ngrammar: [1]\nblades: [{name: X, factors: [0]}]\naggregates: [{name: P, members: [{name: x}]}]", "name and type are required"},
		{"bad policy", "name: a\ngrammar: [1]\nblades: [{name: X, factors: [0]}]\npolicy: loose", "unknown match policy"},
		{"bad yaml", "name: [", "parsing test.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "test.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestPackageName(t *testing.T) {
	tests := map[string]string{
		"pga2d":  "pga2d",
		"PGA-3D": "pga3d",
		"3d":     "d",
		"":       "algebra",
		"!!":     "algebra",
	}
	for in, want := range tests {
		if got := PackageName(in); got != want {
			t.Errorf("PackageName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadAndFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := Find(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if path != "" && strings.HasPrefix(path, root) {
		t.Fatalf("unexpected config %s", path)
	}

	cfgPath := filepath.Join(root, "bladec.yaml")
	if err := os.WriteFile(cfgPath, []byte(pga2dYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	path, err = Find(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if path != cfgPath {
		t.Errorf("found %q, want %q", path, cfgPath)
	}

	a, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.Name != "PGA-2D" {
		t.Errorf("name = %q", a.Name)
	}

	if _, err := Load(filepath.Join(root, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
