// Package config loads algebra descriptions from YAML.
//
// An algebra file declares the metric of the generators, the named blades
// and the aggregates built from them:
//
//	name: pga2d
//	grammar: [1, 1, 0]
//	blades:
//	  - {name: X, factors: [0]}
//	  - {name: WX, factors: [2, 0]}
//	aggregates:
//	  - name: Point
//	    members:
//	      - {name: x, type: X}
//	policy: first
//
// A blade whose factors are not in ascending order also fixes the naming
// convention of its generator set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/bladec/internal/grammar"
	"github.com/funvibe/bladec/internal/typesystem"
)

// Algebra represents one algebra configuration file.
type Algebra struct {
	// Name identifies the algebra. It also names the generated Go package
	// unless Package is set.
	Name string `yaml:"name"`

	// Grammar lists the square of each generator, in generator order.
	Grammar []int `yaml:"grammar"`

	// Blades declares the named blades. Factor order is the preferred
	// presentation of the blade.
	Blades []BladeSpec `yaml:"blades"`

	// Aggregates declares the named aggregates, in match priority order.
	Aggregates []AggregateSpec `yaml:"aggregates,omitempty"`

	// Policy resolves typify ambiguity: first, tightest or strict.
	Policy string `yaml:"policy,omitempty"`

	// Package is the Go package name of generated code.
	Package string `yaml:"package,omitempty"`
}

// BladeSpec declares a named blade.
type BladeSpec struct {
	Name    string `yaml:"name"`
	Factors []int  `yaml:"factors"`
}

// AggregateSpec declares a named aggregate.
type AggregateSpec struct {
	Name    string       `yaml:"name"`
	Members []MemberSpec `yaml:"members"`
}

// MemberSpec declares one aggregate member by type name.
type MemberSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load reads and parses an algebra file.
func Load(path string) (*Algebra, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses algebra content from bytes.
// The path argument is used only for error messages.
func Parse(data []byte, path string) (*Algebra, error) {
	var a Algebra
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := a.validate(path); err != nil {
		return nil, err
	}
	a.setDefaults()
	return &a, nil
}

// Find searches for an algebra file starting from dir and walking up to
// parent directories. It returns the empty string and a nil error when no
// file is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for errors that do not need the
// registry. Name resolution is left to Build.
func (a *Algebra) validate(path string) error {
	if a.Name == "" {
		return fmt.Errorf("%s: name is required", path)
	}
	if len(a.Grammar) == 0 {
		return fmt.Errorf("%s: grammar is required", path)
	}
	if len(a.Grammar) > grammar.MaxDim {
		return fmt.Errorf("%s: grammar has %d generators, at most %d are supported", path, len(a.Grammar), grammar.MaxDim)
	}
	if len(a.Blades) == 0 {
		return fmt.Errorf("%s: no blades defined", path)
	}

	for i, b := range a.Blades {
		if b.Name == "" {
			return fmt.Errorf("%s: blades[%d]: name is required", path, i)
		}
		if len(b.Factors) == 0 {
			return fmt.Errorf("%s: blades[%d] (%s): factors are required", path, i, b.Name)
		}
		for j, f := range b.Factors {
			if f < 0 || f >= len(a.Grammar) {
				return fmt.Errorf("%s: blades[%d] (%s): factors[%d]: generator %d out of range [0, %d)",
					path, i, b.Name, j, f, len(a.Grammar))
			}
		}
	}

	for i, agg := range a.Aggregates {
		if agg.Name == "" {
			return fmt.Errorf("%s: aggregates[%d]: name is required", path, i)
		}
		if len(agg.Members) == 0 {
			return fmt.Errorf("%s: aggregates[%d] (%s): no members defined", path, i, agg.Name)
		}
		for j, m := range agg.Members {
			if m.Name == "" || m.Type == "" {
				return fmt.Errorf("%s: aggregates[%d].members[%d] (%s): name and type are required",
					path, i, j, agg.Name)
			}
		}
	}

	if _, err := typesystem.ParsePolicy(a.Policy); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (a *Algebra) setDefaults() {
	if a.Policy == "" {
		a.Policy = DefaultPolicy
	}
	if a.Package == "" {
		a.Package = PackageName(a.Name)
	}
}

// PackageName derives a Go package name from an algebra name.
func PackageName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9' && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "algebra"
	}
	return b.String()
}

// Conventions returns the naming conventions implied by blades whose
// factors are not in ascending order.
func (a *Algebra) Conventions() []grammar.Convention {
	var out []grammar.Convention
	for _, b := range a.Blades {
		preferred := indices(b.Factors)
		canonical := slices.Clone(preferred)
		slices.Sort(canonical)
		if slices.Equal(canonical, preferred) {
			continue
		}
		out = append(out, grammar.Convention{Canonical: canonical, Preferred: preferred})
	}
	return out
}

// Build constructs the grammar and registry described by the file.
func (a *Algebra) Build() (*grammar.Grammar, *typesystem.Registry, error) {
	g, err := grammar.New(a.Grammar, a.Conventions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("algebra %s: %w", a.Name, err)
	}
	policy, err := typesystem.ParsePolicy(a.Policy)
	if err != nil {
		return nil, nil, fmt.Errorf("algebra %s: %w", a.Name, err)
	}

	builder := typesystem.NewRegistryBuilder(g).Policy(policy)
	for _, b := range a.Blades {
		builder.Blade(b.Name, indices(b.Factors)...)
	}
	for _, agg := range a.Aggregates {
		members := make([]typesystem.MemberDecl, len(agg.Members))
		for i, m := range agg.Members {
			members[i] = typesystem.MemberDecl{Name: m.Name, TypeName: m.Type}
		}
		builder.Aggregate(agg.Name, members...)
	}
	reg, err := builder.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("algebra %s: %w", a.Name, err)
	}
	return g, reg, nil
}

func indices(factors []int) []grammar.VecIndex {
	out := make([]grammar.VecIndex, len(factors))
	for i, f := range factors {
		out[i] = grammar.VecIndex(f)
	}
	return out
}
