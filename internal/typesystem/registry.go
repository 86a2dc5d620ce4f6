package typesystem

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/bladec/internal/blade"
	"github.com/funvibe/bladec/internal/grammar"
)

// MatchPolicy decides which aggregate wins when several registered
// aggregates can hold the same set of blades.
type MatchPolicy int

const (
	// FirstDeclared picks the first matching aggregate in declaration order.
	FirstDeclared MatchPolicy = iota
	// Tightest picks the matching aggregate with the fewest blade members,
	// ties broken by declaration order.
	Tightest
	// RejectAmbiguous refuses to typify when more than one aggregate matches.
	RejectAmbiguous
)

func (p MatchPolicy) String() string {
	switch p {
	case FirstDeclared:
		return "first"
	case Tightest:
		return "tightest"
	case RejectAmbiguous:
		return "strict"
	default:
		return fmt.Sprintf("MatchPolicy(%d)", int(p))
	}
}

// ParsePolicy is the inverse of String. The empty string is FirstDeclared.
func ParsePolicy(s string) (MatchPolicy, error) {
	switch s {
	case "", "first":
		return FirstDeclared, nil
	case "tightest":
		return Tightest, nil
	case "strict":
		return RejectAmbiguous, nil
	default:
		return 0, fmt.Errorf("unknown match policy %q (want first, tightest or strict)", s)
	}
}

// BladeName is the registered name of a blade.
type BladeName struct {
	Name string
	// Type is the signed canonical blade the name stands for; its sign is
	// the sign of the presentation relative to the canonical order.
	Type TBlade
	// Presentation is the declared factor order.
	Presentation blade.Blade
}

// Key is the generator-set identity of the named blade.
func (n BladeName) Key() blade.Key { return n.Type.Value.Key() }

// Registry maps canonical blades to preferred names and aggregate names to
// member layouts. It is immutable after Build.
type Registry struct {
	grammar    *grammar.Grammar
	blades     map[blade.Key]BladeName
	bladeOrder []blade.Key
	byName     map[string]Type
	aggregates []TAggregate
	memberKeys map[string]*set.Set[blade.Key]
	policy     MatchPolicy
}

// MemberDecl declares an aggregate member by type name.
type MemberDecl struct {
	Name     string
	TypeName string
}

type bladeDecl struct {
	name    string
	factors []grammar.VecIndex
}

type aggregateDecl struct {
	name    string
	members []MemberDecl
}

// RegistryBuilder collects declarations. Errors are reported by Build.
type RegistryBuilder struct {
	grammar    *grammar.Grammar
	blades     []bladeDecl
	aggregates []aggregateDecl
	policy     MatchPolicy
}

// NewRegistryBuilder starts a registry for g.
func NewRegistryBuilder(g *grammar.Grammar) *RegistryBuilder {
	return &RegistryBuilder{grammar: g}
}

// Blade declares a named blade. The factor order is the preferred
// presentation (e.g. 2, 0 for e20).
func (b *RegistryBuilder) Blade(name string, factors ...grammar.VecIndex) *RegistryBuilder {
	b.blades = append(b.blades, bladeDecl{name: name, factors: slices.Clone(factors)})
	return b
}

// Aggregate declares a named aggregate. Member types refer to blade names
// or to aggregates declared earlier.
func (b *RegistryBuilder) Aggregate(name string, members ...MemberDecl) *RegistryBuilder {
	b.aggregates = append(b.aggregates, aggregateDecl{name: name, members: slices.Clone(members)})
	return b
}

// Policy sets the ambiguity policy used by typify.
func (b *RegistryBuilder) Policy(p MatchPolicy) *RegistryBuilder {
	b.policy = p
	return b
}

// Build validates the declarations and returns the registry.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.grammar == nil {
		return nil, errors.New("registry: grammar is required")
	}
	r := &Registry{
		grammar:    b.grammar,
		blades:     make(map[blade.Key]BladeName),
		byName:     make(map[string]Type),
		memberKeys: make(map[string]*set.Set[blade.Key]),
		policy:     b.policy,
	}
	for _, d := range b.blades {
		if err := r.addBlade(d); err != nil {
			return nil, fmt.Errorf("blade %s: %w", d.name, err)
		}
	}
	for _, d := range b.aggregates {
		if err := r.addAggregate(d); err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", d.name, err)
		}
	}
	return r, nil
}

func (r *Registry) addBlade(d bladeDecl) error {
	if d.name == "" {
		return errors.New("empty name")
	}
	if _, dup := r.byName[d.name]; dup {
		return &DuplicateNameError{Name: d.name}
	}
	for _, v := range d.factors {
		if err := r.grammar.Check(v); err != nil {
			return err
		}
	}
	sign, canonical := blade.Sort(d.factors)
	if !canonical.IsSimplified() {
		return fmt.Errorf("repeated generator in %v", d.factors)
	}
	key := canonical.Key()
	if prev, dup := r.blades[key]; dup {
		return fmt.Errorf("generators %s already named %s", canonical, prev.Name)
	}
	if pref, ok := r.grammar.Preferred(uint64(key)); ok && !slices.Equal(pref, d.factors) {
		return fmt.Errorf("presentation %v disagrees with grammar convention %v", d.factors, pref)
	}
	name := BladeName{
		Name:         d.name,
		Type:         TBlade{Value: blade.Signed(sign, canonical)},
		Presentation: blade.New(d.factors...),
	}
	r.blades[key] = name
	r.bladeOrder = append(r.bladeOrder, key)
	r.byName[d.name] = name.Type
	return nil
}

func (r *Registry) addAggregate(d aggregateDecl) error {
	if d.name == "" {
		return errors.New("empty name")
	}
	if _, dup := r.byName[d.name]; dup {
		return &DuplicateNameError{Name: d.name}
	}
	if len(d.members) == 0 {
		return errors.New("no members")
	}
	agg := TAggregate{Name: d.name}
	keys := set.New[blade.Key](len(d.members))
	seen := set.New[string](len(d.members))
	for _, m := range d.members {
		if !seen.Insert(m.Name) {
			return &DuplicateNameError{Name: d.name + "." + m.Name}
		}
		t, ok := r.byName[m.TypeName]
		if !ok {
			return NewUnknownTypeError(m.TypeName, "member "+m.Name)
		}
		if bt, ok := t.(TBlade); ok {
			if !keys.Insert(bt.Value.Key()) {
				return fmt.Errorf("member %s repeats blade %s", m.Name, bt.Value.Blade)
			}
		}
		agg.Members = append(agg.Members, Member{Name: m.Name, Type: t})
	}
	r.aggregates = append(r.aggregates, agg)
	r.byName[d.name] = agg
	r.memberKeys[d.name] = keys
	return nil
}

// Grammar returns the grammar the registry was built for.
func (r *Registry) Grammar() *grammar.Grammar { return r.grammar }

// Policy returns the typify ambiguity policy.
func (r *Registry) Policy() MatchPolicy { return r.policy }

// Lookup resolves a declared blade or aggregate name.
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// BladeFor returns the registered name of the generator set key.
func (r *Registry) BladeFor(key blade.Key) (BladeName, bool) {
	n, ok := r.blades[key]
	return n, ok
}

// Blades lists the registered blade names in declaration order.
func (r *Registry) Blades() []BladeName {
	out := make([]BladeName, len(r.bladeOrder))
	for i, k := range r.bladeOrder {
		out[i] = r.blades[k]
	}
	return out
}

// Aggregates lists the registered aggregates in declaration order.
func (r *Registry) Aggregates() []TAggregate {
	return slices.Clone(r.aggregates)
}

// Aggregate looks up an aggregate by name.
func (r *Registry) Aggregate(name string) (TAggregate, bool) {
	t, ok := r.byName[name].(TAggregate)
	return t, ok
}

// MemberKeys returns the set of blades directly held by an aggregate's
// blade-typed members. The returned set is a copy.
func (r *Registry) MemberKeys(name string) *set.Set[blade.Key] {
	keys, ok := r.memberKeys[name]
	if !ok {
		return set.New[blade.Key](0)
	}
	return keys.Copy()
}

// TypeName renders a type with registry names where they exist.
func (r *Registry) TypeName(t Type) string {
	switch typ := t.(type) {
	case nil:
		return "?"
	case TZero:
		return "Zero"
	case TBlade:
		if typ.Value.IsZero() {
			return "Zero"
		}
		_, name := r.BladeName(typ.Value.Blade)
		return name
	case TAggregate:
		return typ.Name
	default:
		panic(fmt.Sprintf("typesystem: unknown type %T", t))
	}
}

// BladeName returns sign and name such that b == sign * name. Unregistered
// blades fall back to their grammar presentation, e.g. "e20".
func (r *Registry) BladeName(b blade.Blade) (int, string) {
	sign, canonical := blade.Simplify(b, r.grammar)
	if sign == 0 {
		return 0, "Zero"
	}
	if n, ok := r.blades[canonical.Key()]; ok {
		return sign * n.Type.Value.Sign, n.Name
	}
	ps, pres := blade.Present(canonical, r.grammar)
	return sign * ps, pres.String()
}
