package blade

import (
	"fmt"

	"github.com/funvibe/bladec/internal/grammar"
)

// UnaryOp is one of the linear unary operators on blades.
type UnaryOp int

const (
	LeftComplementOp UnaryOp = iota
	RightComplementOp
	ReverseOp
	AntiReverseOp
)

// UnaryOps lists every unary operator in declaration order.
func UnaryOps() []UnaryOp {
	return []UnaryOp{LeftComplementOp, RightComplementOp, ReverseOp, AntiReverseOp}
}

func (op UnaryOp) String() string {
	switch op {
	case LeftComplementOp:
		return "LeftComplement"
	case RightComplementOp:
		return "RightComplement"
	case ReverseOp:
		return "Reverse"
	case AntiReverseOp:
		return "AntiReverse"
	default:
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
}

// NeedsGrammar reports whether the operator depends on the dimensionality.
func (op UnaryOp) NeedsGrammar() bool {
	return op != ReverseOp
}

// Inverse returns the operator that undoes op.
func (op UnaryOp) Inverse() UnaryOp {
	switch op {
	case LeftComplementOp:
		return RightComplementOp
	case RightComplementOp:
		return LeftComplementOp
	default:
		return op
	}
}

// ApplyUnary applies op to a signed blade. g may be nil only for ReverseOp.
func ApplyUnary(op UnaryOp, s SignedBlade, g *grammar.Grammar) SignedBlade {
	switch op {
	case LeftComplementOp:
		return s.LeftComplement(g)
	case RightComplementOp:
		return s.RightComplement(g)
	case ReverseOp:
		return s.Reverse()
	case AntiReverseOp:
		return s.AntiReverse(g)
	default:
		panic(fmt.Sprintf("blade: unknown unary operator %d", int(op)))
	}
}
