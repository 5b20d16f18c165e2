package symbolic

import "strings"

// Binding strengths used for bracket placement when formatting.
const (
	precAssign = 1 + iota
	precAdd
	precMul
	precNeg
	precPow
	precAtom
)

// precedence returns how tightly n's top-level operator binds.
func precedence(n Node) int {
	switch n := n.(type) {
	case *Num:
		if n.Sign() < 0 {
			return precNeg
		}
		return precAtom
	case *Neg:
		return precNeg
	case *Binary:
		switch n.Op {
		case KindAdd, KindSub:
			return precAdd
		case KindMul, KindDiv:
			return precMul
		default:
			return precPow
		}
	case *Assign:
		return precAssign
	}
	return precAtom
}

// format renders a tree. Bracket placement is decided from the precedence
// the enclosing operator requires, passed down to each child.
func format(n Node) string {
	var b strings.Builder
	Visit[struct{}](n, formatter{b: &b})
	return b.String()
}

// formatter writes a node to b. min is the lowest precedence the node may
// have without being bracketed.
type formatter struct {
	b   *strings.Builder
	min int
}

// sub formats a child node.
func (f formatter) sub(n Node, min int) {
	if precedence(n) < min {
		f.b.WriteByte('(')
		Visit[struct{}](n, formatter{b: f.b})
		f.b.WriteByte(')')
		return
	}
	Visit[struct{}](n, formatter{b: f.b, min: min})
}

func (f formatter) list(open, close string, args []Node) {
	f.b.WriteString(open)
	for i, arg := range args {
		if i > 0 {
			f.b.WriteString(", ")
		}
		f.sub(arg, 0)
	}
	f.b.WriteString(close)
}

func (f formatter) VisitNum(n *Num) struct{} {
	f.b.WriteString(n.Text())
	return struct{}{}
}

func (f formatter) VisitBool(n *Bool) struct{} {
	if n.Val {
		f.b.WriteString("true")
	} else {
		f.b.WriteString("false")
	}
	return struct{}{}
}

func (f formatter) VisitVar(n *Var) struct{} {
	f.b.WriteString(n.Name)
	return struct{}{}
}

func (f formatter) VisitNeg(n *Neg) struct{} {
	f.b.WriteByte('-')
	// Bracket nested negations so they do not read as a decrement.
	f.sub(n.X, precNeg+1)
	return struct{}{}
}

func (f formatter) VisitBinary(n *Binary) struct{} {
	p := precedence(n)
	var op string
	lmin, rmin := p, p+1
	switch n.Op {
	case KindAdd:
		op = " + "
	case KindSub:
		op = " - "
	case KindMul:
		op = " * "
	case KindDiv:
		op = " / "
	case KindPow:
		// Right associative.
		op = " ^ "
		lmin, rmin = p+1, p
	}
	f.sub(n.Left, lmin)
	f.b.WriteString(op)
	f.sub(n.Right, rmin)
	return struct{}{}
}

func (f formatter) VisitCall(n *Call) struct{} {
	switch {
	case n.Name == VectorFunc:
		f.list("{", "}", n.Args)
	case len(n.Args) == 0 && n.Fn != nil && !n.Fn.CanCall(1):
		// Constant.
		f.b.WriteString(n.Name)
	default:
		f.b.WriteString(n.Name)
		f.list("(", ")", n.Args)
	}
	return struct{}{}
}

func (f formatter) VisitUserCall(n *UserCall) struct{} {
	f.b.WriteString(n.Name)
	f.list("(", ")", n.Args)
	return struct{}{}
}

func (f formatter) VisitAssign(n *Assign) struct{} {
	f.sub(n.Target, precAtom)
	f.b.WriteString(" := ")
	f.sub(n.Value, precAssign)
	return struct{}{}
}
