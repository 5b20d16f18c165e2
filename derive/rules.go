package derive

import (
	"github.com/zephyrtronium/symbolic"
)

type derivative struct {
	n   symbolic.Node
	err error
}

// deriver applies the differentiation rules to one node, recursing into its
// operands.
type deriver struct {
	v string
}

var zero, one = symbolic.Int(0), symbolic.Int(1)

// d differentiates n. Subtrees that do not mention the variable have
// derivative zero, whatever they contain.
func (r deriver) d(n symbolic.Node) (symbolic.Node, error) {
	switch n.(type) {
	case *symbolic.Bool, *symbolic.UserCall, *symbolic.Assign:
	default:
		if !r.depends(n) {
			return zero, nil
		}
	}
	res := symbolic.Visit[derivative](n, r)
	return res.n, res.err
}

// depends reports whether n mentions the variable.
func (r deriver) depends(n symbolic.Node) bool {
	found := false
	symbolic.Walk(n, func(n symbolic.Node) bool {
		if v, ok := n.(*symbolic.Var); ok && v.Name == r.v {
			found = true
		}
		return !found
	})
	return found
}

func done(n symbolic.Node) derivative { return derivative{n: n} }

func unsupported(n symbolic.Node, reason string) derivative {
	return derivative{err: &UnsupportedError{Node: n, Reason: reason}}
}

func (r deriver) VisitNum(n *symbolic.Num) derivative {
	return done(zero)
}

func (r deriver) VisitBool(n *symbolic.Bool) derivative {
	return unsupported(n, "boolean")
}

func (r deriver) VisitVar(n *symbolic.Var) derivative {
	if n.Name == r.v {
		return done(one)
	}
	return done(zero)
}

func (r deriver) VisitNeg(n *symbolic.Neg) derivative {
	dx, err := r.d(n.X)
	if err != nil {
		return derivative{err: err}
	}
	return done(symbolic.Negate(dx))
}

func (r deriver) VisitBinary(n *symbolic.Binary) derivative {
	l, rt := n.Left, n.Right
	dl, err := r.d(l)
	if err != nil {
		return derivative{err: err}
	}
	dr, err := r.d(rt)
	if err != nil {
		return derivative{err: err}
	}
	switch n.Op {
	case symbolic.KindAdd:
		return done(symbolic.Add(dl, dr))
	case symbolic.KindSub:
		return done(symbolic.Sub(dl, dr))
	case symbolic.KindMul:
		switch {
		case !r.depends(l):
			return done(symbolic.Mul(l, dr))
		case !r.depends(rt):
			return done(symbolic.Mul(dl, rt))
		}
		return done(symbolic.Add(symbolic.Mul(dl, rt), symbolic.Mul(l, dr)))
	case symbolic.KindDiv:
		if !r.depends(rt) {
			return done(symbolic.Div(dl, rt))
		}
		num := symbolic.Sub(symbolic.Mul(dl, rt), symbolic.Mul(l, dr))
		return done(symbolic.Div(num, symbolic.Pow(rt, symbolic.Int(2))))
	case symbolic.KindPow:
		switch {
		case !r.depends(rt):
			// Power rule.
			p := symbolic.Mul(rt, symbolic.Pow(l, symbolic.Sub(rt, one)))
			return done(symbolic.Mul(p, dl))
		case !r.depends(l):
			// Exponential rule.
			return done(symbolic.Mul(symbolic.Mul(n, ln(l)), dr))
		}
		// d(f^g) = f^g (g' ln f + g f'/f)
		inner := symbolic.Add(symbolic.Mul(dr, ln(l)), symbolic.Div(symbolic.Mul(rt, dl), l))
		return done(symbolic.Mul(n, inner))
	}
	panic("derive: invalid binary operator " + n.Op.String())
}

func (r deriver) VisitCall(n *symbolic.Call) derivative {
	switch {
	case !symbolic.IsBuiltin(n):
		return unsupported(n, "no derivative for "+n.Name)
	case n.Name == symbolic.VectorFunc:
		args := make([]symbolic.Node, len(n.Args))
		for i, arg := range n.Args {
			var err error
			if args[i], err = r.d(arg); err != nil {
				return derivative{err: err}
			}
		}
		return done(n.WithChildren(args))
	case n.Name == "log" && len(n.Args) == 2:
		// log(u, b) = ln(u) / ln(b)
		res, err := r.d(symbolic.Div(ln(n.Args[0]), ln(n.Args[1])))
		return derivative{res, err}
	case len(n.Args) != 1:
		return unsupported(n, "no derivative for "+n.Name)
	}
	outer := chain[n.Name]
	if outer == nil {
		return unsupported(n, "no derivative for "+n.Name)
	}
	u := n.Args[0]
	du, err := r.d(u)
	if err != nil {
		return derivative{err: err}
	}
	return done(symbolic.Mul(outer(u), du))
}

func (r deriver) VisitUserCall(n *symbolic.UserCall) derivative {
	return unsupported(n, "user function")
}

func (r deriver) VisitAssign(n *symbolic.Assign) derivative {
	return unsupported(n, "assignment")
}

func ln(u symbolic.Node) symbolic.Node {
	return symbolic.Builtin("ln", u)
}

func call(name string, u symbolic.Node) symbolic.Node {
	return symbolic.Builtin(name, u)
}

func sq(u symbolic.Node) symbolic.Node {
	return symbolic.Pow(u, symbolic.Int(2))
}

func recip(u symbolic.Node) symbolic.Node {
	return symbolic.Div(one, u)
}

// chain maps builtin functions of one argument to their derivatives at u.
var chain = map[string]func(u symbolic.Node) symbolic.Node{
	"exp": func(u symbolic.Node) symbolic.Node { return call("exp", u) },
	"ln":  recip,
	"log": func(u symbolic.Node) symbolic.Node {
		return recip(symbolic.Mul(u, ln(symbolic.Int(10))))
	},
	"sqrt": func(u symbolic.Node) symbolic.Node {
		return recip(symbolic.Mul(symbolic.Int(2), call("sqrt", u)))
	},
	"abs": func(u symbolic.Node) symbolic.Node { return symbolic.Div(u, call("abs", u)) },
	"sin": func(u symbolic.Node) symbolic.Node { return call("cos", u) },
	"cos": func(u symbolic.Node) symbolic.Node { return symbolic.Negate(call("sin", u)) },
	"tan": func(u symbolic.Node) symbolic.Node { return recip(sq(call("cos", u))) },
	"cot": func(u symbolic.Node) symbolic.Node {
		return symbolic.Negate(recip(sq(call("sin", u))))
	},
	"arcsin": func(u symbolic.Node) symbolic.Node {
		return recip(call("sqrt", symbolic.Sub(one, sq(u))))
	},
	"arccos": func(u symbolic.Node) symbolic.Node {
		return symbolic.Negate(recip(call("sqrt", symbolic.Sub(one, sq(u)))))
	},
	"arctan": func(u symbolic.Node) symbolic.Node { return recip(symbolic.Add(one, sq(u))) },
	"sinh":   func(u symbolic.Node) symbolic.Node { return call("cosh", u) },
	"cosh":   func(u symbolic.Node) symbolic.Node { return call("sinh", u) },
	"tanh":   func(u symbolic.Node) symbolic.Node { return recip(sq(call("cosh", u))) },
}
