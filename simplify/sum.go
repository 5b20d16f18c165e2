package simplify

import (
	"math/big"

	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/rules"
)

var addRules = []rules.Rule{
	rules.Func("add-order", addOrder),
	rules.Func("add-fold", addFold),
	rules.Func("add-zero", addZero),
	rules.Func("add-constants", addConstants),
	rules.Func("add-like", addLike),
	rules.Func("add-sign", addSign),
}

var subRules = []rules.Rule{
	rules.Func("sub-fold", subFold),
	rules.Func("sub-zero", subZero),
	rules.Func("sub-self", subSelf),
	rules.Func("sub-constants", subConstants),
	rules.Func("sub-like", subLike),
	rules.Func("sub-sign", subSign),
}

// addOrder moves a constant to the right of a sum.
func addOrder(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	_, l := lit(b.Left)
	_, r := lit(b.Right)
	if !l || r {
		return rules.Pass()
	}
	return rules.Next(symbolic.Add(b.Right, b.Left))
}

func addFold(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	x, ok := lit(b.Left)
	if !ok {
		return rules.Pass()
	}
	y, ok := lit(b.Right)
	if !ok {
		return rules.Pass()
	}
	return rules.Done(num(x.Add(x, y)))
}

func addZero(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if !is(b.Right, 0) {
		return rules.Pass()
	}
	return rules.Done(b.Left)
}

// addConstants combines constants across nested sums and differences:
// (x + a) + b and (x - a) + b.
func addConstants(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	c, ok := lit(b.Right)
	if !ok {
		return rules.Pass()
	}
	l, ok := b.Left.(*symbolic.Binary)
	if !ok {
		return rules.Pass()
	}
	a, ok := lit(l.Right)
	if !ok {
		return rules.Pass()
	}
	switch l.Op {
	case symbolic.KindAdd:
		return rules.Again(symbolic.Add(l.Left, num(a.Add(a, c))))
	case symbolic.KindSub:
		return rules.Again(symbolic.Add(l.Left, num(c.Sub(c, a))))
	}
	return rules.Pass()
}

// addLike collects like terms: 2x + x is 3x.
func addLike(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	ca, cb, x, ok := like(b.Left, b.Right)
	if !ok {
		return rules.Pass()
	}
	return rules.Again(term(ca.Add(ca, cb), x))
}

// addSign turns addition of a negative term into subtraction.
func addSign(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if y, ok := negated(b.Right); ok {
		return rules.Again(symbolic.Sub(b.Left, y))
	}
	if y, ok := b.Left.(*symbolic.Neg); ok {
		return rules.Again(symbolic.Sub(b.Right, y.X))
	}
	return rules.Pass()
}

// negated returns the opposite of n if n is written with a leading minus: a
// negation, a negative literal, or a product with a negative coefficient.
func negated(n symbolic.Node) (symbolic.Node, bool) {
	switch n := n.(type) {
	case *symbolic.Neg:
		return n.X, true
	case *symbolic.Num:
		if n.Sign() < 0 {
			return num(neg(n.Rat())), true
		}
	case *symbolic.Binary:
		if n.Op != symbolic.KindMul || !negative(n.Left) {
			break
		}
		c, _ := lit(n.Left)
		return term(c.Neg(c), n.Right), true
	}
	return nil, false
}

func subFold(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	x, ok := lit(b.Left)
	if !ok {
		return rules.Pass()
	}
	y, ok := lit(b.Right)
	if !ok {
		return rules.Pass()
	}
	return rules.Done(num(x.Sub(x, y)))
}

func subZero(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	switch {
	case is(b.Right, 0):
		return rules.Done(b.Left)
	case is(b.Left, 0):
		return rules.Again(symbolic.Negate(b.Right))
	}
	return rules.Pass()
}

func subSelf(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if !symbolic.Equal(b.Left, b.Right) {
		return rules.Pass()
	}
	return rules.Done(symbolic.Int(0))
}

// subConstants combines constants across nested sums and differences:
// (x + a) - b and (x - a) - b.
func subConstants(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	c, ok := lit(b.Right)
	if !ok {
		return rules.Pass()
	}
	l, ok := b.Left.(*symbolic.Binary)
	if !ok {
		return rules.Pass()
	}
	a, ok := lit(l.Right)
	if !ok {
		return rules.Pass()
	}
	switch l.Op {
	case symbolic.KindAdd:
		return rules.Again(symbolic.Add(l.Left, num(a.Sub(a, c))))
	case symbolic.KindSub:
		return rules.Again(symbolic.Sub(l.Left, num(a.Add(a, c))))
	}
	return rules.Pass()
}

func subLike(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	ca, cb, x, ok := like(b.Left, b.Right)
	if !ok {
		return rules.Pass()
	}
	return rules.Again(term(new(big.Rat).Sub(ca, cb), x))
}

// subSign turns subtraction of a negative term into addition.
func subSign(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if y, ok := negated(b.Right); ok {
		return rules.Again(symbolic.Add(b.Left, y))
	}
	return rules.Pass()
}
