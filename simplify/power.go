package simplify

import (
	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/rules"
)

var powRules = []rules.Rule{
	rules.Func("pow-fold", powFold),
	rules.Func("pow-identity", powIdentity),
	rules.Func("pow-nested", powNested),
}

var negRules = []rules.Rule{
	rules.Func("neg-fold", negFold),
	rules.Func("neg-neg", negNeg),
	rules.Func("neg-coefficient", negCoefficient),
}

var callRules = []rules.Rule{
	rules.Func("log-inverse", logInverse),
	rules.Func("sqrt-exact", sqrtExact),
	rules.Func("abs", absolute),
}

// powFold computes literal powers with integer exponents when the result has
// a literal.
func powFold(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	x, ok := lit(b.Left)
	if !ok {
		return rules.Pass()
	}
	k, ok := lit(b.Right)
	if !ok {
		return rules.Pass()
	}
	r, ok := powRat(x, k)
	if !ok {
		return rules.Pass()
	}
	return rules.Done(num(r))
}

// powIdentity handles x^1, x^0, and 1^x.
func powIdentity(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	switch {
	case is(b.Right, 1):
		return rules.Done(b.Left)
	case is(b.Right, 0), is(b.Left, 1):
		return rules.Done(symbolic.Int(1))
	}
	return rules.Pass()
}

// powNested rewrites (x^a)^b as x^(ab) when b is an integer. Otherwise the
// identity holds only for non-negative x, so it applies only when a is an even
// integer, giving |x|^(ab).
func powNested(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	l, ok := b.Left.(*symbolic.Binary)
	if !ok || l.Op != symbolic.KindPow {
		return rules.Pass()
	}
	if k, ok := b.Right.(*symbolic.Num); ok && k.IsInt() {
		return rules.Again(symbolic.Pow(l.Left, symbolic.Mul(l.Right, b.Right)))
	}
	if a, ok := lit(l.Right); ok && even(a) {
		return rules.Again(symbolic.Pow(symbolic.Builtin("abs", l.Left), symbolic.Mul(l.Right, b.Right)))
	}
	return rules.Pass()
}

func negFold(n symbolic.Node, ctx *rules.Context) rules.Result {
	x, ok := lit(n.(*symbolic.Neg).X)
	if !ok {
		return rules.Pass()
	}
	return rules.Done(num(x.Neg(x)))
}

func negNeg(n symbolic.Node, ctx *rules.Context) rules.Result {
	x, ok := n.(*symbolic.Neg).X.(*symbolic.Neg)
	if !ok {
		return rules.Pass()
	}
	return rules.Done(x.X)
}

// negCoefficient moves negation into a literal coefficient: -(2x) is -2x.
func negCoefficient(n symbolic.Node, ctx *rules.Context) rules.Result {
	c, x, ok := scaled(n.(*symbolic.Neg).X)
	if !ok {
		return rules.Pass()
	}
	return rules.Again(symbolic.Mul(num(neg(c.Rat())), x))
}

// call1 returns the argument of a one-argument call to the builtin name.
func call1(n symbolic.Node, name string) (symbolic.Node, bool) {
	c, ok := n.(*symbolic.Call)
	if !ok || c.Name != name || len(c.Args) != 1 || !symbolic.IsBuiltin(c) {
		return nil, false
	}
	return c.Args[0], true
}

// logInverse cancels ln(exp(x)) and exp(ln(x)).
func logInverse(n symbolic.Node, ctx *rules.Context) rules.Result {
	if x, ok := call1(n, "ln"); ok {
		if y, ok := call1(x, "exp"); ok {
			return rules.Done(y)
		}
	}
	if x, ok := call1(n, "exp"); ok {
		if y, ok := call1(x, "ln"); ok {
			return rules.Done(y)
		}
	}
	return rules.Pass()
}

// sqrtExact computes square roots of literals that are perfect squares.
func sqrtExact(n symbolic.Node, ctx *rules.Context) rules.Result {
	x, ok := call1(n, "sqrt")
	if !ok {
		return rules.Pass()
	}
	r, ok := lit(x)
	if !ok {
		return rules.Pass()
	}
	s, ok := sqrtRat(r)
	if !ok || !symbolic.Decimal(s) {
		return rules.Pass()
	}
	return rules.Done(num(s))
}

func absolute(n symbolic.Node, ctx *rules.Context) rules.Result {
	x, ok := call1(n, "abs")
	if !ok {
		return rules.Pass()
	}
	switch x := x.(type) {
	case *symbolic.Num:
		return rules.Done(num(x.Rat().Abs(x.Rat())))
	case *symbolic.Neg:
		// |-x| is |x|.
		return rules.Again(n.WithChildren([]symbolic.Node{x.X}))
	case *symbolic.Call:
		if _, ok := call1(x, "abs"); ok {
			return rules.Done(x)
		}
	}
	return rules.Pass()
}
