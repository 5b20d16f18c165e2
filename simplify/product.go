package simplify

import (
	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/rules"
)

var mulRules = []rules.Rule{
	rules.Func("mul-order", mulOrder),
	rules.Func("mul-fold", mulFold),
	rules.Func("mul-zero", mulZero),
	rules.Func("mul-one", mulOne),
	rules.Func("mul-coefficients", mulCoefficients),
	rules.Func("mul-sign", mulSign),
	rules.Func("mul-powers", mulPowers),
}

var divRules = []rules.Rule{
	rules.Func("div-fold", divFold),
	rules.Func("div-one", divOne),
	rules.Func("div-zero", divZero),
	rules.Func("div-self", divSelf),
}

// mulOrder moves a constant to the left of a product.
func mulOrder(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	_, l := lit(b.Left)
	_, r := lit(b.Right)
	if l || !r {
		return rules.Pass()
	}
	return rules.Next(symbolic.Mul(b.Right, b.Left))
}

func mulFold(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	x, ok := lit(b.Left)
	if !ok {
		return rules.Pass()
	}
	y, ok := lit(b.Right)
	if !ok {
		return rules.Pass()
	}
	return rules.Done(num(x.Mul(x, y)))
}

func mulZero(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if !is(b.Left, 0) {
		return rules.Pass()
	}
	return rules.Done(symbolic.Int(0))
}

func mulOne(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if !is(b.Left, 1) {
		return rules.Pass()
	}
	return rules.Done(b.Right)
}

// scaled splits a product with a literal on the left.
func scaled(n symbolic.Node) (*symbolic.Num, symbolic.Node, bool) {
	b, ok := n.(*symbolic.Binary)
	if !ok || b.Op != symbolic.KindMul {
		return nil, nil, false
	}
	c, ok := b.Left.(*symbolic.Num)
	if !ok {
		return nil, nil, false
	}
	return c, b.Right, true
}

// mulCoefficients gathers literal factors at the front of a product:
// 2(3x) is 6x, and x(2y) is 2(xy).
func mulCoefficients(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if a, ok := lit(b.Left); ok {
		c, y, ok := scaled(b.Right)
		if !ok {
			return rules.Pass()
		}
		return rules.Again(symbolic.Mul(num(a.Mul(a, c.Rat())), y))
	}
	if c, x, ok := scaled(b.Left); ok {
		return rules.Again(symbolic.Mul(c, symbolic.Mul(x, b.Right)))
	}
	if c, y, ok := scaled(b.Right); ok {
		return rules.Again(symbolic.Mul(c, symbolic.Mul(b.Left, y)))
	}
	return rules.Pass()
}

// mulSign moves negation out of a product.
func mulSign(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if x, ok := b.Left.(*symbolic.Neg); ok {
		return rules.Again(symbolic.Negate(symbolic.Mul(x.X, b.Right)))
	}
	if y, ok := b.Right.(*symbolic.Neg); ok {
		return rules.Again(symbolic.Negate(symbolic.Mul(b.Left, y.X)))
	}
	return rules.Pass()
}

// mulPowers merges factors with the same base: x x is x^2, and x^a x^b is
// x^(a+b).
func mulPowers(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if _, ok := lit(b.Left); ok {
		return rules.Pass()
	}
	x, p := power(b.Left)
	y, q := power(b.Right)
	if !symbolic.Equal(x, y) {
		return rules.Pass()
	}
	return rules.Again(symbolic.Pow(x, symbolic.Add(p, q)))
}

func divFold(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	x, ok := lit(b.Left)
	if !ok {
		return rules.Pass()
	}
	y, ok := lit(b.Right)
	if !ok || y.Sign() == 0 {
		return rules.Pass()
	}
	q := x.Quo(x, y)
	if !symbolic.Decimal(q) {
		// 1/3 has no literal.
		return rules.Pass()
	}
	return rules.Done(num(q))
}

func divOne(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if !is(b.Right, 1) {
		return rules.Pass()
	}
	return rules.Done(b.Left)
}

func divZero(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if !is(b.Left, 0) || is(b.Right, 0) {
		return rules.Pass()
	}
	return rules.Done(symbolic.Int(0))
}

func divSelf(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	if is(b.Right, 0) || !symbolic.Equal(b.Left, b.Right) {
		return rules.Pass()
	}
	return rules.Done(symbolic.Int(1))
}
