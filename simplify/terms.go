package simplify

import (
	"math/big"

	"github.com/zephyrtronium/symbolic"
)

// maxExp and maxBits bound the powers folded into literals.
const (
	maxExp  = 1024
	maxBits = 1 << 16
)

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// lit returns the value of a literal.
func lit(n symbolic.Node) (*big.Rat, bool) {
	x, ok := n.(*symbolic.Num)
	if !ok {
		return nil, false
	}
	return x.Rat(), true
}

// is reports whether n is the literal k.
func is(n symbolic.Node, k int64) bool {
	x, ok := n.(*symbolic.Num)
	return ok && x.Is(k)
}

// even reports whether r is an even integer.
func even(r *big.Rat) bool {
	return r.IsInt() && r.Num().Bit(0) == 0
}

// negative reports whether n is a negative literal.
func negative(n symbolic.Node) bool {
	x, ok := n.(*symbolic.Num)
	return ok && x.Sign() < 0
}

func num(r *big.Rat) *symbolic.Num {
	return symbolic.NewNum(r)
}

func neg(r *big.Rat) *big.Rat {
	return new(big.Rat).Neg(r)
}

// coefficient splits a term into a numeric factor and the rest. Literals have
// no rest.
func coefficient(n symbolic.Node) (*big.Rat, symbolic.Node) {
	switch n := n.(type) {
	case *symbolic.Num:
		return n.Rat(), nil
	case *symbolic.Neg:
		c, x := coefficient(n.X)
		return c.Neg(c), x
	case *symbolic.Binary:
		if n.Op == symbolic.KindMul {
			if c, ok := lit(n.Left); ok {
				return c, n.Right
			}
		}
	}
	return big.NewRat(1, 1), n
}

// term builds the product of a coefficient and a non-literal.
func term(c *big.Rat, x symbolic.Node) symbolic.Node {
	switch {
	case c.Sign() == 0:
		return symbolic.Int(0)
	case c.Cmp(big.NewRat(1, 1)) == 0:
		return x
	case c.Cmp(big.NewRat(-1, 1)) == 0:
		return symbolic.Negate(x)
	}
	return symbolic.Mul(num(c), x)
}

// like returns the coefficients of two terms with equal non-literal parts.
func like(a, b symbolic.Node) (ca, cb *big.Rat, x symbolic.Node, ok bool) {
	ca, xa := coefficient(a)
	cb, xb := coefficient(b)
	if xa == nil || xb == nil || !symbolic.Equal(xa, xb) {
		return nil, nil, nil, false
	}
	return ca, cb, xa, true
}

// powRat computes x^k if the result is a finite decimal.
func powRat(x *big.Rat, k *big.Rat) (*big.Rat, bool) {
	if !k.IsInt() || !k.Num().IsInt64() {
		return nil, false
	}
	e := k.Num().Int64()
	if e > maxExp || e < -maxExp {
		return nil, false
	}
	if bits := int64(x.Num().BitLen() + x.Denom().BitLen()); bits*abs64(e) > maxBits {
		return nil, false
	}
	if e < 0 {
		if x.Sign() == 0 {
			return nil, false
		}
		x = new(big.Rat).Inv(x)
		e = -e
	}
	p := new(big.Int).Exp(x.Num(), big.NewInt(e), nil)
	q := new(big.Int).Exp(x.Denom(), big.NewInt(e), nil)
	r := new(big.Rat).SetFrac(p, q)
	return r, symbolic.Decimal(r)
}

// sqrtRat returns the exact square root of x, if it is rational.
func sqrtRat(x *big.Rat) (*big.Rat, bool) {
	if x.Sign() < 0 {
		return nil, false
	}
	p, ok := sqrtInt(x.Num())
	if !ok {
		return nil, false
	}
	q, ok := sqrtInt(x.Denom())
	if !ok {
		return nil, false
	}
	return new(big.Rat).SetFrac(p, q), true
}

func sqrtInt(x *big.Int) (*big.Int, bool) {
	r := new(big.Int).Sqrt(x)
	return r, new(big.Int).Mul(r, r).Cmp(x) == 0
}

// power splits x^k into base and exponent. Anything else is its own base
// with exponent 1.
func power(n symbolic.Node) (base, exp symbolic.Node) {
	if p, ok := n.(*symbolic.Binary); ok && p.Op == symbolic.KindPow {
		return p.Left, p.Right
	}
	return n, symbolic.Int(1)
}
