package symbolic_test

import (
	"math/big"
	"testing"

	"github.com/zephyrtronium/symbolic"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("1/0")
	f.Add("sqrt(-x)")
	f.Add("{1, 2} + {3}")
	f.Add("if(true, x, y)")
	f.Add("f(a) := a + x")
	f.Fuzz(func(t *testing.T, s string) {
		symbolic.EvalString(s, symbolic.SetVar("x", new(big.Float)))
	})
}
