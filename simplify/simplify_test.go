package simplify_test

import (
	"bytes"
	"math/big"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/rules"
	"github.com/zephyrtronium/symbolic/simplify"
)

func parse(t *testing.T, src string) symbolic.Node {
	t.Helper()
	e, err := symbolic.ParseString(src)
	require.NoError(t, err, src)
	return e.Node()
}

func TestSimplify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		// folding
		{"2+3*4", "14"},
		{"1/4", "0.25"},
		{"1/3", "1 / 3"},
		{"2^10", "1024"},
		{"2^-1", "0.5"},
		{"1.5-2", "-0.5"},
		{"sqrt(16)", "4"},
		{"sqrt(2.25)", "1.5"},
		{"sqrt(2)", "sqrt(2)"},
		{"abs(-3)", "3"},
		{"abs(-x)", "abs(x)"},
		// identities
		{"x+0", "x"},
		{"0+x", "x"},
		{"x-0", "x"},
		{"0-x", "-x"},
		{"x*1", "x"},
		{"1*x", "x"},
		{"x*0", "0"},
		{"x^1", "x"},
		{"x^0", "1"},
		{"1^x", "1"},
		{"x/1", "x"},
		{"0/x", "0"},
		{"x/x", "1"},
		{"x-x", "0"},
		{"--x", "x"},
		{"ln(exp(x))", "x"},
		{"exp(ln(y))", "y"},
		// ordering and coefficients
		{"3+x", "x + 3"},
		{"x*3", "3 * x"},
		{"pi*2", "2 * pi"},
		{"2(3x)", "6 * x"},
		{"x(2y)", "2 * (x * y)"},
		{"x + 2 + 3", "x + 5"},
		{"x - 2 - 3", "x - 5"},
		{"x + 2 - 5", "x - 3"},
		// like terms
		{"2x+x", "3 * x"},
		{"x+x", "2 * x"},
		{"3x-x", "2 * x"},
		{"x-2x", "-x"},
		{"x + -2x", "-x"},
		{"x^2 + x^2", "2 * x ^ 2"},
		// signs
		{"x+(-y)", "x - y"},
		{"x-(-y)", "x + y"},
		{"x + -3", "x - 3"},
		{"x - -3", "x + 3"},
		{"-x + y", "y - x"},
		{"-x*y", "-(x * y)"},
		{"-x*-y", "x * y"},
		{"-(2x)", "-2 * x"},
		// powers
		{"x*x", "x ^ 2"},
		{"x^2*x^3", "x ^ 5"},
		{"x^2*x", "x ^ 3"},
		{"(x^2)^3", "x ^ 6"},
		{"(x^0.5)^3", "x ^ 1.5"},
		{"(x^2)^0.5", "abs(x)"},
		{"(x*x)^1.5", "abs(x) ^ 3"},
		{"(x^3)^0.5", "(x ^ 3) ^ 0.5"},
		{"(x^y)^0.5", "(x ^ y) ^ 0.5"},
		{"2x*x", "2 * x ^ 2"},
		// unchanged
		{"x + y", "x + y"},
		{"sin(x)", "sin(x)"},
		{"{1+1, x*1}", "{2, x}"},
	}
	s := simplify.New()
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got := s.Simplify(parse(t, c.in))
			assert.Equal(t, c.want, got.String())
			// The output must be stable.
			assert.True(t, symbolic.Equal(got, s.Simplify(got)), "second simplification changed %v", got)
		})
	}
}

func TestSimplifyPreservesValue(t *testing.T) {
	cases := []string{
		"2x+x",
		"x + 2 - 5",
		"x(2y) - -y",
		"(x^2)^3 * x / x",
		"-x*-y + x*x",
		"sqrt(16) * abs(-y) + 1/4",
		"(x^2)^0.5",
		"(x^2)^1.5 + x",
		"(x^3)^2",
		"(y*y)^(-0.4) * -exp(3)",
		"(x*x*y*y)^0.25",
	}
	vals := []struct {
		name string
		x, y float64
	}{
		{"positive", 1.25, 0.5},
		{"negative", -2, -0.5},
		{"mixed", 1.25, -0.5},
	}
	s := simplify.New()
	for _, v := range vals {
		ctx := symbolic.SetVars(map[string]*big.Float{"x": big.NewFloat(v.x), "y": big.NewFloat(v.y)})
		for _, src := range cases {
			t.Run(v.name+"/"+src, func(t *testing.T) {
				n := parse(t, src)
				want, err := symbolic.Eval(n, symbolic.NewContext(ctx))
				require.NoError(t, err)
				r := s.Simplify(n)
				got, err := symbolic.Eval(r, symbolic.NewContext(ctx))
				require.NoError(t, err, "%v simplified to %v", n, r)
				w, _ := symbolic.Float(want)
				g, _ := symbolic.Float(got)
				wf, _ := w.Float64()
				gf, _ := g.Float64()
				assert.InDelta(t, wf, gf, 1e-12, "%v simplified to %v", n, r)
			})
		}
	}
}

func TestOverriddenBuiltins(t *testing.T) {
	neg := symbolic.Monadic((*big.Float).Neg)
	cases := []struct {
		in, fn string
	}{
		{"ln(exp(x))", "exp"},
		{"ln(exp(x))", "ln"},
		{"exp(ln(x))", "ln"},
		{"abs(-x)", "abs"},
		{"abs(abs(x))", "abs"},
		{"sqrt(16)", "sqrt"},
	}
	s := simplify.New()
	for _, c := range cases {
		t.Run(c.fn+"/"+c.in, func(t *testing.T) {
			e, err := symbolic.ParseString(c.in, symbolic.ParseFunc(c.fn, neg))
			require.NoError(t, err)
			assert.Equal(t, c.in, s.Simplify(e.Node()).String())
		})
	}
	e, err := symbolic.ParseString("ln(exp(x))", symbolic.ParseFuncs(symbolic.DefaultFuncs()))
	require.NoError(t, err)
	assert.Equal(t, "x", s.Simplify(e.Node()).String())
}

func TestSteps(t *testing.T) {
	got, steps := simplify.New().Steps(parse(t, "2x+x"))
	assert.Equal(t, "3 * x", got.String())
	require.NotEmpty(t, steps)
	assert.Equal(t, "add-like", steps[0].Rule)
	assert.Equal(t, rules.ReAnalyze, steps[0].State)
	assert.Equal(t, "2 * x + x", steps[0].Before.String())

	_, steps = simplify.New().Steps(parse(t, "x + y"))
	assert.Empty(t, steps)
}

func TestSimplifyExpr(t *testing.T) {
	s := simplify.New()
	e, err := symbolic.ParseString("x*y + 0*z")
	require.NoError(t, err)
	r := s.SimplifyExpr(e)
	assert.Equal(t, "x * y", r.String())
	assert.Equal(t, []string{"x", "y"}, r.Vars())
	assert.Equal(t, []string{"x", "y", "z"}, e.Vars())

	e, err = symbolic.ParseString("x + y")
	require.NoError(t, err)
	assert.Same(t, e, s.SimplifyExpr(e))
}

func TestWithRules(t *testing.T) {
	swap := rules.Func("x-to-y", func(n symbolic.Node, ctx *rules.Context) rules.Result {
		if n.(*symbolic.Var).Name != "x" {
			return rules.Pass()
		}
		return rules.Done(symbolic.NewVar("y"))
	})
	s := simplify.New(simplify.WithRules(symbolic.KindVar, swap))
	assert.Equal(t, "2 * y", s.Simplify(parse(t, "x + y")).String())
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	s := simplify.New(simplify.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	s.Simplify(parse(t, "x*1"))
	assert.Contains(t, buf.String(), `"rule":"mul-one"`)
}

// generator creates random trees for property tests.
type generator struct {
	rand  *rand.Rand
	vars  []string
	funcs []string
}

func (g *generator) generate(depth int) symbolic.Node {
	if depth == 0 || g.rand.Intn(depth+1) == 0 {
		return g.leaf()
	}
	switch g.rand.Intn(6) {
	case 0:
		return symbolic.Negate(g.generate(depth - 1))
	case 1:
		f := g.funcs[g.rand.Intn(len(g.funcs))]
		return symbolic.Builtin(f, g.generate(depth-1))
	}
	ops := []symbolic.Kind{symbolic.KindAdd, symbolic.KindSub, symbolic.KindMul, symbolic.KindDiv, symbolic.KindPow}
	op := ops[g.rand.Intn(len(ops))]
	return symbolic.NewBinary(op, g.generate(depth-1), g.generate(depth-1))
}

func (g *generator) leaf() symbolic.Node {
	switch g.rand.Intn(3) {
	case 0:
		return symbolic.NewVar(g.vars[g.rand.Intn(len(g.vars))])
	case 1:
		return symbolic.Int(int64(g.rand.Intn(7) - 2))
	default:
		return symbolic.NewNum(big.NewRat(int64(g.rand.Intn(41)-20), 10))
	}
}

func TestIdempotent(t *testing.T) {
	g := generator{
		rand:  rand.New(rand.NewSource(1)),
		vars:  []string{"x", "y", "z"},
		funcs: []string{"sin", "exp", "ln", "sqrt", "abs"},
	}
	s := simplify.New()
	for i := 0; i < 2000; i++ {
		n := g.generate(5)
		once := s.Simplify(n)
		twice := s.Simplify(once)
		if !symbolic.Equal(once, twice) {
			t.Fatalf("not idempotent:\n%v\n-> %v\n-> %v", n, once, twice)
		}
	}
}
