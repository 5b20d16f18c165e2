package rules_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/rules"
)

// rename returns a rule that rewrites variable from into to with the given
// state.
func rename(name, from, to string, state rules.State) rules.Rule {
	return rules.Func(name, func(n symbolic.Node, ctx *rules.Context) rules.Result {
		v := n.(*symbolic.Var)
		if v.Name != from {
			return rules.Pass()
		}
		return rules.Result{State: state, Node: symbolic.NewVar(to)}
	})
}

func TestChainShortCircuit(t *testing.T) {
	var ran []string
	track := func(name string, r rules.Rule) rules.Rule {
		return rules.Func(name+"-track", func(n symbolic.Node, ctx *rules.Context) rules.Result {
			ran = append(ran, name)
			return r.Execute(n, ctx)
		})
	}
	c := rules.NewChain("vars",
		track("a", rename("a", "x", "y", rules.Continue)),
		track("b", rename("b", "x", "z", rules.Continue)),
		track("c", rename("c", "y", "w", rules.Handled)),
		track("d", rename("d", "w", "v", rules.Handled)),
	)
	ctx := rules.NewContext(zerolog.Nop())
	res := c.Execute(symbolic.NewVar("x"), ctx)
	require.Equal(t, rules.Handled, res.State)
	assert.Equal(t, "w", res.Node.String())
	// b sees y, not x, so it does not apply; d never runs.
	assert.Equal(t, []string{"a", "b", "c"}, ran)
}

func TestChainContinue(t *testing.T) {
	c := rules.NewChain("vars",
		rename("a", "x", "y", rules.Continue),
		rename("b", "q", "r", rules.Handled),
	)
	res := c.Execute(symbolic.NewVar("x"), rules.NewContext(zerolog.Nop()))
	assert.Equal(t, rules.Continue, res.State)
	assert.Equal(t, "y", res.Node.String())

	res = c.Execute(symbolic.NewVar("p"), rules.NewContext(zerolog.Nop()))
	assert.Equal(t, rules.NotHandled, res.State)
	assert.Nil(t, res.Node)
}

func TestChainSingle(t *testing.T) {
	r := rename("only", "x", "y", rules.Handled)
	assert.Same(t, r, rules.NewChain("one", r))
	assert.Panics(t, func() { rules.NewChain("none") })
}

func TestFuncRecords(t *testing.T) {
	var buf bytes.Buffer
	ctx := rules.NewContext(zerolog.New(&buf).Level(zerolog.DebugLevel))
	r := rename("x to y", "x", "y", rules.Handled)
	r.Execute(symbolic.NewVar("q"), ctx)
	assert.Empty(t, ctx.Steps())
	assert.Zero(t, buf.Len())

	r.Execute(symbolic.NewVar("x"), ctx)
	steps := ctx.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "x to y", steps[0].Rule)
	assert.Equal(t, rules.Handled, steps[0].State)
	assert.Equal(t, "x", steps[0].Before.String())
	assert.Equal(t, "y", steps[0].After.String())
	assert.Contains(t, buf.String(), `"rule":"x to y"`)
}

func TestFuncNilNode(t *testing.T) {
	r := rules.Func("broken", func(n symbolic.Node, ctx *rules.Context) rules.Result {
		return rules.Result{State: rules.Handled}
	})
	assert.Panics(t, func() { r.Execute(symbolic.NewVar("x"), rules.NewContext(zerolog.Nop())) })
}

func TestStorage(t *testing.T) {
	var b rules.Builder
	b.Add(symbolic.KindVar, rename("a", "x", "y", rules.Handled))
	s := b.Build()
	b.Add(symbolic.KindNum, rules.Func("never", func(n symbolic.Node, ctx *rules.Context) rules.Result {
		return rules.Pass()
	}))
	_, ok := s.Lookup(symbolic.KindNum)
	assert.False(t, ok, "storage changed after build")
	r, ok := s.Lookup(symbolic.KindVar)
	require.True(t, ok)
	assert.Equal(t, "a", r.Name())
	assert.Equal(t, []symbolic.Kind{symbolic.KindVar}, s.Kinds())
}

// foldAdd adds two integer literals.
var foldAdd = rules.Func("fold", func(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	l, lok := b.Left.(*symbolic.Num)
	r, rok := b.Right.(*symbolic.Num)
	if !lok || !rok {
		return rules.Pass()
	}
	return rules.Done(symbolic.NewNum(l.Rat().Add(l.Rat(), r.Rat())))
})

// reassoc rewrites (a + n) + m as a + (n + m), which needs reanalysis.
var reassoc = rules.Func("reassoc", func(n symbolic.Node, ctx *rules.Context) rules.Result {
	b := n.(*symbolic.Binary)
	l, ok := b.Left.(*symbolic.Binary)
	if !ok || l.Op != symbolic.KindAdd {
		return rules.Pass()
	}
	if _, ok := b.Right.(*symbolic.Num); !ok {
		return rules.Pass()
	}
	if _, ok := l.Right.(*symbolic.Num); !ok {
		return rules.Pass()
	}
	return rules.Again(symbolic.Add(l.Left, symbolic.Add(l.Right, b.Right)))
})

func engine(opts ...rules.Option) *rules.Engine {
	var b rules.Builder
	b.Add(symbolic.KindAdd, foldAdd, reassoc)
	return rules.NewEngine(b.Build(), opts...)
}

func TestEngineAnalyze(t *testing.T) {
	cases := []struct {
		name string
		in   symbolic.Node
		want string
		n    int
	}{
		{"leaf", symbolic.NewVar("x"), "x", 0},
		{"fold", symbolic.Add(symbolic.Int(1), symbolic.Int(2)), "3", 1},
		{"nested", symbolic.Add(symbolic.Add(symbolic.Int(1), symbolic.Int(2)), symbolic.Int(3)), "6", 2},
		{"reanalyze", symbolic.Add(symbolic.Add(symbolic.NewVar("x"), symbolic.Int(2)), symbolic.Int(3)), "x + 5", 2},
		{"untouched", symbolic.Add(symbolic.NewVar("x"), symbolic.NewVar("y")), "x + y", 0},
	}
	e := engine()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, steps := e.AnalyzeSteps(c.in)
			assert.Equal(t, c.want, got.String())
			assert.Len(t, steps, c.n)
		})
	}
}

func TestEngineKeepsUnchangedNodes(t *testing.T) {
	in := symbolic.Mul(symbolic.NewVar("x"), symbolic.Add(symbolic.NewVar("y"), symbolic.NewVar("z")))
	assert.Same(t, in, engine().Analyze(in))
}

func TestEngineConcurrent(t *testing.T) {
	e := engine()
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		i := i
		g.Go(func() error {
			in := symbolic.Add(symbolic.Add(symbolic.NewVar("x"), symbolic.Int(int64(i))), symbolic.Int(1))
			got, steps := e.AnalyzeSteps(in)
			want := symbolic.Add(symbolic.NewVar("x"), symbolic.Int(int64(i)+1))
			if !symbolic.Equal(got, want) {
				t.Errorf("%d: got %v, want %v", i, got, want)
			}
			if len(steps) != 2 {
				t.Errorf("%d: got %d steps, want 2", i, len(steps))
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestEngineLogs(t *testing.T) {
	var buf bytes.Buffer
	e := engine(rules.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	e.Analyze(symbolic.Add(symbolic.Int(1), symbolic.Int(2)))
	assert.Contains(t, buf.String(), `"rule":"fold"`)
	assert.Contains(t, buf.String(), `"after":"3"`)

	buf.Reset()
	e = engine(rules.WithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)))
	e.Analyze(symbolic.Add(symbolic.Int(1), symbolic.Int(2)))
	assert.Zero(t, buf.Len())
}
