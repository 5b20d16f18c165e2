package symbolic

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestWantArgs(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"sin", 1},
		{"exp", 1},
		{"pi", 0},
		{"true", 0},
		{"if", 3},
		{"not", 1},
		{"log", -1},
		{"min", -1},
		{VectorFunc, -1},
	}
	for _, c := range cases {
		if got := wantArgs(globalfuncs[c.name]); got != c.want {
			t.Errorf("%s: want %d, got %d", c.name, c.want, got)
		}
	}
}

func TestDefaultFuncs(t *testing.T) {
	m := DefaultFuncs()
	if len(m) != len(globalfuncs) {
		t.Fatalf("copy has %d functions, want %d", len(m), len(globalfuncs))
	}
	delete(m, "sin")
	m["twice"] = nil
	if globalfuncs["sin"] == nil {
		t.Error("deleting from the copy changed the defaults")
	}
	if _, ok := globalfuncs["twice"]; ok {
		t.Error("adding to the copy changed the defaults")
	}
}

func TestConstants(t *testing.T) {
	for name, fn := range globalfuncs {
		p := newparsectx(nil)
		if !p.constant(name) {
			continue
		}
		switch name {
		case "pi", "e", "true", "false":
		default:
			t.Errorf("unexpected constant %s", name)
		}
		if fn.CanCall(1) {
			t.Errorf("constant %s takes an argument", name)
		}
	}
}

func TestMonadicDomain(t *testing.T) {
	ctx := NewContext()
	cases := []struct {
		name string
		fn   Func
		x    float64
	}{
		{"sqrt", globalfuncs["sqrt"], -1},
		{"ln", globalfuncs["ln"], 0},
		{"ln-neg", globalfuncs["ln"], -2},
		{"arcsin", globalfuncs["arcsin"], 1.5},
		{"cot", globalfuncs["cot"], 0},
		{"inf64", Monadic64(func(x float64) float64 { return math.Inf(1) }), 1},
		{"nan64", Monadic64(func(x float64) float64 { return math.NaN() }), 1},
		{"panic", Monadic(func(out, in *big.Float) *big.Float {
			panic(DomainError{X: in, Func: "custom"})
		}), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x := big.NewFloat(c.x)
			r, err := c.fn.Call(ctx, []Value{Real{X: x}})
			if r != nil {
				t.Errorf("got result %v", r)
			}
			var de DomainError
			if !errors.As(err, &de) {
				t.Fatalf("wrong error %#v", err)
			}
			if de.X.Cmp(x) != 0 {
				t.Errorf("wrong argument in %v", err)
			}
		})
	}
}

func TestMonadicPanics(t *testing.T) {
	fn := Monadic(func(out, in *big.Float) *big.Float {
		panic(errors.New("not a domain error"))
	})
	defer func() {
		if recover() == nil {
			t.Error("unrelated panic was recovered")
		}
	}()
	fn.Call(NewContext(), []Value{Real{X: big.NewFloat(1)}})
}

func TestMonadicKeepsArgument(t *testing.T) {
	x := big.NewFloat(-2)
	r, err := globalfuncs["abs"].Call(NewContext(), []Value{Real{X: x}})
	if err != nil {
		t.Fatal(err)
	}
	if x.Cmp(big.NewFloat(-2)) != 0 {
		t.Errorf("argument changed to %v", x)
	}
	if r.String() != "2" {
		t.Errorf("abs(-2) = %v", r)
	}
}

func TestVariadic(t *testing.T) {
	fn := Variadic(2, 4, func(ctx *Context, args []Value) (Value, error) { return Boolean(true), nil })
	for n := 0; n < 6; n++ {
		if got, want := fn.CanCall(n), n >= 2 && n <= 4; got != want {
			t.Errorf("CanCall(%d) = %t", n, got)
		}
	}
	fn = Variadic(0, -1, nil)
	if !fn.CanCall(0) || !fn.CanCall(1000) {
		t.Error("unbounded function refused arguments")
	}
}

func TestExtremum(t *testing.T) {
	ctx := NewContext()
	args := []Value{Real{X: big.NewFloat(2)}, Real{X: big.NewFloat(-1)}, Real{X: big.NewFloat(5)}}
	lo, err := globalfuncs["min"].Call(ctx, args)
	if err != nil || lo.String() != "-1" {
		t.Errorf("min = %v, %v", lo, err)
	}
	hi, err := globalfuncs["max"].Call(ctx, args)
	if err != nil || hi.String() != "5" {
		t.Errorf("max = %v, %v", hi, err)
	}
}

func TestDomainErrorMessage(t *testing.T) {
	cases := []struct {
		err  DomainError
		want string
	}{
		{DomainError{X: big.NewFloat(-1)}, "-1 outside domain"},
		{DomainError{X: big.NewFloat(-1), Func: "sqrt"}, "-1 outside domain of sqrt"},
		{DomainError{X: big.NewFloat(1), Func: "log", Arg: 2}, "1 outside domain of log (argument 2)"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
}
