package symbolic

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a builtin function. Functions may but generally should not look up
// variables.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Call must not modify the values in args.
	Call(ctx *Context, args []Value) (Value, error)

	// CanCall returns whether the function can be called with n arguments.
	// A function for which only CanCall(0) is true is a constant: it is
	// written without brackets, and a bracketed term after it is a
	// multiplication, so "pi(x)" is "pi * x".
	CanCall(n int) bool
}

// VectorFunc is the name of the function that builds vectors. The lexer
// inserts it before curly braces that do not follow a function name.
const VectorFunc = "vector"

var globalfuncs = map[string]Func{
	"exp":  Monadic(bigfloat.Exp),
	"ln":   Monadic(positive(bigfloat.Log)),
	"log":  Variadic(1, 2, logb),
	"sqrt": Monadic((*big.Float).Sqrt),
	"abs":  Monadic((*big.Float).Abs),

	"sin":    Monadic64(math.Sin),
	"cos":    Monadic64(math.Cos),
	"tan":    Monadic64(math.Tan),
	"cot":    Monadic64(func(x float64) float64 { return 1 / math.Tan(x) }),
	"arcsin": Monadic64(math.Asin),
	"arccos": Monadic64(math.Acos),
	"arctan": Monadic64(math.Atan),
	"sinh":   Monadic64(math.Sinh),
	"cosh":   Monadic64(math.Cosh),
	"tanh":   Monadic64(math.Tanh),

	"min":      Variadic(1, -1, extremum(-1)),
	"max":      Variadic(1, -1, extremum(1)),
	VectorFunc: vector,
	"if":       Variadic(3, 3, ifelse),
	"not":      Variadic(1, 1, not),

	// constants
	"pi": Niladic(bigfloat.Pi),
	"e":  Niladic(func(out *big.Float) *big.Float {
		var one big.Float
		one.SetFloat64(1)
		return bigfloat.Exp(out, &one)
	}),
	"true":  boolconst(true),
	"false": boolconst(false),
}

// IsBuiltin reports whether c calls the default function of its name, as
// opposed to a function of the same name given with ParseFunc.
func IsBuiltin(c *Call) bool {
	fn := globalfuncs[c.Name]
	return fn != nil && c.Fn == fn
}

// DefaultFuncs returns a copy of the default functions map.
func DefaultFuncs() map[string]Func {
	m := make(map[string]Func, len(globalfuncs))
	for k, v := range globalfuncs {
		m[k] = v
	}
	return m
}

type monadic struct {
	f func(out, in *big.Float) *big.Float
}

func (m *monadic) Call(ctx *Context, args []Value) (v Value, err error) {
	in, ok := Float(args[0])
	if !ok {
		return nil, &TypeError{Got: args[0].Type()}
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err = r.(error) // panic if not error
		if errors.As(err, &DomainError{}) || errors.As(err, &big.ErrNaN{}) {
			v, err = nil, DomainError{X: in}
			return
		}
		panic(err)
	}()
	r := new(big.Float).SetPrec(ctx.Prec())
	// The argument may be shared, so compute from a copy.
	m.f(r, new(big.Float).Copy(in))
	return Real{X: r}, nil
}

func (m *monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one real variable into a Func. f must set out to
// its result; its return value is always ignored. If f is called on an
// argument outside f's domain, it should panic with an error of type
// big.ErrNaN or DomainError, or that unwraps to one.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return &monadic{f}
}

// positive restricts f to positive arguments.
func positive(f func(out, in *big.Float) *big.Float) func(out, in *big.Float) *big.Float {
	return func(out, in *big.Float) *big.Float {
		if in.Sign() <= 0 {
			panic(DomainError{X: in})
		}
		return f(out, in)
	}
}

// Monadic64 wraps a function of one float64 into a Func. The argument is
// rounded to the nearest float64, so the result has at most float64 precision.
// A NaN result, or an infinite result from a finite argument, is a domain
// error.
func Monadic64(f func(float64) float64) Func {
	return Monadic(func(out, in *big.Float) *big.Float {
		x, _ := in.Float64()
		y := f(x)
		if math.IsNaN(y) || math.IsInf(y, 0) && !math.IsInf(x, 0) {
			panic(DomainError{X: in})
		}
		return out.SetFloat64(y)
	})
}

type niladic struct {
	f func(out *big.Float) *big.Float
}

func (n *niladic) Call(ctx *Context, args []Value) (Value, error) {
	r := new(big.Float).SetPrec(ctx.Prec())
	n.f(r)
	return Real{X: r}, nil
}

func (n *niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func. f must set out to its result; its return
// value is always ignored. Unlike Monadic, the wrapped function is expected
// never to panic.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return &niladic{f}
}

type variadic struct {
	min, max int
	f        func(ctx *Context, args []Value) (Value, error)
}

func (v *variadic) Call(ctx *Context, args []Value) (Value, error) {
	return v.f(ctx, args)
}

func (v *variadic) CanCall(n int) bool {
	return n >= v.min && (v.max < 0 || n <= v.max)
}

// Variadic creates a Func accepting between min and max arguments, inclusive.
// A negative max means no upper bound.
func Variadic(min, max int, f func(ctx *Context, args []Value) (Value, error)) Func {
	return &variadic{min: min, max: max, f: f}
}

// boolconst is the Func for the literals true and false. The parser produces
// Bool nodes rather than calls for them.
type boolconst bool

func (b boolconst) Call(ctx *Context, args []Value) (Value, error) {
	return Boolean(b), nil
}

func (b boolconst) CanCall(n int) bool {
	return n == 0
}

var vector = Variadic(0, -1, func(ctx *Context, args []Value) (Value, error) {
	return append(Vector(nil), args...), nil
})

// reals converts all arguments to floats.
func reals(args []Value) ([]*big.Float, error) {
	r := make([]*big.Float, len(args))
	for i, v := range args {
		x, ok := Float(v)
		if !ok {
			return nil, &TypeError{Got: v.Type()}
		}
		r[i] = x
	}
	return r, nil
}

func logb(ctx *Context, args []Value) (Value, error) {
	xs, err := reals(args)
	if err != nil {
		return nil, err
	}
	for i, x := range xs {
		if x.Sign() <= 0 {
			return nil, DomainError{X: x, Arg: i + 1}
		}
	}
	base := new(big.Float).SetPrec(ctx.Prec()).SetInt64(10)
	if len(xs) == 2 {
		base.Set(xs[1])
		if base.Cmp(big.NewFloat(1)) == 0 {
			return nil, DomainError{X: xs[1], Arg: 2}
		}
	}
	num := new(big.Float).SetPrec(ctx.Prec())
	bigfloat.Log(num, new(big.Float).Copy(xs[0]))
	den := new(big.Float).SetPrec(ctx.Prec())
	bigfloat.Log(den, base)
	return Real{X: num.Quo(num, den)}, nil
}

// extremum returns min for sign -1 and max for sign 1.
func extremum(sign int) func(ctx *Context, args []Value) (Value, error) {
	return func(ctx *Context, args []Value) (Value, error) {
		xs, err := reals(args)
		if err != nil {
			return nil, err
		}
		m := xs[0]
		for _, x := range xs[1:] {
			if x.Cmp(m) == sign {
				m = x
			}
		}
		return Real{X: m}, nil
	}
}

func ifelse(ctx *Context, args []Value) (Value, error) {
	c, ok := args[0].(Boolean)
	if !ok {
		return nil, &TypeError{Got: args[0].Type()}
	}
	if c {
		return args[1], nil
	}
	return args[2], nil
}

func not(ctx *Context, args []Value) (Value, error) {
	c, ok := args[0].(Boolean)
	if !ok {
		return nil, &TypeError{Got: args[0].Type()}
	}
	return !c, nil
}

// wantArgs returns the only argument count fn accepts, or -1 if there are
// several.
func wantArgs(fn Func) int {
	want := -1
	for n := 0; n <= 16; n++ {
		if !fn.CanCall(n) {
			continue
		}
		if want >= 0 {
			return -1
		}
		want = n
	}
	return want
}

// DomainError is an error returned when a function is called on arguments
// outside its domain. DomainError unwraps to big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err DomainError) Unwrap() error {
	return big.ErrNaN{}
}
