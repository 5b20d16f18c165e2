package symbolic

import (
	"errors"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Context is a context for evaluating expressions. It holds variable bindings
// and user function definitions. It is not safe to use a Context concurrently.
type Context struct {
	nums  map[string]*big.Float
	names map[string]Value
	funcs map[string]*Definition
	prec  uint
	// depth is the number of user function calls in progress.
	depth    int
	maxdepth int
	res      Value
	err      error
	done     bool
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt map[string]*big.Float
	bindopt struct {
		name string
		val  Value
	}
	precopt  uint
	depthopt int
)

func (varopt) ctxOption()   {}
func (varsopt) ctxOption()  {}
func (bindopt) ctxOption()  {}
func (precopt) ctxOption()  {}
func (depthopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *big.Float) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*big.Float) ContextOption {
	return varsopt(vars)
}

// Bind sets a variable to a value of any kind. Binding a *Definition defines a
// user function instead.
func Bind(name string, val Value) ContextOption {
	return bindopt{name, val}
}

// Prec sets the precision of calculations.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// MaxDepth sets the maximum depth of nested user function calls.
func MaxDepth(depth int) ContextOption {
	return depthopt(depth)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64. The default maximum call depth is 256.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: 64, maxdepth: 256}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a missing variable definition or an argument to a function is outside
// the function's domain, then the result is nil and ctx.Err returns the error.
// Assignments in the expression update ctx.
func (ctx *Context) Eval(e *Expr) Value {
	ctx.res, ctx.err = Eval(e.n, ctx)
	ctx.done = true
	return ctx.res
}

// Result returns the result obtained after evaluating an expression. Panics if
// ctx has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() Value {
	if !ctx.done {
		panic("symbolic: Context.Result called before evaluating any expression")
	}
	return ctx.res
}

// Err returns the error that occurred during the last evaluation, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	return ctx.bind(name, Real{X: new(big.Float).SetPrec(ctx.prec).Set(value)})
}

// Bind sets a variable to a value of any kind. Returns ctx for chaining.
func (ctx *Context) Bind(name string, v Value) *Context {
	if def, ok := v.(*Definition); ok {
		return ctx.Define(def)
	}
	return ctx.bind(name, v)
}

func (ctx *Context) bind(name string, v Value) *Context {
	if ctx.names == nil {
		ctx.names = make(map[string]Value)
	}
	ctx.names[strings.ToLower(name)] = v
	return ctx
}

// Lookup returns the value of a variable. If there is no such variable in the
// context, then the result is nil.
func (ctx *Context) Lookup(name string) Value {
	return ctx.names[strings.ToLower(name)]
}

// Define adds a user function definition. Returns ctx for chaining.
func (ctx *Context) Define(def *Definition) *Context {
	if ctx.funcs == nil {
		ctx.funcs = make(map[string]*Definition)
	}
	ctx.funcs[strings.ToLower(def.Name)] = def
	return ctx
}

// Func returns the definition of a user function, or nil if there is none.
func (ctx *Context) Func(name string) *Definition {
	return ctx.funcs[strings.ToLower(name)]
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no Result.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		nums:     make(map[string]*big.Float, len(ctx.nums)),
		names:    make(map[string]Value, len(ctx.names)),
		funcs:    make(map[string]*Definition, len(ctx.funcs)),
		prec:     ctx.prec,
		depth:    ctx.depth,
		maxdepth: ctx.maxdepth,
	}
	// First, check for a precision setting. Loop backward so we apply the last
	// precision.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	// Copy numbers only if the new precision is no higher than the old, so
	// that we always use the precision we need.
	if n.prec <= ctx.prec {
		for k, v := range ctx.nums {
			n.nums[k] = new(big.Float).SetPrec(n.prec).Set(v)
		}
	}
	for name, val := range ctx.names {
		if r, ok := val.(Real); ok && n.prec != ctx.prec {
			val = Real{X: new(big.Float).SetPrec(n.prec).Set(r.X)}
		}
		n.names[name] = val
	}
	for name, def := range ctx.funcs {
		n.funcs[name] = def
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.Set(opt.name, opt.val)
		case varsopt:
			for k, v := range opt {
				n.Set(k, v)
			}
		case bindopt:
			n.Bind(opt.name, opt.val)
		case depthopt:
			n.maxdepth = int(opt)
		case precopt:
			// Already done. Do nothing.
		default:
			panic("symbolic: unknown option type")
		}
	}
	return &n
}

// parseOption declares the context's user functions, so that an expression
// parsed with the context can call them.
func (ctx *Context) parseOption(p parsectx) parsectx {
	if len(ctx.funcs) == 0 {
		return p
	}
	p.user = copyuser(p.user, len(ctx.funcs))
	for name, def := range ctx.funcs {
		p.user[name] = len(def.Params)
	}
	p.kw = nil
	return p
}

// num gets a possibly cached float from a literal.
func (ctx *Context) num(n *Num) *big.Float {
	s := n.Text()
	if r := ctx.nums[s]; r != nil {
		return r
	}
	if ctx.nums == nil {
		ctx.nums = make(map[string]*big.Float)
	}
	r := new(big.Float).SetPrec(ctx.prec).SetRat(n.Rat())
	ctx.nums[s] = r
	return r
}

// Eval evaluates a tree in a context. Assignments update ctx.
func Eval(n Node, ctx *Context) (Value, error) {
	r := Visit[evaluation](n, evaluator{ctx})
	return r.v, r.err
}

type evaluation struct {
	v   Value
	err error
}

func fail(err error) evaluation {
	return evaluation{err: err}
}

// evaluator computes the value of each node.
type evaluator struct {
	ctx *Context
}

func (e evaluator) eval(n Node) (Value, error) {
	r := Visit[evaluation](n, e)
	return r.v, r.err
}

func (e evaluator) VisitNum(n *Num) evaluation {
	return evaluation{v: Real{X: e.ctx.num(n)}}
}

func (e evaluator) VisitBool(n *Bool) evaluation {
	return evaluation{v: Boolean(n.Val)}
}

func (e evaluator) VisitVar(n *Var) evaluation {
	v := e.ctx.names[n.Name]
	if v == nil {
		return fail(&NameError{Name: n.Name})
	}
	return evaluation{v: v}
}

func (e evaluator) VisitNeg(n *Neg) evaluation {
	x, err := e.eval(n.X)
	if err != nil {
		return fail(err)
	}
	v, err := e.neg(x)
	return evaluation{v, err}
}

func (e evaluator) neg(x Value) (Value, error) {
	switch x := x.(type) {
	case Real:
		return Real{X: new(big.Float).SetPrec(e.ctx.prec).Neg(x.X)}, nil
	case Vector:
		r := make(Vector, len(x))
		for i, v := range x {
			var err error
			if r[i], err = e.neg(v); err != nil {
				return nil, err
			}
		}
		return r, nil
	}
	return nil, &TypeError{Op: "-", Got: x.Type()}
}

func (e evaluator) VisitBinary(n *Binary) evaluation {
	l, err := e.eval(n.Left)
	if err != nil {
		return fail(err)
	}
	r, err := e.eval(n.Right)
	if err != nil {
		return fail(err)
	}
	v, err := e.arith(n.Op, l, r)
	return evaluation{v, err}
}

// arith applies a binary operator. Vectors combine elementwise with vectors of
// the same length for addition and subtraction, and with reals for every
// operator but exponentiation.
func (e evaluator) arith(op Kind, l, r Value) (Value, error) {
	x, lok := l.(Real)
	y, rok := r.(Real)
	if lok && rok {
		z, err := e.real(op, x.X, y.X)
		if err != nil {
			return nil, err
		}
		return Real{X: z}, nil
	}
	lv, lvec := l.(Vector)
	rv, rvec := r.(Vector)
	switch {
	case lvec && rvec && (op == KindAdd || op == KindSub):
		if len(lv) != len(rv) {
			return nil, &TypeError{Op: opText(op), Got: "vectors of lengths " + strconv.Itoa(len(lv)) + " and " + strconv.Itoa(len(rv))}
		}
		z := make(Vector, len(lv))
		for i := range lv {
			var err error
			if z[i], err = e.arith(op, lv[i], rv[i]); err != nil {
				return nil, err
			}
		}
		return z, nil
	case lvec && rok && op != KindPow:
		z := make(Vector, len(lv))
		for i := range lv {
			var err error
			if z[i], err = e.arith(op, lv[i], r); err != nil {
				return nil, err
			}
		}
		return z, nil
	case lok && rvec && op == KindMul:
		z := make(Vector, len(rv))
		for i := range rv {
			var err error
			if z[i], err = e.arith(op, l, rv[i]); err != nil {
				return nil, err
			}
		}
		return z, nil
	}
	bad := l
	if lok || (lvec && !rok) {
		bad = r
	}
	return nil, &TypeError{Op: opText(op), Got: bad.Type()}
}

// real applies a binary operator to two reals.
func (e evaluator) real(op Kind, x, y *big.Float) (z *big.Float, err error) {
	z = new(big.Float).SetPrec(e.ctx.prec)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		// big.Float panics with ErrNaN on operations like inf-inf.
		if nan, ok := r.(big.ErrNaN); ok {
			z, err = nil, DomainError{X: y, Arg: 2, Func: opText(op) + " (" + nan.Error() + ")"}
			return
		}
		panic(r)
	}()
	switch op {
	case KindAdd:
		return z.Add(x, y), nil
	case KindSub:
		return z.Sub(x, y), nil
	case KindMul:
		return z.Mul(x, y), nil
	case KindDiv:
		if y.Sign() == 0 {
			return nil, DomainError{X: y, Arg: 2, Func: "/"}
		}
		return z.Quo(x, y), nil
	case KindPow:
		return pow(z, x, y)
	}
	panic("symbolic: invalid binary operator " + op.String())
}

// pow computes x^y. A negative base requires an integer exponent, and zero
// has no negative powers.
func pow(z, x, y *big.Float) (*big.Float, error) {
	switch {
	case y.Sign() == 0:
		return z.SetInt64(1), nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return nil, DomainError{X: x, Arg: 1, Func: "^"}
		}
		return z.SetInt64(0), nil
	}
	if n, acc := y.Int64(); acc == big.Exact && y.IsInt() {
		return ipow(z, x, n), nil
	}
	if x.Sign() < 0 {
		return nil, DomainError{X: x, Arg: 1, Func: "^"}
	}
	bigfloat.Pow(z, x, y)
	return z, nil
}

// ipow computes x^n by repeated squaring, which is exact where the result
// fits in the precision.
func ipow(z, x *big.Float, n int64) *big.Float {
	neg := n < 0
	if neg {
		n = -n
	}
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	z.SetInt64(1)
	for n > 0 {
		if n&1 != 0 {
			z.Mul(z, b)
		}
		b.Mul(b, b)
		n >>= 1
	}
	if neg {
		z.Quo(new(big.Float).SetPrec(z.Prec()).SetInt64(1), z)
	}
	return z
}

func opText(op Kind) string {
	switch op {
	case KindAdd:
		return "+"
	case KindSub:
		return "-"
	case KindMul:
		return "*"
	case KindDiv:
		return "/"
	case KindPow:
		return "^"
	}
	return op.String()
}

func (e evaluator) args(nodes []Node) ([]Value, error) {
	args := make([]Value, len(nodes))
	for i, arg := range nodes {
		var err error
		if args[i], err = e.eval(arg); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (e evaluator) VisitCall(n *Call) evaluation {
	fn := n.Fn
	if fn == nil {
		return fail(&UndefinedFuncError{Name: n.Name})
	}
	if !fn.CanCall(len(n.Args)) {
		return fail(&CallError{Func: n.Name, Want: wantArgs(fn), Len: len(n.Args)})
	}
	args, err := e.args(n.Args)
	if err != nil {
		return fail(err)
	}
	v, err := fn.Call(e.ctx, args)
	if err != nil {
		// Name the function in errors from adapters that don't know it.
		var de DomainError
		var te *TypeError
		switch {
		case errors.As(err, &te) && te.Op == "":
			te.Op = n.Name
		case errors.As(err, &de) && de.Func == "":
			de.Func = n.Name
			err = de
		}
		return fail(err)
	}
	return evaluation{v: v}
}

func (e evaluator) VisitUserCall(n *UserCall) evaluation {
	def := e.ctx.funcs[n.Name]
	if def == nil {
		return fail(&UndefinedFuncError{Name: n.Name})
	}
	if len(n.Args) != len(def.Params) {
		return fail(&CallError{Func: n.Name, Want: len(def.Params), Len: len(n.Args)})
	}
	if e.ctx.maxdepth > 0 && e.ctx.depth >= e.ctx.maxdepth {
		return fail(&RecursionError{Name: n.Name, Depth: e.ctx.depth})
	}
	args, err := e.args(n.Args)
	if err != nil {
		return fail(err)
	}
	// Parameters shadow variables only within the call.
	inner := e.ctx.Clone()
	for i, p := range def.Params {
		inner.names[p] = args[i]
	}
	inner.depth++
	v, err := Eval(def.Body, inner)
	return evaluation{v, err}
}

func (e evaluator) VisitAssign(n *Assign) evaluation {
	switch t := n.Target.(type) {
	case *Var:
		v, err := e.eval(n.Value)
		if err != nil {
			return fail(err)
		}
		e.ctx.bind(t.Name, v)
		return evaluation{v: v}
	case *UserCall:
		params := make([]string, len(t.Args))
		for i, arg := range t.Args {
			v, ok := arg.(*Var)
			if !ok {
				return fail(&AssignmentError{Target: t.String()})
			}
			params[i] = v.Name
		}
		def := &Definition{Name: t.Name, Params: params, Body: n.Value}
		e.ctx.Define(def)
		return evaluation{v: def}
	}
	return fail(&AssignmentError{Target: n.Target.String()})
}

// Eval evaluates e in ctx.
func (e *Expr) Eval(ctx *Context) (Value, error) {
	return Eval(e.n, ctx)
}

// Evaluate is a shortcut to parse an expression and return its result using
// the default functions.
func Evaluate(src io.RuneScanner, opts ...ContextOption) (Value, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src, ctx)
	if err != nil {
		return nil, err
	}
	return ctx.Eval(a), ctx.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (Value, error) {
	return Evaluate(strings.NewReader(src), opts...)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// TypeError is an error from applying an operator or function to a value of
// the wrong kind.
type TypeError struct {
	// Op is the operator or function name.
	Op string
	// Got describes the offending value.
	Got string
}

func (err *TypeError) Error() string {
	return "cannot apply " + err.Op + " to " + err.Got
}

// RecursionError is an error indicating that user function calls nested too
// deeply.
type RecursionError struct {
	// Name is the function whose call exceeded the limit.
	Name string
	// Depth is the depth at which the call was made.
	Depth int
}

func (err *RecursionError) Error() string {
	return "call to " + err.Name + " exceeds maximum depth " + strconv.Itoa(err.Depth)
}
