package symbolic

import (
	"math/big"
	"strconv"
	"strings"
)

// Node is a node in the expression tree. Nodes are immutable; rewriting
// produces new nodes, reusing unchanged children.
//
// The set of node types is closed: *Num, *Bool, *Var, *Neg, *Binary, *Call,
// *UserCall, and *Assign. Use Visit to dispatch on the concrete type.
type Node interface {
	// Kind returns the shape of the node. Binary nodes report their operator.
	Kind() Kind
	// Children returns a copy of the node's children.
	Children() []Node
	// WithChildren returns a node of the same shape with its children
	// replaced. If every child is identical to the current one, the result is
	// the receiver. Panics if the number of children is wrong for the shape.
	WithChildren(children []Node) Node
	// String formats the node as an expression that parses to an equal tree.
	String() string

	node()
}

// Kind identifies the shape of a node.
type Kind int8

const (
	KindNone Kind = iota

	KindNum      // exact decimal literal
	KindBool     // boolean literal
	KindVar      // variable reference
	KindCall     // builtin function call or constant
	KindUserCall // user function call
	KindNeg      // unary minus
	KindAdd      // left + right
	KindSub      // left - right
	KindMul      // left * right
	KindDiv      // left / right
	KindPow      // left ^ right
	KindAssign   // target := value
)

var kindNames = [...]string{
	KindNone:     "None",
	KindNum:      "Num",
	KindBool:     "Bool",
	KindVar:      "Var",
	KindCall:     "Call",
	KindUserCall: "UserCall",
	KindNeg:      "Neg",
	KindAdd:      "Add",
	KindSub:      "Sub",
	KindMul:      "Mul",
	KindDiv:      "Div",
	KindPow:      "Pow",
	KindAssign:   "Assign",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Num is an exact decimal number literal.
type Num struct {
	r big.Rat
}

// NewNum creates a number literal with the value of r. Panics if r is not a
// finite decimal, i.e. its denominator has prime factors other than 2 and 5,
// since such a number has no literal form.
func NewNum(r *big.Rat) *Num {
	if !Decimal(r) {
		panic("symbolic: " + r.RatString() + " is not a finite decimal")
	}
	n := new(Num)
	n.r.Set(r)
	return n
}

// Int creates an integer literal.
func Int(x int64) *Num {
	n := new(Num)
	n.r.SetInt64(x)
	return n
}

// Rat returns a copy of the literal's value.
func (n *Num) Rat() *big.Rat {
	return new(big.Rat).Set(&n.r)
}

// Sign returns -1, 0, or 1 according to the sign of the literal.
func (n *Num) Sign() int {
	return n.r.Sign()
}

// IsInt reports whether the literal is an integer.
func (n *Num) IsInt() bool {
	return n.r.IsInt()
}

// Is reports whether the literal equals x.
func (n *Num) Is(x int64) bool {
	return n.r.IsInt() && n.r.Num().IsInt64() && n.r.Num().Int64() == x
}

// Text returns the literal's decimal representation without any exponent.
func (n *Num) Text() string {
	if n.r.IsInt() {
		return n.r.Num().String()
	}
	return n.r.FloatString(decimals(&n.r))
}

// Decimal reports whether r has a finite decimal representation.
func Decimal(r *big.Rat) bool {
	return decimals(r) >= 0
}

// decimals returns the number of digits after the decimal point needed to
// write r exactly, or -1 if r has no finite decimal representation.
func decimals(r *big.Rat) int {
	d := new(big.Int).Set(r.Denom())
	var two, five, q, m big.Int
	two.SetInt64(2)
	five.SetInt64(5)
	n2, n5 := 0, 0
	for {
		q.QuoRem(d, &two, &m)
		if m.Sign() != 0 {
			break
		}
		d.Set(&q)
		n2++
	}
	for {
		q.QuoRem(d, &five, &m)
		if m.Sign() != 0 {
			break
		}
		d.Set(&q)
		n5++
	}
	if !d.IsInt64() || d.Int64() != 1 {
		return -1
	}
	if n2 > n5 {
		return n2
	}
	return n5
}

// parseNum parses a decimal literal as scanned by the lexer.
func parseNum(text string) (*Num, bool) {
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}
	if strings.HasSuffix(text, ".") {
		text += "0"
	}
	n := new(Num)
	if _, ok := n.r.SetString(text); !ok {
		return nil, false
	}
	return n, true
}

func (n *Num) Kind() Kind                 { return KindNum }
func (n *Num) Children() []Node           { return nil }
func (n *Num) WithChildren(c []Node) Node { leaf(c); return n }
func (n *Num) String() string             { return format(n) }
func (*Num) node()                        {}

// Bool is a boolean literal.
type Bool struct {
	Val bool
}

// True and False are the boolean literals.
var (
	True  = &Bool{Val: true}
	False = &Bool{Val: false}
)

func (n *Bool) Kind() Kind                 { return KindBool }
func (n *Bool) Children() []Node           { return nil }
func (n *Bool) WithChildren(c []Node) Node { leaf(c); return n }
func (n *Bool) String() string             { return format(n) }
func (*Bool) node()                        {}

// Var is a reference to a variable.
type Var struct {
	Name string
}

// NewVar creates a variable reference.
func NewVar(name string) *Var {
	return &Var{Name: name}
}

func (n *Var) Kind() Kind                 { return KindVar }
func (n *Var) Children() []Node           { return nil }
func (n *Var) WithChildren(c []Node) Node { leaf(c); return n }
func (n *Var) String() string             { return format(n) }
func (*Var) node()                        {}

func leaf(c []Node) {
	if len(c) != 0 {
		panic("symbolic: " + strconv.Itoa(len(c)) + " children for leaf node")
	}
}

// Neg is unary minus.
type Neg struct {
	X Node
}

// Negate creates a negation of x.
func Negate(x Node) *Neg {
	return &Neg{X: x}
}

func (n *Neg) Kind() Kind       { return KindNeg }
func (n *Neg) Children() []Node { return []Node{n.X} }
func (n *Neg) String() string   { return format(n) }
func (*Neg) node()              {}

func (n *Neg) WithChildren(c []Node) Node {
	if len(c) != 1 {
		panic("symbolic: " + strconv.Itoa(len(c)) + " children for Neg")
	}
	if c[0] == n.X {
		return n
	}
	return &Neg{X: c[0]}
}

// Binary is an arithmetic operation on two operands.
type Binary struct {
	// Op is one of KindAdd, KindSub, KindMul, KindDiv, or KindPow.
	Op          Kind
	Left, Right Node
}

// NewBinary creates a binary operation. Panics if op is not an arithmetic
// operator kind.
func NewBinary(op Kind, left, right Node) *Binary {
	switch op {
	case KindAdd, KindSub, KindMul, KindDiv, KindPow:
	default:
		panic("symbolic: invalid binary operator " + op.String())
	}
	return &Binary{Op: op, Left: left, Right: right}
}

// Add, Sub, Mul, Div, and Pow are shortcuts for NewBinary.
func Add(l, r Node) *Binary { return &Binary{Op: KindAdd, Left: l, Right: r} }
func Sub(l, r Node) *Binary { return &Binary{Op: KindSub, Left: l, Right: r} }
func Mul(l, r Node) *Binary { return &Binary{Op: KindMul, Left: l, Right: r} }
func Div(l, r Node) *Binary { return &Binary{Op: KindDiv, Left: l, Right: r} }
func Pow(l, r Node) *Binary { return &Binary{Op: KindPow, Left: l, Right: r} }

func (n *Binary) Kind() Kind       { return n.Op }
func (n *Binary) Children() []Node { return []Node{n.Left, n.Right} }
func (n *Binary) String() string   { return format(n) }
func (*Binary) node()              {}

func (n *Binary) WithChildren(c []Node) Node {
	if len(c) != 2 {
		panic("symbolic: " + strconv.Itoa(len(c)) + " children for " + n.Op.String())
	}
	if c[0] == n.Left && c[1] == n.Right {
		return n
	}
	return &Binary{Op: n.Op, Left: c[0], Right: c[1]}
}

// Call is a call to a builtin function. Constants like pi are calls with no
// arguments, and vector literals are calls to the vector function.
type Call struct {
	Name string
	Fn   Func
	Args []Node
}

// NewCall creates a call to a function.
func NewCall(name string, fn Func, args ...Node) *Call {
	return &Call{Name: name, Fn: fn, Args: args}
}

// Builtin creates a call to one of the default functions. Panics if there is
// no such function or it cannot be called with len(args) arguments.
func Builtin(name string, args ...Node) *Call {
	fn := globalfuncs[name]
	if name == VectorFunc {
		fn = vector
	}
	if fn == nil || !fn.CanCall(len(args)) {
		panic("symbolic: no builtin " + name + " of " + strconv.Itoa(len(args)) + " arguments")
	}
	return &Call{Name: name, Fn: fn, Args: args}
}

func (n *Call) Kind() Kind       { return KindCall }
func (n *Call) Children() []Node { return append([]Node(nil), n.Args...) }
func (n *Call) String() string   { return format(n) }
func (*Call) node()              {}

func (n *Call) WithChildren(c []Node) Node {
	if n.Fn != nil && !n.Fn.CanCall(len(c)) {
		panic("symbolic: " + strconv.Itoa(len(c)) + " arguments for " + n.Name)
	}
	if same(c, n.Args) {
		return n
	}
	return &Call{Name: n.Name, Fn: n.Fn, Args: append([]Node(nil), c...)}
}

// UserCall is a call to a function defined in an evaluation context.
type UserCall struct {
	Name string
	Args []Node
}

func (n *UserCall) Kind() Kind       { return KindUserCall }
func (n *UserCall) Children() []Node { return append([]Node(nil), n.Args...) }
func (n *UserCall) String() string   { return format(n) }
func (*UserCall) node()              {}

func (n *UserCall) WithChildren(c []Node) Node {
	if same(c, n.Args) {
		return n
	}
	return &UserCall{Name: n.Name, Args: append([]Node(nil), c...)}
}

// Assign binds a variable or defines a user function. Target is a *Var or a
// *UserCall whose arguments are distinct *Var parameters.
type Assign struct {
	Target Node
	Value  Node
}

func (n *Assign) Kind() Kind       { return KindAssign }
func (n *Assign) Children() []Node { return []Node{n.Target, n.Value} }
func (n *Assign) String() string   { return format(n) }
func (*Assign) node()              {}

func (n *Assign) WithChildren(c []Node) Node {
	if len(c) != 2 {
		panic("symbolic: " + strconv.Itoa(len(c)) + " children for Assign")
	}
	if c[0] == n.Target && c[1] == n.Value {
		return n
	}
	return &Assign{Target: c[0], Value: c[1]}
}

func same(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
