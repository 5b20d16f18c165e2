package symbolic

import (
	"math/big"
	"strings"
)

// Value is the result of evaluating an expression: a Real, Boolean, Vector,
// or *Definition.
type Value interface {
	String() string
	// Type names the kind of value for error messages.
	Type() string
}

// Real is a real number. Evaluation never modifies the float of a Real it did
// not allocate itself, so a Real may share its float with a context.
type Real struct {
	X *big.Float
}

func (v Real) String() string { return v.X.Text('g', 10) }
func (Real) Type() string       { return "real" }

// Boolean is a truth value.
type Boolean bool

func (v Boolean) String() string {
	if v {
		return "true"
	}
	return "false"
}

func (Boolean) Type() string { return "boolean" }

// Vector is an ordered list of values.
type Vector []Value

func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, x := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(x.String())
	}
	b.WriteByte('}')
	return b.String()
}

func (Vector) Type() string { return "vector" }

// Definition is a user-defined function. Evaluating a definition produces
// the definition itself.
type Definition struct {
	Name   string
	Params []string
	Body   Node
}

func (d *Definition) String() string {
	args := make([]Node, len(d.Params))
	for i, p := range d.Params {
		args[i] = &Var{Name: p}
	}
	return (&Assign{Target: &UserCall{Name: d.Name, Args: args}, Value: d.Body}).String()
}

func (*Definition) Type() string { return "function" }

// Float returns the number held by a Real value.
func Float(v Value) (*big.Float, bool) {
	r, ok := v.(Real)
	if !ok {
		return nil, false
	}
	return r.X, true
}
