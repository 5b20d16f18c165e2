// Package derive computes symbolic derivatives of expression trees.
package derive

import (
	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/simplify"
)

// Differentiator differentiates trees with respect to one variable. It is
// safe for concurrent use.
type Differentiator struct {
	v    string
	simp *simplify.Simplifier
}

// Option configures a Differentiator.
type Option func(*Differentiator)

// WithSimplifier sets the simplifier applied to results. A nil simplifier
// leaves results as the differentiation rules produce them.
func WithSimplifier(s *simplify.Simplifier) Option {
	return func(d *Differentiator) {
		d.simp = s
	}
}

// New creates a differentiator for the variable v.
func New(v string, opts ...Option) *Differentiator {
	d := &Differentiator{v: v, simp: simplify.New()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Analyze returns the derivative of n.
func (d *Differentiator) Analyze(n symbolic.Node) (symbolic.Node, error) {
	r, err := deriver{v: d.v}.d(n)
	if err != nil {
		return nil, err
	}
	if d.simp != nil {
		r = d.simp.Simplify(r)
	}
	return r, nil
}

// AnalyzeExpr differentiates a parsed expression.
func (d *Differentiator) AnalyzeExpr(e *symbolic.Expr) (*symbolic.Expr, error) {
	r, err := d.Analyze(e.Node())
	if err != nil {
		return nil, err
	}
	return symbolic.NewExpr(r), nil
}

// UnsupportedError is an error indicating a node that has no derivative.
type UnsupportedError struct {
	// Node is the subtree that could not be differentiated.
	Node symbolic.Node
	// Reason describes the problem.
	Reason string
}

func (err *UnsupportedError) Error() string {
	return "cannot differentiate " + err.Node.String() + ": " + err.Reason
}
