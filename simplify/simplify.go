// Package simplify rewrites expression trees into simpler equivalent forms.
//
// Simplification folds numeric literals exactly, removes identities, collects
// like terms, normalizes signs, and merges powers. Results are canonical in a
// few ways: numeric coefficients are written first in products and constants
// last in sums, and subtraction of a positive term is preferred to addition of
// a negative one. Simplifying a simplified tree returns it unchanged.
package simplify

import (
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/rules"
)

// Simplifier applies the simplification rules. It is safe for concurrent use.
type Simplifier struct {
	engine *rules.Engine
}

// Option configures a Simplifier.
type Option func(*config)

type config struct {
	log   zerolog.Logger
	extra []extra
}

type extra struct {
	kind  symbolic.Kind
	rules []rules.Rule
}

// WithLogger sets the logger for rule applications.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithRules adds rules for a node kind. They run after the built-in rules
// for the same kind.
func WithRules(kind symbolic.Kind, r ...rules.Rule) Option {
	return func(c *config) {
		c.extra = append(c.extra, extra{kind: kind, rules: r})
	}
}

// New creates a simplifier. The rule storage is built once here.
func New(opts ...Option) *Simplifier {
	c := config{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	var b rules.Builder
	b.Add(symbolic.KindAdd, addRules...)
	b.Add(symbolic.KindSub, subRules...)
	b.Add(symbolic.KindMul, mulRules...)
	b.Add(symbolic.KindDiv, divRules...)
	b.Add(symbolic.KindPow, powRules...)
	b.Add(symbolic.KindNeg, negRules...)
	b.Add(symbolic.KindCall, callRules...)
	for _, x := range c.extra {
		b.Add(x.kind, x.rules...)
	}
	return &Simplifier{engine: rules.NewEngine(b.Build(), rules.WithLogger(c.log))}
}

// Simplify returns a simplified form of n.
func (s *Simplifier) Simplify(n symbolic.Node) symbolic.Node {
	return s.engine.Analyze(n)
}

// SimplifyExpr simplifies a parsed expression.
func (s *Simplifier) SimplifyExpr(e *symbolic.Expr) *symbolic.Expr {
	n := e.Node()
	r := s.engine.Analyze(n)
	if r == n {
		return e
	}
	return symbolic.NewExpr(r)
}

// Steps simplifies n and also returns the rule applications that led to the
// result.
func (s *Simplifier) Steps(n symbolic.Node) (symbolic.Node, []rules.Step) {
	return s.engine.AnalyzeSteps(n)
}
