// Package rules implements rewriting of expression trees by rules looked up
// by node kind.
//
// A Rule examines one node and reports a Result. Rules for the same kind are
// grouped into a chain, which tries each member in order. An Engine walks a
// tree bottom up, applying the rule stored for each node's kind.
package rules

import (
	"github.com/zephyrtronium/symbolic"
)

// State is the outcome of executing a rule.
type State int8

const (
	// NotHandled means the rule did not apply. The next rule in a chain sees
	// the same node.
	NotHandled State = iota
	// Handled means the rule produced the final node. A chain stops at the
	// first Handled result.
	Handled
	// Continue means the rule transformed the node, and the remaining rules
	// in the chain should see the transformed node.
	Continue
	// ReAnalyze means the rule produced a node that must be analyzed again
	// from the start, children included.
	ReAnalyze
)

func (s State) String() string {
	switch s {
	case NotHandled:
		return "NotHandled"
	case Handled:
		return "Handled"
	case Continue:
		return "Continue"
	case ReAnalyze:
		return "ReAnalyze"
	}
	return "State(?)"
}

// Result is a state with the node it applies to. Node is nil exactly when
// State is NotHandled.
type Result struct {
	State State
	Node  symbolic.Node
}

// Pass is the NotHandled result.
func Pass() Result { return Result{} }

// Done returns a Handled result.
func Done(n symbolic.Node) Result { return Result{State: Handled, Node: n} }

// Next returns a Continue result.
func Next(n symbolic.Node) Result { return Result{State: Continue, Node: n} }

// Again returns a ReAnalyze result.
func Again(n symbolic.Node) Result { return Result{State: ReAnalyze, Node: n} }

// Rule is a rewrite step for one kind of node.
type Rule interface {
	// Name identifies the rule in step logs.
	Name() string
	// Execute examines n. It must not modify n.
	Execute(n symbolic.Node, ctx *Context) Result
}

type funcRule struct {
	name string
	fn   func(n symbolic.Node, ctx *Context) Result
}

// Func creates a rule from a function. Every result other than NotHandled is
// recorded in the context's step log.
func Func(name string, fn func(n symbolic.Node, ctx *Context) Result) Rule {
	return &funcRule{name: name, fn: fn}
}

func (r *funcRule) Name() string {
	return r.name
}

func (r *funcRule) Execute(n symbolic.Node, ctx *Context) Result {
	res := r.fn(n, ctx)
	if res.State != NotHandled {
		if res.Node == nil {
			panic("rules: " + r.name + " returned " + res.State.String() + " with no node")
		}
		ctx.Record(r.name, res.State, n, res.Node)
	}
	return res
}

type chain struct {
	name  string
	rules []Rule
}

// NewChain groups rules to be tried in order. A chain of one rule is that
// rule. Panics if there are no rules.
//
// A chain returns the first Handled or ReAnalyze result. Continue results
// replace the node the later rules see; if any rule continued and none
// finished, the chain's result is Continue with the last node.
func NewChain(name string, rules ...Rule) Rule {
	switch len(rules) {
	case 0:
		panic("rules: empty chain " + name)
	case 1:
		return rules[0]
	}
	return &chain{name: name, rules: append([]Rule(nil), rules...)}
}

func (c *chain) Name() string {
	return c.name
}

func (c *chain) Execute(n symbolic.Node, ctx *Context) Result {
	cur := n
	moved := false
	for _, r := range c.rules {
		res := r.Execute(cur, ctx)
		switch res.State {
		case NotHandled:
			continue
		case Continue:
			cur, moved = res.Node, true
		default:
			return res
		}
	}
	if moved {
		return Next(cur)
	}
	return Pass()
}
