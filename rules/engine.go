package rules

import (
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/symbolic"
)

// maxDepth bounds nested reanalysis in builds with the symbolicdebug tag. A
// rule set that exceeds it almost certainly has rules that undo each other.
const maxDepth = 1000

// Engine applies the rules in a storage to whole trees. An Engine is safe for
// concurrent use.
type Engine struct {
	storage *Storage
	log     zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for rule applications. The default discards all
// logs.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// NewEngine creates an engine over storage.
func NewEngine(storage *Storage, opts ...Option) *Engine {
	e := &Engine{storage: storage, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze rewrites n.
func (e *Engine) Analyze(n symbolic.Node) symbolic.Node {
	r, _ := e.AnalyzeSteps(n)
	return r
}

// AnalyzeSteps rewrites n and returns the steps taken.
func (e *Engine) AnalyzeSteps(n symbolic.Node) (symbolic.Node, []Step) {
	ctx := NewContext(e.log)
	r := e.AnalyzeContext(n, ctx)
	return r, ctx.steps
}

// AnalyzeContext rewrites n, recording steps in ctx. Children are analyzed
// before their parents. When a rule asks for reanalysis, its result is
// analyzed again from its leaves using the same context.
func (e *Engine) AnalyzeContext(n symbolic.Node, ctx *Context) symbolic.Node {
	c := n.Children()
	if len(c) > 0 {
		for i, x := range c {
			c[i] = e.AnalyzeContext(x, ctx)
		}
		n = n.WithChildren(c)
	}
	rule, ok := e.storage.Lookup(n.Kind())
	if !ok {
		return n
	}
	res := rule.Execute(n, ctx)
	switch res.State {
	case NotHandled:
		return n
	case ReAnalyze:
		ctx.depth++
		checkDepth(ctx.depth)
		r := e.AnalyzeContext(res.Node, ctx)
		ctx.depth--
		return r
	default:
		return res.Node
	}
}
