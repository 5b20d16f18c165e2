package rules

import (
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/symbolic"
)

// Step is one recorded rule application.
type Step struct {
	Rule   string
	State  State
	Before symbolic.Node
	After  symbolic.Node
}

// Context is the state of one analysis. It records the steps taken so that
// callers can explain a result. A Context is not safe for concurrent use.
type Context struct {
	steps []Step
	log   zerolog.Logger
	// depth is the number of nested reanalyses in progress.
	depth int
}

// NewContext creates an empty context that logs steps to log at debug level.
func NewContext(log zerolog.Logger) *Context {
	return &Context{log: log}
}

// Record appends a step.
func (c *Context) Record(rule string, state State, before, after symbolic.Node) {
	c.steps = append(c.steps, Step{Rule: rule, State: state, Before: before, After: after})
	c.log.Debug().
		Str("rule", rule).
		Stringer("state", state).
		Stringer("before", before).
		Stringer("after", after).
		Int("depth", c.depth).
		Msg("rule applied")
}

// Steps returns the steps recorded so far, in order.
func (c *Context) Steps() []Step {
	return append([]Step(nil), c.steps...)
}

// Depth returns the current reanalysis depth.
func (c *Context) Depth() int {
	return c.depth
}
