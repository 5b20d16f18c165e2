//go:build symbolicdebug

package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/rules"
)

func TestReanalysisCycle(t *testing.T) {
	var b rules.Builder
	b.Add(symbolic.KindVar, rename("cycle", "x", "x", rules.ReAnalyze))
	e := rules.NewEngine(b.Build())
	assert.Panics(t, func() { e.Analyze(symbolic.NewVar("x")) })
	assert.NotPanics(t, func() { e.Analyze(symbolic.NewVar("y")) })
}
