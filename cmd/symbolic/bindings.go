package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/symbolic"
)

// bindings is the format of the -bindings file:
//
//	vars:
//	  r: 2.5
//	  a: pi r^2
//	funcs:
//	  - f(x) := x^2 + 1
//
// Variables may refer to functions and to variables that sort before them.
type bindings struct {
	Vars  map[string]string `yaml:"vars"`
	Funcs []string          `yaml:"funcs"`
}

func loadBindings(ctx *symbolic.Context, name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	var b bindings
	if err := yaml.Unmarshal(data, &b); err != nil {
		return err
	}
	for _, src := range b.Funcs {
		v, err := evalIn(ctx, src)
		if err != nil {
			return fmt.Errorf("function %q: %w", src, err)
		}
		if _, ok := v.(*symbolic.Definition); !ok {
			return fmt.Errorf("function %q: not a definition", src)
		}
	}
	names := make([]string, 0, len(b.Vars))
	for k := range b.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		v, err := evalIn(ctx, b.Vars[k])
		if err != nil {
			return fmt.Errorf("variable %s: %w", k, err)
		}
		ctx.Bind(k, v)
	}
	return nil
}

// evalIn parses and evaluates src in ctx, so that it can use the variables
// and functions defined so far.
func evalIn(ctx *symbolic.Context, src string) (symbolic.Value, error) {
	a, err := symbolic.ParseString(src, ctx)
	if err != nil {
		return nil, err
	}
	v := ctx.Eval(a)
	return v, ctx.Err()
}
