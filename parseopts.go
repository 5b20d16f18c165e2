package symbolic

import (
	"sort"
	"strings"
)

// ParseOption is an option for tokenizing and parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
	declopt  struct {
		name  string
		arity int
	}
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// funcs is the set of builtin function names. A nil Func disables a name.
	funcs map[string]Func
	// user maps user function names to their arities, or -1 if the arity is
	// not known until evaluation.
	user map[string]int
	// kw is the keyword table for the lexer, longest names first. It is
	// computed lazily and cleared by any option that changes funcs or user.
	kw []string
	// nodefaults indicates that parse options have set all default functions.
	nodefaults bool
}

func newparsectx(opts []ParseOption) parsectx {
	var p parsectx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	if p.funcs == nil {
		p.funcs = globalfuncs
	} else if !p.nodefaults {
		// Only set default functions that aren't already set.
		for k, v := range globalfuncs {
			if _, ok := p.funcs[k]; !ok {
				p.funcs[k] = v
			}
		}
		p.nodefaults = true
		p.kw = nil
	}
	return p
}

func (p *parsectx) checkdefaults() {
	if p.nodefaults {
		return
	}
	n := 0
	for k := range p.funcs {
		if _, ok := globalfuncs[k]; ok {
			n++
		}
	}
	if n == len(globalfuncs) {
		p.nodefaults = true
	}
}

// keywords returns the names the lexer matches by longest prefix.
func (p *parsectx) keywords() []string {
	if p.kw != nil {
		return p.kw
	}
	funcs := p.funcs
	if funcs == nil {
		funcs = globalfuncs
	}
	kw := make([]string, 0, len(funcs)+len(p.user))
	for k, fn := range funcs {
		if fn != nil {
			kw = append(kw, strings.ToLower(k))
		}
	}
	for k := range p.user {
		kw = append(kw, strings.ToLower(k))
	}
	sort.Slice(kw, func(i, j int) bool {
		if len(kw[i]) != len(kw[j]) {
			return len(kw[i]) > len(kw[j])
		}
		return kw[i] < kw[j]
	})
	p.kw = kw
	return kw
}

// fn returns the builtin function for a name. The vector function is always
// available because the lexer produces it for brace literals.
func (p *parsectx) fn(name string) Func {
	if fn := p.funcs[name]; fn != nil {
		return fn
	}
	if name == VectorFunc {
		return vector
	}
	return nil
}

// constant reports whether name is a builtin that takes no arguments.
func (p *parsectx) constant(name string) bool {
	fn := p.fn(name)
	return fn != nil && fn.CanCall(0) && !fn.CanCall(1)
}

// ParseFunc sets a function for parsing. To disable parsing a function, pass
// nil for fn.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	p.funcs = copyfuncs(p.funcs, 1)
	p.funcs[strings.ToLower(o.name)] = o.fn
	p.kw = nil
	return p
}

// ParseFuncs sets a group of functions for parsing. To disable parsing any
// function, set it to nil.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p parsectx) parsectx {
	// Always make a copy.
	p.funcs = copyfuncs(p.funcs, len(o))
	for k, v := range o {
		p.funcs[strings.ToLower(k)] = v
	}
	p.kw = nil
	p.checkdefaults()
	return p
}

// DisableDefaultFuncs disables all default functions during parsing. Their
// names will be scanned as products of variables instead.
func DisableDefaultFuncs() ParseOption {
	return disablefns
}

var disablefns = func() funcsopt {
	m := make(funcsopt, len(globalfuncs))
	for k := range globalfuncs {
		m[k] = nil
	}
	return m
}()

// DeclareFunc declares a user function so that its name is recognized when
// it is called. An arity of -1 leaves the argument count to be checked during
// evaluation. A Context used as a ParseOption declares all of its functions.
func DeclareFunc(name string, arity int) ParseOption {
	return &declopt{name: name, arity: arity}
}

func (o *declopt) parseOption(p parsectx) parsectx {
	p.user = copyuser(p.user, 1)
	p.user[strings.ToLower(o.name)] = o.arity
	p.kw = nil
	return p
}

func copyfuncs(m map[string]Func, extra int) map[string]Func {
	r := make(map[string]Func, len(m)+extra)
	for k, v := range m {
		r[k] = v
	}
	return r
}

func copyuser(m map[string]int, extra int) map[string]int {
	r := make(map[string]int, len(m)+extra)
	for k, v := range m {
		r[k] = v
	}
	return r
}

// ParsingPreset creates a parsing preset that may be more efficient when using
// the same non-default parsing options for many calls to Parse, as the
// keyword table is built once. A preset panics when it would change any option
// from the default, but it is safe to apply other options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.funcs != nil {
		// If we've set any functions, add unset default ones now.
		for k, v := range globalfuncs {
			if _, ok := p.funcs[k]; !ok {
				p.funcs[k] = v
			}
		}
		p.nodefaults = true
	}
	p.keywords()
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.funcs != nil || p.user != nil {
		panic("symbolic: preset applied to non-default parse config")
	}
	p.funcs = o.funcs
	p.user = o.user
	p.kw = o.kw
	p.nodefaults = o.nodefaults
	return p
}
