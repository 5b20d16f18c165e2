package rules

import (
	"sort"

	"github.com/zephyrtronium/symbolic"
)

// Builder collects rules by node kind. The zero value is ready to use.
type Builder struct {
	rules map[symbolic.Kind][]Rule
}

// Add appends rules for a kind. Rules added first run first.
func (b *Builder) Add(kind symbolic.Kind, rules ...Rule) *Builder {
	if b.rules == nil {
		b.rules = make(map[symbolic.Kind][]Rule)
	}
	b.rules[kind] = append(b.rules[kind], rules...)
	return b
}

// Build creates a Storage holding a chain of the rules added for each kind.
// Later changes to b do not affect the result.
func (b *Builder) Build() *Storage {
	s := &Storage{rules: make(map[symbolic.Kind]Rule, len(b.rules))}
	for k, rules := range b.rules {
		if len(rules) == 0 {
			continue
		}
		s.rules[k] = NewChain(k.String(), rules...)
	}
	return s
}

// Storage maps node kinds to rules. It is immutable and safe for concurrent
// use.
type Storage struct {
	rules map[symbolic.Kind]Rule
}

// Lookup returns the rule for a kind.
func (s *Storage) Lookup(kind symbolic.Kind) (Rule, bool) {
	r, ok := s.rules[kind]
	return r, ok
}

// Kinds lists the kinds that have rules, in order.
func (s *Storage) Kinds() []symbolic.Kind {
	r := make([]symbolic.Kind, 0, len(s.rules))
	for k := range s.rules {
		r = append(r, k)
	}
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return r
}
