// Package symbolic implements a mathematical expression engine.
//
// Text is tokenized, the token sequence is normalized by a fixed series of
// passes, and a precedence-climbing parser produces an immutable expression
// tree. Trees can be evaluated with a Context holding variable bindings and
// user-defined functions, formatted back to text, or walked with a Visitor.
// The rules, simplify, and derive subpackages rewrite trees.
//
// The syntax is ordinary infix math: "2x + x", "sin(x)^2", "-x^2" (which is
// "-(x^2)"), "{1, 2, 3}" for vectors, and ":=" for definitions, as in
// "a := 3" or "f(x) := x^2 + 1". Variables are single letters; known function
// names are matched by longest prefix, so "sinx" is "sin x" and "xy" is
// "x * y".
package symbolic
