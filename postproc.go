package symbolic

// pass is a transformation of a token sequence that resolves something the
// scanner cannot decide locally.
type pass func(toks []Token, p *parsectx) ([]Token, error)

// passes is the post-processing pipeline. Later passes assume the earlier ones
// have already normalized the sequence.
var passes = []pass{
	insertVectors,
	insertMultiplication,
	promoteUnaryMinus,
	removeUnaryPlus,
	countArity,
}

// Tokenize scans text and applies the post-processing passes, producing the
// token sequence the parser consumes. The parse options have the same meaning
// as for Parse.
func Tokenize(text string, opts ...ParseOption) ([]Token, error) {
	p := newparsectx(opts)
	return tokenize(text, &p)
}

func tokenize(text string, p *parsectx) ([]Token, error) {
	toks, err := lex(text, p).run()
	if err != nil {
		return nil, err
	}
	for _, f := range passes {
		toks, err = f(toks, p)
		if err != nil {
			return nil, err
		}
	}
	return toks, nil
}

// isFunc reports whether tok names a builtin or user function.
func isFunc(tok Token) bool {
	return tok.Kind == TokenFunc || tok.Kind == TokenUserFunc
}

// insertVectors prefixes each curly brace that does not open an argument list
// with the vector function.
func insertVectors(toks []Token, p *parsectx) ([]Token, error) {
	r := make([]Token, 0, len(toks))
	for i, tok := range toks {
		if tok.Kind == TokenOpen && tok.Text == "{" && (i == 0 || !isFunc(toks[i-1])) {
			r = append(r, Token{Kind: TokenFunc, Text: VectorFunc, Pos: tok.Pos})
		}
		r = append(r, tok)
	}
	return r, nil
}

// insertMultiplication makes juxtaposition explicit. A number followed by a
// function, variable, or open bracket is a product, as is anything that ends
// an operand followed by anything that starts one, except two numbers.
func insertMultiplication(toks []Token, p *parsectx) ([]Token, error) {
	r := make([]Token, 0, len(toks))
	for i, tok := range toks {
		if i > 0 && endsOperand(toks, i-1, p) && startsOperand(tok) {
			if !(toks[i-1].Kind == TokenNum && tok.Kind == TokenNum) {
				r = append(r, Token{Kind: TokenOp, Text: "*", Op: OpMul, Pos: tok.Pos})
			}
		}
		r = append(r, tok)
	}
	return r, nil
}

func endsOperand(toks []Token, i int, p *parsectx) bool {
	tok := toks[i]
	switch tok.Kind {
	case TokenNum, TokenVar, TokenClose:
		return true
	case TokenFunc, TokenUserFunc:
		// A function that is not followed by its argument list is a constant
		// or a niladic call. Constants never take an argument list, so pi(x)
		// is pi * x.
		if i+1 < len(toks) && toks[i+1].Kind == TokenOpen {
			return tok.Kind == TokenFunc && p.constant(tok.Text)
		}
		return true
	}
	return false
}

func startsOperand(tok Token) bool {
	switch tok.Kind {
	case TokenNum, TokenVar, TokenOpen, TokenFunc, TokenUserFunc:
		return true
	}
	return false
}

// promoteUnaryMinus reclassifies subtraction in prefix position as negation.
func promoteUnaryMinus(toks []Token, p *parsectx) ([]Token, error) {
	r := make([]Token, 0, len(toks))
	for i, tok := range toks {
		if tok.Kind == TokenOp && tok.Op == OpSub && prefixPosition(toks, i) {
			tok.Op = OpNeg
		}
		r = append(r, tok)
	}
	return r, nil
}

// removeUnaryPlus deletes + in prefix position.
func removeUnaryPlus(toks []Token, p *parsectx) ([]Token, error) {
	r := make([]Token, 0, len(toks))
	for i, tok := range toks {
		if tok.Kind == TokenOp && tok.Op == OpAdd && prefixPosition(toks, i) {
			continue
		}
		r = append(r, tok)
	}
	return r, nil
}

// prefixPosition reports whether the token at i has no left operand: it is
// first, or follows an open bracket, a comma, or another operator.
func prefixPosition(toks []Token, i int) bool {
	if i == 0 {
		return true
	}
	switch prev := toks[i-1]; prev.Kind {
	case TokenOpen, TokenComma:
		return true
	case TokenOp:
		return prev.Op.binary() || prev.Op == OpNeg
	}
	return false
}

// countArity sets the arity of every function token to the number of
// arguments in its bracketed list, or zero if no list follows.
func countArity(toks []Token, p *parsectx) ([]Token, error) {
	r := make([]Token, len(toks))
	copy(r, toks)
	for i := range r {
		if !isFunc(r[i]) {
			continue
		}
		n, err := arity(r, i)
		if err != nil {
			return nil, err
		}
		r[i].Arity = n
	}
	return r, nil
}

// arity counts the top-level commas in the argument list of the function at
// toks[i]. Nested calls and brackets are skipped; they are counted on their
// own.
func arity(toks []Token, i int) (int, error) {
	if i+1 >= len(toks) || toks[i+1].Kind != TokenOpen {
		return 0, nil
	}
	open := toks[i+1]
	depth := 0
	commas := 0
	for k := i + 1; k < len(toks); k++ {
		switch toks[k].Kind {
		case TokenOpen:
			depth++
		case TokenClose:
			depth--
			if depth == 0 {
				if k == i+2 {
					// Empty argument list.
					return 0, nil
				}
				return commas + 1, nil
			}
		case TokenComma:
			if depth == 1 {
				commas++
			}
		}
	}
	return 0, &BracketError{Col: open.Pos, Left: open.Text}
}
