package symbolic

import (
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Expr = num | var | Call | UserCall | Neg | Add | Sub | Mul | Div | Pow | Assign | '(' Expr ')' | '[' Expr ']' | '{' Expr { ',' Expr } '}'
// Call = funcname | funcname ArgList
// UserCall = username ArgList
// ArgList = '(' [ Expr { ',' Expr } ] ')' | '[' ... ']' | '{' ... '}'
// Neg = '-' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr | Expr Expr (implicit, inserted before parsing)
// Div = Expr '/' Expr | Expr '÷' Expr
// Pow = Expr '^' Expr
// Assign = var ':=' Expr | username '(' [ var { ',' var } ] ')' ':=' Expr

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n Node
	// names is the list of variable names used in the expression.
	names []string
}

// NewExpr wraps a tree, such as the result of a rewrite, as an expression.
func NewExpr(n Node) *Expr {
	return &Expr{n: n, names: freeVars(n)}
}

// Node returns the root of the expression tree.
func (e *Expr) Node() Node {
	return e.n
}

// Vars returns the variable names used when evaluating the expression.
// Variables that are only assigned, and parameters of function definitions,
// are not included.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String formats the expression. Parsing the result produces an equal tree.
func (e *Expr) String() string {
	return e.n.String()
}

// Parse parses an expression from src, which is read to EOF. The given
// options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	var b strings.Builder
	for {
		r, _, err := src.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		b.WriteRune(r)
	}
	return ParseString(b.String(), opts...)
}

// ParseString parses an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	p := newparsectx(opts)
	toks, err := tokenize(src, &p)
	if err != nil {
		return nil, err
	}
	return parse(toks, &p, utf8.RuneCountInString(src)+1)
}

// ParseTokens parses a token sequence as produced by Tokenize with the same
// options.
func ParseTokens(toks []Token, opts ...ParseOption) (*Expr, error) {
	p := newparsectx(opts)
	end := 1
	if len(toks) > 0 {
		last := toks[len(toks)-1]
		end = last.Pos + utf8.RuneCountInString(last.Text)
	}
	return parse(toks, &p, end)
}

func parse(toks []Token, p *parsectx, end int) (*Expr, error) {
	s := &parser{toks: toks, p: p, end: end}
	n, err := s.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	tok := s.next()
	if n == nil {
		if tok.Kind == TokenEOF {
			return nil, &EmptyExpressionError{Col: tok.Pos}
		}
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	if tok.Kind != TokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	return NewExpr(n), nil
}

// freeVars lists the sorted names of variables whose values are read when
// evaluating n.
func freeVars(n Node) []string {
	seen := make(map[string]bool)
	var walk func(n Node, bound map[string]bool)
	walk = func(n Node, bound map[string]bool) {
		switch n := n.(type) {
		case *Var:
			if !bound[n.Name] {
				seen[n.Name] = true
			}
			return
		case *Assign:
			if def, ok := n.Target.(*UserCall); ok {
				inner := make(map[string]bool, len(bound)+len(def.Args))
				for k := range bound {
					inner[k] = true
				}
				for _, arg := range def.Args {
					if v, ok := arg.(*Var); ok {
						inner[v.Name] = true
					}
				}
				walk(n.Value, inner)
				return
			}
			walk(n.Value, bound)
			return
		}
		for _, c := range n.Children() {
			walk(c, bound)
		}
	}
	walk(n, nil)
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// parser consumes a token sequence in a single forward pass with one token of
// lookahead.
type parser struct {
	toks []Token
	i    int
	p    *parsectx
	// end is the column reported for the end of input.
	end int
}

// peek returns the next token without consuming it. Past the end of the
// sequence, the result is an EOF token.
func (s *parser) peek() Token {
	if s.i >= len(s.toks) {
		return Token{Kind: TokenEOF, Pos: s.end}
	}
	return s.toks[s.i]
}

// next consumes and returns the next token.
func (s *parser) next() Token {
	tok := s.peek()
	if s.i < len(s.toks) {
		s.i++
	}
	return tok
}

// parseterm parses operators that bind more tightly than until. If the input
// is an empty subexpression, the result is nil with no error; callers must
// create an error in contexts where empty subexpressions are illegal. The
// token that ends the term is not consumed.
func (s *parser) parseterm(until operator) (Node, error) {
	n, err := s.parselhs(until)
	if err != nil || n == nil {
		return nil, err
	}
	for {
		tok := s.peek()
		if tok.Kind != TokenOp {
			// A close bracket, comma, or EOF ends the term. Anything else is
			// trailing input that the caller reports.
			return n, nil
		}
		prec := binop(tok.Op)
		if prec.op == KindNone {
			return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: false}
		}
		if !prec.moreBinding(until) {
			return n, nil
		}
		s.next()
		rhs, err := s.parseterm(prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := s.peek()
			return nil, &EmptyExpressionError{Col: end.Pos, End: end.Text}
		}
		if prec.op == KindAssign {
			if err := checkTarget(tok, n); err != nil {
				return nil, err
			}
			n = &Assign{Target: n, Value: rhs}
			continue
		}
		n = &Binary{Op: prec.op, Left: n, Right: rhs}
	}
}

// parselhs parses the first component of a term: a literal, variable, call,
// bracketed subexpression, or unary operator.
func (s *parser) parselhs(until operator) (Node, error) {
	tok := s.next()
	switch tok.Kind {
	case TokenNum:
		n, ok := parseNum(tok.Text)
		if !ok {
			return nil, &LexError{Text: tok.Text, Kind: "number", Col: tok.Pos}
		}
		return n, nil
	case TokenVar:
		return &Var{Name: tok.Text}, nil
	case TokenFunc:
		return s.parsecall(tok)
	case TokenUserFunc:
		args, err := s.parsearglist(tok)
		if err != nil {
			return nil, err
		}
		// A definition may change the arity.
		redef := s.peek().Kind == TokenOp && s.peek().Op == OpAssign
		if want, ok := s.p.user[tok.Text]; ok && !redef && want >= 0 && want != len(args) {
			return nil, &CallError{Col: tok.Pos, Func: tok.Text, Want: want, Len: len(args)}
		}
		return &UserCall{Name: tok.Text, Args: args}, nil
	case TokenOp:
		prec := unop(tok.Op)
		if prec.op == KindNone {
			return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := s.parseterm(prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := s.peek()
			return nil, &EmptyExpressionError{Col: end.Pos, End: end.Text}
		}
		return &Neg{X: rhs}, nil
	case TokenOpen:
		match := rightbracket(tok.Text)
		if match < 0 {
			return nil, &LexError{Text: tok.Text, Kind: "bracket", Col: tok.Pos}
		}
		rhs, err := s.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		end := s.next()
		if end.Kind != TokenClose || end.Text != closebrackets[match] {
			return nil, itShouldNotHaveEndedThisWay(end, match)
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.Pos, End: end.Text}
		}
		return rhs, nil
	case TokenClose, TokenComma:
		// Let the caller decide whether an empty expression is allowed.
		s.i--
		return nil, nil
	case TokenEOF:
		return nil, &EmptyExpressionError{Col: tok.Pos}
	default:
		// Only hand-built token sequences reach this.
		return nil, &LexError{Text: tok.Text, Col: tok.Pos}
	}
}

// parsecall parses a call to a builtin function. The argument count must
// match both the arity counted for the token and the function.
func (s *parser) parsecall(tok Token) (Node, error) {
	fn := s.p.fn(tok.Text)
	if fn == nil {
		return nil, &UndefinedFuncError{Name: tok.Text, Col: tok.Pos}
	}
	args, err := s.parsearglist(tok)
	if err != nil {
		return nil, err
	}
	if len(args) != tok.Arity {
		return nil, &CallError{Col: tok.Pos, Func: tok.Text, Want: tok.Arity, Len: len(args)}
	}
	if !fn.CanCall(len(args)) {
		return nil, &CallError{Col: tok.Pos, Func: tok.Text, Want: wantArgs(fn), Len: len(args)}
	}
	if b, ok := fn.(boolconst); ok {
		return &Bool{Val: bool(b)}, nil
	}
	return &Call{Name: tok.Text, Fn: fn, Args: args}, nil
}

// parsearglist parses the bracketed arguments following a function token, if
// there are any.
func (s *parser) parsearglist(fn Token) ([]Node, error) {
	if s.peek().Kind != TokenOpen {
		return nil, nil
	}
	open := s.next()
	match := rightbracket(open.Text)
	if match < 0 {
		return nil, &LexError{Text: open.Text, Kind: "bracket", Col: open.Pos}
	}
	var args []Node
	for {
		arg, err := s.parseterm(exprprec)
		if err != nil {
			// As a special case, reporting mismatched brackets is more helpful
			// than empty expression, if that's what we'd do here.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: open.Text}
			}
			return nil, err
		}
		end := s.next()
		switch end.Kind {
		case TokenClose:
			if end.Text != closebrackets[match] {
				return nil, &BracketError{Col: end.Pos, Left: open.Text, Right: end.Text}
			}
			if arg == nil {
				// f() is allowed, but f(a,) isn't.
				if len(args) != 0 {
					return nil, &EmptyExpressionError{Col: end.Pos, End: end.Text}
				}
				return nil, nil
			}
			return append(args, arg), nil
		case TokenComma:
			if arg == nil {
				return nil, &EmptyExpressionError{Col: end.Pos, End: end.Text}
			}
			args = append(args, arg)
		case TokenEOF:
			return nil, &BracketError{Col: end.Pos, Left: open.Text}
		default:
			return nil, itShouldNotHaveEndedThisWay(end, match)
		}
	}
}

// checkTarget verifies that n can be assigned to.
func checkTarget(tok Token, n Node) error {
	switch n := n.(type) {
	case *Var:
		return nil
	case *UserCall:
		seen := make(map[string]bool, len(n.Args))
		for _, arg := range n.Args {
			v, ok := arg.(*Var)
			if !ok || seen[v.Name] {
				return &AssignmentError{Col: tok.Pos, Target: n.String()}
			}
			seen[v.Name] = true
		}
		return nil
	}
	return &AssignmentError{Col: tok.Pos, Target: n.String()}
}

// rightbracket gets the closing bracket index for an opening bracket, or -1
// if left is not an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		return -1
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return openbrackets[right]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket rune index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok Token, match int) error {
	switch tok.Kind {
	case TokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.Pos, Left: leftbracket(match), Right: ""}
	case TokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.Pos, Left: leftbracket(match), Right: tok.Text}
	case TokenComma:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.Pos, Sep: tok.Text}
	default:
		return &TrailingInputError{Col: tok.Pos, Text: tok.Text}
	}
}

type operator struct {
	// prec is the precedence value. Lower is less binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op Kind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for an operation. If there is no such binary
// operator, then the result has an op of KindNone.
func binop(op Op) operator {
	switch op {
	case OpAssign:
		return operator{0, true, KindAssign}
	case OpAdd:
		return operator{1, false, KindAdd}
	case OpSub:
		return operator{1, false, KindSub}
	case OpMul:
		return operator{5, false, KindMul}
	case OpDiv:
		return operator{5, false, KindDiv}
	case OpPow:
		return operator{15, true, KindPow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for an operation. If there is no such unary
// operator, then the result has an op of KindNone.
func unop(op Op) operator {
	switch op {
	case OpNeg:
		return operator{10, true, KindNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, KindNone}
