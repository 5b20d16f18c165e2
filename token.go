package symbolic

import "strconv"

// Token is a single lexical unit of an expression. Tokens are values; the
// post-processing passes build new sequences rather than modifying tokens.
type Token struct {
	// Kind is the kind of token.
	Kind TokenKind
	// Text is the source text of the token. For numbers it is the decimal
	// literal, for variables and functions the name, and for symbols and
	// operators the symbol itself.
	Text string
	// Op is the operation for TokenOp tokens.
	Op Op
	// Arity is the number of arguments following a TokenFunc or TokenUserFunc
	// token. It is set by the arity pass.
	Arity int
	// Pos is the 1-based rune column where the token starts.
	Pos int
}

func (t Token) String() string {
	s := t.Kind.String() + ":" + t.Text
	if t.Kind == TokenFunc || t.Kind == TokenUserFunc {
		s += "/" + strconv.Itoa(t.Arity)
	}
	return s + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the kind of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenEOF indicates the end of the input. Tokenize never produces it.
	TokenEOF
	// TokenNum is a decimal number literal.
	TokenNum
	// TokenVar is a variable name.
	TokenVar
	// TokenOp is an operator. The Op field identifies which.
	TokenOp
	// TokenOpen is an open bracket, one of ([{.
	TokenOpen
	// TokenClose is a close bracket, one of )]}.
	TokenClose
	// TokenComma separates function arguments.
	TokenComma
	// TokenFunc is a builtin function or constant.
	TokenFunc
	// TokenUserFunc is a user-defined function.
	TokenUserFunc
)

var tokenKindNames = [...]string{
	TokenNone:     "None",
	TokenEOF:      "EOF",
	TokenNum:      "Num",
	TokenVar:      "Var",
	TokenOp:       "Op",
	TokenOpen:     "Open",
	TokenClose:    "Close",
	TokenComma:    "Comma",
	TokenFunc:     "Func",
	TokenUserFunc: "UserFunc",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Op is an operation carried by a TokenOp token.
type Op int8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	// OpNeg is unary minus.
	OpNeg
	// OpAssign is := for variable and function definitions.
	OpAssign
)

var opNames = [...]string{
	OpNone:   "?",
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpPow:    "^",
	OpNeg:    "neg",
	OpAssign: ":=",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return opNames[op]
}

// binary reports whether op is a binary operator, including assignment.
func (op Op) binary() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow, OpAssign:
		return true
	}
	return false
}
