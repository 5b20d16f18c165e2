package symbolic

import (
	"strconv"
	"strings"
	"unicode"
)

// Operators contains the runes which are considered to be operators. The
// assignment operator := is scanned separately.
const Operators = "+-*/^×÷"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in ClosedBrackets. Curly braces
// not attached to a function are vector literals.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var (
	openbrackets  = byteidcs(OpenBrackets)
	closebrackets = byteidcs(CloseBrackets)
)

// operops maps operator runes to their binary operations.
var operops = map[rune]Op{
	'+': OpAdd,
	'-': OpSub,
	'*': OpMul,
	'/': OpDiv,
	'^': OpPow,
	'×': OpMul,
	'÷': OpDiv,
}

type lexer struct {
	src  []rune
	i    int
	buf  strings.Builder
	kw   []string
	user map[string]int
	toks []Token
}

func lex(src string, p *parsectx) *lexer {
	return &lexer{
		src:  []rune(strings.ToLower(src)),
		kw:   p.keywords(),
		user: p.user,
	}
}

// emit appends a token.
func (l *lexer) emit(tok Token) {
	l.toks = append(l.toks, tok)
}

// last returns the kind of the last emitted token, or TokenNone if there are
// none yet.
func (l *lexer) last() TokenKind {
	if len(l.toks) == 0 {
		return TokenNone
	}
	return l.toks[len(l.toks)-1].Kind
}

// peekRune returns the rune at index i, or -1 past the end of the input.
func (l *lexer) peekRune(i int) rune {
	if i >= len(l.src) {
		return -1
	}
	return l.src[i]
}

// run scans the entire input.
func (l *lexer) run() ([]Token, error) {
	for l.i < len(l.src) {
		r := l.src[l.i]
		pos := l.i + 1
		switch {
		case unicode.IsSpace(r):
			l.i++
		case '0' <= r && r <= '9', r == '.':
			if err := l.scanNum(); err != nil {
				return nil, err
			}
			l.emit(Token{Kind: TokenNum, Text: l.buf.String(), Pos: pos})
			l.buf.Reset()
			// 2x -> 2 * x
			if unicode.IsLetter(l.peekRune(l.i)) {
				l.emit(Token{Kind: TokenOp, Text: "*", Op: OpMul, Pos: l.i + 1})
			}
		case unicode.IsLetter(r):
			l.scanIdent()
		case r == ',':
			l.emit(Token{Kind: TokenComma, Text: ",", Pos: pos})
			l.i++
		case r == ':':
			if l.peekRune(l.i+1) != '=' {
				l.buf.WriteRune(r)
				l.i++
				return nil, l.error("operator")
			}
			l.emit(Token{Kind: TokenOp, Text: ":=", Op: OpAssign, Pos: pos})
			l.i += 2
		default:
			if op, ok := operops[r]; ok {
				l.i++
				switch {
				case op == OpAdd && l.last() == TokenNone:
					// A leading + has no effect.
					continue
				case op == OpSub && (l.last() == TokenNone || l.last() == TokenOpen):
					l.emit(Token{Kind: TokenOp, Text: "-", Op: OpNeg, Pos: pos})
					continue
				}
				l.emit(Token{Kind: TokenOp, Text: string(r), Op: op, Pos: pos})
				continue
			}
			if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
				l.emit(Token{Kind: TokenOpen, Text: openbrackets[k], Pos: pos})
				l.i++
				continue
			}
			if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
				l.emit(Token{Kind: TokenClose, Text: closebrackets[k], Pos: pos})
				l.i++
				continue
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			l.i++
			return nil, l.error("")
		}
	}
	return l.toks, nil
}

// scanNum scans a maximal run of digits with at most one decimal point.
func (l *lexer) scanNum() error {
	var dig, dot bool
	for ; l.i < len(l.src); l.i++ {
		r := l.src[l.i]
		switch {
		case '0' <= r && r <= '9':
			dig = true
		case r == '.':
			if dot {
				l.buf.WriteRune(r)
				l.i++
				return l.error("number")
			}
			dot = true
		default:
			if !dig {
				return l.error("number")
			}
			return nil
		}
		l.buf.WriteRune(r)
	}
	if !dig {
		return l.error("number")
	}
	return nil
}

// scanIdent scans a keyword, a function definition name, or a variable. The
// current rune is a letter.
func (l *lexer) scanIdent() {
	pos := l.i + 1
	rest := string(l.src[l.i:])
	for _, kw := range l.kw {
		if !strings.HasPrefix(rest, kw) {
			continue
		}
		kind := TokenFunc
		if _, ok := l.user[kw]; ok {
			kind = TokenUserFunc
		}
		l.emit(Token{Kind: kind, Text: kw, Pos: pos})
		l.i += len([]rune(kw))
		return
	}
	end := l.i
	for end < len(l.src) && unicode.IsLetter(l.src[end]) {
		end++
	}
	if l.defines(end) {
		l.emit(Token{Kind: TokenUserFunc, Text: string(l.src[l.i:end]), Pos: pos})
		l.i = end
		return
	}
	l.emit(Token{Kind: TokenVar, Text: string(l.src[l.i]), Pos: pos})
	l.i++
}

// defines reports whether the input starting at index k is a bracketed list
// followed by :=, i.e. the word ending before k is the name in a function
// definition.
func (l *lexer) defines(k int) bool {
	k = l.skipSpace(k)
	if strings.IndexRune(OpenBrackets, l.peekRune(k)) < 0 {
		return false
	}
	depth := 0
	for ; k < len(l.src); k++ {
		r := l.src[k]
		switch {
		case strings.ContainsRune(OpenBrackets, r):
			depth++
		case strings.ContainsRune(CloseBrackets, r):
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if depth != 0 {
		return false
	}
	k = l.skipSpace(k + 1)
	return l.peekRune(k) == ':' && l.peekRune(k+1) == '='
}

func (l *lexer) skipSpace(k int) int {
	for k < len(l.src) && unicode.IsSpace(l.src[k]) {
		k++
	}
	return k
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.i,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "operator", or the empty string for a rune that starts no token.
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "unsupported symbol " + strconv.Quote(err.Text) + " at " + pos
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
