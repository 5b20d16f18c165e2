package symbolic

import (
	"strconv"
	"strings"
	"testing"
)

// describe renders a token sequence compactly: operators by their operation,
// so that negation shows as neg, and functions with their arity.
func describe(toks []Token) string {
	s := make([]string, len(toks))
	for i, tok := range toks {
		switch tok.Kind {
		case TokenOp:
			s[i] = tok.Op.String()
		case TokenFunc, TokenUserFunc:
			s[i] = tok.Text + "/" + strconv.Itoa(tok.Arity)
		default:
			s[i] = tok.Text
		}
	}
	return strings.Join(s, " ")
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		src  string
		toks string
	}{
		{"empty", "", ""},
		{"space", " \t\n", ""},
		{"num", "1", "1"},
		{"decimal", "1.5", "1.5"},
		{"leading-dot", ".5", ".5"},
		{"trailing-dot", "5.", "5."},
		{"var", "x", "x"},
		{"add", "2+2", "2 + 2"},
		{"sub", "2-2", "2 - 2"},
		{"alt-ops", "x×y÷2", "x * y / 2"},
		{"assign", "x := 1", "x := 1"},
		{"neg", "-x", "neg x"},
		{"neg-paren", "(-x)", "( neg x )"},
		{"neg-after-op", "2*-x", "2 * neg x"},
		{"neg-after-sub", "1 - -x", "1 - neg x"},
		{"neg-after-comma", "min(1, -x)", "min/2 ( 1 , neg x )"},
		{"plus", "+x", "x"},
		{"plus-after-op", "2^+x", "2 ^ x"},
		{"num-var", "2x", "2 * x"},
		{"num-paren", "2(x)", "2 * ( x )"},
		{"vars", "xy", "x * y"},
		{"var-paren", "x(y)", "x * ( y )"},
		{"paren-paren", "(x)(y)", "( x ) * ( y )"},
		{"num-num", "2 3", "2 3"},
		{"call", "sin(x)", "sin/1 ( x )"},
		{"call-bracket", "sin[x]", "sin/1 [ x ]"},
		{"call-call", "sin(x)cos(x)", "sin/1 ( x ) * cos/1 ( x )"},
		{"call-args", "min(1, 2, 3)", "min/3 ( 1 , 2 , 3 )"},
		{"call-empty", "min()", "min/0 ( )"},
		{"call-nested", "min(max(1,2),3)", "min/2 ( max/2 ( 1 , 2 ) , 3 )"},
		{"call-grouped", "min((1,2))", "min/1 ( ( 1 , 2 ) )"},
		{"const", "pi", "pi/0"},
		{"const-paren", "pi(x)", "pi/0 * ( x )"},
		{"const-var", "2pi r", "2 * pi/0 * r"},
		{"longest", "sinh(x)", "sinh/1 ( x )"},
		{"case", "SIN(X)", "sin/1 ( x )"},
		{"vector", "{1, 2}", "vector/2 { 1 , 2 }"},
		{"vector-empty", "{}", "vector/0 { }"},
		{"vector-scaled", "2{1}", "2 * vector/1 { 1 }"},
		{"vector-call", "sin{x}", "sin/1 { x }"},
		{"definition", "f(x) := x^2", "f/1 ( x ) := x ^ 2"},
		{"definition-long", "area(w, h) := w h", "area/2 ( w , h ) := w * h"},
		{"definition-spaced", "f (x, y) := 1", "f/2 ( x , y ) := 1"},
		{"not-definition", "f(x) + 1", "f * ( x ) + 1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			if err != nil {
				t.Fatalf("%q failed to tokenize: %v", c.src, err)
			}
			if got := describe(toks); got != c.toks {
				t.Errorf("wrong tokens from %q:\n\twant %s\n\tgot  %s", c.src, c.toks, got)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  LexError
	}{
		{"symbol", "x & y", LexError{Text: "&", Kind: "", Col: 3}},
		{"dollar", "2^exp(-$)", LexError{Text: "$", Kind: "", Col: 8}},
		{"two-points", "1.1.1", LexError{Text: "1.1.", Kind: "number", Col: 4}},
		{"point", ".", LexError{Text: ".", Kind: "number", Col: 1}},
		{"point-op", "x + .", LexError{Text: ".", Kind: "number", Col: 5}},
		{"colon", "x : y", LexError{Text: ":", Kind: "operator", Col: 3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			if toks != nil {
				t.Errorf("%q tokenized to %s", c.src, describe(toks))
			}
			le, ok := err.(*LexError)
			if !ok {
				t.Fatalf("wrong error from %q: want *LexError, got %#v", c.src, err)
			}
			if *le != c.err {
				t.Errorf("wrong error from %q:\n\twant %+v\n\tgot  %+v", c.src, c.err, *le)
			}
			if le.Pos() != c.err.Col {
				t.Errorf("wrong position: want %d, got %d", c.err.Col, le.Pos())
			}
		})
	}
}

func TestTokenizeUnclosedArgs(t *testing.T) {
	_, err := Tokenize("min(1, 2")
	be, ok := err.(*BracketError)
	if !ok {
		t.Fatalf("want *BracketError, got %#v", err)
	}
	if be.Left != "(" || be.Right != "" || be.Col != 4 {
		t.Errorf("wrong error %+v", *be)
	}
	if be.Expected() != ")" {
		t.Errorf("wrong expected bracket %q", be.Expected())
	}
}

// TestTokenizeArity checks that every function token carries the number of
// arguments the parser finds for it.
func TestTokenizeArity(t *testing.T) {
	cases := []string{
		"sin(x)",
		"min(1, max(2, 3, 4), {5, 6})",
		"log(x, 2) + log(y)",
		"if(true, min(1), max(1, 2))",
		"{{1, 2}, {}, {3}}",
		"pi + e",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			toks, err := Tokenize(src)
			if err != nil {
				t.Fatalf("%q failed to tokenize: %v", src, err)
			}
			var want []int
			for _, tok := range toks {
				if tok.Kind == TokenFunc && tok.Text != "true" && tok.Text != "false" {
					want = append(want, tok.Arity)
				}
			}
			a, err := ParseTokens(toks)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", src, err)
			}
			var got []int
			Walk(a.Node(), func(n Node) bool {
				if c, ok := n.(*Call); ok {
					got = append(got, len(c.Args))
				}
				return true
			})
			if len(got) != len(want) {
				t.Fatalf("wrong number of calls: want %v, got %v", want, got)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("call %d: token arity %d but %d arguments", i, want[i], got[i])
				}
			}
		})
	}
}

func TestTokenizeUserFuncs(t *testing.T) {
	toks, err := Tokenize("f(x) + g(1, 2) + h", DeclareFunc("f", 1), DeclareFunc("g", 2), DeclareFunc("h", 0))
	if err != nil {
		t.Fatal(err)
	}
	want := "f/1 ( x ) + g/2 ( 1 , 2 ) + h/0"
	if got := describe(toks); got != want {
		t.Errorf("wrong tokens:\n\twant %s\n\tgot  %s", want, got)
	}
	for _, tok := range toks {
		if isFunc(tok) && tok.Kind != TokenUserFunc {
			t.Errorf("%v should be a user function", tok)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	toks, err := Tokenize("2x + sin(y)")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 2, 4, 6, 9, 10, 11}
	if len(toks) != len(want) {
		t.Fatalf("wrong tokens %v", toks)
	}
	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("token %d %v: want position %d", i, tok, want[i])
		}
	}
}

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: TokenNum, Text: "1.5", Pos: 3}, "Num:1.5@3"},
		{Token{Kind: TokenFunc, Text: "min", Arity: 2, Pos: 1}, "Func:min/2@1"},
		{Token{Kind: TokenOp, Text: "-", Op: OpNeg, Pos: 1}, "Op:-@1"},
	}
	for _, c := range cases {
		if got := c.tok.String(); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
	if got := TokenKind(99).String(); got != "TokenKind(99)" {
		t.Errorf("wrong name for invalid kind: %q", got)
	}
}

func BenchmarkTokenize(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"ops", "w^x*y+z+a*b^c"},
		{"terms", "2x y (z + 1) pi"},
		{"calls", "min(sin(x), cos(y), max(1, 2, 3))"},
		{"vector", "{1, 2, {3, 4}, x}"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Tokenize(c.src)
			}
		})
	}
}
