package lexer

import (
	"testing"

	"github.com/tinyjs-go/tinyjs/internal/token"
)

func collect(src string) []token.Token {
	l := New(src, "test")
	var out []token.Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want ...token.Kind) {
	t.Helper()
	got := kinds(collect(src))
	if len(got) != len(want) {
		t.Fatalf("tokenize(%q): got %v kinds, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokenize(%q): token %d = %v, want %v", src, i, got[i], want[i])
		}
	}
}

func TestLexerBasicTokens(t *testing.T) {
	assertKinds(t, "var x = 1;",
		token.VAR, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON, token.EOF)
}

func TestLexerMultiCharOperators(t *testing.T) {
	cases := map[string]token.Kind{
		"==":   token.EQ,
		"===":  token.SEQ,
		"!=":   token.NEQ,
		"!==":  token.SNEQ,
		"<=":   token.LE,
		">=":   token.GE,
		"<<":   token.SHL,
		">>":   token.SHR,
		">>>":  token.USHR,
		"++":   token.INC,
		"--":   token.DEC,
		"&&":   token.AND_AND,
		"||":   token.OR_OR,
		"+=":   token.PLUS_ASSIGN,
		"-=":   token.MINUS_ASSIGN,
		"<<=":  token.SHL_ASSIGN,
		">>>=": token.USHR_ASSIGN,
	}
	for src, want := range cases {
		toks := collect(src)
		if len(toks) != 2 || toks[0].Kind != want {
			t.Errorf("tokenize(%q) = %v, want [%v EOF]", src, kinds(toks), want)
		}
	}
}

func TestLexerIntAndFloatLiterals(t *testing.T) {
	toks := collect("42 0x2A 3.14 1e3")
	want := []token.Kind{token.INT, token.INT, token.FLOAT, token.FLOAT, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
	if toks[1].IntVal != 42 {
		t.Errorf("0x2A IntVal = %d, want 42", toks[1].IntVal)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := collect(`"a\nb\tc\"d"`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("expected STRING, got %v", toks[0].Kind)
	}
	if want := "a\nb\tc\"d"; toks[0].StrVal != want {
		t.Errorf("StrVal = %q, want %q", toks[0].StrVal, want)
	}
}

func TestLexerUnterminatedStringIsError(t *testing.T) {
	l := New(`"abc`, "test")
	l.Next()
	if len(l.Errors()) == 0 {
		t.Error("expected a lexical error for unterminated string")
	}
}

func TestLexerComments(t *testing.T) {
	assertKinds(t, "1 // comment\n2", token.INT, token.INT, token.EOF)
	assertKinds(t, "1 /* block\ncomment */ 2", token.INT, token.INT, token.EOF)
}

func TestLexerLineColumnTracking(t *testing.T) {
	toks := collect("var\nx")
	if toks[0].Pos.Line != 1 {
		t.Errorf("var line = %d, want 1", toks[0].Pos.Line)
	}
	if toks[1].Pos.Line != 2 {
		t.Errorf("x line = %d, want 2", toks[1].Pos.Line)
	}
}

func TestLexerReservedWords(t *testing.T) {
	assertKinds(t, "if else do while for in break continue function return",
		token.IF, token.ELSE, token.DO, token.WHILE, token.FOR, token.IN,
		token.BREAK, token.CONTINUE, token.FUNCTION, token.RETURN, token.EOF)
}

func TestLexerCRLFNormalization(t *testing.T) {
	toks := collect("var\r\nx\ry")
	if toks[1].Pos.Line != 2 || toks[2].Pos.Line != 3 {
		t.Errorf("CRLF/CR should each advance one line, got lines %d,%d",
			toks[1].Pos.Line, toks[2].Pos.Line)
	}
}
