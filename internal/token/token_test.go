package token

import "testing"

func TestLookupIdent(t *testing.T) {
	cases := map[string]Kind{
		"var":      VAR,
		"function": FUNCTION,
		"instanceof": INSTANCEOF,
		"foo":      IDENT,
		"Infinity": INFINITY,
	}
	for ident, want := range cases {
		if got := LookupIdent(ident); got != want {
			t.Errorf("LookupIdent(%q) = %v, want %v", ident, got, want)
		}
	}
}

func TestKindIsLiteralIsKeyword(t *testing.T) {
	if !IDENT.IsLiteral() || !STRING.IsLiteral() {
		t.Error("IDENT/STRING should be literals")
	}
	if IF.IsLiteral() {
		t.Error("IF should not be a literal")
	}
	if !IF.IsKeyword() || !FUNCTION.IsKeyword() {
		t.Error("IF/FUNCTION should be keywords")
	}
	if IDENT.IsKeyword() {
		t.Error("IDENT should not be a keyword")
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Line: 3, Column: 7}
	if got, want := p.String(), "3:7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	p.File = "a.js"
	if got, want := p.String(), "a.js:3:7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: INT, IntVal: 42}
	if got, want := tok.String(), "INT(42)"; got != want {
		t.Errorf("Token.String() = %q, want %q", got, want)
	}
}
