package tokenizer

import (
	"testing"

	"github.com/tinyjs-go/tinyjs/internal/lexer"
	"github.com/tinyjs-go/tinyjs/internal/token"
)

func tokenize(t *testing.T, src string) *Stream {
	t.Helper()
	l := lexer.New(src, "test")
	s, err := Tokenize(l)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	return s
}

func TestTokenizeDeterministic(t *testing.T) {
	src := "var a=0; for (var i=0;i<10;i++) a+=i;"
	s1 := tokenize(t, src)
	s2 := tokenize(t, src)
	if len(s1.Tokens) != len(s2.Tokens) {
		t.Fatalf("non-deterministic token count: %d vs %d", len(s1.Tokens), len(s2.Tokens))
	}
	for i := range s1.Tokens {
		if s1.Tokens[i].Kind != s2.Tokens[i].Kind {
			t.Fatalf("token %d differs: %v vs %v", i, s1.Tokens[i].Kind, s2.Tokens[i].Kind)
		}
	}
}

func TestClassifyForIn(t *testing.T) {
	s := tokenize(t, "for (x in o) {}")
	if s.Tokens[0].Kind != token.FOR_IN {
		t.Errorf("for(x in o) should classify as FOR_IN, got %v", s.Tokens[0].Kind)
	}
}

func TestClassifyForEachIn(t *testing.T) {
	s := tokenize(t, "for each (x in o) {}")
	if s.Tokens[0].Kind != token.FOR_EACH_IN {
		t.Errorf("for each(x in o) should classify as FOR_EACH_IN, got %v", s.Tokens[0].Kind)
	}
}

func TestClassifyPlainForUnaffected(t *testing.T) {
	s := tokenize(t, "for (var i=0;i<10;i++) {}")
	// Hoisting puts the bare `var i ;` (three tokens) at the head, so
	// the for keyword sits at index 3.
	if s.Tokens[3].Kind != token.FOR {
		t.Errorf("C-style for should stay FOR, got %v", s.Tokens[3].Kind)
	}
}

func TestSkipAnnotationOnBlock(t *testing.T) {
	s := tokenize(t, "{ 1; 2; }")
	brace := s.Tokens[0]
	if brace.Kind != token.LBRACE {
		t.Fatalf("expected LBRACE first, got %v", brace.Kind)
	}
	end, ok := s.MatchingBrace(0)
	if !ok {
		t.Fatal("expected a matching brace")
	}
	if brace.Skip != end {
		t.Errorf("LBRACE.Skip = %d, want matching brace index %d", brace.Skip, end)
	}
}

func TestHoistVarToFunctionHead(t *testing.T) {
	s := tokenize(t, "function f(){ if (true) { var x = 1; } return x; }")
	// The hoisted bare "var x;" should appear before the function's
	// first executable statement (the `if`), i.e. directly after the
	// opening brace of the function body.
	foundFunc := false
	for i, tok := range s.Tokens {
		if tok.Kind == token.FUNCTION {
			foundFunc = true
			// Body starts at the brace right after "f" "(" ")".
			_ = i
			break
		}
	}
	if !foundFunc {
		t.Fatal("expected a FUNCTION token")
	}
	// Look for a VAR token whose next token is IDENT "x" followed by
	// SEMICOLON (the hoisted bare declaration), appearing before any IF.
	hoistedIdx, ifIdx := -1, -1
	for i, tok := range s.Tokens {
		if tok.Kind == token.VAR && i+2 < len(s.Tokens) &&
			s.Tokens[i+1].Kind == token.IDENT && s.Tokens[i+1].StrVal == "x" &&
			s.Tokens[i+2].Kind == token.SEMICOLON && hoistedIdx == -1 {
			hoistedIdx = i
		}
		if tok.Kind == token.IF && ifIdx == -1 {
			ifIdx = i
		}
	}
	if hoistedIdx == -1 {
		t.Fatal("expected a hoisted bare 'var x;' declaration")
	}
	if ifIdx == -1 || hoistedIdx >= ifIdx {
		t.Errorf("hoisted var (idx %d) should precede the if (idx %d)", hoistedIdx, ifIdx)
	}
}

func TestFunctionDescriptorCaptured(t *testing.T) {
	s := tokenize(t, "function add(a,b){ return a+b; }")
	var desc *token.FuncDescriptor
	for _, tok := range s.Tokens {
		if tok.Kind == token.FUNCTION && tok.Func != nil {
			desc = tok.Func
			break
		}
	}
	if desc == nil {
		t.Fatal("expected a function token carrying a FuncDescriptor")
	}
	if desc.Name != "add" {
		t.Errorf("Name = %q, want add", desc.Name)
	}
	if len(desc.Params) != 2 || desc.Params[0] != "a" || desc.Params[1] != "b" {
		t.Errorf("Params = %v, want [a b]", desc.Params)
	}
}
