package tokenizer

import "github.com/tinyjs-go/tinyjs/internal/token"

// classifyForHeaders rewrites a bare FOR token into FOR_IN or
// FOR_EACH_IN when its header contains a top-level `in`, per spec
// §4.2's "the tokenizer also classifies for-headers". `for each (x in
// o)` is recognized by the contextual identifier "each" immediately
// following `for`; that identifier token is left in place (not
// removed) so the evaluator can skip over it once it sees
// FOR_EACH_IN, matching the tokenizer's general policy of annotating
// rather than rewriting the token vector where it can avoid it.
func (s *Stream) classifyForHeaders() {
	for i := 0; i < len(s.Tokens); i++ {
		if s.Tokens[i].Kind != token.FOR {
			continue
		}

		headerStart := i + 1
		isEach := false
		if headerStart < len(s.Tokens) &&
			s.Tokens[headerStart].Kind == token.IDENT &&
			s.Tokens[headerStart].StrVal == "each" {
			isEach = true
			headerStart++
		}
		if headerStart >= len(s.Tokens) || s.Tokens[headerStart].Kind != token.LPAREN {
			continue
		}
		closeParen, ok := s.matchParen[headerStart]
		if !ok {
			continue
		}

		hasIn := false
		depth := 0
		for j := headerStart + 1; j < closeParen; j++ {
			switch s.Tokens[j].Kind {
			case token.LPAREN, token.LBRACKET, token.LBRACE:
				depth++
			case token.RPAREN, token.RBRACKET, token.RBRACE:
				depth--
			case token.IN:
				if depth == 0 {
					hasIn = true
				}
			}
		}

		if !hasIn {
			continue
		}
		if isEach {
			s.Tokens[i].Kind = token.FOR_EACH_IN
		} else {
			s.Tokens[i].Kind = token.FOR_IN
		}
	}
}
