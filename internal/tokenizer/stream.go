// Package tokenizer implements the pre-pass described in spec §4.2: it
// buffers the lexer's output into a random-access token vector, and
// performs three linear rewrites over that vector before the evaluator
// ever sees it: bracket/skip annotation, for-header classification,
// and var/function hoisting.
package tokenizer

import (
	"fmt"

	"github.com/tinyjs-go/tinyjs/internal/lexer"
	"github.com/tinyjs-go/tinyjs/internal/token"
)

// Stream is the annotated, random-access token vector the evaluator
// walks by index. Re-entrant evaluation is handled by the evaluator,
// not the Stream: a function call saves and restores its cursor into
// the same Stream, and a nested eval swaps in a second Stream and
// restores the previous Stream and cursor when it finishes.
type Stream struct {
	Tokens []token.Token

	// matchBrace/matchParen/matchBracket map an opening delimiter's
	// index to its matching closing delimiter's index, and back.
	matchBrace   map[int]int
	matchParen   map[int]int
	matchBracket map[int]int
}

// Tokenize drains l completely, then runs the annotation passes in the
// order spec §4.2 describes them: classify for-headers first (so skip
// annotation can treat FOR_IN/FOR_EACH_IN like any other construct),
// annotate skip offsets, then hoist declarations (which must run last
// because inserting tokens invalidates every previously computed
// offset). Bracket matching, skip offsets, and per-function descriptors
// are then rebuilt once more against the final, post-hoist vector.
func Tokenize(l *lexer.Lexer) (*Stream, error) {
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	if errs := l.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}

	s := &Stream{Tokens: toks}
	s.matchBrackets()
	s.classifyForHeaders()
	s.annotateSkips()
	s.hoistDeclarations()
	// Hoisting spliced tokens in, so brace/paren matches and skip
	// offsets computed above are now stale; recompute once more over
	// the final vector.
	s.matchBrackets()
	s.annotateSkips()
	s.annotateFunctionDescriptors()
	return s, nil
}

// matchBrackets performs the stack-based bracket-matching pass that
// every later annotation pass depends on.
func (s *Stream) matchBrackets() {
	s.matchBrace = map[int]int{}
	s.matchParen = map[int]int{}
	s.matchBracket = map[int]int{}

	var braceStack, parenStack, bracketStack []int
	for i, t := range s.Tokens {
		switch t.Kind {
		case token.LBRACE:
			braceStack = append(braceStack, i)
		case token.RBRACE:
			if n := len(braceStack); n > 0 {
				open := braceStack[n-1]
				braceStack = braceStack[:n-1]
				s.matchBrace[open] = i
				s.matchBrace[i] = open
			}
		case token.LPAREN:
			parenStack = append(parenStack, i)
		case token.RPAREN:
			if n := len(parenStack); n > 0 {
				open := parenStack[n-1]
				parenStack = parenStack[:n-1]
				s.matchParen[open] = i
				s.matchParen[i] = open
			}
		case token.LBRACKET:
			bracketStack = append(bracketStack, i)
		case token.RBRACKET:
			if n := len(bracketStack); n > 0 {
				open := bracketStack[n-1]
				bracketStack = bracketStack[:n-1]
				s.matchBracket[open] = i
				s.matchBracket[i] = open
			}
		}
	}
}

// MatchingBrace returns the index of the `}` matching the `{` at idx
// (or vice versa), and whether a match was recorded.
func (s *Stream) MatchingBrace(idx int) (int, bool) { v, ok := s.matchBrace[idx]; return v, ok }

// MatchingParen returns the index of the `)` matching the `(` at idx
// (or vice versa), and whether a match was recorded.
func (s *Stream) MatchingParen(idx int) (int, bool) { v, ok := s.matchParen[idx]; return v, ok }

// MatchingBracket returns the index of the `]` matching the `[` at idx
// (or vice versa), and whether a match was recorded.
func (s *Stream) MatchingBracket(idx int) (int, bool) { v, ok := s.matchBracket[idx]; return v, ok }

// endOfStatementOrBlock returns the index just past the statement (or
// block) that begins at idx: if Tokens[idx] is `{`, that's its matching
// `}`+1; otherwise it's the index of the next top-level `;`+1 (tracking
// nested brackets so a `;` inside a nested block doesn't end things
// early).
func (s *Stream) endOfStatementOrBlock(idx int) int {
	if idx >= len(s.Tokens) {
		return idx
	}
	if s.Tokens[idx].Kind == token.LBRACE {
		if end, ok := s.matchBrace[idx]; ok {
			return end + 1
		}
	}
	depth := 0
	for i := idx; i < len(s.Tokens); i++ {
		switch s.Tokens[i].Kind {
		case token.LBRACE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE, token.RPAREN, token.RBRACKET:
			depth--
		case token.SEMICOLON:
			if depth == 0 {
				return i + 1
			}
		}
		if s.Tokens[i].Kind == token.EOF {
			return i
		}
	}
	return len(s.Tokens)
}

func (s *Stream) String() string {
	var out string
	for i, t := range s.Tokens {
		out += fmt.Sprintf("%4d %s\n", i, t)
	}
	return out
}
