package tokenizer

import "github.com/tinyjs-go/tinyjs/internal/token"

// hoistDeclarations implements spec §4.2's hoisting rewrite: a `var x
// [= e]` anywhere in a function (or the program) causes a bare `var
// x;` to be inserted at that scope's head, with the original
// initializer (if any) left behind as a plain assignment; a nested
// `function f(...){...}` declaration is moved to its enclosing scope's
// head in full. Both rewrites recurse into nested function bodies
// independently, so an inner function's declarations never bubble past
// its own body.
func (s *Stream) hoistDeclarations() {
	s.hoistBareLet()

	if len(s.Tokens) == 0 {
		return
	}
	eof := s.Tokens[len(s.Tokens)-1]
	body := s.Tokens[:len(s.Tokens)-1]
	s.Tokens = append(hoistFunctionBody(body), eof)
}

// hoistBareLet retags a `let` that is the sole, brace-less body of an
// if/while/do/for/with header into `var`, per spec §4.2: "a let in a
// non-block position ... injects a var-style declaration at the
// enclosing scope's head". Once retagged, the ordinary var-hoisting
// walk below picks it up like any other var declaration; a block-form
// `let` (the common case, `{ let x = 1; }`) is untouched here and
// remains scoped to its let-block by the evaluator.
func (s *Stream) hoistBareLet() {
	for i := 0; i < len(s.Tokens); i++ {
		var bodyStart int
		switch s.Tokens[i].Kind {
		case token.IF, token.WHILE, token.FOR, token.FOR_IN, token.FOR_EACH_IN, token.WITH:
			open := i + 1
			if open >= len(s.Tokens) || s.Tokens[open].Kind != token.LPAREN {
				continue
			}
			close, ok := s.matchParen[open]
			if !ok {
				continue
			}
			bodyStart = close + 1
		case token.DO:
			bodyStart = i + 1
		default:
			continue
		}
		if bodyStart < len(s.Tokens) && s.Tokens[bodyStart].Kind == token.LET {
			s.Tokens[bodyStart].Kind = token.VAR
		}
	}
}

// hoister accumulates the declarations found while walking one
// function (or program) scope's statement list.
type hoister struct {
	varNames  []string
	seenVar   map[string]bool
	funcDecls [][]token.Token
}

// hoistFunctionBody processes the flat statement-token list of one
// function/program body and returns it with its own hoisted
// declarations prepended. Nested blocks (if/while/for/switch/with/try
// bodies) are walked transparently — their var/function declarations
// bubble up to this same call — while nested function literals get
// their own, independent call to hoistFunctionBody.
func hoistFunctionBody(body []token.Token) []token.Token {
	h := &hoister{seenVar: map[string]bool{}}
	processed := h.walk(body)

	var head []token.Token
	for _, name := range h.varNames {
		head = append(head,
			token.Token{Kind: token.VAR},
			token.Token{Kind: token.IDENT, StrVal: name},
			token.Token{Kind: token.SEMICOLON},
		)
	}
	for _, fn := range h.funcDecls {
		head = append(head, fn...)
	}
	return append(head, processed...)
}

func localMatches(toks []token.Token) (matchBrace, matchParen map[int]int) {
	matchBrace = map[int]int{}
	matchParen = map[int]int{}
	var braceStack, parenStack []int
	for i, t := range toks {
		switch t.Kind {
		case token.LBRACE:
			braceStack = append(braceStack, i)
		case token.RBRACE:
			if n := len(braceStack); n > 0 {
				open := braceStack[n-1]
				braceStack = braceStack[:n-1]
				matchBrace[open], matchBrace[i] = i, open
			}
		case token.LPAREN:
			parenStack = append(parenStack, i)
		case token.RPAREN:
			if n := len(parenStack); n > 0 {
				open := parenStack[n-1]
				parenStack = parenStack[:n-1]
				matchParen[open], matchParen[i] = i, open
			}
		}
	}
	return
}

func (h *hoister) walk(toks []token.Token) []token.Token {
	matchBrace, matchParen := localMatches(toks)

	var out []token.Token
	i, n := 0, len(toks)
	for i < n {
		t := toks[i]
		switch t.Kind {
		case token.VAR:
			rewritten, next := h.consumeVarStatement(toks, i, matchParen)
			out = append(out, rewritten...)
			i = next

		case token.FUNCTION:
			atStatement := i == 0 || toks[i-1].Kind == token.SEMICOLON || toks[i-1].Kind == token.LBRACE || toks[i-1].Kind == token.RBRACE
			if atStatement && i+1 < n && toks[i+1].Kind == token.IDENT {
				if full, next, ok := h.hoistNestedFunction(toks, i, matchParen, matchBrace); ok {
					i = next
					_ = full // recorded inside hoistNestedFunction
					continue
				}
			}
			if rewritten, next, ok := rehoistFunctionLiteralBody(toks, i, matchParen, matchBrace); ok {
				out = append(out, rewritten...)
				i = next
				continue
			}
			out = append(out, t)
			i++

		default:
			out = append(out, t)
			i++
		}
	}
	return out
}

// consumeVarStatement rewrites `var a [=e1], b [=e2], ...;` into the
// bare assignment tail (`a=e1,b=e2;`, omitting declarators without an
// initializer entirely), recording every declared name on h. In a
// for-in header (`for (var k in o)`) the `var k` is left in place for
// the for-in evaluator; the name is still recorded for hoisting.
func (h *hoister) consumeVarStatement(toks []token.Token, varIdx int, matchParen map[int]int) (rewritten []token.Token, next int) {
	n := len(toks)
	j := varIdx + 1
	first := true
	if j+1 < n && toks[j].Kind == token.IDENT && toks[j+1].Kind == token.IN {
		if name := toks[j].StrVal; !h.seenVar[name] {
			h.seenVar[name] = true
			h.varNames = append(h.varNames, name)
		}
		return toks[varIdx : j+1], j + 1
	}
	for j < n && toks[j].Kind == token.IDENT {
		name := toks[j].StrVal
		if !h.seenVar[name] {
			h.seenVar[name] = true
			h.varNames = append(h.varNames, name)
		}
		k := j + 1
		if k < n && toks[k].Kind == token.ASSIGN {
			end := k + 1
			depth := 0
			for end < n {
				switch toks[end].Kind {
				case token.LPAREN, token.LBRACE, token.LBRACKET:
					depth++
				case token.RPAREN, token.RBRACE, token.RBRACKET:
					depth--
				}
				if depth == 0 && (toks[end].Kind == token.COMMA || toks[end].Kind == token.SEMICOLON) {
					break
				}
				end++
			}
			if !first {
				rewritten = append(rewritten, token.Token{Kind: token.COMMA, Pos: toks[varIdx].Pos})
			}
			rewritten = append(rewritten, toks[j:end]...)
			first = false
			if end < n && toks[end].Kind == token.COMMA {
				j = end + 1
				continue
			}
			j = end
			break
		}
		if k < n && toks[k].Kind == token.COMMA {
			j = k + 1
			continue
		}
		j = k
		break
	}
	if j < n && toks[j].Kind == token.SEMICOLON {
		j++
	}
	if len(rewritten) > 0 {
		rewritten = append(rewritten, token.Token{Kind: token.SEMICOLON, Pos: toks[varIdx].Pos})
	}
	return rewritten, j
}

// hoistNestedFunction recognizes a statement-position `function
// name(...) {...}` at toks[idx], recursively hoists its own body, and
// records the (now self-hoisted) declaration on h so the caller moves
// it to this scope's head. It returns the index just past the closing
// brace.
func (h *hoister) hoistNestedFunction(toks []token.Token, idx int, matchParen, matchBrace map[int]int) (full []token.Token, next int, ok bool) {
	n := len(toks)
	parenIdx := idx + 2
	if parenIdx >= n || toks[parenIdx].Kind != token.LPAREN {
		return nil, idx, false
	}
	closeParen, exists := matchParen[parenIdx]
	if !exists {
		return nil, idx, false
	}
	braceIdx := closeParen + 1
	if braceIdx >= n || toks[braceIdx].Kind != token.LBRACE {
		return nil, idx, false
	}
	closeBrace, exists := matchBrace[braceIdx]
	if !exists {
		return nil, idx, false
	}

	innerBody := toks[braceIdx+1 : closeBrace]
	hoistedInner := hoistFunctionBody(innerBody)

	full = make([]token.Token, 0, (braceIdx-idx)+len(hoistedInner)+1)
	full = append(full, toks[idx:braceIdx+1]...)
	full = append(full, hoistedInner...)
	full = append(full, toks[closeBrace])

	h.funcDecls = append(h.funcDecls, full)
	return full, closeBrace + 1, true
}

// rehoistFunctionLiteralBody handles a function *expression* (the
// function keyword is not immediately followed by a name in statement
// position, e.g. `var f = function(){...}` or a callback argument): it
// recurses into the literal's own body in place, without moving the
// literal itself.
func rehoistFunctionLiteralBody(toks []token.Token, idx int, matchParen, matchBrace map[int]int) (rewritten []token.Token, next int, ok bool) {
	n := len(toks)
	j := idx + 1
	if j < n && toks[j].Kind == token.IDENT {
		j++
	}
	if j >= n || toks[j].Kind != token.LPAREN {
		return nil, idx, false
	}
	closeParen, exists := matchParen[j]
	if !exists {
		return nil, idx, false
	}
	braceIdx := closeParen + 1
	if braceIdx >= n || toks[braceIdx].Kind != token.LBRACE {
		return nil, idx, false
	}
	closeBrace, exists := matchBrace[braceIdx]
	if !exists {
		return nil, idx, false
	}

	innerBody := toks[braceIdx+1 : closeBrace]
	hoistedInner := hoistFunctionBody(innerBody)

	rewritten = append(rewritten, toks[idx:braceIdx+1]...)
	rewritten = append(rewritten, hoistedInner...)
	rewritten = append(rewritten, toks[closeBrace])
	return rewritten, closeBrace + 1, true
}
