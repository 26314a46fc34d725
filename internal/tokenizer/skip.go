package tokenizer

import "github.com/tinyjs-go/tinyjs/internal/token"

// annotateSkips implements spec §4.2's skip annotations: every
// control-flow token is stamped with the token distance to "the place
// execution continues if this construct's guarded region is not
// taken" (or, for blocks, simply to the matching close-brace). The
// evaluator never has to re-scan for a construct's extent at runtime;
// it only ever adds Tokens[i].Skip to i.
func (s *Stream) annotateSkips() {
	for i := range s.Tokens {
		if s.Tokens[i].Kind == token.LBRACE {
			if end, ok := s.matchBrace[i]; ok {
				s.Tokens[i].Skip = end - i
			}
		}
	}

	for i := 0; i < len(s.Tokens); i++ {
		switch s.Tokens[i].Kind {
		case token.IF:
			s.annotateIf(i)
		case token.WHILE:
			// A bare WHILE not immediately preceded by a matched DO is
			// a while-loop header; do/while's trailing `while(cond);`
			// is consumed by annotateDo and never revisited here
			// because it carries no body of its own to skip.
			if !s.isDoWhileTail(i) {
				s.annotateLoop(i)
			}
		case token.DO:
			s.annotateDo(i)
		case token.FOR, token.FOR_IN, token.FOR_EACH_IN:
			s.annotateLoop(i)
		case token.SWITCH:
			s.annotateSwitch(i)
		case token.WITH:
			s.annotateLoop(i)
		case token.TRY:
			s.annotateTry(i)
		}
	}
}

func (s *Stream) headerParen(keywordIdx int) (open, close int, ok bool) {
	open = keywordIdx + 1
	if open >= len(s.Tokens) || s.Tokens[open].Kind != token.LPAREN {
		return 0, 0, false
	}
	close, ok = s.matchParen[open]
	return open, close, ok
}

// annotateIf stamps IF.Skip to point at a following ELSE (so the
// evaluator can consume it when the condition is false) or past the
// whole if-statement when there is none, and stamps ELSE.Skip to point
// past the whole else-part.
func (s *Stream) annotateIf(ifIdx int) {
	_, closeParen, ok := s.headerParen(ifIdx)
	if !ok {
		return
	}
	thenStart := closeParen + 1
	thenEnd := s.endOfStatementOrBlock(thenStart)

	if thenEnd < len(s.Tokens) && s.Tokens[thenEnd].Kind == token.ELSE {
		s.Tokens[ifIdx].Skip = thenEnd - ifIdx
		elseIdx := thenEnd
		elseBodyStart := elseIdx + 1
		elseEnd := s.endOfStatementOrBlock(elseBodyStart)
		s.Tokens[elseIdx].Skip = elseEnd - elseIdx
		return
	}
	s.Tokens[ifIdx].Skip = thenEnd - ifIdx
}

// annotateLoop handles WHILE, FOR/FOR_IN/FOR_EACH_IN, and WITH, all of
// which share the shape `keyword (...) body` (FOR_EACH_IN with the
// contextual `each` between keyword and header): Skip points past the
// entire construct, for break/return unwinding.
func (s *Stream) annotateLoop(idx int) {
	keyword := idx
	if s.Tokens[idx].Kind == token.FOR_EACH_IN {
		keyword++ // the header paren follows the `each` identifier
	}
	_, closeParen, ok := s.headerParen(keyword)
	if !ok {
		return
	}
	bodyStart := closeParen + 1
	bodyEnd := s.endOfStatementOrBlock(bodyStart)
	s.Tokens[idx].Skip = bodyEnd - idx
}

// isDoWhileTail reports whether the WHILE at idx is the trailing
// condition of a `do { ... } while (cond);`, identified by the
// preceding non-trivial token being the matching `}` of a DO body.
func (s *Stream) isDoWhileTail(whileIdx int) bool {
	if whileIdx == 0 {
		return false
	}
	prev := whileIdx - 1
	if s.Tokens[prev].Kind != token.RBRACE {
		return false
	}
	open, ok := s.matchBrace[prev]
	return ok && open > 0 && s.Tokens[open-1].Kind == token.DO
}

// annotateDo stamps DO.Skip to point past the trailing `while(cond);`,
// covering the whole do/while statement.
func (s *Stream) annotateDo(doIdx int) {
	bodyStart := doIdx + 1
	bodyEnd := s.endOfStatementOrBlock(bodyStart)
	if bodyEnd >= len(s.Tokens) || s.Tokens[bodyEnd].Kind != token.WHILE {
		s.Tokens[doIdx].Skip = bodyEnd - doIdx
		return
	}
	whileIdx := bodyEnd
	_, closeParen, ok := s.headerParen(whileIdx)
	if !ok {
		s.Tokens[doIdx].Skip = bodyEnd - doIdx
		return
	}
	end := closeParen + 1
	if end < len(s.Tokens) && s.Tokens[end].Kind == token.SEMICOLON {
		end++
	}
	s.Tokens[doIdx].Skip = end - doIdx
}

// annotateSwitch stamps SWITCH.Skip past the whole switch block, and
// gives every CASE/DEFAULT label a Skip to the next label (or the
// closing brace), implementing the "linear scan of case labels" model
// from spec §4.5.
func (s *Stream) annotateSwitch(switchIdx int) {
	_, closeParen, ok := s.headerParen(switchIdx)
	if !ok {
		return
	}
	bodyOpen := closeParen + 1
	if bodyOpen >= len(s.Tokens) || s.Tokens[bodyOpen].Kind != token.LBRACE {
		return
	}
	bodyClose, ok := s.matchBrace[bodyOpen]
	if !ok {
		return
	}
	s.Tokens[switchIdx].Skip = bodyClose + 1 - switchIdx

	var labels []int
	depth := 0
	for i := bodyOpen + 1; i < bodyClose; i++ {
		switch s.Tokens[i].Kind {
		case token.LBRACE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE, token.RPAREN, token.RBRACKET:
			depth--
		case token.CASE, token.DEFAULT:
			if depth == 0 {
				labels = append(labels, i)
			}
		}
	}
	for n, labelIdx := range labels {
		next := bodyClose
		if n+1 < len(labels) {
			next = labels[n+1]
		}
		s.Tokens[labelIdx].Skip = next - labelIdx
	}
}

// annotateTry stamps TRY/CATCH/FINALLY so the evaluator can jump from
// one clause straight to the next without re-parsing, mirroring spec
// §4.5's try/catch/finally protocol.
func (s *Stream) annotateTry(tryIdx int) {
	tryBodyStart := tryIdx + 1
	if tryBodyStart >= len(s.Tokens) || s.Tokens[tryBodyStart].Kind != token.LBRACE {
		return
	}
	tryBodyEnd, ok := s.matchBrace[tryBodyStart]
	if !ok {
		return
	}
	cursor := tryBodyEnd + 1
	s.Tokens[tryIdx].Skip = cursor - tryIdx

	if cursor < len(s.Tokens) && s.Tokens[cursor].Kind == token.CATCH {
		catchIdx := cursor
		next := catchIdx + 1
		if next < len(s.Tokens) && s.Tokens[next].Kind == token.LPAREN {
			if closeParen, ok := s.matchParen[next]; ok {
				next = closeParen + 1
			}
		}
		if next < len(s.Tokens) && s.Tokens[next].Kind == token.LBRACE {
			if end, ok := s.matchBrace[next]; ok {
				cursor = end + 1
				s.Tokens[catchIdx].Skip = cursor - catchIdx
			}
		}
	}

	if cursor < len(s.Tokens) && s.Tokens[cursor].Kind == token.FINALLY {
		finallyIdx := cursor
		next := finallyIdx + 1
		if next < len(s.Tokens) && s.Tokens[next].Kind == token.LBRACE {
			if end, ok := s.matchBrace[next]; ok {
				s.Tokens[finallyIdx].Skip = end + 1 - finallyIdx
			}
		}
	}
}
