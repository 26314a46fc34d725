package tokenizer

import "github.com/tinyjs-go/tinyjs/internal/token"

// annotateFunctionDescriptors populates Token.Func on every `function`
// token with the shared FuncDescriptor spec §3 describes: optional
// name, ordered parameter names, definition position, and the body's
// index range within this Stream's final token vector. It must run
// after hoisting and the final bracket-matching pass, since hoisting
// moves tokens and invalidates any descriptor built against the
// pre-hoist vector.
func (s *Stream) annotateFunctionDescriptors() {
	for i := 0; i < len(s.Tokens); i++ {
		if s.Tokens[i].Kind != token.FUNCTION {
			continue
		}
		s.annotateOneFunction(i)
	}
}

func (s *Stream) annotateOneFunction(funcIdx int) {
	n := len(s.Tokens)
	name := ""
	paramsIdx := funcIdx + 1
	if paramsIdx < n && s.Tokens[paramsIdx].Kind == token.IDENT {
		name = s.Tokens[paramsIdx].StrVal
		paramsIdx++
	}
	if paramsIdx >= n || s.Tokens[paramsIdx].Kind != token.LPAREN {
		return
	}
	closeParen, ok := s.matchParen[paramsIdx]
	if !ok {
		return
	}

	var params []string
	for j := paramsIdx + 1; j < closeParen; j++ {
		if s.Tokens[j].Kind == token.IDENT {
			params = append(params, s.Tokens[j].StrVal)
		}
	}

	braceIdx := closeParen + 1
	if braceIdx >= n || s.Tokens[braceIdx].Kind != token.LBRACE {
		return
	}
	closeBrace, ok := s.matchBrace[braceIdx]
	if !ok {
		return
	}

	s.Tokens[funcIdx].Func = &token.FuncDescriptor{
		Name:   name,
		Params: params,
		Pos:    s.Tokens[funcIdx].Pos,
		BodyLo: braceIdx + 1,
		BodyHi: closeBrace,
	}
}
