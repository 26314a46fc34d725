package interp

import (
	"github.com/tinyjs-go/tinyjs/internal/errors"
	"github.com/tinyjs-go/tinyjs/internal/token"
)

func (e *Evaluator) cur() token.Token { return e.Stream.Tokens[e.pos] }

func (e *Evaluator) curKind() token.Kind { return e.cur().Kind }

// next advances the cursor past the current token and returns it.
func (e *Evaluator) next() token.Token {
	t := e.cur()
	if t.Kind != token.EOF {
		e.pos++
	}
	return t
}

// accept consumes the current token if it matches k.
func (e *Evaluator) accept(k token.Kind) bool {
	if e.curKind() == k {
		e.pos++
		return true
	}
	return false
}

// expect consumes the current token, requiring it to match k, or
// raises a parse-style error per spec §7 ("Got X expected Y").
func (e *Evaluator) expect(k token.Kind) (token.Token, error) {
	if e.curKind() != k {
		return token.Token{}, errors.NewCompilerError(errors.ParseError, e.cur().Pos,
			"Got "+e.curKind().String()+" expected "+k.String(), "")
	}
	return e.next(), nil
}

func (e *Evaluator) parseErrorf(format string, args ...any) error {
	return errors.NewCompilerErrorf(e.cur().Pos, format, args...)
}
