package interp

import (
	"github.com/tinyjs-go/tinyjs/internal/errors"
	"github.com/tinyjs-go/tinyjs/internal/lexer"
	"github.com/tinyjs-go/tinyjs/internal/runtime"
	"github.com/tinyjs-go/tinyjs/internal/tokenizer"
)

// EvalString implements the global `eval(source)` function: it lexes
// and tokenizes source as its own Stream, then walks it with
// execBlock in the scope active at the call site, exactly like a
// nested re-entrant cursor over a second token vector (the re-entrancy
// note in tokenizer.Stream's doc comment). The calling Stream/pos are
// restored once the nested program finishes, whether it completed
// normally or raised an error.
func (e *Evaluator) EvalString(source string) (*runtime.Value, error) {
	l := lexer.New(source, "<eval>")
	stream, err := tokenizer.Tokenize(l)
	if err != nil {
		return nil, err
	}

	prevStream, prevPos := e.Stream, e.pos
	e.Stream, e.pos = stream, 0
	defer func() { e.Stream, e.pos = prevStream, prevPos }()

	sig, val, err := e.execBlock(0, len(stream.Tokens)-1)
	if err != nil {
		return nil, err
	}
	if sig == SigThrow {
		return nil, errors.NewRuntimeError(e.curPos(), runtime.ToString(val), val)
	}
	if e.Last == nil {
		return runtime.Undefined(), nil
	}
	return e.Last, nil
}
