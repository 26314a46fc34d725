// Package interp implements the recursive-descent, stream-walking
// evaluator from spec §4.5: it walks the tokenizer's annotated token
// vector by index, using Token.Skip to leap over branches that are not
// taken instead of re-parsing them, and drives the scope chain and
// value model in internal/runtime.
package interp

import (
	"fmt"

	"github.com/tinyjs-go/tinyjs/internal/errors"
	"github.com/tinyjs-go/tinyjs/internal/runtime"
	"github.com/tinyjs-go/tinyjs/internal/token"
	"github.com/tinyjs-go/tinyjs/internal/tokenizer"
)

// Signal is the runtime-flags-word replacement spec §4.5/§9 describes:
// break/continue/return/throw are modeled as a signal plus a value
// slot rather than host-language exceptions, so the evaluator's
// unwinding behavior is identical regardless of implementation
// language.
type Signal int

const (
	SigNone Signal = iota
	SigBreak
	SigContinue
	SigReturn
	SigThrow
)

// Protos holds the prototype objects planted by internal/builtins
// during engine initialization, consulted when constructing literals
// (spec §4.3's "array and string built-ins ... are reached via the
// chain after planting their prototypes").
type Protos struct {
	Object   *runtime.Value
	Array    *runtime.Value
	Function *runtime.Value
	String   *runtime.Value
	Number   *runtime.Value
	Boolean  *runtime.Value
}

// Evaluator is one interpreter instance: a live scope chain over a
// single token Stream, plus the resource limits spec §5 describes as
// engine-instance state rather than process state. It is not
// re-entrant — spec §5 allows two instances to run in parallel only if
// they share no values.
type Evaluator struct {
	Stream *tokenizer.Stream
	pos    int
	File   string

	Root    *runtime.Value
	Scope   *runtime.Value
	Protos  *Protos

	LoopLimit  int
	StackLimit int
	callDepth  int

	// Last holds the value of the most recently evaluated top-level
	// expression statement, for the embedding API's evaluate().
	Last *runtime.Value

	Stdout func(string)
}

// Option configures an Evaluator at construction, following the
// functional-options idiom the teacher's own command/value
// construction uses throughout.
type Option func(*Evaluator)

func WithLoopLimit(n int) Option  { return func(e *Evaluator) { e.LoopLimit = n } }
func WithStackLimit(n int) Option { return func(e *Evaluator) { e.StackLimit = n } }
func WithStdout(fn func(string)) Option { return func(e *Evaluator) { e.Stdout = fn } }
func WithFile(name string) Option { return func(e *Evaluator) { e.File = name } }

const (
	defaultLoopLimit  = 1 << 20
	defaultStackLimit = 1000
)

// New creates an Evaluator with a fresh root scope. Native globals and
// prototypes are installed separately by internal/builtins, which also
// owns *Protos.
func New(opts ...Option) *Evaluator {
	root := runtime.NewRootScope()
	e := &Evaluator{
		Root:       root,
		Scope:      root,
		Protos:     &Protos{},
		LoopLimit:  defaultLoopLimit,
		StackLimit: defaultStackLimit,
		Stdout:     func(string) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes stream's full token vector for side effects, starting
// fresh at index 0, and returns the first engine-level error
// encountered (lexical/parse and engine-limit errors; script
// exceptions that escape every try/catch are converted to a
// *errors.RuntimeError here, per spec §7).
func (e *Evaluator) Run(stream *tokenizer.Stream) error {
	e.Stream = stream
	e.pos = 0
	sig, val, err := e.execBlock(0, len(stream.Tokens)-1) // exclude EOF
	if err != nil {
		return err
	}
	if sig == SigThrow {
		return errors.NewRuntimeError(e.curPos(), runtime.ToString(val), val)
	}
	if sig == SigReturn {
		return errors.NewRuntimeError(e.curPos(), "'return' outside function", nil)
	}
	if sig == SigBreak || sig == SigContinue {
		return errors.NewRuntimeError(e.curPos(), "'break'/'continue' outside loop", nil)
	}
	return nil
}

func (e *Evaluator) curPos() token.Position {
	if e.pos >= 0 && e.pos < len(e.Stream.Tokens) {
		return e.Stream.Tokens[e.pos].Pos
	}
	return token.Position{}
}

func (e *Evaluator) tok(i int) token.Token { return e.Stream.Tokens[i] }

func (e *Evaluator) engineError(format string, args ...any) error {
	return errors.NewCompilerError(errors.EngineLimit, e.curPos(), fmt.Sprintf(format, args...), "")
}

// pushScope/popScope are thin wrappers kept for readability at call
// sites in stmt.go/call.go.
func (e *Evaluator) pushScope(s *runtime.Value) (prev *runtime.Value) {
	prev = e.Scope
	e.Scope = s
	return prev
}

func (e *Evaluator) popScope(prev *runtime.Value) { e.Scope = prev }
