// Package tinyjs is the embedding surface spec §6 describes: a host
// constructs an Engine, optionally registers native functions, then
// submits source either for side-effecting execution or for
// evaluation to a value. It is a thin façade over internal/interp,
// internal/builtins, and internal/runtime — the packages that do the
// actual work — mirroring the split the teacher keeps between its
// internal engine packages and its pkg/dwscript embedding surface.
package tinyjs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tinyjs-go/tinyjs/internal/builtins"
	"github.com/tinyjs-go/tinyjs/internal/errors"
	"github.com/tinyjs-go/tinyjs/internal/interp"
	"github.com/tinyjs-go/tinyjs/internal/lexer"
	"github.com/tinyjs-go/tinyjs/internal/runtime"
	"github.com/tinyjs-go/tinyjs/internal/tokenizer"
)

// Engine is one embeddable interpreter instance. Per spec §5 it is
// single-threaded cooperative and not re-entrant: a host must not call
// back into the same Engine from within a native callback it invoked.
type Engine struct {
	eval *interp.Evaluator
	out  io.Writer
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLoopLimit overrides TINYJS_LOOP_MAX_ITERATIONS (spec §4.5); the
// default is large but finite so a run-away `while(true){}` still
// eventually raises LOOP_ERROR instead of hanging the host forever.
func WithLoopLimit(n int) Option {
	return func(e *Engine) { e.eval.LoopLimit = n }
}

// WithStackLimit overrides the maximum depth of nested script function
// calls (default 1000); a call past it raises an engine error. Only
// function calls are counted: nesting within a single expression or
// statement is not bounded by this limit.
func WithStackLimit(n int) Option {
	return func(e *Engine) { e.eval.StackLimit = n }
}

// WithStdout redirects the global `print()` function's output; by
// default it writes to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// New constructs an Engine with the Object/Array/String/Number/
// Function/Boolean prototypes, Math, JSON, and the free global
// functions already installed (internal/builtins.Install), ready to
// execute or evaluate source.
func New(opts ...Option) *Engine {
	e := &Engine{eval: interp.New(), out: os.Stdout}
	for _, opt := range opts {
		opt(e)
	}
	e.eval.Stdout = func(s string) { fmt.Fprintln(e.out, s) }
	builtins.Install(e.eval)
	return e
}

// parse lexes and tokenizes source, attributing positions to file.
func parse(source, file string) (*tokenizer.Stream, error) {
	if err := lexer.ValidateSource([]byte(source)); err != nil {
		return nil, err
	}
	l := lexer.New(source, file)
	return tokenizer.Tokenize(l)
}

// Execute parses and evaluates source for side effects (spec §6),
// attributing diagnostics to file. It does not return a value — use
// Evaluate or EvaluateComplex for that.
func (e *Engine) Execute(source, file string) error {
	stream, err := parse(source, file)
	if err != nil {
		return err
	}
	e.eval.File = file
	return e.eval.Run(stream)
}

// Evaluate parses and evaluates source, returning the last top-level
// expression statement's value coerced to a string (spec §6).
func (e *Engine) Evaluate(source, file string) (string, error) {
	v, err := e.EvaluateComplex(source, file)
	if err != nil {
		return "", err
	}
	return runtime.ToString(v), nil
}

// EvaluateComplex parses and evaluates source, returning the value
// itself rather than its string coercion (spec §6).
func (e *Engine) EvaluateComplex(source, file string) (*runtime.Value, error) {
	stream, err := parse(source, file)
	if err != nil {
		return nil, err
	}
	e.eval.File = file
	if err := e.eval.Run(stream); err != nil {
		return nil, err
	}
	if e.eval.Last == nil {
		return runtime.Undefined(), nil
	}
	return e.eval.Last, nil
}

// GetVariable performs a dotted property lookup from root (spec §6),
// e.g. "Math.PI" or "obj.nested.field". It does not invoke accessors
// along intermediate segments other than the final one.
func (e *Engine) GetVariable(dottedPath string) (*runtime.Value, error) {
	cur := e.eval.Root
	segments := strings.Split(dottedPath, ".")
	for i, seg := range segments {
		link, ok := cur.FindInPrototypeChain(seg)
		if !ok {
			return nil, fmt.Errorf("tinyjs: %q is undefined", strings.Join(segments[:i+1], "."))
		}
		cur = link.Value
		if cur != nil && cur.IsAccessor() && i == len(segments)-1 && cur.Get != nil {
			return e.eval.Call(cur.Get, e.eval.Root, nil)
		}
	}
	return cur, nil
}

// Trace dumps the entire reachable value graph from root for
// debugging (spec §6), one dotted path per own, enumerable property,
// recursing through objects and arrays up to a fixed depth to avoid
// walking into a reference cycle the refcounter hasn't collected yet.
func (e *Engine) Trace() string {
	var sb strings.Builder
	seen := map[*runtime.Value]bool{}
	traceValue(&sb, "", e.eval.Root, seen, 0)
	return sb.String()
}

const traceMaxDepth = 16

func traceValue(sb *strings.Builder, prefix string, v *runtime.Value, seen map[*runtime.Value]bool, depth int) {
	if v == nil || depth > traceMaxDepth || seen[v] {
		return
	}
	if v.IsObject() || v.IsArray() {
		seen[v] = true
		for _, name := range v.OwnNames() {
			link, ok := v.FindChild(name)
			if !ok || !link.Enumerable() {
				continue
			}
			path := name
			if prefix != "" {
				path = prefix + "." + name
			}
			fmt.Fprintf(sb, "%s = %s\n", path, describe(link.Value))
			traceValue(sb, path, link.Value, seen, depth+1)
		}
	}
}

func describe(v *runtime.Value) string {
	if v == nil {
		return "<nil>"
	}
	switch {
	case v.IsFunction():
		return "[ Function ]"
	case v.IsArray():
		return fmt.Sprintf("[ Array(%d) ]", runtime.ArrayLength(v))
	case v.IsObject():
		return "[ Object ]"
	default:
		return runtime.ToString(v)
	}
}

// errorKind reports which of spec §7's three error partitions err
// belongs to, so a host can decide how to present a failure.
func errorKind(err error) string {
	switch e := err.(type) {
	case *errors.CompilerError:
		return e.Kind.String()
	case *errors.RuntimeError:
		return "script exception"
	default:
		return "error"
	}
}

// ErrorKind reports which of spec §7's three error partitions err
// belongs to: "lexical error", "parse error", "script exception",
// "engine limit", or "error" for anything the engine didn't raise
// itself.
func ErrorKind(err error) string { return errorKind(err) }

// ReplPrompter is the shape an interactive line-reading collaborator
// implements (spec §1: the REPL driver is an external collaborator,
// not part of the core). The core never imports a line-editing
// library itself; a host's CLI wires one in behind this interface.
type ReplPrompter interface {
	// Prompt reads one line of input, returning io.EOF when the user
	// signals end of input (Ctrl-D or equivalent).
	Prompt() (string, error)
}
