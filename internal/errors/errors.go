// Package errors formats the three error kinds spec §7 partitions
// engine failures into — lexical/parse errors, script exceptions, and
// engine limits — with source context and, on a TTY, color via
// fatih/color, the same dependency the teacher reaches for in its CLI
// output.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	juju "github.com/juju/errors"

	"github.com/tinyjs-go/tinyjs/internal/token"
)

// Kind distinguishes the three error partitions from spec §7.
type Kind int

const (
	LexError Kind = iota
	ParseError
	ScriptException
	EngineLimit
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lexical error"
	case ParseError:
		return "parse error"
	case ScriptException:
		return "script exception"
	case EngineLimit:
		return "engine limit"
	default:
		return "error"
	}
}

// CompilerError is a lexical/parse-time failure or an engine limit:
// always fatal for the current execute/evaluate call (spec §7).
type CompilerError struct {
	Kind    Kind
	Pos     token.Position
	Message string
	Source  string
}

func NewCompilerError(kind Kind, pos token.Position, message, source string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source}
}

// NewCompilerErrorf builds a ParseError with a formatted message; the
// evaluator's parser-adjacent helpers use this for the common
// "Got X expected Y" and unexpected-token shapes spec §7 describes.
func NewCompilerErrorf(pos token.Position, format string, args ...any) *CompilerError {
	return &CompilerError{Kind: ParseError, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders file:line:col, the offending source line, and a caret
// pointing at the column; colorEnabled switches on ANSI styling via
// fatih/color rather than hand-rolled escape sequences.
func (e *CompilerError) Format(colorEnabled bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s: %s", e.Kind, e.Pos.String())
	if colorEnabled {
		header = color.New(color.Bold, color.FgRed).Sprint(header)
	}
	sb.WriteString(header)
	sb.WriteByte('\n')

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", len(prefix)+maxInt(e.Pos.Column-1, 0)))
		caret := "^"
		if colorEnabled {
			caret = color.New(color.Bold, color.FgRed).Sprint(caret)
		}
		sb.WriteString(caret)
		sb.WriteByte('\n')
	}

	sb.WriteString(e.Message)
	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RuntimeError wraps a script exception value raised by `throw` (or an
// engine-detected condition like "X is not a function") once it
// escapes every try/catch frame and must propagate out of the
// top-level execute call as a parse-style error, per spec §7.
type RuntimeError struct {
	Pos     token.Position
	Message string
	Value   any // the thrown script value, opaque to this package
}

func NewRuntimeError(pos token.Position, message string, value any) *RuntimeError {
	return &RuntimeError{Pos: pos, Message: message, Value: value}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos.String(), e.Message)
}

// WrapNative adapts an error returned by a host-registered native
// function (which may be any error type, including one with its own
// cause chain) into a script-visible RuntimeError, annotating it with
// juju/errors: e.Message is the annotated text, which includes the
// cause's message. The cause error value itself is not kept on the
// RuntimeError.
func WrapNative(pos token.Position, funcName string, err error) *RuntimeError {
	annotated := juju.Annotatef(err, "native function %q", funcName)
	return NewRuntimeError(pos, annotated.Error(), nil)
}

// FormatAll renders a batch of compiler errors the way a CLI driver
// reports a failed parse: numbered, one after another.
func FormatAll(errs []*CompilerError, colorEnabled bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(colorEnabled)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[%d/%d] ", i+1, len(errs))
		sb.WriteString(e.Format(colorEnabled))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
