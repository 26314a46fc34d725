package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinyjs-go/tinyjs/internal/token"
)

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		LexError:        "lexical error",
		ParseError:      "parse error",
		ScriptException: "script exception",
		EngineLimit:     "engine limit",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestCompilerErrorFormatIncludesSourceLineAndCaret(t *testing.T) {
	e := NewCompilerError(ParseError, token.Position{Line: 2, Column: 5}, "unexpected token", "var x\nvar = ;\n")
	out := e.Format(false)
	assert.True(t, strings.Contains(out, "var = ;"))
	assert.True(t, strings.Contains(out, "^"))
	assert.True(t, strings.Contains(out, "unexpected token"))
	assert.True(t, strings.Contains(out, "parse error"))
}

func TestCompilerErrorFormatWithoutSourceOmitsCaret(t *testing.T) {
	e := NewCompilerError(LexError, token.Position{Line: 1, Column: 1}, "bad char", "")
	out := e.Format(false)
	assert.False(t, strings.Contains(out, "^"))
}

func TestCompilerErrorfBuildsParseError(t *testing.T) {
	e := NewCompilerErrorf(token.Position{Line: 1, Column: 1}, "got %s expected %s", "EOF", "IDENT")
	assert.Equal(t, ParseError, e.Kind)
	assert.Equal(t, "got EOF expected IDENT", e.Message)
}

func TestCompilerErrorImplementsError(t *testing.T) {
	var err error = NewCompilerError(ParseError, token.Position{Line: 1, Column: 1}, "boom", "")
	assert.True(t, strings.Contains(err.Error(), "boom"))
}

func TestRuntimeErrorMessage(t *testing.T) {
	e := NewRuntimeError(token.Position{Line: 3, Column: 2}, "something broke", nil)
	assert.Equal(t, "3:2: something broke", e.Error())
}

func TestWrapNativeAnnotatesCause(t *testing.T) {
	cause := errors.New("connection refused")
	e := WrapNative(token.Position{Line: 1, Column: 1}, "fetch", cause)
	assert.True(t, strings.Contains(e.Error(), "fetch"))
	assert.True(t, strings.Contains(e.Error(), "connection refused"))
}

func TestFormatAllEmpty(t *testing.T) {
	assert.Equal(t, "", FormatAll(nil, false))
}

func TestFormatAllSingleErrorIsUnnumbered(t *testing.T) {
	e := NewCompilerError(ParseError, token.Position{Line: 1, Column: 1}, "oops", "")
	out := FormatAll([]*CompilerError{e}, false)
	assert.False(t, strings.Contains(out, "1/1"))
}

func TestFormatAllMultipleErrorsAreNumbered(t *testing.T) {
	e1 := NewCompilerError(ParseError, token.Position{Line: 1, Column: 1}, "first", "")
	e2 := NewCompilerError(ParseError, token.Position{Line: 2, Column: 1}, "second", "")
	out := FormatAll([]*CompilerError{e1, e2}, false)
	assert.True(t, strings.Contains(out, "2 error(s)"))
	assert.True(t, strings.Contains(out, "[1/2]"))
	assert.True(t, strings.Contains(out, "[2/2]"))
}
