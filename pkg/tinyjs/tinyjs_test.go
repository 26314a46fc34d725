package tinyjs_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyjs-go/tinyjs/internal/runtime"
	"github.com/tinyjs-go/tinyjs/pkg/tinyjs"
)

func TestEvaluateFunctionCallSum(t *testing.T) {
	e := tinyjs.New()
	out, err := e.Evaluate("function f(x,y){ return x+y; } f(1,2);", "test.js")
	require.NoError(t, err)
	assert.Equal(t, "3", out)
}

func TestExecuteForLoopSummingZeroToNine(t *testing.T) {
	var buf bytes.Buffer
	e := tinyjs.New(tinyjs.WithStdout(&buf))
	err := e.Execute("var sum=0; for (var i=0;i<10;i++){ sum+=i; } print(sum);", "test.js")
	require.NoError(t, err)
	assert.Equal(t, "45\n", buf.String())
}

func TestObjectPropertyDeleteAndHasOwnProperty(t *testing.T) {
	e := tinyjs.New()
	out, err := e.Evaluate(`
		var o = { a: 1, b: 2 };
		var before = o.hasOwnProperty("a");
		delete o.a;
		var after = o.hasOwnProperty("a");
		"" + before + "," + after;
	`, "test.js")
	require.NoError(t, err)
	assert.Equal(t, "true,false", out)
}

func TestTryCatchFinallyConcatenation(t *testing.T) {
	out, err := tinyjs.New().Evaluate(`
		var log = "";
		try {
			log += "try";
			throw "boom";
		} catch (e) {
			log += ",catch:" + e;
		} finally {
			log += ",finally";
		}
		log;
	`, "test.js")
	require.NoError(t, err)
	assert.Equal(t, "try,catch:boom,finally", out)
}

func TestTypeofCoversEachVariant(t *testing.T) {
	cases := map[string]string{
		"typeof 1":         "number",
		"typeof \"s\"":      "string",
		"typeof true":       "boolean",
		"typeof undefined":  "undefined",
		"typeof null":       "object",
		"typeof {}":         "object",
		"typeof function(){}": "function",
	}
	for src, want := range cases {
		out, err := tinyjs.New().Evaluate(src+";", "test.js")
		require.NoError(t, err, src)
		assert.Equal(t, want, out, src)
	}
}

func TestArrayLiteralLengthAndSum(t *testing.T) {
	e := tinyjs.New()
	out, err := e.Evaluate(`
		var a = [1,2,3,4];
		var sum = 0;
		for (var i=0;i<a.length;i++){ sum += a[i]; }
		"" + a.length + ":" + sum;
	`, "test.js")
	require.NoError(t, err)
	assert.Equal(t, "4:10", out)
}

func TestExecuteSyntaxErrorIsReported(t *testing.T) {
	e := tinyjs.New()
	err := e.Execute("var = ;", "test.js")
	require.Error(t, err)
}

func TestGetVariableDottedPath(t *testing.T) {
	e := tinyjs.New()
	require.NoError(t, e.Execute("var outer = { inner: { value: 42 } };", "test.js"))
	v, err := e.GetVariable("outer.inner.value")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int)
}

func TestGetVariableUnknownPathErrors(t *testing.T) {
	e := tinyjs.New()
	_, err := e.GetVariable("nope.nested")
	assert.Error(t, err)
}

func TestRegisterNativeCallableFromScript(t *testing.T) {
	e := tinyjs.New()
	var called bool
	err := e.RegisterNative("function double(x)", func(activation *runtime.Value, userData any) (*runtime.Value, error) {
		called = true
		link, ok := activation.Arguments().FindChild("0")
		if !ok {
			return runtime.Undefined(), nil
		}
		return runtime.Int(link.Value.Int * 2), nil
	}, nil)
	require.NoError(t, err)

	out, err := e.Evaluate("double(21);", "test.js")
	require.NoError(t, err)
	assert.Equal(t, "42", out)
	assert.True(t, called)
}

func TestRegisterNativeOntoPrototype(t *testing.T) {
	e := tinyjs.New()
	err := e.RegisterNative("function Array.prototype.first()", func(activation *runtime.Value, userData any) (*runtime.Value, error) {
		this := activation.This()
		link, ok := this.FindChild("0")
		if !ok {
			return runtime.Undefined(), nil
		}
		return link.Value, nil
	}, nil)
	require.NoError(t, err)

	out, err := e.Evaluate("[9,8,7].first();", "test.js")
	require.NoError(t, err)
	assert.Equal(t, "9", out)
}

func TestRegisterNativeRejectsMalformedSignature(t *testing.T) {
	e := tinyjs.New()
	err := e.RegisterNative("not a signature", func(*runtime.Value, any) (*runtime.Value, error) { return nil, nil }, nil)
	assert.Error(t, err)
}

func TestRegisterNativeRejectsUnknownReceiver(t *testing.T) {
	e := tinyjs.New()
	err := e.RegisterNative("function Ghost.prototype.x()", func(*runtime.Value, any) (*runtime.Value, error) { return nil, nil }, nil)
	assert.Error(t, err)
}

func TestTraceListsDeclaredGlobals(t *testing.T) {
	e := tinyjs.New()
	require.NoError(t, e.Execute("var x = 1;", "test.js"))
	trace := e.Trace()
	assert.True(t, strings.Contains(trace, "x = 1"))
}

func TestErrorKindDistinguishesPartitions(t *testing.T) {
	e := tinyjs.New()
	err := e.Execute("var = ;", "test.js")
	require.Error(t, err)
	assert.NotEqual(t, "error", tinyjs.ErrorKind(err))
}
