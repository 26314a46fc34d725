// Package builtins plants the global object, prototypes, and native
// functions an Evaluator needs before any script runs: Object, Array,
// Function, String, Number, Boolean, Math, JSON, and a handful of
// global functions (eval, print). It is deliberately separate from
// internal/interp so the evaluator itself stays usable without any
// particular standard library loaded, mirroring the teacher's split
// between its core engine and its registered-function layer.
package builtins

import (
	"strconv"

	"github.com/google/uuid"
	juju "github.com/juju/errors"

	"github.com/tinyjs-go/tinyjs/internal/interp"
	"github.com/tinyjs-go/tinyjs/internal/runtime"
)

// arg returns args[i], or Undefined if the call was made with fewer
// arguments than the native function expects.
func arg(args []*runtime.Value, i int) *runtime.Value {
	if i < 0 || i >= len(args) {
		return runtime.Undefined()
	}
	return args[i]
}

func activationArgs(activation *runtime.Value) []*runtime.Value {
	argsObj := activation.Arguments()
	if argsObj == nil {
		return nil
	}
	n := runtime.ArrayLength(argsObj)
	out := make([]*runtime.Value, 0, n)
	for i := int64(0); i < n; i++ {
		link, ok := argsObj.FindChild(strconv.FormatInt(i, 10))
		if !ok || link.Value == nil {
			out = append(out, runtime.Undefined())
			continue
		}
		out = append(out, link.Value)
	}
	return out
}

// native wraps a plain Go function into a NativeFunc, adapting its
// signature to NativeFunc's (activation, userData) shape and
// annotating any returned error with juju/errors the way the teacher's
// own registered-function boundary does (spec §7's "wrap native errors
// with their call site").
func native(name string, fn func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error)) runtime.NativeFunc {
	return func(activation *runtime.Value, userData any) (*runtime.Value, error) {
		result, err := fn(activation.This(), activationArgs(activation))
		if err != nil {
			return nil, juju.Annotatef(err, "%s", name)
		}
		if result == nil {
			result = runtime.Undefined()
		}
		return result, nil
	}
}

func method(proto *runtime.Value, name string, fn func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error)) {
	proto.SetChild(name, runtime.NewNative(native(name, fn), nil, nil), runtime.HiddenAttrs|runtime.AttrDeletable)
}

// engineMethod is for natives that must call back into script code
// (Function.prototype.call/apply, Array.prototype.sort's comparator):
// they need the Evaluator's Call, which a plain NativeFunc has no way
// to reach on its own.
func engineMethod(e *interp.Evaluator, proto *runtime.Value, name string, fn func(e *interp.Evaluator, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error)) {
	wrapped := func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return fn(e, this, args)
	}
	method(proto, name, wrapped)
}

// toInt64 coerces v to an integer the way array index/length arguments
// need: NaN and Infinity collapse to 0, matching the engine's existing
// toInt32 treatment of non-finite numbers in ops.go.
func toInt64(v *runtime.Value) int64 {
	n := runtime.ToNumber(v)
	switch {
	case n.IsInt():
		return n.Int
	case n.IsDouble():
		return int64(n.Float)
	default:
		return 0
	}
}

// engineInstanceID draws the id system.__engineInstanceID() reports: a
// random UUID generated once when an engine's globals are installed,
// so one engine always reports the same id and separate engines
// differ. It is a debugging aid; Trace does not include it.
func engineInstanceID() string { return uuid.NewString() }
