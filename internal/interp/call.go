package interp

import (
	"strconv"

	"github.com/tinyjs-go/tinyjs/internal/errors"
	"github.com/tinyjs-go/tinyjs/internal/runtime"
)

// callValue implements the function-call protocol from spec §4.5: a
// fresh activation scope is built over the callee's captured closure
// (script functions) or with no enclosing scope (native functions),
// `this`/`arguments`/named parameters are bound, and the body runs
// either as a native Go callback or by walking the callee's token
// range through execBlock.
func (e *Evaluator) callValue(callee *runtime.Value, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if callee == nil || !callee.IsFunction() {
		return nil, errors.NewRuntimeError(e.curPos(), runtime.ToString(callee)+" is not a function", nil)
	}

	e.callDepth++
	if e.callDepth > e.StackLimit {
		e.callDepth--
		return nil, e.engineError("stack overflow: call depth exceeded")
	}
	defer func() { e.callDepth-- }()

	argsObj := runtime.NewArray(e.Protos.Array)
	for i, a := range args {
		argsObj.SetChild(strconv.Itoa(i), a, runtime.DefaultAttrs)
	}

	if callee.IsNative() {
		activation := runtime.NewFunctionScope(nil, this, argsObj)
		result, err := callee.Native(activation, callee.UserData)
		if err != nil {
			return nil, errors.WrapNative(e.curPos(), "native", err)
		}
		if result == nil {
			result = runtime.Undefined()
		}
		return result, nil
	}

	desc := callee.Func.Descriptor
	closure := callee.Func.Closure
	activation := runtime.NewFunctionScope(closure, this, argsObj)
	for i, pname := range desc.Params {
		var v *runtime.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = runtime.Undefined()
		}
		// A direct overwrite, not DeclareVar: parameters bind exactly
		// once at call entry and must win even when named "arguments"
		// (spec §4.4/§6). The hoisted body's own var declarations go
		// through DeclareVar's first-writer-wins rule and leave a
		// parameter alone; a hoisted function declaration goes through
		// DeclareFunction, which rebinds the name.
		activation.SetChild(pname, v, runtime.DefaultAttrs)
	}

	prevScope := e.pushScope(activation)
	prevPos := e.pos
	sig, val, err := e.execBlock(desc.BodyLo, desc.BodyHi)
	e.popScope(prevScope)
	e.pos = prevPos

	if err != nil {
		return nil, err
	}
	if sig == SigThrow {
		return nil, errors.NewRuntimeError(e.curPos(), runtime.ToString(val), val)
	}
	if sig == SigReturn {
		if val == nil {
			val = runtime.Undefined()
		}
		return val, nil
	}
	return runtime.Undefined(), nil
}

// Call invokes fn as internal/builtins' native methods do when they
// need to call back into script code (Function.prototype.call/apply,
// Array.prototype.sort's comparator): it is the one piece of the
// call protocol builtins cannot reach on its own, since NativeFunc
// carries no reference to the Evaluator that invoked it.
func (e *Evaluator) Call(fn *runtime.Value, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return e.callValue(fn, this, args)
}

// construct implements `new Ctor(args)` (spec §4.5): a fresh Object is
// built with its `__proto__` set to Ctor's own `prototype` link (or
// the engine's Object prototype if Ctor has none); if the constructor
// body itself returns an Object or Array, that value wins, otherwise
// the freshly built object is the result.
func (e *Evaluator) construct(ctor *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if ctor == nil || !ctor.IsFunction() {
		return nil, errors.NewRuntimeError(e.curPos(), runtime.ToString(ctor)+" is not a constructor", nil)
	}
	proto := e.Protos.Object
	if protoLink, ok := ctor.FindChild("prototype"); ok && protoLink.Value != nil {
		proto = protoLink.Value
	}
	fresh := runtime.NewObject(proto)
	result, err := e.callValue(ctor, fresh, args)
	if err != nil {
		return nil, err
	}
	if result != nil && (result.IsObject() || result.IsArray()) {
		return result, nil
	}
	return fresh, nil
}
