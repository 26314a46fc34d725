package builtins

import (
	"github.com/tinyjs-go/tinyjs/internal/interp"
	"github.com/tinyjs-go/tinyjs/internal/runtime"
)

// Install plants every prototype and global native the engine needs
// before a script runs: Object/Array/Function/String/Number/Boolean
// prototypes (stashed on e.Protos so the evaluator can reach them when
// building literals and when looking up a property of a string, number
// or boolean primitive), Math and JSON, and the free global functions
// (print, eval, parseInt/parseFloat, isNaN/isFinite).
func Install(e *interp.Evaluator) {
	objectProto := runtime.NewObject(nil)
	functionProto := runtime.NewObject(objectProto)
	arrayProto := runtime.NewObject(objectProto)
	stringProto := runtime.NewObject(objectProto)
	numberProto := runtime.NewObject(objectProto)
	booleanProto := runtime.NewObject(objectProto)

	e.Protos.Object = objectProto
	e.Protos.Function = functionProto
	e.Protos.Array = arrayProto
	e.Protos.String = stringProto
	e.Protos.Number = numberProto
	e.Protos.Boolean = booleanProto

	installObject(objectProto)
	installFunction(e, functionProto)
	installArray(e, arrayProto)
	installString(stringProto)
	installNumber(numberProto)
	installBoolean(booleanProto)

	root := e.Root
	plantConstructor(root, "Object", newObjectGlobal(objectProto), functionProto, objectProto)
	plantConstructor(root, "Array", newArrayGlobal(arrayProto), functionProto, arrayProto)
	plantConstructor(root, "String", newStringGlobal(), functionProto, stringProto)
	plantConstructor(root, "Number", newNumberGlobal(), functionProto, numberProto)
	plantConstructor(root, "Boolean", newBooleanGlobal(), functionProto, booleanProto)

	root.SetChild("Math", installMath(objectProto), runtime.DefaultAttrs)
	root.SetChild("JSON", installJSON(objectProto, arrayProto), runtime.DefaultAttrs)

	installGlobals(e, root)
}

// plantConstructor installs a global constructor function under name,
// wired to protoFunction (so it is itself callable/inspectable like
// any function value) and carrying its own `prototype` link so `new
// name()` and `instanceof` both resolve.
func plantConstructor(root *runtime.Value, name string, fn runtime.NativeFunc, protoFunction, ownProto *runtime.Value) {
	link := root.SetChild(name, runtime.NewNative(fn, nil, protoFunction), runtime.DefaultAttrs)
	link.Value.SetChild("prototype", ownProto, runtime.HiddenAttrs)
}

func installBoolean(proto *runtime.Value) {
	method(proto, "toString", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.String(runtime.ToString(this)), nil
	})
	method(proto, "valueOf", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return this, nil
	})
}

func newArrayGlobal(arrayProto *runtime.Value) runtime.NativeFunc {
	return native("Array", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		out := runtime.NewArray(arrayProto)
		if len(args) == 1 && args[0].IsNumber() {
			return out, nil
		}
		for i, a := range args {
			arraySet(out, int64(i), a)
		}
		return out, nil
	})
}
