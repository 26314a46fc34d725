package builtins

import (
	"github.com/tinyjs-go/tinyjs/internal/interp"
	"github.com/tinyjs-go/tinyjs/internal/runtime"
)

// installFunction plants Function.prototype.call/apply, which reach
// back into the evaluator (through engineMethod, as Array.prototype's
// sort/forEach/map/filter also do) to invoke a script function value
// rather than just inspecting one.
func installFunction(e *interp.Evaluator, functionProto *runtime.Value) {
	engineMethod(e, functionProto, "call", func(e *interp.Evaluator, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		callThis := arg(args, 0)
		var rest []*runtime.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return e.Call(this, callThis, rest)
	})

	engineMethod(e, functionProto, "apply", func(e *interp.Evaluator, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		callThis := arg(args, 0)
		var rest []*runtime.Value
		argArray := arg(args, 1)
		if argArray.IsArray() {
			n := runtime.ArrayLength(argArray)
			rest = make([]*runtime.Value, n)
			for i := int64(0); i < n; i++ {
				rest[i] = arrayGet(argArray, i)
			}
		}
		return e.Call(this, callThis, rest)
	})

	method(functionProto, "toString", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.String(runtime.GetParsableString(this, 0)), nil
	})

	lengthGetter := runtime.NewNative(native("length", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if this.Func != nil && this.Func.Descriptor != nil {
			return runtime.Int(int64(len(this.Func.Descriptor.Params))), nil
		}
		return runtime.Int(0), nil
	}), nil, nil)
	functionProto.SetChild("length", runtime.NewAccessor(lengthGetter, nil), runtime.HiddenAttrs)
}
