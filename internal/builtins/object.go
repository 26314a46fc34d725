package builtins

import "github.com/tinyjs-go/tinyjs/internal/runtime"

// installObject plants Object.prototype with the handful of methods
// every object (and, through the chain, every array) inherits.
func installObject(objectProto *runtime.Value) {
	method(objectProto, "hasOwnProperty", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		name := runtime.ToString(arg(args, 0))
		link, ok := this.FindChild(name)
		return runtime.Bool(ok && link.Owned()), nil
	})

	method(objectProto, "isPrototypeOf", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		target := arg(args, 0)
		for cur := target.Proto; cur != nil; cur = cur.Proto {
			if cur == this {
				return runtime.Bool(true), nil
			}
		}
		return runtime.Bool(false), nil
	})

	method(objectProto, "toString", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.String(runtime.ToString(this)), nil
	})

	method(objectProto, "valueOf", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return this, nil
	})
}

// newObjectGlobal implements the `Object` global: called with no/null
// argument it builds an empty object, otherwise it returns its single
// argument unchanged (the engine has no boxed-primitive wrappers, so
// Object(x) on a primitive is a no-op rather than a box).
func newObjectGlobal(objectProto *runtime.Value) runtime.NativeFunc {
	return native("Object", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 || args[0].IsUndefined() || args[0].IsNull() {
			return runtime.NewObject(objectProto), nil
		}
		return args[0], nil
	})
}
