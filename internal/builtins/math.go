package builtins

import (
	"math"
	"math/rand"

	"github.com/tinyjs-go/tinyjs/internal/runtime"
)

// installMath builds the `Math` global object, mirroring the teacher's
// own math builtins (builtins_math_basic.go/builtins_math_trig.go)
// one function at a time rather than as a single dispatch table.
func installMath(proto *runtime.Value) *runtime.Value {
	m := runtime.NewObject(proto)

	unary := func(name string, fn func(float64) float64) {
		m.SetChild(name, runtime.NewNative(native(name, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
			return runtime.Double(fn(numAsFloat(arg(args, 0)))), nil
		}), nil, nil), runtime.DefaultAttrs)
	}

	unary("abs", math.Abs)
	unary("sqrt", math.Sqrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("log", math.Log)
	unary("exp", math.Exp)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)

	m.SetChild("pow", runtime.NewNative(native("pow", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.Double(math.Pow(numAsFloat(arg(args, 0)), numAsFloat(arg(args, 1)))), nil
	}), nil, nil), runtime.DefaultAttrs)

	m.SetChild("atan2", runtime.NewNative(native("atan2", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.Double(math.Atan2(numAsFloat(arg(args, 0)), numAsFloat(arg(args, 1)))), nil
	}), nil, nil), runtime.DefaultAttrs)

	m.SetChild("min", runtime.NewNative(native("min", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Infinity(1), nil
		}
		best := numAsFloat(args[0])
		for _, a := range args[1:] {
			if f := numAsFloat(a); f < best {
				best = f
			}
		}
		return runtime.Double(best), nil
	}), nil, nil), runtime.DefaultAttrs)

	m.SetChild("max", runtime.NewNative(native("max", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Infinity(-1), nil
		}
		best := numAsFloat(args[0])
		for _, a := range args[1:] {
			if f := numAsFloat(a); f > best {
				best = f
			}
		}
		return runtime.Double(best), nil
	}), nil, nil), runtime.DefaultAttrs)

	m.SetChild("random", runtime.NewNative(native("random", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.Double(rand.Float64()), nil
	}), nil, nil), runtime.DefaultAttrs)

	m.SetChild("PI", runtime.Double(math.Pi), runtime.DefaultAttrs)
	m.SetChild("E", runtime.Double(math.E), runtime.DefaultAttrs)
	m.SetChild("LN2", runtime.Double(math.Ln2), runtime.DefaultAttrs)
	m.SetChild("LN10", runtime.Double(math.Log(10)), runtime.DefaultAttrs)
	m.SetChild("SQRT2", runtime.Double(math.Sqrt2), runtime.DefaultAttrs)

	return m
}
