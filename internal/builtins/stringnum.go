package builtins

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tinyjs-go/tinyjs/internal/runtime"
)

// installString plants String.prototype, reaching for golang.org/x/text's
// cases package for toUpperCase/toLowerCase rather than strings.ToUpper
// since it folds correctly on more than ASCII.
func installString(stringProto *runtime.Value) {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	lengthGetter := runtime.NewNative(native("length", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.Int(int64(len([]rune(runtime.ToString(this))))), nil
	}), nil, nil)
	stringProto.SetChild("length", runtime.NewAccessor(lengthGetter, nil), runtime.HiddenAttrs)

	method(stringProto, "charAt", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		r := []rune(runtime.ToString(this))
		i := toInt64(arg(args, 0))
		if i < 0 || i >= int64(len(r)) {
			return runtime.String(""), nil
		}
		return runtime.String(string(r[i])), nil
	})

	method(stringProto, "charCodeAt", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		r := []rune(runtime.ToString(this))
		i := toInt64(arg(args, 0))
		if i < 0 || i >= int64(len(r)) {
			return runtime.NaNValue(), nil
		}
		return runtime.Int(int64(r[i])), nil
	})

	method(stringProto, "indexOf", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s := runtime.ToString(this)
		needle := runtime.ToString(arg(args, 0))
		start := 0
		if len(args) > 1 {
			start = int(toInt64(args[1]))
		}
		if start < 0 {
			start = 0
		}
		if start > len(s) {
			return runtime.Int(-1), nil
		}
		idx := strings.Index(s[start:], needle)
		if idx < 0 {
			return runtime.Int(-1), nil
		}
		return runtime.Int(int64(idx + start)), nil
	})

	method(stringProto, "lastIndexOf", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s := runtime.ToString(this)
		needle := runtime.ToString(arg(args, 0))
		return runtime.Int(int64(strings.LastIndex(s, needle))), nil
	})

	method(stringProto, "substring", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		r := []rune(runtime.ToString(this))
		n := int64(len(r))
		start := clampIndex(toInt64(arg(args, 0)), n)
		end := n
		if len(args) > 1 && !args[1].IsUndefined() {
			end = clampIndex(toInt64(args[1]), n)
		}
		if start > end {
			start, end = end, start
		}
		return runtime.String(string(r[start:end])), nil
	})

	method(stringProto, "slice", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		r := []rune(runtime.ToString(this))
		n := int64(len(r))
		start := sliceIndex(arg(args, 0), n, 0)
		end := sliceIndex(arg(args, 1), n, n)
		if start > end {
			return runtime.String(""), nil
		}
		return runtime.String(string(r[start:end])), nil
	})

	method(stringProto, "split", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s := runtime.ToString(this)
		out := runtime.NewArray(nil)
		sep := arg(args, 0)
		var parts []string
		if sep.IsUndefined() {
			parts = []string{s}
		} else {
			parts = strings.Split(s, runtime.ToString(sep))
		}
		for i, p := range parts {
			arraySet(out, int64(i), runtime.String(p))
		}
		return out, nil
	})

	method(stringProto, "toUpperCase", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.String(upper.String(runtime.ToString(this))), nil
	})

	method(stringProto, "toLowerCase", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.String(lower.String(runtime.ToString(this))), nil
	})

	method(stringProto, "trim", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.String(strings.TrimSpace(runtime.ToString(this))), nil
	})

	method(stringProto, "replace", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s := runtime.ToString(this)
		from := runtime.ToString(arg(args, 0))
		to := runtime.ToString(arg(args, 1))
		return runtime.String(strings.Replace(s, from, to, 1)), nil
	})

	method(stringProto, "concat", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		var sb strings.Builder
		sb.WriteString(runtime.ToString(this))
		for _, a := range args {
			sb.WriteString(runtime.ToString(a))
		}
		return runtime.String(sb.String()), nil
	})

	method(stringProto, "toString", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.String(runtime.ToString(this)), nil
	})
}

func clampIndex(i, n int64) int64 {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// newStringGlobal implements `String(x)`: called as a plain function it
// coerces x to a string rather than boxing it (no primitive wrappers
// in this engine, per spec §3).
func newStringGlobal() runtime.NativeFunc {
	return native("String", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.String(""), nil
		}
		return runtime.String(runtime.ToString(args[0])), nil
	})
}

// installNumber plants Number.prototype.toString/toFixed. The Number(x)
// global coercion function is newNumberGlobal, planted by Install.
func installNumber(numberProto *runtime.Value) {
	method(numberProto, "toString", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) > 0 {
			base := int(toInt64(args[0]))
			if base >= 2 && base <= 36 {
				n := runtime.ToNumber(this)
				return runtime.String(strconv.FormatInt(n.Int, base)), nil
			}
		}
		return runtime.String(runtime.ToString(this)), nil
	})

	method(numberProto, "toFixed", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		digits := 0
		if len(args) > 0 {
			digits = int(toInt64(args[0]))
		}
		f := numAsFloat(this)
		return runtime.String(strconv.FormatFloat(f, 'f', digits, 64)), nil
	})
}

func numAsFloat(v *runtime.Value) float64 {
	n := runtime.ToNumber(v)
	if n.IsInt() {
		return float64(n.Int)
	}
	if n.IsDouble() {
		return n.Float
	}
	return 0
}

func newNumberGlobal() runtime.NativeFunc {
	return native("Number", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Int(0), nil
		}
		return runtime.ToNumber(args[0]), nil
	})
}

func newBooleanGlobal() runtime.NativeFunc {
	return native("Boolean", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Bool(false), nil
		}
		return runtime.Bool(runtime.ToBool(args[0])), nil
	})
}
