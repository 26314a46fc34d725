package builtins

import (
	"strconv"
	"strings"

	"github.com/tinyjs-go/tinyjs/internal/interp"
	"github.com/tinyjs-go/tinyjs/internal/runtime"
)

// installGlobals plants the free functions every script can call
// without qualification: print, eval, the parse/isNaN/isFinite family,
// and system.__engineInstanceID, a per-engine debugging id built on
// google/uuid.
func installGlobals(e *interp.Evaluator, root *runtime.Value) {
	root.SetChild("print", runtime.NewNative(native("print", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = runtime.ToString(a)
		}
		e.Stdout(strings.Join(parts, " "))
		return runtime.Undefined(), nil
	}), nil, nil), runtime.DefaultAttrs)

	root.SetChild("eval", runtime.NewNative(func(activation *runtime.Value, userData any) (*runtime.Value, error) {
		args := activationArgs(activation)
		src := arg(args, 0)
		if !src.IsString() {
			return src, nil
		}
		return e.EvalString(src.Str)
	}, nil, nil), runtime.DefaultAttrs)

	root.SetChild("parseInt", runtime.NewNative(native("parseInt", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s := strings.TrimSpace(runtime.ToString(arg(args, 0)))
		base := 10
		if len(args) > 1 && !args[1].IsUndefined() {
			base = int(toInt64(args[1]))
		}
		neg := false
		if strings.HasPrefix(s, "-") {
			neg, s = true, s[1:]
		} else if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		if (base == 16 || base == 0) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
			s, base = s[2:], 16
		}
		if base == 0 {
			base = 10
		}
		end := 0
		for end < len(s) && isBaseDigit(s[end], base) {
			end++
		}
		if end == 0 {
			return runtime.NaNValue(), nil
		}
		n, err := strconv.ParseInt(s[:end], base, 64)
		if err != nil {
			return runtime.NaNValue(), nil
		}
		if neg {
			n = -n
		}
		return runtime.Int(n), nil
	}), nil, nil), runtime.DefaultAttrs)

	root.SetChild("parseFloat", runtime.NewNative(native("parseFloat", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s := strings.TrimSpace(runtime.ToString(arg(args, 0)))
		end := 0
		seenDot := false
		if end < len(s) && (s[end] == '-' || s[end] == '+') {
			end++
		}
		for end < len(s) && (isBaseDigit(s[end], 10) || (s[end] == '.' && !seenDot)) {
			if s[end] == '.' {
				seenDot = true
			}
			end++
		}
		if end == 0 {
			return runtime.NaNValue(), nil
		}
		f, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return runtime.NaNValue(), nil
		}
		return runtime.Double(f), nil
	}), nil, nil), runtime.DefaultAttrs)

	root.SetChild("isNaN", runtime.NewNative(native("isNaN", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.Bool(runtime.ToNumber(arg(args, 0)).IsNaN()), nil
	}), nil, nil), runtime.DefaultAttrs)

	root.SetChild("isFinite", runtime.NewNative(native("isFinite", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := runtime.ToNumber(arg(args, 0))
		if n.IsNaN() {
			return runtime.Bool(false), nil
		}
		_, isInf := n.IsInfinity()
		return runtime.Bool(!isInf), nil
	}), nil, nil), runtime.DefaultAttrs)

	system := runtime.NewObject(nil)
	instanceID := engineInstanceID()
	system.SetChild("__engineInstanceID", runtime.NewNative(native("__engineInstanceID", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.String(instanceID), nil
	}), nil, nil), runtime.DefaultAttrs)
	root.SetChild("system", system, runtime.DefaultAttrs)
}

func isBaseDigit(c byte, base int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < base
}
