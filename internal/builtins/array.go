package builtins

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tinyjs-go/tinyjs/internal/interp"
	"github.com/tinyjs-go/tinyjs/internal/runtime"
	"github.com/tinyjs-go/tinyjs/internal/token"
)

const strictEqOp = token.SEQ

func arrayGet(a *runtime.Value, i int64) *runtime.Value {
	link, ok := a.FindChild(strconv.FormatInt(i, 10))
	if !ok || link.Value == nil {
		return runtime.Undefined()
	}
	return link.Value
}

func arraySet(a *runtime.Value, i int64, v *runtime.Value) {
	a.SetChild(strconv.FormatInt(i, 10), v, runtime.DefaultAttrs)
}

// installArray plants Array.prototype's mutator/accessor methods,
// generalizing Array.prototype.length (spec §3) into a get/set
// accessor pair rather than a plain field, since the runtime value
// model has no dedicated length slot.
func installArray(e *interp.Evaluator, arrayProto *runtime.Value) {
	lengthGetter := runtime.NewNative(native("length", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.Int(runtime.ArrayLength(this)), nil
	}), nil, nil)
	lengthSetter := runtime.NewNative(native("length", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := toInt64(arg(args, 0))
		old := runtime.ArrayLength(this)
		for i := n; i < old; i++ {
			this.DeleteChild(strconv.FormatInt(i, 10))
		}
		return runtime.Undefined(), nil
	}), nil, nil)
	arrayProto.SetChild("length", runtime.NewAccessor(lengthGetter, lengthSetter), runtime.HiddenAttrs)

	method(arrayProto, "push", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := runtime.ArrayLength(this)
		for i, a := range args {
			arraySet(this, n+int64(i), a)
		}
		return runtime.Int(runtime.ArrayLength(this)), nil
	})

	method(arrayProto, "pop", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := runtime.ArrayLength(this)
		if n == 0 {
			return runtime.Undefined(), nil
		}
		last := arrayGet(this, n-1)
		this.DeleteChild(strconv.FormatInt(n-1, 10))
		return last, nil
	})

	method(arrayProto, "shift", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := runtime.ArrayLength(this)
		if n == 0 {
			return runtime.Undefined(), nil
		}
		first := arrayGet(this, 0)
		for i := int64(1); i < n; i++ {
			arraySet(this, i-1, arrayGet(this, i))
		}
		this.DeleteChild(strconv.FormatInt(n-1, 10))
		return first, nil
	})

	method(arrayProto, "unshift", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := runtime.ArrayLength(this)
		shift := int64(len(args))
		for i := n - 1; i >= 0; i-- {
			arraySet(this, i+shift, arrayGet(this, i))
		}
		for i, a := range args {
			arraySet(this, int64(i), a)
		}
		return runtime.Int(runtime.ArrayLength(this)), nil
	})

	method(arrayProto, "slice", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := runtime.ArrayLength(this)
		start := sliceIndex(arg(args, 0), n, 0)
		end := sliceIndex(arg(args, 1), n, n)
		out := runtime.NewArray(arrayProto)
		j := int64(0)
		for i := start; i < end; i++ {
			arraySet(out, j, arrayGet(this, i))
			j++
		}
		return out, nil
	})

	method(arrayProto, "splice", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := runtime.ArrayLength(this)
		start := sliceIndex(arg(args, 0), n, 0)
		count := n - start
		if len(args) > 1 {
			c := toInt64(args[1])
			if c < 0 {
				c = 0
			}
			if c < count {
				count = c
			}
		}
		removed := runtime.NewArray(arrayProto)
		for i := int64(0); i < count; i++ {
			arraySet(removed, i, arrayGet(this, start+i))
		}
		var inserted []*runtime.Value
		if len(args) > 2 {
			inserted = args[2:]
		}
		tail := make([]*runtime.Value, 0, n-start-count)
		for i := start + count; i < n; i++ {
			tail = append(tail, arrayGet(this, i))
		}
		idx := start
		for _, v := range inserted {
			arraySet(this, idx, v)
			idx++
		}
		for _, v := range tail {
			arraySet(this, idx, v)
			idx++
		}
		for i := idx; i < n; i++ {
			this.DeleteChild(strconv.FormatInt(i, 10))
		}
		return removed, nil
	})

	method(arrayProto, "join", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		sep := ","
		if len(args) > 0 && !args[0].IsUndefined() {
			sep = runtime.ToString(args[0])
		}
		n := runtime.ArrayLength(this)
		parts := make([]string, 0, n)
		for i := int64(0); i < n; i++ {
			v := arrayGet(this, i)
			if v.IsUndefined() || v.IsNull() {
				parts = append(parts, "")
				continue
			}
			parts = append(parts, runtime.ToString(v))
		}
		return runtime.String(strings.Join(parts, sep)), nil
	})

	method(arrayProto, "indexOf", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		target := arg(args, 0)
		n := runtime.ArrayLength(this)
		for i := int64(0); i < n; i++ {
			if runtime.ToBool(runtime.MathsOp(arrayGet(this, i), target, strictEqOp)) {
				return runtime.Int(i), nil
			}
		}
		return runtime.Int(-1), nil
	})

	method(arrayProto, "reverse", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := runtime.ArrayLength(this)
		for i, j := int64(0), n-1; i < j; i, j = i+1, j-1 {
			vi, vj := arrayGet(this, i), arrayGet(this, j)
			arraySet(this, i, vj)
			arraySet(this, j, vi)
		}
		return this, nil
	})

	method(arrayProto, "concat", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		out := runtime.NewArray(arrayProto)
		idx := int64(0)
		appendAll := func(v *runtime.Value) {
			if v.IsArray() {
				n := runtime.ArrayLength(v)
				for i := int64(0); i < n; i++ {
					arraySet(out, idx, arrayGet(v, i))
					idx++
				}
				return
			}
			arraySet(out, idx, v)
			idx++
		}
		appendAll(this)
		for _, a := range args {
			appendAll(a)
		}
		return out, nil
	})

	method(arrayProto, "toString", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.String(runtime.ToString(this)), nil
	})

	engineMethod(e, arrayProto, "sort", func(e *interp.Evaluator, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n := int(runtime.ArrayLength(this))
		elems := make([]*runtime.Value, n)
		for i := 0; i < n; i++ {
			elems[i] = arrayGet(this, int64(i))
		}
		var sortErr error
		cmp := arg(args, 0)
		less := func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if cmp != nil && cmp.IsFunction() {
				result, err := e.Call(cmp, runtime.Undefined(), []*runtime.Value{elems[i], elems[j]})
				if err != nil {
					sortErr = err
					return false
				}
				return runtime.ToNumber(result).Int < 0
			}
			return runtime.ToString(elems[i]) < runtime.ToString(elems[j])
		}
		sort.SliceStable(elems, less)
		if sortErr != nil {
			return nil, sortErr
		}
		for i, v := range elems {
			arraySet(this, int64(i), v)
		}
		return this, nil
	})

	engineMethod(e, arrayProto, "forEach", func(e *interp.Evaluator, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		fn := arg(args, 0)
		n := runtime.ArrayLength(this)
		for i := int64(0); i < n; i++ {
			if _, err := e.Call(fn, runtime.Undefined(), []*runtime.Value{arrayGet(this, i), runtime.Int(i), this}); err != nil {
				return nil, err
			}
		}
		return runtime.Undefined(), nil
	})

	engineMethod(e, arrayProto, "map", func(e *interp.Evaluator, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		fn := arg(args, 0)
		n := runtime.ArrayLength(this)
		out := runtime.NewArray(arrayProto)
		for i := int64(0); i < n; i++ {
			result, err := e.Call(fn, runtime.Undefined(), []*runtime.Value{arrayGet(this, i), runtime.Int(i), this})
			if err != nil {
				return nil, err
			}
			arraySet(out, i, result)
		}
		return out, nil
	})

	engineMethod(e, arrayProto, "filter", func(e *interp.Evaluator, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		fn := arg(args, 0)
		n := runtime.ArrayLength(this)
		out := runtime.NewArray(arrayProto)
		j := int64(0)
		for i := int64(0); i < n; i++ {
			v := arrayGet(this, i)
			result, err := e.Call(fn, runtime.Undefined(), []*runtime.Value{v, runtime.Int(i), this})
			if err != nil {
				return nil, err
			}
			if runtime.ToBool(result) {
				arraySet(out, j, v)
				j++
			}
		}
		return out, nil
	})
}

func sliceIndex(v *runtime.Value, n, def int64) int64 {
	if v == nil || v.IsUndefined() {
		return def
	}
	i := toInt64(v)
	if i < 0 {
		i += n
	}
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}
