package builtins

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tinyjs-go/tinyjs/internal/runtime"
)

// installJSON builds the `JSON` global: parse leans on tidwall/gjson to
// walk the incoming document (gjson has no write side, so stringify
// below is a direct recursive writer instead, grounded on the same
// quoting rules the engine's own GetParsableString already uses).
func installJSON(objectProto, arrayProto *runtime.Value) *runtime.Value {
	j := runtime.NewObject(objectProto)

	j.SetChild("parse", runtime.NewNative(native("JSON.parse", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		text := runtime.ToString(arg(args, 0))
		if !gjson.Valid(text) {
			return nil, errInvalidJSON(text)
		}
		return gjsonToValue(gjson.Parse(text), objectProto, arrayProto), nil
	}), nil, nil), runtime.DefaultAttrs)

	j.SetChild("stringify", runtime.NewNative(native("JSON.stringify", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		var sb strings.Builder
		jsonStringify(&sb, arg(args, 0))
		return runtime.String(sb.String()), nil
	}), nil, nil), runtime.DefaultAttrs)

	return j
}

type jsonError struct{ text string }

func (e *jsonError) Error() string { return "invalid JSON: " + e.text }

func errInvalidJSON(text string) error { return &jsonError{text: text} }

func gjsonToValue(r gjson.Result, objectProto, arrayProto *runtime.Value) *runtime.Value {
	switch r.Type {
	case gjson.Null:
		return runtime.Null()
	case gjson.False:
		return runtime.Bool(false)
	case gjson.True:
		return runtime.Bool(true)
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return runtime.Int(int64(r.Num))
		}
		return runtime.Double(r.Num)
	case gjson.String:
		return runtime.String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			arr := runtime.NewArray(arrayProto)
			i := int64(0)
			r.ForEach(func(_, v gjson.Result) bool {
				arraySet(arr, i, gjsonToValue(v, objectProto, arrayProto))
				i++
				return true
			})
			return arr
		}
		obj := runtime.NewObject(objectProto)
		r.ForEach(func(k, v gjson.Result) bool {
			obj.SetChild(k.Str, gjsonToValue(v, objectProto, arrayProto), runtime.DefaultAttrs)
			return true
		})
		return obj
	default:
		return runtime.Undefined()
	}
}

func jsonStringify(sb *strings.Builder, v *runtime.Value) {
	if v == nil {
		sb.WriteString("null")
		return
	}
	switch {
	case v.IsUndefined() || v.IsFunction():
		sb.WriteString("null")
	case v.IsNull():
		sb.WriteString("null")
	case v.Kind == runtime.KindBoolean:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case v.IsNumber():
		if v.IsNaN() || func() bool { _, ok := v.IsInfinity(); return ok }() {
			sb.WriteString("null")
		} else {
			sb.WriteString(runtime.ToString(v))
		}
	case v.IsString():
		jsonQuote(sb, v.Str)
	case v.IsArray():
		n := runtime.ArrayLength(v)
		sb.WriteByte('[')
		for i := int64(0); i < n; i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			jsonStringify(sb, arrayGet(v, i))
		}
		sb.WriteByte(']')
	case v.IsObject():
		names := v.EnumerableNames()
		sb.WriteByte('{')
		first := true
		for _, name := range names {
			link, _ := v.FindChild(name)
			if link.Value != nil && (link.Value.IsUndefined() || link.Value.IsFunction()) {
				continue
			}
			if !first {
				sb.WriteByte(',')
			}
			first = false
			jsonQuote(sb, name)
			sb.WriteByte(':')
			jsonStringify(sb, link.Value)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("null")
	}
}

func jsonQuote(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
