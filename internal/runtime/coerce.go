package runtime

import (
	"strconv"
	"strings"

	"github.com/tinyjs-go/tinyjs/internal/token"
)

// ToNumber implements spec §4.3's toNumber coercion: Null becomes
// Integer 0, Boolean becomes Integer 0/1, String is parsed C-style
// (hex prefix, then falling back to a double parse, else NaN), and any
// other non-numeric variant becomes NaN.
func ToNumber(v *Value) *Value {
	switch v.Kind {
	case KindInteger, KindDouble, KindNaN, KindInfinity:
		return v
	case KindNull:
		return Int(0)
	case KindBoolean:
		if v.Bool {
			return Int(1)
		}
		return Int(0)
	case KindString:
		return parseNumericString(v.Str)
	default:
		return NaNValue()
	}
}

func parseNumericString(s string) *Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Int(0)
	}
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		if i, err := strconv.ParseInt(trimmed[2:], 16, 64); err == nil {
			return Int(i)
		}
		return NaNValue()
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Double(f)
	}
	return NaNValue()
}

// ToString implements spec §4.3's toString coercion.
func ToString(v *Value) string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindNaN:
		return "NaN"
	case KindInfinity:
		if v.InfSign < 0 {
			return "-Infinity"
		}
		return "Infinity"
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindDouble:
		return formatDouble(v.Float)
	case KindString:
		return v.Str
	case KindObject:
		return "[ Object ]"
	case KindArray:
		return arrayToString(v)
	case KindFunction, KindNativeFunction:
		return "[ Function ]"
	case KindAccessor:
		return "[ Accessor ]"
	default:
		return ""
	}
}

func arrayToString(v *Value) string {
	n := ArrayLength(v)
	parts := make([]string, 0, n)
	for i := int64(0); i < n; i++ {
		el, ok := v.FindChild(strconv.FormatInt(i, 10))
		if !ok || el.Value == nil {
			parts = append(parts, "")
			continue
		}
		if el.Value.IsUndefined() || el.Value.IsNull() {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, ToString(el.Value))
	}
	return strings.Join(parts, ",")
}

// ArrayLength reports the highest numeric index plus one among v's own
// properties, matching the length accessor's contract in spec §3.
func ArrayLength(v *Value) int64 {
	var max int64 = -1
	for _, name := range v.OwnNames() {
		if i, err := strconv.ParseInt(name, 10, 64); err == nil && i > max {
			max = i
		}
	}
	return max + 1
}

// formatDouble reproduces the trailing-zero %f-style formatting the
// engine's original sprintf-based toString used, rather than Go's
// shortest-round-trip strconv default: always six decimal digits,
// trailing zeros kept.
func formatDouble(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// ToBool implements spec §4.3's toBool coercion.
func ToBool(v *Value) bool {
	switch v.Kind {
	case KindUndefined, KindNull, KindNaN:
		return false
	case KindBoolean:
		return v.Bool
	case KindInteger:
		return v.Int != 0
	case KindDouble:
		return v.Float != 0
	case KindInfinity:
		return true
	case KindString:
		return v.Str != ""
	default:
		return true
	}
}

// GetParsableString re-emits v as source eval could round-trip (spec
// §4.3). indent is the nesting depth, passed one deeper to nested
// values; it does not change the output, which is always one line with
// object/array entries joined by ", ".
func GetParsableString(v *Value, indent int) string {
	switch v.Kind {
	case KindString:
		return quoteJSString(v.Str)
	case KindObject:
		return objectParsableString(v, indent)
	case KindArray:
		return arrayParsableString(v, indent)
	case KindFunction:
		name := ""
		var params []string
		var body string
		if v.Func != nil && v.Func.Descriptor != nil {
			name = v.Func.Descriptor.Name
			params = v.Func.Descriptor.Params
			body = renderTokens(v.Func.BodyTokens)
		}
		return "function " + name + "(" + strings.Join(params, ",") + "){ " + body + " }"
	default:
		return ToString(v)
	}
}

func objectParsableString(v *Value, indent int) string {
	names := v.EnumerableNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		l, _ := v.FindChild(name)
		parts = append(parts, name+": "+GetParsableString(l.Value, indent+1))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func arrayParsableString(v *Value, indent int) string {
	n := ArrayLength(v)
	parts := make([]string, 0, n)
	for i := int64(0); i < n; i++ {
		el, ok := v.FindChild(strconv.FormatInt(i, 10))
		if !ok {
			parts = append(parts, "undefined")
			continue
		}
		parts = append(parts, GetParsableString(el.Value, indent+1))
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}

func quoteJSString(s string) string {
	var sb strings.Builder
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
	return sb.String()
}

// renderTokens detokenizes a function body back into source text, for
// GetParsableString's function case. Every token spelling is already
// known (keywords and punctuation via Kind.String(), the classified
// for-in kinds as plain `for`, literals via their payload field), and
// separating every pair with a single space
// is always lexically valid, so no token-pair-specific spacing rules
// are needed.
func renderTokens(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		parts = append(parts, tokenText(t))
	}
	return strings.Join(parts, " ")
}

func tokenText(t token.Token) string {
	switch t.Kind {
	case token.IDENT:
		return t.StrVal
	case token.STRING:
		return quoteJSString(t.StrVal)
	case token.INT:
		return strconv.FormatInt(t.IntVal, 10)
	case token.FLOAT:
		return formatDouble(t.FloatVal)
	case token.FOR_IN, token.FOR_EACH_IN:
		return "for"
	default:
		return t.Kind.String()
	}
}
