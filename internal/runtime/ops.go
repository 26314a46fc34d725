package runtime

import (
	"math"

	"github.com/tinyjs-go/tinyjs/internal/token"
)

// MathsOp implements the binary-operator contract from spec §4.3,
// described there as "the heart of the evaluator": it dispatches on
// the variants of a and b and the requested operator kind, applying
// string/number coercion, Infinity propagation, and 32-bit bitwise
// semantics as each case requires.
func MathsOp(a, b *Value, op token.Kind) *Value {
	switch op {
	case token.SEQ:
		return Bool(a.Kind == b.Kind && ToBool(Equals(a, b)))
	case token.SNEQ:
		return Bool(!(a.Kind == b.Kind && ToBool(Equals(a, b))))
	case token.EQ:
		return Equals(a, b)
	case token.NEQ:
		return Bool(!ToBool(Equals(a, b)))
	}

	if a.Kind == KindString && b.Kind == KindString {
		return stringOp(a.Str, b.Str, op)
	}
	if op == token.PLUS && (a.Kind == KindString || b.Kind == KindString) {
		return String(ToString(a) + ToString(b))
	}

	if a.Kind == KindUndefined || b.Kind == KindUndefined {
		switch op {
		case token.LT, token.GT, token.LE, token.GE:
			return Bool(false)
		default:
			return NaNValue()
		}
	}

	if (a.Kind == KindObject || a.Kind == KindArray || b.Kind == KindObject || b.Kind == KindArray) &&
		op != token.LT && op != token.GT && op != token.LE && op != token.GE {
		return NaNValue()
	}
	if a.Kind == KindObject || a.Kind == KindArray || b.Kind == KindObject || b.Kind == KindArray {
		return NaNValue()
	}

	switch op {
	case token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR, token.USHR:
		return bitwiseOp(a, b, op)
	}

	na, nb := ToNumber(a), ToNumber(b)
	if na.Kind == KindInfinity || nb.Kind == KindInfinity {
		return infinityOp(na, nb, op)
	}
	if na.Kind == KindNaN || nb.Kind == KindNaN {
		switch op {
		case token.LT, token.GT, token.LE, token.GE:
			return Bool(false)
		default:
			return NaNValue()
		}
	}
	if na.Kind == KindInteger && nb.Kind == KindInteger {
		return integerOp(na.Int, nb.Int, op)
	}
	return doubleOp(asFloat(na), asFloat(nb), op)
}

func asFloat(v *Value) float64 {
	if v.Kind == KindInteger {
		return float64(v.Int)
	}
	return v.Float
}

func stringOp(a, b string, op token.Kind) *Value {
	switch op {
	case token.PLUS:
		return String(a + b)
	case token.LT:
		return Bool(a < b)
	case token.GT:
		return Bool(a > b)
	case token.LE:
		return Bool(a <= b)
	case token.GE:
		return Bool(a >= b)
	default:
		na, nb := ToNumber(String(a)), ToNumber(String(b))
		if na.Kind == KindInteger && nb.Kind == KindInteger {
			return integerOp(na.Int, nb.Int, op)
		}
		return doubleOp(asFloat(na), asFloat(nb), op)
	}
}

func integerOp(a, b int64, op token.Kind) *Value {
	switch op {
	case token.PLUS:
		return Int(a + b)
	case token.MINUS:
		return Int(a - b)
	case token.STAR:
		return Int(a * b)
	case token.SLASH:
		if b == 0 {
			if a == 0 {
				return NaNValue()
			}
			if a > 0 {
				return Infinity(1)
			}
			return Infinity(-1)
		}
		if a%b == 0 {
			return Int(a / b)
		}
		return Double(float64(a) / float64(b))
	case token.PERCENT:
		if b == 0 {
			return NaNValue()
		}
		return Int(a % b)
	case token.LT:
		return Bool(a < b)
	case token.GT:
		return Bool(a > b)
	case token.LE:
		return Bool(a <= b)
	case token.GE:
		return Bool(a >= b)
	default:
		return NaNValue()
	}
}

func doubleOp(a, b float64, op token.Kind) *Value {
	switch op {
	case token.PLUS:
		return Double(a + b)
	case token.MINUS:
		return Double(a - b)
	case token.STAR:
		return Double(a * b)
	case token.SLASH:
		if b == 0 {
			return divByZero(a)
		}
		return Double(a / b)
	case token.PERCENT:
		if b == 0 {
			return NaNValue()
		}
		return Double(math.Mod(a, b))
	case token.LT:
		return Bool(a < b)
	case token.GT:
		return Bool(a > b)
	case token.LE:
		return Bool(a <= b)
	case token.GE:
		return Bool(a >= b)
	default:
		return NaNValue()
	}
}

func divByZero(numerator float64) *Value {
	if numerator == 0 {
		return NaNValue()
	}
	if numerator > 0 {
		return Infinity(1)
	}
	return Infinity(-1)
}

// infinityOp implements spec §4.3's "IEEE-ish table" for operations
// where at least one coerced operand is Infinity.
func infinityOp(a, b *Value, op token.Kind) *Value {
	aInf, aIsInf := a.IsInfinity()
	bInf, bIsInf := b.IsInfinity()

	switch op {
	case token.LT, token.GT, token.LE, token.GE:
		af, bf := infAsFloat(a), infAsFloat(b)
		return doubleOp(af, bf, op)
	}

	switch op {
	case token.PLUS:
		if aIsInf && bIsInf {
			if aInf == bInf {
				return Infinity(aInf)
			}
			return NaNValue()
		}
		if aIsInf {
			return Infinity(aInf)
		}
		return Infinity(bInf)
	case token.MINUS:
		if aIsInf && bIsInf {
			if aInf != bInf {
				return Infinity(aInf)
			}
			return NaNValue()
		}
		if aIsInf {
			return Infinity(aInf)
		}
		return Infinity(-bInf)
	case token.STAR:
		if aIsInf && bIsInf {
			return Infinity(aInf * bInf)
		}
		finite, infSign := b, aInf
		if !aIsInf {
			finite, infSign = a, bInf
		}
		f := infAsFloat(finite)
		if f == 0 {
			return NaNValue()
		}
		if f < 0 {
			infSign = -infSign
		}
		return Infinity(infSign)
	case token.SLASH:
		if aIsInf && bIsInf {
			return NaNValue()
		}
		if aIsInf {
			f := infAsFloat(b)
			if f < 0 {
				return Infinity(-aInf)
			}
			return Infinity(aInf)
		}
		return Double(0)
	case token.PERCENT:
		return NaNValue()
	default:
		return NaNValue()
	}
}

func infAsFloat(v *Value) float64 {
	if sign, ok := v.IsInfinity(); ok {
		return math.Inf(sign)
	}
	return asFloat(v)
}

// bitwiseOp implements spec §4.3's "32-bit integer semantics on the
// coerced operands" for &, |, ^, <<, >>, >>>.
func bitwiseOp(a, b *Value, op token.Kind) *Value {
	ai := toInt32(a)
	bi := toInt32(b)
	switch op {
	case token.AMP:
		return Int(int64(ai & bi))
	case token.PIPE:
		return Int(int64(ai | bi))
	case token.CARET:
		return Int(int64(ai ^ bi))
	case token.SHL:
		return Int(int64(ai << (uint32(bi) & 31)))
	case token.SHR:
		return Int(int64(ai >> (uint32(bi) & 31)))
	case token.USHR:
		return Int(int64(uint32(ai) >> (uint32(bi) & 31)))
	default:
		return NaNValue()
	}
}

func toInt32(v *Value) int32 {
	n := ToNumber(v)
	switch n.Kind {
	case KindInteger:
		return int32(n.Int)
	case KindDouble:
		if math.IsNaN(n.Float) || math.IsInf(n.Float, 0) {
			return 0
		}
		return int32(int64(n.Float))
	default:
		return 0
	}
}

// BitwiseNot implements unary `~`.
func BitwiseNot(v *Value) *Value { return Int(int64(^toInt32(v))) }

// Negate implements unary `-`.
func Negate(v *Value) *Value {
	n := ToNumber(v)
	switch n.Kind {
	case KindInteger:
		return Int(-n.Int)
	case KindDouble:
		return Double(-n.Float)
	case KindInfinity:
		return Infinity(-n.InfSign)
	default:
		return NaNValue()
	}
}

// Equals implements loose `==` per spec §4.3: Undefined and Null
// compare equal to each other and nothing else; numbers compare
// numerically across Integer/Double/NaN/Infinity (NaN is never equal,
// including to itself); strings compare by content; Object/Array
// compare by identity.
func Equals(a, b *Value) *Value {
	if (a.Kind == KindUndefined || a.Kind == KindNull) && (b.Kind == KindUndefined || b.Kind == KindNull) {
		return Bool(true)
	}
	if a.Kind == KindUndefined || a.Kind == KindNull || b.Kind == KindUndefined || b.Kind == KindNull {
		return Bool(false)
	}
	if a.Kind == KindString && b.Kind == KindString {
		return Bool(a.Str == b.Str)
	}
	if a.Kind == KindObject || a.Kind == KindArray || b.Kind == KindObject || b.Kind == KindArray {
		return Bool(a == b)
	}
	if a.Kind == KindNaN || b.Kind == KindNaN {
		return Bool(false)
	}
	na, nb := ToNumber(a), ToNumber(b)
	if na.Kind == KindNaN || nb.Kind == KindNaN {
		return Bool(false)
	}
	if infA, okA := na.IsInfinity(); okA {
		if infB, okB := nb.IsInfinity(); okB {
			return Bool(infA == infB)
		}
		return Bool(false)
	}
	if _, okB := nb.IsInfinity(); okB {
		return Bool(false)
	}
	return Bool(asFloat(na) == asFloat(nb))
}

// InstanceOf implements `x instanceof F` per spec §9: consult the
// `__proto__` chain of x for F's own `prototype` link.
func InstanceOf(x, f *Value) bool {
	if f == nil || !f.IsFunction() {
		return false
	}
	protoLink, ok := f.FindChild("prototype")
	if !ok || protoLink.Value == nil {
		return false
	}
	cur := x.Proto
	for depth := 0; cur != nil && depth < maxPrototypeDepth; depth++ {
		if cur == protoLink.Value {
			return true
		}
		cur = cur.Proto
	}
	return false
}
