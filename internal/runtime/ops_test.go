package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinyjs-go/tinyjs/internal/token"
)

func TestMathsOpIntegerArithmetic(t *testing.T) {
	r := MathsOp(Int(1), Int(2), token.PLUS)
	assert.True(t, r.IsInt())
	assert.Equal(t, int64(3), r.Int)
}

func TestMathsOpStringConcatenation(t *testing.T) {
	r := MathsOp(String("foo"), String("bar"), token.PLUS)
	assert.True(t, r.IsString())
	assert.Equal(t, "foobar", r.Str)
}

func TestMathsOpStringPlusNumberConcatenates(t *testing.T) {
	r := MathsOp(String("x="), Int(1), token.PLUS)
	assert.Equal(t, "x=1", r.Str)
}

func TestMathsOpDivisionByZero(t *testing.T) {
	r := MathsOp(Int(1), Int(0), token.SLASH)
	sign, ok := r.IsInfinity()
	assert.True(t, ok)
	assert.Equal(t, 1, sign)

	r = MathsOp(Int(0), Int(0), token.SLASH)
	assert.True(t, r.IsNaN())
}

func TestMathsOpStrictEquality(t *testing.T) {
	assert.True(t, ToBool(MathsOp(Int(1), Int(1), token.SEQ)))
	assert.False(t, ToBool(MathsOp(Int(1), String("1"), token.SEQ)))
	assert.True(t, ToBool(MathsOp(Int(1), String("1"), token.EQ)))
}

func TestMathsOpNullAndUndefinedEquality(t *testing.T) {
	assert.True(t, ToBool(MathsOp(Null(), Undefined(), token.EQ)))
	assert.False(t, ToBool(MathsOp(Null(), Int(0), token.LT)))
}

func TestMathsOpInfinityPropagation(t *testing.T) {
	pos, neg := Infinity(1), Infinity(-1)
	sum := MathsOp(pos, pos, token.PLUS)
	sign, ok := sum.IsInfinity()
	assert.True(t, ok)
	assert.Equal(t, 1, sign)
	r := MathsOp(pos, neg, token.PLUS)
	assert.True(t, r.IsNaN())
	r = MathsOp(pos, Int(0), token.STAR)
	assert.True(t, r.IsNaN())
	r = MathsOp(Int(5), pos, token.SLASH)
	assert.True(t, r.IsInt() || r.IsDouble())
	assert.Equal(t, float64(0), asFloat(r))
}

func TestMathsOpBitwise32Bit(t *testing.T) {
	r := MathsOp(Int(6), Int(3), token.AMP)
	assert.Equal(t, int64(2), r.Int)
	r = MathsOp(Int(6), Int(3), token.PIPE)
	assert.Equal(t, int64(7), r.Int)
	r = MathsOp(Int(1), Int(3), token.SHL)
	assert.Equal(t, int64(8), r.Int)
}

func TestMathsOpObjectIdentityComparison(t *testing.T) {
	a := NewObject(nil)
	b := NewObject(nil)
	assert.False(t, ToBool(MathsOp(a, b, token.EQ)))
	assert.True(t, ToBool(MathsOp(a, a, token.EQ)))
	assert.True(t, MathsOp(a, b, token.PLUS).IsNaN())
}
