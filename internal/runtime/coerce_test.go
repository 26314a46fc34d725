package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinyjs-go/tinyjs/internal/token"
)

// Spec §8 property 3: type coercion identities.
func TestToNumberToStringRoundTrip(t *testing.T) {
	for _, n := range []*Value{Int(0), Int(45), Int(-7)} {
		str := ToString(n)
		back := ToNumber(String(str))
		assert.Equal(t, n.Int, back.Int, "toNumber(toString(%v))", n)
	}
}

func TestToBoolToStringRoundTrip(t *testing.T) {
	for _, b := range []bool{true, false} {
		v := Bool(b)
		back := ToBool(String(ToString(v)))
		assert.Equal(t, b, back, "toBool(toString(%v))", b)
	}
}

func TestNullPlusZeroCoercion(t *testing.T) {
	assert.Equal(t, int64(0), ToNumber(Null()).Int)
}

func TestUndefinedPlusZeroIsNaN(t *testing.T) {
	assert.True(t, MathsOp(Undefined(), Int(0), token.PLUS).IsNaN())
}

func TestEmptyStringPlusZeroStringifiesToZero(t *testing.T) {
	assert.Equal(t, "0", ToString(MathsOp(String(""), Int(0), token.PLUS)))
}

func TestToNumberHexString(t *testing.T) {
	n := ToNumber(String("0x2A"))
	assert.True(t, n.IsInt())
	assert.Equal(t, int64(42), n.Int)
}

func TestToNumberFloatString(t *testing.T) {
	n := ToNumber(String("3.5"))
	assert.True(t, n.IsDouble())
	assert.InDelta(t, 3.5, n.Float, 1e-9)
}

func TestToNumberGarbageStringIsNaN(t *testing.T) {
	assert.True(t, ToNumber(String("not a number")).IsNaN())
}

func TestToBoolFalsyValues(t *testing.T) {
	falsy := []*Value{Int(0), Double(0), String(""), Undefined(), Null(), NaNValue()}
	for _, v := range falsy {
		assert.False(t, ToBool(v), "expected %v to be falsy", v)
	}
}

func TestToBoolTruthyValues(t *testing.T) {
	truthy := []*Value{Int(1), String("x"), Infinity(1), Infinity(-1)}
	for _, v := range truthy {
		assert.True(t, ToBool(v), "expected %v to be truthy", v)
	}
}

func TestArrayLengthHighestIndexPlusOne(t *testing.T) {
	arr := NewArray(nil)
	arr.SetChild("0", Int(3), DefaultAttrs)
	arr.SetChild("1", Int(1), DefaultAttrs)
	arr.SetChild("2", Int(2), DefaultAttrs)
	assert.Equal(t, int64(3), ArrayLength(arr))
}

func TestToStringVariants(t *testing.T) {
	assert.Equal(t, "undefined", ToString(Undefined()))
	assert.Equal(t, "null", ToString(Null()))
	assert.Equal(t, "true", ToString(Bool(true)))
	assert.Equal(t, "NaN", ToString(NaNValue()))
	assert.Equal(t, "Infinity", ToString(Infinity(1)))
	assert.Equal(t, "-Infinity", ToString(Infinity(-1)))
	assert.Equal(t, "[ Object ]", ToString(NewObject(nil)))
	assert.Equal(t, "[ Function ]", ToString(NewNative(nil, nil, nil)))
}
