package tinyjs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyjs-go/tinyjs/pkg/tinyjs"
)

func eval(t *testing.T, src string) string {
	t.Helper()
	out, err := tinyjs.New().Evaluate(src, "test.js")
	require.NoError(t, err, src)
	return out
}

func TestArrayMutators(t *testing.T) {
	assert.Equal(t, "3", eval(t, "var a=[1,2]; a.push(3); a.length;"))
	assert.Equal(t, "2", eval(t, "var a=[1,2,3]; a.pop(); a.length;"))
	assert.Equal(t, "1", eval(t, "[1,2,3].shift();"))
	assert.Equal(t, "0,9,1,2", eval(t, "var a=[1,2]; a.unshift(0,9); a.join(',');"))
}

func TestArraySliceSpliceJoin(t *testing.T) {
	assert.Equal(t, "2,3", eval(t, "[1,2,3,4].slice(1,3).join(',');"))
	assert.Equal(t, "1,4", eval(t, "var a=[1,2,3,4]; a.splice(1,2); a.join(',');"))
	assert.Equal(t, "a-b-c", eval(t, "['a','b','c'].join('-');"))
}

func TestArrayIndexOfUsesStrictEquality(t *testing.T) {
	assert.Equal(t, "1", eval(t, "[1,2,3].indexOf(2);"))
	assert.Equal(t, "-1", eval(t, "[1,'2',3].indexOf(2);"))
}

func TestArrayReverseConcatToString(t *testing.T) {
	assert.Equal(t, "3,2,1", eval(t, "[1,2,3].reverse().join(',');"))
	assert.Equal(t, "1,2,3,4", eval(t, "[1,2].concat([3,4]).join(',');"))
}

func TestArrayHigherOrderMethods(t *testing.T) {
	assert.Equal(t, "2,4,6", eval(t, "[1,2,3].map(function(x){return x*2;}).join(',');"))
	assert.Equal(t, "2,4", eval(t, "[1,2,3,4].filter(function(x){return x%2==0;}).join(',');"))
	assert.Equal(t, "6", eval(t, "var s=0; [1,2,3].forEach(function(x){s+=x;}); s;"))
}

func TestArraySortDefaultIsLexicographic(t *testing.T) {
	assert.Equal(t, "10,2,9", eval(t, "[10,2,9].sort().join(',');"))
}

func TestArraySortWithComparator(t *testing.T) {
	assert.Equal(t, "2,9,10", eval(t, "[10,2,9].sort(function(a,b){return a-b;}).join(',');"))
}

func TestObjectPropertyEnumeration(t *testing.T) {
	out := eval(t, `
		var o = {x:1, y:2};
		var keys = [];
		for (var k in o) { keys.push(k); }
		keys.join(',');
	`)
	assert.Equal(t, "x,y", out)
}

func TestMathFunctions(t *testing.T) {
	// Math.* always returns the Double variant, whose toString prints six
	// digits after the point, trailing zeros included.
	assert.Equal(t, "4.000000", eval(t, "Math.sqrt(16);"))
	assert.Equal(t, "5.000000", eval(t, "Math.max(1,5,3);"))
	assert.Equal(t, "1.000000", eval(t, "Math.min(1,5,3);"))
	assert.Equal(t, "3.000000", eval(t, "Math.floor(3.9);"))
	assert.Equal(t, "4.000000", eval(t, "Math.ceil(3.1);"))
	assert.Equal(t, "4.000000", eval(t, "Math.abs(-4);"))
}

func TestJSONRoundTrip(t *testing.T) {
	out := eval(t, `JSON.stringify({a:1,b:"two"});`)
	assert.Equal(t, `{"a":1,"b":"two"}`, out)

	out = eval(t, `var o = JSON.parse('{"a":1,"b":"two"}'); o.a + "," + o.b;`)
	assert.Equal(t, "1,two", out)
}

func TestStringMethods(t *testing.T) {
	assert.Equal(t, "HELLO", eval(t, `"hello".toUpperCase();`))
	assert.Equal(t, "hello", eval(t, `"HELLO".toLowerCase();`))
	assert.Equal(t, "2", eval(t, `"hello".indexOf("l");`))
	assert.Equal(t, "ell", eval(t, `"hello".substring(1,4);`))
	assert.Equal(t, "5", eval(t, `"hello".length;`))
}

func TestNumberParsing(t *testing.T) {
	assert.Equal(t, "42", eval(t, `parseInt("42");`))
	assert.Equal(t, "3.500000", eval(t, `parseFloat("3.5");`))
}
