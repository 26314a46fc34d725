package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclareVarOnRootThenLookup(t *testing.T) {
	root := NewRootScope()
	DeclareVar(root, "x", Int(1))
	l, owner, ok := Lookup(root, "x")
	assert.True(t, ok)
	assert.Same(t, root, owner)
	assert.Equal(t, int64(1), l.Value.Int)
}

func TestDeclareVarFromLetScopePassesThroughToFunctionActivation(t *testing.T) {
	fn := NewFunctionScope(nil, nil, nil)
	let := NewLetScope(fn)
	DeclareVar(let, "x", Int(1))

	_, ok := let.FindChild("x")
	assert.False(t, ok, "var must not land on the let scope itself")

	_, owner, ok := Lookup(let, "x")
	assert.True(t, ok)
	assert.Same(t, fn, owner)
}

func TestDeclareVarIsIdempotentOnExistingBinding(t *testing.T) {
	root := NewRootScope()
	DeclareVar(root, "x", Int(1))
	DeclareVar(root, "x", Int(99)) // hoisted bare declaration re-running must not clobber

	l, _, _ := Lookup(root, "x")
	assert.Equal(t, int64(1), l.Value.Int)
}

func TestDeclareFunctionAlwaysOverwrites(t *testing.T) {
	root := NewRootScope()
	DeclareFunction(root, "f", Int(1))
	DeclareFunction(root, "f", Int(2))

	l, _, _ := Lookup(root, "f")
	assert.Equal(t, int64(2), l.Value.Int)
}

func TestDeclareLetShadowsOuterBinding(t *testing.T) {
	root := NewRootScope()
	DeclareVar(root, "x", Int(1))
	let := NewLetScope(root)
	DeclareLet(let, "x", Int(2))

	l, owner, ok := Lookup(let, "x")
	assert.True(t, ok)
	assert.Same(t, let, owner)
	assert.Equal(t, int64(2), l.Value.Int)

	outerL, outerOwner, _ := Lookup(root, "x")
	assert.Same(t, root, outerOwner)
	assert.Equal(t, int64(1), outerL.Value.Int)
}

func TestLookupMissReturnsFalse(t *testing.T) {
	root := NewRootScope()
	_, _, ok := Lookup(root, "nope")
	assert.False(t, ok)
}

func TestWithScopeConsultsTargetBeforeOwnBindings(t *testing.T) {
	root := NewRootScope()
	DeclareVar(root, "x", Int(1))

	target := NewObject(nil)
	target.SetChild("x", Int(2), DefaultAttrs)
	withScope := NewWithScope(target, root)

	l, owner, ok := Lookup(withScope, "x")
	assert.True(t, ok)
	assert.Same(t, target, owner)
	assert.Equal(t, int64(2), l.Value.Int)
}

func TestWithScopeFallsThroughWhenTargetLacksName(t *testing.T) {
	root := NewRootScope()
	DeclareVar(root, "y", Int(7))

	target := NewObject(nil)
	withScope := NewWithScope(target, root)

	l, owner, ok := Lookup(withScope, "y")
	assert.True(t, ok)
	assert.Same(t, root, owner)
	assert.Equal(t, int64(7), l.Value.Int)
}

func TestThisWalksUpToNearestFunctionActivation(t *testing.T) {
	thisVal := NewObject(nil)
	fn := NewFunctionScope(nil, thisVal, nil)
	let := NewLetScope(fn)

	assert.Same(t, thisVal, let.This())
}

func TestThisDefaultsToUndefinedAtRoot(t *testing.T) {
	root := NewRootScope()
	assert.True(t, root.This().IsUndefined())
}

func TestArgumentsNilOutsideFunction(t *testing.T) {
	root := NewRootScope()
	assert.Nil(t, root.Arguments())
}

func TestArgumentsFromFunctionActivation(t *testing.T) {
	args := NewArray(nil)
	fn := NewFunctionScope(nil, nil, args)
	let := NewLetScope(fn)
	assert.Same(t, args, let.Arguments())
}

func TestAssignOverwritesExistingBindingInChain(t *testing.T) {
	root := NewRootScope()
	DeclareVar(root, "x", Int(1))
	let := NewLetScope(root)

	Assign(let, "x", Int(42))

	l, owner, _ := Lookup(root, "x")
	assert.Same(t, root, owner)
	assert.Equal(t, int64(42), l.Value.Int)
}

func TestAssignToUndeclaredNameInstallsOnRoot(t *testing.T) {
	root := NewRootScope()
	fn := NewFunctionScope(root, nil, nil)
	let := NewLetScope(fn)

	Assign(let, "ghost", String("leaks"))

	l, owner, ok := Lookup(root, "ghost")
	assert.True(t, ok)
	assert.Same(t, root, owner)
	assert.Equal(t, "leaks", l.Value.Str)
}

func TestAssignRespectsNonWritableLink(t *testing.T) {
	root := NewRootScope()
	root.SetChild("frozen", Int(1), DefaultAttrs&^AttrWritable)

	Assign(root, "frozen", Int(2))

	l, _, _ := Lookup(root, "frozen")
	assert.Equal(t, int64(1), l.Value.Int, "assignment to a non-writable link must be a no-op")
}
