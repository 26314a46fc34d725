package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetChildAndFindChild(t *testing.T) {
	o := NewObject(nil)
	o.SetChild("x", Int(1), DefaultAttrs)
	l, ok := o.FindChild("x")
	assert.True(t, ok)
	assert.Equal(t, int64(1), l.Value.Int)
	assert.True(t, l.Owned())
	assert.True(t, l.Writable())
	assert.True(t, l.Deletable())
	assert.True(t, l.Enumerable())
}

func TestSetChildOverwritesExistingLink(t *testing.T) {
	o := NewObject(nil)
	o.SetChild("x", Int(1), DefaultAttrs)
	o.SetChild("x", Int(2), DefaultAttrs)
	l, ok := o.FindChild("x")
	assert.True(t, ok)
	assert.Equal(t, int64(2), l.Value.Int)
	assert.Equal(t, 1, len(o.OwnNames()), "overwriting should not duplicate the insertion-order slot")
}

func TestFindChildDoesNotSearchPrototype(t *testing.T) {
	proto := NewObject(nil)
	proto.SetChild("greet", String("hi"), DefaultAttrs)
	child := NewObject(proto)
	_, ok := child.FindChild("greet")
	assert.False(t, ok, "FindChild must be own-properties only")
}

func TestFindInPrototypeChainWalksUpward(t *testing.T) {
	grandparent := NewObject(nil)
	grandparent.SetChild("greet", String("hi"), DefaultAttrs)
	parent := NewObject(grandparent)
	child := NewObject(parent)

	l, ok := child.FindInPrototypeChain("greet")
	assert.True(t, ok)
	assert.Equal(t, "hi", l.Value.Str)
}

func TestFindInPrototypeChainOwnShadowsProto(t *testing.T) {
	proto := NewObject(nil)
	proto.SetChild("greet", String("hi"), DefaultAttrs)
	child := NewObject(proto)
	child.SetChild("greet", String("bye"), DefaultAttrs)

	l, ok := child.FindInPrototypeChain("greet")
	assert.True(t, ok)
	assert.Equal(t, "bye", l.Value.Str)
}

func TestFindInPrototypeChainDepthCapBreaksCycles(t *testing.T) {
	a := NewObject(nil)
	b := NewObject(nil)
	a.Proto = b
	b.Proto = a // cyclic __proto__ chain

	_, ok := a.FindInPrototypeChain("nope")
	assert.False(t, ok, "cyclic prototype chain must terminate via the depth cap, not hang")
}

func TestDeleteChildHonorsDeletableAttr(t *testing.T) {
	o := NewObject(nil)
	o.SetChild("perm", Int(1), DefaultAttrs&^AttrDeletable)
	o.SetChild("temp", Int(2), DefaultAttrs)

	assert.False(t, o.DeleteChild("perm"))
	assert.True(t, o.DeleteChild("temp"))
	_, ok := o.FindChild("temp")
	assert.False(t, ok)
}

func TestDeleteChildUnknownNameReturnsFalse(t *testing.T) {
	o := NewObject(nil)
	assert.False(t, o.DeleteChild("missing"))
}

func TestEnumerableNamesExcludesHidden(t *testing.T) {
	o := NewObject(nil)
	o.SetChild("visible", Int(1), DefaultAttrs)
	o.SetChild("internal", Int(2), HiddenAttrs)

	names := o.EnumerableNames()
	assert.Equal(t, []string{"visible"}, names)
}

func TestOwnNamesPreservesInsertionOrder(t *testing.T) {
	o := NewObject(nil)
	o.SetChild("c", Int(3), DefaultAttrs)
	o.SetChild("a", Int(1), DefaultAttrs)
	o.SetChild("b", Int(2), DefaultAttrs)

	assert.Equal(t, []string{"c", "a", "b"}, o.OwnNames())
}

func TestInstanceOfWalksPrototypeChain(t *testing.T) {
	fnProto := NewObject(nil)
	ctor := NewNative(nil, nil, nil)
	ctor.SetChild("prototype", fnProto, HiddenAttrs)

	instance := NewObject(fnProto)
	assert.True(t, InstanceOf(instance, ctor))

	unrelated := NewObject(nil)
	assert.False(t, InstanceOf(unrelated, ctor))
}

func TestInstanceOfRejectsNonFunction(t *testing.T) {
	assert.False(t, InstanceOf(NewObject(nil), NewObject(nil)))
}

func TestChildrenIncludesPrototypeAndProperties(t *testing.T) {
	proto := NewObject(nil)
	o := NewObject(proto)
	child := Int(1)
	o.SetChild("x", child, DefaultAttrs)

	kids := o.Children()
	assert.Contains(t, kids, proto)
	assert.Contains(t, kids, child)
}

func TestChildrenIncludesFunctionClosure(t *testing.T) {
	closure := NewObject(nil)
	fn := NewFunction(nil, closure, nil, nil)

	assert.Contains(t, fn.Children(), closure)
}
