package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// node is a minimal Node implementation for exercising the collector in
// isolation from the runtime package's own Value/property-table machinery.
type node struct {
	name     string
	freed    bool
	refs     int
	internal int
	set      *Set
	kids     []Node
}

func (n *node) Refs() int             { return n.refs }
func (n *node) SetRefs(v int)         { n.refs = v }
func (n *node) InternalRefs() int     { return n.internal }
func (n *node) SetInternalRefs(v int) { n.internal = v }
func (n *node) CycleSet() *Set        { return n.set }
func (n *node) SetCycleSet(s *Set)    { n.set = s }
func (n *node) Children() []Node      { return n.kids }
func (n *node) OnFreed()              { n.freed = true; n.kids = nil }

func TestRefUnrefSimpleLifetime(t *testing.T) {
	a := &node{name: "a"}
	Ref(a)
	assert.Equal(t, 1, a.refs)
	Unref(a)
	assert.True(t, a.freed)
}

func TestUnrefDoesNotFreeWhileRefsRemain(t *testing.T) {
	a := &node{name: "a"}
	Ref(a)
	Ref(a)
	Unref(a)
	assert.False(t, a.freed)
	assert.Equal(t, 1, a.refs)
}

func TestUnrefClampsNegativeRefs(t *testing.T) {
	a := &node{name: "a"}
	Unref(a)
	assert.Equal(t, 0, a.refs)
}

func TestCheckAssignmentDetectsSelfCycle(t *testing.T) {
	a := &node{name: "a", refs: 1}
	a.kids = []Node{a} // a.self = a

	CheckAssignment(a)

	assert.NotNil(t, a.set, "a self-referencing node must be fused into a cycle set")
	assert.Equal(t, 1, a.internal, "a's one outgoing edge lands on itself, so internalRefs should be 1")
}

func TestCheckAssignmentDetectsTwoNodeCycle(t *testing.T) {
	a := &node{name: "a", refs: 1}
	b := &node{name: "b"}
	a.kids = []Node{b}
	b.kids = []Node{a} // a -> b -> a

	CheckAssignment(a)

	assert.NotNil(t, a.set)
	assert.Same(t, a.set, b.set)
	assert.Equal(t, 1, a.internal)
	assert.Equal(t, 1, b.internal)
}

func TestCyclicGraphFreedOnceExternalRefDrops(t *testing.T) {
	// Mirrors "a.self = a; a = null": one external ref into a cycle
	// that, once dropped, must free every member despite internal refs.
	a := &node{name: "a", refs: 1}
	a.kids = []Node{a}
	CheckAssignment(a)

	Unref(a) // drops the last external ref
	assert.True(t, a.freed, "a cycle with no remaining external references must be collected")
}

func TestCyclicPairSurvivesWhileExternallyReferenced(t *testing.T) {
	// Each node carries one ref for its own external owner (a script
	// variable) plus one ref for the cross edge the other node holds
	// to it, mirroring what SetChild's gc.Ref(val) contributes.
	a := &node{name: "a", refs: 2}
	b := &node{name: "b", refs: 2}
	a.kids = []Node{b}
	b.kids = []Node{a}

	CheckAssignment(a)
	assert.Same(t, a.set, b.set)
	assert.Equal(t, 1, a.internal)
	assert.Equal(t, 1, b.internal)

	Unref(a) // a's external variable goes away; the a->b edge ref remains on b
	assert.False(t, a.freed, "a still has an internal ref from b, and b is still externally reachable")
	assert.False(t, b.freed, "b's external variable keeps the whole fused set alive")

	Unref(b) // b's external variable goes away too; nothing external remains
	assert.True(t, a.freed)
	assert.True(t, b.freed)
}

func TestNonCyclicChildFreedIndependently(t *testing.T) {
	parent := &node{name: "parent", refs: 1}
	child := &node{name: "child", refs: 1}
	parent.kids = []Node{child}

	CheckAssignment(parent)
	assert.Nil(t, parent.set, "no cycle exists, so no set should be formed")

	Unref(parent)
	assert.True(t, parent.freed)
	assert.False(t, child.freed, "freeing the parent does not by itself unref the child in this test double")
}
