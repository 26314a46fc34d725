// Package gc implements the cycle-aware reference counting scheme that
// stands in for a tracing collector: a recursion-set fusion pass run on
// every property assignment, so that structures like `a.self = a` are
// still freed once they become unreachable from outside the cycle.
//
// The package only depends on the Node interface below, so the
// runtime's Value can implement it without gc importing the runtime
// package.
package gc

// Node is anything that can participate in the reference graph: a
// runtime value with outgoing property edges. Implementations own
// their refs/internalRefs counters; the collector only reads and
// writes them through this interface.
type Node interface {
	Refs() int
	SetRefs(int)
	InternalRefs() int
	SetInternalRefs(int)
	CycleSet() *Set
	SetCycleSet(*Set)
	// Children returns every value this node holds a property edge to,
	// i.e. the outgoing edges walked during recursion-checking and
	// during final teardown.
	Children() []Node
	// OnFreed is invoked exactly once, when the node (or the cycle set
	// it belongs to) becomes collectible; implementations should clear
	// their own child table here.
	OnFreed()
}

// Set is the bookkeeping record shared by every value participating in
// one detected cycle of internal references (the "recursion set" of
// spec §4.6).
type Set struct {
	members []Node
}

// Ref increments n's external reference count. Chaining mirrors the
// teacher's IncrementRef: it exists so call sites can write
// `v = gc.Ref(newOwner(v))`-style code without a separate statement.
func Ref(n Node) Node {
	if n == nil {
		return nil
	}
	n.SetRefs(n.Refs() + 1)
	return n
}

// Unref decrements n's external reference count and, if that drops the
// node (or its whole cycle set) to zero reachable references, frees
// it. It returns nil so callers can write `v = gc.Unref(v)` to clear
// the local pointer in the same statement.
func Unref(n Node) Node {
	if n == nil {
		return nil
	}
	n.SetRefs(n.Refs() - 1)
	if n.Refs() < 0 {
		n.SetRefs(0)
	}

	set := n.CycleSet()
	if set == nil {
		if n.Refs() <= n.InternalRefs() {
			free(n)
		}
		return nil
	}
	if setIsUnreachable(set) {
		freeSet(set)
	}
	return nil
}

func setIsUnreachable(set *Set) bool {
	for _, m := range set.members {
		if m.Refs() > m.InternalRefs() {
			return false
		}
	}
	return true
}

func free(n Node) {
	n.OnFreed()
}

func freeSet(set *Set) {
	for _, m := range set.members {
		m.SetCycleSet(nil)
		m.OnFreed()
	}
}

// CheckAssignment runs the recursion-check pass described in spec
// §4.6 immediately after owner acquires a new outgoing edge (a
// property write). It walks owner's property graph depth-first; if
// that walk revisits a node already on the current path, or a node
// that already belongs to a cycle set, the whole path from owner down
// to that node is fused into a single Set, and every member's
// internalRefs is recomputed to count only edges internal to the set.
func CheckAssignment(owner Node) {
	visiting := map[Node]bool{}
	var path []Node

	var walk func(n Node) *Set
	walk = func(n Node) *Set {
		if visiting[n] {
			return fuse(path, n)
		}
		if s := n.CycleSet(); s != nil {
			return fuse(path, n)
		}

		visiting[n] = true
		path = append(path, n)
		for _, child := range n.Children() {
			if found := walk(child); found != nil {
				return found
			}
		}
		path = path[:len(path)-1]
		delete(visiting, n)
		return nil
	}

	walk(owner)
}

// fuse merges every node in path from the point entry first appears
// onward (plus entry's own pre-existing set, if it had one) into a
// single Set, and recomputes internalRefs for each member by counting
// how many of its outgoing edges land on another member of the set.
func fuse(path []Node, entry Node) *Set {
	start := 0
	for i, n := range path {
		if n == entry {
			start = i
			break
		}
	}

	merged := &Set{}
	seen := map[Node]bool{}
	add := func(n Node) {
		if !seen[n] {
			seen[n] = true
			merged.members = append(merged.members, n)
		}
	}

	if existing := entry.CycleSet(); existing != nil {
		for _, m := range existing.members {
			add(m)
		}
	} else {
		add(entry)
	}
	for _, n := range path[start:] {
		add(n)
	}

	for _, m := range merged.members {
		m.SetCycleSet(merged)
	}
	for _, m := range merged.members {
		internal := 0
		for _, child := range m.Children() {
			if seen[child] {
				internal++
			}
		}
		m.SetInternalRefs(internal)
	}
	return merged
}
