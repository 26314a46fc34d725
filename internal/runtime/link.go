package runtime

import "github.com/tinyjs-go/tinyjs/internal/runtime/gc"

// LinkAttrs are the attribute bits spec §3 assigns to every Link:
// owned, writable, deletable, enumerable, hidden.
type LinkAttrs uint8

const (
	AttrOwned LinkAttrs = 1 << iota
	AttrWritable
	AttrDeletable
	AttrEnumerable
	AttrHidden
)

// DefaultAttrs is what an ordinary script-visible property gets:
// writable, deletable, enumerable, and (once installed) owned.
const DefaultAttrs = AttrWritable | AttrDeletable | AttrEnumerable

// HiddenAttrs is used for engine-internal links such as a scope's
// parent/closure/with pointers (spec's design note: "the parent,
// closure, and with links are ordinary properties with the hidden
// attribute").
const HiddenAttrs = AttrWritable | AttrHidden

// Link is a named edge into a value's property table (spec §3/GLOSSARY).
// A temporary Link returned by an expression that was never installed
// anywhere carries no Owner and no AttrOwned bit.
type Link struct {
	Name  string
	Value *Value
	Owner *Value
	Attrs LinkAttrs
}

func (l *Link) Owned() bool      { return l.Attrs&AttrOwned != 0 }
func (l *Link) Writable() bool   { return l.Attrs&AttrWritable != 0 }
func (l *Link) Deletable() bool  { return l.Attrs&AttrDeletable != 0 }
func (l *Link) Enumerable() bool { return l.Attrs&AttrEnumerable != 0 }
func (l *Link) Hidden() bool     { return l.Attrs&AttrHidden != 0 }

// FindChild searches only v's direct property table (spec §4.3).
func (v *Value) FindChild(name string) (*Link, bool) {
	if v.props == nil {
		return nil, false
	}
	l, ok := v.props[name]
	return l, ok
}

// maxPrototypeDepth bounds prototype-chain traversal per spec
// invariant 4 ("the interpreter ... treats chain traversal with a
// depth cap"), guarding against a cycle introduced by user code
// reassigning __proto__.
const maxPrototypeDepth = 1000

// FindInPrototypeChain walks v's own table, then its __proto__ chain,
// bounded by maxPrototypeDepth.
func (v *Value) FindInPrototypeChain(name string) (*Link, bool) {
	cur := v
	for depth := 0; cur != nil && depth < maxPrototypeDepth; depth++ {
		if l, ok := cur.FindChild(name); ok {
			return l, true
		}
		cur = cur.Proto
	}
	return nil, false
}

// SetChild installs (or overwrites) an owned link named name on v,
// pointing at val with the given attributes, runs the cycle-aware
// recursion-check pass the new edge may have introduced (spec §4.6),
// and returns the resulting Link. The previous occupant of name, if
// any, is unreffed.
func (v *Value) SetChild(name string, val *Value, attrs LinkAttrs) *Link {
	if v.props == nil {
		v.props = map[string]*Link{}
	}
	if existing, ok := v.props[name]; ok {
		if existing.Value != val {
			gc.Unref(existing.Value)
			gc.Ref(val)
			existing.Value = val
		}
		existing.Attrs = attrs | AttrOwned
		gc.CheckAssignment(v)
		return existing
	}

	l := &Link{Name: name, Value: val, Owner: v, Attrs: attrs | AttrOwned}
	v.props[name] = l
	v.order = append(v.order, name)
	gc.Ref(val)
	gc.CheckAssignment(v)
	return l
}

// DeleteChild removes an owned, deletable link named name, returning
// whether it did so. Per spec §9's open question, delete on a link
// that is not owned (or not present) returns false.
func (v *Value) DeleteChild(name string) bool {
	l, ok := v.FindChild(name)
	if !ok || !l.Owned() || !l.Deletable() {
		return false
	}
	delete(v.props, name)
	for i, n := range v.order {
		if n == name {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
	// An edge between two members of one cycle set no longer counts
	// toward the child's internal references once it is removed.
	if child := l.Value; child != nil && child.cycleSet != nil && child.cycleSet == v.cycleSet && child.internalRefs > 0 {
		child.internalRefs--
	}
	gc.Unref(l.Value)
	return true
}

// EnumerableNames returns v's own enumerable property names in
// insertion order, for `for (x in o)` (spec invariant 6).
func (v *Value) EnumerableNames() []string {
	var names []string
	for _, name := range v.order {
		if l := v.props[name]; l.Enumerable() {
			names = append(names, name)
		}
	}
	return names
}

// OwnNames returns every own property name, including hidden ones, in
// insertion order; used by scope lookups and debugging (trace).
func (v *Value) OwnNames() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}
