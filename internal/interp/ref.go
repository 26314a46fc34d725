package interp

import "github.com/tinyjs-go/tinyjs/internal/runtime"

// refKind distinguishes the three kinds of l-value an expression can
// resolve to, mirroring the `Link` spec §3/§4.5 describes but adding
// the scope-chain and transient cases a single recursive-descent pass
// needs to thread through every precedence level.
type refKind int

const (
	refValue refKind = iota // a transient result; not assignable
	refScope                 // an identifier resolved through the scope chain
	refMember                // obj.name / obj[name]
)

// ref is what every expression-evaluation function returns: enough to
// read the value (invoking an accessor getter if the resolved slot is
// one) or write it (invoking a setter, or installing through the scope
// chain, or into an object's property table).
type ref struct {
	kind  refKind
	value *runtime.Value // refValue

	scope *runtime.Value // refScope
	owner *runtime.Value // refMember
	name  string          // refScope / refMember
}

func valueRef(v *runtime.Value) *ref { return &ref{kind: refValue, value: v} }

// get reads through r, invoking an accessor's getter if the resolved
// slot holds one (spec invariant 5).
func (e *Evaluator) get(r *ref) (*runtime.Value, error) {
	if r == nil {
		return runtime.Undefined(), nil
	}
	switch r.kind {
	case refValue:
		if r.value == nil {
			return runtime.Undefined(), nil
		}
		return r.value, nil
	case refScope:
		link, owner, ok := runtime.Lookup(r.scope, r.name)
		if !ok {
			return runtime.Undefined(), nil
		}
		if link.Value != nil && link.Value.IsAccessor() {
			return e.invokeAccessor(link.Value.Get, owner)
		}
		if link.Value == nil {
			return runtime.Undefined(), nil
		}
		return link.Value, nil
	case refMember:
		if r.owner == nil {
			return runtime.Undefined(), nil
		}
		link, ok := r.owner.FindInPrototypeChain(r.name)
		if !ok && r.owner.Proto == nil {
			// String, number and boolean primitives carry no prototype of
			// their own; their methods live on the installed prototypes.
			var proto *runtime.Value
			switch {
			case r.owner.IsString():
				proto = e.Protos.String
			case r.owner.IsNumber():
				proto = e.Protos.Number
			case r.owner.Kind == runtime.KindBoolean:
				proto = e.Protos.Boolean
			}
			if proto != nil {
				link, ok = proto.FindInPrototypeChain(r.name)
			}
		}
		if !ok {
			return runtime.Undefined(), nil
		}
		if link.Value != nil && link.Value.IsAccessor() {
			return e.invokeAccessor(link.Value.Get, r.owner)
		}
		if link.Value == nil {
			return runtime.Undefined(), nil
		}
		return link.Value, nil
	}
	return runtime.Undefined(), nil
}

func (e *Evaluator) invokeAccessor(getOrSet *runtime.Value, this *runtime.Value) (*runtime.Value, error) {
	if getOrSet == nil {
		return runtime.Undefined(), nil
	}
	return e.callValue(getOrSet, this, nil)
}

// set writes val through r, invoking an accessor's setter when present,
// otherwise installing into the scope chain or the owner's property
// table per spec §4.4/§4.5.
func (e *Evaluator) set(r *ref, val *runtime.Value) error {
	if r == nil {
		return nil
	}
	switch r.kind {
	case refValue:
		return nil // assigning to a non-lvalue is silently ignored
	case refScope:
		if link, owner, ok := runtime.Lookup(r.scope, r.name); ok && link.Value != nil && link.Value.IsAccessor() {
			if link.Value.Set == nil {
				return nil
			}
			_, err := e.callValue(link.Value.Set, owner, []*runtime.Value{val})
			return err
		}
		runtime.Assign(r.scope, r.name, val)
		return nil
	case refMember:
		if r.owner == nil {
			return nil
		}
		if link, ok := r.owner.FindInPrototypeChain(r.name); ok && link.Value != nil && link.Value.IsAccessor() {
			if link.Value.Set == nil {
				return nil
			}
			_, err := e.callValue(link.Value.Set, r.owner, []*runtime.Value{val})
			return err
		}
		r.owner.SetChild(r.name, val, runtime.DefaultAttrs)
		return nil
	}
	return nil
}

// deleteRef implements `delete r`, per spec §9's open question: delete
// on anything not an owned, deletable link returns false, never raises.
func (e *Evaluator) deleteRef(r *ref) bool {
	if r == nil {
		return false
	}
	switch r.kind {
	case refScope:
		if _, owner, ok := runtime.Lookup(r.scope, r.name); ok {
			return owner.DeleteChild(r.name)
		}
		return false
	case refMember:
		if r.owner == nil {
			return false
		}
		return r.owner.DeleteChild(r.name)
	default:
		return false
	}
}
