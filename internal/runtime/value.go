// Package runtime implements the tagged-variant value model described
// in spec §3: every script value is one Value struct carrying exactly
// one active variant, an ordered property table of Links, an optional
// prototype link, and the refs/internalRefs pair the cycle collector
// in internal/runtime/gc needs to free reference cycles.
package runtime

import (
	"github.com/tinyjs-go/tinyjs/internal/runtime/gc"
	"github.com/tinyjs-go/tinyjs/internal/token"
)

// NativeFunc is the shape a host-registered builtin implements: given
// the freshly built activation scope for the call (holding `this`,
// `arguments`, and named parameters) and the opaque user-data pointer
// supplied at registration, it returns the call's result or a script
// exception value.
type NativeFunc func(activation *Value, userData any) (*Value, error)

// FuncBody is the runtime counterpart of a token.FuncDescriptor: the
// descriptor itself is shared by pointer (per spec §3)
// because the same body token range may be executed by many calls, so
// FuncBody only adds the one thing that varies per Value instance: the
// closure scope captured when the function value was built.
type FuncBody struct {
	Descriptor *token.FuncDescriptor
	Closure    *Value

	// BodyTokens is the slice of the owning Stream's token vector
	// spanning Descriptor.BodyLo:BodyHi, kept alongside the descriptor
	// so GetParsableString can re-emit the actual body source (spec
	// §4.3) instead of just the signature.
	BodyTokens []token.Token
}

// Value is the single runtime representation for every script value.
// Exactly one of the fields below is meaningful at a time, selected by
// Kind; the rest are zero.
type Value struct {
	Kind Kind

	Bool    bool
	Int     int64
	Float   float64
	InfSign int // +1 or -1, only meaningful when Kind == KindInfinity
	Str     string

	Func   *FuncBody  // KindFunction
	Native NativeFunc // KindNativeFunction
	UserData any

	Get *Value // KindAccessor
	Set *Value // KindAccessor

	// ScopeKind is non-zero when this Value is also serving as a scope
	// record (spec §4.4): scopes are ordinary Objects with a few
	// hidden links (parent/closure/with), not a separate type.
	ScopeKind ScopeKind

	Proto *Value

	props map[string]*Link
	order []string

	refs         int
	internalRefs int
	cycleSet     *gc.Set
}

// --- constructors -----------------------------------------------------

func Undefined() *Value { return &Value{Kind: KindUndefined} }
func Null() *Value       { return &Value{Kind: KindNull} }

func Bool(b bool) *Value { return &Value{Kind: KindBoolean, Bool: b} }
func Int(i int64) *Value { return &Value{Kind: KindInteger, Int: i} }
func Double(f float64) *Value { return &Value{Kind: KindDouble, Float: f} }
func NaNValue() *Value        { return &Value{Kind: KindNaN} }

// Infinity returns the signed Infinity variant; sign should be +1 or
// -1, matching spec §3's "Infinity (with sign)".
func Infinity(sign int) *Value {
	if sign < 0 {
		sign = -1
	} else {
		sign = 1
	}
	return &Value{Kind: KindInfinity, InfSign: sign}
}

func String(s string) *Value { return &Value{Kind: KindString, Str: s} }

// NewObject creates an empty Object and, unless suppressed, installs
// its `__proto__` link automatically (spec §3's "a `__proto__` link
// inserted automatically on construction unless explicitly
// suppressed").
func NewObject(proto *Value) *Value {
	v := &Value{Kind: KindObject}
	if proto != nil {
		v.Proto = proto
	}
	return v
}

// NewArray creates an empty Array. Its `length` accessor is expected
// to be planted by the caller (the Array prototype wiring in
// internal/builtins), since spec §3 defines length as "an Accessor
// whose getter reports (highest numeric index + 1)" rather than a
// field on Value itself.
func NewArray(proto *Value) *Value {
	v := &Value{Kind: KindArray}
	if proto != nil {
		v.Proto = proto
	}
	return v
}

func NewFunction(desc *token.FuncDescriptor, closure *Value, proto *Value, bodyTokens []token.Token) *Value {
	return &Value{Kind: KindFunction, Func: &FuncBody{Descriptor: desc, Closure: closure, BodyTokens: bodyTokens}, Proto: proto}
}

func NewNative(fn NativeFunc, userData any, proto *Value) *Value {
	return &Value{Kind: KindNativeFunction, Native: fn, UserData: userData, Proto: proto}
}

// NewAccessor builds an accessor pair; either get or set may be nil,
// per spec invariant 5 ("holds at most two links named get and set").
func NewAccessor(get, set *Value) *Value {
	return &Value{Kind: KindAccessor, Get: get, Set: set}
}

// --- type tests (spec §4.3) -------------------------------------------

func (v *Value) IsInt() bool       { return v.Kind == KindInteger }
func (v *Value) IsDouble() bool    { return v.Kind == KindDouble }
func (v *Value) IsNumber() bool    { return v.Kind == KindInteger || v.Kind == KindDouble || v.Kind == KindNaN || v.Kind == KindInfinity }
func (v *Value) IsNumeric() bool   { return v.IsNumber() || v.Kind == KindBoolean || v.Kind == KindNull }
func (v *Value) IsString() bool    { return v.Kind == KindString }
func (v *Value) IsFunction() bool  { return v.Kind == KindFunction || v.Kind == KindNativeFunction }
func (v *Value) IsObject() bool    { return v.Kind == KindObject }
func (v *Value) IsArray() bool     { return v.Kind == KindArray }
func (v *Value) IsNative() bool    { return v.Kind == KindNativeFunction }
func (v *Value) IsUndefined() bool { return v.Kind == KindUndefined }
func (v *Value) IsNull() bool      { return v.Kind == KindNull }
func (v *Value) IsNaN() bool       { return v.Kind == KindNaN }

// IsInfinity reports whether v is the Infinity variant and, if so, its
// sign (+1 or -1); the second return is false for any other variant.
func (v *Value) IsInfinity() (sign int, ok bool) {
	if v.Kind != KindInfinity {
		return 0, false
	}
	return v.InfSign, true
}

func (v *Value) IsAccessor() bool { return v.Kind == KindAccessor }

// --- gc.Node implementation --------------------------------------------

func (v *Value) Refs() int             { return v.refs }
func (v *Value) SetRefs(n int)         { v.refs = n }
func (v *Value) InternalRefs() int     { return v.internalRefs }
func (v *Value) SetInternalRefs(n int) { v.internalRefs = n }
func (v *Value) CycleSet() *gc.Set     { return v.cycleSet }
func (v *Value) SetCycleSet(s *gc.Set) { v.cycleSet = s }

// Children returns every value reachable through v's own outgoing
// edges: its property links, its prototype, and (for function values)
// its closure scope — the full set the cycle collector must walk.
func (v *Value) Children() []gc.Node {
	var out []gc.Node
	for _, name := range v.order {
		link := v.props[name]
		if link != nil && link.Value != nil {
			out = append(out, link.Value)
		}
	}
	if v.Proto != nil {
		out = append(out, v.Proto)
	}
	if v.Func != nil && v.Func.Closure != nil {
		out = append(out, v.Func.Closure)
	}
	if v.Get != nil {
		out = append(out, v.Get)
	}
	if v.Set != nil {
		out = append(out, v.Set)
	}
	return out
}

// OnFreed clears v's own child table once the collector has determined
// v (or its cycle set) is unreachable, dropping v's own refs on each
// child so chains of freed values unwind.
func (v *Value) OnFreed() {
	for _, name := range v.order {
		link := v.props[name]
		if link != nil && link.Value != nil {
			gc.Unref(link.Value)
		}
	}
	v.props = nil
	v.order = nil
	v.Proto = nil
}
