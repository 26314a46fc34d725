package tinyjs

import (
	"regexp"
	"strings"

	juju "github.com/juju/errors"

	"github.com/tinyjs-go/tinyjs/internal/runtime"
)

// signaturePattern parses the embedding API's native-function
// signature grammar from spec §6: `function [Receiver.prototype.]name
// (p1, p2, ...)`. Only the receiver and name are semantically used:
// the parameter list is accepted but its names are not bound in the
// activation scope, so a native callback reads its arguments by
// position from activation.Arguments() (ParamNames splits the list for
// a callback that wants the names).
var signaturePattern = regexp.MustCompile(`^\s*function\s+(?:([A-Za-z_$][\w$]*)\.prototype\.)?([A-Za-z_$][\w$]*)\s*\(([^)]*)\)\s*$`)

// RegisterNative implements spec §6's registerNative: it parses
// signature, installs a native-callback Value at the named path, and
// wires callback as that value's NativeFunc. Registering "function
// foo(a, b)" installs a free global; registering "function
// Array.prototype.sum()" installs onto an existing prototype. No
// intermediate objects are created: an unknown Receiver is an error.
func (e *Engine) RegisterNative(signature string, callback runtime.NativeFunc, userData any) error {
	m := signaturePattern.FindStringSubmatch(signature)
	if m == nil {
		return juju.Errorf("tinyjs: malformed native signature %q, want \"function [Receiver.prototype.]name(params)\"", signature)
	}
	receiver, name := m[1], m[2]

	value := runtime.NewNative(callback, userData, e.eval.Protos.Function)

	if receiver == "" {
		e.eval.Root.SetChild(name, value, runtime.DefaultAttrs)
		return nil
	}

	proto, err := e.receiverPrototype(receiver)
	if err != nil {
		return juju.Annotatef(err, "registering %q", signature)
	}
	proto.SetChild(name, value, runtime.DefaultAttrs)
	return nil
}

// receiverPrototype resolves "Object"/"Array"/"String"/"Number"/
// "Boolean"/"Function" to the corresponding Protos field, or a global
// constructor's own "prototype" link for anything else.
func (e *Engine) receiverPrototype(receiver string) (*runtime.Value, error) {
	switch receiver {
	case "Object":
		return e.eval.Protos.Object, nil
	case "Array":
		return e.eval.Protos.Array, nil
	case "String":
		return e.eval.Protos.String, nil
	case "Number":
		return e.eval.Protos.Number, nil
	case "Boolean":
		return e.eval.Protos.Boolean, nil
	case "Function":
		return e.eval.Protos.Function, nil
	}
	link, ok := e.eval.Root.FindChild(receiver)
	if !ok || link.Value == nil {
		return nil, juju.Errorf("unknown receiver %q", receiver)
	}
	protoLink, ok := link.Value.FindChild("prototype")
	if !ok || protoLink.Value == nil {
		return nil, juju.Errorf("receiver %q has no prototype", receiver)
	}
	return protoLink.Value, nil
}

// ParamNames splits a registerNative parameter list into trimmed
// names, for a callback that wants to bind args[i] to its declared
// parameter names the way a script function would.
func ParamNames(signature string) []string {
	m := signaturePattern.FindStringSubmatch(signature)
	if m == nil || strings.TrimSpace(m[3]) == "" {
		return nil
	}
	parts := strings.Split(m[3], ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
