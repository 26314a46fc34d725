package interp

import (
	"strconv"

	"github.com/tinyjs-go/tinyjs/internal/runtime"
	"github.com/tinyjs-go/tinyjs/internal/token"
)

// Every level below threads an `exec` flag rather than building an AST
// up front and walking it twice: the evaluator always advances the
// token cursor (so it can resume correctly afterward) but only
// performs side-effecting work — assignment, calls, property writes —
// when exec is true. This is how `a && f()` or `cond ? f() : g()`
// short-circuit without a separate static pass, mirroring the
// original engine's `bool &execute` parameter threaded through every
// grammar rule (see spec §4.5, §9's "exceptions for control flow" note).

func (e *Evaluator) evalExpr(exec bool) (*ref, error) { return e.evalComma(exec) }

func (e *Evaluator) evalComma(exec bool) (*ref, error) {
	r, err := e.evalAssign(exec)
	if err != nil {
		return nil, err
	}
	for e.curKind() == token.COMMA {
		e.next()
		r, err = e.evalAssign(exec)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

var compoundOps = map[token.Kind]token.Kind{
	token.PLUS_ASSIGN:    token.PLUS,
	token.MINUS_ASSIGN:   token.MINUS,
	token.STAR_ASSIGN:    token.STAR,
	token.SLASH_ASSIGN:   token.SLASH,
	token.PERCENT_ASSIGN: token.PERCENT,
	token.AMP_ASSIGN:     token.AMP,
	token.PIPE_ASSIGN:    token.PIPE,
	token.CARET_ASSIGN:   token.CARET,
	token.SHL_ASSIGN:     token.SHL,
	token.SHR_ASSIGN:     token.SHR,
	token.USHR_ASSIGN:    token.USHR,
}

func (e *Evaluator) evalAssign(exec bool) (*ref, error) {
	left, err := e.evalCond(exec)
	if err != nil {
		return nil, err
	}
	if e.curKind() == token.ASSIGN {
		e.next()
		right, err := e.evalAssign(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			return valueRef(runtime.Undefined()), nil
		}
		val, err := e.get(right)
		if err != nil {
			return nil, err
		}
		if err := e.set(left, val); err != nil {
			return nil, err
		}
		return valueRef(val), nil
	}
	if base, ok := compoundOps[e.curKind()]; ok {
		e.next()
		right, err := e.evalAssign(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			return valueRef(runtime.Undefined()), nil
		}
		leftVal, err := e.get(left)
		if err != nil {
			return nil, err
		}
		rightVal, err := e.get(right)
		if err != nil {
			return nil, err
		}
		result := runtime.MathsOp(leftVal, rightVal, base)
		if err := e.set(left, result); err != nil {
			return nil, err
		}
		return valueRef(result), nil
	}
	return left, nil
}

// evalCond implements the `?:` conditional, evaluating only the taken
// branch (the other is parsed with exec=false so the cursor still ends
// up in the right place, per spec §9's control-flow note).
func (e *Evaluator) evalCond(exec bool) (*ref, error) {
	cond, err := e.evalOrOr(exec)
	if err != nil {
		return nil, err
	}
	if e.curKind() != token.QUESTION {
		return cond, nil
	}
	e.next()
	condVal, err := e.get(cond)
	if err != nil {
		return nil, err
	}
	takeThen := exec && runtime.ToBool(condVal)
	thenRef, err := e.evalAssign(takeThen)
	if err != nil {
		return nil, err
	}
	if _, err := e.expect(token.COLON); err != nil {
		return nil, err
	}
	takeElse := exec && !runtime.ToBool(condVal)
	elseRef, err := e.evalAssign(takeElse)
	if err != nil {
		return nil, err
	}
	if !exec {
		return valueRef(runtime.Undefined()), nil
	}
	if runtime.ToBool(condVal) {
		v, err := e.get(thenRef)
		return valueRef(v), err
	}
	v, err := e.get(elseRef)
	return valueRef(v), err
}

func (e *Evaluator) evalOrOr(exec bool) (*ref, error) {
	left, err := e.evalAndAnd(exec)
	if err != nil {
		return nil, err
	}
	for e.curKind() == token.OR_OR {
		e.next()
		leftVal, err := e.get(left)
		if err != nil {
			return nil, err
		}
		childExec := exec && !runtime.ToBool(leftVal)
		right, err := e.evalAndAnd(childExec)
		if err != nil {
			return nil, err
		}
		if !exec {
			left = valueRef(runtime.Undefined())
			continue
		}
		if runtime.ToBool(leftVal) {
			left = valueRef(leftVal)
			continue
		}
		rightVal, err := e.get(right)
		if err != nil {
			return nil, err
		}
		left = valueRef(rightVal)
	}
	return left, nil
}

func (e *Evaluator) evalAndAnd(exec bool) (*ref, error) {
	left, err := e.evalBitOr(exec)
	if err != nil {
		return nil, err
	}
	for e.curKind() == token.AND_AND {
		e.next()
		leftVal, err := e.get(left)
		if err != nil {
			return nil, err
		}
		childExec := exec && runtime.ToBool(leftVal)
		right, err := e.evalBitOr(childExec)
		if err != nil {
			return nil, err
		}
		if !exec {
			left = valueRef(runtime.Undefined())
			continue
		}
		if !runtime.ToBool(leftVal) {
			left = valueRef(leftVal)
			continue
		}
		rightVal, err := e.get(right)
		if err != nil {
			return nil, err
		}
		left = valueRef(rightVal)
	}
	return left, nil
}

// binaryLevel implements a left-associative precedence level whose
// operators are all handled directly by runtime.MathsOp.
func (e *Evaluator) binaryLevel(exec bool, next func(bool) (*ref, error), ops ...token.Kind) (*ref, error) {
	left, err := next(exec)
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, op := range ops {
			if e.curKind() == op {
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
		op := e.next().Kind
		leftVal, err := e.get(left)
		if err != nil {
			return nil, err
		}
		right, err := next(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			left = valueRef(runtime.Undefined())
			continue
		}
		rightVal, err := e.get(right)
		if err != nil {
			return nil, err
		}
		left = valueRef(runtime.MathsOp(leftVal, rightVal, op))
	}
}

func (e *Evaluator) evalBitOr(exec bool) (*ref, error) {
	return e.binaryLevel(exec, e.evalBitXor, token.PIPE)
}
func (e *Evaluator) evalBitXor(exec bool) (*ref, error) {
	return e.binaryLevel(exec, e.evalBitAnd, token.CARET)
}
func (e *Evaluator) evalBitAnd(exec bool) (*ref, error) {
	return e.binaryLevel(exec, e.evalEquality, token.AMP)
}
func (e *Evaluator) evalEquality(exec bool) (*ref, error) {
	return e.binaryLevel(exec, e.evalRelational, token.EQ, token.NEQ, token.SEQ, token.SNEQ)
}

// evalRelational handles <,>,<=,>= alongside `in`/`instanceof`, which
// share the same precedence level in spec §4.5 but aren't ordinary
// MathsOp dispatches.
func (e *Evaluator) evalRelational(exec bool) (*ref, error) {
	left, err := e.evalShift(exec)
	if err != nil {
		return nil, err
	}
	for {
		switch e.curKind() {
		case token.LT, token.GT, token.LE, token.GE:
			op := e.next().Kind
			leftVal, err := e.get(left)
			if err != nil {
				return nil, err
			}
			right, err := e.evalShift(exec)
			if err != nil {
				return nil, err
			}
			if !exec {
				left = valueRef(runtime.Undefined())
				continue
			}
			rightVal, err := e.get(right)
			if err != nil {
				return nil, err
			}
			left = valueRef(runtime.MathsOp(leftVal, rightVal, op))
		case token.IN:
			e.next()
			leftVal, err := e.get(left)
			if err != nil {
				return nil, err
			}
			right, err := e.evalShift(exec)
			if err != nil {
				return nil, err
			}
			if !exec {
				left = valueRef(runtime.Undefined())
				continue
			}
			rightVal, err := e.get(right)
			if err != nil {
				return nil, err
			}
			_, found := rightVal.FindInPrototypeChain(runtime.ToString(leftVal))
			left = valueRef(runtime.Bool(found))
		case token.INSTANCEOF:
			e.next()
			leftVal, err := e.get(left)
			if err != nil {
				return nil, err
			}
			right, err := e.evalShift(exec)
			if err != nil {
				return nil, err
			}
			if !exec {
				left = valueRef(runtime.Undefined())
				continue
			}
			rightVal, err := e.get(right)
			if err != nil {
				return nil, err
			}
			left = valueRef(runtime.Bool(runtime.InstanceOf(leftVal, rightVal)))
		default:
			return left, nil
		}
	}
}

func (e *Evaluator) evalShift(exec bool) (*ref, error) {
	return e.binaryLevel(exec, e.evalAdditive, token.SHL, token.SHR, token.USHR)
}
func (e *Evaluator) evalAdditive(exec bool) (*ref, error) {
	return e.binaryLevel(exec, e.evalMultiplicative, token.PLUS, token.MINUS)
}
func (e *Evaluator) evalMultiplicative(exec bool) (*ref, error) {
	return e.binaryLevel(exec, e.evalUnary, token.STAR, token.SLASH, token.PERCENT)
}

func (e *Evaluator) evalUnary(exec bool) (*ref, error) {
	switch e.curKind() {
	case token.BANG:
		e.next()
		r, err := e.evalUnary(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			return valueRef(runtime.Undefined()), nil
		}
		v, err := e.get(r)
		if err != nil {
			return nil, err
		}
		return valueRef(runtime.Bool(!runtime.ToBool(v))), nil
	case token.TILDE:
		e.next()
		r, err := e.evalUnary(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			return valueRef(runtime.Undefined()), nil
		}
		v, err := e.get(r)
		if err != nil {
			return nil, err
		}
		return valueRef(runtime.BitwiseNot(v)), nil
	case token.MINUS:
		e.next()
		r, err := e.evalUnary(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			return valueRef(runtime.Undefined()), nil
		}
		v, err := e.get(r)
		if err != nil {
			return nil, err
		}
		return valueRef(runtime.Negate(v)), nil
	case token.PLUS:
		e.next()
		r, err := e.evalUnary(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			return valueRef(runtime.Undefined()), nil
		}
		v, err := e.get(r)
		if err != nil {
			return nil, err
		}
		return valueRef(runtime.ToNumber(v)), nil
	case token.TYPEOF:
		e.next()
		r, err := e.evalUnary(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			return valueRef(runtime.String("undefined")), nil
		}
		v, err := e.get(r)
		if err != nil {
			return nil, err
		}
		return valueRef(runtime.String(v.Kind.TypeOf())), nil
	case token.VOID:
		e.next()
		if _, err := e.evalUnary(exec); err != nil {
			return nil, err
		}
		return valueRef(runtime.Undefined()), nil
	case token.DELETE:
		e.next()
		r, err := e.evalUnary(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			return valueRef(runtime.Bool(false)), nil
		}
		return valueRef(runtime.Bool(e.deleteRef(r))), nil
	case token.INC, token.DEC:
		op := e.next().Kind
		r, err := e.evalUnary(exec)
		if err != nil {
			return nil, err
		}
		if !exec {
			return valueRef(runtime.Undefined()), nil
		}
		v, err := e.get(r)
		if err != nil {
			return nil, err
		}
		delta := token.PLUS
		if op == token.DEC {
			delta = token.MINUS
		}
		nv := runtime.MathsOp(v, runtime.Int(1), delta)
		if err := e.set(r, nv); err != nil {
			return nil, err
		}
		return valueRef(nv), nil
	default:
		return e.evalPostfix(exec)
	}
}

func (e *Evaluator) evalPostfix(exec bool) (*ref, error) {
	r, err := e.evalCallChain(exec)
	if err != nil {
		return nil, err
	}
	switch e.curKind() {
	case token.INC, token.DEC:
		op := e.next().Kind
		if !exec {
			return valueRef(runtime.Undefined()), nil
		}
		v, err := e.get(r)
		if err != nil {
			return nil, err
		}
		delta := token.PLUS
		if op == token.DEC {
			delta = token.MINUS
		}
		nv := runtime.MathsOp(v, runtime.Int(1), delta)
		if err := e.set(r, nv); err != nil {
			return nil, err
		}
		return valueRef(v), nil
	}
	return r, nil
}

// evalCallChain handles the member/call precedence level: `.name`,
// `[expr]`, and `(args)` applied left-to-right to whatever evalPrimary
// produced (spec §4.5's function-call protocol, steps 1-3).
func (e *Evaluator) evalCallChain(exec bool) (*ref, error) {
	r, err := e.evalPrimary(exec)
	if err != nil {
		return nil, err
	}
	for {
		switch e.curKind() {
		case token.DOT:
			e.next()
			nameTok := e.next()
			if !exec {
				r = valueRef(runtime.Undefined())
				continue
			}
			obj, err := e.get(r)
			if err != nil {
				return nil, err
			}
			r = &ref{kind: refMember, owner: obj, name: propKeyName(nameTok)}
		case token.LBRACKET:
			e.next()
			idxRef, err := e.evalExpr(exec)
			if err != nil {
				return nil, err
			}
			if _, err := e.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			if !exec {
				r = valueRef(runtime.Undefined())
				continue
			}
			obj, err := e.get(r)
			if err != nil {
				return nil, err
			}
			idxVal, err := e.get(idxRef)
			if err != nil {
				return nil, err
			}
			r = &ref{kind: refMember, owner: obj, name: runtime.ToString(idxVal)}
		case token.LPAREN:
			args, err := e.parseArgs(exec)
			if err != nil {
				return nil, err
			}
			if !exec {
				r = valueRef(runtime.Undefined())
				continue
			}
			callee, err := e.get(r)
			if err != nil {
				return nil, err
			}
			this := e.Root
			if r.kind == refMember {
				this = r.owner
			}
			result, err := e.callValue(callee, this, args)
			if err != nil {
				return nil, err
			}
			r = valueRef(result)
		default:
			return r, nil
		}
	}
}

func (e *Evaluator) parseArgs(exec bool) ([]*runtime.Value, error) {
	if _, err := e.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []*runtime.Value
	for e.curKind() != token.RPAREN && e.curKind() != token.EOF {
		r, err := e.evalAssign(exec)
		if err != nil {
			return nil, err
		}
		if exec {
			v, err := e.get(r)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		if e.curKind() == token.COMMA {
			e.next()
			continue
		}
		break
	}
	if _, err := e.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (e *Evaluator) evalPrimary(exec bool) (*ref, error) {
	t := e.cur()
	switch t.Kind {
	case token.INT:
		e.next()
		return valueRef(runtime.Int(t.IntVal)), nil
	case token.FLOAT:
		e.next()
		return valueRef(runtime.Double(t.FloatVal)), nil
	case token.STRING:
		e.next()
		return valueRef(runtime.String(t.StrVal)), nil
	case token.TRUE:
		e.next()
		return valueRef(runtime.Bool(true)), nil
	case token.FALSE:
		e.next()
		return valueRef(runtime.Bool(false)), nil
	case token.NULL:
		e.next()
		return valueRef(runtime.Null()), nil
	case token.UNDEFINED:
		e.next()
		return valueRef(runtime.Undefined()), nil
	case token.INFINITY:
		e.next()
		return valueRef(runtime.Infinity(1)), nil
	case token.NAN:
		e.next()
		return valueRef(runtime.NaNValue()), nil
	case token.THIS:
		e.next()
		return valueRef(e.Scope.This()), nil
	case token.IDENT:
		e.next()
		return &ref{kind: refScope, scope: e.Scope, name: t.StrVal}, nil
	case token.LPAREN:
		e.next()
		r, err := e.evalExpr(exec)
		if err != nil {
			return nil, err
		}
		if _, err := e.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return r, nil
	case token.LBRACKET:
		return e.evalArrayLiteral(exec)
	case token.LBRACE:
		return e.evalObjectLiteral(exec)
	case token.FUNCTION:
		return e.evalFunctionLiteral(exec)
	case token.NEW:
		return e.evalNew(exec)
	default:
		return nil, e.parseErrorf("unexpected token %s", t.Kind)
	}
}

func (e *Evaluator) evalArrayLiteral(exec bool) (*ref, error) {
	e.next() // consume [
	var arr *runtime.Value
	if exec {
		arr = runtime.NewArray(e.Protos.Array)
	}
	idx := int64(0)
	for e.curKind() != token.RBRACKET && e.curKind() != token.EOF {
		if e.curKind() == token.COMMA {
			e.next()
			idx++
			continue
		}
		r, err := e.evalAssign(exec)
		if err != nil {
			return nil, err
		}
		if exec {
			v, err := e.get(r)
			if err != nil {
				return nil, err
			}
			arr.SetChild(strconv.FormatInt(idx, 10), v, runtime.DefaultAttrs)
		}
		idx++
		if e.curKind() == token.COMMA {
			e.next()
			continue
		}
		break
	}
	if _, err := e.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return valueRef(arr), nil
}

func propKeyName(t token.Token) string {
	switch t.Kind {
	case token.STRING:
		return t.StrVal
	case token.INT:
		return strconv.FormatInt(t.IntVal, 10)
	default:
		return t.StrVal
	}
}

func (e *Evaluator) peekAt(offset int) token.Token {
	idx := e.pos + offset
	if idx < 0 || idx >= len(e.Stream.Tokens) {
		return token.Token{Kind: token.EOF}
	}
	return e.Stream.Tokens[idx]
}

func (e *Evaluator) peekAccessorKeyword() (isGet, isSet bool) {
	if e.curKind() != token.IDENT {
		return false, false
	}
	word := e.cur().StrVal
	if word != "get" && word != "set" {
		return false, false
	}
	nxt := e.peekAt(1)
	if nxt.Kind != token.IDENT && nxt.Kind != token.STRING {
		return false, false
	}
	if e.peekAt(2).Kind != token.LPAREN {
		return false, false
	}
	return word == "get", word == "set"
}

func (e *Evaluator) evalObjectLiteral(exec bool) (*ref, error) {
	e.next() // consume {
	var obj *runtime.Value
	if exec {
		obj = runtime.NewObject(e.Protos.Object)
	}
	for e.curKind() != token.RBRACE && e.curKind() != token.EOF {
		isGet, isSet := e.peekAccessorKeyword()
		if isGet || isSet {
			e.next() // consume get/set
			nameTok := e.next()
			name := propKeyName(nameTok)
			fnVal, err := e.parseInlineFunctionValue(exec)
			if err != nil {
				return nil, err
			}
			if exec {
				var getV, setV *runtime.Value
				if existing, ok := obj.FindChild(name); ok && existing.Value != nil && existing.Value.IsAccessor() {
					getV, setV = existing.Value.Get, existing.Value.Set
				}
				if isGet {
					getV = fnVal
				} else {
					setV = fnVal
				}
				obj.SetChild(name, runtime.NewAccessor(getV, setV), runtime.DefaultAttrs)
			}
		} else {
			nameTok := e.next()
			name := propKeyName(nameTok)
			if _, err := e.expect(token.COLON); err != nil {
				return nil, err
			}
			r, err := e.evalAssign(exec)
			if err != nil {
				return nil, err
			}
			if exec {
				v, err := e.get(r)
				if err != nil {
					return nil, err
				}
				obj.SetChild(name, v, runtime.DefaultAttrs)
			}
		}
		if e.curKind() == token.COMMA {
			e.next()
			continue
		}
		break
	}
	if _, err := e.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return valueRef(obj), nil
}

// evalFunctionLiteral handles a `function` token in expression
// position, whether named or anonymous. The tokenizer pre-pass has
// already built its FuncDescriptor (spec §4.2); the evaluator only
// needs to capture the current scope as its closure and skip the
// cursor past the whole literal.
func (e *Evaluator) evalFunctionLiteral(exec bool) (*ref, error) {
	desc := e.cur().Func
	if desc == nil {
		return nil, e.parseErrorf("malformed function literal")
	}
	e.pos = desc.BodyHi + 1
	if !exec {
		return valueRef(runtime.Undefined()), nil
	}
	return valueRef(runtime.NewFunction(desc, e.Scope, e.Protos.Function, e.Stream.Tokens[desc.BodyLo:desc.BodyHi])), nil
}

// parseInlineFunctionValue parses a bare `(params){body}` that was not
// preceded by a `function` keyword — the shape object-literal
// get/set accessors use — building its FuncDescriptor on the fly from
// the Stream's bracket-matching tables.
func (e *Evaluator) parseInlineFunctionValue(exec bool) (*runtime.Value, error) {
	parenIdx := e.pos
	if e.curKind() != token.LPAREN {
		return nil, e.parseErrorf("expected ( in accessor definition")
	}
	closeParen, ok := e.Stream.MatchingParen(parenIdx)
	if !ok {
		return nil, e.parseErrorf("malformed accessor parameter list")
	}
	var params []string
	for i := parenIdx + 1; i < closeParen; i++ {
		if e.Stream.Tokens[i].Kind == token.IDENT {
			params = append(params, e.Stream.Tokens[i].StrVal)
		}
	}
	braceIdx := closeParen + 1
	if braceIdx >= len(e.Stream.Tokens) || e.Stream.Tokens[braceIdx].Kind != token.LBRACE {
		return nil, e.parseErrorf("expected { in accessor body")
	}
	closeBrace, ok := e.Stream.MatchingBrace(braceIdx)
	if !ok {
		return nil, e.parseErrorf("malformed accessor body")
	}
	desc := &token.FuncDescriptor{
		Params: params,
		Pos:    e.Stream.Tokens[parenIdx].Pos,
		BodyLo: braceIdx + 1,
		BodyHi: closeBrace,
	}
	e.pos = closeBrace + 1
	if !exec {
		return runtime.Undefined(), nil
	}
	return runtime.NewFunction(desc, e.Scope, e.Protos.Function, e.Stream.Tokens[desc.BodyLo:desc.BodyHi]), nil
}

// evalNew implements `new Callee(args)` (spec §4.5): Callee is parsed
// as a member-access chain only (no call), so that the parens
// immediately following it are unambiguously the constructor's
// argument list rather than a call on Callee itself.
func (e *Evaluator) evalNew(exec bool) (*ref, error) {
	e.next() // consume NEW
	r, err := e.evalPrimary(exec)
	if err != nil {
		return nil, err
	}
memberLoop:
	for {
		switch e.curKind() {
		case token.DOT:
			e.next()
			nameTok := e.next()
			if !exec {
				continue
			}
			obj, err := e.get(r)
			if err != nil {
				return nil, err
			}
			r = &ref{kind: refMember, owner: obj, name: propKeyName(nameTok)}
		case token.LBRACKET:
			e.next()
			idxRef, err := e.evalExpr(exec)
			if err != nil {
				return nil, err
			}
			if _, err := e.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			if !exec {
				continue
			}
			obj, err := e.get(r)
			if err != nil {
				return nil, err
			}
			idxVal, err := e.get(idxRef)
			if err != nil {
				return nil, err
			}
			r = &ref{kind: refMember, owner: obj, name: runtime.ToString(idxVal)}
		default:
			break memberLoop
		}
	}

	var args []*runtime.Value
	if e.curKind() == token.LPAREN {
		a, err := e.parseArgs(exec)
		if err != nil {
			return nil, err
		}
		args = a
	}
	if !exec {
		return valueRef(runtime.Undefined()), nil
	}
	ctor, err := e.get(r)
	if err != nil {
		return nil, err
	}
	result, err := e.construct(ctor, args)
	if err != nil {
		return nil, err
	}
	return valueRef(result), nil
}
