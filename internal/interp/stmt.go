package interp

import (
	"github.com/tinyjs-go/tinyjs/internal/runtime"
	"github.com/tinyjs-go/tinyjs/internal/token"
)

// execBlock runs the statements in [lo, hi) — lo must already be the
// current cursor position — stopping and propagating as soon as any
// statement produces a non-SigNone signal (spec §4.5's unwinding
// model: break/continue/return/throw bubble through every nested
// block without the host language's own exception mechanism).
func (e *Evaluator) execBlock(lo, hi int) (Signal, *runtime.Value, error) {
	e.pos = lo
	for e.pos < hi {
		sig, val, err := e.execStatement()
		if err != nil {
			return SigNone, nil, err
		}
		if sig != SigNone {
			return sig, val, nil
		}
	}
	return SigNone, nil, nil
}

// execStatement executes exactly one statement starting at the current
// cursor and leaves the cursor just past it.
func (e *Evaluator) execStatement() (Signal, *runtime.Value, error) {
	if e.curKind() == token.IDENT && e.peekAt(1).Kind == token.COLON {
		// Label: spec's design note limits break/continue to the
		// innermost loop/switch, so a label is a no-op prefix here.
		e.next()
		e.next()
		return e.execStatement()
	}

	switch e.curKind() {
	case token.SEMICOLON:
		e.next()
		return SigNone, nil, nil
	case token.LBRACE:
		return e.execBraceBlock()
	case token.VAR:
		return e.execVarOrLet(false)
	case token.LET:
		return e.execVarOrLet(true)
	case token.FUNCTION:
		return e.execFunctionDecl()
	case token.IF:
		return e.execIf()
	case token.WHILE:
		return e.execWhile()
	case token.DO:
		return e.execDoWhile()
	case token.FOR, token.FOR_IN, token.FOR_EACH_IN:
		return e.execFor()
	case token.BREAK:
		e.next()
		e.accept(token.SEMICOLON)
		return SigBreak, nil, nil
	case token.CONTINUE:
		e.next()
		e.accept(token.SEMICOLON)
		return SigContinue, nil, nil
	case token.RETURN:
		e.next()
		var val *runtime.Value = runtime.Undefined()
		if e.curKind() != token.SEMICOLON && e.curKind() != token.RBRACE && e.curKind() != token.EOF {
			r, err := e.evalExpr(true)
			if err != nil {
				return SigNone, nil, err
			}
			v, err := e.get(r)
			if err != nil {
				return SigNone, nil, err
			}
			val = v
		}
		e.accept(token.SEMICOLON)
		return SigReturn, val, nil
	case token.THROW:
		e.next()
		r, err := e.evalExpr(true)
		if err != nil {
			return SigNone, nil, err
		}
		val, err := e.get(r)
		if err != nil {
			return SigNone, nil, err
		}
		e.accept(token.SEMICOLON)
		return SigThrow, val, nil
	case token.TRY:
		return e.execTry()
	case token.SWITCH:
		return e.execSwitch()
	case token.WITH:
		return e.execWith()
	default:
		r, err := e.evalExpr(true)
		if err != nil {
			return SigNone, nil, err
		}
		v, err := e.get(r)
		if err != nil {
			return SigNone, nil, err
		}
		e.Last = v
		e.accept(token.SEMICOLON)
		return SigNone, nil, nil
	}
}

// execBraceBlock executes `{ ... }` in a fresh let-scope, matching
// spec §4.4's "scopes are pushed on entering ... a let-scoped block".
func (e *Evaluator) execBraceBlock() (Signal, *runtime.Value, error) {
	braceIdx := e.pos
	closeBrace, ok := e.Stream.MatchingBrace(braceIdx)
	if !ok {
		return SigNone, nil, e.parseErrorf("unmatched {")
	}
	letScope := runtime.NewLetScope(e.Scope)
	prev := e.pushScope(letScope)
	sig, val, err := e.execBlock(braceIdx+1, closeBrace)
	e.popScope(prev)
	e.pos = closeBrace + 1
	return sig, val, err
}

// execVarOrLet handles both the head-hoisted bare `var name;` form
// hoisting produces and the general
// `var|let name [= expr] (, name [= expr])*;` form, which every `let`
// statement takes (hoisting rewrites only `var`) and which also covers
// a `var` that reaches the evaluator un-rewritten.
func (e *Evaluator) execVarOrLet(isLet bool) (Signal, *runtime.Value, error) {
	e.next() // consume VAR/LET
	for {
		nameTok, err := e.expect(token.IDENT)
		if err != nil {
			return SigNone, nil, err
		}
		val := runtime.Undefined()
		if e.accept(token.ASSIGN) {
			r, err := e.evalAssign(true)
			if err != nil {
				return SigNone, nil, err
			}
			v, err := e.get(r)
			if err != nil {
				return SigNone, nil, err
			}
			val = v
		}
		if isLet {
			runtime.DeclareLet(e.Scope, nameTok.StrVal, val)
		} else {
			runtime.DeclareVar(e.Scope, nameTok.StrVal, val)
		}
		if e.accept(token.COMMA) {
			continue
		}
		break
	}
	e.accept(token.SEMICOLON)
	return SigNone, nil, nil
}

// execFunctionDecl handles a `function` token reached in statement
// position: a named declaration there has normally been moved to the
// head of its enclosing function (or of the program) by the hoisting
// pass (spec §4.2). It always (re)binds its name on the nearest var
// scope, unlike a plain `var`.
func (e *Evaluator) execFunctionDecl() (Signal, *runtime.Value, error) {
	desc := e.cur().Func
	if desc == nil {
		return SigNone, nil, e.parseErrorf("malformed function declaration")
	}
	e.pos = desc.BodyHi + 1
	fn := runtime.NewFunction(desc, e.Scope, e.Protos.Function, e.Stream.Tokens[desc.BodyLo:desc.BodyHi])
	runtime.DeclareFunction(e.Scope, desc.Name, fn)
	return SigNone, nil, nil
}

func (e *Evaluator) execIf() (Signal, *runtime.Value, error) {
	ifIdx := e.pos
	skip := e.Stream.Tokens[ifIdx].Skip
	e.next() // consume IF
	if _, err := e.expect(token.LPAREN); err != nil {
		return SigNone, nil, err
	}
	condRef, err := e.evalExpr(true)
	if err != nil {
		return SigNone, nil, err
	}
	if _, err := e.expect(token.RPAREN); err != nil {
		return SigNone, nil, err
	}
	condVal, err := e.get(condRef)
	if err != nil {
		return SigNone, nil, err
	}

	if runtime.ToBool(condVal) {
		sig, val, err := e.execStatement()
		if err != nil {
			return SigNone, nil, err
		}
		if sig != SigNone {
			return sig, val, nil
		}
		if e.curKind() == token.ELSE {
			elseIdx := e.pos
			e.pos = elseIdx + e.Stream.Tokens[elseIdx].Skip
		}
		return SigNone, nil, nil
	}

	e.pos = ifIdx + skip
	if e.curKind() == token.ELSE {
		e.next()
		return e.execStatement()
	}
	return SigNone, nil, nil
}

func (e *Evaluator) execWhile() (Signal, *runtime.Value, error) {
	whileIdx := e.pos
	endPos := whileIdx + e.Stream.Tokens[whileIdx].Skip
	e.next() // consume WHILE
	condStart := e.pos
	iterations := 0
	for {
		e.pos = condStart
		if _, err := e.expect(token.LPAREN); err != nil {
			return SigNone, nil, err
		}
		condRef, err := e.evalExpr(true)
		if err != nil {
			return SigNone, nil, err
		}
		if _, err := e.expect(token.RPAREN); err != nil {
			return SigNone, nil, err
		}
		condVal, err := e.get(condRef)
		if err != nil {
			return SigNone, nil, err
		}
		if !runtime.ToBool(condVal) {
			break
		}
		iterations++
		if iterations > e.LoopLimit {
			return SigNone, nil, e.engineError("LOOP_ERROR: loop limit exceeded")
		}
		sig, val, err := e.execStatement()
		if err != nil {
			return SigNone, nil, err
		}
		switch sig {
		case SigBreak:
			e.pos = endPos
			return SigNone, nil, nil
		case SigReturn, SigThrow:
			return sig, val, nil
		}
	}
	e.pos = endPos
	return SigNone, nil, nil
}

func (e *Evaluator) execDoWhile() (Signal, *runtime.Value, error) {
	doIdx := e.pos
	endPos := doIdx + e.Stream.Tokens[doIdx].Skip
	e.next() // consume DO
	bodyStart := e.pos
	iterations := 0
	for {
		e.pos = bodyStart
		iterations++
		if iterations > e.LoopLimit {
			return SigNone, nil, e.engineError("LOOP_ERROR: loop limit exceeded")
		}
		sig, val, err := e.execStatement()
		if err != nil {
			return SigNone, nil, err
		}
		switch sig {
		case SigBreak:
			e.pos = endPos
			return SigNone, nil, nil
		case SigReturn, SigThrow:
			return sig, val, nil
		}
		if _, err := e.expect(token.WHILE); err != nil {
			return SigNone, nil, err
		}
		if _, err := e.expect(token.LPAREN); err != nil {
			return SigNone, nil, err
		}
		condRef, err := e.evalExpr(true)
		if err != nil {
			return SigNone, nil, err
		}
		if _, err := e.expect(token.RPAREN); err != nil {
			return SigNone, nil, err
		}
		condVal, err := e.get(condRef)
		if err != nil {
			return SigNone, nil, err
		}
		e.accept(token.SEMICOLON)
		if !runtime.ToBool(condVal) {
			break
		}
	}
	e.pos = endPos
	return SigNone, nil, nil
}

func (e *Evaluator) findTopLevelSemicolon(from, limit int) int {
	depth := 0
	for i := from; i < limit; i++ {
		switch e.Stream.Tokens[i].Kind {
		case token.LPAREN, token.LBRACE, token.LBRACKET:
			depth++
		case token.RPAREN, token.RBRACE, token.RBRACKET:
			depth--
		case token.SEMICOLON:
			if depth == 0 {
				return i
			}
		}
	}
	return limit
}

func (e *Evaluator) execFor() (Signal, *runtime.Value, error) {
	forIdx := e.pos
	kind := e.curKind()
	endPos := forIdx + e.Stream.Tokens[forIdx].Skip
	e.next() // consume FOR/FOR_IN/FOR_EACH_IN

	if kind == token.FOR_EACH_IN {
		e.accept(token.IDENT) // the contextual "each"
	}

	parenIdx := e.pos
	if _, err := e.expect(token.LPAREN); err != nil {
		return SigNone, nil, err
	}

	if kind == token.FOR_IN || kind == token.FOR_EACH_IN {
		return e.execForIn(kind, endPos)
	}

	closeParen, ok := e.Stream.MatchingParen(parenIdx)
	if !ok {
		return SigNone, nil, e.parseErrorf("malformed for header")
	}
	bodyStart := closeParen + 1

	if err := e.execForInit(); err != nil {
		return SigNone, nil, err
	}
	if _, err := e.expect(token.SEMICOLON); err != nil {
		return SigNone, nil, err
	}
	condStart := e.pos
	condEnd := e.findTopLevelSemicolon(condStart, closeParen)
	iterStart := condEnd + 1
	iterEnd := closeParen

	iterations := 0
	for {
		e.pos = condStart
		condVal := runtime.Bool(true)
		if condStart < condEnd {
			r, err := e.evalExpr(true)
			if err != nil {
				return SigNone, nil, err
			}
			v, err := e.get(r)
			if err != nil {
				return SigNone, nil, err
			}
			condVal = v
		}
		if !runtime.ToBool(condVal) {
			break
		}
		iterations++
		if iterations > e.LoopLimit {
			return SigNone, nil, e.engineError("LOOP_ERROR: loop limit exceeded")
		}
		e.pos = bodyStart
		sig, val, err := e.execStatement()
		if err != nil {
			return SigNone, nil, err
		}
		if sig == SigBreak {
			e.pos = endPos
			return SigNone, nil, nil
		}
		if sig == SigReturn || sig == SigThrow {
			return sig, val, nil
		}
		if iterStart < iterEnd {
			e.pos = iterStart
			if _, err := e.evalExpr(true); err != nil {
				return SigNone, nil, err
			}
		}
	}
	e.pos = endPos
	return SigNone, nil, nil
}

func (e *Evaluator) execForInit() error {
	switch e.curKind() {
	case token.SEMICOLON:
		return nil
	case token.LET, token.VAR:
		isLet := e.curKind() == token.LET
		e.next()
		for {
			nameTok, err := e.expect(token.IDENT)
			if err != nil {
				return err
			}
			val := runtime.Undefined()
			if e.accept(token.ASSIGN) {
				r, err := e.evalAssign(true)
				if err != nil {
					return err
				}
				v, err := e.get(r)
				if err != nil {
					return err
				}
				val = v
			}
			if isLet {
				runtime.DeclareLet(e.Scope, nameTok.StrVal, val)
			} else {
				runtime.DeclareVar(e.Scope, nameTok.StrVal, val)
			}
			if e.accept(token.COMMA) {
				continue
			}
			break
		}
		return nil
	default:
		_, err := e.evalExpr(true)
		return err
	}
}

// execForIn implements both `for (x in obj)` (x bound to each
// enumerable own property name) and `for each (x in obj)` (x bound to
// each value), per spec invariant 6.
func (e *Evaluator) execForIn(kind token.Kind, endPos int) (Signal, *runtime.Value, error) {
	var bindName string
	isLet := false
	switch e.curKind() {
	case token.VAR:
		e.next()
		nameTok, err := e.expect(token.IDENT)
		if err != nil {
			return SigNone, nil, err
		}
		bindName = nameTok.StrVal
		runtime.DeclareVar(e.Scope, bindName, runtime.Undefined())
	case token.LET:
		e.next()
		nameTok, err := e.expect(token.IDENT)
		if err != nil {
			return SigNone, nil, err
		}
		bindName = nameTok.StrVal
		isLet = true
		runtime.DeclareLet(e.Scope, bindName, runtime.Undefined())
	default:
		nameTok, err := e.expect(token.IDENT)
		if err != nil {
			return SigNone, nil, err
		}
		bindName = nameTok.StrVal
	}
	if _, err := e.expect(token.IN); err != nil {
		return SigNone, nil, err
	}
	objRef, err := e.evalExpr(true)
	if err != nil {
		return SigNone, nil, err
	}
	if _, err := e.expect(token.RPAREN); err != nil {
		return SigNone, nil, err
	}
	objVal, err := e.get(objRef)
	if err != nil {
		return SigNone, nil, err
	}
	bodyStart := e.pos

	names := objVal.EnumerableNames()
	for _, name := range names {
		var bound *runtime.Value
		if kind == token.FOR_EACH_IN {
			link, ok := objVal.FindChild(name)
			if !ok || link.Value == nil {
				bound = runtime.Undefined()
			} else {
				bound = link.Value
			}
		} else {
			bound = runtime.String(name)
		}
		if isLet {
			runtime.DeclareLet(e.Scope, bindName, bound)
		} else {
			runtime.Assign(e.Scope, bindName, bound)
		}
		e.pos = bodyStart
		sig, val, err := e.execStatement()
		if err != nil {
			return SigNone, nil, err
		}
		if sig == SigBreak {
			break
		}
		if sig == SigReturn || sig == SigThrow {
			return sig, val, nil
		}
	}
	e.pos = endPos
	return SigNone, nil, nil
}

func (e *Evaluator) execWith() (Signal, *runtime.Value, error) {
	e.next() // consume WITH
	if _, err := e.expect(token.LPAREN); err != nil {
		return SigNone, nil, err
	}
	targetRef, err := e.evalExpr(true)
	if err != nil {
		return SigNone, nil, err
	}
	if _, err := e.expect(token.RPAREN); err != nil {
		return SigNone, nil, err
	}
	targetVal, err := e.get(targetRef)
	if err != nil {
		return SigNone, nil, err
	}
	withScope := runtime.NewWithScope(targetVal, e.Scope)
	prev := e.pushScope(withScope)
	sig, val, err := e.execStatement()
	e.popScope(prev)
	return sig, val, err
}

// execSwitch implements the linear case-label scan from spec §4.5: case
// expressions are evaluated in source order (with side effects) until
// one matches via ===, falling through subsequent bodies until a
// `break`; if nothing matches, execution resumes at `default` wherever
// it appears, per the "scan for default on exhaustion" decision.
func (e *Evaluator) execSwitch() (Signal, *runtime.Value, error) {
	switchIdx := e.pos
	endPos := switchIdx + e.Stream.Tokens[switchIdx].Skip
	bodyClose := endPos - 1
	e.next() // consume SWITCH
	if _, err := e.expect(token.LPAREN); err != nil {
		return SigNone, nil, err
	}
	discRef, err := e.evalExpr(true)
	if err != nil {
		return SigNone, nil, err
	}
	if _, err := e.expect(token.RPAREN); err != nil {
		return SigNone, nil, err
	}
	discVal, err := e.get(discRef)
	if err != nil {
		return SigNone, nil, err
	}
	if _, err := e.expect(token.LBRACE); err != nil {
		return SigNone, nil, err
	}
	bodyStart := e.pos

	matchedAt := -1
	defaultIdx := -1
	cursor := bodyStart
	for cursor < bodyClose {
		t := e.Stream.Tokens[cursor]
		switch t.Kind {
		case token.CASE:
			e.pos = cursor + 1
			caseRef, err := e.evalExpr(true)
			if err != nil {
				return SigNone, nil, err
			}
			caseVal, err := e.get(caseRef)
			if err != nil {
				return SigNone, nil, err
			}
			if matchedAt == -1 && discVal.Kind == caseVal.Kind && runtime.ToBool(runtime.Equals(discVal, caseVal)) {
				if e.curKind() == token.COLON {
					e.next()
				}
				matchedAt = e.pos
				cursor = bodyClose
				continue
			}
			cursor += t.Skip
		case token.DEFAULT:
			defaultIdx = cursor
			cursor += t.Skip
		default:
			cursor++
		}
	}

	var execFrom int
	switch {
	case matchedAt != -1:
		execFrom = matchedAt
	case defaultIdx != -1:
		e.pos = defaultIdx + 1
		if e.curKind() == token.COLON {
			e.next()
		}
		execFrom = e.pos
	default:
		e.pos = endPos
		return SigNone, nil, nil
	}

	e.pos = execFrom
	for e.pos < bodyClose {
		switch e.curKind() {
		case token.CASE:
			e.next()
			if _, err := e.evalExpr(false); err != nil {
				return SigNone, nil, err
			}
			if e.curKind() == token.COLON {
				e.next()
			}
			continue
		case token.DEFAULT:
			e.next()
			if e.curKind() == token.COLON {
				e.next()
			}
			continue
		}
		sig, val, err := e.execStatement()
		if err != nil {
			return SigNone, nil, err
		}
		if sig == SigBreak {
			e.pos = endPos
			return SigNone, nil, nil
		}
		if sig != SigNone {
			return sig, val, nil
		}
	}
	e.pos = endPos
	return SigNone, nil, nil
}

// execTry implements spec §4.5/§7's try/catch/finally protocol: the
// pending signal from try (or catch, if it ran) survives an
// unconditional finally unless finally itself exits with its own
// signal, which then takes over.
func (e *Evaluator) execTry() (Signal, *runtime.Value, error) {
	tryIdx := e.pos
	e.next() // consume TRY
	if _, err := e.expect(token.LBRACE); err != nil {
		return SigNone, nil, err
	}
	tryBodyStart := e.pos
	tryBodyEnd, ok := e.Stream.MatchingBrace(tryBodyStart - 1)
	if !ok {
		return SigNone, nil, e.parseErrorf("malformed try block")
	}
	afterTry := tryIdx + e.Stream.Tokens[tryIdx].Skip

	sig, val, err := e.execBlock(tryBodyStart, tryBodyEnd)
	if err != nil {
		return SigNone, nil, err
	}

	cursor := afterTry
	caughtSig, caughtVal := sig, val

	if cursor < len(e.Stream.Tokens) && e.Stream.Tokens[cursor].Kind == token.CATCH {
		catchIdx := cursor
		afterCatch := catchIdx + e.Stream.Tokens[catchIdx].Skip
		if caughtSig == SigThrow {
			e.pos = catchIdx + 1
			var exName string
			if e.curKind() == token.LPAREN {
				e.next()
				nt, err := e.expect(token.IDENT)
				if err != nil {
					return SigNone, nil, err
				}
				exName = nt.StrVal
				if _, err := e.expect(token.RPAREN); err != nil {
					return SigNone, nil, err
				}
			}
			if _, err := e.expect(token.LBRACE); err != nil {
				return SigNone, nil, err
			}
			catchBodyStart := e.pos
			catchBodyEnd, ok := e.Stream.MatchingBrace(catchBodyStart - 1)
			if !ok {
				return SigNone, nil, e.parseErrorf("malformed catch block")
			}
			catchScope := runtime.NewLetScope(e.Scope)
			if exName != "" {
				runtime.DeclareLet(catchScope, exName, caughtVal)
			}
			prev := e.pushScope(catchScope)
			csig, cval, cerr := e.execBlock(catchBodyStart, catchBodyEnd)
			e.popScope(prev)
			if cerr != nil {
				return SigNone, nil, cerr
			}
			caughtSig, caughtVal = csig, cval
		}
		cursor = afterCatch
	}

	if cursor < len(e.Stream.Tokens) && e.Stream.Tokens[cursor].Kind == token.FINALLY {
		finallyIdx := cursor
		e.pos = finallyIdx + 1
		if _, err := e.expect(token.LBRACE); err != nil {
			return SigNone, nil, err
		}
		finallyBodyStart := e.pos
		finallyBodyEnd, ok := e.Stream.MatchingBrace(finallyBodyStart - 1)
		if !ok {
			return SigNone, nil, e.parseErrorf("malformed finally block")
		}
		fsig, fval, ferr := e.execBlock(finallyBodyStart, finallyBodyEnd)
		if ferr != nil {
			return SigNone, nil, ferr
		}
		if fsig != SigNone {
			caughtSig, caughtVal = fsig, fval
		}
		cursor = finallyIdx + e.Stream.Tokens[finallyIdx].Skip
	}

	e.pos = cursor
	return caughtSig, caughtVal, nil
}
