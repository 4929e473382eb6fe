package eval

import (
	"crust/internal/ast"
	"crust/internal/source"
)

func (ev *Evaluator) evalExpr(id ast.ExprID) (Value, *Error) {
	exprs := ev.tree.Exprs
	e := exprs.Get(id)
	if e == nil {
		return Nothing, ev.fail(PanicInternal, source.Span{}, "missing expression %d", id)
	}

	switch e.Kind {
	case ast.ExprNumber:
		data, _ := exprs.Number(id)
		return IntValue(data.Value), nil

	case ast.ExprBool:
		data, _ := exprs.Bool(id)
		return BoolValue(data.Value), nil

	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		v, ok := ev.env.Lookup(data.Name.Text)
		if !ok {
			return Nothing, ev.fail(PanicUndefinedName, e.Span, "'%s' is not defined in this activation", data.Name.Text)
		}
		return v, nil

	case ast.ExprGroup:
		data, _ := exprs.Group(id)
		return ev.evalExpr(data.Inner)

	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		operand, err := ev.evalExpr(data.Operand)
		if err != nil {
			return Nothing, err
		}
		return ev.unary(data.Op, operand, e.Span)

	case ast.ExprBinary:
		data, _ := exprs.Binary(id)
		left, err := ev.evalExpr(data.Left)
		if err != nil {
			return Nothing, err
		}
		right, err := ev.evalExpr(data.Right)
		if err != nil {
			return Nothing, err
		}
		return ev.binary(data.Op, left, right, data.OpTok.Span, e.Span)

	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		v, err := ev.evalExpr(data.Value)
		if err != nil {
			return Nothing, err
		}
		if v.IsNothing() {
			return Nothing, ev.fail(PanicTypeMismatch, e.Span, "cannot assign no value to '%s'", data.Name.Text)
		}
		if !ev.env.Assign(data.Name.Text, v) {
			return Nothing, ev.fail(PanicUndefinedName, data.Name.Span, "'%s' is not defined in this activation", data.Name.Text)
		}
		return v, nil

	case ast.ExprCall:
		return ev.evalCall(id, e.Span)

	case ast.ExprError:
		return Nothing, ev.fail(PanicInternal, e.Span, "evaluated a recovery node")
	}
	return Nothing, ev.fail(PanicInternal, e.Span, "unknown expression kind %s", e.Kind)
}

// evalCall: аргументы слева направо, затем проверка арности.
func (ev *Evaluator) evalCall(id ast.ExprID, site source.Span) (Value, *Error) {
	data, _ := ev.tree.Exprs.Call(id)
	callee, ok := ev.env.Lookup(data.Callee.Text)
	if !ok {
		return Nothing, ev.fail(PanicUndefinedName, data.Callee.Span, "'%s' is not defined in this activation", data.Callee.Text)
	}
	if callee.Kind != KindFunc || callee.Func == nil {
		return Nothing, ev.fail(PanicNotCallable, data.Callee.Span, "'%s' is %s, not a function", data.Callee.Text, callee.Kind)
	}

	args := make([]Value, 0, len(data.Args))
	for _, argID := range data.Args {
		v, err := ev.evalExpr(argID)
		if err != nil {
			return Nothing, err
		}
		if v.IsNothing() {
			return Nothing, ev.fail(PanicTypeMismatch, ev.span(argID), "argument has no value")
		}
		args = append(args, v)
	}

	fn := callee.Func
	if len(args) != len(fn.Params) {
		return Nothing, ev.fail(PanicArityMismatch, site, "'%s' takes %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	return ev.call(fn, args, site)
}

func (ev *Evaluator) unary(op ast.ExprUnaryOp, v Value, span source.Span) (Value, *Error) {
	if op == ast.ExprUnaryNot {
		if v.Kind != KindBool {
			return Nothing, ev.typeMismatch(span, "bool operand of '!'", v)
		}
		return BoolValue(!v.Bool), nil
	}
	if v.Kind != KindInt {
		return Nothing, ev.typeMismatch(span, "int operand of '"+op.String()+"'", v)
	}
	switch op {
	case ast.ExprUnaryPlus:
		return v, nil
	case ast.ExprUnaryMinus:
		n, ok := NegChecked(v.Int)
		if !ok {
			return Nothing, ev.fail(PanicOverflow, span, "integer overflow in -%d", v.Int)
		}
		return IntValue(n), nil
	case ast.ExprUnaryBitNot:
		return IntValue(^v.Int), nil
	}
	return Nothing, ev.fail(PanicInternal, span, "unknown unary operator %s", op)
}

// binary: opSpan указывает на сам оператор, span на всё выражение.
func (ev *Evaluator) binary(op ast.ExprBinaryOp, l, r Value, opSpan, span source.Span) (Value, *Error) {
	// == и != сравнивают значения одного вида, включая bool
	if op == ast.ExprBinaryEq || op == ast.ExprBinaryNotEq {
		if l.Kind != r.Kind || (l.Kind != KindInt && l.Kind != KindBool) {
			return Nothing, ev.fail(PanicTypeMismatch, span, "cannot compare %s with %s", l.Kind, r.Kind)
		}
		eq := l.Int == r.Int && l.Bool == r.Bool
		return BoolValue(eq == (op == ast.ExprBinaryEq)), nil
	}

	if l.Kind != KindInt {
		return Nothing, ev.typeMismatch(span, "int left operand of '"+op.String()+"'", l)
	}
	if r.Kind != KindInt {
		return Nothing, ev.typeMismatch(span, "int right operand of '"+op.String()+"'", r)
	}
	a, b := l.Int, r.Int

	var (
		res int64
		ok  = true
	)
	switch op {
	case ast.ExprBinaryAdd:
		res, ok = AddChecked(a, b)
	case ast.ExprBinarySub:
		res, ok = SubChecked(a, b)
	case ast.ExprBinaryMul:
		res, ok = MulChecked(a, b)
	case ast.ExprBinaryDiv:
		if b == 0 {
			return Nothing, ev.fail(PanicDivisionByZero, opSpan, "division by zero")
		}
		if a == minInt64 && b == -1 {
			ok = false
		} else {
			res = a / b
		}
	case ast.ExprBinaryPow:
		if b < 0 {
			return Nothing, ev.fail(PanicNegativeExponent, opSpan, "negative exponent %d", b)
		}
		res, ok = PowChecked(a, b)
	case ast.ExprBinaryBitAnd:
		res = a & b
	case ast.ExprBinaryBitOr:
		res = a | b
	case ast.ExprBinaryBitXor:
		res = a ^ b
	case ast.ExprBinaryLess:
		return BoolValue(a < b), nil
	case ast.ExprBinaryLessEq:
		return BoolValue(a <= b), nil
	case ast.ExprBinaryGreater:
		return BoolValue(a > b), nil
	case ast.ExprBinaryGreaterEq:
		return BoolValue(a >= b), nil
	default:
		return Nothing, ev.fail(PanicInternal, opSpan, "unknown binary operator %s", op)
	}
	if !ok {
		return Nothing, ev.fail(PanicOverflow, span, "integer overflow in %d %s %d", a, op, b)
	}
	return IntValue(res), nil
}
