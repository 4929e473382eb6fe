package parser

import (
	"crust/internal/ast"
	"crust/internal/source"
	"crust/internal/token"
)

// Все parse*Expr возвращают (id, ok): id всегда валиден, ok == false значит,
// что внутри поддерева есть узел восстановления ast.ExprError.

// parseExpr - главная точка входа для парсинга выражений: слой присваивания.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	if p.at(token.Ident) && p.peek(1).Kind == token.Assign {
		name := p.consume()
		p.consume() // =
		value, ok := p.parseExpr() // правоассоциативно: a = b = 1
		span := name.Span.Cover(p.span(value))
		return p.arenas.Exprs.NewAssign(span, name, value), ok
	}
	return p.parseBinaryExpr(0)
}

// parseBinaryExpr реализует precedence climbing для бинарных операторов.
// minPrec - минимальный приоритет для текущего уровня.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()

	for {
		prec, rightAssoc := binaryOperatorPrec(p.peek(0).Kind)
		if prec < minPrec {
			break
		}

		opTok := p.consume()

		// левоассоциативные поднимают порог, ** остаётся на своём
		nextMinPrec := prec + 1
		if rightAssoc {
			nextMinPrec = prec
		}

		right, rok := p.parseBinaryExpr(nextMinPrec)
		ok = ok && rok

		span := p.span(left).Cover(p.span(right))
		left = p.arenas.Exprs.NewBinary(span, binaryOps[opTok.Kind], opTok, left, right)
	}

	return left, ok
}

// parseUnaryExpr: цепочки префиксов рекурсивно, поэтому - - - 5 это три вложенных минуса.
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	op, isUnary := unaryOperator(p.peek(0).Kind)
	if !isUnary {
		return p.parsePrimaryExpr()
	}

	opTok := p.consume()
	if p.at(token.EOF) {
		p.expectedExpression(p.peek(0))
		return p.arenas.Exprs.NewError(opTok.Span), false
	}

	operand, ok := p.parseUnaryExpr()
	span := opTok.Span.Cover(p.span(operand))
	return p.arenas.Exprs.NewUnary(span, op, opTok, operand), ok
}

// parsePrimaryExpr всегда съедает ровно один стартовый токен.
func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.consume()

	switch tok.Kind {
	case token.Number:
		return p.arenas.Exprs.NewNumber(tok.Span, tok.Value), true

	case token.KwTrue, token.KwFalse:
		return p.arenas.Exprs.NewBool(tok.Span, tok.Kind == token.KwTrue), true

	case token.LParen:
		inner, ok := p.parseExpr()
		closing := p.consumeAndCheck(token.RParen)
		span := tok.Span.Cover(p.span(inner))
		if closing.Kind == token.RParen {
			span = span.Cover(closing.Span)
		} else {
			ok = false
		}
		return p.arenas.Exprs.NewGroup(span, inner), ok

	case token.Ident:
		if p.at(token.LParen) {
			return p.parseCallArgs(tok)
		}
		return p.arenas.Exprs.NewIdent(tok), true

	default:
		p.expectedExpression(tok)
		return p.arenas.Exprs.NewError(tok.Span), false
	}
}

// parseCallArgs разбирает `(a, b, ...)` после имени вызываемой функции.
func (p *Parser) parseCallArgs(callee token.Token) (ast.ExprID, bool) {
	p.consume() // (
	ok := true
	var args []ast.ExprID
	if !p.at(token.RParen) {
		for {
			arg, aok := p.parseExpr()
			ok = ok && aok
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.consume()
		}
	}
	closing := p.consumeAndCheck(token.RParen)
	if closing.Kind != token.RParen {
		ok = false
	}
	span := callee.Span.Cover(p.lastSpan)
	return p.arenas.Exprs.NewCall(span, callee, args), ok
}

func (p *Parser) span(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}
