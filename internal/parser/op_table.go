package parser

import (
	"crust/internal/ast"
	"crust/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precEquality       = 1 // == !=
	precComparison     = 2 // < <= > >=
	precBitwiseOr      = 3 // |
	precBitwiseXor     = 4 // ^
	precBitwiseAnd     = 5 // &
	precAdditive       = 6 // + -
	precMultiplicative = 7 // * /
	precPower          = 8 // **
)

// binaryOperatorPrec возвращает приоритет и правоассоциативность оператора.
// Для не-операторов приоритет -1.
func binaryOperatorPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.EqEq, token.BangEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Pipe:
		return precBitwiseOr, false
	case token.Caret:
		return precBitwiseXor, false
	case token.Amp:
		return precBitwiseAnd, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash:
		return precMultiplicative, false
	case token.StarStar:
		return precPower, true
	default:
		return -1, false
	}
}

var binaryOps = map[token.Kind]ast.ExprBinaryOp{
	token.Plus:     ast.ExprBinaryAdd,
	token.Minus:    ast.ExprBinarySub,
	token.Star:     ast.ExprBinaryMul,
	token.Slash:    ast.ExprBinaryDiv,
	token.StarStar: ast.ExprBinaryPow,
	token.Amp:      ast.ExprBinaryBitAnd,
	token.Pipe:     ast.ExprBinaryBitOr,
	token.Caret:    ast.ExprBinaryBitXor,
	token.EqEq:     ast.ExprBinaryEq,
	token.BangEq:   ast.ExprBinaryNotEq,
	token.Lt:       ast.ExprBinaryLess,
	token.LtEq:     ast.ExprBinaryLessEq,
	token.Gt:       ast.ExprBinaryGreater,
	token.GtEq:     ast.ExprBinaryGreaterEq,
}

func unaryOperator(kind token.Kind) (ast.ExprUnaryOp, bool) {
	switch kind {
	case token.Plus:
		return ast.ExprUnaryPlus, true
	case token.Minus:
		return ast.ExprUnaryMinus, true
	case token.Tilde:
		return ast.ExprUnaryBitNot, true
	case token.Bang:
		return ast.ExprUnaryNot, true
	default:
		return 0, false
	}
}
