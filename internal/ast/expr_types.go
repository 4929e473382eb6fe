package ast

import (
	"crust/internal/source"
	"crust/internal/token"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprError is the recovery node left where parsing failed.
	ExprError ExprKind = iota
	// ExprNumber represents an integer literal.
	ExprNumber
	// ExprBool represents true or false.
	ExprBool
	// ExprIdent represents a variable reference.
	ExprIdent
	// ExprUnary represents a prefix operator application.
	ExprUnary
	// ExprBinary represents an infix operator application.
	ExprBinary
	// ExprGroup represents a parenthesized expression.
	ExprGroup
	// ExprAssign represents `name = value`.
	ExprAssign
	// ExprCall represents `name(args)`.
	ExprCall
)

var exprKindNames = [...]string{
	ExprError:  "Error",
	ExprNumber: "Number",
	ExprBool:   "Boolean",
	ExprIdent:  "Variable",
	ExprUnary:  "Unary",
	ExprBinary: "Binary",
	ExprGroup:  "Parenthesized",
	ExprAssign: "Assignment",
	ExprCall:   "Call",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	// Арифметические
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryPow

	// Битовые
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor

	// Сравнения
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
)

var binaryOpSymbols = [...]string{
	ExprBinaryAdd:       "+",
	ExprBinarySub:       "-",
	ExprBinaryMul:       "*",
	ExprBinaryDiv:       "/",
	ExprBinaryPow:       "**",
	ExprBinaryBitAnd:    "&",
	ExprBinaryBitOr:     "|",
	ExprBinaryBitXor:    "^",
	ExprBinaryEq:        "==",
	ExprBinaryNotEq:     "!=",
	ExprBinaryLess:      "<",
	ExprBinaryLessEq:    "<=",
	ExprBinaryGreater:   ">",
	ExprBinaryGreaterEq: ">=",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return "?"
}

// IsComparison reports whether op yields a boolean.
func (op ExprBinaryOp) IsComparison() bool {
	return op >= ExprBinaryEq
}

// ExprUnaryOp enumerates unary operator kinds.
type ExprUnaryOp uint8

const (
	ExprUnaryPlus   ExprUnaryOp = iota // +x
	ExprUnaryMinus                     // -x
	ExprUnaryBitNot                    // ~x
	ExprUnaryNot                       // !x
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryPlus:
		return "+"
	case ExprUnaryMinus:
		return "-"
	case ExprUnaryBitNot:
		return "~"
	case ExprUnaryNot:
		return "!"
	}
	return "?"
}

// ExprNumberData holds an integer literal.
type ExprNumberData struct {
	Value int64
}

// ExprBoolData holds a boolean literal.
type ExprBoolData struct {
	Value bool
}

// ExprIdentData holds the referenced name.
type ExprIdentData struct {
	Name token.Token
}

// ExprBinaryData holds binary operation expression details.
type ExprBinaryData struct {
	Op    ExprBinaryOp
	OpTok token.Token
	Left  ExprID
	Right ExprID
}

// ExprUnaryData holds unary operation expression details.
type ExprUnaryData struct {
	Op      ExprUnaryOp
	OpTok   token.Token
	Operand ExprID
}

// ExprGroupData holds parenthesized group expression details.
type ExprGroupData struct {
	Inner ExprID
}

// ExprAssignData holds `Name = Value`.
type ExprAssignData struct {
	Name  token.Token
	Value ExprID
}

// ExprCallData holds `Callee(Args...)`.
type ExprCallData struct {
	Callee token.Token
	Args   []ExprID
}
