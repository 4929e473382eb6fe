package ast

import (
	"crust/internal/source"
	"crust/internal/token"
)

type StmtKind uint8

const (
	StmtExpr StmtKind = iota
	StmtLet
	StmtBlock
	StmtIf
	StmtWhile
	StmtFunc
	StmtReturn
)

var stmtKindNames = [...]string{
	StmtExpr:   "ExpressionStmt",
	StmtLet:    "LetStmt",
	StmtBlock:  "BlockStmt",
	StmtIf:     "IfStmt",
	StmtWhile:  "WhileStmt",
	StmtFunc:   "FuncDecl",
	StmtReturn: "ReturnStmt",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Unknown"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type ExprStmt struct {
	Expr ExprID
}

type LetStmt struct {
	Name  token.Token
	Value ExprID
}

type BlockStmt struct {
	Stmts []StmtID
}

type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID // NoStmtID, если ветки нет
}

type WhileStmt struct {
	Cond ExprID
	Body StmtID
}

type FuncStmt struct {
	Name   token.Token
	Params []token.Token
	Body   StmtID // всегда StmtBlock
}

type ReturnStmt struct {
	Value ExprID // NoExprID для голого return
}
