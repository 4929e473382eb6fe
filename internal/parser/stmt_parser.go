package parser

import (
	"crust/internal/ast"
	"crust/internal/token"
)

// parseStmt выбирает по первому токену нужный распознаватель.
// Разделителей между инструкциями нет.
func (p *Parser) parseStmt() ast.StmtID {
	switch p.peek(0).Kind {
	case token.KwLet:
		return p.parseLetStmt()
	case token.LBrace:
		return p.parseBlockStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwFunc:
		return p.parseFuncStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	default:
		expr, _ := p.parseExpr()
		return p.arenas.Stmts.NewExpr(p.span(expr), expr)
	}
}

// let IDENT = expr
func (p *Parser) parseLetStmt() ast.StmtID {
	letTok := p.consumeAndCheck(token.KwLet)
	name := p.consumeAndCheck(token.Ident)
	p.consumeAndCheck(token.Assign)
	value, _ := p.parseExpr()
	return p.arenas.Stmts.NewLet(letTok.Span.Cover(p.span(value)), name, value)
}

// { stmt* }
func (p *Parser) parseBlockStmt() ast.StmtID {
	open := p.consumeAndCheck(token.LBrace)
	var stmts []ast.StmtID
	for !p.atOr(token.RBrace, token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	p.consumeAndCheck(token.RBrace)
	return p.arenas.Stmts.NewBlock(open.Span.Cover(p.lastSpan), stmts)
}

// if expr stmt [else stmt]
func (p *Parser) parseIfStmt() ast.StmtID {
	ifTok := p.consume()
	cond, _ := p.parseExpr()
	then := p.parseBranch()
	els := ast.NoStmtID
	if p.at(token.KwElse) {
		p.consume()
		els = p.parseBranch()
	}
	return p.arenas.Stmts.NewIf(ifTok.Span.Cover(p.lastSpan), cond, then, els)
}

// while expr stmt
func (p *Parser) parseWhileStmt() ast.StmtID {
	whileTok := p.consume()
	cond, _ := p.parseExpr()
	body := p.parseBranch()
	return p.arenas.Stmts.NewWhile(whileTok.Span.Cover(p.lastSpan), cond, body)
}

// parseBranch разбирает тело if/while; на EOF подставляет пустой блок.
func (p *Parser) parseBranch() ast.StmtID {
	if p.at(token.EOF) {
		eof := p.consume()
		p.expectedExpression(eof)
		return p.arenas.Stmts.NewBlock(eof.Span, nil)
	}
	return p.parseStmt()
}

// func IDENT ( [IDENT {, IDENT}] ) { ... }
func (p *Parser) parseFuncStmt() ast.StmtID {
	funcTok := p.consume()
	name := p.consumeAndCheck(token.Ident)
	p.consumeAndCheck(token.LParen)

	var params []token.Token
	if p.at(token.Ident) {
		for {
			params = append(params, p.consumeAndCheck(token.Ident))
			if !p.at(token.Comma) {
				break
			}
			p.consume()
		}
	}
	p.consumeAndCheck(token.RParen)

	body := p.parseBlockStmt()
	return p.arenas.Stmts.NewFunc(funcTok.Span.Cover(p.lastSpan), name, params, body)
}

// return [expr]: значение опускается перед '}', EOF, else и началом инструкции.
func (p *Parser) parseReturnStmt() ast.StmtID {
	retTok := p.consume()
	next := p.peek(0).Kind
	if next == token.RBrace || next == token.EOF || next == token.KwElse || next.StartsStatement() {
		return p.arenas.Stmts.NewReturn(retTok.Span, ast.NoExprID)
	}
	value, _ := p.parseExpr()
	return p.arenas.Stmts.NewReturn(retTok.Span.Cover(p.span(value)), value)
}

