package parser

import (
	"crust/internal/diag"
	"crust/internal/token"
)

// peek смотрит на токен со смещением, не выходя за EOF.
func (p *Parser) peek(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		idx = len(p.tokens) - 1
	}
	return p.tokens[idx]
}

// consume — съедает текущий токен и обновляет lastSpan. Позиция не откатывается никогда.
func (p *Parser) consume() token.Token {
	tok := p.peek(0)
	if p.pos < len(p.tokens) {
		p.pos++
	}
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// consumeAndCheck съедает токен в любом случае, но репортит несовпадение вида.
func (p *Parser) consumeAndCheck(k token.Kind) token.Token {
	tok := p.consume()
	if tok.Kind != k {
		p.unexpectedToken(k, tok)
	}
	return tok
}

func (p *Parser) unexpectedToken(expected token.Kind, found token.Token) {
	if p.allow() {
		diag.UnexpectedToken(p.opts.Reporter, expected, found)
	}
}

func (p *Parser) expectedExpression(found token.Token) {
	if p.allow() {
		diag.ExpectedExpression(p.opts.Reporter, found)
	}
}

// allow учитывает ошибку и сообщает, можно ли ещё репортить.
func (p *Parser) allow() bool {
	enough := p.opts.Enough()
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil {
		return false
	}
	if !enough {
		return true
	}
	if !p.capped {
		p.capped = true
		diag.ReportWarning(p.opts.Reporter, diag.SynTooManyErrors, p.lastSpan.ZeroideToEnd(),
			"too many syntax errors, further ones are suppressed").Emit()
	}
	return false
}
