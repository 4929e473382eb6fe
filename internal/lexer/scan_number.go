package lexer

import (
	"math"

	"crust/internal/diag"
	"crust/internal/token"
)

// Только десятичные целые без знака, знак разбирает парсер как унарный минус.
// Переполнение int64 репортится, токен остаётся Number со значением 0.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	var value int64
	overflow := false
	for isDec(lx.cursor.Peek()) {
		d := int64(lx.cursor.Bump() - '0')
		if !overflow {
			if value > (math.MaxInt64-d)/10 {
				overflow = true
			} else {
				value = value*10 + d
			}
		}
	}

	tok := lx.emit(token.Number, start)
	if overflow {
		lx.report(diag.LexBadNumber, tok.Span, "integer literal out of range: "+tok.Text)
		value = 0
	}
	tok.Value = value
	return tok
}
