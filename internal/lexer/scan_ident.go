package lexer

import (
	"unicode"

	"crust/internal/token"
)

// Идентификатор это максимальная цепочка букв (Unicode), без цифр и '_'.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		r, _ := lx.peekRune()
		if !unicode.IsLetter(r) {
			break
		}
		lx.bumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
