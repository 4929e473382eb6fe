package lexer

import (
	"errors"
	"unicode"

	"crust/internal/source"
	"crust/internal/token"
)

// ErrExhausted is returned by Next after the EOF token was already produced.
var ErrExhausted = errors.New("lexer: token stream exhausted")

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	done   bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий токен, включая пробельные.
// Последним идёт ровно один EOF со span 0..0; дальнейшие вызовы дают ErrExhausted.
func (lx *Lexer) Next() (token.Token, error) {
	if lx.done {
		return token.Token{}, ErrExhausted
	}

	if lx.cursor.EOF() {
		lx.done = true
		return token.Token{
			Kind: token.EOF,
			Span: source.Span{File: lx.file.ID},
		}, nil
	}

	// порядок классификации: цифра, пробел, буква, оператор
	if isDec(lx.cursor.Peek()) {
		return lx.scanNumber(), nil
	}

	r, _ := lx.peekRune()
	switch {
	case unicode.IsSpace(r):
		return lx.scanWhitespace(), nil
	case unicode.IsLetter(r):
		return lx.scanIdentOrKeyword(), nil
	default:
		return lx.scanOperatorOrPunct(), nil
	}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: k,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	return lx.emit(token.Whitespace, start)
}

// Tokenize drains a fresh lexer over file, EOF included.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/2+1)
	for {
		tok, err := lx.Next()
		if err != nil {
			break
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}
