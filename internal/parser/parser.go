package parser

import (
	"slices"

	"crust/internal/ast"
	"crust/internal/diag"
	"crust/internal/source"
	"crust/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser — состояние парсера на один файл
type Parser struct {
	tokens   []token.Token // без Whitespace, последний всегда EOF
	pos      int
	arenas   *ast.Builder
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	capped   bool        // SynTooManyErrors уже выдан
}

// New prepares a parser over a lexed token stream. Whitespace tokens are dropped;
// a trailing EOF is guaranteed and re-anchored right after the last real token.
func New(tokens []token.Token, file *source.File, arenas *ast.Builder, opts Options) *Parser {
	filtered := make([]token.Token, 0, len(tokens)/2+1)
	for _, tok := range tokens {
		if tok.IsTrivia() || tok.Kind == token.EOF {
			continue
		}
		filtered = append(filtered, tok)
	}

	eof := source.Span{File: file.ID}
	if n := len(filtered); n > 0 {
		eof = filtered[n-1].Span.ZeroideToEnd()
	}
	filtered = append(filtered, token.Token{Kind: token.EOF, Span: eof})

	return &Parser{
		tokens:   filtered,
		arenas:   arenas,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
}

// ParseFile — входная точка для разбора одного файла.
func ParseFile(tokens []token.Token, file *source.File, arenas *ast.Builder, opts Options) Result {
	p := New(tokens, file, arenas, opts)
	fileID := arenas.NewFile(source.Span{File: file.ID})
	for {
		stmt, ok := p.NextStatement()
		if !ok {
			break
		}
		arenas.PushStmt(fileID, stmt)
	}

	n := uint32(len(file.Content))
	arenas.Files.Get(fileID).Span = source.Span{File: file.ID, Start: 0, End: n}
	return Result{File: fileID, Errors: p.opts.CurrentErrors}
}

// NextStatement parses one statement; false once EOF is current.
func (p *Parser) NextStatement() (ast.StmtID, bool) {
	if p.at(token.EOF) {
		return ast.NoStmtID, false
	}
	return p.parseStmt(), true
}

// Errors returns the number of syntax errors seen so far, capped ones included.
func (p *Parser) Errors() uint {
	return p.opts.CurrentErrors
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek(0).Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek(0).Kind)
}
