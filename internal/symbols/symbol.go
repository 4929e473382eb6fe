package symbols

import (
	"crust/internal/ast"
	"crust/internal/source"
)

// SymbolKind classifies what introduced a name.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolLet
	SymbolParam
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolLet:
		return "let"
	case SymbolParam:
		return "param"
	case SymbolFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span // span имени в объявлении
	Decl  ast.StmtID  // let или func, объявивший имя
	Arity int         // только для SymbolFunction
}
