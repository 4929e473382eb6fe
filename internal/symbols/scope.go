package symbols

import (
	"crust/internal/ast"
	"crust/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeFile               // корень на разобранный файл
	ScopeFunction           // параметры функции
	ScopeBlock              // { ... } и тела if/while
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFile:
		return "file"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// ScopeOwner references the AST construct that opened the scope.
type ScopeOwner struct {
	SourceFile source.FileID
	ASTFile    ast.FileID
	Stmt       ast.StmtID // NoStmtID для файлового корня
}

// Scope models a lexical scope with a parent-child hierarchy.
// NameIndex keeps every declaration of a name in order; the last one wins on lookup.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
