package symbols

import (
	"fmt"

	"crust/internal/ast"
	"crust/internal/diag"
	"crust/internal/source"
)

// ResolveOptions controls a resolve pass for a single AST file.
type ResolveOptions struct {
	Table    *Table
	Hints    Hints
	Reporter diag.Reporter
	Validate bool
}

// Result captures resolve artefacts for one file.
type Result struct {
	Table     *Table
	File      ast.FileID
	FileScope ScopeID
	// Refs maps every Ident, Assign and Call node to the binding it names.
	// Unresolved references are absent.
	Refs       map[ast.ExprID]SymbolID
	Unresolved int
}

// Symbol returns the binding an expression refers to.
func (r *Result) Symbol(id ast.ExprID) (SymbolID, bool) {
	sym, ok := r.Refs[id]
	return sym, ok
}

// ResolveFile walks the AST file once, declaring let bindings, functions and
// parameters and checking every name use against the visible scopes.
// The tree is never modified.
func ResolveFile(tree *ast.Builder, fileID ast.FileID, opts ResolveOptions) Result {
	table := opts.Table
	if table == nil {
		table = NewTable(opts.Hints, nil)
	}
	result := Result{
		Table: table,
		File:  fileID,
		Refs:  make(map[ast.ExprID]SymbolID),
	}

	file := tree.Files.Get(fileID)
	if file == nil {
		return result
	}

	sourceFile := file.Span.File
	result.FileScope = table.FileRoot(sourceFile, file.Span)

	fr := &fileResolver{
		tree:       tree,
		table:      table,
		result:     &result,
		resolver:   NewResolver(table, result.FileScope, opts.Reporter),
		reporter:   opts.Reporter,
		fileID:     fileID,
		sourceFile: sourceFile,
	}
	fr.walk(file)

	if opts.Validate {
		if err := table.Validate(); err != nil {
			if opts.Reporter == nil {
				panic(err)
			}
			msg := fmt.Sprintf("symbol table invariant violation: %v", err)
			diag.ReportError(opts.Reporter, diag.SemaInfo, file.Span, msg).Emit()
		}
	}
	return result
}

type fileResolver struct {
	tree       *ast.Builder
	table      *Table
	result     *Result
	resolver   *Resolver
	reporter   diag.Reporter
	fileID     ast.FileID
	sourceFile source.FileID
	funcDepth  int
}

func (fr *fileResolver) owner(stmt ast.StmtID) ScopeOwner {
	return ScopeOwner{SourceFile: fr.sourceFile, ASTFile: fr.fileID, Stmt: stmt}
}

func (fr *fileResolver) report(code diag.Code, sp source.Span, msg string) {
	if fr.reporter == nil {
		return
	}
	diag.ReportError(fr.reporter, code, sp, msg).Emit()
}
