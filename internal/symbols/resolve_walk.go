package symbols

import (
	"fmt"

	"crust/internal/ast"
	"crust/internal/diag"
	"crust/internal/token"
)

func (fr *fileResolver) walk(file *ast.File) {
	w := &ast.Walker{Tree: fr.tree}
	w.Hooks = ast.Hooks{
		Let:    fr.visitLet,
		Block:  fr.visitBlock,
		If:     fr.visitIf,
		While:  fr.visitWhile,
		Func:   fr.visitFunc,
		Return: fr.visitReturn,

		Error:  func(*ast.Walker, ast.ExprID) {}, // уже отрепорчено парсером
		Ident:  fr.visitIdent,
		Assign: fr.visitAssign,
		Call:   fr.visitCall,
	}
	for _, id := range file.Stmts {
		w.Stmt(id)
	}
}

// let: инициализатор не видит собственного имени.
func (fr *fileResolver) visitLet(w *ast.Walker, id ast.StmtID) {
	let, ok := fr.tree.Stmts.Let(id)
	if !ok {
		return
	}
	w.StmtChildren(id)
	if let.Name.Kind != token.Ident {
		return
	}
	fr.resolver.Declare(Symbol{
		Name: fr.table.Strings.Intern(let.Name.Text),
		Kind: SymbolLet,
		Span: let.Name.Span,
		Decl: id,
	})
}

func (fr *fileResolver) visitBlock(w *ast.Walker, id ast.StmtID) {
	scope := fr.resolver.Enter(ScopeBlock, fr.owner(id), fr.tree.Stmts.Get(id).Span)
	w.StmtChildren(id)
	fr.resolver.Leave(scope)
}

// branch даёт одиночной инструкции в теле if/while свою область,
// чтобы `if c let x = 1` не протекал наружу.
func (fr *fileResolver) branch(w *ast.Walker, id ast.StmtID) {
	st := fr.tree.Stmts.Get(id)
	if st == nil {
		return
	}
	if st.Kind == ast.StmtBlock {
		w.Stmt(id)
		return
	}
	scope := fr.resolver.Enter(ScopeBlock, fr.owner(id), st.Span)
	w.Stmt(id)
	fr.resolver.Leave(scope)
}

func (fr *fileResolver) visitIf(w *ast.Walker, id ast.StmtID) {
	data, ok := fr.tree.Stmts.If(id)
	if !ok {
		return
	}
	w.Expr(data.Cond)
	fr.branch(w, data.Then)
	fr.branch(w, data.Else)
}

func (fr *fileResolver) visitWhile(w *ast.Walker, id ast.StmtID) {
	data, ok := fr.tree.Stmts.While(id)
	if !ok {
		return
	}
	w.Expr(data.Cond)
	fr.branch(w, data.Body)
}

// func: имя объявляется до тела, поэтому рекурсия разрешена.
func (fr *fileResolver) visitFunc(w *ast.Walker, id ast.StmtID) {
	fn, ok := fr.tree.Stmts.Func(id)
	if !ok {
		return
	}
	if fn.Name.Kind == token.Ident {
		fr.resolver.Declare(Symbol{
			Name:  fr.table.Strings.Intern(fn.Name.Text),
			Kind:  SymbolFunction,
			Span:  fn.Name.Span,
			Decl:  id,
			Arity: len(fn.Params),
		})
	}

	scope := fr.resolver.Enter(ScopeFunction, fr.owner(id), fr.tree.Stmts.Get(id).Span)
	for _, param := range fn.Params {
		if param.Kind != token.Ident {
			continue
		}
		name := fr.table.Strings.Intern(param.Text)
		if prev, dup := fr.resolver.DeclaredHere(name); dup {
			b := diag.ReportError(fr.reporter, diag.SemaDuplicateParam, param.Span,
				fmt.Sprintf("Duplicate parameter '%s'", param.Text))
			if sym := fr.table.Symbols.Get(prev); sym != nil {
				b = b.WithNote(sym.Span, "first declared here")
			}
			b.Emit()
			continue
		}
		fr.resolver.Declare(Symbol{Name: name, Kind: SymbolParam, Span: param.Span, Decl: id})
	}

	fr.funcDepth++
	w.StmtChildren(id)
	fr.funcDepth--
	fr.resolver.Leave(scope)
}

func (fr *fileResolver) visitReturn(w *ast.Walker, id ast.StmtID) {
	if fr.funcDepth == 0 {
		fr.report(diag.SemaReturnOutsideFunc, fr.tree.Stmts.Get(id).Span, "'return' outside of a function")
	}
	w.StmtChildren(id)
}

func (fr *fileResolver) visitIdent(_ *ast.Walker, id ast.ExprID) {
	if data, ok := fr.tree.Exprs.Ident(id); ok {
		fr.use(id, data.Name)
	}
}

func (fr *fileResolver) visitAssign(w *ast.Walker, id ast.ExprID) {
	if data, ok := fr.tree.Exprs.Assign(id); ok {
		fr.use(id, data.Name)
	}
	w.ExprChildren(id)
}

func (fr *fileResolver) visitCall(w *ast.Walker, id ast.ExprID) {
	if data, ok := fr.tree.Exprs.Call(id); ok {
		fr.use(id, data.Callee)
	}
	w.ExprChildren(id)
}

// use связывает ссылку с видимым объявлением; промах не создаёт привязку.
func (fr *fileResolver) use(id ast.ExprID, name token.Token) {
	sym, ok := fr.resolver.Lookup(fr.table.Strings.Intern(name.Text))
	if !ok {
		fr.result.Unresolved++
		if fr.reporter != nil {
			diag.UndeclaredVariable(fr.reporter, name)
		}
		return
	}
	fr.result.Refs[id] = sym
}
