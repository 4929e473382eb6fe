package ast

// StmtHook handles one statement kind. A hook that wants the default descent
// calls w.StmtChildren(id) itself.
type StmtHook func(w *Walker, id StmtID)

// ExprHook handles one expression kind.
type ExprHook func(w *Walker, id ExprID)

// Hooks maps node kinds to handlers; nil entries fall back to structural descent.
type Hooks struct {
	ExprStmt StmtHook
	Let      StmtHook
	Block    StmtHook
	If       StmtHook
	While    StmtHook
	Func     StmtHook
	Return   StmtHook

	Error  ExprHook
	Number ExprHook
	Bool   ExprHook
	Ident  ExprHook
	Unary  ExprHook
	Binary ExprHook
	Group  ExprHook
	Assign ExprHook
	Call   ExprHook
}

// Walker dispatches nodes of Tree to Hooks, pre-order and left to right.
type Walker struct {
	Tree  *Builder
	Hooks Hooks
}

// File walks every top-level statement of file.
func (w *Walker) File(file FileID) {
	f := w.Tree.Files.Get(file)
	if f == nil {
		return
	}
	for _, id := range f.Stmts {
		w.Stmt(id)
	}
}

func (w *Walker) stmtHook(kind StmtKind) StmtHook {
	switch kind {
	case StmtExpr:
		return w.Hooks.ExprStmt
	case StmtLet:
		return w.Hooks.Let
	case StmtBlock:
		return w.Hooks.Block
	case StmtIf:
		return w.Hooks.If
	case StmtWhile:
		return w.Hooks.While
	case StmtFunc:
		return w.Hooks.Func
	case StmtReturn:
		return w.Hooks.Return
	}
	return nil
}

func (w *Walker) exprHook(kind ExprKind) ExprHook {
	switch kind {
	case ExprError:
		return w.Hooks.Error
	case ExprNumber:
		return w.Hooks.Number
	case ExprBool:
		return w.Hooks.Bool
	case ExprIdent:
		return w.Hooks.Ident
	case ExprUnary:
		return w.Hooks.Unary
	case ExprBinary:
		return w.Hooks.Binary
	case ExprGroup:
		return w.Hooks.Group
	case ExprAssign:
		return w.Hooks.Assign
	case ExprCall:
		return w.Hooks.Call
	}
	return nil
}

// Stmt dispatches id to its hook or descends into its children.
func (w *Walker) Stmt(id StmtID) {
	st := w.Tree.Stmts.Get(id)
	if st == nil {
		return
	}
	if h := w.stmtHook(st.Kind); h != nil {
		h(w, id)
		return
	}
	w.StmtChildren(id)
}

// Expr dispatches id to its hook or descends into its children.
func (w *Walker) Expr(id ExprID) {
	e := w.Tree.Exprs.Get(id)
	if e == nil {
		return
	}
	if h := w.exprHook(e.Kind); h != nil {
		h(w, id)
		return
	}
	w.ExprChildren(id)
}

// StmtChildren visits the direct children of a statement.
func (w *Walker) StmtChildren(id StmtID) {
	stmts := w.Tree.Stmts
	st := stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case StmtExpr:
		if data, ok := stmts.Expr(id); ok {
			w.Expr(data.Expr)
		}
	case StmtLet:
		if data, ok := stmts.Let(id); ok {
			w.Expr(data.Value)
		}
	case StmtBlock:
		if data, ok := stmts.Block(id); ok {
			for _, child := range data.Stmts {
				w.Stmt(child)
			}
		}
	case StmtIf:
		if data, ok := stmts.If(id); ok {
			w.Expr(data.Cond)
			w.Stmt(data.Then)
			w.Stmt(data.Else)
		}
	case StmtWhile:
		if data, ok := stmts.While(id); ok {
			w.Expr(data.Cond)
			w.Stmt(data.Body)
		}
	case StmtFunc:
		if data, ok := stmts.Func(id); ok {
			w.Stmt(data.Body)
		}
	case StmtReturn:
		if data, ok := stmts.Return(id); ok {
			w.Expr(data.Value)
		}
	}
}

// ExprChildren visits the direct children of an expression.
func (w *Walker) ExprChildren(id ExprID) {
	exprs := w.Tree.Exprs
	e := exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case ExprUnary:
		if data, ok := exprs.Unary(id); ok {
			w.Expr(data.Operand)
		}
	case ExprBinary:
		if data, ok := exprs.Binary(id); ok {
			w.Expr(data.Left)
			w.Expr(data.Right)
		}
	case ExprGroup:
		if data, ok := exprs.Group(id); ok {
			w.Expr(data.Inner)
		}
	case ExprAssign:
		if data, ok := exprs.Assign(id); ok {
			w.Expr(data.Value)
		}
	case ExprCall:
		if data, ok := exprs.Call(id); ok {
			for _, arg := range data.Args {
				w.Expr(arg)
			}
		}
	default:
		// листья: Error, Number, Bool, Ident
	}
}
