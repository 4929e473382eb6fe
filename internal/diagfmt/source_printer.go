package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"crust/internal/ast"
)

// PrintSource печатает дерево обратно в канонический исходник: одна инструкция
// на строку, блоки с отступом в 4 пробела, бинарные операторы через пробел.
// Повторный разбор результата даёт то же дерево.
func PrintSource(w io.Writer, tree *ast.Builder, fileID ast.FileID) error {
	file := tree.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file %d not found", fileID)
	}
	p := &sourcePrinter{tree: tree}
	for _, id := range file.Stmts {
		p.stmt(id, 0)
	}
	_, err := io.WriteString(w, p.sb.String())
	return err
}

type sourcePrinter struct {
	tree *ast.Builder
	sb   strings.Builder
}

func (p *sourcePrinter) line(depth int, s string) {
	p.sb.WriteString(strings.Repeat("    ", depth))
	p.sb.WriteString(s)
	p.sb.WriteByte('\n')
}

func (p *sourcePrinter) stmt(id ast.StmtID, depth int) {
	stmts := p.tree.Stmts
	st := stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtExpr:
		data, _ := stmts.Expr(id)
		p.line(depth, p.expr(data.Expr))
	case ast.StmtLet:
		data, _ := stmts.Let(id)
		p.line(depth, fmt.Sprintf("let %s = %s", data.Name.Text, p.expr(data.Value)))
	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		p.line(depth, "{")
		for _, child := range data.Stmts {
			p.stmt(child, depth+1)
		}
		p.line(depth, "}")
	case ast.StmtIf:
		data, _ := stmts.If(id)
		p.line(depth, "if "+p.expr(data.Cond))
		p.stmt(data.Then, depth+1)
		if data.Else.IsValid() {
			p.line(depth, "else")
			p.stmt(data.Else, depth+1)
		}
	case ast.StmtWhile:
		data, _ := stmts.While(id)
		p.line(depth, "while "+p.expr(data.Cond))
		p.stmt(data.Body, depth+1)
	case ast.StmtFunc:
		data, _ := stmts.Func(id)
		params := make([]string, len(data.Params))
		for i, tok := range data.Params {
			params[i] = tok.Text
		}
		p.line(depth, fmt.Sprintf("func %s(%s)", data.Name.Text, strings.Join(params, ", ")))
		p.stmt(data.Body, depth)
	case ast.StmtReturn:
		data, _ := stmts.Return(id)
		if data.Value.IsValid() {
			p.line(depth, "return "+p.expr(data.Value))
		} else {
			p.line(depth, "return")
		}
	}
}

func (p *sourcePrinter) expr(id ast.ExprID) string {
	exprs := p.tree.Exprs
	e := exprs.Get(id)
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ast.ExprNumber:
		data, _ := exprs.Number(id)
		return fmt.Sprintf("%d", data.Value)
	case ast.ExprBool:
		data, _ := exprs.Bool(id)
		return fmt.Sprintf("%t", data.Value)
	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		return data.Name.Text
	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		return data.Op.String() + p.expr(data.Operand)
	case ast.ExprBinary:
		data, _ := exprs.Binary(id)
		return fmt.Sprintf("%s %s %s", p.expr(data.Left), data.Op, p.expr(data.Right))
	case ast.ExprGroup:
		data, _ := exprs.Group(id)
		return "(" + p.expr(data.Inner) + ")"
	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		return fmt.Sprintf("%s = %s", data.Name.Text, p.expr(data.Value))
	case ast.ExprCall:
		data, _ := exprs.Call(id)
		args := make([]string, len(data.Args))
		for i, arg := range data.Args {
			args[i] = p.expr(arg)
		}
		return fmt.Sprintf("%s(%s)", data.Callee.Text, strings.Join(args, ", "))
	default:
		return "<error>"
	}
}
