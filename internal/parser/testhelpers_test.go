package parser

import (
	"fmt"
	"strings"
	"testing"

	"crust/internal/ast"
	"crust/internal/diag"
	"crust/internal/lexer"
	"crust/internal/source"
	"crust/internal/token"
)

type parsed struct {
	tree *ast.Builder
	file ast.FileID
	bag  *diag.Bag
	src  *source.File
}

func parseSource(t *testing.T, input string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cr", []byte(input))
	src := fs.Get(id)
	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}

	tokens := lexer.Tokenize(src, lexer.Options{Reporter: reporter})
	tree := ast.NewBuilder(ast.Hints{})
	res := ParseFile(tokens, src, tree, Options{Reporter: reporter})
	return parsed{tree: tree, file: res.File, bag: bag, src: src}
}

func (p parsed) stmts() []ast.StmtID {
	return p.tree.Files.Get(p.file).Stmts
}

// flatten выписывает узлы в pre-order через ast.Walker.
func (p parsed) flatten() []string {
	var out []string
	exprs, stmts := p.tree.Exprs, p.tree.Stmts
	w := &ast.Walker{Tree: p.tree}
	w.Hooks = ast.Hooks{
		ExprStmt: func(w *ast.Walker, id ast.StmtID) { w.StmtChildren(id) },
		Let: func(w *ast.Walker, id ast.StmtID) {
			d, _ := stmts.Let(id)
			out = append(out, "let "+d.Name.Text)
			w.StmtChildren(id)
		},
		Block: func(w *ast.Walker, id ast.StmtID) {
			out = append(out, "block")
			w.StmtChildren(id)
		},
		If: func(w *ast.Walker, id ast.StmtID) {
			out = append(out, "if")
			w.StmtChildren(id)
		},
		While: func(w *ast.Walker, id ast.StmtID) {
			out = append(out, "while")
			w.StmtChildren(id)
		},
		Func: func(w *ast.Walker, id ast.StmtID) {
			d, _ := stmts.Func(id)
			params := make([]string, len(d.Params))
			for i, p := range d.Params {
				params[i] = p.Text
			}
			out = append(out, fmt.Sprintf("func %s(%s)", d.Name.Text, strings.Join(params, ",")))
			w.StmtChildren(id)
		},
		Return: func(w *ast.Walker, id ast.StmtID) {
			out = append(out, "return")
			w.StmtChildren(id)
		},
		Error: func(*ast.Walker, ast.ExprID) { out = append(out, "<error>") },
		Number: func(_ *ast.Walker, id ast.ExprID) {
			d, _ := exprs.Number(id)
			out = append(out, fmt.Sprint(d.Value))
		},
		Bool: func(_ *ast.Walker, id ast.ExprID) {
			d, _ := exprs.Bool(id)
			out = append(out, fmt.Sprint(d.Value))
		},
		Ident: func(_ *ast.Walker, id ast.ExprID) {
			d, _ := exprs.Ident(id)
			out = append(out, d.Name.Text)
		},
		Unary: func(w *ast.Walker, id ast.ExprID) {
			d, _ := exprs.Unary(id)
			out = append(out, "unary "+d.Op.String())
			w.ExprChildren(id)
		},
		Binary: func(w *ast.Walker, id ast.ExprID) {
			d, _ := exprs.Binary(id)
			out = append(out, "binary "+d.Op.String())
			w.ExprChildren(id)
		},
		Group: func(w *ast.Walker, id ast.ExprID) {
			out = append(out, "group")
			w.ExprChildren(id)
		},
		Assign: func(w *ast.Walker, id ast.ExprID) {
			d, _ := exprs.Assign(id)
			out = append(out, "assign "+d.Name.Text)
			w.ExprChildren(id)
		},
		Call: func(w *ast.Walker, id ast.ExprID) {
			d, _ := exprs.Call(id)
			out = append(out, "call "+d.Callee.Text)
			w.ExprChildren(id)
		},
	}
	w.File(p.file)
	return out
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func expectFlat(t *testing.T, input string, want ...string) parsed {
	t.Helper()
	p := parseSource(t, input)
	got := strings.Join(p.flatten(), " | ")
	if exp := strings.Join(want, " | "); got != exp {
		t.Errorf("%q:\n got: %s\nwant: %s", input, got, exp)
	}
	return p
}

func tokensOf(t *testing.T, input string) ([]token.Token, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	src := fs.Get(fs.AddVirtual("test.cr", []byte(input)))
	return lexer.Tokenize(src, lexer.Options{}), src
}
