package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"crust/internal/ast"
	"crust/internal/source"
)

type treeNode struct {
	Label    string      `json:"label"`
	Kind     string      `json:"kind"`
	Start    uint32      `json:"start"`
	End      uint32      `json:"end"`
	Children []*treeNode `json:"children,omitempty"`
}

func newNode(kind, label string, sp source.Span) *treeNode {
	return &treeNode{Kind: kind, Label: label, Start: sp.Start, End: sp.End}
}

func (n *treeNode) add(children ...*treeNode) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

type treeBuilder struct {
	tree *ast.Builder
}

func (b treeBuilder) stmt(id ast.StmtID) *treeNode {
	st := b.tree.Stmts.Get(id)
	if st == nil {
		return nil
	}
	node := newNode(st.Kind.String(), st.Kind.String(), st.Span)
	switch st.Kind {
	case ast.StmtExpr:
		data, _ := b.tree.Stmts.Expr(id)
		node.add(b.expr(data.Expr))
	case ast.StmtLet:
		data, _ := b.tree.Stmts.Let(id)
		node.Label = fmt.Sprintf("%s %s", node.Kind, data.Name.Text)
		node.add(b.expr(data.Value))
	case ast.StmtBlock:
		data, _ := b.tree.Stmts.Block(id)
		for _, child := range data.Stmts {
			node.add(b.stmt(child))
		}
	case ast.StmtIf:
		data, _ := b.tree.Stmts.If(id)
		node.add(b.expr(data.Cond), b.stmt(data.Then), b.stmt(data.Else))
	case ast.StmtWhile:
		data, _ := b.tree.Stmts.While(id)
		node.add(b.expr(data.Cond), b.stmt(data.Body))
	case ast.StmtFunc:
		data, _ := b.tree.Stmts.Func(id)
		params := make([]string, len(data.Params))
		for i, p := range data.Params {
			params[i] = p.Text
		}
		node.Label = fmt.Sprintf("%s %s(%s)", node.Kind, data.Name.Text, strings.Join(params, ", "))
		node.add(b.stmt(data.Body))
	case ast.StmtReturn:
		data, _ := b.tree.Stmts.Return(id)
		node.add(b.expr(data.Value))
	}
	return node
}

func (b treeBuilder) expr(id ast.ExprID) *treeNode {
	e := b.tree.Exprs.Get(id)
	if e == nil {
		return nil
	}
	ex := b.tree.Exprs
	node := newNode(e.Kind.String(), e.Kind.String(), e.Span)
	switch e.Kind {
	case ast.ExprNumber:
		data, _ := ex.Number(id)
		node.Label = fmt.Sprintf("%s %d", node.Kind, data.Value)
	case ast.ExprBool:
		data, _ := ex.Bool(id)
		node.Label = fmt.Sprintf("%s %t", node.Kind, data.Value)
	case ast.ExprIdent:
		data, _ := ex.Ident(id)
		node.Label = fmt.Sprintf("%s %s", node.Kind, data.Name.Text)
	case ast.ExprUnary:
		data, _ := ex.Unary(id)
		node.Label = fmt.Sprintf("%s %s", node.Kind, data.Op)
		node.add(b.expr(data.Operand))
	case ast.ExprBinary:
		data, _ := ex.Binary(id)
		node.Label = fmt.Sprintf("%s %s", node.Kind, data.Op)
		node.add(b.expr(data.Left), b.expr(data.Right))
	case ast.ExprGroup:
		data, _ := ex.Group(id)
		node.add(b.expr(data.Inner))
	case ast.ExprAssign:
		data, _ := ex.Assign(id)
		node.Label = fmt.Sprintf("%s %s", node.Kind, data.Name.Text)
		node.add(b.expr(data.Value))
	case ast.ExprCall:
		data, _ := ex.Call(id)
		node.Label = fmt.Sprintf("%s %s", node.Kind, data.Callee.Text)
		for _, arg := range data.Args {
			node.add(b.expr(arg))
		}
	}
	return node
}

func buildFileTree(tree *ast.Builder, fileID ast.FileID, fs *source.FileSet) (*treeNode, error) {
	file := tree.Files.Get(fileID)
	if file == nil {
		return nil, fmt.Errorf("file %d not found", fileID)
	}
	header := "File"
	if fs != nil {
		header = fs.Get(file.Span.File).FormatPath("auto", fs.BaseDir())
	}
	root := newNode("File", header, file.Span)
	b := treeBuilder{tree: tree}
	for _, id := range file.Stmts {
		root.add(b.stmt(id))
	}
	return root, nil
}

// FormatASTPretty печатает дерево с ветками ├─ └─; узлы раскрашиваются по виду при colored.
func FormatASTPretty(w io.Writer, tree *ast.Builder, fileID ast.FileID, fs *source.FileSet, colored bool) error {
	root, err := buildFileTree(tree, fileID, fs)
	if err != nil {
		return err
	}
	stmtColor := color.New(color.FgCyan, color.Bold)
	exprColor := color.New(color.FgYellow)
	spanColor := color.New(color.Faint)
	for _, c := range []*color.Color{stmtColor, exprColor, spanColor} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	paint := func(n *treeNode) string {
		label := exprColor.Sprint(n.Label)
		if strings.HasSuffix(n.Kind, "Stmt") || n.Kind == "FuncDecl" || n.Kind == "File" {
			label = stmtColor.Sprint(n.Label)
		}
		return label + " " + spanColor.Sprintf("[%d..%d]", n.Start, n.End)
	}

	var walk func(n *treeNode, prefix string, last, top bool)
	walk = func(n *treeNode, prefix string, last, top bool) {
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		if top {
			branch, next = "", ""
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, paint(n))
		for i, c := range n.Children {
			walk(c, prefix+next, i == len(n.Children)-1, false)
		}
	}
	walk(root, "", true, true)
	return nil
}

// FormatASTJSON выводит дерево как вложенные узлы {label, kind, start, end, children}.
func FormatASTJSON(w io.Writer, tree *ast.Builder, fileID ast.FileID) error {
	root, err := buildFileTree(tree, fileID, nil)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}
