package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"crust/internal/ast"
	"crust/internal/source"
)

// CheckSpanInvariants runs the span invariants every parsed file must hold:
// 1) file.Span covers exactly the file content
// 2) every node span is well-formed, points at sf and lies within file.Span
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	if f.Span.Start != 0 || f.Span.End != lenContent {
		return fmt.Errorf("file span %d..%d does not cover content of %d bytes", f.Span.Start, f.Span.End, lenContent)
	}

	c := &spanChecker{tree: b, file: sf.ID}
	c.stack = []frame{{span: f.Span}}
	c.walk(fileID, func(sp source.Span) error {
		if sp.Start > sp.End {
			return fmt.Errorf("inverted span %d..%d", sp.Start, sp.End)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("span %d..%d is outside file span %d..%d", sp.Start, sp.End, f.Span.Start, f.Span.End)
		}
		return nil
	})
	return c.err
}

// CheckNestedSpans checks, for a tree parsed without diagnostics, that every
// child span lies inside its parent and siblings appear in source order
// without overlapping.
func CheckNestedSpans(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if err := CheckSpanInvariants(b, fileID, sf); err != nil {
		return err
	}
	f := b.Files.Get(fileID)
	c := &spanChecker{tree: b, file: sf.ID}
	c.stack = []frame{{span: f.Span}}
	c.walk(fileID, func(sp source.Span) error {
		parent := &c.stack[len(c.stack)-1]
		if sp.Start < parent.span.Start || sp.End > parent.span.End {
			return fmt.Errorf("span %d..%d escapes parent %d..%d", sp.Start, sp.End, parent.span.Start, parent.span.End)
		}
		if sp.Start < parent.lastEnd {
			return fmt.Errorf("span %d..%d overlaps previous sibling ending at %d", sp.Start, sp.End, parent.lastEnd)
		}
		parent.lastEnd = sp.End
		return nil
	})
	return c.err
}

type frame struct {
	span    source.Span
	lastEnd uint32
}

type spanChecker struct {
	tree  *ast.Builder
	file  source.FileID
	stack []frame
	err   error
}

// walk visits every node pre-order, calling check before descending.
// The first failure stops further checks.
func (c *spanChecker) walk(fileID ast.FileID, check func(source.Span) error) {
	visit := func(sp source.Span, what string, id uint32, descend func()) {
		if c.err != nil {
			return
		}
		if sp.File != c.file {
			c.err = fmt.Errorf("%s #%d: span file mismatch: got=%d want=%d", what, id, sp.File, c.file)
			return
		}
		if err := check(sp); err != nil {
			c.err = fmt.Errorf("%s #%d: %w", what, id, err)
			return
		}
		c.stack = append(c.stack, frame{span: sp, lastEnd: sp.Start})
		descend()
		c.stack = c.stack[:len(c.stack)-1]
	}
	stmt := func(w *ast.Walker, id ast.StmtID) {
		st := c.tree.Stmts.Get(id)
		visit(st.Span, "stmt", uint32(id), func() { w.StmtChildren(id) })
	}
	expr := func(w *ast.Walker, id ast.ExprID) {
		e := c.tree.Exprs.Get(id)
		visit(e.Span, "expr", uint32(id), func() { w.ExprChildren(id) })
	}
	w := &ast.Walker{Tree: c.tree, Hooks: ast.Hooks{
		ExprStmt: stmt, Let: stmt, Block: stmt, If: stmt, While: stmt, Func: stmt, Return: stmt,
		Error: expr, Number: expr, Bool: expr, Ident: expr, Unary: expr,
		Binary: expr, Group: expr, Assign: expr, Call: expr,
	}}
	w.File(fileID)
}
