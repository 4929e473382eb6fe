package eval

import (
	"context"
	"fmt"

	"crust/internal/ast"
	"crust/internal/source"
	"crust/internal/trace"
)

// DefaultMaxDepth bounds nested calls; runaway recursion fails with EVAL1009
// instead of exhausting the goroutine stack.
const DefaultMaxDepth = 2048

// Options tunes one evaluation run.
type Options struct {
	MaxDepth int // 0 = DefaultMaxDepth
}

// Evaluator walks a resolved tree and computes values.
type Evaluator struct {
	ctx     context.Context
	tree    *ast.Builder
	global  *Env
	env     *Env
	frames  []Frame
	opts    Options
	tracer  trace.Tracer
	parent  uint64
	retVal  Value
	steps   uint64
	lastVal Value
}

// flow says how a statement finished.
type flow uint8

const (
	flowNext flow = iota
	flowReturn
)

// New prepares an evaluator with an empty global environment.
func New(ctx context.Context, tree *ast.Builder, opts Options) *Evaluator {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	global := NewEnv(nil)
	return &Evaluator{
		ctx:    ctx,
		tree:   tree,
		global: global,
		env:    global,
		opts:   opts,
		tracer: trace.FromContext(ctx),
		parent: trace.ParentID(ctx),
	}
}

// Run evaluates every top-level statement of file in order. The result is the
// value of the last top-level expression or let statement; Nothing when the
// program has none. The tree must be free of diagnostics.
func Run(ctx context.Context, tree *ast.Builder, file ast.FileID, opts Options) (Value, *Error) {
	return New(ctx, tree, opts).RunFile(file)
}

// RunFile evaluates file with this evaluator's environment.
func (ev *Evaluator) RunFile(file ast.FileID) (Value, *Error) {
	f := ev.tree.Files.Get(file)
	if f == nil {
		return Nothing, ev.fail(PanicInternal, source.Span{}, "file %d not found", file)
	}
	ev.lastVal = Nothing
	for _, id := range f.Stmts {
		fl, err := ev.execStmt(id)
		if err != nil {
			return Nothing, err
		}
		if fl == flowReturn {
			// return на верхнем уровне отсекается resolver-ом; на всякий случай просто стоп
			break
		}
		if st := ev.tree.Stmts.Get(id); st != nil && (st.Kind == ast.StmtExpr || st.Kind == ast.StmtLet) {
			ev.lastVal = ev.retVal
		}
	}
	return ev.lastVal, nil
}

// Globals exposes the global environment, e.g. for a REPL that keeps state.
func (ev *Evaluator) Globals() *Env { return ev.global }

// Steps reports how many loop iterations and calls were executed.
func (ev *Evaluator) Steps() uint64 { return ev.steps }

// tick проверяет отмену контекста на каждой итерации цикла и каждом вызове.
func (ev *Evaluator) tick(span source.Span) *Error {
	ev.steps++
	if ev.ctx == nil {
		return nil
	}
	if err := ev.ctx.Err(); err != nil {
		return ev.fail(PanicInterrupted, span, "interrupted: %v", err)
	}
	return nil
}

// execStmt runs one statement. The value of an expression or let statement
// is left in ev.retVal; a return statement sets it and yields flowReturn.
func (ev *Evaluator) execStmt(id ast.StmtID) (flow, *Error) {
	stmts := ev.tree.Stmts
	st := stmts.Get(id)
	if st == nil {
		return flowNext, nil
	}
	ev.retVal = Nothing

	switch st.Kind {
	case ast.StmtExpr:
		data, _ := stmts.Expr(id)
		v, err := ev.evalExpr(data.Expr)
		if err != nil {
			return flowNext, err
		}
		ev.retVal = v
		return flowNext, nil

	case ast.StmtLet:
		data, _ := stmts.Let(id)
		v, err := ev.evalExpr(data.Value)
		if err != nil {
			return flowNext, err
		}
		if v.IsNothing() {
			return flowNext, ev.fail(PanicTypeMismatch, st.Span, "cannot bind '%s' to a call that returned no value", data.Name.Text)
		}
		ev.env.Define(data.Name.Text, v)
		ev.retVal = v
		return flowNext, nil

	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		for _, child := range data.Stmts {
			fl, err := ev.execStmt(child)
			if err != nil || fl == flowReturn {
				return fl, err
			}
		}
		ev.retVal = Nothing
		return flowNext, nil

	case ast.StmtIf:
		data, _ := stmts.If(id)
		cond, err := ev.evalCond(data.Cond)
		if err != nil {
			return flowNext, err
		}
		if cond {
			return ev.execBranch(data.Then)
		}
		if data.Else.IsValid() {
			return ev.execBranch(data.Else)
		}
		return flowNext, nil

	case ast.StmtWhile:
		data, _ := stmts.While(id)
		for {
			if err := ev.tick(st.Span); err != nil {
				return flowNext, err
			}
			cond, err := ev.evalCond(data.Cond)
			if err != nil {
				return flowNext, err
			}
			if !cond {
				return flowNext, nil
			}
			fl, err := ev.execBranch(data.Body)
			if err != nil || fl == flowReturn {
				return fl, err
			}
		}

	case ast.StmtFunc:
		data, _ := stmts.Func(id)
		ev.env.Define(data.Name.Text, FuncValue(&Function{
			Name:   data.Name.Text,
			Params: data.Params,
			Body:   data.Body,
			Decl:   id,
			Env:    ev.env,
		}))
		return flowNext, nil

	case ast.StmtReturn:
		data, _ := stmts.Return(id)
		v := Nothing
		if data.Value.IsValid() {
			var err *Error
			if v, err = ev.evalExpr(data.Value); err != nil {
				return flowNext, err
			}
		}
		ev.retVal = v
		return flowReturn, nil
	}
	return flowNext, ev.fail(PanicInternal, st.Span, "unknown statement kind %s", st.Kind)
}

// execBranch гасит значение ветки: if и while сами по себе значения не дают.
func (ev *Evaluator) execBranch(id ast.StmtID) (flow, *Error) {
	fl, err := ev.execStmt(id)
	if fl != flowReturn {
		ev.retVal = Nothing
	}
	return fl, err
}

// evalCond requires a boolean: integers are not truthy.
func (ev *Evaluator) evalCond(id ast.ExprID) (bool, *Error) {
	v, err := ev.evalExpr(id)
	if err != nil {
		return false, err
	}
	if v.Kind != KindBool {
		return false, ev.typeMismatch(ev.span(id), "bool condition", v)
	}
	return v.Bool, nil
}

func (ev *Evaluator) span(id ast.ExprID) source.Span {
	if e := ev.tree.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

// call runs fn in a fresh activation chained to the environment fn was declared in.
func (ev *Evaluator) call(fn *Function, args []Value, site source.Span) (Value, *Error) {
	if len(ev.frames) >= ev.opts.MaxDepth {
		return Nothing, ev.fail(PanicStackOverflow, site, "call depth exceeded %d in '%s'", ev.opts.MaxDepth, fn.Name)
	}
	if err := ev.tick(site); err != nil {
		return Nothing, err
	}

	span := trace.Begin(ev.tracer, trace.ScopeNode, "call:"+fn.Name, ev.parent)
	outer := fn.Env
	if outer == nil {
		outer = ev.global
	}
	activation := NewEnv(outer)
	for i, param := range fn.Params {
		activation.Define(param.Text, args[i])
	}

	saved := ev.env
	ev.env = activation
	ev.frames = append(ev.frames, Frame{FuncName: fn.Name, Span: site})

	fl, err := ev.execStmt(fn.Body)
	result := Nothing
	if fl == flowReturn {
		result = ev.retVal
	}

	ev.frames = ev.frames[:len(ev.frames)-1]
	ev.env = saved
	span.End(fmt.Sprintf("-> %s", result))
	return result, err
}
