package compiler

import (
	"context"
	"fmt"
	"time"

	"fortio.org/safecast"

	"crust/internal/ast"
	"crust/internal/diag"
	"crust/internal/eval"
	"crust/internal/lexer"
	"crust/internal/observ"
	"crust/internal/parser"
	"crust/internal/pipeline"
	"crust/internal/source"
	"crust/internal/symbols"
	"crust/internal/token"
	"crust/internal/trace"
)

// Options controls one compilation. StopAfter is the last front-end stage to
// run ("" means StageResolve). Progress receives per-stage events under
// ProgressName, or under the file path when it is empty.
type Options struct {
	StopAfter      pipeline.Stage
	MaxDiagnostics int
	EnableTimings  bool
	MaxDepth       int
	Progress       pipeline.ProgressSink
	ProgressName   string
}

// Unit holds everything one compilation produced. Each unit owns its bag,
// tree and symbol table; nothing is shared with other units. Stage is the
// last stage that ran.
type Unit struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
	Stage   pipeline.Stage
	Tokens  []token.Token
	Tree    *ast.Builder
	ASTFile ast.FileID
	Symbols *symbols.Result
	Timer   *observ.Timer
	Timings pipeline.Timings

	opts Options
	name string
}

// Compile lexes, parses and resolves one file of fs. Diagnostics accumulate in
// Unit.Bag; the pipeline stops at the first checkpoint with a non-empty bag
// (after lex+parse, then after resolution).
func Compile(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *Unit {
	if opts.StopAfter == "" {
		opts.StopAfter = pipeline.StageResolve
	}
	file := fs.Get(fileID)
	u := &Unit{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		opts:    opts,
		name:    opts.ProgressName,
	}
	if u.name == "" {
		u.name = file.Path
	}
	if opts.EnableTimings {
		u.Timer = observ.NewTimer()
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "compile", trace.ParentID(ctx)).WithExtra("file", file.Path)
	ctx = trace.WithSpan(ctx, span)
	// повторы одной и той же проблемы на одном месте в мешок не попадают
	dedup := diag.NewDedupReporter(diag.BagReporter{Bag: u.Bag})
	reporter := &diag.CountingReporter{Next: dedup}
	defer func() {
		span.End(fmt.Sprintf("stage=%s diags=%d errors=%d repeats=%d",
			u.Stage, u.Bag.Len(), reporter.Errors, dedup.Suppressed()))
	}()

	u.phase(ctx, pipeline.StageLex, func() string {
		u.Tokens = lexer.Tokenize(file, lexer.Options{Reporter: reporter})
		return fmt.Sprintf("tokens=%d", len(u.Tokens))
	})
	if opts.StopAfter == pipeline.StageLex {
		u.finish()
		return u
	}

	u.phase(ctx, pipeline.StageParse, func() string {
		u.Tree = ast.NewBuilder(ast.Hints{})
		res := parser.ParseFile(u.Tokens, file, u.Tree, parser.Options{
			Reporter:  reporter,
			MaxErrors: u.syntaxErrorBudget(),
		})
		u.ASTFile = res.File
		return fmt.Sprintf("stmts=%d errors=%d", len(u.Tree.Files.Get(res.File).Stmts), res.Errors)
	})
	// checkpoint: лексика + синтаксис
	if opts.StopAfter == pipeline.StageParse || !u.Bag.Empty() {
		u.finish()
		return u
	}

	u.phase(ctx, pipeline.StageResolve, func() string {
		res := symbols.ResolveFile(u.Tree, u.ASTFile, symbols.ResolveOptions{
			Reporter: reporter,
			Validate: tracer.Level() >= trace.LevelDebug,
		})
		u.Symbols = &res
		return fmt.Sprintf("symbols=%d unresolved=%d", res.Table.Symbols.Len(), res.Unresolved)
	})
	u.finish()
	return u
}

// CompileSource compiles in-memory source registered under name.
func CompileSource(ctx context.Context, name, src string, opts Options) *Unit {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	return Compile(ctx, fs, id, opts)
}

// Ok reports whether every checkpoint passed and the unit may run.
func (u *Unit) Ok() bool {
	return u.Stage == pipeline.StageResolve && u.Bag.Empty()
}

// Run evaluates a unit that passed all checkpoints. ran is false when the unit
// did not (diagnostics pending or resolution skipped); the value is then Nothing.
func (u *Unit) Run(ctx context.Context) (value eval.Value, ran bool, err *eval.Error) {
	if !u.Ok() {
		return eval.Nothing, false, nil
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "eval", trace.ParentID(ctx)).WithExtra("file", u.File.Path)
	ctx = trace.WithSpan(ctx, span)

	pipeline.Emit(u.opts.Progress, u.name, pipeline.StageRun, pipeline.StatusWorking, nil, 0)
	idx := u.Timer.Begin("eval")
	start := time.Now()

	evaluator := eval.New(ctx, u.Tree, eval.Options{MaxDepth: u.opts.MaxDepth})
	value, err = evaluator.RunFile(u.ASTFile)

	elapsed := time.Since(start)
	u.Timings.Add(pipeline.StageRun, elapsed)
	u.Timer.End(idx, fmt.Sprintf("steps=%d", evaluator.Steps()))
	u.Stage = pipeline.StageRun
	if err != nil {
		span.End(err.Code.String())
		pipeline.Emit(u.opts.Progress, u.name, pipeline.StageRun, pipeline.StatusError, err, elapsed)
		return value, true, err
	}
	span.End(value.String())
	pipeline.Emit(u.opts.Progress, u.name, pipeline.StageRun, pipeline.StatusDone, nil, elapsed)
	return value, true, nil
}

// phase runs one front-end stage with timing, tracing and progress events.
func (u *Unit) phase(ctx context.Context, stage pipeline.Stage, fn func() string) {
	pipeline.Emit(u.opts.Progress, u.name, stage, pipeline.StatusWorking, nil, 0)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, string(stage), trace.ParentID(ctx))
	idx := u.Timer.Begin(string(stage))
	start := time.Now()

	note := fn()

	u.Timings.Add(stage, time.Since(start))
	u.Timer.End(idx, note)
	span.End(note)
	u.Stage = stage
}

// syntaxErrorBudget оставляет в мешке место под предупреждение SYN2003;
// 0 - без ограничения.
func (u *Unit) syntaxErrorBudget() uint {
	if u.opts.MaxDiagnostics <= 0 {
		return 0
	}
	room := u.opts.MaxDiagnostics - u.Bag.Len()
	if room > 1 {
		room--
	}
	budget, err := safecast.Conv[uint](max(room, 1))
	if err != nil {
		return 1
	}
	return budget
}

func (u *Unit) finish() {
	status := pipeline.StatusDone
	var err error
	if u.Bag.HasErrors() {
		status = pipeline.StatusError
		err = fmt.Errorf("%s: %d diagnostics", u.name, u.Bag.Len())
	}
	pipeline.Emit(u.opts.Progress, u.name, u.Stage, status, err, u.Timings.Sum(pipeline.Stages...))
}
