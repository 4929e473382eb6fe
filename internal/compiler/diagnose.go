package compiler

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"crust/internal/config"
	"crust/internal/pipeline"
	"crust/internal/source"
	"crust/internal/trace"
)

// FileResult is the outcome of diagnosing one path. Unit is nil when the file
// could not be loaded; LoadErr says why.
type FileResult struct {
	Path    string
	Unit    *Unit
	LoadErr error
}

// DiagnoseOptions configures DiagnoseFiles.
type DiagnoseOptions struct {
	Options
	// Jobs caps concurrent compilations; <= 0 means GOMAXPROCS.
	Jobs int
	// BaseDir shortens progress names (see pipeline.NormalizeFiles).
	BaseDir string
}

// ListSourceFiles returns every *.cr file under dir, sorted.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, config.SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ProgressNames returns the names DiagnoseFiles uses in progress events for paths.
func ProgressNames(paths []string, baseDir string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = progressName(p, baseDir)
	}
	return names
}

func progressName(path, baseDir string) string {
	if n := pipeline.NormalizeFiles([]string{path}, baseDir); len(n) == 1 {
		return n[0]
	}
	return path
}

// DiagnoseFiles compiles every path independently and in parallel. All files
// are loaded into one FileSet before fan-out; after that the set is only read.
// Results keep the order of paths. The returned error is non-nil only when ctx
// is cancelled.
func DiagnoseFiles(ctx context.Context, paths []string, opts DiagnoseOptions) (*source.FileSet, []FileResult, error) {
	fileSet := source.NewFileSet()
	if opts.BaseDir != "" {
		fileSet.SetBaseDir(opts.BaseDir)
	}
	results := make([]FileResult, len(paths))
	ids := make([]source.FileID, len(paths))
	names := ProgressNames(paths, opts.BaseDir)

	pipeline.EmitQueued(opts.Progress, names)
	for i, path := range paths {
		results[i].Path = path
		id, err := fileSet.Load(path)
		if err != nil {
			results[i].LoadErr = err
			pipeline.Emit(opts.Progress, names[i], pipeline.StageLex, pipeline.StatusError, err, 0)
			continue
		}
		ids[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if len(paths) == 0 {
		return fileSet, results, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "diagnose", trace.ParentID(ctx)).
		WithExtra("files", strings.Join(names, ","))
	ctx = trace.WithSpan(ctx, span)
	defer span.End("")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i := range paths {
		if results[i].LoadErr != nil {
			continue
		}
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			fileOpts := opts.Options
			fileOpts.ProgressName = names[i]
			results[i].Unit = Compile(gctx, fileSet, ids[i], fileOpts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
