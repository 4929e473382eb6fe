package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"crust/internal/compiler"
	"crust/internal/diag"
	"crust/internal/diagfmt"
	"crust/internal/pipeline"
	"crust/internal/source"
	"crust/internal/ui"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.cr|directory>...",
	Short: "Report diagnostics for crust source files",
	Long: `Diag lexes, parses and resolves every given file (directories are searched for *.cr)
and reports all diagnostics. Files are checked in parallel.`,
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "", "output format (pretty|short|json); default from crust.toml, else pretty")
	diagCmd.Flags().String("stages", "resolve", "last stage to run (lex|parse|resolve)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in short and json output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().String("ui", "auto", "show live progress (auto|on|off)")
	addExprFlag(diagCmd)
}

type diagnoseRun struct {
	fs      *source.FileSet
	results []compiler.FileResult
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	s := settingsOf(cmd)

	format := stringSetting(cmd, "format", s.cfg.Diagnostics.Format)
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	stagesStr, err := cmd.Flags().GetString("stages")
	if err != nil {
		return fmt.Errorf("failed to get stages flag: %w", err)
	}
	stage := pipeline.Stage(stagesStr)
	switch stage {
	case pipeline.StageLex, pipeline.StageParse, pipeline.StageResolve:
	default:
		return fmt.Errorf("unknown stages value: %s", stagesStr)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	uiMode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := s.maxDiagnostics(cmd)
	if err != nil {
		return err
	}
	pathMode, err := s.pathMode(cmd)
	if err != nil {
		return err
	}

	opts := compiler.Options{
		StopAfter:      stage,
		MaxDiagnostics: maxDiagnostics,
		EnableTimings:  showTimings,
	}

	var run diagnoseRun
	if cmd.Flags().Changed("expr") {
		if len(args) > 0 {
			return fmt.Errorf("-e and file arguments are mutually exclusive")
		}
		fs, fileID, err := loadInput(cmd, nil)
		if err != nil {
			return err
		}
		unit := compiler.Compile(cmd.Context(), fs, fileID, opts)
		run = diagnoseRun{fs: fs, results: []compiler.FileResult{{Path: exprFileName, Unit: unit}}}
	} else {
		if len(args) == 0 {
			return errNoInput
		}
		paths, err := expandPaths(args)
		if err != nil {
			return err
		}
		baseDir := ""
		if s.manifest != nil {
			baseDir = s.manifest.Root
		}
		dopts := compiler.DiagnoseOptions{Options: opts, Jobs: jobs, BaseDir: baseDir}

		work := func(sink pipeline.ProgressSink) error {
			dopts.Progress = sink
			fs, results, err := compiler.DiagnoseFiles(cmd.Context(), paths, dopts)
			run = diagnoseRun{fs: fs, results: results}
			if err != nil {
				return fmt.Errorf("diagnosis failed: %w", err)
			}
			return nil
		}
		if shouldUseTUI(uiMode) && format == "pretty" {
			err = ui.RunWithProgress(os.Stdout, "diagnosing", compiler.ProgressNames(paths, baseDir), work)
		} else {
			err = work(nil)
		}
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		popts, err := s.prettyOpts(cmd, os.Stdout)
		if err != nil {
			return err
		}
		printPretty(out, run, popts)
	case "short":
		all := diag.NewBag(0)
		for _, r := range run.results {
			if r.Unit != nil {
				all.Merge(r.Unit.Bag)
			}
		}
		if text := diag.FormatShortDiagnostics(all.Pointers(), run.fs, withNotes); text != "" {
			fmt.Fprintln(out, text)
		}
	case "json":
		jopts := diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode, IncludeNotes: withNotes}
		if err := printJSON(out, run, jopts); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}

	exit := false
	for _, r := range run.results {
		if r.LoadErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", r.LoadErr)
			exit = true
			continue
		}
		if r.Unit.Bag.HasErrors() {
			exit = true
		}
		if showTimings && r.Unit.Timer != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n%s", r.Path, r.Unit.Timer.Summary())
		}
	}
	if exit {
		return failed()
	}
	return nil
}

// expandPaths replaces directories with the *.cr files they contain.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			// отсутствующий файл станет LoadErr в результатах
			paths = append(paths, arg)
			continue
		}
		if !st.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := compiler.ListSourceFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		paths = append(paths, files...)
	}
	return paths, nil
}

func printPretty(w io.Writer, run diagnoseRun, opts diagfmt.PrettyOpts) {
	multi := len(run.results) > 1
	first := true
	for _, r := range run.results {
		if r.Unit == nil || r.Unit.Bag.Empty() {
			continue
		}
		if multi {
			if !first {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", r.Path)
		}
		first = false
		diagfmt.Pretty(w, r.Unit.Bag, run.fs, opts)
	}
}

func printJSON(w io.Writer, run diagnoseRun, opts diagfmt.JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(run.results) == 1 && run.results[0].Unit != nil {
		return enc.Encode(diagfmt.BuildDiagnosticsOutput(run.results[0].Unit.Bag, run.fs, opts))
	}
	output := make(map[string]diagfmt.DiagnosticsOutput, len(run.results))
	for _, r := range run.results {
		if r.Unit == nil {
			continue
		}
		output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Unit.Bag, run.fs, opts)
	}
	return enc.Encode(output)
}
