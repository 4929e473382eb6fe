package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"crust/internal/compiler"
	"crust/internal/diagfmt"
	"crust/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.cr]",
	Short: "Check and evaluate a crust program",
	Long: `Run compiles a crust program (a file, -e text, or [run].main from crust.toml)
and evaluates it when no diagnostics were reported. The final value is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExecution,
}

func init() {
	runCmd.Flags().Int("max-depth", 0, "maximum call depth (0 = crust.toml or built-in default)")
	runCmd.Flags().Duration("timeout", 0, "abort evaluation after this long (0 = crust.toml or none)")
	runCmd.Flags().Bool("no-result", false, "do not print the final value")
	addExprFlag(runCmd)
}

func runExecution(cmd *cobra.Command, args []string) error {
	s := settingsOf(cmd)

	maxDiagnostics, err := s.maxDiagnostics(cmd)
	if err != nil {
		return err
	}
	maxDepth, err := intSetting(cmd, "max-depth", s.cfg.Run.MaxDepth)
	if err != nil {
		return err
	}
	timeout, err := runTimeout(cmd, s)
	if err != nil {
		return err
	}
	noResult, err := cmd.Flags().GetBool("no-result")
	if err != nil {
		return fmt.Errorf("failed to get no-result flag: %w", err)
	}
	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	fs, fileID, err := loadRunInput(cmd, args, s)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	unit := compiler.Compile(ctx, fs, fileID, compiler.Options{
		MaxDiagnostics: maxDiagnostics,
		EnableTimings:  showTimings,
		MaxDepth:       maxDepth,
	})
	if !unit.Ok() {
		opts, err := s.prettyOpts(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), unit.Bag, fs, opts)
		return failed()
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	value, _, evalErr := unit.Run(ctx)
	if showTimings && !quiet {
		printStageTimings(cmd.ErrOrStderr(), unit.Timings)
	}
	if evalErr != nil {
		fmt.Fprint(cmd.ErrOrStderr(), evalErr.FormatWithFiles(fs))
		dumpTraceRing(cmd, cmd.ErrOrStderr())
		return failed()
	}
	if !noResult && !value.IsNothing() {
		fmt.Fprintln(cmd.OutOrStdout(), value.String())
	}
	return nil
}

// loadRunInput falls back to [run].main when neither a file nor -e is given.
func loadRunInput(cmd *cobra.Command, args []string, s *settings) (*source.FileSet, source.FileID, error) {
	if len(args) > 0 || cmd.Flags().Changed("expr") || s.manifest == nil {
		return loadInput(cmd, args)
	}
	mainPath, err := s.manifest.MainFile()
	if err != nil {
		return nil, 0, err
	}
	fs := source.NewFileSet()
	fs.SetBaseDir(s.manifest.Root)
	id, err := fs.Load(mainPath)
	if err != nil {
		return nil, 0, err
	}
	return fs, id, nil
}

func runTimeout(cmd *cobra.Command, s *settings) (time.Duration, error) {
	if f := lookupFlag(cmd, "timeout"); f != nil && f.Changed {
		d, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return 0, fmt.Errorf("failed to get timeout flag: %w", err)
		}
		return d, nil
	}
	if s.cfg.Run.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.cfg.Run.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid [run].timeout: %w", err)
	}
	return d, nil
}
