package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crust/internal/compiler"
	"crust/internal/diagfmt"
	"crust/internal/pipeline"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] [file.cr]",
	Short: "Parse a crust source file and print its syntax tree",
	Long:  `Parse builds the syntax tree of a crust source file (or -e text) and prints it as a tree, JSON or canonical source`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json|source)")
	addExprFlag(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "json", "source":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	s := settingsOf(cmd)
	maxDiagnostics, err := s.maxDiagnostics(cmd)
	if err != nil {
		return err
	}

	fs, fileID, err := loadInput(cmd, args)
	if err != nil {
		return err
	}
	unit := compiler.Compile(cmd.Context(), fs, fileID, compiler.Options{
		StopAfter:      pipeline.StageParse,
		MaxDiagnostics: maxDiagnostics,
	})

	if !unit.Bag.Empty() {
		opts, err := s.prettyOpts(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), unit.Bag, fs, opts)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		color, cerr := s.useColor(cmd, os.Stdout)
		if cerr != nil {
			return cerr
		}
		err = diagfmt.FormatASTPretty(out, unit.Tree, unit.ASTFile, fs, color)
	case "json":
		err = diagfmt.FormatASTJSON(out, unit.Tree, unit.ASTFile)
	case "source":
		err = diagfmt.PrintSource(out, unit.Tree, unit.ASTFile)
	}
	if err != nil {
		return fmt.Errorf("failed to write syntax tree: %w", err)
	}
	if unit.Bag.HasErrors() {
		return failed()
	}
	return nil
}
