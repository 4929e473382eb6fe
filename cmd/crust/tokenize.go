package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crust/internal/compiler"
	"crust/internal/diagfmt"
	"crust/internal/pipeline"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] [file.cr]",
	Short: "Tokenize a crust source file",
	Long:  `Tokenize breaks a crust source file (or -e text) into its tokens, whitespace included`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	addExprFlag(tokenizeCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
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
		StopAfter:      pipeline.StageLex,
		MaxDiagnostics: maxDiagnostics,
	})

	// Выводим диагностику в stderr, если есть
	if !unit.Bag.Empty() {
		opts, err := s.prettyOpts(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), unit.Bag, fs, opts)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, unit.Tokens, fs)
	case "json":
		err = diagfmt.FormatTokensJSON(out, unit.Tokens)
	case "msgpack":
		err = diagfmt.FormatTokensMsgpack(out, unit.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}
	if unit.Bag.HasErrors() {
		return failed()
	}
	return nil
}
