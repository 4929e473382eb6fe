package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"crust/internal/source"
)

// exprFileName names the virtual file holding -e source.
const exprFileName = "<expr>"

var errNoInput = errors.New("no input: pass a file or -e <source>")

// loadInput registers the single program the command works on: the -e string
// when given, otherwise the file argument.
func loadInput(cmd *cobra.Command, args []string) (*source.FileSet, source.FileID, error) {
	expr, err := cmd.Flags().GetString("expr")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get expr flag: %w", err)
	}
	exprSet := cmd.Flags().Changed("expr")
	if exprSet && len(args) > 0 {
		return nil, 0, fmt.Errorf("-e and a file argument are mutually exclusive")
	}

	fs := source.NewFileSet()
	if exprSet {
		return fs, fs.AddVirtual(exprFileName, []byte(expr)), nil
	}
	if len(args) == 0 {
		return nil, 0, errNoInput
	}
	id, err := fs.Load(args[0])
	if err != nil {
		return nil, 0, err
	}
	return fs, id, nil
}

func addExprFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("expr", "e", "", "use the given source text instead of a file")
}
