package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"scdtool/pkg/compiler"
	"scdtool/pkg/diag"
	"scdtool/pkg/utils"
)

func newPreprocessCommand(c *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "preprocess [flags] FILE",
		Short: "Print a source file after preprocessing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fullPath, _, err := utils.GetPathInfo(args[0])
			if err != nil {
				return err
			}

			errs := &diag.ErrorList{}
			pp := compiler.New(&compiler.OSIncluder{IncludeDirs: c.cfg.IncludeDirs}, errs)
			for _, name := range c.cfg.SortedDefines() {
				pp.Define(name, c.cfg.Defines[name])
			}

			var sb strings.Builder
			for _, t := range pp.Expand(fullPath).Collect() {
				if t.Type != compiler.COMMENT {
					sb.WriteString(t.Lexeme)
				}
			}
			if errs.Count() != 0 {
				logDiagnostics(errs.Errors)
				return errors.Errorf("%s: preprocessing failed", args[0])
			}
			return writeOutput(cmd.OutOrStdout(), output, sb.String())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().StringSliceP("include", "I", nil, "Add a directory to the include search path")
	cmd.Flags().StringArrayP("define", "D", nil, "Predefine a macro as NAME or NAME=VALUE")
	return cmd
}
