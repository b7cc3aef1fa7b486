package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"scdtool/pkg/diag"
	"scdtool/pkg/disasm"
	"scdtool/pkg/scd"
)

type disasmOptions struct {
	Output  string
	Kind    string
	Offsets bool
	Numeric bool
}

func newDisasmCommand(c *cli) *cobra.Command {
	opts := &disasmOptions{}
	cmd := &cobra.Command{
		Use:   "disasm [flags] FILE",
		Short: "Disassemble a bundle or a raw SCD chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := scd.ParseKind(opts.Kind)
			if err != nil {
				return err
			}
			s, err := loadScript(args[0], c.table, kind)
			if err != nil {
				return err
			}

			errs := &diag.ErrorList{}
			text := disasm.New(c.table, errs, disasm.Options{
				Offsets: opts.Offsets,
				Numeric: opts.Numeric,
			}).Script(s)
			if err := writeOutput(cmd.OutOrStdout(), opts.Output, text); err != nil {
				return err
			}
			if errs.Count() != 0 {
				logDiagnostics(errs.Errors)
				return errors.Errorf("%s: %d bytecode errors, undecodable bytes were emitted as .db", args[0], errs.Count())
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.Output, "output", "o", "", "Write the listing to a file instead of stdout")
	flags.StringVar(&opts.Kind, "kind", scd.Main.String(), "Section of a raw chunk: init, main or event")
	flags.BoolVar(&opts.Offsets, "offsets", false, "Prefix every line with its byte offset")
	flags.BoolVar(&opts.Numeric, "numeric", false, "Print operand values instead of names")
	return cmd
}
