package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scdtool/pkg/scd"
)

func newSymbolsCommand(c *cli) *cobra.Command {
	var format, kinds string
	cmd := &cobra.Command{
		Use:   "symbols [flags]",
		Short: "List the symbolic operand names of the selected engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var syms []scd.Symbol
			for _, s := range scd.Symbols(c.table) {
				if kinds == "" || strings.Contains(kinds, s.Kind) {
					syms = append(syms, s)
				}
			}

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				b, err := jsoniter.MarshalIndent(syms, "", "  ")
				if err != nil {
					return errors.Wrap(err, "encoding symbols")
				}
				_, err = fmt.Fprintln(w, string(b))
				return err
			case "yaml":
				b, err := yaml.Marshal(syms)
				if err != nil {
					return errors.Wrap(err, "encoding symbols")
				}
				_, err = w.Write(b)
				return err
			case "table":
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KIND\tGROUP\tVALUE\tNAME")
				for _, s := range syms {
					fmt.Fprintf(tw, "%s\t%d\t0x%02X\t%s\n", s.Kind, s.Group, s.Value, s.Name)
				}
				return tw.Flush()
			}
			return errors.Errorf("unknown format %q", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json or yaml")
	cmd.Flags().StringVar(&kinds, "kinds", "", "Only list these operand kinds, e.g. \"ei\"")
	return cmd
}
