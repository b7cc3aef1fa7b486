package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"scdtool/pkg/asm"
	"scdtool/pkg/bundle"
	"scdtool/pkg/compiler"
	"scdtool/pkg/diag"
	"scdtool/pkg/scd"
	"scdtool/pkg/utils"
)

type asmOptions struct {
	Output    string
	OutputDir string
	Format    string
	Include   []string
	Define    []string
	Jobs      int
}

func newAsmCommand(c *cli) *cobra.Command {
	opts := &asmOptions{}
	cmd := &cobra.Command{
		Use:   "asm [flags] FILE [FILE...]",
		Short: "Assemble script sources",
		Long: `Preprocess and assemble each source file.

The result is written as a bundle next to the source, or with --format chunk as
one raw SCD chunk per script section.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.assemble(cmd, opts, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.Output, "output", "o", "", "Output file (single input only)")
	flags.StringVar(&opts.OutputDir, "output-dir", "", "Directory receiving the output files")
	flags.StringVar(&opts.Format, "format", "bundle", "Output format: bundle or chunk")
	flags.StringSliceVarP(&opts.Include, "include", "I", nil, "Add a directory to the include search path")
	flags.StringArrayVarP(&opts.Define, "define", "D", nil, "Predefine a macro as NAME or NAME=VALUE")
	flags.IntVarP(&opts.Jobs, "jobs", "j", 4, "Number of files assembled concurrently")
	return cmd
}

type asmResult struct {
	source  string
	outputs []string
	size    int
	failed  bool
}

func (c *cli) assemble(cmd *cobra.Command, opts *asmOptions, files []string) error {
	if opts.Output != "" && len(files) > 1 {
		return errors.New("--output cannot be used with more than one input")
	}
	if opts.Format != "bundle" && opts.Format != "chunk" {
		return errors.Errorf("unknown output format %q", opts.Format)
	}
	if c.cfg.OutputDir != "" {
		if err := os.MkdirAll(c.cfg.OutputDir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", c.cfg.OutputDir)
		}
	}

	results := make([]asmResult, len(files))
	g := new(errgroup.Group)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, file := range files {
		g.Go(func() error {
			res, err := c.assembleOne(opts, file)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.failed {
			failed++
			continue
		}
		for _, out := range res.outputs {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		logrus.Infof("%s: %s of bytecode", res.source, units.BytesSize(float64(res.size)))
	}
	if failed != 0 {
		return errors.Errorf("%d of %d files failed to assemble", failed, len(files))
	}
	return nil
}

// assembleOne builds one file with its own preprocessor and error list.
// Diagnostics are logged and reported through asmResult.failed; only I/O
// failures are returned as errors.
func (c *cli) assembleOne(opts *asmOptions, file string) (asmResult, error) {
	res := asmResult{source: file}
	fullPath, _, err := utils.GetPathInfo(file)
	if err != nil {
		return res, err
	}

	errs := &diag.ErrorList{}
	pp := compiler.New(&compiler.OSIncluder{IncludeDirs: c.cfg.IncludeDirs}, errs)
	for _, name := range c.cfg.SortedDefines() {
		pp.Define(name, c.cfg.Defines[name])
	}
	script, _ := asm.NewAssembler(c.table, errs).Assemble(pp.Expand(fullPath))
	if errs.Count() != 0 {
		logDiagnostics(errs.Errors)
		res.failed = true
		return res, nil
	}

	for _, p := range script.Procedures {
		res.size += len(p.Data)
	}

	if opts.Format == "bundle" {
		out := opts.Output
		if out == "" {
			out = utils.OutputPath(file, c.cfg.OutputDir, bundle.Extension)
		}
		if err := bundle.WriteFile(out, script, filepath.Base(file)); err != nil {
			return res, err
		}
		res.outputs = append(res.outputs, out)
		return res, nil
	}

	for _, kind := range []scd.Kind{scd.Init, scd.Main, scd.Event} {
		procs := script.Of(kind)
		if len(procs) == 0 {
			continue
		}
		bodies := make([][]byte, len(procs))
		for i, p := range procs {
			bodies[i] = p.Data
		}
		chunk, err := scd.JoinProcedures(bodies)
		if err != nil {
			return res, errors.Wrapf(err, "%s: %s section", file, kind)
		}

		out := utils.OutputPath(file, c.cfg.OutputDir, "."+kind.String()+".scd")
		if opts.Output != "" {
			out = utils.OutputPath(opts.Output, "", "."+kind.String()+".scd")
		}
		if err := os.WriteFile(out, chunk, 0644); err != nil {
			return res, errors.Wrapf(err, "writing %s", out)
		}
		res.outputs = append(res.outputs, out)
	}
	return res, nil
}
