package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"scdtool/pkg/disasm"
	"scdtool/pkg/scd"
	"scdtool/pkg/utils"
	"scdtool/pkg/vfs"
)

func newVerifyCommand(c *cli) *cobra.Command {
	var kindName, keep string
	var prune bool
	cmd := &cobra.Command{
		Use:   "verify [flags] FILE [FILE...]",
		Short: "Check that disassembling and reassembling reproduces the bytecode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := scd.ParseKind(kindName)
			if err != nil {
				return err
			}

			var kept *listings
			if keep != "" {
				if kept, err = loadListings(keep); err != nil {
					return err
				}
			}
			failed := 0
			for _, file := range args {
				s, err := loadScript(file, c.table, kind)
				if err != nil {
					return err
				}
				report, err := disasm.Verify(c.table, s)
				if kept != nil {
					name := filepath.Base(utils.OutputPath(file, "", ".s"))
					if werr := kept.put(name, report.Source); werr != nil {
						return werr
					}
				}
				if err != nil {
					logrus.Error(err)
					failed++
					continue
				}
				logDiagnostics(report.Diagnostics)
				if !report.OK() {
					for _, m := range report.Mismatches {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", file, m)
					}
					failed++
					continue
				}

				size := 0
				for _, p := range s.Procedures {
					size += len(p.Data)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d procedures, %s\n", file, report.Procedures, units.BytesSize(float64(size)))
			}

			if kept != nil {
				if prune {
					removed, err := kept.prune()
					if err != nil {
						return err
					}
					for _, name := range removed {
						logrus.Infof("removing stale listing %s", name)
					}
				}
				if err := kept.disk.PersistTo(keep); err != nil {
					return errors.Wrapf(err, "keeping listings in %s", keep)
				}
			}
			if failed != 0 {
				return errors.Errorf("%d of %d files failed verification", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", scd.Main.String(), "Section of a raw chunk: init, main or event")
	cmd.Flags().StringVar(&keep, "keep", "", "Directory receiving the intermediate listings")
	cmd.Flags().BoolVar(&prune, "prune", false, "Remove listings in the --keep directory that this run did not produce")
	return cmd
}

// listings stages the listings of one verify run on top of what the keep
// directory already holds, so unchanged listings are not rewritten.
type listings struct {
	disk    *vfs.VirtualDisk
	written map[string]bool
}

func loadListings(dir string) (*listings, error) {
	disk := vfs.NewVirtualDisk()
	if err := disk.LoadFrom(dir); err != nil {
		return nil, errors.Wrapf(err, "loading %s", dir)
	}
	return &listings{disk: disk, written: make(map[string]bool)}, nil
}

// put stores a listing unless an identical one is already present.
func (l *listings) put(name, text string) error {
	l.written[name] = true
	if old, err := l.disk.Read(name); err == nil && string(old) == text {
		logrus.Debugf("listing %s is unchanged", name)
		return nil
	}
	return l.disk.Write(name, []byte(text))
}

// prune deletes top-level .s listings this run did not produce. Other files
// and sub-directories are left alone.
func (l *listings) prune() ([]string, error) {
	var removed []string
	for _, name := range l.disk.List() {
		if l.written[name] || strings.Contains(name, "/") || !strings.HasSuffix(name, ".s") {
			continue
		}
		if err := l.disk.Delete(name); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}
