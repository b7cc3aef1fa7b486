// Command scdasm assembles, disassembles and checks room event scripts.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"scdtool/pkg/config"
	"scdtool/pkg/scd"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	LogLevel string
	Config   string
	Engine   string
}

// cli holds the state of one invocation.
type cli struct {
	flags globalFlags
	cfg   *config.Config
	table scd.ConstantTable
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:   "scdasm",
		Short: "Room event script toolchain",
		Long:  "Assemble, disassemble, preprocess and verify SCD room event scripts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.before(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.flags.LogLevel, "log-level", "warn", "Log messages above specified level: debug, info, warn, error, fatal or panic")
	flags.StringVar(&c.flags.Config, "config", "", "Path of the project configuration file (default ./"+config.DefaultFile+")")
	flags.StringVar(&c.flags.Engine, "engine", scd.Bio2.String(), "Engine version whose opcode table is used")

	rootCmd.AddCommand(
		newAsmCommand(c),
		newDisasmCommand(c),
		newPreprocessCommand(c),
		newSymbolsCommand(c),
		newVerifyCommand(c),
	)
	return rootCmd
}

func (c *cli) before(cmd *cobra.Command) error {
	path, required := c.flags.Config, true
	if path == "" {
		path, required = config.DefaultFile, false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	table, err := cfg.Table()
	if err != nil {
		return err
	}
	c.cfg, c.table = cfg, table
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
