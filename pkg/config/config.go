// Package config loads the optional scdasm.toml project file and merges
// command line overrides into it.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"scdtool/pkg/scd"
)

// DefaultFile is looked up in the working directory when no --config is
// given.
const DefaultFile = "scdasm.toml"

// Config is the project configuration shared by every subcommand.
type Config struct {
	// Engine selects the opcode table: "bio2", "re2" or "2".
	Engine string `toml:"engine"`
	// IncludeDirs are searched for #include files that are not found next to
	// the including file.
	IncludeDirs []string `toml:"include_dirs"`
	// Defines are predefined object-like macros.
	Defines map[string]string `toml:"defines"`
	// OutputDir receives assembled bundles when -o is not given.
	OutputDir string `toml:"output_dir"`
	// LogLevel is one of logrus' level names.
	LogLevel string `toml:"log_level"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Engine:   scd.Bio2.String(),
		Defines:  map[string]string{},
		LogLevel: "warn",
	}
}

// Load reads path on top of the defaults. A missing file is only an error
// when required is set; relative include and output directories are made
// relative to the file's directory.
func Load(path string, required bool) (*Config, error) {
	c := Default()
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return c, nil
		}
		return nil, errors.Wrapf(err, "reading configuration file %s", path)
	}
	if _, err := toml.Decode(string(contents), c); err != nil {
		return nil, errors.Wrapf(err, "decoding configuration file %s", path)
	}
	logrus.Debugf("loaded configuration from %s", path)

	base := filepath.Dir(path)
	for i, dir := range c.IncludeDirs {
		if !filepath.IsAbs(dir) {
			c.IncludeDirs[i] = filepath.Join(base, dir)
		}
	}
	if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(base, c.OutputDir)
	}
	if c.Defines == nil {
		c.Defines = map[string]string{}
	}
	return c, c.Validate()
}

// Validate checks the values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if _, err := c.Version(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log_level")
	}
	return nil
}

// Version resolves Engine.
func (c *Config) Version() (scd.Version, error) {
	return scd.ParseVersion(c.Engine)
}

// Table returns the opcode table selected by Engine.
func (c *Config) Table() (scd.ConstantTable, error) {
	v, err := c.Version()
	if err != nil {
		return nil, err
	}
	return scd.TableFor(v)
}

// ApplyFlags overrides file values with the flags the user actually set.
// Recognised flags are "engine", "log-level", "include", "define" and
// "output-dir"; absent flags are ignored.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	if f := flags.Lookup("engine"); f != nil && f.Changed {
		c.Engine = f.Value.String()
	}
	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		c.LogLevel = f.Value.String()
	}
	if f := flags.Lookup("output-dir"); f != nil && f.Changed {
		c.OutputDir = f.Value.String()
	}
	if f := flags.Lookup("include"); f != nil && f.Changed {
		dirs, err := flags.GetStringSlice("include")
		if err != nil {
			return err
		}
		c.IncludeDirs = append(dirs, c.IncludeDirs...)
	}
	if f := flags.Lookup("define"); f != nil && f.Changed {
		defs, err := flags.GetStringArray("define")
		if err != nil {
			return err
		}
		for _, d := range defs {
			name, body, err := ParseDefine(d)
			if err != nil {
				return err
			}
			c.Defines[name] = body
		}
	}
	return c.Validate()
}

// ParseDefine splits a -D argument. "NAME" defines NAME as 1.
func ParseDefine(s string) (string, string, error) {
	name, body, found := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", errors.Errorf("invalid define %q", s)
	}
	if !found {
		body = "1"
	}
	return name, body, nil
}

// SortedDefines returns the define names in a stable order.
func (c *Config) SortedDefines() []string {
	names := make([]string, 0, len(c.Defines))
	for k := range c.Defines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Write encodes c as TOML to path.
func (c *Config) Write(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return errors.Wrapf(err, "encoding configuration to %s", path)
	}
	return nil
}
