// Package config loads cimi configuration files.
//
// A configuration file is TOML (cimi.toml, .cimi.toml) or YAML (cimi.yaml).
// Fields left out of a file keep their default values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding an explicit config path.
const EnvVar = "CIMI_CONFIG"

// Filenames are the names Find looks for, in order.
var Filenames = []string{"cimi.toml", ".cimi.toml", "cimi.yaml"}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the command line front end settings.
type Config struct {
	Color    string `toml:"color" yaml:"color"`         // auto, always or never
	Format   string `toml:"format" yaml:"format"`       // tree, sexpr or json
	LogLevel string `toml:"log_level" yaml:"log_level"` // debug, info, warn or error
	LogFile  string `toml:"log_file,omitempty" yaml:"log_file,omitempty"`
	Requires string `toml:"requires,omitempty" yaml:"requires,omitempty"` // semver constraint

	path string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Color:    "auto",
		Format:   "sexpr",
		LogLevel: "warn",
	}
}

// Format is a configuration file syntax.
type Format int

const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "toml"
}

// FormatOf picks the file syntax from the file extension.
// Anything other than .yaml or .yml is read as TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return TOML
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes and validates a configuration in the given syntax.
// Unknown keys are an error.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()

	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
		}
	}

	cfg.LogFile = os.ExpandEnv(cfg.LogFile)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find looks for a configuration file in dir and its parents and returns
// the first match, or "" if there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("find config: %w", err)
	}

	for {
		for _, name := range Filenames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Resolve returns the configuration to use: the file at explicit if set,
// else the file named by $CIMI_CONFIG, else the nearest file found from
// dir, else Default().
func Resolve(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if p := os.Getenv(EnvVar); p != "" {
		return Load(p)
	}

	p, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if p == "" {
		return Default(), nil
	}
	return Load(p)
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("%w: color %q (want auto, always or never)", ErrInvalid, c.Color))
	}

	switch c.Format {
	case "tree", "sexpr", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: format %q (want tree, sexpr or json)", ErrInvalid, c.Format))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			errs = append(errs, fmt.Errorf("%w: requires %q: %v", ErrInvalid, c.Requires, err))
		}
	}

	return errors.Join(errs...)
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q (want debug, info, warn or error)", ErrInvalid, c.LogLevel)
	}
	return level, nil
}

// CheckVersion reports whether version satisfies the requires constraint.
// An empty constraint accepts every version.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("%w: requires %q: %v", ErrInvalid, c.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("front end version %q: %w", version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("front end version %s does not satisfy %q", v, c.Requires)
	}
	return nil
}

// Encode writes the configuration in the given syntax.
func (c *Config) Encode(w io.Writer, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		if err := toml.NewEncoder(w).Encode(c); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	}
}
