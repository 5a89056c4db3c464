// Package config loads the optional dispatchgen.toml file controlling the
// active feature set and output naming.
package config

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	dgerr "github.com/variantgo/dispatchgen/internal/errors"
)

// DefaultFileName is the config file looked up in the working directory when
// no explicit -config flag is given.
const DefaultFileName = "dispatchgen.toml"

// DefaultSuffix is appended to the input file's stem to name the output file.
const DefaultSuffix = "_dispatch.gen.go"

// Config is the top-level TOML document
type Config struct {
	// Features are the conditional-inclusion markers considered active for
	// this build. Methods and variants gated on anything else are omitted.
	Features []string `toml:"features"`
	Output   Output   `toml:"output"`
}

// Output controls generated-file naming
type Output struct {
	Suffix  string `toml:"suffix"`
	Package string `toml:"package"`
}

// Default returns the configuration used when no config file is present
func Default() *Config {
	return &Config{
		Output: Output{Suffix: DefaultSuffix},
	}
}

// Load reads and decodes a TOML config file
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, dgerr.Wrapf(dgerr.ConfigErrorCode, err, "failed to load config file %s", path)
	}
	if cfg.Output.Suffix == "" {
		cfg.Output.Suffix = DefaultSuffix
	}
	return cfg, nil
}

// LoadIfPresent loads path when it exists, otherwise returns the defaults
func LoadIfPresent(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// FeatureSet merges the config features with additional CLI-provided ones
// into the active feature set.
func (c *Config) FeatureSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(c.Features)+len(extra))
	for _, f := range c.Features {
		set[f] = true
	}
	for _, f := range extra {
		if f != "" {
			set[f] = true
		}
	}
	return set
}

// FeatureList returns the sorted feature names of a feature set, for logging
func FeatureList(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
