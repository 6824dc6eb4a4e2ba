package config

import (
	"fmt"
	"log/slog"
	"os"

	yaml "github.com/goccy/go-yaml"

	"github.com/fosdem/glcaps/lib/extension"
	"github.com/fosdem/glcaps/lib/glctx"
)

// Config is the YAML capability-policy file. It covers the same
// knobs as the programmatic glctx.Configuration: log verbosity,
// forced-off extensions and workarounds, plus the debug API.
type Config struct {
	Log                string   `yaml:"log"`
	DisableExtensions  []string `yaml:"disable_extensions"`
	DisableWorkarounds []string `yaml:"disable_workarounds"`
	Api                *ApiCfg  `yaml:"api"`
}

type ApiCfg struct {
	Bind           string `yaml:"bind"`
	EnableProfiler bool   `yaml:"enable_profiler"`
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %s", filename, err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			_ = fmt.Errorf("could not close %s: %s", filename, err)
		}
	}(f)

	m := yaml.NewDecoder(f)
	cfg := &Config{}
	err = m.Decode(cfg)
	if err != nil {
		return nil, err
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, err
}

func (c *Config) Validate() error {
	switch c.Log {
	case "", "quiet", "verbose":
	default:
		return fmt.Errorf("log must be quiet or verbose, not %q", c.Log)
	}

	// unknown names are tolerated at context creation, but a policy
	// file naming something we have never heard of is worth a warning
	// up front
	for _, name := range c.DisableExtensions {
		if _, ok := extension.FromName(name); !ok {
			slog.Warn("config disables unknown extension", "name", name)
		}
	}
	for _, name := range c.DisableWorkarounds {
		if !extension.IsKnownWorkaround(name) {
			slog.Warn("config disables unknown workaround", "name", name)
		}
	}

	if c.Api != nil && c.Api.Bind == "" {
		return fmt.Errorf("api.bind must be set when the api section is present")
	}
	return nil
}

// Configuration translates the file into the programmatic form,
// attaching the process command line and environment so the usual
// override precedence applies on top.
func (c *Config) Configuration() glctx.Configuration {
	cfg := glctx.Configuration{
		DisabledExtensions:  c.DisableExtensions,
		DisabledWorkarounds: c.DisableWorkarounds,
		Args:                os.Args,
		LookupEnv:           os.LookupEnv,
	}
	switch c.Log {
	case "quiet":
		cfg.Flags |= glctx.QuietLog
	case "verbose":
		cfg.Flags |= glctx.VerboseLog
	}
	return cfg
}
