package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrHelp reports that the user asked for usage text.
var ErrHelp = flag.ErrHelp

// Load builds the configuration from args (excluding the program name)
// with priority: defaults < file < flags. Usage and help text go to
// output.
func Load(args []string, output io.Writer) (*Config, error) {
	cfg := Default()

	f := newFlagSet(output)
	if err := f.parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, err
	}

	configPath := *f.configPath
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", configPath, err)
		}
	}

	f.applyFlags(cfg)

	switch len(f.inputs) {
	case 0:
		f.fs.Usage()
		return nil, fmt.Errorf("config: missing input file")
	case 1:
		cfg.Input = f.inputs[0]
	default:
		f.fs.Usage()
		return nil, fmt.Errorf("config: multiple input files: %s", strings.Join(f.inputs, " "))
	}

	if cfg.Pipeline.Simplify < 0 {
		return nil, fmt.Errorf("config: simplify target must not be negative, got %d", cfg.Pipeline.Simplify)
	}
	if cfg.Pipeline.K <= 0 {
		return nil, fmt.Errorf("config: k factor must be positive, got %g", cfg.Pipeline.K)
	}
	if cfg.Pipeline.OutputPrefix == "" {
		cfg.Pipeline.OutputPrefix = strings.TrimSuffix(cfg.Input, ".off")
	}

	return cfg, nil
}

// findConfigFile looks for a config file next to the working directory.
func findConfigFile() string {
	candidates := []string{
		"./qmat.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
