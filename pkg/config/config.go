// Package config handles pipeline configuration: built-in defaults,
// optional YAML file, and command-line flags, in increasing priority.
package config

// Config holds all pipeline settings.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Input is the mesh file, taken from the command line only.
	Input string `yaml:"-"`
}

// PipelineConfig holds medial-axis pipeline settings.
type PipelineConfig struct {
	// Simplify is the target vertex count after simplification; 0 skips
	// the simplification stage.
	Simplify int `yaml:"simplify"`

	// K regularizes the simplification cost. Must be positive.
	K float64 `yaml:"k"`

	// OutputPrefix names the exported files; empty derives it from the
	// input path by stripping a trailing ".off".
	OutputPrefix string `yaml:"output_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Simplify:     0,
			K:            0.00001,
			OutputPrefix: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
