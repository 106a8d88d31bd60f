package config

import (
	"flag"
	"fmt"
	"io"
)

// flagSet carries the parsed flag values alongside the FlagSet so that
// Load can tell an explicitly set flag from its default.
type flagSet struct {
	fs *flag.FlagSet

	configPath *string
	simplify   *int
	k          *float64
	output     *string
	debug      *bool
	logFile    *string

	inputs []string
}

func newFlagSet(output io.Writer) *flagSet {
	fs := flag.NewFlagSet("qmat", flag.ContinueOnError)
	fs.SetOutput(output)
	f := &flagSet{
		fs:         fs,
		configPath: fs.String("config", "", "path to config file"),
		simplify:   fs.Int("simplify", 0, "target vertex count for slab simplification (0 skips it)"),
		k:          fs.Float64("k", 0, "positive regularization factor for the collapse cost"),
		output:     fs.String("output", "", "output file prefix (default: input path without trailing .off)"),
		debug:      fs.Bool("debug", false, "enable debug logging"),
		logFile:    fs.String("log-file", "", "write logs to this rotating file"),
	}
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: qmat [flags] <input.off|input.obj>\n")
		fs.PrintDefaults()
	}
	return f
}

// parse consumes flags and collects positional arguments, accepting
// flags both before and after the input path.
func (f *flagSet) parse(args []string) error {
	for {
		if err := f.fs.Parse(args); err != nil {
			return err
		}
		rest := f.fs.Args()
		if len(rest) == 0 {
			return nil
		}
		f.inputs = append(f.inputs, rest[0])
		args = rest[1:]
	}
}

// wasSet reports whether the named flag appeared on the command line.
func (f *flagSet) wasSet(name string) bool {
	set := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// applyFlags applies explicitly set CLI flags to the config.
func (f *flagSet) applyFlags(cfg *Config) {
	if f.wasSet("simplify") {
		cfg.Pipeline.Simplify = *f.simplify
	}
	if f.wasSet("k") {
		cfg.Pipeline.K = *f.k
	}
	if f.wasSet("output") {
		cfg.Pipeline.OutputPrefix = *f.output
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if f.wasSet("log-file") {
		cfg.Logging.LogFile = *f.logFile
	}
}
