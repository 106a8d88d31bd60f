// Command qmat computes the medial axis of a polygonal mesh and
// optionally simplifies the resulting slab.
//
// usage: qmat [flags] <input.off|input.obj>
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Alireza-Khatami/qmat-cli/pkg/config"
	"github.com/Alireza-Khatami/qmat-cli/pkg/logger"
	"github.com/Alireza-Khatami/qmat-cli/pkg/pipeline"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	log.Info("qmat",
		zap.String("input", cfg.Input),
		zap.String("output", cfg.Pipeline.OutputPrefix),
		zap.Int("simplify", cfg.Pipeline.Simplify),
		zap.Float64("k", cfg.Pipeline.K))

	if err := pipeline.New(cfg, log).Run(); err != nil {
		log.Error("run failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}
