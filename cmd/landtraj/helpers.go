// Shared helpers for landtraj CLI commands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/landmosaic/landtraj/internal/cdl"
	"github.com/landmosaic/landtraj/internal/pipeline"
	"github.com/landmosaic/landtraj/pkg/types"
)

// newLogger builds the CLI's structured logger. Progress and stage logs go
// to stderr so command output on stdout stays machine-readable.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// newPipeline resolves configuration and builds a pipeline with the
// default CDL tables.
func newPipeline() (*pipeline.Pipeline, types.Config, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, types.Config{}, err
	}
	p, err := pipeline.New(cfg, cdl.DefaultRemap(), cdl.DefaultDiff(), newLogger())
	if err != nil {
		return nil, types.Config{}, fmt.Errorf("build pipeline: %w", err)
	}
	return p, cfg, nil
}
