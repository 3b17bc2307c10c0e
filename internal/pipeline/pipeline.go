// Package pipeline orchestrates the landtraj stages over a year archive of
// categorical rasters: consolidate raw codes, diff adjacent years, derive
// per-pixel trajectories, summarize, and record the run in the catalog.
//
// Stages form strict sequential barriers; within a stage, rasters are
// processed by a fixed worker pool and each worker owns its output file. A
// failing worker aborts the whole stage rather than leaving silently
// missing output.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/landmosaic/landtraj/internal/progress"
	"github.com/landmosaic/landtraj/internal/rasterdiff"
	"github.com/landmosaic/landtraj/internal/rasterfile"
	"github.com/landmosaic/landtraj/internal/reclass"
	"github.com/landmosaic/landtraj/internal/store"
	"github.com/landmosaic/landtraj/internal/summary"
	"github.com/landmosaic/landtraj/internal/trajectory"
	"github.com/landmosaic/landtraj/internal/vector"
	"github.com/landmosaic/landtraj/pkg/types"
)

// Subdirectories of DataDir written by the stages.
const (
	ConsolidatedDir = "consolidated"
	DiffDir         = "diff"
	SummaryDir      = "summary"
	TrajectoryFile  = "trajectories.json"
)

// Pipeline drives the processing stages for one configuration.
type Pipeline struct {
	cfg    types.Config
	remap  types.RemapTable
	diff   types.DiffTable
	logger *slog.Logger
	layers *vector.LayerCache
}

// New validates the configuration and tables and builds a Pipeline. The
// layer cache is scoped to this Pipeline and dropped with it.
func New(cfg types.Config, remap types.RemapTable, diff types.DiffTable, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := remap.Validate(); err != nil {
		return nil, err
	}
	if err := diff.ValidateAgainst(remap); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		remap:  remap,
		diff:   diff,
		logger: logger,
		layers: vector.NewLayerCache(),
	}, nil
}

// workers returns the effective pool size: the configured value, or all
// cores minus one reserved for the coordinator.
func (p *Pipeline) workers() int {
	if p.cfg.Workers > 0 {
		return p.cfg.Workers
	}
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// Consolidate reclassifies every year raster in inputDir and writes the
// consolidated rasters under DataDir/consolidated. Each worker owns one
// output file; the first error aborts the batch.
func (p *Pipeline) Consolidate(ctx context.Context, inputDir string, counter *progress.Counter) ([]rasterfile.Entry, error) {
	entries, err := rasterfile.ListYears(inputDir)
	if err != nil {
		return nil, err
	}
	outDir := filepath.Join(p.cfg.DataDir, ConsolidatedDir)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	results := make([]rasterfile.Entry, len(entries))
	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := rasterfile.Open(entry.Path)
			if err != nil {
				return fmt.Errorf("year %d: %w", entry.Year, err)
			}
			raw.Year = entry.Year

			consolidated, err := reclass.Apply(raw, p.remap)
			if err != nil {
				return fmt.Errorf("year %d: reclassify: %w", entry.Year, err)
			}

			outPath := filepath.Join(outDir, fmt.Sprintf("%d_consolidated.tif", entry.Year))
			if err := rasterfile.Write(outPath, consolidated); err != nil {
				return fmt.Errorf("year %d: %w", entry.Year, err)
			}
			results[i] = rasterfile.Entry{Path: outPath, Year: entry.Year}
			if counter != nil {
				counter.Add(1)
			}
			p.logger.Info("consolidated raster", slog.Int("year", entry.Year), slog.String("path", outPath))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DiffYears encodes class transitions between every adjacent year pair of
// consolidated rasters and writes the diff rasters under DataDir/diff.
// Diffing year Y needs both Y-1 and Y consolidated, so this stage only
// starts after Consolidate's barrier.
func (p *Pipeline) DiffYears(ctx context.Context, consolidated []rasterfile.Entry, counter *progress.Counter) error {
	if len(consolidated) < 2 {
		p.logger.Warn("need at least two years to diff", slog.Int("years", len(consolidated)))
		return nil
	}
	outDir := filepath.Join(p.cfg.DataDir, DiffDir)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i := 1; i < len(consolidated); i++ {
		prev, cur := consolidated[i-1], consolidated[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			from, err := rasterfile.Open(prev.Path)
			if err != nil {
				return err
			}
			to, err := rasterfile.Open(cur.Path)
			if err != nil {
				return err
			}
			diff, err := rasterdiff.Encode(from, to, p.diff)
			if err != nil {
				return fmt.Errorf("diff %d_%d: %w", prev.Year, cur.Year, err)
			}
			outPath := filepath.Join(outDir, fmt.Sprintf("%d_%d_diff.tif", prev.Year, cur.Year))
			if err := rasterfile.Write(outPath, diff); err != nil {
				return err
			}
			if counter != nil {
				counter.Add(1)
			}
			p.logger.Info("diffed years", slog.Int("from", prev.Year), slog.Int("to", cur.Year))
			return nil
		})
	}
	return g.Wait()
}

// Trajectories aggregates the consolidated stack into the trajectory
// histogram and writes it as JSON under DataDir.
func (p *Pipeline) Trajectories(ctx context.Context, consolidated []rasterfile.Entry, counter *progress.Counter) (*trajectory.Result, error) {
	stack := make([]*types.Raster, len(consolidated))
	for i, entry := range consolidated {
		r, err := rasterfile.Open(entry.Path)
		if err != nil {
			return nil, err
		}
		r.Year = entry.Year
		stack[i] = r
	}

	opts := trajectory.Options{
		Workers: p.workers(),
		Logger:  p.logger,
	}
	if counter != nil {
		opts.Progress = counter.Add
	}
	result, err := trajectory.Aggregate(ctx, stack, p.remap, opts)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	outPath := filepath.Join(p.cfg.DataDir, TrajectoryFile)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, err
	}
	p.logger.Info("trajectories written",
		slog.String("path", outPath),
		slog.Int("distinct", len(result.Counts)),
		slog.Int("error_pixels", result.ErrorPixels))
	return result, nil
}

// Summarize writes a per-class count summary for every consolidated
// raster, optionally broken down by the features of layerPath. Layer reads
// go through the pipeline's call-scoped cache.
func (p *Pipeline) Summarize(ctx context.Context, consolidated []rasterfile.Entry, layerPath string) ([]*summary.Summary, error) {
	var layer *vector.Layer
	if layerPath != "" {
		var err error
		layer, err = p.layers.Get(layerPath)
		if err != nil {
			return nil, err
		}
	}
	outDir := filepath.Join(p.cfg.DataDir, SummaryDir)

	summaries := make([]*summary.Summary, len(consolidated))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, entry := range consolidated {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := rasterfile.Open(entry.Path)
			if err != nil {
				return err
			}
			r.Year = entry.Year

			var s *summary.Summary
			if layer != nil {
				s = summary.SummarizeWithFeatures(r, layer)
			} else {
				s = summary.Summarize(r)
			}
			summaries[i] = s
			return s.WriteJSON(filepath.Join(outDir, fmt.Sprintf("%d_summary.json", entry.Year)))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// RunReport describes one full pipeline run.
type RunReport struct {
	RunID        string
	Years        []int
	Result       *trajectory.Result
	Elapsed      time.Duration
	Consolidated []rasterfile.Entry
}

// Run executes every stage over inputDir with strict barriers between
// stages, reporting progress through the observer and recording results in
// the catalog when one is supplied.
func (p *Pipeline) Run(ctx context.Context, inputDir, layerPath string, catalog *store.Store) (*RunReport, error) {
	start := time.Now()
	defer p.layers.Reset()

	var runID string
	if catalog != nil {
		var err error
		runID, err = catalog.BeginRun(inputDir)
		if err != nil {
			return nil, err
		}
	}

	counter := progress.Watch(func(current, previous int) {
		p.logger.Info("progress", slog.Int("done", current))
	}, progress.WithInterval(p.cfg.PollInterval), progress.WithLogger(p.logger))
	defer counter.Close()

	consolidated, err := p.Consolidate(ctx, inputDir, counter)
	if err != nil {
		return nil, fmt.Errorf("consolidate stage: %w", err)
	}

	if err := p.DiffYears(ctx, consolidated, counter); err != nil {
		return nil, fmt.Errorf("diff stage: %w", err)
	}

	result, err := p.Trajectories(ctx, consolidated, counter)
	if err != nil {
		return nil, fmt.Errorf("trajectory stage: %w", err)
	}

	summaries, err := p.Summarize(ctx, consolidated, layerPath)
	if err != nil {
		return nil, fmt.Errorf("summary stage: %w", err)
	}

	report := &RunReport{
		RunID:        runID,
		Result:       result,
		Consolidated: consolidated,
		Elapsed:      time.Since(start),
	}
	for _, entry := range consolidated {
		report.Years = append(report.Years, entry.Year)
	}

	if catalog != nil {
		for i, s := range summaries {
			if err := catalog.SaveClassCounts(runID, consolidated[i].Year, s.PixelCounts); err != nil {
				return nil, err
			}
		}
		if err := catalog.SaveTrajectories(runID, result.Counts); err != nil {
			return nil, err
		}
		if err := catalog.FinishRun(runID, result.Pixels, result.ErrorPixels); err != nil {
			return nil, err
		}
	}

	if !p.cfg.KeepIntermediate {
		if err := os.RemoveAll(filepath.Join(p.cfg.DataDir, DiffDir)); err != nil {
			p.logger.Warn("could not remove intermediate diffs", slog.Any("error", err))
		}
	}
	return report, nil
}
