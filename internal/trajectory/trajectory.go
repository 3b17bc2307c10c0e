// Package trajectory reduces a chronological stack of consolidated class
// rasters into counts of distinct per-pixel land-cover narratives.
//
// For every non-background class the aggregator derives per-year binary
// rasters and adjacent-year gain/loss diffs, stacks them into a
// pixel x class x transition tensor, and walks each pixel's transitions in
// chronological order recording the first class gained at each step. The
// resulting consecutive-repeat-collapsed class-name sequences are tallied
// into a histogram.
package trajectory

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/landmosaic/landtraj/internal/rasterdiff"
	"github.com/landmosaic/landtraj/internal/reclass"
	"github.com/landmosaic/landtraj/pkg/types"
)

// Transition codes used in the per-class diff layers.
const (
	GainCode uint8 = 1
	LossCode uint8 = 254
)

// Separator joins class names into a trajectory label.
const Separator = " → "

// gainLossTable detects per-class gains and losses between two binary
// rasters.
var gainLossTable = types.DiffTable{Specs: []types.DiffSpec{
	{Code: GainCode, Name: "gained", Color: types.RGB{R: 67, G: 96, B: 236}, FromClasses: []uint8{0}, ToClasses: []uint8{1}},
	{Code: LossCode, Name: "lost", Color: types.RGB{R: 255, G: 51, B: 50}, FromClasses: []uint8{1}, ToClasses: []uint8{0}},
}}

// Options tunes an aggregation run.
type Options struct {
	// Workers is the number of goroutines for the per-pixel scan and the
	// per-class layer builds. Zero means runtime.NumCPU()-1.
	Workers int

	// Progress, when non-nil, is called with the number of pixels
	// completed as each block of the scan finishes.
	Progress func(pixels int)

	// Logger receives per-pixel fault logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// Result is the aggregation output: the trajectory histogram plus the
// counted per-pixel faults that were absorbed along the way.
type Result struct {
	Counts      map[string]int
	Pixels      int
	ErrorPixels int
	Years       []int
}

// Aggregate consolidates the year stack into a trajectory histogram.
// The stack must hold at least one raster; all rasters must share one
// shape. Rasters are processed in ascending year order regardless of the
// order given.
//
// Per-pixel faults (transition codes outside the gain/loss/none domain)
// are logged, counted in Result.ErrorPixels, and treated as "no event";
// they never abort the run.
func Aggregate(ctx context.Context, stack []*types.Raster, table types.RemapTable, opts Options) (*Result, error) {
	if len(stack) == 0 {
		return nil, types.ErrNoRasters
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	for _, r := range stack {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if !r.SameShape(stack[0]) {
			return nil, types.ErrShapeMismatch
		}
	}

	ordered := make([]*types.Raster, len(stack))
	copy(ordered, stack)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Year < ordered[j].Year })

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}

	classes := table.Classes()
	layers, err := buildLayers(ctx, ordered, classes, workers)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Counts: make(map[string]int),
		Pixels: ordered[0].Size(),
	}
	for _, r := range ordered {
		result.Years = append(result.Years, r.Year)
	}

	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	if err := scanPixels(ctx, layers, names, result, workers, opts.Progress, logger); err != nil {
		return nil, err
	}
	return result, nil
}

// buildLayers derives, per class, the year-0 binary raster followed by the
// gain/loss diff for every adjacent year pair. layers[c][t] is the flat
// row-major pixel layer for class index c at transition index t.
func buildLayers(ctx context.Context, stack []*types.Raster, classes []types.ClassSpec, workers int) ([][][]uint8, error) {
	layers := make([][][]uint8, len(classes))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for ci, class := range classes {
		g.Go(func() error {
			binaries := make([]*types.Raster, len(stack))
			for t, r := range stack {
				binaries[t] = reclass.Binary(r, class.Code)
			}

			layer := make([][]uint8, len(stack))
			// The first year seeds the timeline directly.
			layer[0] = binaries[0].Pix
			for t := 1; t < len(stack); t++ {
				diff, err := rasterdiff.Encode(binaries[t-1], binaries[t], gainLossTable)
				if err != nil {
					return err
				}
				layer[t] = diff.Pix
			}
			layers[ci] = layer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return layers, nil
}

// scanPixels walks every pixel's transitions in chronological order. The
// pixel range is block-partitioned across workers; each block accumulates
// a local histogram that is merged once the block completes. Pixels are
// independent, so blocks share no state beyond the final merge.
func scanPixels(ctx context.Context, layers [][][]uint8, names []string, result *Result, workers int, progress func(int), logger *slog.Logger) error {
	pixels := result.Pixels
	blockSize := (pixels + workers - 1) / workers
	if blockSize < 1 {
		blockSize = 1
	}

	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < pixels; start += blockSize {
		end := start + blockSize
		if end > pixels {
			end = pixels
		}
		g.Go(func() error {
			local := make(map[string]int)
			errorPixels := 0
			transitions := 0
			if len(layers) > 0 {
				transitions = len(layers[0])
			}

			var path []string
			for p := start; p < end; p++ {
				path = path[:0]
				changed := false
				for t := 0; t < transitions; t++ {
					// First class (table order) whose gain fires wins
					// this transition.
					for c := range layers {
						v := layers[c][t][p]
						if v == GainCode {
							if len(path) == 0 || path[len(path)-1] != names[c] {
								path = append(path, names[c])
							}
							if t > 0 {
								changed = true
							}
							break
						}
						if v != 0 && v != LossCode {
							// Unrecognized transition code: count it,
							// log it, move on. Never aborts the batch.
							errorPixels++
							logger.Warn("unrecognized transition code",
								slog.Int("pixel", p),
								slog.Int("transition", t),
								slog.Int("code", int(v)))
						}
					}
				}
				// Transition index 0 only seeds the starting class; a
				// pixel with no qualifying gain at any later transition
				// has an empty trajectory and is excluded.
				if changed && len(path) > 0 {
					local[strings.Join(path, Separator)]++
				}
			}

			mu.Lock()
			for label, n := range local {
				result.Counts[label] += n
			}
			result.ErrorPixels += errorPixels
			mu.Unlock()
			if progress != nil {
				progress(end - start)
			}
			return nil
		})
	}
	return g.Wait()
}
