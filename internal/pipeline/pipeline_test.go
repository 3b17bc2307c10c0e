package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landmosaic/landtraj/internal/rasterfile"
	"github.com/landmosaic/landtraj/internal/store"
	"github.com/landmosaic/landtraj/pkg/types"
)

// identityRemap maps codes 1 and 2 to themselves.
var identityRemap = types.RemapTable{Specs: []types.ClassSpec{
	{Code: 1, Name: "one", SourceCodes: []uint8{1}},
	{Code: 2, Name: "two", SourceCodes: []uint8{2}},
}}

// changeDiff flags 1->2 transitions as 1 and 2->1 transitions as 254.
var changeDiff = types.DiffTable{Specs: []types.DiffSpec{
	{Code: 1, Name: "gained", FromClasses: []uint8{1}, ToClasses: []uint8{2}},
	{Code: 254, Name: "lost", FromClasses: []uint8{2}, ToClasses: []uint8{1}},
}}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// writeYearRaster writes a 2x2 raster named with its year into dir.
func writeYearRaster(t *testing.T, dir string, year int, pix ...uint8) {
	t.Helper()
	r := types.NewRaster(2, 2)
	r.Year = year
	copy(r.Pix, pix)
	require.NoError(t, rasterfile.Write(filepath.Join(dir, fmt.Sprintf("%d_cdl.tif", year)), r))
}

func newTestPipeline(t *testing.T, dataDir string) *Pipeline {
	t.Helper()
	cfg := types.Config{DataDir: dataDir, Workers: 2, KeepIntermediate: true}
	p, err := New(cfg, identityRemap, changeDiff, quietLogger())
	require.NoError(t, err)
	return p
}

func TestEndToEndTwoYearScenario(t *testing.T) {
	// Two 2x2 rasters: pixel 0 goes 1->2, pixel 1 goes 2->1, pixels 2 and
	// 3 are stable. The diff raster must read {1, 254, 0, 0}.
	inputDir := t.TempDir()
	dataDir := t.TempDir()
	writeYearRaster(t, inputDir, 2020, 1, 2, 1, 2)
	writeYearRaster(t, inputDir, 2021, 2, 1, 1, 2)

	p := newTestPipeline(t, dataDir)
	ctx := context.Background()

	consolidated, err := p.Consolidate(ctx, inputDir, nil)
	require.NoError(t, err)
	require.Len(t, consolidated, 2)
	assert.Equal(t, 2020, consolidated[0].Year)

	require.NoError(t, p.DiffYears(ctx, consolidated, nil))

	diffPath := filepath.Join(dataDir, DiffDir, "2020_2021_diff.tif")
	diff, err := rasterfile.Open(diffPath)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 254, 0, 0}, diff.Pix)
}

func TestRunFullPipeline(t *testing.T) {
	inputDir := t.TempDir()
	dataDir := t.TempDir()
	// Pixel timelines across three years:
	//   p0: one -> two -> two   => "one → two"
	//   p1: two -> one -> two   => "two → one → two"
	//   p2: one -> one -> one   => excluded (never changes)
	//   p3: two -> two -> one   => "two → one"
	writeYearRaster(t, inputDir, 2020, 1, 2, 1, 2)
	writeYearRaster(t, inputDir, 2021, 2, 1, 1, 2)
	writeYearRaster(t, inputDir, 2022, 2, 2, 1, 1)

	catalog, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer catalog.Close()

	p := newTestPipeline(t, dataDir)
	report, err := p.Run(context.Background(), inputDir, "", catalog)
	require.NoError(t, err)

	assert.Equal(t, []int{2020, 2021, 2022}, report.Years)
	assert.Equal(t, 4, report.Result.Pixels)
	assert.Equal(t, map[string]int{
		"one → two":       1,
		"two → one → two": 1,
		"two → one":       1,
	}, report.Result.Counts)

	// Exported JSON matches the aggregation result.
	data, err := os.ReadFile(filepath.Join(dataDir, TrajectoryFile))
	require.NoError(t, err)
	var decoded struct {
		Trajectories map[string]int `json:"trajectories"`
		ErrorPixels  int            `json:"error_pixels"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Result.Counts, decoded.Trajectories)
	assert.Zero(t, decoded.ErrorPixels)

	// Catalog recorded the run.
	require.NotEmpty(t, report.RunID)
	stored, err := catalog.Trajectories(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, report.Result.Counts, stored)

	counts2020, err := catalog.ClassCounts(report.RunID, 2020)
	require.NoError(t, err)
	assert.Equal(t, map[uint8]int{1: 2, 2: 2}, counts2020)

	// Summaries exist per year.
	assert.FileExists(t, filepath.Join(dataDir, SummaryDir, "2020_summary.json"))
	assert.FileExists(t, filepath.Join(dataDir, SummaryDir, "2022_summary.json"))
}

func TestRunDiscardsIntermediatesByDefault(t *testing.T) {
	inputDir := t.TempDir()
	dataDir := t.TempDir()
	writeYearRaster(t, inputDir, 2020, 1, 1, 2, 2)
	writeYearRaster(t, inputDir, 2021, 2, 2, 1, 1)

	cfg := types.Config{DataDir: dataDir, Workers: 1}
	p, err := New(cfg, identityRemap, changeDiff, quietLogger())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), inputDir, "", nil)
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(dataDir, DiffDir))
	assert.FileExists(t, filepath.Join(dataDir, TrajectoryFile))
}

func TestConsolidateFailsFastOnBadInput(t *testing.T) {
	inputDir := t.TempDir()
	// A file that looks like a year raster but is not a TIFF.
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "2020_cdl.tif"), []byte("not a tiff"), 0o644))

	p := newTestPipeline(t, t.TempDir())
	_, err := p.Consolidate(context.Background(), inputDir, nil)
	assert.Error(t, err)
}

func TestNewValidates(t *testing.T) {
	_, err := New(types.Config{}, identityRemap, changeDiff, nil)
	assert.ErrorIs(t, err, types.ErrDataDirEmpty)

	_, err = New(types.Config{DataDir: "x"}, types.RemapTable{}, changeDiff, nil)
	assert.ErrorIs(t, err, types.ErrEmptyTable)

	badDiff := types.DiffTable{Specs: []types.DiffSpec{
		{Code: 1, FromClasses: []uint8{9}, ToClasses: []uint8{1}},
	}}
	_, err = New(types.Config{DataDir: "x"}, identityRemap, badDiff, nil)
	assert.ErrorIs(t, err, types.ErrUnknownClass)
}
