// Stage commands for the landtraj CLI.
package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/landmosaic/landtraj/internal/pipeline"
	"github.com/landmosaic/landtraj/internal/rasterfile"
	"github.com/landmosaic/landtraj/internal/store"
)

var (
	flagInput string
	flagLayer string
)

func init() {
	for _, cmd := range []*cobra.Command{consolidateCmd, diffCmd, trajectoriesCmd, summarizeCmd, runCmd} {
		cmd.Flags().StringVar(&flagInput, "input", "", "directory of year-named raster files (required)")
		cmd.MarkFlagRequired("input")
	}
	summarizeCmd.Flags().StringVar(&flagLayer, "layer", "", "GeoJSON feature layer for a per-feature breakdown")
	runCmd.Flags().StringVar(&flagLayer, "layer", "", "GeoJSON feature layer for a per-feature breakdown")
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Reclassify every year raster into the consolidated taxonomy",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, cfg, err := newPipeline()
		if err != nil {
			return err
		}
		entries, err := p.Consolidate(cmd.Context(), flagInput, nil)
		if err != nil {
			return err
		}
		fmt.Printf("consolidated %d rasters into %s\n", len(entries), filepath.Join(cfg.DataDir, pipeline.ConsolidatedDir))
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Encode class transitions between adjacent years",
	Long: `Consolidate every year raster, then encode class transitions between
each adjacent year pair using the default transition table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, cfg, err := newPipeline()
		if err != nil {
			return err
		}
		entries, err := p.Consolidate(cmd.Context(), flagInput, nil)
		if err != nil {
			return err
		}
		if err := p.DiffYears(cmd.Context(), entries, nil); err != nil {
			return err
		}
		fmt.Printf("diff rasters written to %s\n", filepath.Join(cfg.DataDir, pipeline.DiffDir))
		return nil
	},
}

var trajectoriesCmd = &cobra.Command{
	Use:   "trajectories",
	Short: "Derive the per-pixel trajectory histogram",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, cfg, err := newPipeline()
		if err != nil {
			return err
		}
		entries, err := p.Consolidate(cmd.Context(), flagInput, nil)
		if err != nil {
			return err
		}
		result, err := p.Trajectories(cmd.Context(), entries, nil)
		if err != nil {
			return err
		}
		fmt.Printf("%d distinct trajectories over %d pixels (%d error pixels) written to %s\n",
			len(result.Counts), result.Pixels, result.ErrorPixels,
			filepath.Join(cfg.DataDir, pipeline.TrajectoryFile))
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Write per-class pixel counts for every year raster",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, cfg, err := newPipeline()
		if err != nil {
			return err
		}
		entries, err := rasterfile.ListYears(flagInput)
		if err != nil {
			return err
		}
		if _, err := p.Summarize(cmd.Context(), entries, flagLayer); err != nil {
			return err
		}
		fmt.Printf("summaries for %d rasters written to %s\n", len(entries), filepath.Join(cfg.DataDir, pipeline.SummaryDir))
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full pipeline and record the run in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, cfg, err := newPipeline()
		if err != nil {
			return err
		}
		catalog, err := store.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer catalog.Close()

		report, err := p.Run(cmd.Context(), flagInput, flagLayer, catalog)
		if err != nil {
			return err
		}
		fmt.Printf("run %s: %d years, %d distinct trajectories, %d error pixels, %s\n",
			report.RunID, len(report.Years), len(report.Result.Counts),
			report.Result.ErrorPixels, report.Elapsed.Round(time.Millisecond))
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		catalog, err := store.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer catalog.Close()

		runs, err := catalog.Runs()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  pixels=%d error_pixels=%d  %s\n",
				r.RunID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Pixels, r.ErrorPixels, r.InputDir)
		}
		return nil
	},
}
