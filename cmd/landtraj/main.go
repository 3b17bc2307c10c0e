// Package main provides the landtraj CLI: land-cover change analysis over
// a multi-year archive of categorical rasters.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags set on the root command.
	flagConfigDir string
	flagDataDir   string
	flagWorkers   int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "landtraj",
	Short: "Quantify land-cover change from yearly categorical rasters",
	Long: `landtraj consolidates raw land-cover codes into a reduced taxonomy,
detects class-to-class transitions between consecutive years, and derives
per-pixel trajectories of class changes aggregated into a histogram across
the whole raster grid.

Input rasters are single-band TIFF files named with a leading four-digit
year (for example 2020_cdl.tif).`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for outputs and the run catalog")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "worker pool size (default: cores minus one)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(consolidateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(trajectoriesCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("landtraj v0.1.0")
	},
}
