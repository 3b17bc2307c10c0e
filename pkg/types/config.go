package types

import "time"

// Config holds the run parameters for the pipeline driver.
type Config struct {
	// DataDir is where intermediate rasters, the run catalog, and exported
	// results are written.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Workers is the size of the raster worker pool. Zero means
	// runtime.NumCPU()-1 (one core reserved for the coordinator).
	Workers int `json:"workers" yaml:"workers"`

	// PollInterval is how often the progress observer publishes. Zero
	// publishes every delta immediately.
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// KeepIntermediate keeps per-class boolean and diff rasters on disk
	// after a trajectory run instead of discarding them.
	KeepIntermediate bool `json:"keep_intermediate" yaml:"keep_intermediate"`
}

// Validate checks that the Config is well-formed, returning a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.Workers < 0 {
		return ErrWorkersInvalid
	}
	if c.PollInterval < 0 {
		return ErrPollIntervalInvalid
	}
	return nil
}
