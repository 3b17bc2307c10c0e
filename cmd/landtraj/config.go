// Config loading for the landtraj CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/landmosaic/landtraj/internal/paths"
	"github.com/landmosaic/landtraj/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir          = "data_dir"
	cfgKeyWorkers          = "workers"
	cfgKeyPollInterval     = "poll_interval"
	cfgKeyKeepIntermediate = "keep_intermediate"

	defaultPollInterval = time.Second
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# landtraj configuration

# Data directory for consolidated rasters, diffs, summaries, and the run
# catalog (optional; overridable by --data-dir)
# data_dir:

# Worker pool size; 0 uses all cores minus one
workers: 0

# How often the progress observer publishes
poll_interval: 1s

# Keep per-year diff rasters after a full run
keep_intermediate: false
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyWorkers, 0)
	v.SetDefault(cfgKeyPollInterval, defaultPollInterval)
	v.SetDefault(cfgKeyKeepIntermediate, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// resolveConfig builds the effective run configuration from flags, the
// environment, and config.yaml, in that precedence order.
func resolveConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		DataDir:          dataDir,
		Workers:          v.GetInt(cfgKeyWorkers),
		PollInterval:     v.GetDuration(cfgKeyPollInterval),
		KeepIntermediate: v.GetBool(cfgKeyKeepIntermediate),
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
