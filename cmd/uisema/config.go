package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/uisema/pkg/analyzer"
	"github.com/gnana997/uisema/pkg/util"
)

// ProjectConfig holds the contents of .uisema/config.yaml under the
// project root.
type ProjectConfig struct {
	Version   string   `yaml:"version"`
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
	Workers   int      `yaml:"workers"`
}

// loadProjectConfig reads .uisema/config.yaml from the given project root.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig(root string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, ".uisema", "config.yaml"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// scanOptionsFrom builds discovery options, preferring config globs over
// the defaults.
func scanOptionsFrom(cfg *ProjectConfig) analyzer.ScanOptions {
	opts := analyzer.DefaultScanOptions()
	if cfg == nil {
		return opts
	}
	if len(cfg.Include) > 0 {
		opts.Include = cfg.Include
	}
	if len(cfg.Exclude) > 0 {
		opts.Exclude = cfg.Exclude
	}
	return opts
}

// loggerFrom builds the process logger, applying the fallback chain:
//  1. Explicit --log-level flag value (non-empty override)
//  2. log_level/log_format from .uisema/config.yaml
//  3. Defaults: info level, text format, stderr
func loggerFrom(cfg *ProjectConfig, levelFlag string) *util.LoggerConfig {
	logCfg := util.DefaultLoggerConfig()
	if cfg != nil {
		if cfg.LogLevel != "" {
			logCfg.Level = util.LogLevel(cfg.LogLevel)
		}
		if cfg.LogFormat != "" {
			logCfg.Format = util.LogFormat(cfg.LogFormat)
		}
	}
	if levelFlag != "" {
		logCfg.Level = util.LogLevel(levelFlag)
	}
	return &logCfg
}

// analyzerConfigFrom builds the analyzer configuration from project config.
func analyzerConfigFrom(cfg *ProjectConfig) analyzer.Config {
	aCfg := analyzer.DefaultConfig()
	if cfg != nil && cfg.Workers > 0 {
		aCfg.Workers = cfg.Workers
	}
	return aCfg
}
