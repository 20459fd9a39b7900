package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/viper"

	"github.com/pdiddy/ratelaw/pkg/types"
)

// setDefaults registers the built-in configuration with viper so that
// config files and RATELAW_* variables only need to name what they change.
func setDefaults() {
	d := types.DefaultPipelineConfig()
	viper.SetDefault("classify.timeout", d.Classify.Timeout)
	viper.SetDefault("classify.max_terms", d.Classify.MaxTerms)
	viper.SetDefault("classify.polynomial", d.Classify.Polynomial)
	viper.SetDefault("census.models_dir", d.Census.ModelsDir)
	viper.SetDefault("census.workers", d.Census.Workers)
	viper.SetDefault("census.metrics_file", d.Census.MetricsFile)
	viper.SetDefault("store.dir", d.Store.Dir)
	viper.SetDefault("log_level", d.LogLevel)
}

// pipelineConfig decodes the merged flag, environment, file and default
// settings.
func pipelineConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the stderr logger for level.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: use debug, info, warn or error", level)
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
	})), nil
}
