package types

import "time"

// ClassifyConfig holds settings for classifying a single reaction.
type ClassifyConfig struct {
	// Timeout bounds the symbolic work spent on one reaction (default 5s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxTerms caps the number of terms any polynomial expansion may reach
	// before the symbolic engine gives up (default 4096).
	MaxTerms int `json:"max_terms" yaml:"max_terms" mapstructure:"max_terms"`

	// Polynomial enables the lowest-priority polynomial test. When false,
	// laws that would only match it are reported as NA.
	Polynomial bool `json:"polynomial" yaml:"polynomial" mapstructure:"polynomial"`
}

// CensusConfig holds settings for a corpus run.
type CensusConfig struct {
	// ModelsDir is the directory of YAML model documents.
	ModelsDir string `json:"models_dir" yaml:"models_dir" mapstructure:"models_dir"`

	// Workers is the number of models classified concurrently (default: number of CPUs).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// MetricsFile, when set, receives Prometheus text-format counters after the run.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty" mapstructure:"metrics_file"`
}

// StoreConfig holds settings for the census database.
type StoreConfig struct {
	// Dir is the directory containing census.db and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Classify ClassifyConfig `json:"classify" yaml:"classify" mapstructure:"classify"`
	Census   CensusConfig   `json:"census" yaml:"census" mapstructure:"census"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`

	// LogLevel is one of debug, info, warn, error (default info).
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// DefaultPipelineConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Classify: ClassifyConfig{
			Timeout:    5 * time.Second,
			MaxTerms:   4096,
			Polynomial: true,
		},
		Census: CensusConfig{
			ModelsDir: "models",
		},
		Store: StoreConfig{
			Dir: "census",
		},
		LogLevel: "info",
	}
}
