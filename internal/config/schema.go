// Package config provides loading and validation for simregress.yaml.
package config

// Config represents the complete simregress.yaml configuration.
type Config struct {
	Convert  *ConvertConfig `yaml:"convert,omitempty" json:"convert,omitempty"`
	Compare  *CompareConfig `yaml:"compare,omitempty" json:"compare,omitempty"`
	History  *HistoryConfig `yaml:"history,omitempty" json:"history,omitempty"`
	LogLevel string         `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// ConvertConfig configures the converter.
type ConvertConfig struct {
	InDir     string `yaml:"in_dir,omitempty" json:"in_dir,omitempty"`
	OutDir    string `yaml:"out_dir,omitempty" json:"out_dir,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	RScript   string `yaml:"rscript,omitempty" json:"rscript,omitempty"`
	KeepGoing bool   `yaml:"keep_going,omitempty" json:"keep_going,omitempty"`
}

// CompareConfig configures artifact discovery and the checks.
type CompareConfig struct {
	DataDir      string                    `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	BaselineTag  string                    `yaml:"baseline_tag,omitempty" json:"baseline_tag,omitempty"`
	CandidateTag string                    `yaml:"candidate_tag,omitempty" json:"candidate_tag,omitempty"`
	Extension    string                    `yaml:"extension,omitempty" json:"extension,omitempty"`
	Categories   []string                  `yaml:"categories,omitempty" json:"categories,omitempty"`
	FailFast     *bool                     `yaml:"fail_fast,omitempty" json:"fail_fast,omitempty"`
	Comparison   *ComparisonConfig         `yaml:"comparison,omitempty" json:"comparison,omitempty"`
	Overrides    map[string]OverrideConfig `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// ComparisonConfig configures cell equality.
type ComparisonConfig struct {
	FloatTolerance float64 `yaml:"float_tolerance,omitempty" json:"float_tolerance,omitempty"`
	ToleranceMode  string  `yaml:"tolerance_mode,omitempty" json:"tolerance_mode,omitempty"`
	NaNEqualsNaN   *bool   `yaml:"nan_equals_nan,omitempty" json:"nan_equals_nan,omitempty"`
}

// OverrideConfig declares exceptions for one analysis id.
type OverrideConfig struct {
	Skip        []string `yaml:"skip,omitempty" json:"skip,omitempty"`
	ValueColumn string   `yaml:"value_column,omitempty" json:"value_column,omitempty"`
}

// HistoryConfig configures the run history database.
type HistoryConfig struct {
	Database string `yaml:"database,omitempty" json:"database,omitempty"`
}
