package config

// Default configuration values.
const (
	DefaultInDir         = "."
	DefaultOutDir        = "tests/test_data"
	DefaultPattern       = "*.qs"
	DefaultRScript       = "Rscript"
	DefaultBaselineTag   = "master"
	DefaultCandidateTag  = "test"
	DefaultExtension     = ".arrow"
	DefaultToleranceMode = "absolute"
	DefaultDatabase      = ".simregress/history.db"
	DefaultLogLevel      = "info"
)

// DefaultCategories lists the categories accepted by the comparator.
var DefaultCategories = []string{"dynamics", "totals"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	applyConvertDefaults(cfg)
	applyCompareDefaults(cfg)
	applyHistoryDefaults(cfg)
}

func applyConvertDefaults(cfg *Config) {
	if cfg.Convert == nil {
		cfg.Convert = &ConvertConfig{}
	}
	c := cfg.Convert
	if c.InDir == "" {
		c.InDir = DefaultInDir
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}
	if c.RScript == "" {
		c.RScript = DefaultRScript
	}
}

func applyCompareDefaults(cfg *Config) {
	if cfg.Compare == nil {
		cfg.Compare = &CompareConfig{}
	}
	c := cfg.Compare
	if c.DataDir == "" {
		c.DataDir = DefaultOutDir
	}
	if c.BaselineTag == "" {
		c.BaselineTag = DefaultBaselineTag
	}
	if c.CandidateTag == "" {
		c.CandidateTag = DefaultCandidateTag
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if len(c.Categories) == 0 {
		c.Categories = append([]string(nil), DefaultCategories...)
	}
	if c.FailFast == nil {
		c.FailFast = boolPtr(true)
	}
	if c.Comparison == nil {
		c.Comparison = &ComparisonConfig{}
	}
	if c.Comparison.ToleranceMode == "" {
		c.Comparison.ToleranceMode = DefaultToleranceMode
	}
	if c.Comparison.NaNEqualsNaN == nil {
		c.Comparison.NaNEqualsNaN = boolPtr(true)
	}
}

func applyHistoryDefaults(cfg *Config) {
	if cfg.History == nil {
		cfg.History = &HistoryConfig{}
	}
	if cfg.History.Database == "" {
		cfg.History.Database = DefaultDatabase
	}
}

func boolPtr(b bool) *bool {
	return &b
}
