package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// BranchTag is the candidate tag that resolves to the current git branch.
const BranchTag = "@branch"

var (
	// Tag: letters, digits, dots, underscores, hyphens.
	tagPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

	// Category: lowercase letters, digits, underscores.
	categoryPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

	// Analysis id: no hyphen, since it ends at the first hyphen of a name.
	analysisIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)
)

var (
	validLogLevels      = []string{"debug", "info", "warn", "warning", "error"}
	validToleranceModes = []string{"absolute", "relative", "ulp"}
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration with defaults applied and returns warnings
// for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if !contains(validLogLevels, strings.ToLower(cfg.LogLevel)) {
		return nil, &ValidationError{
			Field:   "log_level",
			Message: "must be one of " + strings.Join(validLogLevels, ", "),
		}
	}

	if cfg.Convert != nil {
		if err := validateConvert(cfg.Convert); err != nil {
			return nil, err
		}
	}

	if cfg.Compare != nil {
		w, err := validateCompare(cfg.Compare)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
	}

	return warnings, nil
}

func validateConvert(c *ConvertConfig) error {
	if !strings.ContainsAny(c.Pattern, "*?[") {
		return &ValidationError{Field: "convert.pattern", Message: "must be a glob pattern"}
	}
	return nil
}

func validateCompare(c *CompareConfig) ([]string, error) {
	if err := ValidateTag("compare.baseline_tag", c.BaselineTag); err != nil {
		return nil, err
	}
	if c.CandidateTag != BranchTag {
		if err := ValidateTag("compare.candidate_tag", c.CandidateTag); err != nil {
			return nil, err
		}
	}
	if c.BaselineTag == c.CandidateTag {
		return nil, &ValidationError{Field: "compare.candidate_tag", Message: "must differ from baseline_tag"}
	}

	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return nil, &ValidationError{Field: "compare.extension", Message: `must start with "." and name an extension`}
	}

	for _, cat := range c.Categories {
		if !categoryPattern.MatchString(cat) {
			return nil, &ValidationError{
				Field:   "compare.categories",
				Message: fmt.Sprintf("category %q must match pattern %s", cat, categoryPattern),
			}
		}
	}

	if c.Comparison != nil {
		if err := validateComparison(c.Comparison); err != nil {
			return nil, err
		}
	}

	return validateOverrides(c)
}

func validateComparison(c *ComparisonConfig) error {
	if c.FloatTolerance < 0 {
		return &ValidationError{Field: "compare.comparison.float_tolerance", Message: "must not be negative"}
	}
	if !contains(validToleranceModes, c.ToleranceMode) {
		return &ValidationError{
			Field:   "compare.comparison.tolerance_mode",
			Message: "must be one of " + strings.Join(validToleranceModes, ", "),
		}
	}
	if c.ToleranceMode == "ulp" && c.FloatTolerance != float64(int64(c.FloatTolerance)) {
		return &ValidationError{Field: "compare.comparison.float_tolerance", Message: "must be a whole number in ulp mode"}
	}
	return nil
}

func validateOverrides(c *CompareConfig) ([]string, error) {
	ids := make([]string, 0, len(c.Overrides))
	for id := range c.Overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var warnings []string
	for _, id := range ids {
		field := fmt.Sprintf("compare.overrides.%s", id)
		if !analysisIDPattern.MatchString(id) {
			return nil, &ValidationError{Field: field, Message: "analysis id must not be empty or contain hyphens"}
		}
		ov := c.Overrides[id]
		for _, cat := range ov.Skip {
			if !contains(c.Categories, cat) {
				warnings = append(warnings, fmt.Sprintf("%s.skip: category %q is not compared", field, cat))
			}
		}
		if ov.ValueColumn != "" && strings.TrimSpace(ov.ValueColumn) != ov.ValueColumn {
			return nil, &ValidationError{Field: field + ".value_column", Message: "must not have surrounding whitespace"}
		}
	}
	return warnings, nil
}

// ValidateTag checks that a tag can appear in an artifact name.
func ValidateTag(field, tag string) error {
	if tag == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if !tagPattern.MatchString(tag) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must match pattern %s", tagPattern),
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
