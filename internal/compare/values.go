package compare

import (
	"fmt"
	"math"

	"github.com/AndreyAkinshin/simregress/internal/frame"
)

// Tolerance modes for numeric cells.
const (
	ToleranceModeAbsolute = "absolute"
	ToleranceModeRelative = "relative"
	ToleranceModeULP      = "ulp"
)

// ComparisonConfig configures how cells are compared.
type ComparisonConfig struct {
	FloatTolerance float64 // Allowed difference; 0 means exact
	ToleranceMode  string  // "absolute", "relative" or "ulp"
	NaNEqualsNaN   bool    // Whether NaN == NaN
}

// DefaultComparisonConfig returns exact comparison with NaN equal to NaN.
func DefaultComparisonConfig() ComparisonConfig {
	return ComparisonConfig{
		FloatTolerance: 0,
		ToleranceMode:  ToleranceModeAbsolute,
		NaNEqualsNaN:   true,
	}
}

// EqualValues compares two cells. Missing equals missing, numbers compare
// through the tolerance, strings compare exactly, and a number never equals
// a string.
func EqualValues(expected, actual any, cfg ComparisonConfig) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	expFloat, expNum := toFloat(expected)
	actFloat, actNum := toFloat(actual)
	if expNum != actNum {
		return false
	}
	if expNum {
		return equalFloats(expFloat, actFloat, cfg)
	}

	expStr, ok1 := expected.(string)
	actStr, ok2 := actual.(string)
	return ok1 && ok2 && expStr == actStr
}

// EqualSequences compares two columns element-wise in order. On mismatch it
// returns a description of the first divergence and the number of rows that
// differ.
func EqualSequences(expected, actual []any, cfg ComparisonConfig) (bool, string) {
	if len(expected) != len(actual) {
		return false, fmt.Sprintf("length differs: baseline %d rows, candidate %d rows", len(expected), len(actual))
	}

	first := -1
	differing := 0
	for i := range expected {
		if !EqualValues(expected[i], actual[i], cfg) {
			if first < 0 {
				first = i
			}
			differing++
		}
	}
	if first < 0 {
		return true, ""
	}
	return false, fmt.Sprintf("row %d: baseline %s, candidate %s (%d of %d rows differ)",
		first, frame.FormatValue(expected[first]), frame.FormatValue(actual[first]), differing, len(expected))
}

func equalFloats(expected, actual float64, cfg ComparisonConfig) bool {
	if math.IsNaN(expected) || math.IsNaN(actual) {
		return cfg.NaNEqualsNaN && math.IsNaN(expected) && math.IsNaN(actual)
	}
	if math.IsInf(expected, 0) || math.IsInf(actual, 0) {
		return expected == actual
	}
	if expected == actual {
		return true
	}

	switch cfg.ToleranceMode {
	case ToleranceModeRelative:
		return isWithinRelativeTolerance(expected, actual, cfg.FloatTolerance)
	case ToleranceModeULP:
		return ulpDiff(expected, actual) <= int64(cfg.FloatTolerance)
	default:
		return math.Abs(expected-actual) <= cfg.FloatTolerance
	}
}

func toFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case int64:
		return float64(f), true
	case int:
		return float64(f), true
	default:
		return 0, false
	}
}

// isWithinRelativeTolerance checks if actual is within relative tolerance of expected.
// For expected == 0, uses absolute comparison to avoid division by zero.
func isWithinRelativeTolerance(expected, actual, tolerance float64) bool {
	if expected == 0 {
		return math.Abs(actual) <= tolerance
	}
	return math.Abs((expected-actual)/expected) <= tolerance
}

// ulpDiff returns the number of representable float64 values between a and b.
func ulpDiff(a, b float64) int64 {
	ia := orderedBits(a)
	ib := orderedBits(b)
	if ia > ib {
		return diffSaturating(ia, ib)
	}
	return diffSaturating(ib, ia)
}

// orderedBits maps a float64 onto an integer line where adjacent floats are
// adjacent integers and -0 == +0.
func orderedBits(f float64) int64 {
	bits := int64(math.Float64bits(f))
	if bits < 0 {
		return math.MinInt64 - bits
	}
	return bits
}

func diffSaturating(hi, lo int64) int64 {
	d := hi - lo
	if d < 0 {
		return math.MaxInt64
	}
	return d
}
