package config

import (
	"testing"
)

// FuzzLoadWithWarnings feeds arbitrary documents through parsing, unknown
// field detection and validation. None of them may panic.
// Run: go test -fuzz=FuzzLoadWithWarnings -fuzztime=30s ./internal/config
func FuzzLoadWithWarnings(f *testing.F) {
	seeds := []string{
		``,
		`log_level: info`,
		"compare:\n  baseline_tag: master\n  candidate_tag: test\n",
		"compare:\n  overrides:\n    5: {skip: [totals]}\n",
		"compare:\n  overrides: [1, 2]\n",
		"compare:\n  comparison:\n    float_tolerance: .inf\n",
		"convert: null\n",
		`- a`,
		`"string"`,
		`123`,
		"compare: [unclosed",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, doc string) {
		cfg, _, err := LoadWithWarnings("fuzz.yaml", []byte(doc))
		if err != nil {
			return
		}
		applyDefaults(cfg)
		_, _ = Validate(cfg)
	})
}
