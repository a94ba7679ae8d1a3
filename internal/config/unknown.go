package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadWithWarnings parses config data and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	cfg, err := parse(data)
	if err != nil {
		return nil, nil, err
	}

	warnings := detectUnknownFields(data)

	return cfg, warnings, nil
}

// detectUnknownFields compares the raw document with known struct fields.
func detectUnknownFields(data []byte) []string {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	warnings := unknownKeys(raw, reflect.TypeOf(Config{}), "root level")

	if section, ok := raw["convert"].(map[string]any); ok {
		warnings = append(warnings, unknownKeys(section, reflect.TypeOf(ConvertConfig{}), "convert")...)
	}
	if section, ok := raw["history"].(map[string]any); ok {
		warnings = append(warnings, unknownKeys(section, reflect.TypeOf(HistoryConfig{}), "history")...)
	}
	if section, ok := raw["compare"].(map[string]any); ok {
		warnings = append(warnings, unknownKeys(section, reflect.TypeOf(CompareConfig{}), "compare")...)

		if cmp, ok := section["comparison"].(map[string]any); ok {
			warnings = append(warnings, unknownKeys(cmp, reflect.TypeOf(ComparisonConfig{}), "compare.comparison")...)
		}
		if overrides, ok := section["overrides"].(map[string]any); ok {
			ids := make([]string, 0, len(overrides))
			for id := range overrides {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				if ov, ok := overrides[id].(map[string]any); ok {
					where := fmt.Sprintf("override %q", id)
					warnings = append(warnings, unknownKeys(ov, reflect.TypeOf(OverrideConfig{}), where)...)
				}
			}
		}
	}

	return warnings
}

func unknownKeys(section map[string]any, t reflect.Type, where string) []string {
	known := getYAMLFields(t)
	var warnings []string
	for key := range section {
		if !known[key] {
			if where == "root level" {
				warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
			} else {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in %s (ignored)", key, where))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}

// getYAMLFields returns a map of known YAML field names for a struct type.
func getYAMLFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}
