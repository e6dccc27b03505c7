package variables

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// EnvValuePrefix marks environment variables holding template values,
// e.g. CARGO_GENERATE_VALUE_PROJECT_KIND.
const EnvValuePrefix = "CARGO_GENERATE_VALUE_"

// Supplied holds values provided outside the interactive flow, merged
// in precedence order: favorite values first, then a values file, then
// CARGO_GENERATE_VALUE_* environment variables, then --define pairs.
type Supplied struct {
	values map[string]any
}

// CollectSupplied merges every external value source. The favorite map
// may be nil; valuesFile may be empty.
func CollectSupplied(favorite map[string]any, valuesFile string, defines []string) (*Supplied, error) {
	merged := make(map[string]any)

	for name, value := range favorite {
		merged[name] = value
	}

	if valuesFile != "" {
		fromFile, err := readValuesFile(valuesFile)
		if err != nil {
			return nil, err
		}
		for name, value := range fromFile {
			merged[name] = value
		}
	}

	for name, value := range envValues() {
		merged[name] = value
	}

	for _, define := range defines {
		name, value, ok := strings.Cut(define, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid define %q, expected name=value", define)
		}
		merged[name] = value
	}

	return &Supplied{values: merged}, nil
}

// readValuesFile parses the values table from a TOML file, or from a
// YAML file when the extension says so.
func readValuesFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file: %w", err)
	}

	var doc struct {
		Values map[string]any `toml:"values" yaml:"values"`
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
		}
	}
	return doc.Values, nil
}

// envValues collects CARGO_GENERATE_VALUE_* variables from the
// environment. Names are matched case-insensitively by lowercasing the
// suffix.
func envValues() map[string]any {
	values := make(map[string]any)
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		name, found := strings.CutPrefix(key, EnvValuePrefix)
		if !found || name == "" {
			continue
		}
		values[strings.ToLower(name)] = value
	}
	return values
}

// Lookup returns the externally supplied value for name.
func (s *Supplied) Lookup(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns the supplied value names in sorted order.
func (s *Supplied) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MergeInto inserts every supplied value the set does not already
// contain. Values must be strings or booleans; anything else is
// rejected.
func (s *Supplied) MergeInto(set *Set) error {
	for _, name := range s.Names() {
		if set.Has(name) {
			continue
		}
		if err := set.Put(name, s.values[name]); err != nil {
			return err
		}
	}
	return nil
}
