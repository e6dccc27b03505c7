// Package config parses the template configuration file and implements
// the conditional merge pass that folds expression-guarded fragments
// into the active configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/nwpistols/cargo-generate/internal/variables"
)

// FileName is the configuration file discovered inside a template.
const FileName = "cargo-generate.toml"

// Config is the parsed template configuration. It is immutable after
// parsing except for the single MergeConditionals pass.
type Config struct {
	Template     TemplateSection                  `toml:"template"`
	Placeholders map[string]variables.Declaration `toml:"placeholders"`
	Conditional  map[string]Fragment              `toml:"conditional"`

	placeholderOrder         []string
	conditionalOrder         []string
	fragmentPlaceholderOrder map[string][]string
}

// TemplateSection mirrors the [template] table.
type TemplateSection struct {
	CargoGenerateVersion string   `toml:"cargo_generate_version"`
	Include              []string `toml:"include"`
	Exclude              []string `toml:"exclude"`
	Ignore               []string `toml:"ignore"`
	PreHooks             []string `toml:"pre_hooks"`
	PostHooks            []string `toml:"post_hooks"`
}

// Fragment is a conditional configuration delta, applied when its
// guarding expression evaluates true. Fragments carry no hooks.
type Fragment struct {
	Include      []string                         `toml:"include"`
	Exclude      []string                         `toml:"exclude"`
	Ignore       []string                         `toml:"ignore"`
	Placeholders map[string]variables.Declaration `toml:"placeholders"`
}

// Load reads and parses a template configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template configuration: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a template configuration document. Declaration order of
// placeholders and conditional fragments is preserved.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template configuration: %w", err)
	}
	cfg.captureOrder(md)

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Debug("ignoring unknown template configuration keys", "keys", undecoded)
	}
	return &cfg, nil
}

// captureOrder records the declaration order of placeholders and
// conditional fragments from the decoder metadata. TOML table order is
// the only source of fragment evaluation order.
func (c *Config) captureOrder(md toml.MetaData) {
	seenPlaceholder := make(map[string]bool)
	seenFragment := make(map[string]bool)
	seenFragmentPlaceholder := make(map[string]bool)

	for _, key := range md.Keys() {
		switch {
		case len(key) == 2 && key[0] == "placeholders":
			if !seenPlaceholder[key[1]] {
				seenPlaceholder[key[1]] = true
				c.placeholderOrder = append(c.placeholderOrder, key[1])
			}
		case len(key) == 2 && key[0] == "conditional":
			if !seenFragment[key[1]] {
				seenFragment[key[1]] = true
				c.conditionalOrder = append(c.conditionalOrder, key[1])
			}
		case len(key) == 4 && key[0] == "conditional" && key[2] == "placeholders":
			id := key[1] + "\x00" + key[3]
			if !seenFragmentPlaceholder[id] {
				seenFragmentPlaceholder[id] = true
				if c.fragmentPlaceholderOrder == nil {
					c.fragmentPlaceholderOrder = make(map[string][]string)
				}
				c.fragmentPlaceholderOrder[key[1]] = append(c.fragmentPlaceholderOrder[key[1]], key[3])
			}
		}
	}
}

// Slots converts the declared placeholders into validated slots, in
// declaration order.
func (c *Config) Slots() ([]variables.Slot, error) {
	slots := make([]variables.Slot, 0, len(c.Placeholders))
	for _, name := range c.placeholderOrder {
		decl, ok := c.Placeholders[name]
		if !ok {
			continue
		}
		slot, err := variables.NewSlot(name, decl)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// CheckVersion enforces the template's cargo_generate_version
// requirement against the running version. An unparseable running
// version (dev builds) skips the gate.
func (c *Config) CheckVersion(current string) error {
	requirement := c.Template.CargoGenerateVersion
	if requirement == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(requirement)
	if err != nil {
		return fmt.Errorf("invalid cargo_generate_version requirement %q: %w", requirement, err)
	}

	running, err := semver.NewVersion(current)
	if err != nil {
		slog.Debug("skipping version requirement check", "version", current)
		return nil
	}

	if !constraint.Check(running) {
		return fmt.Errorf("required cargo-generate version not met: required %s, current %s", requirement, current)
	}
	return nil
}
