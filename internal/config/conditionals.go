package config

import (
	"log/slog"

	"github.com/expr-lang/expr"

	"github.com/nwpistols/cargo-generate/internal/variables"
)

// MergeConditionals evaluates every conditional fragment against the
// resolved values, in declaration order, and folds matching fragments
// into the base configuration. Include, exclude and ignore entries are
// appended (duplicates permitted); fragment placeholders are added,
// overwriting an existing declaration of the same name.
//
// The pass is single-shot: fragments are consumed, expressions are not
// re-evaluated against values a fragment introduced, and calling
// MergeConditionals again is a no-op.
func (c *Config) MergeConditionals(values map[string]any) {
	for _, key := range c.conditionalOrder {
		fragment, ok := c.Conditional[key]
		if !ok || !evalCondition(key, values) {
			continue
		}

		c.Template.Include = append(c.Template.Include, fragment.Include...)
		c.Template.Exclude = append(c.Template.Exclude, fragment.Exclude...)
		c.Template.Ignore = append(c.Template.Ignore, fragment.Ignore...)
		c.mergePlaceholders(key, fragment)
	}

	c.Conditional = nil
	c.conditionalOrder = nil
	c.fragmentPlaceholderOrder = nil
}

func (c *Config) mergePlaceholders(key string, fragment Fragment) {
	if len(fragment.Placeholders) == 0 {
		return
	}
	if c.Placeholders == nil {
		c.Placeholders = make(map[string]variables.Declaration)
	}
	for _, name := range c.fragmentPlaceholderOrder[key] {
		decl, ok := fragment.Placeholders[name]
		if !ok {
			continue
		}
		if _, exists := c.Placeholders[name]; !exists {
			c.placeholderOrder = append(c.placeholderOrder, name)
		}
		c.Placeholders[name] = decl
	}
}

// evalCondition evaluates a fragment expression against the value
// snapshot. Identifiers resolve to the matching variable; undefined
// identifiers are nil rather than errors. Compile failures, runtime
// failures and non-boolean results all count as false.
func evalCondition(source string, values map[string]any) bool {
	if values == nil {
		values = map[string]any{}
	}

	program, err := expr.Compile(source, expr.Env(values), expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		slog.Debug("conditional expression did not compile", "expression", source, "error", err)
		return false
	}

	out, err := expr.Run(program, values)
	if err != nil {
		slog.Debug("conditional expression failed to evaluate", "expression", source, "error", err)
		return false
	}

	result, ok := out.(bool)
	return ok && result
}
