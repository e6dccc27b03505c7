// Package variables implements the placeholder model for template
// expansion: typed slots declared by a template, the resolved value set
// shared across the pipeline, and the resolution pass that fills slots
// from pre-supplied values or an interactive prompt.
package variables

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Kind is the closed set of types a slot value can take.
type Kind int

const (
	// KindString accepts free-form text, optionally constrained by a
	// regex or a finite choice list.
	KindString Kind = iota
	// KindBool accepts true or false.
	KindBool
)

func (k Kind) String() string {
	if k == KindBool {
		return "bool"
	}
	return "string"
}

// Declaration is the raw form of a placeholder entry as it appears in
// the template configuration.
type Declaration struct {
	Type    string   `toml:"type"`
	Prompt  string   `toml:"prompt"`
	Default any      `toml:"default"`
	Choices []string `toml:"choices"`
	Regex   string   `toml:"regex"`
}

// Slot describes a single requestable variable: its name, the prompt
// shown to the user, its kind, and the constraints a value must satisfy.
type Slot struct {
	VarName string
	Prompt  string
	Kind    Kind
	Default *string // canonical string form, "true"/"false" for bools
	Choices []string
	Regex   *regexp.Regexp
}

// NewSlot converts a raw placeholder declaration into a validated Slot.
func NewSlot(name string, decl Declaration) (Slot, error) {
	if decl.Prompt == "" {
		return Slot{}, fmt.Errorf("placeholder %q: prompt is required", name)
	}

	slot := Slot{VarName: name, Prompt: decl.Prompt}

	switch decl.Type {
	case "string":
		slot.Kind = KindString
	case "bool":
		slot.Kind = KindBool
	case "":
		// Untyped placeholders are strings unless the default says otherwise.
		if _, ok := decl.Default.(bool); ok {
			slot.Kind = KindBool
		} else {
			slot.Kind = KindString
		}
	default:
		return Slot{}, fmt.Errorf("placeholder %q: unsupported type %q, expected \"string\" or \"bool\"", name, decl.Type)
	}

	if slot.Kind == KindBool {
		if len(decl.Choices) > 0 {
			return Slot{}, fmt.Errorf("placeholder %q: choices are not allowed on a bool placeholder", name)
		}
		if decl.Regex != "" {
			return Slot{}, fmt.Errorf("placeholder %q: regex is not allowed on a bool placeholder", name)
		}
	}

	slot.Choices = decl.Choices

	if decl.Regex != "" {
		re, err := regexp.Compile(decl.Regex)
		if err != nil {
			return Slot{}, fmt.Errorf("placeholder %q: invalid regex: %w", name, err)
		}
		slot.Regex = re
	}

	if decl.Default != nil {
		canonical, err := canonicalDefault(slot, decl.Default)
		if err != nil {
			return Slot{}, fmt.Errorf("placeholder %q: %w", name, err)
		}
		slot.Default = &canonical
	}

	return slot, nil
}

// canonicalDefault normalizes a declared default into its string form
// and verifies it against the slot constraints.
func canonicalDefault(slot Slot, value any) (string, error) {
	if slot.Kind == KindBool {
		b, ok := value.(bool)
		if !ok {
			return "", fmt.Errorf("default for a bool placeholder must be true or false, got %v", value)
		}
		return strconv.FormatBool(b), nil
	}

	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("default must be a string, got %v", value)
	}
	if err := slot.checkString(s); err != nil {
		return "", fmt.Errorf("invalid default: %w", err)
	}
	return s, nil
}

// checkString verifies a string value against the regex and choice
// constraints.
func (s Slot) checkString(value string) error {
	if len(s.Choices) > 0 && !slices.Contains(s.Choices, value) {
		return fmt.Errorf("%q is not one of: %s", value, strings.Join(s.Choices, ", "))
	}
	if s.Regex != nil && !s.Regex.MatchString(value) {
		return fmt.Errorf("%q does not match the pattern %q", value, s.Regex.String())
	}
	return nil
}

// Validate checks a resolved value against the slot's kind and
// constraints.
func (s Slot) Validate(value any) error {
	switch v := value.(type) {
	case bool:
		if s.Kind != KindBool {
			return fmt.Errorf("placeholder %q expects a string, got a bool", s.VarName)
		}
		return nil
	case string:
		if s.Kind != KindString {
			return fmt.Errorf("placeholder %q expects a bool, got a string", s.VarName)
		}
		if err := s.checkString(v); err != nil {
			return fmt.Errorf("placeholder %q: %w", s.VarName, err)
		}
		return nil
	default:
		return fmt.Errorf("placeholder %q: unsupported value type %T, only strings and booleans are supported", s.VarName, value)
	}
}

// Coerce converts an externally supplied scalar into the slot's kind.
// Bool slots accept real booleans and the literals "true"/"false";
// string slots accept strings and stringify booleans.
func (s Slot) Coerce(raw any) (any, error) {
	if s.Kind == KindBool {
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch v {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
			return nil, fmt.Errorf("placeholder %q expects true or false, got %q", s.VarName, v)
		}
	} else {
		switch v := raw.(type) {
		case string:
			return v, nil
		case bool:
			return strconv.FormatBool(v), nil
		}
	}
	return nil, fmt.Errorf("value for %q must be a string or a boolean, got %T", s.VarName, raw)
}

// DefaultValue returns the slot default in its typed form.
func (s Slot) DefaultValue() (any, bool) {
	if s.Default == nil {
		return nil, false
	}
	if s.Kind == KindBool {
		return *s.Default == "true", true
	}
	return *s.Default, true
}
