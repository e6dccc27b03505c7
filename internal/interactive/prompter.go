// Package interactive collects values from the user through terminal
// forms.
package interactive

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/nwpistols/cargo-generate/internal/variables"
)

// Prompter asks the user for values the pipeline could not resolve on
// its own.
type Prompter struct{}

// Variable prompts for one slot, honoring its kind, choices, pattern
// and default.
func (Prompter) Variable(slot variables.Slot) (any, error) {
	if slot.Kind == variables.KindBool {
		value := false
		if d, ok := slot.DefaultValue(); ok {
			value, _ = d.(bool)
		}
		if err := huh.NewConfirm().Title(slot.Prompt).Value(&value).Run(); err != nil {
			return nil, err
		}
		return value, nil
	}

	if len(slot.Choices) > 0 {
		value := slot.Choices[0]
		if d, ok := slot.DefaultValue(); ok {
			if s, ok := d.(string); ok {
				value = s
			}
		}
		err := huh.NewSelect[string]().
			Title(slot.Prompt).
			Options(huh.NewOptions(slot.Choices...)...).
			Value(&value).
			Run()
		if err != nil {
			return nil, err
		}
		return value, nil
	}

	var value string
	if d, ok := slot.DefaultValue(); ok {
		value, _ = d.(string)
	}
	input := huh.NewInput().Title(slot.Prompt).Value(&value)
	if re := slot.Regex; re != nil {
		input = input.Validate(func(s string) error {
			if !re.MatchString(s) {
				return fmt.Errorf("value does not match the pattern %q", re.String())
			}
			return nil
		})
	}
	if err := input.Run(); err != nil {
		return nil, err
	}
	return value, nil
}

// ProjectName asks for the name of the project to generate.
func (Prompter) ProjectName() (string, error) {
	var name string
	err := huh.NewInput().
		Title("Project Name").
		Validate(func(s string) error {
			if s == "" {
				return errors.New("a project name is required")
			}
			return nil
		}).
		Value(&name).
		Run()
	return name, err
}

// Confirm asks a yes/no question.
func (Prompter) Confirm(prompt string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().Title(prompt).Value(&ok).Run()
	return ok, err
}

// Select asks the user to pick one of options.
func (Prompter) Select(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("nothing to select from")
	}
	choice := options[0]
	err := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&choice).
		Run()
	return choice, err
}
