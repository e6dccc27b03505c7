package template

import (
	"strings"

	"github.com/huandu/xstrings"
	"github.com/osteele/liquid"
)

// registerCaseFilters installs the case-conversion filters available
// to templates, e.g. {{project-name | pascal_case}}.
func registerCaseFilters(e *liquid.Engine) {
	e.RegisterFilter("kebab_case", xstrings.ToKebabCase)
	e.RegisterFilter("snake_case", xstrings.ToSnakeCase)
	e.RegisterFilter("pascal_case", xstrings.ToPascalCase)
	e.RegisterFilter("upper_camel_case", xstrings.ToPascalCase)
	e.RegisterFilter("lower_camel_case", xstrings.ToCamelCase)
	e.RegisterFilter("shouty_snake_case", func(s string) string {
		return strings.ToUpper(xstrings.ToSnakeCase(s))
	})
	e.RegisterFilter("shouty_kebab_case", func(s string) string {
		return strings.ToUpper(xstrings.ToKebabCase(s))
	})
	e.RegisterFilter("title_case", titleCase)
	e.RegisterFilter("train_case", trainCase)
}

// titleCase renders "my-project" as "My Project".
func titleCase(s string) string {
	return strings.Join(capitalizedWords(s), " ")
}

// trainCase renders "my-project" as "My-Project".
func trainCase(s string) string {
	return strings.Join(capitalizedWords(s), "-")
}

func capitalizedWords(s string) []string {
	words := strings.Split(xstrings.ToSnakeCase(s), "_")
	out := words[:0]
	for _, word := range words {
		if word == "" {
			continue
		}
		out = append(out, xstrings.FirstRuneToUpper(word))
	}
	return out
}
