// Package template renders file names and contents through the liquid
// engine and relocates the expanded tree into its destination.
package template

import (
	"github.com/osteele/liquid"
)

// Suffix marks files whose name loses the marker after rendering,
// e.g. "Cargo.toml.liquid" becomes "Cargo.toml".
const Suffix = ".liquid"

// Engine renders template strings against the resolved value set.
// Undefined variables render as empty strings.
type Engine struct {
	liquid *liquid.Engine
}

// NewEngine builds the rendering engine with the case-conversion
// filters registered.
func NewEngine() *Engine {
	e := liquid.NewEngine()
	registerCaseFilters(e)
	return &Engine{liquid: e}
}

// RenderString renders one template string with the given bindings.
func (e *Engine) RenderString(s string, bindings map[string]any) (string, error) {
	return e.liquid.ParseAndRenderString(s, bindings)
}
