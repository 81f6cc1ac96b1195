package tools

import (
	"errors"
	"fmt"
)

// ErrUnknownTool is returned when the model requests a tool name outside
// the fixed catalog. With a correctly advertised catalog this should never
// happen, but model output is untrusted and must be defended against.
var ErrUnknownTool = errors.New("unknown tool")

// Catalog is the closed set of callable tools. It is built once at startup
// from the static definitions; nothing can be registered afterwards.
type Catalog struct {
	order  []Tool
	byName map[string]Tool
}

// NewCatalog builds the catalog from the fixed tool definitions.
func NewCatalog() *Catalog {
	defs := toolDefinitions()
	byName := make(map[string]Tool, len(defs))
	for _, def := range defs {
		byName[def.Function.Name] = def
	}
	return &Catalog{order: defs, byName: byName}
}

// List returns all tool definitions in their stable advertised order.
func (c *Catalog) List() []Tool {
	out := make([]Tool, len(c.order))
	copy(out, c.order)
	return out
}

// Resolve looks up a tool by name, failing with ErrUnknownTool for names
// outside the catalog.
func (c *Catalog) Resolve(name string) (Tool, error) {
	def, ok := c.byName[name]
	if !ok {
		return Tool{}, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return def, nil
}

// Len reports the number of tools in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}
