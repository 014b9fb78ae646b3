package resolver

import (
	"github.com/specialistvlad/ipcrecipe/internal/reference"
)

// ToolchainVariable is a key/value pair injected into the native build
// configuration.
type ToolchainVariable struct {
	Key   string
	Value string
}

// BuildContext tells the dependency emitter whether a tool requirement is
// activated as a generator build context.
type BuildContext struct {
	Ref       reference.Reference
	Activated bool
}

// ResolvedConfiguration is the result of one resolution. References are
// sorted by name and variables by key.
type ResolvedConfiguration struct {
	Dependencies               []reference.Reference
	ToolRequirements           []reference.Reference
	ToolchainVariables         []ToolchainVariable
	ActivatedGeneratorContexts []reference.Reference

	// BuildContexts holds one entry per tool requirement.
	BuildContexts []BuildContext
}

// Variables returns the toolchain variables as a map.
func (c ResolvedConfiguration) Variables() map[string]string {
	m := make(map[string]string, len(c.ToolchainVariables))
	for _, v := range c.ToolchainVariables {
		m[v.Key] = v.Value
	}
	return m
}
