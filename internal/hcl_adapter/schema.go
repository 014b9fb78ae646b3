package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// recipeFile is the top-level structure of a recipe file.
type recipeFile struct {
	Name               string                  `hcl:"name"`
	Settings           []string                `hcl:"settings,optional"`
	Options            *optionsBlock           `hcl:"options,block"`
	ToolRequires       []*toolRequirementBlock `hcl:"tool_requires,block"`
	Requires           []*requirementBlock     `hcl:"requires,block"`
	ToolchainVariables []*toolchainVarBlock    `hcl:"toolchain_variable,block"`
}

// optionsBlock groups the option declarations with the version of their
// defaults record.
type optionsBlock struct {
	Version int            `hcl:"version"`
	Options []*optionBlock `hcl:"option,block"`
}

type optionBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
}

// requirementBlock is a `requires` block: a runtime or test dependency.
type requirementBlock struct {
	Name    string         `hcl:"name,label"`
	Version string         `hcl:"version"`
	When    hcl.Expression `hcl:"when,optional"`
}

// toolRequirementBlock is a `tool_requires` block. Only tools may be
// activated as generator build contexts.
type toolRequirementBlock struct {
	Name         string         `hcl:"name,label"`
	Version      string         `hcl:"version"`
	When         hcl.Expression `hcl:"when,optional"`
	BuildContext hcl.Expression `hcl:"build_context,optional"`
}

type toolchainVarBlock struct {
	Key   string         `hcl:"key,label"`
	Value string         `hcl:"value"`
	When  hcl.Expression `hcl:"when,optional"`
}
