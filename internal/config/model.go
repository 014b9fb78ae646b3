// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ipcrecipe/internal/reference"
)

// Recipe is the format-agnostic representation of a recipe file.
type Recipe struct {
	Name   string
	Source string // file the recipe was loaded from, for error messages

	// Settings lists the setting keys the recipe accepts.
	Settings []string
	Options  *OptionSchema

	Requires           []*Requirement
	ToolRequires       []*Requirement
	ToolchainVariables []*ToolchainVariable
}

// OptionSchema declares the boolean options of a recipe and carries the
// version of its defaults record.
type OptionSchema struct {
	Version int
	Options []*OptionDefinition
}

// OptionDefinition declares a single boolean option.
type OptionDefinition struct {
	Name        string
	Description string
	Default     bool
}

// Lookup returns the definition of the named option.
func (s *OptionSchema) Lookup(name string) (*OptionDefinition, bool) {
	if s == nil {
		return nil, false
	}
	for _, def := range s.Options {
		if def.Name == name {
			return def, true
		}
	}
	return nil, false
}

// Names returns the declared option names in declaration order.
func (s *OptionSchema) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Options))
	for i, def := range s.Options {
		names[i] = def.Name
	}
	return names
}

// Requirement is a conditional dependency or tool requirement.
type Requirement struct {
	Ref reference.Reference

	// When gates the requirement. Nil means the attribute was omitted and
	// the requirement is unconditional. A null result is an error.
	When hcl.Expression

	// BuildContext decides whether a tool requirement is activated as a
	// generator build context. Nil means the attribute was omitted and the
	// context is not activated. A null result is an error.
	BuildContext hcl.Expression
}

// ToolchainVariable is a conditional key/value pair for the native build
// configuration.
type ToolchainVariable struct {
	Key   string
	Value string
	When  hcl.Expression
}

// HasSetting reports whether the recipe declares the setting key.
func (r *Recipe) HasSetting(key string) bool {
	for _, s := range r.Settings {
		if s == key {
			return true
		}
	}
	return false
}
