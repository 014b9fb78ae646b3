// Package options turns user-supplied option assignments into validated
// boolean values for a recipe's option schema.
//
// Unset options are filled from an explicit, versioned Defaults record built
// from the schema; nothing relies on zero values standing in for defaults.
package options

import (
	"sort"
	"strings"

	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Defaults is the versioned record of option defaults for a recipe.
type Defaults struct {
	Version int
	Values  map[string]bool
}

// DefaultsFor builds the Defaults record declared by schema.
func DefaultsFor(schema *config.OptionSchema) Defaults {
	d := Defaults{Values: make(map[string]bool)}
	if schema == nil {
		return d
	}
	d.Version = schema.Version
	for _, def := range schema.Options {
		d.Values[def.Name] = def.Default
	}
	return d
}

// Values is an immutable, validated set of option values.
type Values struct {
	defaultsVersion int
	order           []string
	values          map[string]bool
}

// Bool returns the value of the named option and whether it is declared.
func (v Values) Bool(name string) (bool, bool) {
	b, ok := v.values[name]
	return b, ok
}

// Names returns the option names in schema declaration order.
func (v Values) Names() []string {
	return append([]string(nil), v.order...)
}

// DefaultsVersion is the version of the Defaults record the values were
// completed from.
func (v Values) DefaultsVersion() int {
	return v.defaultsVersion
}

// Map returns a copy of the values.
func (v Values) Map() map[string]bool {
	m := make(map[string]bool, len(v.values))
	for k, b := range v.values {
		m[k] = b
	}
	return m
}

// Cty returns the values as the `option` object used in recipe expressions.
func (v Values) Cty() cty.Value {
	if len(v.values) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(v.values))
	for k, b := range v.values {
		attrs[k] = cty.BoolVal(b)
	}
	return cty.ObjectVal(attrs)
}

// Parse validates raw against schema and completes it from the schema's
// Defaults. Keys are checked in sorted order so the reported error is
// stable. Any failure is a *config.ConfigurationError.
func Parse(schema *config.OptionSchema, raw map[string]string) (Values, error) {
	defaults := DefaultsFor(schema)

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string]bool, len(defaults.Values))
	for k, b := range defaults.Values {
		values[k] = b
	}

	for _, key := range keys {
		if _, ok := schema.Lookup(key); !ok {
			return Values{}, &config.ConfigurationError{
				Kind:   config.KindUnknownOption,
				Key:    key,
				Value:  raw[key],
				Reason: "recognized options are " + strings.Join(schema.Names(), ", "),
			}
		}
		b, err := ParseBool(key, raw[key])
		if err != nil {
			return Values{}, err
		}
		values[key] = b
	}

	return Values{
		defaultsVersion: defaults.Version,
		order:           schema.Names(),
		values:          values,
	}, nil
}

// ParseBool accepts "true" and "false" in any letter case.
func ParseBool(key, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &config.ConfigurationError{
		Kind:   config.KindInvalidOptionValue,
		Key:    key,
		Value:  raw,
		Reason: "allowed values are true, false",
	}
}

// ParseAssignments splits "key=value" strings into a map. Later
// assignments of the same key win.
func ParseAssignments(assignments []string) (map[string]string, error) {
	out := make(map[string]string, len(assignments))
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &config.ConfigurationError{
				Kind:   config.KindMalformed,
				Key:    a,
				Reason: "expected key=value",
			}
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// Merge layers maps left to right; later layers override earlier ones.
func Merge(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
