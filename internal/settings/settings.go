// Package settings validates the host build settings (os, compiler,
// build_type, arch) a recipe declares.
package settings

import (
	"sort"
	"strings"

	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/zclconf/go-cty/cty"
)

const (
	KeyOS        = "os"
	KeyCompiler  = "compiler"
	KeyBuildType = "build_type"
	KeyArch      = "arch"
)

// DefaultBuildType is used when build_type is declared but not set.
const DefaultBuildType = "Release"

var buildTypes = []string{"Debug", "Release", "RelWithDebInfo", "MinSizeRel"}

// Settings is an immutable set of validated setting values.
type Settings struct {
	declared []string
	values   map[string]string
}

// Parse validates raw against the settings declared by r. Unset keys stay
// null, except build_type which defaults to DefaultBuildType.
func Parse(r *config.Recipe, raw map[string]string) (Settings, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string]string, len(raw)+1)
	if r.HasSetting(KeyBuildType) {
		values[KeyBuildType] = DefaultBuildType
	}

	for _, key := range keys {
		value := strings.TrimSpace(raw[key])
		if !r.HasSetting(key) {
			return Settings{}, &config.ConfigurationError{
				Kind:   config.KindUnknownSetting,
				Key:    key,
				Value:  value,
				Reason: "recognized settings are " + strings.Join(r.Settings, ", "),
			}
		}
		if value == "" || strings.ContainsAny(value, " \t") {
			return Settings{}, &config.ConfigurationError{
				Kind:   config.KindInvalidSetting,
				Key:    key,
				Value:  value,
				Reason: "must be a single non-empty word",
			}
		}
		if key == KeyBuildType && !isBuildType(value) {
			return Settings{}, &config.ConfigurationError{
				Kind:   config.KindInvalidSetting,
				Key:    key,
				Value:  value,
				Reason: "allowed values are " + strings.Join(buildTypes, ", "),
			}
		}
		values[key] = value
	}

	return Settings{
		declared: append([]string(nil), r.Settings...),
		values:   values,
	}, nil
}

func isBuildType(v string) bool {
	for _, bt := range buildTypes {
		if bt == v {
			return true
		}
	}
	return false
}

// Get returns the value of key, or "" when unset.
func (s Settings) Get(key string) string {
	return s.values[key]
}

// BuildType returns build_type, falling back to DefaultBuildType.
func (s Settings) BuildType() string {
	if bt := s.values[KeyBuildType]; bt != "" {
		return bt
	}
	return DefaultBuildType
}

// Cty returns the `settings` object used in recipe expressions. Every
// declared key is present; unset ones are null strings.
func (s Settings) Cty() cty.Value {
	if len(s.declared) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(s.declared))
	for _, key := range s.declared {
		if v, ok := s.values[key]; ok {
			attrs[key] = cty.StringVal(v)
		} else {
			attrs[key] = cty.NullVal(cty.String)
		}
	}
	return cty.ObjectVal(attrs)
}
