// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationKind classifies a ConfigurationError.
type ConfigurationKind string

const (
	KindUnknownOption      ConfigurationKind = "unknown option"
	KindInvalidOptionValue ConfigurationKind = "invalid option value"
	KindUnknownSetting     ConfigurationKind = "unknown setting"
	KindInvalidSetting     ConfigurationKind = "invalid setting value"
	KindMalformed          ConfigurationKind = "malformed assignment"
)

// ConfigurationError reports invalid user-supplied options or settings. It
// is always raised before any lifecycle hook runs.
type ConfigurationError struct {
	Kind   ConfigurationKind
	Key    string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("configuration error: %s %q", e.Kind, e.Key)
	if e.Value != "" {
		msg += fmt.Sprintf(" = %q", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
