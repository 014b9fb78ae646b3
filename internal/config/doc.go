// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package config defines the format-agnostic recipe model, the Loader
// interface that concrete formats implement, and the ConfigurationError
// reported for invalid user input.
//
// The `config.Recipe` is the single source of truth for the `resolver` and
// `lifecycle` packages. The HCL implementation of Loader lives in
// `hcl_adapter`.
package config
