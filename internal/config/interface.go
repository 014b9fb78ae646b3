// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "context"

// Loader is the interface for a format-specific recipe loader.
type Loader interface {
	// Load reads a recipe from path and translates it into the
	// format-agnostic model. An empty path selects the loader's built-in
	// recipe.
	Load(ctx context.Context, path string) (*Recipe, error)
}
