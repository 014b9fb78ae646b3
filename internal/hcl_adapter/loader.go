package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/specialistvlad/ipcrecipe/internal/ctxlog"
	"github.com/specialistvlad/ipcrecipe/internal/fsutil"
	"github.com/specialistvlad/ipcrecipe/recipes"
)

// RecipeSuffix is the file name suffix searched for in recipe directories.
const RecipeSuffix = "recipe.hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	builtinName string
	builtin     []byte
}

// NewLoader creates a new HCL recipe loader whose built-in recipe is the
// embedded ipc recipe.
func NewLoader() *Loader {
	return &Loader{builtinName: recipes.IPCFile, builtin: recipes.IPC}
}

// Load resolves path to a single recipe file and loads it. An empty path
// loads the built-in recipe; a directory must contain exactly one file
// ending in RecipeSuffix.
func (l *Loader) Load(ctx context.Context, path string) (*config.Recipe, error) {
	logger := ctxlog.FromContext(ctx)

	if path == "" {
		logger.Debug("No recipe path given, using built-in recipe.", "name", l.builtinName)
		return l.LoadBytes(ctx, l.builtinName, l.builtin)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing recipe path %s: %w", path, err)
	}
	if !info.IsDir() {
		return l.LoadFile(ctx, path)
	}

	files, err := fsutil.FindFilesBySuffix(path, RecipeSuffix, false)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for recipes: %w", path, err)
	}
	logger.Debug("Discovered recipe files.", "dir", path, "count", len(files))

	switch len(files) {
	case 0:
		return nil, fmt.Errorf("no *%s file found in %s", RecipeSuffix, path)
	case 1:
		return l.LoadFile(ctx, files[0])
	default:
		return nil, fmt.Errorf("found %d recipe files in %s, expected exactly one: %v", len(files), path, files)
	}
}

// LoadFile reads and loads the recipe at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*config.Recipe, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe %s: %w", path, err)
	}
	return l.LoadBytes(ctx, path, src)
}

// LoadBytes parses src as a recipe. filename is only used in diagnostics.
func (l *Loader) LoadBytes(ctx context.Context, filename string, src []byte) (*config.Recipe, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL recipe loader started.", "file", filename)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root recipeFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	recipe, diags := translateRecipe(&root, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid recipe %s: %w", filename, diags)
	}

	logger.Debug("HCL recipe loading complete.",
		"recipe", recipe.Name,
		"options", len(recipe.Options.Options),
		"requires", len(recipe.Requires),
		"tool_requires", len(recipe.ToolRequires),
		"toolchain_variables", len(recipe.ToolchainVariables),
	)
	return recipe, nil
}
