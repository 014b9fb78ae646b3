// Package layout computes the folder layout of a CMake build.
package layout

import "path/filepath"

// Layout lists the folders the generators and the build invoker work in.
// All paths are rooted at SourceFolder.
type Layout struct {
	SourceFolder     string
	BuildFolder      string
	GeneratorsFolder string
	BuildType        string
}

// CMake returns the single-config CMake layout: build/<build_type> for
// build outputs and build/<build_type>/generators for generated files.
func CMake(sourceFolder, buildType string) Layout {
	if sourceFolder == "" {
		sourceFolder = "."
	}
	build := filepath.Join(sourceFolder, "build", buildType)
	return Layout{
		SourceFolder:     filepath.Clean(sourceFolder),
		BuildFolder:      build,
		GeneratorsFolder: filepath.Join(build, "generators"),
		BuildType:        buildType,
	}
}
