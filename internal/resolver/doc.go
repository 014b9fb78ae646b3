// Package resolver implements the configuration resolver: a pure function
// from a recipe, validated options and settings to the dependencies, tool
// requirements, toolchain variables and activated build contexts the build
// needs.
//
// Resolve performs no I/O and keeps no state. Every call builds a fresh
// ResolvedConfiguration, so callers never share or mutate a previous result.
package resolver
