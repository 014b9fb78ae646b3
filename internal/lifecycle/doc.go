// Package lifecycle drives a recipe through the host hooks as an explicit
// state machine:
//
//	Uninitialized -> LayoutComputed -> RequirementsResolved ->
//	ToolRequirementsResolved -> Generated -> Built
//
// Each transition is triggered by exactly one hook method (Layout,
// Requirements, BuildRequirements, Generate, Build). Hooks must be called in
// that order and at most once; a repeated call is rejected without side
// effects. Option and setting validation happens in New, so a
// ConfigurationError is returned before any hook can run and before any
// collaborator sees a declaration.
//
// The collaborators (dependency graph, generator emitters, build invoker)
// are interfaces owned by this package; internal/host provides in-process
// implementations.
package lifecycle
