// Package host provides in-process implementations of the lifecycle
// collaborators: an in-memory dependency graph, CMake file emitters, a
// logging emitter for dry runs and a build invoker that prints the CMake
// command plan instead of running it.
package host
