// Package processor implements the staged lifecycle of a compiler test task
// and the stats API processor built on top of it.
//
// # Stages
//
// A Processor is driven through these stages, strictly in order, by the outer
// harness (see internal/tester):
//
//  1. Config: compute the effective compiler options and store them on the
//     task's compiler handle.
//  2. Compiler: create the compiler instance.
//  3. Build: trigger a build, through the caller's build hook when present.
//  4. Run: execute built output. Inert for the processors in this package.
//  5. Check: verify the result.
//  6. After: per-task cleanup.
//
// A failing stage aborts the task. Errors returned by hooks and collaborators
// are passed through unchanged.
//
// # Hooks
//
// Behaviour is customized by injecting functions into an immutable options
// value rather than by overriding methods. StatsAPIProcessor composes a
// SimpleProcessor and replaces only the stages it needs to.
package processor
