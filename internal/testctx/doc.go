// Package testctx provides the Test Context passed through every stage of a
// test task.
//
// A Context is created once per task by the outer harness and discarded when
// the task ends. It owns the task's compiler handles (one per name), an error
// store and a free-form value store. Nothing in a Context is shared with
// other tasks, so tasks may run concurrently without coordination.
//
// The print-logger toggle is a read-only field fixed at construction. Stages
// that need it read it from the Context instead of from process-wide state.
package testctx
