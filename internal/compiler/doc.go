// Package compiler defines the contracts between the test driver and the
// compilers it exercises.
//
// # Why Compiler Package Exists
//
// The driver never compiles anything itself. It configures a compiler through
// Options, creates it through a Registry, builds it, and reads back Stats.
// Keeping those contracts in one place lets concrete compilers (see
// internal/bundler) and fake compilers used in tests be swapped freely.
//
// # Compiler Handle
//
// Manager is the per-task handle around a single compiler instance. It owns
// the effective options, the created instance and the most recent Stats. Any
// Run of the instance, whether started by Manager.Build or by a caller hook
// calling Compiler.Run directly, is observed through OnDone so Stats always
// reflect the latest build.
package compiler
