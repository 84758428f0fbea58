// Package testutil holds helpers shared by the package tests: log capture,
// and a fake compiler that records how the driver uses it.
package testutil
