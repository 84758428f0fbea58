package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_InvalidCaseFile(t *testing.T) {
	t.Parallel()

	invalidHCL := `
		case "broken" {
			options {
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600), "failed to set up test file")

	out := &bytes.Buffer{}
	err := run(out, []string{filePath})

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load cases")
	require.Contains(t, err.Error(), "failed to parse")
}

func TestRun_PassingCase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.js"), []byte("console.log(1)\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cases.hcl"), []byte(`
case "smoke" {
  expect {
    errors = 0
    assets = ["main.js"]
  }
}
`), 0600))

	out := &bytes.Buffer{}
	err := run(out, []string{"--log-level", "error", dir})

	require.NoError(t, err)
	require.Contains(t, out.String(), "PASS smoke")
	require.Contains(t, out.String(), "1 passed, 0 failed")
	require.NoDirExists(t, filepath.Join(dir, "dist"))
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
