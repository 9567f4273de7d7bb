package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ExecutesManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A single vertical column: deltas between adjacent levels, written into
	// an output field whose window starts one index above the surface.
	columnHCL := `
mesh "column" {
  dimension "K" { kind = "vertical" }

  offset "Koff" {
    source = "K"
    target = ["K"]
  }

  shift "Koff" {
    dimension = "K"
  }

  field "levels" {
    dims   = ["K"]
    values = [10, 13, 17, 20]
  }

  field "deltas" {
    dims   = ["K"]
    zeros  = [3]
    origin = { K = 1 }
  }
}

run "vertical_deltas" {
  operator = "level_delta"
  args     = ["levels"]
  out      = "deltas"
}
`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "column.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(columnHCL), 0600))

	args := []string{filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args)

	// --- Assert ---
	require.NoError(t, runErr)
	require.Contains(t, out.String(), "vertical_deltas: deltas = [3 4 3]")
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An HCL file with a syntax error fails during manifest loading.
	invalidHCL := `
		mesh "broken" {
			dimension "K" {
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "broken.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned the manifest loading error")
	require.Contains(t, runErr.Error(), "failed to load manifest")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should see `shouldExit=true` and return a nil error.
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should propagate the error from cli.Parse.
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
