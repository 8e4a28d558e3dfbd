package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvm/internal/errors"
)

const scenarios = `
scenario "mortgage" {
  pv      = "$300k"
  fv      = 0
  rate    = 6.5
  periods = 360
}

scenario "broken" {
  pv      = 1
  fv      = 1
  pmt     = 1
  rate    = 1
  periods = 1
}

scenario "flat" {
  pv        = -1200
  fv        = 0
  rate      = 0
  periods   = 12
  frequency = 12
}
`

func writeScenarios(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loans.hcl")
	require.NoError(t, os.WriteFile(path, []byte(scenarios), 0644))
	return path
}

func TestScenarioCommand(t *testing.T) {
	path := writeScenarios(t)

	out, stderr, err := execute(t, "", "scenario", path)
	require.Error(t, err)
	assert.Equal(t, "1 of 3 scenarios failed", err.Error())

	assert.Contains(t, out, "mortgage")
	assert.Contains(t, out, "  pmt = -$1,896.20  ← solved\n")
	assert.Contains(t, out, "flat")
	assert.Contains(t, out, "  pmt = $100.00  ← solved\n")
	assert.Contains(t, stderr, "⚠ broken (")
	assert.Contains(t, stderr, "specify exactly four of the five values")
}

func TestScenarioSelect(t *testing.T) {
	path := writeScenarios(t)

	out, _, err := execute(t, "", "scenario", "--schedule", path, "flat")
	require.NoError(t, err)
	assert.Contains(t, out, "flat")
	assert.NotContains(t, out, "mortgage")
	assert.Contains(t, out, "-$1,100.00")

	_, _, err = execute(t, "", "scenario", path, "nope")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))
}

func TestScenarioMissingFile(t *testing.T) {
	_, _, err := execute(t, "", "scenario", filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}

func TestScenarioRequiresFile(t *testing.T) {
	_, _, err := execute(t, "", "scenario")
	assert.Error(t, err)
}
