package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvm/core/request"
	"tvm/core/tvm"
	"tvm/internal/errors"
)

const sample = `
scenario "mortgage" {
  pv      = "$300k"
  fv      = 0
  rate    = "6.5%"
  periods = 360
}

scenario "savings" {
  pv        = -5000
  pmt       = "-$250"
  rate      = 4.8
  periods   = 120
  fv        = ""
  frequency = 12
  timing    = "begin"
  schedule  = true
}

scenario "quarterly" {
  pv        = "-10k"
  fv        = "12k"
  pmt       = 0
  periods   = 20
  frequency = 4
}
`

func load(t *testing.T, src string) []Scenario {
	t.Helper()
	scenarios, err := NewLoader(Defaults{Frequency: 12}).Load([]byte(src), "test.hcl")
	require.NoError(t, err)
	return scenarios
}

func TestLoadScenarios(t *testing.T) {
	scenarios := load(t, sample)
	require.Len(t, scenarios, 3)

	m := scenarios[0]
	assert.Equal(t, "mortgage", m.Name)
	assert.Equal(t, "test.hcl:2", m.Pos)
	assert.Equal(t, 12, m.Frequency)
	assert.Equal(t, tvm.End, m.Timing)
	assert.Equal(t, 300000.0, *m.Params[tvm.PresentValue])
	assert.Equal(t, 6.5, *m.Params[tvm.Rate])
	assert.NotContains(t, m.Params, tvm.Payment)

	s := scenarios[1]
	assert.Equal(t, tvm.Begin, s.Timing)
	assert.True(t, s.Schedule)
	assert.Equal(t, -250.0, *s.Params[tvm.Payment])
	assert.Equal(t, 4.8, *s.Params[tvm.Rate])
	assert.Contains(t, s.Params, tvm.FutureValue)
	assert.Nil(t, s.Params[tvm.FutureValue])

	q := scenarios[2]
	assert.Equal(t, 4, q.Frequency)
	assert.Equal(t, 12000.0, *q.Params[tvm.FutureValue])
}

func TestScenariosSolve(t *testing.T) {
	for _, s := range load(t, sample) {
		t.Run(s.Name, func(t *testing.T) {
			report, err := request.Evaluate(s.Request, tvm.DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, s.Name, report.Name)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":          `scenario "a" {`,
		"unknown block":   `loan "a" {}`,
		"unknown attr":    `scenario "a" { apr = 5 }`,
		"duplicate":       "scenario \"a\" { pv = 1 }\nscenario \"a\" { pv = 2 }",
		"bad quantity":    `scenario "a" { pv = "lots" }`,
		"bad frequency":   `scenario "a" { frequency = 2.5 }`,
		"bad timing":      `scenario "a" { timing = "whenever" }`,
		"bool amount":     `scenario "a" { pv = true }`,
		"variable":        `scenario "a" { pv = var.loan }`,
		"no scenarios":    `# nothing here`,
		"schedule string": `scenario "a" { schedule = "yes" }`,
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader(Defaults{Frequency: 12}).Load([]byte(src), "bad.hcl")
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeParsing), "got %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loans.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	scenarios, err := NewLoader(Defaults{Frequency: 12}).LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, scenarios, 3)

	_, err = NewLoader(Defaults{Frequency: 12}).LoadFile(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}

func TestSelect(t *testing.T) {
	all := load(t, sample)

	picked, err := Select(all, []string{"quarterly", "mortgage"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "quarterly", picked[0].Name)
	assert.Equal(t, "mortgage", picked[1].Name)

	everything, err := Select(all, nil)
	require.NoError(t, err)
	assert.Len(t, everything, 3)

	_, err = Select(all, []string{"yacht"})
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))
}
