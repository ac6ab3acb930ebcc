package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `
steps:
  - number: 1
    name: scenario
    title: Scenario
    kind: object
    section: scenario
    fields:
      - name: scenarioName
      - name: numMCS
        min: 1
  - number: 2
    name: summary
    title: Summary
    kind: terminal
`

func TestParse_ValidSchema(t *testing.T) {
	w, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)
	require.Len(t, w.Steps, 2)

	step, ok := w.Step(1)
	require.True(t, ok)
	assert.Equal(t, "scenario", step.Name)
	require.Len(t, step.Fields, 2)
	require.NotNil(t, step.Fields[1].Min)
	assert.Equal(t, 1.0, *step.Fields[1].Min)
}

func TestParse_RejectsNonContiguousNumbers(t *testing.T) {
	_, err := Parse([]byte(`
steps:
  - number: 1
    name: scenario
    kind: object
    section: scenario
  - number: 3
    name: summary
    kind: terminal
`))
	assert.ErrorContains(t, err, "declares number 3")
}

func TestParse_RejectsMissingSection(t *testing.T) {
	_, err := Parse([]byte(`
steps:
  - number: 1
    name: scenario
    kind: object
`))
	assert.ErrorContains(t, err, "needs a section")
}

func TestParse_RejectsMatrixWithoutSections(t *testing.T) {
	_, err := Parse([]byte(`
steps:
  - number: 1
    name: matrices
    kind: matrix
`))
	assert.ErrorContains(t, err, "needs matrixSections")
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wizard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSchema), 0o644))

	w, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, w.Steps, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
