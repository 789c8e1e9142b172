package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testDatasetsYAML = `datasets:
  - id: hle
    name: Humanity's Last Exam
    tags: [knowledge]
  - id: swe
    name: SWE-bench
    tags: [coding]
  - id: mmmu
    name: MMMU
    section: vision
`

const testModelsYAML = `models:
  - name: alpha-1
    provider: alpha
    release_date: "2025-01-01"
    scores: {hle: 20, swe: 40, mmmu: 50}
  - name: alpha-2
    provider: alpha
    release_date: "2025-03-01"
    scores: {hle: 30, swe: 50}
  - name: beta-1
    provider: beta
    release_date: "2025-02-01"
    scores: {hle: 25, swe: null}
`

// writeProject lays out a project directory with a config file and both
// catalogs under data/.
func writeProject(t *testing.T, config, datasets, models string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dashboard.yaml"), []byte(config), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "datasets.yaml"), []byte(datasets), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "models.yaml"), []byte(models), 0o644))
	return dir
}

func defaultProject(t *testing.T) string {
	t.Helper()
	return writeProject(t, "view:\n  section: text\n", testDatasetsYAML, testModelsYAML)
}

// runCommand executes cmd with args and returns its stdout.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
