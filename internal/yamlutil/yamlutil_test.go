package yamlutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFile_Valid(t *testing.T) {
	path := writeYAML(t, "harvest.yaml", `
harvester_name: innov_stats_netcdf
stats:
  - bias
  - rmsd
file_meta:
  filepath: /data/innov
  cycle: "2015120206"
`)
	doc, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "innov_stats_netcdf", doc["harvester_name"])
	assert.Equal(t, []any{"bias", "rmsd"}, doc["stats"])

	fileMeta, ok := doc["file_meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2015120206", fileMeta["cycle"])
}

func TestLoadConfigFile_EnvSubstitution(t *testing.T) {
	t.Setenv("INNOV_DATA_DIR", "/scratch/innov")
	path := writeYAML(t, "harvest.yml", `
file_meta:
  filepath: ${INNOV_DATA_DIR}/netcdf
  filename_str: innov_stats_metric_%Y%m%d%H.nc
`)
	doc, err := LoadConfigFile(path)
	require.NoError(t, err)

	fileMeta := doc["file_meta"].(map[string]any)
	assert.Equal(t, "/scratch/innov/netcdf", fileMeta["filepath"])
	// Unreferenced scalars pass through untouched.
	assert.Equal(t, "innov_stats_metric_%Y%m%d%H.nc", fileMeta["filename_str"])
}

func TestLoadConfigFile_UnsetEnvVarExpandsEmpty(t *testing.T) {
	path := writeYAML(t, "harvest.yaml", "filepath: ${SCORE_HV_UNSET_VAR}/data\n")
	doc, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/data", doc["filepath"])
}

func TestLoadConfigFile_WrongExtension(t *testing.T) {
	path := writeYAML(t, "harvest.json", "a: 1\n")
	_, err := LoadConfigFile(path)
	require.ErrorIs(t, err, ErrBadDocument)
	assert.Contains(t, err.Error(), "extension")
}

func TestLoadConfigFile_MultipleDocuments(t *testing.T) {
	path := writeYAML(t, "multi.yaml", "a: 1\n---\nb: 2\n")
	_, err := LoadConfigFile(path)
	require.ErrorIs(t, err, ErrBadDocument)
	assert.Contains(t, err.Error(), "2 documents")
}

func TestLoadConfigFile_NoDocuments(t *testing.T) {
	path := writeYAML(t, "empty.yaml", "")
	_, err := LoadConfigFile(path)
	require.ErrorIs(t, err, ErrBadDocument)
	assert.Contains(t, err.Error(), "no documents")
}

func TestLoadConfigFile_Malformed(t *testing.T) {
	path := writeYAML(t, "broken.yaml", "a: [1, 2\n")
	_, err := LoadConfigFile(path)
	require.ErrorIs(t, err, ErrBadDocument)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrBadDocument)
}
