package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/pocket-budget/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOpenYAMLFile_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	f, err := OpenYAMLFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "USD", f.GetString("selected_currency", "USD"))
	assert.Equal(t, path, f.Path())

	_, err = OpenYAMLFile("", nil)
	assert.Error(t, err)
}

func TestYAMLFile_CommitPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	f, err := OpenYAMLFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, f.SetString("selected_currency", "CHF"))
	require.NoError(t, f.SetInt("month_cycle_start_day", 25))
	require.NoError(t, f.SetFloat("monthly_budget", 900))
	require.NoError(t, f.Commit())

	reopened, err := OpenYAMLFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "CHF", reopened.GetString("selected_currency", "USD"))
	assert.Equal(t, 25, reopened.GetInt("month_cycle_start_day", 1))
	assert.Equal(t, 900.0, reopened.GetFloat("monthly_budget", 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]string
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "25", raw["month_cycle_start_day"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestYAMLFile_UncommittedWritesAreLost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	f, err := OpenYAMLFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, f.SetString("k", "v"))

	reopened, err := OpenYAMLFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "", reopened.GetString("k", ""))
}

func TestYAMLFile_MalformedFileFailsSoft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a mapping\n"), 0600))

	logger := logging.NewMockLogger()
	f, err := OpenYAMLFile(path, logger)
	require.NoError(t, err)

	assert.Equal(t, 7, f.GetInt("month_cycle_start_day", 7))
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 1)
}

func TestYAMLFile_FailedCommitKeepsPreviousContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.yaml")

	f, err := OpenYAMLFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, f.SetString("k", "first"))
	require.NoError(t, f.Commit())

	// Replace the target with a directory so the rename fails.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0600))

	require.NoError(t, f.SetString("k", "second"))
	assert.Error(t, f.Commit())
	assert.Equal(t, "first", f.GetString("k", ""))

	var _ Provider = f
}

func TestOpenYAMLFile_WarnsOnOpenPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monthly_budget: \"100\"\n"), 0600))
	require.NoError(t, os.Chmod(path, 0644))

	logger := logging.NewMockLogger()
	f, err := OpenYAMLFile(path, logger)
	require.NoError(t, err)
	assert.Equal(t, "100", f.GetString("monthly_budget", ""))
	assert.True(t, logger.HasEntry("WARN", "Preference file is accessible to other users"))

	require.NoError(t, f.SetString("monthly_budget", "200"))
	require.NoError(t, f.Commit())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "commit tightens the mode")
}
