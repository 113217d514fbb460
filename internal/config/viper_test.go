package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, BackendYAML, config.Storage.Backend)
	assert.Equal(t, "", config.Storage.Path)
	assert.Equal(t, "", config.Cycle.Timezone)
	assert.Equal(t, models.DefaultCategories, config.Categories)
	assert.Equal(t, ",", config.Export.Delimiter)
	assert.True(t, config.Notifications.Enabled)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	testEnvVars := map[string]string{
		"POCKET_LOG_LEVEL":             "debug",
		"POCKET_LOG_FORMAT":            "json",
		"POCKET_STORAGE_BACKEND":       "SQLite",
		"POCKET_STORAGE_PATH":          "/tmp/budget.db",
		"POCKET_CYCLE_TIMEZONE":        "UTC",
		"POCKET_EXPORT_DELIMITER":      ";",
		"POCKET_NOTIFICATIONS_ENABLED": "false",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, BackendSQLite, config.Storage.Backend)
	assert.Equal(t, "/tmp/budget.db", config.StoragePath())
	assert.Equal(t, ';', config.Delimiter())
	assert.False(t, config.Notifications.Enabled)

	loc, err := config.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()

	configContent := `
log:
  level: "warn"
storage:
  backend: "memory"
export:
  delimiter: "|"
categories:
  - Rent
  - Groceries
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))
	t.Chdir(tempDir)

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, BackendMemory, config.Storage.Backend)
	assert.Equal(t, '|', config.Delimiter())
	assert.Equal(t, []string{"Rent", "Groceries"}, config.Categories)
}

func TestInitializeConfig_ExplicitFile(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: json\n"), 0600))

	config, err := InitializeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "json", config.Log.Format)

	_, err = InitializeConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()

	configContent := `
log:
  level: "warn"
export:
  delimiter: "|"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))
	t.Setenv("POCKET_LOG_LEVEL", "error")
	t.Chdir(tempDir)

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.Export.Delimiter)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "unknown backend",
			modifyConfig: func(c *Config) { c.Storage.Backend = "postgres" },
			expectError:  "invalid storage backend",
		},
		{
			name:         "unknown timezone",
			modifyConfig: func(c *Config) { c.Cycle.Timezone = "Mars/Olympus_Mons" },
			expectError:  "invalid cycle timezone",
		},
		{
			name:         "multi-character delimiter",
			modifyConfig: func(c *Config) { c.Export.Delimiter = ";;" },
			expectError:  "export delimiter must be a single character",
		},
		{
			name:         "no categories",
			modifyConfig: func(c *Config) { c.Categories = nil },
			expectError:  "categories must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestStoragePath_Defaults(t *testing.T) {
	config := Default()
	assert.Equal(t, "preferences.yaml", filepath.Base(config.StoragePath()))

	config.Storage.Backend = BackendSQLite
	assert.Equal(t, "budget.db", filepath.Base(config.StoragePath()))
	assert.Equal(t, ".pocket-budget", filepath.Base(filepath.Dir(config.StoragePath())))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := Default()
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	require.NotNil(t, logger)
	adapter, ok := logger.(*logging.LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, "info", adapter.Logrus().GetLevel().String())
}

func TestLoadEnv(t *testing.T) {
	clearTestEnvVars(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POCKET_LOG_LEVEL=debug\n"), 0600))
	t.Chdir(dir)

	assert.Equal(t, ".env", LoadEnv(nil))
	assert.Equal(t, "debug", GetEnv("POCKET_LOG_LEVEL", "info"))
	assert.Equal(t, "fallback", GetEnv("POCKET_NOT_SET", "fallback"))
}

// clearTestEnvVars isolates the test from the user's HOME and POCKET_ variables.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	envVars := []string{
		"POCKET_LOG_LEVEL",
		"POCKET_LOG_FORMAT",
		"POCKET_STORAGE_BACKEND",
		"POCKET_STORAGE_PATH",
		"POCKET_CYCLE_TIMEZONE",
		"POCKET_CATEGORIES",
		"POCKET_EXPORT_DELIMITER",
		"POCKET_NOTIFICATIONS_ENABLED",
		"POCKET_NOT_SET",
	}

	for _, envVar := range envVars {
		// Setenv registers the restore; Unsetenv then removes the variable.
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
