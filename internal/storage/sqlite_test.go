package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) (*SQLiteProvider, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "budget.db")
	p, err := NewSQLiteProvider(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p, path
}

func TestSQLiteProvider_Defaults(t *testing.T) {
	p, _ := newTestProvider(t)

	assert.Equal(t, "USD", p.GetString("selected_currency", "USD"))
	assert.Equal(t, 1, p.GetInt("month_cycle_start_day", 1))
	assert.Equal(t, 0.0, p.GetFloat("monthly_budget", 0))
}

func TestSQLiteProvider_CommitAndReopen(t *testing.T) {
	p, path := newTestProvider(t)

	require.NoError(t, p.SetString("selected_currency", "EUR"))
	require.NoError(t, p.SetInt("month_cycle_start_day", 31))
	require.NoError(t, p.SetFloat("monthly_budget", 1500.25))
	require.NoError(t, p.Commit())
	require.NoError(t, p.Close())

	reopened, err := NewSQLiteProvider(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, "EUR", reopened.GetString("selected_currency", "USD"))
	assert.Equal(t, 31, reopened.GetInt("month_cycle_start_day", 1))
	assert.Equal(t, 1500.25, reopened.GetFloat("monthly_budget", 0))

	keys, err := reopened.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"month_cycle_start_day", "monthly_budget", "selected_currency"}, keys)
}

func TestSQLiteProvider_UpsertOverwrites(t *testing.T) {
	p, _ := newTestProvider(t)

	require.NoError(t, p.SetString("k", "one"))
	require.NoError(t, p.Commit())
	require.NoError(t, p.SetString("k", "two"))
	require.NoError(t, p.Commit())

	assert.Equal(t, "two", p.GetString("k", ""))
	keys, err := p.Keys(context.Background())
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestSQLiteProvider_StagedReadsBeforeCommit(t *testing.T) {
	p, _ := newTestProvider(t)

	require.NoError(t, p.SetString("k", "staged"))
	assert.Equal(t, "staged", p.GetString("k", ""))

	keys, err := p.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSQLiteProvider_CommitAfterCloseFails(t *testing.T) {
	p, _ := newTestProvider(t)
	require.NoError(t, p.SetString("k", "v"))
	require.NoError(t, p.Commit())
	require.NoError(t, p.Close())

	require.NoError(t, p.SetString("k", "w"))
	assert.Error(t, p.Commit())
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))
}
