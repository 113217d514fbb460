package trend_test

import (
	"strings"
	"testing"
	"time"

	"fjacquet/pocket-budget/cmd/budget"
	"fjacquet/pocket-budget/cmd/cmdtest"
	"fjacquet/pocket-budget/cmd/trend"
	"fjacquet/pocket-budget/cmd/tx"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []*cobra.Command{trend.Cmd, budget.Cmd, tx.Cmd}

func TestTrend(t *testing.T) {
	env := cmdtest.New(t, time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC))

	for _, args := range [][]string{
		{"budget", "set", "1000"},
		{"tx", "add", "-t", "B", "-a", "200", "-d", "2024-03-10"},
		{"tx", "add", "-t", "A", "-a", "100", "-d", "2024-03-05"},
		{"tx", "add", "-t", "Pay", "-a", "5000", "--type", "income", "-d", "2024-03-07"},
	} {
		_, err := env.Run(t, commands, args...)
		require.NoError(t, err)
	}

	out, err := env.Run(t, commands, "trend")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "2024-03-01 00:00")
	assert.Contains(t, lines[1], "$1,000.00")
	assert.Contains(t, lines[2], "$900.00")
	assert.Contains(t, lines[3], "$700.00")
	assert.Contains(t, lines[4], "2024-03-20 12:00")
	assert.Contains(t, lines[4], "$700.00")
}

func TestTrend_NoBudget(t *testing.T) {
	env := cmdtest.New(t, time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC))

	out, err := env.Run(t, commands, "trend")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}
