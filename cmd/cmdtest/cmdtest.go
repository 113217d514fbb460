// Package cmdtest runs CLI commands in-process against an in-memory preference store.
package cmdtest

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"fjacquet/pocket-budget/cmd/root"
	"fjacquet/pocket-budget/internal/container"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/prefs"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var registered sync.Map

// Env is one isolated CLI environment. Commands run against the same Env share their data.
type Env struct {
	Prefs *prefs.Memory
	Now   time.Time
}

// New prepares an Env with an empty store and a clock fixed at now. Configuration lookups are
// confined to temporary directories and cycles are computed in UTC.
func New(t *testing.T, now time.Time) *Env {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("POCKET_CYCLE_TIMEZONE", "UTC")
	t.Setenv("POCKET_STORAGE_BACKEND", "memory")
	t.Chdir(t.TempDir())
	return &Env{Prefs: prefs.NewMemory(), Now: now}
}

// Run executes root with args after registering cmds on it. It returns everything written to
// the command output.
func (e *Env) Run(t *testing.T, cmds []*cobra.Command, args ...string) (string, error) {
	t.Helper()
	root.Init()
	for _, c := range cmds {
		if _, loaded := registered.LoadOrStore(c, true); !loaded {
			root.Cmd.AddCommand(c)
		}
	}
	resetFlags(root.Cmd)

	root.ContainerOptions = []container.Option{
		container.WithProvider(e.Prefs),
		container.WithLogger(logging.NewDiscard()),
		container.WithClock(func() time.Time { return e.Now }),
	}
	t.Cleanup(func() { root.ContainerOptions = nil })

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&out)
	root.Cmd.SetArgs(args)
	err := root.Cmd.Execute()
	root.Shutdown()
	return out.String(), err
}

// resetFlags restores every flag of c and its children to its default, since cobra keeps values
// between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}
