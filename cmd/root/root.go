// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"fjacquet/pocket-budget/internal/config"
	"fjacquet/pocket-budget/internal/container"
	"fjacquet/pocket-budget/internal/logging"

	"github.com/spf13/cobra"
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	Storage    string
	DataPath   string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewDiscard()

	// Flags holds the persistent flag values.
	Flags GlobalFlags

	// ContainerOptions are applied to every container the CLI builds.
	ContainerOptions []container.Option

	app *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "pocket-budget",
		Short: "A CLI tool to track income and expenses against a monthly budget.",
		Long: `pocket-budget records income and expense transactions and tracks them against a
monthly budget. The budget cycle may start on any day of the month; dashboards show
totals, category breakdowns, the remaining budget and its trend over the cycle.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE:               func(cmd *cobra.Command, args []string) error { return cmd.Help() },
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}
)

// Init initializes the root command and all flags
func Init() {
	if Cmd.PersistentFlags().Lookup("config") != nil {
		return
	}
	Cmd.PersistentFlags().StringVar(&Flags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.pocket-budget, .pocket-budget or .)")
	Cmd.PersistentFlags().StringVar(&Flags.Storage, "storage", "", "Storage backend: memory, yaml or sqlite")
	Cmd.PersistentFlags().StringVar(&Flags.DataPath, "data", "", "Path of the preference file or database")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
}

func setup(cmd *cobra.Command, _ []string) error {
	config.LoadEnv(nil)

	cfg, err := config.InitializeConfig(Flags.ConfigFile)
	if err != nil {
		return err
	}
	if Flags.Storage != "" {
		cfg.Storage.Backend = strings.ToLower(Flags.Storage)
	}
	if Flags.DataPath != "" {
		cfg.Storage.Path = Flags.DataPath
	}
	if Flags.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(Flags.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c, err := container.NewContainer(cfg, ContainerOptions...)
	if err != nil {
		return err
	}
	app = c
	Log = c.GetLogger()
	Log.Debug("Command started", logging.F("command", cmd.CommandPath()))
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	return err
}

// Shutdown releases the container when a command failed before its post-run hook.
func Shutdown() {
	if err := teardown(nil, nil); err != nil {
		Log.WithError(err).Warn("Failed to release storage")
	}
}

// App returns the container built for the running command.
func App() (*container.Container, error) {
	if app == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}
