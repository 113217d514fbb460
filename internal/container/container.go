// Package container provides dependency injection for the pocket-budget application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"io"
	"time"

	"fjacquet/pocket-budget/internal/aggregate"
	"fjacquet/pocket-budget/internal/budget"
	"fjacquet/pocket-budget/internal/config"
	"fjacquet/pocket-budget/internal/dashboard"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/notify"
	"fjacquet/pocket-budget/internal/prefs"
	"fjacquet/pocket-budget/internal/storage"
	"fjacquet/pocket-budget/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation; dependencies are only reachable through getters.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	location  *time.Location
	provider  prefs.Provider
	closer    io.Closer
	store     *store.TransactionStore
	engine    *aggregate.Engine
	notifier  notify.Notifier
	budget    *budget.State
	dashboard *dashboard.Service
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger   logging.Logger
	provider prefs.Provider
	clock    func() time.Time
	notifier notify.Notifier
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithProvider replaces the configured storage backend.
func WithProvider(p prefs.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithClock replaces time.Now for cycle computations.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithNotifier replaces the notifier chosen from the configuration.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid cycle timezone: %w", err)
	}

	provider := o.provider
	var closer io.Closer
	if provider == nil {
		provider, closer, err = openProvider(cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	notifier := o.notifier
	if notifier == nil {
		if cfg.Notifications.Enabled {
			notifier = notify.NewLogNotifier(logger)
		} else {
			notifier = notify.Nop{}
		}
	}

	txStore := store.NewTransactionStore(provider, logger)
	engine := aggregate.NewEngine(logger)

	stateOpts := []budget.Option{
		budget.WithLocation(loc),
		budget.WithNotifier(notifier),
		budget.WithLogger(logger),
	}
	if o.clock != nil {
		stateOpts = append(stateOpts, budget.WithClock(o.clock))
	}
	state := budget.NewState(provider, txStore, stateOpts...)
	dash := dashboard.NewService(txStore, state, engine, logger)

	logger.Debug("Container initialized",
		logging.F(logging.FieldBackend, cfg.Storage.Backend),
		logging.F("notifications", cfg.Notifications.Enabled))

	return &Container{
		logger:    logger,
		config:    cfg,
		location:  loc,
		provider:  provider,
		closer:    closer,
		store:     txStore,
		engine:    engine,
		notifier:  notifier,
		budget:    state,
		dashboard: dash,
	}, nil
}

func openProvider(cfg *config.Config, logger logging.Logger) (prefs.Provider, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return prefs.NewMemory(), nil, nil
	case config.BackendSQLite:
		p, err := storage.NewSQLiteProvider(cfg.StoragePath(), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return p, p, nil
	case config.BackendYAML, "":
		p, err := prefs.OpenYAMLFile(cfg.StoragePath(), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open preference file: %w", err)
		}
		return p, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLocation returns the time zone cycles are computed in.
func (c *Container) GetLocation() *time.Location {
	return c.location
}

// GetProvider returns the preference backend.
func (c *Container) GetProvider() prefs.Provider {
	return c.provider
}

// GetStore returns the transaction store.
func (c *Container) GetStore() *store.TransactionStore {
	return c.store
}

// GetEngine returns the aggregation engine.
func (c *Container) GetEngine() *aggregate.Engine {
	return c.engine
}

// GetNotifier returns the notifier told about budget changes.
func (c *Container) GetNotifier() notify.Notifier {
	return c.notifier
}

// GetBudget returns the budget state.
func (c *Container) GetBudget() *budget.State {
	return c.budget
}

// GetDashboard returns the dashboard service.
func (c *Container) GetDashboard() *dashboard.Service {
	return c.dashboard
}

// Close releases the storage backend.
func (c *Container) Close() error {
	if c.closer != nil {
		if err := c.closer.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
