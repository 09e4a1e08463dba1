package container

import (
	"context"
	"fmt"

	"gohstat/adapters/api"
	"gohstat/adapters/db/postgres/migrations"
	"gohstat/adapters/postgres"
	"gohstat/app"
	"gohstat/internal"
	"gohstat/internal/config"
	"gohstat/internal/errors"
	"gohstat/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; nil when no database is configured
	DB *sqlx.DB

	// Repositories (data access layer)
	RunRepo ports.RunRepository

	// Services
	InteractionService *app.InteractionService
}

// New creates a new dependency injection container without database access
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	level, ok := internal.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown log level %q", cfg.LogLevel))
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(level),
	}
	c.InteractionService = app.NewInteractionService(nil, cfg.Engine, c.Logger)
	return c, nil
}

// Connect opens the configured database and wires the run repository
func (c *Container) Connect(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)

	return c.InitWithDatabase(db)
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db
	c.RunRepo = postgres.NewRunRepository(db)
	c.InteractionService = app.NewInteractionService(c.RunRepo, c.Config.Engine, c.Logger)
	return nil
}

// Migrator returns a migrator for the connected database
func (c *Container) Migrator() (*migrations.Migrator, error) {
	if c.DB == nil {
		return nil, fmt.Errorf("database is not connected")
	}
	return migrations.NewMigrator(c.DB.DB), nil
}

// APIServer builds the HTTP API over the interaction service
func (c *Container) APIServer() *api.Server {
	return api.NewServer(c.InteractionService, api.Config{
		MaxBodyBytes:   c.Config.Server.MaxBodyBytes,
		RequestLogging: c.Logger.Enabled(internal.LogLevelInfo),
		Logger:         c.Logger,
	})
}

// Shutdown releases held resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
