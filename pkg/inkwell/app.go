// Package inkwell wires the blog platform together: configuration, logging,
// the PostgreSQL store, the identity manager, the claims cache, and the
// role-dispatched permission resolver. The package also carries the CLI entry
// point so tests can drive the binary's commands without building it.
package inkwell

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell/inkwell/pkg/claims"
	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/identity"
	"github.com/inkwell/inkwell/pkg/logger"
	"github.com/inkwell/inkwell/pkg/permissions"
	"github.com/inkwell/inkwell/pkg/store"
	"github.com/inkwell/inkwell/pkg/store/postgres"
)

// App holds the wired application state.
type App struct {
	store     store.Store
	ident     *identity.Manager
	refresher claims.Refresher
	resolver  *permissions.Resolver
	config    *config.Config
	log       *logger.Log
	rdb       *redis.Client
}

// New connects the store and assembles the collaborator graph. The claims
// cache is only wired when a redis address is configured; otherwise refresh
// notifications are discarded.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New().ToPath(cfg.Log.Path).AtLevel(cfg.Log.Level).Make()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	st, err := postgres.NewPostgresStore(cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	ident := identity.NewManager(st)

	var rdb *redis.Client
	var refresher claims.Refresher = claims.Discard{}
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		refresher = claims.NewCache(rdb, ident, log.Logger)
	}

	return &App{
		store:     st,
		ident:     ident,
		refresher: refresher,
		resolver:  permissions.NewResolver(st, ident, refresher, log.Logger),
		config:    cfg,
		log:       log,
		rdb:       rdb,
	}, nil
}

// Store returns the underlying store (useful for testing).
func (a *App) Store() store.Store {
	return a.store
}

// Resolver returns the permission resolver.
func (a *App) Resolver() *permissions.Resolver {
	return a.resolver
}

// Identity returns the identity manager.
func (a *App) Identity() *identity.Manager {
	return a.ident
}

// Close releases the application's connections.
func (a *App) Close() error {
	var firstErr error
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			firstErr = err
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.log != nil {
		if err := a.log.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
