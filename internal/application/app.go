// Package application wires configuration into a ready Service and provides
// the interactive terminal menu.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JonMunkholm/LovedOnes/internal/config"
	"github.com/JonMunkholm/LovedOnes/internal/core"
	"github.com/JonMunkholm/LovedOnes/internal/images"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App is a loaded record store plus everything it depends on. Both the
// server and lovedctl build one at startup.
type App struct {
	Config  *config.Config
	Service *core.Service
	Images  *images.Store

	pool *pgxpool.Pool
}

// Open selects the backend, creates the image directory and loads the
// table. A file that cannot be parsed does not fail Open: the store starts
// empty and the problem is kept as the load warning.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	backend, err := app.openBackend(ctx)
	if err != nil {
		return nil, err
	}

	imgs, err := images.NewStore(images.Options{
		Dir:          cfg.Image.Dir,
		MaxSize:      cfg.Image.MaxSize,
		AllowedTypes: cfg.Image.AllowedTypes,
	})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Images = imgs

	store := core.NewStore(backend)
	loadCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
	defer cancel()
	tbl, err := store.Load(loadCtx)
	if err != nil && !core.IsParseError(err) {
		app.Close()
		return nil, fmt.Errorf("load records: %w", err)
	}

	app.Service = core.NewService(store, images.ServiceStore(imgs), core.ServiceOptions{
		RemoveOrphanImages: cfg.Image.RemoveOrphans,
	})

	slog.Info("records loaded",
		"backend", backend.Name(),
		"count", tbl.Len(),
		"image_dir", imgs.Dir(),
	)
	return app, nil
}

func (a *App) openBackend(ctx context.Context) (core.Backend, error) {
	if a.Config.Store.Backend != config.BackendPostgres {
		return core.NewCSVBackend(a.Config.Store.DataFile), nil
	}

	pool, err := connectPool(ctx, a.Config.Database)
	if err != nil {
		return nil, err
	}
	a.pool = pool

	backend, err := core.NewPostgresBackend(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return backend, nil
}

func connectPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
