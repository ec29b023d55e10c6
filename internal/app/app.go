// Package app opens the configured backends and assembles the services
// shared by the API server and the maintenance CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"court-admin/internal/core/auth"
	"court-admin/internal/core/cache"
	"court-admin/internal/core/config"
	"court-admin/internal/core/database"
	"court-admin/internal/domain"
	"court-admin/internal/repo"
	"court-admin/internal/repo/mongostore"
	"court-admin/internal/service"
)

type App struct {
	Repos    domain.Repositories
	Cache    *cache.Cache
	Services *service.Services

	closers []func() error
}

// Open connects the store selected by cfg.Store.Backend and, when an
// address is configured, the redis cache. A failing redis is logged and
// skipped; the logo is then read from the store directly.
func Open(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{}
	switch cfg.Store.Backend {
	case "gorm":
		db, err := openGorm(cfg, l)
		if err != nil {
			return nil, err
		}
		l.Info("database connected", zap.String("driver", cfg.DB.Driver))
		a.Repos = repo.NewRepositories(db)
		a.closers = append(a.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	default:
		st, err := mongostore.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		l.Info("mongo connected", zap.String("database", cfg.Mongo.Database))
		a.Repos = st.Repositories()
		a.closers = append(a.closers, st.Close)
	}

	if cfg.Redis.Addr != "" {
		c := cache.New(cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.App.Name + ":",
		})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := c.Ping(pctx)
		cancel()
		if err != nil {
			l.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache = c
			a.closers = append(a.closers, c.Close)
		}
	}

	j := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute)
	a.Services = service.New(a.Repos, j, a.Cache, time.Duration(cfg.Redis.CacheTTLSec)*time.Second, l)
	return a, nil
}

func openGorm(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return db, nil
}

// Seed runs the first-start admin bootstrap.
func (a *App) Seed(ctx context.Context, cfg *config.Config, l *zap.Logger) (bool, error) {
	return service.Bootstrap(ctx, a.Services.Users, service.SeedAdmin{
		Username: cfg.Seed.Username,
		Password: cfg.Seed.Password,
		Name:     cfg.Seed.Name,
	}, l)
}

// Close releases backends in reverse open order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
