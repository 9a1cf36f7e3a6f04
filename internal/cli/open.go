package cli

import (
	"context"
	"fmt"

	"github.com/haomeng346/Second-hand-Marketplace/internal/config"
	"github.com/haomeng346/Second-hand-Marketplace/internal/logging"
	"github.com/haomeng346/Second-hand-Marketplace/internal/mykafka"
	"github.com/haomeng346/Second-hand-Marketplace/internal/repo"
	"github.com/haomeng346/Second-hand-Marketplace/internal/service"
	"gorm.io/gorm"
)

// Open builds a loaded Marketplace for cfg. The returned func releases the
// store and the event producer; it is safe to call when Open failed.
func Open(ctx context.Context, cfg config.Config) (*service.Marketplace, func(), error) {
	l := logging.FromContext(ctx)
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				l.Warn("close_failed", "error", err)
			}
		}
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, closeAll, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	m := &service.Marketplace{Store: store, Topic: cfg.EventsTopic}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return nil, closeAll, fmt.Errorf("kafka producer: %w", err)
		}
		closers = append(closers, prod.Close)
		m.Events = prod
		l.Info("events_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.EventsTopic)
	}

	if err := m.Load(ctx); err != nil {
		return nil, closeAll, err
	}
	return m, closeAll, nil
}

func openStore(ctx context.Context, cfg config.Config) (repo.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := repo.OpenSQLite(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return gormStore(db)
	case config.BackendPostgres:
		db, err := repo.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return gormStore(db)
	case config.BackendCSV:
		return repo.NewCSVStore(cfg.DataDir), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown STORE_BACKEND %q", config.ErrInvalid, cfg.Backend)
	}
}

func gormStore(db *gorm.DB) (repo.Store, func() error, error) {
	store, err := repo.NewGormStore(db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, nil, err
	}
	return store, store.Close, nil
}
