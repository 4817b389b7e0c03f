package cli

import (
	"context"
	"fmt"

	"bias-assessment-service/internal/app"
	"bias-assessment-service/internal/catalog"
	"bias-assessment-service/internal/config"
	"bias-assessment-service/internal/infra/memory"
	"bias-assessment-service/internal/infra/postgres"
	infraredis "bias-assessment-service/internal/infra/redis"
	"bias-assessment-service/internal/infra/sqlite"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// deps holds the wired service and whatever needs closing on shutdown.
type deps struct {
	service *app.AssessmentService
	closers []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// buildDeps picks the catalog source, catalog cache and result store from cfg.
func buildDeps(ctx context.Context, cfg config.Config, logger *zap.Logger) (*deps, error) {
	d := &deps{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	loader, err := catalogLoader(ctx, cfg, d, logger)
	if err != nil {
		d.Close()
		return nil, err
	}

	catalogTTL := cfg.CatalogTTL()
	var catalogRepo app.CatalogRepository
	if redisClient != nil {
		catalogRepo = infraredis.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogRepo = memory.NewCatalogRepository(loader, catalogTTL)
	}

	results, err := resultStore(ctx, cfg, redisClient, d)
	if err != nil {
		d.Close()
		return nil, err
	}
	logger.Info("storage configured",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("redis_catalog_cache", redisClient != nil),
	)

	d.service = app.NewAssessmentService(catalogRepo, results)
	return d, nil
}

func catalogLoader(ctx context.Context, cfg config.Config, d *deps, logger *zap.Logger) (memory.CatalogLoader, error) {
	switch {
	case cfg.Catalog.Path != "":
		logger.Info("catalog source", zap.String("file", cfg.Catalog.Path))
		return catalog.NewFileLoader(cfg.Catalog.Path), nil
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		logger.Info("catalog source", zap.String("postgres", "assessment_questions"))
		return postgres.NewCatalogLoader(pool), nil
	default:
		logger.Info("catalog source", zap.String("embedded", "seed.yaml"))
		return memory.NewStaticCatalogLoader(catalog.Seed()), nil
	}
}

func resultStore(ctx context.Context, cfg config.Config, redisClient *redis.Client, d *deps) (app.ResultRepository, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory, "":
		return memory.NewResultStore(), nil
	case config.StoreRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("store driver %q needs redis.addr", cfg.Store.Driver)
		}
		return infraredis.NewResultStore(redisClient, cfg.ResultTTL()), nil
	case config.StorePostgres:
		if cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("store driver %q needs postgres.url", cfg.Store.Driver)
		}
		db := postgres.OpenBun(cfg.Postgres.URL)
		d.closers = append(d.closers, func() { _ = db.Close() })
		return postgres.NewResultStore(db), nil
	case config.StoreSQLite:
		store, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = store.Close() })
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
